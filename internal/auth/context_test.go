package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		UserID:   1,
		Username: "alice",
		IsAdmin:  true,
		TokenID:  "jti-1",
	}

	got, ok := FromContext(WithAuth(context.Background(), ac))
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	assert.Equal(t, ac, got)
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestUserID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: 7})
	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != 0 {
		t.Error("expected 0 for missing context")
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: 1, IsAdmin: true})
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin = true")
	}
}

func TestIsAdminFalse(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: 2})
	if IsAdmin(ctx) {
		t.Error("expected IsAdmin = false for regular user")
	}
}

func TestIsAdminMissing(t *testing.T) {
	if IsAdmin(context.Background()) {
		t.Error("expected IsAdmin = false for missing context")
	}
}
