package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/pantrybot/internal/model"
	"github.com/dukerupert/pantrybot/internal/store"
)

func TestSuggestions(t *testing.T) {
	env := newTestEnv(t)
	h := NewSuggestionHandler(store.NewHistoryStore(env.db), env.logger)
	groceries := store.NewGroceryStore(env.db)

	add := func(userID int64, name string, times int) {
		for i := 0; i < times; i++ {
			_, err := groceries.AddItem(userID, store.GroceryInput{Name: name, Quantity: 1, Category: "Other"})
			require.NoError(t, err)
		}
	}
	add(env.alice.ID, "milk", 3)
	add(env.alice.ID, "oat milk", 1)
	add(env.bob.ID, "milkshake", 1)

	rec := do(t, h.List, "GET /grocery/suggestions", "GET", "/grocery/suggestions?query=milk", env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]model.Suggestion](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "milk", got[0].Name)
	assert.Equal(t, 3, got[0].Frequency)

	rec = do(t, h.List, "GET /grocery/suggestions", "GET", "/grocery/suggestions?query=milk&admin=true", env.alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h.List, "GET /grocery/suggestions", "GET", "/grocery/suggestions?query=milk&admin=true", env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Suggestion](t, rec), 3)

	rec = do(t, h.List, "GET /grocery/suggestions", "GET", "/grocery/suggestions?admin=maybe", env.admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSuggestion(t *testing.T) {
	env := newTestEnv(t)
	h := NewSuggestionHandler(store.NewHistoryStore(env.db), env.logger)
	_, err := store.NewGroceryStore(env.db).AddItem(env.alice.ID, store.GroceryInput{Name: "milk", Quantity: 1, Category: "Dairy"})
	require.NoError(t, err)

	pattern := "DELETE /grocery/suggestions/{name}/{category}/{user_id}"
	path := fmt.Sprintf("/grocery/suggestions/milk/Dairy/%d", env.alice.ID)

	assert.Equal(t, http.StatusForbidden, do(t, h.Delete, pattern, "DELETE", path, env.bob, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h.Delete, pattern, "DELETE", path, env.alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h.Delete, pattern, "DELETE", path, env.alice, nil).Code)
}
