package store

import (
	"errors"
	"testing"

	"github.com/dukerupert/pantrybot/internal/model"
)

func TestBackupLifecycle(t *testing.T) {
	bs := NewBackupStore(setupTestDB(t))

	b, err := bs.Create("pantrybot-1.db", "backups/pantrybot-1.db", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != model.BackupStatusPending {
		t.Errorf("status = %q, want pending", b.Status)
	}

	if err := bs.MarkCompleted(b.ID, "/var/backup/pantrybot-1.db", 2048); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := bs.GetByID(b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.BackupStatusCompleted || got.SizeBytes != 2048 || !got.Encrypted {
		t.Errorf("got = %+v", got)
	}
	if got.CompletedAt == nil {
		t.Error("expected completed_at")
	}

	failed, _ := bs.Create("pantrybot-2.db", "", false)
	if err := bs.MarkFailed(failed.ID, "no space"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	list, err := bs.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != failed.ID || list[0].ErrorMessage != "no space" {
		t.Errorf("list[0] = %+v, want newest failed backup", list[0])
	}

	if _, err := bs.GetByID(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
