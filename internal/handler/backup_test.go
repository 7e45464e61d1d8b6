package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/pantrybot/internal/backup"
	"github.com/dukerupert/pantrybot/internal/model"
)

type fakeBackups struct {
	runErr    error
	list      []model.Backup
	lastLimit int
}

func (f *fakeBackups) RunNow(context.Context) (*model.Backup, error) {
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &model.Backup{ID: 1, Filename: "snap.db", Status: model.BackupStatusCompleted}, nil
}

func (f *fakeBackups) List(limit int) ([]model.Backup, error) {
	f.lastLimit = limit
	return f.list, nil
}

func TestBackupRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewBackupHandler(&fakeBackups{}, logger)
	rec := do(t, h.Run, "POST /admin/backups", "POST", "/admin/backups", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "snap.db", decode[model.Backup](t, rec).Filename)

	h = NewBackupHandler(&fakeBackups{runErr: backup.ErrInProgress}, logger)
	assert.Equal(t, http.StatusConflict, do(t, h.Run, "POST /admin/backups", "POST", "/admin/backups", nil, nil).Code)

	h = NewBackupHandler(&fakeBackups{runErr: errors.New("disk full")}, logger)
	rec = do(t, h.Run, "POST /admin/backups", "POST", "/admin/backups", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to run backup", errorMessage(t, rec))
}

func TestBackupList(t *testing.T) {
	fake := &fakeBackups{list: []model.Backup{{ID: 2}, {ID: 1}}}
	h := NewBackupHandler(fake, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := do(t, h.List, "GET /admin/backups", "GET", "/admin/backups", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Backup](t, rec), 2)
	assert.Equal(t, defaultBackupListLimit, fake.lastLimit)

	do(t, h.List, "GET /admin/backups", "GET", "/admin/backups?limit=5", nil, nil)
	assert.Equal(t, 5, fake.lastLimit)

	rec = do(t, h.List, "GET /admin/backups", "GET", "/admin/backups?limit=-1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
