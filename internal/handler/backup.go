package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/pantrybot/internal/backup"
	"github.com/dukerupert/pantrybot/internal/model"
)

const defaultBackupListLimit = 20

// BackupRunner is the part of backup.Manager the admin endpoints use.
type BackupRunner interface {
	RunNow(ctx context.Context) (*model.Backup, error)
	List(limit int) ([]model.Backup, error)
}

type BackupHandler struct {
	backups BackupRunner
	logger  *slog.Logger
}

func NewBackupHandler(backups BackupRunner, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{backups: backups, logger: logger}
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	b, err := h.backups.RunNow(r.Context())
	if errors.Is(err, backup.ErrInProgress) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondError(w, h.logger, err, "run backup")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultBackupListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	backups, err := h.backups.List(limit)
	if err != nil {
		respondError(w, h.logger, err, "list backups")
		return
	}
	writeJSON(w, http.StatusOK, backups)
}
