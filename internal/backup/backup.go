// Package backup writes consistent, optionally encrypted snapshots of the
// database and ships them to object storage.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/pantrybot/internal/model"
	"github.com/dukerupert/pantrybot/internal/storage"
	"github.com/dukerupert/pantrybot/internal/store"
)

// ErrInProgress is returned when a backup is requested while one is running.
var ErrInProgress = errors.New("backup already in progress")

type Config struct {
	Dir        string
	Passphrase string
}

// Manager runs backups one at a time.
type Manager struct {
	mu      sync.Mutex
	cfg     Config
	db      *sql.DB
	backups *store.BackupStore
	storage storage.ObjectStorage
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager returns a Manager. objects may be nil, in which case snapshots
// are only kept on local disk.
func NewManager(cfg Config, db *sql.DB, backups *store.BackupStore, objects storage.ObjectStorage, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		db:      db,
		backups: backups,
		storage: objects,
		logger:  logger,
		now:     time.Now,
	}
}

// Encrypted reports whether snapshots are sealed with a passphrase.
func (m *Manager) Encrypted() bool { return m.cfg.Passphrase != "" }

func (m *Manager) List(limit int) ([]model.Backup, error) {
	return m.backups.List(limit)
}

// RunNow takes a snapshot immediately and returns the finished record. A
// failed run is still recorded, with status failed.
func (m *Manager) RunNow(ctx context.Context) (*model.Backup, error) {
	if !m.mu.TryLock() {
		return nil, ErrInProgress
	}
	defer m.mu.Unlock()

	filename := fmt.Sprintf("pantrybot-%s-%s.db",
		m.now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
	if m.Encrypted() {
		filename += ".enc"
	}
	var objectKey string
	if m.storage != nil {
		objectKey = "backups/" + filename
	}

	record, err := m.backups.Create(filename, objectKey, m.Encrypted())
	if err != nil {
		return nil, fmt.Errorf("create backup record: %w", err)
	}
	log := m.logger.With("backup_id", record.ID, "filename", filename)

	localPath, size, err := m.run(ctx, filename, objectKey)
	if err != nil {
		log.Error("backup failed", "error", err)
		if markErr := m.backups.MarkFailed(record.ID, err.Error()); markErr != nil {
			log.Error("mark backup failed", "error", markErr)
		}
		return nil, err
	}

	if err := m.backups.MarkCompleted(record.ID, localPath, size); err != nil {
		return nil, err
	}
	log.Info("backup completed", "size_bytes", size, "uploaded", objectKey != "")
	return m.backups.GetByID(record.ID)
}

func (m *Manager) run(ctx context.Context, filename, objectKey string) (string, int64, error) {
	if err := os.MkdirAll(m.cfg.Dir, 0o700); err != nil {
		return "", 0, fmt.Errorf("create backup dir: %w", err)
	}

	if _, err := m.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return "", 0, fmt.Errorf("wal checkpoint: %w", err)
	}

	localPath := filepath.Join(m.cfg.Dir, filename)
	snapshot := localPath
	if m.Encrypted() {
		snapshot = filepath.Join(m.cfg.Dir, "."+filename+".tmp")
		defer os.Remove(snapshot)
	}

	if _, err := m.db.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return "", 0, fmt.Errorf("vacuum into: %w", err)
	}

	if m.Encrypted() {
		if err := EncryptFile(snapshot, localPath, m.cfg.Passphrase); err != nil {
			os.Remove(localPath)
			return "", 0, fmt.Errorf("encrypt: %w", err)
		}
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return "", 0, fmt.Errorf("stat snapshot: %w", err)
	}

	if objectKey != "" {
		if err := m.upload(ctx, localPath, objectKey, info.Size()); err != nil {
			return "", 0, err
		}
	}
	return localPath, info.Size(), nil
}

func (m *Manager) upload(ctx context.Context, path, key string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	if err := m.storage.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if err := m.storage.Put(ctx, key, f, size, "application/octet-stream"); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}
