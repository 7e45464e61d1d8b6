package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dukerupert/pantrybot/internal/backup"
	"github.com/dukerupert/pantrybot/internal/database"
	"github.com/dukerupert/pantrybot/internal/storage"
	"github.com/dukerupert/pantrybot/internal/store"
)

func (a *app) backupManager(ctx context.Context, db *sql.DB) (*backup.Manager, error) {
	objects, err := storage.New(ctx, a.cfg.Storage)
	if err != nil {
		return nil, err
	}
	return backup.NewManager(
		backup.Config{Dir: a.cfg.Backup.Dir, Passphrase: a.cfg.Backup.Passphrase},
		db, store.NewBackupStore(db), objects, a.logger.With("component", "backup"),
	), nil
}

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the database now",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(a.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := a.backupManager(cmd.Context(), db)
			if err != nil {
				return err
			}
			b, err := m.RunNow(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "decrypt <in> <out>",
		Short: "Decrypt a sealed snapshot with backup.passphrase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Backup.Passphrase == "" {
				return errors.New("backup.passphrase is not set")
			}
			return backup.DecryptFile(args[0], args[1], a.cfg.Backup.Passphrase)
		},
	})
	return cmd
}
