package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dukerupert/pantrybot/internal/config"
	"github.com/dukerupert/pantrybot/internal/database"
	"github.com/dukerupert/pantrybot/internal/logging"
)

type app struct {
	cfgPath  string
	dbPath   string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pantrybot",
		Short:         "Grocery list and pantry tracker server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ./pantrybot.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path, overrides database.path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newUserCmd(a),
		newBackupCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.Setup(cfg.Log.Level, cfg.Log.Format)
	database.SetLogger(a.logger.With("component", "migrate"))
	return nil
}

// openDB opens and migrates the configured database and seeds the default
// accounts when enabled.
func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := database.Open(a.cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	err = database.Seed(ctx, db, database.SeedOptions{
		Enabled:       a.cfg.Seed.Enabled,
		AdminUsername: a.cfg.Seed.AdminUsername,
		AdminPassword: a.cfg.Seed.AdminPassword,
		UserUsername:  a.cfg.Seed.UserUsername,
		UserPassword:  a.cfg.Seed.UserPassword,
		Iterations:    a.cfg.Auth.PasswordIterations,
	}, a.logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return db, nil
}
