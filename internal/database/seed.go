package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/pantrybot/internal/auth"
)

// SeedOptions describes the two accounts created on an empty database.
type SeedOptions struct {
	Enabled       bool
	AdminUsername string
	AdminPassword string
	UserUsername  string
	UserPassword  string
	Iterations    int
}

// Seed inserts one admin and one regular account when the users table is
// empty. It does nothing when disabled or when any user already exists.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions, logger *slog.Logger) error {
	if !opts.Enabled {
		return nil
	}

	admin := strings.TrimSpace(opts.AdminUsername)
	user := strings.TrimSpace(opts.UserUsername)
	if admin == "" || user == "" {
		return errors.New("seed usernames must not be empty")
	}
	if admin == user {
		return fmt.Errorf("seed usernames must differ, both are %q", admin)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	accounts := []struct {
		username string
		password string
		isAdmin  bool
	}{
		{admin, opts.AdminPassword, true},
		{user, opts.UserPassword, false},
	}

	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	for _, a := range accounts {
		password := a.password
		if password == "" {
			password, err = randomPassword()
			if err != nil {
				return err
			}
			logger.Warn("generated seed password, change it after first login",
				"username", a.username, "password", password)
		}

		hash, err := auth.HashPassword(password, opts.Iterations)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?)`,
			a.username, hash, a.isAdmin, now,
		); err != nil {
			return fmt.Errorf("insert seed user %q: %w", a.username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	logger.Info("seeded users", "admin", admin, "user", user)
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
