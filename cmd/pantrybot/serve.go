package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/server"
)

const (
	shutdownTimeout   = 10 * time.Second
	rateLimitSweep    = 5 * time.Minute
	generatedKeyBytes = 32
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	secret := []byte(a.cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, generatedKeyBytes)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate jwt secret: %w", err)
		}
		a.logger.Warn("auth.jwt_secret not set, using a random secret; tokens will not survive a restart")
	}
	tokens := auth.NewTokens(secret, a.cfg.Auth.TokenTTL)

	backups, err := a.backupManager(ctx, db)
	if err != nil {
		return err
	}

	srv := server.New(a.cfg, db, tokens, backups, a.logger)
	go srv.RateLimiter().Run(ctx, rateLimitSweep)

	httpServer := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("pantrybot listening", "addr", httpServer.Addr, "version", a.cfg.Release.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
