package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const pragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Open opens a SQLite database at the given path and brings its schema up to
// date. Opening the same database repeatedly is safe.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// every connection to :memory: is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

var migrationLog goose.Logger = goose.NopLogger()

// SetLogger sends goose's migration output to logger. A nil logger silences it.
func SetLogger(logger *slog.Logger) {
	if logger == nil {
		migrationLog = goose.NopLogger()
		return
	}
	migrationLog = slogGoose{logger: logger}
}

// slogGoose adapts a slog.Logger to goose.Logger.
type slogGoose struct {
	logger *slog.Logger
}

func (l slogGoose) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l slogGoose) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// writerGoose prints goose output verbatim, for the status table.
type writerGoose struct {
	w io.Writer
}

func (l writerGoose) Printf(format string, v ...any) {
	fmt.Fprintf(l.w, strings.TrimSuffix(format, "\n")+"\n", v...)
}

func (l writerGoose) Fatalf(format string, v ...any) {
	l.Printf(format, v...)
	os.Exit(1)
}

func setupGoose() error {
	goose.SetLogger(migrationLog)
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return nil
}

// Migrate applies every pending migration in version order.
func Migrate(db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(context.Background(), db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Version returns the highest applied migration version.
func Version(db *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return v, nil
}

// Status writes the applied/pending state of every migration to w.
func Status(db *sql.DB, w io.Writer) error {
	if err := setupGoose(); err != nil {
		return err
	}
	goose.SetLogger(writerGoose{w: w})
	defer goose.SetLogger(migrationLog)

	if err := goose.Status(db, "migrations"); err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	return nil
}
