package store

import (
	"database/sql"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	// fixed width so last_used values sort correctly as text
	usedAtLayout = "2006-01-02 15:04:05.000000"
)

type scanner interface{ Scan(...any) error }

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// likePattern turns a user query into a substring pattern with LIKE
// wildcards escaped by backslash. SQLite's LIKE folds ASCII case only, so
// the query is not lowered here.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func stamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
