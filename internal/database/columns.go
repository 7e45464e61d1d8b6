package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
)

// column is one ALTER TABLE ... ADD COLUMN applied by the additive migration.
type column struct {
	table string
	name  string
	decl  string
}

// additiveColumns lists the columns that were added to the base tables over
// time. Databases created by older builds may already carry any subset of them.
var additiveColumns = []column{
	{"grocery_items", "user_id", "INTEGER"},
	{"grocery_items", "quantity", "INTEGER NOT NULL DEFAULT 1"},
	{"grocery_items", "category", "TEXT NOT NULL DEFAULT 'Vegetables'"},
	{"grocery_items", "priority", "INTEGER NOT NULL DEFAULT 0"},
	{"grocery_items", "metric", "TEXT"},
	{"grocery_items", "amount_per_item", "TEXT"},

	{"items", "user_id", "INTEGER"},
	{"items", "metric", "TEXT"},
	{"items", "amount_per_item", "TEXT"},

	{"item_history", "metric", "TEXT"},
	{"item_history", "amount_per_item", "TEXT"},

	{"recipes", "user_id", "INTEGER"},
	{"recipes", "created_at", "TEXT"},
}

func init() {
	goose.AddNamedMigrationContext("00002_additive_columns.go", upAdditiveColumns, nil)
}

func upAdditiveColumns(ctx context.Context, tx *sql.Tx) error {
	for _, c := range additiveColumns {
		if err := addColumn(ctx, tx, c); err != nil {
			return err
		}
	}
	return nil
}

// addColumn attempts the ALTER and treats an existing column as success.
func addColumn(ctx context.Context, tx *sql.Tx, c column) error {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.name, c.decl)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		if isDuplicateColumn(err) {
			return nil
		}
		return fmt.Errorf("add column %s.%s: %w", c.table, c.name, err)
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column name")
}
