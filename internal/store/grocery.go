package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dukerupert/pantrybot/internal/model"
)

type GroceryStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db, now: time.Now}
}

// GroceryInput carries the writable fields of a grocery item.
type GroceryInput struct {
	Name          string
	Quantity      int
	Category      string
	Checked       bool
	Priority      int
	Metric        *string
	AmountPerItem *string
}

func (in *GroceryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return invalid("name is required")
	}
	if in.Quantity < 0 {
		return invalid("quantity must not be negative")
	}
	return nil
}

// GroceryListOptions narrows and orders a grocery listing.
type GroceryListOptions struct {
	Sort  model.GrocerySort
	Query string
}

var grocerySortOrder = map[model.GrocerySort][]string{
	model.GrocerySortNewest:    {"created_at DESC", "id DESC"},
	model.GrocerySortOldest:    {"created_at ASC", "id ASC"},
	model.GrocerySortAZ:        {"name COLLATE NOCASE ASC", "id ASC"},
	model.GrocerySortZA:        {"name COLLATE NOCASE DESC", "id DESC"},
	model.GrocerySortUnchecked: {"checked ASC", "name COLLATE NOCASE ASC", "id ASC"},
}

func scanGroceryItem(s scanner) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var userID sql.NullInt64
	var checked int
	var metric, amount sql.NullString

	err := s.Scan(
		&item.ID, &userID, &item.Name, &item.Quantity, &item.Category,
		&checked, &item.Priority, &metric, &amount, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.UserID = userID.Int64
	item.Checked = checked != 0
	item.Metric = stringPtr(metric)
	item.AmountPerItem = stringPtr(amount)
	return &item, nil
}

var groceryColumns = []string{
	"id", "user_id", "name", "quantity", "category",
	"checked", "priority", "metric", "amount_per_item", "created_at",
}

var groceryCols = strings.Join(groceryColumns, ", ")

func (s *GroceryStore) GetItem(userID, id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+groceryCols+` FROM grocery_items WHERE id = ? AND user_id = ?`, id, userID)
	item, err := scanGroceryItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery item: %w", err)
	}
	return item, nil
}

// ListItems returns the user's grocery items, newest first unless opts says otherwise.
func (s *GroceryStore) ListItems(userID int64, opts GroceryListOptions) ([]model.GroceryItem, error) {
	if userID <= 0 {
		return nil, invalid("user_id is required")
	}

	order, ok := grocerySortOrder[opts.Sort]
	if !ok {
		order = grocerySortOrder[model.GrocerySortNewest]
	}

	q := sq.Select(groceryColumns...).
		From("grocery_items").
		Where(sq.Eq{"user_id": userID}).
		OrderBy(order...)
	if query := strings.TrimSpace(opts.Query); query != "" {
		q = q.Where(`name LIKE ? ESCAPE '\'`, likePattern(query))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build grocery query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	defer rows.Close()

	items := []model.GroceryItem{}
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

const upsertHistory = `INSERT INTO item_history (name, category, user_id, last_used, frequency, metric, amount_per_item)
VALUES (?, ?, ?, ?, 1, ?, ?)
ON CONFLICT (name, category, user_id) DO UPDATE SET
	frequency = item_history.frequency + 1,
	last_used = excluded.last_used,
	metric = excluded.metric,
	amount_per_item = excluded.amount_per_item`

// AddItem inserts a grocery item and records it in the user's history. Both
// writes commit together or not at all.
func (s *GroceryStore) AddItem(userID int64, in GroceryInput) (*model.GroceryItem, error) {
	if userID <= 0 {
		return nil, invalid("user_id is required")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO grocery_items (user_id, name, quantity, category, checked, priority, metric, amount_per_item, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, in.Name, in.Quantity, in.Category, in.Checked, in.Priority,
		nullString(in.Metric), nullString(in.AmountPerItem), now.Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(upsertHistory,
		in.Name, in.Category, userID, now.Format(usedAtLayout),
		nullString(in.Metric), nullString(in.AmountPerItem),
	); err != nil {
		return nil, fmt.Errorf("upsert item history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &model.GroceryItem{
		ID:            id,
		UserID:        userID,
		Name:          in.Name,
		Quantity:      in.Quantity,
		Category:      in.Category,
		Checked:       in.Checked,
		Priority:      in.Priority,
		Metric:        in.Metric,
		AmountPerItem: in.AmountPerItem,
		CreatedAt:     now.Format(timestampLayout),
	}, nil
}

// UpdateItem replaces every writable field of the user's item.
func (s *GroceryStore) UpdateItem(userID, id int64, in GroceryInput) (*model.GroceryItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`UPDATE grocery_items SET name = ?, quantity = ?, category = ?, checked = ?, priority = ?, metric = ?, amount_per_item = ?
		 WHERE id = ? AND user_id = ?`,
		in.Name, in.Quantity, in.Category, in.Checked, in.Priority,
		nullString(in.Metric), nullString(in.AmountPerItem), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update grocery item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetItem(userID, id)
}

// DeleteItem removes the user's item and reports how many rows went away.
func (s *GroceryStore) DeleteItem(userID, id int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM grocery_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete grocery item: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func (s *GroceryStore) ClearChecked(userID int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM grocery_items WHERE user_id = ? AND checked = 1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear checked: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
