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

const (
	expiringLimit       = 10
	expiredGraceDays    = -1
	DefaultExpiringDays = 3
)

type PantryStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPantryStore(db *sql.DB) *PantryStore {
	return &PantryStore{db: db, now: time.Now}
}

type PantryInput struct {
	Name          string
	Type          string
	Quantity      int
	ExpiryDate    string
	Metric        *string
	AmountPerItem *string
}

func (in *PantryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	switch {
	case in.Name == "":
		return invalid("name is required")
	case in.Type == "":
		return invalid("type is required")
	case in.ExpiryDate == "":
		return invalid("expiry_date is required")
	case in.Quantity < 0:
		return invalid("quantity must not be negative")
	}
	if _, err := time.Parse(model.DateLayout, in.ExpiryDate); err != nil {
		return invalid("expiry_date must be YYYY-MM-DD")
	}
	return nil
}

// pantrySortColumns whitelists the columns a listing may be ordered by.
var pantrySortColumns = map[string]string{
	"name":        "name COLLATE NOCASE",
	"type":        "type COLLATE NOCASE",
	"expiry_date": "expiry_date",
	"entry_date":  "entry_date",
	"quantity":    "quantity",
}

const defaultPantrySort = "expiry_date"

var pantryColumns = []string{
	"id", "user_id", "name", "type", "quantity",
	"entry_date", "expiry_date", "metric", "amount_per_item",
}

var pantryCols = strings.Join(pantryColumns, ", ")

func scanPantryItem(s scanner, extra ...any) (*model.PantryItem, error) {
	var item model.PantryItem
	var userID sql.NullInt64
	var metric, amount sql.NullString

	dest := []any{
		&item.ID, &userID, &item.Name, &item.Type, &item.Quantity,
		&item.EntryDate, &item.ExpiryDate, &metric, &amount,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	item.UserID = userID.Int64
	item.Metric = stringPtr(metric)
	item.AmountPerItem = stringPtr(amount)
	return &item, nil
}

func (s *PantryStore) GetItem(userID, id int64) (*model.PantryItem, error) {
	row := s.db.QueryRow(`SELECT `+pantryCols+` FROM items WHERE id = ? AND user_id = ?`, id, userID)
	item, err := scanPantryItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pantry item: %w", err)
	}
	return item, nil
}

// ListItems returns the user's pantry ordered ascending by sortBy. Unknown
// sort keys fall back to expiry date.
func (s *PantryStore) ListItems(userID int64, sortBy, query string) ([]model.PantryItem, error) {
	if userID <= 0 {
		return nil, invalid("user_id is required")
	}

	col, ok := pantrySortColumns[sortBy]
	if !ok {
		col = pantrySortColumns[defaultPantrySort]
	}

	q := sq.Select(pantryColumns...).
		From("items").
		Where(sq.Eq{"user_id": userID}).
		OrderBy(col+" ASC", "id ASC")
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where(`name LIKE ? ESCAPE '\'`, likePattern(query))
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pantry query: %w", err)
	}

	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list pantry items: %w", err)
	}
	defer rows.Close()

	items := []model.PantryItem{}
	for rows.Next() {
		item, err := scanPantryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pantry item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// AddItem stores a pantry item with today's date as its entry date.
func (s *PantryStore) AddItem(userID int64, in PantryInput) (*model.PantryItem, error) {
	if userID <= 0 {
		return nil, invalid("user_id is required")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	entry := s.now().Format(model.DateLayout)
	result, err := s.db.Exec(
		`INSERT INTO items (user_id, name, type, quantity, entry_date, expiry_date, metric, amount_per_item)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, in.Name, in.Type, in.Quantity, entry, in.ExpiryDate,
		nullString(in.Metric), nullString(in.AmountPerItem),
	)
	if err != nil {
		return nil, fmt.Errorf("insert pantry item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(userID, id)
}

// UpdateItem replaces the item's fields. The entry date is kept.
func (s *PantryStore) UpdateItem(userID, id int64, in PantryInput) (*model.PantryItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`UPDATE items SET name = ?, type = ?, quantity = ?, expiry_date = ?, metric = ?, amount_per_item = ?
		 WHERE id = ? AND user_id = ?`,
		in.Name, in.Type, in.Quantity, in.ExpiryDate,
		nullString(in.Metric), nullString(in.AmountPerItem), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update pantry item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetItem(userID, id)
}

func (s *PantryStore) DeleteItem(userID, id int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete pantry item: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// ListExpiring returns up to ten items whose expiry date is between one day
// ago and daysAhead days from today, soonest first.
func (s *PantryStore) ListExpiring(userID int64, daysAhead int) ([]model.ExpiringItem, error) {
	if userID <= 0 {
		return nil, invalid("user_id is required")
	}

	today := s.now().Format(model.DateLayout)
	daysLeft := `CAST(julianday(expiry_date) - julianday(?) AS INTEGER)`

	rows, err := s.db.Query(
		`SELECT `+pantryCols+`, `+daysLeft+` AS days_left
		 FROM items
		 WHERE user_id = ? AND `+daysLeft+` BETWEEN ? AND ?
		 ORDER BY expiry_date ASC, id ASC
		 LIMIT ?`,
		today, userID, today, expiredGraceDays, daysAhead, expiringLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring items: %w", err)
	}
	defer rows.Close()

	items := []model.ExpiringItem{}
	for rows.Next() {
		var days int
		item, err := scanPantryItem(rows, &days)
		if err != nil {
			return nil, fmt.Errorf("scan expiring item: %w", err)
		}
		items = append(items, model.ExpiringItem{PantryItem: *item, DaysUntilExpiry: days})
	}
	return items, rows.Err()
}
