package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dukerupert/pantrybot/internal/model"
)

const (
	userSuggestionLimit  = 5
	adminSuggestionLimit = 1000
)

// HistoryStore reads and maintains item_history, the per-user record of
// previously added grocery items that drives suggestions.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func suggestionQuery(query string, userID int64, admin bool) sq.SelectBuilder {
	var q sq.SelectBuilder
	if admin {
		q = sq.Select("name", "category", "MAX(frequency)", "metric", "amount_per_item").
			From("item_history").
			GroupBy("name", "category", "metric", "amount_per_item").
			OrderBy("MAX(frequency) DESC", "MAX(last_used) DESC").
			Limit(adminSuggestionLimit)
	} else {
		q = sq.Select("name", "category", "frequency", "metric", "amount_per_item").
			From("item_history").
			Where(sq.Eq{"user_id": userID}).
			OrderBy("frequency DESC", "last_used DESC").
			Limit(userSuggestionLimit)
	}

	if query = strings.TrimSpace(query); query != "" {
		q = q.Where(`name LIKE ? ESCAPE '\'`, likePattern(query))
	}
	return q
}

// Suggest ranks history entries whose name contains query. Regular lookups
// are limited to the user's own history; admin lookups aggregate across all
// users.
func (s *HistoryStore) Suggest(query string, userID int64, admin bool) ([]model.Suggestion, error) {
	if !admin && userID <= 0 {
		return nil, invalid("user_id is required")
	}

	stmt, args, err := suggestionQuery(query, userID, admin).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build suggestion query: %w", err)
	}

	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []model.Suggestion{}
	for rows.Next() {
		var sg model.Suggestion
		var metric, amount sql.NullString
		if err := rows.Scan(&sg.Name, &sg.Category, &sg.Frequency, &metric, &amount); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sg.Metric = stringPtr(metric)
		sg.AmountPerItem = stringPtr(amount)
		suggestions = append(suggestions, sg)
	}
	return suggestions, rows.Err()
}

// DeleteSuggestion forgets one (name, category) entry of the user's history.
func (s *HistoryStore) DeleteSuggestion(name, category string, userID int64) error {
	result, err := s.db.Exec(
		`DELETE FROM item_history WHERE name = ? AND category = ? AND user_id = ?`,
		name, category, userID,
	)
	if err != nil {
		return fmt.Errorf("delete suggestion: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MigrateUserData copies the source user's grocery items and history to the
// target user. The source is left untouched. History entries the target
// already has are merged: frequencies add and the later last_used wins.
func (s *HistoryStore) MigrateUserData(sourceID, targetID int64) (*model.TransferResult, error) {
	if sourceID <= 0 || targetID <= 0 {
		return nil, invalid("source_user_id and target_user_id are required")
	}
	if sourceID == targetID {
		return nil, invalid("source and target users must differ")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, id := range []int64{sourceID, targetID} {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM users WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("check user %d: %w", id, err)
		}
	}

	var res model.TransferResult

	result, err := tx.Exec(
		`INSERT INTO grocery_items (user_id, name, quantity, category, checked, priority, metric, amount_per_item, created_at)
		 SELECT ?, name, quantity, category, checked, priority, metric, amount_per_item, created_at
		 FROM grocery_items WHERE user_id = ?`,
		targetID, sourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("copy grocery items: %w", err)
	}
	res.GroceryItems, _ = result.RowsAffected()

	result, err = tx.Exec(
		`INSERT INTO item_history (name, category, user_id, last_used, frequency, metric, amount_per_item)
		 SELECT name, category, ?, last_used, frequency, metric, amount_per_item
		 FROM item_history WHERE user_id = ?
		 ON CONFLICT (name, category, user_id) DO UPDATE SET
			frequency = item_history.frequency + excluded.frequency,
			last_used = MAX(item_history.last_used, excluded.last_used)`,
		targetID, sourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("copy item history: %w", err)
	}
	res.History, _ = result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &res, nil
}
