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

type RecipeStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db, now: time.Now}
}

type RecipeInput struct {
	Title       string
	Author      string
	Description string
	PrepTime    int
	CookTime    int
}

func (in *RecipeInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Title == "":
		return invalid("title is required")
	case in.Author == "":
		return invalid("author is required")
	case in.PrepTime < 0 || in.CookTime < 0:
		return invalid("prep_time and cook_time must not be negative")
	}
	return nil
}

var recipeColumns = []string{"id", "user_id", "title", "author", "description", "prep_time", "cook_time", "created_at"}

func scanRecipe(s scanner) (*model.Recipe, error) {
	var r model.Recipe
	var userID, prep, cook sql.NullInt64
	var desc, created sql.NullString
	if err := s.Scan(&r.ID, &userID, &r.Title, &r.Author, &desc, &prep, &cook, &created); err != nil {
		return nil, err
	}
	r.UserID = userID.Int64
	r.Description = desc.String
	r.PrepTime = int(prep.Int64)
	r.CookTime = int(cook.Int64)
	r.CreatedAt = created.String
	return &r, nil
}

func (s *RecipeStore) Get(userID, id int64) (*model.Recipe, error) {
	stmt, args, err := sq.Select(recipeColumns...).From("recipes").
		Where(sq.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recipe query: %w", err)
	}
	r, err := scanRecipe(s.db.QueryRow(stmt, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

// List returns the user's recipes by title. A non-empty query matches the
// title or the author.
func (s *RecipeStore) List(userID int64, query string) ([]model.Recipe, error) {
	if userID <= 0 {
		return nil, invalid("user_id is required")
	}

	q := sq.Select(recipeColumns...).From("recipes").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("title COLLATE NOCASE ASC", "id ASC")
	if query = strings.TrimSpace(query); query != "" {
		pattern := likePattern(query)
		q = q.Where(sq.Or{
			sq.Expr(`title LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`author LIKE ? ESCAPE '\'`, pattern),
		})
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recipe query: %w", err)
	}
	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

func (s *RecipeStore) Create(userID int64, in RecipeInput) (*model.Recipe, error) {
	if userID <= 0 {
		return nil, invalid("user_id is required")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	stmt, args, err := sq.Insert("recipes").
		Columns("user_id", "title", "author", "description", "prep_time", "cook_time", "created_at").
		Values(userID, in.Title, in.Author, in.Description, in.PrepTime, in.CookTime, stamp(s.now())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recipe insert: %w", err)
	}
	result, err := s.db.Exec(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(userID, id)
}

func (s *RecipeStore) Update(userID, id int64, in RecipeInput) (*model.Recipe, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	stmt, args, err := sq.Update("recipes").
		SetMap(map[string]any{
			"title":       in.Title,
			"author":      in.Author,
			"description": in.Description,
			"prep_time":   in.PrepTime,
			"cook_time":   in.CookTime,
		}).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recipe update: %w", err)
	}
	result, err := s.db.Exec(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(userID, id)
}

func (s *RecipeStore) Delete(userID, id int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete recipe: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
