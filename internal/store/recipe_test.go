package store

import (
	"errors"
	"testing"
)

func TestRecipeCRUD(t *testing.T) {
	db := setupTestDB(t)
	rs := NewRecipeStore(db)
	uid := createTestUser(t, db, "chef")

	r, err := rs.Create(uid, RecipeInput{Title: " Pancakes ", Author: "Grandma", Description: "fluffy", PrepTime: 10, CookTime: 15})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Title != "Pancakes" || r.PrepTime != 10 || r.CookTime != 15 {
		t.Errorf("recipe = %+v", r)
	}

	updated, err := rs.Update(uid, r.ID, RecipeInput{Title: "Pancakes", Author: "Grandma", CookTime: 20})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CookTime != 20 || updated.PrepTime != 0 || updated.Description != "" {
		t.Errorf("updated = %+v", updated)
	}

	if n, err := rs.Delete(uid, r.ID); err != nil || n != 1 {
		t.Errorf("delete = %d, %v; want 1, nil", n, err)
	}
	if _, err := rs.Get(uid, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
}

func TestRecipeValidation(t *testing.T) {
	db := setupTestDB(t)
	rs := NewRecipeStore(db)
	uid := createTestUser(t, db, "chef")

	for _, in := range []RecipeInput{
		{Author: "x"},
		{Title: "x"},
		{Title: "x", Author: "y", PrepTime: -1},
	} {
		if _, err := rs.Create(uid, in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("create %+v err = %v, want ErrInvalidInput", in, err)
		}
	}
	if _, err := rs.Update(uid, 12345, RecipeInput{Title: "x", Author: "y"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing err = %v, want ErrNotFound", err)
	}
}

func TestRecipeListSearch(t *testing.T) {
	db := setupTestDB(t)
	rs := NewRecipeStore(db)
	uid := createTestUser(t, db, "chef")
	other := createTestUser(t, db, "other")

	rs.Create(uid, RecipeInput{Title: "Tomato Soup", Author: "Ann"})
	rs.Create(uid, RecipeInput{Title: "apple pie", Author: "Tom"})
	rs.Create(uid, RecipeInput{Title: "Risotto", Author: "Lia"})
	rs.Create(other, RecipeInput{Title: "Tomato Salad", Author: "Zed"})

	all, err := rs.List(uid, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Title != "apple pie" {
		t.Errorf("all = %+v, want 3 ordered by title", all)
	}

	found, err := rs.List(uid, "tom")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found = %+v, want title or author match", found)
	}
	if found[0].Title != "apple pie" || found[1].Title != "Tomato Soup" {
		t.Errorf("found = %s, %s", found[0].Title, found[1].Title)
	}
}
