package store

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

var pantryToday = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func setupPantryStore(t *testing.T) (*PantryStore, int64) {
	t.Helper()
	db := setupTestDB(t)
	ps := NewPantryStore(db)
	ps.now = fixedClock(pantryToday)
	return ps, createTestUser(t, db, "cook")
}

func addPantry(t *testing.T, ps *PantryStore, uid int64, name, typ string, qty int, expiry string) int64 {
	t.Helper()
	item, err := ps.AddItem(uid, PantryInput{Name: name, Type: typ, Quantity: qty, ExpiryDate: expiry})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return item.ID
}

func TestPantryAddItem(t *testing.T) {
	ps, uid := setupPantryStore(t)

	item, err := ps.AddItem(uid, PantryInput{
		Name:       "Cheddar",
		Type:       "Dairy",
		Quantity:   2,
		ExpiryDate: "2026-04-01",
		Metric:     strPtr("g"),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.EntryDate != "2026-03-10" {
		t.Errorf("entry_date = %q, want %q", item.EntryDate, "2026-03-10")
	}
	if item.ExpiryDate != "2026-04-01" {
		t.Errorf("expiry_date = %q, want %q", item.ExpiryDate, "2026-04-01")
	}
	if item.Metric == nil || *item.Metric != "g" {
		t.Errorf("metric = %v, want g", item.Metric)
	}
	if item.AmountPerItem != nil {
		t.Errorf("amount_per_item = %v, want nil", *item.AmountPerItem)
	}
}

func TestPantryAddValidation(t *testing.T) {
	ps, uid := setupPantryStore(t)

	tests := []struct {
		name string
		in   PantryInput
	}{
		{"missing name", PantryInput{Type: "Dairy", Quantity: 1, ExpiryDate: "2026-01-01"}},
		{"missing type", PantryInput{Name: "Milk", Quantity: 1, ExpiryDate: "2026-01-01"}},
		{"missing expiry", PantryInput{Name: "Milk", Type: "Dairy", Quantity: 1}},
		{"bad expiry", PantryInput{Name: "Milk", Type: "Dairy", Quantity: 1, ExpiryDate: "01/02/2026"}},
		{"negative quantity", PantryInput{Name: "Milk", Type: "Dairy", Quantity: -2, ExpiryDate: "2026-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ps.AddItem(uid, tt.in); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}

	if _, err := ps.AddItem(0, PantryInput{Name: "Milk", Type: "Dairy", Quantity: 1, ExpiryDate: "2026-01-01"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing user err = %v, want ErrInvalidInput", err)
	}
}

func TestPantryListSorting(t *testing.T) {
	ps, uid := setupPantryStore(t)

	addPantry(t, ps, uid, "rice", "Grains", 5, "2027-01-01")
	addPantry(t, ps, uid, "Apples", "Fruits", 1, "2026-03-20")
	addPantry(t, ps, uid, "beef", "Meat", 3, "2026-03-12")

	tests := []struct {
		sort string
		want []string
	}{
		{"", []string{"beef", "Apples", "rice"}},
		{"expiry_date", []string{"beef", "Apples", "rice"}},
		{"name", []string{"Apples", "beef", "rice"}},
		{"type", []string{"Apples", "rice", "beef"}},
		{"quantity", []string{"Apples", "beef", "rice"}},
		{"entry_date", []string{"rice", "Apples", "beef"}},
		{"expiry_date; DROP TABLE items", []string{"beef", "Apples", "rice"}},
	}
	for _, tt := range tests {
		items, err := ps.ListItems(uid, tt.sort, "")
		if err != nil {
			t.Fatalf("list sort=%q: %v", tt.sort, err)
		}
		got := make([]string, len(items))
		for i, it := range items {
			got[i] = it.Name
		}
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("sort=%q: got %v, want %v", tt.sort, got, tt.want)
		}
	}
}

func TestPantryListSearch(t *testing.T) {
	ps, uid := setupPantryStore(t)

	addPantry(t, ps, uid, "Brown Rice", "Grains", 1, "2027-01-01")
	addPantry(t, ps, uid, "rice cakes", "Grains", 1, "2027-01-01")
	addPantry(t, ps, uid, "Beans", "Vegetables", 1, "2027-01-01")

	items, err := ps.ListItems(uid, "name", "RICE")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Brown Rice" || items[1].Name != "rice cakes" {
		t.Errorf("items = %+v, want Brown Rice and rice cakes", items)
	}
}

func TestPantryListSearchNonASCII(t *testing.T) {
	ps, uid := setupPantryStore(t)

	addPantry(t, ps, uid, "Jalapeño", "Vegetables", 1, "2027-01-01")
	addPantry(t, ps, uid, "Jam", "Sweets", 1, "2027-01-01")

	items, err := ps.ListItems(uid, "name", "Jalapeño")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Jalapeño" {
		t.Errorf("items = %+v, want Jalapeño", items)
	}
}

func TestPantryUpdateItem(t *testing.T) {
	ps, uid := setupPantryStore(t)
	id := addPantry(t, ps, uid, "Milk", "Dairy", 1, "2026-03-12")

	ps.now = fixedClock(pantryToday.AddDate(0, 0, 5))
	updated, err := ps.UpdateItem(uid, id, PantryInput{Name: "Milk", Type: "Dairy", Quantity: 4, ExpiryDate: "2026-03-15"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 4 || updated.ExpiryDate != "2026-03-15" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.EntryDate != "2026-03-10" {
		t.Errorf("entry_date = %q, want original %q", updated.EntryDate, "2026-03-10")
	}

	if _, err := ps.UpdateItem(uid, 9999, PantryInput{Name: "x", Type: "y", ExpiryDate: "2026-01-01"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}
	if _, err := ps.UpdateItem(uid, id, PantryInput{Name: "x", Type: "y", Quantity: -1, ExpiryDate: "2026-01-01"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("invalid err = %v, want ErrInvalidInput", err)
	}
}

func TestPantryDeleteItem(t *testing.T) {
	ps, uid := setupPantryStore(t)
	other := createTestUser(t, ps.db, "other")
	id := addPantry(t, ps, uid, "Milk", "Dairy", 1, "2026-03-12")

	if n, _ := ps.DeleteItem(other, id); n != 0 {
		t.Errorf("foreign delete = %d, want 0", n)
	}
	if n, _ := ps.DeleteItem(uid, id); n != 1 {
		t.Errorf("delete = %d, want 1", n)
	}
}

func TestPantryExpiringWindow(t *testing.T) {
	ps, uid := setupPantryStore(t)

	addPantry(t, ps, uid, "two days ago", "Dairy", 1, "2026-03-08")
	addPantry(t, ps, uid, "yesterday", "Dairy", 1, "2026-03-09")
	addPantry(t, ps, uid, "in three days", "Dairy", 1, "2026-03-13")
	addPantry(t, ps, uid, "in four days", "Dairy", 1, "2026-03-14")

	items, err := ps.ListExpiring(uid, DefaultExpiringDays)
	if err != nil {
		t.Fatalf("expiring: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(items), items)
	}
	if items[0].Name != "yesterday" || items[0].DaysUntilExpiry != -1 {
		t.Errorf("items[0] = %s (%d), want yesterday (-1)", items[0].Name, items[0].DaysUntilExpiry)
	}
	if items[1].Name != "in three days" || items[1].DaysUntilExpiry != 3 {
		t.Errorf("items[1] = %s (%d), want in three days (3)", items[1].Name, items[1].DaysUntilExpiry)
	}
}

func TestPantryExpiringToday(t *testing.T) {
	ps, uid := setupPantryStore(t)
	addPantry(t, ps, uid, "today", "Dairy", 1, "2026-03-10")

	items, err := ps.ListExpiring(uid, 0)
	if err != nil {
		t.Fatalf("expiring: %v", err)
	}
	if len(items) != 1 || items[0].DaysUntilExpiry != 0 {
		t.Errorf("items = %+v, want one item with 0 days", items)
	}
}

func TestPantryExpiringLimit(t *testing.T) {
	ps, uid := setupPantryStore(t)

	for i := 0; i < 12; i++ {
		addPantry(t, ps, uid, fmt.Sprintf("item-%02d", i), "Dairy", 1, "2026-03-11")
	}

	items, err := ps.ListExpiring(uid, 3)
	if err != nil {
		t.Fatalf("expiring: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("len = %d, want 10", len(items))
	}
}

func TestPantryExpiringOtherUser(t *testing.T) {
	ps, uid := setupPantryStore(t)
	other := createTestUser(t, ps.db, "other")
	addPantry(t, ps, other, "theirs", "Dairy", 1, "2026-03-11")

	items, _ := ps.ListExpiring(uid, 3)
	if len(items) != 0 {
		t.Errorf("items = %+v, want none", items)
	}
}
