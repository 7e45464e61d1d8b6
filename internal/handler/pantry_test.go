package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/pantrybot/internal/model"
	"github.com/dukerupert/pantrybot/internal/store"
)

func inDays(n int) string {
	return time.Now().AddDate(0, 0, n).Format(model.DateLayout)
}

func TestCreatePantryItem(t *testing.T) {
	env := newTestEnv(t)
	h := NewPantryHandler(store.NewPantryStore(env.db), env.events, env.logger)

	rec := do(t, h.Create, "POST /pantry/items", "POST", "/pantry/items", env.alice, map[string]any{
		"name": "yogurt", "type": "Dairy", "quantity": 2, "expiry_date": inDays(5),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"pantry_item_created"}, env.events.types())

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing quantity", map[string]any{"name": "a", "type": "b", "expiry_date": inDays(1)}},
		{"negative quantity", map[string]any{"name": "a", "type": "b", "quantity": -1, "expiry_date": inDays(1)}},
		{"bad date", map[string]any{"name": "a", "type": "b", "quantity": 1, "expiry_date": "10/03/2026"}},
		{"missing type", map[string]any{"name": "a", "quantity": 1, "expiry_date": inDays(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h.Create, "POST /pantry/items", "POST", "/pantry/items", env.alice, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListPantrySorted(t *testing.T) {
	env := newTestEnv(t)
	items := store.NewPantryStore(env.db)
	h := NewPantryHandler(items, env.events, env.logger)

	for i, name := range []string{"beans", "apples", "carrots"} {
		_, err := items.AddItem(env.alice.ID, store.PantryInput{Name: name, Type: "Veg", Quantity: 1, ExpiryDate: inDays(10 - i)})
		require.NoError(t, err)
	}

	rec := do(t, h.List, "GET /pantry/items", "GET", "/pantry/items?sort=name", env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]model.PantryItem](t, rec)
	require.Len(t, got, 3)
	assert.Equal(t, "apples", got[0].Name)

	rec = do(t, h.List, "GET /pantry/items", "GET", "/pantry/items?sort=bogus", env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[[]model.PantryItem](t, rec)
	assert.Equal(t, "carrots", got[0].Name)
}

func TestUpdateAndDeletePantryItem(t *testing.T) {
	env := newTestEnv(t)
	items := store.NewPantryStore(env.db)
	h := NewPantryHandler(items, env.events, env.logger)
	item, err := items.AddItem(env.alice.ID, store.PantryInput{Name: "rice", Type: "Grains", Quantity: 1, ExpiryDate: inDays(30)})
	require.NoError(t, err)
	path := fmt.Sprintf("/pantry/items/%d", item.ID)

	rec := do(t, h.Update, "PUT /pantry/items/{id}", "PUT", path, env.alice, map[string]any{
		"name": "brown rice", "type": "Grains", "quantity": 3, "expiry_date": inDays(60),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[model.PantryItem](t, rec)
	assert.Equal(t, "brown rice", got.Name)
	assert.Equal(t, item.EntryDate, got.EntryDate)

	rec = do(t, h.Update, "PUT /pantry/items/{id}", "PUT", path, env.bob, map[string]any{
		"name": "x", "type": "y", "quantity": 1, "expiry_date": inDays(1),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h.Delete, "DELETE /pantry/items/{id}", "DELETE", path, env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["deleted"])
}

func TestExpiring(t *testing.T) {
	env := newTestEnv(t)
	items := store.NewPantryStore(env.db)
	h := NewPantryHandler(items, env.events, env.logger)

	for _, d := range []int{-2, -1, 0, 3, 4, 7} {
		_, err := items.AddItem(env.alice.ID, store.PantryInput{
			Name: fmt.Sprintf("item%d", d), Type: "t", Quantity: 1, ExpiryDate: inDays(d),
		})
		require.NoError(t, err)
	}

	rec := do(t, h.Expiring, "GET /pantry/expiring", "GET", "/pantry/expiring", env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]model.ExpiringItem](t, rec)
	var days []int
	for _, it := range got {
		days = append(days, it.DaysUntilExpiry)
	}
	assert.Equal(t, []int{-1, 0, 3}, days)

	rec = do(t, h.Expiring, "GET /pantry/expiring", "GET", "/pantry/expiring?days=7", env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.ExpiringItem](t, rec), 5)

	rec = do(t, h.Expiring, "GET /pantry/expiring", "GET", "/pantry/expiring?days=soon", env.alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
