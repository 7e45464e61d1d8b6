package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pantrybot/internal/grocery"
	"github.com/dukerupert/pantrybot/internal/model"
	"github.com/dukerupert/pantrybot/internal/store"
)

const (
	defaultGroceryQuantity = 1
	defaultGroceryCategory = "Vegetables"
)

type GroceryHandler struct {
	items  *store.GroceryStore
	events Publisher
	logger *slog.Logger
}

func NewGroceryHandler(items *store.GroceryStore, events Publisher, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{items: items, events: events, logger: logger}
}

type groceryItemRequest struct {
	UserID        *int64  `json:"user_id"`
	Name          string  `json:"name"`
	Quantity      *int    `json:"quantity"`
	Category      string  `json:"category"`
	Checked       bool    `json:"checked"`
	Priority      int     `json:"priority"`
	Metric        *string `json:"metric"`
	AmountPerItem *string `json:"amount_per_item"`
}

func (req groceryItemRequest) input() store.GroceryInput {
	qty := defaultGroceryQuantity
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	return store.GroceryInput{
		Name:          req.Name,
		Quantity:      qty,
		Category:      strings.TrimSpace(req.Category),
		Checked:       req.Checked,
		Priority:      req.Priority,
		Metric:        req.Metric,
		AmountPerItem: req.AmountPerItem,
	}
}

func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, h.logger, err, "list grocery items")
		return
	}

	q := r.URL.Query()
	items, err := h.items.ListItems(userID, store.GroceryListOptions{
		Sort:  model.GrocerySort(q.Get("sort")),
		Query: q.Get("q"),
	})
	if err != nil {
		respondError(w, h.logger, err, "list grocery items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create adds an item and bumps its suggestion history. Items sent without a
// category are filed by name.
func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req groceryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "add grocery item")
		return
	}
	userID, err := bodyUserID(r, req.UserID)
	if err != nil {
		respondError(w, h.logger, err, "add grocery item")
		return
	}

	in := req.input()
	if in.Category == "" {
		in.Category = grocery.Categorize(in.Name)
	}

	item, err := h.items.AddItem(userID, in)
	if err != nil {
		respondError(w, h.logger, err, "add grocery item")
		return
	}

	publish(h.events, userID, "grocery_item", "created", item.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"id": item.ID, "success": true, "item": item})
}

// Update replaces every field. Omitted fields take their defaults rather than
// the stored values.
func (h *GroceryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, h.logger, err, "update grocery item")
		return
	}
	var req groceryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "update grocery item")
		return
	}
	userID, err := bodyUserID(r, req.UserID)
	if err != nil {
		respondError(w, h.logger, err, "update grocery item")
		return
	}

	in := req.input()
	if in.Category == "" {
		in.Category = defaultGroceryCategory
	}

	item, err := h.items.UpdateItem(userID, id, in)
	if err != nil {
		respondError(w, h.logger, err, "update grocery item")
		return
	}

	publish(h.events, userID, "grocery_item", "updated", item.ID)
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, h.logger, err, "delete grocery item")
		return
	}
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, h.logger, err, "delete grocery item")
		return
	}

	n, err := h.items.DeleteItem(userID, id)
	if err != nil {
		respondError(w, h.logger, err, "delete grocery item")
		return
	}
	if n > 0 {
		publish(h.events, userID, "grocery_item", "deleted", id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": n})
}

func (h *GroceryHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, h.logger, err, "clear checked items")
		return
	}

	n, err := h.items.ClearChecked(userID)
	if err != nil {
		respondError(w, h.logger, err, "clear checked items")
		return
	}
	if n > 0 {
		publish(h.events, userID, "grocery_item", "cleared", 0)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": n})
}
