package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/pantrybot/internal/store"
)

type PantryHandler struct {
	items  *store.PantryStore
	events Publisher
	logger *slog.Logger
}

func NewPantryHandler(items *store.PantryStore, events Publisher, logger *slog.Logger) *PantryHandler {
	return &PantryHandler{items: items, events: events, logger: logger}
}

type pantryItemRequest struct {
	UserID        *int64  `json:"user_id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Quantity      *int    `json:"quantity"`
	ExpiryDate    string  `json:"expiry_date"`
	Metric        *string `json:"metric"`
	AmountPerItem *string `json:"amount_per_item"`
}

func (req pantryItemRequest) input() (store.PantryInput, error) {
	if req.Quantity == nil {
		return store.PantryInput{}, badRequest("quantity is required")
	}
	return store.PantryInput{
		Name:          req.Name,
		Type:          req.Type,
		Quantity:      *req.Quantity,
		ExpiryDate:    req.ExpiryDate,
		Metric:        req.Metric,
		AmountPerItem: req.AmountPerItem,
	}, nil
}

func (h *PantryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, h.logger, err, "list pantry items")
		return
	}

	q := r.URL.Query()
	items, err := h.items.ListItems(userID, q.Get("sort"), q.Get("q"))
	if err != nil {
		respondError(w, h.logger, err, "list pantry items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *PantryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pantryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "add pantry item")
		return
	}
	userID, err := bodyUserID(r, req.UserID)
	if err != nil {
		respondError(w, h.logger, err, "add pantry item")
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(w, h.logger, err, "add pantry item")
		return
	}

	item, err := h.items.AddItem(userID, in)
	if err != nil {
		respondError(w, h.logger, err, "add pantry item")
		return
	}

	publish(h.events, userID, "pantry_item", "created", item.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"id": item.ID, "success": true, "item": item})
}

func (h *PantryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, h.logger, err, "update pantry item")
		return
	}
	var req pantryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "update pantry item")
		return
	}
	userID, err := bodyUserID(r, req.UserID)
	if err != nil {
		respondError(w, h.logger, err, "update pantry item")
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(w, h.logger, err, "update pantry item")
		return
	}

	item, err := h.items.UpdateItem(userID, id, in)
	if err != nil {
		respondError(w, h.logger, err, "update pantry item")
		return
	}

	publish(h.events, userID, "pantry_item", "updated", item.ID)
	writeJSON(w, http.StatusOK, item)
}

func (h *PantryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, h.logger, err, "delete pantry item")
		return
	}
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, h.logger, err, "delete pantry item")
		return
	}

	n, err := h.items.DeleteItem(userID, id)
	if err != nil {
		respondError(w, h.logger, err, "delete pantry item")
		return
	}
	if n > 0 {
		publish(h.events, userID, "pantry_item", "deleted", id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": n})
}

// Expiring lists items expiring within ?days= days (default 3).
func (h *PantryHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, h.logger, err, "list expiring items")
		return
	}

	days := store.DefaultExpiringDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
	}

	items, err := h.items.ListExpiring(userID, days)
	if err != nil {
		respondError(w, h.logger, err, "list expiring items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
