package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/pantrybot/internal/store"
)

type RecipeHandler struct {
	recipes *store.RecipeStore
	events  Publisher
	logger  *slog.Logger
}

func NewRecipeHandler(recipes *store.RecipeStore, events Publisher, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, events: events, logger: logger}
}

type recipeRequest struct {
	UserID      *int64 `json:"user_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	PrepTime    int    `json:"prep_time"`
	CookTime    int    `json:"cook_time"`
}

func (req recipeRequest) input() store.RecipeInput {
	return store.RecipeInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		PrepTime:    req.PrepTime,
		CookTime:    req.CookTime,
	}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, h.logger, err, "list recipes")
		return
	}
	recipes, err := h.recipes.List(userID, r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, h.logger, err, "list recipes")
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "create recipe")
		return
	}
	userID, err := bodyUserID(r, req.UserID)
	if err != nil {
		respondError(w, h.logger, err, "create recipe")
		return
	}

	recipe, err := h.recipes.Create(userID, req.input())
	if err != nil {
		respondError(w, h.logger, err, "create recipe")
		return
	}
	publish(h.events, userID, "recipe", "created", recipe.ID)
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, h.logger, err, "update recipe")
		return
	}
	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "update recipe")
		return
	}
	userID, err := bodyUserID(r, req.UserID)
	if err != nil {
		respondError(w, h.logger, err, "update recipe")
		return
	}

	recipe, err := h.recipes.Update(userID, id, req.input())
	if err != nil {
		respondError(w, h.logger, err, "update recipe")
		return
	}
	publish(h.events, userID, "recipe", "updated", recipe.ID)
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, h.logger, err, "delete recipe")
		return
	}
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, h.logger, err, "delete recipe")
		return
	}

	n, err := h.recipes.Delete(userID, id)
	if err != nil {
		respondError(w, h.logger, err, "delete recipe")
		return
	}
	if n > 0 {
		publish(h.events, userID, "recipe", "deleted", id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": n})
}
