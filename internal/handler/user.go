package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/store"
)

type UserHandler struct {
	users      *store.UserStore
	history    *store.HistoryStore
	iterations int
	logger     *slog.Logger
}

func NewUserHandler(users *store.UserStore, history *store.HistoryStore, iterations int, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, history: history, iterations: iterations, logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		respondError(w, h.logger, err, "list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// Create registers an account. The route is public; is_admin is only
// honored when an admin is signed in.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "create user")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if req.IsAdmin && !auth.IsAdmin(r.Context()) {
		writeError(w, http.StatusForbidden, "only admins can create admin users")
		return
	}

	hash, err := auth.HashPassword(req.Password, h.iterations)
	if err != nil {
		respondError(w, h.logger, err, "create user")
		return
	}
	user, err := h.users.Create(req.Username, hash, req.IsAdmin)
	if err != nil {
		respondError(w, h.logger, err, "create user")
		return
	}

	h.logger.Info("user created", "user_id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
	writeJSON(w, http.StatusCreated, map[string]any{"id": user.ID, "success": true})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, h.logger, err, "delete user")
		return
	}
	if id == auth.UserID(r.Context()) {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	removed, err := h.users.Delete(id)
	if err != nil {
		respondError(w, h.logger, err, "delete user")
		return
	}

	h.logger.Info("user deleted", "user_id", id,
		"grocery_items", removed.GroceryItems, "pantry_items", removed.PantryItems,
		"history", removed.History, "recipes", removed.Recipes)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": removed})
}

type migrateRequest struct {
	SourceUserID int64 `json:"source_user_id"`
	TargetUserID int64 `json:"target_user_id"`
}

func (h *UserHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	var req migrateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "migrate user data")
		return
	}

	copied, err := h.history.MigrateUserData(req.SourceUserID, req.TargetUserID)
	if err != nil {
		respondError(w, h.logger, err, "migrate user data")
		return
	}

	h.logger.Info("user data migrated", "source_user_id", req.SourceUserID, "target_user_id", req.TargetUserID,
		"grocery_items", copied.GroceryItems, "history", copied.History)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "copied": copied})
}
