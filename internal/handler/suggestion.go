package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/store"
)

type SuggestionHandler struct {
	history *store.HistoryStore
	logger  *slog.Logger
}

func NewSuggestionHandler(history *store.HistoryStore, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{history: history, logger: logger}
}

// List ranks the caller's history for query. admin=true aggregates every
// user's history and needs an admin caller.
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	admin := false
	if raw := strings.TrimSpace(q.Get("admin")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid admin flag")
			return
		}
		admin = v
	}
	if admin && !auth.IsAdmin(r.Context()) {
		writeError(w, http.StatusForbidden, "admin privileges required")
		return
	}

	var userID int64
	if !admin {
		id, err := queryUserID(r)
		if err != nil {
			respondError(w, h.logger, err, "list suggestions")
			return
		}
		userID = id
	}

	suggestions, err := h.history.Suggest(q.Get("query"), userID, admin)
	if err != nil {
		respondError(w, h.logger, err, "list suggestions")
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (h *SuggestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUserID(r, r.PathValue("user_id"))
	if err != nil {
		respondError(w, h.logger, err, "delete suggestion")
		return
	}

	name, category := r.PathValue("name"), r.PathValue("category")
	if err := h.history.DeleteSuggestion(name, category, userID); err != nil {
		respondError(w, h.logger, err, "delete suggestion")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
