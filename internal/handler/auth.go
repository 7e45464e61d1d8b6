package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/store"
)

type AuthHandler struct {
	users  *store.UserStore
	tokens *auth.Tokens
	logger *slog.Logger
}

func NewAuthHandler(users *store.UserStore, tokens *auth.Tokens, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login checks the credentials and issues a bearer token. Unknown users and
// wrong passwords get the same answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err, "log in")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.GetByUsername(req.Username)
	if errors.Is(err, store.ErrNotFound) {
		h.logger.Info("login failed", "username", req.Username, "reason", "unknown user")
		respondError(w, h.logger, auth.ErrInvalidCredentials, "log in")
		return
	}
	if err != nil {
		respondError(w, h.logger, err, "log in")
		return
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		respondError(w, h.logger, err, "log in")
		return
	}
	if !ok {
		h.logger.Info("login failed", "username", req.Username, "reason", "bad password")
		respondError(w, h.logger, auth.ErrInvalidCredentials, "log in")
		return
	}

	token, expires, err := h.tokens.Issue(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		respondError(w, h.logger, err, "log in")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		Token:     token,
		ExpiresAt: expires,
	})
}
