package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/store"
)

// statusError carries an HTTP status for failures detected in the handler.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &statusError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

var errForbidden = &statusError{status: http.StatusForbidden, msg: "forbidden"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps err onto the error taxonomy. Anything unclassified is
// logged and reported as a 500 with a generic message.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error, action string) {
	var se *statusError
	switch {
	case errors.As(err, &se):
		writeError(w, se.status, se.msg)
	case errors.Is(err, store.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), store.ErrInvalidInput.Error()+": "))
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
	default:
		logger.Error(action+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON")
	}
	return nil
}

func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id")
	}
	return id, nil
}

// resolveUserID returns the user whose data a request addresses. An empty
// value means the caller; any other user requires an admin caller.
func resolveUserID(r *http.Request, raw string) (int64, error) {
	caller := auth.UserID(r.Context())
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return caller, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid user_id")
	}
	if !auth.CanAccess(r.Context(), id) {
		return 0, errForbidden
	}
	return id, nil
}

// bodyUserID is resolveUserID for JSON bodies, where user_id is a number.
func bodyUserID(r *http.Request, id *int64) (int64, error) {
	if id == nil {
		return auth.UserID(r.Context()), nil
	}
	return resolveUserID(r, strconv.FormatInt(*id, 10))
}

func queryUserID(r *http.Request) (int64, error) {
	return resolveUserID(r, r.URL.Query().Get("user_id"))
}
