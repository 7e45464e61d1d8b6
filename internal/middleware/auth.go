package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/model"
)

// UserLookup resolves the subject of a token to a current account.
type UserLookup interface {
	GetByID(id int64) (*model.User, error)
}

// RequireAuth validates the bearer token in the Authorization header and
// populates AuthContext. The account must still exist; its admin flag is read
// from the store rather than trusted from the token.
func RequireAuth(tokens *auth.Tokens, users UserLookup) func(http.Handler) http.Handler {
	return requireAuth(tokens, users, false)
}

// RequireSocketAuth is RequireAuth for websocket upgrades. Browsers cannot set
// headers on the upgrade request, so a token query parameter is accepted too.
func RequireSocketAuth(tokens *auth.Tokens, users UserLookup) func(http.Handler) http.Handler {
	return requireAuth(tokens, users, true)
}

func requireAuth(tokens *auth.Tokens, users UserLookup, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFromRequest(r, allowQuery)
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			ac, ok := authenticate(tokens, users, raw)
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

// OptionalAuth is RequireAuth for public routes: requests without a token
// pass through anonymously, but a token that is present must be valid.
func OptionalAuth(tokens *auth.Tokens, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFromRequest(r, false)
			if errors.Is(err, errMissingToken) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			ac, ok := authenticate(tokens, users, raw)
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

func authenticate(tokens *auth.Tokens, users UserLookup, raw string) (auth.AuthContext, bool) {
	ac, err := tokens.Parse(raw)
	if err != nil {
		return auth.AuthContext{}, false
	}
	user, err := users.GetByID(ac.UserID)
	if err != nil || user == nil {
		return auth.AuthContext{}, false
	}
	ac.Username = user.Username
	ac.IsAdmin = user.IsAdmin
	return ac, true
}

// RequireAdmin checks that the authenticated user is an administrator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

var errMissingToken = errors.New("missing authorization")

func tokenFromRequest(r *http.Request, allowQuery bool) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		if !allowQuery {
			return "", errMissingToken
		}
		if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
			return t, nil
		}
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
