package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/config"
	"github.com/dukerupert/pantrybot/internal/handler"
	"github.com/dukerupert/pantrybot/internal/middleware"
	"github.com/dukerupert/pantrybot/internal/store"
	ws "github.com/dukerupert/pantrybot/internal/websocket"
)

const loginWindow = time.Minute

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	users       *store.UserStore
	tokens      *auth.Tokens
	rateLimiter *middleware.RateLimiter
	metrics     *middleware.Metrics
	loginLimit  int

	authH       *handler.AuthHandler
	userH       *handler.UserHandler
	groceryH    *handler.GroceryHandler
	suggestionH *handler.SuggestionHandler
	pantryH     *handler.PantryHandler
	recipeH     *handler.RecipeHandler
	releaseH    *handler.ReleaseHandler
	backupH     *handler.BackupHandler

	logger *slog.Logger
}

// New wires stores and handlers onto db. backups may be nil, which leaves the
// admin backup routes unregistered.
func New(cfg *config.Config, db *sql.DB, tokens *auth.Tokens, backups handler.BackupRunner, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	historyStore := store.NewHistoryStore(db)

	s := &Server{
		db:          db,
		hub:         hub,
		users:       userStore,
		tokens:      tokens,
		rateLimiter: middleware.NewRateLimiter(),
		loginLimit:  cfg.Auth.LoginRateLimit,
		logger:      logger,

		authH:       handler.NewAuthHandler(userStore, tokens, logger.With("component", "auth")),
		userH:       handler.NewUserHandler(userStore, historyStore, cfg.Auth.PasswordIterations, logger.With("component", "user")),
		groceryH:    handler.NewGroceryHandler(store.NewGroceryStore(db), hub, logger.With("component", "grocery")),
		suggestionH: handler.NewSuggestionHandler(historyStore, logger.With("component", "suggestion")),
		pantryH:     handler.NewPantryHandler(store.NewPantryStore(db), hub, logger.With("component", "pantry")),
		recipeH:     handler.NewRecipeHandler(store.NewRecipeStore(db), hub, logger.With("component", "recipe")),
		releaseH:    handler.NewReleaseHandler(cfg.Release.Version, cfg.Release.Dir, logger.With("component", "release")),
	}
	if backups != nil {
		s.backupH = handler.NewBackupHandler(backups, logger.With("component", "backup"))
	}
	if cfg.Metrics.Enabled {
		s.metrics = middleware.NewMetrics()
	}
	return s
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Router builds the HTTP handler. All routes live on one mux so that the
// matched pattern is visible to the metrics middleware; auth is applied per
// route.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(s.tokens, s.users)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(s.tokens, s.users)(middleware.RequireAdmin(h))
	}

	// public
	mux.Handle("POST /auth/login", s.rateLimited(s.authH.Login))
	mux.Handle("POST /users", middleware.OptionalAuth(s.tokens, s.users)(http.HandlerFunc(s.userH.Create)))
	mux.HandleFunc("GET /version", s.releaseH.Version)
	mux.HandleFunc("GET /api/version", s.releaseH.Version)
	mux.HandleFunc("GET /api/apk", s.releaseH.APK)
	mux.HandleFunc("GET /health", s.healthHandler)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.Handle("GET /grocery/items", protect(s.groceryH.List))
	mux.Handle("POST /grocery/items", protect(s.groceryH.Create))
	mux.Handle("PUT /grocery/items/{id}", protect(s.groceryH.Update))
	mux.Handle("DELETE /grocery/items/{id}", protect(s.groceryH.Delete))
	mux.Handle("POST /grocery/items/clear-checked", protect(s.groceryH.ClearChecked))

	mux.Handle("GET /grocery/suggestions", protect(s.suggestionH.List))
	mux.Handle("DELETE /grocery/suggestions/{name}/{category}/{user_id}", protect(s.suggestionH.Delete))

	mux.Handle("GET /pantry/items", protect(s.pantryH.List))
	mux.Handle("POST /pantry/items", protect(s.pantryH.Create))
	mux.Handle("PUT /pantry/items/{id}", protect(s.pantryH.Update))
	mux.Handle("DELETE /pantry/items/{id}", protect(s.pantryH.Delete))
	mux.Handle("GET /pantry/expiring", protect(s.pantryH.Expiring))

	mux.Handle("GET /recipes", protect(s.recipeH.List))
	mux.Handle("POST /recipes", protect(s.recipeH.Create))
	mux.Handle("PUT /recipes/{id}", protect(s.recipeH.Update))
	mux.Handle("DELETE /recipes/{id}", protect(s.recipeH.Delete))

	mux.Handle("GET /ws", middleware.RequireSocketAuth(s.tokens, s.users)(ws.Handler(s.hub, s.logger.With("component", "websocket"))))

	// admin
	mux.Handle("GET /users", admin(s.userH.List))
	mux.Handle("DELETE /users/{id}", admin(s.userH.Delete))
	mux.Handle("POST /users/migrate", admin(s.userH.Migrate))
	if s.backupH != nil {
		mux.Handle("GET /admin/backups", admin(s.backupH.List))
		mux.Handle("POST /admin/backups", admin(s.backupH.Run))
	}

	var h http.Handler = middleware.RequestLogger(s.logger.With("component", "http"))(mux)
	if s.metrics != nil {
		h = s.metrics.Middleware(h)
	}
	h = chimw.Recoverer(h)
	return chimw.RequestID(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP, s.loginLimit, loginWindow)(h)
}
