package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/database"
	"github.com/dukerupert/pantrybot/internal/model"
	"github.com/dukerupert/pantrybot/internal/store"
	"github.com/dukerupert/pantrybot/internal/websocket"
)

type recordedEvent struct {
	userID int64
	msg    websocket.Message
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(userID int64, msg websocket.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{userID, msg})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.msg.Type)
	}
	return out
}

type testEnv struct {
	db     *sql.DB
	users  *store.UserStore
	events *fakePublisher
	logger *slog.Logger

	admin *model.User
	alice *model.User
	bob   *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:     db,
		users:  store.NewUserStore(db),
		events: &fakePublisher{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	env.admin = env.createUser(t, "admin", "adminpw", true)
	env.alice = env.createUser(t, "alice", "alicepw", false)
	env.bob = env.createUser(t, "bob", "bobpw", false)
	return env
}

func (e *testEnv) createUser(t *testing.T, name, password string, admin bool) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password, auth.MinIterations)
	require.NoError(t, err)
	u, err := e.users.Create(name, hash, admin)
	require.NoError(t, err)
	return u
}

// do sends a request as user (nil for anonymous) to h with pattern bound so
// PathValue works.
func do(t *testing.T, h http.HandlerFunc, pattern, method, target string, as *model.User, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	if as != nil {
		req = req.WithContext(auth.WithAuth(req.Context(), auth.AuthContext{
			UserID: as.ID, Username: as.Username, IsAdmin: as.IsAdmin,
		}))
	}

	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

