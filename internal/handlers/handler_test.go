// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Integration tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"realtycms/internal/database"
	"realtycms/internal/events"
	"realtycms/internal/middleware"
	"realtycms/internal/models"
	"realtycms/internal/session"
	"realtycms/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "realtycms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "realtycms")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evs ...events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// testAdmin builds an Admin on a real database without storage.
func testAdmin(t *testing.T) (*Admin, *sql.DB, *recordingPublisher) {
	t.Helper()
	db := testDB(t)
	pub := &recordingPublisher{}
	return NewAdmin(NewStores(db), nil, nil, pub), db, pub
}

// testUser creates a throwaway user and removes it, with its posts, when
// the test finishes.
func testUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()
	email := "handler-test-" + uuid.NewString()[:8] + "@handler-test.local"
	u, err := store.NewUserStore(db).Create(context.Background(), "Handler Test", email, "testpass123", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM posts WHERE author_id = $1", u.ID)
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// testPost creates a post by author with the given status.
func testPost(t *testing.T, db *sql.DB, author uuid.UUID, status models.PostStatus) *models.Post {
	t.Helper()
	p, err := store.NewPostStore(db).Create(context.Background(), &models.Post{
		Title:    "Handler Post " + uuid.NewString()[:8],
		Body:     "body",
		Status:   status,
		AuthorID: author,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	return p
}

// sessionFor returns a fully authenticated session for u.
func sessionFor(u *models.User) *session.Data {
	return &session.Data{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, TwoFADone: true}
}

func adminSession() *session.Data {
	return &session.Data{UserID: uuid.New(), Role: models.RoleAdmin, TwoFADone: true}
}

// serve runs h behind a chi route so URL parameters resolve. body may be
// nil, a raw string or a value to encode as JSON. sess, when non-nil, is
// attached as the signed-in user.
func serve(t *testing.T, h http.HandlerFunc, method, pattern, target string, body any, sess *session.Data) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// apiResponse covers both the success and the failure body.
type apiResponse struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

// decodeData unmarshals the data member of a success body into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	resp := decodeResponse(t, rec)
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", resp.Data, err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
