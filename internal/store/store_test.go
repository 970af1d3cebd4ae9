// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"realtycms/internal/database"
	"realtycms/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "realtycms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "realtycms")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway author and removes it (with its posts) when
// the test finishes.
func testUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	email := "store-test-" + uuid.NewString()[:8] + "@store-test.local"
	u, err := NewUserStore(db).Create(context.Background(), "Store Test", email, "testpass123", models.RoleAuthor)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM posts WHERE author_id = $1", u.ID)
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// testPost creates a published post owned by a fresh test user.
func testPost(t *testing.T, db *sql.DB) *models.Post {
	t.Helper()
	author := testUser(t, db)
	p, err := NewPostStore(db).Create(context.Background(), &models.Post{
		Title:    "Store Test Post " + uuid.NewString()[:8],
		Status:   models.PostStatusPublished,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	return p
}

// postCommentsCount reads the stored counter of a post.
func postCommentsCount(t *testing.T, db *sql.DB, postID uuid.UUID) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT comments_count FROM posts WHERE id = $1", postID).Scan(&n); err != nil {
		t.Fatalf("read comments_count: %v", err)
	}
	return n
}

// repliesCount reads the stored reply counter of a comment.
func repliesCount(t *testing.T, db *sql.DB, commentID uuid.UUID) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT replies_count FROM comments WHERE id = $1", commentID).Scan(&n); err != nil {
		t.Fatalf("read replies_count: %v", err)
	}
	return n
}
