// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"staffhub/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "staffhub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "staffhub")
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

	dsn := testDSN()
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

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUserID returns a valid user ID for author/uploader references.
func testUserID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	if err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&id); err != nil {
		t.Fatalf("no users in database — run seed first: %v", err)
	}
	return id
}

// cleanCategories removes test categories (and their subtrees) by name.
// Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec(`DELETE FROM subsubcategories WHERE subcategory_id IN
			(SELECT sc.id FROM subcategories sc JOIN categories c ON sc.category_id = c.id WHERE c.name = $1)`, name)
		db.Exec(`DELETE FROM subcategories WHERE category_id IN (SELECT id FROM categories WHERE name = $1)`, name)
		db.Exec(`DELETE FROM categories WHERE name = $1`, name)
	}
}

// cleanLinks removes test links by label. Call in t.Cleanup().
func cleanLinks(t *testing.T, db *sql.DB, labels ...string) {
	t.Helper()
	for _, label := range labels {
		db.Exec(`DELETE FROM links WHERE label = $1`, label)
	}
}

// cleanDocuments removes test documents and their revisions by slug.
// Call in t.Cleanup().
func cleanDocuments(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec(`DELETE FROM document_revisions WHERE document_id IN (SELECT id FROM documents WHERE slug = $1)`, slug)
		db.Exec(`DELETE FROM documents WHERE slug = $1`, slug)
	}
}

// cleanAnnouncements removes test announcements by title. Call in t.Cleanup().
func cleanAnnouncements(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec(`DELETE FROM announcements WHERE title = $1`, title)
	}
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec(`DELETE FROM users WHERE email = $1`, email)
	}
}
