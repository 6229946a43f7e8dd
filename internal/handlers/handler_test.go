// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"staffhub/internal/cache"
	"staffhub/internal/database"
	"staffhub/internal/middleware"
	"staffhub/internal/session"
	"staffhub/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL, runs migrations,
// and seeds the default admin.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "staffhub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "staffhub")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	if err := database.Seed(db); err != nil {
		db.Close()
		t.Fatalf("seed: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and listing cache keys.
		for _, pattern := range []string{"session:*", "listing:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Sessions      *session.Store
	Categories    *store.CategoryStore
	Subs          *store.SubCategoryStore
	SubSubs       *store.SubSubCategoryStore
	LinkStore     *store.LinkStore
	DocStore      *store.DocumentStore
	AnnStore      *store.AnnouncementStore
	UserStore     *store.UserStore
	AttStore      *store.AttachmentStore
	Listings      *cache.ListingCache
	Auth          *Auth
	Taxonomy      *Taxonomy
	Links         *Links
	Documents     *Documents
	Announcements *Announcements
	Directory     *Directory
	Attachments   *Attachments
}

// newTestEnv creates a complete test environment with all handler
// dependencies. The taxonomy delete policy defaults to restrict, the
// same as production.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	categories := store.NewCategoryStore(db, store.DeleteRestrict)
	subs := store.NewSubCategoryStore(db, store.DeleteRestrict)
	subsubs := store.NewSubSubCategoryStore(db)
	linkStore := store.NewLinkStore(db)
	docStore := store.NewDocumentStore(db)
	annStore := store.NewAnnouncementStore(db)
	userStore := store.NewUserStore(db)
	attStore := store.NewAttachmentStore(db)
	listings := cache.NewListingCache(vk, 1*time.Minute)

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Sessions:      sessions,
		Categories:    categories,
		Subs:          subs,
		SubSubs:       subsubs,
		LinkStore:     linkStore,
		DocStore:      docStore,
		AnnStore:      annStore,
		UserStore:     userStore,
		AttStore:      attStore,
		Listings:      listings,
		Auth:          NewAuth(sessions, userStore),
		Taxonomy:      NewTaxonomy(categories, subs, subsubs, listings),
		Links:         NewLinks(linkStore, listings),
		Documents:     NewDocuments(docStore),
		Announcements: NewAnnouncements(annStore),
		Directory:     NewDirectory(userStore),
		Attachments:   NewAttachments(attStore, docStore, nil),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both chi URL param and session to a request.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// adminUserID returns the seeded admin's ID.
func adminUserID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	if err := db.QueryRow("SELECT id FROM users WHERE role = 'admin' LIMIT 1").Scan(&id); err != nil {
		t.Fatalf("no admin user in database: %v", err)
	}
	return id
}

// cleanTaxonomy removes test categories (and their subtrees) by name.
func cleanTaxonomy(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec(`DELETE FROM subsubcategories WHERE subcategory_id IN
			(SELECT sc.id FROM subcategories sc JOIN categories c ON sc.category_id = c.id WHERE c.name = $1)`, name)
		db.Exec(`DELETE FROM subcategories WHERE category_id IN (SELECT id FROM categories WHERE name = $1)`, name)
		db.Exec(`DELETE FROM categories WHERE name = $1`, name)
	}
}
