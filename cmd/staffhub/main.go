// Package main is the entry point for the StaffHub intranet API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffhub/internal/cache"
	"staffhub/internal/config"
	"staffhub/internal/database"
	"staffhub/internal/handlers"
	"staffhub/internal/router"
	"staffhub/internal/session"
	"staffhub/internal/storage"
	"staffhub/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"delete_policy", cfg.TaxonomyDeletePolicy,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the default admin account (no-op if users already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	listingCache := cache.NewListingCache(valkeyClient, cache.DefaultListingTTL)

	// Initialize data stores.
	deletePolicy := store.DeletePolicy(cfg.TaxonomyDeletePolicy)
	categoryStore := store.NewCategoryStore(db, deletePolicy)
	subCategoryStore := store.NewSubCategoryStore(db, deletePolicy)
	subSubCategoryStore := store.NewSubSubCategoryStore(db)
	linkStore := store.NewLinkStore(db)
	documentStore := store.NewDocumentStore(db)
	announcementStore := store.NewAnnouncementStore(db)
	userStore := store.NewUserStore(db)
	attachmentStore := store.NewAttachmentStore(db)

	// Connect to S3-compatible object storage (optional — the server
	// runs without it, with attachment uploads disabled).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — attachment uploads disabled")
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Sessions:      sessionStore,
		Auth:          handlers.NewAuth(sessionStore, userStore),
		Taxonomy:      handlers.NewTaxonomy(categoryStore, subCategoryStore, subSubCategoryStore, listingCache),
		Links:         handlers.NewLinks(linkStore, listingCache),
		Documents:     handlers.NewDocuments(documentStore),
		Announcements: handlers.NewAnnouncements(announcementStore),
		Directory:     handlers.NewDirectory(userStore),
		Attachments:   handlers.NewAttachments(attachmentStore, documentStore, storageClient),
		SecureCookies: secureCookies,
	})

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate attachment uploads to S3.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
