// Package router sets up all HTTP routes and middleware chains for the
// StaffHub API. It organizes routes into public, authenticated, and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/handlers"
	"staffhub/internal/middleware"
	"staffhub/internal/session"
)

// Deps bundles the handler groups and shared middleware state the
// router wires together.
type Deps struct {
	Sessions      *session.Store
	Auth          *handlers.Auth
	Taxonomy      *handlers.Taxonomy
	Links         *handlers.Links
	Documents     *handlers.Documents
	Announcements *handlers.Announcements
	Directory     *handlers.Directory
	Attachments   *handlers.Attachments
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Login attempts are rate-limited per IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(d.SecureCookies))

		// Auth endpoints — login needs no session; the 2FA steps need a
		// session but NOT completed verification.
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", d.Auth.Login)
			r.Post("/logout", d.Auth.Logout)
			r.Post("/2fa/setup", d.Auth.TwoFASetup)
			r.Post("/2fa/verify", d.Auth.TwoFAVerify)
			r.With(middleware.RequireAuth).Get("/me", d.Auth.Me)
		})

		// Quick links listing is open to any intranet client; the
		// taxonomy-scoped and mutating routes are not.
		r.Get("/links", d.Links.List)

		// Authenticated staff area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/tree", d.Taxonomy.Tree)
			r.Get("/categories", d.Taxonomy.CategoriesList)
			r.Get("/categories/{id}", d.Taxonomy.CategoryGet)
			r.Get("/categories/{id}/subcategories", d.Taxonomy.SubCategoriesList)
			r.Get("/subcategories/{id}", d.Taxonomy.SubCategoryGet)
			r.Get("/subcategories/{id}/subsubcategories", d.Taxonomy.SubSubCategoriesList)
			r.Get("/subsubcategories/{id}/links", d.Links.ListByLeaf)

			// Wiki — every staff member can read documents; writing
			// is an admin operation (see the admin group below).
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", d.Documents.List)
				r.Get("/by-slug", d.Documents.GetBySlug)
				r.Get("/{id}", d.Documents.Get)
				r.Get("/{id}/revisions", d.Documents.Revisions)
				r.Get("/{id}/attachments", d.Attachments.ListByDocument)
			})
			r.Get("/attachments/{id}/download", d.Attachments.DownloadURL)

			r.Get("/announcements", d.Announcements.ListActive)

			r.Get("/directory", d.Directory.List)
			r.Get("/directory/{id}", d.Directory.Get)
			r.Patch("/profile", d.Directory.UpdateProfile)

			// Admin-only mutations.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/categories", d.Taxonomy.CategoryCreate)
				r.Patch("/categories/{id}", d.Taxonomy.CategoryUpdate)
				r.Delete("/categories/{id}", d.Taxonomy.CategoryDelete)

				r.Post("/subcategories", d.Taxonomy.SubCategoryCreate)
				r.Patch("/subcategories/{id}", d.Taxonomy.SubCategoryUpdate)
				r.Delete("/subcategories/{id}", d.Taxonomy.SubCategoryDelete)

				r.Post("/subsubcategories", d.Taxonomy.SubSubCategoryCreate)
				r.Patch("/subsubcategories/{id}", d.Taxonomy.SubSubCategoryUpdate)
				r.Delete("/subsubcategories/{id}", d.Taxonomy.SubSubCategoryDelete)

				r.Post("/links", d.Links.Create)
				r.Patch("/links/{id}", d.Links.Update)
				r.Delete("/links/{id}", d.Links.Delete)

				r.Post("/documents", d.Documents.Create)
				r.Patch("/documents/{id}", d.Documents.Update)
				r.Delete("/documents/{id}", d.Documents.Delete)
				r.Post("/documents/{id}/attachments", d.Attachments.Upload)
				r.Post("/revisions/{id}/restore", d.Documents.RevisionRestore)
				r.Delete("/attachments/{id}", d.Attachments.Delete)

				r.Get("/announcements/all", d.Announcements.ListAll)
				r.Post("/announcements", d.Announcements.Create)
				r.Patch("/announcements/{id}", d.Announcements.Update)
				r.Delete("/announcements/{id}", d.Announcements.Delete)

				r.Post("/directory", d.Directory.Create)
				r.Post("/directory/{id}/reset-2fa", d.Directory.ResetTwoFA)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
