package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"staffhub/internal/middleware"
	"staffhub/internal/models"
	"staffhub/internal/store"
)

// Announcements groups the handlers for time-windowed staff notices.
type Announcements struct {
	announcements *store.AnnouncementStore
}

// NewAnnouncements creates a new Announcements handler group.
func NewAnnouncements(announcements *store.AnnouncementStore) *Announcements {
	return &Announcements{announcements: announcements}
}

// ListActive returns the announcements currently visible to staff.
func (a *Announcements) ListActive(w http.ResponseWriter, r *http.Request) {
	announcements, err := a.announcements.ListActive(time.Now())
	if err != nil {
		slog.Error("list active announcements failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, announcements)
}

// ListAll returns every announcement including scheduled and expired
// ones. Admin only; used by the management screen.
func (a *Announcements) ListAll(w http.ResponseWriter, r *http.Request) {
	announcements, err := a.announcements.ListAll()
	if err != nil {
		slog.Error("list announcements failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, announcements)
}

type announcementInput struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	PublishAt *time.Time `json:"publish_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Create adds an announcement. PublishAt defaults to now; ExpiresAt may
// be nil for announcements that never expire.
func (a *Announcements) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in announcementInput
	if !decodeJSON(w, r, &in) {
		return
	}

	title := strings.TrimSpace(in.Title)
	if msg := validateAnnouncement(title, in.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	publishAt := time.Now()
	if in.PublishAt != nil {
		publishAt = *in.PublishAt
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(publishAt) {
		respondError(w, http.StatusBadRequest, "expires_at must be after publish_at")
		return
	}

	created, err := a.announcements.Create(&models.Announcement{
		Title:     title,
		Body:      in.Body,
		PublishAt: publishAt,
		ExpiresAt: in.ExpiresAt,
		AuthorID:  sess.UserID,
	})
	if err != nil {
		respondStoreError(w, "create announcement", err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// Update edits an announcement's content or visibility window.
func (a *Announcements) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var in announcementInput
	if !decodeJSON(w, r, &in) {
		return
	}

	existing, err := a.announcements.FindByID(id)
	if err != nil {
		respondStoreError(w, "find announcement", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		existing.Title = title
	}
	if in.Body != "" {
		existing.Body = in.Body
	}
	if in.PublishAt != nil {
		existing.PublishAt = *in.PublishAt
	}
	if in.ExpiresAt != nil {
		existing.ExpiresAt = in.ExpiresAt
	}
	if msg := validateAnnouncement(existing.Title, existing.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if existing.ExpiresAt != nil && !existing.ExpiresAt.After(existing.PublishAt) {
		respondError(w, http.StatusBadRequest, "expires_at must be after publish_at")
		return
	}

	updated, err := a.announcements.Update(existing)
	if err != nil {
		respondStoreError(w, "update announcement", err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete removes an announcement.
func (a *Announcements) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := a.announcements.Delete(id); err != nil {
		respondStoreError(w, "delete announcement", err)
		return
	}
	respondOK(w)
}
