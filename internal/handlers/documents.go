// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"staffhub/internal/markdown"
	"staffhub/internal/middleware"
	"staffhub/internal/models"
	"staffhub/internal/slug"
	"staffhub/internal/store"
)

// Documents groups the handlers for the staff wiki.
type Documents struct {
	documents *store.DocumentStore
}

// NewDocuments creates a new Documents handler group.
func NewDocuments(documents *store.DocumentStore) *Documents {
	return &Documents{documents: documents}
}

// documentResponse is a document plus its server-rendered HTML body.
type documentResponse struct {
	*models.Document
	HTML string `json:"html"`
}

// uniqueSlug derives a slug from the title, appending a numeric suffix
// until it does not collide with another document.
func (d *Documents) uniqueSlug(title string) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for i := 2; ; i++ {
		existing, err := d.documents.FindBySlug(candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// List returns all wiki documents, most recently updated first. Bodies
// are included as Markdown source; rendering happens on single reads.
func (d *Documents) List(w http.ResponseWriter, r *http.Request) {
	documents, err := d.documents.List()
	if err != nil {
		slog.Error("list documents failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, documents)
}

// Get returns one document with its Markdown body rendered to HTML.
func (d *Documents) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	doc, err := d.documents.FindByID(id)
	if err != nil {
		respondStoreError(w, "find document", err)
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	html, err := markdown.ToHTML(doc.Body)
	if err != nil {
		slog.Error("render document failed", "error", err, "document", doc.ID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, documentResponse{Document: doc, HTML: html})
}

// GetBySlug returns one document by its URL slug, rendered like Get.
func (d *Documents) GetBySlug(w http.ResponseWriter, r *http.Request) {
	s := strings.TrimSpace(r.URL.Query().Get("slug"))
	if s == "" {
		respondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	doc, err := d.documents.FindBySlug(s)
	if err != nil {
		respondStoreError(w, "find document by slug", err)
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	html, err := markdown.ToHTML(doc.Body)
	if err != nil {
		slog.Error("render document failed", "error", err, "document", doc.ID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, documentResponse{Document: doc, HTML: html})
}

type documentCreateInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Create adds a wiki document authored by the session user.
func (d *Documents) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in documentCreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	title := strings.TrimSpace(in.Title)
	if msg := validateDocument(title, in.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	s, err := d.uniqueSlug(title)
	if err != nil {
		slog.Error("slug generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	doc, err := d.documents.Create(&models.Document{
		Title:    title,
		Slug:     s,
		Body:     in.Body,
		AuthorID: sess.UserID,
	})
	if err != nil {
		respondStoreError(w, "create document", err)
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

type documentUpdateInput struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// Update edits a document. The prior state is snapshotted as a revision
// before the new content is written.
func (d *Documents) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var in documentUpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	doc, err := d.documents.FindByID(id)
	if err != nil {
		respondStoreError(w, "find document", err)
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title != doc.Title {
			s, err := d.uniqueSlug(title)
			if err != nil {
				slog.Error("slug generation failed", "error", err)
				respondError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			doc.Slug = s
		}
		doc.Title = title
	}
	if in.Body != nil {
		doc.Body = *in.Body
	}
	if msg := validateDocument(doc.Title, doc.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := d.documents.Update(doc, sess.UserID)
	if err != nil {
		respondStoreError(w, "update document", err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a document and its revision history.
func (d *Documents) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := d.documents.Delete(id); err != nil {
		respondStoreError(w, "delete document", err)
		return
	}
	respondOK(w)
}

// Revisions lists a document's edit history, newest first.
func (d *Documents) Revisions(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	doc, err := d.documents.FindByID(id)
	if err != nil {
		respondStoreError(w, "find document", err)
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	revisions, err := d.documents.ListRevisions(id)
	if err != nil {
		respondStoreError(w, "list revisions", err)
		return
	}
	respondJSON(w, http.StatusOK, revisions)
}

// RevisionRestore copies a past revision's content back onto the
// document. The current state is snapshotted first, so a restore is
// itself undoable.
func (d *Documents) RevisionRestore(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := urlID(w, r)
	if !ok {
		return
	}

	revision, err := d.documents.FindRevision(id)
	if err != nil {
		respondStoreError(w, "find revision", err)
		return
	}
	if revision == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	doc, err := d.documents.FindByID(revision.DocumentID)
	if err != nil {
		respondStoreError(w, "find document", err)
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	doc.Title = revision.Title
	doc.Slug = revision.Slug
	doc.Body = revision.Body

	updated, err := d.documents.Update(doc, sess.UserID)
	if err != nil {
		respondStoreError(w, "restore revision", err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
