// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"staffhub/internal/cache"
	"staffhub/internal/store"
)

// Links groups the handlers for intranet quick links.
type Links struct {
	links    *store.LinkStore
	listings *cache.ListingCache
}

// NewLinks creates a new Links handler group. listings may be nil when
// the cache is not configured.
func NewLinks(links *store.LinkStore, listings *cache.ListingCache) *Links {
	return &Links{
		links:    links,
		listings: listings,
	}
}

// invalidate drops the cached link listing after a mutation.
func (l *Links) invalidate(r *http.Request) {
	if l.listings != nil {
		l.listings.Invalidate(r.Context(), cache.KeyLinks)
	}
}

// List returns quick links newest first. An optional ?q= parameter
// filters by a case-insensitive substring match on the label. Only the
// unfiltered listing is served from cache.
func (l *Links) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	if query == "" && l.listings != nil {
		if payload, ok := l.listings.Get(r.Context(), cache.KeyLinks); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	links, err := l.links.List(query)
	if err != nil {
		slog.Error("list links failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if query == "" && l.listings != nil {
		if payload, err := json.Marshal(links); err == nil {
			l.listings.Set(r.Context(), cache.KeyLinks, payload)
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	respondJSON(w, http.StatusOK, links)
}

// ListByLeaf returns the links attached to one taxonomy leaf, newest
// first.
func (l *Links) ListByLeaf(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	links, err := l.links.ListBySubSubCategory(id)
	if err != nil {
		respondStoreError(w, "list links by leaf", err)
		return
	}
	respondJSON(w, http.StatusOK, links)
}

type linkCreateInput struct {
	Label            string     `json:"label"`
	URL              string     `json:"url"`
	SubSubCategoryID *uuid.UUID `json:"subsubcategory_id"`
}

// Create adds a quick link, optionally attached to a taxonomy leaf. A
// missing leaf yields 404 and no record.
func (l *Links) Create(w http.ResponseWriter, r *http.Request) {
	var in linkCreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	label := strings.TrimSpace(in.Label)
	rawURL := strings.TrimSpace(in.URL)
	if msg := validateLink(label, rawURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	link, err := l.links.Create(label, rawURL, in.SubSubCategoryID)
	if err != nil {
		respondStoreError(w, "create link", err)
		return
	}

	l.invalidate(r)
	respondJSON(w, http.StatusCreated, link)
}

type linkUpdateInput struct {
	Label *string `json:"label"`
	URL   *string `json:"url"`
}

// Update changes a link's label or URL. Taxonomy attachment is fixed at
// creation; move by deleting and recreating.
func (l *Links) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var in linkUpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	link, err := l.links.FindByID(id)
	if err != nil {
		respondStoreError(w, "find link", err)
		return
	}
	if link == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if in.Label != nil {
		link.Label = strings.TrimSpace(*in.Label)
	}
	if in.URL != nil {
		link.URL = strings.TrimSpace(*in.URL)
	}
	if msg := validateLink(link.Label, link.URL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := l.links.Update(link)
	if err != nil {
		respondStoreError(w, "update link", err)
		return
	}

	l.invalidate(r)
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a quick link.
func (l *Links) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := l.links.Delete(id); err != nil {
		respondStoreError(w, "delete link", err)
		return
	}

	l.invalidate(r)
	respondOK(w)
}
