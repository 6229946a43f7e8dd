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

// Taxonomy groups the handlers for the three-level quick-link taxonomy:
// categories, subcategories, and subsubcategories.
type Taxonomy struct {
	categories *store.CategoryStore
	subs       *store.SubCategoryStore
	subsubs    *store.SubSubCategoryStore
	listings   *cache.ListingCache
}

// NewTaxonomy creates a new Taxonomy handler group. listings may be nil
// when the cache is not configured.
func NewTaxonomy(categories *store.CategoryStore, subs *store.SubCategoryStore, subsubs *store.SubSubCategoryStore, listings *cache.ListingCache) *Taxonomy {
	return &Taxonomy{
		categories: categories,
		subs:       subs,
		subsubs:    subsubs,
		listings:   listings,
	}
}

// nodeInput is the request body for creating and updating taxonomy
// nodes at every level. On update, nil fields are left unchanged and an
// empty description clears the stored value.
type nodeInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// normalizeDescription maps a submitted description onto its stored
// form: trimmed, with empty collapsing to NULL.
func normalizeDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*desc)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// invalidateTree drops the cached taxonomy tree after a mutation.
func (t *Taxonomy) invalidateTree(r *http.Request) {
	if t.listings != nil {
		t.listings.Invalidate(r.Context(), cache.KeyTree)
	}
}

// Tree returns the full three-level taxonomy with ordered siblings,
// served from the listing cache when possible.
func (t *Taxonomy) Tree(w http.ResponseWriter, r *http.Request) {
	if t.listings != nil {
		if payload, ok := t.listings.Get(r.Context(), cache.KeyTree); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	tree, err := t.categories.Tree()
	if err != nil {
		slog.Error("taxonomy tree failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	payload, err := json.Marshal(tree)
	if err != nil {
		slog.Error("taxonomy tree encode failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if t.listings != nil {
		t.listings.Set(r.Context(), cache.KeyTree, payload)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// --- Categories ---

// CategoriesList returns all categories sorted by name.
func (t *Taxonomy) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := t.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// CategoryGet returns one category with its ordered children.
func (t *Taxonomy) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	category, err := t.categories.FindByID(id)
	if err != nil {
		respondStoreError(w, "find category", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	subs, err := t.subs.ListByCategory(id)
	if err != nil {
		respondStoreError(w, "list subcategories", err)
		return
	}
	category.SubCategories = subs

	respondJSON(w, http.StatusOK, category)
}

// CategoryCreate creates a new top-level category.
func (t *Taxonomy) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in nodeInput
	if !decodeJSON(w, r, &in) {
		return
	}

	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if msg := validateName(name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateDescription(in.Description); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	category, err := t.categories.Create(name, normalizeDescription(in.Description))
	if err != nil {
		respondStoreError(w, "create category", err)
		return
	}

	t.invalidateTree(r)
	respondJSON(w, http.StatusCreated, category)
}

// CategoryUpdate renames a category or changes its description.
func (t *Taxonomy) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var in nodeInput
	if !decodeJSON(w, r, &in) {
		return
	}

	category, err := t.categories.FindByID(id)
	if err != nil {
		respondStoreError(w, "find category", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if msg := validateName(name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		category.Name = name
	}
	if in.Description != nil {
		if msg := validateDescription(in.Description); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		category.Description = normalizeDescription(in.Description)
	}

	updated, err := t.categories.Update(category)
	if err != nil {
		respondStoreError(w, "update category", err)
		return
	}

	t.invalidateTree(r)
	respondJSON(w, http.StatusOK, updated)
}

// CategoryDelete removes a category. Depending on the configured delete
// policy a category with children is either rejected (409) or removed
// together with its subtree.
func (t *Taxonomy) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := t.categories.Delete(id); err != nil {
		respondStoreError(w, "delete category", err)
		return
	}

	t.invalidateTree(r)
	respondOK(w)
}

// --- SubCategories ---

type subCategoryCreateInput struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	CategoryID  uuid.UUID `json:"category_id"`
}

// SubCategoriesList returns the subcategories of a category in sibling
// order.
func (t *Taxonomy) SubCategoriesList(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	subs, err := t.subs.ListByCategory(id)
	if err != nil {
		respondStoreError(w, "list subcategories", err)
		return
	}
	respondJSON(w, http.StatusOK, subs)
}

// SubCategoryGet returns one subcategory with its ordered children.
func (t *Taxonomy) SubCategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	sub, err := t.subs.FindByID(id)
	if err != nil {
		respondStoreError(w, "find subcategory", err)
		return
	}
	if sub == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	subsubs, err := t.subsubs.ListBySubCategory(id)
	if err != nil {
		respondStoreError(w, "list subsubcategories", err)
		return
	}
	sub.SubSubCategories = subsubs

	respondJSON(w, http.StatusOK, sub)
}

// SubCategoryCreate appends a new subcategory as the last sibling under
// its parent category. A missing parent yields 404 and no record.
func (t *Taxonomy) SubCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in subCategoryCreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if msg := validateName(name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateDescription(in.Description); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if in.CategoryID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "category_id is required")
		return
	}

	sub, err := t.subs.Create(r.Context(), name, normalizeDescription(in.Description), in.CategoryID)
	if err != nil {
		respondStoreError(w, "create subcategory", err)
		return
	}

	t.invalidateTree(r)
	respondJSON(w, http.StatusCreated, sub)
}

// SubCategoryUpdate renames a subcategory or changes its description.
// Sibling order never changes on update.
func (t *Taxonomy) SubCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var in nodeInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sub, err := t.subs.FindByID(id)
	if err != nil {
		respondStoreError(w, "find subcategory", err)
		return
	}
	if sub == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if msg := validateName(name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		sub.Name = name
	}
	if in.Description != nil {
		if msg := validateDescription(in.Description); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		sub.Description = normalizeDescription(in.Description)
	}

	updated, err := t.subs.Update(sub)
	if err != nil {
		respondStoreError(w, "update subcategory", err)
		return
	}

	t.invalidateTree(r)
	respondJSON(w, http.StatusOK, updated)
}

// SubCategoryDelete removes a subcategory subject to the delete policy.
func (t *Taxonomy) SubCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := t.subs.Delete(id); err != nil {
		respondStoreError(w, "delete subcategory", err)
		return
	}

	t.invalidateTree(r)
	respondOK(w)
}

// --- SubSubCategories ---

type subSubCategoryCreateInput struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	SubCategoryID uuid.UUID `json:"subcategory_id"`
}

// SubSubCategoriesList returns the leaves of a subcategory in sibling
// order.
func (t *Taxonomy) SubSubCategoriesList(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	subsubs, err := t.subsubs.ListBySubCategory(id)
	if err != nil {
		respondStoreError(w, "list subsubcategories", err)
		return
	}
	respondJSON(w, http.StatusOK, subsubs)
}

// SubSubCategoryCreate appends a new leaf as the last sibling under its
// parent subcategory.
func (t *Taxonomy) SubSubCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in subSubCategoryCreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if msg := validateName(name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateDescription(in.Description); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if in.SubCategoryID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "subcategory_id is required")
		return
	}

	leaf, err := t.subsubs.Create(r.Context(), name, normalizeDescription(in.Description), in.SubCategoryID)
	if err != nil {
		respondStoreError(w, "create subsubcategory", err)
		return
	}

	t.invalidateTree(r)
	respondJSON(w, http.StatusCreated, leaf)
}

// SubSubCategoryUpdate renames a leaf or changes its description.
func (t *Taxonomy) SubSubCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var in nodeInput
	if !decodeJSON(w, r, &in) {
		return
	}

	leaf, err := t.subsubs.FindByID(id)
	if err != nil {
		respondStoreError(w, "find subsubcategory", err)
		return
	}
	if leaf == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if msg := validateName(name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		leaf.Name = name
	}
	if in.Description != nil {
		if msg := validateDescription(in.Description); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		leaf.Description = normalizeDescription(in.Description)
	}

	updated, err := t.subsubs.Update(leaf)
	if err != nil {
		respondStoreError(w, "update subsubcategory", err)
		return
	}

	t.invalidateTree(r)
	respondJSON(w, http.StatusOK, updated)
}

// SubSubCategoryDelete removes a leaf. Attached links survive with
// their taxonomy reference cleared, so both listings are invalidated.
func (t *Taxonomy) SubSubCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := t.subsubs.Delete(id); err != nil {
		respondStoreError(w, "delete subsubcategory", err)
		return
	}

	if t.listings != nil {
		t.listings.Invalidate(r.Context(), cache.KeyTree, cache.KeyLinks)
	}
	respondOK(w)
}
