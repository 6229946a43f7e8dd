// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the top level of the quick-link taxonomy. It owns zero or
// more SubCategories and carries no ordering of its own.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by TaxonomyStore.Tree.
	SubCategories []SubCategory `json:"subcategories,omitempty"`
}

// SubCategory is the middle level of the taxonomy. SortOrder is unique
// within the sibling set sharing the same CategoryID and is assigned by
// append-as-last-sibling: max(existing) + 1, starting at 1.
type SubCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CategoryID  uuid.UUID `json:"category_id"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by TaxonomyStore.Tree.
	SubSubCategories []SubSubCategory `json:"subsubcategories,omitempty"`
}

// SubSubCategory is the leaf level of the taxonomy. Ordering follows the
// same append-as-last-sibling rule, scoped to SubCategoryID.
type SubSubCategory struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	SubCategoryID uuid.UUID `json:"subcategory_id"`
	SortOrder     int       `json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
