// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"staffhub/internal/models"
)

// DeletePolicy controls what happens to child subcategories when a
// category (or subcategory) is deleted.
type DeletePolicy string

const (
	// DeleteRestrict rejects the delete with ErrConflict while children exist.
	DeleteRestrict DeletePolicy = "restrict"

	// DeleteCascade removes all descendants in the same transaction.
	// Links attached to removed leaves are detached, not deleted
	// (ON DELETE SET NULL on the foreign key).
	DeleteCascade DeletePolicy = "cascade"
)

// CategoryStore manages the top level of the link taxonomy.
type CategoryStore struct {
	db     *sql.DB
	policy DeletePolicy
}

// NewCategoryStore returns a new CategoryStore with the given delete policy.
func NewCategoryStore(db *sql.DB, policy DeletePolicy) *CategoryStore {
	return &CategoryStore{db: db, policy: policy}
}

const categoryColumns = `id, name, description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns the full taxonomy: categories with their subcategories and
// sub-subcategories nested, siblings ordered by sort_order.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	cats, err := s.List()
	if err != nil {
		return nil, err
	}

	subRows, err := s.db.Query(`
		SELECT ` + subCategoryColumns + `
		FROM subcategories ORDER BY category_id, sort_order`)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer subRows.Close()

	subsByParent := make(map[uuid.UUID][]models.SubCategory)
	for subRows.Next() {
		sc, err := scanSubCategory(subRows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subsByParent[sc.CategoryID] = append(subsByParent[sc.CategoryID], *sc)
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}

	leafRows, err := s.db.Query(`
		SELECT ` + subSubCategoryColumns + `
		FROM subsubcategories ORDER BY subcategory_id, sort_order`)
	if err != nil {
		return nil, fmt.Errorf("list subsubcategories: %w", err)
	}
	defer leafRows.Close()

	leavesByParent := make(map[uuid.UUID][]models.SubSubCategory)
	for leafRows.Next() {
		ssc, err := scanSubSubCategory(leafRows)
		if err != nil {
			return nil, fmt.Errorf("scan subsubcategory: %w", err)
		}
		leavesByParent[ssc.SubCategoryID] = append(leavesByParent[ssc.SubCategoryID], *ssc)
	}
	if err := leafRows.Err(); err != nil {
		return nil, err
	}

	for i := range cats {
		subs := subsByParent[cats[i].ID]
		for j := range subs {
			subs[j].SubSubCategories = leavesByParent[subs[j].ID]
		}
		cats[i].SubCategories = subs
	}
	return cats, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(name string, description *string) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		name, description,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update modifies an existing category. Returns ErrNotFound if the ID
// does not exist.
func (s *CategoryStore) Update(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		UPDATE categories SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+categoryColumns,
		c.Name, c.Description, c.ID,
	)
	updated, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

// Delete removes a category by ID, applying the configured delete policy
// to its subtree. Returns ErrNotFound if the ID does not exist and
// ErrConflict when the policy is restrict and children remain.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete category: begin tx: %w", err)
	}
	defer tx.Rollback()

	var childCount int
	err = tx.QueryRow(`SELECT COUNT(*) FROM subcategories WHERE category_id = $1`, id).Scan(&childCount)
	if err != nil {
		return fmt.Errorf("delete category: count children: %w", err)
	}

	if childCount > 0 {
		if s.policy == DeleteRestrict {
			return ErrConflict
		}
		// Cascade: remove leaves first, then the middle level.
		_, err = tx.Exec(`
			DELETE FROM subsubcategories WHERE subcategory_id IN
				(SELECT id FROM subcategories WHERE category_id = $1)`, id)
		if err != nil {
			return fmt.Errorf("delete category: cascade subsubcategories: %w", err)
		}
		if _, err = tx.Exec(`DELETE FROM subcategories WHERE category_id = $1`, id); err != nil {
			return fmt.Errorf("delete category: cascade subcategories: %w", err)
		}
	}

	res, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
