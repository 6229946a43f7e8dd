// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"staffhub/internal/models"
)

// SubSubCategoryStore manages the leaf level of the link taxonomy.
type SubSubCategoryStore struct {
	db *sql.DB
}

// NewSubSubCategoryStore returns a new SubSubCategoryStore.
func NewSubSubCategoryStore(db *sql.DB) *SubSubCategoryStore {
	return &SubSubCategoryStore{db: db}
}

const subSubCategoryColumns = `id, name, description, subcategory_id, sort_order, created_at, updated_at`

// scanSubSubCategory scans a row into a SubSubCategory struct.
func scanSubSubCategory(scanner interface{ Scan(...any) error }) (*models.SubSubCategory, error) {
	var ssc models.SubSubCategory
	err := scanner.Scan(
		&ssc.ID, &ssc.Name, &ssc.Description, &ssc.SubCategoryID,
		&ssc.SortOrder, &ssc.CreatedAt, &ssc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ssc, nil
}

// Create inserts a new sub-subcategory under the given parent subcategory,
// one level down from SubCategoryStore.Create but with the same ordering
// rule: sort_order computed inside the INSERT, UNIQUE constraint backed,
// bounded retry on a lost race. Returns ErrNotFound when the parent
// subcategory does not exist.
func (s *SubSubCategoryStore) Create(ctx context.Context, name string, description *string, subCategoryID uuid.UUID) (*models.SubSubCategory, error) {
	var created *models.SubSubCategory

	backoff := retry.WithMaxRetries(orderInsertRetries, retry.NewConstant(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx, `
			INSERT INTO subsubcategories (name, description, subcategory_id, sort_order)
			SELECT $1, $2, sc.id,
			       COALESCE((SELECT MAX(ssc.sort_order) FROM subsubcategories ssc WHERE ssc.subcategory_id = sc.id), 0) + 1
			FROM subcategories sc WHERE sc.id = $3
			RETURNING `+subSubCategoryColumns,
			name, description, subCategoryID,
		)
		ssc, err := scanSubSubCategory(row)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return fmt.Errorf("create subsubcategory: %w", err)
		}
		created = ssc
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create subsubcategory: order conflict persisted: %w", err)
		}
		return nil, err
	}
	return created, nil
}

// ListBySubCategory returns all sub-subcategories under a subcategory,
// ordered by sort_order.
func (s *SubSubCategoryStore) ListBySubCategory(subCategoryID uuid.UUID) ([]models.SubSubCategory, error) {
	rows, err := s.db.Query(`
		SELECT `+subSubCategoryColumns+`
		FROM subsubcategories WHERE subcategory_id = $1 ORDER BY sort_order`,
		subCategoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subsubcategories: %w", err)
	}
	defer rows.Close()

	var items []models.SubSubCategory
	for rows.Next() {
		ssc, err := scanSubSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subsubcategory: %w", err)
		}
		items = append(items, *ssc)
	}
	return items, rows.Err()
}

// FindByID retrieves a sub-subcategory by ID. Returns nil if not found.
func (s *SubSubCategoryStore) FindByID(id uuid.UUID) (*models.SubSubCategory, error) {
	row := s.db.QueryRow(`SELECT `+subSubCategoryColumns+` FROM subsubcategories WHERE id = $1`, id)
	ssc, err := scanSubSubCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subsubcategory by id: %w", err)
	}
	return ssc, nil
}

// Update modifies a sub-subcategory's name and description. Returns
// ErrNotFound if the ID does not exist.
func (s *SubSubCategoryStore) Update(ssc *models.SubSubCategory) (*models.SubSubCategory, error) {
	row := s.db.QueryRow(`
		UPDATE subsubcategories SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+subSubCategoryColumns,
		ssc.Name, ssc.Description, ssc.ID,
	)
	updated, err := scanSubSubCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update subsubcategory: %w", err)
	}
	return updated, nil
}

// Delete removes a sub-subcategory. Attached links are detached by the
// foreign key (ON DELETE SET NULL), never deleted. Returns ErrNotFound if
// the ID does not exist.
func (s *SubSubCategoryStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM subsubcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subsubcategory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subsubcategory: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
