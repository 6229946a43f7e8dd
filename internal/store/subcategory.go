// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"

	"staffhub/internal/models"
)

// orderInsertRetries bounds how many times an ordered insert is retried
// after losing a sort_order race to a concurrent sibling insert.
const orderInsertRetries = 3

// SubCategoryStore manages the middle level of the link taxonomy.
type SubCategoryStore struct {
	db     *sql.DB
	policy DeletePolicy
}

// NewSubCategoryStore returns a new SubCategoryStore with the given
// delete policy.
func NewSubCategoryStore(db *sql.DB, policy DeletePolicy) *SubCategoryStore {
	return &SubCategoryStore{db: db, policy: policy}
}

const subCategoryColumns = `id, name, description, category_id, sort_order, created_at, updated_at`

// scanSubCategory scans a row into a SubCategory struct.
func scanSubCategory(scanner interface{ Scan(...any) error }) (*models.SubCategory, error) {
	var sc models.SubCategory
	err := scanner.Scan(
		&sc.ID, &sc.Name, &sc.Description, &sc.CategoryID,
		&sc.SortOrder, &sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new subcategory under the given parent category with
// sort_order = max(sibling orders) + 1, or 1 when the sibling set is empty.
//
// The order is computed inside the INSERT statement itself, in the same
// statement as the parent-existence check, so two concurrent creates under
// the same parent cannot both observe the same max. The UNIQUE
// (category_id, sort_order) constraint backs this up: if a race still
// produces a duplicate, the violating insert is retried a bounded number
// of times. Returns ErrNotFound when the parent category does not exist.
func (s *SubCategoryStore) Create(ctx context.Context, name string, description *string, categoryID uuid.UUID) (*models.SubCategory, error) {
	var created *models.SubCategory

	backoff := retry.WithMaxRetries(orderInsertRetries, retry.NewConstant(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx, `
			INSERT INTO subcategories (name, description, category_id, sort_order)
			SELECT $1, $2, c.id,
			       COALESCE((SELECT MAX(sc.sort_order) FROM subcategories sc WHERE sc.category_id = c.id), 0) + 1
			FROM categories c WHERE c.id = $3
			RETURNING `+subCategoryColumns,
			name, description, categoryID,
		)
		sc, err := scanSubCategory(row)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return fmt.Errorf("create subcategory: %w", err)
		}
		created = sc
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create subcategory: order conflict persisted: %w", err)
		}
		return nil, err
	}
	return created, nil
}

// ListByCategory returns all subcategories under a category, ordered by
// sort_order.
func (s *SubCategoryStore) ListByCategory(categoryID uuid.UUID) ([]models.SubCategory, error) {
	rows, err := s.db.Query(`
		SELECT `+subCategoryColumns+`
		FROM subcategories WHERE category_id = $1 ORDER BY sort_order`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.SubCategory
	for rows.Next() {
		sc, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, *sc)
	}
	return items, rows.Err()
}

// FindByID retrieves a subcategory by ID. Returns nil if not found.
func (s *SubCategoryStore) FindByID(id uuid.UUID) (*models.SubCategory, error) {
	row := s.db.QueryRow(`SELECT `+subCategoryColumns+` FROM subcategories WHERE id = $1`, id)
	sc, err := scanSubCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by id: %w", err)
	}
	return sc, nil
}

// Update modifies a subcategory's name and description. Sort order and
// parent are never changed here; callers only ever append new siblings.
// Returns ErrNotFound if the ID does not exist.
func (s *SubCategoryStore) Update(sc *models.SubCategory) (*models.SubCategory, error) {
	row := s.db.QueryRow(`
		UPDATE subcategories SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+subCategoryColumns,
		sc.Name, sc.Description, sc.ID,
	)
	updated, err := scanSubCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update subcategory: %w", err)
	}
	return updated, nil
}

// Delete removes a subcategory, applying the configured delete policy to
// its sub-subcategories. Returns ErrNotFound if the ID does not exist.
func (s *SubCategoryStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete subcategory: begin tx: %w", err)
	}
	defer tx.Rollback()

	var childCount int
	err = tx.QueryRow(`SELECT COUNT(*) FROM subsubcategories WHERE subcategory_id = $1`, id).Scan(&childCount)
	if err != nil {
		return fmt.Errorf("delete subcategory: count children: %w", err)
	}

	if childCount > 0 {
		if s.policy == DeleteRestrict {
			return ErrConflict
		}
		if _, err = tx.Exec(`DELETE FROM subsubcategories WHERE subcategory_id = $1`, id); err != nil {
			return fmt.Errorf("delete subcategory: cascade: %w", err)
		}
	}

	res, err := tx.Exec(`DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subcategory: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
