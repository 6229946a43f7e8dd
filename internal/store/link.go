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

// LinkStore manages quick links.
type LinkStore struct {
	db *sql.DB
}

// NewLinkStore returns a new LinkStore.
func NewLinkStore(db *sql.DB) *LinkStore {
	return &LinkStore{db: db}
}

const linkColumns = `id, label, url, subsubcategory_id, created_at`

// scanLink scans a row into a Link struct.
func scanLink(scanner interface{ Scan(...any) error }) (*models.Link, error) {
	var l models.Link
	err := scanner.Scan(&l.ID, &l.Label, &l.URL, &l.SubSubCategoryID, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns links ordered newest first. A non-empty query filters
// case-insensitively on the label.
func (s *LinkStore) List(query string) ([]models.Link, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if query == "" {
		rows, err = s.db.Query(`SELECT ` + linkColumns + ` FROM links ORDER BY created_at DESC`)
	} else {
		rows, err = s.db.Query(`
			SELECT `+linkColumns+` FROM links
			WHERE label ILIKE '%' || $1 || '%'
			ORDER BY created_at DESC`,
			query,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var items []models.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// ListBySubSubCategory returns links attached to a taxonomy leaf, newest
// first.
func (s *LinkStore) ListBySubSubCategory(id uuid.UUID) ([]models.Link, error) {
	rows, err := s.db.Query(`
		SELECT `+linkColumns+` FROM links
		WHERE subsubcategory_id = $1 ORDER BY created_at DESC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list links by leaf: %w", err)
	}
	defer rows.Close()

	var items []models.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// FindByID retrieves a link by ID. Returns nil if not found.
func (s *LinkStore) FindByID(id uuid.UUID) (*models.Link, error) {
	row := s.db.QueryRow(`SELECT `+linkColumns+` FROM links WHERE id = $1`, id)
	l, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find link by id: %w", err)
	}
	return l, nil
}

// Create inserts a new link. When subSubCategoryID is non-nil the parent
// leaf must exist; a missing parent surfaces as ErrNotFound. The parent
// check rides in the INSERT itself so a concurrent leaf delete cannot
// slip between check and insert.
func (s *LinkStore) Create(label, url string, subSubCategoryID *uuid.UUID) (*models.Link, error) {
	var row *sql.Row
	if subSubCategoryID != nil {
		row = s.db.QueryRow(`
			INSERT INTO links (label, url, subsubcategory_id)
			SELECT $1, $2, id FROM subsubcategories WHERE id = $3
			RETURNING `+linkColumns,
			label, url, *subSubCategoryID,
		)
	} else {
		row = s.db.QueryRow(`
			INSERT INTO links (label, url, subsubcategory_id)
			VALUES ($1, $2, NULL)
			RETURNING `+linkColumns,
			label, url,
		)
	}

	l, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}
	return l, nil
}

// Update modifies a link's label and URL. Returns ErrNotFound if the ID
// does not exist.
func (s *LinkStore) Update(l *models.Link) (*models.Link, error) {
	row := s.db.QueryRow(`
		UPDATE links SET label = $1, url = $2
		WHERE id = $3
		RETURNING `+linkColumns,
		l.Label, l.URL, l.ID,
	)
	updated, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}
	return updated, nil
}

// Delete removes a link by ID. Returns ErrNotFound if the ID does not exist.
func (s *LinkStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete link: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
