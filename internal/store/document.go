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

// DocumentStore manages wiki documents and their revision history.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore returns a new DocumentStore.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, title, slug, body, author_id, created_at, updated_at`

const revisionColumns = `id, document_id, title, slug, body, editor_id, created_at`

// scanDocument scans a row into a Document struct.
func scanDocument(scanner interface{ Scan(...any) error }) (*models.Document, error) {
	var d models.Document
	err := scanner.Scan(&d.ID, &d.Title, &d.Slug, &d.Body, &d.AuthorID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// scanRevision scans a row into a DocumentRevision struct.
func scanRevision(scanner interface{ Scan(...any) error }) (*models.DocumentRevision, error) {
	var r models.DocumentRevision
	err := scanner.Scan(&r.ID, &r.DocumentID, &r.Title, &r.Slug, &r.Body, &r.EditorID, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns all documents ordered by title.
func (s *DocumentStore) List() ([]models.Document, error) {
	rows, err := s.db.Query(`SELECT ` + documentColumns + ` FROM documents ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var items []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// FindByID retrieves a document by ID. Returns nil if not found.
func (s *DocumentStore) FindByID(id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	return d, nil
}

// FindBySlug retrieves a document by slug. Returns nil if not found.
func (s *DocumentStore) FindBySlug(slug string) (*models.Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE slug = $1`, slug)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document by slug: %w", err)
	}
	return d, nil
}

// Create inserts a new document and returns it.
func (s *DocumentStore) Create(d *models.Document) (*models.Document, error) {
	row := s.db.QueryRow(`
		INSERT INTO documents (title, slug, body, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+documentColumns,
		d.Title, d.Slug, d.Body, d.AuthorID,
	)
	created, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}

// Update modifies a document, snapshotting its previous state into
// document_revisions in the same transaction. editorID records who made
// the edit. Returns ErrNotFound if the ID does not exist.
func (s *DocumentStore) Update(d *models.Document, editorID uuid.UUID) (*models.Document, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update document: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Snapshot the current row before touching it.
	_, err = tx.Exec(`
		INSERT INTO document_revisions (document_id, title, slug, body, editor_id)
		SELECT id, title, slug, body, $2 FROM documents WHERE id = $1`,
		d.ID, editorID,
	)
	if err != nil {
		return nil, fmt.Errorf("update document: snapshot revision: %w", err)
	}

	row := tx.QueryRow(`
		UPDATE documents SET title = $1, slug = $2, body = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+documentColumns,
		d.Title, d.Slug, d.Body, d.ID,
	)
	updated, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update document: commit: %w", err)
	}
	return updated, nil
}

// Delete removes a document and its revisions. Returns ErrNotFound if the
// ID does not exist.
func (s *DocumentStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRevisions returns a document's revisions, newest first.
func (s *DocumentStore) ListRevisions(documentID uuid.UUID) ([]models.DocumentRevision, error) {
	rows, err := s.db.Query(`
		SELECT `+revisionColumns+`
		FROM document_revisions WHERE document_id = $1 ORDER BY created_at DESC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var items []models.DocumentRevision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// FindRevision retrieves a single revision by ID. Returns nil if not found.
func (s *DocumentStore) FindRevision(id uuid.UUID) (*models.DocumentRevision, error) {
	row := s.db.QueryRow(`SELECT `+revisionColumns+` FROM document_revisions WHERE id = $1`, id)
	r, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find revision by id: %w", err)
	}
	return r, nil
}
