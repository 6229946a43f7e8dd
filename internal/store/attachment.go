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

// AttachmentStore manages document attachment metadata. The files
// themselves live in S3-compatible object storage.
type AttachmentStore struct {
	db *sql.DB
}

// NewAttachmentStore returns a new AttachmentStore.
func NewAttachmentStore(db *sql.DB) *AttachmentStore {
	return &AttachmentStore{db: db}
}

const attachmentColumns = `id, document_id, filename, original_name, content_type, size_bytes, s3_key, uploader_id, created_at`

// scanAttachment scans a row into an Attachment struct.
func scanAttachment(scanner interface{ Scan(...any) error }) (*models.Attachment, error) {
	var a models.Attachment
	err := scanner.Scan(
		&a.ID, &a.DocumentID, &a.Filename, &a.OriginalName, &a.ContentType,
		&a.SizeBytes, &a.S3Key, &a.UploaderID, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByDocument returns a document's attachments, newest first.
func (s *AttachmentStore) ListByDocument(documentID uuid.UUID) ([]models.Attachment, error) {
	rows, err := s.db.Query(`
		SELECT `+attachmentColumns+`
		FROM attachments WHERE document_id = $1 ORDER BY created_at DESC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var items []models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByID retrieves an attachment by ID. Returns nil if not found.
func (s *AttachmentStore) FindByID(id uuid.UUID) (*models.Attachment, error) {
	row := s.db.QueryRow(`SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id)
	a, err := scanAttachment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attachment by id: %w", err)
	}
	return a, nil
}

// Create inserts attachment metadata and returns it.
func (s *AttachmentStore) Create(a *models.Attachment) (*models.Attachment, error) {
	row := s.db.QueryRow(`
		INSERT INTO attachments (document_id, filename, original_name, content_type, size_bytes, s3_key, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+attachmentColumns,
		a.DocumentID, a.Filename, a.OriginalName, a.ContentType, a.SizeBytes, a.S3Key, a.UploaderID,
	)
	created, err := scanAttachment(row)
	if err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return created, nil
}

// Delete removes attachment metadata and returns the deleted row so the
// caller can clean up the S3 object. Returns ErrNotFound if the ID does
// not exist.
func (s *AttachmentStore) Delete(id uuid.UUID) (*models.Attachment, error) {
	row := s.db.QueryRow(`DELETE FROM attachments WHERE id = $1 RETURNING `+attachmentColumns, id)
	a, err := scanAttachment(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete attachment: %w", err)
	}
	return a, nil
}
