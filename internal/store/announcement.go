// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staffhub/internal/models"
)

// AnnouncementStore manages staff announcements.
type AnnouncementStore struct {
	db *sql.DB
}

// NewAnnouncementStore returns a new AnnouncementStore.
func NewAnnouncementStore(db *sql.DB) *AnnouncementStore {
	return &AnnouncementStore{db: db}
}

const announcementColumns = `id, title, body, publish_at, expires_at, author_id, created_at, updated_at`

// scanAnnouncement scans a row into an Announcement struct.
func scanAnnouncement(scanner interface{ Scan(...any) error }) (*models.Announcement, error) {
	var a models.Announcement
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Body, &a.PublishAt, &a.ExpiresAt,
		&a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListActive returns announcements visible at the given time, newest first.
func (s *AnnouncementStore) ListActive(now time.Time) ([]models.Announcement, error) {
	rows, err := s.db.Query(`
		SELECT `+announcementColumns+` FROM announcements
		WHERE publish_at <= $1 AND (expires_at IS NULL OR expires_at >= $1)
		ORDER BY publish_at DESC`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("list active announcements: %w", err)
	}
	return collectAnnouncements(rows)
}

// ListAll returns every announcement regardless of publish window, newest
// first. Used by the admin listing.
func (s *AnnouncementStore) ListAll() ([]models.Announcement, error) {
	rows, err := s.db.Query(`SELECT ` + announcementColumns + ` FROM announcements ORDER BY publish_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return collectAnnouncements(rows)
}

func collectAnnouncements(rows *sql.Rows) ([]models.Announcement, error) {
	defer rows.Close()
	var items []models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByID retrieves an announcement by ID. Returns nil if not found.
func (s *AnnouncementStore) FindByID(id uuid.UUID) (*models.Announcement, error) {
	row := s.db.QueryRow(`SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id)
	a, err := scanAnnouncement(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find announcement by id: %w", err)
	}
	return a, nil
}

// Create inserts a new announcement and returns it.
func (s *AnnouncementStore) Create(a *models.Announcement) (*models.Announcement, error) {
	row := s.db.QueryRow(`
		INSERT INTO announcements (title, body, publish_at, expires_at, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+announcementColumns,
		a.Title, a.Body, a.PublishAt, a.ExpiresAt, a.AuthorID,
	)
	created, err := scanAnnouncement(row)
	if err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return created, nil
}

// Update modifies an announcement. Returns ErrNotFound if the ID does not
// exist.
func (s *AnnouncementStore) Update(a *models.Announcement) (*models.Announcement, error) {
	row := s.db.QueryRow(`
		UPDATE announcements SET title = $1, body = $2, publish_at = $3, expires_at = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+announcementColumns,
		a.Title, a.Body, a.PublishAt, a.ExpiresAt, a.ID,
	)
	updated, err := scanAnnouncement(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	return updated, nil
}

// Delete removes an announcement by ID. Returns ErrNotFound if the ID does
// not exist.
func (s *AnnouncementStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete announcement: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
