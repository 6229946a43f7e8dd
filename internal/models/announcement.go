// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a time-windowed notice shown to all staff. It becomes
// visible at PublishAt and disappears after ExpiresAt (nil = never).
type Announcement struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	PublishAt time.Time  `json:"publish_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	AuthorID  uuid.UUID  `json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsActive returns true if the announcement is visible at the given time.
func (a *Announcement) IsActive(now time.Time) bool {
	if now.Before(a.PublishAt) {
		return false
	}
	if a.ExpiresAt != nil && now.After(*a.ExpiresAt) {
		return false
	}
	return true
}
