// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all StaffHub
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist,
	// including when a create references a missing parent.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a delete is rejected because the target
	// still has children and the delete policy is "restrict".
	ErrConflict = errors.New("children exist")
)
