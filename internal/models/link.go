// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Link is a quick link on the intranet homepage. It may optionally be
// attached to a leaf of the taxonomy; unattached links appear in the
// flat "all links" listing only. Listings order newest first.
type Link struct {
	ID               uuid.UUID  `json:"id"`
	Label            string     `json:"label"`
	URL              string     `json:"url"`
	SubSubCategoryID *uuid.UUID `json:"subsubcategory_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
