// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

// NextOrder returns the sort order for a new sibling appended to the set
// with the given existing orders: max + 1, or 1 for an empty set. The
// production inserts compute the same expression in SQL inside the insert
// statement itself so the read and the write cannot be interleaved; this
// function is the reference definition of that rule.
func NextOrder(orders []int) int {
	next := 1
	for _, o := range orders {
		if o >= next {
			next = o + 1
		}
	}
	return next
}
