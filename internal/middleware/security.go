// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders adds security-related HTTP headers to every response.
// The set is tuned for a JSON API: responses are never framed, never
// cached by intermediaries, and never interpreted as anything but their
// declared content type.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// Prevent the browser from MIME-sniffing the Content-Type.
		h.Set("X-Content-Type-Options", "nosniff")

		// API responses have no business inside a frame.
		h.Set("X-Frame-Options", "DENY")

		// Session-scoped JSON must not land in shared caches.
		h.Set("Cache-Control", "no-store")

		// API URLs can carry IDs; don't leak them cross-origin.
		h.Set("Referrer-Policy", "no-referrer")

		// Only same-origin documents may embed these responses.
		h.Set("Cross-Origin-Resource-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}
