package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for user-supplied fields.
const (
	maxNameLen     = 200
	maxDescLen     = 1_000
	maxLabelLen    = 300
	maxURLLen      = 2_000
	maxTitleLen    = 300
	maxBodyLen     = 100_000
	maxEmailLen    = 320
	maxProfileLen  = 200
	minPasswordLen = 8
)

// validateName checks a taxonomy node name and returns the first error
// found, or "" when valid. Callers use the trimmed value for storage.
func validateName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "name is too long (max 200 characters)"
	}
	return ""
}

// validateDescription checks an optional description field.
func validateDescription(desc *string) string {
	if desc != nil && utf8.RuneCountInString(*desc) > maxDescLen {
		return "description is too long (max 1,000 characters)"
	}
	return ""
}

// validateLink checks quick-link fields. The URL must be absolute with
// an http or https scheme.
func validateLink(label, rawURL string) string {
	if strings.TrimSpace(label) == "" {
		return "label is required"
	}
	if utf8.RuneCountInString(label) > maxLabelLen {
		return "label is too long (max 300 characters)"
	}
	if strings.TrimSpace(rawURL) == "" {
		return "url is required"
	}
	if utf8.RuneCountInString(rawURL) > maxURLLen {
		return "url is too long (max 2,000 characters)"
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "url must be absolute http or https"
	}
	return ""
}

// validateDocument checks wiki document fields.
func validateDocument(title, body string) string {
	if strings.TrimSpace(title) == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "body is too long (max 100,000 characters)"
	}
	return ""
}

// validateAnnouncement checks announcement fields.
func validateAnnouncement(title, body string) string {
	if strings.TrimSpace(title) == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if strings.TrimSpace(body) == "" {
		return "body is required"
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "body is too long (max 100,000 characters)"
	}
	return ""
}

// validateNewUser checks admin-created user fields.
func validateNewUser(email, password, displayName string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "a valid email is required"
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "email is too long"
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "password must be at least 8 characters"
	}
	if strings.TrimSpace(displayName) == "" {
		return "display name is required"
	}
	if utf8.RuneCountInString(displayName) > maxProfileLen {
		return "display name is too long (max 200 characters)"
	}
	return ""
}
