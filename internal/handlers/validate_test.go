package handlers

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Engineering", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"max length", strings.Repeat("a", 200), false},
		{"over max length", strings.Repeat("a", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateName(tt.input)
			if (got != "") != tt.wantErr {
				t.Errorf("validateName(%q) = %q, wantErr %v", tt.input, got, tt.wantErr)
			}
		})
	}
}

func TestValidateLink(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		url     string
		wantErr bool
	}{
		{"valid https", "Portal", "https://portal.example.com", false},
		{"valid http", "Legacy", "http://legacy.internal", false},
		{"empty label", "", "https://example.com", true},
		{"empty url", "X", "", true},
		{"relative url", "X", "/path/only", true},
		{"no host", "X", "https://", true},
		{"ftp scheme", "X", "ftp://example.com/file", true},
		{"long url", "X", "https://example.com/" + strings.Repeat("a", 2000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateLink(tt.label, tt.url)
			if (got != "") != tt.wantErr {
				t.Errorf("validateLink(%q, %q) = %q, wantErr %v", tt.label, tt.url, got, tt.wantErr)
			}
		})
	}
}

func TestValidateNewUser(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		password    string
		displayName string
		wantErr     bool
	}{
		{"valid", "a@b.c", "long-enough-pass", "A B", false},
		{"no at sign", "nope", "long-enough-pass", "A", true},
		{"short password", "a@b.c", "short", "A", true},
		{"empty display name", "a@b.c", "long-enough-pass", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateNewUser(tt.email, tt.password, tt.displayName)
			if (got != "") != tt.wantErr {
				t.Errorf("validateNewUser = %q, wantErr %v", got, tt.wantErr)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	if got := normalizeDescription(nil); got != nil {
		t.Errorf("nil should stay nil, got %v", got)
	}

	empty := "   "
	if got := normalizeDescription(&empty); got != nil {
		t.Errorf("blank should collapse to nil, got %q", *got)
	}

	padded := "  keep me  "
	got := normalizeDescription(&padded)
	if got == nil || *got != "keep me" {
		t.Errorf("value should be trimmed, got %v", got)
	}
}
