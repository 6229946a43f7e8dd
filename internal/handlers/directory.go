// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"staffhub/internal/middleware"
	"staffhub/internal/models"
	"staffhub/internal/store"
)

// Directory groups the staff directory and account management handlers.
type Directory struct {
	users *store.UserStore
}

// NewDirectory creates a new Directory handler group.
func NewDirectory(users *store.UserStore) *Directory {
	return &Directory{users: users}
}

// List returns the staff directory sorted by display name. An optional
// ?q= parameter searches across name, email, and department.
func (d *Directory) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	users, err := d.users.List(query)
	if err != nil {
		slog.Error("list directory failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Get returns one staff member's directory entry.
func (d *Directory) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	user, err := d.users.FindByID(id)
	if err != nil {
		respondStoreError(w, "find user", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type userCreateInput struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	Department  *string `json:"department"`
	JobTitle    *string `json:"job_title"`
	Phone       *string `json:"phone"`
}

// Create adds a staff account. Admin only. New accounts must enroll a
// two-factor authenticator on first login.
func (d *Directory) Create(w http.ResponseWriter, r *http.Request) {
	var in userCreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	if msg := validateNewUser(in.Email, in.Password, in.DisplayName); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	role := models.RoleMember
	switch in.Role {
	case "", string(models.RoleMember):
	case string(models.RoleAdmin):
		role = models.RoleAdmin
	default:
		respondError(w, http.StatusBadRequest, "role must be admin or member")
		return
	}

	existing, err := d.users.FindByEmail(strings.TrimSpace(in.Email))
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "email already registered")
		return
	}

	user, err := d.users.Create(
		strings.TrimSpace(in.Email),
		in.Password,
		strings.TrimSpace(in.DisplayName),
		role,
		in.Department, in.JobTitle, in.Phone,
	)
	if err != nil {
		respondStoreError(w, "create user", err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type profileUpdateInput struct {
	DisplayName *string `json:"display_name"`
	Department  *string `json:"department"`
	JobTitle    *string `json:"job_title"`
	Phone       *string `json:"phone"`
}

// UpdateProfile lets the authenticated user edit their own directory
// entry. Role and email changes are deliberately excluded.
func (d *Directory) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in profileUpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := d.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("profile lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	displayName := user.DisplayName
	if in.DisplayName != nil {
		displayName = strings.TrimSpace(*in.DisplayName)
		if displayName == "" {
			respondError(w, http.StatusBadRequest, "display name is required")
			return
		}
	}
	department := user.Department
	if in.Department != nil {
		department = normalizeDescription(in.Department)
	}
	jobTitle := user.JobTitle
	if in.JobTitle != nil {
		jobTitle = normalizeDescription(in.JobTitle)
	}
	phone := user.Phone
	if in.Phone != nil {
		phone = normalizeDescription(in.Phone)
	}

	updated, err := d.users.UpdateProfile(sess.UserID, displayName, department, jobTitle, phone)
	if err != nil {
		respondStoreError(w, "update profile", err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// ResetTwoFA clears a user's TOTP enrollment so they must re-enroll on
// next login. Admin only; used when staff lose their authenticator.
func (d *Directory) ResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	user, err := d.users.FindByID(id)
	if err != nil {
		respondStoreError(w, "find user", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if err := d.users.ResetTOTP(id); err != nil {
		respondStoreError(w, "reset totp", err)
		return
	}

	slog.Info("two-factor reset", "user", id)
	respondOK(w)
}
