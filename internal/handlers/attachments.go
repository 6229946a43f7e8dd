// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"staffhub/internal/middleware"
	"staffhub/internal/models"
	"staffhub/internal/storage"
	"staffhub/internal/store"
)

const (
	// maxAttachmentBytes caps attachment uploads at 25 MiB.
	maxAttachmentBytes = 25 << 20

	// downloadURLTTL is how long presigned download links stay valid.
	downloadURLTTL = 15 * time.Minute
)

// Attachments groups the handlers for wiki document attachments.
type Attachments struct {
	attachments *store.AttachmentStore
	documents   *store.DocumentStore
	storage     *storage.Client
}

// NewAttachments creates a new Attachments handler group. storageClient
// may be nil when S3 is not configured; uploads then return 503.
func NewAttachments(attachments *store.AttachmentStore, documents *store.DocumentStore, storageClient *storage.Client) *Attachments {
	return &Attachments{
		attachments: attachments,
		documents:   documents,
		storage:     storageClient,
	}
}

// ListByDocument returns the attachments of one document, newest first.
func (a *Attachments) ListByDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	attachments, err := a.attachments.ListByDocument(id)
	if err != nil {
		respondStoreError(w, "list attachments", err)
		return
	}
	respondJSON(w, http.StatusOK, attachments)
}

// Upload stores a multipart file upload in S3 and records its metadata
// against the document in the URL.
func (a *Attachments) Upload(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "attachment storage is not configured")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	documentID, ok := urlID(w, r)
	if !ok {
		return
	}

	doc, err := a.documents.FindByID(documentID)
	if err != nil {
		respondStoreError(w, "find document", err)
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "a file field is required (max 25 MiB)")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Object keys are opaque; the original name survives in metadata.
	filename := uuid.New().String() + filepath.Ext(header.Filename)
	key := fmt.Sprintf("attachments/%s/%s", documentID, filename)

	if err := a.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("attachment upload failed", "error", err, "document", documentID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	attachment, err := a.attachments.Create(&models.Attachment{
		DocumentID:   documentID,
		Filename:     filename,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    header.Size,
		S3Key:        key,
		UploaderID:   sess.UserID,
	})
	if err != nil {
		// Keep the bucket consistent with the metadata table.
		if cleanupErr := a.storage.Delete(r.Context(), key); cleanupErr != nil {
			slog.Error("orphaned attachment cleanup failed", "error", cleanupErr, "key", key)
		}
		respondStoreError(w, "create attachment", err)
		return
	}

	respondJSON(w, http.StatusCreated, attachment)
}

// DownloadURL returns a short-lived presigned URL for an attachment.
func (a *Attachments) DownloadURL(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "attachment storage is not configured")
		return
	}

	id, ok := urlID(w, r)
	if !ok {
		return
	}

	attachment, err := a.attachments.FindByID(id)
	if err != nil {
		respondStoreError(w, "find attachment", err)
		return
	}
	if attachment == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	url, err := a.storage.PresignedURL(r.Context(), attachment.S3Key, downloadURLTTL)
	if err != nil {
		slog.Error("presign attachment failed", "error", err, "attachment", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"url":      url,
		"filename": attachment.OriginalName,
	})
}

// Delete removes an attachment's metadata and its S3 object.
func (a *Attachments) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	deleted, err := a.attachments.Delete(id)
	if err != nil {
		respondStoreError(w, "delete attachment", err)
		return
	}

	if a.storage != nil {
		if err := a.storage.Delete(r.Context(), deleted.S3Key); err != nil {
			// Metadata is gone; log the orphaned object for later sweep.
			slog.Error("delete attachment object failed", "error", err, "key", deleted.S3Key)
		}
	}

	respondOK(w)
}
