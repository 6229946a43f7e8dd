package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"staffhub/internal/models"
)

func TestAnnouncementStoreActiveWindow(t *testing.T) {
	db := testDB(t)
	s := NewAnnouncementStore(db)
	authorID := testUserID(t, db)
	now := time.Now()

	live := "test-ann-live-" + uuid.NewString()[:8]
	future := "test-ann-future-" + uuid.NewString()[:8]
	expired := "test-ann-expired-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanAnnouncements(t, db, live, future, expired) })

	past := now.Add(-48 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	for _, a := range []*models.Announcement{
		{Title: live, Body: "visible", PublishAt: past, AuthorID: authorID},
		{Title: future, Body: "not yet", PublishAt: tomorrow, AuthorID: authorID},
		{Title: expired, Body: "gone", PublishAt: lastWeek, ExpiresAt: &yesterday, AuthorID: authorID},
	} {
		if _, err := s.Create(a); err != nil {
			t.Fatalf("Create %q: %v", a.Title, err)
		}
	}

	active, err := s.ListActive(now)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}

	seen := make(map[string]bool)
	for _, a := range active {
		seen[a.Title] = true
	}
	if !seen[live] {
		t.Error("live announcement missing from active list")
	}
	if seen[future] {
		t.Error("future announcement leaked into active list")
	}
	if seen[expired] {
		t.Error("expired announcement leaked into active list")
	}

	// ListAll sees everything.
	all, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	seen = make(map[string]bool)
	for _, a := range all {
		seen[a.Title] = true
	}
	for _, title := range []string{live, future, expired} {
		if !seen[title] {
			t.Errorf("%q missing from ListAll", title)
		}
	}
}

func TestAnnouncementStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewAnnouncementStore(db)
	authorID := testUserID(t, db)

	title := "test-ann-upd-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanAnnouncements(t, db, title) })

	created, err := s.Create(&models.Announcement{
		Title:     title,
		Body:      "before",
		PublishAt: time.Now(),
		AuthorID:  authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Body = "after"
	updated, err := s.Update(created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Body != "after" {
		t.Errorf("body: got %q, want after", updated.Body)
	}
}
