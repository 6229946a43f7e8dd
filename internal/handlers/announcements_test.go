package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"staffhub/internal/models"
)

func cleanTestAnnouncements(t *testing.T, env *testEnv, titles ...string) {
	t.Helper()
	for _, title := range titles {
		env.DB.Exec("DELETE FROM announcements WHERE title = $1", title)
	}
}

func TestAnnouncementCreateAndActiveWindow(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanTestAnnouncements(t, env, "Live Now", "Later On") })

	sess := testSession(adminUserID(t, env.DB), "admin@staffhub.local", "admin", true)

	req := httptest.NewRequest(http.MethodPost, "/api/announcements",
		strings.NewReader(`{"title":"Live Now","body":"office closed friday"}`))
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rr := httptest.NewRecorder()
	env.Announcements.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("create status: got %d, body %s", rr.Code, rr.Body.String())
	}

	future := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	req = httptest.NewRequest(http.MethodPost, "/api/announcements",
		strings.NewReader(`{"title":"Later On","body":"scheduled","publish_at":"`+future+`"}`))
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rr = httptest.NewRecorder()
	env.Announcements.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("create scheduled status: got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.Announcements.ListActive(rr, httptest.NewRequest(http.MethodGet, "/api/announcements", nil))

	body := rr.Body.String()
	if !strings.Contains(body, "Live Now") {
		t.Error("active listing should include the live announcement")
	}
	if strings.Contains(body, "Later On") {
		t.Error("active listing should not include a scheduled announcement")
	}

	rr = httptest.NewRecorder()
	env.Announcements.ListAll(rr, httptest.NewRequest(http.MethodGet, "/api/announcements/all", nil))
	if !strings.Contains(rr.Body.String(), "Later On") {
		t.Error("admin listing should include scheduled announcements")
	}
}

func TestAnnouncementExpiryValidation(t *testing.T) {
	env := newTestEnv(t)

	sess := testSession(adminUserID(t, env.DB), "admin@staffhub.local", "admin", true)

	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	req := httptest.NewRequest(http.MethodPost, "/api/announcements",
		strings.NewReader(`{"title":"Backwards","body":"x","expires_at":"`+past+`"}`))
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rr := httptest.NewRecorder()
	env.Announcements.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestAnnouncementUpdate(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanTestAnnouncements(t, env, "Edit Me", "Edited") })

	adminID := adminUserID(t, env.DB)
	created, err := env.AnnStore.Create(&models.Announcement{
		Title:     "Edit Me",
		Body:      "before",
		PublishAt: time.Now(),
		AuthorID:  adminID,
	})
	if err != nil {
		t.Fatalf("create announcement: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/announcements/"+created.ID.String(),
		strings.NewReader(`{"title":"Edited","body":"after"}`))
	req = withChiURLParam(req, "id", created.ID.String())
	rr := httptest.NewRecorder()
	env.Announcements.Update(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("update status: got %d, body %s", rr.Code, rr.Body.String())
	}
	updated := decodeBody[models.Announcement](t, rr)
	if updated.Title != "Edited" || updated.Body != "after" {
		t.Errorf("update result: got %q/%q", updated.Title, updated.Body)
	}
}
