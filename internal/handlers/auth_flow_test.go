// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"staffhub/internal/models"
)

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@staffhub.local","password":"wrong"}`))
	rr := httptest.NewRecorder()
	env.Auth.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	env := newTestEnv(t)

	bodies := []string{
		`{"email":"nobody@staffhub.local","password":"whatever"}`,
		`{"email":"admin@staffhub.local","password":"wrong"}`,
	}

	var responses []string
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rr := httptest.NewRecorder()
		env.Auth.Login(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d, want 401", rr.Code)
		}
		responses = append(responses, rr.Body.String())
	}

	// Unknown email and wrong password must be indistinguishable.
	if responses[0] != responses[1] {
		t.Errorf("responses differ: %q vs %q", responses[0], responses[1])
	}
}

func TestFullAuthFlowWithTOTPEnrollment(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanTestUsers(t, env, "flow@staffhub.local") })

	user, err := env.UserStore.Create("flow@staffhub.local", "long-enough-pass", "Flow User", models.RoleMember, nil, nil, nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Step 1: login. A fresh account is told to enroll an authenticator.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"flow@staffhub.local","password":"long-enough-pass"}`))
	rr := httptest.NewRecorder()
	env.Auth.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("login status: got %d, body %s", rr.Code, rr.Body.String())
	}
	loginResp := decodeBody[map[string]string](t, rr)
	if loginResp["two_fa"] != "setup" {
		t.Fatalf("two_fa: got %q, want setup", loginResp["two_fa"])
	}

	var sessionCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if strings.Contains(c.Name, "session") {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("login should set a session cookie")
	}

	// Sessions created by login have 2FA incomplete; simulate the loaded
	// session the middleware would provide.
	sessData, err := env.Sessions.Get(t.Context(), func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(sessionCookie)
		return r
	}())
	if err != nil || sessData == nil {
		t.Fatalf("session lookup: %v", err)
	}
	if sessData.TwoFADone {
		t.Fatal("session should start with 2FA incomplete")
	}

	// Step 2: setup. Returns the shared secret and a QR code.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/2fa/setup", nil)
	req.AddCookie(sessionCookie)
	req = req.WithContext(ctxWithSession(req.Context(), sessData))
	rr = httptest.NewRecorder()
	env.Auth.TwoFASetup(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("setup status: got %d, body %s", rr.Code, rr.Body.String())
	}
	setupResp := decodeBody[map[string]string](t, rr)
	if setupResp["secret"] == "" || setupResp["qr_png"] == "" {
		t.Fatal("setup should return a secret and QR code")
	}

	// Step 3: verify with a code generated from the secret.
	code, err := totp.GenerateCode(setupResp["secret"], time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/2fa/verify",
		strings.NewReader(`{"code":"`+code+`"}`))
	req.AddCookie(sessionCookie)
	req = req.WithContext(ctxWithSession(req.Context(), sessData))
	rr = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("verify status: got %d, body %s", rr.Code, rr.Body.String())
	}

	// Enrollment is now permanent and the session is fully authenticated.
	fresh, err := env.UserStore.FindByID(user.ID)
	if err != nil || fresh == nil {
		t.Fatalf("find user: %v", err)
	}
	if !fresh.TOTPEnabled {
		t.Error("TOTP should be enabled after first verification")
	}

	verified, err := env.Sessions.Get(t.Context(), func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(sessionCookie)
		return r
	}())
	if err != nil || verified == nil {
		t.Fatalf("session after verify: %v", err)
	}
	if !verified.TwoFADone {
		t.Error("session should be marked 2FA complete")
	}
}

func TestTwoFAVerifyBadCode(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanTestUsers(t, env, "badcode@staffhub.local") })

	user, err := env.UserStore.Create("badcode@staffhub.local", "long-enough-pass", "Bad Code", models.RoleMember, nil, nil, nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := env.UserStore.SetTOTPSecret(user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("set secret: %v", err)
	}

	sess := testSession(user.ID, user.Email, "member", false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/2fa/verify",
		strings.NewReader(`{"code":"000000"}`))
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rr := httptest.NewRecorder()
	env.Auth.TwoFAVerify(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr := httptest.NewRecorder()
	env.Auth.Me(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}
