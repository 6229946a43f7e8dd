// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewCSRFSecureFlag(t *testing.T) {
	tests := []struct {
		name   string
		secure bool
	}{
		{"secure true", true},
		{"secure false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csrf := NewCSRF(tt.secure)
			handler := csrf(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/tree", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			cookies := rr.Result().Cookies()
			found := false
			for _, c := range cookies {
				if c.Name == CSRFCookieName {
					found = true
					if c.Secure != tt.secure {
						t.Errorf("cookie Secure: got %v, want %v", c.Secure, tt.secure)
					}
					if c.SameSite != http.SameSiteStrictMode {
						t.Errorf("cookie SameSite: got %v, want StrictMode", c.SameSite)
					}
					if c.Value == "" {
						t.Error("cookie Value should not be empty")
					}
				}
			}
			if !found {
				t.Error("CSRF cookie not set")
			}
		})
	}
}

func TestCSRFAllowsSafeMethods(t *testing.T) {
	csrf := NewCSRF(false)
	inner, called := okHandler()
	handler := csrf(inner)

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		*called = false
		req := httptest.NewRequest(method, "/api/links", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if !*called {
			t.Errorf("%s should pass without a token", method)
		}
	}
}

func TestCSRFRejectsStateMutationWithoutToken(t *testing.T) {
	csrf := NewCSRF(false)
	inner, called := okHandler()
	handler := csrf(inner)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
	if *called {
		t.Error("next handler should not be called without a CSRF token")
	}
}

func TestCSRFAcceptsMatchingHeaderToken(t *testing.T) {
	csrf := NewCSRF(false)
	inner, called := okHandler()
	handler := csrf(inner)

	// First request issues the cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var token string
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("no CSRF cookie issued")
	}

	// Second request submits the token back in the header.
	req2 := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	req2.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	req2.Header.Set(CSRFHeaderName, token)
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req2)

	if !*called {
		t.Error("next handler should be called with matching token")
	}
	if rr2.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rr2.Code, http.StatusOK)
	}
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	csrf := NewCSRF(false)
	inner, called := okHandler()
	handler := csrf(inner)

	req := httptest.NewRequest(http.MethodDelete, "/api/links/abc", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "aaaa"})
	req.Header.Set(CSRFHeaderName, "bbbb")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
	if *called {
		t.Error("next handler should not be called with mismatched token")
	}
}

func TestGetCSRFToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetCSRFToken(req); got != "" {
		t.Errorf("expected empty token without cookie, got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok123"})
	if got := GetCSRFToken(req); got != "tok123" {
		t.Errorf("token: got %q, want tok123", got)
	}
}
