package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDisabledGuardAdmitsEverything(t *testing.T) {
	g := New(nil)
	if g.Enabled() {
		t.Error("guard with no keys should be disabled")
	}

	r := httptest.NewRequest(http.MethodPost, "/chat", nil)
	if !g.Allow(r) {
		t.Error("disabled guard should admit requests without credentials")
	}
}

func TestAllowBearerToken(t *testing.T) {
	g := New([]string{"secret-key-1", "secret-key-2"})

	tests := []struct {
		name   string
		header string
		value  string
		want   bool
	}{
		{"valid first key", "Authorization", "Bearer secret-key-1", true},
		{"valid second key", "Authorization", "Bearer secret-key-2", true},
		{"wrong key", "Authorization", "Bearer wrong", false},
		{"no bearer prefix", "Authorization", "secret-key-1", false},
		{"empty bearer", "Authorization", "Bearer ", false},
		{"valid x-api-key", "X-API-Key", "secret-key-1", true},
		{"wrong x-api-key", "X-API-Key", "wrong", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/chat", nil)
			r.Header.Set(tt.header, tt.value)
			if got := g.Allow(r); got != tt.want {
				t.Errorf("Allow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllowMissingCredentials(t *testing.T) {
	g := New([]string{"secret-key-1"})
	r := httptest.NewRequest(http.MethodPost, "/chat", nil)
	if g.Allow(r) {
		t.Error("request without credentials should be rejected")
	}
}

func TestEmptyKeysSkipped(t *testing.T) {
	g := New([]string{"", ""})
	if g.Enabled() {
		t.Error("guard built from empty keys should be disabled")
	}
}

func TestMiddlewareProtectsOnlyNamedPaths(t *testing.T) {
	g := New([]string{"secret"})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler := g.Middleware("/chat")(ok)

	// Protected path without a key is rejected.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated /chat status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "authentication required") {
		t.Errorf("body = %s", rec.Body.String())
	}

	// Protected path with a key passes.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Authorization", "Bearer secret")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated /chat status = %d, want 200", rec.Code)
	}

	// Unprotected path passes without a key.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("unprotected /healthz status = %d, want 200", rec.Code)
	}
}
