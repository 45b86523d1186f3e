// Package auth guards the inbound chat surface with optional static API
// keys. Keys are hashed at startup and compared in constant time; the
// plaintext is never retained. With no keys configured the guard admits
// every request, which is the development and mock-collaborator mode.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sessionlab/poolchat/pkg/api"
)

// Guard validates inbound API keys. The zero value (and a Guard built
// from an empty key list) admits all requests.
type Guard struct {
	hashes [][32]byte
}

// New creates a Guard from a list of raw keys. Keys are hashed
// immediately; plaintext keys are not stored.
func New(keys []string) *Guard {
	g := &Guard{}
	for _, k := range keys {
		if k == "" {
			continue
		}
		g.hashes = append(g.hashes, sha256.Sum256([]byte(k)))
	}
	return g
}

// Enabled reports whether any keys are configured.
func (g *Guard) Enabled() bool {
	return g != nil && len(g.hashes) > 0
}

// Allow reports whether the request carries a valid key, either as a
// bearer token or in the X-API-Key header.
func (g *Guard) Allow(r *http.Request) bool {
	if !g.Enabled() {
		return true
	}

	key := r.Header.Get("X-API-Key")
	if key == "" {
		header := r.Header.Get("Authorization")
		if after, ok := strings.CutPrefix(header, "Bearer "); ok {
			key = after
		}
	}
	if key == "" {
		return false
	}

	keyHash := sha256.Sum256([]byte(key))
	for _, h := range g.hashes {
		if subtle.ConstantTimeCompare(keyHash[:], h[:]) == 1 {
			return true
		}
	}
	return false
}

// Middleware returns HTTP middleware that enforces the guard on the
// given paths. Requests to other paths pass through, so health, UI, and
// metrics endpoints stay open.
func (g *Guard) Middleware(protectedPaths ...string) func(http.Handler) http.Handler {
	protected := make(map[string]bool, len(protectedPaths))
	for _, p := range protectedPaths {
		protected[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !protected[r.URL.Path] || g.Allow(r) {
				next.ServeHTTP(w, r)
				return
			}

			slog.Warn("authentication failed",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(api.ErrorResponse{
				Error: &api.APIError{
					Type:    api.ErrorTypeInvalidRequest,
					Message: "authentication required",
				},
			})
		})
	}
}
