// Package http adapts the chat engine to an HTTP surface: the /chat
// endpoint (GET and POST), the embedded browser UI, health and debug
// endpoints, and the Prometheus metrics handler.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sessionlab/poolchat/pkg/api"
	"github.com/sessionlab/poolchat/pkg/auth"
	"github.com/sessionlab/poolchat/pkg/observability"
	"github.com/sessionlab/poolchat/pkg/transport"
)

// Adapter serves the chat API over HTTP. It parses requests from either
// JSON bodies or query parameters, mints conversation IDs, and serializes
// the uniform response shape.
type Adapter struct {
	handler transport.ChatHandler
	guard   *auth.Guard
	mux     *http.ServeMux
	config  Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr            string
	MaxBodySize     int64
	ShutdownTimeout int // seconds

	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string

	// APIKeys restricts /chat to callers presenting one of the keys.
	// Empty means no inbound authentication.
	APIKeys []string

	// Collaborator endpoints reported by GET /debug. Secrets never
	// appear here, only whether a credential source is configured.
	ChatEndpoint   string
	PoolEndpoint   string
	HasCredentials bool
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxBodySize:     1 << 20, // 1 MB
		ShutdownTimeout: 30,
		MetricsPath:     "/metrics",
	}
}

// NewAdapter creates an HTTP adapter around the given handler.
// Middleware is applied to the handler in the given order.
func NewAdapter(handler transport.ChatHandler, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		handler = transport.Chain(middlewares...)(handler)
	}

	a := &Adapter{
		handler: handler,
		guard:   auth.New(cfg.APIKeys),
		mux:     http.NewServeMux(),
		config:  cfg,
	}

	a.mux.HandleFunc("POST /chat", a.handleChatPost)
	a.mux.HandleFunc("GET /chat", a.handleChatGet)
	a.mux.HandleFunc("GET /ui", a.handleUI)
	a.mux.HandleFunc("GET /healthz", a.handleHealth)
	a.mux.HandleFunc("GET /debug", a.handleDebug)
	a.mux.HandleFunc("GET /{$}", a.handleRoot)

	if cfg.MetricsPath != "" {
		a.mux.Handle("GET "+cfg.MetricsPath, promhttp.Handler())
	}

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// HTTP-level middleware for the API key guard, request ID propagation, and
// request metrics.
func (a *Adapter) Handler() http.Handler {
	guarded := a.guard.Middleware("/chat")(a.mux)
	return observability.MetricsMiddleware(httpRequestIDMiddleware(guarded))
}

// httpRequestIDMiddleware propagates the X-Request-ID header into the
// request context so the transport-level RequestID middleware reuses the
// client-supplied value, and echoes it back on the response.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			r = r.WithContext(transport.ContextWithRequestID(r.Context(), id))
			w.Header().Set("X-Request-ID", id)
		}
		next.ServeHTTP(w, r)
	})
}

// handleChatPost handles POST /chat with a JSON body.
func (a *Adapter) handleChatPost(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	a.dispatchChat(w, r, &req)
}

// handleChatGet handles GET /chat?message=...&conversation_id=... so the
// endpoint can be exercised from a browser address bar or the embedded UI
// without composing a JSON body.
func (a *Adapter) handleChatGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := api.ChatRequest{
		Message:        q.Get("message"),
		ConversationID: q.Get("conversation_id"),
	}
	a.dispatchChat(w, r, &req)
}

// dispatchChat validates the conversation ID, mints one when absent, and
// runs the request through the middleware-wrapped handler.
func (a *Adapter) dispatchChat(w http.ResponseWriter, r *http.Request, req *api.ChatRequest) {
	if req.Message == "" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("message", "message is required"),
			http.StatusBadRequest,
		)
		return
	}

	if req.ConversationID == "" {
		req.ConversationID = api.NewConversationID()
	} else if !api.ValidateConversationID(req.ConversationID) {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("conversation_id", "malformed conversation ID"),
			http.StatusBadRequest,
		)
		return
	}

	resp, err := a.handler.HandleChat(r.Context(), req)
	if err != nil {
		var apiErr *api.APIError
		if !errors.As(err, &apiErr) {
			apiErr = api.NewServerError(err.Error())
		}
		transport.WriteAPIError(w, apiErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleRoot redirects GET / to the browser UI.
func (a *Adapter) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/ui", http.StatusFound)
}

// handleHealth handles GET /healthz.
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleDebug handles GET /debug. It reports which collaborator endpoints
// are configured so a misconfigured deployment can be diagnosed quickly.
func (a *Adapter) handleDebug(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.DebugResponse{
		ChatEndpoint:   a.config.ChatEndpoint,
		PoolEndpoint:   a.config.PoolEndpoint,
		HasCredentials: a.config.HasCredentials,
	})
}
