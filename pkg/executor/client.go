package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sessionlab/poolchat/pkg/api"
	"github.com/sessionlab/poolchat/pkg/credential"
	"github.com/sessionlab/poolchat/pkg/debug"
)

// maxErrorBodySize bounds how much of an error response body is read.
const maxErrorBodySize = 4096

// Config holds settings for the session pool client.
type Config struct {
	// Endpoint is the pool management base URL.
	Endpoint string

	// APIVersion is the api-version query parameter value.
	APIVersion string

	// Scope is the credential scope for token acquisition.
	Scope string

	// Timeout bounds one execution round trip. Execution time itself is
	// enforced by the pool.
	Timeout time.Duration
}

// Client calls the session pool's code-execute endpoint. The session
// identifier passed to Execute correlates the call with persistent
// interpreter state inside the pool; reusing an identifier reuses that
// state.
type Client struct {
	httpClient *http.Client
	config     Config
	tokens     credential.TokenProvider
}

// New creates a session pool client.
func New(cfg Config, tokens credential.TokenProvider) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("executor: endpoint is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("executor: token provider is required")
	}

	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-02-02-preview"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		tokens:     tokens,
	}, nil
}

// Execute runs code synchronously in the session identified by sessionID
// and returns the pool's reported stdout/stderr.
func (c *Client) Execute(ctx context.Context, sessionID, code string) (*Result, error) {
	if sessionID == "" {
		return nil, api.NewServerError("execute called without a session identifier")
	}

	payload := executePayload{
		Properties: executeProperties{
			CodeInputType: "inline",
			ExecutionType: "synchronous",
			Code:          code,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	executeURL := fmt.Sprintf("%s/code/execute?api-version=%s&identifier=%s",
		c.config.Endpoint, c.config.APIVersion, url.QueryEscape(sessionID))

	debug.Log("pool", "execute request", "session_id", sessionID, "url", executeURL)
	debug.Raw("pool", code)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, executeURL, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx, c.config.Scope)
	if err != nil {
		return nil, api.NewExecutionError(fmt.Sprintf("failed to acquire token: %s", err.Error()))
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, api.NewExecutionError("session pool timed out")
		}
		return nil, api.NewExecutionError(fmt.Sprintf("session pool unreachable: %s", err.Error()))
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, api.NewTooManyRequestsError("session pool at capacity")
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBodySize))
		return nil, api.NewExecutionError(
			fmt.Sprintf("session pool returned HTTP %d: %s", httpResp.StatusCode, string(respBody)))
	}

	var execResp executeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&execResp); err != nil {
		return nil, api.NewExecutionError(fmt.Sprintf("failed to decode pool response: %s", err.Error()))
	}

	return &Result{
		Status:     execResp.Properties.Status,
		Stdout:     execResp.Properties.Stdout,
		Stderr:     execResp.Properties.Stderr,
		DurationMs: execResp.Properties.ExecutionTimeMs,
	}, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
