// Package azopenai performs chat-completions requests against an Azure
// OpenAI deployment, authenticating each call with a bearer token from the
// configured credential provider.
package azopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sessionlab/poolchat/pkg/api"
	"github.com/sessionlab/poolchat/pkg/credential"
	"github.com/sessionlab/poolchat/pkg/debug"
	"github.com/sessionlab/poolchat/pkg/provider"
)

// Ensure Client implements ChatProvider.
var _ provider.ChatProvider = (*Client)(nil)

// Config holds settings for the Azure OpenAI client.
type Config struct {
	// Endpoint is the resource base URL, e.g. https://myres.openai.azure.com.
	Endpoint string

	// Deployment is the model deployment name.
	Deployment string

	// APIVersion is the api-version query parameter value.
	APIVersion string

	// Scope is the credential scope for token acquisition.
	Scope string

	// Timeout bounds one completion round trip.
	Timeout time.Duration
}

// Client calls the Chat Completions endpoint of an Azure OpenAI deployment.
type Client struct {
	httpClient *http.Client
	config     Config
	tokens     credential.TokenProvider
}

// New creates a Client. The token provider supplies the bearer token for
// each request; an empty token omits the Authorization header.
func New(cfg Config, tokens credential.TokenProvider) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azopenai: endpoint is required")
	}
	if cfg.Deployment == "" {
		return nil, fmt.Errorf("azopenai: deployment is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("azopenai: token provider is required")
	}

	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		tokens:     tokens,
	}, nil
}

// Complete performs a non-streaming completion.
func (c *Client) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	chatReq := chatCompletionRequest{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.config.Endpoint, c.config.Deployment, c.config.APIVersion)

	debug.Log("chat", "completion request", "url", url, "messages", len(chatReq.Messages))
	debug.Raw("chat", string(body))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx, c.config.Scope)
	if err != nil {
		return nil, api.NewModelError(fmt.Sprintf("failed to acquire token: %s", err.Error()))
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, api.NewModelError(fmt.Sprintf("failed to parse backend response: %s", err.Error()))
	}

	if len(chatResp.Choices) == 0 {
		return nil, api.NewModelError("backend returned no completion choices")
	}

	resp := &provider.Response{
		Content: chatResp.Choices[0].Message.Content,
	}
	if chatResp.Usage != nil {
		resp.Usage = &provider.Usage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		}
	}

	return resp, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
