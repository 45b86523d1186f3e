package azopenai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sessionlab/poolchat/pkg/api"
	"github.com/sessionlab/poolchat/pkg/credential"
	"github.com/sessionlab/poolchat/pkg/provider"
)

func completionBody(content string) string {
	resp := chatCompletionResponse{
		ID:     "chatcmpl-1",
		Object: "chat.completion",
		Model:  "gpt-35-turbo",
		Choices: []chatChoice{
			{Message: chatMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
		Usage: &chatUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		Endpoint:   srv.URL,
		Deployment: "gpt-35-turbo",
		APIVersion: "2024-02-01",
		Scope:      "https://cognitiveservices.azure.com/.default",
	}, credential.NewStaticProvider("test-token"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, srv
}

func TestCompleteSuccess(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	var gotReq chatCompletionRequest

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("The answer is 21175.")))
	})

	resp, err := c.Complete(context.Background(), &provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: "You are a helpful assistant."},
			{Role: provider.RoleUser, Content: "What is 25 * 847?"},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != "The answer is 21175." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 {
		t.Errorf("Usage = %+v, want total 15", resp.Usage)
	}
	if gotPath != "/openai/deployments/gpt-35-turbo/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "api-version=2024-02-01" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[1].Content != "What is 25 * 847?" {
		t.Errorf("backend saw messages %+v", gotReq.Messages)
	}
	if gotReq.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, want 500", gotReq.MaxTokens)
	}
}

func TestCompleteOmitsAuthHeaderWhenAnonymous(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(completionBody("hi")))
	}))
	defer srv.Close()

	c, err := New(Config{
		Endpoint:   srv.URL,
		Deployment: "gpt-35-turbo",
		APIVersion: "2024-02-01",
	}, credential.AnonymousProvider{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := c.Complete(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestCompleteBackendError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"deployment overloaded","type":"server_error"}}`))
	})

	_, err := c.Complete(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *api.APIError", err)
	}
	if apiErr.Type != api.ErrorTypeModelError {
		t.Errorf("Type = %q, want model_error", apiErr.Type)
	}
}

func TestCompleteRateLimited(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	_, err := c.Complete(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeTooManyRequests {
		t.Fatalf("err = %v, want too_many_requests APIError", err)
	}
}

func TestCompleteUnreachableBackend(t *testing.T) {
	c, err := New(Config{
		Endpoint:   "http://127.0.0.1:1", // nothing listens here
		Deployment: "gpt-35-turbo",
		APIVersion: "2024-02-01",
	}, credential.AnonymousProvider{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = c.Complete(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeModelError {
		t.Fatalf("err = %v, want model_error APIError", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`))
	})

	_, err := c.Complete(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeModelError {
		t.Fatalf("err = %v, want model_error APIError", err)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{Deployment: "d"}, credential.AnonymousProvider{}); err == nil {
		t.Error("expected error for missing endpoint")
	}
	if _, err := New(Config{Endpoint: "http://x"}, credential.AnonymousProvider{}); err == nil {
		t.Error("expected error for missing deployment")
	}
	if _, err := New(Config{Endpoint: "http://x", Deployment: "d"}, nil); err == nil {
		t.Error("expected error for nil token provider")
	}
}
