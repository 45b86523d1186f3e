// Package provider defines the chat-completions collaborator contract.
// Adapters live in subpackages; pkg/provider/azopenai talks to an Azure
// OpenAI deployment.
package provider

import "context"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat-completions request.
type Message struct {
	Role    string
	Content string
}

// Request is a text-in request to the chat collaborator.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Response is the text-out result of a chat-completions call.
type Response struct {
	Content string
	Usage   *Usage
}

// Usage holds token accounting reported by the backend.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatProvider performs chat-completions inference against a backend.
type ChatProvider interface {
	// Complete performs a non-streaming completion. Errors are returned as
	// *api.APIError so the transport layer can always produce a well-formed
	// error response.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Close releases client resources.
	Close() error
}
