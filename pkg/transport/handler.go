package transport

import (
	"context"

	"github.com/sessionlab/poolchat/pkg/api"
)

// ChatHandler processes one inbound message and returns the uniform
// response shape. The engine implements it; middleware wraps it.
type ChatHandler interface {
	HandleChat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
}

// ChatHandlerFunc adapts a function to the ChatHandler interface.
type ChatHandlerFunc func(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)

// HandleChat calls f.
func (f ChatHandlerFunc) HandleChat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	return f(ctx, req)
}
