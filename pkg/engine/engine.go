// Package engine dispatches classified messages to the two collaborators:
// conversation turns go straight to the chat backend, computation turns go
// through code generation and remote execution in the session pool under
// the conversation's session identifier.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "embed"

	"github.com/sessionlab/poolchat/pkg/api"
	"github.com/sessionlab/poolchat/pkg/executor"
	"github.com/sessionlab/poolchat/pkg/observability"
	"github.com/sessionlab/poolchat/pkg/provider"
	"github.com/sessionlab/poolchat/pkg/router"
	"github.com/sessionlab/poolchat/pkg/session"
)

//go:embed codegen_prompt.txt
var codegenPromptTemplate string

//go:embed chat_prompt.txt
var chatSystemPrompt string

// ChatCompleter is the chat collaborator seen by the engine. It is
// satisfied by provider.ChatProvider and by test fakes.
type ChatCompleter interface {
	Complete(ctx context.Context, req *provider.Request) (*provider.Response, error)
}

// CodeExecutor is the session pool collaborator seen by the engine.
type CodeExecutor interface {
	Execute(ctx context.Context, sessionID, code string) (*executor.Result, error)
}

// Config holds engine settings for outbound completion calls.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// Engine routes one message through classification and dispatch.
type Engine struct {
	classifier router.Classifier
	chat       ChatCompleter
	pool       CodeExecutor
	sessions   session.Store
	config     Config
}

// New creates an Engine. All collaborators are required.
func New(classifier router.Classifier, chat ChatCompleter, pool CodeExecutor, sessions session.Store, cfg Config) (*Engine, error) {
	if classifier == nil {
		return nil, fmt.Errorf("engine: classifier is required")
	}
	if chat == nil {
		return nil, fmt.Errorf("engine: chat provider is required")
	}
	if pool == nil {
		return nil, fmt.Errorf("engine: code executor is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("engine: session store is required")
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}

	return &Engine{
		classifier: classifier,
		chat:       chat,
		pool:       pool,
		sessions:   sessions,
		config:     cfg,
	}, nil
}

// HandleChat processes one inbound message end to end and returns the
// uniform response shape. Collaborator failures come back as *api.APIError.
func (e *Engine) HandleChat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, api.NewInvalidRequestError("message", "message is required")
	}

	classification := e.classifier.Classify(message)
	observability.ClassificationsTotal.WithLabelValues(string(classification)).Inc()

	slog.Debug("message classified",
		"conversation_id", req.ConversationID,
		"classification", classification,
	)

	if classification == api.ClassificationComputation {
		return e.handleComputation(ctx, req.ConversationID, message)
	}
	return e.handleConversation(ctx, req.ConversationID, message)
}

// handleConversation sends the message straight to the chat collaborator.
func (e *Engine) handleConversation(ctx context.Context, conversationID, message string) (*api.ChatResponse, error) {
	resp, err := e.complete(ctx, []provider.Message{
		{Role: provider.RoleSystem, Content: chatSystemPrompt},
		{Role: provider.RoleUser, Content: message},
	})
	if err != nil {
		return nil, err
	}

	return &api.ChatResponse{
		Output:         strings.TrimSpace(resp.Content),
		ConversationID: conversationID,
		Classification: api.ClassificationConversation,
	}, nil
}

// handleComputation asks the chat collaborator for Python code, then runs
// the extracted snippet in the conversation's pool session. When the model
// produces no extractable code, its text is returned as-is rather than
// failing the turn.
func (e *Engine) handleComputation(ctx context.Context, conversationID, message string) (*api.ChatResponse, error) {
	prompt := strings.ReplaceAll(codegenPromptTemplate, "{message}", message)

	resp, err := e.complete(ctx, []provider.Message{
		{Role: provider.RoleUser, Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	code := executor.ExtractCode(resp.Content)
	if code == "" {
		slog.Debug("no code extracted from model output", "conversation_id", conversationID)
		return &api.ChatResponse{
			Output:         strings.TrimSpace(resp.Content),
			ConversationID: conversationID,
			Classification: api.ClassificationComputation,
		}, nil
	}

	sessionID, created, err := e.sessions.GetOrCreate(ctx, conversationID)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("session store: %s", err.Error()))
	}
	if created {
		observability.SessionsCreatedTotal.Inc()
		observability.ActiveConversations.Set(float64(e.sessions.Len()))
		slog.Info("session created",
			"conversation_id", conversationID,
			"session_id", sessionID,
		)
	}

	start := time.Now()
	result, err := e.pool.Execute(ctx, sessionID, code)
	observability.ExecutionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ExecutionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	observability.ExecutionsTotal.WithLabelValues("ok").Inc()

	output := strings.TrimSpace(result.Stdout)
	if output == "" && result.Stderr != "" {
		output = strings.TrimSpace(result.Stderr)
	}

	return &api.ChatResponse{
		Output:         output,
		ConversationID: conversationID,
		Classification: api.ClassificationComputation,
		Execution: &api.ExecutionDetail{
			SessionID:  sessionID,
			Code:       code,
			Stderr:     result.Stderr,
			DurationMs: result.DurationMs,
		},
	}, nil
}

// complete calls the chat collaborator with engine-level settings and
// records collaborator metrics.
func (e *Engine) complete(ctx context.Context, messages []provider.Message) (*provider.Response, error) {
	start := time.Now()
	resp, err := e.chat.Complete(ctx, &provider.Request{
		Messages:    messages,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	})
	observability.ChatLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		observability.ChatRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	observability.ChatRequestsTotal.WithLabelValues("ok").Inc()
	return resp, nil
}
