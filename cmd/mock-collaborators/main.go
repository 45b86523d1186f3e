// Command mock-collaborators runs deterministic stand-ins for both
// poolchat collaborators in one process: an Azure OpenAI style chat
// completions endpoint and a dynamic-sessions style code execution
// endpoint. Point the gateway at it with credential mode "none":
//
//	POOLCHAT_CHAT_ENDPOINT=http://localhost:9090
//	POOLCHAT_POOL_ENDPOINT=http://localhost:9090
//	POOLCHAT_CREDENTIAL_MODE=none
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	pool := newMockPool()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /openai/deployments/{deployment}/chat/completions", handleChatCompletions)
	mux.HandleFunc("POST /code/execute", pool.handleExecute)
	mux.HandleFunc("GET /sessions", pool.handleListSessions)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock collaborators starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock collaborators failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock collaborators shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Chat completions mock ---

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// questionRe pulls the quoted user question out of the code generation
// prompt so the mock can answer with code tailored to it.
var questionRe = regexp.MustCompile(`User question: "(.*)"`)

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"message":"invalid request","type":"invalid_request_error"}}`, http.StatusBadRequest)
		return
	}

	last := lastUserMessage(&req)

	var text string
	if m := questionRe.FindStringSubmatch(last); m != nil {
		// Code generation prompt: answer with a fenced Python block.
		text = codeAnswer(m[1])
	} else {
		text = conversationAnswer(last)
	}

	resp := chatResponse{
		ID:     "chatcmpl-mock",
		Object: "chat.completion",
		Model:  r.PathValue("deployment"),
		Choices: []chatChoice{
			{
				Index:        0,
				Message:      chatMessage{Role: "assistant", Content: text},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// codeAnswer produces a Python snippet for the extracted question. Plain
// arithmetic is embedded directly; anything else gets a placeholder print.
func codeAnswer(question string) string {
	expr := strings.TrimSpace(question)
	if arithmeticRe.MatchString(expr) {
		return "```python\nresult = " + arithmeticRe.FindString(expr) + "\nprint(result)\n```"
	}
	return "```python\nprint(\"mock computed answer\")\n```"
}

var arithmeticRe = regexp.MustCompile(`\d+(\s*[-+*/%]\s*\d+)+`)

func conversationAnswer(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "hello"), strings.Contains(lower, "hi"):
		return "Hello! How can I help you today?"
	case strings.Contains(lower, "weather"):
		return "I cannot check the weather, but I hope it is pleasant where you are."
	default:
		return "That is an interesting question. Tell me more."
	}
}

func lastUserMessage(req *chatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}

// --- Session pool mock ---

type executeRequest struct {
	Properties executeProperties `json:"properties"`
}

type executeProperties struct {
	CodeInputType string `json:"codeInputType"`
	ExecutionType string `json:"executionType"`
	Code          string `json:"code"`
}

type executeResponse struct {
	Properties executeResult `json:"properties"`
}

type executeResult struct {
	Status          string `json:"status"`
	Stdout          string `json:"stdout"`
	Stderr          string `json:"stderr"`
	ExecutionResult string `json:"executionResult"`
	ExecutionTimeMs int64  `json:"executionTimeInMilliseconds"`
}

// mockPool evaluates "result = EXPR" / "print(result)" style snippets and
// tracks which session identifiers have been seen, so session affinity is
// observable from the outside.
type mockPool struct {
	mu       sync.Mutex
	sessions map[string]int // identifier -> execution count
}

func newMockPool() *mockPool {
	return &mockPool{sessions: make(map[string]int)}
}

func (p *mockPool) handleExecute(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		http.Error(w, `{"error":"identifier query parameter is required"}`, http.StatusBadRequest)
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	p.sessions[identifier]++
	count := p.sessions[identifier]
	p.mu.Unlock()

	slog.Info("mock execute",
		"identifier", identifier,
		"execution_count", count,
	)

	stdout, stderr := evalSnippet(req.Properties.Code)
	status := "Success"
	if stderr != "" {
		status = "Failure"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(executeResponse{
		Properties: executeResult{
			Status:          status,
			Stdout:          stdout,
			Stderr:          stderr,
			ExecutionTimeMs: 3,
		},
	})
}

func (p *mockPool) handleListSessions(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	snapshot := make(map[string]int, len(p.sessions))
	for k, v := range p.sessions {
		snapshot[k] = v
	}
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

var assignRe = regexp.MustCompile(`result\s*=\s*(.+)`)

// evalSnippet runs a tiny subset of Python: a "result = EXPR" line with
// integer arithmetic followed by print(result), or print("literal").
// Anything else yields a canned stdout so the round trip still works.
func evalSnippet(code string) (stdout, stderr string) {
	if m := assignRe.FindStringSubmatch(code); m != nil {
		val, err := evalArithmetic(strings.TrimSpace(m[1]))
		if err != nil {
			return "", "SyntaxError: " + err.Error()
		}
		return strconv.FormatInt(val, 10) + "\n", ""
	}
	if m := regexp.MustCompile(`print\("([^"]*)"\)`).FindStringSubmatch(code); m != nil {
		return m[1] + "\n", ""
	}
	return "mock execution output\n", ""
}

// evalArithmetic evaluates left-to-right integer arithmetic without
// operator precedence. Enough for the expressions the chat mock emits.
func evalArithmetic(expr string) (int64, error) {
	tokens := regexp.MustCompile(`\d+|[-+*/%]`).FindAllString(expr, -1)
	if len(tokens) == 0 || len(tokens)%2 == 0 {
		return 0, fmt.Errorf("cannot evaluate %q", expr)
	}

	result, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(tokens); i += 2 {
		operand, err := strconv.ParseInt(tokens[i+1], 10, 64)
		if err != nil {
			return 0, err
		}
		switch tokens[i] {
		case "+":
			result += operand
		case "-":
			result -= operand
		case "*":
			result *= operand
		case "/":
			if operand == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			result /= operand
		case "%":
			if operand == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			result %= operand
		}
	}
	return result, nil
}
