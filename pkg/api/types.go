package api

// Classification is the routing decision for an inbound message.
type Classification string

const (
	// ClassificationComputation routes the message through code generation
	// and remote execution in the session pool.
	ClassificationComputation Classification = "computation"

	// ClassificationConversation routes the message directly to the chat
	// collaborator.
	ClassificationConversation Classification = "conversation"
)

// ChatRequest is an inbound user message. The conversation ID is optional;
// when absent the server mints one and echoes it in the response so the
// client can keep subsequent turns in the same conversation.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the uniform response shape for both routes. Output is the
// user-visible text: the executed code's stdout for computation turns, the
// model's reply for conversation turns.
type ChatResponse struct {
	Output         string           `json:"output"`
	ConversationID string           `json:"conversation_id"`
	Classification Classification   `json:"classification"`
	Execution      *ExecutionDetail `json:"execution,omitempty"`
}

// ExecutionDetail is attached to computation responses that went through the
// session pool. It records which session ran the code so clients can observe
// session affinity across turns.
type ExecutionDetail struct {
	SessionID  string `json:"session_id"`
	Code       string `json:"code"`
	Stderr     string `json:"stderr,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// DebugResponse is the body of GET /debug. It reports which collaborator
// endpoints are configured without exposing secrets.
type DebugResponse struct {
	ChatEndpoint   string `json:"chat_endpoint"`
	PoolEndpoint   string `json:"pool_endpoint"`
	HasCredentials bool   `json:"has_credentials"`
}
