// Package executor submits Python code to the remote session pool for
// execution. The pool is an externally managed service; this package only
// holds session identifiers and calls its REST API.
package executor

// executePayload is the request body for POST {pool}/code/execute.
type executePayload struct {
	Properties executeProperties `json:"properties"`
}

// executeProperties describes one synchronous inline code execution.
type executeProperties struct {
	CodeInputType string `json:"codeInputType"`
	ExecutionType string `json:"executionType"`
	Code          string `json:"code"`
}

// executeResponse is the response body from POST {pool}/code/execute.
type executeResponse struct {
	Properties resultProperties `json:"properties"`
}

// resultProperties carries the execution outcome reported by the pool.
type resultProperties struct {
	Status          string `json:"status"`
	Stdout          string `json:"stdout"`
	Stderr          string `json:"stderr"`
	Result          any    `json:"executionResult"`
	ExecutionTimeMs int64  `json:"executionTimeInMilliseconds"`
}

// Result is the outcome of one code execution in the session pool.
type Result struct {
	Status     string
	Stdout     string
	Stderr     string
	DurationMs int64
}
