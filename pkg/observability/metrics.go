// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the poolchat gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference and remote
// execution latencies, ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolchat_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poolchat_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// ClassificationsTotal counts routing decisions by outcome.
	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolchat_classifications_total",
			Help: "Routing decisions",
		},
		[]string{"classification"},
	)

	// ChatRequestsTotal counts requests sent to the chat collaborator.
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolchat_chat_requests_total",
			Help: "Chat collaborator requests",
		},
		[]string{"status"},
	)

	// ChatLatency records chat collaborator latency in seconds.
	ChatLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poolchat_chat_latency_seconds",
			Help:    "Chat collaborator latency",
			Buckets: LLMBuckets,
		},
	)

	// ExecutionsTotal counts code executions in the session pool by outcome.
	ExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolchat_executions_total",
			Help: "Session pool executions",
		},
		[]string{"status"},
	)

	// ExecutionLatency records session pool latency in seconds.
	ExecutionLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poolchat_execution_latency_seconds",
			Help:    "Session pool latency",
			Buckets: LLMBuckets,
		},
	)

	// SessionsCreatedTotal counts session identifiers minted for the pool.
	SessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poolchat_sessions_created_total",
			Help: "Session identifiers minted",
		},
	)

	// ActiveConversations tracks the number of conversations with a live
	// session identifier.
	ActiveConversations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolchat_active_conversations",
			Help: "Conversations holding a session identifier",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ClassificationsTotal,
		ChatRequestsTotal,
		ChatLatency,
		ExecutionsTotal,
		ExecutionLatency,
		SessionsCreatedTotal,
		ActiveConversations,
	)
}
