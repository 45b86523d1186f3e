package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/sessionlab/poolchat/pkg/api"
)

// Logging returns middleware that emits structured log entries for each
// request. The log entry includes the request ID (from context), the
// conversation ID, the routing classification, duration, and whether the
// request succeeded or failed.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ChatHandler) ChatHandler {
		return ChatHandlerFunc(func(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			resp, err := next.HandleChat(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("conversation_id", req.ConversationID),
				slog.Duration("duration", time.Since(start)),
			}
			if resp != nil {
				attrs = append(attrs, slog.String("classification", string(resp.Classification)))
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
			}

			return resp, err
		})
	}
}
