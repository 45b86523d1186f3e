package azopenai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sessionlab/poolchat/pkg/api"
)

// maxErrorBodySize bounds how much of an error response body is read.
const maxErrorBodySize = 4096

// mapNetworkError converts transport-level failures into the API error
// taxonomy. Cancellation is kept distinguishable from backend outage.
func mapNetworkError(err error) *api.APIError {
	if errors.Is(err, context.Canceled) {
		return api.NewServerError("request cancelled")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return api.NewModelError("chat backend timed out")
	}
	return api.NewModelError(fmt.Sprintf("chat backend unreachable: %s", err.Error()))
}

// mapHTTPError converts a non-2xx backend response into the API error
// taxonomy. The backend's own error message is surfaced when parseable.
func mapHTTPError(resp *http.Response) *api.APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	message := fmt.Sprintf("chat backend returned HTTP %d", resp.StatusCode)
	var backendErr chatErrorResponse
	if err := json.Unmarshal(body, &backendErr); err == nil && backendErr.Error.Message != "" {
		message = fmt.Sprintf("%s: %s", message, backendErr.Error.Message)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return api.NewTooManyRequestsError(message)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return api.NewModelError(message + " (authentication rejected)")
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return api.NewModelError(message)
	default:
		return api.NewModelError(message)
	}
}
