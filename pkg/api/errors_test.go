package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAPIErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "with param",
			err:  NewInvalidRequestError("message", "message is required"),
			want: "invalid_request: message is required (param: message)",
		},
		{
			name: "without param",
			err:  NewModelError("backend unreachable"),
			want: "model_error: backend unreachable",
		},
		{
			name: "execution error",
			err:  NewExecutionError("pool returned HTTP 500"),
			want: "execution_error: pool returned HTTP 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		err      *APIError
		wantType ErrorType
	}{
		{NewInvalidRequestError("p", "m"), ErrorTypeInvalidRequest},
		{NewNotFoundError("m"), ErrorTypeNotFound},
		{NewServerError("m"), ErrorTypeServerError},
		{NewModelError("m"), ErrorTypeModelError},
		{NewExecutionError("m"), ErrorTypeExecutionError},
		{NewTooManyRequestsError("m"), ErrorTypeTooManyRequests},
	}

	for _, tt := range tests {
		if tt.err.Type != tt.wantType {
			t.Errorf("Type = %q, want %q", tt.err.Type, tt.wantType)
		}
	}
}

func TestErrorResponseSerialization(t *testing.T) {
	resp := ErrorResponse{Error: NewInvalidRequestError("message", "message is required")}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"type":"invalid_request"`) {
		t.Errorf("serialized error missing type: %s", s)
	}
	if !strings.Contains(s, `"param":"message"`) {
		t.Errorf("serialized error missing param: %s", s)
	}
	if strings.Contains(s, `"code"`) {
		t.Errorf("empty code should be omitted: %s", s)
	}
}
