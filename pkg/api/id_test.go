package api

import (
	"strings"
	"testing"
)

func TestNewConversationID(t *testing.T) {
	id := NewConversationID()

	if !strings.HasPrefix(id, "conv_") {
		t.Errorf("ID %q missing conv_ prefix", id)
	}
	if len(id) != len("conv_")+24 {
		t.Errorf("ID length = %d, want %d", len(id), len("conv_")+24)
	}
	if !ValidateConversationID(id) {
		t.Errorf("generated ID %q fails validation", id)
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()

	if !strings.HasPrefix(id, "session-") {
		t.Errorf("ID %q missing session- prefix", id)
	}
	if !ValidateSessionID(id) {
		t.Errorf("generated ID %q fails validation", id)
	}
}

func TestIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewSessionID()
		if seen[id] {
			t.Fatalf("duplicate session ID generated: %q", id)
		}
		seen[id] = true
	}
}

func TestValidateConversationID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"conv_abcDEF123456789012345678", true},
		{"conv_short", false},
		{"resp_abcDEF123456789012345678", false},
		{"", false},
		{"conv_abcDEF12345678901234567!", false},
	}

	for _, tt := range tests {
		if got := ValidateConversationID(tt.id); got != tt.want {
			t.Errorf("ValidateConversationID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"session-0a1b2c3d", true},
		{"session-0A1B2C3D", false}, // hex is lowercase
		{"session-0a1b2c", false},
		{"sess-0a1b2c3d", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateSessionID(tt.id); got != tt.want {
			t.Errorf("ValidateSessionID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
