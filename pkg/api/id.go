package api

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	conversationIDLength = 24
	charset              = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	conversationIDPrefix = "conv_"
	sessionIDPrefix      = "session-"
)

var (
	conversationIDPattern = regexp.MustCompile(`^conv_[a-zA-Z0-9]{24}$`)
	sessionIDPattern      = regexp.MustCompile(`^session-[a-f0-9]{8}$`)
)

// NewConversationID generates a new conversation ID with the "conv_" prefix
// followed by 24 cryptographically random alphanumeric characters.
func NewConversationID() string {
	return conversationIDPrefix + randomAlphanumeric(conversationIDLength)
}

// NewSessionID generates a new session pool identifier with the "session-"
// prefix followed by 8 hex characters. The pool treats the identifier as an
// opaque correlation token, so a short random suffix is sufficient.
func NewSessionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return sessionIDPrefix + hex[:8]
}

// ValidateConversationID checks whether the given string is a valid
// conversation ID (matches "conv_" + 24 alphanumeric characters).
func ValidateConversationID(id string) bool {
	return conversationIDPattern.MatchString(id)
}

// ValidateSessionID checks whether the given string is a valid session pool
// identifier (matches "session-" + 8 hex characters).
func ValidateSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

func randomAlphanumeric(n int) string {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b)
}
