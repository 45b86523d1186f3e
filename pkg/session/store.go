// Package session defines the conversation→session-identifier store. The
// store holds only opaque identifiers issued for the remote session pool;
// the executed interpreter state lives entirely inside the pool.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a conversation has no session identifier.
var ErrNotFound = errors.New("session: conversation not found")

// Store maps conversation IDs to session pool identifiers.
//
// Implementations must be safe for concurrent use across different
// conversations. Concurrent calls for the same conversation must agree on a
// single identifier; request ordering within one conversation is the
// caller's concern.
type Store interface {
	// GetOrCreate returns the session identifier for the conversation,
	// minting and recording a new one on first use. The created flag
	// reports whether this call minted the identifier.
	GetOrCreate(ctx context.Context, conversationID string) (sessionID string, created bool, err error)

	// Get returns the session identifier for the conversation, or
	// ErrNotFound if none has been created.
	Get(ctx context.Context, conversationID string) (string, error)

	// Len reports the number of tracked conversations.
	Len() int

	// Close releases store resources.
	Close() error
}
