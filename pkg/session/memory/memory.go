// Package memory provides the in-memory implementation of session.Store.
// Identifiers live for the process lifetime; optional LRU eviction bounds
// memory usage. An evicted conversation simply gets a fresh session
// identifier on its next computation turn.
package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/sessionlab/poolchat/pkg/api"
	"github.com/sessionlab/poolchat/pkg/session"
)

// entry holds a session identifier and its LRU position.
type entry struct {
	sessionID string
	lruElem   *list.Element
}

// Store is an in-memory session.Store with optional LRU eviction.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	lruList *list.List // front = most recently used
	maxSize int        // 0 = unlimited
}

// Ensure Store implements session.Store at compile time.
var _ session.Store = (*Store)(nil)

// New creates a new in-memory store. If maxSize is 0, the store grows
// without limit. If maxSize > 0, the least recently used conversation is
// evicted when the limit is reached.
func New(maxSize int) *Store {
	return &Store{
		entries: make(map[string]*entry),
		lruList: list.New(),
		maxSize: maxSize,
	}
}

// GetOrCreate returns the conversation's session identifier, minting one on
// first use. The whole operation holds the lock, so two concurrent calls
// for the same conversation can never mint two identifiers.
func (s *Store) GetOrCreate(_ context.Context, conversationID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[conversationID]; ok {
		s.lruList.MoveToFront(e.lruElem)
		return e.sessionID, false, nil
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	sessionID := api.NewSessionID()
	elem := s.lruList.PushFront(conversationID)
	s.entries[conversationID] = &entry{
		sessionID: sessionID,
		lruElem:   elem,
	}

	return sessionID, true, nil
}

// Get returns the conversation's session identifier without creating one.
func (s *Store) Get(_ context.Context, conversationID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[conversationID]
	if !ok {
		return "", session.ErrNotFound
	}
	return e.sessionID, nil
}

// Len reports the number of tracked conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// evictOldest removes the least recently used conversation.
// Caller must hold s.mu.
func (s *Store) evictOldest() {
	oldest := s.lruList.Back()
	if oldest == nil {
		return
	}
	conversationID := oldest.Value.(string)
	s.lruList.Remove(oldest)
	delete(s.entries, conversationID)
}
