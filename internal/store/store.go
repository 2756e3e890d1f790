// Package store holds per-conversation message history in memory. It is
// an explicit injected dependency, not ambient global state, so a
// multi-instance deployment can swap it for an external store.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/chris/tutor/internal/llm"
)

type Store struct {
	maxHistory int

	mu            sync.RWMutex
	conversations map[string][]llm.Message
}

// New creates an empty store. maxHistory caps each conversation's message
// count; the leading system message always survives the cap.
func New(maxHistory int) *Store {
	return &Store{
		maxHistory:    maxHistory,
		conversations: make(map[string][]llm.Message),
	}
}

// NewID mints a conversation id.
func (s *Store) NewID() string {
	return uuid.NewString()
}

// Get returns a copy of the conversation's history, or nil when the id is
// unknown.
func (s *Store) Get(id string) []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.conversations[id]
	if !ok {
		return nil
	}
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds messages to a conversation, creating it on first use, and
// returns the history after the cap is applied.
func (s *Store) Append(id string, msgs ...llm.Message) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.conversations[id], msgs...)
	history = llm.TrimMessages(history, s.maxHistory)
	s.conversations[id] = history

	out := make([]llm.Message, len(history))
	copy(out, history)
	return out
}

// Replace overwrites a conversation's history, applying the cap. Used when
// hydrating from the transcript store.
func (s *Store) Replace(id string, msgs []llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[id] = llm.TrimMessages(msgs, s.maxHistory)
}

// Has reports whether the conversation exists in memory.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.conversations[id]
	return ok
}
