// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package conversation

import (
	"fmt"
	"strings"
	"sync"
)

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError reports a malformed message sequence handed to Replace.
// Use errors.As to inspect the defect description.
type ValidationError struct {
	Defect string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid conversation: " + e.Defect
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Store holds an ordered message sequence for one chat mode.
//
// The mutex makes each store safe to share across windows; the quick-mode
// store in particular is mutated by every quick window in the process.
type Store struct {
	mu       sync.Mutex
	messages []Message
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{messages: make([]Message, 0)}
}

// Append inserts a message at the end. It never reorders and never
// deduplicates.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Clear resets the store to empty, then re-seeds a single leading user-role
// message when systemPrompt is non-blank. Calling Clear twice with the same
// prompt yields the same content as calling it once.
func (s *Store) Clear(systemPrompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]Message, 0)
	if strings.TrimSpace(systemPrompt) != "" {
		s.messages = append(s.messages, NewUserMessage(systemPrompt))
	}
}

// Replace substitutes the whole history. Used only by import; the incoming
// sequence must consist of well-formed messages or the store is left
// untouched and a ValidationError is returned.
func (s *Store) Replace(history []Message) error {
	for i, msg := range history {
		if !msg.Role.Valid() {
			return &ValidationError{
				Defect: fmt.Sprintf("message %d has unknown role %q", i, msg.Role),
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]Message, len(history))
	copy(s.messages, history)
	return nil
}

// SeedSystemPrompt inserts systemPrompt as the first message exactly once.
// A blank prompt, or a history already led by the prompt, is a no-op. This
// keeps reloads from duplicating the seed.
func (s *Store) SeedSystemPrompt(systemPrompt string) {
	if strings.TrimSpace(systemPrompt) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) > 0 && s.messages[0].Role == RoleUser && s.messages[0].Content == systemPrompt {
		return
	}
	seeded := make([]Message, 0, len(s.messages)+1)
	seeded = append(seeded, NewUserMessage(systemPrompt))
	seeded = append(seeded, s.messages...)
	s.messages = seeded
}

// Messages returns a copy of the current history.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// IsEmpty returns true if the store holds no messages.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// First returns the first message and true, or a zero message and false
// when the store is empty.
func (s *Store) First() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[0], true
}

// Last returns the most recent message and true, or a zero message and
// false when the store is empty.
func (s *Store) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}
