// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package conversation

import (
	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the sender of a message. Only user and assistant roles
// exist on the wire; the system prompt travels as a user-role message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single conversation entry. Messages are immutable once
// created; ordering within a conversation is insertion order.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant-role message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// Equal compares role and content, ignoring the locally generated ID.
func (m Message) Equal(other Message) bool {
	return m.Role == other.Role && m.Content == other.Content
}
