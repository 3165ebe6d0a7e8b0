// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"github.com/adjiap/onprem-chat/internal/conversation"
)

// =============================================================================
// SESSION MODES
// =============================================================================

// Mode selects which conversation store a command operates on.
type Mode string

const (
	// ModePrompt is stateless: every send is a fresh one-shot exchange and
	// no store is read or written.
	ModePrompt Mode = "prompt"

	// ModeQuick accumulates history in a process-lifetime store shared by
	// every quick-mode window. Nothing is persisted.
	ModeQuick Mode = "quick"

	// ModeSaved accumulates history in a per-window store that is written
	// to the workspace file after every successful mutation.
	ModeSaved Mode = "saved"
)

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModePrompt, ModeQuick, ModeSaved:
		return true
	}
	return false
}

// =============================================================================
// COMMANDS (FRONT END -> ORCHESTRATOR)
// =============================================================================

// Command is a request from the front end. The concrete types below are the
// full command vocabulary; Handle rejects anything else.
type Command interface {
	isCommand()
}

// SendMessage submits user text for a chat completion.
type SendMessage struct {
	Text string
	Mode Mode

	// SelectedModel overrides the configured default model for this send.
	// Empty means use the default.
	SelectedModel string
}

// RefreshModels asks the backend which models it serves.
type RefreshModels struct{}

// ClearChat resets the conversation for the given mode. Prompt mode holds
// no state, so clearing it is a no-op.
type ClearChat struct {
	Mode Mode
}

// ExportConversation serializes the current history of a stateful mode
// into the portable export envelope.
type ExportConversation struct {
	Mode Mode
}

// ImportConversation replaces the saved conversation with a previously
// exported envelope.
type ImportConversation struct {
	JSON []byte
}

func (SendMessage) isCommand()        {}
func (RefreshModels) isCommand()      {}
func (ClearChat) isCommand()          {}
func (ExportConversation) isCommand() {}
func (ImportConversation) isCommand() {}

// =============================================================================
// EVENTS (ORCHESTRATOR -> FRONT END)
// =============================================================================

// Event is a notification for the front end. A single Handle call may emit
// zero or more events, in the order they should be applied.
type Event interface {
	isEvent()
}

// MessageEvent appends one chat bubble to the transcript. Backend failures
// arrive as assistant-tagged messages so the transcript keeps its shape.
type MessageEvent struct {
	Text   string
	Sender conversation.Role
	Mode   Mode
}

// ModelsEvent carries the refreshed model list. An empty Models slice means
// the backend had none or could not be reached; either way the front end
// keeps whatever list it had.
type ModelsEvent struct {
	Models []string

	// DefaultModel is the configured default, echoed so the front end can
	// preselect it. DefaultModelValid is false when the default is unset
	// or absent from Models; that is a warning, not an error.
	DefaultModel      string
	DefaultModelValid bool
}

// ClearedEvent confirms that a stateful mode's history was reset.
type ClearedEvent struct {
	Mode Mode
}

// ExportEvent carries a serialized export envelope ready to be written
// wherever the user chooses.
type ExportEvent struct {
	Mode Mode
	Data []byte
}

// ImportSuccessEvent carries the full replacement history after a
// successful import so the front end can redraw the transcript.
type ImportSuccessEvent struct {
	Messages []conversation.Message
}

// ImportErrorEvent reports a rejected import. The saved conversation is
// untouched when this is emitted.
type ImportErrorEvent struct {
	Err error
}

// ErrorEvent reports a failure that is not part of the transcript, such as
// blank input or missing configuration.
type ErrorEvent struct {
	Err error
}

// WarningEvent reports a non-fatal condition the user should see, such as
// a persistence write that failed after a successful exchange.
type WarningEvent struct {
	Text string
}

func (MessageEvent) isEvent()       {}
func (ModelsEvent) isEvent()        {}
func (ClearedEvent) isEvent()       {}
func (ExportEvent) isEvent()        {}
func (ImportSuccessEvent) isEvent() {}
func (ImportErrorEvent) isEvent()   {}
func (ErrorEvent) isEvent()         {}
func (WarningEvent) isEvent()       {}
