// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/adjiap/onprem-chat/internal/backend"
	"github.com/adjiap/onprem-chat/internal/config"
	"github.com/adjiap/onprem-chat/internal/conversation"
	"github.com/adjiap/onprem-chat/internal/persist"
)

// =============================================================================
// TRANSPORT
// =============================================================================

// Transport is the slice of the backend client the orchestrator needs.
// *backend.Client satisfies it; tests substitute fakes.
type Transport interface {
	// SendChat runs one chat completion and returns the assistant's reply.
	SendChat(ctx context.Context, messages []backend.Message, model string, systemPrompt string) (string, error)

	// ListModels returns the available model names, or an empty slice if
	// the backend could not be reached.
	ListModels(ctx context.Context) []string
}

// =============================================================================
// STATE
// =============================================================================

// State describes whether a backend call is in flight for this window.
type State int32

const (
	// StateIdle means no backend call is in flight.
	StateIdle State = iota

	// StateAwaitingBackend means Handle is blocked on the transport.
	StateAwaitingBackend
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingBackend:
		return "awaiting-backend"
	}
	return "unknown"
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator routes one window's commands between its stores and the
// backend. Construct one per window with New.
type Orchestrator struct {
	cfg       *config.Config
	transport Transport
	logger    *zap.Logger

	// quick is the process-lifetime store shared by every window. The
	// caller owns it and passes the same instance to each orchestrator.
	quick *conversation.Store

	// saved is this window's persisted conversation, loaded from disk at
	// construction and written back after every successful mutation.
	saved *conversation.Store
	codec *persist.Codec

	state atomic.Int32
}

// New builds an orchestrator for one window. quick must be the shared
// quick-mode store; codec handles the saved conversation's file. The saved
// history is loaded eagerly so the first saved-mode send already carries
// prior turns.
func New(cfg *config.Config, transport Transport, quick *conversation.Store, codec *persist.Codec, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	// The store mirrors the file until the first saved-mode mutation; the
	// system prompt is seeded then, not here, so an untouched window holds
	// exactly what the disk holds (possibly nothing).
	saved := conversation.NewStore()
	if history := codec.Load(); len(history) > 0 {
		if err := saved.Replace(history); err != nil {
			logger.Warn("discarding saved conversation with invalid history",
				zap.Error(err))
		}
	}

	return &Orchestrator{
		cfg:       cfg,
		transport: transport,
		logger:    logger,
		quick:     quick,
		saved:     saved,
		codec:     codec,
	}
}

// State reports whether a backend call is currently in flight.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// SavedMessages returns a copy of the saved conversation's history.
func (o *Orchestrator) SavedMessages() []conversation.Message {
	return o.saved.Messages()
}

// ReloadSaved re-reads the saved conversation from disk, adopting whatever
// another writer left there. Saved files follow last-writer-wins; pairing
// this with persist.Watch lets a window follow along instead of silently
// clobbering the other writer on its next save.
func (o *Orchestrator) ReloadSaved() []conversation.Message {
	history := o.codec.Load()
	if err := o.saved.Replace(history); err != nil {
		o.logger.Warn("keeping in-memory conversation, on-disk history is invalid",
			zap.Error(err))
	}
	return o.saved.Messages()
}

// Handle executes one command and returns the events the front end should
// apply, in order. It blocks while a SendMessage is in flight.
func (o *Orchestrator) Handle(ctx context.Context, cmd Command) []Event {
	switch cmd := cmd.(type) {
	case SendMessage:
		return o.handleSend(ctx, cmd)
	case RefreshModels:
		return o.handleRefreshModels(ctx)
	case ClearChat:
		return o.handleClear(cmd)
	case ExportConversation:
		return o.handleExport(cmd)
	case ImportConversation:
		return o.handleImport(cmd)
	}
	o.logger.Warn("dropping unknown command")
	return nil
}

// =============================================================================
// SEND
// =============================================================================

func (o *Orchestrator) handleSend(ctx context.Context, cmd SendMessage) []Event {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return []Event{ErrorEvent{
			Err: &conversation.ValidationError{Defect: "message text is empty"},
		}}
	}
	if !cmd.Mode.Valid() {
		return []Event{ErrorEvent{
			Err: &conversation.ValidationError{Defect: "unknown mode " + string(cmd.Mode)},
		}}
	}

	model := cmd.SelectedModel
	if model == "" {
		model = o.cfg.DefaultModel
	}
	if model == "" {
		return []Event{ErrorEvent{
			Err: newConfigError("defaultModel", "no model selected and no default configured"),
		}}
	}

	// The user turn enters the transcript (and the store, for stateful
	// modes) before the backend answers, and stays put even if the call
	// fails.
	events := []Event{MessageEvent{Text: text, Sender: conversation.RoleUser, Mode: cmd.Mode}}

	var outbound []backend.Message
	var systemPrompt string

	switch cmd.Mode {
	case ModePrompt:
		// One-shot: the prompt rides as a transport concern and no store
		// is touched.
		outbound = []backend.Message{{Role: conversation.RoleUser.String(), Content: text}}
		systemPrompt = o.cfg.SystemPrompt

	case ModeQuick:
		o.quick.SeedSystemPrompt(o.cfg.SystemPrompt)
		o.quick.Append(conversation.NewUserMessage(text))
		outbound = toWire(o.quick.Messages())

	case ModeSaved:
		o.saved.SeedSystemPrompt(o.cfg.SystemPrompt)
		o.saved.Append(conversation.NewUserMessage(text))
		outbound = toWire(o.saved.Messages())
		if err := o.codec.Save(o.saved.Messages()); err != nil {
			events = append(events, WarningEvent{Text: "could not save conversation: " + err.Error()})
		}
	}

	o.state.Store(int32(StateAwaitingBackend))
	reply, err := o.transport.SendChat(ctx, outbound, model, systemPrompt)
	o.state.Store(int32(StateIdle))

	if err != nil {
		o.logger.Warn("chat request failed",
			zap.String("mode", string(cmd.Mode)),
			zap.String("model", model),
			zap.Error(err))
		// Failures land in the transcript as an assistant turn so the
		// exchange stays readable, but never enter a store.
		return append(events, MessageEvent{
			Text:   "Error: " + err.Error(),
			Sender: conversation.RoleAssistant,
			Mode:   cmd.Mode,
		})
	}

	switch cmd.Mode {
	case ModeQuick:
		o.quick.Append(conversation.NewAssistantMessage(reply))
	case ModeSaved:
		o.saved.Append(conversation.NewAssistantMessage(reply))
		if err := o.codec.Save(o.saved.Messages()); err != nil {
			events = append(events, WarningEvent{Text: "could not save conversation: " + err.Error()})
		}
	}

	return append(events, MessageEvent{
		Text:   reply,
		Sender: conversation.RoleAssistant,
		Mode:   cmd.Mode,
	})
}

// toWire flattens store history into the transport's message shape,
// dropping IDs.
func toWire(history []conversation.Message) []backend.Message {
	wire := make([]backend.Message, len(history))
	for i, msg := range history {
		wire[i] = backend.Message{Role: msg.Role.String(), Content: msg.Content}
	}
	return wire
}

// =============================================================================
// MODELS
// =============================================================================

func (o *Orchestrator) handleRefreshModels(ctx context.Context) []Event {
	models := o.transport.ListModels(ctx)

	valid := false
	for _, name := range models {
		if name == o.cfg.DefaultModel {
			valid = true
			break
		}
	}

	events := []Event{ModelsEvent{
		Models:            models,
		DefaultModel:      o.cfg.DefaultModel,
		DefaultModelValid: valid,
	}}
	if !valid && o.cfg.DefaultModel != "" && len(models) > 0 {
		events = append(events, WarningEvent{
			Text: "default model " + o.cfg.DefaultModel + " is not served by the backend",
		})
	}
	return events
}

// =============================================================================
// CLEAR
// =============================================================================

func (o *Orchestrator) handleClear(cmd ClearChat) []Event {
	switch cmd.Mode {
	case ModePrompt:
		// Nothing to reset.
		return []Event{ClearedEvent{Mode: cmd.Mode}}

	case ModeQuick:
		o.quick.Clear(o.cfg.SystemPrompt)
		return []Event{ClearedEvent{Mode: cmd.Mode}}

	case ModeSaved:
		o.saved.Clear(o.cfg.SystemPrompt)
		events := []Event{ClearedEvent{Mode: cmd.Mode}}
		if err := o.codec.Save(o.saved.Messages()); err != nil {
			events = append(events, WarningEvent{Text: "could not save conversation: " + err.Error()})
		}
		return events
	}

	return []Event{ErrorEvent{
		Err: &conversation.ValidationError{Defect: "unknown mode " + string(cmd.Mode)},
	}}
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

func (o *Orchestrator) handleExport(cmd ExportConversation) []Event {
	var history []conversation.Message
	switch cmd.Mode {
	case ModeQuick:
		history = o.quick.Messages()
	case ModeSaved:
		history = o.saved.Messages()
	default:
		return []Event{ErrorEvent{
			Err: &conversation.ValidationError{Defect: "mode " + string(cmd.Mode) + " has no conversation to export"},
		}}
	}

	data, err := o.codec.Serialize(history)
	if err != nil {
		return []Event{ErrorEvent{Err: err}}
	}
	return []Event{ExportEvent{Mode: cmd.Mode, Data: data}}
}

func (o *Orchestrator) handleImport(cmd ImportConversation) []Event {
	history, err := persist.Deserialize(cmd.JSON)
	if err != nil {
		return []Event{ImportErrorEvent{Err: err}}
	}
	if err := o.saved.Replace(history); err != nil {
		return []Event{ImportErrorEvent{Err: err}}
	}

	events := []Event{ImportSuccessEvent{Messages: o.saved.Messages()}}
	if err := o.codec.Save(o.saved.Messages()); err != nil {
		events = append(events, WarningEvent{Text: "could not save conversation: " + err.Error()})
	}
	return events
}
