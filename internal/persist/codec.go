// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/adjiap/onprem-chat/internal/conversation"
	"github.com/adjiap/onprem-chat/internal/util"
)

// =============================================================================
// WIRE FORMATS
// =============================================================================

// ExportVersion is the fixed format-version tag written to every export so
// future importers can branch on it.
const ExportVersion = "1.0"

// ConversationFileName is the well-known saved-conversation location,
// relative to the workspace root.
const ConversationFileName = ".onprem-chat/conversation.json"

// SavedEnvelope is the internal persistence format.
type SavedEnvelope struct {
	History     []conversation.Message `json:"history"`
	LastUpdated time.Time              `json:"lastUpdated"`
}

// ExportEnvelope is the export/import wire format. It is a different shape
// from SavedEnvelope on purpose; the two formats evolve independently.
type ExportEnvelope struct {
	Version       string                 `json:"version"`
	ExportDate    time.Time              `json:"exportDate"`
	ExtensionName string                 `json:"extensionName"`
	Conversation  []conversation.Message `json:"conversation"`
}

// rawExportEnvelope defers the conversation field so a wrong-typed value
// (e.g. a string) is a validation failure rather than a decode failure of
// the whole document.
type rawExportEnvelope struct {
	Version       string          `json:"version"`
	ExportDate    time.Time       `json:"exportDate"`
	ExtensionName string          `json:"extensionName"`
	Conversation  json.RawMessage `json:"conversation"`
}

// =============================================================================
// CODEC
// =============================================================================

// Codec persists one saved conversation per workspace.
type Codec struct {
	workspaceDir  string
	extensionName string
	logger        *zap.Logger

	// lastSaved holds the bytes of this codec's most recent write so Watch
	// can tell its own saves apart from another window's.
	lastSaved atomic.Pointer[[]byte]
}

// NewCodec creates a codec rooted at workspaceDir. An empty workspaceDir is
// accepted: Save degrades to a logged no-op and Load returns empty history,
// because a missing workspace is an expected condition, not an error.
func NewCodec(workspaceDir, extensionName string, logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{
		workspaceDir:  workspaceDir,
		extensionName: extensionName,
		logger:        logger,
	}
}

// FilePath returns the saved-conversation path, or "" without a workspace.
func (c *Codec) FilePath() string {
	if c.workspaceDir == "" {
		return ""
	}
	return filepath.Join(c.workspaceDir, filepath.FromSlash(ConversationFileName))
}

// =============================================================================
// SAVE / LOAD (internal persistence)
// =============================================================================

// Save writes the full envelope atomically, overwriting any prior content.
// Concurrent windows on one workspace are last-writer-wins; there is no
// merge and no lock.
func (c *Codec) Save(history []conversation.Message) error {
	path := c.FilePath()
	if path == "" {
		c.logger.Warn("no workspace open, conversation not persisted")
		return nil
	}

	envelope := SavedEnvelope{
		History:     history,
		LastUpdated: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}

	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return err
	}
	c.lastSaved.Store(&data)
	return nil
}

// Load reads the envelope back. An absent, corrupt, or wrong-shaped file
// yields empty history with a logged warning; opening a window must never
// be blocked by a bad history file.
func (c *Codec) Load() []conversation.Message {
	path := c.FilePath()
	if path == "" {
		return []conversation.Message{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("saved conversation unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return []conversation.Message{}
	}

	var envelope SavedEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logger.Warn("saved conversation corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		return []conversation.Message{}
	}

	history := envelope.History
	if history == nil {
		history = []conversation.Message{}
	}
	for _, msg := range history {
		if !msg.Role.Valid() {
			c.logger.Warn("saved conversation has unknown roles, starting empty",
				zap.String("path", path), zap.String("role", string(msg.Role)))
			return []conversation.Message{}
		}
	}
	return history
}

// =============================================================================
// SERIALIZE / DESERIALIZE (export wire format)
// =============================================================================

// Serialize wraps the conversation in the export envelope.
func (c *Codec) Serialize(history []conversation.Message) ([]byte, error) {
	if history == nil {
		history = []conversation.Message{}
	}
	envelope := ExportEnvelope{
		Version:       ExportVersion,
		ExportDate:    time.Now().UTC(),
		ExtensionName: c.extensionName,
		Conversation:  history,
	}
	return json.MarshalIndent(envelope, "", "  ")
}

// Deserialize parses an export envelope. Unlike Load it is strict: a
// missing or malformed conversation field fails with a ValidationError
// naming the defect, and the caller must surface it rather than fall back
// to an empty history.
func Deserialize(data []byte) ([]conversation.Message, error) {
	var raw rawExportEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &conversation.ValidationError{Defect: "not a JSON object: " + err.Error()}
	}

	if len(raw.Conversation) == 0 {
		return nil, &conversation.ValidationError{Defect: "missing conversation field"}
	}

	var history []conversation.Message
	if err := json.Unmarshal(raw.Conversation, &history); err != nil {
		return nil, &conversation.ValidationError{Defect: "conversation is not an array of messages"}
	}
	if history == nil {
		return nil, &conversation.ValidationError{Defect: "conversation is null"}
	}

	for i, msg := range history {
		if !msg.Role.Valid() {
			return nil, &conversation.ValidationError{
				Defect: fmt.Sprintf("message %d has unknown role %q", i, msg.Role),
			}
		}
	}

	return history, nil
}
