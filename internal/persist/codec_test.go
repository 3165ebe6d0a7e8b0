// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package persist

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adjiap/onprem-chat/internal/conversation"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	return NewCodec(t.TempDir(), "onprem-chat", zap.NewNop())
}

// =============================================================================
// SAVE / LOAD TESTS
// =============================================================================

func TestCodec_SaveAndLoad(t *testing.T) {
	codec := newTestCodec(t)

	history := []conversation.Message{
		conversation.NewUserMessage("hello"),
		conversation.NewAssistantMessage("hi there"),
	}
	require.NoError(t, codec.Save(history))

	loaded := codec.Load()
	require.Len(t, loaded, 2)
	assert.Equal(t, "hello", loaded[0].Content)
	assert.Equal(t, conversation.RoleAssistant, loaded[1].Role)
}

func TestCodec_SaveWritesEnvelope(t *testing.T) {
	codec := newTestCodec(t)
	require.NoError(t, codec.Save([]conversation.Message{conversation.NewUserMessage("x")}))

	data, err := os.ReadFile(codec.FilePath())
	require.NoError(t, err)

	var envelope SavedEnvelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.False(t, envelope.LastUpdated.IsZero(), "lastUpdated must be set")
	assert.Len(t, envelope.History, 1)
}

func TestCodec_LoadMissingFile(t *testing.T) {
	codec := newTestCodec(t)

	assert.Empty(t, codec.Load(), "no file means empty history")
}

func TestCodec_LoadCorruptFile(t *testing.T) {
	codec := newTestCodec(t)
	require.NoError(t, os.MkdirAll(codec.workspaceDir+"/.onprem-chat", 0755))
	require.NoError(t, os.WriteFile(codec.FilePath(), []byte("{{{ not json"), 0644))

	// A corrupt file must never block window opening.
	assert.Empty(t, codec.Load())
}

func TestCodec_LoadUnknownRoles(t *testing.T) {
	codec := newTestCodec(t)
	require.NoError(t, os.MkdirAll(codec.workspaceDir+"/.onprem-chat", 0755))
	require.NoError(t, os.WriteFile(codec.FilePath(),
		[]byte(`{"history":[{"role":"wizard","content":"zap"}],"lastUpdated":"2026-01-02T15:04:05Z"}`), 0644))

	assert.Empty(t, codec.Load())
}

func TestCodec_NoWorkspace(t *testing.T) {
	codec := NewCodec("", "onprem-chat", zap.NewNop())

	// Save is a warning-level no-op, Load yields empty history.
	require.NoError(t, codec.Save([]conversation.Message{conversation.NewUserMessage("x")}))
	assert.Empty(t, codec.Load())
	assert.Empty(t, codec.FilePath())
}

func TestCodec_SaveOverwrites(t *testing.T) {
	codec := newTestCodec(t)

	require.NoError(t, codec.Save([]conversation.Message{conversation.NewUserMessage("first")}))
	require.NoError(t, codec.Save([]conversation.Message{
		conversation.NewUserMessage("second"),
		conversation.NewAssistantMessage("reply"),
	}))

	loaded := codec.Load()
	require.Len(t, loaded, 2)
	assert.Equal(t, "second", loaded[0].Content)
}

// =============================================================================
// SERIALIZE / DESERIALIZE TESTS
// =============================================================================

func TestCodec_SerializeEnvelope(t *testing.T) {
	codec := newTestCodec(t)

	data, err := codec.Serialize([]conversation.Message{})
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.JSONEq(t, `"1.0"`, string(envelope["version"]))
	assert.JSONEq(t, `"onprem-chat"`, string(envelope["extensionName"]))
	assert.JSONEq(t, `[]`, string(envelope["conversation"]))
	assert.Contains(t, string(data), "exportDate")
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	original := []conversation.Message{
		conversation.NewUserMessage("Be concise"),
		conversation.NewUserMessage("hello"),
		conversation.NewAssistantMessage("hi"),
	}

	data, err := codec.Serialize(original)
	require.NoError(t, err)

	decoded, err := Deserialize(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(original))
	for i := range original {
		assert.True(t, original[i].Equal(decoded[i]), "message %d changed in round trip", i)
	}
}

func TestDeserialize_Valid(t *testing.T) {
	history, err := Deserialize([]byte(`{"conversation": [{"role":"user","content":"hi"}]}`))

	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, conversation.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
}

func TestDeserialize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `this is not json`},
		{"missing conversation", `{"version":"1.0"}`},
		{"conversation not an array", `{"conversation": "not-an-array"}`},
		{"conversation null", `{"conversation": null}`},
		{"unknown role", `{"conversation": [{"role":"system","content":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize([]byte(tt.data))

			var verr *conversation.ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.NotEmpty(t, verr.Defect)
		})
	}
}

func TestDeserialize_EmptyConversation(t *testing.T) {
	history, err := Deserialize([]byte(`{"conversation": []}`))

	require.NoError(t, err)
	assert.Empty(t, history)
}
