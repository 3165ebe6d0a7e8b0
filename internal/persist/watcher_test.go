// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package persist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adjiap/onprem-chat/internal/conversation"
)

func TestWatchSeesExternalSave(t *testing.T) {
	workspace := t.TempDir()
	codec := NewCodec(workspace, "onprem-chat", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- codec.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	other := NewCodec(workspace, "onprem-chat", nil)
	require.NoError(t, other.Save([]conversation.Message{
		conversation.NewUserMessage("written by another window"),
	}))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the external save")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatchIgnoresOwnSaves(t *testing.T) {
	workspace := t.TempDir()
	codec := NewCodec(workspace, "onprem-chat", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	go func() {
		_ = codec.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()
	time.Sleep(100 * time.Millisecond)

	// A save through the watching codec is an echo, not a change.
	require.NoError(t, codec.Save([]conversation.Message{
		conversation.NewUserMessage("written by this window"),
	}))
	select {
	case <-changed:
		t.Fatal("watcher fired for this codec's own save")
	case <-time.After(500 * time.Millisecond):
	}

	// A different writer on the same workspace still gets through.
	other := NewCodec(workspace, "onprem-chat", nil)
	require.NoError(t, other.Save([]conversation.Message{
		conversation.NewUserMessage("written by another window"),
	}))
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the external save")
	}
}

func TestWatchWithoutWorkspaceReturnsImmediately(t *testing.T) {
	codec := NewCodec("", "onprem-chat", nil)
	require.NoError(t, codec.Watch(context.Background(), func() {
		t.Error("onChange must not fire without a workspace")
	}))
}
