// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package persist

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch invokes onChange whenever another writer updates the saved
// conversation file. Saves from concurrent windows on one workspace are
// last-writer-wins; watching makes those external overwrites observable so
// a window can reload instead of silently clobbering them on its next save.
//
// Watch blocks until ctx is cancelled. Without a workspace it returns
// immediately.
func (c *Codec) Watch(ctx context.Context, onChange func()) error {
	path := c.FilePath()
	if path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: atomic saves replace the file by
	// rename, which drops a direct file watch. The directory may not exist
	// before the first save.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if c.isOwnWrite(path) {
				continue
			}
			c.logger.Debug("saved conversation changed on disk",
				zap.String("op", event.Op.String()))
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("conversation file watch error", zap.Error(err))
		}
	}
}

// isOwnWrite reports whether the file currently holds exactly what this
// codec last wrote, meaning the event is an echo of this window's own save
// rather than another writer's.
func (c *Codec) isOwnWrite(path string) bool {
	last := c.lastSaved.Load()
	if last == nil {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return bytes.Equal(data, *last)
}
