// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

// Package conversation holds the in-memory message history for the chat
// modes. A Store backs the "quick" and "saved" modes; "prompt" mode is
// stateless and has no store.
//
// The quick-mode store is a single process-wide instance shared by every
// quick window; the saved-mode store is per window and flushed to disk by
// its owner after each mutation.
package conversation
