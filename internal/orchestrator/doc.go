// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

// Package orchestrator is the per-window session state machine.
//
// It is a message-passing boundary: the front end feeds Commands into
// Handle and receives Events back, with no assumption about what transport
// carries them (webview postMessage, CLI loop, test harness). For each
// command the orchestrator decides which conversation store to read or
// mutate, assembles the outbound message list, calls the backend, and
// routes the result, so the front end never touches a store or the
// transport directly.
//
// A window is Idle except while one backend call is in flight
// (AwaitingBackend). Nothing queues or rejects a second send issued before
// the first resolves; callers are expected to send one at a time.
package orchestrator
