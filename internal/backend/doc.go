// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

// Package backend provides the HTTP client for the on-premise chat
// completion API.
//
// The backend exposes two endpoints: POST /api/chat for non-streaming chat
// completions and GET /api/tags for the model list. Both carry the API key
// as an opaque bearer token. Chat failures surface as typed ClientError
// values; model-list failures are deliberately soft (empty list plus a log
// entry) because a stale model picker must never block chatting.
package backend
