// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

// Package persist reads and writes the saved conversation.
//
// Two envelopes exist and are intentionally distinct: the internal
// SavedEnvelope ({history, lastUpdated}) stored under the workspace root,
// and the ExportEnvelope ({version, exportDate, extensionName,
// conversation}) used for user-initiated export and import.
//
// Load is forgiving (an absent or corrupt file yields empty history so a
// window can always open); Deserialize is strict (a user importing a broken
// file must be told what is wrong).
package persist
