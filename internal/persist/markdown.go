// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package persist

import (
	"fmt"
	"strings"
	"time"

	"github.com/adjiap/onprem-chat/internal/conversation"
)

// =============================================================================
// MARKDOWN FORMATTING
// =============================================================================

// FormatMarkdown renders a conversation as a human-readable Markdown
// document with YAML frontmatter. Unlike the export envelope this is a
// one-way format: nothing imports it back.
func FormatMarkdown(history []conversation.Message, extensionName string, exportedAt time.Time) []byte {
	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("messages: %d\n", len(history)))
	sb.WriteString(fmt.Sprintf("exported: %s\n", exportedAt.UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("generator: %s\n", extensionName))
	sb.WriteString("---\n\n")

	sb.WriteString("# Conversation\n\n")

	for _, msg := range history {
		switch msg.Role {
		case conversation.RoleUser:
			sb.WriteString("## User\n\n")
		case conversation.RoleAssistant:
			sb.WriteString("## Assistant\n\n")
		default:
			sb.WriteString(fmt.Sprintf("## %s\n\n", msg.Role))
		}
		sb.WriteString(strings.TrimRight(msg.Content, "\n"))
		sb.WriteString("\n\n")
	}

	return []byte(sb.String())
}
