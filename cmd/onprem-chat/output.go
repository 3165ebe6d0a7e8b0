// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/adjiap/onprem-chat/internal/conversation"
	"github.com/adjiap/onprem-chat/internal/orchestrator"
)

// renderEvents prints a batch of orchestrator events the way the webview
// would apply them. Error events surface as returned errors so cobra sets
// the exit code.
func renderEvents(w io.Writer, events []orchestrator.Event) error {
	var firstErr error
	for _, event := range events {
		switch event := event.(type) {
		case orchestrator.MessageEvent:
			// The user already typed their own text; echo only the reply.
			if event.Sender == conversation.RoleAssistant {
				fmt.Fprintln(w, event.Text)
			}
		case orchestrator.ModelsEvent:
			for _, name := range event.Models {
				if name == event.DefaultModel {
					fmt.Fprintf(w, "%s (default)\n", name)
				} else {
					fmt.Fprintln(w, name)
				}
			}
			if len(event.Models) == 0 {
				fmt.Fprintln(w, "no models available (is the backend reachable?)")
			}
		case orchestrator.ClearedEvent:
			fmt.Fprintf(w, "cleared %s conversation\n", event.Mode)
		case orchestrator.ExportEvent:
			// Written by the export command itself.
		case orchestrator.ImportSuccessEvent:
			fmt.Fprintf(w, "imported %d messages\n", len(event.Messages))
		case orchestrator.ImportErrorEvent:
			if firstErr == nil {
				firstErr = event.Err
			}
		case orchestrator.ErrorEvent:
			if firstErr == nil {
				firstErr = event.Err
			}
		case orchestrator.WarningEvent:
			fmt.Fprintf(w, "warning: %s\n", event.Text)
		}
	}
	return firstErr
}
