// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adjiap/onprem-chat/internal/orchestrator"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the saved conversation with an exported one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			events := a.orch.Handle(cmd.Context(), orchestrator.ImportConversation{JSON: data})
			return renderEvents(os.Stdout, events)
		},
	}
}
