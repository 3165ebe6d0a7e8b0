// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adjiap/onprem-chat/internal/orchestrator"
)

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset a conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := parseMode(flagMode)
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			events := a.orch.Handle(cmd.Context(), orchestrator.ClearChat{Mode: mode})
			return renderEvents(os.Stdout, events)
		},
	}
	cmd.Flags().StringVarP(&flagMode, "mode", "m", "saved",
		"session mode to clear: prompt, quick, or saved")
	return cmd
}
