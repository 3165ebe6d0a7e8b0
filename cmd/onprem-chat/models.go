// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adjiap/onprem-chat/internal/orchestrator"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the backend serves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			events := a.orch.Handle(cmd.Context(), orchestrator.RefreshModels{})
			return renderEvents(os.Stdout, events)
		},
	}
}
