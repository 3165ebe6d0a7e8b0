// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/adjiap/onprem-chat/internal/orchestrator"
	"github.com/adjiap/onprem-chat/internal/persist"
)

func newExportCmd() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a conversation as portable JSON",
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

			events := a.orch.Handle(cmd.Context(), orchestrator.ExportConversation{Mode: mode})
			for _, event := range events {
				export, ok := event.(orchestrator.ExportEvent)
				if !ok {
					continue
				}

				data := export.Data
				switch format {
				case "json":
				case "markdown", "md":
					history, err := persist.Deserialize(export.Data)
					if err != nil {
						return err
					}
					data = persist.FormatMarkdown(history, extensionName, time.Now())
				default:
					return fmt.Errorf("unknown format %q (want json or markdown)", format)
				}

				if output == "" {
					fmt.Fprintln(os.Stdout, string(data))
					return nil
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				fmt.Printf("exported to %s\n", output)
				return nil
			}
			return renderEvents(os.Stdout, events)
		},
	}
	cmd.Flags().StringVarP(&flagMode, "mode", "m", "saved",
		"session mode to export: quick or saved")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"file to write (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json",
		"export format: json (re-importable) or markdown")
	return cmd
}
