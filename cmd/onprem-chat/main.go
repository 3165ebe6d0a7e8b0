// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

// Command onprem-chat is a terminal front end for an on-premise
// chat-completion backend. It speaks the same command/event protocol the
// editor webview does, so anything it can do the extension can do.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adjiap/onprem-chat/internal/backend"
	"github.com/adjiap/onprem-chat/internal/config"
	"github.com/adjiap/onprem-chat/internal/conversation"
	"github.com/adjiap/onprem-chat/internal/orchestrator"
	"github.com/adjiap/onprem-chat/internal/persist"
)

const extensionName = "onprem-chat"

var (
	flagVerbose bool
	flagMode    string
	flagModel   string
)

// app bundles the wired-up pieces every subcommand needs.
type app struct {
	cfg    *config.Config
	orch   *orchestrator.Orchestrator
	codec  *persist.Codec
	logger *zap.Logger
}

func newLogger(verbose bool) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newApp loads config and wires a single-window session. The quick store is
// process-wide, which for a CLI process means one store is all there is.
func newApp() (*app, error) {
	logger := newLogger(flagVerbose)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.SetGlobal(cfg)

	client := backend.NewClient(backend.ClientConfig{
		BaseURL: cfg.BackendURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout(),
	}, logger)

	codec := persist.NewCodec(cfg.WorkspaceDir, extensionName, logger)
	orch := orchestrator.New(cfg, client, conversation.NewStore(), codec, logger)

	return &app{cfg: cfg, orch: orch, codec: codec, logger: logger}, nil
}

func parseMode(raw string) (orchestrator.Mode, error) {
	mode := orchestrator.Mode(raw)
	if !mode.Valid() {
		return "", fmt.Errorf("unknown mode %q (want prompt, quick, or saved)", raw)
	}
	return mode, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "onprem-chat",
		Short: "Chat with an on-premise LLM backend",
		Long: `onprem-chat bridges a terminal to an on-premise chat-completion API.

Three session modes are available:
  prompt  one-shot exchanges with no memory
  quick   history kept for the life of the process
  saved   history persisted under the workspace directory`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")

	root.AddCommand(newChatCmd())
	root.AddCommand(newModelsCmd())
	root.AddCommand(newClearCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
