// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adjiap/onprem-chat/internal/orchestrator"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message, or start an interactive session",
		Long: `With a message argument, sends it and prints the reply.
Without arguments, starts an interactive loop; type /quit to leave.`,
		RunE: runChat,
	}
	cmd.Flags().StringVarP(&flagMode, "mode", "m", "quick",
		"session mode: prompt, quick, or saved")
	cmd.Flags().StringVar(&flagModel, "model", "",
		"model to use for this session (overrides the configured default)")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(flagMode)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	ctx := cmd.Context()

	// In saved mode another process may rewrite the conversation file at
	// any time. Follow it so the next send continues their version instead
	// of clobbering it.
	if mode == orchestrator.ModeSaved {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := a.codec.Watch(watchCtx, func() {
				a.orch.ReloadSaved()
				fmt.Fprintln(os.Stderr, "(conversation updated on disk, reloaded)")
			})
			if err != nil && watchCtx.Err() == nil {
				a.logger.Warn("conversation watcher stopped", zap.Error(err))
			}
		}()
	}

	if len(args) > 0 {
		events := a.orch.Handle(ctx, orchestrator.SendMessage{
			Text:          strings.Join(args, " "),
			Mode:          mode,
			SelectedModel: flagModel,
		})
		return renderEvents(os.Stdout, events)
	}

	return runInteractive(ctx, a, mode)
}

func runInteractive(ctx context.Context, a *app, mode orchestrator.Mode) error {
	fmt.Printf("onprem-chat [%s mode] against %s\n", mode, a.cfg.BackendURL)
	fmt.Println("Type a message, /clear to reset, /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			events := a.orch.Handle(ctx, orchestrator.ClearChat{Mode: mode})
			if err := renderEvents(os.Stdout, events); err != nil {
				return err
			}
			continue
		}

		events := a.orch.Handle(ctx, orchestrator.SendMessage{
			Text:          line,
			Mode:          mode,
			SelectedModel: flagModel,
		})
		if err := renderEvents(os.Stdout, events); err != nil {
			return err
		}
	}
}
