package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stxaviers/campusbot/internal/chat"
	"github.com/stxaviers/campusbot/internal/config"
	"github.com/stxaviers/campusbot/internal/storage"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	retriever, err := buildRetriever(cfg, store)
	if err != nil {
		return fmt.Errorf("building retriever: %w", err)
	}

	mode, client := buildMode(cfg)
	checkOllama(ctx, cfg, mode)
	sink := &consoleSink{out: os.Stdout}
	orch := orchestratorFactory(cfg, mode, client, retriever)(sink)

	orch.Welcome()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, colorize(colorBold, "You: "))
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		orch.Handle(ctx, line)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// consoleSink renders the conversation to the terminal. Streaming deltas
// are printed as they arrive on a single "Bot:" line.
type consoleSink struct {
	out       io.Writer
	prev      string
	streaming bool
}

func (s *consoleSink) AppendUserMessage(string) {}

func (s *consoleSink) AppendBotMessage(text string) {
	fmt.Fprintf(s.out, "\n%s %s\n\n", colorize(colorCyan, "Bot:"), text)
}

func (s *consoleSink) BeginStreamingMessage() chat.MessageHandle {
	fmt.Fprintf(s.out, "\n%s ", colorize(colorCyan, "Bot:"))
	s.prev = ""
	s.streaming = true
	return "console"
}

func (s *consoleSink) UpdateStreamingMessage(_ chat.MessageHandle, full string) {
	fmt.Fprint(s.out, strings.TrimPrefix(full, s.prev))
	s.prev = full
}

func (s *consoleSink) FinalizeStreamingMessage(chat.MessageHandle) {
	s.streaming = false
	fmt.Fprint(s.out, "\n\n")
}

func (s *consoleSink) RemoveMessage(chat.MessageHandle) {
	// The partial line cannot be unprinted; mark it abandoned so the
	// fallback answer that follows reads cleanly.
	if s.streaming {
		s.streaming = false
		fmt.Fprintln(s.out, colorize(colorYellow, " [interrupted]"))
	}
}

func (s *consoleSink) ShowTypingIndicator() {}
func (s *consoleSink) HideTypingIndicator() {}
