package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/starkbot/starkbot/internal/config"
	"github.com/starkbot/starkbot/internal/logging"
	"github.com/starkbot/starkbot/internal/queue"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show starkbot configuration and queue status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	configPath := config.GetConfigPath()
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println("🤖 starkbot Status")
	fmt.Println()
	fmt.Printf("Config: %s\n", configPath)
	fmt.Printf("Queue: %s\n", cfg.Queue.Name)

	fmt.Println("\nChannels:")
	if tg := cfg.Channel.Telegram; tg != nil && tg.Token != "" {
		fmt.Println("  Telegram: ✓")
	}
	if ws := cfg.Channel.WebSocket; ws != nil {
		fmt.Printf("  WebSocket: ✓ (port %d)\n", ws.Port)
	}

	bridge := queue.New(cfg.Queue, logging.New("error"))
	defer bridge.Close()

	fmt.Println("\nQueue:")
	if !bridge.Available() {
		fmt.Println("  Redis: unreachable")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m, err := bridge.Metrics(ctx)
	if err != nil {
		return fmt.Errorf("reading queue metrics: %w", err)
	}
	fmt.Println("  Redis: ✓")
	fmt.Printf("  Waiting: %d\n", m.Waiting)
	fmt.Printf("  Active: %d\n", m.Active)
	fmt.Printf("  Completed: %d\n", m.Completed)
	fmt.Printf("  Failed: %d\n", m.Failed)
	return nil
}
