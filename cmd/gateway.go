package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starkbot/starkbot/internal/app"
	"github.com/starkbot/starkbot/internal/config"
	"github.com/starkbot/starkbot/internal/logging"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the starkbot gateway (channels + job bridge)",
	RunE:  runGateway,
}

var gatewayConfigPath string

func init() {
	gatewayCmd.Flags().StringVarP(&gatewayConfigPath, "config", "c", "", "Config file path")
	rootCmd.AddCommand(gatewayCmd)
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(gatewayConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.LogLevel)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	if code := a.Run(context.Background()); code != 0 {
		os.Exit(code)
	}
	return nil
}
