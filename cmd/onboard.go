package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/starkbot/starkbot/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize starkbot configuration",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

const handlersTemplate = `# Handler manifest. Disable built-in commands or add aliases here.
# disabled:
#   - ping
# aliases:
#   q: ask
`

func runOnboard(cmd *cobra.Command, args []string) error {
	configPath := config.GetConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists at %s\n", configPath)
	} else {
		if err := config.Save(config.DefaultConfig(), ""); err != nil {
			return fmt.Errorf("creating config: %w", err)
		}
		fmt.Printf("✓ Created config at %s\n", configPath)
	}

	handlersPath := filepath.Join(filepath.Dir(configPath), "handlers.yaml")
	if _, err := os.Stat(handlersPath); os.IsNotExist(err) {
		if err := os.WriteFile(handlersPath, []byte(handlersTemplate), 0644); err != nil {
			return fmt.Errorf("creating handler manifest: %w", err)
		}
		fmt.Printf("✓ Created handler manifest at %s\n", handlersPath)
	}

	fmt.Println("\n🤖 starkbot is ready!")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set STARKBOT_REDIS_URL (or queue.redisUrl in the config)")
	fmt.Println("  2. Set TELEGRAM_BOT_TOKEN to enable the Telegram channel")
	fmt.Println("  3. Start the gateway: starkbot gateway")

	return nil
}
