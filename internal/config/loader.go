package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// GetConfigPath returns the default config file path (~/.starkbot/config.json).
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".starkbot", "config.json")
}

// Load reads configuration from a JSON file.
// If path is empty, uses the default config path.
// If the file doesn't exist, returns DefaultConfig().
// Environment overrides are applied last, so secrets never need to live
// in the file.
func Load(path string) (Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	cfg := DefaultConfig() // start with defaults so zero-value fields get filled
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return applyEnv(cfg), nil
}

// Save writes configuration to a JSON file.
// If path is empty, uses the default config path.
func Save(cfg Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnv layers environment-provided values over the file config.
func applyEnv(cfg Config) Config {
	if url := os.Getenv("STARKBOT_REDIS_URL"); url != "" {
		cfg.Queue.RedisURL = url
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		if cfg.Channel.Telegram == nil {
			cfg.Channel.Telegram = &TelegramConfig{}
		}
		cfg.Channel.Telegram.Token = token
	}
	if ms := os.Getenv("STARKBOT_TIMEOUT_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			cfg.Chat.AwaitTimeoutMs = v
		}
	}
	return cfg
}
