package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Schema Tests ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "starkbot:jobs", cfg.Queue.Name)
	assert.Equal(t, 4096, cfg.Chat.DisplayLimit)
	assert.Equal(t, 1900, cfg.Chat.FollowupLimit)
	assert.Equal(t, 60000, cfg.Chat.AwaitTimeoutMs)
	require.NotNil(t, cfg.Channel.WebSocket)
	assert.Equal(t, 18791, cfg.Channel.WebSocket.Port)
	assert.Nil(t, cfg.Channel.Telegram)
}

func TestConfig_CamelCaseJSON(t *testing.T) {
	jsonStr := `{
		"channel": {
			"telegram": {"token": "abc", "allowFrom": ["user1"]},
			"websocket": {"port": 9090}
		},
		"queue": {"redisUrl": "redis://localhost:6379", "name": "q"},
		"worker": {"command": "node", "args": ["worker.js"]},
		"chat": {"displayLimit": 2000, "followupLimit": 1500, "awaitTimeoutMs": 30000}
	}`

	var cfg Config
	err := json.Unmarshal([]byte(jsonStr), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Channel.Telegram.Token)
	assert.Equal(t, []string{"user1"}, cfg.Channel.Telegram.AllowFrom)
	assert.Equal(t, 9090, cfg.Channel.WebSocket.Port)
	assert.Equal(t, "redis://localhost:6379", cfg.Queue.RedisURL)
	assert.Equal(t, "node", cfg.Worker.Command)
	assert.Equal(t, []string{"worker.js"}, cfg.Worker.Args)
	assert.Equal(t, 2000, cfg.Chat.DisplayLimit)
	assert.Equal(t, 30000, cfg.Chat.AwaitTimeoutMs)
}

// --- Loader Tests ---

func TestLoad_FileNotExist(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Chat, cfg.Chat)
	assert.Equal(t, DefaultConfig().Queue.Name, cfg.Queue.Name)
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"queue": {"redisUrl": "redis://cache:6379"}, "chat": {"displayLimit": 1000}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6379", cfg.Queue.RedisURL)
	assert.Equal(t, 1000, cfg.Chat.DisplayLimit)
	// Defaults should be preserved for unset fields
	assert.Equal(t, 1900, cfg.Chat.FollowupLimit)
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{invalid json}"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STARKBOT_REDIS_URL", "redis://env:6379")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("STARKBOT_TIMEOUT_MS", "15000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "redis://env:6379", cfg.Queue.RedisURL)
	require.NotNil(t, cfg.Channel.Telegram)
	assert.Equal(t, "env-token", cfg.Channel.Telegram.Token)
	assert.Equal(t, 15000, cfg.Chat.AwaitTimeoutMs)
}

func TestSave_And_Load_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Channel.Telegram = &TelegramConfig{Token: "test-token"}
	cfg.Queue.RedisURL = "redis://localhost:6379"

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-token", loaded.Channel.Telegram.Token)
	assert.Equal(t, "redis://localhost:6379", loaded.Queue.RedisURL)
}
