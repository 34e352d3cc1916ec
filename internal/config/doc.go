// Package config handles configuration loading, saving, and schema definition.
package config

import "github.com/starkbot/starkbot/internal/queue"

// Config is the top-level starkbot configuration.
// Uses json tags in camelCase to match the JSON config file format.
type Config struct {
	LogLevel     string             `json:"logLevel,omitempty"`
	Channel      ChannelConfig      `json:"channel"`
	Queue        queue.Config       `json:"queue"`
	Worker       queue.WorkerConfig `json:"worker"`
	Chat         ChatConfig         `json:"chat"`
	HandlersFile string             `json:"handlersFile,omitempty"`
}

// ChannelConfig holds per-channel settings. A nil entry disables the channel.
type ChannelConfig struct {
	Telegram  *TelegramConfig  `json:"telegram,omitempty"`
	WebSocket *WebSocketConfig `json:"websocket,omitempty"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom,omitempty"`
}

// WebSocketConfig holds the local WebSocket gateway settings.
type WebSocketConfig struct {
	Port int `json:"port,omitempty"`
}

// ChatConfig bounds outbound message sizes and the per-request await.
type ChatConfig struct {
	// DisplayLimit caps the primary structured reply body, in runes.
	DisplayLimit int `json:"displayLimit,omitempty"`

	// FollowupLimit caps each plain overflow follow-up, in runes.
	FollowupLimit int `json:"followupLimit,omitempty"`

	// AwaitTimeoutMs bounds how long one request waits for its job result.
	AwaitTimeoutMs int `json:"awaitTimeoutMs,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Queue: queue.Config{
			Name: "starkbot:jobs",
		},
		Channel: ChannelConfig{
			WebSocket: &WebSocketConfig{Port: 18791},
		},
		Chat: ChatConfig{
			DisplayLimit:   4096,
			FollowupLimit:  1900,
			AwaitTimeoutMs: 60000,
		},
	}
}
