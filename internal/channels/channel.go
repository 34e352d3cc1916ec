// Package channels contains the chat transport adapters. Each adapter
// turns platform traffic into interactions for the dispatcher and
// carries replies back out.
package channels

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/starkbot/starkbot/internal/bus"
)

// defaultCommand receives bare text that names no command.
const defaultCommand = "ask"

// Dispatcher is the per-interaction entry point a channel feeds.
type Dispatcher interface {
	Dispatch(ctx context.Context, i *bus.Interaction)
}

// Channel is the interface all chat transport adapters implement.
type Channel interface {
	// Name returns the channel identifier (e.g., "telegram").
	Name() string

	// Start connects to the platform and begins listening. Blocks until
	// ctx is cancelled; a non-nil error means an unrecoverable
	// transport fault.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the channel.
	Stop() error

	// IsRunning returns whether the channel is active.
	IsRunning() bool
}

// BaseChannel provides shared logic for all channel implementations.
type BaseChannel struct {
	ChannelName string
	AllowFrom   []string
	running     atomic.Bool
}

// IsRunning reports whether the channel is active.
func (b *BaseChannel) IsRunning() bool { return b.running.Load() }

func (b *BaseChannel) setRunning(v bool) { b.running.Store(v) }

// IsAllowed checks if a sender is permitted to interact with the bot.
// An empty allow list admits everyone.
func (b *BaseChannel) IsAllowed(senderID string) bool {
	if len(b.AllowFrom) == 0 {
		return true
	}
	for _, allowed := range b.AllowFrom {
		if allowed == senderID {
			return true
		}
	}
	return false
}

// ParseCommand splits inbound text into a handler name and its input.
// "/ask what is X" names the ask handler; a "@botname" suffix on the
// command is stripped; bare text falls through to the default command.
func ParseCommand(text string) (name, input string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return defaultCommand, text
	}

	rest := ""
	name = strings.TrimPrefix(text, "/")
	if idx := strings.IndexAny(name, " \t\n"); idx >= 0 {
		rest = strings.TrimSpace(name[idx:])
		name = name[:idx]
	}
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), rest
}
