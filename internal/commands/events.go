package commands

import (
	"context"

	"github.com/starkbot/starkbot/internal/bus"
	"github.com/starkbot/starkbot/internal/handler"
)

// newReadyEvent announces presence exactly once, even if the transport's
// ready signal fires more than once (the dispatcher guards Once events).
func newReadyEvent(d Deps) handler.Descriptor {
	return handler.Descriptor{
		Name:        "ready",
		Kind:        handler.KindEvent,
		Once:        true,
		Description: "Announce the bot is online",
		Invoke: func(_ context.Context, _ *bus.Interaction) error {
			d.Log.Info("🤖 starkbot is online", "queue_available", d.Queue.Available())
			return nil
		},
	}
}
