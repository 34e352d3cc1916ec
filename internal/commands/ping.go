package commands

import (
	"context"

	"github.com/starkbot/starkbot/internal/bus"
	"github.com/starkbot/starkbot/internal/handler"
)

func newPing(_ Deps) handler.Descriptor {
	return handler.Descriptor{
		Name:        "ping",
		Kind:        handler.KindCommand,
		Description: "Check the bot is alive",
		Invoke: func(ctx context.Context, i *bus.Interaction) error {
			return i.Reply(ctx, "🏓 Pong!")
		},
	}
}
