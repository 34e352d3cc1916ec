package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/starkbot/starkbot/internal/bus"
	"github.com/starkbot/starkbot/internal/handler"
)

// newHelp lists the registered commands. The registry is read after
// population, so the list reflects manifest filtering and aliases.
func newHelp(d Deps) handler.Descriptor {
	return handler.Descriptor{
		Name:        "help",
		Kind:        handler.KindCommand,
		Description: "List available commands",
		Invoke: func(ctx context.Context, i *bus.Interaction) error {
			var b strings.Builder
			b.WriteString("Available commands:\n")
			for _, name := range d.Registry.CommandNames() {
				desc, _ := d.Registry.Command(name)
				if desc.Description != "" {
					fmt.Fprintf(&b, "/%s — %s\n", name, desc.Description)
					continue
				}
				fmt.Fprintf(&b, "/%s\n", name)
			}
			return i.Reply(ctx, strings.TrimRight(b.String(), "\n"))
		},
	}
}
