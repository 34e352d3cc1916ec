package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/starkbot/starkbot/internal/bus"
	"github.com/starkbot/starkbot/internal/handler"
)

// newStatus reports process health, transport round-trip latency, and
// the queue counters as labeled fields.
func newStatus(d Deps) handler.Descriptor {
	return handler.Descriptor{
		Name:        "status",
		Kind:        handler.KindCommand,
		Description: "Show bot and queue status",
		Invoke: func(ctx context.Context, i *bus.Interaction) error {
			var b strings.Builder
			b.WriteString("🤖 starkbot status\n")

			online := "yes"
			if !d.Queue.Available() {
				online = "no (queue unreachable)"
			}
			fmt.Fprintf(&b, "Online: %s\n", online)
			fmt.Fprintf(&b, "Uptime: %s\n", time.Since(d.StartedAt).Round(time.Second))

			if d.Latency != nil {
				avgMs, count := d.Latency.Avg()
				fmt.Fprintf(&b, "Transport RTT: %d ms (%d samples)\n", avgMs, count)
			}

			if m, err := d.Queue.Metrics(ctx); err == nil {
				fmt.Fprintf(&b, "Jobs waiting: %d\n", m.Waiting)
				fmt.Fprintf(&b, "Jobs active: %d\n", m.Active)
				fmt.Fprintf(&b, "Jobs completed: %d\n", m.Completed)
				fmt.Fprintf(&b, "Jobs failed: %d\n", m.Failed)
			} else {
				b.WriteString("Queue metrics unavailable\n")
			}

			return i.Reply(ctx, strings.TrimRight(b.String(), "\n"))
		},
	}
}
