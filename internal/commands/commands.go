// Package commands holds the built-in handler set wired into the
// registry at startup. Each handler is a self-contained unit bound to a
// command name or lifecycle event id.
package commands

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/starkbot/starkbot/internal/config"
	"github.com/starkbot/starkbot/internal/handler"
	"github.com/starkbot/starkbot/internal/latency"
	"github.com/starkbot/starkbot/internal/queue"
)

// Queue is the job-bridge capability the handlers consume.
// *queue.Bridge satisfies it; tests substitute stubs.
type Queue interface {
	Submit(ctx context.Context, req queue.Request) (queue.Job, error)
	AwaitResult(ctx context.Context, jobID string, timeout time.Duration) (queue.Result, error)
	Metrics(ctx context.Context) (queue.Metrics, error)
	Available() bool
}

// Deps is the shared application context handed to every built-in
// handler at registration time.
type Deps struct {
	Queue     Queue
	Chat      config.ChatConfig
	Registry  *handler.Registry
	Latency   *latency.Window
	StartedAt time.Time
	Log       *log.Logger
}

// AwaitTimeout resolves the configured per-request await bound.
func (d Deps) AwaitTimeout() time.Duration {
	if d.Chat.AwaitTimeoutMs <= 0 {
		return time.Minute
	}
	return time.Duration(d.Chat.AwaitTimeoutMs) * time.Millisecond
}

// All returns every built-in handler descriptor.
func All(d Deps) []handler.Descriptor {
	return []handler.Descriptor{
		newAsk(d),
		newStatus(d),
		newHelp(d),
		newPing(d),
		newReadyEvent(d),
	}
}
