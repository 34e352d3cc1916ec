// Package dispatch routes inbound interactions to their registered
// handlers and guarantees exactly one terminal response per interaction,
// no matter how the handler fails.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/starkbot/starkbot/internal/bus"
	"github.com/starkbot/starkbot/internal/handler"
	"github.com/starkbot/starkbot/internal/queue"
)

// User-visible texts. Short and non-technical; detail goes to the log.
const (
	unknownCommandText = "I don't know that command. Try /help."
	timeoutText        = "Your request timed out. Please try again."
	genericErrorText   = "Sorry, something went wrong while processing your request."
)

// Dispatcher routes interactions by handler name and emits lifecycle
// events to event handlers.
type Dispatcher struct {
	registry *handler.Registry
	log      *log.Logger

	mu    sync.Mutex
	fired map[string]bool // one-shot latch per Once event
}

// New creates a Dispatcher over a populated registry.
func New(registry *handler.Registry, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		log:      logger.WithPrefix("dispatch"),
		fired:    make(map[string]bool),
	}
}

// Dispatch resolves the interaction to a command handler and invokes it.
// Whatever happens inside the handler, the interaction ends with exactly
// one terminal user-visible response.
func (d *Dispatcher) Dispatch(ctx context.Context, i *bus.Interaction) {
	start := time.Now()

	desc, ok := d.registry.Command(i.Command)
	if !ok {
		d.log.Warn("Unknown command", "command", i.Command, "requester", i.SenderID)
		if err := i.Reply(ctx, unknownCommandText); err != nil {
			d.log.Error("Failed to send unknown-command reply", "error", err)
		}
		return
	}

	err := d.invoke(ctx, desc, i)
	if err != nil {
		d.replyError(ctx, i, desc.Name, err)
	}

	d.log.Info("Dispatched",
		"handler", desc.Name,
		"requester", i.SenderID,
		"ok", err == nil,
		"latency", time.Since(start))
}

// Emit invokes the event handler registered under the given event id.
// Once events fire at most one time; later emits are no-ops.
func (d *Dispatcher) Emit(ctx context.Context, event string) {
	desc, ok := d.registry.Event(event)
	if !ok {
		d.log.Debug("No handler for event", "event", event)
		return
	}

	if desc.Once {
		d.mu.Lock()
		if d.fired[event] {
			d.mu.Unlock()
			return
		}
		d.fired[event] = true
		d.mu.Unlock()
	}

	if err := d.invoke(ctx, desc, nil); err != nil {
		d.log.Error("Event handler failed", "event", event, "error", err)
	}
}

// invoke runs the handler with panic containment, so a faulty handler
// can never take the process down.
func (d *Dispatcher) invoke(ctx context.Context, desc handler.Descriptor, i *bus.Interaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", desc.Name, r)
		}
	}()
	return desc.Invoke(ctx, i)
}

// replyError sends the single terminal error response, choosing between
// an initial reply and a follow-up depending on whether the handler
// already replied or deferred before failing.
func (d *Dispatcher) replyError(ctx context.Context, i *bus.Interaction, name string, err error) {
	d.log.Error("Handler failed", "handler", name, "requester", i.SenderID, "error", err)

	text := userFacingText(err)
	var sendErr error
	if i.Replied() {
		sendErr = i.FollowUp(ctx, text)
	} else {
		sendErr = i.Reply(ctx, text)
	}
	if sendErr != nil {
		d.log.Error("Failed to deliver error reply", "handler", name, "error", sendErr)
	}
}

// userFacingText maps failure kinds to short messages. Only a timeout
// gets its own wording; everything else, queue outages included, reads
// as a generic processing error.
func userFacingText(err error) string {
	if errors.Is(err, queue.ErrAwaitTimeout) {
		return timeoutText
	}
	return genericErrorText
}
