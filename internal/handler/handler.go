// Package handler provides registration and lookup of the pluggable
// command and event handlers the dispatcher routes interactions to.
package handler

import (
	"context"

	"github.com/starkbot/starkbot/internal/bus"
)

// Kind distinguishes command handlers (invoked by name from chat input)
// from event handlers (invoked by lifecycle event id).
type Kind string

const (
	KindCommand Kind = "command"
	KindEvent   Kind = "event"
)

// InvokeFunc is the unit of logic bound to a handler.
type InvokeFunc func(ctx context.Context, i *bus.Interaction) error

// Descriptor describes one registered handler. Immutable after
// registration; owned by the Registry.
type Descriptor struct {
	Name        string
	Kind        Kind
	Once        bool // event handlers only: fire at most once
	Description string
	Invoke      InvokeFunc
}

// Valid reports whether the descriptor exposes the minimum capability
// set: a non-empty name and an invoke function.
func (d Descriptor) Valid() bool {
	return d.Name != "" && d.Invoke != nil
}
