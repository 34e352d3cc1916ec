package handler

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Registry stores handler descriptors keyed by name (commands) and event
// id (events). Population happens once at startup; afterwards the maps
// are read-only and safe for concurrent lookups without locking.
type Registry struct {
	commands map[string]Descriptor
	events   map[string]Descriptor
	log      *log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		commands: make(map[string]Descriptor),
		events:   make(map[string]Descriptor),
		log:      logger.WithPrefix("registry"),
	}
}

// Populate validates and registers the given descriptors, returning the
// number accepted. A malformed descriptor is logged and skipped, never
// fatal; a duplicate name overwrites the prior registration and is
// logged as a warning.
func (r *Registry) Populate(descs ...Descriptor) int {
	accepted := 0
	for _, d := range descs {
		d.Name = strings.TrimSpace(d.Name)
		if !d.Valid() {
			r.log.Warn("Skipping invalid handler", "name", d.Name, "kind", d.Kind)
			continue
		}
		if d.Kind == "" {
			d.Kind = KindCommand
		}

		table := r.commands
		if d.Kind == KindEvent {
			table = r.events
		}
		if _, exists := table[d.Name]; exists {
			r.log.Warn("Duplicate handler name, last registration wins",
				"name", d.Name, "kind", d.Kind)
		}
		table[d.Name] = d
		accepted++
	}
	r.log.Info("Registry populated",
		"commands", len(r.commands), "events", len(r.events))
	return accepted
}

// Command looks up a command handler by name.
func (r *Registry) Command(name string) (Descriptor, bool) {
	d, ok := r.commands[name]
	return d, ok
}

// Event looks up an event handler by event id.
func (r *Registry) Event(name string) (Descriptor, bool) {
	d, ok := r.events[name]
	return d, ok
}

// CommandNames returns the registered command names, sorted.
func (r *Registry) CommandNames() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of registered handlers.
func (r *Registry) Len() int {
	return len(r.commands) + len(r.events)
}
