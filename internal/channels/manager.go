package channels

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Manager owns all channel instances: it starts them concurrently,
// stops them on shutdown, and reports their status.
type Manager struct {
	mu       sync.RWMutex
	channels map[string]Channel
	log      *log.Logger
}

// NewManager creates a channel manager.
func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		channels: make(map[string]Channel),
		log:      logger.WithPrefix("channels"),
	}
}

// Register adds a channel to the manager.
func (m *Manager) Register(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[ch.Name()] = ch
}

// Get returns a channel by name, or nil.
func (m *Manager) Get(name string) Channel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.channels[name]
}

// Names returns the registered channel names.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.channels))
	for name := range m.channels {
		names = append(names, name)
	}
	return names
}

// StartAll starts every channel concurrently and blocks until all have
// exited. The first transport fault cancels the remaining channels, so
// healthy siblings do not keep the process alive past an unrecoverable
// fault, and that first fault is returned to the lifecycle controller.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	channels := make([]Channel, 0, len(m.channels))
	for _, ch := range m.channels {
		channels = append(channels, ch)
	}
	m.mu.RUnlock()

	if len(channels) == 0 {
		m.log.Warn("No channels enabled")
		<-ctx.Done()
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, ch := range channels {
		wg.Add(1)
		go func(c Channel) {
			defer wg.Done()
			m.log.Info("Starting channel", "channel", c.Name())
			if err := c.Start(ctx); err != nil {
				m.log.Error("Channel failed", "channel", c.Name(), "error", err)
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(ch)
	}

	wg.Wait()
	return firstErr
}

// StopAll stops all channels. Failures are logged, never propagated, so
// one bad channel cannot block the rest of shutdown.
func (m *Manager) StopAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for name, ch := range m.channels {
		if err := ch.Stop(); err != nil {
			m.log.Error("Error stopping channel", "channel", name, "error", err)
		}
	}
}

// Status returns the running state of every channel.
func (m *Manager) Status() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status := make(map[string]bool, len(m.channels))
	for name, ch := range m.channels {
		status[name] = ch.IsRunning()
	}
	return status
}
