// Package latency tracks chat transport round-trip times over a sliding
// window, feeding the status surface.
package latency

import (
	"sync"
	"time"
)

// DefaultWindow is the span of samples the average covers.
const DefaultWindow = 60 * time.Second

// Window is a sliding-window latency tracker. Samples older than the
// window are dropped on read.
type Window struct {
	mu      sync.Mutex
	span    time.Duration
	samples []sample
}

type sample struct {
	at time.Time
	d  time.Duration
}

// NewWindow creates a tracker covering the given span; span <= 0 uses
// DefaultWindow.
func NewWindow(span time.Duration) *Window {
	if span <= 0 {
		span = DefaultWindow
	}
	return &Window{span: span, samples: make([]sample, 0, 128)}
}

// Record adds one round-trip sample.
func (w *Window) Record(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.samples = append(w.samples, sample{at: time.Now(), d: d})
}

// Avg returns the average round-trip in milliseconds and the sample
// count within the window.
func (w *Window) Avg() (avgMs int64, count int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := time.Now().Add(-w.span)
	start := 0
	for start < len(w.samples) && w.samples[start].at.Before(cutoff) {
		start++
	}
	if start > 0 {
		w.samples = w.samples[start:]
	}
	if len(w.samples) == 0 {
		return 0, 0
	}

	var total int64
	for _, s := range w.samples {
		total += s.d.Milliseconds()
	}
	n := int64(len(w.samples))
	return total / n, n
}

// Observe runs fn and records its wall-clock duration, returning fn's
// error unchanged. Handy for wrapping transport sends.
func (w *Window) Observe(fn func() error) error {
	start := time.Now()
	err := fn()
	w.Record(time.Since(start))
	return err
}
