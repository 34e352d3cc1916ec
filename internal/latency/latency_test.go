package latency

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindow_Empty(t *testing.T) {
	w := NewWindow(time.Minute)
	avg, count := w.Avg()
	assert.Zero(t, avg)
	assert.Zero(t, count)
}

func TestWindow_Average(t *testing.T) {
	w := NewWindow(time.Minute)
	w.Record(100 * time.Millisecond)
	w.Record(300 * time.Millisecond)

	avg, count := w.Avg()
	assert.Equal(t, int64(200), avg)
	assert.Equal(t, int64(2), count)
}

func TestWindow_ExpiresOldSamples(t *testing.T) {
	w := NewWindow(50 * time.Millisecond)
	w.Record(400 * time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	w.Record(100 * time.Millisecond)

	avg, count := w.Avg()
	assert.Equal(t, int64(100), avg)
	assert.Equal(t, int64(1), count)
}

func TestObserve_PassesThroughError(t *testing.T) {
	w := NewWindow(time.Minute)
	boom := errors.New("boom")
	err := w.Observe(func() error { return boom })
	assert.ErrorIs(t, err, boom)

	_, count := w.Avg()
	assert.Equal(t, int64(1), count)
}
