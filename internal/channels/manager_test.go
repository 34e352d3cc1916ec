package channels

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestManager_RegisterAndGet(t *testing.T) {
	m := NewManager(testLogger())
	ch := newFakeChannel("telegram")
	m.Register(ch)

	assert.Equal(t, ch, m.Get("telegram"))
	assert.Nil(t, m.Get("missing"))
	assert.Equal(t, []string{"telegram"}, m.Names())
}

func TestManager_StartAllRunsUntilCancelled(t *testing.T) {
	m := NewManager(testLogger())
	a := newFakeChannel("a")
	b := newFakeChannel("b")
	m.Register(a)
	m.Register(b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.StartAll(ctx) }()

	<-a.started
	<-b.started
	assert.True(t, m.Status()["a"])
	assert.True(t, m.Status()["b"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("StartAll did not return after cancel")
	}
}

func TestManager_StartAllReturnsTransportFault(t *testing.T) {
	m := NewManager(testLogger())
	bad := newFakeChannel("bad")
	bad.runErr = errors.New("connection refused")
	m.Register(bad)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := m.StartAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestManager_FaultCancelsHealthySibling(t *testing.T) {
	m := NewManager(testLogger())
	healthy := newFakeChannel("healthy")
	bad := newFakeChannel("bad")
	bad.runErr = errors.New("connection refused")
	m.Register(healthy)
	m.Register(bad)

	done := make(chan error, 1)
	go func() { done <- m.StartAll(context.Background()) }()

	// The healthy channel only exits on ctx cancel, so StartAll returning
	// at all proves the fault cancelled it.
	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	case <-time.After(2 * time.Second):
		t.Fatal("fault not surfaced while a healthy channel was running")
	}
	assert.False(t, healthy.IsRunning())
}

func TestManager_StopAllToleratesFailures(t *testing.T) {
	m := NewManager(testLogger())
	bad := newFakeChannel("bad")
	bad.stopErr = errors.New("boom")
	good := newFakeChannel("good")
	good.setRunning(true)
	m.Register(bad)
	m.Register(good)

	m.StopAll() // must not panic, must stop the good channel too
	assert.False(t, good.IsRunning())
}
