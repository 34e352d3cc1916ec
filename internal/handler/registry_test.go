package handler

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starkbot/starkbot/internal/bus"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func noopInvoke(_ context.Context, _ *bus.Interaction) error { return nil }

func TestPopulate_AcceptsValidHandlers(t *testing.T) {
	r := NewRegistry(testLogger())
	n := r.Populate(
		Descriptor{Name: "ask", Kind: KindCommand, Invoke: noopInvoke},
		Descriptor{Name: "ready", Kind: KindEvent, Once: true, Invoke: noopInvoke},
	)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, r.Len())

	_, ok := r.Command("ask")
	assert.True(t, ok)
	_, ok = r.Event("ready")
	assert.True(t, ok)
}

func TestPopulate_SkipsInvalidWithoutAborting(t *testing.T) {
	r := NewRegistry(testLogger())
	n := r.Populate(
		Descriptor{Name: "", Invoke: noopInvoke},       // no name
		Descriptor{Name: "broken"},                     // no invoke
		Descriptor{Name: "ask", Invoke: noopInvoke},    // fine
		Descriptor{Name: "status", Invoke: noopInvoke}, // fine
	)
	assert.Equal(t, 2, n)

	_, ok := r.Command("ask")
	assert.True(t, ok)
	_, ok = r.Command("broken")
	assert.False(t, ok)
}

func TestPopulate_DuplicateLastWins(t *testing.T) {
	r := NewRegistry(testLogger())

	first := Descriptor{Name: "ask", Description: "first", Invoke: noopInvoke}
	second := Descriptor{Name: "ask", Description: "second", Invoke: noopInvoke}
	r.Populate(first, second)

	d, ok := r.Command("ask")
	require.True(t, ok)
	assert.Equal(t, "second", d.Description)
}

func TestCommand_Absent(t *testing.T) {
	r := NewRegistry(testLogger())
	_, ok := r.Command("nope")
	assert.False(t, ok)
}

func TestCommandNames_Sorted(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Populate(
		Descriptor{Name: "status", Invoke: noopInvoke},
		Descriptor{Name: "ask", Invoke: noopInvoke},
		Descriptor{Name: "help", Invoke: noopInvoke},
	)
	assert.Equal(t, []string{"ask", "help", "status"}, r.CommandNames())
}

func TestLoadManifest_Missing(t *testing.T) {
	m, err := LoadManifest(filepath.Join(t.TempDir(), "handlers.yaml"))
	require.NoError(t, err)
	assert.Empty(t, m.Disabled)
	assert.Empty(t, m.Aliases)
}

func TestLoadManifest_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handlers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("disabled: {not a list"), 0644))
	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestManifest_Apply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handlers.yaml")
	content := "disabled: [ping]\naliases:\n  question: ask\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	descs := m.Apply([]Descriptor{
		{Name: "ask", Invoke: noopInvoke},
		{Name: "ping", Invoke: noopInvoke},
		{Name: "ready", Kind: KindEvent, Invoke: noopInvoke},
	})

	r := NewRegistry(testLogger())
	r.Populate(descs...)

	_, ok := r.Command("ping")
	assert.False(t, ok, "disabled handler must not register")
	_, ok = r.Command("ask")
	assert.True(t, ok)
	_, ok = r.Command("question")
	assert.True(t, ok, "alias must register")
	_, ok = r.Event("ready")
	assert.True(t, ok)
}
