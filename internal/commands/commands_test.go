package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starkbot/starkbot/internal/bus"
)

func TestAll_RegistersCleanly(t *testing.T) {
	d := testDeps(&stubQueue{available: true})
	n := d.Registry.Populate(All(d)...)
	assert.Equal(t, 5, n)

	for _, name := range []string{"ask", "status", "help", "ping"} {
		_, ok := d.Registry.Command(name)
		assert.True(t, ok, "command %s", name)
	}
	_, ok := d.Registry.Event("ready")
	assert.True(t, ok)
}

func TestStatus_LabeledFields(t *testing.T) {
	d := testDeps(&stubQueue{available: true})
	status := newStatus(d)

	rec := &recorder{}
	i := bus.NewInteraction(bus.PlatformWebSocket, "status", "", rec)
	require.NoError(t, status.Invoke(context.Background(), i))

	require.Len(t, rec.replies, 1)
	out := rec.replies[0]
	assert.Contains(t, out, "Online: yes")
	assert.Contains(t, out, "Uptime:")
	assert.Contains(t, out, "Transport RTT:")
	assert.Contains(t, out, "Jobs waiting: 1")
	assert.Contains(t, out, "Jobs active: 2")
	assert.Contains(t, out, "Jobs completed: 3")
	assert.Contains(t, out, "Jobs failed: 4")
}

func TestStatus_QueueOffline(t *testing.T) {
	d := testDeps(&stubQueue{available: false})
	status := newStatus(d)

	rec := &recorder{}
	i := bus.NewInteraction(bus.PlatformWebSocket, "status", "", rec)
	require.NoError(t, status.Invoke(context.Background(), i))

	require.Len(t, rec.replies, 1)
	assert.Contains(t, rec.replies[0], "Online: no")
}

func TestHelp_ListsCommands(t *testing.T) {
	d := testDeps(&stubQueue{available: true})
	d.Registry.Populate(All(d)...)

	help := newHelp(d)
	rec := &recorder{}
	i := bus.NewInteraction(bus.PlatformTelegram, "help", "", rec)
	require.NoError(t, help.Invoke(context.Background(), i))

	require.Len(t, rec.replies, 1)
	for _, name := range []string{"/ask", "/help", "/ping", "/status"} {
		assert.Contains(t, rec.replies[0], name)
	}
	assert.False(t, strings.Contains(rec.replies[0], "/ready"),
		"events must not appear in the command list")
}

func TestPing(t *testing.T) {
	ping := newPing(testDeps(&stubQueue{}))
	rec := &recorder{}
	i := bus.NewInteraction(bus.PlatformTelegram, "ping", "", rec)
	require.NoError(t, ping.Invoke(context.Background(), i))
	assert.Equal(t, []string{"🏓 Pong!"}, rec.replies)
}

func TestReadyEvent_NoInteractionNeeded(t *testing.T) {
	ready := newReadyEvent(testDeps(&stubQueue{available: true}))
	assert.NoError(t, ready.Invoke(context.Background(), nil))
}
