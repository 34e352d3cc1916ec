// Package app owns the process lifecycle: startup ordering, the ready
// announcement, and idempotent shutdown.
package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/starkbot/starkbot/internal/channels"
	"github.com/starkbot/starkbot/internal/commands"
	"github.com/starkbot/starkbot/internal/config"
	"github.com/starkbot/starkbot/internal/dispatch"
	"github.com/starkbot/starkbot/internal/handler"
	"github.com/starkbot/starkbot/internal/latency"
	"github.com/starkbot/starkbot/internal/queue"
)

// ErrConfigurationMissing marks fatal startup misconfiguration. The
// process exits non-zero before any connection attempt.
var ErrConfigurationMissing = errors.New("configuration missing")

// State is the lifecycle phase.
type State int32

const (
	StateStarting State = iota
	StateReady
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting-down"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// App wires the registry, dispatcher, job bridge, and channels together
// and drives them through the lifecycle state machine.
type App struct {
	cfg        config.Config
	log        *log.Logger
	registry   *handler.Registry
	dispatcher *dispatch.Dispatcher
	bridge     *queue.Bridge
	worker     *queue.Worker
	manager    *channels.Manager
	lat        *latency.Window
	descs      []handler.Descriptor
	startedAt  time.Time

	state        atomic.Int32
	exitCode     atomic.Int32
	shutdownOnce sync.Once
	cancel       context.CancelFunc
}

// New validates the configuration and assembles the application.
// Nothing connects yet; that happens in Run.
func New(cfg config.Config, logger *log.Logger) (*App, error) {
	if tg := cfg.Channel.Telegram; tg != nil && tg.Token == "" {
		return nil, errors.Join(ErrConfigurationMissing,
			errors.New("telegram channel enabled without a bot token"))
	}

	a := &App{
		cfg:       cfg,
		log:       logger,
		lat:       latency.NewWindow(latency.DefaultWindow),
		startedAt: time.Now(),
	}

	a.bridge = queue.New(cfg.Queue, logger)
	a.registry = handler.NewRegistry(logger)
	a.dispatcher = dispatch.New(a.registry, logger)
	a.manager = channels.NewManager(logger)

	deps := commands.Deps{
		Queue:     a.bridge,
		Chat:      cfg.Chat,
		Registry:  a.registry,
		Latency:   a.lat,
		StartedAt: a.startedAt,
		Log:       logger,
	}

	manifest, err := handler.LoadManifest(cfg.HandlersFile)
	if err != nil {
		return nil, err
	}
	a.descs = manifest.Apply(commands.All(deps))

	if tg := cfg.Channel.Telegram; tg != nil {
		a.manager.Register(channels.NewTelegramChannel(*tg, a.dispatcher, a.lat, logger, a.onReady))
	}
	if ws := cfg.Channel.WebSocket; ws != nil {
		a.manager.Register(channels.NewWebSocketChannel(*ws, a.dispatcher, a.lat, logger, a.onReady))
	}

	return a, nil
}

// RegisterChannel adds an extra transport before Run.
func (a *App) RegisterChannel(ch channels.Channel) {
	a.manager.Register(ch)
}

// State returns the current lifecycle phase.
func (a *App) State() State {
	return State(a.state.Load())
}

// Run drives the lifecycle to completion and returns the process exit
// code: 0 for a graceful signal, 1 for an unrecoverable fault. Startup
// order matters: handlers must exist before any dispatch, and the
// worker must be able to receive jobs before any interaction arrives.
func (a *App) Run(ctx context.Context) int {
	ctx, a.cancel = context.WithCancel(ctx)
	defer a.cancel()

	a.state.Store(int32(StateStarting))

	count := a.registry.Populate(a.descs...)
	a.log.Info("Handlers registered", "count", count)

	worker, err := queue.StartWorker(a.cfg.Worker, a.log)
	if err != nil {
		// The queue may be drained by workers managed elsewhere.
		a.log.Error("Failed to start worker subprocess", "error", err)
	}
	a.worker = worker

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			// Repeated signals hit the shutdown latch and become no-ops.
			a.log.Info("Termination signal received")
			a.Shutdown(0)
		}
	}()

	if err := a.manager.StartAll(ctx); err != nil {
		a.log.Error("Unrecoverable transport fault", "error", err)
		a.Shutdown(1)
	} else {
		a.Shutdown(0)
	}

	a.state.Store(int32(StateStopped))
	a.log.Info("Stopped", "exit_code", a.exitCode.Load())
	return int(a.exitCode.Load())
}

// Shutdown runs the shutdown sequence at most once; concurrent and
// repeated calls are no-ops. Each step is best-effort so one failure
// never blocks the next.
func (a *App) Shutdown(code int) {
	a.shutdownOnce.Do(func() {
		a.state.Store(int32(StateShuttingDown))
		a.exitCode.Store(int32(code))
		a.log.Info("Shutting down", "state", a.State())

		a.worker.Stop()
		a.manager.StopAll()
		if err := a.bridge.Close(); err != nil {
			a.log.Error("Error closing queue", "error", err)
		}
		if a.cancel != nil {
			a.cancel()
		}
	})
}

// onReady fires when a transport connects. The ready event itself is a
// Once handler, so presence is announced exactly once even if the
// underlying signal fires per channel.
func (a *App) onReady() {
	a.state.CompareAndSwap(int32(StateStarting), int32(StateReady))
	a.dispatcher.Emit(context.Background(), "ready")
}
