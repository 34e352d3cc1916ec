package queue

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// WorkerConfig describes the external worker subprocess that drains the
// queue. An empty command means the worker runs elsewhere and is not
// managed by this process.
type WorkerConfig struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
	Env     []string `json:"env,omitempty"` // KEY=VALUE pairs appended to the inherited env
}

// Worker supervises the external queue worker subprocess.
type Worker struct {
	cmd      *exec.Cmd
	log      *log.Logger
	stopOnce sync.Once
	done     chan struct{}
}

// StartWorker launches the configured worker subprocess with its output
// piped into the log. Returns (nil, nil) when no command is configured.
func StartWorker(cfg WorkerConfig, logger *log.Logger) (*Worker, error) {
	if cfg.Command == "" {
		return nil, nil
	}

	w := &Worker{
		log:  logger.WithPrefix("worker"),
		done: make(chan struct{}),
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Env = append(os.Environ(), cfg.Env...)
	out := w.log.StandardLog().Writer()
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker %q: %w", cfg.Command, err)
	}
	w.cmd = cmd
	w.log.Info("Worker started", "command", cfg.Command, "pid", cmd.Process.Pid)

	go func() {
		defer close(w.done)
		if err := cmd.Wait(); err != nil {
			w.log.Warn("Worker exited", "error", err)
			return
		}
		w.log.Info("Worker exited cleanly")
	}()

	return w, nil
}

// Stop terminates the worker: SIGTERM first, SIGKILL if it lingers.
// Safe to call more than once and on an already-exited worker.
func (w *Worker) Stop() {
	if w == nil || w.cmd == nil || w.cmd.Process == nil {
		return
	}
	w.stopOnce.Do(func() {
		if err := w.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			w.log.Debug("SIGTERM failed", "error", err)
		}
		select {
		case <-w.done:
		case <-time.After(5 * time.Second):
			w.log.Warn("Worker did not exit in time, killing")
			_ = w.cmd.Process.Kill()
			<-w.done
		}
	})
}
