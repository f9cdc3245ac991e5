// Package jobmgr runs named background tasks with cancellation and
// in-memory tracking. The agent uses it for its long-lived loops (state
// monitor, API server) so shutdown and failure handling live in one place.
//
//	jm := jobmgr.NewManager()
//	jm.Start(ctx, "monitor", func(ctx context.Context) error {
//	    // run until ctx is cancelled
//	    return nil
//	})
//	// later...
//	jm.StopAll()
//
// Intentionally minimal: no retries, no queueing, no persistence. Each task
// runs in its own goroutine and is removed when it returns.
package jobmgr

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

type job struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager starts, stops and tracks background tasks. Safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*job

	// failures receives the first error of each failed task. Buffered so a
	// failing task never blocks on an absent reader.
	failures chan error
}

func NewManager() *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		failures: make(chan error, 8),
	}
}

// Start launches runner in its own goroutine under a child of ctx. A task
// with the same name must not already be running. The task is removed when
// runner returns; a non-nil error is logged and sent to Failures.
func (m *Manager) Start(ctx context.Context, name string, runner func(ctx context.Context) error) error {
	jobCtx, cancel := context.WithCancel(ctx)
	j := &job{name: name, cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("task %q is already running", name)
	}
	m.jobs[name] = j
	m.mu.Unlock()

	go func() {
		defer close(j.done)
		log.Debug().Str("task", name).Msg("background task started")

		err := runner(jobCtx)

		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()

		if err != nil {
			log.Error().Str("task", name).Err(err).Msg("background task failed")
			select {
			case m.failures <- fmt.Errorf("task %q: %w", name, err):
			default:
			}
			return
		}
		log.Debug().Str("task", name).Msg("background task finished")
	}()

	return nil
}

// Stop cancels a running task by name and waits for it to return.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("task %q not running", name)
	}
	j.cancel()
	<-j.done
	return nil
}

// StopAll cancels every running task and waits for all of them to return.
func (m *Manager) StopAll() {
	m.mu.Lock()
	running := make([]*job, 0, len(m.jobs))
	for _, j := range m.jobs {
		running = append(running, j)
	}
	m.mu.Unlock()

	for _, j := range running {
		j.cancel()
	}
	for _, j := range running {
		<-j.done
	}
}

// List returns the names of the running tasks.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	return out
}

// Failures delivers the first error of each failed task. The channel is
// never closed; select on it alongside shutdown signals.
func (m *Manager) Failures() <-chan error {
	return m.failures
}
