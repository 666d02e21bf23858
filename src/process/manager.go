// Package process supervises the resident's background services
// (hotkey listener, single-instance server, tray) with a uniform
// lifecycle.
package process

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Service is one long-running background component. Start returns once
// the service is accepting work; Stop releases it.
type Service interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

// State represents the current state of a service.
type State int

const (
	StateStopped State = iota
	StateRunning
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type entry struct {
	svc   Service
	state State
}

// Manager starts services in registration order and stops them in
// reverse, so later services can depend on earlier ones.
type Manager struct {
	mu      sync.Mutex
	entries []*entry
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{ctx: ctx, cancel: cancel}
}

// Register adds a service. Names must be unique.
func (m *Manager) Register(svc Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.svc.Name() == svc.Name() {
			return fmt.Errorf("service %s already registered", svc.Name())
		}
	}
	m.entries = append(m.entries, &entry{svc: svc})
	log.Printf("Service %s registered", svc.Name())
	return nil
}

// StartAll starts every registered service. If one fails, the services
// already running are stopped in reverse order and the error returned.
func (m *Manager) StartAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		log.Printf("Starting service %s", e.svc.Name())
		if err := e.svc.Start(m.ctx); err != nil {
			e.state = StateFailed
			m.stopLocked(i - 1)
			return fmt.Errorf("failed to start service %s: %w", e.svc.Name(), err)
		}
		e.state = StateRunning
	}
	return nil
}

// StopAll stops all running services in reverse registration order and
// cancels the shared context.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked(len(m.entries) - 1)
	m.cancel()
}

func (m *Manager) stopLocked(from int) {
	for i := from; i >= 0; i-- {
		e := m.entries[i]
		if e.state != StateRunning {
			continue
		}
		stopService(e)
	}
}

// stopService recovers from a panicking Stop so one broken teardown
// cannot skip the remaining services.
func stopService(e *entry) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Service %s panicked during stop: %v", e.svc.Name(), r)
			e.state = StateFailed
		}
	}()

	log.Printf("Stopping service %s", e.svc.Name())
	if err := e.svc.Stop(); err != nil {
		log.Printf("Error stopping service %s: %v", e.svc.Name(), err)
	}
	e.state = StateStopped
}

// Status reports the state of every registered service.
func (m *Manager) Status() map[string]State {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := make(map[string]State, len(m.entries))
	for _, e := range m.entries {
		status[e.svc.Name()] = e.state
	}
	return status
}
