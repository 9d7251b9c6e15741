// Package connectivity tracks the online/offline state every degradation-aware
// component consults. The monitor trusts the signal it is given; it never polls
// and never probes the network itself.
package connectivity

import (
	"sync"

	"go.uber.org/zap"
)

// Monitor holds the current connectivity state and fans out change
// notifications. Transitions only happen through Set; a repeated signal with
// the same value is ignored.
type Monitor struct {
	mu     sync.Mutex
	online bool
	subs   map[int]func(online bool)
	nextID int
}

// NewMonitor creates a monitor with the given initial state
func NewMonitor(online bool) *Monitor {
	return &Monitor{
		online: online,
		subs:   map[int]func(bool){},
	}
}

// Online returns the current state
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Set records a connectivity transition and notifies subscribers. No-op when
// the state is unchanged.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	zap.S().Infow("connectivity changed", "online", online)
	for _, fn := range subs {
		fn(online)
	}
}

// Subscribe registers a callback for connectivity transitions and returns an
// id to unsubscribe with. Callbacks run on the goroutine that called Set.
func (m *Monitor) Subscribe(fn func(online bool)) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return id
}

// Unsubscribe removes a previously registered callback. Components must
// unsubscribe on shutdown to avoid post-shutdown callbacks.
func (m *Monitor) Unsubscribe(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
}
