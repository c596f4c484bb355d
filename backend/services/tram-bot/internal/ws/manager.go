package ws

import (
	"context"
	"sync"
	"time"
)

// Manager tracks live board subscribers and drives their periodic refresh.
type Manager struct {
	mu              sync.RWMutex
	connections     map[string]*Connection
	refreshInterval time.Duration
}

// NewManager builds connection manager.
func NewManager(refreshInterval time.Duration) *Manager {
	if refreshInterval <= 0 {
		refreshInterval = 30 * time.Second
	}
	return &Manager{
		connections:     make(map[string]*Connection),
		refreshInterval: refreshInterval,
	}
}

// Add registers new connection.
func (m *Manager) Add(conn *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.ID()] = conn
}

// Remove removes connection.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, id)
}

// Count returns number of live subscribers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Start asks every subscriber to re-fetch on each tick and closes them all
// when ctx is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			for _, conn := range m.snapshot() {
				conn.Close()
			}
			return nil
		case <-ticker.C:
			for _, conn := range m.snapshot() {
				conn.Refresh()
			}
		}
	}
}

func (m *Manager) snapshot() []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conns := make([]*Connection, 0, len(m.connections))
	for _, conn := range m.connections {
		conns = append(conns, conn)
	}
	return conns
}
