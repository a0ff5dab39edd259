// Package resource tracks the lifetime of loaded model data.
package resource

import (
	"sync"

	"github.com/Faultbox/modelview/internal/logger"
	"go.uber.org/zap"
)

// Handle owns the raw bytes of one loaded model until it is released.
type Handle struct {
	id       uint64
	mu       sync.Mutex
	data     []byte
	size     int
	released bool
}

// ID returns the handle's identifier, unique within its Manager.
func (h *Handle) ID() uint64 {
	return h.id
}

// Bytes returns the owned data, or nil once the handle is released.
func (h *Handle) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.data
}

// Len returns the size of the data the handle was acquired with.
func (h *Handle) Len() int {
	return h.size
}

// Released reports whether the handle has been released.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Manager hands out handles and counts those still live.
type Manager struct {
	mu     sync.Mutex
	nextID uint64
	live   map[uint64]*Handle
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{live: make(map[uint64]*Handle)}
}

// Acquire takes ownership of data and returns a handle for it.
func (m *Manager) Acquire(data []byte) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	h := &Handle{id: m.nextID, data: data, size: len(data)}
	m.live[h.id] = h

	logger.Debug("resource acquired", zap.Uint64("id", h.id), zap.Int("bytes", h.size))
	return h
}

// Release frees h. It returns true only for the call that actually released
// it; releasing nil or an already released handle is a no-op.
func (m *Manager) Release(h *Handle) bool {
	if h == nil {
		return false
	}

	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return false
	}
	h.released = true
	h.data = nil
	h.mu.Unlock()

	m.mu.Lock()
	delete(m.live, h.id)
	m.mu.Unlock()

	logger.Debug("resource released", zap.Uint64("id", h.id))
	return true
}

// Live returns the number of unreleased handles.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// LiveBytes returns the total size of unreleased handles.
func (m *Manager) LiveBytes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, h := range m.live {
		total += h.size
	}
	return total
}
