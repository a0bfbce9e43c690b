package state

import (
	"context"
	"encoding/json"
	"sync"
)

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store used by tests and local development.
// Records are stored as JSON blobs so serialization behaves exactly like
// the Redis store. Safe for concurrent access.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	devices  map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]byte),
		devices:  make(map[string][]byte),
	}
}

// LoadSession retrieves a session record.
func (m *MemoryStore) LoadSession(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SaveSession persists a session record.
func (m *MemoryStore) SaveSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = data
	return nil
}

// ClearSession removes a session record.
func (m *MemoryStore) ClearSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// LoadDevice retrieves a durable device record.
func (m *MemoryStore) LoadDevice(ctx context.Context, deviceID string) (*Durable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.devices[deviceID]
	if !ok {
		return nil, ErrNotFound
	}
	var durable Durable
	if err := json.Unmarshal(data, &durable); err != nil {
		return nil, err
	}
	return &durable, nil
}

// SaveDevice persists a durable device record.
func (m *MemoryStore) SaveDevice(ctx context.Context, deviceID string, durable *Durable) error {
	data, err := json.Marshal(durable)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[deviceID] = data
	return nil
}
