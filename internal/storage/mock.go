package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// MockStorage is an in-memory Storage for tests
type MockStorage struct {
	mu        sync.RWMutex
	matches   map[uuid.UUID]*match.State
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{matches: make(map[uuid.UUID]*match.State)}
}

// SetPingError makes Ping fail with err; nil restores success
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes SaveMatch fail with err; nil restores success
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

// SaveMatch stores a copy so later changes by the caller are not seen
func (m *MockStorage) SaveMatch(ctx context.Context, state *match.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	if state == nil || state.ID == uuid.Nil {
		return fmt.Errorf("cannot save match without an id")
	}
	m.matches[state.ID] = state.Clone()
	return nil
}

func (m *MockStorage) LoadMatch(ctx context.Context, id uuid.UUID) (*match.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.matches[id]
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (m *MockStorage) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, id)
	return nil
}

// Count returns the number of stored matches
func (m *MockStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}
