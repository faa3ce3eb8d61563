package store

import (
	"context"
	"sync"

	"github.com/realmbank/realmbank/internal/ledger"
)

// Memory is a concurrency-safe in-memory store useful for unit tests.
type Memory struct {
	mu sync.Mutex
	st ledger.State
}

// NewMemory builds an in-memory store holding an empty document.
func NewMemory() *Memory {
	return &Memory{st: ledger.NewState()}
}

func (m *Memory) Load(_ context.Context) (ledger.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Clone(), nil
}

func (m *Memory) Save(_ context.Context, st ledger.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = st.Clone()
	return nil
}

func (m *Memory) Update(ctx context.Context, fn UpdateFunc) (ledger.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.st.Clone()
	if err := fn(&st); err != nil {
		return ledger.State{}, err
	}
	if err := ctx.Err(); err != nil {
		return ledger.State{}, err
	}
	m.st = st
	return st.Clone(), nil
}
