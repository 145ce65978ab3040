// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var (
	_ Database = (*MemoryDatabase)(nil)
	_ Mutable  = (*MemoryDatabase)(nil)

	ErrClosed = errors.New("database closed")
)

// MemoryDatabase is an in-memory [Database]. It also implements [Mutable]
// so tests can seed and inspect it directly.
type MemoryDatabase struct {
	l       sync.RWMutex
	storage map[string][]byte
	closed  bool
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{storage: make(map[string][]byte)}
}

func (m *MemoryDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	m.l.RLock()
	defer m.l.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *MemoryDatabase) Insert(_ context.Context, key []byte, value []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.storage[string(key)] = slices.Clone(value)
	return nil
}

func (m *MemoryDatabase) Remove(_ context.Context, key []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.storage, string(key))
	return nil
}

func (m *MemoryDatabase) Write(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	for k, v := range changes {
		if v.IsNothing() {
			delete(m.storage, k)
			continue
		}
		m.storage[k] = slices.Clone(v.Value())
	}
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryDatabase) Len() int {
	m.l.RLock()
	defer m.l.RUnlock()

	return len(m.storage)
}

func (m *MemoryDatabase) Close() error {
	m.l.Lock()
	defer m.l.Unlock()

	m.closed = true
	return nil
}
