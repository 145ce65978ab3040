// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/hyperamm/keys"
	"github.com/ava-labs/hyperamm/state"
)

// TState collects the changes of every committed [TStateView] on top of a
// read-only parent until they are written to a [state.Database].
type TState struct {
	l           sync.RWMutex
	parent      state.Immutable
	changedKeys map[string]maybe.Maybe[[]byte]
	ops         int
}

// New returns a new instance of TState reading through to [parent].
//
// [changedSize] is an estimate of the number of keys that will be changed.
func New(parent state.Immutable, changedSize int) *TState {
	return &TState{
		parent:      parent,
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

// getValue returns the latest value of [key] and whether it exists.
func (ts *TState) getValue(ctx context.Context, key string) ([]byte, bool, error) {
	ts.l.RLock()
	v, ok := ts.changedKeys[key]
	ts.l.RUnlock()
	if ok {
		if v.IsNothing() {
			return nil, false, nil
		}
		return v.Value(), true, nil
	}
	value, err := ts.parent.GetValue(ctx, []byte(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Insert writes [key] directly, bypassing any scope. It is meant for
// seeding state before any view is created.
func (ts *TState) Insert(_ context.Context, key []byte, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	ts.l.Lock()
	defer ts.l.Unlock()

	ts.changedKeys[string(key)] = maybe.Some(value)
	return nil
}

// PendingChanges returns the number of keys changed by committed views.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// OpIndex returns the number of operations committed to [ts].
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// ChangedKeys returns a copy of all changes committed to [ts].
func (ts *TState) ChangedKeys() map[string]maybe.Maybe[[]byte] {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return maps.Clone(ts.changedKeys)
}

// Write persists all committed changes to [db] in a single atomic write.
func (ts *TState) Write(ctx context.Context, db state.Database) error {
	changes := ts.ChangedKeys()
	if len(changes) == 0 {
		return nil
	}
	return db.Write(ctx, changes)
}
