// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/hyperamm/keys"
	"github.com/ava-labs/hyperamm/state"
)

const defaultOps = 8

var _ state.Mutable = (*TStateView)(nil)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

// TStateView is the working set of a single operation. Reads and writes are
// restricted to the keys in its scope and nothing reaches the parent
// [TState] until [TStateView.Commit].
type TStateView struct {
	ts                 *TState
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on [TStateView]. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op

	scope state.Keys
}

func (ts *TState) NewView(scope state.Keys) *TStateView {
	return &TStateView{
		ts:                 ts,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte], len(scope)),
		ops:                make([]*op, 0, defaultOps),
		scope:              scope,
	}
}

// Rollback restores the view to the ts.ops[restorePoint] operation.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]
		switch {
		case !op.pastChanged:
			delete(ts.pendingChangedKeys, op.k)
		case !op.pastExists:
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
		default:
			ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
		}
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

func (ts *TStateView) checkScope(k string, require state.Permissions) error {
	perm, ok := ts.scope[k]
	if !ok {
		return fmt.Errorf("%w: %x", ErrKeyNotSpecified, k)
	}
	if !perm.Has(require) {
		return fmt.Errorf("%w: %x", ErrPermissionDenied, k)
	}
	return nil
}

// getValue returns the value of [key], whether it was changed in this view
// and whether it exists.
func (ts *TStateView) getValue(ctx context.Context, key string) ([]byte, bool, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false, nil
		}
		return v.Value(), true, true, nil
	}
	v, exists, err := ts.ts.getValue(ctx, key)
	return v, false, exists, err
}

// GetValue returns the value associated with [key]. If [key] is not in
// scope or does not exist an error is returned.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	k := string(key)
	if err := ts.checkScope(k, state.Read); err != nil {
		return nil, err
	}
	v, _, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

// Insert sets or updates [key]. Creating a key needs [state.Allocate] and
// updating one needs [state.Write].
//
// Any bytes passed into [Insert] will be consumed by [TStateView] and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	k := string(key)
	if _, ok := ts.scope[k]; !ok {
		return fmt.Errorf("%w: %x", ErrKeyNotSpecified, k)
	}
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	required := state.Write
	if !exists {
		required = state.Allocate
	}
	if err := ts.checkScope(k, required); err != nil {
		return err
	}
	ts.pendingChangedKeys[k] = maybe.Some(value)
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	if err := ts.checkScope(k, state.Write); err != nil {
		return err
	}
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit moves all pending changes into the parent [TState].
func (ts *TStateView) Commit() {
	ts.ts.l.Lock()
	defer ts.ts.l.Unlock()

	for k, v := range ts.pendingChangedKeys {
		ts.ts.changedKeys[k] = v
	}
	ts.ts.ops += len(ts.ops)
}
