// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/hyperamm/state"
)

// Action is a single pool program instruction.
type Action interface {
	GetTypeID() uint8

	// StateKeys returns every key [Execute] may touch when invoked by
	// [actor] and the permissions it needs on each.
	StateKeys(actor solana.PublicKey) state.Keys

	// Execute applies the instruction. On error [mu] may hold partial
	// writes and must be discarded by the caller.
	Execute(ctx context.Context, mu state.Mutable, actor solana.PublicKey) (Result, error)
}

type Result interface {
	GetTypeID() uint8
}
