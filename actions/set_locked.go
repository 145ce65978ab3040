// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/state"
)

var (
	_ Action = (*SetLocked)(nil)
	_ Result = (*SetLockedResult)(nil)
)

// SetLocked pauses or resumes deposits, withdrawals and swaps of a pool. Only
// the pool authority may send it.
type SetLocked struct {
	Config solana.PublicKey `json:"config"`
	Locked bool             `json:"locked"`
}

type SetLockedResult struct {
	Locked bool `json:"locked"`
}

func (*SetLockedResult) GetTypeID() uint8 {
	return consts.SetLockedID
}

func (*SetLocked) GetTypeID() uint8 {
	return consts.SetLockedID
}

func (s *SetLocked) StateKeys(solana.PublicKey) state.Keys {
	return state.Keys{
		string(pool.ConfigKey(s.Config)): state.Write,
	}
}

func (s *SetLocked) Execute(ctx context.Context, mu state.Mutable, actor solana.PublicKey) (Result, error) {
	cfg, err := pool.GetConfig(ctx, mu, s.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.VerifyConfig(s.Config); err != nil {
		return nil, err
	}
	if err := cfg.SetLocked(actor, s.Locked); err != nil {
		return nil, err
	}
	if err := pool.SetConfig(ctx, mu, s.Config, cfg); err != nil {
		return nil, err
	}
	return &SetLockedResult{Locked: cfg.Locked}, nil
}
