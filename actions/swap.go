// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/gagliardetto/solana-go"

	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/token"
	"github.com/ava-labs/hyperamm/types"
)

var (
	_ Action = (*Swap)(nil)
	_ Result = (*SwapResult)(nil)
)

// Swap sells [AmountIn] of X for Y when [IsX] is set, and of Y for X
// otherwise.
type Swap struct {
	IsX          bool         `json:"isX"`
	AmountIn     uint64       `json:"amountIn"`
	MinAmountOut uint64       `json:"minAmountOut"`
	Accounts     SwapAccounts `json:"accounts"`
}

type SwapResult struct {
	AmountIn         uint64 `json:"amountIn"`
	AmountInAfterFee uint64 `json:"amountInAfterFee"`
	AmountOut        uint64 `json:"amountOut"`
}

func (*SwapResult) GetTypeID() uint8 {
	return consts.SwapID
}

func (*Swap) GetTypeID() uint8 {
	return consts.SwapID
}

func (s *Swap) StateKeys(solana.PublicKey) state.Keys {
	return s.Accounts.stateKeys()
}

func (s *Swap) Execute(ctx context.Context, mu state.Mutable, actor solana.PublicKey) (Result, error) {
	a := &s.Accounts
	cfg, err := loadPool(ctx, mu, a.Config, a.MintX, a.MintY, a.VaultX, a.VaultY)
	if err != nil {
		return nil, err
	}
	if err := pool.AssertUnlocked(cfg); err != nil {
		return nil, err
	}
	if err := cfg.VerifyLPMint(a.Config, a.MintLP); err != nil {
		return nil, err
	}
	if s.AmountIn == 0 {
		return nil, errorsmod.Wrap(types.ErrZeroAmount, "amount in")
	}

	userIn, mintIn, vaultIn := a.UserX, a.MintX, a.VaultX
	userOut, mintOut, vaultOut := a.UserY, a.MintY, a.VaultY
	if !s.IsX {
		userIn, mintIn, vaultIn = a.UserY, a.MintY, a.VaultY
		userOut, mintOut, vaultOut = a.UserX, a.MintX, a.VaultX
	}
	balance, err := userBalance(ctx, mu, userIn, mintIn, actor)
	if err != nil {
		return nil, err
	}
	if err := requireBalance("user source", balance, s.AmountIn); err != nil {
		return nil, err
	}
	reserves, err := pool.GetReserves(ctx, mu, a.Config, cfg)
	if err != nil {
		return nil, err
	}

	model := pricing.NewConstantProduct(reserves.X, reserves.Y, reserves.LPSupply, cfg.Fee)
	q, err := model.Swap(s.IsX, s.AmountIn, s.MinAmountOut)
	if err != nil {
		return nil, err
	}

	if _, err := token.EnsureAssociatedAccount(ctx, mu, userOut, mintOut, actor); err != nil {
		return nil, err
	}
	if err := token.Transfer(ctx, mu, userIn, vaultIn, actor, q.AmountIn); err != nil {
		return nil, err
	}
	if err := token.Transfer(ctx, mu, vaultOut, userOut, a.Config, q.AmountOut); err != nil {
		return nil, err
	}
	return &SwapResult{
		AmountIn:         q.AmountIn,
		AmountInAfterFee: q.AmountInAfterFee,
		AmountOut:        q.AmountOut,
	}, nil
}
