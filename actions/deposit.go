// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/token"
)

var (
	_ Action = (*Deposit)(nil)
	_ Result = (*DepositResult)(nil)
)

// Deposit adds liquidity in exchange for [Amount] LP tokens, spending at
// most [MaxX] and [MaxY].
type Deposit struct {
	Amount   uint64            `json:"amount"`
	MaxX     uint64            `json:"maxX"`
	MaxY     uint64            `json:"maxY"`
	Accounts LiquidityAccounts `json:"accounts"`
}

type DepositResult struct {
	LPMinted uint64 `json:"lpMinted"`
	AmountX  uint64 `json:"amountX"`
	AmountY  uint64 `json:"amountY"`
}

func (*DepositResult) GetTypeID() uint8 {
	return consts.DepositID
}

func (*Deposit) GetTypeID() uint8 {
	return consts.DepositID
}

func (d *Deposit) StateKeys(solana.PublicKey) state.Keys {
	return d.Accounts.stateKeys()
}

func (d *Deposit) Execute(ctx context.Context, mu state.Mutable, actor solana.PublicKey) (Result, error) {
	a := &d.Accounts
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
	reserves, err := pool.GetReserves(ctx, mu, a.Config, cfg)
	if err != nil {
		return nil, err
	}
	balanceX, err := userBalance(ctx, mu, a.UserX, a.MintX, actor)
	if err != nil {
		return nil, err
	}
	balanceY, err := userBalance(ctx, mu, a.UserY, a.MintY, actor)
	if err != nil {
		return nil, err
	}

	model := pricing.NewConstantProduct(reserves.X, reserves.Y, reserves.LPSupply, cfg.Fee)
	q, err := model.Deposit(d.Amount, d.MaxX, d.MaxY)
	if err != nil {
		return nil, err
	}
	if err := requireBalance("user x", balanceX, q.AmountX); err != nil {
		return nil, err
	}
	if err := requireBalance("user y", balanceY, q.AmountY); err != nil {
		return nil, err
	}

	if err := token.Transfer(ctx, mu, a.UserX, a.VaultX, actor, q.AmountX); err != nil {
		return nil, err
	}
	if err := token.Transfer(ctx, mu, a.UserY, a.VaultY, actor, q.AmountY); err != nil {
		return nil, err
	}
	if _, err := token.EnsureAssociatedAccount(ctx, mu, a.UserLP, a.MintLP, actor); err != nil {
		return nil, err
	}
	if err := token.MintTo(ctx, mu, a.MintLP, a.UserLP, a.Config, q.LPMinted); err != nil {
		return nil, err
	}
	return &DepositResult{
		LPMinted: q.LPMinted,
		AmountX:  q.AmountX,
		AmountY:  q.AmountY,
	}, nil
}
