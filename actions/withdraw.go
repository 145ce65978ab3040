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
	_ Action = (*Withdraw)(nil)
	_ Result = (*WithdrawResult)(nil)
)

// Withdraw burns [Amount] LP tokens for at least [MinX] and [MinY].
type Withdraw struct {
	Amount   uint64            `json:"amount"`
	MinX     uint64            `json:"minX"`
	MinY     uint64            `json:"minY"`
	Accounts LiquidityAccounts `json:"accounts"`
}

type WithdrawResult struct {
	LPBurned uint64 `json:"lpBurned"`
	AmountX  uint64 `json:"amountX"`
	AmountY  uint64 `json:"amountY"`
}

func (*WithdrawResult) GetTypeID() uint8 {
	return consts.WithdrawID
}

func (*Withdraw) GetTypeID() uint8 {
	return consts.WithdrawID
}

func (w *Withdraw) StateKeys(solana.PublicKey) state.Keys {
	return w.Accounts.stateKeys()
}

func (w *Withdraw) Execute(ctx context.Context, mu state.Mutable, actor solana.PublicKey) (Result, error) {
	a := &w.Accounts
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
	if w.Amount == 0 {
		return nil, errorsmod.Wrap(types.ErrZeroAmount, "lp amount")
	}
	balanceLP, err := userBalance(ctx, mu, a.UserLP, a.MintLP, actor)
	if err != nil {
		return nil, err
	}
	if err := requireBalance("user lp", balanceLP, w.Amount); err != nil {
		return nil, err
	}
	reserves, err := pool.GetReserves(ctx, mu, a.Config, cfg)
	if err != nil {
		return nil, err
	}

	model := pricing.NewConstantProduct(reserves.X, reserves.Y, reserves.LPSupply, cfg.Fee)
	q, err := model.Withdraw(w.Amount, w.MinX, w.MinY)
	if err != nil {
		return nil, err
	}

	if err := token.Burn(ctx, mu, a.MintLP, a.UserLP, actor, w.Amount); err != nil {
		return nil, err
	}
	if _, err := token.EnsureAssociatedAccount(ctx, mu, a.UserX, a.MintX, actor); err != nil {
		return nil, err
	}
	if _, err := token.EnsureAssociatedAccount(ctx, mu, a.UserY, a.MintY, actor); err != nil {
		return nil, err
	}
	if err := token.Transfer(ctx, mu, a.VaultX, a.UserX, a.Config, q.AmountX); err != nil {
		return nil, err
	}
	if err := token.Transfer(ctx, mu, a.VaultY, a.UserY, a.Config, q.AmountY); err != nil {
		return nil, err
	}
	return &WithdrawResult{
		LPBurned: w.Amount,
		AmountX:  q.AmountX,
		AmountY:  q.AmountY,
	}, nil
}
