// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/token"
)

// NewLiquidityAccounts derives the accounts [user] deposits into and
// withdraws from the pool created with [seed].
func NewLiquidityAccounts(seed uint64, mintX solana.PublicKey, mintY solana.PublicKey, user solana.PublicKey) (*LiquidityAccounts, error) {
	p, err := pool.DeriveAccounts(seed, mintX, mintY)
	if err != nil {
		return nil, err
	}
	userX, err := token.AssociatedAddress(user, mintX)
	if err != nil {
		return nil, err
	}
	userY, err := token.AssociatedAddress(user, mintY)
	if err != nil {
		return nil, err
	}
	userLP, err := token.AssociatedAddress(user, p.MintLP)
	if err != nil {
		return nil, err
	}
	return &LiquidityAccounts{
		Config: p.Config,
		MintX:  mintX,
		MintY:  mintY,
		MintLP: p.MintLP,
		VaultX: p.VaultX,
		VaultY: p.VaultY,
		UserX:  userX,
		UserY:  userY,
		UserLP: userLP,
	}, nil
}

// SwapAccounts drops the LP accounts.
func (a *LiquidityAccounts) SwapAccounts() SwapAccounts {
	return SwapAccounts{
		Config: a.Config,
		MintX:  a.MintX,
		MintY:  a.MintY,
		MintLP: a.MintLP,
		VaultX: a.VaultX,
		VaultY: a.VaultY,
		UserX:  a.UserX,
		UserY:  a.UserY,
	}
}
