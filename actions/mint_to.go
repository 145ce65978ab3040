// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/gagliardetto/solana-go"

	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/token"
	"github.com/ava-labs/hyperamm/types"
)

var (
	_ Action = (*MintTo)(nil)
	_ Result = (*MintToResult)(nil)
)

// MintTo issues [Amount] of [Mint] into the associated token account of
// [Owner], creating it if needed. The actor must be the mint authority and
// [Owner] must be a wallet, not a program derived address such as a pool
// config.
type MintTo struct {
	Mint        solana.PublicKey `json:"mint"`
	Owner       solana.PublicKey `json:"owner"`
	Destination solana.PublicKey `json:"destination"`
	Amount      uint64           `json:"amount"`
}

type MintToResult struct {
	Balance uint64 `json:"balance"`
}

func (*MintToResult) GetTypeID() uint8 {
	return consts.MintToID
}

func (*MintTo) GetTypeID() uint8 {
	return consts.MintToID
}

func (m *MintTo) StateKeys(solana.PublicKey) state.Keys {
	return state.Keys{
		string(token.MintKey(m.Mint)):           state.Write,
		string(token.AccountKey(m.Destination)): state.All,
	}
}

func (m *MintTo) Execute(ctx context.Context, mu state.Mutable, actor solana.PublicKey) (Result, error) {
	if !solana.IsOnCurve(m.Owner[:]) {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "owner %s is a program derived address", m.Owner)
	}
	if _, err := token.EnsureAssociatedAccount(ctx, mu, m.Destination, m.Mint, m.Owner); err != nil {
		return nil, err
	}
	if err := token.MintTo(ctx, mu, m.Mint, m.Destination, actor, m.Amount); err != nil {
		return nil, err
	}
	balance, err := token.Balance(ctx, mu, m.Destination)
	if err != nil {
		return nil, err
	}
	return &MintToResult{Balance: balance}, nil
}

// NewMintTo targets the associated token account of [owner] for [mint].
func NewMintTo(mint solana.PublicKey, owner solana.PublicKey, amount uint64) (*MintTo, error) {
	dest, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	return &MintTo{
		Mint:        mint,
		Owner:       owner,
		Destination: dest,
		Amount:      amount,
	}, nil
}
