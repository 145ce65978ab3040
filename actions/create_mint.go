// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/token"
)

var (
	_ Action = (*CreateMint)(nil)
	_ Result = (*CreateMintResult)(nil)
)

// CreateMint registers [Mint] with the actor as its mint authority.
type CreateMint struct {
	Mint     solana.PublicKey `json:"mint"`
	Decimals uint8            `json:"decimals"`
}

type CreateMintResult struct {
	Mint solana.PublicKey `json:"mint"`
}

func (*CreateMintResult) GetTypeID() uint8 {
	return consts.CreateMintID
}

func (*CreateMint) GetTypeID() uint8 {
	return consts.CreateMintID
}

func (c *CreateMint) StateKeys(solana.PublicKey) state.Keys {
	return state.Keys{
		string(token.MintKey(c.Mint)): state.All,
	}
}

func (c *CreateMint) Execute(ctx context.Context, mu state.Mutable, actor solana.PublicKey) (Result, error) {
	if err := token.CreateMint(ctx, mu, c.Mint, &actor, c.Decimals); err != nil {
		return nil, err
	}
	return &CreateMintResult{Mint: c.Mint}, nil
}
