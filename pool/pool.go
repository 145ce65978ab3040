// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool manages the config record of a constant-product pool and the
// program derived addresses it owns.
package pool

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/gagliardetto/solana-go"

	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/token"
	"github.com/ava-labs/hyperamm/types"
)

type InitializeParams struct {
	Seed      uint64
	Fee       uint16
	Authority *solana.PublicKey

	MintX  solana.PublicKey
	MintY  solana.PublicKey
	MintLP solana.PublicKey
	Config solana.PublicKey
	VaultX solana.PublicKey
	VaultY solana.PublicKey
}

// Initialize creates the pool config, its LP mint and both empty vaults.
func Initialize(ctx context.Context, mu state.Mutable, p *InitializeParams) (*Config, error) {
	if p.Fee >= consts.FeeDenominator {
		return nil, errorsmod.Wrapf(types.ErrInvalidFee, "fee %d", p.Fee)
	}
	if p.MintX.Equals(p.MintY) {
		return nil, errorsmod.Wrapf(types.ErrDuplicateMint, "%s", p.MintX)
	}
	if _, err := token.GetMint(ctx, mu, p.MintX); err != nil {
		return nil, err
	}
	if _, err := token.GetMint(ctx, mu, p.MintY); err != nil {
		return nil, err
	}
	accounts, err := DeriveAccounts(p.Seed, p.MintX, p.MintY)
	if err != nil {
		return nil, err
	}
	switch {
	case !accounts.Config.Equals(p.Config):
		return nil, invalid("config", p.Config)
	case !accounts.MintLP.Equals(p.MintLP):
		return nil, invalid("lp mint", p.MintLP)
	case !accounts.VaultX.Equals(p.VaultX):
		return nil, invalid("vault x", p.VaultX)
	case !accounts.VaultY.Equals(p.VaultY):
		return nil, invalid("vault y", p.VaultY)
	}
	if _, err := mu.GetValue(ctx, ConfigKey(p.Config)); err == nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "pool config %s already in use", p.Config)
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	c := &Config{
		Seed:       p.Seed,
		Authority:  p.Authority,
		MintX:      p.MintX,
		MintY:      p.MintY,
		MintLP:     accounts.MintLP,
		Fee:        p.Fee,
		ConfigBump: accounts.ConfigBump,
		LPBump:     accounts.LPBump,
	}
	if err := SetConfig(ctx, mu, p.Config, c); err != nil {
		return nil, err
	}
	authority := p.Config
	if err := token.CreateMint(ctx, mu, accounts.MintLP, &authority, consts.LPDecimals); err != nil {
		return nil, err
	}
	if _, err := token.CreateAccount(ctx, mu, accounts.VaultX, p.MintX, p.Config); err != nil {
		return nil, err
	}
	if _, err := token.CreateAccount(ctx, mu, accounts.VaultY, p.MintY, p.Config); err != nil {
		return nil, err
	}
	return c, nil
}

// Reserves are the vault balances and LP supply of a pool.
type Reserves struct {
	X        uint64 `json:"x"`
	Y        uint64 `json:"y"`
	LPSupply uint64 `json:"lpSupply"`
}

// GetReserves reads the reserves of the pool at [config].
func GetReserves(ctx context.Context, im state.Immutable, config solana.PublicKey, c *Config) (*Reserves, error) {
	vaultX, err := VaultAddress(config, c.MintX)
	if err != nil {
		return nil, err
	}
	vaultY, err := VaultAddress(config, c.MintY)
	if err != nil {
		return nil, err
	}
	x, err := token.VerifyAccount(ctx, im, vaultX, c.MintX, config)
	if err != nil {
		return nil, err
	}
	y, err := token.VerifyAccount(ctx, im, vaultY, c.MintY, config)
	if err != nil {
		return nil, err
	}
	lp, err := token.GetMint(ctx, im, c.MintLP)
	if err != nil {
		return nil, err
	}
	return &Reserves{X: x.Amount, Y: y.Amount, LPSupply: lp.Supply}, nil
}
