// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/token"
	"github.com/ava-labs/hyperamm/types"
)

// LiquidityAccounts are the accounts a deposit or withdraw operates on.
type LiquidityAccounts struct {
	Config solana.PublicKey `json:"config"`
	MintX  solana.PublicKey `json:"mintX"`
	MintY  solana.PublicKey `json:"mintY"`
	MintLP solana.PublicKey `json:"mintLP"`
	VaultX solana.PublicKey `json:"vaultX"`
	VaultY solana.PublicKey `json:"vaultY"`
	UserX  solana.PublicKey `json:"userX"`
	UserY  solana.PublicKey `json:"userY"`
	UserLP solana.PublicKey `json:"userLP"`
}

func (a *LiquidityAccounts) stateKeys() state.Keys {
	return state.Keys{
		string(pool.ConfigKey(a.Config)):   state.Read,
		string(token.MintKey(a.MintX)):     state.Read,
		string(token.MintKey(a.MintY)):     state.Read,
		string(token.MintKey(a.MintLP)):    state.Write,
		string(token.AccountKey(a.VaultX)): state.Write,
		string(token.AccountKey(a.VaultY)): state.Write,
		string(token.AccountKey(a.UserX)):  state.All,
		string(token.AccountKey(a.UserY)):  state.All,
		string(token.AccountKey(a.UserLP)): state.All,
	}
}

// SwapAccounts are the accounts a swap operates on.
type SwapAccounts struct {
	Config solana.PublicKey `json:"config"`
	MintX  solana.PublicKey `json:"mintX"`
	MintY  solana.PublicKey `json:"mintY"`
	MintLP solana.PublicKey `json:"mintLP"`
	VaultX solana.PublicKey `json:"vaultX"`
	VaultY solana.PublicKey `json:"vaultY"`
	UserX  solana.PublicKey `json:"userX"`
	UserY  solana.PublicKey `json:"userY"`
}

func (a *SwapAccounts) stateKeys() state.Keys {
	return state.Keys{
		string(pool.ConfigKey(a.Config)):   state.Read,
		string(token.MintKey(a.MintX)):     state.Read,
		string(token.MintKey(a.MintY)):     state.Read,
		string(token.MintKey(a.MintLP)):    state.Read,
		string(token.AccountKey(a.VaultX)): state.Write,
		string(token.AccountKey(a.VaultY)): state.Write,
		string(token.AccountKey(a.UserX)):  state.All,
		string(token.AccountKey(a.UserY)):  state.All,
	}
}

// loadPool reads the config at [config] and checks that the passed pool
// accounts are the ones it owns.
func loadPool(
	ctx context.Context,
	im state.Immutable,
	config solana.PublicKey,
	mintX solana.PublicKey,
	mintY solana.PublicKey,
	vaultX solana.PublicKey,
	vaultY solana.PublicKey,
) (*pool.Config, error) {
	cfg, err := pool.GetConfig(ctx, im, config)
	if err != nil {
		return nil, err
	}
	if err := cfg.VerifyConfig(config); err != nil {
		return nil, err
	}
	if err := cfg.VerifyMints(mintX, mintY); err != nil {
		return nil, err
	}
	if err := cfg.VerifyVaults(config, vaultX, vaultY); err != nil {
		return nil, err
	}
	return cfg, nil
}

// userBalance returns what [owner] holds of [mint] at [account], which must
// be its associated token account. A missing account holds nothing.
func userBalance(
	ctx context.Context,
	im state.Immutable,
	account solana.PublicKey,
	mint solana.PublicKey,
	owner solana.PublicKey,
) (uint64, error) {
	want, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return 0, err
	}
	if !want.Equals(account) {
		return 0, errorsmod.Wrapf(types.ErrInvalidAccount, "%s is not the token account of %s for %s", account, owner, mint)
	}
	if _, err := token.GetAccount(ctx, im, account); errors.Is(err, types.ErrInvalidAccount) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	a, err := token.VerifyAccount(ctx, im, account, mint, owner)
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

func requireBalance(name string, have uint64, want uint64) error {
	if have < want {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "%s holds %d, needs %d", name, have, want)
	}
	return nil
}
