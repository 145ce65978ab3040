// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token is a minimal SPL-style token ledger: mints with a supply and
// an optional mint authority, and token accounts holding a balance of one
// mint on behalf of an owner.
package token

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/keys"
	"github.com/ava-labs/hyperamm/safemath"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/types"
)

const (
	MintChunks    uint16 = 1
	AccountChunks uint16 = 2
)

type Mint struct {
	MintAuthority *solana.PublicKey
	Supply        uint64
	Decimals      uint8
}

type mintRecord struct {
	MintAuthority types.OptionalKey
	Supply        uint64
	Decimals      uint8
}

type Account struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

func MintKey(mint solana.PublicKey) []byte {
	k := make([]byte, 0, 1+solana.PublicKeyLength)
	k = append(k, consts.MintPrefix)
	k = append(k, mint[:]...)
	return keys.EncodeChunks(k, MintChunks)
}

func AccountKey(account solana.PublicKey) []byte {
	k := make([]byte, 0, 1+solana.PublicKeyLength)
	k = append(k, consts.TokenAccountPrefix)
	k = append(k, account[:]...)
	return keys.EncodeChunks(k, AccountChunks)
}

// AssociatedAddress returns the canonical token account of [owner] for [mint].
func AssociatedAddress(owner solana.PublicKey, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	return addr, err
}

func GetMint(ctx context.Context, im state.Immutable, mint solana.PublicKey) (*Mint, error) {
	v, err := im.GetValue(ctx, MintKey(mint))
	if errors.Is(err, database.ErrNotFound) {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "mint %s does not exist", mint)
	}
	if err != nil {
		return nil, err
	}
	var r mintRecord
	if err := borsh.Deserialize(&r, v); err != nil {
		return nil, err
	}
	return &Mint{
		MintAuthority: r.MintAuthority.Get(),
		Supply:        r.Supply,
		Decimals:      r.Decimals,
	}, nil
}

func SetMint(ctx context.Context, mu state.Mutable, mint solana.PublicKey, m *Mint) error {
	v, err := borsh.Serialize(mintRecord{
		MintAuthority: types.NewOptionalKey(m.MintAuthority),
		Supply:        m.Supply,
		Decimals:      m.Decimals,
	})
	if err != nil {
		return err
	}
	return mu.Insert(ctx, MintKey(mint), v)
}

// CreateMint registers a new mint with zero supply.
func CreateMint(
	ctx context.Context,
	mu state.Mutable,
	mint solana.PublicKey,
	authority *solana.PublicKey,
	decimals uint8,
) error {
	if _, err := mu.GetValue(ctx, MintKey(mint)); err == nil {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "mint %s already exists", mint)
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}
	return SetMint(ctx, mu, mint, &Mint{
		MintAuthority: authority,
		Decimals:      decimals,
	})
}

func GetAccount(ctx context.Context, im state.Immutable, account solana.PublicKey) (*Account, error) {
	v, err := im.GetValue(ctx, AccountKey(account))
	if errors.Is(err, database.ErrNotFound) {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "token account %s does not exist", account)
	}
	if err != nil {
		return nil, err
	}
	var a Account
	if err := borsh.Deserialize(&a, v); err != nil {
		return nil, err
	}
	return &a, nil
}

func SetAccount(ctx context.Context, mu state.Mutable, account solana.PublicKey, a *Account) error {
	v, err := borsh.Serialize(*a)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(account), v)
}

// Balance returns the amount held by [account]. A missing account holds 0.
func Balance(ctx context.Context, im state.Immutable, account solana.PublicKey) (uint64, error) {
	a, err := GetAccount(ctx, im, account)
	if errors.Is(err, types.ErrInvalidAccount) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

// CreateAccount opens an empty token account for [owner] at [account].
func CreateAccount(
	ctx context.Context,
	mu state.Mutable,
	account solana.PublicKey,
	mint solana.PublicKey,
	owner solana.PublicKey,
) (*Account, error) {
	if _, err := GetMint(ctx, mu, mint); err != nil {
		return nil, err
	}
	if _, err := mu.GetValue(ctx, AccountKey(account)); err == nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "token account %s already exists", account)
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	a := &Account{Mint: mint, Owner: owner}
	if err := SetAccount(ctx, mu, account, a); err != nil {
		return nil, err
	}
	return a, nil
}

// EnsureAssociatedAccount returns the associated token account of [owner]
// for [mint], creating it if needed. [account] must be that address.
func EnsureAssociatedAccount(
	ctx context.Context,
	mu state.Mutable,
	account solana.PublicKey,
	mint solana.PublicKey,
	owner solana.PublicKey,
) (*Account, error) {
	want, err := AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	if !want.Equals(account) {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "%s is not the associated token account of %s for %s", account, owner, mint)
	}
	a, err := GetAccount(ctx, mu, account)
	if errors.Is(err, types.ErrInvalidAccount) {
		return CreateAccount(ctx, mu, account, mint, owner)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// VerifyAccount checks that [account] exists, holds [mint] and is owned by
// [owner].
func VerifyAccount(
	ctx context.Context,
	im state.Immutable,
	account solana.PublicKey,
	mint solana.PublicKey,
	owner solana.PublicKey,
) (*Account, error) {
	a, err := GetAccount(ctx, im, account)
	if err != nil {
		return nil, err
	}
	if !a.Mint.Equals(mint) {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "token account %s holds %s, not %s", account, a.Mint, mint)
	}
	if !a.Owner.Equals(owner) {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "token account %s is not owned by %s", account, owner)
	}
	return a, nil
}

// MintTo creates [amount] new tokens of [mint] in [dest]. [authority] must be
// the mint authority.
func MintTo(
	ctx context.Context,
	mu state.Mutable,
	mint solana.PublicKey,
	dest solana.PublicKey,
	authority solana.PublicKey,
	amount uint64,
) error {
	m, err := GetMint(ctx, mu, mint)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil || !m.MintAuthority.Equals(authority) {
		return errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the mint authority of %s", authority, mint)
	}
	a, err := GetAccount(ctx, mu, dest)
	if err != nil {
		return err
	}
	if !a.Mint.Equals(mint) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "token account %s holds %s, not %s", dest, a.Mint, mint)
	}
	if m.Supply, err = safemath.Add64(m.Supply, amount); err != nil {
		return err
	}
	if a.Amount, err = safemath.Add64(a.Amount, amount); err != nil {
		return err
	}
	if err := SetMint(ctx, mu, mint, m); err != nil {
		return err
	}
	return SetAccount(ctx, mu, dest, a)
}

// Burn destroys [amount] tokens of [mint] held by [source] on behalf of
// [owner].
func Burn(
	ctx context.Context,
	mu state.Mutable,
	mint solana.PublicKey,
	source solana.PublicKey,
	owner solana.PublicKey,
	amount uint64,
) error {
	m, err := GetMint(ctx, mu, mint)
	if err != nil {
		return err
	}
	a, err := VerifyAccount(ctx, mu, source, mint, owner)
	if err != nil {
		return err
	}
	if a.Amount < amount {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "%s holds %d, burning %d", source, a.Amount, amount)
	}
	a.Amount -= amount
	if m.Supply, err = safemath.Sub64(m.Supply, amount); err != nil {
		return err
	}
	if err := SetMint(ctx, mu, mint, m); err != nil {
		return err
	}
	return SetAccount(ctx, mu, source, a)
}

// Transfer moves [amount] tokens from [source] to [dest]. [owner] must own
// [source] and both accounts must hold the same mint.
func Transfer(
	ctx context.Context,
	mu state.Mutable,
	source solana.PublicKey,
	dest solana.PublicKey,
	owner solana.PublicKey,
	amount uint64,
) error {
	src, err := GetAccount(ctx, mu, source)
	if err != nil {
		return err
	}
	if !src.Owner.Equals(owner) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "token account %s is not owned by %s", source, owner)
	}
	dst, err := GetAccount(ctx, mu, dest)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "cannot transfer %s into an account holding %s", src.Mint, dst.Mint)
	}
	if src.Amount < amount {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "%s holds %d, transferring %d", source, src.Amount, amount)
	}
	if source.Equals(dest) {
		return nil
	}
	src.Amount -= amount
	if dst.Amount, err = safemath.Add64(dst.Amount, amount); err != nil {
		return err
	}
	if err := SetAccount(ctx, mu, source, src); err != nil {
		return err
	}
	return SetAccount(ctx, mu, dest, dst)
}
