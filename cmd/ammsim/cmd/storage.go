// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/keys"
	"github.com/ava-labs/hyperamm/state"
)

const (
	keyPrefix   = 0x0
	aliasPrefix = 0x1

	// ed25519 keypair
	privateKeyChunks = 2
	aliasChunks      = 1
)

func toolingKey(prefix byte, name string, chunks uint16) []byte {
	k := make([]byte, 0, 2+len(name))
	k = append(k, consts.ToolingPrefix, prefix)
	k = append(k, name...)
	return keys.EncodeChunks(k, chunks)
}

func put(ctx context.Context, db state.Database, key []byte, value []byte) error {
	return db.Write(ctx, map[string]maybe.Maybe[[]byte]{
		string(key): maybe.Some(value),
	})
}

// GetKey returns the private key stored under [name].
func GetKey(ctx context.Context, db state.Immutable, name string) (solana.PrivateKey, bool, error) {
	v, err := db.GetValue(ctx, toolingKey(keyPrefix, name, privateKeyChunks))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return solana.PrivateKey(v), true, nil
}

func SetKey(ctx context.Context, db state.Database, name string, priv solana.PrivateKey) error {
	return put(ctx, db, toolingKey(keyPrefix, name, privateKeyChunks), priv)
}

// GetAlias returns the address named [name], if any.
func GetAlias(ctx context.Context, db state.Immutable, name string) (solana.PublicKey, bool, error) {
	v, err := db.GetValue(ctx, toolingKey(aliasPrefix, name, aliasChunks))
	if errors.Is(err, database.ErrNotFound) {
		return solana.PublicKey{}, false, nil
	}
	if err != nil {
		return solana.PublicKey{}, false, err
	}
	return solana.PublicKeyFromBytes(v), true, nil
}

func SetAlias(ctx context.Context, db state.Database, name string, addr solana.PublicKey) error {
	return put(ctx, db, toolingKey(aliasPrefix, name, aliasChunks), addr[:])
}

// resolve returns the address of the key or alias called [name].
func resolve(ctx context.Context, db state.Immutable, name string) (solana.PublicKey, error) {
	priv, ok, err := GetKey(ctx, db, name)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if ok {
		return priv.PublicKey(), nil
	}
	addr, ok, err := GetAlias(ctx, db, name)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, name)
	}
	return addr, nil
}

func keyCreateFunc(ctx context.Context, db state.Database, name string) (solana.PublicKey, error) {
	_, ok, err := GetKey(ctx, db, name)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if ok {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrDuplicateKeyName, name)
	}
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, err
	}
	if err := SetKey(ctx, db, name, priv); err != nil {
		return solana.PublicKey{}, err
	}
	return priv.PublicKey(), nil
}
