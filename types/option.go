// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "github.com/gagliardetto/solana-go"

// OptionalKey is the stored layout of a key that may be absent: a presence
// flag followed by the key, which is zero when absent.
type OptionalKey struct {
	Some bool
	Key  solana.PublicKey
}

func NewOptionalKey(k *solana.PublicKey) OptionalKey {
	if k == nil {
		return OptionalKey{}
	}
	return OptionalKey{Some: true, Key: *k}
}

// Get returns the key, or nil if it is absent.
func (o OptionalKey) Get() *solana.PublicKey {
	if !o.Some {
		return nil
	}
	k := o.Key
	return &k
}
