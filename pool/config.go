// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/keys"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/types"
)

const ConfigChunks uint16 = 3

// DiscriminatorLen is the length of the type tag prefixed to stored records.
const DiscriminatorLen = 8

var configDiscriminator = Discriminator("account", "Config")

// Discriminator returns the first 8 bytes of sha256("<namespace>:<name>").
func Discriminator(namespace string, name string) [DiscriminatorLen]byte {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	var d [DiscriminatorLen]byte
	copy(d[:], h[:DiscriminatorLen])
	return d
}

// Config is the persistent record of a single pool.
type Config struct {
	Seed       uint64            `json:"seed"`
	Authority  *solana.PublicKey `json:"authority"`
	MintX      solana.PublicKey  `json:"mintX"`
	MintY      solana.PublicKey  `json:"mintY"`
	MintLP     solana.PublicKey  `json:"mintLP"`
	Fee        uint16            `json:"fee"`
	ConfigBump uint8             `json:"configBump"`
	LPBump     uint8             `json:"lpBump"`
	Locked     bool              `json:"locked"`
}

// configRecord is the stored layout of [Config].
type configRecord struct {
	Seed       uint64
	Authority  types.OptionalKey
	MintX      solana.PublicKey
	MintY      solana.PublicKey
	MintLP     solana.PublicKey
	Fee        uint16
	ConfigBump uint8
	LPBump     uint8
	Locked     bool
}

func (c *Config) Marshal() ([]byte, error) {
	v, err := borsh.Serialize(configRecord{
		Seed:       c.Seed,
		Authority:  types.NewOptionalKey(c.Authority),
		MintX:      c.MintX,
		MintY:      c.MintY,
		MintLP:     c.MintLP,
		Fee:        c.Fee,
		ConfigBump: c.ConfigBump,
		LPBump:     c.LPBump,
		Locked:     c.Locked,
	})
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, DiscriminatorLen+len(v))
	b = append(b, configDiscriminator[:]...)
	return append(b, v...), nil
}

func UnmarshalConfig(b []byte) (*Config, error) {
	if len(b) < DiscriminatorLen || !bytes.Equal(b[:DiscriminatorLen], configDiscriminator[:]) {
		return nil, errorsmod.Wrap(types.ErrInvalidAccount, "not a pool config")
	}
	var r configRecord
	if err := borsh.Deserialize(&r, b[DiscriminatorLen:]); err != nil {
		return nil, err
	}
	return &Config{
		Seed:       r.Seed,
		Authority:  r.Authority.Get(),
		MintX:      r.MintX,
		MintY:      r.MintY,
		MintLP:     r.MintLP,
		Fee:        r.Fee,
		ConfigBump: r.ConfigBump,
		LPBump:     r.LPBump,
		Locked:     r.Locked,
	}, nil
}

func ConfigKey(config solana.PublicKey) []byte {
	k := make([]byte, 0, 1+solana.PublicKeyLength)
	k = append(k, consts.ConfigPrefix)
	k = append(k, config[:]...)
	return keys.EncodeChunks(k, ConfigChunks)
}

func GetConfig(ctx context.Context, im state.Immutable, config solana.PublicKey) (*Config, error) {
	v, err := im.GetValue(ctx, ConfigKey(config))
	if errors.Is(err, database.ErrNotFound) {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "pool config %s does not exist", config)
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalConfig(v)
}

func SetConfig(ctx context.Context, mu state.Mutable, config solana.PublicKey, c *Config) error {
	v, err := c.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, ConfigKey(config), v)
}

// AssertUnlocked fails with [types.ErrPoolLocked] if trading is paused.
func AssertUnlocked(c *Config) error {
	if c.Locked {
		return types.ErrPoolLocked
	}
	return nil
}

// SetLocked pauses or resumes the pool. Only the configured authority may do
// so and a pool without one can never be paused.
func (c *Config) SetLocked(actor solana.PublicKey, locked bool) error {
	if c.Authority == nil || !c.Authority.Equals(actor) {
		return errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the pool authority", actor)
	}
	c.Locked = locked
	return nil
}
