// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/token"
	"github.com/ava-labs/hyperamm/types"
)

func configSeeds(seed uint64) [][]byte {
	le := make([]byte, consts.Uint64Len)
	binary.LittleEndian.PutUint64(le, seed)
	return [][]byte{consts.ConfigSeed, le}
}

func lpSeeds(config solana.PublicKey) [][]byte {
	return [][]byte{consts.LPSeed, config[:]}
}

// ConfigAddress returns the canonical config address of the pool created
// with [seed] and its bump.
func ConfigAddress(seed uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(configSeeds(seed), consts.ProgramID)
}

// LPMintAddress returns the canonical LP mint of [config] and its bump.
func LPMintAddress(config solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(lpSeeds(config), consts.ProgramID)
}

// VaultAddress returns the reserve account of [config] for [mint].
func VaultAddress(config solana.PublicKey, mint solana.PublicKey) (solana.PublicKey, error) {
	return token.AssociatedAddress(config, mint)
}

// Accounts are the addresses owned by a pool.
type Accounts struct {
	Config     solana.PublicKey
	MintLP     solana.PublicKey
	VaultX     solana.PublicKey
	VaultY     solana.PublicKey
	ConfigBump uint8
	LPBump     uint8
}

// DeriveAccounts returns every address of the pool created with [seed] over
// [mintX] and [mintY].
func DeriveAccounts(seed uint64, mintX solana.PublicKey, mintY solana.PublicKey) (*Accounts, error) {
	config, configBump, err := ConfigAddress(seed)
	if err != nil {
		return nil, err
	}
	mintLP, lpBump, err := LPMintAddress(config)
	if err != nil {
		return nil, err
	}
	vaultX, err := VaultAddress(config, mintX)
	if err != nil {
		return nil, err
	}
	vaultY, err := VaultAddress(config, mintY)
	if err != nil {
		return nil, err
	}
	return &Accounts{
		Config:     config,
		MintLP:     mintLP,
		VaultX:     vaultX,
		VaultY:     vaultY,
		ConfigBump: configBump,
		LPBump:     lpBump,
	}, nil
}

func invalid(name string, got solana.PublicKey) error {
	return errorsmod.Wrapf(types.ErrInvalidAccount, "%s %s does not match the pool", name, got)
}

// VerifyConfig checks that [addr] is the address this record was created at.
func (c *Config) VerifyConfig(addr solana.PublicKey) error {
	want, err := solana.CreateProgramAddress(append(configSeeds(c.Seed), []byte{c.ConfigBump}), consts.ProgramID)
	if err != nil || !want.Equals(addr) {
		return invalid("config", addr)
	}
	return nil
}

// VerifyLPMint checks that [mintLP] is the LP mint of the pool at [config].
func (c *Config) VerifyLPMint(config solana.PublicKey, mintLP solana.PublicKey) error {
	want, err := solana.CreateProgramAddress(append(lpSeeds(config), []byte{c.LPBump}), consts.ProgramID)
	if err != nil || !want.Equals(mintLP) || !c.MintLP.Equals(mintLP) {
		return invalid("lp mint", mintLP)
	}
	return nil
}

func (c *Config) VerifyMints(mintX solana.PublicKey, mintY solana.PublicKey) error {
	if !c.MintX.Equals(mintX) {
		return invalid("mint x", mintX)
	}
	if !c.MintY.Equals(mintY) {
		return invalid("mint y", mintY)
	}
	return nil
}

// VerifyVaults checks that [vaultX] and [vaultY] are the reserve accounts of
// the pool at [config].
func (c *Config) VerifyVaults(config solana.PublicKey, vaultX solana.PublicKey, vaultY solana.PublicKey) error {
	want, err := VaultAddress(config, c.MintX)
	if err != nil || !want.Equals(vaultX) {
		return invalid("vault x", vaultX)
	}
	want, err = VaultAddress(config, c.MintY)
	if err != nil || !want.Equals(vaultY) {
		return invalid("vault y", vaultY)
	}
	return nil
}
