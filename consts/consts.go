// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

const (
	Name = "hyperamm"

	ByteLen   = 1
	BoolLen   = 1
	Uint16Len = 2
	Uint64Len = 8
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)

	// FeeDenominator is the basis point denominator swap fees are expressed in.
	FeeDenominator uint16 = 10_000

	// LPDecimals is the number of decimals of every pool's LP mint.
	LPDecimals uint8 = 6
)

// State key prefixes
const (
	MintPrefix byte = iota
	TokenAccountPrefix
	ConfigPrefix

	// Reserved for tooling that shares the program database
	ToolingPrefix byte = 0xff
)

// Seed prefixes of the program derived addresses
var (
	ConfigSeed = []byte("config")
	LPSeed     = []byte("lp")
)

// TypeIDs for actions
const (
	InitializeID uint8 = iota
	DepositID
	WithdrawID
	SwapID
	SetLockedID

	// Token program helpers
	CreateMintID
	MintToID
)

// ProgramID is the address every pool derived address is found under.
var ProgramID solana.PublicKey

func init() {
	h := sha256.Sum256([]byte(Name))
	ProgramID = solana.PublicKeyFromBytes(h[:])
}
