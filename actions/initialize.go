// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/token"
	"github.com/ava-labs/hyperamm/types"
)

var (
	_ Action    = (*Initialize)(nil)
	_ Result    = (*InitializeResult)(nil)
	_ argsCodec = (*Initialize)(nil)
)

type InitializeAccounts struct {
	MintX  solana.PublicKey `json:"mintX"`
	MintY  solana.PublicKey `json:"mintY"`
	MintLP solana.PublicKey `json:"mintLP"`
	Config solana.PublicKey `json:"config"`
	VaultX solana.PublicKey `json:"vaultX"`
	VaultY solana.PublicKey `json:"vaultY"`
}

// Initialize creates a pool over two existing mints.
type Initialize struct {
	Seed      uint64             `json:"seed"`
	Fee       uint16             `json:"fee"`
	Authority *solana.PublicKey  `json:"authority"`
	Accounts  InitializeAccounts `json:"accounts"`
}

// initializeArgs is the instruction layout of [Initialize].
type initializeArgs struct {
	Seed      uint64
	Fee       uint16
	Authority types.OptionalKey
	Accounts  InitializeAccounts
}

func (i *Initialize) marshalArgs() ([]byte, error) {
	return borsh.Serialize(initializeArgs{
		Seed:      i.Seed,
		Fee:       i.Fee,
		Authority: types.NewOptionalKey(i.Authority),
		Accounts:  i.Accounts,
	})
}

func (i *Initialize) unmarshalArgs(b []byte) error {
	var args initializeArgs
	if err := borsh.Deserialize(&args, b); err != nil {
		return err
	}
	*i = Initialize{
		Seed:      args.Seed,
		Fee:       args.Fee,
		Authority: args.Authority.Get(),
		Accounts:  args.Accounts,
	}
	return nil
}

type InitializeResult struct {
	Config     solana.PublicKey `json:"config"`
	MintLP     solana.PublicKey `json:"mintLP"`
	VaultX     solana.PublicKey `json:"vaultX"`
	VaultY     solana.PublicKey `json:"vaultY"`
	ConfigBump uint8            `json:"configBump"`
	LPBump     uint8            `json:"lpBump"`
}

func (*InitializeResult) GetTypeID() uint8 {
	return consts.InitializeID
}

func (*Initialize) GetTypeID() uint8 {
	return consts.InitializeID
}

func (i *Initialize) StateKeys(solana.PublicKey) state.Keys {
	return state.Keys{
		string(token.MintKey(i.Accounts.MintX)):     state.Read,
		string(token.MintKey(i.Accounts.MintY)):     state.Read,
		string(pool.ConfigKey(i.Accounts.Config)):   state.All,
		string(token.MintKey(i.Accounts.MintLP)):    state.All,
		string(token.AccountKey(i.Accounts.VaultX)): state.All,
		string(token.AccountKey(i.Accounts.VaultY)): state.All,
	}
}

func (i *Initialize) Execute(ctx context.Context, mu state.Mutable, _ solana.PublicKey) (Result, error) {
	cfg, err := pool.Initialize(ctx, mu, &pool.InitializeParams{
		Seed:      i.Seed,
		Fee:       i.Fee,
		Authority: i.Authority,
		MintX:     i.Accounts.MintX,
		MintY:     i.Accounts.MintY,
		MintLP:    i.Accounts.MintLP,
		Config:    i.Accounts.Config,
		VaultX:    i.Accounts.VaultX,
		VaultY:    i.Accounts.VaultY,
	})
	if err != nil {
		return nil, err
	}
	return &InitializeResult{
		Config:     i.Accounts.Config,
		MintLP:     cfg.MintLP,
		VaultX:     i.Accounts.VaultX,
		VaultY:     i.Accounts.VaultY,
		ConfigBump: cfg.ConfigBump,
		LPBump:     cfg.LPBump,
	}, nil
}

// NewInitialize derives every pool account of [seed] over [mintX] and [mintY].
func NewInitialize(seed uint64, fee uint16, authority *solana.PublicKey, mintX solana.PublicKey, mintY solana.PublicKey) (*Initialize, error) {
	accounts, err := pool.DeriveAccounts(seed, mintX, mintY)
	if err != nil {
		return nil, err
	}
	return &Initialize{
		Seed:      seed,
		Fee:       fee,
		Authority: authority,
		Accounts: InitializeAccounts{
			MintX:  mintX,
			MintY:  mintY,
			MintLP: accounts.MintLP,
			Config: accounts.Config,
			VaultX: accounts.VaultX,
			VaultY: accounts.VaultY,
		},
	}, nil
}
