// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program_test

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperamm/actions"
	"github.com/ava-labs/hyperamm/config"
	"github.com/ava-labs/hyperamm/program"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/trace"

	ginkgo "github.com/onsi/ginkgo/v2"
)

const (
	seed     = 1234
	fee      = 300
	decimals = 6
	airdrop  = 2_000 * 1_000_000
)

func TestProgram(t *testing.T) {
	ginkgo.RunSpecs(t, "program test suites")
}

func newProgram(t require.TestingT) (*program.Program, *prometheus.Registry) {
	cfg := config.NewDefaultConfig()
	cfg.ExecutorConcurrency = 4
	cfg.MaxBatchSize = 64
	registry := prometheus.NewRegistry()
	p, err := program.New(&cfg, state.NewMemoryDatabase(), logging.NoLog{}, trace.Noop("test"), registry)
	require.NoError(t, err)
	return p, registry
}

func newKey(t require.TestingT) solana.PublicKey {
	k, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return k.PublicKey()
}

// harness replays the client flow: two mints owned by [authority], [amount]
// of each issued to [user], and a pool over them.
type harness struct {
	authority solana.PublicKey
	user      solana.PublicKey
	mintX     solana.PublicKey
	mintY     solana.PublicKey
	accounts  *actions.LiquidityAccounts
}

func newHarness(ctx context.Context, t require.TestingT, p *program.Program, amount uint64) *harness {
	require := require.New(t)

	h := &harness{
		authority: newKey(t),
		user:      newKey(t),
		mintX:     newKey(t),
		mintY:     newKey(t),
	}
	for _, mint := range []solana.PublicKey{h.mintX, h.mintY} {
		_, err := p.Execute(ctx, &program.Transaction{
			Actor:  h.authority,
			Action: &actions.CreateMint{Mint: mint, Decimals: decimals},
		})
		require.NoError(err)
		mintTo, err := actions.NewMintTo(mint, h.user, amount)
		require.NoError(err)
		_, err = p.Execute(ctx, &program.Transaction{Actor: h.authority, Action: mintTo})
		require.NoError(err)
	}

	initialize, err := actions.NewInitialize(seed, fee, &h.authority, h.mintX, h.mintY)
	require.NoError(err)
	_, err = p.Execute(ctx, &program.Transaction{Actor: h.authority, Action: initialize})
	require.NoError(err)

	h.accounts, err = actions.NewLiquidityAccounts(seed, h.mintX, h.mintY, h.user)
	require.NoError(err)
	return h
}

func (h *harness) tx(action actions.Action) *program.Transaction {
	return &program.Transaction{Actor: h.user, Action: action}
}

func (h *harness) deposit(amount, maxX, maxY uint64) *program.Transaction {
	return h.tx(&actions.Deposit{Amount: amount, MaxX: maxX, MaxY: maxY, Accounts: *h.accounts})
}

func (h *harness) withdraw(amount, minX, minY uint64) *program.Transaction {
	return h.tx(&actions.Withdraw{Amount: amount, MinX: minX, MinY: minY, Accounts: *h.accounts})
}

func (h *harness) swap(isX bool, amountIn, minOut uint64) *program.Transaction {
	return h.tx(&actions.Swap{IsX: isX, AmountIn: amountIn, MinAmountOut: minOut, Accounts: h.accounts.SwapAccounts()})
}
