// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program_test

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperamm/actions"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/program"
	"github.com/ava-labs/hyperamm/types"

	ginkgo "github.com/onsi/ginkgo/v2"
)

var _ = ginkgo.Describe("[AMM scenario]", ginkgo.Ordered, func() {
	var (
		ctx = context.Background()
		p   *program.Program
		h   *harness
	)

	ginkgo.BeforeAll(func() {
		p, _ = newProgram(ginkgo.GinkgoT())
		h = newHarness(ctx, ginkgo.GinkgoT(), p, airdrop)
	})

	ginkgo.It("initializes the pool", func() {
		require := require.New(ginkgo.GinkgoT())

		state, err := p.Pool(ctx, h.accounts.Config)
		require.NoError(err)
		require.Equal(uint64(seed), state.Config.Seed)
		require.Equal(uint16(fee), state.Config.Fee)
		require.Equal(&h.authority, state.Config.Authority)
		require.Equal(h.accounts.MintLP, state.Config.MintLP)
		require.False(state.Config.Locked)
		require.Equal(&pool.Reserves{}, state.Reserves)

		for _, account := range []struct {
			address solana.PublicKey
			amount  uint64
		}{
			{h.accounts.UserX, airdrop},
			{h.accounts.UserY, airdrop},
			{h.accounts.VaultX, 0},
			{h.accounts.VaultY, 0},
		} {
			balance, err := p.Balance(ctx, account.address)
			require.NoError(err)
			require.Equal(account.amount, balance)
		}
	})

	ginkgo.It("deposits", func() {
		require := require.New(ginkgo.GinkgoT())

		res, err := p.Execute(ctx, h.deposit(1_000_000_000, 900_000_000, 1_100_000_000))
		require.NoError(err)
		require.Equal(&actions.DepositResult{
			LPMinted: 994_987_437,
			AmountX:  900_000_000,
			AmountY:  1_100_000_000,
		}, res)

		lp, err := p.Balance(ctx, h.accounts.UserLP)
		require.NoError(err)
		require.Equal(uint64(994_987_437), lp)
	})

	ginkgo.It("withdraws", func() {
		require := require.New(ginkgo.GinkgoT())

		res, err := p.Execute(ctx, h.withdraw(100_000_000, 90_000_000, 110_000_000))
		require.NoError(err)
		require.Equal(&actions.WithdrawResult{
			LPBurned: 100_000_000,
			AmountX:  90_453_403,
			AmountY:  110_554_159,
		}, res)

		state, err := p.Pool(ctx, h.accounts.Config)
		require.NoError(err)
		require.Equal(&pool.Reserves{X: 809_546_597, Y: 989_445_841, LPSupply: 894_987_437}, state.Reserves)
	})

	ginkgo.It("swaps y for x", func() {
		require := require.New(ginkgo.GinkgoT())

		res, err := p.Execute(ctx, h.swap(false, 100_000_000, 10_000_000))
		require.NoError(err)
		require.Equal(&actions.SwapResult{
			AmountIn:         100_000_000,
			AmountInAfterFee: 97_000_000,
			AmountOut:        72_277_896,
		}, res)

		state, err := p.Pool(ctx, h.accounts.Config)
		require.NoError(err)
		require.Equal(&pool.Reserves{X: 737_268_701, Y: 1_089_445_841, LPSupply: 894_987_437}, state.Reserves)
	})

	ginkgo.It("rejects a swap below the minimum output", func() {
		require := require.New(ginkgo.GinkgoT())

		before, err := p.Pool(ctx, h.accounts.Config)
		require.NoError(err)
		_, err = p.Execute(ctx, h.swap(true, 1_000_000, 2_000_000))
		require.ErrorIs(err, types.ErrSlippageExceeded)
		after, err := p.Pool(ctx, h.accounts.Config)
		require.NoError(err)
		require.Equal(before, after)
	})

	ginkgo.It("pauses trading", func() {
		require := require.New(ginkgo.GinkgoT())

		data, err := p.Parser().Marshal(&actions.SetLocked{Config: h.accounts.Config, Locked: true})
		require.NoError(err)
		_, err = p.ExecuteInstruction(ctx, h.user, data)
		require.ErrorIs(err, types.ErrUnauthorized)
		_, err = p.ExecuteInstruction(ctx, h.authority, data)
		require.NoError(err)

		_, err = p.Execute(ctx, h.swap(true, 1_000_000, 0))
		require.ErrorIs(err, types.ErrPoolLocked)
		require.Equal(uint32(5), types.Code(err))

		_, err = p.Execute(ctx, &program.Transaction{
			Actor:  h.authority,
			Action: &actions.SetLocked{Config: h.accounts.Config},
		})
		require.NoError(err)
		_, err = p.Execute(ctx, h.swap(true, 1_000_000, 0))
		require.NoError(err)
	})

	ginkgo.It("rejects a second pool with the same seed", func() {
		require := require.New(ginkgo.GinkgoT())

		initialize, err := actions.NewInitialize(seed, consts.FeeDenominator-1, nil, h.mintX, h.mintY)
		require.NoError(err)
		_, err = p.Execute(ctx, &program.Transaction{Actor: h.user, Action: initialize})
		require.ErrorIs(err, types.ErrInvalidAccount)
	})
})
