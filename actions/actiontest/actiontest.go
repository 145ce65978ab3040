// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actiontest

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperamm/actions"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/tstate"
)

// Decimals of the mints created by [NewPool].
const Decimals uint8 = 6

// ActionTest is a single parameterized test. It calls Execute on the action
// in a view scoped to the action's state keys and checks that all assertions
// pass. The view is only written back to [State] on success.
type ActionTest struct {
	Name string

	Action actions.Action
	State  state.Database
	Actor  solana.PublicKey

	ExpectedResult actions.Result
	ExpectedErr    error

	Assertion func(context.Context, *testing.T, state.Immutable)
}

// Run executes the [ActionTest] and make sure all assertions pass.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		result, err := Execute(ctx, test.State, test.Actor, test.Action)
		require.ErrorIs(err, test.ExpectedErr)
		if test.ExpectedResult != nil {
			require.Equal(test.ExpectedResult, result)
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}

// Execute runs [action] against [db] and writes its changes if it succeeds.
func Execute(ctx context.Context, db state.Database, actor solana.PublicKey, action actions.Action) (actions.Result, error) {
	ts := tstate.New(db, 0)
	view := ts.NewView(action.StateKeys(actor))
	result, err := action.Execute(ctx, view, actor)
	if err != nil {
		return nil, err
	}
	view.Commit()
	if err := ts.Write(ctx, db); err != nil {
		return nil, err
	}
	return result, nil
}

func NewKey(t testing.TB) solana.PublicKey {
	k, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return k.PublicKey()
}

// Pool is an initialized pool with a funded user.
type Pool struct {
	Seed      uint64
	Fee       uint16
	Authority solana.PublicKey
	User      solana.PublicKey
	Accounts  *actions.LiquidityAccounts
}

// NewPool creates two mints, issues [fund] of each to a fresh user and
// initializes a pool over them with the mint creator as authority.
func NewPool(ctx context.Context, t testing.TB, db state.Database, seed uint64, fee uint16, fund uint64) *Pool {
	require := require.New(t)

	authority := NewKey(t)
	user := NewKey(t)
	mintX := NewKey(t)
	mintY := NewKey(t)
	for _, mint := range []solana.PublicKey{mintX, mintY} {
		_, err := Execute(ctx, db, authority, &actions.CreateMint{Mint: mint, Decimals: Decimals})
		require.NoError(err)
		if fund == 0 {
			continue
		}
		mintTo, err := actions.NewMintTo(mint, user, fund)
		require.NoError(err)
		_, err = Execute(ctx, db, authority, mintTo)
		require.NoError(err)
	}

	initialize, err := actions.NewInitialize(seed, fee, &authority, mintX, mintY)
	require.NoError(err)
	_, err = Execute(ctx, db, authority, initialize)
	require.NoError(err)

	accounts, err := actions.NewLiquidityAccounts(seed, mintX, mintY, user)
	require.NoError(err)
	return &Pool{
		Seed:      seed,
		Fee:       fee,
		Authority: authority,
		User:      user,
		Accounts:  accounts,
	}
}

func (p *Pool) Deposit(amount, maxX, maxY uint64) *actions.Deposit {
	return &actions.Deposit{Amount: amount, MaxX: maxX, MaxY: maxY, Accounts: *p.Accounts}
}

func (p *Pool) Withdraw(amount, minX, minY uint64) *actions.Withdraw {
	return &actions.Withdraw{Amount: amount, MinX: minX, MinY: minY, Accounts: *p.Accounts}
}

func (p *Pool) Swap(isX bool, amountIn, minAmountOut uint64) *actions.Swap {
	return &actions.Swap{IsX: isX, AmountIn: amountIn, MinAmountOut: minAmountOut, Accounts: p.Accounts.SwapAccounts()}
}
