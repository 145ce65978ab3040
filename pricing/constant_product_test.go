// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ava-labs/hyperamm/safemath"
	"github.com/ava-labs/hyperamm/types"
)

func TestSwapExample(t *testing.T) {
	require := require.New(t)

	c := NewConstantProduct(1_000, 1_000, 1_000, 300)
	q, err := c.Swap(true, 100, 0)
	require.NoError(err)
	require.Equal(&SwapQuote{AmountIn: 100, AmountInAfterFee: 97, AmountOut: 88}, q)

	x, y, supply := c.GetState()
	require.Equal(uint64(1_100), x)
	require.Equal(uint64(912), y)
	require.Equal(uint64(1_000), supply)
}

func TestSwapYToX(t *testing.T) {
	require := require.New(t)

	// six decimal pool after the harness deposit and withdraw
	c := NewConstantProduct(809_546_597, 989_445_841, 894_987_437, 300)
	q, err := c.Swap(false, 100_000_000, 10_000_000)
	require.NoError(err)
	require.Equal(uint64(97_000_000), q.AmountInAfterFee)
	require.Equal(uint64(72_277_896), q.AmountOut)

	x, y, _ := c.GetState()
	require.Equal(uint64(737_268_701), x)
	require.Equal(uint64(1_089_445_841), y)
}

func TestSwapErrors(t *testing.T) {
	tests := []struct {
		name     string
		reserveX uint64
		reserveY uint64
		isXToY   bool
		amountIn uint64
		minOut   uint64
		err      error
	}{
		{
			name:     "zero in",
			reserveX: 1_000,
			reserveY: 1_000,
			isXToY:   true,
			amountIn: 0,
			err:      types.ErrZeroAmount,
		},
		{
			name:     "slippage",
			reserveX: 1_000,
			reserveY: 1_000,
			isXToY:   true,
			amountIn: 100,
			minOut:   89,
			err:      types.ErrSlippageExceeded,
		},
		{
			name:     "empty pool",
			reserveX: 0,
			reserveY: 0,
			isXToY:   false,
			amountIn: 100,
			err:      types.ErrZeroAmount,
		},
		{
			name:     "input eaten by rounding",
			reserveX: 1_000_000,
			reserveY: 10,
			isXToY:   true,
			amountIn: 1,
			err:      types.ErrZeroAmount,
		},
		{
			name:     "reserve overflow",
			reserveX: math.MaxUint64,
			reserveY: 1_000,
			isXToY:   true,
			amountIn: math.MaxUint64,
			err:      types.ErrArithmetic,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			c := NewConstantProduct(tt.reserveX, tt.reserveY, 1, 300)
			_, err := c.Swap(tt.isXToY, tt.amountIn, tt.minOut)
			require.ErrorIs(err, tt.err)

			// failures never move the reserves
			x, y, supply := c.GetState()
			require.Equal(tt.reserveX, x)
			require.Equal(tt.reserveY, y)
			require.Equal(uint64(1), supply)
		})
	}
}

func TestEmptyPool(t *testing.T) {
	require := require.New(t)

	c := NewConstantProduct(0, 0, 0, 300)
	_, err := c.Swap(true, 100, 0)
	require.ErrorIs(err, types.ErrZeroAmount)

	// reserves without lp tokens can neither be traded nor claimed
	c = NewConstantProduct(1_000, 1_000, 0, 300)
	_, err = c.Swap(true, 100, 0)
	require.ErrorIs(err, types.ErrZeroAmount)
	_, err = c.Deposit(1, 900, 1_100)
	require.ErrorIs(err, types.ErrInvalidAccount)

	x, y, supply := c.GetState()
	require.Equal(uint64(1_000), x)
	require.Equal(uint64(1_000), y)
	require.Zero(supply)
}

func TestFirstDeposit(t *testing.T) {
	require := require.New(t)

	c := NewConstantProduct(0, 0, 0, 300)
	_, err := c.Deposit(0, 900, 1_100)
	require.ErrorIs(err, types.ErrZeroAmount)
	_, err = c.Deposit(1, 0, 1_100)
	require.ErrorIs(err, types.ErrZeroAmount)

	q, err := c.Deposit(1, 900, 1_100)
	require.NoError(err)
	require.Equal(&DepositQuote{LPMinted: 994, AmountX: 900, AmountY: 1_100}, q)

	x, y, supply := c.GetState()
	require.Equal(uint64(900), x)
	require.Equal(uint64(1_100), y)
	require.Equal(uint64(994), supply)
}

func TestDepositWithdrawScenario(t *testing.T) {
	require := require.New(t)

	c := NewConstantProduct(0, 0, 0, 300)
	q, err := c.Deposit(1_000_000_000, 900_000_000, 1_100_000_000)
	require.NoError(err)
	require.Equal(uint64(994_987_437), q.LPMinted)

	w, err := c.Withdraw(100_000_000, 90_000_000, 110_000_000)
	require.NoError(err)
	require.Equal(&WithdrawQuote{AmountX: 90_453_403, AmountY: 110_554_159}, w)

	x, y, supply := c.GetState()
	require.Equal(uint64(809_546_597), x)
	require.Equal(uint64(989_445_841), y)
	require.Equal(uint64(894_987_437), supply)
}

func TestDepositErrors(t *testing.T) {
	require := require.New(t)

	c := NewConstantProduct(1_000, 2_000, 1_000, 300)
	_, err := c.Deposit(100, 99, 200)
	require.ErrorIs(err, types.ErrSlippageExceeded)
	_, err = c.Deposit(100, 100, 199)
	require.ErrorIs(err, types.ErrSlippageExceeded)

	// one lp of a pool with fewer x than lp rounds x to zero
	c = NewConstantProduct(10, 2_000, 1_000, 300)
	_, err = c.Deposit(1, 10, 10)
	require.ErrorIs(err, types.ErrZeroAmount)

	x, y, supply := c.GetState()
	require.Equal(uint64(10), x)
	require.Equal(uint64(2_000), y)
	require.Equal(uint64(1_000), supply)

	c = NewConstantProduct(1_000, 2_000, 1_000, 300)
	q, err := c.Deposit(100, 100, 200)
	require.NoError(err)
	require.Equal(&DepositQuote{LPMinted: 100, AmountX: 100, AmountY: 200}, q)
}

func TestWithdrawErrors(t *testing.T) {
	require := require.New(t)

	c := NewConstantProduct(1_000, 2_000, 1_000, 300)
	_, err := c.Withdraw(0, 0, 0)
	require.ErrorIs(err, types.ErrZeroAmount)
	_, err = c.Withdraw(1_001, 0, 0)
	require.ErrorIs(err, types.ErrInsufficientBalance)
	_, err = c.Withdraw(100, 101, 0)
	require.ErrorIs(err, types.ErrSlippageExceeded)
	_, err = c.Withdraw(100, 0, 201)
	require.ErrorIs(err, types.ErrSlippageExceeded)

	x, y, supply := c.GetState()
	require.Equal(uint64(1_000), x)
	require.Equal(uint64(2_000), y)
	require.Equal(uint64(1_000), supply)

	// draining the pool empties every reserve
	q, err := c.Withdraw(1_000, 1_000, 2_000)
	require.NoError(err)
	require.Equal(&WithdrawQuote{AmountX: 1_000, AmountY: 2_000}, q)
	x, y, supply = c.GetState()
	require.Zero(x)
	require.Zero(y)
	require.Zero(supply)
}

func TestAmountInAfterFee(t *testing.T) {
	require := require.New(t)

	v, err := AmountInAfterFee(100, 0)
	require.NoError(err)
	require.Equal(uint64(100), v)

	v, err = AmountInAfterFee(100, 9_999)
	require.NoError(err)
	require.Zero(v)

	_, err = AmountInAfterFee(100, 10_000)
	require.ErrorIs(err, types.ErrInvalidFee)
}

func drawPool(t *rapid.T) *ConstantProduct {
	return NewConstantProduct(
		rapid.Uint64Range(1, 1_000_000_000_000).Draw(t, "reserveX"),
		rapid.Uint64Range(1, 1_000_000_000_000).Draw(t, "reserveY"),
		rapid.Uint64Range(1, 1_000_000_000_000).Draw(t, "lpSupply"),
		rapid.Uint16Range(0, 9_999).Draw(t, "fee"),
	)
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawPool(t)
		_, _, supply := c.GetState()
		amount := rapid.Uint64Range(1, supply).Draw(t, "amount")

		d, err := c.Deposit(amount, math.MaxUint64, math.MaxUint64)
		if errors.Is(err, types.ErrZeroAmount) {
			return
		}
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
		w, err := c.Withdraw(amount, 0, 0)
		if err != nil {
			t.Fatalf("withdraw: %v", err)
		}
		if w.AmountX > d.AmountX || d.AmountX-w.AmountX > 1 {
			t.Fatalf("x deposited %d, withdrawn %d", d.AmountX, w.AmountX)
		}
		if w.AmountY > d.AmountY || d.AmountY-w.AmountY > 1 {
			t.Fatalf("y deposited %d, withdrawn %d", d.AmountY, w.AmountY)
		}
	})
}

func TestSwapProductNonDecreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawPool(t)
		isXToY := rapid.Bool().Draw(t, "isXToY")
		amountIn := rapid.Uint64Range(1, 1_000_000_000_000).Draw(t, "amountIn")

		x0, y0, _ := c.GetState()
		q, err := c.Swap(isXToY, amountIn, 0)
		if errors.Is(err, types.ErrZeroAmount) {
			return
		}
		if err != nil {
			t.Fatalf("swap: %v", err)
		}
		x1, y1, _ := c.GetState()
		before, _ := safemath.CheckedMul(safemath.NewInt(x0), safemath.NewInt(y0))
		after, _ := safemath.CheckedMul(safemath.NewInt(x1), safemath.NewInt(y1))
		if after.Cmp(before) < 0 {
			t.Fatalf("product decreased from %s to %s", before, after)
		}

		reserveIn, reserveOut := x0, y0
		if !isXToY {
			reserveIn, reserveOut = y0, x0
		}
		inv, err := SwapOutputByInvariant(reserveIn, reserveOut, q.AmountInAfterFee)
		if err != nil {
			t.Fatalf("invariant form: %v", err)
		}
		if inv < q.AmountOut || inv-q.AmountOut > 1 {
			t.Fatalf("widened form %d, invariant form %d", q.AmountOut, inv)
		}
	})
}

func TestDepositProportional(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawPool(t)
		x0, y0, supply := c.GetState()
		amount := rapid.Uint64Range(1, supply).Draw(t, "amount")

		q, err := c.Deposit(amount, math.MaxUint64, math.MaxUint64)
		if errors.Is(err, types.ErrZeroAmount) {
			return
		}
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
		// |actualX * reserveY - actualY * reserveX| < max(reserveX, reserveY)
		lhs, _ := safemath.CheckedMul(safemath.NewInt(q.AmountX), safemath.NewInt(y0))
		rhs, _ := safemath.CheckedMul(safemath.NewInt(q.AmountY), safemath.NewInt(x0))
		if lhs.Cmp(rhs) < 0 {
			lhs, rhs = rhs, lhs
		}
		diff, _ := safemath.CheckedSub(lhs, rhs)
		if diff.Cmp(safemath.NewInt(max(x0, y0))) >= 0 {
			t.Fatalf("deposit of %d x and %d y is not proportional to %d/%d", q.AmountX, q.AmountY, x0, y0)
		}
	})
}

func TestSwapSlippageNeverMutates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawPool(t)
		isXToY := rapid.Bool().Draw(t, "isXToY")
		amountIn := rapid.Uint64Range(1, 1_000_000_000_000).Draw(t, "amountIn")

		x0, y0, s0 := c.GetState()
		reserveIn, reserveOut := x0, y0
		if !isXToY {
			reserveIn, reserveOut = y0, x0
		}
		afterFee, _ := AmountInAfterFee(amountIn, c.fee)
		out, _ := SwapOutput(reserveIn, reserveOut, afterFee)

		_, err := c.Swap(isXToY, amountIn, out+1)
		if !errors.Is(err, types.ErrSlippageExceeded) {
			t.Fatalf("expected slippage, got %v", err)
		}
		x1, y1, s1 := c.GetState()
		if x0 != x1 || y0 != y1 || s0 != s1 {
			t.Fatalf("state moved on slippage failure")
		}
	})
}
