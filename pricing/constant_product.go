// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/safemath"
	"github.com/ava-labs/hyperamm/types"
)

var _ Model = (*ConstantProduct)(nil)

// ConstantProduct prices against x*y=k. The fee is charged on the input side
// in basis points and stays in the pool.
//
// A failed call leaves the model unchanged.
type ConstantProduct struct {
	reserveX uint64
	reserveY uint64
	lpSupply uint64
	fee      uint16
}

func NewConstantProduct(reserveX uint64, reserveY uint64, lpSupply uint64, fee uint16) *ConstantProduct {
	return &ConstantProduct{
		reserveX: reserveX,
		reserveY: reserveY,
		lpSupply: lpSupply,
		fee:      fee,
	}
}

// Deposit quotes minting [amount] LP tokens. The first deposit into an empty
// pool takes [maxX] and [maxY] as given and mints sqrt(maxX*maxY); [amount]
// only has to be non-zero.
func (c *ConstantProduct) Deposit(amount uint64, maxX uint64, maxY uint64) (*DepositQuote, error) {
	if amount == 0 {
		return nil, errorsmod.Wrap(types.ErrZeroAmount, "lp amount")
	}

	var q DepositQuote
	if c.lpSupply == 0 {
		if c.reserveX != 0 || c.reserveY != 0 {
			return nil, errorsmod.Wrapf(types.ErrInvalidAccount, "pool without liquidity holds %d x and %d y", c.reserveX, c.reserveY)
		}
		if maxX == 0 || maxY == 0 {
			return nil, errorsmod.Wrap(types.ErrZeroAmount, "first deposit needs both tokens")
		}
		product, err := safemath.CheckedMul(safemath.NewInt(maxX), safemath.NewInt(maxY))
		if err != nil {
			return nil, err
		}
		lp, err := safemath.IntegerSqrt(product).Uint64()
		if err != nil {
			return nil, err
		}
		q = DepositQuote{LPMinted: lp, AmountX: maxX, AmountY: maxY}
	} else {
		x, err := safemath.MulDivFloor64(amount, c.reserveX, c.lpSupply)
		if err != nil {
			return nil, err
		}
		y, err := safemath.MulDivFloor64(amount, c.reserveY, c.lpSupply)
		if err != nil {
			return nil, err
		}
		if x > maxX || y > maxY {
			return nil, errorsmod.Wrapf(types.ErrSlippageExceeded, "deposit needs %d x and %d y, max %d x and %d y", x, y, maxX, maxY)
		}
		if x == 0 || y == 0 {
			return nil, errorsmod.Wrapf(types.ErrZeroAmount, "%d lp rounds to %d x and %d y", amount, x, y)
		}
		q = DepositQuote{LPMinted: amount, AmountX: x, AmountY: y}
	}

	reserveX, err := safemath.Add64(c.reserveX, q.AmountX)
	if err != nil {
		return nil, err
	}
	reserveY, err := safemath.Add64(c.reserveY, q.AmountY)
	if err != nil {
		return nil, err
	}
	lpSupply, err := safemath.Add64(c.lpSupply, q.LPMinted)
	if err != nil {
		return nil, err
	}
	c.reserveX, c.reserveY, c.lpSupply = reserveX, reserveY, lpSupply
	return &q, nil
}

// Withdraw quotes burning [amount] LP tokens for a proportional share of
// both reserves.
func (c *ConstantProduct) Withdraw(amount uint64, minX uint64, minY uint64) (*WithdrawQuote, error) {
	if amount == 0 {
		return nil, errorsmod.Wrap(types.ErrZeroAmount, "lp amount")
	}
	if amount > c.lpSupply {
		return nil, errorsmod.Wrapf(types.ErrInsufficientBalance, "lp supply is %d, withdrawing %d", c.lpSupply, amount)
	}
	x, err := safemath.MulDivFloor64(amount, c.reserveX, c.lpSupply)
	if err != nil {
		return nil, err
	}
	y, err := safemath.MulDivFloor64(amount, c.reserveY, c.lpSupply)
	if err != nil {
		return nil, err
	}
	if x < minX || y < minY {
		return nil, errorsmod.Wrapf(types.ErrSlippageExceeded, "withdraw returns %d x and %d y, min %d x and %d y", x, y, minX, minY)
	}
	c.reserveX -= x
	c.reserveY -= y
	c.lpSupply -= amount
	return &WithdrawQuote{AmountX: x, AmountY: y}, nil
}

// Swap quotes selling [amountIn] of X (or Y if ![isXToY]) for the other
// token. An empty pool cannot be traded against.
func (c *ConstantProduct) Swap(isXToY bool, amountIn uint64, minAmountOut uint64) (*SwapQuote, error) {
	if amountIn == 0 {
		return nil, errorsmod.Wrap(types.ErrZeroAmount, "amount in")
	}
	if c.lpSupply == 0 {
		return nil, errorsmod.Wrap(types.ErrZeroAmount, "pool has no liquidity")
	}
	reserveIn, reserveOut := c.reserveX, c.reserveY
	if !isXToY {
		reserveIn, reserveOut = reserveOut, reserveIn
	}
	afterFee, err := AmountInAfterFee(amountIn, c.fee)
	if err != nil {
		return nil, err
	}
	out, err := SwapOutput(reserveIn, reserveOut, afterFee)
	if err != nil {
		return nil, err
	}
	if out < minAmountOut {
		return nil, errorsmod.Wrapf(types.ErrSlippageExceeded, "swap returns %d, min %d", out, minAmountOut)
	}
	if out == 0 {
		return nil, errorsmod.Wrapf(types.ErrZeroAmount, "%d in returns nothing", amountIn)
	}
	newIn, err := safemath.Add64(reserveIn, amountIn)
	if err != nil {
		return nil, err
	}
	newOut := reserveOut - out
	if isXToY {
		c.reserveX, c.reserveY = newIn, newOut
	} else {
		c.reserveX, c.reserveY = newOut, newIn
	}
	return &SwapQuote{
		AmountIn:         amountIn,
		AmountInAfterFee: afterFee,
		AmountOut:        out,
	}, nil
}

func (c *ConstantProduct) GetState() (uint64, uint64, uint64) {
	return c.reserveX, c.reserveY, c.lpSupply
}

// AmountInAfterFee returns floor(amountIn * (10000 - fee) / 10000).
func AmountInAfterFee(amountIn uint64, fee uint16) (uint64, error) {
	if fee >= consts.FeeDenominator {
		return 0, errorsmod.Wrapf(types.ErrInvalidFee, "fee %d", fee)
	}
	return safemath.MulDivFloor64(amountIn, uint64(consts.FeeDenominator-fee), uint64(consts.FeeDenominator))
}

// SwapOutput returns floor(reserveOut * amountIn / (reserveIn + amountIn)).
func SwapOutput(reserveIn uint64, reserveOut uint64, amountIn uint64) (uint64, error) {
	denom, err := safemath.CheckedAdd(safemath.NewInt(reserveIn), safemath.NewInt(amountIn))
	if err != nil {
		return 0, err
	}
	if denom.IsZero() {
		return 0, nil
	}
	out, err := safemath.MulDivFloor(safemath.NewInt(reserveOut), safemath.NewInt(amountIn), denom)
	if err != nil {
		return 0, err
	}
	return out.Uint64()
}

// SwapOutputByInvariant computes the swap output as
// reserveOut - floor(reserveIn * reserveOut / (reserveIn + amountIn)). It
// rounds up where [SwapOutput] rounds down, so it is at most one unit larger
// and is only used to cross-check it.
func SwapOutputByInvariant(reserveIn uint64, reserveOut uint64, amountIn uint64) (uint64, error) {
	k, err := safemath.CheckedMul(safemath.NewInt(reserveIn), safemath.NewInt(reserveOut))
	if err != nil {
		return 0, err
	}
	denom, err := safemath.CheckedAdd(safemath.NewInt(reserveIn), safemath.NewInt(amountIn))
	if err != nil {
		return 0, err
	}
	if denom.IsZero() {
		return 0, nil
	}
	newOut, err := safemath.CheckedDiv(k, denom)
	if err != nil {
		return 0, err
	}
	out, err := safemath.CheckedSub(safemath.NewInt(reserveOut), newOut)
	if err != nil {
		return 0, err
	}
	return out.Uint64()
}
