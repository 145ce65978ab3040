// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package safemath implements the checked fixed-point arithmetic the pool
// program computes with. Every operation either returns the exact result
// or an error wrapping [types.ErrArithmetic]; nothing wraps around.
package safemath

import (
	"errors"

	"github.com/holiman/uint256"

	errorsmod "cosmossdk.io/errors"
	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/hyperamm/types"
)

// Bits is the width of the values [Int] can hold.
const Bits = 128

var (
	ErrOverflow       = errorsmod.Wrap(types.ErrArithmetic, "overflow")
	ErrUnderflow      = errorsmod.Wrap(types.ErrArithmetic, "underflow")
	ErrDivisionByZero = errorsmod.Wrap(types.ErrArithmetic, "division by zero")
)

// Int is an unsigned integer of at most [Bits] bits. The zero value is 0.
type Int struct {
	v uint256.Int
}

func NewInt(x uint64) Int {
	var i Int
	i.v.SetUint64(x)
	return i
}

func fromU256(v *uint256.Int) (Int, error) {
	if v.BitLen() > Bits {
		return Int{}, ErrOverflow
	}
	return Int{v: *v}, nil
}

func (i Int) IsZero() bool {
	return i.v.IsZero()
}

// Cmp returns -1, 0 or 1 if [i] is less than, equal to or greater than [j].
func (i Int) Cmp(j Int) int {
	return i.v.Cmp(&j.v)
}

// Uint64 narrows [i], failing if it does not fit in 64 bits.
func (i Int) Uint64() (uint64, error) {
	if !i.v.IsUint64() {
		return 0, ErrOverflow
	}
	return i.v.Uint64(), nil
}

func (i Int) String() string {
	return i.v.Dec()
}

func CheckedAdd(a, b Int) (Int, error) {
	var z uint256.Int
	if _, overflow := z.AddOverflow(&a.v, &b.v); overflow {
		return Int{}, ErrOverflow
	}
	return fromU256(&z)
}

func CheckedSub(a, b Int) (Int, error) {
	if a.v.Lt(&b.v) {
		return Int{}, ErrUnderflow
	}
	var z uint256.Int
	z.Sub(&a.v, &b.v)
	return Int{v: z}, nil
}

func CheckedMul(a, b Int) (Int, error) {
	var z uint256.Int
	if _, overflow := z.MulOverflow(&a.v, &b.v); overflow {
		return Int{}, ErrOverflow
	}
	return fromU256(&z)
}

// CheckedDiv returns floor(a / b).
func CheckedDiv(a, b Int) (Int, error) {
	if b.v.IsZero() {
		return Int{}, ErrDivisionByZero
	}
	var z uint256.Int
	z.Div(&a.v, &b.v)
	return Int{v: z}, nil
}

// IntegerSqrt returns floor(sqrt(n)).
func IntegerSqrt(n Int) Int {
	var z uint256.Int
	z.Sqrt(&n.v)
	return Int{v: z}
}

// MulDivFloor returns floor(a * b / c). The product is held in 256 bits so
// only a quotient wider than [Bits] overflows.
func MulDivFloor(a, b, c Int) (Int, error) {
	if c.v.IsZero() {
		return Int{}, ErrDivisionByZero
	}
	var z uint256.Int
	z.Mul(&a.v, &b.v)
	z.Div(&z, &c.v)
	return fromU256(&z)
}

// MulDivFloor64 is [MulDivFloor] on 64-bit operands with a 64-bit result.
func MulDivFloor64(a, b, c uint64) (uint64, error) {
	z, err := MulDivFloor(NewInt(a), NewInt(b), NewInt(c))
	if err != nil {
		return 0, err
	}
	return z.Uint64()
}

// Add64 adds two token amounts.
func Add64(a, b uint64) (uint64, error) {
	return wrap64(smath.Add(a, b))
}

// Sub64 subtracts [b] from [a].
func Sub64(a, b uint64) (uint64, error) {
	return wrap64(smath.Sub(a, b))
}

// Mul64 multiplies two token amounts.
func Mul64(a, b uint64) (uint64, error) {
	return wrap64(smath.Mul(a, b))
}

func wrap64(v uint64, err error) (uint64, error) {
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, smath.ErrUnderflow):
		return 0, ErrUnderflow
	default:
		return 0, ErrOverflow
	}
}
