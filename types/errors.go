// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Codespace is the namespace all pool program error codes are registered in.
const Codespace = "amm"

var (
	ErrArithmetic          = errorsmod.Register(Codespace, 1, "arithmetic overflow, underflow or division by zero")
	ErrInvalidFee          = errorsmod.Register(Codespace, 2, "fee must be less than 10000 basis points")
	ErrDuplicateMint       = errorsmod.Register(Codespace, 3, "mint x and mint y are identical")
	ErrInvalidAccount      = errorsmod.Register(Codespace, 4, "invalid account")
	ErrPoolLocked          = errorsmod.Register(Codespace, 5, "pool is locked")
	ErrZeroAmount          = errorsmod.Register(Codespace, 6, "amount is zero")
	ErrInsufficientBalance = errorsmod.Register(Codespace, 7, "insufficient balance")
	ErrSlippageExceeded    = errorsmod.Register(Codespace, 8, "slippage exceeded")
	ErrUnauthorized        = errorsmod.Register(Codespace, 9, "unauthorized")
	ErrUnknownInstruction  = errorsmod.Register(Codespace, 10, "unknown instruction")
)

// Code returns the registered code of the first pool program error in
// [err]'s chain, or 0 if there is none.
func Code(err error) uint32 {
	var e *errorsmod.Error
	if !errors.As(err, &e) || e.Codespace() != Codespace {
		return 0
	}
	return e.ABCICode()
}
