// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

// Model prices deposits, withdrawals and swaps against a pool's reserves.
type Model interface {
	Deposit(amount uint64, maxX uint64, maxY uint64) (*DepositQuote, error)
	Withdraw(amount uint64, minX uint64, minY uint64) (*WithdrawQuote, error)
	Swap(isXToY bool, amountIn uint64, minAmountOut uint64) (*SwapQuote, error)
	GetState() (reserveX uint64, reserveY uint64, lpSupply uint64)
}

type DepositQuote struct {
	LPMinted uint64 `json:"lpMinted"`
	AmountX  uint64 `json:"amountX"`
	AmountY  uint64 `json:"amountY"`
}

type WithdrawQuote struct {
	AmountX uint64 `json:"amountX"`
	AmountY uint64 `json:"amountY"`
}

type SwapQuote struct {
	AmountIn         uint64 `json:"amountIn"`
	AmountInAfterFee uint64 `json:"amountInAfterFee"`
	AmountOut        uint64 `json:"amountOut"`
}
