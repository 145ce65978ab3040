// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import "errors"

var (
	ErrBatchTooLarge = errors.New("batch too large")
	ErrNilAction     = errors.New("transaction has no action")
)
