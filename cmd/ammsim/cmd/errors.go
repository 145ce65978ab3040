// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrDuplicateKeyName    = errors.New("duplicate key name")
	ErrNamedKeyNotFound    = errors.New("named key not found")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrInvalidMethod       = errors.New("invalid method")
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrInvalidOperator     = errors.New("invalid operator")
	ErrAssertionFailed     = errors.New("assertion failed")
)
