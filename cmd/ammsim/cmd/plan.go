// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Step methods
const (
	MethodKey        = "key"
	MethodCreateMint = "create_mint"
	MethodMintTo     = "mint_to"
	MethodInitialize = "initialize"
	MethodDeposit    = "deposit"
	MethodWithdraw   = "withdraw"
	MethodSwap       = "swap"
	MethodSetLocked  = "set_locked"
	MethodPool       = "pool"
	MethodBalance    = "balance"
)

type Plan struct {
	// The name of the plan.
	Name string `yaml:"name" json:"name"`
	// A description of the plan.
	Description string `yaml:"description" json:"description"`
	// Steps to perform during simulation.
	Steps []Step `yaml:"steps" json:"steps"`
}

type Step struct {
	// Description of the step.
	Description string `yaml:"description" json:"description"`
	// The method to call. (required)
	Method string `yaml:"method" json:"method"`
	// The named key sending the step. Required by every method changing
	// state except key.
	Caller string `yaml:"caller" json:"caller"`
	// The parameters to pass to the method.
	Params Params `yaml:"params" json:"params"`
	// Define required assertions against this step.
	Require *Require `yaml:"require,omitempty" json:"require,omitempty"`
}

// Params are the union of every method's parameters. Names refer to keys
// created with the key method or to mints created with create_mint.
type Params struct {
	Name      string `yaml:"name" json:"name"`
	Mint      string `yaml:"mint" json:"mint"`
	Owner     string `yaml:"owner" json:"owner"`
	MintX     string `yaml:"mint_x" json:"mintX"`
	MintY     string `yaml:"mint_y" json:"mintY"`
	Authority string `yaml:"authority" json:"authority"`

	Seed     uint64 `yaml:"seed" json:"seed"`
	Fee      uint16 `yaml:"fee" json:"fee"`
	Decimals uint8  `yaml:"decimals" json:"decimals"`

	Amount       uint64 `yaml:"amount" json:"amount"`
	MaxX         uint64 `yaml:"max_x" json:"maxX"`
	MaxY         uint64 `yaml:"max_y" json:"maxY"`
	MinX         uint64 `yaml:"min_x" json:"minX"`
	MinY         uint64 `yaml:"min_y" json:"minY"`
	IsX          bool   `yaml:"is_x" json:"isX"`
	AmountIn     uint64 `yaml:"amount_in" json:"amountIn"`
	MinAmountOut uint64 `yaml:"min_amount_out" json:"minAmountOut"`
	Locked       bool   `yaml:"locked" json:"locked"`
}

type Require struct {
	// The step must fail with an error containing this text.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
	// Assertion against a numeric field of the result.
	Result *ResultAssertion `yaml:"result,omitempty" json:"result,omitempty"`
}

type ResultAssertion struct {
	// Dot separated path of the field in the JSON result.
	Field string `yaml:"field" json:"field"`
	// The operator to use for the assertion.
	Operator string `yaml:"operator" json:"operator"`
	// The value to compare against.
	Value string `yaml:"value" json:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

type Response struct {
	// The index of the step that generated this response.
	ID     int    `json:"id"`
	Method string `json:"method"`
	// The result of the step.
	Result any `json:"result,omitempty"`
	// The error message if available.
	Error string `json:"error,omitempty"`
}

func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func compare(actual uint64, op Operator, value uint64) (bool, error) {
	switch op {
	case NumericGt:
		return actual > value, nil
	case NumericLt:
		return actual < value, nil
	case NumericGe:
		return actual >= value, nil
	case NumericLe:
		return actual <= value, nil
	case NumericEq:
		return actual == value, nil
	case NumericNe:
		return actual != value, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
}

// lookup returns the unsigned integer at [field] in the JSON encoding of
// [result].
func lookup(result any, field string) (uint64, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return 0, err
	}
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	var v any
	if err := d.Decode(&v); err != nil {
		return 0, err
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := v.(map[string]any)
		if !ok {
			return 0, fmt.Errorf("%w: %s is not an object", ErrAssertionFailed, field)
		}
		if v, ok = obj[part]; !ok {
			return 0, fmt.Errorf("%w: %s not found", ErrAssertionFailed, field)
		}
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrAssertionFailed, field)
	}
	return strconv.ParseUint(n.String(), 10, 64)
}

// check validates the outcome of step [i] against its requirements.
func (s *Step) check(i int, result any, stepErr error) error {
	if s.Require == nil {
		return nil
	}
	if s.Require.Error != "" {
		if stepErr == nil {
			return fmt.Errorf("%w: step %d succeeded, expected %q", ErrAssertionFailed, i, s.Require.Error)
		}
		if !strings.Contains(stepErr.Error(), s.Require.Error) {
			return fmt.Errorf("%w: step %d failed with %q, expected %q", ErrAssertionFailed, i, stepErr, s.Require.Error)
		}
		return nil
	}
	if stepErr != nil {
		return fmt.Errorf("%w: step %d: %w", ErrAssertionFailed, i, stepErr)
	}
	a := s.Require.Result
	if a == nil {
		return nil
	}
	actual, err := lookup(result, a.Field)
	if err != nil {
		return err
	}
	value, err := strconv.ParseUint(a.Value, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: step %d value %q", ErrInvalidStep, i, a.Value)
	}
	ok, err := compare(actual, Operator(a.Operator), value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: step %d %s = %d, expected %s %d", ErrAssertionFailed, i, a.Field, actual, a.Operator, value)
	}
	return nil
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(b):
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	case isYAML(b):
		if err := yaml.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, nil
}

func isJSON(b []byte) bool {
	var js map[string]any
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]any
	return yaml.Unmarshal(b, &y) == nil
}
