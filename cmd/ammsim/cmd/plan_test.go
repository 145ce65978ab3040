// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const scenarioPlan = `
name: scenario
description: deposit, withdraw and swap against a fresh pool
steps:
  - method: key
    params:
      name: alice
  - method: create_mint
    caller: alice
    params:
      mint: x
      decimals: 6
  - method: create_mint
    caller: alice
    params:
      mint: y
      decimals: 6
  - method: mint_to
    caller: alice
    params:
      mint: x
      owner: alice
      amount: 2000000000
  - method: mint_to
    caller: alice
    params:
      mint: y
      owner: alice
      amount: 2000000000
  - method: initialize
    caller: alice
    params:
      seed: 1234
      fee: 300
      mint_x: x
      mint_y: y
      authority: alice
  - method: deposit
    caller: alice
    params:
      seed: 1234
      mint_x: x
      mint_y: y
      amount: 1000000000
      max_x: 900000000
      max_y: 1100000000
    require:
      result:
        field: lpMinted
        operator: "=="
        value: "994987437"
  - method: withdraw
    caller: alice
    params:
      seed: 1234
      mint_x: x
      mint_y: y
      amount: 100000000
      min_x: 90000000
      min_y: 110000000
    require:
      result:
        field: amountY
        operator: "=="
        value: "110554159"
  - method: swap
    caller: alice
    params:
      seed: 1234
      mint_x: x
      mint_y: y
      is_x: false
      amount_in: 100000000
      min_amount_out: 70000000
    require:
      result:
        field: amountOut
        operator: "=="
        value: "72277896"
  - method: swap
    caller: alice
    params:
      seed: 1234
      mint_x: x
      mint_y: y
      is_x: true
      amount_in: 1000000
      min_amount_out: 2000000
    require:
      error: slippage exceeded
  - method: set_locked
    caller: alice
    params:
      seed: 1234
      locked: true
  - method: swap
    caller: alice
    params:
      seed: 1234
      mint_x: x
      mint_y: y
      is_x: true
      amount_in: 1000000
    require:
      error: pool is locked
  - method: pool
    params:
      seed: 1234
    require:
      result:
        field: reserves.x
        operator: "=="
        value: "737268701"
  - method: balance
    params:
      owner: alice
      mint: x
    require:
      result:
        field: balance
        operator: "=="
        value: "1262731299"
`

func execute(t *testing.T, dir string, args ...string) (string, error) {
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs(append([]string{
		"--db-dir", filepath.Join(dir, "db"),
		"--log-dir", filepath.Join(dir, "logs"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writePlan(t *testing.T, plan string) string {
	path := filepath.Join(t.TempDir(), "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte(plan), 0o600))
	return path
}

func TestRunScenario(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	out, err := execute(t, dir, "--cleanup", "run", writePlan(t, scenarioPlan))
	require.NoError(err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(lines, 14)
	for i, line := range lines {
		var resp Response
		require.NoError(json.Unmarshal([]byte(line), &resp))
		require.Equal(i, resp.ID)
		switch i {
		case 9:
			require.Contains(resp.Error, "slippage exceeded")
		case 11:
			require.Contains(resp.Error, "pool is locked")
		default:
			require.Empty(resp.Error)
			require.NotNil(resp.Result)
		}
	}

	_, err = os.Stat(filepath.Join(dir, "db"))
	require.ErrorIs(err, os.ErrNotExist)
}

func TestRunFailedAssertion(t *testing.T) {
	require := require.New(t)

	plan := `
steps:
  - method: key
    params:
      name: bob
  - method: create_mint
    caller: bob
    params:
      mint: x
    require:
      error: unauthorized
`
	_, err := execute(t, t.TempDir(), "--cleanup", "run", writePlan(t, plan))
	require.ErrorIs(err, ErrAssertionFailed)
}

func TestRunUnknownCaller(t *testing.T) {
	require := require.New(t)

	plan := `{"steps":[{"method":"create_mint","caller":"nobody","params":{"mint":"x"}}]}`
	out, err := execute(t, t.TempDir(), "--cleanup", "run", writePlan(t, plan))
	require.NoError(err)
	require.Contains(out, ErrNamedKeyNotFound.Error())
}

func TestVerifyPlan(t *testing.T) {
	tests := []struct {
		name string
		plan *Plan
		err  error
	}{
		{
			name: "empty",
			plan: &Plan{},
			err:  ErrInvalidPlan,
		},
		{
			name: "unknown method",
			plan: &Plan{Steps: []Step{{Method: "transfer"}}},
			err:  ErrInvalidMethod,
		},
		{
			name: "missing caller",
			plan: &Plan{Steps: []Step{{Method: MethodSwap}}},
			err:  ErrInvalidStep,
		},
		{
			name: "key without name",
			plan: &Plan{Steps: []Step{{Method: MethodKey}}},
			err:  ErrInvalidStep,
		},
		{
			name: "valid",
			plan: &Plan{Steps: []Step{
				{Method: MethodKey, Params: Params{Name: "alice"}},
				{Method: MethodPool},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, verifyPlan(tt.plan), tt.err)
		})
	}
}

func TestKeyCommands(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	created, err := execute(t, dir, "key", "create", "alice")
	require.NoError(err)

	_, err = execute(t, dir, "key", "create", "alice")
	require.ErrorIs(err, ErrDuplicateKeyName)

	address, err := execute(t, dir, "key", "address", "alice")
	require.NoError(err)
	require.Equal(created, address)

	_, err = execute(t, dir, "key", "address", "bob")
	require.ErrorIs(err, ErrNamedKeyNotFound)
}

func TestPoolCommandUnknownPool(t *testing.T) {
	_, err := execute(t, t.TempDir(), "--cleanup", "pool", "7")
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		op       Operator
		actual   uint64
		value    uint64
		expected bool
	}{
		{NumericGt, 2, 1, true},
		{NumericGt, 1, 1, false},
		{NumericLt, 1, 2, true},
		{NumericGe, 1, 1, true},
		{NumericLe, 2, 1, false},
		{NumericEq, 5, 5, true},
		{NumericNe, 5, 5, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			ok, err := compare(tt.actual, tt.op, tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.expected, ok)
		})
	}

	_, err := compare(1, "~", 1)
	require.ErrorIs(t, err, ErrInvalidOperator)
}

func TestLookup(t *testing.T) {
	require := require.New(t)

	result := map[string]any{
		"reserves": map[string]any{"lpSupply": uint64(894_987_437)},
		"name":     "pool",
	}
	v, err := lookup(result, "reserves.lpSupply")
	require.NoError(err)
	require.Equal(uint64(894_987_437), v)

	_, err = lookup(result, "reserves.x")
	require.ErrorIs(err, ErrAssertionFailed)
	_, err = lookup(result, "name")
	require.ErrorIs(err, ErrAssertionFailed)
	_, err = lookup(result, "name.first")
	require.ErrorIs(err, ErrAssertionFailed)
}

func TestCheck(t *testing.T) {
	require := require.New(t)

	boom := errors.New("boom")
	step := &Step{}
	require.NoError(step.check(0, nil, boom))

	step.Require = &Require{Error: "boom"}
	require.NoError(step.check(0, nil, boom))
	require.ErrorIs(step.check(0, nil, nil), ErrAssertionFailed)
	require.ErrorIs(step.check(0, nil, errors.New("other")), ErrAssertionFailed)

	step.Require = &Require{Result: &ResultAssertion{Field: "balance", Operator: ">=", Value: "10"}}
	require.NoError(step.check(0, map[string]uint64{"balance": 10}, nil))
	require.ErrorIs(step.check(0, map[string]uint64{"balance": 9}, nil), ErrAssertionFailed)
	require.ErrorIs(step.check(0, nil, boom), ErrAssertionFailed)

	step.Require.Result.Value = "ten"
	require.ErrorIs(step.check(0, map[string]uint64{"balance": 10}, nil), ErrInvalidStep)
}

func TestUnmarshalPlan(t *testing.T) {
	require := require.New(t)

	p, err := unmarshalPlan([]byte(`{"name":"json","steps":[{"method":"pool","params":{"seed":3}}]}`))
	require.NoError(err)
	require.Equal("json", p.Name)
	require.Equal(uint64(3), p.Steps[0].Params.Seed)

	p, err = unmarshalPlan([]byte("name: yaml\nsteps:\n  - method: swap\n    params:\n      is_x: true\n      amount_in: 5\n"))
	require.NoError(err)
	require.Equal("yaml", p.Name)
	require.True(p.Steps[0].Params.IsX)
	require.Equal(uint64(5), p.Steps[0].Params.AmountIn)

	_, err = unmarshalPlan([]byte("- not\n- a\n- plan\n"))
	require.ErrorIs(err, ErrInvalidConfigFormat)
}
