// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperamm/actions"
	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/program"
	"github.com/ava-labs/hyperamm/token"
)

type keyResult struct {
	Name    string           `json:"name"`
	Address solana.PublicKey `json:"address"`
}

type balanceResult struct {
	Account solana.PublicKey `json:"account"`
	Balance uint64           `json:"balance"`
}

func newRunCmd(s *simulator) *cobra.Command {
	return &cobra.Command{
		Use:   "run [path]",
		Short: "Run a simulation plan, - reads the plan from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if err := verifyPlan(plan); err != nil {
				return err
			}
			return s.with(cmd.Context(), func(ctx context.Context) error {
				return s.runPlan(ctx, plan, cmd.OutOrStdout())
			})
		},
	}
}

func readPlan(stdin io.Reader, path string) (*Plan, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalPlan(b)
}

func verifyPlan(plan *Plan) error {
	if len(plan.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i, step := range plan.Steps {
		switch step.Method {
		case MethodKey:
			if step.Params.Name == "" {
				return fmt.Errorf("%w %d: key needs a name", ErrInvalidStep, i)
			}
		case MethodPool:
		case MethodBalance:
			if step.Params.Owner == "" || step.Params.Mint == "" {
				return fmt.Errorf("%w %d: balance needs an owner and a mint", ErrInvalidStep, i)
			}
		case MethodCreateMint, MethodMintTo, MethodInitialize, MethodDeposit, MethodWithdraw, MethodSwap, MethodSetLocked:
			if step.Caller == "" {
				return fmt.Errorf("%w %d: %s needs a caller", ErrInvalidStep, i, step.Method)
			}
		default:
			return fmt.Errorf("%w %d: %q", ErrInvalidMethod, i, step.Method)
		}
	}
	return nil
}

func (s *simulator) runPlan(ctx context.Context, plan *Plan, out io.Writer) error {
	s.log.Info("simulation",
		zap.String("plan", plan.Name),
		zap.String("description", plan.Description),
	)
	for i := range plan.Steps {
		step := &plan.Steps[i]
		s.log.Info("simulation",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("method", step.Method),
			zap.String("caller", step.Caller),
			zap.Any("params", step.Params),
		)

		result, stepErr := s.runStep(ctx, step)
		resp := &Response{ID: i, Method: step.Method, Result: result}
		if stepErr != nil {
			resp.Result = nil
			resp.Error = stepErr.Error()
		}
		if err := resp.Print(out); err != nil {
			return err
		}
		if err := step.check(i, result, stepErr); err != nil {
			return err
		}
	}
	return nil
}

func (s *simulator) runStep(ctx context.Context, step *Step) (any, error) {
	p := &step.Params
	switch step.Method {
	case MethodKey:
		addr, err := keyCreateFunc(ctx, s.db, p.Name)
		if err != nil {
			return nil, err
		}
		return &keyResult{Name: p.Name, Address: addr}, nil
	case MethodPool:
		config, _, err := pool.ConfigAddress(p.Seed)
		if err != nil {
			return nil, err
		}
		return s.program.Pool(ctx, config)
	case MethodBalance:
		return s.balance(ctx, p.Owner, p.Mint)
	}

	caller, err := s.caller(ctx, step.Caller)
	if err != nil {
		return nil, err
	}
	if step.Method == MethodCreateMint {
		return s.createMint(ctx, caller, p)
	}
	action, err := s.action(ctx, caller, step.Method, p)
	if err != nil {
		return nil, err
	}
	return s.program.Execute(ctx, &program.Transaction{Actor: caller, Action: action})
}

func (s *simulator) caller(ctx context.Context, name string) (solana.PublicKey, error) {
	priv, ok, err := GetKey(ctx, s.db, name)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, name)
	}
	return priv.PublicKey(), nil
}

func (s *simulator) balance(ctx context.Context, ownerName string, mintName string) (*balanceResult, error) {
	owner, err := resolve(ctx, s.db, ownerName)
	if err != nil {
		return nil, err
	}
	mint, err := resolve(ctx, s.db, mintName)
	if err != nil {
		return nil, err
	}
	account, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	balance, err := s.program.Balance(ctx, account)
	if err != nil {
		return nil, err
	}
	return &balanceResult{Account: account, Balance: balance}, nil
}

// createMint registers a fresh mint address under [p.Mint] once the mint
// exists on chain.
func (s *simulator) createMint(ctx context.Context, caller solana.PublicKey, p *Params) (actions.Result, error) {
	if _, ok, err := GetAlias(ctx, s.db, p.Mint); err != nil {
		return nil, err
	} else if ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateKeyName, p.Mint)
	}
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	mint := priv.PublicKey()
	result, err := s.program.Execute(ctx, &program.Transaction{
		Actor:  caller,
		Action: &actions.CreateMint{Mint: mint, Decimals: p.Decimals},
	})
	if err != nil {
		return nil, err
	}
	if err := SetAlias(ctx, s.db, p.Mint, mint); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *simulator) action(ctx context.Context, caller solana.PublicKey, method string, p *Params) (actions.Action, error) {
	switch method {
	case MethodMintTo:
		mint, err := resolve(ctx, s.db, p.Mint)
		if err != nil {
			return nil, err
		}
		owner, err := resolve(ctx, s.db, p.Owner)
		if err != nil {
			return nil, err
		}
		return actions.NewMintTo(mint, owner, p.Amount)
	case MethodSetLocked:
		config, _, err := pool.ConfigAddress(p.Seed)
		if err != nil {
			return nil, err
		}
		return &actions.SetLocked{Config: config, Locked: p.Locked}, nil
	}

	mintX, err := resolve(ctx, s.db, p.MintX)
	if err != nil {
		return nil, err
	}
	mintY, err := resolve(ctx, s.db, p.MintY)
	if err != nil {
		return nil, err
	}
	if method == MethodInitialize {
		var authority *solana.PublicKey
		if p.Authority != "" {
			a, err := resolve(ctx, s.db, p.Authority)
			if err != nil {
				return nil, err
			}
			authority = &a
		}
		return actions.NewInitialize(p.Seed, p.Fee, authority, mintX, mintY)
	}

	accounts, err := actions.NewLiquidityAccounts(p.Seed, mintX, mintY, caller)
	if err != nil {
		return nil, err
	}
	switch method {
	case MethodDeposit:
		return &actions.Deposit{Amount: p.Amount, MaxX: p.MaxX, MaxY: p.MaxY, Accounts: *accounts}, nil
	case MethodWithdraw:
		return &actions.Withdraw{Amount: p.Amount, MinX: p.MinX, MinY: p.MinY, Accounts: *accounts}, nil
	case MethodSwap:
		return &actions.Swap{IsX: p.IsX, AmountIn: p.AmountIn, MinAmountOut: p.MinAmountOut, Accounts: accounts.SwapAccounts()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
}
