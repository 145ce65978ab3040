// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/hyperamm/actions"
	"github.com/ava-labs/hyperamm/config"
	"github.com/ava-labs/hyperamm/executor"
	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/token"
	"github.com/ava-labs/hyperamm/tstate"
	"github.com/ava-labs/hyperamm/types"
)

const unknownAction = "unknown"

// Transaction is an action sent by an authenticated actor.
type Transaction struct {
	Actor  solana.PublicKey
	Action actions.Action
}

// Outcome is the result of a single transaction of a batch. Exactly one of
// [Result] and [Err] is set.
type Outcome struct {
	Result actions.Result
	Err    error
}

// PoolState is a read-only snapshot of a pool.
type PoolState struct {
	Address  solana.PublicKey `json:"address"`
	Config   *pool.Config     `json:"config"`
	Reserves *pool.Reserves   `json:"reserves"`
}

// Program executes pool program transactions against a database. Every
// batch is applied atomically and batches are applied one at a time.
type Program struct {
	log    logging.Logger
	tracer trace.Tracer
	db     state.Database
	parser *actions.Parser

	metrics *metrics

	executorConcurrency int
	maxBatchSize        int

	l sync.Mutex
}

func New(
	cfg *config.Config,
	db state.Database,
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
) (*Program, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	parser, err := actions.DefaultParser()
	if err != nil {
		return nil, err
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register program metrics: %w", err)
	}
	return &Program{
		log:                 log,
		tracer:              tracer,
		db:                  db,
		parser:              parser,
		metrics:             metrics,
		executorConcurrency: cfg.ExecutorConcurrency,
		maxBatchSize:        cfg.MaxBatchSize,
	}, nil
}

func (p *Program) Parser() *actions.Parser {
	return p.parser
}

// Execute runs a single transaction and persists its changes on success.
func (p *Program) Execute(ctx context.Context, tx *Transaction) (actions.Result, error) {
	outcomes, err := p.ExecuteBatch(ctx, []*Transaction{tx})
	if err != nil {
		return nil, err
	}
	return outcomes[0].Result, outcomes[0].Err
}

// ExecuteInstruction decodes [data] and runs it on behalf of [actor].
func (p *Program) ExecuteInstruction(ctx context.Context, actor solana.PublicKey, data []byte) (actions.Result, error) {
	action, err := p.parser.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return p.Execute(ctx, &Transaction{Actor: actor, Action: action})
}

// ExecuteBatch runs [txs] and writes the changes of every successful
// transaction to the database in a single write. Transactions touching the
// same keys run in submission order; the others run concurrently.
//
// A failed transaction leaves no trace in state and does not affect the rest
// of the batch. The returned error is only set if the batch as a whole could
// not be applied.
func (p *Program) ExecuteBatch(ctx context.Context, txs []*Transaction) ([]*Outcome, error) {
	if len(txs) > p.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(txs), p.maxBatchSize)
	}
	for i, tx := range txs {
		if tx == nil || tx.Action == nil {
			return nil, fmt.Errorf("%w: %d", ErrNilAction, i)
		}
	}

	ctx, span := p.tracer.Start(ctx, "Program.ExecuteBatch", oteltrace.WithAttributes(
		attribute.Int("txs", len(txs)),
	))
	defer span.End()

	p.l.Lock()
	defer p.l.Unlock()

	var (
		ts       = tstate.New(p.db, len(txs)*8)
		e        = executor.New(len(txs), p.executorConcurrency, p.metrics)
		outcomes = make([]*Outcome, len(txs))
	)
	for i, tx := range txs {
		stateKeys := tx.Action.StateKeys(tx.Actor)
		e.Run(stateKeys, func() error {
			outcomes[i] = p.execute(ctx, ts, stateKeys, tx)
			return nil
		})
	}
	if err := e.Wait(); err != nil {
		return nil, err
	}
	if err := ts.Write(ctx, p.db); err != nil {
		return nil, err
	}

	p.metrics.batches.Inc()
	p.metrics.batchSize.Observe(float64(len(txs)))
	p.log.Debug("executed batch",
		zap.Int("txs", len(txs)),
		zap.Int("changedKeys", ts.PendingChanges()),
		zap.Int("ops", ts.OpIndex()),
	)
	return outcomes, nil
}

func (p *Program) execute(ctx context.Context, ts *tstate.TState, stateKeys state.Keys, tx *Transaction) *Outcome {
	name, ok := p.parser.Name(tx.Action)
	if !ok {
		name = unknownAction
	}
	ctx, span := p.tracer.Start(ctx, "Program.Execute", oteltrace.WithAttributes(
		attribute.String("action", name),
		attribute.String("actor", tx.Actor.String()),
	))
	defer span.End()

	start := time.Now()
	view := ts.NewView(stateKeys)
	result, err := tx.Action.Execute(ctx, view, tx.Actor)
	p.metrics.txLatency.WithLabelValues(name).Observe(float64(time.Since(start)))
	if err != nil {
		view.Rollback(ctx, 0)
		span.RecordError(err)
		p.metrics.txs.WithLabelValues(name, statusFailure).Inc()
		p.metrics.errors.WithLabelValues(strconv.FormatUint(uint64(types.Code(err)), 10)).Inc()
		p.log.Debug("transaction failed",
			zap.String("action", name),
			zap.Stringer("actor", tx.Actor),
			zap.Error(err),
		)
		return &Outcome{Err: err}
	}
	view.Commit()

	p.metrics.txs.WithLabelValues(name, statusSuccess).Inc()
	if swap, ok := tx.Action.(*actions.Swap); ok {
		side := "y"
		if swap.IsX {
			side = "x"
		}
		p.metrics.swapVolume.WithLabelValues(side).Add(float64(swap.AmountIn))
	}
	p.log.Debug("transaction executed",
		zap.String("action", name),
		zap.Stringer("actor", tx.Actor),
		zap.Any("result", result),
	)
	return &Outcome{Result: result}
}

// Pool returns the config and reserves of the pool at [config].
func (p *Program) Pool(ctx context.Context, config solana.PublicKey) (*PoolState, error) {
	p.l.Lock()
	defer p.l.Unlock()

	cfg, err := pool.GetConfig(ctx, p.db, config)
	if err != nil {
		return nil, err
	}
	if err := cfg.VerifyConfig(config); err != nil {
		return nil, err
	}
	reserves, err := pool.GetReserves(ctx, p.db, config, cfg)
	if err != nil {
		return nil, err
	}
	return &PoolState{
		Address:  config,
		Config:   cfg,
		Reserves: reserves,
	}, nil
}

// Balance returns the amount held by the token account [account].
func (p *Program) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	p.l.Lock()
	defer p.l.Unlock()

	return token.Balance(ctx, p.db, account)
}
