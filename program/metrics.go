// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/hyperamm/executor"
)

const namespace = "amm"

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

var _ executor.Metrics = (*metrics)(nil)

type metrics struct {
	txs        *prometheus.CounterVec
	txLatency  *prometheus.HistogramVec
	swapVolume *prometheus.CounterVec
	errors     *prometheus.CounterVec

	batches          prometheus.Counter
	batchSize        prometheus.Histogram
	executorBlocked  prometheus.Counter
	executorRunnable prometheus.Counter
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs",
			Help:      "number of executed transactions",
		}, []string{"action", "status"}),
		txLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tx_latency",
			Help:      "time spent executing a transaction (ns)",
			Buckets:   prometheus.ExponentialBuckets(1_000, 4, 10),
		}, []string{"action"}),
		swapVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_volume",
			Help:      "sum of the input amounts of successful swaps",
		}, []string{"side"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors",
			Help:      "number of failed transactions by error code",
		}, []string{"code"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches",
			Help:      "number of executed batches",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "number of transactions per batch",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		executorBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executor_blocked",
			Help:      "transactions that waited on a conflicting transaction",
		}),
		executorRunnable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executor_executable",
			Help:      "transactions that could run immediately",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txs),
		r.Register(m.txLatency),
		r.Register(m.swapVolume),
		r.Register(m.errors),
		r.Register(m.batches),
		r.Register(m.batchSize),
		r.Register(m.executorBlocked),
		r.Register(m.executorRunnable),
	)
	return m, errs.Err
}

func (m *metrics) RecordBlocked() {
	m.executorBlocked.Inc()
}

func (m *metrics) RecordExecutable() {
	m.executorRunnable.Inc()
}
