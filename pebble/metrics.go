// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsInterval = 10 * time.Second

type metrics struct {
	getLatency   prometheus.Histogram
	writeLatency prometheus.Histogram
	batchSize    prometheus.Histogram

	compactions       prometheus.Gauge
	activeCompactions prometheus.Gauge
	walSize           prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		getLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pebble",
			Name:      "read_latency",
			Help:      "time spent waiting for db get (ns)",
			Buckets:   prometheus.ExponentialBuckets(1_000, 4, 10),
		}),
		writeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pebble",
			Name:      "write_latency",
			Help:      "time spent committing a batch (ns)",
			Buckets:   prometheus.ExponentialBuckets(10_000, 4, 10),
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pebble",
			Name:      "batch_size",
			Help:      "number of keys changed per batch",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		compactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pebble",
			Name:      "compactions",
			Help:      "number of compactions",
		}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pebble",
			Name:      "active_compactions",
			Help:      "number of active compactions",
		}),
		walSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pebble",
			Name:      "wal_size",
			Help:      "size of the live WAL in bytes",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.getLatency),
		r.Register(m.writeLatency),
		r.Register(m.batchSize),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.walSize),
	)
	return r, m, errs.Err
}

func (db *Database) collectMetrics() {
	defer db.done.Done()

	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			metrics := db.db.Metrics()
			db.metrics.compactions.Set(float64(metrics.Compact.Count))
			db.metrics.activeCompactions.Set(float64(metrics.Compact.NumInProgress))
			db.metrics.walSize.Set(float64(metrics.WAL.Size))
		case <-db.closing:
			return
		}
	}
}
