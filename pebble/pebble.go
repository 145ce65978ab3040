// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/hyperamm/state"
)

var (
	_ state.Database = (*Database)(nil)

	ErrClosed = errors.New("pebble database closed")
)

type Config struct {
	CacheSize             int64 `json:"cacheSize"`
	BytesPerSync          int   `json:"bytesPerSync"`
	MaxOpenFiles          int   `json:"maxOpenFiles"`
	L0CompactionThreshold int   `json:"l0CompactionThreshold"`
	Sync                  bool  `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:             64 * units.MiB,
		BytesPerSync:          1 * units.MiB,
		MaxOpenFiles:          4_096,
		L0CompactionThreshold: 4,
		Sync:                  true,
	}
}

// Database is a [state.Database] backed by pebble.
type Database struct {
	db      *pebble.DB
	metrics *metrics

	writeOpts *pebble.WriteOptions

	l       sync.RWMutex
	closed  bool
	closing chan struct{}
	done    sync.WaitGroup
}

// New opens (or creates) the database in [dir]. The returned registry holds
// the database's metrics.
func New(dir string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	cache := pebble.NewCache(cfg.CacheSize)
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                 cache,
		BytesPerSync:          cfg.BytesPerSync,
		MaxOpenFiles:          cfg.MaxOpenFiles,
		L0CompactionThreshold: cfg.L0CompactionThreshold,
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	writeOpts := pebble.NoSync
	if cfg.Sync {
		writeOpts = pebble.Sync
	}
	d := &Database{
		db:        db,
		metrics:   metrics,
		writeOpts: writeOpts,
		closing:   make(chan struct{}),
	}
	d.done.Add(1)
	go d.collectMetrics()
	return d, registry, nil
}

func (db *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		db.metrics.getLatency.Observe(float64(time.Since(start)))
	}()

	db.l.RLock()
	defer db.l.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}
	v, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return slices.Clone(v), nil
}

// Write commits [changes] in a single batch, in key order.
func (db *Database) Write(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	start := time.Now()

	db.l.RLock()
	defer db.l.RUnlock()

	if db.closed {
		return ErrClosed
	}
	keys := maps.Keys(changes)
	slices.Sort(keys)

	batch := db.db.NewBatch()
	defer batch.Close()
	for _, k := range keys {
		v := changes[k]
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k), nil)
		} else {
			err = batch.Set([]byte(k), v.Value(), nil)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Commit(db.writeOpts); err != nil {
		return err
	}
	db.metrics.batchSize.Observe(float64(len(keys)))
	db.metrics.writeLatency.Observe(float64(time.Since(start)))
	return nil
}

func (db *Database) Close() error {
	db.l.Lock()
	if db.closed {
		db.l.Unlock()
		return ErrClosed
	}
	db.closed = true
	close(db.closing)
	db.l.Unlock()

	db.done.Wait()
	return db.db.Close()
}
