// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/hyperamm/pebble"
	"github.com/ava-labs/hyperamm/trace"
)

var (
	ErrInvalidConcurrency = errors.New("executor concurrency must be positive")
	ErrInvalidBatchSize   = errors.New("max batch size must be positive")
)

type Config struct {
	LogLevel    string `json:"logLevel"`
	LogDir      string `json:"logDir"`
	DatabaseDir string `json:"databaseDir"`

	Pebble pebble.Config `json:"pebble"`
	Trace  trace.Config  `json:"trace"`

	// Number of transactions of a batch executed in parallel
	ExecutorConcurrency int `json:"executorConcurrency"`
	MaxBatchSize        int `json:"maxBatchSize"`

	// Prometheus endpoint, disabled if empty
	MetricsAddress string `json:"metricsAddress"`
}

func NewDefaultConfig() Config {
	return Config{
		LogLevel:            logging.Info.String(),
		LogDir:              "logs",
		DatabaseDir:         "db",
		Pebble:              pebble.NewDefaultConfig(),
		Trace:               trace.NewDefaultConfig(),
		ExecutorConcurrency: runtime.NumCPU(),
		MaxBatchSize:        1_024,
	}
}

// New overlays the JSON object [b] on the defaults. An empty [b] yields the
// defaults.
func New(b []byte) (Config, error) {
	c := NewDefaultConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Verify(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Verify() error {
	if _, err := c.GetLogLevel(); err != nil {
		return err
	}
	if c.ExecutorConcurrency <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrency, c.ExecutorConcurrency)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, c.MaxBatchSize)
	}
	return nil
}

func (c *Config) GetLogLevel() (logging.Level, error) {
	return logging.ToLevel(c.LogLevel)
}
