// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperamm/config"
	"github.com/ava-labs/hyperamm/pebble"
	"github.com/ava-labs/hyperamm/program"

	amtrace "github.com/ava-labs/hyperamm/trace"
)

const (
	simulatorFolder = ".ammsim"

	metricsReadHeaderTimeout = 5 * time.Second
)

type simulator struct {
	configPath  string
	dbDir       string
	logDir      string
	logLevel    string
	metricsAddr string
	cleanup     bool

	cfg        config.Config
	log        logging.Logger
	logFactory *logFactory
	db         *pebble.Database
	tracer     trace.Tracer
	program    *program.Program
	metrics    *http.Server
}

func NewRootCmd() *cobra.Command {
	s := &simulator{}
	cmd := &cobra.Command{
		Use:   "ammsim",
		Short: "Constant-product AMM simulator",
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := cmd.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "path to a JSON config file")
	flags.StringVar(&s.dbDir, "db-dir", "", "database directory (overrides config)")
	flags.StringVar(&s.logDir, "log-dir", "", "log directory (overrides config)")
	flags.StringVar(&s.logLevel, "log-level", "", "log level (overrides config)")
	flags.StringVar(&s.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (overrides config)")
	flags.BoolVar(&s.cleanup, "cleanup", false, "remove the database and logs on exit")

	cmd.AddCommand(
		newRunCmd(s),
		newKeyCmd(s),
		newPoolCmd(s),
	)
	return cmd
}

// with opens the simulator, runs [f] and closes the simulator.
func (s *simulator) with(ctx context.Context, f func(context.Context) error) error {
	if err := s.init(); err != nil {
		s.close()
		return err
	}
	defer s.close()
	return f(ctx)
}

func (s *simulator) loadConfig() (config.Config, error) {
	var raw []byte
	if s.configPath != "" {
		b, err := os.ReadFile(s.configPath)
		if err != nil {
			return config.Config{}, err
		}
		raw = b
	}
	cfg, err := config.New(raw)
	if err != nil {
		return config.Config{}, err
	}
	if s.dbDir != "" {
		cfg.DatabaseDir = s.dbDir
	}
	if s.logDir != "" {
		cfg.LogDir = s.logDir
	}
	if s.logLevel != "" {
		cfg.LogLevel = s.logLevel
	}
	if s.metricsAddr != "" {
		cfg.MetricsAddress = s.metricsAddr
	}
	if err := cfg.Verify(); err != nil {
		return config.Config{}, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config.Config{}, err
	}
	basePath := filepath.Join(homeDir, simulatorFolder)
	if !filepath.IsAbs(cfg.DatabaseDir) {
		cfg.DatabaseDir = filepath.Join(basePath, cfg.DatabaseDir)
	}
	if !filepath.IsAbs(cfg.LogDir) {
		cfg.LogDir = filepath.Join(basePath, cfg.LogDir)
	}
	return cfg, nil
}

func (s *simulator) init() error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	s.cfg = cfg
	logLevel, err := cfg.GetLogLevel()
	if err != nil {
		return err
	}

	loggingConfig := logging.Config{}
	loggingConfig.LogLevel = logLevel
	loggingConfig.DisplayLevel = logLevel
	loggingConfig.Directory = cfg.LogDir
	loggingConfig.LogFormat = logging.JSON
	loggingConfig.DisableWriterDisplaying = true

	s.logFactory = newLogFactory(loggingConfig)
	s.log, err = s.logFactory.Make("simulator")
	if err != nil {
		return err
	}

	var pebbleRegistry *prometheus.Registry
	s.db, pebbleRegistry, err = pebble.New(cfg.DatabaseDir, cfg.Pebble)
	if err != nil {
		return err
	}
	s.tracer, err = amtrace.New(&cfg.Trace)
	if err != nil {
		return err
	}
	programRegistry := prometheus.NewRegistry()
	s.program, err = program.New(&cfg, s.db, s.log, s.tracer, programRegistry)
	if err != nil {
		return err
	}

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(
			prometheus.Gatherers{programRegistry, pebbleRegistry},
			promhttp.HandlerOpts{},
		))
		s.metrics = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: metricsReadHeaderTimeout,
		}
		go func() {
			if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	s.log.Info("simulator initialized",
		zap.String("dbDir", cfg.DatabaseDir),
		zap.String("logLevel", cfg.LogLevel),
		zap.String("metricsAddress", cfg.MetricsAddress),
	)
	return nil
}

func (s *simulator) close() {
	if s.metrics != nil {
		if err := s.metrics.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close metrics server: %s\n", err)
		}
	}
	if s.tracer != nil {
		if err := s.tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close tracer: %s\n", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close simulator db: %s\n", err)
		}
	}
	if s.logFactory != nil {
		s.logFactory.Close()
	}
	if !s.cleanup || s.cfg.DatabaseDir == "" {
		return
	}
	if err := os.RemoveAll(s.cfg.DatabaseDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to remove simulator directory: %s\n", err)
	}
	if err := os.RemoveAll(s.cfg.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to remove simulator logs: %s\n", err)
	}
}
