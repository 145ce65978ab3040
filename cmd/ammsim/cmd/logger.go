// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logFactory hands out named loggers. Each logger writes to the console,
// unless displaying is disabled, and to a rotated file named after it.
type logFactory struct {
	config logging.Config

	lock    sync.Mutex
	loggers map[string]logging.Logger
}

func newLogFactory(config logging.Config) *logFactory {
	return &logFactory{
		config:  config,
		loggers: make(map[string]logging.Logger),
	}
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}

	var console io.WriteCloser = os.Stderr
	if f.config.DisableWriterDisplaying {
		console = nopCloser{io.Discard}
	}
	consoleCore := logging.NewWrappedCore(f.config.DisplayLevel, console, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = f.config.DisableWriterDisplaying

	file := &lumberjack.Logger{
		Filename:   filepath.Join(f.config.Directory, name+".log"),
		MaxSize:    f.config.MaxSize,  // megabytes
		MaxAge:     f.config.MaxAge,   // days
		MaxBackups: f.config.MaxFiles, // files
		Compress:   f.config.Compress,
	}
	fileCore := logging.NewWrappedCore(f.config.LogLevel, file, f.config.LogFormat.FileEncoder())

	l := logging.NewLogger(f.config.LogFormat.WrapPrefix(name), consoleCore, fileCore)
	f.loggers[name] = l
	return l, nil
}

// Close stops every logger and closes its files.
func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, l := range f.loggers {
		l.Stop()
	}
	f.loggers = nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
