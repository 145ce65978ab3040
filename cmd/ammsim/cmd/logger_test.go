// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestLogFactory(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	config := logging.Config{}
	config.LogLevel = logging.Info
	config.DisplayLevel = logging.Info
	config.Directory = dir
	config.LogFormat = logging.JSON
	config.DisableWriterDisplaying = true

	f := newLogFactory(config)
	l, err := f.Make("simulator")
	require.NoError(err)
	_, err = f.Make("simulator")
	require.ErrorContains(err, "already exists")

	l.Info("hello")
	f.Close()

	b, err := os.ReadFile(filepath.Join(dir, "simulator.log"))
	require.NoError(err)
	require.Contains(string(b), "hello")
}
