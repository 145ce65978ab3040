// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	tracer, err := New(&cfg)
	require.NoError(err)
	require.IsType(&noOpTracer{}, tracer)

	_, span := tracer.Start(context.Background(), "op")
	require.False(span.IsRecording())
	span.End()
	require.NoError(tracer.Close())
}

func TestEnabled(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Enabled = true
	tracer, err := New(&cfg)
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "op")
	require.True(span.IsRecording())
	require.True(span.SpanContext().IsSampled())
}
