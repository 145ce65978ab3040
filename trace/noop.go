// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/trace/noop"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ trace.Tracer = (*noOpTracer)(nil)

// noOpTracer is an implementation of trace.Tracer that does nothing.
type noOpTracer struct {
	oteltrace.Tracer
}

// Noop returns a tracer whose spans are never recorded.
func Noop(name string) trace.Tracer {
	return &noOpTracer{
		Tracer: noop.NewTracerProvider().Tracer(name),
	}
}

func (n *noOpTracer) Start(
	ctx context.Context,
	spanName string,
	opts ...oteltrace.SpanStartOption,
) (context.Context, oteltrace.Span) {
	return n.Tracer.Start(ctx, spanName, opts...)
}

func (*noOpTracer) Close() error {
	return nil
}
