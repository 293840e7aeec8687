// Package telemetry provides telemetry implementations that do not depend on
// a progress backend.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry, used when progress
// output is disabled and in tests.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a vertex that discards everything.
func (t *NoOp) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	v := &NoOpVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (t *NoOp) Close() error { return nil }

// NoOpVertex is a no-op implementation of ports.Vertex.
type NoOpVertex struct{}

// Stdout discards all output.
func (v *NoOpVertex) Stdout() io.Writer { return io.Discard }

// Log does nothing.
func (v *NoOpVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoOpVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoOpVertex) Cached() {}
