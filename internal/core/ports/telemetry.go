package ports

import (
	"context"
	"io"

	"go.trai.ch/exodus/internal/core/domain"
)

// Telemetry records the progress of package conversions. One vertex is
// recorded per package load and per package write.
type Telemetry interface {
	// Record starts a new vertex and attaches it to the returned context.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer for the vertex's output stream.
	Stdout() io.Writer
	// Log records a structured log line on the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex finished, successfully or with an error.
	Complete(err error)
	// Cached marks the vertex as skipped by the conversion cache.
	Cached()
}

// VertexConfig holds configuration for a starting vertex.
type VertexConfig struct {
	// Internal marks vertices hidden from the progress display by default.
	Internal bool
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

// WithInternal marks the vertex as internal.
func WithInternal() VertexOption {
	return func(c *VertexConfig) { c.Internal = true }
}

type vertexKey struct{}

// ContextWithVertex attaches a vertex to the context.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex attached to the context, or nil.
func VertexFromContext(ctx context.Context) Vertex {
	v, _ := ctx.Value(vertexKey{}).(Vertex)
	return v
}
