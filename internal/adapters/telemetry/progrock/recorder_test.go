package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"
	"go.trai.ch/exodus/internal/adapters/telemetry/progrock"
	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
)

func TestRecorder_RecordAttachesVertexToContext(t *testing.T) {
	rec := progrock.NewRecorder(vprogrock.NewTape())

	ctx, vertex := rec.Record(context.Background(), "load session")
	require.NotNil(t, vertex)
	assert.Same(t, vertex, ports.VertexFromContext(ctx))

	vertex.Log(domain.LogLevelInfo, "classifying globals")
	vertex.Complete(nil)

	require.NoError(t, rec.Close())
}

func TestRecorder_CachedVertex(t *testing.T) {
	rec := progrock.NewRecorder(vprogrock.NewTape())

	_, vertex := rec.Record(context.Background(), "write session", ports.WithInternal())
	vertex.Cached()
	vertex.Complete(nil)

	require.NoError(t, rec.Close())
}
