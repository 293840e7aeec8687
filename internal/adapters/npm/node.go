package npm

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/exodus/internal/core/ports"
)

const NodeID graft.ID = "adapter.manifest_writer"

func init() {
	graft.Register(graft.Node[ports.ManifestWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ManifestWriter, error) {
			return NewWriter(), nil
		},
	})
}
