package isopack

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/exodus/internal/core/ports"
)

const NodeID graft.ID = "adapter.bundle_loader"

func init() {
	graft.Register(graft.Node[ports.BundleLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.BundleLoader, error) {
			return NewReader(), nil
		},
	})
}
