package descriptor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/exodus/internal/core/ports"
)

const NodeID graft.ID = "adapter.descriptor_loader"

func init() {
	graft.Register(graft.Node[ports.DescriptorLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.DescriptorLoader, error) {
			return NewInterpreter(), nil
		},
	})
}
