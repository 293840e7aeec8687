package state

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/exodus/internal/core/ports"
)

const NodeID graft.ID = "adapter.convert_info_store"

func init() {
	graft.Register(graft.Node[ports.ConvertInfoStoreFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ConvertInfoStoreFactory, error) {
			return func(dir string) (ports.ConvertInfoStore, error) {
				return NewStore(dir)
			}, nil
		},
	})
}
