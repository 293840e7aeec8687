package converter

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/exodus/internal/adapters/descriptor" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/exodus/internal/adapters/fs"         //nolint:depguard // Wired in engine wiring
	"go.trai.ch/exodus/internal/adapters/isopack"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/exodus/internal/adapters/logger"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/exodus/internal/adapters/npm"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/exodus/internal/adapters/state"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/exodus/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/exodus/internal/core/ports"
)

// NodeID is the unique identifier for the converter engine Graft node.
const NodeID graft.ID = "engine.converter"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			descriptor.NodeID,
			isopack.NodeID,
			fs.HasherNodeID,
			fs.CopierNodeID,
			state.NodeID,
			npm.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			descriptorLoader, err := graft.Dep[ports.DescriptorLoader](ctx)
			if err != nil {
				return nil, err
			}

			bundleLoader, err := graft.Dep[ports.BundleLoader](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			copier, err := graft.Dep[ports.TreeCopier](ctx)
			if err != nil {
				return nil, err
			}

			storeFactory, err := graft.Dep[ports.ConvertInfoStoreFactory](ctx)
			if err != nil {
				return nil, err
			}

			manifestWriter, err := graft.Dep[ports.ManifestWriter](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(
				descriptorLoader,
				bundleLoader,
				hasher,
				copier,
				storeFactory,
				manifestWriter,
				telemetry,
				log,
			), nil
		},
	})
}
