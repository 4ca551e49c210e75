package compilers

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tsmulti/internal/adapters/fs"
	"go.trai.ch/tsmulti/internal/adapters/tsc"
	"go.trai.ch/tsmulti/internal/adapters/watcher"
	"go.trai.ch/tsmulti/internal/core/ports"
)

// NodeID is the unique identifier for the compiler loader Graft node.
const NodeID graft.ID = "adapter.compilers"

func init() {
	graft.Register(graft.Node[ports.CompilerLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.HasherNodeID,
			fs.WalkerNodeID,
			watcher.FactoryNodeID,
		},
		Run: func(ctx context.Context) (ports.CompilerLoader, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}

			newWatcher, err := graft.Dep[ports.WatcherFactory](ctx)
			if err != nil {
				return nil, err
			}

			return NewRegistry(hasher, walker, newWatcher, tsc.NewResolver()), nil
		},
	})
}
