package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tsmulti/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the watcher factory Graft node.
const FactoryNodeID graft.ID = "adapter.watcher.factory"

func init() {
	graft.Register(graft.Node[ports.WatcherFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.WatcherFactory, error) {
			return func() (ports.Watcher, error) {
				return NewWatcher()
			}, nil
		},
	})
}
