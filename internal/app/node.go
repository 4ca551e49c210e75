package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tsmulti/internal/adapters/compilers" //nolint:depguard // Wired in app layer
	"go.trai.ch/tsmulti/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tsmulti/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/tsmulti/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/tsmulti/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			orchestrator.NodeID,
			compilers.NodeID,
			fs.FileSystemNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	compilerLoader, err := graft.Dep[ports.CompilerLoader](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, orch, compilerLoader, fileSystem, log), nil
}
