package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tsmulti/internal/adapters/process"   //nolint:depguard // Wired in engine layer
	"go.trai.ch/tsmulti/internal/adapters/telemetry" //nolint:depguard // Wired in engine layer
	"go.trai.ch/tsmulti/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			process.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			spawner, err := graft.Dep[ports.WorkerSpawner](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(spawner, tracer), nil
		},
	})
}
