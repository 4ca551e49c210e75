package ports

import (
	"context"

	"go.trai.ch/tsmulti/internal/core/domain"
)

// WorkerSpawner runs worker processes.
//
//go:generate mockgen -source=spawner.go -destination=mocks/mock_spawner.go -package=mocks
type WorkerSpawner interface {
	// Spawn runs one worker for req and returns its exit code. An error
	// means the worker could not be started at all.
	Spawn(ctx context.Context, req *domain.BuildRequest) (int, error)
	// TerminateAll signals every live worker to terminate.
	TerminateAll()
}
