// Package orchestrator fans a build out to one worker process per target.
package orchestrator

import (
	"context"
	"fmt"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/tsmulti/internal/engine/validator"
	"go.trai.ch/tsmulti/internal/ui/style"
	"golang.org/x/sync/errgroup"
)

// Orchestrator validates targets and supervises their workers.
type Orchestrator struct {
	spawner ports.WorkerSpawner
	tracer  ports.Tracer
}

// New creates an Orchestrator.
func New(spawner ports.WorkerSpawner, tracer ports.Tracer) *Orchestrator {
	return &Orchestrator{
		spawner: spawner,
		tracer:  tracer,
	}
}

// Run builds every target of plan and returns the first non-zero worker
// status in target order. A failing worker never stops its siblings.
func (o *Orchestrator) Run(ctx context.Context, plan domain.BuildPlan) (int, error) {
	defer o.terminateOnPanic()

	targets := plan.Targets
	if len(targets) == 0 {
		targets = []domain.Target{{}}
	}
	projects := plan.Projects
	if len(projects) == 0 {
		projects = []string{"."}
	}

	if err := validator.Validate(targets); err != nil {
		return 1, err
	}

	labels := Labels(targets)
	codes := make([]int, len(targets))
	errs := make([]error, len(targets))

	var g errgroup.Group
	if plan.MaxWorkers > 0 {
		g.SetLimit(plan.MaxWorkers)
	}

	for i := range targets {
		req := &domain.BuildRequest{
			Target:   targets[i],
			Projects: projects,
			Cwd:      plan.Cwd,
			Compiler: plan.Compiler,
			Color:    plan.Color,
			Flags:    plan.Flags,
		}
		if len(targets) > 1 {
			req.ReportPrefix = labels[i]
			req.PrefixColor = string(style.TargetColor(i))
		}

		g.Go(func() error {
			defer o.terminateOnPanic()
			codes[i], errs[i] = o.runWorker(ctx, i, labels[i], req)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return firstNonZero(codes, 1), err
		}
	}
	return firstNonZero(codes, 0), nil
}

func (o *Orchestrator) runWorker(ctx context.Context, index int, label string, req *domain.BuildRequest) (int, error) {
	ctx, span := o.tracer.Start(ctx, "worker "+label)
	defer span.End()

	span.SetAttribute("target.index", index)
	span.SetAttribute("target.extname", req.Target.ResolvedExtname())
	span.SetAttribute("target.out_dir", req.Target.ResolvedOutDir())

	code, err := o.spawner.Spawn(ctx, req)
	if err != nil {
		span.RecordError(err)
		return code, err
	}

	span.SetAttribute("worker.exit_code", code)
	if code != 0 {
		span.RecordError(&domain.ExitError{Code: code})
	}
	return code, nil
}

func (o *Orchestrator) terminateOnPanic() {
	if r := recover(); r != nil {
		o.spawner.TerminateAll()
		panic(r)
	}
}

// Labels returns the display label of every target. Targets sharing an
// extension are told apart by their index.
func Labels(targets []domain.Target) []string {
	counts := make(map[string]int, len(targets))
	for i := range targets {
		counts[targets[i].ResolvedExtname()]++
	}

	labels := make([]string, len(targets))
	for i := range targets {
		ext := targets[i].ResolvedExtname()
		if counts[ext] > 1 {
			labels[i] = fmt.Sprintf("[%s#%d]", ext, i)
			continue
		}
		labels[i] = "[" + ext + "]"
	}
	return labels
}

func firstNonZero(codes []int, fallback int) int {
	for _, c := range codes {
		if c != 0 {
			return c
		}
	}
	return fallback
}
