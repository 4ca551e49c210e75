// Package domain contains the core domain models of a multi-target build.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// ProjectGraph represents the reference graph of the projects in one build.
type ProjectGraph struct {
	projects       map[string]*Project
	insertion      []string
	executionOrder []string
}

// NewProjectGraph creates a new empty ProjectGraph.
func NewProjectGraph() *ProjectGraph {
	return &ProjectGraph{
		projects: make(map[string]*Project),
	}
}

// AddProject adds a project to the graph.
// It returns an error if a project with the same config path already exists.
func (g *ProjectGraph) AddProject(p *Project) error {
	if _, exists := g.projects[p.ConfigPath]; exists {
		return zerr.With(ErrProjectAlreadyExists, "config", p.ConfigPath)
	}
	g.projects[p.ConfigPath] = p
	g.insertion = append(g.insertion, p.ConfigPath)
	return nil
}

// Has reports whether a project with the given config path was added.
func (g *ProjectGraph) Has(configPath string) bool {
	_, ok := g.projects[configPath]
	return ok
}

// Get returns the project with the given config path.
func (g *ProjectGraph) Get(configPath string) (*Project, bool) {
	p, ok := g.projects[configPath]
	return p, ok
}

// Validate checks for cycles using a depth-first topological sort and
// populates the execution order so that references build first.
// Roots are visited in insertion order, which keeps the order deterministic.
func (g *ProjectGraph) Validate() error {
	g.executionOrder = make([]string, 0, len(g.projects))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		project, exists := g.projects[u]
		if !exists {
			return zerr.With(ErrMissingProjectReference, "reference", u)
		}

		for _, ref := range project.References {
			if visited[ref] == 1 {
				return g.buildCycleError(path, ref)
			}
			if visited[ref] == 0 {
				if err := visit(ref); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.insertion {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *ProjectGraph) buildCycleError(path []string, ref string) error {
	start := 0
	for i, node := range path {
		if node == ref {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, path[start:]...), ref)
	return zerr.With(ErrProjectReferenceCycle, "cycle", strings.Join(cycle, " -> "))
}

// Walk returns an iterator that yields projects in build order.
// It assumes Validate() has been called and returned nil.
func (g *ProjectGraph) Walk() iter.Seq[*Project] {
	return func(yield func(*Project) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.projects[name]) {
				return
			}
		}
	}
}
