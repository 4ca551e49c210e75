package domain

import "fmt"

// BuildFlags are the behavior switches shared by every worker of a build.
type BuildFlags struct {
	Watch   bool `json:"watch,omitempty"`
	Clean   bool `json:"clean,omitempty"`
	Dry     bool `json:"dry,omitempty"`
	Force   bool `json:"force,omitempty"`
	Verbose bool `json:"verbose,omitempty"`
}

// BuildRequest is the unit of work handed to a single worker process.
// It is delivered as one JSON document on the worker's stdin.
type BuildRequest struct {
	Target       Target     `json:"target"`
	Projects     []string   `json:"projects"`
	Cwd          string     `json:"cwd"`
	Compiler     string     `json:"compiler,omitempty"`
	ReportPrefix string     `json:"reportPrefix,omitempty"`
	PrefixColor  string     `json:"prefixColor,omitempty"`
	Color        bool       `json:"color,omitempty"`
	Flags        BuildFlags `json:"flags"`
}

// BuildPlan is everything the orchestrator needs to run one build.
type BuildPlan struct {
	Targets    []Target
	Projects   []string
	Cwd        string
	Compiler   string
	MaxWorkers int
	Color      bool
	Flags      BuildFlags
}

// ExitError carries a process exit status through error returns.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
