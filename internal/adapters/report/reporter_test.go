package report_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/tsmulti/internal/adapters/report"
	"go.trai.ch/tsmulti/internal/core/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 9, 4, 5, 0, time.UTC)
}

func TestReporter_Golden(t *testing.T) {
	cwd := filepath.FromSlash("/work/app")
	typeError := domain.Diagnostic{
		File:     filepath.Join(cwd, "src", "index.ts"),
		Line:     3,
		Column:   7,
		Category: domain.CategoryError,
		Code:     2322,
		Message:  "Type 'string' is not assignable to type 'number'.",
	}

	tests := []struct {
		name   string
		opts   report.Options
		report func(r *report.Reporter)
	}{
		{
			name: "diagnostic_plain",
			opts: report.Options{Cwd: cwd},
			report: func(r *report.Reporter) {
				r.Diagnostic(typeError)
				r.ErrorSummary(1)
			},
		},
		{
			name: "diagnostic_prefixed",
			opts: report.Options{Cwd: cwd, Prefix: "[.cjs]"},
			report: func(r *report.Reporter) {
				r.Diagnostic(typeError)
				r.Diagnostic(domain.Diagnostic{
					Category: domain.CategoryError,
					Code:     6053,
					Message:  "File '/work/app/missing.ts' not found.",
				})
				r.Diagnostic(domain.Diagnostic{
					File:     filepath.Join(cwd, "src", "a.ts"),
					Line:     1,
					Column:   1,
					Category: domain.CategoryWarning,
					Message:  "Unused label.\nThe label is never referenced.",
				})
				r.ErrorSummary(2)
			},
		},
		{
			name: "diagnostic_colored",
			opts: report.Options{Cwd: cwd, Prefix: "[.mjs]", PrefixColor: "2", Color: true},
			report: func(r *report.Reporter) {
				r.Diagnostic(typeError)
			},
		},
		{
			name: "watch_status",
			opts: report.Options{Cwd: cwd, Prefix: "[.mjs]", Now: fixedClock},
			report: func(r *report.Reporter) {
				r.WatchStatus(domain.NewMessage("Starting compilation in watch mode..."))
				r.WatchStatus(domain.NewMessage("Found 0 errors. Watching for file changes."))
			},
		},
		{
			name: "status",
			opts: report.Options{Cwd: cwd},
			report: func(r *report.Reporter) {
				r.Status(domain.NewMessage("Projects in this build: \n    * tsconfig.json"))
				r.Status(domain.NewMessage("Building project '/work/app/tsconfig.json'..."))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			r := report.New(buf, tt.opts)
			tt.report(r)

			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestReporter_NoSummaryWithoutErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	r := report.New(buf, report.Options{})
	r.ErrorSummary(0)
	assert.Empty(t, buf.String())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Found 1 error.", report.Summary(1))
	assert.Equal(t, "Found 3 errors.", report.Summary(3))
	assert.Equal(t, "Found 0 errors.", report.Summary(0))
}
