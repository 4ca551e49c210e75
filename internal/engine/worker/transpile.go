package worker

import (
	"context"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
)

// transpile emits every file of every project with TranspileFile. No type
// information is used and project references are not followed.
func (w *Worker) transpile(ctx context.Context, compiler ports.Compiler, session *ports.BuildSession) domain.ExitStatus {
	status := domain.ExitSuccess
	errCount := 0

	report := func(diags []domain.Diagnostic) {
		for _, d := range diags {
			session.Reporter.Diagnostic(d)
		}
		errCount += domain.CountErrors(diags)
	}

	for _, path := range session.Projects {
		project := compiler.ParseProject(path, session)
		if domain.CountErrors(project.Diagnostics) > 0 {
			report(project.Diagnostics)
			status = status.Worse(domain.ExitInvalidProjectOutputsSkipped)
			continue
		}

		for _, file := range project.FileNames {
			if ctx.Err() != nil {
				return domain.ExitDiagnosticsPresentOutputsSkipped
			}

			source, err := session.Host.ReadFile(file)
			if err != nil {
				report([]domain.Diagnostic{{
					Category: domain.CategoryError,
					Code:     6059,
					Message:  "Cannot read file '" + file + "': " + err.Error(),
				}})
				status = status.Worse(domain.ExitDiagnosticsPresentOutputsGenerated)
				continue
			}

			out := compiler.TranspileFile(domain.TranspileInput{
				FileName:     file,
				Source:       source,
				Project:      project,
				Transformers: session.Transformers,
				ReadFile:     session.Host.ReadFile,
			})
			report(out.Diagnostics)
			if domain.CountErrors(out.Diagnostics) > 0 {
				status = status.Worse(domain.ExitDiagnosticsPresentOutputsGenerated)
			}

			if session.Flags.Dry {
				continue
			}
			for _, f := range out.Files {
				if err := session.Host.WriteFile(f.Path, f.Data); err != nil {
					report([]domain.Diagnostic{{
						Category: domain.CategoryError,
						Code:     5033,
						Message:  "Could not write file '" + f.Path + "': " + err.Error(),
					}})
					status = status.Worse(domain.ExitDiagnosticsPresentOutputsGenerated)
				}
			}
		}
	}

	session.Reporter.ErrorSummary(errCount)
	return status
}
