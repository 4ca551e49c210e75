package ports

import "go.trai.ch/tsmulti/internal/core/domain"

// Reporter formats diagnostics for one worker.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Diagnostic reports a compiler diagnostic.
	Diagnostic(d domain.Diagnostic)
	// Status reports a build status message. Callers decide verbosity.
	Status(d domain.Diagnostic)
	// WatchStatus reports a watch loop status message.
	WatchStatus(d domain.Diagnostic)
	// ErrorSummary reports the number of errors of a build.
	ErrorSummary(count int)
}
