package domain

// Category is the severity of a diagnostic.
type Category int

const (
	// CategoryWarning marks a warning.
	CategoryWarning Category = iota
	// CategoryError marks an error.
	CategoryError
	// CategorySuggestion marks a suggestion.
	CategorySuggestion
	// CategoryMessage marks an informational message.
	CategoryMessage
)

func (c Category) String() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategoryError:
		return "error"
	case CategorySuggestion:
		return "suggestion"
	default:
		return "message"
	}
}

// Diagnostic is a compiler-produced record. Line and Column are 1-based;
// zero means the diagnostic has no location.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Category Category
	Code     int
	Message  string
}

// HasLocation reports whether the diagnostic points into a file.
func (d *Diagnostic) HasLocation() bool {
	return d.File != "" && d.Line > 0
}

// CountErrors returns the number of error diagnostics.
func CountErrors(diags []Diagnostic) int {
	n := 0
	for i := range diags {
		if diags[i].Category == CategoryError {
			n++
		}
	}
	return n
}

// NewMessage returns a location-less message diagnostic.
func NewMessage(msg string) Diagnostic {
	return Diagnostic{Category: CategoryMessage, Message: msg}
}

// ExitStatus is the status a worker exits with.
type ExitStatus int

const (
	// ExitSuccess means the build completed without errors.
	ExitSuccess ExitStatus = 0
	// ExitDiagnosticsPresentOutputsSkipped means errors were found and nothing was emitted.
	ExitDiagnosticsPresentOutputsSkipped ExitStatus = 1
	// ExitDiagnosticsPresentOutputsGenerated means errors were found but outputs were still emitted.
	ExitDiagnosticsPresentOutputsGenerated ExitStatus = 2
	// ExitInvalidProjectOutputsSkipped means a project could not be parsed.
	ExitInvalidProjectOutputsSkipped ExitStatus = 3
	// ExitProjectReferenceCycleOutputsSkipped means project references form a cycle.
	ExitProjectReferenceCycleOutputsSkipped ExitStatus = 4
)

// Worse returns the more severe of two statuses, preferring the first
// non-success status seen.
func (s ExitStatus) Worse(other ExitStatus) ExitStatus {
	if s != ExitSuccess {
		return s
	}
	return other
}
