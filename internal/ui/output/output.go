// Package output creates termenv outputs with the color decisions shared by
// the orchestrator, the workers and the logger.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns Ascii when NO_COLOR is set and the detected terminal
// profile otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output for w using ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// NewColored creates a termenv.Output that emits ANSI colors when enabled and
// plain text otherwise. Workers use it because the color decision for their
// inherited stderr is made by the parent process.
func NewColored(w io.Writer, enabled bool) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	profile := termenv.Ascii
	if enabled {
		profile = termenv.ANSI
	}

	return termenv.NewOutput(w, termenv.WithProfile(profile), termenv.WithTTY(true))
}
