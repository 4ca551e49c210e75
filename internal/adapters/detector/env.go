// Package detector decides whether diagnostics are colorized.
package detector

import (
	"os"

	"golang.org/x/term"
)

// ColorEnabled reports whether output written to f should be colorized.
// Workers inherit the parent's stderr, so the parent decides once and passes
// the result down with every build request.
func ColorEnabled(f *os.File) bool {
	return Resolve(os.Getenv, term.IsTerminal(int(f.Fd())))
}

// Resolve applies the environment overrides to the terminal detection result.
// NO_COLOR always disables color, FORCE_COLOR (other than "0") enables it and
// CI=true/1 enables it because CI log viewers render ANSI sequences.
func Resolve(getenv func(string) string, isTTY bool) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if force := getenv("FORCE_COLOR"); force != "" {
		return force != "0"
	}
	if ci := getenv("CI"); ci == "true" || ci == "1" {
		return true
	}
	return isTTY
}
