// Package report formats compiler diagnostics for one worker. Every line is
// prefixed with the worker's target label so the interleaved output of
// concurrent workers stays attributable.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/tsmulti/internal/ui/output"
)

var _ ports.Reporter = (*Reporter)(nil)

// Options configures a Reporter.
type Options struct {
	// Cwd is the directory diagnostic paths are made relative to.
	Cwd string
	// Prefix is the worker label, e.g. "[.cjs]". Empty disables prefixing.
	Prefix string
	// PrefixColor is the ANSI color of the prefix.
	PrefixColor string
	// Color enables ANSI colors.
	Color bool
	// Now is the clock of watch status timestamps.
	Now func() time.Time
}

// Reporter writes tsc-style diagnostics.
type Reporter struct {
	mu     sync.Mutex
	w      io.Writer
	out    *termenv.Output
	prefix string
	cwd    string
	now    func() time.Time
}

// New creates a Reporter writing to w.
func New(w io.Writer, opts Options) *Reporter {
	out := output.NewColored(w, opts.Color)

	prefix := opts.Prefix
	if prefix != "" {
		if opts.PrefixColor != "" {
			prefix = out.String(prefix).Foreground(out.Color(opts.PrefixColor)).String()
		}
		prefix += " "
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Reporter{
		w:      w,
		out:    out,
		prefix: prefix,
		cwd:    opts.Cwd,
		now:    now,
	}
}

// Diagnostic writes d in the compact tsc layout.
func (r *Reporter) Diagnostic(d domain.Diagnostic) {
	r.write(r.format(d))
}

// Status writes a build status message.
func (r *Reporter) Status(d domain.Diagnostic) {
	r.write(d.Message)
}

// WatchStatus writes a timestamped watch loop message.
func (r *Reporter) WatchStatus(d domain.Diagnostic) {
	stamp := r.now().Format("15:04:05")
	r.write(fmt.Sprintf("[%s] %s", r.out.String(stamp).Faint().String(), d.Message))
}

// ErrorSummary writes the error count of a build when there were errors.
func (r *Reporter) ErrorSummary(count int) {
	if count <= 0 {
		return
	}
	r.write(Summary(count))
}

// Summary returns the error summary sentence for count errors.
func Summary(count int) string {
	if count == 1 {
		return "Found 1 error."
	}
	return fmt.Sprintf("Found %d errors.", count)
}

func (r *Reporter) format(d domain.Diagnostic) string {
	var b strings.Builder
	if d.HasLocation() {
		fmt.Fprintf(&b, "%s(%d,%d): ", r.relative(d.File), d.Line, max(d.Column, 1))
	}

	b.WriteString(r.category(d.Category))
	if d.Code != 0 {
		fmt.Fprintf(&b, " TS%d", d.Code)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

func (r *Reporter) category(c domain.Category) string {
	word := c.String()
	switch c {
	case domain.CategoryError:
		return r.out.String(word).Foreground(r.out.Color("1")).String()
	case domain.CategoryWarning:
		return r.out.String(word).Foreground(r.out.Color("3")).String()
	default:
		return word
	}
}

func (r *Reporter) relative(file string) string {
	if r.cwd != "" && filepath.IsAbs(file) {
		if rel, err := filepath.Rel(r.cwd, file); err == nil {
			file = rel
		}
	}
	return filepath.ToSlash(file)
}

// write prints text line by line. Continuation lines are indented.
func (r *Reporter) write(text string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(r.prefix)
		if i > 0 && !strings.HasPrefix(line, "  ") {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.w, b.String())
}
