// Package tsc runs the TypeScript compiler as an external type checker.
package tsc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TypeChecker = (*Checker)(nil)

// skippedOptions never reach the command line: tsc is only asked to check.
var skippedOptions = map[string]bool{
	"outDir":              true,
	"outFile":             true,
	"rootDir":             true,
	"declarationDir":      true,
	"tsBuildInfoFile":     true,
	"incremental":         true,
	"composite":           true,
	"declaration":         true,
	"declarationMap":      true,
	"emitDeclarationOnly": true,
	"sourceMap":           true,
	"inlineSourceMap":     true,
	"inlineSources":       true,
	"noEmit":              true,
	"noEmitOnError":       true,
	"baseUrl":             true,
	"sourceRoot":          true,
	"mapRoot":             true,
}

var listOptions = map[string]bool{
	"lib":       true,
	"types":     true,
	"typeRoots": true,
}

// Checker type checks projects by running tsc with --noEmit.
type Checker struct {
	command []string
}

// NewChecker creates a Checker running the given command line prefix.
func NewChecker(command []string) *Checker {
	return &Checker{command: slices.Clone(command)}
}

// Command returns the command line prefix the checker runs.
func (c *Checker) Command() []string {
	return c.command
}

// Check runs tsc for the project and returns the diagnostics it printed.
func (c *Checker) Check(ctx context.Context, project *domain.Project, cwd string) ([]domain.Diagnostic, error) {
	args := append(slices.Clone(c.command[1:]), Args(project)...)
	//nolint:gosec // the executable is resolved from node_modules or PATH
	cmd := exec.CommandContext(ctx, c.command[0], args...)
	cmd.Dir = cwd

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	diags := ParseOutput(out.Bytes(), cwd)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil && len(diags) > 0 {
			if code := exitErr.ExitCode(); code == 1 || code == 2 {
				return diags, nil
			}
		}
		return diags, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrTypeCheckFailed.Error()),
			"project", project.ConfigPath), "output", tail(out.String()))
	}
	return diags, nil
}

// Args returns the tsc arguments checking project.
func Args(project *domain.Project) []string {
	args := []string{"--noEmit", "--pretty", "false", "--incremental", "false", "--composite", "false"}

	keys := make([]string, 0, len(project.Options))
	for k := range project.Options {
		if !skippedOptions[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		v, ok := flagValue(k, project.Options[k])
		if !ok {
			continue
		}
		args = append(args, "--"+k, v)
	}
	return append(args, "-p", project.ConfigPath)
}

func flagValue(key string, v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case []any, []string:
		if !listOptions[key] {
			return "", false
		}
		items := domain.CompilerOptions{key: v}.Strings(key)
		if len(items) == 0 {
			return "", false
		}
		return strings.Join(items, ","), true
	default:
		return "", false
	}
}

var (
	locatedPattern = regexp.MustCompile(`^(.+)\((\d+),(\d+)\): (error|warning|message) TS(\d+): (.*)$`)
	globalPattern  = regexp.MustCompile(`^(error|warning|message) TS(\d+): (.*)$`)
)

// ParseOutput parses tsc output produced with --pretty false. Relative file
// names are resolved against cwd. Indented lines continue the previous
// diagnostic.
func ParseOutput(out []byte, cwd string) []domain.Diagnostic {
	var diags []domain.Diagnostic

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		if m := locatedPattern.FindStringSubmatch(line); m != nil {
			file := m[1]
			if !filepath.IsAbs(file) {
				file = filepath.Join(cwd, file)
			}
			lineNo, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			code, _ := strconv.Atoi(m[5])
			diags = append(diags, domain.Diagnostic{
				File:     file,
				Line:     lineNo,
				Column:   col,
				Category: category(m[4]),
				Code:     code,
				Message:  m[6],
			})
			continue
		}

		if m := globalPattern.FindStringSubmatch(line); m != nil {
			code, _ := strconv.Atoi(m[2])
			diags = append(diags, domain.Diagnostic{
				Category: category(m[1]),
				Code:     code,
				Message:  m[3],
			})
			continue
		}

		if len(diags) > 0 && (line[0] == ' ' || line[0] == '\t') {
			last := &diags[len(diags)-1]
			last.Message += "\n" + line
		}
	}
	return diags
}

func category(s string) domain.Category {
	switch s {
	case "error":
		return domain.CategoryError
	case "warning":
		return domain.CategoryWarning
	default:
		return domain.CategoryMessage
	}
}

func tail(s string) string {
	const limit = 2048
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return fmt.Sprintf("...%s", s[len(s)-limit:])
}
