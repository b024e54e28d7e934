// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package verify runs a C compiler over rendered text and turns its output
// into diagnostics.
package verify

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/petar-djukic/cgen/pkg/types"
)

const (
	defaultCompiler = "cc"
	// DefaultTimeout bounds one compiler run when Config.Timeout is zero.
	DefaultTimeout = 30 * time.Second
)

// ErrCompilerNotFound is returned when the configured compiler is not on PATH.
var ErrCompilerNotFound = errors.New("C compiler not found")

// Config configures the verifier.
type Config struct {
	Compiler string        // Compiler executable (default "cc")
	Flags    []string      // Extra flags, e.g. -std=c11 or -I paths
	Timeout  time.Duration // Timeout for one compiler run (default 30s)
}

// Result holds the outcome of a compiler run.
type Result struct {
	OK          bool               // Compiler exited successfully
	Output      string             // Raw compiler output (stdout+stderr)
	Diagnostics []types.Diagnostic // Parsed diagnostics, paths mapped to the original name
}

// Verify writes content to a temporary file named after filePath and runs
// `<compiler> -fsyntax-only -x c` on it. Diagnostics refer to filePath.
func Verify(ctx context.Context, cfg Config, filePath string, content []byte) (*Result, error) {
	applyDefaults(&cfg)

	compiler, err := exec.LookPath(cfg.Compiler)
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(ErrCompilerNotFound, "%s", cfg.Compiler),
			"install a C compiler or pass --cc")
	}

	dir, err := os.MkdirTemp("", "cgen-verify-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp dir")
	}
	defer os.RemoveAll(dir)

	tmpPath := filepath.Join(dir, filepath.Base(filePath))
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return nil, errors.Wrap(err, "writing temp file")
	}

	args := append([]string{"-fsyntax-only", "-x", "c"}, cfg.Flags...)
	args = append(args, tmpPath)
	out, runErr := runCommand(ctx, dir, cfg.Timeout, compiler, args...)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	diags := parseDiagnostics(out)
	for i := range diags {
		if diags[i].FilePath == tmpPath || filepath.Base(diags[i].FilePath) == filepath.Base(tmpPath) {
			diags[i].FilePath = filePath
		}
	}

	return &Result{
		OK:          runErr == nil,
		Output:      out,
		Diagnostics: diags,
	}, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Compiler == "" {
		cfg.Compiler = defaultCompiler
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
}

// runCommand executes a command with a timeout and captures combined output.
func runCommand(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, name, args...)
	cmd.Dir = dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return buf.String(), err
}

// diagRegex matches gcc and clang diagnostic lines:
// file.h:10:5: error: message
// file.h:10: warning: message
var diagRegex = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?: (fatal error|error|warning|note): (.+)$`)

// parseDiagnostics extracts diagnostics from compiler output. Lines that are
// not diagnostics (source excerpts, carets, summaries) are skipped.
func parseDiagnostics(output string) []types.Diagnostic {
	var diags []types.Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matches := diagRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		lineNum, _ := strconv.Atoi(matches[2])
		colNum := 0
		if matches[3] != "" {
			colNum, _ = strconv.Atoi(matches[3])
		}

		diags = append(diags, types.Diagnostic{
			FilePath: matches[1],
			Line:     lineNum,
			Column:   colNum,
			Severity: types.ParseSeverity(matches[4]),
			Message:  matches[5],
		})
	}
	return diags
}
