// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package output puts rendered C text on disk: atomic writes, splicing into a
// marked region of an existing file, and diffs against what is there now.
package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// BeginMarker and EndMarker delimit the generated region of a file that
	// also carries hand-written code.
	BeginMarker = "/* cgen:begin */"
	EndMarker   = "/* cgen:end */"
)

// ErrUnbalancedMarkers is returned when a file has one region marker but not
// the other, or has them in the wrong order.
var ErrUnbalancedMarkers = errors.New("unbalanced cgen region markers")

// Plan describes what writing a file would do, without touching the disk.
type Plan struct {
	Path    string // Target path
	Old     string // Current file content ("" when the file does not exist)
	New     string // Content after the write
	Exists  bool   // Target exists
	Spliced bool   // Only the marked region is replaced
}

// Changed reports whether the write would modify the file.
func (p *Plan) Changed() bool {
	return !p.Exists || p.Old != p.New
}

// Prepare computes the content to write to path. If the existing file
// carries region markers, only the text between them is replaced by
// generated; otherwise the whole file is.
func Prepare(path, generated string) (*Plan, error) {
	plan := &Plan{Path: path, New: generated}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return plan, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	plan.Exists = true
	plan.Old = string(data)

	spliced, ok, err := Splice(plan.Old, generated)
	if err != nil {
		return nil, errors.Wrapf(err, "splicing %s", path)
	}
	if ok {
		plan.New = spliced
		plan.Spliced = true
	}
	return plan, nil
}

// Splice replaces the text between BeginMarker and EndMarker in content with
// generated. The marker lines are kept. It returns false if content has no
// markers.
func Splice(content, generated string) (string, bool, error) {
	begin := strings.Index(content, BeginMarker)
	end := strings.Index(content, EndMarker)
	switch {
	case begin < 0 && end < 0:
		return "", false, nil
	case begin < 0 || end < 0 || end < begin:
		return "", false, ErrUnbalancedMarkers
	}

	// Keep the rest of the begin marker's line.
	start := begin + len(BeginMarker)
	if nl := strings.IndexByte(content[start:], '\n'); nl >= 0 && nl < end-start {
		start += nl + 1
	} else {
		return "", false, errors.Wrap(ErrUnbalancedMarkers, "markers share a line")
	}
	// Keep the indentation before the end marker on its line.
	stop := strings.LastIndexByte(content[:end], '\n') + 1

	if generated != "" && !strings.HasSuffix(generated, "\n") {
		generated += "\n"
	}
	return content[:start] + generated + content[stop:], true, nil
}

// Apply writes the plan to disk if it changes anything.
func (p *Plan) Apply() error {
	if !p.Changed() {
		return nil
	}
	return WriteFile(p.Path, []byte(p.New))
}

// WriteFile writes data atomically: it writes a temp file in the same
// directory, then renames it over path. Existing permissions are preserved;
// new files get 0644. Missing parent directories are created.
func WriteFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".cgen-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return errors.Wrap(err, "setting permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "renaming temp file to %s", path)
	}

	success = true
	return nil
}
