// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git commits generated files and recognises commits made by cgen.
package git

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
)

const generatedTrailer = "Generated-By: cgen"

var (
	// ErrNoGit is returned when the working directory is not a git repository.
	ErrNoGit = errors.New("not a git repository")
	// ErrDirtyTarget is returned when a file about to be regenerated has
	// uncommitted changes and Config.AllowDirty is false.
	ErrDirtyTarget = errors.New("generated file has uncommitted changes")
	// ErrNotGeneratedCommit is returned when undo targets a commit not made
	// by cgen.
	ErrNotGeneratedCommit = errors.New("not a cgen commit")
	// ErrOutsideRepo is returned for paths outside the work tree.
	ErrOutsideRepo = errors.New("path is outside the repository")
)

// Config configures git integration.
type Config struct {
	WorkDir    string // any directory inside the repository
	AllowDirty bool   // overwrite targets with uncommitted changes
}

// Repo wraps a go-git repository.
type Repo struct {
	repo *gogit.Repository
	root string
	cfg  Config
}

// Open opens the repository containing cfg.WorkDir.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(cfg.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(ErrNoGit, "%s: %v", cfg.WorkDir, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "getting worktree")
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, errors.Wrap(err, "resolving worktree root")
	}
	return &Repo{repo: r, root: root, cfg: cfg}, nil
}

// Root returns the work tree root.
func (r *Repo) Root() string { return r.root }

// IsDirty reports whether the work tree has staged, unstaged or untracked
// changes.
func (r *Repo) IsDirty() (bool, error) {
	status, err := r.status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

// CheckTargets returns ErrDirtyTarget when any of paths is tracked and has
// uncommitted changes, so hand edits are not silently overwritten.
// Untracked and missing files are fine.
func (r *Repo) CheckTargets(paths []string) error {
	if r.cfg.AllowDirty {
		return nil
	}
	status, err := r.status()
	if err != nil {
		return err
	}

	var dirty []string
	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return err
		}
		fs := status.File(rel)
		if fs.Worktree == gogit.Untracked {
			continue
		}
		if fs.Worktree != gogit.Unmodified || fs.Staging != gogit.Unmodified {
			dirty = append(dirty, rel)
		}
	}
	if len(dirty) > 0 {
		return errors.WithHint(errors.Wrapf(ErrDirtyTarget, "%s", strings.Join(dirty, ", ")),
			"commit or stash the changes, or pass --allow-dirty")
	}
	return nil
}

// IsGeneratedCommit reports whether HEAD carries the cgen trailer.
func (r *Repo) IsGeneratedCommit() (bool, error) {
	msg, err := r.lastCommitMessage()
	if err != nil {
		return false, err
	}
	return strings.Contains(msg, generatedTrailer), nil
}

func (r *Repo) status() (gogit.Status, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "getting worktree")
	}
	status, err := wt.Status()
	if err != nil {
		return nil, errors.Wrap(err, "getting status")
	}
	return status, nil
}

// relative converts p to a slash-separated path relative to the root.
func (r *Repo) relative(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", p)
	}
	root, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		root = r.root
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrOutsideRepo, "%s", p)
	}
	return filepath.ToSlash(rel), nil
}

func (r *Repo) lastCommitMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", errors.Wrap(err, "getting HEAD")
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", errors.Wrap(err, "getting commit")
	}
	return commit.Message, nil
}
