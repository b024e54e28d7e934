// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"time"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "cgen"
	authorEmail = "noreply@cgen"
)

// Commit stages exactly paths and commits them with a message naming
// source. It returns the zero hash and no error when nothing changed.
func (r *Repo) Commit(source string, paths []string) (plumbing.Hash, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "getting worktree")
	}

	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		if _, err := wt.Add(rel); err != nil {
			return plumbing.ZeroHash, errors.Wrapf(err, "staging %s", rel)
		}
		rels = append(rels, rel)
	}

	status, err := wt.Status()
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "getting status")
	}
	staged := false
	for _, rel := range rels {
		if s := status.File(rel).Staging; s != gogit.Unmodified && s != gogit.Untracked {
			staged = true
			break
		}
	}
	if !staged {
		return plumbing.ZeroHash, nil
	}

	hash, err := wt.Commit(Message(source, rels), &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "committing")
	}
	return hash, nil
}

// Undo reverts HEAD with a soft reset if it was made by cgen, leaving the
// generated changes staged.
func (r *Repo) Undo() error {
	generated, err := r.IsGeneratedCommit()
	if err != nil {
		return err
	}
	if !generated {
		return ErrNotGeneratedCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return errors.Wrap(err, "getting HEAD")
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return errors.Wrap(err, "getting commit")
	}
	if commit.NumParents() == 0 {
		return errors.New("cannot undo: HEAD is the initial commit")
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return errors.Wrap(err, "getting parent commit")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return errors.Wrap(err, "getting worktree")
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: parent.Hash, Mode: gogit.SoftReset}); err != nil {
		return errors.Wrap(err, "resetting to parent")
	}
	return nil
}
