// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petar-djukic/cgen/internal/git"
	"github.com/petar-djukic/cgen/internal/syntax"
	"github.com/petar-djukic/cgen/internal/verify"
	"github.com/petar-djukic/cgen/pkg/types"
)

var errCheckFailed = errors.New("check failed")

// newCheckCmd creates the "check" command.
func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check C files for syntax errors",
		Long: "Check parses existing C files with tree-sitter and, with --compile, runs the C compiler " +
			"on them. With --defs it lists the top-level definitions found.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, _ := cmd.Flags().GetBool("defs")
			return a.runCheck(cmd, args, defs)
		},
	}
	cmd.Flags().Bool("defs", false, "List top-level definitions")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, paths []string, listDefs bool) error {
	ctx := cmd.Context()
	failed := 0

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}

		diags, err := syntax.Check(ctx, path, content)
		if err != nil {
			return err
		}
		bad := types.HasErrors(diags)
		if !bad && a.v.GetBool("compile") {
			res, err := verify.Verify(ctx, a.verifyConfig(), path, content)
			if err != nil {
				return err
			}
			diags = res.Diagnostics
			bad = !res.OK
			if bad && len(diags) == 0 {
				fmt.Fprintln(a.stdout, res.Output)
			}
		}

		if len(diags) > 0 {
			fmt.Fprint(a.stdout, verify.FormatReport(diags, content, 0))
		}
		if bad {
			failed++
			continue
		}
		a.log.Info("ok", zap.String("file", path))

		if listDefs {
			defs, err := syntax.Definitions(ctx, content)
			if err != nil {
				return err
			}
			for _, d := range defs {
				fmt.Fprintf(a.stdout, "%s:%d: %s %s\n", path, d.Line, d.Kind, d.Name)
			}
		}
	}

	if failed > 0 {
		return errors.Wrapf(errCheckFailed, "%d of %d files", failed, len(paths))
	}
	return nil
}

// newUndoCmd creates the "undo" command.
func newUndoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last cgen commit",
		Long:  "Undo performs a soft reset of HEAD if it was committed by cgen, keeping the generated changes staged.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := git.Open(git.Config{WorkDir: "."})
			if err != nil {
				return err
			}
			if err := repo.Undo(); err != nil {
				return errors.Wrap(err, "undo failed")
			}
			fmt.Fprintln(a.stdout, "Reverted the last cgen commit.")
			return nil
		},
	}
}
