// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/cgen/internal/generate"
	"github.com/petar-djukic/cgen/internal/gosrc"
)

// addOutputFlags registers the flags shared by render and import-go.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Target file (default stdout)")
	cmd.Flags().Bool("dry-run", false, "Print the diff instead of writing")
	cmd.Flags().Bool("commit", false, "Commit the written file")
}

// newRenderCmd creates the "render" command.
func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <description>",
		Short: "Render a YAML, JSON or TOML description",
		Long: "Render builds the C scope described by a .yaml, .yml, .json or .toml file and writes it " +
			"to the target, replacing only the region between cgen markers when the target has them.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, generate.Request{Inputs: args})
		},
	}
	addOutputFlags(cmd)
	return cmd
}

// newImportGoCmd creates the "import-go" command.
func newImportGoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-go <file or dir>...",
		Short: "Render C declarations for Go types",
		Long: "Import-go maps exported Go structs to C structs and constants of exported integer " +
			"types to C enums, for use in FFI headers.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := gosrc.Options{}
			opts.Prefix, _ = cmd.Flags().GetString("prefix")
			opts.Typedef, _ = cmd.Flags().GetBool("typedef")
			opts.SnakeMembers, _ = cmd.Flags().GetBool("snake")
			opts.Guard, _ = cmd.Flags().GetString("guard")
			opts.TypeMap, _ = cmd.Flags().GetStringToString("type-map")
			return a.runGenerate(cmd, generate.Request{Inputs: args, FromGo: true, Go: opts})
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().String("prefix", "", "Prefix for emitted struct and enum names")
	cmd.Flags().Bool("typedef", false, "Emit named typedefs")
	cmd.Flags().Bool("snake", false, "Render enumerators in UPPER_SNAKE_CASE")
	cmd.Flags().String("guard", "", "Include-guard macro (default #pragma once)")
	cmd.Flags().StringToString("type-map", nil, "Go type to C type overrides, e.g. time.Duration=int64_t")
	return cmd
}

// runGenerate fills the shared request fields and runs the pipeline.
func (a *app) runGenerate(cmd *cobra.Command, req generate.Request) error {
	req.Output, _ = cmd.Flags().GetString("output")
	req.DryRun, _ = cmd.Flags().GetBool("dry-run")
	req.Commit, _ = cmd.Flags().GetBool("commit")
	req.Strict = a.v.GetBool("strict")
	req.Compile = a.v.GetBool("compile")
	req.Verify = a.verifyConfig()
	req.AllowDirty = a.v.GetBool("allow-dirty")

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	res, err := generate.NewRunner(generate.Deps{Logger: a.log}).Run(ctx, req)
	if err != nil {
		return err
	}

	switch {
	case req.Output == "":
		fmt.Fprint(a.stdout, res.Rendered)
	case req.DryRun && res.Plan.Changed():
		fmt.Fprint(a.stdout, res.Plan.Diff())
	}
	return nil
}
