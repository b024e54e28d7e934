// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package generate runs the cgen pipeline: load a description, build and
// validate the scope, render it, check the C syntax, optionally compile it,
// then diff or write the target and optionally commit it.
package generate

import (
	"context"
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/petar-djukic/cgen/internal/git"
	"github.com/petar-djukic/cgen/internal/gosrc"
	"github.com/petar-djukic/cgen/internal/output"
	"github.com/petar-djukic/cgen/internal/schema"
	"github.com/petar-djukic/cgen/internal/syntax"
	"github.com/petar-djukic/cgen/internal/verify"
	"github.com/petar-djukic/cgen/pkg/cgen"
	"github.com/petar-djukic/cgen/pkg/types"
)

var (
	// ErrValidation is returned in strict mode when the scope has invalid
	// names, duplicates or enum values.
	ErrValidation = errors.New("validation failed")
	// ErrSyntax is returned in strict mode when the rendered text does not
	// parse as C.
	ErrSyntax = errors.New("rendered output is not valid C")
	// ErrCompile is returned when compiler verification fails.
	ErrCompile = errors.New("compiler rejected rendered output")
)

// CompileFunc verifies rendered C. verify.Verify is the default.
type CompileFunc func(ctx context.Context, cfg verify.Config, filePath string, content []byte) (*verify.Result, error)

// Deps holds injected dependencies for the runner.
type Deps struct {
	Logger  *zap.Logger // nil means no logging
	Compile CompileFunc // nil means verify.Verify
}

// Request describes one generation.
type Request struct {
	Inputs     []string      // description file, or Go files and directories with FromGo
	FromGo     bool          // Inputs are Go sources
	Go         gosrc.Options // importer options when FromGo is set
	Output     string        // target file; empty leaves the text in Result.Rendered only
	Strict     bool          // fail on validation or syntax problems instead of warning
	Compile    bool          // run the C compiler on the rendered text
	Verify     verify.Config // compiler settings
	DryRun     bool          // compute the plan and diff without writing
	Commit     bool          // commit the written target
	AllowDirty bool          // overwrite targets with uncommitted changes
}

// Result is the outcome of Run.
type Result struct {
	Rendered    string
	Validation  []*cgen.ValidationError
	Diagnostics []types.Diagnostic
	Plan        *output.Plan // nil when Request.Output is empty
	Written     bool
	CommitHash  string
}

// Runner executes generation requests.
type Runner struct {
	deps Deps
	log  *zap.Logger
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Compile == nil {
		deps.Compile = verify.Verify
	}
	return &Runner{deps: deps, log: log}
}

// Run executes the pipeline for req. The returned Result is non-nil and
// holds whatever was computed before a failure.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{}

	scope, source, err := r.load(req)
	if err != nil {
		return result, err
	}

	if err := r.validate(scope, req, result); err != nil {
		return result, err
	}

	result.Rendered = scope.String()
	r.log.Debug("rendered", zap.String("source", source), zap.Int("bytes", len(result.Rendered)))

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := r.checkSyntax(ctx, req, result); err != nil {
		return result, err
	}

	if req.Compile {
		if err := r.compile(ctx, req, result); err != nil {
			return result, err
		}
	}

	if req.Output == "" {
		return result, nil
	}
	return result, r.write(req, source, result)
}

// load builds the scope and names its source for logs and commit messages.
func (r *Runner) load(req Request) (*cgen.Scope, string, error) {
	if len(req.Inputs) == 0 {
		return nil, "", errors.New("no input given")
	}
	source := strings.Join(req.Inputs, ", ")

	if req.FromGo {
		fset := token.NewFileSet()
		files, err := gosrc.ParseFiles(fset, req.Inputs)
		if err != nil {
			return nil, source, err
		}
		scope, err := gosrc.Import(fset, files, req.Go)
		if err != nil {
			return nil, source, errors.Wrap(err, "importing Go declarations")
		}
		r.log.Info("imported Go declarations", zap.Int("files", len(files)), zap.Int("snippets", len(scope.Snippets())))
		return scope, source, nil
	}

	if len(req.Inputs) > 1 {
		return nil, source, errors.WithHint(errors.New("several description files given"),
			"render one description per output file")
	}
	desc, err := schema.Load(req.Inputs[0])
	if err != nil {
		return nil, source, err
	}
	scope, err := desc.Build()
	if err != nil {
		return nil, source, errors.Wrapf(err, "building %s", req.Inputs[0])
	}
	r.log.Info("loaded description", zap.String("file", req.Inputs[0]), zap.Int("items", len(desc.Items)))
	return scope, source, nil
}

func (r *Runner) validate(scope *cgen.Scope, req Request, result *Result) error {
	err := scope.Validate()
	if err == nil {
		return nil
	}
	result.Validation = cgen.Errors(err)
	if req.Strict {
		return errors.Wrapf(ErrValidation, "%d problems: %v", len(result.Validation), err)
	}
	for _, ve := range result.Validation {
		r.log.Warn("validation", zap.String("entity", ve.Entity), zap.String("field", ve.Field), zap.String("problem", ve.Message))
	}
	return nil
}

func (r *Runner) displayName(req Request) string {
	if req.Output != "" {
		return req.Output
	}
	return "<stdout>"
}

func (r *Runner) checkSyntax(ctx context.Context, req Request, result *Result) error {
	name := r.displayName(req)
	content := []byte(result.Rendered)

	diags, err := syntax.Check(ctx, name, content)
	if err != nil {
		return errors.Wrap(err, "checking syntax")
	}
	result.Diagnostics = append(result.Diagnostics, diags...)

	if len(diags) > 0 {
		report := verify.FormatReport(diags, content, 0)
		if req.Strict {
			return errors.WithDetail(errors.Wrapf(ErrSyntax, "%d problems", len(diags)), report)
		}
		r.log.Warn("syntax problems in rendered output", zap.String("report", report))
		return nil
	}

	if ce := r.log.Check(zap.DebugLevel, "definitions"); ce != nil {
		defs, err := syntax.Definitions(ctx, content)
		if err != nil {
			return errors.Wrap(err, "listing definitions")
		}
		names := make([]string, 0, len(defs))
		for _, d := range defs {
			names = append(names, d.Kind.String()+" "+d.Name)
		}
		ce.Write(zap.Strings("defs", names))
	}
	return nil
}

func (r *Runner) compile(ctx context.Context, req Request, result *Result) error {
	name := r.displayName(req)
	content := []byte(result.Rendered)

	res, err := r.deps.Compile(ctx, req.Verify, name, content)
	if err != nil {
		return errors.Wrap(err, "running compiler")
	}
	result.Diagnostics = append(result.Diagnostics, res.Diagnostics...)
	if !res.OK {
		report := verify.FormatReport(res.Diagnostics, content, 0)
		if report == "" {
			report = res.Output
		}
		return errors.WithDetail(ErrCompile, report)
	}
	r.log.Info("compiler accepted output", zap.String("file", name))
	return nil
}

func (r *Runner) write(req Request, source string, result *Result) error {
	var repo *git.Repo
	if req.Commit || !req.AllowDirty {
		opened, err := git.Open(git.Config{WorkDir: dirOf(req.Output), AllowDirty: req.AllowDirty})
		switch {
		case err == nil:
			repo = opened
		case req.Commit:
			return err
		default:
			r.log.Debug("no git repository", zap.Error(err))
		}
	}
	if repo != nil {
		if err := repo.CheckTargets([]string{req.Output}); err != nil {
			return err
		}
	}

	plan, err := output.Prepare(req.Output, result.Rendered)
	if err != nil {
		return err
	}
	result.Plan = plan

	if !plan.Changed() {
		r.log.Info("up to date", zap.String("file", req.Output))
		return nil
	}
	if req.DryRun {
		r.log.Info("would update", zap.String("file", req.Output), zap.Bool("spliced", plan.Spliced))
		return nil
	}

	if err := plan.Apply(); err != nil {
		return err
	}
	result.Written = true
	r.log.Info("wrote", zap.String("file", req.Output), zap.Bool("spliced", plan.Spliced))

	if req.Commit {
		hash, err := repo.Commit(source, []string{req.Output})
		if err != nil {
			return err
		}
		if !hash.IsZero() {
			result.CommitHash = hash.String()
			r.log.Info("committed", zap.String("hash", result.CommitHash))
		}
	}
	return nil
}
