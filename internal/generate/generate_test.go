// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/petar-djukic/cgen/internal/git"
	"github.com/petar-djukic/cgen/internal/gosrc"
	"github.com/petar-djukic/cgen/internal/output"
	"github.com/petar-djukic/cgen/internal/verify"
	"github.com/petar-djukic/cgen/pkg/types"
)

const fooDesc = `guard: FOO_H
items:
  - include_lib: stdint.h
  - struct:
      name: foo
      typedef: named
      members:
        - {type: uint32_t, name: id}
  - func:
      name: foo_init
      args:
        - {type: "foo *", name: f}
`

const fooHeader = `#ifndef FOO_H
#define FOO_H
#include <stdint.h>
typedef struct foo {
    uint32_t id;
} foo;
void foo_init(foo * f);
#endif /* FOO_H */
`

func newRunner(t *testing.T) *Runner {
	return NewRunner(Deps{Logger: zaptest.NewLogger(t)})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_WritesTarget(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "foo.yaml", fooDesc)
	target := filepath.Join(dir, "include", "foo.h")

	r := newRunner(t)
	req := Request{Inputs: []string{desc}, Output: target, Strict: true, AllowDirty: true}

	res, err := r.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Empty(t, res.Validation)
	assert.Empty(t, res.Diagnostics)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, fooHeader, string(data))

	// A second run finds nothing to do.
	res, err = r.Run(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.False(t, res.Plan.Changed())
}

func TestRun_Stdout(t *testing.T) {
	desc := writeFile(t, t.TempDir(), "foo.yaml", fooDesc)

	res, err := newRunner(t).Run(context.Background(), Request{Inputs: []string{desc}})
	require.NoError(t, err)
	assert.Equal(t, fooHeader, res.Rendered)
	assert.Nil(t, res.Plan)
}

func TestRun_DryRunLeavesFileAlone(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "foo.yaml", fooDesc)
	target := writeFile(t, dir, "foo.h", "/* old */\n")

	res, err := newRunner(t).Run(context.Background(), Request{
		Inputs: []string{desc}, Output: target, DryRun: true, AllowDirty: true,
	})
	require.NoError(t, err)
	assert.False(t, res.Written)
	require.NotNil(t, res.Plan)
	assert.Contains(t, res.Plan.Diff(), "- /* old */")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "/* old */\n", string(data))
}

func TestRun_SplicesMarkedRegion(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "foo.yaml", "items:\n  - raw: \"#define FOO 1\"\n")
	target := writeFile(t, dir, "foo.c", "int keep;\n"+output.BeginMarker+"\nold\n"+output.EndMarker+"\n")

	res, err := newRunner(t).Run(context.Background(), Request{Inputs: []string{desc}, Output: target, AllowDirty: true})
	require.NoError(t, err)
	assert.True(t, res.Plan.Spliced)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "int keep;\n"+output.BeginMarker+"\n#define FOO 1\n"+output.EndMarker+"\n", string(data))
}

func TestRun_Validation(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "bad.yaml", "items:\n  - enum: {name: e, members: [{name: A}, {name: A}]}\n")

	res, err := newRunner(t).Run(context.Background(), Request{Inputs: []string{desc}, Strict: true})
	assert.True(t, errors.Is(err, ErrValidation), "%v", err)
	require.Len(t, res.Validation, 1)
	assert.Empty(t, res.Rendered)

	// Without Strict the problem is only reported.
	res, err = newRunner(t).Run(context.Background(), Request{Inputs: []string{desc}})
	require.NoError(t, err)
	assert.Len(t, res.Validation, 1)
	assert.Contains(t, res.Rendered, "enum e {")
}

func TestRun_SyntaxError(t *testing.T) {
	desc := writeFile(t, t.TempDir(), "raw.yaml", "items:\n  - raw: \"int x = ;\"\n")

	res, err := newRunner(t).Run(context.Background(), Request{Inputs: []string{desc}, Strict: true})
	assert.True(t, errors.Is(err, ErrSyntax), "%v", err)
	assert.True(t, types.HasErrors(res.Diagnostics))

	res, err = newRunner(t).Run(context.Background(), Request{Inputs: []string{desc}})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Diagnostics)
}

func TestRun_CompileFailure(t *testing.T) {
	desc := writeFile(t, t.TempDir(), "foo.yaml", fooDesc)

	var gotCfg verify.Config
	r := NewRunner(Deps{
		Logger: zaptest.NewLogger(t),
		Compile: func(_ context.Context, cfg verify.Config, path string, _ []byte) (*verify.Result, error) {
			gotCfg = cfg
			return &verify.Result{
				Output: path + ":5:5: error: unknown type name 'uint32_t'",
				Diagnostics: []types.Diagnostic{{
					FilePath: path, Line: 5, Column: 5, Severity: types.SeverityError,
					Message: "unknown type name 'uint32_t'",
				}},
			}, nil
		},
	})

	res, err := r.Run(context.Background(), Request{
		Inputs:  []string{desc},
		Compile: true,
		Verify:  verify.Config{Compiler: "fakecc", Flags: []string{"-std=c99"}},
	})
	assert.True(t, errors.Is(err, ErrCompile), "%v", err)
	assert.Contains(t, errors.FlattenDetails(err), "unknown type name")
	assert.Equal(t, "fakecc", gotCfg.Compiler)
	assert.Len(t, res.Diagnostics, 1)
}

func TestRun_FromGo(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "point.go", "package geo\n\ntype Point struct {\n\tX, Y float64\n}\n")

	res, err := newRunner(t).Run(context.Background(), Request{
		Inputs: []string{src},
		FromGo: true,
		Go:     gosrc.Options{Prefix: "geo_", Typedef: true, Guard: "GEO_H"},
		Strict: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "#ifndef GEO_H\n#define GEO_H\ntypedef struct geo_Point {\n    double X;\n    double Y;\n} geo_Point;\n#endif /* GEO_H */\n", res.Rendered)
}

func TestRun_Commit(t *testing.T) {
	dir := initRepo(t)
	desc := writeFile(t, dir, "foo.yaml", fooDesc)
	target := filepath.Join(dir, "foo.h")

	res, err := newRunner(t).Run(context.Background(), Request{Inputs: []string{desc}, Output: target, Commit: true})
	require.NoError(t, err)
	assert.NotEmpty(t, res.CommitHash)

	repo, err := git.Open(git.Config{WorkDir: dir})
	require.NoError(t, err)
	generated, err := repo.IsGeneratedCommit()
	require.NoError(t, err)
	assert.True(t, generated)

	// A hand edit to the generated file blocks the next run.
	writeFile(t, dir, "foo.h", "/* edited */\n")
	_, err = newRunner(t).Run(context.Background(), Request{Inputs: []string{desc}, Output: target})
	assert.True(t, errors.Is(err, git.ErrDirtyTarget), "%v", err)
}

func TestRun_CommitWithoutRepo(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "foo.yaml", fooDesc)

	_, err := newRunner(t).Run(context.Background(), Request{
		Inputs: []string{desc}, Output: filepath.Join(dir, "foo.h"), Commit: true,
	})
	assert.True(t, errors.Is(err, git.ErrNoGit), "%v", err)
}

func TestRun_Errors(t *testing.T) {
	r := newRunner(t)

	_, err := r.Run(context.Background(), Request{})
	assert.Error(t, err)

	_, err = r.Run(context.Background(), Request{Inputs: []string{"a.yaml", "b.yaml"}})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	desc := writeFile(t, t.TempDir(), "foo.yaml", fooDesc)
	_, err = r.Run(ctx, Request{Inputs: []string{desc}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirOf(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, dirOf(filepath.Join(dir, "a", "b", "c.h")))
	assert.Equal(t, dir, dirOf(filepath.Join(dir, "c.h")))
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)

	writeFile(t, dir, "README", "demo\n")
	_, err = wt.Add("README")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}
