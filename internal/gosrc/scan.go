// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package gosrc

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// skipDirs are never entered when expanding "dir/...".
var skipDirs = map[string]bool{
	"vendor":       true,
	"testdata":     true,
	"node_modules": true,
}

// ParseFiles parses the Go files named by paths. A directory expands to its
// non-test .go files; "dir/..." also walks subdirectories, skipping vendor,
// testdata and hidden directories. Files are parsed by a bounded worker
// pool and returned in path order. The first parse error in that order is
// returned.
func ParseFiles(fset *token.FileSet, paths []string) ([]*ast.File, error) {
	var names []string
	for _, p := range paths {
		expanded, err := expand(p)
		if err != nil {
			return nil, err
		}
		names = append(names, expanded...)
	}
	if len(names) == 0 {
		return nil, errors.WithHint(errors.Newf("no Go files in %s", strings.Join(paths, ", ")),
			"pass .go files, a package directory, or dir/... to recurse")
	}

	type parsed struct {
		file *ast.File
		err  error
	}
	results := make([]parsed, len(names))
	jobs := make(chan int, len(names))

	var wg sync.WaitGroup
	for w := 0; w < min(runtime.NumCPU(), len(names)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f, err := parser.ParseFile(fset, names[i], nil, parser.ParseComments|parser.SkipObjectResolution)
				results[i] = parsed{file: f, err: err}
			}
		}()
	}
	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	files := make([]*ast.File, 0, len(names))
	for i, r := range results {
		if r.err != nil {
			return nil, errors.Wrapf(r.err, "parsing %s", names[i])
		}
		files = append(files, r.file)
	}
	return files, nil
}

// expand resolves one path argument to Go file names.
func expand(p string) ([]string, error) {
	recursive := false
	if rest, ok := strings.CutSuffix(filepath.ToSlash(p), "/..."); ok {
		p, recursive = filepath.FromSlash(rest), true
		if p == "" {
			p = "."
		}
	}

	info, err := os.Stat(p)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", p)
	}
	if !info.IsDir() {
		if recursive {
			return nil, errors.Newf("%s/... names a file", p)
		}
		return []string{p}, nil
	}

	var names []string
	err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == p {
				return nil
			}
			if !recursive || skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if isSource(d.Name()) {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", p)
	}
	return names, nil
}

func isSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, ".") && !strings.HasPrefix(name, "_")
}
