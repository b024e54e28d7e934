// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package schema

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/petar-djukic/cgen/pkg/cgen"
)

// pragmaOnce values of File.Guard select `#pragma once`.
var pragmaOnce = map[string]bool{
	"pragma once": true,
	"pragma_once": true,
	"#pragma once": true,
}

// Build converts the description into a scope. It fails on structural
// problems (unknown storage or typedef words, bad array sizes, items with no
// or several kinds) but does not validate C names; use Scope.Validate.
func (f *File) Build() (*cgen.Scope, error) {
	scope := cgen.NewScope()

	switch guard := strings.TrimSpace(f.Guard); {
	case guard == "":
	case pragmaOnce[strings.ToLower(guard)]:
		scope.WithIncludeGuards(cgen.PragmaOnce())
	default:
		scope.WithIncludeGuards(cgen.MacroGuard(guard))
	}
	if f.SeparateIncludes || f.SortIncludes {
		scope.SeparateIncludes(f.SortIncludes)
	}

	for i, item := range f.Items {
		sn, err := item.snippet()
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i+1)
		}
		scope.AddSnippet(sn)
	}
	return scope, nil
}

func (it Item) snippet() (cgen.Snippet, error) {
	var kinds []string
	var sn cgen.Snippet
	var err error

	if it.IncludeLib != "" {
		kinds = append(kinds, "include_lib")
		sn = cgen.LibInclude(it.IncludeLib)
	}
	if it.IncludeFile != "" {
		kinds = append(kinds, "include_file")
		sn = cgen.FileInclude(it.IncludeFile)
	}
	if it.Raw != nil {
		kinds = append(kinds, "raw")
		sn = cgen.Raw(strings.TrimSuffix(*it.Raw, "\n"))
	}
	if it.Struct != nil {
		kinds = append(kinds, "struct")
		sn, err = it.Struct.build()
	}
	if it.Enum != nil {
		kinds = append(kinds, "enum")
		sn, err = it.Enum.build()
	}
	if it.Func != nil {
		kinds = append(kinds, "func")
		if len(it.Func.Body) > 0 {
			err = errors.WithHint(errors.Wrap(ErrInvalidItem, "func has a body"), "use func_impl for definitions")
		} else {
			sn, err = it.Func.decl()
		}
	}
	if it.FuncImpl != nil {
		kinds = append(kinds, "func_impl")
		var decl cgen.FuncDecl
		decl, err = it.FuncImpl.decl()
		sn = cgen.NewFuncImpl(decl).AddLines(it.FuncImpl.Body...)
	}
	if it.Var != nil {
		kinds = append(kinds, "var")
		sn, err = it.Var.build()
	}

	switch {
	case len(kinds) == 0:
		return nil, errors.Wrap(ErrInvalidItem, "no kind set")
	case len(kinds) > 1:
		return nil, errors.Wrapf(ErrInvalidItem, "several kinds set: %s", strings.Join(kinds, ", "))
	case err != nil:
		return nil, errors.Wrap(err, kinds[0])
	}
	return sn, nil
}

func (d Decl) build() (cgen.Decl, error) {
	decl := cgen.NewDecl(d.Type, d.Name)
	if d.Const {
		decl = decl.Const()
	}
	switch a := strings.TrimSpace(d.Array); a {
	case "":
	case "unsized", "[]":
		decl = decl.UnsizedArray()
	default:
		n, err := strconv.ParseUint(strings.Trim(a, "[]"), 10, 64)
		if err != nil {
			return cgen.Decl{}, errors.WithHint(errors.Wrapf(ErrInvalidItem, "%s: array %q", d.Name, d.Array),
				`array is "unsized" or a non-negative integer`)
		}
		decl = decl.SizedArray(n)
	}
	return decl, nil
}

func typedefKind(kind, alias string) (*cgen.TypedefKind, error) {
	var td cgen.TypedefKind
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "":
		if alias != "" {
			td = cgen.ExplicitTypedef(alias)
			return &td, nil
		}
		return nil, nil
	case "named":
		td = cgen.NamedTypedef()
	case "unnamed":
		td = cgen.UnnamedTypedef()
	case "explicit":
		if alias == "" {
			return nil, errors.Wrap(ErrInvalidItem, "explicit typedef without alias")
		}
		td = cgen.ExplicitTypedef(alias)
	default:
		return nil, errors.WithHint(errors.Wrapf(ErrInvalidItem, "typedef %q", kind),
			`typedef is "named", "unnamed" or "explicit"`)
	}
	return &td, nil
}

func (s *Struct) build() (*cgen.Struct, error) {
	st := cgen.NewStruct(s.Name)
	td, err := typedefKind(s.Typedef, s.Alias)
	if err != nil {
		return nil, err
	}
	if td != nil {
		st.AsTypedef(*td)
	}
	for _, m := range s.Members {
		d, err := m.build()
		if err != nil {
			return nil, err
		}
		st.AddMember(d)
	}
	return st, nil
}

func (e *Enum) build() (*cgen.Enum, error) {
	en := cgen.NewEnum(e.Name)
	td, err := typedefKind(e.Typedef, e.Alias)
	if err != nil {
		return nil, err
	}
	if td != nil {
		en.AsTypedef(*td)
	}
	for _, m := range e.Members {
		if m.Value == nil {
			en.Member(m.Name)
		} else {
			en.BigValue(m.Name, &m.Value.Int)
		}
	}
	return en, nil
}

func storageOf(word string) (cgen.StorageClass, error) {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "":
		return cgen.NoStorage, nil
	case "extern":
		return cgen.Extern, nil
	case "static":
		return cgen.Static, nil
	default:
		return cgen.NoStorage, errors.WithHint(errors.Wrapf(ErrInvalidItem, "storage %q", word),
			`storage is "extern" or "static"`)
	}
}

func (f *Func) decl() (cgen.FuncDecl, error) {
	fn := cgen.NewFunc(f.Name)
	if f.Returns != "" {
		fn = fn.Returns(f.Returns)
	}
	storage, err := storageOf(f.Storage)
	if err != nil {
		return fn, err
	}
	switch storage {
	case cgen.Extern:
		fn = fn.Extern()
	case cgen.Static:
		fn = fn.Static()
	}
	if f.Inline {
		fn = fn.Inline()
	}
	for _, a := range f.Args {
		d, err := a.build()
		if err != nil {
			return fn, err
		}
		fn = fn.Arg(d)
	}
	return fn, nil
}

func (v *Var) build() (cgen.Variable, error) {
	d, err := v.Decl.build()
	if err != nil {
		return cgen.Variable{}, err
	}
	out := cgen.NewVariable(d)
	storage, err := storageOf(v.Storage)
	if err != nil {
		return out, err
	}
	switch storage {
	case cgen.Extern:
		out = out.Extern()
	case cgen.Static:
		out = out.Static()
	}
	if v.Init != nil {
		out = out.Init(*v.Init)
	}
	return out, nil
}
