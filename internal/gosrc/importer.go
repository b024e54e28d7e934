// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package gosrc synthesizes C declarations from Go source: exported struct
// types become C structs and constants of exported integer types become C
// enums. The result is a cgen.Scope suitable for an FFI header.
package gosrc

import (
	"go/ast"
	"go/constant"
	"go/token"
	"math/big"
	"sort"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/petar-djukic/cgen/pkg/cgen"
)

// Options controls how Go declarations are mapped.
type Options struct {
	// Prefix is prepended to every emitted struct and enum name.
	Prefix string
	// Typedef emits named typedefs so types are referenced without the
	// struct/enum keyword.
	Typedef bool
	// SnakeMembers renders enumerators in UPPER_SNAKE_CASE.
	SnakeMembers bool
	// Guard is the include-guard macro; empty selects #pragma once.
	Guard string
	// TypeMap overrides the C spelling for a Go type expression as written
	// in the source, e.g. "time.Duration": "int64_t".
	TypeMap map[string]string
}

// enumDef accumulates the members of one Go enum type.
type enumDef struct {
	name       string
	underlying string
	members    []enumMember
}

type enumMember struct {
	name  string
	pos   token.Pos
	value *big.Int
}

// Import maps the declarations in files to a scope. Files are processed in
// file-name order so the output does not depend on the caller's ordering.
// Enums are emitted before structs; within each group Go declaration order
// is kept.
func Import(fset *token.FileSet, files []*ast.File, opts Options) (*cgen.Scope, error) {
	files = append([]*ast.File(nil), files...)
	sort.SliceStable(files, func(i, j int) bool {
		return fset.Position(files[i].Pos()).Filename < fset.Position(files[j].Pos()).Filename
	})

	imp := &importer{
		fset:  fset,
		opts:  opts,
		enums: make(map[string]*enumDef),
		m: &mapper{
			opts:    opts,
			locals:  make(map[string]localKind),
			aliases: make(map[string]string),
			eval:    newEvaluator(),
			headers: make(map[string]bool),
		},
	}

	// Types first so constants and fields can refer to any of them.
	for _, f := range files {
		imp.walk(f, imp.collectType)
	}
	for _, f := range files {
		imp.walk(f, imp.collectConsts)
	}
	if imp.err == nil {
		imp.err = imp.resolveEnums()
	}
	for _, f := range files {
		imp.walk(f, imp.collectStruct)
	}
	if imp.err != nil {
		return nil, imp.err
	}
	return imp.scope(), nil
}

type importer struct {
	fset    *token.FileSet
	opts    Options
	m       *mapper
	order   []string
	enums   map[string]*enumDef
	structs []*cgen.Struct
	err     error
}

// walk visits top-level declarations of f with fn, stopping at the first
// error.
func (imp *importer) walk(f *ast.File, fn func(*ast.GenDecl) error) {
	astutil.Apply(f, func(c *astutil.Cursor) bool {
		if imp.err != nil {
			return false
		}
		switch n := c.Node().(type) {
		case *ast.File:
			return true
		case *ast.GenDecl:
			if err := fn(n); err != nil {
				imp.err = errors.Wrapf(err, "%s", imp.fset.Position(n.Pos()))
			}
		}
		return false
	}, nil)
}

func (imp *importer) collectType(gd *ast.GenDecl) error {
	if gd.Tok != token.TYPE {
		return nil
	}
	for _, spec := range gd.Specs {
		ts := spec.(*ast.TypeSpec)
		if !ts.Name.IsExported() || ts.TypeParams != nil || ts.Assign.IsValid() {
			continue
		}
		switch t := ts.Type.(type) {
		case *ast.StructType:
			imp.m.locals[ts.Name.Name] = localStruct
		case *ast.Ident:
			if integerTypes[t.Name] {
				imp.m.locals[ts.Name.Name] = localEnum
				imp.enums[ts.Name.Name] = &enumDef{name: ts.Name.Name, underlying: t.Name}
				imp.order = append(imp.order, ts.Name.Name)
				if w, ok := unsignedWidths[t.Name]; ok {
					imp.m.eval.widths[ts.Name.Name] = w
				}
			}
		}
	}
	return nil
}

// collectConsts records a const block for lazy evaluation. A ValueSpec
// without type and values repeats the previous one with iota advanced, as
// in Go. Exported constants of an enum type become its members.
func (imp *importer) collectConsts(gd *ast.GenDecl) error {
	if gd.Tok != token.CONST {
		return nil
	}

	var typ ast.Expr
	var values []ast.Expr
	for i, spec := range gd.Specs {
		vs := spec.(*ast.ValueSpec)
		if vs.Type != nil || len(vs.Values) > 0 {
			typ, values = vs.Type, vs.Values
		}
		if len(values) < len(vs.Names) {
			return errors.Newf("missing value for constant %s", vs.Names[0].Name)
		}

		for j, name := range vs.Names {
			if name.Name == "_" {
				continue
			}
			imp.m.eval.define(name.Name, constDef{
				expr: values[j],
				iota: int64(i),
				prec: imp.m.eval.widthOf(typ),
			})

			enum := imp.enums[enumTypeOf(typ, values[j])]
			if enum == nil || !name.IsExported() {
				continue
			}
			enum.members = append(enum.members, enumMember{name: name.Name, pos: name.Pos()})
		}
	}
	return nil
}

// resolveEnums evaluates every enum member. Other constants are evaluated
// only when something refers to them, so one that cannot be folded, such as
// 5 * time.Second, does not fail the import. An enum type with no members
// is emitted as its underlying integer type.
func (imp *importer) resolveEnums() error {
	for _, name := range imp.order {
		def := imp.enums[name]
		for i := range def.members {
			mem := &def.members[i]
			pos := imp.fset.Position(mem.pos)
			v, err := imp.m.eval.resolve(mem.name)
			if err != nil {
				return errors.Wrapf(err, "%s", pos)
			}
			if v.Kind() != constant.Int {
				return errors.Newf("%s: constant %s of enum %s is not an integer", pos, mem.name, def.name)
			}
			mem.value, _ = new(big.Int).SetString(v.ExactString(), 10)
		}
		if len(def.members) == 0 {
			delete(imp.m.locals, name)
			imp.m.aliases[name] = def.underlying
		}
	}
	return nil
}

// enumTypeOf names the type of a constant: the declared type, or the target
// of a conversion such as Mode(1) for untyped specs.
func enumTypeOf(typ, value ast.Expr) string {
	if id, ok := typ.(*ast.Ident); ok {
		return id.Name
	}
	if typ == nil {
		if call, ok := value.(*ast.CallExpr); ok {
			if id, ok := call.Fun.(*ast.Ident); ok {
				return id.Name
			}
		}
	}
	return ""
}

func (imp *importer) collectStruct(gd *ast.GenDecl) error {
	if gd.Tok != token.TYPE {
		return nil
	}
	for _, spec := range gd.Specs {
		ts := spec.(*ast.TypeSpec)
		st, ok := ts.Type.(*ast.StructType)
		if kind, local := imp.m.locals[ts.Name.Name]; !ok || !local || kind != localStruct {
			continue
		}

		out := cgen.NewStruct(imp.opts.Prefix + ts.Name.Name)
		if imp.opts.Typedef {
			out.AsTypedef(cgen.NamedTypedef())
		}
		for _, fld := range st.Fields.List {
			if len(fld.Names) == 0 {
				return errors.Newf("struct %s: embedded field %s is not supported", ts.Name.Name, exprName(fld.Type))
			}
			for _, name := range fld.Names {
				if name.Name == "_" {
					continue
				}
				decls, err := imp.m.field(name.Name, fld.Type)
				if err != nil {
					return errors.Wrapf(err, "struct %s field %s", ts.Name.Name, name.Name)
				}
				for _, d := range decls {
					out.AddMember(d)
				}
			}
		}
		imp.structs = append(imp.structs, out)
	}
	return nil
}

func (imp *importer) scope() *cgen.Scope {
	s := cgen.NewScope()
	if imp.opts.Guard != "" {
		s.WithIncludeGuards(cgen.MacroGuard(imp.opts.Guard))
	} else {
		s.WithIncludeGuards(cgen.PragmaOnce())
	}

	headers := make([]string, 0, len(imp.m.headers))
	for h := range imp.m.headers {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	for _, h := range headers {
		s.IncludeLib(h)
	}

	for _, name := range imp.order {
		def := imp.enums[name]
		if len(def.members) == 0 {
			continue
		}
		e := cgen.NewEnum(imp.opts.Prefix + def.name)
		if imp.opts.Typedef {
			e.AsTypedef(cgen.NamedTypedef())
		}
		implied := big.NewInt(0)
		for _, mem := range def.members {
			member := mem.name
			if imp.opts.SnakeMembers {
				member = screamingSnake(member)
			}
			if mem.value.Cmp(implied) == 0 {
				e.Member(member)
			} else {
				e.BigValue(member, mem.value)
			}
			implied = new(big.Int).Add(mem.value, big.NewInt(1))
		}
		s.AddEnum(e)
	}

	for _, st := range imp.structs {
		s.AddStruct(st)
	}
	return s
}

func exprName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.StarExpr:
		return "*" + exprName(x.X)
	case *ast.SelectorExpr:
		return exprName(x.X) + "." + x.Sel.Name
	}
	return "?"
}

func constantUint64(v constant.Value) (uint64, bool) {
	if v.Kind() != constant.Int && v.Kind() != constant.Float {
		return 0, false
	}
	v = constant.ToInt(v)
	if v.Kind() != constant.Int {
		return 0, false
	}
	return constant.Uint64Val(v)
}
