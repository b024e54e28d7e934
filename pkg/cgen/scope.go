// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cgen

import (
	"sort"
	"strings"
)

// Snippet is one top-level unit held by a Scope. The set of implementations
// is closed: LibInclude, FileInclude, Raw, *Struct, *Enum, FuncDecl,
// *FuncImpl and Variable.
type Snippet interface {
	snippet()
}

// LibInclude renders as `#include <name>`.
type LibInclude string

// FileInclude renders as `#include "name"`.
type FileInclude string

// Raw is emitted verbatim.
type Raw string

func (LibInclude) snippet()  {}
func (FileInclude) snippet() {}
func (Raw) snippet()         {}
func (*Struct) snippet()     {}
func (*Enum) snippet()       {}
func (FuncDecl) snippet()    {}
func (*FuncImpl) snippet()   {}
func (Variable) snippet()    {}

func (i LibInclude) String() string  { return "#include <" + string(i) + ">" }
func (i FileInclude) String() string { return "#include \"" + string(i) + "\"" }

// IncludeGuard is the include-guard policy of a Scope.
type IncludeGuard struct {
	macro string
}

// PragmaOnce guards the file with `#pragma once`.
func PragmaOnce() IncludeGuard { return IncludeGuard{} }

// MacroGuard guards the file with `#ifndef macro` / `#define macro` /
// `#endif /* macro */`.
func MacroGuard(macro string) IncludeGuard { return IncludeGuard{macro: macro} }

// Macro returns the guard macro, or "" for PragmaOnce.
func (g IncludeGuard) Macro() string { return g.macro }

// IsPragmaOnce reports whether the guard is `#pragma once`.
func (g IncludeGuard) IsPragmaOnce() bool { return g.macro == "" }

// Scope is a translation unit: optional include guards around an ordered list
// of snippets. Snippets render in insertion order and duplicates are kept.
//
// Entities added to a Scope are copied, so later changes to a *Struct, *Enum
// or *FuncImpl the caller still holds do not affect the scope.
type Scope struct {
	guard    *IncludeGuard
	snippets []Snippet

	separate    bool
	sortInclude bool
}

// NewScope returns an empty scope without include guards.
func NewScope() *Scope {
	return &Scope{}
}

// WithIncludeGuards sets the guard policy.
func (s *Scope) WithIncludeGuards(guard IncludeGuard) *Scope {
	s.guard = &guard
	return s
}

// SeparateIncludes hoists includes to the top of the rendered file at render
// time: library includes first, then file includes, separated by a blank
// line. Within each group the insertion order is kept unless sorted is true,
// in which case names are ordered lexicographically. All other snippets
// follow in insertion order.
func (s *Scope) SeparateIncludes(sorted bool) *Scope {
	s.separate = true
	s.sortInclude = sorted
	return s
}

// IncludeLib appends `#include <name>`.
func (s *Scope) IncludeLib(name string) *Scope {
	return s.AddSnippet(LibInclude(name))
}

// IncludeFile appends `#include "name"`.
func (s *Scope) IncludeFile(name string) *Scope {
	return s.AddSnippet(FileInclude(name))
}

// AddRaw appends text emitted verbatim.
func (s *Scope) AddRaw(text string) *Scope {
	return s.AddSnippet(Raw(text))
}

// AddStruct appends a copy of st.
func (s *Scope) AddStruct(st *Struct) *Scope {
	return s.AddSnippet(st)
}

// AddEnum appends a copy of e.
func (s *Scope) AddEnum(e *Enum) *Scope {
	return s.AddSnippet(e)
}

// AddFunc appends a function prototype. It renders with a trailing `;`.
func (s *Scope) AddFunc(f FuncDecl) *Scope {
	return s.AddSnippet(f)
}

// AddFuncImpl appends a copy of a function definition.
func (s *Scope) AddFuncImpl(f *FuncImpl) *Scope {
	return s.AddSnippet(f)
}

// AddVariable appends a global variable. It renders with a trailing `;`.
func (s *Scope) AddVariable(v Variable) *Scope {
	return s.AddSnippet(v)
}

// AddSnippet appends any snippet. Pointer snippets are copied; a nil pointer
// is ignored.
func (s *Scope) AddSnippet(sn Snippet) *Scope {
	switch v := sn.(type) {
	case *Struct:
		if v == nil {
			return s
		}
		sn = v.clone()
	case *Enum:
		if v == nil {
			return s
		}
		sn = v.clone()
	case *FuncImpl:
		if v == nil {
			return s
		}
		sn = v.clone()
	case nil:
		return s
	}
	s.snippets = append(s.snippets, sn)
	return s
}

// Guard returns the include guard and whether one is set.
func (s *Scope) Guard() (IncludeGuard, bool) {
	if s.guard == nil {
		return IncludeGuard{}, false
	}
	return *s.guard, true
}

// Snippets returns the snippets in render order, without include separation.
func (s *Scope) Snippets() []Snippet {
	out := make([]Snippet, len(s.snippets))
	copy(out, s.snippets)
	return out
}

// RenderSnippet renders a single snippet the way Scope does, without the
// trailing newline.
func RenderSnippet(sn Snippet) string {
	switch v := sn.(type) {
	case LibInclude:
		return v.String()
	case FileInclude:
		return v.String()
	case Raw:
		return string(v)
	case *Struct:
		return v.String()
	case *Enum:
		return v.String()
	case FuncDecl:
		return v.String() + ";"
	case *FuncImpl:
		return v.String()
	case Variable:
		return v.String() + ";"
	default:
		return ""
	}
}

// String renders the whole translation unit. Every line, including the last,
// ends with a newline.
func (s *Scope) String() string {
	var b strings.Builder
	if s.guard != nil {
		if s.guard.IsPragmaOnce() {
			b.WriteString("#pragma once\n")
		} else {
			b.WriteString("#ifndef " + s.guard.macro + "\n")
			b.WriteString("#define " + s.guard.macro + "\n")
		}
	}

	for _, sn := range s.ordered() {
		b.WriteString(RenderSnippet(sn))
		b.WriteByte('\n')
	}

	if s.guard != nil && !s.guard.IsPragmaOnce() {
		b.WriteString("#endif /* " + s.guard.macro + " */\n")
	}
	return b.String()
}

// ordered returns the snippets in render order, applying include separation.
func (s *Scope) ordered() []Snippet {
	if !s.separate {
		return s.snippets
	}

	var libs, files []string
	rest := make([]Snippet, 0, len(s.snippets))
	for _, sn := range s.snippets {
		switch v := sn.(type) {
		case LibInclude:
			libs = append(libs, string(v))
		case FileInclude:
			files = append(files, string(v))
		default:
			rest = append(rest, sn)
		}
	}
	if s.sortInclude {
		sort.Strings(libs)
		sort.Strings(files)
	}

	out := make([]Snippet, 0, len(s.snippets)+1)
	for _, l := range libs {
		out = append(out, LibInclude(l))
	}
	if len(libs) > 0 && len(files) > 0 {
		out = append(out, Raw(""))
	}
	for _, f := range files {
		out = append(out, FileInclude(f))
	}
	return append(out, rest...)
}
