// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cgen

import "strings"

const defaultReturnType = "void"

// FuncDecl is a function signature. Like Decl it is a value type; Arg copies
// the argument list before appending so earlier copies are unaffected.
type FuncDecl struct {
	name    string
	ret     string
	storage StorageClass
	inline  bool
	args    []Decl
}

// NewFunc returns a declaration of `void name()`.
func NewFunc(name string) FuncDecl {
	return FuncDecl{name: name, ret: defaultReturnType}
}

// Returns sets the return type text.
func (f FuncDecl) Returns(typ string) FuncDecl {
	f.ret = typ
	return f
}

// Static sets the storage class to static. The last storage call wins.
func (f FuncDecl) Static() FuncDecl {
	f.storage = Static
	return f
}

// Extern sets the storage class to extern. The last storage call wins.
func (f FuncDecl) Extern() FuncDecl {
	f.storage = Extern
	return f
}

// Inline marks the function inline.
func (f FuncDecl) Inline() FuncDecl {
	f.inline = true
	return f
}

// Arg appends an argument. Arguments render in the order they were added.
func (f FuncDecl) Arg(arg Decl) FuncDecl {
	args := make([]Decl, len(f.args), len(f.args)+1)
	copy(args, f.args)
	f.args = append(args, arg)
	return f
}

// Name returns the function name.
func (f FuncDecl) Name() string { return f.name }

// ReturnType returns the return type text.
func (f FuncDecl) ReturnType() string { return f.ret }

// Storage returns the storage class.
func (f FuncDecl) Storage() StorageClass { return f.storage }

// IsInline reports whether the function is inline.
func (f FuncDecl) IsInline() bool { return f.inline }

// Args returns a copy of the argument list.
func (f FuncDecl) Args() []Decl {
	out := make([]Decl, len(f.args))
	copy(out, f.args)
	return out
}

// String renders `[<storage> ][inline ]<ret> <name>(<args>)` with arguments
// in inline form joined by ", ". No trailing semicolon is added.
func (f FuncDecl) String() string {
	var b strings.Builder
	f.writeTo(&b)
	return b.String()
}

func (f FuncDecl) writeTo(b *strings.Builder) {
	b.WriteString(f.storage.prefix())
	if f.inline {
		b.WriteString("inline ")
	}
	b.WriteString(f.ret)
	b.WriteByte(' ')
	b.WriteString(f.name)
	b.WriteByte('(')
	for i, a := range f.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.writeTo(b)
	}
	b.WriteByte(')')
}

// FuncImpl is a function definition: a signature plus raw body lines.
type FuncImpl struct {
	decl FuncDecl
	body []string
}

// NewFuncImpl takes ownership of decl and starts with an empty body.
func NewFuncImpl(decl FuncDecl) *FuncImpl {
	return &FuncImpl{decl: decl}
}

// AddLine appends a body line. Lines are emitted verbatim, one level deep;
// no semicolon is added.
func (f *FuncImpl) AddLine(line string) *FuncImpl {
	f.body = append(f.body, line)
	return f
}

// AddLines appends several body lines in order.
func (f *FuncImpl) AddLines(lines ...string) *FuncImpl {
	f.body = append(f.body, lines...)
	return f
}

// Decl returns the signature.
func (f *FuncImpl) Decl() FuncDecl { return f.decl }

// Body returns a copy of the body lines.
func (f *FuncImpl) Body() []string {
	out := make([]string, len(f.body))
	copy(out, f.body)
	return out
}

// String renders the signature, ` {`, one indented line per body entry, and a
// closing brace on its own line.
func (f *FuncImpl) String() string {
	var b strings.Builder
	f.decl.writeTo(&b)
	b.WriteString(" {\n")
	for _, line := range f.body {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('}')
	return b.String()
}

func (f *FuncImpl) clone() *FuncImpl {
	return &FuncImpl{decl: f.decl, body: f.Body()}
}
