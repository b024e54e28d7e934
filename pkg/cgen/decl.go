// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cgen

import "strings"

// indent is the one nesting level used inside struct, enum and function bodies.
const indent = "    "

// Decl is a typed binding such as `const uint8_t buf[16]`. It is used as a
// struct member, a function argument, and the basis of a Variable.
//
// Decl is a value type: every modifier returns an updated copy, so a Decl
// handed to a parent cannot be changed through the caller's copy.
type Decl struct {
	typ     string
	name    string
	isConst bool
	array   ArraySize
}

// NewDecl returns a non-const, non-array declarator. Neither string is
// checked; see Validate.
func NewDecl(typ, name string) Decl {
	return Decl{typ: typ, name: name}
}

// Const marks the declarator const. The keyword always precedes the type.
func (d Decl) Const() Decl {
	d.isConst = true
	return d
}

// SizedArray turns the declarator into `name[n]`. The last array call wins.
func (d Decl) SizedArray(n uint64) Decl {
	d.array = Sized(n)
	return d
}

// UnsizedArray turns the declarator into `name[]`. The last array call wins.
func (d Decl) UnsizedArray() Decl {
	d.array = Unsized()
	return d
}

// Type returns the type text.
func (d Decl) Type() string { return d.typ }

// Name returns the bound name.
func (d Decl) Name() string { return d.name }

// IsConst reports whether the declarator is const.
func (d Decl) IsConst() bool { return d.isConst }

// Array returns the array qualifier.
func (d Decl) Array() ArraySize { return d.array }

// String renders the inline form used for function arguments and variables:
// `[const ]<type> <name>[<suffix>]`, without a trailing semicolon.
func (d Decl) String() string {
	var b strings.Builder
	d.writeTo(&b)
	return b.String()
}

// Statement renders the member form used inside struct bodies, which is the
// inline form followed by `;`.
func (d Decl) Statement() string {
	var b strings.Builder
	d.writeTo(&b)
	b.WriteByte(';')
	return b.String()
}

func (d Decl) writeTo(b *strings.Builder) {
	if d.isConst {
		b.WriteString("const ")
	}
	b.WriteString(d.typ)
	b.WriteByte(' ')
	b.WriteString(d.name)
	b.WriteString(d.array.String())
}

// Variable is a variable definition: a declarator with an optional storage
// class and initializer.
type Variable struct {
	decl    Decl
	storage StorageClass
	init    string
	hasInit bool
}

// NewVariable wraps decl with no storage class and no initializer.
func NewVariable(decl Decl) Variable {
	return Variable{decl: decl}
}

// Extern sets the storage class to extern. The last storage call wins.
func (v Variable) Extern() Variable {
	v.storage = Extern
	return v
}

// Static sets the storage class to static. The last storage call wins.
func (v Variable) Static() Variable {
	v.storage = Static
	return v
}

// Init sets the initializer expression, emitted verbatim after ` = `.
func (v Variable) Init(expr string) Variable {
	v.init = expr
	v.hasInit = true
	return v
}

// Decl returns the wrapped declarator.
func (v Variable) Decl() Decl { return v.decl }

// Storage returns the storage class.
func (v Variable) Storage() StorageClass { return v.storage }

// Initializer returns the initializer and whether one was set.
func (v Variable) Initializer() (string, bool) { return v.init, v.hasInit }

// String renders `[<storage> ]<decl>[ = <init>]`. The caller appends `;`
// where a statement is required; Scope does so for global variables.
func (v Variable) String() string {
	var b strings.Builder
	b.WriteString(v.storage.prefix())
	v.decl.writeTo(&b)
	if v.hasInit {
		b.WriteString(" = ")
		b.WriteString(v.init)
	}
	return b.String()
}
