// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cgen

import "strconv"

// StorageClass is the C storage-class keyword on a declaration.
type StorageClass int

const (
	NoStorage StorageClass = iota // No keyword
	Extern                        // extern
	Static                        // static
)

// String returns the C keyword, or "" for NoStorage.
func (s StorageClass) String() string {
	switch s {
	case Extern:
		return "extern"
	case Static:
		return "static"
	default:
		return ""
	}
}

// prefix returns the keyword followed by a space, or "" when unset.
func (s StorageClass) prefix() string {
	if s == NoStorage {
		return ""
	}
	return s.String() + " "
}

type arrayKind int

const (
	notArray arrayKind = iota
	unsizedArray
	sizedArray
)

// ArraySize is the array qualifier of a declarator. The zero value means the
// declarator is not an array.
type ArraySize struct {
	kind   arrayKind
	extent uint64
}

// Unsized returns the qualifier for `name[]`.
func Unsized() ArraySize {
	return ArraySize{kind: unsizedArray}
}

// Sized returns the qualifier for `name[n]`.
func Sized(n uint64) ArraySize {
	return ArraySize{kind: sizedArray, extent: n}
}

// IsArray reports whether the qualifier is set.
func (a ArraySize) IsArray() bool { return a.kind != notArray }

// Extent returns the array extent and whether the array is sized.
func (a ArraySize) Extent() (uint64, bool) {
	return a.extent, a.kind == sizedArray
}

// String returns the suffix appended after the declarator name.
func (a ArraySize) String() string {
	switch a.kind {
	case unsizedArray:
		return "[]"
	case sizedArray:
		return "[" + strconv.FormatUint(a.extent, 10) + "]"
	default:
		return ""
	}
}

type typedefKind int

const (
	typedefNamed typedefKind = iota + 1
	typedefExplicit
	typedefUnnamed
)

// TypedefKind selects how a struct or enum is wrapped in a typedef.
//
//	NamedTypedef:            typedef struct foo { ... } foo;
//	ExplicitTypedef("bar"):  typedef struct foo { ... } bar;
//	UnnamedTypedef:          typedef struct { ... } foo;
type TypedefKind struct {
	kind  typedefKind
	alias string
}

// NamedTypedef reuses the struct/enum name as the typedef name.
func NamedTypedef() TypedefKind { return TypedefKind{kind: typedefNamed} }

// ExplicitTypedef uses alias as the typedef name. The alias should be
// non-empty; Validate reports it when it is not.
func ExplicitTypedef(alias string) TypedefKind {
	return TypedefKind{kind: typedefExplicit, alias: alias}
}

// UnnamedTypedef emits an anonymous struct/enum whose typedef name is the
// builder's name.
func UnnamedTypedef() TypedefKind { return TypedefKind{kind: typedefUnnamed} }

// IsUnnamed reports whether the tag name is omitted from the header.
func (k TypedefKind) IsUnnamed() bool { return k.kind == typedefUnnamed }

// IsExplicit reports whether the typedef carries its own alias.
func (k TypedefKind) IsExplicit() bool { return k.kind == typedefExplicit }

// Alias returns the typedef name used in the footer for an entity called name.
func (k TypedefKind) Alias(name string) string {
	if k.kind == typedefExplicit {
		return k.alias
	}
	return name
}

func (k TypedefKind) String() string {
	switch k.kind {
	case typedefNamed:
		return "named"
	case typedefExplicit:
		return "explicit(" + k.alias + ")"
	case typedefUnnamed:
		return "unnamed"
	default:
		return "none"
	}
}
