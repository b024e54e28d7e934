// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cgen

import (
	"math/big"
	"strings"
)

// writeHeader writes the opening line shared by structs and enums.
func writeHeader(b *strings.Builder, keyword, name string, td *TypedefKind) {
	if td != nil {
		b.WriteString("typedef ")
	}
	b.WriteString(keyword)
	if td == nil || !td.IsUnnamed() {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	b.WriteString(" {\n")
}

// writeFooter writes the closing brace, the typedef alias if any, and `;`.
func writeFooter(b *strings.Builder, name string, td *TypedefKind) {
	b.WriteByte('}')
	if td != nil {
		b.WriteByte(' ')
		b.WriteString(td.Alias(name))
	}
	b.WriteByte(';')
}

// Struct builds a brace-delimited struct definition.
type Struct struct {
	name    string
	typedef *TypedefKind
	members []Decl
}

// NewStruct returns an empty, non-typedef struct.
func NewStruct(name string) *Struct {
	return &Struct{name: name}
}

// AsTypedef wraps the struct in a typedef of the given kind.
func (s *Struct) AsTypedef(kind TypedefKind) *Struct {
	s.typedef = &kind
	return s
}

// Member appends a plain `typ name` member.
func (s *Struct) Member(typ, name string) *Struct {
	return s.AddMember(NewDecl(typ, name))
}

// AddMember appends a member declarator. Members render in insertion order.
func (s *Struct) AddMember(member Decl) *Struct {
	s.members = append(s.members, member)
	return s
}

// Name returns the struct tag name.
func (s *Struct) Name() string { return s.name }

// Typedef returns the typedef kind and whether one is set.
func (s *Struct) Typedef() (TypedefKind, bool) {
	if s.typedef == nil {
		return TypedefKind{}, false
	}
	return *s.typedef, true
}

// Members returns a copy of the member list.
func (s *Struct) Members() []Decl {
	out := make([]Decl, len(s.members))
	copy(out, s.members)
	return out
}

func (s *Struct) String() string {
	var b strings.Builder
	writeHeader(&b, "struct", s.name, s.typedef)
	for _, m := range s.members {
		b.WriteString(indent)
		b.WriteString(m.Statement())
		b.WriteByte('\n')
	}
	writeFooter(&b, s.name, s.typedef)
	return b.String()
}

func (s *Struct) clone() *Struct {
	c := &Struct{name: s.name, members: s.Members()}
	if s.typedef != nil {
		td := *s.typedef
		c.typedef = &td
	}
	return c
}

// EnumMember is one enumerator with an optional explicit value.
type EnumMember struct {
	Name  string
	Value *big.Int // nil when the value is implied
}

// Enum builds a brace-delimited enum definition.
//
// Explicit values are not checked for ordering, uniqueness, or whether they
// fit the underlying integer type. Validate reports those cases on request.
type Enum struct {
	name    string
	typedef *TypedefKind
	members []EnumMember
}

// NewEnum returns an empty, non-typedef enum.
func NewEnum(name string) *Enum {
	return &Enum{name: name}
}

// AsTypedef wraps the enum in a typedef of the given kind.
func (e *Enum) AsTypedef(kind TypedefKind) *Enum {
	e.typedef = &kind
	return e
}

// Member appends an enumerator with an implied value.
func (e *Enum) Member(name string) *Enum {
	e.members = append(e.members, EnumMember{Name: name})
	return e
}

// Value appends an enumerator with an explicit value.
func (e *Enum) Value(name string, v int64) *Enum {
	return e.BigValue(name, big.NewInt(v))
}

// BigValue appends an enumerator whose explicit value may exceed int64. A
// nil v behaves like Member. The value is copied.
func (e *Enum) BigValue(name string, v *big.Int) *Enum {
	m := EnumMember{Name: name}
	if v != nil {
		m.Value = new(big.Int).Set(v)
	}
	e.members = append(e.members, m)
	return e
}

// Name returns the enum tag name.
func (e *Enum) Name() string { return e.name }

// Typedef returns the typedef kind and whether one is set.
func (e *Enum) Typedef() (TypedefKind, bool) {
	if e.typedef == nil {
		return TypedefKind{}, false
	}
	return *e.typedef, true
}

// Members returns a deep copy of the enumerators.
func (e *Enum) Members() []EnumMember {
	out := make([]EnumMember, len(e.members))
	for i, m := range e.members {
		out[i] = EnumMember{Name: m.Name}
		if m.Value != nil {
			out[i].Value = new(big.Int).Set(m.Value)
		}
	}
	return out
}

func (e *Enum) String() string {
	var b strings.Builder
	writeHeader(&b, "enum", e.name, e.typedef)
	for _, m := range e.members {
		b.WriteString(indent)
		b.WriteString(m.Name)
		if m.Value != nil {
			b.WriteString(" = ")
			b.WriteString(m.Value.String())
		}
		b.WriteString(",\n")
	}
	writeFooter(&b, e.name, e.typedef)
	return b.String()
}

func (e *Enum) clone() *Enum {
	c := &Enum{name: e.name, members: e.Members()}
	if e.typedef != nil {
		td := *e.typedef
		c.typedef = &td
	}
	return c
}
