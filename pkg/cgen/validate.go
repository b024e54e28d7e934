// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cgen

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

// ValidationError describes one problem found by Validate.
type ValidationError struct {
	Entity  string // Which entity, e.g. `struct foo`
	Field   string // Which part of it, e.g. `member 2`
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Entity, e.Field, e.Message)
}

// Errors splits an error returned by Validate into its individual
// ValidationErrors.
func Errors(err error) []*ValidationError {
	var out []*ValidationError
	for _, e := range multierr.Errors(err) {
		if ve, ok := e.(*ValidationError); ok {
			out = append(out, ve)
		}
	}
	return out
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var (
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// validator accumulates problems for one entity.
type validator struct {
	entity string
	err    error
}

func (v *validator) addf(field, format string, args ...any) {
	v.err = multierr.Append(v.err, &ValidationError{
		Entity:  v.entity,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) ident(field, name string) {
	if !identRe.MatchString(name) {
		v.addf(field, "%q is not a C identifier", name)
	}
}

func (v *validator) decl(field string, d Decl) {
	if strings.TrimSpace(d.typ) == "" {
		v.addf(field, "empty type")
	}
	v.ident(field, d.name)
}

// named checks the tag name, which appears in the header or, for unnamed
// typedefs, in the footer, and the explicit typedef alias if any.
func (v *validator) named(name string, td *TypedefKind) {
	v.ident("name", name)
	if td != nil && td.IsExplicit() {
		v.ident("typedef", td.alias)
	}
}

// Validate checks the declarator's type and name.
func (d Decl) Validate() error {
	v := validator{entity: "decl " + d.name}
	v.decl("", d)
	return v.err
}

// Validate checks the wrapped declarator.
func (vr Variable) Validate() error {
	v := validator{entity: "variable " + vr.decl.name}
	v.decl("", vr.decl)
	return v.err
}

// Validate checks the function name, return type and every argument.
func (f FuncDecl) Validate() error {
	v := validator{entity: "function " + f.name}
	v.ident("name", f.name)
	if strings.TrimSpace(f.ret) == "" {
		v.addf("return", "empty type")
	}
	seen := make(map[string]int)
	for i, a := range f.args {
		field := fmt.Sprintf("arg %d", i+1)
		v.decl(field, a)
		if prev, ok := seen[a.name]; ok {
			v.addf(field, "duplicate argument %q (first at arg %d)", a.name, prev)
		} else {
			seen[a.name] = i + 1
		}
	}
	return v.err
}

// Validate checks the signature. Body lines are opaque and not inspected.
func (f *FuncImpl) Validate() error {
	return f.decl.Validate()
}

// Validate checks names, the typedef alias and member declarators.
func (s *Struct) Validate() error {
	v := validator{entity: "struct " + s.name}
	v.named(s.name, s.typedef)
	seen := make(map[string]bool)
	for i, m := range s.members {
		field := fmt.Sprintf("member %d", i+1)
		v.decl(field, m)
		if seen[m.name] {
			v.addf(field, "duplicate member %q", m.name)
		}
		seen[m.name] = true
	}
	return v.err
}

// Validate checks names, the typedef alias, and the enumerators: duplicate
// names, duplicate values, values outside the signed 128-bit range, and
// explicit values that do not increase.
func (e *Enum) Validate() error {
	v := validator{entity: "enum " + e.name}
	v.named(e.name, e.typedef)

	names := make(map[string]bool)
	values := make(map[string]string)
	next := big.NewInt(0)
	for i, m := range e.members {
		field := fmt.Sprintf("member %d", i+1)
		v.ident(field, m.Name)
		if names[m.Name] {
			v.addf(field, "duplicate enumerator %q", m.Name)
		}
		names[m.Name] = true

		cur := new(big.Int).Set(next)
		if m.Value != nil {
			if i > 0 && m.Value.Cmp(next) < 0 {
				v.addf(field, "value %s is lower than the implied value %s", m.Value, next)
			}
			cur.Set(m.Value)
		}
		if cur.Cmp(minInt128) < 0 || cur.Cmp(maxInt128) > 0 {
			v.addf(field, "value %s is outside the signed 128-bit range", cur)
		}
		key := cur.String()
		if other, ok := values[key]; ok {
			v.addf(field, "value %s already used by %q", key, other)
		} else {
			values[key] = m.Name
		}
		next = cur.Add(cur, big.NewInt(1))
	}
	return v.err
}

// Validate checks the guard macro and every contained entity.
func (s *Scope) Validate() error {
	v := validator{entity: "scope"}
	if s.guard != nil && !s.guard.IsPragmaOnce() {
		v.ident("guard", s.guard.macro)
	}
	for i, sn := range s.snippets {
		field := fmt.Sprintf("snippet %d", i+1)
		switch x := sn.(type) {
		case LibInclude:
			if strings.TrimSpace(string(x)) == "" {
				v.addf(field, "empty library include")
			}
		case FileInclude:
			if strings.TrimSpace(string(x)) == "" {
				v.addf(field, "empty file include")
			}
		case *Struct:
			v.err = multierr.Append(v.err, x.Validate())
		case *Enum:
			v.err = multierr.Append(v.err, x.Validate())
		case FuncDecl:
			v.err = multierr.Append(v.err, x.Validate())
		case *FuncImpl:
			v.err = multierr.Append(v.err, x.Validate())
		case Variable:
			v.err = multierr.Append(v.err, x.Validate())
		}
	}
	return v.err
}
