// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package gosrc

import (
	"go/ast"
	"go/types"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/petar-djukic/cgen/pkg/cgen"
)

// ErrUnsupportedType is returned for field types with no C layout, such as
// maps, channels, funcs and interfaces.
var ErrUnsupportedType = errors.New("unsupported field type")

// cType is a C spelling plus the header that declares it.
type cType struct {
	name   string
	header string
}

// basicTypes maps Go predeclared types to fixed-width C types.
var basicTypes = map[string]cType{
	"bool":       {"bool", "stdbool.h"},
	"int8":       {"int8_t", "stdint.h"},
	"int16":      {"int16_t", "stdint.h"},
	"int32":      {"int32_t", "stdint.h"},
	"int64":      {"int64_t", "stdint.h"},
	"int":        {"intptr_t", "stdint.h"},
	"uint8":      {"uint8_t", "stdint.h"},
	"uint16":     {"uint16_t", "stdint.h"},
	"uint32":     {"uint32_t", "stdint.h"},
	"uint64":     {"uint64_t", "stdint.h"},
	"uint":       {"uintptr_t", "stdint.h"},
	"uintptr":    {"uintptr_t", "stdint.h"},
	"byte":       {"uint8_t", "stdint.h"},
	"rune":       {"int32_t", "stdint.h"},
	"float32":    {"float", ""},
	"float64":    {"double", ""},
	"complex64":  {"float _Complex", "complex.h"},
	"complex128": {"double _Complex", "complex.h"},
	"string":     {"const char *", ""},
}

// integerTypes are the underlying types accepted for enums.
var integerTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"byte": true, "rune": true, "uintptr": true,
}

// localKind records how a package-level type is emitted.
type localKind int

const (
	localStruct localKind = iota
	localEnum
)

// mapper turns Go field types into C declarators.
type mapper struct {
	opts    Options
	locals  map[string]localKind
	aliases map[string]string
	eval    *evaluator
	headers map[string]bool
}

// field maps one named struct field. Slices expand into a pointer member and
// a `<name>_len` member of type size_t.
func (m *mapper) field(name string, expr ast.Expr) ([]cgen.Decl, error) {
	if sl, ok := expr.(*ast.ArrayType); ok && sl.Len == nil {
		elem, err := m.typeName(sl.Elt)
		if err != nil {
			return nil, err
		}
		m.headers["stddef.h"] = true
		return []cgen.Decl{
			cgen.NewDecl(pointerTo(elem), name),
			cgen.NewDecl("size_t", name+"_len"),
		}, nil
	}

	if arr, ok := expr.(*ast.ArrayType); ok {
		n, err := m.arrayLen(arr.Len)
		if err != nil {
			return nil, err
		}
		elem, err := m.typeName(arr.Elt)
		if err != nil {
			return nil, err
		}
		return []cgen.Decl{cgen.NewDecl(elem, name).SizedArray(n)}, nil
	}

	typ, err := m.typeName(expr)
	if err != nil {
		return nil, err
	}
	return []cgen.Decl{cgen.NewDecl(typ, name)}, nil
}

func (m *mapper) arrayLen(expr ast.Expr) (uint64, error) {
	if _, ok := expr.(*ast.Ellipsis); ok {
		return 0, errors.New("array length ... is not allowed in a type")
	}
	v, err := m.eval.eval(expr, 0)
	if err != nil {
		return 0, errors.Wrap(err, "array length")
	}
	n, ok := constantUint64(v)
	if !ok {
		return 0, errors.Newf("array length %s is not a non-negative integer", v)
	}
	return n, nil
}

// typeName returns the C spelling of a non-array type expression.
func (m *mapper) typeName(expr ast.Expr) (string, error) {
	if c, ok := m.opts.TypeMap[types.ExprString(expr)]; ok {
		return c, nil
	}

	switch x := expr.(type) {
	case *ast.Ident:
		name := x.Name
		if under, ok := m.aliases[name]; ok {
			name = under
		}
		if kind, ok := m.locals[name]; ok {
			return m.localRef(name, kind), nil
		}
		if c, ok := basicTypes[name]; ok {
			if c.header != "" {
				m.headers[c.header] = true
			}
			return c.name, nil
		}
		// Unknown names are assumed to be declared elsewhere in C.
		return name, nil

	case *ast.StarExpr:
		elem, err := m.typeName(x.X)
		if err != nil {
			return "", err
		}
		return pointerTo(elem), nil

	case *ast.SelectorExpr:
		if pkg, ok := x.X.(*ast.Ident); ok && pkg.Name == "unsafe" && x.Sel.Name == "Pointer" {
			return "void *", nil
		}
		return x.Sel.Name, nil

	case *ast.ParenExpr:
		return m.typeName(x.X)

	case *ast.ArrayType:
		// Arrays nested below a pointer decay to a pointer to the element.
		elem, err := m.typeName(x.Elt)
		if err != nil {
			return "", err
		}
		if x.Len == nil {
			m.headers["stddef.h"] = true
		}
		return pointerTo(elem), nil
	}

	return "", errors.WithHint(
		errors.Wrapf(ErrUnsupportedType, "%s", types.ExprString(expr)),
		"map the type with Options.TypeMap or change the field to a plain data type")
}

func (m *mapper) localRef(name string, kind localKind) string {
	cname := m.opts.Prefix + name
	if m.opts.Typedef {
		return cname
	}
	if kind == localEnum {
		return "enum " + cname
	}
	return "struct " + cname
}

func pointerTo(elem string) string {
	if strings.HasSuffix(elem, "*") {
		return elem + "*"
	}
	return elem + " *"
}

// screamingSnake converts a Go identifier to UPPER_SNAKE_CASE, keeping
// acronyms together: HTTPStatusOK becomes HTTP_STATUS_OK.
func screamingSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
