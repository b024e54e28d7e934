// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package gosrc

import (
	"go/ast"
	"go/constant"
	"go/token"

	"github.com/cockroachdb/errors"
)

// unsignedWidths gives the bit width of the predeclared unsigned types. The
// width bounds ^x for operands of that type.
var unsignedWidths = map[string]uint{
	"uint8": 8, "byte": 8, "uint16": 16, "uint32": 32,
	"uint64": 64, "uint": 64, "uintptr": 64,
}

// constDef is a package-level constant not yet evaluated.
type constDef struct {
	expr ast.Expr
	iota int64
	// prec is the width of the declared unsigned type, or 0.
	prec uint
}

// operand is a constant value plus, for values of an unsigned type, its
// bit width.
type operand struct {
	v    constant.Value
	prec uint
}

// evaluator folds package-level constant expressions. It understands
// literals, iota, references to other constants, conversions, and the
// unary, binary and shift operators. Constants are evaluated on first use,
// so a declaration may refer to one declared later or in another file.
type evaluator struct {
	consts    map[string]constant.Value
	typed     map[string]uint
	pending   map[string]constDef
	resolving map[string]bool
	widths    map[string]uint
}

func newEvaluator() *evaluator {
	widths := make(map[string]uint, len(unsignedWidths))
	for name, w := range unsignedWidths {
		widths[name] = w
	}
	return &evaluator{
		consts:    make(map[string]constant.Value),
		typed:     make(map[string]uint),
		pending:   make(map[string]constDef),
		resolving: make(map[string]bool),
		widths:    widths,
	}
}

// define records a constant for later evaluation.
func (e *evaluator) define(name string, def constDef) {
	e.pending[name] = def
}

// widthOf returns the width of typ when it names an unsigned type.
func (e *evaluator) widthOf(typ ast.Expr) uint {
	if id, ok := typ.(*ast.Ident); ok {
		return e.widths[id.Name]
	}
	return 0
}

// resolve evaluates the named constant, memoizing the result.
func (e *evaluator) resolve(name string) (constant.Value, error) {
	if v, ok := e.consts[name]; ok {
		return v, nil
	}
	def, ok := e.pending[name]
	if !ok {
		return nil, errors.Newf("undefined constant %s", name)
	}
	if e.resolving[name] {
		return nil, errors.Newf("constant %s refers to itself", name)
	}
	e.resolving[name] = true
	defer delete(e.resolving, name)

	op, err := e.operand(def.expr, def.iota)
	if err != nil {
		return nil, errors.Wrapf(err, "constant %s", name)
	}
	if def.prec != 0 {
		op.prec = def.prec
	}
	e.consts[name] = op.v
	if op.prec != 0 {
		e.typed[name] = op.prec
	}
	return op.v, nil
}

func (e *evaluator) eval(expr ast.Expr, iota int64) (constant.Value, error) {
	op, err := e.operand(expr, iota)
	if err != nil {
		return nil, err
	}
	return op.v, nil
}

func (e *evaluator) operand(expr ast.Expr, iota int64) (operand, error) {
	switch x := expr.(type) {
	case *ast.BasicLit:
		v := constant.MakeFromLiteral(x.Value, x.Kind, 0)
		if v.Kind() == constant.Unknown {
			return operand{}, errors.Newf("malformed literal %s", x.Value)
		}
		return operand{v: v}, nil

	case *ast.Ident:
		switch x.Name {
		case "iota":
			return operand{v: constant.MakeInt64(iota)}, nil
		case "true":
			return operand{v: constant.MakeBool(true)}, nil
		case "false":
			return operand{v: constant.MakeBool(false)}, nil
		}
		v, err := e.resolve(x.Name)
		if err != nil {
			return operand{}, err
		}
		return operand{v: v, prec: e.typed[x.Name]}, nil

	case *ast.ParenExpr:
		return e.operand(x.X, iota)

	case *ast.CallExpr:
		// Only conversions such as Mode(3) are constant.
		if len(x.Args) != 1 {
			return operand{}, errors.Newf("call with %d arguments is not constant", len(x.Args))
		}
		op, err := e.operand(x.Args[0], iota)
		if err != nil {
			return operand{}, err
		}
		op.prec = e.widthOf(x.Fun)
		return op, nil

	case *ast.UnaryExpr:
		op, err := e.operand(x.X, iota)
		if err != nil {
			return operand{}, err
		}
		v, err := unary(x.Op, op)
		if err != nil {
			return operand{}, err
		}
		return operand{v: v, prec: op.prec}, nil

	case *ast.BinaryExpr:
		l, err := e.operand(x.X, iota)
		if err != nil {
			return operand{}, err
		}
		r, err := e.operand(x.Y, iota)
		if err != nil {
			return operand{}, err
		}
		v, err := binary(x.Op, l.v, r.v)
		if err != nil {
			return operand{}, err
		}
		switch x.Op {
		case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
			return operand{v: v}, nil
		case token.SHL, token.SHR:
			return operand{v: v, prec: l.prec}, nil
		}
		return operand{v: v, prec: max(l.prec, r.prec)}, nil
	}
	return operand{}, errors.Newf("unsupported constant expression %T", expr)
}

// unary applies op. ^x of an unsigned operand flips only its low prec bits,
// so ^uint32(0) is 0xffffffff rather than -1. A constant referenced by name
// keeps the width of its declared type only when that type is an unsigned
// predeclared or enum type.
func unary(op token.Token, x operand) (v constant.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = nil, errors.Newf("cannot apply %s to %s", op, x.v)
		}
	}()

	if op == token.NOT && x.v.Kind() != constant.Bool {
		return nil, errors.Newf("operator ! on non-boolean")
	}
	return constant.UnaryOp(op, x.v, x.prec), nil
}

func binary(op token.Token, l, r constant.Value) (v constant.Value, err error) {
	// go/constant panics on operands of incompatible kinds.
	defer func() {
		if p := recover(); p != nil {
			v, err = nil, errors.Newf("cannot apply %s to %s and %s", op, l, r)
		}
	}()

	switch op {
	case token.SHL, token.SHR:
		s, ok := constant.Uint64Val(constant.ToInt(r))
		if !ok {
			return nil, errors.Newf("invalid shift count %s", r)
		}
		return constant.Shift(constant.ToInt(l), op, uint(s)), nil
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return constant.MakeBool(constant.Compare(l, op, r)), nil
	case token.QUO:
		if constant.Sign(r) == 0 {
			return nil, errors.New("division by zero")
		}
		if l.Kind() == constant.Int && r.Kind() == constant.Int {
			op = token.QUO_ASSIGN
		}
	case token.REM:
		if constant.Sign(r) == 0 {
			return nil, errors.New("division by zero")
		}
	}
	v = constant.BinaryOp(l, op, r)
	if v.Kind() == constant.Unknown {
		return nil, errors.Newf("cannot apply %s to %s and %s", op, l, r)
	}
	return v, nil
}
