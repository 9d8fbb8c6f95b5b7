// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindl

import (
	"fmt"
	"strings"

	"go.bindl.net/syntax"
)

// evalExpr evaluates an expression tree to a Value.
//
// Operands evaluate left to right. The untaken branch of a conditional
// and the right operand of a short-circuited && or || are never
// evaluated: an unevaluated branch may reference out-of-range data, so
// this is a correctness requirement, not an optimization.
func (in *Interp) evalExpr(e syntax.Expr, ctx execContext) (Value, error) {
	if in.depth++; in.depth > in.maxDepth() {
		in.depth--
		return nil, wrapError(syntax.Start(e), ErrTooDeep)
	}
	defer func() { in.depth-- }()

	switch e := e.(type) {
	case *syntax.Literal:
		switch v := e.Value.(type) {
		case int64:
			return Int(v), nil
		case uint64:
			return Uint(v), nil
		case float64:
			return Float(v), nil
		case string:
			return String(v), nil
		case bool:
			return Bool(v), nil
		}

	case *syntax.Name:
		b, err := in.lookup(e, ctx.prefix)
		if err != nil {
			return nil, err
		}
		if b.Kind != SymDecl {
			return nil, evalErrorf(e.NamePos, "%w: %s is a type, not a value", ErrBadOperand, e)
		}
		if b.Value == nil {
			return zeroValue(b.Type), nil
		}
		return b.Value, nil

	case *syntax.ParenExpr:
		return in.evalExpr(e.X, ctx)

	case *syntax.UnaryExpr:
		x, err := in.evalExpr(e.X, ctx)
		if err != nil {
			return nil, err
		}
		y, err := Unary(e.Op, x)
		if err != nil {
			return nil, wrapError(e.OpPos, err)
		}
		return y, nil

	case *syntax.BinaryExpr:
		x, err := in.evalExpr(e.X, ctx)
		if err != nil {
			return nil, err
		}

		// short-circuit operators
		switch e.Op {
		case syntax.AMPAMP:
			xz, err := IsZero(x)
			if err != nil {
				return nil, wrapError(e.OpPos, err)
			}
			if xz {
				return Bool(false), nil
			}
			y, err := in.evalExpr(e.Y, ctx)
			if err != nil {
				return nil, err
			}
			yz, err := IsZero(y)
			if err != nil {
				return nil, wrapError(e.OpPos, err)
			}
			return Bool(!yz), nil

		case syntax.PIPEPIPE:
			xz, err := IsZero(x)
			if err != nil {
				return nil, wrapError(e.OpPos, err)
			}
			if !xz {
				return Bool(true), nil
			}
			y, err := in.evalExpr(e.Y, ctx)
			if err != nil {
				return nil, err
			}
			yz, err := IsZero(y)
			if err != nil {
				return nil, wrapError(e.OpPos, err)
			}
			return Bool(!yz), nil
		}

		y, err := in.evalExpr(e.Y, ctx)
		if err != nil {
			return nil, err
		}

		// comparisons
		switch e.Op {
		case syntax.EQL, syntax.NEQ, syntax.LT, syntax.LE, syntax.GT, syntax.GE:
			ok, err := Compare(e.Op, x, y)
			if err != nil {
				return nil, wrapError(e.OpPos, err)
			}
			return Bool(ok), nil
		}

		z, err := Binary(e.Op, x, y)
		if err != nil {
			return nil, wrapError(e.OpPos, err)
		}
		return z, nil

	case *syntax.CondExpr:
		cond, err := in.evalExpr(e.Cond, ctx)
		if err != nil {
			return nil, err
		}
		zero, err := IsZero(cond)
		if err != nil {
			return nil, wrapError(e.Question, err)
		}
		if zero {
			return in.evalExpr(e.False, ctx)
		}
		return in.evalExpr(e.True, ctx)

	case *syntax.CastExpr:
		t, err := in.resolveType(e.Type, ctx.prefix)
		if err != nil {
			return nil, err
		}
		if t.Composite() && t.Enum == nil {
			return nil, evalErrorf(e.Lparen, "%w: cannot cast to %s type", ErrBadOperand, t.Kind)
		}
		if t.Enum != nil {
			t = t.Enum.Base
		}
		x, err := in.evalExpr(e.X, ctx)
		if err != nil {
			return nil, err
		}
		v, err := Cast(x, t)
		if err != nil {
			return nil, wrapError(e.Lparen, err)
		}
		return v, nil
	}

	start, _ := e.Span()
	return nil, evalErrorf(start, "unexpected expression %T", e)
}

// Unary applies a unary operator (-, ~, !) to its operand.
func Unary(op syntax.Token, x Value) (Value, error) {
	switch op {
	case syntax.MINUS:
		switch x := x.(type) {
		case Bool, Int, Uint:
			i, _ := asInt(x)
			return Int(-i), nil
		case Float:
			return -x, nil
		}

	case syntax.TILDE:
		if u, ok := asUint(x); ok {
			return Uint(^u), nil
		}

	case syntax.NOT:
		zero, err := IsZero(x)
		if err != nil {
			return nil, err
		}
		return Bool(zero), nil
	}
	return nil, fmt.Errorf("%w: unary %s %s", ErrBadOperand, op, x.Kind())
}

// Binary applies a strict binary operator (not && or ||) to its
// operands. For equality tests or ordered comparisons, use Compare.
//
// If both operands are integers the result is an integer; if one is a
// float the other is promoted and the result is a float. Bitwise,
// shift, and modulo operators require integer operands.
func Binary(op syntax.Token, x, y Value) (Value, error) {
	switch op {
	case syntax.PLUS:
		if bothInteger(x, y) {
			xi, _ := asInt(x)
			yi, _ := asInt(y)
			return Int(xi + yi), nil
		}
		if xf, yf, ok := bothFloat(x, y); ok {
			return Float(xf + yf), nil
		}

	case syntax.MINUS:
		if bothInteger(x, y) {
			xi, _ := asInt(x)
			yi, _ := asInt(y)
			return Int(xi - yi), nil
		}
		if xf, yf, ok := bothFloat(x, y); ok {
			return Float(xf - yf), nil
		}

	case syntax.STAR:
		if bothInteger(x, y) {
			xi, _ := asInt(x)
			yi, _ := asInt(y)
			return Int(xi * yi), nil
		}
		if xf, yf, ok := bothFloat(x, y); ok {
			return Float(xf * yf), nil
		}

	case syntax.SLASH:
		if bothInteger(x, y) {
			xi, _ := asInt(x)
			yi, _ := asInt(y)
			if yi == 0 {
				return nil, ErrDivideByZero
			}
			return Int(xi / yi), nil
		}
		if xf, yf, ok := bothFloat(x, y); ok {
			if isFZero(yf) {
				return nil, ErrDivideByZero
			}
			return Float(xf / yf), nil
		}

	case syntax.PERCENT:
		if !bothInteger(x, y) {
			break
		}
		xi, _ := asInt(x)
		yi, _ := asInt(y)
		if yi == 0 {
			return nil, ErrDivideByZero
		}
		return Int(xi % yi), nil

	case syntax.AMP:
		if bothInteger(x, y) {
			xu, _ := asUint(x)
			yu, _ := asUint(y)
			return Uint(xu & yu), nil
		}

	case syntax.PIPE:
		if bothInteger(x, y) {
			xu, _ := asUint(x)
			yu, _ := asUint(y)
			return Uint(xu | yu), nil
		}

	case syntax.CIRCUMFLEX:
		if bothInteger(x, y) {
			xu, _ := asUint(x)
			yu, _ := asUint(y)
			return Uint(xu ^ yu), nil
		}

	case syntax.LTLT:
		if bothInteger(x, y) {
			xu, _ := asUint(x)
			yu, _ := asUint(y)
			return Uint(xu << yu), nil
		}

	case syntax.GTGT:
		if bothInteger(x, y) {
			xu, _ := asUint(x)
			yu, _ := asUint(y)
			return Uint(xu >> yu), nil
		}

	case syntax.CARETCARET:
		// logical xor: both operands reduce to their zero test.
		xz, err := IsZero(x)
		if err != nil {
			return nil, err
		}
		yz, err := IsZero(y)
		if err != nil {
			return nil, err
		}
		return Bool(xz != yz), nil
	}

	return nil, fmt.Errorf("%w: %s %s %s", ErrBadOperand, x.Kind(), op, y.Kind())
}

// Compare applies a comparison operator to its operands and reports
// the outcome. Numeric operands are promoted as for arithmetic;
// strings compare lexicographically with strings only.
func Compare(op syntax.Token, x, y Value) (bool, error) {
	if xs, ok := x.(String); ok {
		ys, ok := y.(String)
		if !ok {
			return false, fmt.Errorf("%w: %s %s %s", ErrBadOperand, x.Kind(), op, y.Kind())
		}
		return threeway(op, strings.Compare(string(xs), string(ys)))
	}
	if _, ok := y.(String); ok {
		return false, fmt.Errorf("%w: %s %s %s", ErrBadOperand, x.Kind(), op, y.Kind())
	}

	if bothInteger(x, y) {
		xi, _ := asInt(x)
		yi, _ := asInt(y)
		switch {
		case xi < yi:
			return threeway(op, -1)
		case xi > yi:
			return threeway(op, +1)
		}
		return threeway(op, 0)
	}

	xf, yf, ok := bothFloat(x, y)
	if !ok {
		return false, fmt.Errorf("%w: %s %s %s", ErrBadOperand, x.Kind(), op, y.Kind())
	}
	switch {
	case isFEqual(xf, yf):
		return threeway(op, 0)
	case xf < yf:
		return threeway(op, -1)
	}
	return threeway(op, +1)
}

// threeway interprets a three-way comparison result for op.
func threeway(op syntax.Token, cmp int) (bool, error) {
	switch op {
	case syntax.EQL:
		return cmp == 0, nil
	case syntax.NEQ:
		return cmp != 0, nil
	case syntax.LT:
		return cmp < 0, nil
	case syntax.LE:
		return cmp <= 0, nil
	case syntax.GT:
		return cmp > 0, nil
	case syntax.GE:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("%w: %s is not a comparison", ErrBadOperand, op)
}

func bothInteger(x, y Value) bool { return isInteger(x) && isInteger(y) }

// bothFloat returns the promoted float views of x and y if at least
// one is a float and the other is numeric.
func bothFloat(x, y Value) (xf, yf float64, ok bool) {
	xf, xok := asFloat(x)
	yf, yok := asFloat(y)
	return xf, yf, xok && yok
}
