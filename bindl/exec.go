// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindl

import (
	"fmt"

	"go.bindl.net/syntax"
)

// An execContext carries the state threaded through statement
// execution: whether a break statement is currently legal, and the
// qualified-name prefix under which declarations register.
type execContext struct {
	inSwitch bool
	prefix   QName
}

// errBreak is a sentinel returned by a break statement. The innermost
// enclosing switch intercepts it; Run checks its legality first, so it
// never escapes to a caller.
var errBreak = fmt.Errorf("break")

func (in *Interp) execStmts(stmts []syntax.Stmt, ctx execContext) error {
	for _, stmt := range stmts {
		if err := in.exec(stmt, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interp) exec(stmt syntax.Stmt, ctx execContext) error {
	switch stmt := stmt.(type) {
	case *syntax.DeclStmt:
		return in.execDecl(stmt, ctx)

	case *syntax.IfStmt:
		cond, err := in.evalExpr(stmt.Cond, ctx)
		if err != nil {
			return err
		}
		zero, err := IsZero(cond)
		if err != nil {
			return wrapError(stmt.If, err)
		}
		if zero {
			return in.execStmts(stmt.False, ctx)
		}
		return in.execStmts(stmt.True, ctx)

	case *syntax.SwitchStmt:
		return in.execSwitch(stmt.Discr, stmt.Cases, ctx, true)

	case *syntax.BreakStmt:
		if !ctx.inSwitch {
			return wrapError(stmt.Break, ErrBreakOutsideSwitch)
		}
		return errBreak

	case *syntax.BlockStmt:
		in.Syms.OpenScope()
		err := in.execStmts(stmt.Body, ctx)
		in.Syms.CloseScope()
		return err

	case *syntax.StructDefStmt:
		t := &Type{
			Name:   stmt.Name,
			Kind:   KindStruct,
			Struct: &StructType{Body: stmt.Body},
		}
		return in.defineType(stmt.Name, stmt.NamePos, t, ctx)

	case *syntax.EnumDefStmt:
		return in.execEnumDef(stmt, ctx)

	case *syntax.SwitchDefStmt:
		t := &Type{
			Name:   stmt.Name,
			Kind:   KindSwitch,
			Switch: &SwitchType{Discr: stmt.Discr, Cases: stmt.Cases},
		}
		return in.defineType(stmt.Name, stmt.NamePos, t, ctx)
	}

	start, _ := stmt.Span()
	return evalErrorf(start, "unexpected statement %T", stmt)
}

// execDecl executes "Type name;": it resolves the type, binds the name
// in the current scope, and for a scalar type consumes a datum from
// the input. A composite type instead executes its body with the
// declared name as the qualification prefix, so that a member m of a
// struct declared as hdr remains visible afterwards as hdr::m.
func (in *Interp) execDecl(d *syntax.DeclStmt, ctx execContext) error {
	t, err := in.resolveType(d.Type, ctx.prefix)
	if err != nil {
		return err
	}

	name := qualify(ctx.prefix, d.Name)
	b, added := in.Syms.Add(name, SymDecl, d.NamePos)
	if !added {
		in.report(d.NamePos, fmt.Sprintf("%s: %s (first declared at %s)", name, ErrRedeclaration, b.Pos))
		return nil
	}
	b.Type = t

	switch {
	case t.Struct != nil:
		return in.execStmts(t.Struct.Body, execContext{prefix: name})

	case t.Switch != nil:
		// The discriminant of a named switch type refers to fields
		// declared before this one, so it evaluates at the use site;
		// the matching arm declares members of this name.
		return in.execSwitch(t.Switch.Discr, t.Switch.Cases, execContext{prefix: name}, false)
	}

	base := t
	if t.Enum != nil {
		base = t.Enum.Base
	}
	var v Value
	if in.Read != nil {
		v, err = in.Read(base)
		if err != nil {
			return wrapError(d.NamePos, err)
		}
		if base.Kind == KindInt || base.Kind == KindFloat {
			v = Narrow(v, base)
		}
	} else {
		v = zeroValue(base)
	}
	b.Value = v
	if in.Apply != nil {
		in.Apply(name, t, v)
	}
	return nil
}

// execSwitch evaluates the discriminant once, then executes the body
// of the first arm whose value compares equal to it. A break inside
// the arm terminates the arm; a discriminant matching no arm is not an
// error. If scoped is set the arm body runs in a nested scope (the
// switch statement form); a switch-typed declaration instead keeps the
// arm's declarations, qualified under the declared name.
func (in *Interp) execSwitch(discr syntax.Expr, cases []*syntax.CaseClause, ctx execContext, scoped bool) error {
	d, err := in.evalExpr(discr, ctx)
	if err != nil {
		return err
	}
	for _, c := range cases {
		cv, err := in.evalExpr(c.Value, ctx)
		if err != nil {
			return err
		}
		eq, err := Compare(syntax.EQL, d, cv)
		if err != nil {
			return wrapError(c.Case, err)
		}
		if !eq {
			continue
		}
		if scoped {
			in.Syms.OpenScope()
		}
		err = in.execStmts(c.Body, execContext{inSwitch: true, prefix: ctx.prefix})
		if scoped {
			in.Syms.CloseScope()
		}
		if err == errBreak {
			err = nil
		}
		return err
	}
	return nil
}

// execEnumDef defines an enumerated type and binds each enumerator as
// a constant, qualified under the type name (Tag::A). An enumerator
// without an explicit value takes its predecessor's value plus one,
// starting from zero.
func (in *Interp) execEnumDef(stmt *syntax.EnumDefStmt, ctx execContext) error {
	base := hostInt
	if stmt.Base != nil {
		t, err := in.resolveType(stmt.Base, ctx.prefix)
		if err != nil {
			return err
		}
		if t.Kind != KindInt && t.Kind != KindBool {
			return evalErrorf(stmt.Base.NamePos, "%w: enum base type %s is not an integer type", ErrBadOperand, t)
		}
		base = t
	}

	t := &Type{
		Name: stmt.Name,
		Kind: KindEnum,
		Enum: &EnumType{Base: base},
	}
	if err := in.defineType(stmt.Name, stmt.NamePos, t, ctx); err != nil {
		return err
	}

	typeName := qualify(ctx.prefix, stmt.Name)
	next := int64(0)
	for _, item := range stmt.Items {
		if item.Value != nil {
			v, err := in.evalExpr(item.Value, ctx)
			if err != nil {
				return err
			}
			i, ok := asInt(Narrow(v, base))
			if !ok {
				return evalErrorf(item.NamePos, "%w: enumerator %s value is not an integer", ErrBadOperand, item.Name)
			}
			next = i
		}
		t.Enum.Enumerators = append(t.Enum.Enumerators, Enumerator{Name: item.Name, Value: next})

		name := append(append(QName{}, typeName...), item.Name)
		b, added := in.Syms.Add(name, SymDecl, item.NamePos)
		if !added {
			in.report(item.NamePos, fmt.Sprintf("%s: %s (first declared at %s)", name, ErrRedeclaration, b.Pos))
		} else {
			b.Type = t
			b.Value = Int(next)
		}
		next++
	}
	return nil
}

// defineType binds a type name in the current scope.
func (in *Interp) defineType(name string, pos syntax.Position, t *Type, ctx execContext) error {
	qn := qualify(ctx.prefix, name)
	b, added := in.Syms.Add(qn, SymType, pos)
	if !added {
		in.report(pos, fmt.Sprintf("%s: %s (first declared at %s)", qn, ErrRedeclaration, b.Pos))
		return nil
	}
	b.Type = t
	return nil
}

func qualify(prefix QName, name string) QName {
	return append(append(QName{}, prefix...), name)
}
