// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindl

import (
	"go.bindl.net/internal/spell"
	"go.bindl.net/syntax"
)

// An Interp executes a parsed format description. The zero value is a
// ready-to-use interpreter over a fresh symbol table; because it reads
// no input, every declaration binds its type's zero value, which is
// how the REPL checks a description without data.
//
// The client hooks connect the interpreter to its surroundings:
//
//   - Read supplies the datum for each scalar declaration, typically
//     by decoding the next t.Bits/8 bytes of an input stream.
//   - Apply observes each completed scalar declaration. A dumper uses
//     it to annotate output; a nil Apply discards the binding events
//     (the bindings themselves remain in Syms).
//   - Report observes non-fatal diagnostics such as redeclarations.
//
// An Interp is not safe for concurrent use.
type Interp struct {
	Syms   *SymTab
	Read   func(t *Type) (Value, error)
	Apply  func(name QName, t *Type, v Value)
	Report func(pos syntax.Position, msg string)

	// MaxDepth bounds expression recursion; 0 means a default limit.
	MaxDepth int

	depth int
}

const defaultMaxDepth = 1000

// Run executes a sequence of statements against the interpreter's
// symbol table. Execution stops at the first error; the table retains
// the bindings made before the failure, which lets a dumper show the
// fields decoded before truncated input ran out.
func (in *Interp) Run(stmts []syntax.Stmt) error {
	if in.Syms == nil {
		in.Syms = NewSymTab()
	}
	return in.execStmts(stmts, execContext{})
}

// EvalExpr evaluates a single expression in the global scope.
func (in *Interp) EvalExpr(e syntax.Expr) (Value, error) {
	if in.Syms == nil {
		in.Syms = NewSymTab()
	}
	return in.evalExpr(e, execContext{})
}

func (in *Interp) maxDepth() int {
	if in.MaxDepth > 0 {
		return in.MaxDepth
	}
	return defaultMaxDepth
}

func (in *Interp) report(pos syntax.Position, msg string) {
	if in.Report != nil {
		in.Report(pos, msg)
	}
}

// lookup resolves a possibly qualified name against the scope chain:
// the use site's qualification prefix is shortened one segment at a
// time until a binding is found, so a member of an enclosing struct
// is visible by its local name.
func (in *Interp) lookup(name *syntax.Name, prefix QName) (*Binding, error) {
	for i := len(prefix); i >= 0; i-- {
		qn := append(append(QName{}, prefix[:i]...), name.Segments...)
		if b := in.Syms.Find(qn); b != nil {
			return b, nil
		}
	}
	return nil, evalErrorf(name.NamePos, "%w: %s%s", ErrUndeclaredName, name, didYouMean(name, in.Syms))
}

// didYouMean suggests the declared name nearest to a failed lookup
// ("did you mean leng?"), or "" if nothing is close.
func didYouMean(name *syntax.Name, syms *SymTab) string {
	if n := spell.Nearest(name.String(), syms.Names()); n != "" {
		return " (did you mean " + n + "?)"
	}
	return ""
}

// resolveType resolves a type name: predeclared scalar types first,
// then user-defined types through the scope chain.
func (in *Interp) resolveType(name *syntax.Name, prefix QName) (*Type, error) {
	if len(name.Segments) == 1 {
		if t := BuiltinType(name.Segments[0]); t != nil {
			return t, nil
		}
	}
	for i := len(prefix); i >= 0; i-- {
		qn := append(append(QName{}, prefix[:i]...), name.Segments...)
		if t := in.Syms.LookupType(qn); t != nil {
			return t, nil
		}
	}
	return nil, evalErrorf(name.NamePos, "%w: type %s%s", ErrUndeclaredName, name, didYouMean(name, in.Syms))
}
