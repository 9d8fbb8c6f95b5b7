// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindl

import (
	"errors"
	"fmt"

	"go.bindl.net/syntax"
)

// Error kinds. None of them is fatal to the process: each maps to a
// diagnostic and a non-zero exit status at the embedding boundary.
var (
	// ErrBadOperand reports an operator applied to a value of an
	// unsupported base kind.
	ErrBadOperand = errors.New("bad operand")

	// ErrDivideByZero reports division or modulo by zero.
	ErrDivideByZero = errors.New("divide by zero")

	// ErrUndeclaredName reports a reference to a name with no binding
	// in the current scope chain.
	ErrUndeclaredName = errors.New("name not declared")

	// ErrBreakOutsideSwitch reports a break statement executed outside
	// a switch arm.
	ErrBreakOutsideSwitch = errors.New(`"break" not within "switch"`)

	// ErrRedeclaration reports a declaration whose name already has a
	// dominant binding. It is reported, never fatal: the existing
	// binding wins and execution continues.
	ErrRedeclaration = errors.New("name already declared")

	// ErrTooDeep reports an expression or statement nest beyond the
	// interpreter's depth limit.
	ErrTooDeep = errors.New("expression too deeply nested")
)

// An EvalError is a bindl evaluation or execution error and its
// source position.
type EvalError struct {
	Pos syntax.Position
	err error
}

func (e *EvalError) Error() string { return e.Pos.String() + ": " + e.err.Error() }

func (e *EvalError) Unwrap() error { return e.err }

func evalErrorf(pos syntax.Position, format string, args ...interface{}) error {
	return &EvalError{Pos: pos, err: fmt.Errorf(format, args...)}
}

// wrapError attaches pos to err unless it already carries a position.
func wrapError(pos syntax.Position, err error) error {
	if err == nil {
		return nil
	}
	var ee *EvalError
	if errors.As(err, &ee) {
		return err
	}
	return &EvalError{Pos: pos, err: err}
}
