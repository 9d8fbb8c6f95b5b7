// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/eval/print loop for format
// descriptions.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// If an input line can be parsed as an expression, the REPL evaluates
// it against the session's symbol table and prints the result.
// Otherwise it executes the input as statements, so a declaration or
// type definition entered at the prompt joins the session's bindings;
// the interpreter reads no data, so each declaration binds its type's
// zero value. If neither parse succeeds, the REPL reads continuation
// lines until the input parses or a blank line gives up.
package repl // import "go.bindl.net/repl"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"go.bindl.net/bindl"
	"go.bindl.net/syntax"
)

// REPL executes a read, eval, print loop over in's symbol table.
func REPL(in *bindl.Interp) {
	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, in); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Evaluation errors are printed.
func rep(rl *readline.Instance, in *bindl.Interp) error {
	rl.SetPrompt(">>> ")
	line, err := rl.Readline()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return err
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}

	src := line + "\n"
	for {
		done, parseErr := eval(in, src)
		if done {
			return nil
		}

		// Incomplete input: read continuation lines until the input
		// parses or a blank line gives up.
		rl.SetPrompt("... ")
		more, err := rl.Readline()
		if err != nil {
			if err == io.EOF {
				return io.EOF
			}
			return err
		}
		if strings.TrimSpace(more) == "" {
			PrintError(parseErr)
			return nil
		}
		src += more + "\n"
	}
}

// eval parses and evaluates one input. It reports whether the input
// was accepted; if not, it returns the statement parse error so the
// caller can report it once continuation input is exhausted.
func eval(in *bindl.Interp, src string) (done bool, parseErr error) {
	if expr, err := syntax.ParseExpr("<stdin>", src); err == nil {
		v, err := in.EvalExpr(expr)
		if err != nil {
			PrintError(err)
			return true, nil
		}
		fmt.Println(v)
		return true, nil
	}

	f, err := syntax.Parse("<stdin>", src)
	if err != nil {
		return false, err
	}
	if err := in.Run(f.Stmts); err != nil {
		PrintError(err)
	}
	return true, nil
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	var ee *bindl.EvalError
	if errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, ee.Error())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
