// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The bindl command dumps a binary file under the direction of a
// format description. With no arguments, it starts a
// read-eval-print loop (REPL).
package main // import "go.bindl.net/cmd/bindl"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"go.bindl.net/bindl"
	"go.bindl.net/dump"
	"go.bindl.net/repl"
	"go.bindl.net/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	format     = flag.String("f", "", "dump input per the format description in `file`")
	execexpr   = flag.String("e", "", "evaluate expression `expr` and print its value")
	color      = flag.String("color", "auto", "colorize output: auto, always, or never")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("bindl: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	colorMode, ok := colorModes[*color]
	if !ok {
		log.Printf("invalid -color mode %q; want auto, always, or never", *color)
		return 2
	}

	switch {
	case *execexpr != "":
		expr, err := syntax.ParseExpr("<expr>", *execexpr)
		if err != nil {
			repl.PrintError(err)
			return 2
		}
		in := new(bindl.Interp)
		v, err := in.EvalExpr(expr)
		if err != nil {
			repl.PrintError(err)
			return 1
		}
		fmt.Println(v)

	case *format != "":
		return dumpMain(colorMode)

	case flag.NArg() == 0:
		fmt.Println("Welcome to bindl (go.bindl.net)")
		repl.REPL(new(bindl.Interp))

	default:
		log.Print("an input file requires a -f format description")
		return 2
	}

	return 0
}

// dumpMain decodes the input file (or stdin) per the -f description
// and writes an annotated dump to stdout.
func dumpMain(colorMode dump.Color) int {
	f, err := syntax.Parse(*format, nil)
	if err != nil {
		repl.PrintError(err)
		return 2
	}

	input := os.Stdin
	switch flag.NArg() {
	case 0:
	case 1:
		input, err = os.Open(flag.Arg(0))
		if err != nil {
			log.Print(err)
			return 1
		}
		defer input.Close()
	default:
		log.Print("want at most one input file name")
		return 2
	}

	dec := dump.NewDecoder(input)
	dp := dump.NewDumper(os.Stdout, colorMode)

	// Each scalar declaration reads through the decoder; the bytes it
	// consumed annotate the dump when the binding completes.
	var lastRaw []byte
	in := &bindl.Interp{
		Read: func(t *bindl.Type) (bindl.Value, error) {
			v, raw, err := dec.Read(t)
			lastRaw = raw
			return v, err
		},
		Apply: func(name bindl.QName, t *bindl.Type, v bindl.Value) {
			dp.Field(name, t, v, lastRaw)
		},
		Report: func(pos syntax.Position, msg string) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", pos, msg)
		},
	}
	runErr := in.Run(f.Stmts)

	// Input past the end of the description dumps unannotated.
	if runErr == nil {
		rest, err := dec.Rest()
		if err != nil {
			log.Print(err)
			return 1
		}
		dp.Skip(rest)
	}
	if err := dp.Flush(); err != nil {
		log.Print(err)
		return 1
	}
	if runErr != nil {
		repl.PrintError(runErr)
		return 1
	}
	return 0
}

var colorModes = map[string]dump.Color{
	"auto":   dump.ColorAuto,
	"always": dump.ColorAlways,
	"never":  dump.ColorNever,
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
