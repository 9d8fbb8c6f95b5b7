// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindl

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.bindl.net/syntax"
)

// fakeInput supplies scalar declarations from a fixed value queue,
// standing in for a byte-stream decoder.
type fakeInput struct {
	values []Value
}

func (f *fakeInput) read(t *Type) (Value, error) {
	if len(f.values) == 0 {
		return nil, io.EOF
	}
	v := f.values[0]
	f.values = f.values[1:]
	return v, nil
}

// run executes src with the given input, returning the Apply events
// as "name=value" strings.
func run(t *testing.T, in *Interp, src string) []string {
	t.Helper()
	var events []string
	in.Apply = func(name QName, typ *Type, v Value) {
		events = append(events, fmt.Sprintf("%s=%s", name, v))
	}
	if err := runString(in, src); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return events
}

func TestExecStruct(t *testing.T) {
	input := &fakeInput{values: []Value{Int(0xCAFE), Int(4), Int(255)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		struct Header {
			uint16be magic;
			uint8 len;
		}
		Header hdr;
		uint8 trailer;
	`)

	want := []string{"hdr::magic=51966", "hdr::len=4", "trailer=255"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	// Struct members stay visible after the declaration,
	// qualified by the declared name.
	b := in.Syms.Find(QName{"hdr", "len"})
	if b == nil || b.Value != Uint(4) {
		t.Errorf("hdr::len binding = %v, want 4", b)
	}
}

func TestExecNestedStruct(t *testing.T) {
	input := &fakeInput{values: []Value{Int(1), Int(2)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		struct Inner { uint8 a; }
		struct Outer {
			Inner in;
			uint8 b;
		}
		Outer o;
	`)

	want := []string{"o::in::a=1", "o::b=2"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecIfElse(t *testing.T) {
	input := &fakeInput{values: []Value{Int(1), Int(9)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		uint8 n;
		if (n > 2) {
			uint8 big;
		} else {
			uint8 small;
		}
	`)

	want := []string{"n=1", "small=9"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecSwitchFirstMatch(t *testing.T) {
	// Two arms with the same value: only the first executes.
	input := &fakeInput{values: []Value{Int(1), Int(7)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		uint8 x;
		switch (x) {
			case 1: uint8 a;
			case 1: uint8 b;
		}
	`)

	want := []string{"x=1", "a=7"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if len(input.values) != 0 {
		t.Errorf("%d input values left unread", len(input.values))
	}
}

func TestExecSwitchNoMatch(t *testing.T) {
	input := &fakeInput{values: []Value{Int(9)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		uint8 x;
		switch (x) {
			case 1: uint8 a;
		}
	`)

	want := []string{"x=9"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecSwitchBreak(t *testing.T) {
	input := &fakeInput{values: []Value{Int(1), Int(5)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		uint8 x;
		switch (x) {
			case 1:
				break;
				uint8 a;
		}
		uint8 after;
	`)

	// The break terminates the arm; execution continues after the
	// switch.
	want := []string{"x=1", "after=5"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecBreakInNestedBlock(t *testing.T) {
	input := &fakeInput{values: []Value{Int(1)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		uint8 x;
		switch (x) {
			case 1: { break; uint8 a; }
		}
	`)

	want := []string{"x=1"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecBreakOutsideSwitch(t *testing.T) {
	in := new(Interp)
	err := runString(in, `break;`)
	if !errors.Is(err, ErrBreakOutsideSwitch) {
		t.Errorf("break error = %v, want ErrBreakOutsideSwitch", err)
	}

	err = runString(new(Interp), `if (1) { break; }`)
	if !errors.Is(err, ErrBreakOutsideSwitch) {
		t.Errorf("break in if error = %v, want ErrBreakOutsideSwitch", err)
	}
}

func TestExecSwitchScope(t *testing.T) {
	// Declarations in a switch arm live in a nested scope: after the
	// switch they are gone.
	input := &fakeInput{values: []Value{Int(1), Int(7)}}
	in := &Interp{Read: input.read}
	run(t, in, `
		uint8 x;
		switch (x) {
			case 1: uint8 a;
		}
	`)

	if b := in.Syms.Find(QName{"a"}); b != nil {
		t.Errorf("Find(a) after switch = %v, want nil", b)
	}
}

func TestExecBlockScope(t *testing.T) {
	input := &fakeInput{values: []Value{Int(3)}}
	in := &Interp{Read: input.read}
	run(t, in, `{ uint8 tmp; }`)

	if b := in.Syms.Find(QName{"tmp"}); b != nil {
		t.Errorf("Find(tmp) after block = %v, want nil", b)
	}
}

func TestExecEnumSwitch(t *testing.T) {
	// A discriminant of 2 selects the Tag::B arm and registers its
	// declaration.
	input := &fakeInput{values: []Value{Int(2), Int(0x1234)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		enum Tag : uint8 { A = 1, B = 2 }
		struct Header {
			uint8 tag;
			switch (tag) {
				case Tag::A: uint8 a;
				case Tag::B: uint16le b;
			}
		}
		Header h;
	`)

	want := []string{"h::tag=2", "h::b=4660"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecSwitchTypeDecl(t *testing.T) {
	input := &fakeInput{values: []Value{Int(16), Int(0x0102)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		uint8 depth;
		switch Pixel (depth) {
			case 8: uint8 v;
			case 16: uint16le v;
		}
		Pixel p;
	`)

	want := []string{"depth=16", "p::v=258"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	// Unlike a switch statement, members of a switch-typed
	// declaration stay bound after it.
	if b := in.Syms.Find(QName{"p", "v"}); b == nil {
		t.Error("Find(p::v) = nil after declaration")
	}
}

func TestExecEnumDecl(t *testing.T) {
	input := &fakeInput{values: []Value{Int(2)}}
	in := &Interp{Read: input.read}
	events := run(t, in, `
		enum Tag : uint8 { A = 1, B }
		Tag t;
	`)

	want := []string{"t=2"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	b := in.Syms.Find(QName{"Tag", "B"})
	if b == nil || b.Value != Int(2) {
		t.Errorf("Tag::B = %v, want constant 2", b)
	}
}

func TestExecRedeclaration(t *testing.T) {
	input := &fakeInput{values: []Value{Int(1), Int(2)}}
	var reports []string
	in := &Interp{
		Read: input.read,
		Report: func(pos syntax.Position, msg string) {
			reports = append(reports, msg)
		},
	}
	events := run(t, in, `
		uint8 x;
		uint8 x;
	`)

	// The redeclaration is reported but not fatal; the first binding
	// stays authoritative and the second declaration reads nothing.
	want := []string{"x=1"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	if b := in.Syms.Find(QName{"x"}); b == nil || b.Value != Uint(1) {
		t.Errorf("x = %v, want first binding with value 1", b)
	}
}

func TestExecZeroValues(t *testing.T) {
	// With no Read hook every declaration binds its type's zero
	// value, which is how the REPL checks a description without data.
	in := new(Interp)
	events := run(t, in, `
		uint8 a;
		int16 b;
		float64 f;
		utf8z s;
	`)

	want := []string{"a=0", "b=0", "f=0", `s=""`}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecUnknownType(t *testing.T) {
	err := runString(new(Interp), `NoSuch x;`)
	if !errors.Is(err, ErrUndeclaredName) {
		t.Errorf("unknown type error = %v, want ErrUndeclaredName", err)
	}
}

func TestExecTruncatedInput(t *testing.T) {
	input := &fakeInput{values: []Value{Int(5)}}
	in := &Interp{Read: input.read}
	var events []string
	in.Apply = func(name QName, typ *Type, v Value) {
		events = append(events, fmt.Sprintf("%s=%s", name, v))
	}

	err := runString(in, `
		uint8 a;
		uint8 b;
	`)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("truncated input error = %v, want io.EOF", err)
	}

	// Bindings made before the failure are retained.
	want := []string{"a=5"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if b := in.Syms.Find(QName{"a"}); b == nil {
		t.Error("Find(a) = nil after truncated run")
	}
}
