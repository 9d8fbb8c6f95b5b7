// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bindl provides the core of the bindl binary-format
// interpreter: the typed value and type models, the expression
// evaluator, the scoped symbol table, and the statement executor.
//
// An Interp executes the statement list produced by the syntax package,
// deciding which field declarations apply to which bytes of the input.
// The reading of bytes and the rendering of the dump are supplied by
// the client (see Interp.Read and Interp.Apply).
package bindl

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the coarse category of a Value or Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString

	// Composite kinds, valid for Types only.
	KindStruct
	KindEnum
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindSwitch:
		return "switch"
	}
	return "invalid"
}

// Value is a typed runtime value produced by evaluation or decoding.
//
// The concrete types are Bool, Int, Uint, Float, and String.
// Values are immutable; narrowing and casting produce new Values.
type Value interface {
	// Kind returns the base kind of the value.
	Kind() Kind
	// String returns the value rendered for a dump.
	String() string
	value()
}

// Bool is the type of boolean values.
type Bool bool

// Int is the type of signed integer values.
// All signed integer arithmetic is done at 64 bits.
type Int int64

// Uint is the type of unsigned integer values, produced by bitwise
// operators and by decoding unsigned fields.
type Uint uint64

// Float is the type of floating-point values.
type Float float64

// String is the type of decoded character and string values.
type String string

func (Bool) value()   {}
func (Int) value()    {}
func (Uint) value()   {}
func (Float) value()  {}
func (String) value() {}

func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Uint) Kind() Kind   { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (u Uint) String() string  { return strconv.FormatUint(uint64(u), 10) }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (s String) String() string {
	return strconv.Quote(string(s))
}

// Floating-point comparisons are epsilon-relative so that values
// reassembled from narrow fields still compare equal.

func isFEqual(d1, d2 float64) bool {
	diff := math.Abs(d1 - d2)
	return diff <= epsilon ||
		diff < math.Max(math.Abs(d1), math.Abs(d2))*epsilon
}

func isFZero(d float64) bool { return math.Abs(d) <= epsilon }

const epsilon = 2.220446049250313e-16 // DBL_EPSILON

// IsZero reports whether v is zero: false, 0, or 0.0.
// It is an error for string values.
func IsZero(v Value) (bool, error) {
	switch v := v.(type) {
	case Bool:
		return !bool(v), nil
	case Int:
		return v == 0, nil
	case Uint:
		return v == 0, nil
	case Float:
		return isFZero(float64(v)), nil
	}
	return false, fmt.Errorf("%w: string has no zero test", ErrBadOperand)
}

// Narrow truncates v to the width and signedness of the scalar type t.
// Truncation is silent bit-truncation, never range-checked: a field
// narrowed below its value keeps only the low bits, matching the
// byte-level semantics of the format language.
func Narrow(v Value, t *Type) Value {
	switch t.Kind {
	case KindBool:
		zero, _ := IsZero(v)
		return Bool(!zero)

	case KindInt:
		u := bits(v)
		if t.Bits < 64 {
			u &= 1<<uint(t.Bits) - 1
		}
		if !t.Signed {
			return Uint(u)
		}
		// Sign-extend from the new top bit.
		if t.Bits < 64 && u&(1<<uint(t.Bits-1)) != 0 {
			u |= ^uint64(0) << uint(t.Bits)
		}
		return Int(int64(u))

	case KindFloat:
		f, _ := asFloat(v)
		if t.Bits == 32 {
			return Float(float64(float32(f)))
		}
		return Float(f)
	}
	return v
}

// bits returns the raw 64-bit payload of a numeric value.
func bits(v Value) uint64 {
	switch v := v.(type) {
	case Bool:
		if v {
			return 1
		}
		return 0
	case Int:
		return uint64(v)
	case Uint:
		return uint64(v)
	case Float:
		return math.Float64bits(float64(v))
	}
	return 0
}

// asInt returns the signed 64-bit view of a numeric value.
func asInt(v Value) (int64, bool) {
	switch v := v.(type) {
	case Bool:
		if v {
			return 1, true
		}
		return 0, true
	case Int:
		return int64(v), true
	case Uint:
		return int64(v), true
	}
	return 0, false
}

// asUint returns the unsigned 64-bit view of a numeric value.
func asUint(v Value) (uint64, bool) {
	switch v := v.(type) {
	case Bool:
		if v {
			return 1, true
		}
		return 0, true
	case Int:
		return uint64(v), true
	case Uint:
		return uint64(v), true
	}
	return 0, false
}

// asFloat returns the floating-point view of a numeric value.
func asFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Bool:
		if v {
			return 1, true
		}
		return 0, true
	case Int:
		return float64(v), true
	case Uint:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}

// isInteger reports whether v reduces to integer base kind.
// Booleans count as integers, as in the source language's C-like rules.
func isInteger(v Value) bool {
	switch v.(type) {
	case Bool, Int, Uint:
		return true
	}
	return false
}

// zeroValue returns the zero Value of a scalar type.
func zeroValue(t *Type) Value {
	switch t.Kind {
	case KindBool:
		return Bool(false)
	case KindFloat:
		return Float(0)
	case KindString:
		return String("")
	case KindInt, KindEnum:
		if t.Kind == KindInt && !t.Signed {
			return Uint(0)
		}
		return Int(0)
	}
	return Int(0)
}

// Cast reinterprets v as the scalar type t:
// integer-to-integer casts change width and signedness (narrowing
// truncates, widening extends per the source signedness), numeric
// casts convert, and boolean casts reduce to zero or non-zero.
func Cast(v Value, t *Type) (Value, error) {
	switch t.Kind {
	case KindBool:
		zero, err := IsZero(v)
		if err != nil {
			return nil, err
		}
		return Bool(!zero), nil

	case KindInt:
		if f, ok := v.(Float); ok {
			if t.Signed {
				return Narrow(Int(int64(f)), t), nil
			}
			return Narrow(Uint(uint64(f)), t), nil
		}
		if !isInteger(v) {
			return nil, fmt.Errorf("%w: cannot cast %s to %s", ErrBadOperand, v.Kind(), t.Kind)
		}
		return Narrow(v, t), nil

	case KindFloat:
		f, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: cannot cast %s to %s", ErrBadOperand, v.Kind(), t.Kind)
		}
		return Narrow(Float(f), t), nil
	}
	return nil, fmt.Errorf("%w: cannot cast to %s", ErrBadOperand, t.Kind)
}
