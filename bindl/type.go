// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindl

import "go.bindl.net/syntax"

// Endian is the byte order of a multi-byte scalar field.
type Endian uint8

const (
	EndianNone Endian = iota // single-byte fields
	EndianLittle
	EndianBig
	EndianHost
)

func (e Endian) String() string {
	switch e {
	case EndianLittle:
		return "little"
	case EndianBig:
		return "big"
	case EndianHost:
		return "host"
	}
	return "none"
}

// A Type describes a scalar or composite field type.
//
// For a scalar, Kind is KindBool, KindInt, KindFloat, or KindString,
// and Bits, Endian, Signed, and Null describe the encoding.
// For a composite, exactly one of Struct, Enum, or Switch is non-nil
// and the scalar attributes are meaningless.
type Type struct {
	Name   string // type name; "" for anonymous types
	Kind   Kind
	Bits   int  // 8, 16, 32, or 64
	Endian Endian
	Signed bool
	Null   bool // string fields: null-terminated

	Struct *StructType
	Enum   *EnumType
	Switch *SwitchType
}

// A StructType is an ordered sequence of member declarations.
// Conditionals and switches in the body select which members apply
// to a given input.
type StructType struct {
	Body []syntax.Stmt
}

// Members returns the record's unconditional member declarations in
// declaration order.
func (st *StructType) Members() []*syntax.DeclStmt {
	var members []*syntax.DeclStmt
	for _, stmt := range st.Body {
		if decl, ok := stmt.(*syntax.DeclStmt); ok {
			members = append(members, decl)
		}
	}
	return members
}

// An EnumType is an ordered sequence of named integer constants over a
// scalar base type.
type EnumType struct {
	Base        *Type
	Enumerators []Enumerator
}

// An Enumerator is one (name, constant) pair of an EnumType.
type Enumerator struct {
	Name  string
	Value int64
}

// NameOf returns the name of the first enumerator with value v, or ""
// if the value names no enumerator.
func (et *EnumType) NameOf(v int64) string {
	for _, e := range et.Enumerators {
		if e.Value == v {
			return e.Name
		}
	}
	return ""
}

// A SwitchType is a tagged union: a discriminant expression and an
// ordered sequence of (constant, statement list) cases.
type SwitchType struct {
	Discr syntax.Expr
	Cases []*syntax.CaseClause
}

// Composite reports whether t is a struct, enum, or switch type.
func (t *Type) Composite() bool {
	return t.Struct != nil || t.Enum != nil || t.Switch != nil
}

func (t *Type) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Kind.String()
}

// scalar constructs a builtin scalar type.
func scalar(name string, kind Kind, bits int, endian Endian, signed, null bool) *Type {
	return &Type{
		Name:   name,
		Kind:   kind,
		Bits:   bits,
		Endian: endian,
		Signed: signed,
		Null:   null,
	}
}

// BuiltinType returns the builtin scalar type with the given name, or
// nil if name does not denote a builtin type.
//
// Multi-byte integer and UTF types take an explicit "le" or "be"
// suffix; without a suffix the host byte order is used.
// UTF types with a "z" suffix are null-terminated strings.
func BuiltinType(name string) *Type {
	return builtinTypes[name]
}

var builtinTypes = map[string]*Type{
	"bool": scalar("bool", KindBool, 8, EndianNone, false, false),

	"int8":  scalar("int8", KindInt, 8, EndianNone, true, false),
	"uint8": scalar("uint8", KindInt, 8, EndianNone, false, false),

	"int16":    scalar("int16", KindInt, 16, EndianHost, true, false),
	"int16le":  scalar("int16le", KindInt, 16, EndianLittle, true, false),
	"int16be":  scalar("int16be", KindInt, 16, EndianBig, true, false),
	"uint16":   scalar("uint16", KindInt, 16, EndianHost, false, false),
	"uint16le": scalar("uint16le", KindInt, 16, EndianLittle, false, false),
	"uint16be": scalar("uint16be", KindInt, 16, EndianBig, false, false),

	"int32":    scalar("int32", KindInt, 32, EndianHost, true, false),
	"int32le":  scalar("int32le", KindInt, 32, EndianLittle, true, false),
	"int32be":  scalar("int32be", KindInt, 32, EndianBig, true, false),
	"uint32":   scalar("uint32", KindInt, 32, EndianHost, false, false),
	"uint32le": scalar("uint32le", KindInt, 32, EndianLittle, false, false),
	"uint32be": scalar("uint32be", KindInt, 32, EndianBig, false, false),

	"int64":    scalar("int64", KindInt, 64, EndianHost, true, false),
	"int64le":  scalar("int64le", KindInt, 64, EndianLittle, true, false),
	"int64be":  scalar("int64be", KindInt, 64, EndianBig, true, false),
	"uint64":   scalar("uint64", KindInt, 64, EndianHost, false, false),
	"uint64le": scalar("uint64le", KindInt, 64, EndianLittle, false, false),
	"uint64be": scalar("uint64be", KindInt, 64, EndianBig, false, false),

	"float32":   scalar("float32", KindFloat, 32, EndianHost, true, false),
	"float32le": scalar("float32le", KindFloat, 32, EndianLittle, true, false),
	"float32be": scalar("float32be", KindFloat, 32, EndianBig, true, false),
	"float64":   scalar("float64", KindFloat, 64, EndianHost, true, false),
	"float64le": scalar("float64le", KindFloat, 64, EndianLittle, true, false),
	"float64be": scalar("float64be", KindFloat, 64, EndianBig, true, false),

	"utf8":     scalar("utf8", KindString, 8, EndianNone, false, false),
	"utf8z":    scalar("utf8z", KindString, 8, EndianNone, false, true),
	"utf16le":  scalar("utf16le", KindString, 16, EndianLittle, false, false),
	"utf16be":  scalar("utf16be", KindString, 16, EndianBig, false, false),
	"utf16lez": scalar("utf16lez", KindString, 16, EndianLittle, false, true),
	"utf16bez": scalar("utf16bez", KindString, 16, EndianBig, false, true),
	"utf32le":  scalar("utf32le", KindString, 32, EndianLittle, false, false),
	"utf32be":  scalar("utf32be", KindString, 32, EndianBig, false, false),
	"utf32lez": scalar("utf32lez", KindString, 32, EndianLittle, false, true),
	"utf32bez": scalar("utf32bez", KindString, 32, EndianBig, false, true),
}

// hostInt is the default base type of enums without an explicit base.
var hostInt = builtinTypes["int32"]
