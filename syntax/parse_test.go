// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.bindl.net/syntax"
)

func TestExprParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`x + 1`,
			`(BinaryExpr X=x Op=+ Y=1)`},
		{`x+y*z`,
			`(BinaryExpr X=x Op=+ Y=(BinaryExpr X=y Op=* Y=z))`},
		{`x%y-z`,
			`(BinaryExpr X=(BinaryExpr X=x Op=% Y=y) Op=- Y=z)`},
		{`a|b^c&d`,
			`(BinaryExpr X=a Op=| Y=(BinaryExpr X=b Op=^ Y=(BinaryExpr X=c Op=& Y=d)))`},
		{`a&&b||c`,
			`(BinaryExpr X=(BinaryExpr X=a Op=&& Y=b) Op=|| Y=c)`},
		{`a||b^^c`,
			`(BinaryExpr X=a Op=|| Y=(BinaryExpr X=b Op=^^ Y=c))`},
		{`a<<b+c`,
			`(BinaryExpr X=a Op=<< Y=(BinaryExpr X=b Op=+ Y=c))`},
		{`a&b == c`,
			`(BinaryExpr X=a Op=& Y=(BinaryExpr X=b Op=== Y=c))`},
		{`a<b == c<d`,
			`(BinaryExpr X=(BinaryExpr X=a Op=< Y=b) Op=== Y=(BinaryExpr X=c Op=< Y=d))`},
		{`-x`,
			`(UnaryExpr Op=- X=x)`},
		{`~x & y`,
			`(BinaryExpr X=(UnaryExpr Op=~ X=x) Op=& Y=y)`},
		{`!x || y`,
			`(BinaryExpr X=(UnaryExpr Op=! X=x) Op=|| Y=y)`},
		{`a ? b : c`,
			`(CondExpr Cond=a True=b False=c)`},
		{`a ? b : c ? d : e`,
			`(CondExpr Cond=a True=b False=(CondExpr Cond=c True=d False=e))`},
		{`a || b ? c + 1 : d`,
			`(CondExpr Cond=(BinaryExpr X=a Op=|| Y=b) True=(BinaryExpr X=c Op=+ Y=1) False=d)`},
		{`(x + y) * z`,
			`(BinaryExpr X=(ParenExpr X=(BinaryExpr X=x Op=+ Y=y)) Op=* Y=z)`},
		{`uint16(x)`,
			`(CastExpr Type=uint16 X=x)`},
		{`float32(x + y)`,
			`(CastExpr Type=float32 X=(BinaryExpr X=x Op=+ Y=y))`},
		{`Tag::A`,
			`Tag::A`},
		{`Header::len + 1`,
			`(BinaryExpr X=Header::len Op=+ Y=1)`},
		{`true`,
			`true`},
		{`1.5`,
			`1.5`},
		{`"ab"`,
			`"ab"`},
		{`0x10 | 1`,
			`(BinaryExpr X=16 Op=| Y=1)`},
	} {
		e, err := syntax.ParseExpr("foo.bindl", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		if got := treeString(e); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestStmtParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`uint8 x;`,
			`(DeclStmt Type=uint8 Name=x)`},
		{`utf16be name;`,
			`(DeclStmt Type=utf16be Name=name)`},
		{`Header h;`,
			`(DeclStmt Type=Header Name=h)`},
		{`if (x) { uint8 y; }`,
			`(IfStmt Cond=x True=((DeclStmt Type=uint8 Name=y)))`},
		{`if (x) { uint8 y; } else { uint8 z; }`,
			`(IfStmt Cond=x True=((DeclStmt Type=uint8 Name=y)) False=((DeclStmt Type=uint8 Name=z)))`},
		{`if (a) { } else if (b) { break; }`,
			`(IfStmt Cond=a False=((IfStmt Cond=b True=((BreakStmt)))))`},
		{`switch (x) { case 1: uint8 a; break; case 2: uint8 b; }`,
			`(SwitchStmt Discr=x Cases=(` +
				`(CaseClause Value=1 Body=((DeclStmt Type=uint8 Name=a) (BreakStmt))) ` +
				`(CaseClause Value=2 Body=((DeclStmt Type=uint8 Name=b)))))`},
		{`{ uint8 x; uint8 y; }`,
			`(BlockStmt Body=((DeclStmt Type=uint8 Name=x) (DeclStmt Type=uint8 Name=y)))`},
		{`struct Point { int32be x; int32be y; }`,
			`(StructDefStmt Name=Point Body=((DeclStmt Type=int32be Name=x) (DeclStmt Type=int32be Name=y)))`},
		{`enum Tag : uint8 { A, B = 5, C }`,
			`(EnumDefStmt Name=Tag Base=uint8 Items=((EnumItem Name=A) (EnumItem Name=B Value=5) (EnumItem Name=C)))`},
		{`enum Color { Red, Green }`,
			`(EnumDefStmt Name=Color Items=((EnumItem Name=Red) (EnumItem Name=Green)))`},
		{`switch Pixel (depth) { case 8: uint8 v; case 16: uint16le v; }`,
			`(SwitchDefStmt Name=Pixel Discr=depth Cases=(` +
				`(CaseClause Value=8 Body=((DeclStmt Type=uint8 Name=v))) ` +
				`(CaseClause Value=16 Body=((DeclStmt Type=uint16le Name=v)))))`},
	} {
		f, err := syntax.Parse("foo.bindl", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		if len(f.Stmts) != 1 {
			t.Errorf("parse `%s`: got %d statements, want 1", test.input, len(f.Stmts))
			continue
		}
		if got := treeString(f.Stmts[0]); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`uint8 x`, `foo.bindl:1:8: got end of file, want ;`},
		{`uint8;`, `foo.bindl:1:6: got ;, want field name`},
		{`if x { }`, `foo.bindl:1:4: got identifier, want (`},
		{`switch (x) { uint8 y; }`, `foo.bindl:1:14: got identifier, want }`},
		{`enum E : { A }`, `foo.bindl:1:10: got {, want identifier`},
	} {
		_, err := syntax.Parse("foo.bindl", test.input)
		if err == nil {
			t.Errorf("parse `%s` unexpectedly succeeded", test.input)
			continue
		}
		if err.Error() != test.want {
			t.Errorf("parse `%s`: error %q, want %q", test.input, err.Error(), test.want)
		}
	}
}

func TestParseExprErrors(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`x + `, `foo.bindl:1:5: got end of file, want expression`},
		{`a ? b`, `foo.bindl:1:6: got end of file, want :`},
		{`1 2`, `foo.bindl:1:3: got int literal, want end of file`},
		{`uint16(`, `foo.bindl:1:8: got end of file, want expression`},
	} {
		_, err := syntax.ParseExpr("foo.bindl", test.input)
		if err == nil {
			t.Errorf("parse `%s` unexpectedly succeeded", test.input)
			continue
		}
		if err.Error() != test.want {
			t.Errorf("parse `%s`: error %q, want %q", test.input, err.Error(), test.want)
		}
	}
}

// stripPos removes position information from an error message.
func stripPos(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+len(": "):]
	}
	return msg
}

// treeString prints a syntax node as a parenthesized tree.
// Names are printed as foo or Tag::A and Literals as "foo" or 42.
// Structs are printed as (type name=value ...).
// Only non-empty fields are shown.
func treeString(n syntax.Node) string {
	var buf bytes.Buffer
	writeTree(&buf, reflect.ValueOf(n))
	return buf.String()
}

func writeTree(out *bytes.Buffer, x reflect.Value) {
	switch x.Kind() {
	case reflect.String, reflect.Int, reflect.Bool:
		fmt.Fprintf(out, "%v", x.Interface())
	case reflect.Ptr, reflect.Interface:
		if elem := x.Elem(); elem.Kind() == 0 {
			out.WriteString("nil")
		} else {
			writeTree(out, elem)
		}
	case reflect.Struct:
		switch v := x.Interface().(type) {
		case syntax.Literal:
			switch v.Token {
			case syntax.STRING:
				fmt.Fprintf(out, "%q", v.Value)
			case syntax.INT, syntax.FLOAT, syntax.TRUE, syntax.FALSE:
				fmt.Fprintf(out, "%v", v.Value)
			}
			return
		case syntax.Name:
			out.WriteString(v.String())
			return
		}
		fmt.Fprintf(out, "(%s", strings.TrimPrefix(x.Type().String(), "syntax."))
		for i, n := 0, x.NumField(); i < n; i++ {
			f := x.Field(i)
			if f.Type() == reflect.TypeOf(syntax.Position{}) {
				continue // skip positions
			}
			name := x.Type().Field(i).Name
			if f.Type() == reflect.TypeOf(syntax.Token(0)) {
				fmt.Fprintf(out, " %s=%s", name, f.Interface())
				continue
			}

			switch f.Kind() {
			case reflect.Slice:
				if n := f.Len(); n > 0 {
					fmt.Fprintf(out, " %s=(", name)
					for i := 0; i < n; i++ {
						if i > 0 {
							out.WriteByte(' ')
						}
						writeTree(out, f.Index(i))
					}
					out.WriteByte(')')
				}
				continue
			case reflect.Ptr, reflect.Interface:
				if f.IsNil() {
					continue
				}
			case reflect.Int:
				if f.Int() != 0 {
					fmt.Fprintf(out, " %s=%d", name, f.Int())
				}
				continue
			case reflect.Bool:
				if f.Bool() {
					fmt.Fprintf(out, " %s", name)
				}
				continue
			}
			fmt.Fprintf(out, " %s=", name)
			writeTree(out, f)
		}
		fmt.Fprintf(out, ")")
	default:
		fmt.Fprintf(out, "%T", x.Interface())
	}
}
