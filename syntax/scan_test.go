// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"testing"
)

func scan(src interface{}) (tokens string, err error) {
	sc, err := newScanner("foo.bindl", src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	var val tokenValue
	for {
		tok, err := sc.nextToken(&val)
		if err != nil {
			return "", err
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		switch tok {
		case EOF:
			buf.WriteString("EOF")
		case IDENT:
			buf.WriteString(val.raw)
		case INT:
			if val.isUint {
				fmt.Fprintf(&buf, "%d", val.uint)
			} else {
				fmt.Fprintf(&buf, "%d", val.int)
			}
		case FLOAT:
			fmt.Fprintf(&buf, "%e", val.float)
		case STRING:
			fmt.Fprintf(&buf, "%q", val.string)
		default:
			buf.WriteString(tok.String())
		}
		if tok == EOF {
			break
		}
	}
	return buf.String(), nil
}

func TestScanner(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, "EOF"},
		{`123`, "123 EOF"},
		{`uint8 x;`, "uint8 x ; EOF"},
		{`Tag::A`, "Tag :: A EOF"},
		{`x : y`, "x : y EOF"},
		{`0x7F`, "127 EOF"},
		{`0xFFFFFFFFFFFFFFFF`, "18446744073709551615 EOF"},
		{`1.5`, "1.500000e+00 EOF"},
		{`1e3`, "1.000000e+03 EOF"},
		{`.5`, "5.000000e-01 EOF"},
		{`"hello"`, `"hello" EOF`},
		{`"a\tb\0"`, "\"a\\tb\\x00\" EOF"},
		{`a+b-c*d/e%f`, "a + b - c * d / e % f EOF"},
		{`a&b|c^d ~e`, "a & b | c ^ d ~ e EOF"},
		{`a<<b>>c`, "a << b >> c EOF"},
		{`a&&b||c^^d`, "a && b || c ^^ d EOF"},
		{`a==b!=c<d>e<=f>=g`, "a == b != c < d > e <= f >= g EOF"},
		{`!a`, "! a EOF"},
		{`a?b:c`, "a ? b : c EOF"},
		{`(x)`, "( x ) EOF"},
		{`{x}`, "{ x } EOF"},
		{`x = 1, y`, "x = 1 , y EOF"},
		{`break case else enum false if struct switch true`,
			"break case else enum false if struct switch true EOF"},
		{"// comment\nx", "x EOF"},
		{"/* multi\nline */x", "x EOF"},
		{"x /* tail */ y", "x y EOF"},
		{`"unterminated`, `foo.bindl:1:1: unclosed string literal`},
		{"/* unterminated", "foo.bindl:1:1: unclosed block comment"},
		{"\x00", `foo.bindl:1:1: unexpected input character '\x00'`},
	} {
		got, err := scan(test.input)
		if err != nil {
			got = err.Error()
		}
		if test.want != got {
			t.Errorf("scan `%s` = [%s], want [%s]", test.input, got, test.want)
		}
	}
}

func TestScannerPosition(t *testing.T) {
	var val tokenValue
	sc, err := newScanner("pos.bindl", "uint8 x;\n  y")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		line, col int32
	}{
		{1, 1}, // uint8
		{1, 7}, // x
		{1, 8}, // ;
		{2, 3}, // y
		{2, 4}, // EOF
	}
	for i, w := range want {
		if _, err := sc.nextToken(&val); err != nil {
			t.Fatal(err)
		}
		if val.pos.Line != w.line || val.pos.Col != w.col {
			t.Errorf("token #%d at %d:%d, want %d:%d",
				i, val.pos.Line, val.pos.Col, w.line, w.col)
		}
	}
}
