// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A scanner for the bindl binary-format description language.

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position {
	return Position{file, line, col}
}

// add returns the position at the end of s, assuming it contains no newlines.
func (p Position) add(s string) Position {
	if n := utf8.RuneCountInString(s); n != 0 {
		p.Col += int32(n)
	}
	return p
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// A Token represents a lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	IDENT  // x
	INT    // 123
	FLOAT  // 1.23e45
	STRING // "foo"

	// Punctuation
	LBRACE     // {
	RBRACE     // }
	LPAREN     // (
	RPAREN     // )
	SEMI       // ;
	COLON      // :
	COLONCOLON // ::
	COMMA      // ,
	QUESTION   // ?
	EQ         // =

	// Operators
	PLUS       // +
	MINUS      // -
	STAR       // *
	SLASH      // /
	PERCENT    // %
	AMP        // &
	PIPE       // |
	CIRCUMFLEX // ^
	TILDE      // ~
	LTLT       // <<
	GTGT       // >>
	AMPAMP     // &&
	PIPEPIPE   // ||
	CARETCARET // ^^
	NOT        // !
	EQL        // ==
	NEQ        // !=
	LT         // <
	GT         // >
	LE         // <=
	GE         // >=

	// Keywords
	BREAK
	CASE
	ELSE
	ENUM
	FALSE
	IF
	STRUCT
	SWITCH
	TRUE

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

var tokenNames = [...]string{
	ILLEGAL:    "illegal token",
	EOF:        "end of file",
	IDENT:      "identifier",
	INT:        "int literal",
	FLOAT:      "float literal",
	STRING:     "string literal",
	LBRACE:     "{",
	RBRACE:     "}",
	LPAREN:     "(",
	RPAREN:     ")",
	SEMI:       ";",
	COLON:      ":",
	COLONCOLON: "::",
	COMMA:      ",",
	QUESTION:   "?",
	EQ:         "=",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
	AMP:        "&",
	PIPE:       "|",
	CIRCUMFLEX: "^",
	TILDE:      "~",
	LTLT:       "<<",
	GTGT:       ">>",
	AMPAMP:     "&&",
	PIPEPIPE:   "||",
	CARETCARET: "^^",
	NOT:        "!",
	EQL:        "==",
	NEQ:        "!=",
	LT:         "<",
	GT:         ">",
	LE:         "<=",
	GE:         ">=",
	BREAK:      "break",
	CASE:       "case",
	ELSE:       "else",
	ENUM:       "enum",
	FALSE:      "false",
	IF:         "if",
	STRUCT:     "struct",
	SWITCH:     "switch",
	TRUE:       "true",
}

var keywordToken = map[string]Token{
	"break":  BREAK,
	"case":   CASE,
	"else":   ELSE,
	"enum":   ENUM,
	"false":  FALSE,
	"if":     IF,
	"struct": STRUCT,
	"switch": SWITCH,
	"true":   TRUE,
}

// An Error describes the nature and position of a scanner or parser error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// tokenValue records the position and value associated with each token.
type tokenValue struct {
	raw    string   // raw text of token
	int    int64    // decoded int
	uint   uint64   // decoded int that doesn't fit in int64
	isUint bool     // whether uint is the active payload
	float  float64  // decoded float
	string string   // decoded string
	pos    Position // start position of token
}

type scanner struct {
	rest  []byte   // rest of input
	token []byte   // token being scanned
	pos   Position // current input position
}

func newScanner(filename string, src interface{}) (*scanner, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	return &scanner{
		rest: data,
		pos:  Position{file: &filename, Line: 1, Col: 1},
	}, nil
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case nil:
		return os.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

func (sc *scanner) errorf(pos Position, format string, args ...interface{}) error {
	return Error{pos, fmt.Sprintf(format, args...)}
}

// peekRune returns the next rune in the input without consuming it.
func (sc *scanner) peekRune() rune {
	if len(sc.rest) == 0 {
		return 0
	}
	if b := sc.rest[0]; b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRune(sc.rest)
	return r
}

// readRune consumes and returns the next rune in the input.
func (sc *scanner) readRune() rune {
	if len(sc.rest) == 0 {
		return 0
	}
	var r rune
	var size int
	if b := sc.rest[0]; b < utf8.RuneSelf {
		r, size = rune(b), 1
	} else {
		r, size = utf8.DecodeRune(sc.rest)
	}
	sc.rest = sc.rest[size:]
	if r == '\n' {
		sc.pos.Line++
		sc.pos.Col = 1
	} else {
		sc.pos.Col++
	}
	return r
}

func (sc *scanner) startToken(val *tokenValue) {
	sc.token = sc.rest
	val.raw = ""
	val.pos = sc.pos
}

func (sc *scanner) endToken(val *tokenValue) {
	val.raw = string(sc.token[:len(sc.token)-len(sc.rest)])
}

// nextToken scans the next token and returns it, filling in val.
func (sc *scanner) nextToken(val *tokenValue) (Token, error) {
	// Skip whitespace and comments.
	for {
		for len(sc.rest) > 0 {
			c := sc.peekRune()
			if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
				sc.readRune()
				continue
			}
			break
		}
		if len(sc.rest) >= 2 && sc.rest[0] == '/' && sc.rest[1] == '/' {
			for len(sc.rest) > 0 && sc.peekRune() != '\n' {
				sc.readRune()
			}
			continue
		}
		if len(sc.rest) >= 2 && sc.rest[0] == '/' && sc.rest[1] == '*' {
			start := sc.pos
			sc.readRune()
			sc.readRune()
			for {
				if len(sc.rest) == 0 {
					return ILLEGAL, sc.errorf(start, "unclosed block comment")
				}
				if sc.readRune() == '*' && sc.peekRune() == '/' {
					sc.readRune()
					break
				}
			}
			continue
		}
		break
	}

	sc.startToken(val)
	defer sc.endToken(val)

	if len(sc.rest) == 0 {
		return EOF, nil
	}

	c := sc.peekRune()

	if isIdentStart(c) {
		return sc.scanIdent(val)
	}
	if isdigit(c) || c == '.' && len(sc.rest) > 1 && isdigit(rune(sc.rest[1])) {
		return sc.scanNumber(val)
	}
	if c == '"' {
		return sc.scanString(val)
	}

	sc.readRune()
	switch c {
	case '{':
		return LBRACE, nil
	case '}':
		return RBRACE, nil
	case '(':
		return LPAREN, nil
	case ')':
		return RPAREN, nil
	case ';':
		return SEMI, nil
	case ',':
		return COMMA, nil
	case '?':
		return QUESTION, nil
	case '~':
		return TILDE, nil
	case '+':
		return PLUS, nil
	case '-':
		return MINUS, nil
	case '*':
		return STAR, nil
	case '/':
		return SLASH, nil
	case '%':
		return PERCENT, nil
	case ':':
		if sc.peekRune() == ':' {
			sc.readRune()
			return COLONCOLON, nil
		}
		return COLON, nil
	case '=':
		if sc.peekRune() == '=' {
			sc.readRune()
			return EQL, nil
		}
		return EQ, nil
	case '!':
		if sc.peekRune() == '=' {
			sc.readRune()
			return NEQ, nil
		}
		return NOT, nil
	case '<':
		switch sc.peekRune() {
		case '<':
			sc.readRune()
			return LTLT, nil
		case '=':
			sc.readRune()
			return LE, nil
		}
		return LT, nil
	case '>':
		switch sc.peekRune() {
		case '>':
			sc.readRune()
			return GTGT, nil
		case '=':
			sc.readRune()
			return GE, nil
		}
		return GT, nil
	case '&':
		if sc.peekRune() == '&' {
			sc.readRune()
			return AMPAMP, nil
		}
		return AMP, nil
	case '|':
		if sc.peekRune() == '|' {
			sc.readRune()
			return PIPEPIPE, nil
		}
		return PIPE, nil
	case '^':
		if sc.peekRune() == '^' {
			sc.readRune()
			return CARETCARET, nil
		}
		return CIRCUMFLEX, nil
	}
	return ILLEGAL, sc.errorf(val.pos, "unexpected input character %q", c)
}

func (sc *scanner) scanIdent(val *tokenValue) (Token, error) {
	for len(sc.rest) > 0 && isIdent(sc.peekRune()) {
		sc.readRune()
	}
	sc.endToken(val)
	if tok, ok := keywordToken[val.raw]; ok {
		return tok, nil
	}
	return IDENT, nil
}

func (sc *scanner) scanNumber(val *tokenValue) (Token, error) {
	// Hexadecimal?
	if sc.peekRune() == '0' && len(sc.rest) > 1 && (sc.rest[1] == 'x' || sc.rest[1] == 'X') {
		sc.readRune()
		sc.readRune()
		start := sc.pos
		for len(sc.rest) > 0 && isxdigit(sc.peekRune()) {
			sc.readRune()
		}
		sc.endToken(val)
		if len(val.raw) == 2 {
			return ILLEGAL, sc.errorf(start, "invalid hex literal")
		}
		u, err := strconv.ParseUint(val.raw[2:], 16, 64)
		if err != nil {
			return ILLEGAL, sc.errorf(val.pos, "invalid hex literal %s", val.raw)
		}
		if u > math.MaxInt64 {
			val.uint = u
			val.isUint = true
		} else {
			val.int = int64(u)
		}
		return INT, nil
	}

	isFloat := false
	for len(sc.rest) > 0 {
		c := sc.peekRune()
		if isdigit(c) {
			sc.readRune()
		} else if c == '.' && !isFloat {
			isFloat = true
			sc.readRune()
		} else if (c == 'e' || c == 'E') && len(sc.rest) > 1 {
			isFloat = true
			sc.readRune()
			if c := sc.peekRune(); c == '+' || c == '-' {
				sc.readRune()
			}
		} else {
			break
		}
	}
	sc.endToken(val)
	if isFloat {
		f, err := strconv.ParseFloat(val.raw, 64)
		if err != nil {
			return ILLEGAL, sc.errorf(val.pos, "invalid float literal %s", val.raw)
		}
		val.float = f
		return FLOAT, nil
	}
	if i, err := strconv.ParseInt(val.raw, 10, 64); err == nil {
		val.int = i
		return INT, nil
	}
	u, err := strconv.ParseUint(val.raw, 10, 64)
	if err != nil {
		return ILLEGAL, sc.errorf(val.pos, "invalid int literal %s", val.raw)
	}
	val.uint = u
	val.isUint = true
	return INT, nil
}

func (sc *scanner) scanString(val *tokenValue) (Token, error) {
	start := val.pos
	sc.readRune() // consume '"'
	var sb strings.Builder
	for {
		if len(sc.rest) == 0 {
			return ILLEGAL, sc.errorf(start, "unclosed string literal")
		}
		c := sc.readRune()
		switch c {
		case '"':
			val.string = sb.String()
			return STRING, nil
		case '\n':
			return ILLEGAL, sc.errorf(start, "newline in string literal")
		case '\\':
			if len(sc.rest) == 0 {
				return ILLEGAL, sc.errorf(start, "unclosed string literal")
			}
			switch e := sc.readRune(); e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '\\', '"':
				sb.WriteRune(e)
			default:
				return ILLEGAL, sc.errorf(start, "invalid escape \\%c in string literal", e)
			}
		default:
			sb.WriteRune(c)
		}
	}
}

func isIdentStart(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' || c >= utf8.RuneSelf && unicode.IsLetter(c)
}

func isIdent(c rune) bool { return isdigit(c) || isIdentStart(c) }

func isdigit(c rune) bool { return '0' <= c && c <= '9' }

func isxdigit(c rune) bool {
	return isdigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
