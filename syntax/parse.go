// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename is
// only used when recording position information. The type of the
// argument for the src parameter must be string or []byte. If src ==
// nil, Parse parses the file specified by filename.
func Parse(filename string, src interface{}) (f *File, err error) {
	sc, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := &parser{sc: sc}
	defer p.recoverError(&err)
	p.nextToken()
	f = &File{Path: filename, Stmts: p.parseStmtsUntil(EOF)}
	return f, nil
}

// ParseExpr parses a bindl expression.
// A comma-separated list of expressions is not accepted.
func ParseExpr(filename string, src interface{}) (expr Expr, err error) {
	sc, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := &parser{sc: sc}
	defer p.recoverError(&err)
	p.nextToken()
	expr = p.parseExpr()
	if p.tok != EOF {
		p.errorf(p.tokval.pos, "got %s, want end of file", p.tok)
	}
	return expr, nil
}

type parser struct {
	sc     *scanner
	tok    Token
	tokval tokenValue
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (p *parser) nextToken() Position {
	oldpos := p.tokval.pos
	tok, err := p.sc.nextToken(&p.tokval)
	if err != nil {
		panic(err)
	}
	p.tok = tok
	return oldpos
}

// recoverError converts a panicked Error into a returned error.
func (p *parser) recoverError(err *error) {
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		panic(e)
	}
}

func (p *parser) errorf(pos Position, format string, args ...interface{}) {
	panic(Error{pos, fmt.Sprintf(format, args...)})
}

// consume checks that the current token is tok and advances past it.
func (p *parser) consume(tok Token) Position {
	if p.tok != tok {
		p.errorf(p.tokval.pos, "got %s, want %s", p.tok, tok)
	}
	return p.nextToken()
}

// parseStmtsUntil parses statements until the end token is seen.
// The end token itself is not consumed.
func (p *parser) parseStmtsUntil(end Token) []Stmt {
	var stmts []Stmt
	for p.tok != end && p.tok != EOF {
		stmts = append(stmts, p.parseStmt())
	}
	return stmts
}

func (p *parser) parseStmt() Stmt {
	switch p.tok {
	case STRUCT:
		return p.parseStructDef()
	case ENUM:
		return p.parseEnumDef()
	case SWITCH:
		return p.parseSwitch()
	case IF:
		return p.parseIf()
	case BREAK:
		pos := p.nextToken()
		semi := p.consume(SEMI)
		return &BreakStmt{Break: pos, Semi: semi}
	case LBRACE:
		lbrace := p.nextToken()
		body := p.parseStmtsUntil(RBRACE)
		rbrace := p.consume(RBRACE)
		return &BlockStmt{Lbrace: lbrace, Body: body, Rbrace: rbrace}
	case IDENT:
		return p.parseDecl()
	}
	p.errorf(p.tokval.pos, "got %s, want statement", p.tok)
	panic("unreachable")
}

// parseDecl parses a field declaration: Type Name;
func (p *parser) parseDecl() Stmt {
	typ := p.parseName()
	if p.tok != IDENT {
		p.errorf(p.tokval.pos, "got %s, want field name", p.tok)
	}
	name := p.tokval.raw
	namePos := p.nextToken()
	semi := p.consume(SEMI)
	return &DeclStmt{Type: typ, NamePos: namePos, Name: name, Semi: semi}
}

func (p *parser) parseIf() Stmt {
	ifpos := p.consume(IF)
	p.consume(LPAREN)
	cond := p.parseExpr()
	p.consume(RPAREN)
	ifStmt := &IfStmt{If: ifpos, Cond: cond}
	ifStmt.True, ifStmt.Rbrace = p.parseBlock()
	if p.tok == ELSE {
		ifStmt.ElsePos = p.nextToken()
		if p.tok == IF {
			// else if: desugared into a nested IfStmt.
			nested := p.parseIf()
			ifStmt.False = []Stmt{nested}
			_, end := nested.Span()
			ifStmt.Rbrace = end
		} else {
			ifStmt.False, ifStmt.Rbrace = p.parseBlock()
		}
	}
	return ifStmt
}

// parseBlock parses { Stmts } and returns the statements and the
// position of the closing brace.
func (p *parser) parseBlock() ([]Stmt, Position) {
	p.consume(LBRACE)
	body := p.parseStmtsUntil(RBRACE)
	rbrace := p.consume(RBRACE)
	return body, rbrace
}

// parseSwitch parses either a switch statement,
//
//	switch (Discr) { case C: ... }
//
// or, when a name follows the keyword, a tagged-union type definition:
//
//	switch Name (Discr) { case C: ... }
func (p *parser) parseSwitch() Stmt {
	switchPos := p.consume(SWITCH)

	var name string
	var namePos Position
	if p.tok == IDENT {
		name = p.tokval.raw
		namePos = p.nextToken()
	}

	p.consume(LPAREN)
	discr := p.parseExpr()
	p.consume(RPAREN)
	p.consume(LBRACE)
	var cases []*CaseClause
	for p.tok == CASE {
		cases = append(cases, p.parseCase())
	}
	rbrace := p.consume(RBRACE)

	if name != "" {
		p.maybeSemi()
		return &SwitchDefStmt{
			Switch:  switchPos,
			NamePos: namePos,
			Name:    name,
			Discr:   discr,
			Cases:   cases,
			Rbrace:  rbrace,
		}
	}
	return &SwitchStmt{Switch: switchPos, Discr: discr, Cases: cases, Rbrace: rbrace}
}

func (p *parser) parseCase() *CaseClause {
	casePos := p.consume(CASE)
	value := p.parseExpr()
	colon := p.consume(COLON)
	var body []Stmt
	for p.tok != CASE && p.tok != RBRACE && p.tok != EOF {
		body = append(body, p.parseStmt())
	}
	return &CaseClause{Case: casePos, Value: value, Colon: colon, Body: body}
}

func (p *parser) parseStructDef() Stmt {
	structPos := p.consume(STRUCT)
	if p.tok != IDENT {
		p.errorf(p.tokval.pos, "got %s, want struct name", p.tok)
	}
	name := p.tokval.raw
	namePos := p.nextToken()
	body, rbrace := p.parseBlock()
	p.maybeSemi()
	return &StructDefStmt{
		Struct:  structPos,
		NamePos: namePos,
		Name:    name,
		Body:    body,
		Rbrace:  rbrace,
	}
}

func (p *parser) parseEnumDef() Stmt {
	enumPos := p.consume(ENUM)
	if p.tok != IDENT {
		p.errorf(p.tokval.pos, "got %s, want enum name", p.tok)
	}
	def := &EnumDefStmt{Enum: enumPos, Name: p.tokval.raw}
	def.NamePos = p.nextToken()
	if p.tok == COLON {
		p.nextToken()
		def.Base = p.parseName()
	}
	p.consume(LBRACE)
	for p.tok == IDENT {
		item := &EnumItem{Name: p.tokval.raw}
		item.NamePos = p.nextToken()
		if p.tok == EQ {
			p.nextToken()
			item.Value = p.parseExpr()
		}
		def.Items = append(def.Items, item)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	def.Rbrace = p.consume(RBRACE)
	p.maybeSemi()
	return def
}

// maybeSemi skips an optional semicolon after a type definition.
func (p *parser) maybeSemi() {
	if p.tok == SEMI {
		p.nextToken()
	}
}

// parseName parses a possibly qualified name: x or A::B::x.
func (p *parser) parseName() *Name {
	if p.tok != IDENT {
		p.errorf(p.tokval.pos, "got %s, want identifier", p.tok)
	}
	name := &Name{Segments: []string{p.tokval.raw}}
	name.NamePos = p.nextToken()
	for p.tok == COLONCOLON {
		p.nextToken()
		if p.tok != IDENT {
			p.errorf(p.tokval.pos, "got %s, want identifier after ::", p.tok)
		}
		name.Segments = append(name.Segments, p.tokval.raw)
		p.nextToken()
	}
	return name
}

// Binary operator precedence, tightest last.
var precedence [maxToken]int8

func init() {
	for tok, n := range map[Token]int8{
		PIPEPIPE:   1,
		CARETCARET: 2,
		AMPAMP:     3,
		PIPE:       4,
		CIRCUMFLEX: 5,
		AMP:        6,
		EQL:        7,
		NEQ:        7,
		LT:         8,
		GT:         8,
		LE:         8,
		GE:         8,
		LTLT:       9,
		GTGT:       9,
		PLUS:       10,
		MINUS:      10,
		STAR:       11,
		SLASH:      11,
		PERCENT:    11,
	} {
		precedence[tok] = n
	}
}

// parseExpr parses a conditional expression (the lowest precedence).
func (p *parser) parseExpr() Expr {
	cond := p.parseBinary(1)
	if p.tok != QUESTION {
		return cond
	}
	question := p.nextToken()
	trueExpr := p.parseExpr()
	colon := p.consume(COLON)
	falseExpr := p.parseExpr()
	return &CondExpr{
		Cond:     cond,
		Question: question,
		True:     trueExpr,
		Colon:    colon,
		False:    falseExpr,
	}
}

// parseBinary parses an expression of precedence >= prec.
func (p *parser) parseBinary(prec int8) Expr {
	x := p.parseUnary()
	for precedence[p.tok] >= prec {
		op := p.tok
		opPos := p.nextToken()
		y := p.parseBinary(precedence[op] + 1)
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x
}

func (p *parser) parseUnary() Expr {
	switch p.tok {
	case MINUS, TILDE, NOT:
		op := p.tok
		opPos := p.nextToken()
		return &UnaryExpr{OpPos: opPos, Op: op, X: p.parseUnary()}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() Expr {
	switch p.tok {
	case INT:
		lit := &Literal{Token: INT, Raw: p.tokval.raw}
		if p.tokval.isUint {
			lit.Value = p.tokval.uint
		} else {
			lit.Value = p.tokval.int
		}
		lit.TokenPos = p.nextToken()
		return lit

	case FLOAT:
		lit := &Literal{Token: FLOAT, Raw: p.tokval.raw, Value: p.tokval.float}
		lit.TokenPos = p.nextToken()
		return lit

	case STRING:
		lit := &Literal{Token: STRING, Raw: p.tokval.raw, Value: p.tokval.string}
		lit.TokenPos = p.nextToken()
		return lit

	case TRUE, FALSE:
		lit := &Literal{Token: p.tok, Raw: p.tokval.raw, Value: p.tok == TRUE}
		lit.TokenPos = p.nextToken()
		return lit

	case IDENT:
		name := p.parseName()
		if p.tok == LPAREN {
			// A name applied to a parenthesized expression is a cast:
			// the language has no function calls.
			lparen := p.nextToken()
			x := p.parseExpr()
			rparen := p.consume(RPAREN)
			return &CastExpr{Type: name, Lparen: lparen, X: x, Rparen: rparen}
		}
		return name

	case LPAREN:
		lparen := p.nextToken()
		x := p.parseExpr()
		rparen := p.consume(RPAREN)
		return &ParenExpr{Lparen: lparen, X: x, Rparen: rparen}
	}
	p.errorf(p.tokval.pos, "got %s, want expression", p.tok)
	panic("unreachable")
}
