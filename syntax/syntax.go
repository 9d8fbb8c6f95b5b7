// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a parser and abstract syntax tree for the bindl
// binary-format description language.
package syntax

// A Node is a node in a bindl syntax tree.
type Node interface {
	// Span returns the start and end position of the expression.
	Span() (start, end Position)
}

// Start returns the start position of the expression.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the expression.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a bindl format specification file.
type File struct {
	Path  string
	Stmts []Stmt
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is a bindl statement.
type Stmt interface {
	Node
	stmt()
}

func (*BlockStmt) stmt()     {}
func (*BreakStmt) stmt()     {}
func (*DeclStmt) stmt()      {}
func (*EnumDefStmt) stmt()   {}
func (*IfStmt) stmt()        {}
func (*StructDefStmt) stmt() {}
func (*SwitchDefStmt) stmt() {}
func (*SwitchStmt) stmt()    {}

// A DeclStmt declares a field: Type Name;
// The declared type may be a builtin scalar name or a previously
// defined struct, enum, or switch type.
type DeclStmt struct {
	Type    *Name
	NamePos Position
	Name    string
	Semi    Position
}

func (x *DeclStmt) Span() (start, end Position) {
	start, _ = x.Type.Span()
	return start, x.Semi.add(";")
}

// An IfStmt is a conditional: if (Cond) { True } else { False }.
type IfStmt struct {
	If      Position
	Cond    Expr
	True    []Stmt
	ElsePos Position // valid only if False is non-nil
	False   []Stmt   // optional
	Rbrace  Position // closing brace of the last block
}

func (x *IfStmt) Span() (start, end Position) {
	return x.If, x.Rbrace.add("}")
}

// A SwitchStmt is a multi-way branch over a discriminant value:
// switch (Discr) { case C: ... }
type SwitchStmt struct {
	Switch Position
	Discr  Expr
	Cases  []*CaseClause
	Rbrace Position
}

func (x *SwitchStmt) Span() (start, end Position) {
	return x.Switch, x.Rbrace.add("}")
}

// A CaseClause is one arm of a SwitchStmt or SwitchDefStmt:
// case Value: Body
type CaseClause struct {
	Case  Position
	Value Expr
	Colon Position
	Body  []Stmt
}

func (x *CaseClause) Span() (start, end Position) {
	if n := len(x.Body); n > 0 {
		_, end = x.Body[n-1].Span()
		return x.Case, end
	}
	return x.Case, x.Colon.add(":")
}

// A BreakStmt halts execution of the enclosing switch arm.
type BreakStmt struct {
	Break Position
	Semi  Position
}

func (x *BreakStmt) Span() (start, end Position) {
	return x.Break, x.Semi.add(";")
}

// A BlockStmt is a compound statement: { Body }.
// Its body executes in a fresh nested scope.
type BlockStmt struct {
	Lbrace Position
	Body   []Stmt
	Rbrace Position
}

func (x *BlockStmt) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// A StructDefStmt defines a record type: struct Name { Body }.
// The record's members are the declarations of Body; conditionals and
// switches in Body select which members apply.
type StructDefStmt struct {
	Struct  Position
	NamePos Position
	Name    string
	Body    []Stmt
	Rbrace  Position
}

func (x *StructDefStmt) Span() (start, end Position) {
	return x.Struct, x.Rbrace.add("}")
}

// An EnumDefStmt defines an enumeration type:
// enum Name : Base { A = 1, B = 2 };
// Base is optional and defaults to a host-order int.
type EnumDefStmt struct {
	Enum    Position
	NamePos Position
	Name    string
	Base    *Name // optional
	Items   []*EnumItem
	Rbrace  Position
}

func (x *EnumDefStmt) Span() (start, end Position) {
	return x.Enum, x.Rbrace.add("}")
}

// An EnumItem is one enumerator of an EnumDefStmt: Name = Value.
type EnumItem struct {
	NamePos Position
	Name    string
	Value   Expr // integer constant expression
}

func (x *EnumItem) Span() (start, end Position) {
	start = x.NamePos
	if x.Value != nil {
		_, end = x.Value.Span()
		return start, end
	}
	return start, start.add(x.Name)
}

// A SwitchDefStmt defines a tagged-union type:
// switch Name (Discr) { case C: ... }
type SwitchDefStmt struct {
	Switch  Position
	NamePos Position
	Name    string
	Discr   Expr
	Cases   []*CaseClause
	Rbrace  Position
}

func (x *SwitchDefStmt) Span() (start, end Position) {
	return x.Switch, x.Rbrace.add("}")
}

// An Expr is a bindl expression.
type Expr interface {
	Node
	expr()
}

func (*BinaryExpr) expr() {}
func (*CastExpr) expr()   {}
func (*CondExpr) expr()   {}
func (*Literal) expr()    {}
func (*Name) expr()       {}
func (*ParenExpr) expr()  {}
func (*UnaryExpr) expr()  {}

// A Name represents a possibly qualified identifier: x or A::B::x.
// The last segment is the local name; any preceding segments are the
// scope prefix.
type Name struct {
	NamePos  Position
	Segments []string
}

func (x *Name) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.String())
}

func (x *Name) String() string {
	s := x.Segments[0]
	for _, seg := range x.Segments[1:] {
		s += "::" + seg
	}
	return s
}

// A Literal represents a literal number, string, or boolean.
type Literal struct {
	Token    Token // = INT | FLOAT | STRING | TRUE | FALSE
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = int64 | uint64 | float64 | string | bool
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token // = MINUS | TILDE | NOT
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// A CondExpr represents the conditional: Cond ? True : False.
type CondExpr struct {
	Cond     Expr
	Question Position
	True     Expr
	Colon    Position
	False    Expr
}

func (x *CondExpr) Span() (start, end Position) {
	start, _ = x.Cond.Span()
	_, end = x.False.Span()
	return start, end
}

// A CastExpr reinterprets X as the named type: Type(X).
type CastExpr struct {
	Type   *Name
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *CastExpr) Span() (start, end Position) {
	start, _ = x.Type.Span()
	return start, x.Rparen.add(")")
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}
