// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindl

import (
	"sort"
	"strings"

	"go.bindl.net/syntax"
)

// A QName is a qualified name: a non-empty sequence of identifier
// segments forming a nested-scope path, e.g. Header::len.
// The last segment is the local name; preceding segments are the
// scope prefix.
type QName []string

func (q QName) String() string { return strings.Join(q, "::") }

// Local returns the innermost segment of q.
func (q QName) Local() string { return q[len(q)-1] }

// Equal reports whether q and other have equal segment sequences.
func (q QName) Equal(other QName) bool {
	if len(q) != len(other) {
		return false
	}
	for i := range q {
		if q[i] != other[i] {
			return false
		}
	}
	return true
}

// SymKind discriminates what a binding binds.
type SymKind uint8

const (
	SymDecl SymKind = iota // a field declaration
	SymType                // a type definition: struct, enum, or switch
)

// A Binding records one per-scope meaning of a symbol.
type Binding struct {
	Depth int     // scope depth at which the binding was introduced
	Kind  SymKind // declaration or type definition
	Pos   syntax.Position

	Type  *Type // declared or defined type
	Value Value // decoded value; declarations only
}

// A Symbol owns the stack of bindings for one qualified name,
// innermost (most recently opened scope) first.
type Symbol struct {
	Name     QName
	bindings []*Binding // sorted by decreasing depth, front first
}

// A SymTab is a scoped symbol table for one interpretation session.
//
// It is constructed at session start, threaded through the executor,
// and dropped at session end; it is not safe for concurrent mutation.
type SymTab struct {
	syms  map[string]*Symbol
	depth int
}

// NewSymTab returns an empty symbol table at depth 0, the global scope.
func NewSymTab() *SymTab {
	return &SymTab{syms: make(map[string]*Symbol)}
}

// Depth returns the current scope depth. The global scope is depth 0.
func (st *SymTab) Depth() int { return st.depth }

// OpenScope enters a new nested scope.
func (st *SymTab) OpenScope() { st.depth++ }

// CloseScope leaves the current scope, removing every binding that was
// introduced at its depth. Symbols whose binding stacks empty remain in
// the table so that later re-declaration is visible again through Add.
func (st *SymTab) CloseScope() {
	for _, sym := range st.syms {
		for len(sym.bindings) > 0 && sym.bindings[0].Depth == st.depth {
			sym.bindings = sym.bindings[1:]
		}
	}
	st.depth--
}

// Add binds name at the current depth and returns the new binding.
//
// If the innermost existing binding dominates (its depth is greater
// than or equal to the current depth), that binding is returned with
// added=false and nothing is inserted: the original binding stays
// authoritative and the caller reports the redeclaration.
func (st *SymTab) Add(name QName, kind SymKind, pos syntax.Position) (b *Binding, added bool) {
	key := name.String()
	sym := st.syms[key]
	if sym == nil {
		sym = &Symbol{Name: name}
		st.syms[key] = sym
	}
	if len(sym.bindings) > 0 && sym.bindings[0].Depth >= st.depth {
		return sym.bindings[0], false
	}
	b = &Binding{Depth: st.depth, Kind: kind, Pos: pos}
	sym.bindings = append([]*Binding{b}, sym.bindings...)
	return b, true
}

// Find returns the innermost binding of name, or nil if name has no
// binding in any open scope.
func (st *SymTab) Find(name QName) *Binding {
	sym := st.syms[name.String()]
	if sym == nil || len(sym.bindings) == 0 {
		return nil
	}
	return sym.bindings[0]
}

// LookupType returns the type bound to name, or nil if name is
// unbound or bound to a declaration rather than a type definition.
func (st *SymTab) LookupType(name QName) *Type {
	if b := st.Find(name); b != nil && b.Kind == SymType {
		return b.Type
	}
	return nil
}

// Names returns the qualified names that currently have a binding,
// sorted. It is used by the embedding layer for suggestions.
func (st *SymTab) Names() []string {
	var names []string
	for key, sym := range st.syms {
		if len(sym.bindings) > 0 {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names
}
