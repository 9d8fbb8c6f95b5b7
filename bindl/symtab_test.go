// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindl

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.bindl.net/syntax"
)

func TestSymTabScopes(t *testing.T) {
	st := NewSymTab()
	if st.Depth() != 0 {
		t.Fatalf("fresh table depth = %d, want 0", st.Depth())
	}

	x := QName{"x"}
	b, added := st.Add(x, SymDecl, syntax.Position{})
	if !added {
		t.Fatal("Add(x) at depth 0 not added")
	}
	b.Value = Int(1)

	// An inner scope may shadow x; closing the scope reveals the
	// original binding again.
	st.OpenScope()
	inner, added := st.Add(x, SymDecl, syntax.Position{})
	if !added {
		t.Fatal("Add(x) at depth 1 not added")
	}
	inner.Value = Int(2)
	if got := st.Find(x); got != inner {
		t.Errorf("Find(x) in inner scope = %v, want shadowing binding", got)
	}

	st.CloseScope()
	if got := st.Find(x); got != b {
		t.Errorf("Find(x) after CloseScope = %v, want original binding", got)
	}
	if st.Depth() != 0 {
		t.Errorf("depth after CloseScope = %d, want 0", st.Depth())
	}
}

func TestSymTabCloseHides(t *testing.T) {
	st := NewSymTab()
	y := QName{"y"}

	st.OpenScope()
	if _, added := st.Add(y, SymDecl, syntax.Position{}); !added {
		t.Fatal("Add(y) not added")
	}
	st.CloseScope()

	if b := st.Find(y); b != nil {
		t.Errorf("Find(y) after CloseScope = %v, want nil", b)
	}
}

func TestSymTabRedeclaration(t *testing.T) {
	st := NewSymTab()
	x := QName{"x"}

	first, added := st.Add(x, SymDecl, syntax.Position{Line: 1, Col: 1})
	if !added {
		t.Fatal("first Add(x) not added")
	}

	// A second declaration at the same depth is dominated by the
	// first: Add returns the existing binding.
	second, added := st.Add(x, SymDecl, syntax.Position{Line: 2, Col: 1})
	if added {
		t.Error("second Add(x) at same depth was added")
	}
	if second != first {
		t.Error("second Add(x) did not return the dominant binding")
	}
}

func TestSymTabQualifiedNames(t *testing.T) {
	st := NewSymTab()
	for _, name := range []QName{
		{"hdr", "magic"},
		{"hdr", "len"},
		{"Tag", "A"},
	} {
		if _, added := st.Add(name, SymDecl, syntax.Position{}); !added {
			t.Fatalf("Add(%s) not added", name)
		}
	}

	if b := st.Find(QName{"hdr", "len"}); b == nil {
		t.Error("Find(hdr::len) = nil")
	}
	if b := st.Find(QName{"len"}); b != nil {
		t.Error("Find(len) found a qualified binding by its local name")
	}

	want := []string{"Tag::A", "hdr::len", "hdr::magic"}
	if diff := cmp.Diff(want, st.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestSymTabLookupType(t *testing.T) {
	st := NewSymTab()
	name := QName{"Header"}

	b, _ := st.Add(name, SymType, syntax.Position{})
	b.Type = &Type{Name: "Header", Kind: KindStruct, Struct: &StructType{}}

	if st.LookupType(name) != b.Type {
		t.Error("LookupType(Header) did not return the bound type")
	}
	if st.LookupType(QName{"NoSuch"}) != nil {
		t.Error("LookupType(NoSuch) != nil")
	}

	// A value binding is not a type.
	v := QName{"v"}
	st.Add(v, SymDecl, syntax.Position{})
	if st.LookupType(v) != nil {
		t.Error("LookupType(v) returned a non-type binding")
	}
}
