package symbols

import (
	"testing"

	"toyc/internal/types"
)

func TestScopeStack_ShadowingAndDuplicates(t *testing.T) {
	ss := NewScopeStack()
	ss.Push()

	outer := &Local{Name: "x", Type: 1, Storage: StorageLocal}
	if !ss.Define(outer) {
		t.Fatal("first define of x rejected")
	}
	if ss.Define(&Local{Name: "x", Type: 2, Storage: StorageLocal}) {
		t.Fatal("duplicate define of x in the same scope accepted")
	}

	ss.Push()
	inner := &Local{Name: "x", Type: 2, Storage: StorageLocal}
	if !ss.Define(inner) {
		t.Fatal("shadowing define of x rejected")
	}
	got, ok := ss.Lookup("x")
	if !ok || got != inner {
		t.Fatal("lookup did not resolve to innermost x")
	}

	ss.Pop()
	got, ok = ss.Lookup("x")
	if !ok || got != outer {
		t.Fatal("lookup after pop did not resolve to outer x")
	}
}

func TestScopeStack_LookupMiss(t *testing.T) {
	ss := NewScopeStack()
	ss.Push()
	if _, ok := ss.Lookup("ghost"); ok {
		t.Fatal("lookup of undefined name succeeded")
	}
}

func TestTable_DefineAndOrder(t *testing.T) {
	tbl := NewTable()

	if !tbl.DefineFunc(&FnSig{Name: "main", Ret: types.NoTypeID}) {
		t.Fatal("define main rejected")
	}
	if !tbl.DefineFunc(&FnSig{Name: "helper", Ret: types.NoTypeID, Extern: true}) {
		t.Fatal("define helper rejected")
	}
	if tbl.DefineFunc(&FnSig{Name: "main"}) {
		t.Fatal("duplicate function accepted")
	}

	names := tbl.FuncNames()
	if len(names) != 2 || names[0] != "main" || names[1] != "helper" {
		t.Fatalf("FuncNames = %v, want [main helper]", names)
	}

	sig, ok := tbl.LookupFunc("helper")
	if !ok || sig.Storage() != StorageExternFn {
		t.Fatal("helper should resolve as extern function")
	}
}
