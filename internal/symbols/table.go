package symbols

import (
	"toyc/internal/types"
)

// Table is the process-wide symbol table for one compilation unit: struct
// types and function signatures. It is populated by the analyzer's collection
// pass and read-only afterwards.
type Table struct {
	funcs     map[string]*FnSig
	funcOrder []string
	structs   map[string]types.TypeID
}

// NewTable builds an empty global table.
func NewTable() *Table {
	return &Table{
		funcs:   make(map[string]*FnSig, 16),
		structs: make(map[string]types.TypeID, 8),
	}
}

// DefineFunc records a signature. Returns false when the name is taken.
func (t *Table) DefineFunc(sig *FnSig) bool {
	if _, dup := t.funcs[sig.Name]; dup {
		return false
	}
	t.funcs[sig.Name] = sig
	t.funcOrder = append(t.funcOrder, sig.Name)
	return true
}

// LookupFunc resolves a function by name.
func (t *Table) LookupFunc(name string) (*FnSig, bool) {
	sig, ok := t.funcs[name]
	return sig, ok
}

// FuncNames returns function names in declaration order.
func (t *Table) FuncNames() []string {
	return t.funcOrder
}

// DefineStruct records a struct type. Returns false when the name is taken.
func (t *Table) DefineStruct(name string, id types.TypeID) bool {
	if _, dup := t.structs[name]; dup {
		return false
	}
	t.structs[name] = id
	return true
}

// LookupStruct resolves a struct type by name.
func (t *Table) LookupStruct(name string) (types.TypeID, bool) {
	id, ok := t.structs[name]
	return id, ok
}
