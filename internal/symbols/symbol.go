package symbols

import (
	"toyc/internal/source"
	"toyc/internal/types"
)

// StorageClass classifies where a named value lives.
type StorageClass uint8

const (
	StorageInvalid StorageClass = iota
	// StorageGlobalFn is a function defined in this compilation unit.
	StorageGlobalFn
	// StorageExternFn is a function provided by the runtime collaborator.
	StorageExternFn
	// StorageLocal is a stack-slot local variable.
	StorageLocal
	// StorageParam is a function parameter (also a stack slot after spill).
	StorageParam
)

func (sc StorageClass) String() string {
	switch sc {
	case StorageGlobalFn:
		return "function"
	case StorageExternFn:
		return "extern function"
	case StorageLocal:
		return "local"
	case StorageParam:
		return "parameter"
	default:
		return "invalid"
	}
}

// Local describes a name defined in a lexical scope.
type Local struct {
	Name    string
	Type    types.TypeID
	Storage StorageClass
	Span    source.Span
}

// FnParam is one declared parameter of a function signature.
type FnParam struct {
	Name string
	Type types.TypeID
	Span source.Span
}

// FnSig is a resolved function signature, global and extern alike.
type FnSig struct {
	Name   string
	Params []FnParam
	Ret    types.TypeID
	Extern bool
	Span   source.Span
}

// Storage returns the storage class implied by the Extern flag.
func (s *FnSig) Storage() StorageClass {
	if s.Extern {
		return StorageExternFn
	}
	return StorageGlobalFn
}
