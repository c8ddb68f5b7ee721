package types

import "fmt"

// TypeID uniquely identifies a type inside the interner. Because descriptors
// are interned, TypeID equality is exactly the language's type equality:
// structural for pointers, nominal for structs.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindU8
	KindI64
	KindU64
	KindPtr
	KindStruct
	// KindNull is the sentinel type of the `null` literal. It never names a
	// storage location; sema retypes the literal at each use site where a
	// pointer type is expected.
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindU8:
		return "u8"
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindPtr:
		return "pointer"
	case KindStruct:
		return "struct"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind Kind
	Elem TypeID // pointee, for KindPtr
	Name string // declared name, for KindStruct
}

// MakePtr describes a pointer to elem.
func MakePtr(elem TypeID) Type {
	return Type{Kind: KindPtr, Elem: elem}
}

// MakeStruct describes a nominal struct type.
func MakeStruct(name string) Type {
	return Type{Kind: KindStruct, Name: name}
}

// IsInteger reports whether the kind is an arithmetic integer type.
func (k Kind) IsInteger() bool {
	return k == KindU8 || k == KindI64 || k == KindU64
}

// IsScalar reports whether values of the kind fit the accumulator register:
// integers, bool and pointers. Unit and struct are not scalar.
func (k Kind) IsScalar() bool {
	return k.IsInteger() || k == KindBool || k == KindPtr
}
