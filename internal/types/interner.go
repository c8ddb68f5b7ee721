package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	U8      TypeID
	I64     TypeID
	U64     TypeID
	Null    TypeID
}

// StructFieldInfo is one field of a registered struct: declared name and type.
type StructFieldInfo struct {
	Name string
	Type TypeID
}

// StructInfo holds the declared shape of a struct. It is registered once by
// the analyzer's collection pass and read-only afterwards.
type StructInfo struct {
	Name   string
	Fields []StructFieldInfo
}

// FieldIndex returns the position of a field by name, or -1.
func (si *StructInfo) FieldIndex(name string) int {
	for i := range si.Fields {
		if si.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Interner provides stable TypeIDs for structural descriptors.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	structs  map[TypeID]*StructInfo
}

// NewInterner constructs an interner seeded with the built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:   make(map[Type]TypeID, 32),
		structs: make(map[TypeID]*StructInfo, 8),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.U8 = in.Intern(Type{Kind: KindU8})
	in.builtins.I64 = in.Intern(Type{Kind: KindI64})
	in.builtins.U64 = in.Intern(Type{Kind: KindU64})
	in.builtins.Null = in.Intern(Type{Kind: KindNull})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Ptr interns a pointer type to elem.
func (in *Interner) Ptr(elem TypeID) TypeID {
	return in.Intern(MakePtr(elem))
}

// Struct interns the nominal struct type for name.
func (in *Interner) Struct(name string) TypeID {
	return in.Intern(MakeStruct(name))
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// Kind returns the kind for a TypeID, KindInvalid when unknown.
func (in *Interner) Kind(id TypeID) Kind {
	t, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return t.Kind
}

// SetStructInfo registers the declared shape for a struct type.
// Registering twice is an internal defect, not a user diagnostic.
func (in *Interner) SetStructInfo(id TypeID, info *StructInfo) {
	if _, dup := in.structs[id]; dup {
		panic(fmt.Sprintf("struct info already registered for type#%d", id))
	}
	in.structs[id] = info
}

// StructInfo returns the registered shape of a struct type.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	info, ok := in.structs[id]
	return info, ok
}

// TypeString renders a type the way the language writes it: `*i64`, `Pair`.
func (in *Interner) TypeString(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<unknown>"
	}
	switch t.Kind {
	case KindPtr:
		return "*" + in.TypeString(t.Elem)
	case KindStruct:
		return t.Name
	default:
		return t.Kind.String()
	}
}
