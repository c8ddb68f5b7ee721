package types

import "testing"

func TestInterner_StructuralPointerEquality(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	p1 := in.Ptr(b.I64)
	p2 := in.Ptr(b.I64)
	if p1 != p2 {
		t.Fatalf("interned *i64 twice with different IDs: %d vs %d", p1, p2)
	}

	pp := in.Ptr(p1)
	if pp == p1 {
		t.Fatal("**i64 collapsed into *i64")
	}
	if in.TypeString(pp) != "**i64" {
		t.Fatalf("TypeString(**i64) = %q", in.TypeString(pp))
	}
}

func TestInterner_NominalStructEquality(t *testing.T) {
	in := NewInterner()

	pair := in.Struct("Pair")
	again := in.Struct("Pair")
	other := in.Struct("Point")

	if pair != again {
		t.Fatal("same struct name interned to different IDs")
	}
	if pair == other {
		t.Fatal("distinct struct names interned to the same ID")
	}
}

func TestInterner_StructInfoRoundTrip(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	pair := in.Struct("Pair")
	in.SetStructInfo(pair, &StructInfo{
		Name: "Pair",
		Fields: []StructFieldInfo{
			{Name: "a", Type: b.I64},
			{Name: "b", Type: b.I64},
		},
	})

	info, ok := in.StructInfo(pair)
	if !ok {
		t.Fatal("StructInfo missing after registration")
	}
	if info.FieldIndex("b") != 1 {
		t.Fatalf("FieldIndex(b) = %d, want 1", info.FieldIndex("b"))
	}
	if info.FieldIndex("missing") != -1 {
		t.Fatal("FieldIndex of unknown field should be -1")
	}
}

func TestKind_Predicates(t *testing.T) {
	if !KindU8.IsInteger() || !KindI64.IsInteger() || !KindU64.IsInteger() {
		t.Fatal("integer kinds misclassified")
	}
	if KindBool.IsInteger() || KindPtr.IsInteger() {
		t.Fatal("non-integer kind classified as integer")
	}
	if !KindPtr.IsScalar() || !KindBool.IsScalar() {
		t.Fatal("scalar kinds misclassified")
	}
	if KindUnit.IsScalar() || KindStruct.IsScalar() {
		t.Fatal("unit/struct must not be scalar")
	}
}
