package layout

import (
	"errors"
	"testing"

	"toyc/internal/types"
)

func newTestEngine() (*Engine, *types.Interner) {
	in := types.NewInterner()
	return New(X86_64LinuxGNU(), in), in
}

func registerStruct(in *types.Interner, name string, fields ...types.StructFieldInfo) types.TypeID {
	id := in.Struct(name)
	in.SetStructInfo(id, &types.StructInfo{Name: name, Fields: fields})
	return id
}

func TestLayoutOf_Scalars(t *testing.T) {
	e, in := newTestEngine()
	b := in.Builtins()

	cases := []struct {
		id          types.TypeID
		size, align int
	}{
		{b.Unit, 0, 1},
		{b.Bool, 1, 1},
		{b.U8, 1, 1},
		{b.I64, 8, 8},
		{b.U64, 8, 8},
		{in.Ptr(b.I64), 8, 8},
	}
	for _, c := range cases {
		l, err := e.LayoutOf(c.id)
		if err != nil {
			t.Fatalf("LayoutOf(%s): %v", in.TypeString(c.id), err)
		}
		if l.Size != c.size || l.Align != c.align {
			t.Fatalf("LayoutOf(%s) = {%d,%d}, want {%d,%d}",
				in.TypeString(c.id), l.Size, l.Align, c.size, c.align)
		}
	}
}

func TestLayoutOf_PairScenario(t *testing.T) {
	e, in := newTestEngine()
	b := in.Builtins()

	pair := registerStruct(in, "Pair",
		types.StructFieldInfo{Name: "a", Type: b.I64},
		types.StructFieldInfo{Name: "b", Type: b.I64},
	)

	l, err := e.LayoutOf(pair)
	if err != nil {
		t.Fatalf("LayoutOf(Pair): %v", err)
	}
	if l.Size != 16 || l.Align != 8 {
		t.Fatalf("Pair layout = {size %d, align %d}, want {16, 8}", l.Size, l.Align)
	}
	if l.FieldOffsets[0] != 0 || l.FieldOffsets[1] != 8 {
		t.Fatalf("Pair offsets = %v, want [0 8]", l.FieldOffsets)
	}
}

func TestLayoutOf_PaddingAndRounding(t *testing.T) {
	e, in := newTestEngine()
	b := in.Builtins()

	// u8 then i64 forces 7 bytes of padding; trailing u8 forces tail rounding.
	mixed := registerStruct(in, "Mixed",
		types.StructFieldInfo{Name: "tag", Type: b.U8},
		types.StructFieldInfo{Name: "value", Type: b.I64},
		types.StructFieldInfo{Name: "flag", Type: b.Bool},
	)

	l, err := e.LayoutOf(mixed)
	if err != nil {
		t.Fatalf("LayoutOf(Mixed): %v", err)
	}
	wantOffsets := []int{0, 8, 16}
	for i, want := range wantOffsets {
		if l.FieldOffsets[i] != want {
			t.Fatalf("Mixed offsets = %v, want %v", l.FieldOffsets, wantOffsets)
		}
	}
	if l.Size != 24 || l.Align != 8 {
		t.Fatalf("Mixed layout = {size %d, align %d}, want {24, 8}", l.Size, l.Align)
	}

	// Monotonicity and per-field alignment, as the invariants demand.
	prev := -1
	for i, off := range l.FieldOffsets {
		if off < prev {
			t.Fatalf("offsets not monotonic: %v", l.FieldOffsets)
		}
		if off%l.FieldAligns[i] != 0 {
			t.Fatalf("offset %d not aligned to %d", off, l.FieldAligns[i])
		}
		prev = off
	}
	if l.Size%l.Align != 0 {
		t.Fatalf("size %d not a multiple of align %d", l.Size, l.Align)
	}
}

func TestLayoutOf_NestedStructByValue(t *testing.T) {
	e, in := newTestEngine()
	b := in.Builtins()

	inner := registerStruct(in, "Inner",
		types.StructFieldInfo{Name: "x", Type: b.I64},
		types.StructFieldInfo{Name: "y", Type: b.U8},
	)
	outer := registerStruct(in, "Outer",
		types.StructFieldInfo{Name: "first", Type: b.U8},
		types.StructFieldInfo{Name: "nested", Type: inner},
	)

	l, err := e.LayoutOf(outer)
	if err != nil {
		t.Fatalf("LayoutOf(Outer): %v", err)
	}
	// Inner is {16, 8}; nested lands at offset 8 after the leading u8.
	if l.FieldOffsets[1] != 8 {
		t.Fatalf("nested offset = %d, want 8", l.FieldOffsets[1])
	}
	if l.Size != 24 || l.Align != 8 {
		t.Fatalf("Outer layout = {size %d, align %d}, want {24, 8}", l.Size, l.Align)
	}
}

func TestLayoutOf_ByteStructFieldIsPointerAligned(t *testing.T) {
	e, in := newTestEngine()
	b := in.Builtins()

	// Tiny is {1, 1} on its own, but as a field it must land on an 8-byte
	// boundary like any other aggregate.
	tiny := registerStruct(in, "Tiny",
		types.StructFieldInfo{Name: "b", Type: b.U8},
	)
	holder := registerStruct(in, "Holder",
		types.StructFieldInfo{Name: "tag", Type: b.U8},
		types.StructFieldInfo{Name: "t", Type: tiny},
	)

	tl, err := e.LayoutOf(tiny)
	if err != nil {
		t.Fatalf("LayoutOf(Tiny): %v", err)
	}
	if tl.Size != 1 || tl.Align != 1 {
		t.Fatalf("Tiny layout = {%d,%d}, want {1,1}", tl.Size, tl.Align)
	}

	hl, err := e.LayoutOf(holder)
	if err != nil {
		t.Fatalf("LayoutOf(Holder): %v", err)
	}
	if hl.FieldOffsets[1] != 8 {
		t.Fatalf("aggregate field offset = %d, want 8", hl.FieldOffsets[1])
	}
	if hl.Size != 16 || hl.Align != 8 {
		t.Fatalf("Holder layout = {%d,%d}, want {16,8}", hl.Size, hl.Align)
	}
}

func TestLayoutOf_SelfContainmentByValueIsCyclic(t *testing.T) {
	e, in := newTestEngine()

	node := in.Struct("Node")
	in.SetStructInfo(node, &types.StructInfo{
		Name: "Node",
		Fields: []types.StructFieldInfo{
			{Name: "next", Type: node},
		},
	})

	_, err := e.LayoutOf(node)
	var lerr *LayoutError
	if !errors.As(err, &lerr) || lerr.Kind != LayoutErrCyclicValue {
		t.Fatalf("expected cyclic value layout error, got %v", err)
	}
	if len(lerr.Cycle) == 0 {
		t.Fatal("cycle path missing from error")
	}
}

func TestLayoutOf_MutualValueContainmentIsCyclic(t *testing.T) {
	e, in := newTestEngine()

	a := in.Struct("A")
	b := in.Struct("B")
	in.SetStructInfo(a, &types.StructInfo{Name: "A", Fields: []types.StructFieldInfo{{Name: "b", Type: b}}})
	in.SetStructInfo(b, &types.StructInfo{Name: "B", Fields: []types.StructFieldInfo{{Name: "a", Type: a}}})

	_, err := e.LayoutOf(a)
	var lerr *LayoutError
	if !errors.As(err, &lerr) || lerr.Kind != LayoutErrCyclicValue {
		t.Fatalf("expected cyclic value layout error, got %v", err)
	}
}

func TestLayoutOf_SelfPointerIsAllowed(t *testing.T) {
	e, in := newTestEngine()
	b := in.Builtins()

	node := in.Struct("Node")
	in.SetStructInfo(node, &types.StructInfo{
		Name: "Node",
		Fields: []types.StructFieldInfo{
			{Name: "value", Type: b.I64},
			{Name: "next", Type: in.Ptr(node)},
		},
	})

	l, err := e.LayoutOf(node)
	if err != nil {
		t.Fatalf("self-referential pointer rejected: %v", err)
	}
	if l.Size != 16 {
		t.Fatalf("Node size = %d, want 16", l.Size)
	}
}
