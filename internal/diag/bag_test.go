package diag

import (
	"testing"

	"toyc/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestBag_AddRespectsCap(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SemaTypeMismatch, span(0, 1), "first")) {
		t.Fatal("first Add rejected")
	}
	if !b.Add(NewError(SemaTypeMismatch, span(1, 2), "second")) {
		t.Fatal("second Add rejected")
	}
	if b.Add(NewError(SemaTypeMismatch, span(2, 3), "third")) {
		t.Fatal("Add beyond cap accepted")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
}

func TestBag_HasErrors(t *testing.T) {
	b := NewBag(8)
	b.Add(New(SevWarning, SynInfo, span(0, 1), "just a warning"))
	if b.HasErrors() {
		t.Fatal("HasErrors true for warnings only")
	}
	b.Add(NewError(SemaUndefinedSymbol, span(1, 2), "boom"))
	if !b.HasErrors() {
		t.Fatal("HasErrors false after error added")
	}
}

func TestBag_SortIsDeterministic(t *testing.T) {
	b := NewBag(8)
	b.Add(NewError(SemaTypeMismatch, span(10, 11), "later"))
	b.Add(NewError(SemaUndefinedSymbol, span(2, 3), "earlier"))
	b.Sort()
	items := b.Items()
	if items[0].Primary.Start != 2 || items[1].Primary.Start != 10 {
		t.Fatalf("Sort order wrong: %+v", items)
	}
}

func TestBag_Dedup(t *testing.T) {
	b := NewBag(8)
	d := NewError(SemaUnknownField, span(5, 6), "dup")
	b.Add(d)
	b.Add(d)
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("Dedup left %d items, want 1", b.Len())
	}
}

func TestCode_ID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:         "LEX1001",
		SynUnexpectedToken:     "SYN2001",
		SemaCyclicValueLayout:  "SEM3008",
		SemaInvalidNullContext: "SEM3007",
		IOLoadFileError:        "IO4001",
		UnknownCode:            "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("Code(%d).ID() = %q, want %q", code, got, want)
		}
	}
}
