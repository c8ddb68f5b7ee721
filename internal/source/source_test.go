package source

import "testing"

func TestResolve_LineAndColumn(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.toy", []byte("fn main() {\n\tvar x: i64 = 1;\n}\n"))

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},  // 'f' of fn
		{3, 1, 4},  // 'm' of main
		{12, 2, 1}, // tab on line 2
		{13, 2, 2}, // 'v' of var
		{29, 3, 1}, // closing brace
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off + 1})
		if start.Line != tc.line || start.Col != tc.col {
			t.Fatalf("offset %d resolved to %d:%d, want %d:%d",
				tc.off, start.Line, start.Col, tc.line, tc.col)
		}
	}
}

func TestResolve_SingleLineFile(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.toy", []byte("fn f() -> i64 { return 0; }"))
	start, end := fs.Resolve(Span{File: id, Start: 3, End: 4})
	if start.Line != 1 || start.Col != 4 {
		t.Fatalf("start = %d:%d, want 1:4", start.Line, start.Col)
	}
	if end.Col != 5 {
		t.Fatalf("end col = %d, want 5", end.Col)
	}
}

func TestAdd_NormalizesOnLoadOnly(t *testing.T) {
	content, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if string(content) != "a\nb\rc" || !changed {
		t.Fatalf("normalizeCRLF = %q (%v)", content, changed)
	}

	content, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if string(content) != "x" || !had {
		t.Fatalf("removeBOM = %q (%v)", content, had)
	}
}

func TestSpan_Cover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Fatalf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if a.Cover(other) != a {
		t.Fatal("Cover across files must not extend")
	}
}
