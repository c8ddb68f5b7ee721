package parser

import (
	"testing"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/lexer"
	"toyc/internal/source"
)

func parse(t *testing.T, src string) (*ast.Program, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.toy", []byte(src))
	bag := diag.NewBag(16)
	reporter := diag.BagReporter{Bag: bag}
	toks := lexer.New(fs.Get(id), reporter).Tokenize()
	prog, ok := New(id, toks, reporter).ParseProgram()
	return prog, bag, ok
}

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, bag, ok := parse(t, src)
	if !ok {
		t.Fatalf("parse failed: %+v", bag.Items())
	}
	return prog
}

func TestParse_FnDecl(t *testing.T) {
	prog := parseOK(t, "fn add(a: i64, b: i64) -> i64 { return a + b; }")
	if len(prog.Decls) != 1 {
		t.Fatalf("decls = %d, want 1", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.FnDecl)
	if !ok {
		t.Fatalf("decl is %T, want *ast.FnDecl", prog.Decls[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("fn = %q with %d params", fn.Name, len(fn.Params))
	}
	if _, ok := fn.Ret.(*ast.NamedType); !ok {
		t.Fatalf("ret is %T, want *ast.NamedType", fn.Ret)
	}
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ast.ReturnStmt", fn.Body.Stmts[0])
	}
	if _, ok := ret.Value.(*ast.BinaryExpr); !ok {
		t.Fatalf("return value is %T, want *ast.BinaryExpr", ret.Value)
	}
}

func TestParse_UnitReturnIsNil(t *testing.T) {
	prog := parseOK(t, "fn noop() { }")
	fn := prog.Decls[0].(*ast.FnDecl)
	if fn.Ret != nil {
		t.Fatalf("ret = %v, want nil for omitted arrow clause", fn.Ret)
	}
}

func TestParse_StructDecl(t *testing.T) {
	prog := parseOK(t, "struct Node { value: i64; next: *Node; }")
	st := prog.Decls[0].(*ast.StructDecl)
	if st.Name != "Node" || len(st.Fields) != 2 {
		t.Fatalf("struct = %q with %d fields", st.Name, len(st.Fields))
	}
	ptr, ok := st.Fields[1].Type.(*ast.PtrType)
	if !ok {
		t.Fatalf("field type is %T, want *ast.PtrType", st.Fields[1].Type)
	}
	if named := ptr.Elem.(*ast.NamedType); named.Name != "Node" {
		t.Fatalf("pointee = %q, want Node", named.Name)
	}
}

func TestParse_ExternFnDecl(t *testing.T) {
	prog := parseOK(t, "extern fn print_i64(value: i64);")
	ext := prog.Decls[0].(*ast.ExternFnDecl)
	if ext.Name != "print_i64" || len(ext.Params) != 1 || ext.Ret != nil {
		t.Fatalf("extern = %+v", ext)
	}
}

func TestParse_Precedence(t *testing.T) {
	prog := parseOK(t, "fn f() -> bool { return 1 + 2 * 3 == 7 && true; }")
	ret := prog.Decls[0].(*ast.FnDecl).Body.Stmts[0].(*ast.ReturnStmt)

	and := ret.Value.(*ast.BinaryExpr)
	if and.Op != ast.BinAnd {
		t.Fatalf("root op = %v, want &&", and.Op)
	}
	eq := and.Left.(*ast.BinaryExpr)
	if eq.Op != ast.BinEq {
		t.Fatalf("left of && = %v, want ==", eq.Op)
	}
	add := eq.Left.(*ast.BinaryExpr)
	if add.Op != ast.BinAdd {
		t.Fatalf("left of == = %v, want +", add.Op)
	}
	mul := add.Right.(*ast.BinaryExpr)
	if mul.Op != ast.BinMul {
		t.Fatalf("right of + = %v, want *", mul.Op)
	}
}

func TestParse_AssignmentIsRightAssociative(t *testing.T) {
	prog := parseOK(t, "fn f(a: i64, b: i64) { a = b = 1; }")
	stmt := prog.Decls[0].(*ast.FnDecl).Body.Stmts[0].(*ast.ExprStmt)
	outer := stmt.X.(*ast.AssignExpr)
	if _, ok := outer.Value.(*ast.AssignExpr); !ok {
		t.Fatalf("value is %T, want nested *ast.AssignExpr", outer.Value)
	}
}

func TestParse_StructLitVsBlock(t *testing.T) {
	prog := parseOK(t, `
fn f(flag: bool) -> i64 {
	var p: Pair = Pair { x: 1, y: 2 };
	if flag { return p.x; }
	return p.y;
}`)
	body := prog.Decls[0].(*ast.FnDecl).Body
	decl := body.Stmts[0].(*ast.VarDecl)
	lit, ok := decl.Init.(*ast.StructLit)
	if !ok {
		t.Fatalf("init is %T, want *ast.StructLit", decl.Init)
	}
	if lit.TypeName != "Pair" || len(lit.Fields) != 2 {
		t.Fatalf("lit = %q with %d fields", lit.TypeName, len(lit.Fields))
	}
	// `if flag { ... }` must stay a block, not a struct literal.
	if _, ok := body.Stmts[1].(*ast.IfStmt); !ok {
		t.Fatalf("stmt is %T, want *ast.IfStmt", body.Stmts[1])
	}
}

func TestParse_DeferRequiresCall(t *testing.T) {
	_, bag, ok := parse(t, "fn f(x: i64) { defer x; }")
	if ok {
		t.Fatal("expected parse failure")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynDeferNotCall {
			found = true
		}
	}
	if !found {
		t.Fatalf("no SynDeferNotCall diagnostic in %+v", bag.Items())
	}
}

func TestParse_ElseIfChains(t *testing.T) {
	prog := parseOK(t, `
fn sign(x: i64) -> i64 {
	if x < 0 { return -1; } else if x > 0 { return 1; } else { return 0; }
}`)
	stmt := prog.Decls[0].(*ast.FnDecl).Body.Stmts[0].(*ast.IfStmt)
	if stmt.Else == nil || len(stmt.Else.Stmts) != 1 {
		t.Fatal("outer else missing")
	}
	inner, ok := stmt.Else.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("else stmt is %T, want nested *ast.IfStmt", stmt.Else.Stmts[0])
	}
	if inner.Else == nil {
		t.Fatal("inner else missing")
	}
}

func TestParse_PostfixChain(t *testing.T) {
	prog := parseOK(t, "fn f(p: *Node) -> i64 { return p.next.value; }")
	ret := prog.Decls[0].(*ast.FnDecl).Body.Stmts[0].(*ast.ReturnStmt)
	outer := ret.Value.(*ast.FieldExpr)
	if outer.Name != "value" {
		t.Fatalf("outer field = %q", outer.Name)
	}
	inner := outer.Base.(*ast.FieldExpr)
	if inner.Name != "next" {
		t.Fatalf("inner field = %q", inner.Name)
	}
}

func TestParse_Sizeof(t *testing.T) {
	prog := parseOK(t, "fn f() -> u64 { return sizeof(*Node); }")
	ret := prog.Decls[0].(*ast.FnDecl).Body.Stmts[0].(*ast.ReturnStmt)
	sz := ret.Value.(*ast.SizeofExpr)
	if _, ok := sz.Type.(*ast.PtrType); !ok {
		t.Fatalf("sizeof type is %T, want *ast.PtrType", sz.Type)
	}
}

func TestParse_ResyncAfterBadDecl(t *testing.T) {
	prog, bag, ok := parse(t, "var broken; fn good() { }")
	if ok {
		t.Fatal("expected parse failure")
	}
	if !bag.HasErrors() {
		t.Fatal("expected diagnostics")
	}
	// The loop recovers and still parses the following declaration.
	if len(prog.Decls) != 1 {
		t.Fatalf("decls = %d, want 1 after resync", len(prog.Decls))
	}
	if fn := prog.Decls[0].(*ast.FnDecl); fn.Name != "good" {
		t.Fatalf("recovered decl = %q", fn.Name)
	}
}

func TestParse_IntLiteralOverflow(t *testing.T) {
	_, bag, ok := parse(t, "fn f() -> i64 { return 99999999999999999999; }")
	if ok {
		t.Fatal("expected parse failure")
	}
	if !bag.HasErrors() {
		t.Fatal("expected overflow diagnostic")
	}
}
