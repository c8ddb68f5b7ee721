package lower

import (
	"strings"
	"testing"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/lexer"
	"toyc/internal/parser"
	"toyc/internal/sema"
	"toyc/internal/source"
)

func normalize(t *testing.T, src string) (*ast.Program, *ast.Program, *sema.Result) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.toy", []byte(src))
	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}
	toks := lexer.New(fs.Get(id), reporter).Tokenize()
	prog, ok := parser.New(id, toks, reporter).ParseProgram()
	if !ok {
		t.Fatalf("parse failed: %+v", bag.Items())
	}
	res, ok := sema.Check(prog, sema.Options{Reporter: reporter})
	if !ok {
		t.Fatalf("analysis failed: %+v", bag.Items())
	}
	return prog, Normalize(prog, res), res
}

func findFn(t *testing.T, prog *ast.Program, name string) *ast.FnDecl {
	t.Helper()
	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FnDecl); ok && fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}

// callNames walks a statement list and collects the callee name of every
// call expression statement, in order.
func callNames(stmts []ast.Stmt) []string {
	var out []string
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ExprStmt:
			if call, ok := s.X.(*ast.CallExpr); ok {
				out = append(out, call.Callee.(*ast.VarExpr).Name)
			}
		case *ast.Block:
			out = append(out, callNames(s.Stmts)...)
		case *ast.LabeledBlock:
			out = append(out, callNames(s.Body.Stmts)...)
		}
	}
	return out
}

func TestNormalize_NoDeferIsUntouched(t *testing.T) {
	before, after, _ := normalize(t, `
fn f(x: i64) -> i64 {
	if x > 0 { return x; }
	return -x;
}`)
	if findFn(t, before, "f") != findFn(t, after, "f") {
		t.Fatal("defer-free function was rewritten")
	}
}

func TestNormalize_ReverseRegistrationOrder(t *testing.T) {
	_, after, _ := normalize(t, `
extern fn g();
extern fn h();
fn f() -> i64 {
	defer g();
	defer h();
	return 1;
}`)
	fn := findFn(t, after, "f")
	names := callNames(fn.Body.Stmts)
	if len(names) != 2 || names[0] != "h" || names[1] != "g" {
		t.Fatalf("unwind order = %v, want [h g]", names)
	}
}

func TestNormalize_NestedScopesInnermostFirst(t *testing.T) {
	_, after, _ := normalize(t, `
extern fn outer();
extern fn inner();
fn f() -> i64 {
	defer outer();
	{
		defer inner();
		return 1;
	}
}`)
	fn := findFn(t, after, "f")
	names := callNames(fn.Body.Stmts)
	if len(names) != 2 || names[0] != "inner" || names[1] != "outer" {
		t.Fatalf("unwind order = %v, want [inner outer]", names)
	}
}

func TestNormalize_FallthroughUnwindsOwnScopeOnly(t *testing.T) {
	_, after, _ := normalize(t, `
extern fn outer();
extern fn inner();
fn f() {
	defer outer();
	{
		defer inner();
	}
	return;
}`)
	fn := findFn(t, after, "f")
	names := callNames(fn.Body.Stmts)
	// Block end runs inner; the explicit return then runs outer.
	if len(names) != 2 || names[0] != "inner" || names[1] != "outer" {
		t.Fatalf("call order = %v, want [inner outer]", names)
	}
}

func TestNormalize_CaptureAtRegistration(t *testing.T) {
	_, after, _ := normalize(t, `
extern fn print_i64(v: i64);
fn f() {
	var x: i64 = 1;
	defer print_i64(x);
	x = 5;
}`)
	fn := findFn(t, after, "f")

	var capture *ast.VarDecl
	var call *ast.CallExpr
	for _, stmt := range fn.Body.Stmts {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			if strings.HasPrefix(s.Name, "__defer_") {
				capture = s
			}
		case *ast.ExprStmt:
			if c, ok := s.X.(*ast.CallExpr); ok {
				call = c
			}
		}
	}
	if capture == nil {
		t.Fatal("no capture local synthesized")
	}
	if _, ok := capture.Init.(*ast.VarExpr); !ok {
		t.Fatalf("capture init is %T, want the registered argument expression", capture.Init)
	}
	if call == nil {
		t.Fatal("no deferred call emitted")
	}
	arg := call.Args[0].(*ast.VarExpr)
	if arg.Name != capture.Name {
		t.Fatalf("deferred call reads %q, want capture local %q", arg.Name, capture.Name)
	}
}

func TestNormalize_SingleExitShape(t *testing.T) {
	_, after, res := normalize(t, `
extern fn g();
fn f(x: i64) -> i64 {
	defer g();
	if x > 0 { return x; }
	return 0;
}`)
	fn := findFn(t, after, "f")

	// Hidden slot first, exit label last, no surviving returns or defers in
	// between.
	slot, ok := fn.Body.Stmts[0].(*ast.VarDecl)
	if !ok || !strings.HasPrefix(slot.Name, "__ret_") {
		t.Fatalf("first stmt is %T, want hidden return slot", fn.Body.Stmts[0])
	}
	if slot.ResolvedType == 0 {
		t.Fatal("hidden slot has no resolved type")
	}
	last, ok := fn.Body.Stmts[len(fn.Body.Stmts)-1].(*ast.LabeledBlock)
	if !ok {
		t.Fatalf("last stmt is %T, want exit label", fn.Body.Stmts[len(fn.Body.Stmts)-1])
	}
	ret, ok := last.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("exit block holds %T, want the one return", last.Body.Stmts[0])
	}
	if _, ok := res.ExprTypes[ret.Value]; !ok {
		t.Fatal("exit return value not annotated")
	}

	var assertNone func(stmts []ast.Stmt)
	assertNone = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.DeferStmt:
				t.Fatal("defer survived normalization")
			case *ast.ReturnStmt:
				t.Fatal("return outside the exit label survived")
			case *ast.Block:
				assertNone(s.Stmts)
			case *ast.IfStmt:
				assertNone(s.Then.Stmts)
				if s.Else != nil {
					assertNone(s.Else.Stmts)
				}
			case *ast.WhileStmt:
				assertNone(s.Body.Stmts)
			}
		}
	}
	assertNone(fn.Body.Stmts[:len(fn.Body.Stmts)-1])
}

func TestNormalize_UnitFunctionHasNoSlot(t *testing.T) {
	_, after, _ := normalize(t, `
extern fn g();
fn f() {
	defer g();
}`)
	fn := findFn(t, after, "f")
	for _, stmt := range fn.Body.Stmts {
		if decl, ok := stmt.(*ast.VarDecl); ok && strings.HasPrefix(decl.Name, "__ret_") {
			t.Fatal("unit function got a hidden return slot")
		}
	}
	last := fn.Body.Stmts[len(fn.Body.Stmts)-1].(*ast.LabeledBlock)
	if ret := last.Body.Stmts[0].(*ast.ReturnStmt); ret.Value != nil {
		t.Fatal("unit exit return carries a value")
	}
}
