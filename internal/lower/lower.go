// Package lower normalizes analyzed function bodies for code generation.
//
// Every function containing a defer is rewritten to a single-exit form:
//
//   - a hidden return slot holds the pending return value,
//   - every `return` stores into the slot, runs the unwind sequence for all
//     active scopes (innermost first, each in reverse registration order),
//     then jumps to the shared exit label,
//   - falling off the end of a block runs only that block's own unwind,
//   - the exit label loads the slot and performs the one real return.
//
// Defer argument values are captured into synthesized locals at registration,
// so later mutation of the same variables cannot leak into the deferred call.
// After this pass no DeferStmt remains anywhere; the code generator has no
// notion of defer at all.
//
// Functions without defers pass through untouched, early returns included:
// the pass-through is broader than a strict single-exit contract requires,
// and is observably equivalent because a return without pending unwinds
// needs no funneling — the generator emits a full epilogue at each one.
package lower

import (
	"fmt"

	"toyc/internal/ast"
	"toyc/internal/sema"
	"toyc/internal/source"
	"toyc/internal/symbols"
	"toyc/internal/types"
)

// Normalize rewrites every defer-carrying function of prog into single-exit
// form. It returns a new Program sharing untouched declarations; annotations
// for synthesized expressions are added to res.ExprTypes in place.
func Normalize(prog *ast.Program, res *sema.Result) *ast.Program {
	out := &ast.Program{File: prog.File, Decls: make([]ast.Decl, 0, len(prog.Decls))}
	for _, decl := range prog.Decls {
		fn, ok := decl.(*ast.FnDecl)
		if ok && hasDefer(fn.Body) {
			out.Decls = append(out.Decls, rewriteFn(fn, res))
			continue
		}
		out.Decls = append(out.Decls, decl)
	}
	return out
}

func hasDefer(b *ast.Block) bool {
	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *ast.DeferStmt:
			return true
		case *ast.Block:
			if hasDefer(s) {
				return true
			}
		case *ast.IfStmt:
			if hasDefer(s.Then) || (s.Else != nil && hasDefer(s.Else)) {
				return true
			}
		case *ast.WhileStmt:
			if hasDefer(s.Body) {
				return true
			}
		}
	}
	return false
}

// deferred is one registered defer: the callee and the locals holding its
// captured argument values.
type deferred struct {
	sig  *symbols.FnSig
	args []*ast.VarDecl
	sp   source.Span
}

type normalizer struct {
	res       *sema.Result
	fn        *ast.FnDecl
	sig       *symbols.FnSig
	retVar    *ast.VarDecl // nil when the function returns unit
	exitLabel string
	tempCount int
	scopes    [][]deferred
}

func rewriteFn(fn *ast.FnDecl, res *sema.Result) *ast.FnDecl {
	sig, ok := res.Table.LookupFunc(fn.Name)
	if !ok {
		panic(fmt.Sprintf("function %q missing from symbol table", fn.Name))
	}

	n := &normalizer{
		res:       res,
		fn:        fn,
		sig:       sig,
		exitLabel: "__fn_exit_" + fn.Name,
	}

	var stmts []ast.Stmt
	if res.Types.Kind(sig.Ret) != types.KindUnit {
		n.retVar = &ast.VarDecl{
			Name:         "__ret_" + fn.Name,
			Init:         n.defaultValue(sig.Ret, fn.Body.Sp),
			ResolvedType: sig.Ret,
			Sp:           fn.Body.Sp,
		}
		stmts = append(stmts, n.retVar)
	}

	stmts = append(stmts, n.rewriteBlock(fn.Body).Stmts...)

	var exitValue ast.Expr
	if n.retVar != nil {
		exitValue = n.varRef(n.retVar, fn.Body.Sp)
	}
	stmts = append(stmts, &ast.LabeledBlock{
		Label: n.exitLabel,
		Body: &ast.Block{
			Stmts: []ast.Stmt{&ast.ReturnStmt{Value: exitValue, Sp: fn.Body.Sp}},
			Sp:    fn.Body.Sp,
		},
		Sp: fn.Body.Sp,
	})

	return &ast.FnDecl{
		Name:   fn.Name,
		Params: fn.Params,
		Ret:    fn.Ret,
		Body:   &ast.Block{Stmts: stmts, Sp: fn.Body.Sp},
		Sp:     fn.Sp,
	}
}

func (n *normalizer) rewriteBlock(b *ast.Block) *ast.Block {
	n.scopes = append(n.scopes, nil)
	out := make([]ast.Stmt, 0, len(b.Stmts))

	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *ast.DeferStmt:
			out = append(out, n.register(s)...)

		case *ast.ReturnStmt:
			out = append(out, n.rewriteReturn(s)...)

		case *ast.Block:
			out = append(out, n.rewriteBlock(s))

		case *ast.IfStmt:
			rewritten := &ast.IfStmt{Cond: s.Cond, Then: n.rewriteBlock(s.Then), Sp: s.Sp}
			if s.Else != nil {
				rewritten.Else = n.rewriteBlock(s.Else)
			}
			out = append(out, rewritten)

		case *ast.WhileStmt:
			out = append(out, &ast.WhileStmt{Cond: s.Cond, Body: n.rewriteBlock(s.Body), Sp: s.Sp})

		default:
			out = append(out, stmt)
		}
	}

	// Fallthrough runs only this block's own defers, newest first.
	if !endsControl(out) {
		out = append(out, n.unwindScope(n.scopes[len(n.scopes)-1], b.Sp)...)
	}
	n.scopes = n.scopes[:len(n.scopes)-1]

	return &ast.Block{Stmts: out, Sp: b.Sp}
}

// register replaces a defer statement with capture locals for its argument
// values and records the pending call in the current scope.
func (n *normalizer) register(s *ast.DeferStmt) []ast.Stmt {
	callee := s.Call.Callee.(*ast.VarExpr)
	sig, ok := n.res.Table.LookupFunc(callee.Name)
	if !ok {
		panic(fmt.Sprintf("deferred callee %q missing from symbol table", callee.Name))
	}

	var out []ast.Stmt
	d := deferred{sig: sig, sp: s.Sp}
	for i, arg := range s.Call.Args {
		argType, ok := n.res.ExprTypes[arg]
		if !ok {
			panic(fmt.Sprintf("deferred argument %d of %q has no type annotation", i, callee.Name))
		}
		capture := &ast.VarDecl{
			Name:         fmt.Sprintf("__defer_%s_%d", n.fn.Name, n.tempCount),
			Init:         arg,
			ResolvedType: argType,
			Sp:           arg.Span(),
		}
		n.tempCount++
		out = append(out, capture)
		d.args = append(d.args, capture)
	}
	top := len(n.scopes) - 1
	n.scopes[top] = append(n.scopes[top], d)
	return out
}

// rewriteReturn turns a return into store-unwind-jump: the pending value goes
// into the hidden slot first, then every active scope unwinds innermost to
// outermost, then control jumps to the exit label.
func (n *normalizer) rewriteReturn(s *ast.ReturnStmt) []ast.Stmt {
	var out []ast.Stmt
	if s.Value != nil && n.retVar != nil {
		target := n.varRef(n.retVar, s.Sp)
		assign := &ast.AssignExpr{Target: target, Value: s.Value, Sp: s.Sp}
		n.res.ExprTypes[assign] = n.sig.Ret
		out = append(out, &ast.ExprStmt{X: assign, Sp: s.Sp})
	}
	for i := len(n.scopes) - 1; i >= 0; i-- {
		out = append(out, n.unwindScope(n.scopes[i], s.Sp)...)
	}
	out = append(out, &ast.GotoStmt{Label: n.exitLabel, Sp: s.Sp})
	return out
}

// unwindScope emits one scope's deferred calls in reverse registration order.
// Every emission site gets fresh expression nodes so each carries its own
// annotation.
func (n *normalizer) unwindScope(scope []deferred, sp source.Span) []ast.Stmt {
	var out []ast.Stmt
	for i := len(scope) - 1; i >= 0; i-- {
		d := scope[i]
		callee := &ast.VarExpr{Name: d.sig.Name, Sp: sp}
		call := &ast.CallExpr{Callee: callee, Sp: sp}
		for _, capture := range d.args {
			call.Args = append(call.Args, n.varRef(capture, sp))
		}
		n.res.ExprTypes[call] = d.sig.Ret
		out = append(out, &ast.ExprStmt{X: call, Sp: sp})
	}
	return out
}

// endsControl reports whether the statement list already transferred control,
// making a fallthrough unwind unreachable.
func endsControl(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch s := stmts[len(stmts)-1].(type) {
	case *ast.GotoStmt, *ast.ReturnStmt:
		return true
	case *ast.Block:
		return endsControl(s.Stmts)
	case *ast.IfStmt:
		return s.Else != nil && endsControl(s.Then.Stmts) && endsControl(s.Else.Stmts)
	}
	return false
}

// varRef builds an annotated reference to a synthesized local.
func (n *normalizer) varRef(decl *ast.VarDecl, sp source.Span) *ast.VarExpr {
	ref := &ast.VarExpr{Name: decl.Name, Sp: sp}
	n.res.ExprTypes[ref] = decl.ResolvedType
	return ref
}

// defaultValue builds the annotated zero value used to initialize the hidden
// return slot before any store.
func (n *normalizer) defaultValue(t types.TypeID, sp source.Span) ast.Expr {
	var e ast.Expr
	switch n.res.Types.Kind(t) {
	case types.KindBool:
		e = &ast.BoolLit{Value: false, Sp: sp}
	case types.KindPtr:
		e = &ast.NullLit{Sp: sp}
	default:
		e = &ast.IntLit{Value: 0, Sp: sp}
	}
	n.res.ExprTypes[e] = t
	return e
}
