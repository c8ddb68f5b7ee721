package sema

import (
	"fmt"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/symbols"
	"toyc/internal/types"
)

// checkBodies runs pass three: every function body against its signature.
func (c *checker) checkBodies() {
	for _, decl := range c.prog.Decls {
		fn, ok := decl.(*ast.FnDecl)
		if !ok {
			continue
		}
		sig, found := c.table.LookupFunc(fn.Name)
		if !found {
			continue
		}
		c.checkFnBody(fn, sig)
	}
}

func (c *checker) checkFnBody(fn *ast.FnDecl, sig *symbols.FnSig) {
	c.fn = sig
	c.scopes.Push()
	for i := range sig.Params {
		p := &sig.Params[i]
		c.scopes.Define(&symbols.Local{
			Name:    p.Name,
			Type:    p.Type,
			Storage: symbols.StorageParam,
			Span:    p.Span,
		})
	}
	c.checkBlockStmts(fn.Body)
	c.scopes.Pop()
	c.fn = nil
}

// checkBlock pushes a scope for a nested block statement.
func (c *checker) checkBlock(b *ast.Block) {
	c.scopes.Push()
	c.checkBlockStmts(b)
	c.scopes.Pop()
}

// checkBlockStmts checks statements without pushing a scope; the caller
// decides scope ownership. A function's outermost block shares the scope
// that holds the parameters.
func (c *checker) checkBlockStmts(b *ast.Block) {
	for _, stmt := range b.Stmts {
		c.checkStmt(stmt)
	}
}

func (c *checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		c.checkBlock(s)

	case *ast.VarDecl:
		c.checkVarDecl(s)

	case *ast.DeferStmt:
		c.checkCall(s.Call)

	case *ast.IfStmt:
		c.checkCond(s.Cond)
		c.checkBlock(s.Then)
		if s.Else != nil {
			c.checkBlock(s.Else)
		}

	case *ast.WhileStmt:
		c.checkCond(s.Cond)
		c.checkBlock(s.Body)

	case *ast.ReturnStmt:
		c.checkReturn(s)

	case *ast.ExprStmt:
		c.checkExpr(s.X, types.NoTypeID)

	case *ast.GotoStmt, *ast.LabeledBlock:
		// Only the normalizer produces these; the parser cannot.
		panic(fmt.Sprintf("normalizer-only statement %T reached analysis", s))

	default:
		panic(fmt.Sprintf("unexpected statement %T", s))
	}
}

func (c *checker) checkVarDecl(s *ast.VarDecl) {
	declared := c.resolveType(s.Type)
	if declared == types.NoTypeID {
		// Still check the initializer for secondary diagnostics.
		c.checkExpr(s.Init, types.NoTypeID)
		return
	}
	if c.interner.Kind(declared) == types.KindUnit {
		c.errorf(diag.SemaTypeMismatch, s.Sp,
			"variable %q cannot have type unit", s.Name)
		return
	}

	if c.interner.Kind(declared) == types.KindStruct {
		lit, isLit := s.Init.(*ast.StructLit)
		if !isLit {
			c.errorf(diag.SemaTypeMismatch, s.Init.Span(),
				"a struct variable must be initialized with a struct literal")
			return
		}
		c.checkStructLit(lit, declared)
	} else {
		got := c.checkExpr(s.Init, declared)
		c.requireAssignable(declared, got, s.Init)
	}

	s.ResolvedType = declared
	if !c.scopes.Define(&symbols.Local{
		Name:    s.Name,
		Type:    declared,
		Storage: symbols.StorageLocal,
		Span:    s.Sp,
	}) {
		c.errorf(diag.SemaDuplicateDecl, s.Sp,
			"%q is already declared in this scope", s.Name)
	}
}

func (c *checker) checkCond(cond ast.Expr) {
	got := c.checkExpr(cond, c.builtins.Bool)
	if got != types.NoTypeID && got != c.builtins.Bool {
		c.errorf(diag.SemaTypeMismatch, cond.Span(),
			"condition must be bool, found %s", c.typeString(got))
	}
}

func (c *checker) checkReturn(s *ast.ReturnStmt) {
	want := c.fn.Ret
	if s.Value == nil {
		if c.interner.Kind(want) != types.KindUnit {
			c.errorf(diag.SemaTypeMismatch, s.Sp,
				"function %q must return %s", c.fn.Name, c.typeString(want))
		}
		return
	}
	if c.interner.Kind(want) == types.KindUnit {
		c.errorf(diag.SemaTypeMismatch, s.Value.Span(),
			"function %q does not return a value", c.fn.Name)
		c.checkExpr(s.Value, types.NoTypeID)
		return
	}
	got := c.checkExpr(s.Value, want)
	c.requireAssignable(want, got, s.Value)
}

// requireAssignable reports a TypeMismatch unless got fits want. Exact match
// only; null has already been retyped by checkExpr where a pointer was
// expected, so a surviving KindNull means a non-pointer context.
func (c *checker) requireAssignable(want, got types.TypeID, at ast.Expr) {
	if got == types.NoTypeID || want == got {
		return
	}
	if c.interner.Kind(got) == types.KindNull {
		c.errorf(diag.SemaInvalidNullContext, at.Span(),
			"null requires a pointer context, found %s", c.typeString(want))
		return
	}
	c.errorf(diag.SemaTypeMismatch, at.Span(),
		"expected %s, found %s", c.typeString(want), c.typeString(got))
}
