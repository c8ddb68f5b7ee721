package sema

import (
	"fmt"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/types"
)

// checkExpr type-checks an expression and records its annotation. want is the
// type expected by the surrounding context, or NoTypeID when the context has
// no expectation; it drives the typing of `null` and of integer literals.
// Returns NoTypeID after reporting a diagnostic, which suppresses cascading
// mismatch reports upstream.
func (c *checker) checkExpr(e ast.Expr, want types.TypeID) types.TypeID {
	t := c.typeOf(e, want)
	if t != types.NoTypeID {
		c.exprTypes[e] = t
	}
	return t
}

func (c *checker) typeOf(e ast.Expr, want types.TypeID) types.TypeID {
	switch x := e.(type) {
	case *ast.IntLit:
		return c.typeIntLit(x, want)

	case *ast.BoolLit:
		return c.builtins.Bool

	case *ast.NullLit:
		if want != types.NoTypeID && c.interner.Kind(want) == types.KindPtr {
			return want
		}
		if want == types.NoTypeID {
			// Bare null; equality against a pointer retypes it afterwards.
			return c.builtins.Null
		}
		c.errorf(diag.SemaInvalidNullContext, x.Sp,
			"null requires a pointer context, found %s", c.typeString(want))
		return types.NoTypeID

	case *ast.VarExpr:
		if local, ok := c.scopes.Lookup(x.Name); ok {
			return local.Type
		}
		if _, ok := c.table.LookupFunc(x.Name); ok {
			c.errorf(diag.SemaTypeMismatch, x.Sp,
				"function %q can only be called, not used as a value", x.Name)
			return types.NoTypeID
		}
		c.errorf(diag.SemaUndefinedSymbol, x.Sp, "undefined name %q", x.Name)
		return types.NoTypeID

	case *ast.UnaryExpr:
		return c.typeUnary(x)

	case *ast.BinaryExpr:
		return c.typeBinary(x)

	case *ast.CallExpr:
		return c.checkCall(x)

	case *ast.FieldExpr:
		return c.typeField(x)

	case *ast.AssignExpr:
		return c.typeAssign(x)

	case *ast.StructLit:
		c.errorf(diag.SemaTypeMismatch, x.Sp,
			"a struct literal is only allowed as a variable initializer or assignment source")
		return types.NoTypeID

	case *ast.SizeofExpr:
		t := c.resolveType(x.Type)
		if t == types.NoTypeID {
			return types.NoTypeID
		}
		if _, err := c.layouts.LayoutOf(t); err != nil {
			c.errorf(diag.SemaTypeMismatch, x.Sp,
				"%s has no computable size", c.typeString(t))
			return types.NoTypeID
		}
		x.Resolved = t
		return c.builtins.U64

	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

// typeIntLit types a decimal literal. With an integer expectation the literal
// takes that type when the value fits; otherwise it defaults to i64 and the
// surrounding context reports any mismatch.
func (c *checker) typeIntLit(x *ast.IntLit, want types.TypeID) types.TypeID {
	if want != types.NoTypeID {
		switch c.interner.Kind(want) {
		case types.KindU8:
			if x.Value >= 0 && x.Value <= 255 {
				return want
			}
			c.errorf(diag.SemaTypeMismatch, x.Sp,
				"literal %d does not fit in u8", x.Value)
			return types.NoTypeID
		case types.KindU64:
			if x.Value >= 0 {
				return want
			}
			c.errorf(diag.SemaTypeMismatch, x.Sp,
				"literal %d does not fit in u64", x.Value)
			return types.NoTypeID
		}
	}
	return c.builtins.I64
}

func (c *checker) typeUnary(x *ast.UnaryExpr) types.TypeID {
	switch x.Op {
	case ast.UnaryNeg:
		got := c.checkExpr(x.X, types.NoTypeID)
		if got == types.NoTypeID {
			return types.NoTypeID
		}
		// Negating an unsigned operand is two's-complement wraparound.
		if !c.interner.Kind(got).IsInteger() {
			c.errorf(diag.SemaTypeMismatch, x.Sp,
				"unary '-' requires an integer operand, found %s", c.typeString(got))
			return types.NoTypeID
		}
		return got

	case ast.UnaryNot:
		got := c.checkExpr(x.X, c.builtins.Bool)
		if got == types.NoTypeID {
			return types.NoTypeID
		}
		if got != c.builtins.Bool {
			c.errorf(diag.SemaTypeMismatch, x.Sp,
				"unary '!' requires bool, found %s", c.typeString(got))
			return types.NoTypeID
		}
		return got

	case ast.UnaryDeref:
		got := c.checkExpr(x.X, types.NoTypeID)
		if got == types.NoTypeID {
			return types.NoTypeID
		}
		t, _ := c.interner.Lookup(got)
		if t.Kind != types.KindPtr {
			c.errorf(diag.SemaTypeMismatch, x.Sp,
				"cannot dereference %s", c.typeString(got))
			return types.NoTypeID
		}
		return t.Elem

	case ast.UnaryAddr:
		if !c.isLValue(x.X) {
			c.errorf(diag.SemaInvalidLValue, x.X.Span(),
				"cannot take the address of this expression")
			return types.NoTypeID
		}
		got := c.checkExpr(x.X, types.NoTypeID)
		if got == types.NoTypeID {
			return types.NoTypeID
		}
		return c.interner.Ptr(got)

	default:
		panic(fmt.Sprintf("unexpected unary operator %v", x.Op))
	}
}

func (c *checker) typeBinary(x *ast.BinaryExpr) types.TypeID {
	switch x.Op {
	case ast.BinAnd, ast.BinOr:
		lt := c.checkExpr(x.Left, c.builtins.Bool)
		rt := c.checkExpr(x.Right, c.builtins.Bool)
		ok := true
		if lt != types.NoTypeID && lt != c.builtins.Bool {
			c.errorf(diag.SemaTypeMismatch, x.Left.Span(),
				"operator %q requires bool, found %s", x.Op.String(), c.typeString(lt))
			ok = false
		}
		if rt != types.NoTypeID && rt != c.builtins.Bool {
			c.errorf(diag.SemaTypeMismatch, x.Right.Span(),
				"operator %q requires bool, found %s", x.Op.String(), c.typeString(rt))
			ok = false
		}
		if !ok || lt == types.NoTypeID || rt == types.NoTypeID {
			return types.NoTypeID
		}
		return c.builtins.Bool

	case ast.BinEq, ast.BinNe:
		return c.typeEquality(x)

	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		lt, rt := c.typeArithOperands(x)
		if lt == types.NoTypeID || rt == types.NoTypeID {
			return types.NoTypeID
		}
		return c.builtins.Bool

	default: // + - * / %
		lt, rt := c.typeArithOperands(x)
		if lt == types.NoTypeID || rt == types.NoTypeID {
			return types.NoTypeID
		}
		return lt
	}
}

// typeArithOperands checks both operands of an arithmetic or relational
// operator: same integer type on both sides, the left operand setting the
// expectation for literal typing on the right.
func (c *checker) typeArithOperands(x *ast.BinaryExpr) (types.TypeID, types.TypeID) {
	lt := c.checkExpr(x.Left, types.NoTypeID)
	if lt != types.NoTypeID && !c.interner.Kind(lt).IsInteger() {
		c.errorf(diag.SemaTypeMismatch, x.Left.Span(),
			"operator %q requires an integer type, found %s", x.Op.String(), c.typeString(lt))
		lt = types.NoTypeID
	}
	rt := c.checkExpr(x.Right, lt)
	if rt == types.NoTypeID || lt == types.NoTypeID {
		return lt, rt
	}
	if rt != lt {
		c.errorf(diag.SemaTypeMismatch, x.Sp,
			"operator %q requires matching types, found %s and %s",
			x.Op.String(), c.typeString(lt), c.typeString(rt))
		return types.NoTypeID, types.NoTypeID
	}
	return lt, rt
}

// typeEquality checks == and !=: both sides the same scalar type, with null
// comparable against any pointer.
func (c *checker) typeEquality(x *ast.BinaryExpr) types.TypeID {
	lt := c.checkExpr(x.Left, types.NoTypeID)
	rt := c.checkExpr(x.Right, lt)
	if lt == types.NoTypeID || rt == types.NoTypeID {
		return types.NoTypeID
	}

	lk := c.interner.Kind(lt)
	rk := c.interner.Kind(rt)

	// `null == p` types the left literal from the right operand.
	if lk == types.KindNull && rk == types.KindPtr {
		c.exprTypes[x.Left] = rt
		return c.builtins.Bool
	}
	if lk == types.KindNull && rk == types.KindNull {
		c.errorf(diag.SemaInvalidNullContext, x.Sp,
			"cannot compare null with null")
		return types.NoTypeID
	}

	if lt != rt || !lk.IsScalar() {
		c.errorf(diag.SemaTypeMismatch, x.Sp,
			"operator %q requires matching scalar types, found %s and %s",
			x.Op.String(), c.typeString(lt), c.typeString(rt))
		return types.NoTypeID
	}
	return c.builtins.Bool
}

// checkCall types a call expression: the callee must be a bare function name,
// arity must match, and each argument must fit its parameter exactly.
func (c *checker) checkCall(x *ast.CallExpr) types.TypeID {
	name, ok := x.Callee.(*ast.VarExpr)
	if !ok {
		c.errorf(diag.SemaTypeMismatch, x.Callee.Span(),
			"only a named function can be called")
		return types.NoTypeID
	}
	sig, found := c.table.LookupFunc(name.Name)
	if !found {
		c.errorf(diag.SemaUndefinedSymbol, name.Sp,
			"undefined function %q", name.Name)
		return types.NoTypeID
	}
	if len(x.Args) != len(sig.Params) {
		c.errorf(diag.SemaArityMismatch, x.Sp,
			"%q takes %d argument(s), got %d", sig.Name, len(sig.Params), len(x.Args))
		return types.NoTypeID
	}
	for i, arg := range x.Args {
		want := sig.Params[i].Type
		got := c.checkExpr(arg, want)
		c.requireAssignable(want, got, arg)
	}
	c.exprTypes[x] = sig.Ret
	return sig.Ret
}

// typeField checks `base.name`: the base must be a struct lvalue or a pointer
// to struct, dereferenced one level.
func (c *checker) typeField(x *ast.FieldExpr) types.TypeID {
	bt := c.checkExpr(x.Base, types.NoTypeID)
	if bt == types.NoTypeID {
		return types.NoTypeID
	}

	t, _ := c.interner.Lookup(bt)
	if t.Kind == types.KindPtr {
		t, _ = c.interner.Lookup(t.Elem)
	}
	if t.Kind != types.KindStruct {
		c.errorf(diag.SemaTypeMismatch, x.Base.Span(),
			"field access requires a struct or pointer to struct, found %s", c.typeString(bt))
		return types.NoTypeID
	}

	info, ok := c.interner.StructInfo(c.interner.Intern(t))
	if !ok {
		return types.NoTypeID
	}
	idx := info.FieldIndex(x.Name)
	if idx < 0 {
		c.errorf(diag.SemaUnknownField, x.Sp,
			"struct %q has no field %q", info.Name, x.Name)
		return types.NoTypeID
	}
	return info.Fields[idx].Type
}

// typeAssign checks `target = value`. The value of the whole expression is
// the target's type, so chained assignment works.
func (c *checker) typeAssign(x *ast.AssignExpr) types.TypeID {
	if !c.isLValue(x.Target) {
		c.errorf(diag.SemaInvalidLValue, x.Target.Span(),
			"cannot assign to this expression")
		c.checkExpr(x.Value, types.NoTypeID)
		return types.NoTypeID
	}

	tt := c.checkExpr(x.Target, types.NoTypeID)
	if tt == types.NoTypeID {
		c.checkExpr(x.Value, types.NoTypeID)
		return types.NoTypeID
	}

	if c.interner.Kind(tt) == types.KindStruct {
		lit, isLit := x.Value.(*ast.StructLit)
		if !isLit {
			c.errorf(diag.SemaTypeMismatch, x.Value.Span(),
				"a struct can only be assigned from a struct literal")
			return types.NoTypeID
		}
		if c.checkStructLit(lit, tt) == types.NoTypeID {
			return types.NoTypeID
		}
		return tt
	}

	got := c.checkExpr(x.Value, tt)
	c.requireAssignable(tt, got, x.Value)
	return tt
}

// isLValue reports whether an expression names a storage location: a bare
// local or parameter, a field access, or a pointer dereference.
func (c *checker) isLValue(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.VarExpr:
		_, ok := c.scopes.Lookup(x.Name)
		return ok
	case *ast.FieldExpr:
		return true
	case *ast.UnaryExpr:
		return x.Op == ast.UnaryDeref
	default:
		return false
	}
}

// checkStructLit checks a struct literal against its expected struct type:
// every named field must exist, appear once, and all declared fields must be
// covered. The literal itself is annotated with the struct type.
func (c *checker) checkStructLit(lit *ast.StructLit, want types.TypeID) types.TypeID {
	id, found := c.table.LookupStruct(lit.TypeName)
	if !found {
		c.errorf(diag.SemaUndefinedSymbol, lit.Sp,
			"unknown struct %q", lit.TypeName)
		return types.NoTypeID
	}
	if id != want {
		c.errorf(diag.SemaTypeMismatch, lit.Sp,
			"expected %s, found struct literal of %s", c.typeString(want), lit.TypeName)
		return types.NoTypeID
	}

	info, ok := c.interner.StructInfo(id)
	if !ok {
		return types.NoTypeID
	}

	seen := make(map[string]bool, len(lit.Fields))
	for i := range lit.Fields {
		f := &lit.Fields[i]
		idx := info.FieldIndex(f.Name)
		if idx < 0 {
			c.errorf(diag.SemaUnknownField, f.Sp,
				"struct %q has no field %q", info.Name, f.Name)
			continue
		}
		if seen[f.Name] {
			c.errorf(diag.SemaDuplicateDecl, f.Sp,
				"field %q is initialized twice", f.Name)
			continue
		}
		seen[f.Name] = true
		ft := info.Fields[idx].Type
		if c.interner.Kind(ft) == types.KindStruct {
			// Struct-typed fields nest literals.
			nested, isLit := f.Value.(*ast.StructLit)
			if !isLit {
				c.errorf(diag.SemaTypeMismatch, f.Value.Span(),
					"field %q requires a struct literal", f.Name)
				continue
			}
			c.checkStructLit(nested, ft)
			continue
		}
		got := c.checkExpr(f.Value, ft)
		c.requireAssignable(ft, got, f.Value)
	}
	for _, f := range info.Fields {
		if !seen[f.Name] {
			c.errorf(diag.SemaTypeMismatch, lit.Sp,
				"missing field %q in literal of struct %q", f.Name, info.Name)
		}
	}

	c.exprTypes[lit] = id
	return id
}
