package sema

import (
	"errors"
	"fmt"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/layout"
	"toyc/internal/source"
	"toyc/internal/symbols"
	"toyc/internal/types"
)

// collectStructs registers every struct name first, then resolves field
// types, so mutually referencing pointer fields resolve regardless of
// declaration order.
func (c *checker) collectStructs() {
	declared := make(map[string]*ast.StructDecl, 8)

	for _, decl := range c.prog.Decls {
		st, ok := decl.(*ast.StructDecl)
		if !ok {
			continue
		}
		id := c.interner.Struct(st.Name)
		if !c.table.DefineStruct(st.Name, id) {
			c.errorf(diag.SemaDuplicateDecl, st.Sp,
				"struct %q is already declared", st.Name)
			continue
		}
		declared[st.Name] = st
	}

	for _, decl := range c.prog.Decls {
		st, ok := decl.(*ast.StructDecl)
		if !ok || declared[st.Name] != st {
			continue
		}
		info := &types.StructInfo{Name: st.Name}
		seen := make(map[string]bool, len(st.Fields))
		for _, f := range st.Fields {
			if seen[f.Name] {
				c.errorf(diag.SemaDuplicateDecl, f.Sp,
					"field %q is already declared in struct %q", f.Name, st.Name)
				continue
			}
			seen[f.Name] = true
			ft := c.resolveType(f.Type)
			if ft == types.NoTypeID {
				continue
			}
			if c.interner.Kind(ft) == types.KindUnit {
				c.errorf(diag.SemaTypeMismatch, f.Sp,
					"field %q cannot have type unit", f.Name)
				continue
			}
			info.Fields = append(info.Fields, types.StructFieldInfo{
				Name: f.Name,
				Type: ft,
			})
		}
		id, _ := c.table.LookupStruct(st.Name)
		c.interner.SetStructInfo(id, info)
	}
}

// collectSignatures registers every function and extern function before any
// body is checked, enabling forward references.
func (c *checker) collectSignatures() {
	for _, decl := range c.prog.Decls {
		switch d := decl.(type) {
		case *ast.FnDecl:
			c.defineFn(d.Name, d.Params, d.Ret, false, d.Sp)
		case *ast.ExternFnDecl:
			c.defineFn(d.Name, d.Params, d.Ret, true, d.Sp)
		}
	}
}

func (c *checker) defineFn(name string, params []ast.Param, ret ast.TypeExpr, extern bool, sp source.Span) {
	sig := &symbols.FnSig{
		Name:   name,
		Extern: extern,
		Span:   sp,
	}

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			c.errorf(diag.SemaDuplicateDecl, p.Sp,
				"parameter %q is already declared", p.Name)
			continue
		}
		seen[p.Name] = true
		pt := c.resolveType(p.Type)
		if pt == types.NoTypeID {
			continue
		}
		switch c.interner.Kind(pt) {
		case types.KindStruct:
			c.errorf(diag.SemaTypeMismatch, p.Sp,
				"parameter %q: struct values cannot be passed by value, use a pointer", p.Name)
			continue
		case types.KindUnit:
			c.errorf(diag.SemaTypeMismatch, p.Sp,
				"parameter %q cannot have type unit", p.Name)
			continue
		}
		sig.Params = append(sig.Params, symbols.FnParam{
			Name: p.Name,
			Type: pt,
			Span: p.Sp,
		})
	}

	sig.Ret = c.builtins.Unit
	if ret != nil {
		rt := c.resolveType(ret)
		if rt != types.NoTypeID {
			if c.interner.Kind(rt) == types.KindStruct {
				c.errorf(diag.SemaTypeMismatch, ret.Span(),
					"struct values cannot be returned by value, use a pointer")
			} else {
				sig.Ret = rt
			}
		}
	}

	if !c.table.DefineFunc(sig) {
		c.errs++
		d := diag.NewError(diag.SemaDuplicateDecl, sig.Span,
			fmt.Sprintf("function %q is already declared", name))
		if prev, ok := c.table.LookupFunc(name); ok {
			d = d.WithNote(prev.Span, "previous declaration is here")
		}
		c.reporter.Report(d)
	}
}

// checkLayouts computes every struct's layout, rejecting value-containment
// cycles before any body is checked.
func (c *checker) checkLayouts() {
	for _, decl := range c.prog.Decls {
		st, ok := decl.(*ast.StructDecl)
		if !ok {
			continue
		}
		id, found := c.table.LookupStruct(st.Name)
		if !found {
			continue
		}
		if _, err := c.layouts.LayoutOf(id); err != nil {
			var lerr *layout.LayoutError
			if errors.As(err, &lerr) && lerr.Kind == layout.LayoutErrCyclicValue {
				c.errorf(diag.SemaCyclicValueLayout, st.Sp,
					"struct %q contains itself by value", st.Name)
			} else {
				c.errorf(diag.SemaTypeMismatch, st.Sp,
					"struct %q has no computable layout: %v", st.Name, err)
			}
		}
	}
}
