package ast

import (
	"toyc/internal/source"
)

// Decl is a top-level declaration: struct, fn or extern fn.
type Decl interface {
	Node
	decl()
}

// StructField is one declared field inside a struct.
type StructField struct {
	Name string
	Type TypeExpr
	Sp   source.Span
}

// StructDecl declares a nominal struct type.
type StructDecl struct {
	Name   string
	Fields []StructField
	Sp     source.Span
}

// Param is one declared function parameter.
type Param struct {
	Name string
	Type TypeExpr
	Sp   source.Span
}

// FnDecl declares a function with a body.
type FnDecl struct {
	Name   string
	Params []Param
	Ret    TypeExpr
	Body   *Block
	Sp     source.Span
}

// ExternFnDecl declares a function implemented by the runtime collaborator.
type ExternFnDecl struct {
	Name   string
	Params []Param
	Ret    TypeExpr
	Sp     source.Span
}

func (d *StructDecl) Span() source.Span   { return d.Sp }
func (d *FnDecl) Span() source.Span       { return d.Sp }
func (d *ExternFnDecl) Span() source.Span { return d.Sp }

func (*StructDecl) decl()   {}
func (*FnDecl) decl()       {}
func (*ExternFnDecl) decl() {}

// TypeExpr is type syntax as written: a named type or a pointer to one.
// Resolution to a semantic type happens in sema.
type TypeExpr interface {
	Node
	typeExpr()
}

// NamedType references a builtin or a struct by name.
type NamedType struct {
	Name string
	Sp   source.Span
}

// PtrType is `*Elem`.
type PtrType struct {
	Elem TypeExpr
	Sp   source.Span
}

func (t *NamedType) Span() source.Span { return t.Sp }
func (t *PtrType) Span() source.Span   { return t.Sp }

func (*NamedType) typeExpr() {}
func (*PtrType) typeExpr()   {}
