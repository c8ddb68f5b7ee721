package ast

import (
	"toyc/internal/source"
	"toyc/internal/types"
)

// Expr is an expression node. After semantic analysis every reachable Expr
// has an entry in the analyzer's ExprTypes annotation table.
type Expr interface {
	Node
	expr()
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	UnaryNeg   UnaryOp = iota // -x
	UnaryNot                  // !x
	UnaryDeref                // *p
	UnaryAddr                 // &x
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryDeref:
		return "*"
	case UnaryAddr:
		return "&"
	}
	return "?"
}

// BinaryOp enumerates infix operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinLt
	BinLe
	BinGt
	BinGe
	BinEq
	BinNe
	BinAnd // && (short-circuit)
	BinOr  // || (short-circuit)
)

var binOpNames = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinRem: "%",
	BinLt: "<", BinLe: "<=", BinGt: ">", BinGe: ">=",
	BinEq: "==", BinNe: "!=",
	BinAnd: "&&", BinOr: "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "?"
}

// IsShortCircuit reports whether the operator must be lowered to control flow.
func (op BinaryOp) IsShortCircuit() bool {
	return op == BinAnd || op == BinOr
}

// IntLit is a decimal integer literal.
type IntLit struct {
	Value int64
	Sp    source.Span
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Sp    source.Span
}

// NullLit is `null`. It is typed only where a pointer type is expected.
type NullLit struct {
	Sp source.Span
}

// VarExpr is a bare name: a local, a parameter, or a function reference in
// call position.
type VarExpr struct {
	Name string
	Sp   source.Span
}

// UnaryExpr is a prefix operation.
type UnaryExpr struct {
	Op UnaryOp
	X  Expr
	Sp source.Span
}

// BinaryExpr is an infix operation.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Sp    source.Span
}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Sp     source.Span
}

// FieldExpr is `base.name`. The base may be a struct lvalue or a pointer to
// struct (auto-dereferenced one level).
type FieldExpr struct {
	Base Expr
	Name string
	Sp   source.Span
}

// AssignExpr is `target = value`.
type AssignExpr struct {
	Target Expr
	Value  Expr
	Sp     source.Span
}

// FieldInit is one `name: value` entry of a struct literal.
type FieldInit struct {
	Name  string
	Value Expr
	Sp    source.Span
}

// StructLit is `Name { field: value, ... }`. Permitted only as a variable
// initializer or an assignment source; sema enforces the restriction.
type StructLit struct {
	TypeName string
	Fields   []FieldInit
	Sp       source.Span
}

// SizeofExpr is `sizeof(T)`; its value is the layout size of T as u64.
// Resolved is filled by sema so the generator never re-resolves type syntax.
type SizeofExpr struct {
	Type     TypeExpr
	Resolved types.TypeID
	Sp       source.Span
}

func (e *IntLit) Span() source.Span     { return e.Sp }
func (e *BoolLit) Span() source.Span    { return e.Sp }
func (e *NullLit) Span() source.Span    { return e.Sp }
func (e *VarExpr) Span() source.Span    { return e.Sp }
func (e *UnaryExpr) Span() source.Span  { return e.Sp }
func (e *BinaryExpr) Span() source.Span { return e.Sp }
func (e *CallExpr) Span() source.Span   { return e.Sp }
func (e *FieldExpr) Span() source.Span  { return e.Sp }
func (e *AssignExpr) Span() source.Span { return e.Sp }
func (e *StructLit) Span() source.Span  { return e.Sp }
func (e *SizeofExpr) Span() source.Span { return e.Sp }

func (*IntLit) expr()     {}
func (*BoolLit) expr()    {}
func (*NullLit) expr()    {}
func (*VarExpr) expr()    {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*CallExpr) expr()   {}
func (*FieldExpr) expr()  {}
func (*AssignExpr) expr() {}
func (*StructLit) expr()  {}
func (*SizeofExpr) expr() {}
