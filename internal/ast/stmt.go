package ast

import (
	"toyc/internal/source"
	"toyc/internal/types"
)

// Stmt is a statement inside a function body.
type Stmt interface {
	Node
	stmt()
}

// Block is `{ ... }`. It owns a lexical scope.
type Block struct {
	Stmts []Stmt
	Sp    source.Span
}

// VarDecl is `var name: type = init;`.
//
// ResolvedType is filled by sema; the normalizer also sets it on the variable
// declarations it synthesizes (hidden return slot, defer argument captures),
// which carry no type syntax. Codegen reads only ResolvedType.
type VarDecl struct {
	Name         string
	Type         TypeExpr // nil on synthesized declarations
	Init         Expr
	ResolvedType types.TypeID
	Sp           source.Span
}

// DeferStmt is `defer f(args);`. It survives only until normalization;
// the normalizer replaces every registration with captured calls.
type DeferStmt struct {
	Call *CallExpr
	Sp   source.Span
}

// IfStmt is `if cond { } else { }`; Else may be nil.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else *Block
	Sp   source.Span
}

// WhileStmt is `while cond { }`.
type WhileStmt struct {
	Cond Expr
	Body *Block
	Sp   source.Span
}

// ReturnStmt is `return;` (Value nil) or `return expr;`.
type ReturnStmt struct {
	Value Expr
	Sp    source.Span
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	X  Expr
	Sp source.Span
}

// GotoStmt is an unconditional jump to a label. Produced only by the
// normalizer; the parser never emits it.
type GotoStmt struct {
	Label string
	Sp    source.Span
}

// LabeledBlock attaches a label to a block. Produced only by the normalizer.
type LabeledBlock struct {
	Label string
	Body  *Block
	Sp    source.Span
}

func (s *Block) Span() source.Span        { return s.Sp }
func (s *VarDecl) Span() source.Span      { return s.Sp }
func (s *DeferStmt) Span() source.Span    { return s.Sp }
func (s *IfStmt) Span() source.Span       { return s.Sp }
func (s *WhileStmt) Span() source.Span    { return s.Sp }
func (s *ReturnStmt) Span() source.Span   { return s.Sp }
func (s *ExprStmt) Span() source.Span     { return s.Sp }
func (s *GotoStmt) Span() source.Span     { return s.Sp }
func (s *LabeledBlock) Span() source.Span { return s.Sp }

func (*Block) stmt()        {}
func (*VarDecl) stmt()      {}
func (*DeferStmt) stmt()    {}
func (*IfStmt) stmt()       {}
func (*WhileStmt) stmt()    {}
func (*ReturnStmt) stmt()   {}
func (*ExprStmt) stmt()     {}
func (*GotoStmt) stmt()     {}
func (*LabeledBlock) stmt() {}
