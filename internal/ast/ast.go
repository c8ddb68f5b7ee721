// Package ast defines the abstract syntax tree for the toy language.
//
// Each node category (declaration, statement, expression, type syntax) is a
// closed set of concrete structs behind a marker interface; every stage
// dispatches with an exhaustive type switch, so adding a node kind is a
// compile-visible obligation across the pipeline.
package ast

import (
	"toyc/internal/source"
)

// Node is anything with a source span.
type Node interface {
	Span() source.Span
}

// Program is one compilation unit: an ordered list of top-level declarations.
type Program struct {
	File  source.FileID
	Decls []Decl
}
