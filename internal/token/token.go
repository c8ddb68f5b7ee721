// Package token defines lexical token kinds for the toy compiler.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Built-in type names (i64, u64, u8, bool, unit) are identifiers.
//     They are recognized by the semantic layer, not the lexer.
package token

import (
	"fmt"

	"toyc/internal/source"
)

// Kind enumerates lexical token categories.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	Int

	KwFn
	KwStruct
	KwVar
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwDefer
	KwTrue
	KwFalse
	KwNull
	KwExtern
	KwSizeof

	Plus
	Minus
	Star
	Slash
	Percent

	Eq
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq

	AmpAmp
	PipePipe
	Amp
	Bang

	LParen
	RParen
	LBrace
	RBrace

	Semi
	Comma
	Colon
	Dot
	Arrow
)

var kindNames = [...]string{
	EOF:      "EOF",
	Ident:    "Ident",
	Int:      "Int",
	KwFn:     "fn",
	KwStruct: "struct",
	KwVar:    "var",
	KwIf:     "if",
	KwElse:   "else",
	KwWhile:  "while",
	KwReturn: "return",
	KwDefer:  "defer",
	KwTrue:   "true",
	KwFalse:  "false",
	KwNull:   "null",
	KwExtern: "extern",
	KwSizeof: "sizeof",
	Plus:     "+",
	Minus:    "-",
	Star:     "*",
	Slash:    "/",
	Percent:  "%",
	Eq:       "=",
	EqEq:     "==",
	BangEq:   "!=",
	Lt:       "<",
	LtEq:     "<=",
	Gt:       ">",
	GtEq:     ">=",
	AmpAmp:   "&&",
	PipePipe: "||",
	Amp:      "&",
	Bang:     "!",
	LParen:   "(",
	RParen:   ")",
	LBrace:   "{",
	RBrace:   "}",
	Semi:     ";",
	Comma:    ",",
	Colon:    ":",
	Dot:      ".",
	Arrow:    "->",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is a single lexeme with its source span.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}
