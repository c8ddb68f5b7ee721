package diag

import (
	"fmt"
)

// Code identifies a diagnostic category. Codes are grouped by pipeline stage:
// 1xxx lexer, 2xxx parser, 3xxx semantic analysis, 4xxx I/O.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003

	// Syntactic
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectType        Code = 2003
	SynExpectSemicolon   Code = 2004
	SynExpectDelimiter   Code = 2005
	SynExpectDeclaration Code = 2006
	SynExpectExpression  Code = 2007
	SynDeferNotCall      Code = 2008

	// Semantic
	SemaInfo               Code = 3000
	SemaUndefinedSymbol    Code = 3001
	SemaDuplicateDecl      Code = 3002
	SemaTypeMismatch       Code = 3003
	SemaInvalidLValue      Code = 3004
	SemaArityMismatch      Code = 3005
	SemaUnknownField       Code = 3006
	SemaInvalidNullContext Code = 3007
	SemaCyclicValueLayout  Code = 3008

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown diagnostic",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "unknown character",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed integer literal",

	SynInfo:              "Syntax information",
	SynUnexpectedToken:   "unexpected token",
	SynExpectIdentifier:  "expected identifier",
	SynExpectType:        "expected type",
	SynExpectSemicolon:   "expected ';'",
	SynExpectDelimiter:   "expected delimiter",
	SynExpectDeclaration: "expected declaration",
	SynExpectExpression:  "expected expression",
	SynDeferNotCall:      "defer requires a call expression",

	SemaInfo:               "Semantic information",
	SemaUndefinedSymbol:    "undefined symbol",
	SemaDuplicateDecl:      "duplicate declaration",
	SemaTypeMismatch:       "type mismatch",
	SemaInvalidLValue:      "invalid assignment target",
	SemaArityMismatch:      "argument count mismatch",
	SemaUnknownField:       "unknown field",
	SemaInvalidNullContext: "null is only permitted where a pointer type is expected",
	SemaCyclicValueLayout:  "struct contains itself by value",

	IOLoadFileError: "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
