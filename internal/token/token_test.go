package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"fn":     KwFn,
		"struct": KwStruct,
		"var":    KwVar,
		"defer":  KwDefer,
		"return": KwReturn,
		"extern": KwExtern,
		"sizeof": KwSizeof,
		"true":   KwTrue,
		"false":  KwFalse,
		"null":   KwNull,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// Deliberately not keywords: case matters, type names are identifiers.
	notKw := []string{
		"Fn", "VAR", "Defer",
		"i64", "u64", "u8", "bool", "unit",
		"identifier", "main",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}
