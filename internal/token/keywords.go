package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"struct": KwStruct,
	"var":    KwVar,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
	"defer":  KwDefer,
	"true":   KwTrue,
	"false":  KwFalse,
	"null":   KwNull,
	"extern": KwExtern,
	"sizeof": KwSizeof,
}

// LookupKeyword reports whether lexeme is a reserved word and returns its kind.
func LookupKeyword(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}
