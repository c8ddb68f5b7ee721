// Package lexer turns source bytes into a token stream.
//
// The lexer is permissive about recovery: an unknown character produces a
// diagnostic and is skipped, so one stray byte does not hide later errors.
package lexer

import (
	"fmt"

	"toyc/internal/diag"
	"toyc/internal/source"
	"toyc/internal/token"
)

// Lexer scans a single file.
type Lexer struct {
	file     *source.File
	reporter diag.Reporter
	pos      uint32
}

// New builds a lexer over a loaded file.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{file: file, reporter: reporter}
}

// Tokenize scans the whole file. The returned stream always ends with EOF,
// even after errors.
func (lx *Lexer) Tokenize() []token.Token {
	tokens := make([]token.Token, 0, len(lx.file.Content)/4+1)
	for {
		lx.skipWhitespaceAndComments()
		if lx.atEnd() {
			tokens = append(tokens, token.Token{Kind: token.EOF, Span: lx.spanFrom(lx.pos)})
			return tokens
		}

		start := lx.pos
		ch := lx.advance()

		switch {
		case isIdentStart(ch):
			for !lx.atEnd() && isIdentTail(lx.peek()) {
				lx.advance()
			}
			text := lx.text(start)
			kind := token.Ident
			if kw, ok := token.LookupKeyword(text); ok {
				kind = kw
			}
			tokens = append(tokens, lx.make(kind, start))

		case isDigit(ch):
			for !lx.atEnd() && isDigit(lx.peek()) {
				lx.advance()
			}
			if !lx.atEnd() && isIdentStart(lx.peek()) {
				for !lx.atEnd() && isIdentTail(lx.peek()) {
					lx.advance()
				}
				diag.ReportError(lx.reporter, diag.LexBadNumber, lx.spanFrom(start),
					fmt.Sprintf("malformed integer literal %q", lx.text(start)))
				continue
			}
			tokens = append(tokens, lx.make(token.Int, start))

		default:
			kind, ok := lx.operatorOrPunct(ch)
			if !ok {
				diag.ReportError(lx.reporter, diag.LexUnknownChar, lx.spanFrom(start),
					fmt.Sprintf("unknown character %q", ch))
				continue
			}
			tokens = append(tokens, lx.make(kind, start))
		}
	}
}

func (lx *Lexer) operatorOrPunct(ch byte) (token.Kind, bool) {
	switch ch {
	case '=':
		if lx.match('=') {
			return token.EqEq, true
		}
		return token.Eq, true
	case '!':
		if lx.match('=') {
			return token.BangEq, true
		}
		return token.Bang, true
	case '<':
		if lx.match('=') {
			return token.LtEq, true
		}
		return token.Lt, true
	case '>':
		if lx.match('=') {
			return token.GtEq, true
		}
		return token.Gt, true
	case '&':
		if lx.match('&') {
			return token.AmpAmp, true
		}
		return token.Amp, true
	case '|':
		if lx.match('|') {
			return token.PipePipe, true
		}
		return 0, false
	case '-':
		if lx.match('>') {
			return token.Arrow, true
		}
		return token.Minus, true
	case '+':
		return token.Plus, true
	case '*':
		return token.Star, true
	case '/':
		return token.Slash, true
	case '%':
		return token.Percent, true
	case '(':
		return token.LParen, true
	case ')':
		return token.RParen, true
	case '{':
		return token.LBrace, true
	case '}':
		return token.RBrace, true
	case ';':
		return token.Semi, true
	case ',':
		return token.Comma, true
	case ':':
		return token.Colon, true
	case '.':
		return token.Dot, true
	}
	return 0, false
}

func (lx *Lexer) skipWhitespaceAndComments() {
	for !lx.atEnd() {
		switch ch := lx.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			lx.advance()
		case ch == '/' && lx.peekNext() == '/':
			for !lx.atEnd() && lx.peek() != '\n' {
				lx.advance()
			}
		case ch == '/' && lx.peekNext() == '*':
			start := lx.pos
			lx.advance()
			lx.advance()
			lx.consumeBlockComment(start)
		default:
			return
		}
	}
}

func (lx *Lexer) consumeBlockComment(start uint32) {
	for !lx.atEnd() {
		if lx.peek() == '*' && lx.peekNext() == '/' {
			lx.advance()
			lx.advance()
			return
		}
		lx.advance()
	}
	diag.ReportError(lx.reporter, diag.LexUnterminatedBlockComment, lx.spanFrom(start),
		"unterminated block comment")
}

func (lx *Lexer) make(kind token.Kind, start uint32) token.Token {
	return token.Token{
		Kind: kind,
		Text: lx.text(start),
		Span: lx.spanFrom(start),
	}
}

func (lx *Lexer) text(start uint32) string {
	return string(lx.file.Content[start:lx.pos])
}

func (lx *Lexer) spanFrom(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.pos}
}

func (lx *Lexer) atEnd() bool {
	return int(lx.pos) >= len(lx.file.Content)
}

func (lx *Lexer) peek() byte {
	if lx.atEnd() {
		return 0
	}
	return lx.file.Content[lx.pos]
}

func (lx *Lexer) peekNext() byte {
	if int(lx.pos)+1 >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[lx.pos+1]
}

func (lx *Lexer) advance() byte {
	ch := lx.file.Content[lx.pos]
	lx.pos++
	return ch
}

func (lx *Lexer) match(expected byte) bool {
	if lx.atEnd() || lx.file.Content[lx.pos] != expected {
		return false
	}
	lx.pos++
	return true
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentTail(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
