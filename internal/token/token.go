package token

import (
	"mica/internal/source"
)

// Token represents a single source token with its location.
// Text holds the raw lexeme; for string literals it is the decoded value.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, BoolLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwModule, KwPub, KwFn, KwType, KwImpl, KwUse, KwLet, KwMut, KwReturn,
		KwIf, KwElse, KwMatch, KwFor, KwIn, KwLoop, KwWhile, KwBreak,
		KwContinue, KwSpawn, KwAwait, KwChan, KwUsing, KwAs:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
