package token

var keywords = map[string]Kind{
	"module":   KwModule,
	"pub":      KwPub,
	"fn":       KwFn,
	"type":     KwType,
	"impl":     KwImpl,
	"use":      KwUse,
	"let":      KwLet,
	"mut":      KwMut,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"match":    KwMatch,
	"for":      KwFor,
	"in":       KwIn,
	"loop":     KwLoop,
	"while":    KwWhile,
	"break":    KwBreak,
	"continue": KwContinue,
	"spawn":    KwSpawn,
	"await":    KwAwait,
	"chan":     KwChan,
	"using":    KwUsing,
	"as":       KwAs,
	"true":     BoolLit,
	"false":    BoolLit,
}

// LookupKeyword maps an identifier to its keyword kind. Keywords are
// case-sensitive; only lowercase forms are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
