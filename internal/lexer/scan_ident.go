package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"mica/internal/token"
)

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= utf8.RuneSelf
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func (lx *Lexer) scanIdent() {
	start := lx.cursor
	for {
		ch, ok := lx.peek()
		if !ok {
			break
		}
		if ch < utf8.RuneSelf {
			if !isIdentContinue(ch) {
				break
			}
			lx.bump()
			continue
		}
		r, size := utf8.DecodeRune(lx.file.Content[lx.cursor:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		lx.bumpN(size)
	}

	raw := lx.file.Content[start:lx.cursor]
	// NFC so visually identical identifiers intern to the same symbol.
	ident := norm.NFC.String(string(raw))

	if kind, ok := token.LookupKeyword(ident); ok {
		lx.pushText(kind, start, ident)
		return
	}
	ident = lx.idents.MustLookup(lx.idents.Intern(ident))
	lx.pushText(token.Ident, start, ident)
}
