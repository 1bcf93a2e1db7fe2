package lexer

import (
	"strings"

	"mica/internal/diag"
	"mica/internal/token"
)

// scanNumber lexes integer and float literals. '_' separators are allowed
// and stripped from the token text; '1.foo' stays an int followed by a
// field access.
func (lx *Lexer) scanNumber() {
	start := lx.cursor
	lx.consumeDigits()

	isFloat := false
	if lx.peekByte() == '.' && isDigit(lx.peekAt(1)) {
		isFloat = true
		lx.bump()
		lx.consumeDigits()
	}

	if b := lx.peekByte(); b == 'e' || b == 'E' {
		isFloat = true
		lx.bump()
		if b := lx.peekByte(); b == '+' || b == '-' {
			lx.bump()
		}
		if !isDigit(lx.peekByte()) {
			diag.ReportError(lx.reporter, diag.LexBadNumber,
				lx.spanFrom(start), "exponent has no digits").Emit()
		}
		lx.consumeDigits()
	}

	text := strings.ReplaceAll(string(lx.file.Content[start:lx.cursor]), "_", "")
	if isFloat {
		lx.pushText(token.FloatLit, start, text)
		return
	}
	lx.pushText(token.IntLit, start, text)
}

func (lx *Lexer) consumeDigits() {
	for {
		b := lx.peekByte()
		if !isDigit(b) && b != '_' {
			return
		}
		lx.bump()
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
