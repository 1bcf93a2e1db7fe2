package lexer

import (
	"fmt"
	"strings"

	"mica/internal/diag"
	"mica/internal/token"
)

// scanString lexes a double-quoted string literal. The token text holds the
// decoded value, not the raw source form.
func (lx *Lexer) scanString() {
	start := lx.cursor
	lx.bump() // opening quote

	var value strings.Builder
	for {
		ch, ok := lx.peek()
		if !ok {
			diag.ReportError(lx.reporter, diag.LexUnterminatedString,
				lx.spanFrom(start), "unterminated string literal").Emit()
			lx.pushText(token.StringLit, start, value.String())
			return
		}
		switch ch {
		case '"':
			lx.bump()
			lx.pushText(token.StringLit, start, value.String())
			return
		case '\\':
			lx.bump()
			esc, ok := lx.peek()
			if !ok {
				diag.ReportError(lx.reporter, diag.LexBadEscape,
					lx.spanFrom(start), "unterminated escape sequence").Emit()
				lx.pushText(token.StringLit, start, value.String())
				return
			}
			lx.bump()
			switch esc {
			case '\\':
				value.WriteByte('\\')
			case '"':
				value.WriteByte('"')
			case 'n':
				value.WriteByte('\n')
			case 'r':
				value.WriteByte('\r')
			case 't':
				value.WriteByte('\t')
			case '0':
				value.WriteByte(0)
			default:
				diag.ReportError(lx.reporter, diag.LexBadEscape,
					lx.spanFrom(start),
					fmt.Sprintf("unsupported escape character %q", rune(esc))).Emit()
			}
		default:
			lx.bump()
			value.WriteByte(ch)
		}
	}
}
