package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"mica/internal/diag"
	"mica/internal/source"
	"mica/internal/token"
)

// Lexer produces the token stream for a single file.
type Lexer struct {
	file     *source.File
	reporter diag.Reporter
	idents   *source.Interner
	cursor   uint32
	tokens   []token.Token
}

// New creates a lexer over the given file. Diagnostics go to reporter.
// Identifier lexemes are interned so repeated names share one allocation.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{
		file:     file,
		reporter: reporter,
		idents:   source.NewInterner(),
		tokens:   make([]token.Token, 0, len(file.Content)/4+1),
	}
}

// Tokenize lexes a file in one call.
func Tokenize(file *source.File, reporter diag.Reporter) []token.Token {
	return New(file, reporter).Scan()
}

// Scan consumes the whole input and returns the tokens, EOF included.
// Lexing never aborts: unknown characters produce a diagnostic and are
// skipped so the parser still sees the rest of the file.
func (lx *Lexer) Scan() []token.Token {
	for {
		ch, ok := lx.peek()
		if !ok {
			break
		}
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			lx.bump()
		case ch == '/' && lx.peekAt(1) == '/':
			lx.skipLineComment()
		case ch >= '0' && ch <= '9':
			lx.scanNumber()
		case isIdentStart(ch):
			lx.scanIdent()
		case ch == '"':
			lx.scanString()
		default:
			lx.scanOperator(ch)
		}
	}
	end := lx.cursor
	lx.tokens = append(lx.tokens, token.Token{
		Kind: token.EOF,
		Span: source.Span{File: lx.file.ID, Start: end, End: end},
	})
	return lx.tokens
}

func (lx *Lexer) scanOperator(ch byte) {
	start := lx.cursor
	switch ch {
	case '(':
		lx.single(token.LParen)
	case ')':
		lx.single(token.RParen)
	case '{':
		lx.single(token.LBrace)
	case '}':
		lx.single(token.RBrace)
	case '[':
		lx.single(token.LBracket)
	case ']':
		lx.single(token.RBracket)
	case ',':
		lx.single(token.Comma)
	case ';':
		lx.single(token.Semicolon)
	case '.':
		lx.single(token.Dot)
	case '+':
		lx.single(token.Plus)
	case '*':
		lx.single(token.Star)
	case '/':
		lx.single(token.Slash)
	case '%':
		lx.single(token.Percent)
	case '?':
		lx.single(token.Question)
	case ':':
		lx.oneOrTwo(':', token.Colon, token.ColonColon)
	case '-':
		lx.oneOrTwo('>', token.Minus, token.Arrow)
	case '!':
		lx.oneOrTwo('=', token.Bang, token.BangEq)
	case '<':
		lx.oneOrTwo('=', token.Lt, token.LtEq)
	case '>':
		lx.oneOrTwo('=', token.Gt, token.GtEq)
	case '&':
		lx.oneOrTwo('&', token.Amp, token.AndAnd)
	case '|':
		lx.oneOrTwo('|', token.Pipe, token.OrOr)
	case '=':
		lx.bump()
		switch lx.peekByte() {
		case '>':
			lx.bump()
			lx.push(token.FatArrow, start)
		case '=':
			lx.bump()
			lx.push(token.EqEq, start)
		default:
			lx.push(token.Assign, start)
		}
	default:
		lx.bump()
		diag.ReportError(lx.reporter, diag.LexUnknownChar,
			lx.spanFrom(start),
			fmt.Sprintf("unexpected character %q", rune(ch))).Emit()
	}
}

// single emits a one-byte token.
func (lx *Lexer) single(kind token.Kind) {
	start := lx.cursor
	lx.bump()
	lx.push(kind, start)
}

// oneOrTwo emits twoKind when the next byte matches follow, oneKind otherwise.
func (lx *Lexer) oneOrTwo(follow byte, oneKind, twoKind token.Kind) {
	start := lx.cursor
	lx.bump()
	if lx.peekByte() == follow {
		lx.bump()
		lx.push(twoKind, start)
		return
	}
	lx.push(oneKind, start)
}

func (lx *Lexer) skipLineComment() {
	for {
		ch, ok := lx.peek()
		if !ok || ch == '\n' {
			return
		}
		lx.bump()
	}
}

func (lx *Lexer) push(kind token.Kind, start uint32) {
	lx.pushText(kind, start, string(lx.file.Content[start:lx.cursor]))
}

func (lx *Lexer) pushText(kind token.Kind, start uint32, text string) {
	lx.tokens = append(lx.tokens, token.Token{
		Kind: kind,
		Span: lx.spanFrom(start),
		Text: text,
	})
}

func (lx *Lexer) spanFrom(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.cursor}
}

func (lx *Lexer) peek() (byte, bool) {
	if int(lx.cursor) >= len(lx.file.Content) {
		return 0, false
	}
	return lx.file.Content[lx.cursor], true
}

// peekByte returns 0 at EOF; fine for operator lookahead since NUL is never
// part of an operator.
func (lx *Lexer) peekByte() byte {
	b, _ := lx.peek()
	return b
}

func (lx *Lexer) peekAt(offset uint32) byte {
	pos := lx.cursor + offset
	if int(pos) >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[pos]
}

func (lx *Lexer) bump() {
	if int(lx.cursor) < len(lx.file.Content) {
		lx.cursor++
	}
}

func (lx *Lexer) bumpN(n int) {
	next, err := safecast.Conv[uint32](int(lx.cursor) + n)
	if err != nil {
		panic(fmt.Errorf("lexer cursor overflow: %w", err))
	}
	lx.cursor = next
	lenContent, err := safecast.Conv[uint32](len(lx.file.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if lx.cursor > lenContent {
		lx.cursor = lenContent
	}
}
