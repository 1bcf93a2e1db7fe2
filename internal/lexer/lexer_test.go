package lexer_test

import (
	"testing"

	"mica/internal/diag"
	"mica/internal/lexer"
	"mica/internal/source"
	"mica/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mica", []byte(src))
	bag := diag.NewBag(16)
	toks := lexer.Tokenize(fs.Get(id), diag.BagReporter{Bag: bag})
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeFunctionHeader(t *testing.T) {
	toks, bag := lex(t, "fn orchestrate(job_id: Int) -> TaskResult !{io, net} {}")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{
		token.KwFn, token.Ident, token.LParen, token.Ident, token.Colon,
		token.Ident, token.RParen, token.Arrow, token.Ident, token.Bang,
		token.LBrace, token.Ident, token.Comma, token.Ident, token.RBrace,
		token.LBrace, token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	toks, bag := lex(t, ":: -> => == != <= >= && || ? ! . ;")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{
		token.ColonColon, token.Arrow, token.FatArrow, token.EqEq,
		token.BangEq, token.LtEq, token.GtEq, token.AndAnd, token.OrOr,
		token.Question, token.Bang, token.Dot, token.Semicolon, token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	toks, bag := lex(t, "1_000 3.14 2e10 7")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[0].Kind != token.IntLit || toks[0].Text != "1000" {
		t.Fatalf("toks[0] = %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.FloatLit || toks[1].Text != "3.14" {
		t.Fatalf("toks[1] = %v %q", toks[1].Kind, toks[1].Text)
	}
	if toks[2].Kind != token.FloatLit {
		t.Fatalf("toks[2] = %v, want float", toks[2].Kind)
	}
	if toks[3].Kind != token.IntLit || toks[3].Text != "7" {
		t.Fatalf("toks[3] = %v %q", toks[3].Kind, toks[3].Text)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, bag := lex(t, `"log\n\t\"x\""`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[0].Kind != token.StringLit || toks[0].Text != "log\n\t\"x\"" {
		t.Fatalf("decoded string = %q", toks[0].Text)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, bag := lex(t, `"oops`)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
}

func TestTokenizeUnknownChar(t *testing.T) {
	toks, bag := lex(t, "let x = 1 # 2")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
	// Lexing continues past the bad character.
	last := toks[len(toks)-2]
	if last.Kind != token.IntLit || last.Text != "2" {
		t.Fatalf("last token = %v %q", last.Kind, last.Text)
	}
}

func TestTokenizeCommentsSkipped(t *testing.T) {
	toks, bag := lex(t, "let a = 1 // trailing\n// whole line\nlet b = 2")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	count := 0
	for _, tok := range toks {
		if tok.Kind == token.KwLet {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("let count = %d, want 2", count)
	}
}
