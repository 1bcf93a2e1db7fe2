// Package parser turns a token stream into an ast.Module.
//
// The parser is a hand-written recursive descent machine. It never aborts:
// syntax problems are reported through the diag.Reporter and parsing
// resynchronizes at the next plausible boundary so one run surfaces as many
// problems as possible.
package parser

import (
	"fmt"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/lexer"
	"mica/internal/source"
	"mica/internal/token"
)

// Parser consumes tokens for a single file.
type Parser struct {
	toks     []token.Token
	pos      int
	reporter diag.Reporter
}

// New creates a parser over a pre-lexed token stream.
func New(toks []token.Token, reporter diag.Reporter) *Parser {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Parser{toks: toks, reporter: reporter}
}

// ParseFile lexes and parses a file in one call.
func ParseFile(file *source.File, reporter diag.Reporter) *ast.Module {
	toks := lexer.Tokenize(file, reporter)
	return New(toks, reporter).ParseModule()
}

// ParseModule parses `module a.b` followed by top-level items.
func (p *Parser) ParseModule() *ast.Module {
	m := &ast.Module{Span: p.cur().Span}

	if p.at(token.KwModule) {
		p.advance()
		m.Name = p.parseModulePath()
	} else {
		p.err(diag.SynExpectModuleHeader, "expected 'module' at top of file")
	}

	for !p.at(token.EOF) {
		item := p.parseItem()
		if item != nil {
			m.Items = append(m.Items, item)
		}
	}
	if len(m.Items) > 0 {
		m.Span = m.Span.Cover(m.Items[len(m.Items)-1].Span)
	}
	return m
}

func (p *Parser) parseItem() *ast.Item {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.KwUse:
		p.advance()
		use := p.parseUseDecl()
		p.expect(token.Semicolon, "expected ';' after use declaration")
		return &ast.Item{Kind: ast.ItemUse, Span: start.Cover(p.prev().Span), Use: use}
	case token.KwType:
		p.advance()
		alias := p.parseTypeAlias(false, start)
		return &ast.Item{Kind: ast.ItemTypeAlias, Span: alias.Span, Type: alias}
	case token.KwFn:
		p.advance()
		fn := p.parseFunction(false, start)
		return &ast.Item{Kind: ast.ItemFunction, Span: fn.Span, Fn: fn}
	case token.KwPub:
		p.advance()
		switch p.cur().Kind {
		case token.KwFn:
			p.advance()
			fn := p.parseFunction(true, start)
			return &ast.Item{Kind: ast.ItemFunction, Span: fn.Span, Fn: fn}
		case token.KwType:
			p.advance()
			alias := p.parseTypeAlias(true, start)
			return &ast.Item{Kind: ast.ItemTypeAlias, Span: alias.Span, Type: alias}
		default:
			p.err(diag.SynUnexpectedItem, "expected 'fn' or 'type' after 'pub'")
			p.syncItem()
			return nil
		}
	default:
		p.err(diag.SynUnexpectedItem,
			fmt.Sprintf("unexpected %s at top level", p.cur().Kind))
		p.syncItem()
		return nil
	}
}

func (p *Parser) parseUseDecl() *ast.UseDecl {
	start := p.cur().Span
	use := &ast.UseDecl{Path: p.parseModulePath()}
	if p.eat(token.KwAs) {
		use.Alias = p.expectIdent()
	}
	use.Span = start.Cover(p.prev().Span)
	return use
}

func (p *Parser) parseModulePath() []string {
	segs := []string{p.expectIdent()}
	for p.eat(token.Dot) {
		segs = append(segs, p.expectIdent())
	}
	return segs
}

func (p *Parser) parseIdentList(close token.Kind, what string) []string {
	var names []string
	if !p.at(close) {
		for {
			names = append(names, p.expectIdent())
			if p.eat(token.Comma) {
				continue
			}
			break
		}
	}
	p.expect(close, "expected closing "+close.String()+" in "+what)
	return names
}

// parseEffectRow parses `!{a, b}` after a signature. Returns nil when the
// function declares no effects.
func (p *Parser) parseEffectRow() []ast.EffectRef {
	if !p.eat(token.Bang) {
		return nil
	}
	p.expect(token.LBrace, "expected '{' after '!' to open effect row")
	var row []ast.EffectRef
	if !p.at(token.RBrace) {
		for {
			sp := p.cur().Span
			row = append(row, ast.EffectRef{Name: p.expectIdent(), Span: sp})
			if p.eat(token.Comma) {
				continue
			}
			break
		}
	}
	p.expect(token.RBrace, "expected '}' to close effect row")
	return row
}

func (p *Parser) parseFunction(public bool, start source.Span) *ast.Function {
	fn := &ast.Function{Public: public, Name: p.expectIdent()}

	if p.eat(token.LBracket) {
		fn.Generics = p.parseIdentList(token.RBracket, "generic parameters")
	}

	p.expect(token.LParen, "expected '(' to open parameter list")
	if !p.at(token.RParen) {
		for {
			psp := p.cur().Span
			param := ast.Param{Mutable: p.eat(token.KwMut)}
			param.Name = p.expectIdent()
			p.expect(token.Colon, "expected ':' after parameter name")
			param.Type = p.parseTypeExpr()
			param.Span = psp.Cover(p.prev().Span)
			fn.Params = append(fn.Params, param)
			if p.eat(token.Comma) {
				continue
			}
			break
		}
	}
	p.expect(token.RParen, "expected ')' to close parameter list")

	if p.eat(token.Arrow) {
		fn.Return = p.parseTypeExpr()
	}
	fn.Effects = p.parseEffectRow()
	fn.Body = p.parseBlock()
	fn.Span = start.Cover(p.prev().Span)
	return fn
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur().Span
	block := &ast.Block{Span: start}
	if _, ok := p.expect(token.LBrace, "expected '{' to start block"); !ok {
		return block
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		block.Stmts = append(block.Stmts, p.parseStmt())
	}
	p.expect(token.RBrace, "expected '}' to close block")
	block.Span = start.Cover(p.prev().Span)
	return block
}

func (p *Parser) parseStmt() *ast.Stmt {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.KwLet:
		p.advance()
		let := &ast.LetStmt{Mutable: p.eat(token.KwMut)}
		let.Name = p.expectIdent()
		p.expect(token.Assign, "expected '=' in let binding")
		let.Value = p.parseExpr()
		p.eat(token.Semicolon)
		let.Span = start.Cover(p.prev().Span)
		return &ast.Stmt{Kind: ast.StmtLet, Span: let.Span, Let: let}
	case token.KwReturn:
		p.advance()
		if p.eat(token.Semicolon) {
			return &ast.Stmt{Kind: ast.StmtReturn, Span: start}
		}
		expr := p.parseExpr()
		p.eat(token.Semicolon)
		return &ast.Stmt{Kind: ast.StmtReturn, Span: start.Cover(p.prev().Span), Expr: expr}
	case token.KwBreak:
		p.advance()
		p.eat(token.Semicolon)
		return &ast.Stmt{Kind: ast.StmtBreak, Span: start}
	case token.KwContinue:
		p.advance()
		p.eat(token.Semicolon)
		return &ast.Stmt{Kind: ast.StmtContinue, Span: start}
	default:
		expr := p.parseExpr()
		p.eat(token.Semicolon)
		return &ast.Stmt{Kind: ast.StmtExpr, Span: expr.Span, Expr: expr}
	}
}

// Cursor helpers -------------------------------------------------------------

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) peekKind(offset int) token.Kind {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return token.EOF
	}
	return p.toks[idx].Kind
}

func (p *Parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) eat(kind token.Kind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind, msg string) (token.Token, bool) {
	if p.at(kind) {
		return p.advance(), true
	}
	p.err(diag.SynUnexpectedToken, msg)
	return p.cur(), false
}

func (p *Parser) expectIdent() string {
	if p.at(token.Ident) {
		return p.advance().Text
	}
	p.err(diag.SynExpectIdentifier,
		fmt.Sprintf("expected identifier, found %s", p.cur().Kind))
	return ""
}

func (p *Parser) err(code diag.Code, msg string) {
	diag.ReportError(p.reporter, code, p.cur().Span, msg).Emit()
}

// syncItem skips tokens until the next plausible item start.
func (p *Parser) syncItem() {
	for {
		switch p.cur().Kind {
		case token.EOF, token.KwFn, token.KwType, token.KwUse, token.KwPub:
			return
		}
		p.advance()
	}
}
