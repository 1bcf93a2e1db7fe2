package parser

import (
	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/source"
	"mica/internal/token"
)

func (p *Parser) parseTypeAlias(public bool, start source.Span) *ast.TypeAlias {
	alias := &ast.TypeAlias{Public: public, Name: p.expectIdent()}
	if p.eat(token.LBracket) {
		alias.Params = p.parseIdentList(token.RBracket, "type parameters")
	}
	p.expect(token.Assign, "expected '=' in type declaration")
	alias.Value = p.parseAliasValue()
	p.eat(token.Semicolon)
	alias.Span = start.Cover(p.prev().Span)
	return alias
}

// parseAliasValue distinguishes sum types from plain type expressions.
// `Red | Green` and `Done(Int)` declare variants; a bare name is an alias.
func (p *Parser) parseAliasValue() *ast.TypeExpr {
	start := p.cur().Span
	if p.at(token.Ident) && (p.peekKind(1) == token.Pipe || p.peekKind(1) == token.LParen) {
		return p.parseSumType(start)
	}
	return p.parseTypeExpr()
}

func (p *Parser) parseSumType(start source.Span) *ast.TypeExpr {
	sum := &ast.TypeExpr{Kind: ast.TypeSum, Span: start}
	for {
		vsp := p.cur().Span
		v := ast.Variant{Name: p.expectIdent()}
		if p.eat(token.LParen) {
			if !p.at(token.RParen) {
				for {
					v.Fields = append(v.Fields, p.parseTypeExpr())
					if p.eat(token.Comma) {
						continue
					}
					break
				}
			}
			p.expect(token.RParen, "expected ')' to close variant fields")
		}
		v.Span = vsp.Cover(p.prev().Span)
		sum.Variants = append(sum.Variants, v)
		if !p.eat(token.Pipe) {
			break
		}
	}
	sum.Span = start.Cover(p.prev().Span)
	return sum
}

func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.KwFn:
		p.advance()
		return p.parseFnType(start)
	case token.LBrace:
		p.advance()
		return p.parseRecordType(start)
	case token.Amp:
		p.advance()
		ref := &ast.TypeExpr{Kind: ast.TypeRef, Mutable: p.eat(token.KwMut)}
		ref.Elem = p.parseTypeExpr()
		ref.Span = start.Cover(p.prev().Span)
		return ref
	case token.LParen:
		p.advance()
		if p.eat(token.RParen) {
			return &ast.TypeExpr{Kind: ast.TypeUnit, Span: start.Cover(p.prev().Span)}
		}
		var items []*ast.TypeExpr
		for {
			items = append(items, p.parseTypeExpr())
			if p.eat(token.Comma) {
				continue
			}
			break
		}
		p.expect(token.RParen, "expected ')' in tuple type")
		if len(items) == 1 {
			return items[0]
		}
		return &ast.TypeExpr{Kind: ast.TypeTuple, Args: items, Span: start.Cover(p.prev().Span)}
	case token.Ident:
		name := p.advance().Text
		if p.eat(token.LBracket) {
			generic := &ast.TypeExpr{Kind: ast.TypeGeneric, Name: name}
			if !p.at(token.RBracket) {
				for {
					generic.Args = append(generic.Args, p.parseTypeExpr())
					if p.eat(token.Comma) {
						continue
					}
					break
				}
			}
			p.expect(token.RBracket, "expected ']' to close generic arguments")
			generic.Span = start.Cover(p.prev().Span)
			return generic
		}
		return &ast.TypeExpr{Kind: ast.TypeName, Name: name, Span: start}
	default:
		p.err(diag.SynExpectType, "expected type expression")
		p.advance()
		return &ast.TypeExpr{Kind: ast.TypeInvalid, Span: start}
	}
}

func (p *Parser) parseFnType(start source.Span) *ast.TypeExpr {
	fn := &ast.FnType{}
	p.expect(token.LParen, "expected '(' after 'fn' in function type")
	if !p.at(token.RParen) {
		for {
			fn.Params = append(fn.Params, p.parseTypeExpr())
			if p.eat(token.Comma) {
				continue
			}
			break
		}
	}
	p.expect(token.RParen, "expected ')' after function type parameters")
	p.expect(token.Arrow, "expected '->' in function type")
	fn.Return = p.parseTypeExpr()
	fn.Effects = p.parseEffectRow()
	return &ast.TypeExpr{Kind: ast.TypeFn, Fn: fn, Span: start.Cover(p.prev().Span)}
}

func (p *Parser) parseRecordType(start source.Span) *ast.TypeExpr {
	rec := &ast.TypeExpr{Kind: ast.TypeRecord}
	if !p.at(token.RBrace) {
		for {
			fsp := p.cur().Span
			field := ast.FieldDecl{Name: p.expectIdent()}
			p.expect(token.Colon, "expected ':' in record type field")
			field.Type = p.parseTypeExpr()
			field.Span = fsp.Cover(p.prev().Span)
			rec.Fields = append(rec.Fields, field)
			if p.eat(token.Comma) {
				continue
			}
			break
		}
	}
	p.expect(token.RBrace, "expected '}' to close record type")
	rec.Span = start.Cover(p.prev().Span)
	return rec
}
