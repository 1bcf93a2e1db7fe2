package parser

import (
	"fmt"
	"strconv"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/source"
	"mica/internal/token"
)

func (p *Parser) parseExpr() *ast.Expr {
	return p.parseAssign()
}

func (p *Parser) parseAssign() *ast.Expr {
	expr := p.parseBinary(0)
	if p.at(token.Assign) {
		start := expr.Span
		p.advance()
		value := p.parseAssign()
		return &ast.Expr{
			Kind:   ast.ExprAssign,
			Span:   start.Cover(value.Span),
			Assign: &ast.AssignExpr{Target: expr, Value: value},
		}
	}
	return expr
}

// binOpFor maps a token to its binary operator and precedence level.
// Higher binds tighter.
func binOpFor(kind token.Kind) (ast.BinaryOp, int, bool) {
	switch kind {
	case token.OrOr:
		return ast.BinOr, 1, true
	case token.AndAnd:
		return ast.BinAnd, 2, true
	case token.EqEq:
		return ast.BinEq, 3, true
	case token.BangEq:
		return ast.BinNe, 3, true
	case token.Lt:
		return ast.BinLt, 4, true
	case token.LtEq:
		return ast.BinLe, 4, true
	case token.Gt:
		return ast.BinGt, 4, true
	case token.GtEq:
		return ast.BinGe, 4, true
	case token.Plus:
		return ast.BinAdd, 5, true
	case token.Minus:
		return ast.BinSub, 5, true
	case token.Star:
		return ast.BinMul, 6, true
	case token.Slash:
		return ast.BinDiv, 6, true
	case token.Percent:
		return ast.BinMod, 6, true
	default:
		return 0, 0, false
	}
}

// parseBinary is a precedence climber over binOpFor. All binary operators
// are left-associative.
func (p *Parser) parseBinary(minPrec int) *ast.Expr {
	lhs := p.parseUnary()
	for {
		op, prec, ok := binOpFor(p.cur().Kind)
		if !ok || prec < minPrec {
			return lhs
		}
		p.advance()
		rhs := p.parseBinary(prec + 1)
		lhs = &ast.Expr{
			Kind:   ast.ExprBinary,
			Span:   lhs.Span.Cover(rhs.Span),
			Binary: &ast.BinaryExpr{Op: op, Lhs: lhs, Rhs: rhs},
		}
	}
}

func (p *Parser) parseUnary() *ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.Bang:
		p.advance()
		inner := p.parseUnary()
		return unary(ast.UnaryNot, inner, start)
	case token.Minus:
		p.advance()
		inner := p.parseUnary()
		return unary(ast.UnaryNeg, inner, start)
	case token.Amp:
		p.advance()
		inner := p.parseUnary()
		return unary(ast.UnaryRef, inner, start)
	case token.KwAwait:
		p.advance()
		inner := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprAwait, Span: start.Cover(inner.Span), Inner: inner}
	case token.KwSpawn:
		p.advance()
		inner := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprSpawn, Span: start.Cover(inner.Span), Inner: inner}
	default:
		return p.parsePostfix()
	}
}

func unary(op ast.UnaryOp, inner *ast.Expr, start source.Span) *ast.Expr {
	return &ast.Expr{
		Kind:  ast.ExprUnary,
		Span:  start.Cover(inner.Span),
		Unary: &ast.UnaryExpr{Op: op, Expr: inner},
	}
}

func (p *Parser) parsePostfix() *ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LParen:
			p.advance()
			call := &ast.CallExpr{Callee: expr}
			if !p.at(token.RParen) {
				for {
					call.Args = append(call.Args, p.parseExpr())
					if p.eat(token.Comma) {
						continue
					}
					break
				}
			}
			p.expect(token.RParen, "expected ')' after call arguments")
			expr = &ast.Expr{Kind: ast.ExprCall, Span: expr.Span.Cover(p.prev().Span), Call: call}
		case token.Dot:
			p.advance()
			name := p.expectIdent()
			expr = &ast.Expr{
				Kind:  ast.ExprField,
				Span:  expr.Span.Cover(p.prev().Span),
				Field: &ast.FieldExpr{Expr: expr, Name: name},
			}
		case token.LBracket:
			p.advance()
			index := p.parseExpr()
			p.expect(token.RBracket, "expected ']' after index expression")
			expr = &ast.Expr{
				Kind:  ast.ExprIndex,
				Span:  expr.Span.Cover(p.prev().Span),
				Index: &ast.IndexExpr{Expr: expr, Index: index},
			}
		case token.Question:
			p.advance()
			expr = &ast.Expr{Kind: ast.ExprTry, Span: expr.Span.Cover(p.prev().Span), Inner: expr}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() *ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.IntLit:
		tok := p.advance()
		value, parseErr := strconv.ParseInt(tok.Text, 10, 64)
		if parseErr != nil {
			diag.ReportError(p.reporter, diag.LexBadNumber, tok.Span,
				fmt.Sprintf("integer literal %q out of range", tok.Text)).Emit()
		}
		return litExpr(&ast.Literal{Kind: ast.LitInt, Int: value}, tok.Span)
	case token.FloatLit:
		tok := p.advance()
		value, parseErr := strconv.ParseFloat(tok.Text, 64)
		if parseErr != nil {
			diag.ReportError(p.reporter, diag.LexBadNumber, tok.Span,
				fmt.Sprintf("float literal %q out of range", tok.Text)).Emit()
		}
		return litExpr(&ast.Literal{Kind: ast.LitFloat, Float: value}, tok.Span)
	case token.StringLit:
		tok := p.advance()
		return litExpr(&ast.Literal{Kind: ast.LitString, Str: tok.Text}, tok.Span)
	case token.BoolLit:
		tok := p.advance()
		return litExpr(&ast.Literal{Kind: ast.LitBool, Bool: tok.Text == "true"}, tok.Span)
	case token.Ident:
		return p.parsePathOrRecord()
	case token.LParen:
		p.advance()
		if p.eat(token.RParen) {
			return litExpr(&ast.Literal{Kind: ast.LitUnit}, start.Cover(p.prev().Span))
		}
		expr := p.parseExpr()
		p.expect(token.RParen, "expected ')' to close grouping expression")
		return expr
	case token.KwIf:
		return p.parseIf()
	case token.KwLoop:
		p.advance()
		body := p.blockExpr()
		return &ast.Expr{Kind: ast.ExprLoop, Span: start.Cover(body.Span), Loop: &ast.LoopExpr{Body: body}}
	case token.KwWhile:
		p.advance()
		cond := p.parseExpr()
		body := p.blockExpr()
		return &ast.Expr{Kind: ast.ExprWhile, Span: start.Cover(body.Span), While: &ast.WhileExpr{Cond: cond, Body: body}}
	case token.KwFor:
		p.advance()
		binding := p.expectIdent()
		p.expect(token.KwIn, "expected 'in' in for loop")
		iterable := p.parseExpr()
		body := p.blockExpr()
		return &ast.Expr{
			Kind: ast.ExprFor,
			Span: start.Cover(body.Span),
			For:  &ast.ForExpr{Binding: binding, Iterable: iterable, Body: body},
		}
	case token.KwMatch:
		return p.parseMatch()
	case token.KwChan:
		return p.parseChan()
	case token.KwUsing:
		return p.parseUsing()
	case token.LBrace:
		return p.blockExpr()
	default:
		p.err(diag.SynExpectExpression,
			fmt.Sprintf("unexpected %s in expression", p.cur().Kind))
		p.advance()
		return &ast.Expr{Kind: ast.ExprInvalid, Span: start}
	}
}

func litExpr(lit *ast.Literal, span source.Span) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprLit, Span: span, Lit: lit}
}

// parsePathOrRecord parses a path expression, promoting it to a record
// literal when followed by `{ ident: ...`. The two-token lookahead keeps
// `if x { ... }` unambiguous.
func (p *Parser) parsePathOrRecord() *ast.Expr {
	start := p.cur().Span
	path := p.parsePathExpr()
	if p.at(token.LBrace) && p.peekKind(1) == token.Ident && p.peekKind(2) == token.Colon {
		p.advance() // {
		rec := &ast.RecordExpr{Type: path}
		for {
			fsp := p.cur().Span
			field := ast.RecordField{Name: p.expectIdent()}
			p.expect(token.Colon, "expected ':' in record literal field")
			field.Value = p.parseExpr()
			field.Span = fsp.Cover(p.prev().Span)
			rec.Fields = append(rec.Fields, field)
			if p.eat(token.Comma) {
				if p.at(token.RBrace) {
					break
				}
				continue
			}
			break
		}
		p.expect(token.RBrace, "expected '}' to close record literal")
		return &ast.Expr{Kind: ast.ExprRecord, Span: start.Cover(p.prev().Span), Record: rec}
	}
	return &ast.Expr{Kind: ast.ExprPath, Span: path.Span, Path: path}
}

// parsePathExpr accepts '.' and '::' interchangeably as segment separators.
// A path head eats its own dots, so postfix field access only applies to
// non-path heads (call results, index results, and so on).
func (p *Parser) parsePathExpr() *ast.Path {
	start := p.cur().Span
	path := &ast.Path{Segments: []string{p.expectIdent()}}
	for (p.at(token.ColonColon) || p.at(token.Dot)) && p.peekKind(1) == token.Ident {
		p.advance()
		path.Segments = append(path.Segments, p.expectIdent())
	}
	path.Span = start.Cover(p.prev().Span)
	return path
}

func (p *Parser) blockExpr() *ast.Expr {
	block := p.parseBlock()
	return &ast.Expr{Kind: ast.ExprBlock, Span: block.Span, Block: block}
}

func (p *Parser) parseIf() *ast.Expr {
	start := p.cur().Span
	p.expect(token.KwIf, "expected 'if'")
	cond := p.parseExpr()
	then := p.blockExpr()
	ifExpr := &ast.IfExpr{Cond: cond, Then: then}
	end := then.Span
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			ifExpr.Else = p.parseIf()
		} else {
			ifExpr.Else = p.blockExpr()
		}
		end = ifExpr.Else.Span
	}
	return &ast.Expr{Kind: ast.ExprIf, Span: start.Cover(end), If: ifExpr}
}

func (p *Parser) parseMatch() *ast.Expr {
	start := p.cur().Span
	p.expect(token.KwMatch, "expected 'match'")
	match := &ast.MatchExpr{Scrutinee: p.parseExpr()}
	p.expect(token.LBrace, "expected '{' to start match arms")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		asp := p.cur().Span
		arm := ast.MatchArm{Pattern: p.parsePattern()}
		if p.eat(token.KwIf) {
			arm.Guard = p.parseExpr()
		}
		p.expect(token.FatArrow, "expected '=>' in match arm")
		arm.Body = p.parseExpr()
		arm.Span = asp.Cover(p.prev().Span)
		match.Arms = append(match.Arms, arm)
		if p.eat(token.Comma) {
			continue
		}
		break
	}
	p.expect(token.RBrace, "expected '}' to close match")
	return &ast.Expr{Kind: ast.ExprMatch, Span: start.Cover(p.prev().Span), Match: match}
}

func (p *Parser) parsePattern() *ast.Pattern {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.Ident:
		if p.cur().Text == "_" {
			p.advance()
			return &ast.Pattern{Kind: ast.PatWildcard, Span: start}
		}
		path := p.parsePathExpr()
		if p.eat(token.LParen) {
			pat := &ast.Pattern{Kind: ast.PatVariant, Path: path}
			if !p.at(token.RParen) {
				for {
					pat.Fields = append(pat.Fields, p.parsePattern())
					if p.eat(token.Comma) {
						continue
					}
					break
				}
			}
			p.expect(token.RParen, "expected ')' in variant pattern")
			pat.Span = start.Cover(p.prev().Span)
			return pat
		}
		if len(path.Segments) == 1 {
			// A bare name is a binding; the checker decides later whether it
			// actually names a variant of the scrutinee's type.
			return &ast.Pattern{Kind: ast.PatBinding, Name: path.Segments[0], Span: path.Span}
		}
		return &ast.Pattern{Kind: ast.PatVariant, Path: path, Span: path.Span}
	case token.BoolLit:
		tok := p.advance()
		return &ast.Pattern{Kind: ast.PatLiteral, Span: tok.Span,
			Lit: &ast.Literal{Kind: ast.LitBool, Bool: tok.Text == "true"}}
	case token.IntLit:
		tok := p.advance()
		value, _ := strconv.ParseInt(tok.Text, 10, 64)
		return &ast.Pattern{Kind: ast.PatLiteral, Span: tok.Span,
			Lit: &ast.Literal{Kind: ast.LitInt, Int: value}}
	case token.StringLit:
		tok := p.advance()
		return &ast.Pattern{Kind: ast.PatLiteral, Span: tok.Span,
			Lit: &ast.Literal{Kind: ast.LitString, Str: tok.Text}}
	default:
		p.err(diag.SynBadPattern, "unsupported pattern")
		p.advance()
		return &ast.Pattern{Kind: ast.PatInvalid, Span: start}
	}
}

// parseChan parses chan[T] with an optional capacity: chan[Int](8).
func (p *Parser) parseChan() *ast.Expr {
	start := p.cur().Span
	p.expect(token.KwChan, "expected 'chan'")
	p.expect(token.LBracket, "expected '[' after 'chan'")
	ch := &ast.ChanExpr{Elem: p.parseTypeExpr()}
	p.expect(token.RBracket, "expected ']' after channel element type")
	if p.eat(token.LParen) {
		if !p.at(token.RParen) {
			ch.Capacity = p.parseExpr()
		}
		p.expect(token.RParen, "expected ')' after channel capacity")
	}
	return &ast.Expr{Kind: ast.ExprChan, Span: start.Cover(p.prev().Span), Chan: ch}
}

func (p *Parser) parseUsing() *ast.Expr {
	start := p.cur().Span
	p.expect(token.KwUsing, "expected 'using'")
	using := &ast.UsingExpr{Acquire: p.parseExpr()}
	using.Body = p.parseBlock()
	return &ast.Expr{Kind: ast.ExprUsing, Span: start.Cover(p.prev().Span), Using: using}
}
