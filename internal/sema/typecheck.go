package sema

import (
	"fmt"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/source"
	"mica/internal/symbols"
	"mica/internal/types"
)

// bodyChecker checks one function body. It tracks the type environment by
// SymbolID and records the first use site of every effect the body needs.
type bodyChecker struct {
	c   *checker
	mod *symbols.ModuleInfo
	fn  *ast.Function
	sig *FuncSig

	env       map[symbols.SymbolID]types.TypeID
	used      map[types.EffectID]source.Span
	usedOrder []types.EffectID
}

func (c *checker) checkBody(mod *symbols.ModuleInfo, fn *ast.Function) {
	b := &bodyChecker{
		c:    c,
		mod:  mod,
		fn:   fn,
		sig:  c.res.Sigs[fn],
		env:  make(map[symbols.SymbolID]types.TypeID, len(fn.Params)+8),
		used: make(map[types.EffectID]source.Span, 2),
	}

	scope, _ := c.res.Table.FunctionScope(fn)
	for i, p := range fn.Params {
		if id, ok := c.res.Table.Arena.LookupLocal(scope, p.Name); ok {
			b.env[id] = b.sig.Params[i]
		}
	}

	got := b.block(fn.Body)
	b.checkReturn(got, fn.Body.Span)

	missing := types.NewEffectRow(b.usedOrder...).Missing(b.sig.Effects)
	for _, eff := range missing {
		name := c.res.Effects.Name(eff)
		diag.ReportError(c.reporter, diag.SemaMissingCapability, b.used[eff],
			"missing capability '"+name+"' in function '"+fn.Name+"'").
			WithNote(fn.Span, "declare it in the effect row of '"+fn.Name+"'").
			Emit()
	}
}

func (b *bodyChecker) useEffect(id types.EffectID, at source.Span) {
	if _, ok := b.used[id]; ok {
		return
	}
	b.used[id] = at
	b.usedOrder = append(b.usedOrder, id)
}

func (b *bodyChecker) checkReturn(got types.TypeID, at source.Span) {
	want := b.sig.Return
	if got == types.Unknown || want == types.Unknown || got == want {
		return
	}
	diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, at,
		fmt.Sprintf("function '%s' returns %s but its body produces %s",
			b.fn.Name, b.c.res.Types.Format(want), b.c.res.Types.Format(got))).Emit()
}

func (b *bodyChecker) block(blk *ast.Block) types.TypeID {
	result := b.c.res.Types.Builtins().Unit
	for i, stmt := range blk.Stmts {
		switch stmt.Kind {
		case ast.StmtLet:
			t := b.expr(stmt.Let.Value)
			if id, ok := b.c.res.Table.LetSym(stmt.Let); ok {
				b.env[id] = t
			}
		case ast.StmtReturn:
			if stmt.Expr != nil {
				b.checkReturn(b.expr(stmt.Expr), stmt.Span)
			}
		case ast.StmtExpr:
			t := b.expr(stmt.Expr)
			if i == len(blk.Stmts)-1 {
				result = t
			}
		}
	}
	return result
}

func (b *bodyChecker) setType(e *ast.Expr, t types.TypeID) types.TypeID {
	b.c.res.ExprTypes[e] = t
	return t
}

func (b *bodyChecker) expr(e *ast.Expr) types.TypeID {
	if e == nil {
		return types.Unknown
	}
	bi := b.c.res.Types.Builtins()
	switch e.Kind {
	case ast.ExprLit:
		return b.setType(e, b.litType(e.Lit))
	case ast.ExprPath:
		return b.setType(e, b.pathType(e))
	case ast.ExprUnary:
		operand := b.expr(e.Unary.Expr)
		switch e.Unary.Op {
		case ast.UnaryNot:
			return b.setType(e, bi.Bool)
		case ast.UnaryRef:
			return b.setType(e, b.c.res.Types.InternRef(operand, false))
		default:
			return b.setType(e, operand)
		}
	case ast.ExprBinary:
		return b.setType(e, b.binaryType(e))
	case ast.ExprAssign:
		b.expr(e.Assign.Target)
		b.expr(e.Assign.Value)
		return b.setType(e, bi.Unit)
	case ast.ExprCall:
		return b.setType(e, b.callType(e))
	case ast.ExprField:
		recv := b.expr(e.Field.Expr)
		if rec, ok := b.c.res.Types.Record(recv); ok {
			if idx := rec.FieldIndex(e.Field.Name); idx >= 0 {
				return b.setType(e, rec.Fields[idx].Type)
			}
			diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, e.Span,
				"no field '"+e.Field.Name+"' in record '"+rec.Name+"'").Emit()
		}
		return b.setType(e, types.Unknown)
	case ast.ExprIndex:
		b.expr(e.Index.Expr)
		b.expr(e.Index.Index)
		return b.setType(e, types.Unknown)
	case ast.ExprIf:
		cond := b.expr(e.If.Cond)
		if cond != types.Unknown && cond != bi.Bool {
			diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, e.If.Cond.Span,
				"if condition must be Bool, got "+b.c.res.Types.Format(cond)).Emit()
		}
		then := b.expr(e.If.Then)
		if e.If.Else == nil {
			return b.setType(e, bi.Unit)
		}
		return b.setType(e, merge(then, b.expr(e.If.Else)))
	case ast.ExprWhile:
		b.expr(e.While.Cond)
		b.expr(e.While.Body)
		return b.setType(e, bi.Unit)
	case ast.ExprLoop:
		b.expr(e.Loop.Body)
		return b.setType(e, bi.Unit)
	case ast.ExprFor:
		b.expr(e.For.Iterable)
		b.expr(e.For.Body)
		return b.setType(e, bi.Unit)
	case ast.ExprMatch:
		return b.setType(e, b.matchType(e))
	case ast.ExprBlock:
		return b.setType(e, b.block(e.Block))
	case ast.ExprSpawn:
		return b.setType(e, b.c.res.Types.InternTask(b.expr(e.Inner)))
	case ast.ExprAwait:
		inner := b.expr(e.Inner)
		if t, ok := b.c.res.Types.Lookup(inner); ok && t.Kind == types.KindTask {
			return b.setType(e, t.Elem)
		}
		return b.setType(e, types.Unknown)
	case ast.ExprChan:
		if e.Chan.Capacity != nil {
			b.expr(e.Chan.Capacity)
		}
		return b.setType(e, b.c.res.Types.InternChan(b.c.convert(e.Chan.Elem)))
	case ast.ExprUsing:
		b.expr(e.Using.Acquire)
		return b.setType(e, b.block(e.Using.Body))
	case ast.ExprTry:
		return b.setType(e, b.expr(e.Inner))
	case ast.ExprRecord:
		return b.setType(e, b.recordType(e))
	default:
		return b.setType(e, types.Unknown)
	}
}

func (b *bodyChecker) litType(lit *ast.Literal) types.TypeID {
	bi := b.c.res.Types.Builtins()
	switch lit.Kind {
	case ast.LitInt:
		return bi.Int
	case ast.LitFloat:
		return bi.Float
	case ast.LitBool:
		return bi.Bool
	case ast.LitString:
		return bi.String
	default:
		return bi.Unit
	}
}

func (b *bodyChecker) pathType(e *ast.Expr) types.TypeID {
	id, ok := b.c.res.Table.ResolutionOf(e)
	if !ok {
		if len(e.Path.Segments) == 1 {
			diag.ReportError(b.c.reporter, diag.SemaUnboundIdentifier, e.Span,
				"unbound identifier '"+e.Path.Segments[0]+"'").Emit()
		}
		return types.Unknown
	}
	sym := b.c.res.Table.Symbol(id)
	switch sym.Kind {
	case symbols.SymLocal, symbols.SymParam, symbols.SymCapability:
		if t, ok := b.env[id]; ok {
			return t
		}
		return types.Unknown
	case symbols.SymFunction:
		if sig, ok := b.c.res.Sigs[sym.Fn]; ok {
			return b.c.res.Types.InternFn(sig.Params, sig.Return, sig.Effects)
		}
	case symbols.SymVariant:
		// A bare fieldless constructor used as a value.
		if eid, ok := b.c.res.EnumOf[sym.Type]; ok {
			return eid
		}
	}
	return types.Unknown
}

func merge(a, c types.TypeID) types.TypeID {
	switch {
	case a == c:
		return a
	case a == types.Unknown:
		return c
	case c == types.Unknown:
		return a
	default:
		return types.Unknown
	}
}

func (b *bodyChecker) binaryType(e *ast.Expr) types.TypeID {
	bi := b.c.res.Types.Builtins()
	lhs := b.expr(e.Binary.Lhs)
	rhs := b.expr(e.Binary.Rhs)
	switch e.Binary.Op {
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv, ast.BinMod:
		if lhs != types.Unknown && rhs != types.Unknown && lhs != rhs {
			diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, e.Span,
				fmt.Sprintf("operator '%s' needs matching operand types, got %s and %s",
					e.Binary.Op, b.c.res.Types.Format(lhs), b.c.res.Types.Format(rhs))).Emit()
			return types.Unknown
		}
		return merge(lhs, rhs)
	case ast.BinAnd, ast.BinOr:
		for _, operand := range []types.TypeID{lhs, rhs} {
			if operand != types.Unknown && operand != bi.Bool {
				diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, e.Span,
					fmt.Sprintf("operator '%s' needs Bool operands, got %s",
						e.Binary.Op, b.c.res.Types.Format(operand))).Emit()
				break
			}
		}
		return bi.Bool
	default:
		return bi.Bool
	}
}

func (b *bodyChecker) recordType(e *ast.Expr) types.TypeID {
	name := e.Record.Type.String()
	id := b.c.convertName(name)
	rec, ok := b.c.res.Types.Record(id)
	if !ok {
		for _, f := range e.Record.Fields {
			b.expr(f.Value)
		}
		return types.Unknown
	}
	for _, f := range e.Record.Fields {
		got := b.expr(f.Value)
		idx := rec.FieldIndex(f.Name)
		if idx < 0 {
			diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, f.Span,
				"no field '"+f.Name+"' in record '"+rec.Name+"'").Emit()
			continue
		}
		want := rec.Fields[idx].Type
		if got != types.Unknown && want != types.Unknown && got != want {
			diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, f.Span,
				fmt.Sprintf("field '%s' of '%s' is %s, got %s",
					f.Name, rec.Name, b.c.res.Types.Format(want), b.c.res.Types.Format(got))).Emit()
		}
	}
	return id
}
