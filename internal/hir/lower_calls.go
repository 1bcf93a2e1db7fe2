package hir

import (
	"mica/internal/ast"
	"mica/internal/symbols"
	"mica/internal/types"
)

func (l *lowerer) call(e *ast.Expr) *Expr {
	t := l.res.TypeOf(e)
	call := e.Call

	// Method form desugars receiver-first: `io.println(x)` becomes
	// `println(io, x)`.
	if call.Callee.Kind == ast.ExprField {
		args := make([]*Expr, 0, len(call.Args)+1)
		args = append(args, l.expr(call.Callee.Field.Expr))
		for _, a := range call.Args {
			args = append(args, l.expr(a))
		}
		out := &Expr{Kind: ExprCall, Type: t, Call: &Call{
			Callee: call.Callee.Field.Name,
			Args:   args,
		}}
		if row, ok := l.capabilityRow(call.Callee.Field.Expr); ok {
			out.Call.Effects = row
			out.Call.EffectsKnown = true
		}
		return out
	}

	if call.Callee.Kind != ast.ExprPath {
		args := make([]*Expr, len(call.Args))
		for i, a := range call.Args {
			args[i] = l.expr(a)
		}
		return l.opaque(t, "<expr>", args...)
	}

	args := make([]*Expr, len(call.Args))
	for i, a := range call.Args {
		args[i] = l.expr(a)
	}

	id, resolved := l.res.Table.ResolutionOf(call.Callee)
	if !resolved {
		out := l.opaque(t, call.Callee.Path.String(), args...)
		out.Call.Effects = l.argCapabilities(call.Args)
		return out
	}
	sym := l.res.Table.Symbol(id)
	switch sym.Kind {
	case symbols.SymFunction:
		sig := l.res.Sigs[sym.Fn]
		return &Expr{Kind: ExprCall, Type: t, Call: &Call{
			Callee:       sym.Name,
			Args:         args,
			Effects:      sig.Effects,
			EffectsKnown: true,
		}}
	case symbols.SymVariant:
		// Constructing a value never performs effects.
		return l.intrinsic(t, sym.Type.Name+"::"+sym.Name, args...)
	default:
		return l.opaque(t, sym.Name, args...)
	}
}

// capabilityRow returns the singleton effect row of a capability
// reference.
func (l *lowerer) capabilityRow(e *ast.Expr) (types.EffectRow, bool) {
	if e == nil || e.Kind != ast.ExprPath {
		return nil, false
	}
	id, ok := l.res.Table.ResolutionOf(e)
	if !ok {
		return nil, false
	}
	sym := l.res.Table.Symbol(id)
	if sym.Kind != symbols.SymCapability {
		return nil, false
	}
	eff := l.res.Effects.Intern(sym.Effect)
	return types.NewEffectRow(eff), true
}

// argCapabilities collects the effects of every capability argument.
func (l *lowerer) argCapabilities(args []*ast.Expr) types.EffectRow {
	var ids []types.EffectID
	for _, a := range args {
		if row, ok := l.capabilityRow(a); ok {
			ids = append(ids, row...)
		}
	}
	return types.NewEffectRow(ids...)
}

// using lowers `using acq { body }` into a block that binds the acquired
// resource and runs a cleanup call on every exit path. Early returns inside
// the body pick up the cleanup through the lowerer's cleanups stack.
func (l *lowerer) using(e *ast.Expr) *Expr {
	t := l.res.TypeOf(e)
	resource := l.fresh("using")

	acquire := l.expr(e.Using.Acquire)
	l.cleanups = append(l.cleanups, resource)
	body := l.block(e.Using.Body)
	l.cleanups = l.cleanups[:len(l.cleanups)-1]

	out := &Block{}
	out.Stmts = append(out.Stmts, &Stmt{Kind: StmtLet, Name: resource, Value: acquire})

	stmts := body.Stmts
	var value *Expr
	if v := body.Value(); v != nil {
		value = v
		stmts = stmts[:len(stmts)-1]
	}
	out.Stmts = append(out.Stmts, stmts...)

	if value != nil {
		result := l.fresh("val")
		out.Stmts = append(out.Stmts, &Stmt{Kind: StmtLet, Name: result, Value: value})
		out.Stmts = append(out.Stmts, l.cleanupStmt(resource))
		out.Stmts = append(out.Stmts, &Stmt{Kind: StmtExpr, Value: &Expr{
			Kind: ExprVar,
			Type: value.Type,
			Var:  result,
		}})
	} else {
		out.Stmts = append(out.Stmts, l.cleanupStmt(resource))
	}
	return &Expr{Kind: ExprBlock, Type: t, Block: out}
}
