package sema

import (
	"fmt"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/symbols"
	"mica/internal/types"
)

// callType checks one call expression. Depending on what the callee
// resolved to this is a function call, a variant construction, or an
// external call judged only by the capabilities flowing into it.
func (b *bodyChecker) callType(e *ast.Expr) types.TypeID {
	call := e.Call

	// Method form: receiver-first desugaring happens in HIR, but the
	// effect of calling through a capability is accounted here.
	if call.Callee.Kind == ast.ExprField {
		b.captureCapability(call.Callee.Field.Expr)
		b.expr(call.Callee.Field.Expr)
		b.c.res.ExprTypes[call.Callee] = types.Unknown
		for _, a := range call.Args {
			b.captureCapability(a)
			b.expr(a)
		}
		return types.Unknown
	}

	if call.Callee.Kind != ast.ExprPath {
		b.expr(call.Callee)
		for _, a := range call.Args {
			b.expr(a)
		}
		return types.Unknown
	}

	id, resolved := b.c.res.Table.ResolutionOf(call.Callee)
	if !resolved {
		return b.externalCall(e)
	}
	sym := b.c.res.Table.Symbol(id)
	b.c.res.ExprTypes[call.Callee] = types.Unknown

	switch sym.Kind {
	case symbols.SymVariant:
		return b.variantCall(e, sym)
	case symbols.SymFunction:
		return b.functionCall(e, sym)
	default:
		b.expr(call.Callee)
		for _, a := range call.Args {
			b.expr(a)
		}
		return types.Unknown
	}
}

func (b *bodyChecker) variantCall(e *ast.Expr, sym *symbols.Symbol) types.TypeID {
	enumID := b.c.res.EnumOf[sym.Type]
	info, ok := b.c.res.Types.Enum(enumID)
	if !ok {
		return types.Unknown
	}
	variant := info.Variants[sym.Variant]
	args := e.Call.Args
	if len(args) != len(variant.Fields) {
		diag.ReportError(b.c.reporter, diag.SemaArityMismatch, e.Span,
			fmt.Sprintf("variant '%s::%s' takes %d arguments, got %d",
				info.Name, variant.Name, len(variant.Fields), len(args))).Emit()
	}
	for i, a := range args {
		got := b.expr(a)
		if i >= len(variant.Fields) {
			continue
		}
		want := variant.Fields[i]
		if got != types.Unknown && want != types.Unknown && got != want {
			diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, a.Span,
				fmt.Sprintf("argument %d of '%s::%s' is %s, got %s",
					i+1, info.Name, variant.Name,
					b.c.res.Types.Format(want), b.c.res.Types.Format(got))).Emit()
		}
	}
	return enumID
}

func (b *bodyChecker) functionCall(e *ast.Expr, sym *symbols.Symbol) types.TypeID {
	sig, ok := b.c.res.Sigs[sym.Fn]
	if !ok {
		return types.Unknown
	}
	args := e.Call.Args
	if len(args) != len(sig.Params) {
		diag.ReportError(b.c.reporter, diag.SemaArityMismatch, e.Span,
			fmt.Sprintf("function '%s' takes %d arguments, got %d",
				sig.Name, len(sig.Params), len(args))).Emit()
	}
	for i, a := range args {
		got := b.expr(a)
		if i >= len(sig.Params) {
			continue
		}
		want := sig.Params[i]
		if got != types.Unknown && want != types.Unknown && got != want {
			diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, a.Span,
				fmt.Sprintf("argument %d of '%s' is %s, got %s",
					i+1, sig.Name, b.c.res.Types.Format(want), b.c.res.Types.Format(got))).Emit()
		}
	}
	for _, eff := range sig.Effects {
		b.useEffect(eff, e.Span)
	}
	return sig.Return
}

// externalCall handles calls whose callee resolved nowhere, like
// `network::fetch(job_id, net)`. The required effects are exactly the
// capabilities passed as arguments.
func (b *bodyChecker) externalCall(e *ast.Expr) types.TypeID {
	for _, a := range e.Call.Args {
		b.captureCapability(a)
		b.expr(a)
	}
	b.c.res.ExprTypes[e.Call.Callee] = types.Unknown
	return types.Unknown
}

// captureCapability records an effect use when the expression names a
// capability parameter.
func (b *bodyChecker) captureCapability(e *ast.Expr) {
	if e == nil || e.Kind != ast.ExprPath {
		return
	}
	id, ok := b.c.res.Table.ResolutionOf(e)
	if !ok {
		return
	}
	sym := b.c.res.Table.Symbol(id)
	if sym.Kind != symbols.SymCapability {
		return
	}
	b.useEffect(b.c.res.Effects.Intern(sym.Effect), e.Span)
}
