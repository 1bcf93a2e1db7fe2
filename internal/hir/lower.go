package hir

import (
	"fmt"

	"mica/internal/ast"
	"mica/internal/sema"
	"mica/internal/symbols"
	"mica/internal/types"
)

// Lower desugars every checked module. Lowering is total: it never fails,
// because the checker already reported anything worth reporting.
func Lower(res *sema.Result) []*Module {
	out := make([]*Module, 0, len(res.Table.Modules))
	for _, mod := range res.Table.Modules {
		out = append(out, LowerModule(res, mod))
	}
	return out
}

// LowerModule desugars one module.
func LowerModule(res *sema.Result, mod *symbols.ModuleInfo) *Module {
	m := &Module{Path: mod.Path}
	for _, item := range mod.AST.Items {
		if item.Kind == ast.ItemFunction {
			l := &lowerer{res: res, mod: mod}
			m.Funcs = append(m.Funcs, l.function(item.Fn))
		}
	}
	return m
}

// lowerer lowers one function. The cleanups stack tracks `using` resources
// whose cleanup call must run before any early return.
type lowerer struct {
	res      *sema.Result
	mod      *symbols.ModuleInfo
	tmp      int
	cleanups []string
}

func (l *lowerer) fresh(prefix string) string {
	name := fmt.Sprintf("__%s%d", prefix, l.tmp)
	l.tmp++
	return name
}

func (l *lowerer) function(fn *ast.Function) *Function {
	sig := l.res.Sigs[fn]
	out := &Function{Name: fn.Name, Return: sig.Return, Effects: sig.Effects}

	effectNames := make(map[string]bool, len(fn.Effects))
	for _, e := range fn.Effects {
		effectNames[e.Name] = true
	}
	for i, p := range fn.Params {
		param := Param{Name: p.Name, Type: sig.Params[i]}
		if effectNames[p.Name] {
			param.Capability = true
			param.Effect = p.Name
		}
		out.Params = append(out.Params, param)
	}
	out.Body = l.block(fn.Body)
	return out
}

func (l *lowerer) block(b *ast.Block) *Block {
	out := &Block{}
	for _, stmt := range b.Stmts {
		switch stmt.Kind {
		case ast.StmtLet:
			out.Stmts = append(out.Stmts, &Stmt{
				Kind:  StmtLet,
				Name:  stmt.Let.Name,
				Value: l.expr(stmt.Let.Value),
			})
		case ast.StmtReturn:
			// Pending using-cleanups run before the early return,
			// innermost first.
			for i := len(l.cleanups) - 1; i >= 0; i-- {
				out.Stmts = append(out.Stmts, l.cleanupStmt(l.cleanups[i]))
			}
			var value *Expr
			if stmt.Expr != nil {
				value = l.expr(stmt.Expr)
			}
			out.Stmts = append(out.Stmts, &Stmt{Kind: StmtReturn, Value: value})
		case ast.StmtExpr:
			out.Stmts = append(out.Stmts, &Stmt{Kind: StmtExpr, Value: l.expr(stmt.Expr)})
		}
	}
	return out
}

func (l *lowerer) cleanupStmt(resource string) *Stmt {
	return &Stmt{Kind: StmtExpr, Value: &Expr{
		Kind: ExprCall,
		Type: types.Unknown,
		Call: &Call{Callee: "cleanup", Args: []*Expr{{Kind: ExprVar, Var: resource}}},
	}}
}

// intrinsic builds a canonical call with an empty, known effect row.
func (l *lowerer) intrinsic(t types.TypeID, name string, args ...*Expr) *Expr {
	return &Expr{
		Kind: ExprCall,
		Type: t,
		Call: &Call{Callee: name, Args: args, EffectsKnown: true},
	}
}

// opaque builds a canonical call whose effects cannot be resolved.
func (l *lowerer) opaque(t types.TypeID, name string, args ...*Expr) *Expr {
	return &Expr{
		Kind: ExprCall,
		Type: t,
		Call: &Call{Callee: name, Args: args},
	}
}

func (l *lowerer) expr(e *ast.Expr) *Expr {
	if e == nil {
		return nil
	}
	t := l.res.TypeOf(e)
	switch e.Kind {
	case ast.ExprLit:
		return &Expr{Kind: ExprLit, Type: t, Lit: e.Lit}
	case ast.ExprPath:
		return &Expr{Kind: ExprVar, Type: t, Var: l.pathName(e)}
	case ast.ExprUnary:
		name := map[ast.UnaryOp]string{
			ast.UnaryNot: "not",
			ast.UnaryNeg: "neg",
			ast.UnaryRef: "ref",
		}[e.Unary.Op]
		return l.intrinsic(t, name, l.expr(e.Unary.Expr))
	case ast.ExprBinary:
		return &Expr{Kind: ExprBinary, Type: t, Binary: &Binary{
			Op:  e.Binary.Op,
			Lhs: l.expr(e.Binary.Lhs),
			Rhs: l.expr(e.Binary.Rhs),
		}}
	case ast.ExprAssign:
		return l.intrinsic(t, "assign", l.expr(e.Assign.Target), l.expr(e.Assign.Value))
	case ast.ExprCall:
		return l.call(e)
	case ast.ExprField:
		name := &ast.Literal{Kind: ast.LitString, Str: e.Field.Name}
		return l.intrinsic(t, "field",
			l.expr(e.Field.Expr),
			&Expr{Kind: ExprLit, Type: l.res.Types.Builtins().String, Lit: name})
	case ast.ExprIndex:
		return l.intrinsic(t, "index", l.expr(e.Index.Expr), l.expr(e.Index.Index))
	case ast.ExprIf:
		args := []*Expr{l.expr(e.If.Cond), l.expr(e.If.Then)}
		if e.If.Else != nil {
			args = append(args, l.expr(e.If.Else))
		}
		return l.intrinsic(t, "if", args...)
	case ast.ExprWhile:
		return l.intrinsic(t, "while", l.expr(e.While.Cond), l.expr(e.While.Body))
	case ast.ExprLoop:
		return l.intrinsic(t, "loop", l.expr(e.Loop.Body))
	case ast.ExprFor:
		return l.intrinsic(t, "for", l.expr(e.For.Iterable), l.expr(e.For.Body))
	case ast.ExprMatch:
		args := []*Expr{l.expr(e.Match.Scrutinee)}
		for _, arm := range e.Match.Arms {
			args = append(args, l.expr(arm.Body))
		}
		return l.intrinsic(t, "match", args...)
	case ast.ExprBlock:
		return &Expr{Kind: ExprBlock, Type: t, Block: l.block(e.Block)}
	case ast.ExprSpawn:
		return l.opaque(t, "spawn", l.expr(e.Inner))
	case ast.ExprAwait:
		return l.opaque(t, "await", l.expr(e.Inner))
	case ast.ExprChan:
		var args []*Expr
		if e.Chan.Capacity != nil {
			args = append(args, l.expr(e.Chan.Capacity))
		}
		return l.opaque(t, "chan", args...)
	case ast.ExprTry:
		return l.intrinsic(t, "try", l.expr(e.Inner))
	case ast.ExprUsing:
		return l.using(e)
	case ast.ExprRecord:
		rec := &RecordLit{TypeName: e.Record.Type.String()}
		for _, f := range e.Record.Fields {
			rec.Fields = append(rec.Fields, RecordField{Name: f.Name, Value: l.expr(f.Value)})
		}
		return &Expr{Kind: ExprRecord, Type: t, Record: rec}
	default:
		return &Expr{Kind: ExprLit, Type: t, Lit: &ast.Literal{Kind: ast.LitUnit}}
	}
}

// pathName renders a resolved path canonically: plain names for locals and
// functions, `Type::Variant` for constructors, the source spelling for
// anything external.
func (l *lowerer) pathName(e *ast.Expr) string {
	id, ok := l.res.Table.ResolutionOf(e)
	if !ok {
		return e.Path.String()
	}
	sym := l.res.Table.Symbol(id)
	if sym.Kind == symbols.SymVariant {
		return sym.Type.Name + "::" + sym.Name
	}
	return sym.Name
}
