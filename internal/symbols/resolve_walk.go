package symbols

import (
	"strings"

	"mica/internal/ast"
)

// walker resolves the body of one function. Paths that cannot be resolved
// are simply left out of the table; the checker decides which of those are
// errors and which are external references.
type walker struct {
	r      *Resolver
	info   *ModuleInfo
	module ModuleIdx
}

func (w *walker) block(parent ScopeID, b *ast.Block) {
	scope := w.r.table.Arena.NewScope(parent)
	for _, stmt := range b.Stmts {
		w.stmt(scope, stmt)
	}
}

func (w *walker) stmt(scope ScopeID, stmt *ast.Stmt) {
	switch stmt.Kind {
	case ast.StmtLet:
		w.expr(scope, stmt.Let.Value)
		w.r.table.lets[stmt.Let] = w.r.table.Arena.Declare(Symbol{
			Name:    stmt.Let.Name,
			Kind:    SymLocal,
			Span:    stmt.Let.Span,
			Scope:   scope,
			Module:  w.module,
			Mutable: stmt.Let.Mutable,
		})
	case ast.StmtReturn, ast.StmtExpr:
		w.expr(scope, stmt.Expr)
	}
}

func (w *walker) expr(scope ScopeID, e *ast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprPath:
		w.path(scope, e)
	case ast.ExprUnary:
		w.expr(scope, e.Unary.Expr)
	case ast.ExprBinary:
		w.expr(scope, e.Binary.Lhs)
		w.expr(scope, e.Binary.Rhs)
	case ast.ExprAssign:
		w.expr(scope, e.Assign.Target)
		w.expr(scope, e.Assign.Value)
	case ast.ExprCall:
		w.expr(scope, e.Call.Callee)
		for _, a := range e.Call.Args {
			w.expr(scope, a)
		}
	case ast.ExprField:
		w.expr(scope, e.Field.Expr)
	case ast.ExprIndex:
		w.expr(scope, e.Index.Expr)
		w.expr(scope, e.Index.Index)
	case ast.ExprIf:
		w.expr(scope, e.If.Cond)
		w.expr(scope, e.If.Then)
		w.expr(scope, e.If.Else)
	case ast.ExprWhile:
		w.expr(scope, e.While.Cond)
		w.expr(scope, e.While.Body)
	case ast.ExprLoop:
		w.expr(scope, e.Loop.Body)
	case ast.ExprFor:
		w.expr(scope, e.For.Iterable)
		body := w.r.table.Arena.NewScope(scope)
		w.r.table.Arena.Declare(Symbol{
			Name:   e.For.Binding,
			Kind:   SymLocal,
			Span:   e.Span,
			Scope:  body,
			Module: w.module,
		})
		w.expr(body, e.For.Body)
	case ast.ExprMatch:
		w.expr(scope, e.Match.Scrutinee)
		for _, arm := range e.Match.Arms {
			armScope := w.r.table.Arena.NewScope(scope)
			w.pattern(armScope, arm.Pattern)
			w.expr(armScope, arm.Guard)
			w.expr(armScope, arm.Body)
		}
	case ast.ExprBlock:
		w.block(scope, e.Block)
	case ast.ExprSpawn, ast.ExprAwait, ast.ExprTry:
		w.expr(scope, e.Inner)
	case ast.ExprChan:
		w.expr(scope, e.Chan.Capacity)
	case ast.ExprUsing:
		w.expr(scope, e.Using.Acquire)
		w.block(scope, e.Using.Body)
	case ast.ExprRecord:
		for _, f := range e.Record.Fields {
			w.expr(scope, f.Value)
		}
	}
}

func (w *walker) path(scope ScopeID, e *ast.Expr) {
	segs := e.Path.Segments
	if len(segs) == 1 {
		if id, ok := w.r.table.Arena.Lookup(scope, segs[0]); ok {
			sym := w.r.table.Symbol(id)
			if sym.Kind == SymModule && sym.Target != NoSymbolID {
				id = sym.Target
			}
			w.r.table.exprs[e] = id
			return
		}
		if id, ok := w.r.table.LookupVariant(w.info, segs[0]); ok {
			w.r.table.exprs[e] = id
		}
		return
	}

	// Qualified path. Try, in order: an in-scope module alias, a variant
	// spelling, and a workspace module prefix. Anything else is assumed
	// external and left unresolved.
	if id, ok := w.r.table.Arena.Lookup(scope, segs[0]); ok {
		sym := w.r.table.Symbol(id)
		if sym.Kind == SymModule && sym.TargetModule >= 0 {
			target := w.r.table.Modules[sym.TargetModule]
			if w.resolveIn(target, segs[1:], e) {
				return
			}
		}
	}
	if id, ok := w.r.table.LookupVariant(w.info, e.Path.String()); ok {
		w.r.table.exprs[e] = id
		return
	}
	for cut := len(segs) - 1; cut >= 1; cut-- {
		modPath := strings.Join(segs[:cut], ".")
		if target, ok := w.r.table.Module(modPath); ok {
			if w.resolveIn(target, segs[cut:], e) {
				return
			}
		}
	}
}

// resolveIn looks up the remaining segments inside a target module.
func (w *walker) resolveIn(target *ModuleInfo, rest []string, e *ast.Expr) bool {
	sameModule := target == w.info
	if len(rest) == 1 {
		if sameModule {
			if id, ok := w.r.table.Arena.LookupLocal(target.Scope, rest[0]); ok {
				w.r.table.exprs[e] = id
				return true
			}
			return false
		}
		if id, ok := target.Exports[rest[0]]; ok {
			w.r.table.exprs[e] = id
			return true
		}
		return false
	}
	if id, ok := target.Variants[strings.Join(rest, "::")]; ok {
		if sameModule || w.r.table.Symbol(id).Public {
			w.r.table.exprs[e] = id
			return true
		}
	}
	return false
}

func (w *walker) pattern(scope ScopeID, p *ast.Pattern) {
	switch p.Kind {
	case ast.PatBinding:
		if id, ok := w.r.table.LookupVariant(w.info, p.Name); ok {
			w.r.table.patterns[p] = id
			return
		}
		id := w.r.table.Arena.Declare(Symbol{
			Name:   p.Name,
			Kind:   SymLocal,
			Span:   p.Span,
			Scope:  scope,
			Module: w.module,
		})
		w.r.table.patterns[p] = id
	case ast.PatVariant:
		if id, ok := w.r.table.LookupVariant(w.info, p.Path.String()); ok {
			w.r.table.patterns[p] = id
		}
		for _, f := range p.Fields {
			w.pattern(scope, f)
		}
	}
}
