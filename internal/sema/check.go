// Package sema is the type and effect checker. It registers declared types
// in the shared interner, collects function signatures, infers expression
// types, verifies call arity, match exhaustiveness and capability use, and
// never aborts early: one pass surfaces as many problems as it can.
package sema

import (
	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/symbols"
	"mica/internal/types"
)

// FuncSig is the checked signature of one function.
type FuncSig struct {
	Name    string
	Params  []types.TypeID
	Return  types.TypeID
	Effects types.EffectRow
}

// Result carries everything downstream stages need: the interned type and
// effect tables, per-function signatures and per-expression types.
type Result struct {
	Table   *symbols.Table
	Types   *types.Interner
	Effects *types.EffectTable

	Sigs      map[*ast.Function]*FuncSig
	ExprTypes map[*ast.Expr]types.TypeID

	// EnumOf maps a sum-type alias to its interned enum TypeID.
	EnumOf map[*ast.TypeAlias]types.TypeID
}

// TypeOf returns the inferred type of an expression, Unknown when the
// checker never reached it.
func (r *Result) TypeOf(e *ast.Expr) types.TypeID {
	if id, ok := r.ExprTypes[e]; ok {
		return id
	}
	return types.Unknown
}

type checker struct {
	res      *Result
	reporter diag.Reporter

	aliasAST  map[string]*ast.TypeAlias
	aliasID   map[string]types.TypeID
	resolving map[string]bool
}

// Check runs the checker over a resolved workspace.
func Check(table *symbols.Table, reporter diag.Reporter) *Result {
	c := &checker{
		res: &Result{
			Table:     table,
			Types:     types.NewInterner(),
			Effects:   types.NewEffectTable(),
			Sigs:      make(map[*ast.Function]*FuncSig, 8),
			ExprTypes: make(map[*ast.Expr]types.TypeID, 64),
			EnumOf:    make(map[*ast.TypeAlias]types.TypeID, 4),
		},
		reporter:  reporter,
		aliasAST:  make(map[string]*ast.TypeAlias, 8),
		aliasID:   make(map[string]types.TypeID, 8),
		resolving: make(map[string]bool, 4),
	}

	c.registerTypes()
	c.collectSignatures()
	for _, mod := range table.Modules {
		for _, item := range mod.AST.Items {
			if item.Kind == ast.ItemFunction {
				c.checkBody(mod, item.Fn)
			}
		}
	}
	return c.res
}
