package symbols

import (
	"mica/internal/ast"
	"mica/internal/source"
)

// SymbolKind discriminates what a name is bound to.
type SymbolKind uint8

const (
	SymInvalid SymbolKind = iota
	SymModule
	SymFunction
	SymType
	SymVariant
	SymParam
	SymCapability
	SymLocal
)

var symbolKindNames = map[SymbolKind]string{
	SymInvalid:    "invalid",
	SymModule:     "module",
	SymFunction:   "function",
	SymType:       "type",
	SymVariant:    "variant",
	SymParam:      "param",
	SymCapability: "capability",
	SymLocal:      "local",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Symbol is one named entity. Declaration-backed symbols keep a pointer to
// their AST node so later stages can reach signatures without a second map.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Span   source.Span
	Scope  ScopeID
	Module ModuleIdx
	Public bool

	// Fn is set for SymFunction.
	Fn *ast.Function

	// Type is set for SymType and, for variants, points at the declaring
	// alias.
	Type *ast.TypeAlias

	// Variant is the declaration-order index for SymVariant.
	Variant int

	// Effect is the effect name bound by a SymCapability parameter.
	Effect string

	// Mutable is set for `mut` params and `let mut` locals.
	Mutable bool

	// Target is the imported symbol for SymModule aliases that name a
	// single member rather than a whole module.
	Target SymbolID

	// TargetModule is the module a SymModule alias refers to, or -1.
	TargetModule ModuleIdx
}
