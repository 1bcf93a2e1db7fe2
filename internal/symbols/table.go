package symbols

import (
	"mica/internal/ast"
)

// ModuleInfo is the resolved view of one module.
type ModuleInfo struct {
	Path  string
	AST   *ast.Module
	Scope ScopeID

	// Exports maps member name to symbol for `pub` items.
	Exports map[string]SymbolID

	// Variants indexes enum constructors declared in this module, keyed
	// three ways: bare (`Done`), type-qualified (`TaskResult::Done`) and
	// fully qualified (`pipeline.demo.TaskResult::Done`). A bare key that
	// collides across enums is dropped and must be qualified at use sites.
	Variants map[string]SymbolID
}

// Table is the output of resolution. It owns the arena and the maps that
// link AST nodes back to symbols.
type Table struct {
	Arena   *Arena
	Modules []*ModuleInfo

	exprs    map[*ast.Expr]SymbolID
	patterns map[*ast.Pattern]SymbolID
	lets     map[*ast.LetStmt]SymbolID
	funcs    map[*ast.Function]ScopeID
}

func newTable() *Table {
	return &Table{
		Arena:    NewArena(),
		exprs:    make(map[*ast.Expr]SymbolID, 64),
		patterns: make(map[*ast.Pattern]SymbolID, 16),
		lets:     make(map[*ast.LetStmt]SymbolID, 16),
		funcs:    make(map[*ast.Function]ScopeID, 8),
	}
}

// Module finds a module by its dotted path.
func (t *Table) Module(path string) (*ModuleInfo, bool) {
	for _, m := range t.Modules {
		if m.Path == path {
			return m, true
		}
	}
	return nil, false
}

// ResolutionOf returns the symbol a path expression resolved to.
func (t *Table) ResolutionOf(e *ast.Expr) (SymbolID, bool) {
	id, ok := t.exprs[e]
	return id, ok
}

// PatternSym returns the symbol bound or matched by a pattern node.
// Bindings map to locals, variant patterns to the constructor symbol.
func (t *Table) PatternSym(p *ast.Pattern) (SymbolID, bool) {
	id, ok := t.patterns[p]
	return id, ok
}

// LetSym returns the local symbol a let statement declared.
func (t *Table) LetSym(let *ast.LetStmt) (SymbolID, bool) {
	id, ok := t.lets[let]
	return id, ok
}

// FunctionScope returns the parameter scope created for fn.
func (t *Table) FunctionScope(fn *ast.Function) (ScopeID, bool) {
	id, ok := t.funcs[fn]
	return id, ok
}

// Symbol is shorthand for Arena.Symbol.
func (t *Table) Symbol(id SymbolID) *Symbol {
	return t.Arena.Symbol(id)
}

// LookupVariant resolves a constructor reference for module m, accepting
// bare, type-qualified and fully qualified spellings.
func (t *Table) LookupVariant(m *ModuleInfo, name string) (SymbolID, bool) {
	if id, ok := m.Variants[name]; ok {
		return id, true
	}
	for _, other := range t.Modules {
		if other == m {
			continue
		}
		if id, ok := other.Variants[name]; ok && t.Symbol(id).Public {
			return id, true
		}
	}
	return NoSymbolID, false
}

// Capabilities lists the capability parameters of fn in declaration order.
func (t *Table) Capabilities(fn *ast.Function) []*Symbol {
	scope, ok := t.funcs[fn]
	if !ok {
		return nil
	}
	var out []*Symbol
	for _, p := range fn.Params {
		if id, ok := t.Arena.LookupLocal(scope, p.Name); ok {
			if sym := t.Symbol(id); sym.Kind == SymCapability {
				out = append(out, sym)
			}
		}
	}
	return out
}
