// Package symbols implements name resolution: a slice-backed symbol arena,
// lexical scopes and the two-phase resolver that links paths, patterns and
// imports across the modules of a workspace.
package symbols

// SymbolID indexes a Symbol inside an Arena. 0 is the invalid sentinel.
type SymbolID uint32

// NoSymbolID marks an absent symbol.
const NoSymbolID SymbolID = 0

// ScopeID indexes a Scope inside an Arena. 0 is the invalid sentinel.
type ScopeID uint32

// NoScopeID marks an absent scope.
const NoScopeID ScopeID = 0

// ModuleIdx identifies one module within a workspace, in load order.
type ModuleIdx int
