package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// Scope is one lexical frame. Lookup walks the Parent chain.
type Scope struct {
	Parent ScopeID
	names  map[string]SymbolID
}

// Arena stores scopes and symbols in append-only slices. Index 0 of each
// slice is a reserved sentinel so the zero ID never aliases real data.
type Arena struct {
	scopes  []Scope
	symbols []Symbol
}

// NewArena constructs an arena with the sentinels in place.
func NewArena() *Arena {
	return &Arena{
		scopes:  []Scope{{}},
		symbols: []Symbol{{}},
	}
}

// NewScope appends a scope chained to parent.
func (a *Arena) NewScope(parent ScopeID) ScopeID {
	n, err := safecast.Conv[uint32](len(a.scopes))
	if err != nil {
		panic(fmt.Errorf("len(scopes) overflow: %w", err))
	}
	a.scopes = append(a.scopes, Scope{Parent: parent, names: make(map[string]SymbolID, 4)})
	return ScopeID(n)
}

// Declare binds sym.Name in its scope and returns the new SymbolID.
// The caller is responsible for duplicate checks via LookupLocal.
func (a *Arena) Declare(sym Symbol) SymbolID {
	n, err := safecast.Conv[uint32](len(a.symbols))
	if err != nil {
		panic(fmt.Errorf("len(symbols) overflow: %w", err))
	}
	id := SymbolID(n)
	a.symbols = append(a.symbols, sym)
	if sym.Scope != NoScopeID {
		a.scopes[sym.Scope].names[sym.Name] = id
	}
	return id
}

// Symbol returns the symbol for id. The sentinel yields an invalid symbol.
func (a *Arena) Symbol(id SymbolID) *Symbol {
	if id == NoSymbolID || int(id) >= len(a.symbols) {
		return &a.symbols[0]
	}
	return &a.symbols[id]
}

// LookupLocal finds name in exactly one scope, ignoring parents.
func (a *Arena) LookupLocal(scope ScopeID, name string) (SymbolID, bool) {
	if scope == NoScopeID || int(scope) >= len(a.scopes) {
		return NoSymbolID, false
	}
	id, ok := a.scopes[scope].names[name]
	return id, ok
}

// Lookup finds name by walking the scope chain from scope to the root.
func (a *Arena) Lookup(scope ScopeID, name string) (SymbolID, bool) {
	for scope != NoScopeID && int(scope) < len(a.scopes) {
		if id, ok := a.scopes[scope].names[name]; ok {
			return id, true
		}
		scope = a.scopes[scope].Parent
	}
	return NoSymbolID, false
}
