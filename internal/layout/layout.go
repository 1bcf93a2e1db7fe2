// Package layout computes concrete memory layouts for interned types:
// field offsets, sizes and alignments under natural alignment rules.
// Layouts are computed lazily and cached, so repeated queries are cheap
// and idempotent.
package layout

import (
	"mica/internal/types"
)

// TypeLayout is the computed layout of one type.
type TypeLayout struct {
	Size  uint64
	Align uint64

	// FieldOffsets is populated for records and tuples, in field order.
	FieldOffsets []uint64
}

// Engine resolves layouts against one type interner.
type Engine struct {
	Types *types.Interner

	cache map[types.TypeID]TypeLayout
	stack map[types.TypeID]bool
}

// NewEngine constructs an engine over the given interner.
func NewEngine(in *types.Interner) *Engine {
	return &Engine{
		Types: in,
		cache: make(map[types.TypeID]TypeLayout, 16),
		stack: make(map[types.TypeID]bool, 4),
	}
}

// Of returns the layout for id, computing and caching it on first use.
func (e *Engine) Of(id types.TypeID) (TypeLayout, error) {
	if l, ok := e.cache[id]; ok {
		return l, nil
	}
	l, err := e.compute(id)
	if err != nil {
		return TypeLayout{}, err
	}
	e.cache[id] = l
	return l, nil
}
