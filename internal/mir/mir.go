// Package mir is the typed SSA middle IR. A module owns the interned type
// and effect tables plus a layout engine; functions are ordered lists of
// basic blocks; every instruction defines exactly one SSA value with a
// per-function monotonic ID.
package mir

import (
	"mica/internal/layout"
	"mica/internal/types"
)

// ValueID names one SSA value inside a function.
type ValueID uint32

// NoValueID marks an absent operand.
const NoValueID ValueID = 0

// BlockID indexes a basic block inside a function.
type BlockID uint32

// Module is a lowered compilation unit together with the shared tables
// every consumer needs to interpret it. Backends treat these registries as
// shared-read: clone-then-mutate if a pass ever needs private changes.
type Module struct {
	Path  string
	Funcs []*Func

	Types   *types.Interner
	Effects *types.EffectTable
	Layouts *layout.Engine
}

// Param describes one function parameter. Capability params carry the
// effect they bind.
type Param struct {
	Name   string
	Type   types.TypeID
	Effect types.EffectID
}

// Func is one SSA function. Blocks[0] is the entry block.
type Func struct {
	Name    string
	Params  []Param
	Return  types.TypeID
	Effects types.EffectRow

	Blocks []*Block

	next ValueID
}

// NewValue hands out the next SSA value ID. IDs start at 1 so NoValueID
// never names a real value, and they are never reused.
func (f *Func) NewValue() ValueID {
	f.next++
	return f.next
}

// NumValues reports how many SSA values the function defines.
func (f *Func) NumValues() int {
	return int(f.next)
}

// Block is one basic block: instructions plus exactly one terminator.
type Block struct {
	ID     BlockID
	Instrs []Instr
	Term   Terminator
}

// Entry returns the entry block.
func (f *Func) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// AddBlock appends a new empty block and returns it.
func (f *Func) AddBlock() *Block {
	b := &Block{ID: BlockID(len(f.Blocks))}
	f.Blocks = append(f.Blocks, b)
	return b
}
