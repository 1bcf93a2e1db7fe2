package mir

import (
	"mica/internal/ast"
	"mica/internal/types"
)

// InstrKind discriminates instructions.
type InstrKind uint8

const (
	InstrInvalid InstrKind = iota
	InstrParam
	InstrConst
	InstrBin
	InstrCall
	InstrRecord
)

// Instr defines one SSA value. Kind selects which payload is meaningful.
type Instr struct {
	ID   ValueID
	Kind InstrKind
	Type types.TypeID

	Param  ParamInstr
	Const  ConstInstr
	Bin    BinInstr
	Call   CallInstr
	Record RecordInstr
}

// ParamInstr materializes the function parameter at Index.
type ParamInstr struct {
	Name  string
	Index int
}

// ConstInstr is a literal constant.
type ConstInstr struct {
	Lit *ast.Literal
}

// BinInstr applies a binary operator to two operands.
type BinInstr struct {
	Op  ast.BinaryOp
	Lhs ValueID
	Rhs ValueID
}

// CallInstr calls a canonical callee. Effects is the callee's effect row
// when EffectsKnown; otherwise the call must be treated as effectful.
type CallInstr struct {
	Callee       string
	Args         []ValueID
	Effects      types.EffectRow
	EffectsKnown bool
}

// RecordInstr constructs a record value from per-field operands.
type RecordInstr struct {
	TypeName string
	Fields   []ValueID
}

// Uses lists the operands an instruction reads.
func (in *Instr) Uses() []ValueID {
	switch in.Kind {
	case InstrBin:
		return []ValueID{in.Bin.Lhs, in.Bin.Rhs}
	case InstrCall:
		return in.Call.Args
	case InstrRecord:
		return in.Record.Fields
	}
	return nil
}
