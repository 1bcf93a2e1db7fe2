package ast

import (
	"mica/internal/source"
)

// ExprKind discriminates expressions.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLit
	ExprPath
	ExprUnary
	ExprBinary
	ExprAssign
	ExprCall
	ExprField
	ExprIndex
	ExprIf
	ExprWhile
	ExprLoop
	ExprFor
	ExprMatch
	ExprBlock
	ExprSpawn
	ExprAwait
	ExprChan
	ExprUsing
	ExprTry
	ExprRecord
)

// Expr is a tagged expression node.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Lit    *Literal
	Path   *Path
	Unary  *UnaryExpr
	Binary *BinaryExpr
	Assign *AssignExpr
	Call   *CallExpr
	Field  *FieldExpr
	Index  *IndexExpr
	If     *IfExpr
	While  *WhileExpr
	Loop   *LoopExpr
	For    *ForExpr
	Match  *MatchExpr
	Block  *Block
	Inner  *Expr // payload for spawn/await/try
	Chan   *ChanExpr
	Using  *UsingExpr
	Record *RecordExpr
}

// LitKind discriminates literal values.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitString
	LitUnit
)

// Literal holds a constant value.
type Literal struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// Path references a possibly qualified name. Segments are separated by '.'
// or '::' in source; the distinction does not survive parsing.
type Path struct {
	Segments []string
	Span     source.Span
}

// String renders the path with '::' separators.
func (p *Path) String() string {
	out := ""
	for i, seg := range p.Segments {
		if i > 0 {
			out += "::"
		}
		out += seg
	}
	return out
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota // !
	UnaryNeg                // -
	UnaryRef                // &
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNot:
		return "!"
	case UnaryNeg:
		return "-"
	case UnaryRef:
		return "&"
	}
	return "?"
}

type UnaryExpr struct {
	Op   UnaryOp
	Expr *Expr
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

func (op BinaryOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinMod:
		return "%"
	case BinEq:
		return "=="
	case BinNe:
		return "!="
	case BinLt:
		return "<"
	case BinLe:
		return "<="
	case BinGt:
		return ">"
	case BinGe:
		return ">="
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	}
	return "?"
}

type BinaryExpr struct {
	Op  BinaryOp
	Lhs *Expr
	Rhs *Expr
}

type AssignExpr struct {
	Target *Expr
	Value  *Expr
}

type CallExpr struct {
	Callee *Expr
	Args   []*Expr
}

type FieldExpr struct {
	Expr *Expr
	Name string
}

type IndexExpr struct {
	Expr  *Expr
	Index *Expr
}

// IfExpr: Else is nil, a block expression, or another IfExpr ('else if').
type IfExpr struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

type WhileExpr struct {
	Cond *Expr
	Body *Expr
}

type LoopExpr struct {
	Body *Expr
}

type ForExpr struct {
	Binding  string
	Iterable *Expr
	Body     *Expr
}

// MatchArm is one arm of a match expression.
type MatchArm struct {
	Pattern *Pattern
	Guard   *Expr
	Body    *Expr
	Span    source.Span
}

type MatchExpr struct {
	Scrutinee *Expr
	Arms      []MatchArm
}

// ChanExpr constructs a channel: chan[T](capacity?).
type ChanExpr struct {
	Elem     *TypeExpr
	Capacity *Expr // nil means unbuffered
}

// UsingExpr scopes a resource to a block with guaranteed cleanup.
type UsingExpr struct {
	Acquire *Expr
	Body    *Block
}

// RecordField is one field of a record literal.
type RecordField struct {
	Name  string
	Value *Expr
	Span  source.Span
}

// RecordExpr constructs a named record value: Point { x: 1, y: 2 }.
type RecordExpr struct {
	Type   *Path
	Fields []RecordField
}
