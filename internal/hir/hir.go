// Package hir is the desugared middle representation. Methods become
// receiver-first calls, indexing, assignment, spawn/await/chan, try, using
// and structured control flow all collapse into a small closed expression
// set: literal, variable, record literal, call, binary and block.
package hir

import (
	"mica/internal/ast"
	"mica/internal/types"
)

// Module is one lowered module.
type Module struct {
	Path  string
	Funcs []*Function
}

// Param is a lowered parameter. Capability params keep the effect they
// bind so the IR builder can attach effect metadata to the function.
type Param struct {
	Name       string
	Type       types.TypeID
	Capability bool
	Effect     string
}

// Function is a lowered function body plus its checked signature.
type Function struct {
	Name    string
	Params  []Param
	Return  types.TypeID
	Effects types.EffectRow
	Body    *Block
}

// Block is an ordered statement list. Its value is the trailing
// expression statement, if any.
type Block struct {
	Stmts []*Stmt
}

// StmtKind discriminates statements.
type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
	StmtReturn
)

// Stmt is one lowered statement.
type Stmt struct {
	Kind StmtKind

	// Name is the binding for StmtLet.
	Name string

	// Value is the let value, the expression, or the optional return
	// operand (nil for a bare return).
	Value *Expr
}

// ExprKind discriminates lowered expressions.
type ExprKind uint8

const (
	ExprLit ExprKind = iota
	ExprVar
	ExprRecord
	ExprCall
	ExprBinary
	ExprBlock
)

// Expr is a lowered expression. Every node carries the type the checker
// inferred for its source expression, Unknown when inference had nothing.
type Expr struct {
	Kind ExprKind
	Type types.TypeID

	Lit    *ast.Literal
	Var    string
	Record *RecordLit
	Call   *Call
	Binary *Binary
	Block  *Block
}

// RecordLit is a lowered record literal.
type RecordLit struct {
	TypeName string
	Fields   []RecordField
}

type RecordField struct {
	Name  string
	Value *Expr
}

// Call is a lowered call. Callee is a canonical name: a resolved path
// (`network::fetch`, `TaskResult::Done`), a desugared method name, or one
// of the intrinsic forms (`if`, `match`, `index`, `assign`, `spawn`,
// `await`, `chan`, `try`, `cleanup`).
type Call struct {
	Callee string
	Args   []*Expr

	// Effects is the callee's effect row when EffectsKnown; calls whose
	// requirements cannot be resolved stay EffectsKnown=false and are
	// treated as effectful downstream.
	Effects      types.EffectRow
	EffectsKnown bool
}

// Binary is a lowered binary operation.
type Binary struct {
	Op  ast.BinaryOp
	Lhs *Expr
	Rhs *Expr
}

// Value returns the block's trailing expression, or nil.
func (b *Block) Value() *Expr {
	if len(b.Stmts) == 0 {
		return nil
	}
	last := b.Stmts[len(b.Stmts)-1]
	if last.Kind != StmtExpr {
		return nil
	}
	return last.Value
}
