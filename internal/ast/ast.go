// Package ast defines the surface syntax tree for Mica source files.
// Nodes are tagged structs: a Kind discriminant plus per-kind payload
// pointers, so consumers switch on Kind instead of type-asserting.
package ast

import (
	"mica/internal/source"
)

// Module is a single parsed source unit.
type Module struct {
	Name  []string // dotted module path, e.g. ["pipeline", "demo"]
	Span  source.Span
	Items []*Item
}

// Path returns the dotted module path as written in the header.
func (m *Module) Path() string {
	out := ""
	for i, seg := range m.Name {
		if i > 0 {
			out += "."
		}
		out += seg
	}
	return out
}

// ItemKind discriminates top-level items.
type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemUse
	ItemTypeAlias
	ItemFunction
)

// Item is a top-level declaration.
type Item struct {
	Kind ItemKind
	Span source.Span

	Use  *UseDecl
	Type *TypeAlias
	Fn   *Function
}

// UseDecl imports another module, optionally under an alias.
type UseDecl struct {
	Path  []string
	Alias string
	Span  source.Span
}

// TypeAlias declares a named type: a plain alias, a record, or a sum type
// with variants.
type TypeAlias struct {
	Public bool
	Name   string
	Params []string // generic parameters, e.g. type List[T]
	Value  *TypeExpr
	Span   source.Span
}

// EffectRef is one name inside an effect row annotation.
type EffectRef struct {
	Name string
	Span source.Span
}

// Param is a function parameter.
type Param struct {
	Name    string
	Mutable bool
	Type    *TypeExpr
	Span    source.Span
}

// Function is a function declaration with an optional effect row.
type Function struct {
	Public   bool
	Name     string
	Generics []string
	Params   []Param
	Return   *TypeExpr // nil means unit
	Effects  []EffectRef
	Body     *Block
	Span     source.Span
}

// Block is a brace-delimited statement sequence.
type Block struct {
	Stmts []*Stmt
	Span  source.Span
}

// StmtKind discriminates statements.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtLet
	StmtReturn
	StmtBreak
	StmtContinue
	StmtExpr
)

// Stmt is a single statement. Expr is the payload for both StmtExpr and
// StmtReturn (nil for a bare return).
type Stmt struct {
	Kind StmtKind
	Span source.Span

	Let  *LetStmt
	Expr *Expr
}

// LetStmt binds a name to a value.
type LetStmt struct {
	Mutable bool
	Name    string
	Value   *Expr
	Span    source.Span
}
