package ast

import (
	"mica/internal/source"
)

// TypeExprKind discriminates type expressions.
type TypeExprKind uint8

const (
	TypeInvalid TypeExprKind = iota
	TypeName
	TypeGeneric
	TypeUnit
	TypeTuple
	TypeRecord
	TypeRef
	TypeFn
	TypeSum
)

// TypeExpr is a type as written in source.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span

	Name     string      // TypeName, TypeGeneric
	Args     []*TypeExpr // TypeGeneric arguments, TypeTuple elements
	Fields   []FieldDecl // TypeRecord
	Mutable  bool        // TypeRef: &mut T
	Elem     *TypeExpr   // TypeRef target
	Fn       *FnType     // TypeFn
	Variants []Variant   // TypeSum
}

// FieldDecl is one field of a record type.
type FieldDecl struct {
	Name string
	Type *TypeExpr
	Span source.Span
}

// FnType is a first-class function type with an optional effect row.
type FnType struct {
	Params  []*TypeExpr
	Return  *TypeExpr
	Effects []EffectRef
}

// Variant is one alternative of a sum type, with optional positional fields.
type Variant struct {
	Name   string
	Fields []*TypeExpr
	Span   source.Span
}
