package ast

import (
	"mica/internal/source"
)

// PatternKind discriminates match patterns.
type PatternKind uint8

const (
	PatInvalid PatternKind = iota
	PatWildcard
	PatBinding
	PatLiteral
	PatVariant
)

// Pattern matches a value inside a match arm.
type Pattern struct {
	Kind PatternKind
	Span source.Span

	Name   string     // PatBinding
	Lit    *Literal   // PatLiteral
	Path   *Path      // PatVariant: variant path, bare or qualified
	Fields []*Pattern // PatVariant: positional sub-patterns
}

// VariantName returns the final segment of a variant pattern's path.
func (p *Pattern) VariantName() string {
	if p.Kind != PatVariant || p.Path == nil || len(p.Path.Segments) == 0 {
		return ""
	}
	return p.Path.Segments[len(p.Path.Segments)-1]
}
