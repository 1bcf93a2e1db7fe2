package sema

import (
	"strings"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/symbols"
	"mica/internal/types"
)

// matchType checks a match expression: arm patterns against the scrutinee,
// bindings into the environment, and exhaustiveness when the scrutinee is
// an enum.
func (b *bodyChecker) matchType(e *ast.Expr) types.TypeID {
	m := e.Match
	scrutinee := b.expr(m.Scrutinee)
	info, isEnum := b.c.res.Types.Enum(scrutinee)

	covered := make([]bool, 0)
	if isEnum {
		covered = make([]bool, len(info.Variants))
	}
	catchAll := false

	result := types.Unknown
	for _, arm := range m.Arms {
		b.bindPattern(arm.Pattern, scrutinee)
		if arm.Guard != nil {
			guard := b.expr(arm.Guard)
			bi := b.c.res.Types.Builtins()
			if guard != types.Unknown && guard != bi.Bool {
				diag.ReportError(b.c.reporter, diag.SemaTypeMismatch, arm.Guard.Span,
					"match guard must be Bool, got "+b.c.res.Types.Format(guard)).Emit()
			}
		}
		result = merge(result, b.expr(arm.Body))

		// Guarded arms never count toward coverage.
		if arm.Guard != nil {
			continue
		}
		switch arm.Pattern.Kind {
		case ast.PatWildcard:
			catchAll = true
		case ast.PatBinding:
			if id, ok := b.c.res.Table.PatternSym(arm.Pattern); ok {
				sym := b.c.res.Table.Symbol(id)
				if sym.Kind == symbols.SymVariant {
					if isEnum && sym.Variant < len(covered) {
						covered[sym.Variant] = true
					}
					continue
				}
			}
			catchAll = true
		case ast.PatVariant:
			if id, ok := b.c.res.Table.PatternSym(arm.Pattern); ok {
				sym := b.c.res.Table.Symbol(id)
				if isEnum && sym.Kind == symbols.SymVariant && sym.Variant < len(covered) {
					covered[sym.Variant] = true
				}
			}
		}
	}

	if isEnum && !catchAll {
		var missing []string
		for i, v := range info.Variants {
			if !covered[i] {
				missing = append(missing, v.Name)
			}
		}
		// A hole in the match is a warning, not an error: the pipeline
		// still lowers the arms that are there.
		if len(missing) > 0 {
			diag.ReportWarning(b.c.reporter, diag.SemaNonExhaustiveMatch, e.Span,
				"non-exhaustive match for "+info.Name+": missing variants "+
					strings.Join(missing, ", ")).Emit()
		}
	}
	return result
}

// bindPattern types the locals a pattern introduces. Variant sub-patterns
// receive the positional field types of the matched constructor.
func (b *bodyChecker) bindPattern(p *ast.Pattern, scrutinee types.TypeID) {
	switch p.Kind {
	case ast.PatBinding:
		id, ok := b.c.res.Table.PatternSym(p)
		if !ok {
			return
		}
		if sym := b.c.res.Table.Symbol(id); sym.Kind == symbols.SymLocal {
			b.env[id] = scrutinee
		}
	case ast.PatVariant:
		id, ok := b.c.res.Table.PatternSym(p)
		if !ok {
			for _, f := range p.Fields {
				b.bindPattern(f, types.Unknown)
			}
			return
		}
		sym := b.c.res.Table.Symbol(id)
		enumID := b.c.res.EnumOf[sym.Type]
		info, ok := b.c.res.Types.Enum(enumID)
		if !ok || sym.Variant >= len(info.Variants) {
			return
		}
		fields := info.Variants[sym.Variant].Fields
		for i, f := range p.Fields {
			ft := types.Unknown
			if i < len(fields) {
				ft = fields[i]
			}
			b.bindPattern(f, ft)
		}
	}
}
