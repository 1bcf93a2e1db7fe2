package sema

import (
	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/types"
)

// registerTypes installs every declared alias into the type interner.
// Nominal shells go in first so that variant and field types can refer to
// each other regardless of declaration order; the detail is patched in a
// second round, after which the interner side tables no longer grow.
func (c *checker) registerTypes() {
	type pending struct {
		alias *ast.TypeAlias
		id    types.TypeID
	}
	var enums, records []pending

	for _, mod := range c.res.Table.Modules {
		for _, item := range mod.AST.Items {
			if item.Kind != ast.ItemTypeAlias {
				continue
			}
			alias := item.Type
			c.aliasAST[alias.Name] = alias
			switch alias.Value.Kind {
			case ast.TypeSum:
				id := c.res.Types.AddEnum(types.EnumInfo{Name: alias.Name})
				c.res.EnumOf[alias] = id
				enums = append(enums, pending{alias, id})
			case ast.TypeRecord:
				id := c.res.Types.AddRecord(types.RecordInfo{Name: alias.Name})
				records = append(records, pending{alias, id})
			}
		}
	}

	for _, p := range enums {
		info, _ := c.res.Types.Enum(p.id)
		for _, v := range p.alias.Value.Variants {
			fields := make([]types.TypeID, len(v.Fields))
			for i, f := range v.Fields {
				fields[i] = c.convert(f)
			}
			info.Variants = append(info.Variants, types.VariantInfo{Name: v.Name, Fields: fields})
		}
	}
	for _, p := range records {
		info, _ := c.res.Types.Record(p.id)
		for _, f := range p.alias.Value.Fields {
			info.Fields = append(info.Fields, types.Field{Name: f.Name, Type: c.convert(f.Type)})
		}
	}
}

// convert maps a syntactic type to an interned TypeID. Names that resolve
// nowhere (capability marker types, generic parameters) become Unknown.
func (c *checker) convert(t *ast.TypeExpr) types.TypeID {
	if t == nil {
		return c.res.Types.Builtins().Unit
	}
	switch t.Kind {
	case ast.TypeName:
		return c.convertName(t.Name)
	case ast.TypeGeneric:
		if t.Name == "Chan" && len(t.Args) == 1 {
			return c.res.Types.InternChan(c.convert(t.Args[0]))
		}
		if t.Name == "Task" && len(t.Args) == 1 {
			return c.res.Types.InternTask(c.convert(t.Args[0]))
		}
		return types.Unknown
	case ast.TypeUnit:
		return c.res.Types.Builtins().Unit
	case ast.TypeTuple:
		elems := make([]types.TypeID, len(t.Args))
		for i, a := range t.Args {
			elems[i] = c.convert(a)
		}
		return c.res.Types.InternTuple(elems)
	case ast.TypeRecord:
		// Anonymous record types only appear as alias bodies; elsewhere
		// they collapse to Unknown.
		return types.Unknown
	case ast.TypeRef:
		return c.res.Types.InternRef(c.convert(t.Elem), t.Mutable)
	case ast.TypeFn:
		params := make([]types.TypeID, len(t.Fn.Params))
		for i, p := range t.Fn.Params {
			params[i] = c.convert(p)
		}
		row := c.internRow(t.Fn.Effects, nil)
		return c.res.Types.InternFn(params, c.convert(t.Fn.Return), row)
	default:
		return types.Unknown
	}
}

func (c *checker) convertName(name string) types.TypeID {
	if id, ok := c.res.Types.ByName(name); ok {
		return id
	}
	if id, ok := c.aliasID[name]; ok {
		return id
	}
	alias, ok := c.aliasAST[name]
	if !ok || c.resolving[name] {
		return types.Unknown
	}
	c.resolving[name] = true
	id := c.convert(alias.Value)
	delete(c.resolving, name)
	c.aliasID[name] = id
	return id
}

// internRow interns a declared effect row, diagnosing duplicates when a
// function is given.
func (c *checker) internRow(row []ast.EffectRef, fn *ast.Function) types.EffectRow {
	seen := make(map[string]bool, len(row))
	ids := make([]types.EffectID, 0, len(row))
	for _, e := range row {
		if seen[e.Name] {
			if fn != nil {
				diag.ReportError(c.reporter, diag.SemaDuplicateCapability, e.Span,
					"duplicate capability '"+e.Name+"' in function '"+fn.Name+"'").Emit()
			}
			continue
		}
		seen[e.Name] = true
		ids = append(ids, c.res.Effects.Intern(e.Name))
	}
	return types.NewEffectRow(ids...)
}

func (c *checker) collectSignatures() {
	for _, mod := range c.res.Table.Modules {
		for _, item := range mod.AST.Items {
			if item.Kind != ast.ItemFunction {
				continue
			}
			fn := item.Fn
			sig := &FuncSig{Name: fn.Name, Return: c.convert(fn.Return)}
			if fn.Return == nil {
				sig.Return = c.res.Types.Builtins().Unit
			}
			for _, p := range fn.Params {
				sig.Params = append(sig.Params, c.convert(p.Type))
			}
			sig.Effects = c.internRow(fn.Effects, fn)
			c.res.Sigs[fn] = sig
			c.checkEffectBindings(fn)
		}
	}
}

// checkEffectBindings verifies every declared effect is bound by a
// parameter of the same name.
func (c *checker) checkEffectBindings(fn *ast.Function) {
	params := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		params[p.Name] = true
	}
	seen := make(map[string]bool, len(fn.Effects))
	for _, e := range fn.Effects {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		if !params[e.Name] {
			diag.ReportError(c.reporter, diag.SemaUnboundEffect, e.Span,
				"effect '"+e.Name+"' declared by '"+fn.Name+"' has no capability parameter").Emit()
		}
	}
}
