package symbols

import (
	"strings"

	"mica/internal/ast"
	"mica/internal/diag"
)

// Resolver links names across a workspace in two phases: first every
// module's declarations are collected, then imports and function bodies
// are resolved against the complete declaration picture.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
}

// Resolve runs both phases over the modules and returns the table.
// Diagnostics go to reporter; resolution keeps going after errors so the
// checker sees as complete a table as possible.
func Resolve(modules []*ast.Module, reporter diag.Reporter) *Table {
	r := &Resolver{table: newTable(), reporter: reporter}
	for idx, m := range modules {
		r.declareModule(ModuleIdx(idx), m)
	}
	for idx := range modules {
		r.resolveModule(ModuleIdx(idx))
	}
	return r.table
}

func (r *Resolver) declareModule(idx ModuleIdx, m *ast.Module) {
	info := &ModuleInfo{
		Path:     m.Path(),
		AST:      m,
		Scope:    r.table.Arena.NewScope(NoScopeID),
		Exports:  make(map[string]SymbolID, 8),
		Variants: make(map[string]SymbolID, 8),
	}
	r.table.Modules = append(r.table.Modules, info)

	for _, item := range m.Items {
		switch item.Kind {
		case ast.ItemTypeAlias:
			r.declareType(idx, info, item.Type)
		case ast.ItemFunction:
			r.declareFunction(idx, info, item.Fn)
		}
	}
}

func (r *Resolver) declareType(idx ModuleIdx, info *ModuleInfo, alias *ast.TypeAlias) {
	if prev, ok := r.table.Arena.LookupLocal(info.Scope, alias.Name); ok {
		diag.ReportError(r.reporter, diag.ResDuplicateSymbol, alias.Span,
			"duplicate declaration of '"+alias.Name+"'").
			WithNote(r.table.Symbol(prev).Span, "previously declared here").
			Emit()
		return
	}
	id := r.table.Arena.Declare(Symbol{
		Name:   alias.Name,
		Kind:   SymType,
		Span:   alias.Span,
		Scope:  info.Scope,
		Module: idx,
		Public: alias.Public,
		Type:   alias,
	})
	if alias.Public {
		info.Exports[alias.Name] = id
	}
	if alias.Value.Kind != ast.TypeSum {
		return
	}
	seen := make(map[string]bool, len(alias.Value.Variants))
	for vi, v := range alias.Value.Variants {
		if seen[v.Name] {
			diag.ReportError(r.reporter, diag.ResDuplicateVariant, v.Span,
				"duplicate variant '"+v.Name+"' in type '"+alias.Name+"'").Emit()
			continue
		}
		seen[v.Name] = true
		vid := r.table.Arena.Declare(Symbol{
			Name:    v.Name,
			Kind:    SymVariant,
			Span:    v.Span,
			Module:  idx,
			Public:  alias.Public,
			Type:    alias,
			Variant: vi,
		})
		r.indexVariant(info, alias.Name, v.Name, vid)
	}
}

// indexVariant registers the three accepted spellings of a constructor.
// A bare name shared by two enums becomes ambiguous and is dropped from
// the bare index.
func (r *Resolver) indexVariant(info *ModuleInfo, typeName, variantName string, id SymbolID) {
	qualified := typeName + "::" + variantName
	info.Variants[qualified] = id
	full := strings.ReplaceAll(info.Path, ".", "::") + "::" + qualified
	info.Variants[full] = id
	if prev, ok := info.Variants[variantName]; ok && prev != id {
		delete(info.Variants, variantName)
		return
	}
	info.Variants[variantName] = id
}

func (r *Resolver) declareFunction(idx ModuleIdx, info *ModuleInfo, fn *ast.Function) {
	if prev, ok := r.table.Arena.LookupLocal(info.Scope, fn.Name); ok {
		diag.ReportError(r.reporter, diag.ResDuplicateSymbol, fn.Span,
			"duplicate declaration of '"+fn.Name+"'").
			WithNote(r.table.Symbol(prev).Span, "previously declared here").
			Emit()
		return
	}
	id := r.table.Arena.Declare(Symbol{
		Name:   fn.Name,
		Kind:   SymFunction,
		Span:   fn.Span,
		Scope:  info.Scope,
		Module: idx,
		Public: fn.Public,
		Fn:     fn,
	})
	if fn.Public {
		info.Exports[fn.Name] = id
	}
}

func (r *Resolver) resolveModule(idx ModuleIdx) {
	info := r.table.Modules[idx]
	for _, item := range info.AST.Items {
		if item.Kind == ast.ItemUse {
			r.resolveImport(idx, info, item.Use)
		}
	}
	for _, item := range info.AST.Items {
		if item.Kind == ast.ItemFunction {
			r.resolveFunction(idx, info, item.Fn)
		}
	}
}

func (r *Resolver) resolveImport(idx ModuleIdx, info *ModuleInfo, use *ast.UseDecl) {
	path := strings.Join(use.Path, ".")
	alias := use.Alias
	if alias == "" {
		alias = use.Path[len(use.Path)-1]
	}

	if target, ok := r.table.Module(path); ok {
		ti := r.moduleIdxOf(target)
		r.table.Arena.Declare(Symbol{
			Name:         alias,
			Kind:         SymModule,
			Span:         use.Span,
			Scope:        info.Scope,
			Module:       idx,
			TargetModule: ti,
		})
		return
	}

	if len(use.Path) > 1 {
		modPath := strings.Join(use.Path[:len(use.Path)-1], ".")
		member := use.Path[len(use.Path)-1]
		if target, ok := r.table.Module(modPath); ok {
			if id, ok := target.Exports[member]; ok {
				r.table.Arena.Declare(Symbol{
					Name:         alias,
					Kind:         SymModule,
					Span:         use.Span,
					Scope:        info.Scope,
					Module:       idx,
					Target:       id,
					TargetModule: r.moduleIdxOf(target),
				})
				return
			}
			if sid, ok := r.table.Arena.LookupLocal(target.Scope, member); ok && !r.table.Symbol(sid).Public {
				diag.ReportError(r.reporter, diag.ResImportNotExported, use.Span,
					"'"+member+"' exists in module '"+modPath+"' but is not public").Emit()
				return
			}
			diag.ReportError(r.reporter, diag.ResUnknownImport, use.Span,
				"module '"+modPath+"' has no member '"+member+"'").Emit()
			return
		}
	}

	diag.ReportError(r.reporter, diag.ResUnknownImport, use.Span,
		"cannot resolve import '"+path+"'").Emit()
}

func (r *Resolver) moduleIdxOf(info *ModuleInfo) ModuleIdx {
	for i, m := range r.table.Modules {
		if m == info {
			return ModuleIdx(i)
		}
	}
	return -1
}

func (r *Resolver) resolveFunction(idx ModuleIdx, info *ModuleInfo, fn *ast.Function) {
	scope := r.table.Arena.NewScope(info.Scope)
	r.table.funcs[fn] = scope

	effectNames := make(map[string]bool, len(fn.Effects))
	for _, e := range fn.Effects {
		effectNames[e.Name] = true
	}

	for _, p := range fn.Params {
		if prev, ok := r.table.Arena.LookupLocal(scope, p.Name); ok {
			diag.ReportError(r.reporter, diag.ResDuplicateSymbol, p.Span,
				"duplicate parameter '"+p.Name+"'").
				WithNote(r.table.Symbol(prev).Span, "previously declared here").
				Emit()
			continue
		}
		kind := SymParam
		effect := ""
		if effectNames[p.Name] {
			kind = SymCapability
			effect = p.Name
		}
		r.table.Arena.Declare(Symbol{
			Name:    p.Name,
			Kind:    kind,
			Span:    p.Span,
			Scope:   scope,
			Module:  idx,
			Effect:  effect,
			Mutable: p.Mutable,
		})
	}

	w := &walker{r: r, info: info, module: idx}
	w.block(scope, fn.Body)
}
