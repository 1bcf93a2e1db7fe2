package mir

import (
	"mica/internal/ast"
	"mica/internal/hir"
	"mica/internal/layout"
	"mica/internal/sema"
	"mica/internal/types"
)

// Build lowers every HIR module into SSA over the checker's shared tables.
func Build(res *sema.Result, mods []*hir.Module) []*Module {
	out := make([]*Module, 0, len(mods))
	for _, hm := range mods {
		out = append(out, BuildModule(res, hm))
	}
	return out
}

// BuildModule lowers one module. The resulting Module shares the type and
// effect tables with the checker result and owns a fresh layout engine.
func BuildModule(res *sema.Result, hm *hir.Module) *Module {
	m := &Module{
		Path:    hm.Path,
		Types:   res.Types,
		Effects: res.Effects,
		Layouts: layout.NewEngine(res.Types),
	}
	for _, hfn := range hm.Funcs {
		m.Funcs = append(m.Funcs, m.buildFunc(hfn))
	}
	return m
}

// builder carries the state for one function: the current block, and the
// environment mapping HIR names to SSA values.
type builder struct {
	m   *Module
	fn  *Func
	cur *Block
	env map[string]ValueID

	// done is set once a return terminator lands; trailing statements
	// are unreachable and dropped.
	done bool
}

func (m *Module) buildFunc(hfn *hir.Function) *Func {
	fn := &Func{Name: hfn.Name, Return: hfn.Return, Effects: hfn.Effects}
	b := &builder{
		m:   m,
		fn:  fn,
		cur: fn.AddBlock(),
		env: make(map[string]ValueID, len(hfn.Params)+8),
	}

	for i, p := range hfn.Params {
		param := Param{Name: p.Name, Type: p.Type}
		if p.Capability {
			param.Effect = m.Effects.Intern(p.Effect)
		}
		fn.Params = append(fn.Params, param)

		id := fn.NewValue()
		b.cur.Instrs = append(b.cur.Instrs, Instr{
			ID:    id,
			Kind:  InstrParam,
			Type:  p.Type,
			Param: ParamInstr{Name: p.Name, Index: i},
		})
		b.env[p.Name] = id
	}

	value, hasValue := b.blockBody(hfn.Body)
	if !b.done {
		b.cur.Term = Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: hasValue, Value: value}}
	}
	return fn
}

// blockBody flattens a HIR block into the current basic block and returns
// its trailing value, if any.
func (b *builder) blockBody(blk *hir.Block) (ValueID, bool) {
	var value ValueID
	hasValue := false
	for i, stmt := range blk.Stmts {
		if b.done {
			break
		}
		switch stmt.Kind {
		case hir.StmtLet:
			b.env[stmt.Name] = b.expr(stmt.Value)
		case hir.StmtReturn:
			term := ReturnTerm{}
			if stmt.Value != nil {
				term.Value = b.expr(stmt.Value)
				term.HasValue = true
			}
			b.cur.Term = Terminator{Kind: TermReturn, Return: term}
			b.done = true
		case hir.StmtExpr:
			v := b.expr(stmt.Value)
			if i == len(blk.Stmts)-1 {
				value = v
				hasValue = true
			}
		}
	}
	return value, hasValue
}

func (b *builder) emit(in Instr) ValueID {
	in.ID = b.fn.NewValue()
	b.cur.Instrs = append(b.cur.Instrs, in)
	return in.ID
}

func (b *builder) expr(e *hir.Expr) ValueID {
	if e == nil {
		return NoValueID
	}
	switch e.Kind {
	case hir.ExprLit:
		return b.emit(Instr{Kind: InstrConst, Type: e.Type, Const: ConstInstr{Lit: e.Lit}})
	case hir.ExprVar:
		if id, ok := b.env[e.Var]; ok {
			return id
		}
		// A reference the resolver could not pin down; materialize a
		// placeholder so downstream operands stay well formed.
		return b.emit(Instr{Kind: InstrConst, Type: e.Type, Const: ConstInstr{
			Lit: &ast.Literal{Kind: ast.LitUnit},
		}})
	case hir.ExprBinary:
		lhs := b.expr(e.Binary.Lhs)
		rhs := b.expr(e.Binary.Rhs)
		return b.emit(Instr{Kind: InstrBin, Type: e.Type, Bin: BinInstr{
			Op: e.Binary.Op, Lhs: lhs, Rhs: rhs,
		}})
	case hir.ExprCall:
		args := make([]ValueID, len(e.Call.Args))
		for i, a := range e.Call.Args {
			args[i] = b.expr(a)
		}
		b.touchLayout(e.Type)
		return b.emit(Instr{Kind: InstrCall, Type: e.Type, Call: CallInstr{
			Callee:       e.Call.Callee,
			Args:         args,
			Effects:      e.Call.Effects,
			EffectsKnown: e.Call.EffectsKnown,
		}})
	case hir.ExprRecord:
		fields := make([]ValueID, len(e.Record.Fields))
		for i, f := range e.Record.Fields {
			fields[i] = b.expr(f.Value)
		}
		b.touchLayout(e.Type)
		return b.emit(Instr{Kind: InstrRecord, Type: e.Type, Record: RecordInstr{
			TypeName: e.Record.TypeName,
			Fields:   fields,
		}})
	case hir.ExprBlock:
		if value, ok := b.blockBody(e.Block); ok && value != NoValueID {
			return value
		}
		// A block without a trailing expression still yields an operand:
		// its consumers read unit.
		return b.emit(Instr{Kind: InstrConst, Type: e.Type, Const: ConstInstr{
			Lit: &ast.Literal{Kind: ast.LitUnit},
		}})
	default:
		return NoValueID
	}
}

// touchLayout computes and caches the layout of aggregate results.
// Unknown-typed values simply have no layout yet.
func (b *builder) touchLayout(id types.TypeID) {
	t, ok := b.m.Types.Lookup(id)
	if !ok {
		return
	}
	switch t.Kind {
	case types.KindRecord, types.KindEnum, types.KindTuple:
		_, _ = b.m.Layouts.Of(id)
	}
}
