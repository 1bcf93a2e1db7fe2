package mir_test

import (
	"strings"
	"testing"

	"mica/internal/ast"
	"mica/internal/layout"
	"mica/internal/mir"
	"mica/internal/types"
)

func newModule() *mir.Module {
	in := types.NewInterner()
	return &mir.Module{
		Path:    "test",
		Types:   in,
		Effects: types.NewEffectTable(),
		Layouts: layout.NewEngine(in),
	}
}

func constInt(fn *mir.Func, v int64, t types.TypeID) mir.Instr {
	return mir.Instr{
		ID:    fn.NewValue(),
		Kind:  mir.InstrConst,
		Type:  t,
		Const: mir.ConstInstr{Lit: &ast.Literal{Kind: ast.LitInt, Int: v}},
	}
}

// branchingFunc builds a diamond CFG by hand:
//
//	bb0: branch %2, bb1, bb2
//	bb1: jump bb3
//	bb2: jump bb3
//	bb3: return %1
func branchingFunc(m *mir.Module) *mir.Func {
	b := m.Types.Builtins()
	fn := &mir.Func{Name: "diamond", Return: b.Int}
	m.Funcs = append(m.Funcs, fn)

	entry := fn.AddBlock()
	c := constInt(fn, 1, b.Int)
	cond := mir.Instr{
		ID:    fn.NewValue(),
		Kind:  mir.InstrConst,
		Type:  b.Bool,
		Const: mir.ConstInstr{Lit: &ast.Literal{Kind: ast.LitBool, Bool: true}},
	}
	entry.Instrs = append(entry.Instrs, c, cond)

	then := fn.AddBlock()
	els := fn.AddBlock()
	exit := fn.AddBlock()

	entry.Term = mir.Terminator{Kind: mir.TermBranch, Branch: mir.BranchTerm{
		Cond: cond.ID, Then: then.ID, Else: els.ID,
	}}
	then.Term = mir.Terminator{Kind: mir.TermJump, Jump: mir.JumpTerm{Target: exit.ID}}
	els.Term = mir.Terminator{Kind: mir.TermJump, Jump: mir.JumpTerm{Target: exit.ID}}
	exit.Term = mir.Terminator{Kind: mir.TermReturn, Return: mir.ReturnTerm{HasValue: true, Value: c.ID}}
	return fn
}

func TestBranchingCFGValidates(t *testing.T) {
	m := newModule()
	branchingFunc(m)
	if err := mir.Validate(m); err != nil {
		t.Fatalf("diamond CFG must validate: %v", err)
	}
}

func TestBranchingCFGPrints(t *testing.T) {
	m := newModule()
	branchingFunc(m)
	dump := mir.DumpModule(m)
	for _, want := range []string{"branch %2, bb1, bb2", "jump bb3", "return %1"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q\n%s", want, dump)
		}
	}
}

func TestMissingTerminator(t *testing.T) {
	m := newModule()
	fn := &mir.Func{Name: "broken", Return: m.Types.Builtins().Unit}
	m.Funcs = append(m.Funcs, fn)
	fn.AddBlock()

	err := mir.Validate(m)
	if err == nil || !strings.Contains(err.Error(), "missing terminator") {
		t.Fatalf("err = %v", err)
	}
}

func TestDoubleDefinedValue(t *testing.T) {
	m := newModule()
	b := m.Types.Builtins()
	fn := &mir.Func{Name: "dup", Return: b.Int}
	m.Funcs = append(m.Funcs, fn)
	entry := fn.AddBlock()
	c := constInt(fn, 1, b.Int)
	entry.Instrs = append(entry.Instrs, c, c)
	entry.Term = mir.Terminator{Kind: mir.TermReturn, Return: mir.ReturnTerm{HasValue: true, Value: c.ID}}

	err := mir.Validate(m)
	if err == nil || !strings.Contains(err.Error(), "defined twice") {
		t.Fatalf("err = %v", err)
	}
}

func TestDanglingBranchTarget(t *testing.T) {
	m := newModule()
	b := m.Types.Builtins()
	fn := &mir.Func{Name: "dangling", Return: b.Unit}
	m.Funcs = append(m.Funcs, fn)
	entry := fn.AddBlock()
	cond := mir.Instr{
		ID:    fn.NewValue(),
		Kind:  mir.InstrConst,
		Type:  b.Bool,
		Const: mir.ConstInstr{Lit: &ast.Literal{Kind: ast.LitBool, Bool: true}},
	}
	entry.Instrs = append(entry.Instrs, cond)
	entry.Term = mir.Terminator{Kind: mir.TermBranch, Branch: mir.BranchTerm{
		Cond: cond.ID, Then: 7, Else: 8,
	}}

	err := mir.Validate(m)
	if err == nil || !strings.Contains(err.Error(), "missing bb7") {
		t.Fatalf("err = %v", err)
	}
}

func TestUndefinedOperand(t *testing.T) {
	m := newModule()
	b := m.Types.Builtins()
	fn := &mir.Func{Name: "undef", Return: b.Int}
	m.Funcs = append(m.Funcs, fn)
	entry := fn.AddBlock()
	bin := mir.Instr{
		ID:   fn.NewValue(),
		Kind: mir.InstrBin,
		Type: b.Int,
		Bin:  mir.BinInstr{Op: ast.BinAdd, Lhs: 40, Rhs: 41},
	}
	entry.Instrs = append(entry.Instrs, bin)
	entry.Term = mir.Terminator{Kind: mir.TermReturn, Return: mir.ReturnTerm{HasValue: true, Value: bin.ID}}

	err := mir.Validate(m)
	if err == nil || !strings.Contains(err.Error(), "undefined") {
		t.Fatalf("err = %v", err)
	}
}
