package symbols_test

import (
	"fmt"
	"reflect"
	"testing"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/parser"
	"mica/internal/source"
	"mica/internal/symbols"
)

func resolve(t *testing.T, srcs ...string) (*symbols.Table, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	var modules []*ast.Module
	for i, src := range srcs {
		id := fs.AddVirtual(fmt.Sprintf("test%d.mica", i), []byte(src))
		modules = append(modules, parser.ParseFile(fs.Get(id), rep))
	}
	if bag.HasErrors() {
		t.Fatalf("parse diagnostics: %+v", bag.Items())
	}
	return symbols.Resolve(modules, rep), bag
}

const pipelineSrc = `
module pipeline.demo

type TaskResult = Done(Int) | Failed(String)

fn orchestrate(job_id: Int, io: IO, net: Net) -> TaskResult !{io, net} {
  let pending = spawn network::fetch(job_id, net)
  let status = await pending
  if status == 0 { TaskResult::Done(status) } else { TaskResult::Failed("error") }
}

fn classify(result: TaskResult) -> Int {
  match result {
    TaskResult::Done(value) => value,
    TaskResult::Failed(_) => 0,
  }
}
`

func TestResolveDeclarations(t *testing.T) {
	tbl, bag := resolve(t, pipelineSrc)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	mod, ok := tbl.Module("pipeline.demo")
	if !ok {
		t.Fatal("module not registered")
	}
	for _, key := range []string{"Done", "TaskResult::Done", "pipeline::demo::TaskResult::Done"} {
		if _, ok := mod.Variants[key]; !ok {
			t.Errorf("variant index missing key %q", key)
		}
	}
}

func TestCapabilityParams(t *testing.T) {
	tbl, _ := resolve(t, pipelineSrc)
	mod, _ := tbl.Module("pipeline.demo")
	fn := mod.AST.Items[1].Fn

	caps := tbl.Capabilities(fn)
	if len(caps) != 2 || caps[0].Effect != "io" || caps[1].Effect != "net" {
		t.Fatalf("capabilities = %+v", caps)
	}

	scope, _ := tbl.FunctionScope(fn)
	id, ok := tbl.Arena.Lookup(scope, "job_id")
	if !ok || tbl.Symbol(id).Kind != symbols.SymParam {
		t.Fatalf("job_id = %+v", tbl.Symbol(id))
	}
}

func TestResolveLocalsAndVariants(t *testing.T) {
	tbl, _ := resolve(t, pipelineSrc)
	mod, _ := tbl.Module("pipeline.demo")
	orchestrate := mod.AST.Items[1].Fn

	// `await pending` must resolve to the let-binding above it.
	awaitExpr := orchestrate.Body.Stmts[1].Let.Value
	pending := awaitExpr.Inner
	id, ok := tbl.ResolutionOf(pending)
	if !ok || tbl.Symbol(id).Kind != symbols.SymLocal || tbl.Symbol(id).Name != "pending" {
		t.Fatalf("pending resolved to %+v (ok=%v)", tbl.Symbol(id), ok)
	}

	// TaskResult::Done in the then-branch resolves to the constructor.
	ifExpr := orchestrate.Body.Stmts[2].Expr
	thenBlock := ifExpr.If.Then
	call := thenBlock.Block.Stmts[0].Expr
	vid, ok := tbl.ResolutionOf(call.Call.Callee)
	if !ok || tbl.Symbol(vid).Kind != symbols.SymVariant || tbl.Symbol(vid).Variant != 0 {
		t.Fatalf("Done resolved to %+v (ok=%v)", tbl.Symbol(vid), ok)
	}

	// network::fetch is external: no resolution, no diagnostic.
	spawned := orchestrate.Body.Stmts[0].Let.Value.Inner
	if _, ok := tbl.ResolutionOf(spawned.Call.Callee); ok {
		t.Fatal("external path must stay unresolved")
	}
}

func TestPatternResolution(t *testing.T) {
	tbl, _ := resolve(t, pipelineSrc)
	mod, _ := tbl.Module("pipeline.demo")
	classify := mod.AST.Items[2].Fn
	match := classify.Body.Stmts[0].Expr.Match

	done := match.Arms[0].Pattern
	id, ok := tbl.PatternSym(done)
	if !ok || tbl.Symbol(id).Kind != symbols.SymVariant {
		t.Fatalf("Done pattern = %+v", tbl.Symbol(id))
	}
	binding := done.Fields[0]
	bid, ok := tbl.PatternSym(binding)
	if !ok || tbl.Symbol(bid).Kind != symbols.SymLocal || tbl.Symbol(bid).Name != "value" {
		t.Fatalf("value binding = %+v", tbl.Symbol(bid))
	}
}

func TestBareBindingThatNamesAVariant(t *testing.T) {
	tbl, bag := resolve(t, `
module m
type Response = Success | Failure
fn handle(resp: Response) -> Int {
  match resp {
    Success => 1,
    other => 0,
  }
}
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	mod, _ := tbl.Module("m")
	match := mod.AST.Items[1].Fn.Body.Stmts[0].Expr.Match

	id, ok := tbl.PatternSym(match.Arms[0].Pattern)
	if !ok || tbl.Symbol(id).Kind != symbols.SymVariant {
		t.Fatalf("bare 'Success' must resolve as a variant: %+v", tbl.Symbol(id))
	}
	other, ok := tbl.PatternSym(match.Arms[1].Pattern)
	if !ok || tbl.Symbol(other).Kind != symbols.SymLocal {
		t.Fatalf("'other' must bind a local: %+v", tbl.Symbol(other))
	}
}

func TestResolutionIsDeterministic(t *testing.T) {
	// Two independent parse+resolve runs over the same text must agree on
	// every observable binding.
	snapshot := func(tbl *symbols.Table) map[string]map[string]string {
		out := make(map[string]map[string]string)
		for _, mod := range tbl.Modules {
			view := make(map[string]string)
			for name, id := range mod.Exports {
				sym := tbl.Symbol(id)
				view["export:"+name] = fmt.Sprintf("%v/%s", sym.Kind, sym.Name)
			}
			for name, id := range mod.Variants {
				sym := tbl.Symbol(id)
				view["variant:"+name] = fmt.Sprintf("%v/%s/%d", sym.Kind, sym.Name, sym.Variant)
			}
			for _, item := range mod.AST.Items {
				if item.Kind != ast.ItemFunction {
					continue
				}
				for i, c := range tbl.Capabilities(item.Fn) {
					view[fmt.Sprintf("cap:%s:%d", item.Fn.Name, i)] = c.Name + "/" + c.Effect
				}
			}
			out[mod.Path] = view
		}
		return out
	}

	first, _ := resolve(t, pipelineSrc)
	second, _ := resolve(t, pipelineSrc)
	a, b := snapshot(first), snapshot(second)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("resolution differs between runs:\n%v\n%v", a, b)
	}
}

func TestDuplicateDeclarations(t *testing.T) {
	_, bag := resolve(t, `
module m
fn f() -> Int { 1 }
fn f() -> Int { 2 }
type T = Red | Red
`)
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	want := map[diag.Code]bool{diag.ResDuplicateSymbol: false, diag.ResDuplicateVariant: false}
	for _, c := range codes {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for c, seen := range want {
		if !seen {
			t.Errorf("missing diagnostic %v in %v", c, codes)
		}
	}
}

func TestCrossModuleImports(t *testing.T) {
	util := `
module app.util
pub fn helper(x: Int) -> Int { x }
fn hidden() -> Int { 0 }
`
	main := `
module app.main
use app.util;
use app.util.helper as h;
fn run() -> Int {
  let a = util::helper(1)
  let b = h(2)
  a + b
}
`
	tbl, bag := resolve(t, util, main)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	mod, _ := tbl.Module("app.main")
	run := mod.AST.Items[2].Fn

	callee := run.Body.Stmts[0].Let.Value.Call.Callee
	id, ok := tbl.ResolutionOf(callee)
	if !ok || tbl.Symbol(id).Name != "helper" || tbl.Symbol(id).Kind != symbols.SymFunction {
		t.Fatalf("util::helper resolved to %+v (ok=%v)", tbl.Symbol(id), ok)
	}

	aliased := run.Body.Stmts[1].Let.Value.Call.Callee
	aid, ok := tbl.ResolutionOf(aliased)
	if !ok || aid != id {
		t.Fatalf("aliased import must reach the same symbol: %v vs %v", aid, id)
	}
}

func TestImportDiagnostics(t *testing.T) {
	util := `
module app.util
fn hidden() -> Int { 0 }
`
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"unknown module", "module m\nuse no.such.thing;", diag.ResUnknownImport},
		{"private member", "module m\nuse app.util.hidden;", diag.ResImportNotExported},
		{"missing member", "module m\nuse app.util.nothing;", diag.ResUnknownImport},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := resolve(t, util, tc.src)
			found := false
			for _, d := range bag.Items() {
				if d.Code == tc.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("want %v, got %+v", tc.code, bag.Items())
			}
		})
	}
}
