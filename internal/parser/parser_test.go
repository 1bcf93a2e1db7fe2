package parser_test

import (
	"testing"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/parser"
	"mica/internal/source"
)

func parse(t *testing.T, src string) (*ast.Module, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mica", []byte(src))
	bag := diag.NewBag(32)
	m := parser.ParseFile(fs.Get(id), diag.BagReporter{Bag: bag})
	return m, bag
}

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	m, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.Items())
	}
	return m
}

const pipelineSrc = `
module pipeline.demo

type TaskResult = Done(Int) | Failed(String)

fn orchestrate(job_id: Int, io: IO, net: Net) -> TaskResult !{io, net} {
  let pending = spawn network::fetch(job_id, net)
  using io::open("log.txt", io) {
    let status = await pending
    if status == 0 {
      TaskResult::Done(status)
    } else {
      TaskResult::Failed("error")
    }
  }
}

fn classify(result: TaskResult) -> Int {
  match result {
    TaskResult::Done(value) => value,
    TaskResult::Failed(_) => 0,
  }
}
`

func TestParsePipelineModule(t *testing.T) {
	m := mustParse(t, pipelineSrc)

	if m.Path() != "pipeline.demo" {
		t.Fatalf("module path = %q", m.Path())
	}
	if len(m.Items) != 3 {
		t.Fatalf("items = %d, want type alias and two functions", len(m.Items))
	}

	alias := m.Items[0].Type
	if alias == nil || alias.Value.Kind != ast.TypeSum {
		t.Fatalf("item 0 is not a sum type alias: %+v", m.Items[0])
	}
	if len(alias.Value.Variants) != 2 || alias.Value.Variants[0].Name != "Done" {
		t.Fatalf("variants = %+v", alias.Value.Variants)
	}
	if len(alias.Value.Variants[0].Fields) != 1 {
		t.Fatalf("Done fields = %+v", alias.Value.Variants[0].Fields)
	}

	fn := m.Items[1].Fn
	if fn == nil || fn.Name != "orchestrate" {
		t.Fatalf("item 1 = %+v", m.Items[1])
	}
	if len(fn.Params) != 3 || fn.Params[0].Name != "job_id" {
		t.Fatalf("params = %+v", fn.Params)
	}
	if len(fn.Effects) != 2 || fn.Effects[0].Name != "io" || fn.Effects[1].Name != "net" {
		t.Fatalf("effect row = %+v", fn.Effects)
	}
	if fn.Return == nil || fn.Return.Name != "TaskResult" {
		t.Fatalf("return type = %+v", fn.Return)
	}

	// let pending = spawn network::fetch(job_id, net)
	let := fn.Body.Stmts[0].Let
	if let == nil || let.Name != "pending" || let.Value.Kind != ast.ExprSpawn {
		t.Fatalf("first stmt = %+v", fn.Body.Stmts[0])
	}
	spawned := let.Value.Inner
	if spawned.Kind != ast.ExprCall || spawned.Call.Callee.Path.String() != "network::fetch" {
		t.Fatalf("spawned callee = %+v", spawned)
	}

	// using ... { ... }
	usingStmt := fn.Body.Stmts[1]
	if usingStmt.Expr == nil || usingStmt.Expr.Kind != ast.ExprUsing {
		t.Fatalf("second stmt = %+v", usingStmt)
	}
	using := usingStmt.Expr.Using
	if using.Acquire.Kind != ast.ExprCall || len(using.Body.Stmts) != 2 {
		t.Fatalf("using = %+v", using)
	}
}

func TestParseMatchArms(t *testing.T) {
	m := mustParse(t, pipelineSrc)
	classify := m.Items[2].Fn
	match := classify.Body.Stmts[0].Expr.Match
	if match == nil || len(match.Arms) != 2 {
		t.Fatalf("match = %+v", match)
	}
	done := match.Arms[0].Pattern
	if done.Kind != ast.PatVariant || done.VariantName() != "Done" {
		t.Fatalf("arm 0 pattern = %+v", done)
	}
	if len(done.Fields) != 1 || done.Fields[0].Kind != ast.PatBinding {
		t.Fatalf("Done sub-patterns = %+v", done.Fields)
	}
	failed := match.Arms[1].Pattern
	if failed.Fields[0].Kind != ast.PatWildcard {
		t.Fatalf("Failed sub-pattern = %+v", failed.Fields[0])
	}
}

func TestParseBarePatternIsBinding(t *testing.T) {
	m := mustParse(t, `
module m
type Response = Success | Failure | Retry
fn handle(resp: Response) -> Int {
  match resp {
    Success => 1,
    other => 0,
  }
}
`)
	match := m.Items[1].Fn.Body.Stmts[0].Expr.Match
	if match.Arms[0].Pattern.Kind != ast.PatBinding || match.Arms[0].Pattern.Name != "Success" {
		t.Fatalf("bare variant pattern = %+v", match.Arms[0].Pattern)
	}
}

func TestParsePrecedence(t *testing.T) {
	m := mustParse(t, `
module m
fn f(a: Int, b: Int) -> Bool {
  a + b * 2 == 10 && !(a < b) || b >= 0
}
`)
	expr := m.Items[0].Fn.Body.Stmts[0].Expr
	if expr.Kind != ast.ExprBinary || expr.Binary.Op != ast.BinOr {
		t.Fatalf("top operator = %+v", expr)
	}
	and := expr.Binary.Lhs
	if and.Binary.Op != ast.BinAnd {
		t.Fatalf("lhs of || = %+v", and)
	}
	eq := and.Binary.Lhs
	if eq.Binary.Op != ast.BinEq {
		t.Fatalf("lhs of && = %+v", eq)
	}
	sum := eq.Binary.Lhs
	if sum.Binary.Op != ast.BinAdd || sum.Binary.Rhs.Binary.Op != ast.BinMul {
		t.Fatalf("'*' must bind tighter than '+': %+v", sum)
	}
}

func TestParseRecordTypeAndLiteral(t *testing.T) {
	m := mustParse(t, `
module m
type Point = { x: Int, y: Int }
fn origin() -> Point {
  Point { x: 0, y: 0 }
}
`)
	alias := m.Items[0].Type
	if alias.Value.Kind != ast.TypeRecord || len(alias.Value.Fields) != 2 {
		t.Fatalf("record type = %+v", alias.Value)
	}
	rec := m.Items[1].Fn.Body.Stmts[0].Expr
	if rec.Kind != ast.ExprRecord || len(rec.Record.Fields) != 2 {
		t.Fatalf("record literal = %+v", rec)
	}
}

func TestParseChanAndTry(t *testing.T) {
	m := mustParse(t, `
module m
fn f(io: IO) -> Int !{io} {
  let ch = chan[Int](8)
  let file = io::open("x")?
  0
}
`)
	stmts := m.Items[0].Fn.Body.Stmts
	if stmts[0].Let.Value.Kind != ast.ExprChan {
		t.Fatalf("chan expr = %+v", stmts[0].Let.Value)
	}
	if stmts[1].Let.Value.Kind != ast.ExprTry {
		t.Fatalf("try expr = %+v", stmts[1].Let.Value)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	m, bag := parse(t, `
module m
type = broken
fn ok() -> Int { 1 }
`)
	if !bag.HasErrors() {
		t.Fatal("expected diagnostics for malformed type alias")
	}
	found := false
	for _, item := range m.Items {
		if item.Kind == ast.ItemFunction && item.Fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("parser did not recover to parse fn ok: %+v", m.Items)
	}
}

func TestParseMissingModuleHeader(t *testing.T) {
	_, bag := parse(t, `fn f() -> Int { 1 }`)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for the missing module header")
	}
	if bag.Items()[0].Code != diag.SynExpectModuleHeader {
		t.Fatalf("first diagnostic = %+v", bag.Items()[0])
	}
}
