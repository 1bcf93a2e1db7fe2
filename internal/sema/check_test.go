package sema_test

import (
	"fmt"
	"strings"
	"testing"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/parser"
	"mica/internal/sema"
	"mica/internal/source"
	"mica/internal/symbols"
	"mica/internal/types"
)

func check(t *testing.T, srcs ...string) (*sema.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	var modules []*ast.Module
	for i, src := range srcs {
		id := fs.AddVirtual(fmt.Sprintf("test%d.mica", i), []byte(src))
		modules = append(modules, parser.ParseFile(fs.Get(id), rep))
	}
	if bag.HasErrors() {
		t.Fatalf("parse diagnostics: %+v", bag.Items())
	}
	table := symbols.Resolve(modules, rep)
	return sema.Check(table, rep), bag
}

func codesOf(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestColorModuleChecksClean(t *testing.T) {
	res, bag := check(t, `
module colors

type Color = Red | Green | Blue

fn to_text(c: Color) -> String {
  match c {
    Red => "red",
    Green => "green",
    Blue => "blue",
  }
}
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	mod, _ := res.Table.Module("colors")
	fn := mod.AST.Items[1].Fn
	sig := res.Sigs[fn]
	if sig.Return != res.Types.Builtins().String {
		t.Fatalf("to_text return = %s", res.Types.Format(sig.Return))
	}
	body := fn.Body.Stmts[0].Expr
	if res.TypeOf(body) != res.Types.Builtins().String {
		t.Fatalf("match type = %s", res.Types.Format(res.TypeOf(body)))
	}
}

func TestNonExhaustiveMatch(t *testing.T) {
	_, bag := check(t, `
module m
type Color = Red | Green | Blue
fn partial(c: Color) -> Int {
  match c {
    Red => 1,
    Green => 2,
  }
}
`)
	if len(bag.Items()) != 1 || bag.Items()[0].Code != diag.SemaNonExhaustiveMatch {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
	if bag.Items()[0].Severity != diag.SevWarning {
		t.Fatalf("severity = %v, want warning", bag.Items()[0].Severity)
	}
	if bag.HasErrors() {
		t.Fatal("a match hole alone must not fail the check")
	}
	msg := bag.Items()[0].Message
	if msg != "non-exhaustive match for Color: missing variants Blue" {
		t.Fatalf("message = %q", msg)
	}
}

func TestWildcardCoversRemainingVariants(t *testing.T) {
	_, bag := check(t, `
module m
type Color = Red | Green | Blue
fn f(c: Color) -> Int {
  match c {
    Red => 1,
    _ => 0,
  }
}
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
}

func TestGuardedArmDoesNotCover(t *testing.T) {
	_, bag := check(t, `
module m
type Flag = On | Off
fn f(x: Flag, n: Int) -> Int {
  match x {
    On => 1,
    Off if n > 0 => 2,
  }
}
`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaNonExhaustiveMatch && strings.Contains(d.Message, "Off") {
			found = true
		}
	}
	if !found {
		t.Fatalf("guarded arm must not count as coverage: %+v", bag.Items())
	}
}

func TestCapabilityPropagation(t *testing.T) {
	_, bag := check(t, `
module pipeline.demo

type TaskResult = Done(Int) | Failed(String)

fn orchestrate(job_id: Int, io: IO, net: Net) -> TaskResult !{io, net} {
  let pending = spawn network::fetch(job_id, net)
  let status = await pending
  if status == 0 { TaskResult::Done(status) } else { TaskResult::Failed("error") }
}
`)
	if bag.HasErrors() {
		t.Fatalf("declared capabilities must satisfy the body: %+v", bag.Items())
	}
}

func TestMissingCapability(t *testing.T) {
	_, bag := check(t, `
module m

fn fetch(url: String, net: Net) -> Int !{net} {
  0
}

fn caller(url: String) -> Int {
  fetch(url, url)
}
`)
	var hits []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Code == diag.SemaMissingCapability {
			hits = append(hits, d)
		}
	}
	if len(hits) != 1 {
		t.Fatalf("want exactly one MissingCapability, got %+v", bag.Items())
	}
	if !strings.Contains(hits[0].Message, "'net'") || !strings.Contains(hits[0].Message, "'caller'") {
		t.Fatalf("message = %q", hits[0].Message)
	}
}

func TestDuplicateCapability(t *testing.T) {
	_, bag := check(t, `
module m
fn f(io: IO) !{io, io} {
  ()
}
`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaDuplicateCapability {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
}

func TestUnboundEffect(t *testing.T) {
	_, bag := check(t, `
module m
fn f(x: Int) -> Int !{io} {
  x
}
`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaUnboundEffect {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
}

func TestArityMismatch(t *testing.T) {
	_, bag := check(t, `
module m
type Pair = Two(Int, Int) | None
fn add(a: Int, b: Int) -> Int { a + b }
fn broken() -> Int {
  let p = Pair::Two(1)
  add(1, 2, 3)
}
`)
	count := 0
	for _, d := range bag.Items() {
		if d.Code == diag.SemaArityMismatch {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("want 2 arity diagnostics, got %+v", bag.Items())
	}
}

func TestUnboundIdentifier(t *testing.T) {
	_, bag := check(t, `
module m
fn f() -> Int {
  nope
}
`)
	if len(bag.Items()) == 0 || bag.Items()[0].Code != diag.SemaUnboundIdentifier {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
}

func TestReturnTypeMismatch(t *testing.T) {
	_, bag := check(t, `
module m
fn f() -> Int {
  "text"
}
`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaTypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
}

func TestRecordLiteralFields(t *testing.T) {
	res, bag := check(t, `
module m
type Point = { x: Int, y: Int }
fn origin() -> Point {
  Point { x: 0, y: 0 }
}
fn bad() -> Point {
  Point { x: 0, z: 1 }
}
`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaTypeMismatch && strings.Contains(d.Message, "'z'") {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
	mod, _ := res.Table.Module("m")
	lit := mod.AST.Items[1].Fn.Body.Stmts[0].Expr
	if _, ok := res.Types.Record(res.TypeOf(lit)); !ok {
		t.Fatalf("record literal type = %s", res.Types.Format(res.TypeOf(lit)))
	}
}

func TestSpawnAwaitTyping(t *testing.T) {
	res, bag := check(t, `
module m
fn job() -> Int { 42 }
fn run() -> Int {
  let pending = spawn job()
  await pending
}
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	mod, _ := res.Table.Module("m")
	run := mod.AST.Items[1].Fn
	spawnExpr := run.Body.Stmts[0].Let.Value
	st, _ := res.Types.Lookup(res.TypeOf(spawnExpr))
	if st.Kind != types.KindTask || st.Elem != res.Types.Builtins().Int {
		t.Fatalf("spawn type = %s", res.Types.Format(res.TypeOf(spawnExpr)))
	}
	awaitExpr := run.Body.Stmts[1].Expr
	if res.TypeOf(awaitExpr) != res.Types.Builtins().Int {
		t.Fatalf("await type = %s", res.Types.Format(res.TypeOf(awaitExpr)))
	}
}
