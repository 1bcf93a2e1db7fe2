package astprint_test

import (
	"strings"
	"testing"

	"mica/internal/astprint"
	"mica/internal/diag"
	"mica/internal/parser"
	"mica/internal/source"
)

func parse(t *testing.T, src string) string {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mica", []byte(src))
	bag := diag.NewBag(32)
	m := parser.ParseFile(fs.Get(id), diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("parse diagnostics: %+v", bag.Items())
	}
	return astprint.Module(m)
}

const demoSrc = `
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

func TestPrintSignatures(t *testing.T) {
	out := parse(t, demoSrc)
	for _, want := range []string{
		"module pipeline.demo",
		"type TaskResult = Done(Int) | Failed(String)",
		"fn orchestrate(job_id: Int, io: IO, net: Net) -> TaskResult !{io, net} {",
		"fn classify(result: TaskResult) -> Int {",
		"let pending = spawn network::fetch(job_id, net);",
		"TaskResult::Failed(_) => 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestPrintIsStable(t *testing.T) {
	if parse(t, demoSrc) != parse(t, demoSrc) {
		t.Fatal("pretty printer output differs between runs")
	}
}

func TestPrintRecordAndUse(t *testing.T) {
	out := parse(t, `
module geometry
use math.vec as vec;
pub type Point = { x: Int, y: Int }
fn origin() -> Point { Point { x: 0, y: 0 } }
`)
	for _, want := range []string{
		"use math.vec as vec;",
		"pub type Point = { x: Int, y: Int }",
		"Point { x: 0, y: 0 };",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}
