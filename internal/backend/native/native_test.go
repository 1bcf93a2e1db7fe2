package native_test

import (
	"strings"
	"testing"

	"mica/internal/ast"
	"mica/internal/backend"
	"mica/internal/backend/native"
	"mica/internal/diag"
	"mica/internal/hir"
	"mica/internal/mir"
	"mica/internal/parser"
	"mica/internal/purity"
	"mica/internal/sema"
	"mica/internal/source"
	"mica/internal/symbols"
)

func build(t *testing.T, src string) backend.Input {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	id := fs.AddVirtual("test.mica", []byte(src))
	modules := []*ast.Module{parser.ParseFile(fs.Get(id), rep)}
	res := sema.Check(symbols.Resolve(modules, rep), rep)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	m := mir.Build(res, hir.Lower(res))[0]
	return backend.Input{Module: m, Purity: purity.Analyze(m)}
}

func TestEmitRecordModule(t *testing.T) {
	in := build(t, `
module geo
type Point = { x: Int, y: Int }
fn origin() -> Point {
  Point { x: 0, y: 0 }
}
`)
	var be native.Backend
	if be.Name() != "native" {
		t.Fatalf("name = %q", be.Name())
	}
	out, err := be.Emit(in)
	if err != nil {
		t.Fatal(err)
	}
	c := string(out)
	for _, want := range []string{
		"/* module geo */",
		"#include <stdint.h>",
		"typedef struct Point {",
		"  int64_t x;",
		"  int64_t y;",
		"} Point;",
		"Point origin(void);",
		"Point origin(void) {",
		"(Point){ v1, v2 }",
		"return v3;",
	} {
		if !strings.Contains(c, want) {
			t.Errorf("output missing %q:\n%s", want, c)
		}
	}
}

func TestEmitGuardsDeclaredCapabilities(t *testing.T) {
	in := build(t, `
module m
fn run(io: IO) !{io} {
  io.println("ok")
}
`)
	out, err := native.Backend{}.Emit(in)
	if err != nil {
		t.Fatal(err)
	}
	c := string(out)
	for _, want := range []string{
		"void run(int64_t arg0)",
		"mica_runtime_initialize();",
		`mica_runtime_require_capability("io");`,
		"println(v1, v2)",
		"return;",
	} {
		if !strings.Contains(c, want) {
			t.Errorf("output missing %q:\n%s", want, c)
		}
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	src := `
module geo
type Point = { x: Int, y: Int }
fn origin() -> Point {
  Point { x: 0, y: 0 }
}
`
	a, err := native.Backend{}.Emit(build(t, src))
	if err != nil {
		t.Fatal(err)
	}
	b, err := native.Backend{}.Emit(build(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatal("output differs between runs")
	}
}
