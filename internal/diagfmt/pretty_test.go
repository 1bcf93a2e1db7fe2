package diagfmt_test

import (
	"encoding/json"
	"strings"
	"testing"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/diagfmt"
	"mica/internal/parser"
	"mica/internal/sema"
	"mica/internal/source"
	"mica/internal/symbols"
)

func collect(t *testing.T, src string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	id := fs.AddVirtual("test.mica", []byte(src))
	modules := []*ast.Module{parser.ParseFile(fs.Get(id), rep)}
	sema.Check(symbols.Resolve(modules, rep), rep)
	bag.Sort()
	return bag, fs
}

func TestPrettyRendersHeaderAndCaret(t *testing.T) {
	bag, fs := collect(t, `
module colors
type Color = Red | Green | Blue
fn to_text(c: Color) -> String {
  match c {
    Red => "red",
    Green => "green",
  }
}
`)
	if !bag.HasWarnings() {
		t.Fatal("expected a non-exhaustive match warning")
	}

	var b strings.Builder
	diagfmt.Pretty(&b, bag, fs, diagfmt.PrettyOpts{ShowNotes: true})
	out := b.String()

	if !strings.Contains(out, "test.mica:") {
		t.Errorf("missing path header:\n%s", out)
	}
	if !strings.Contains(out, "WARNING MICA4001: non-exhaustive match for Color: missing variants Blue") {
		t.Errorf("missing message line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret line:\n%s", out)
	}
}

func TestPrettyCaretAlignment(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.mica", []byte("let value = nope\n"))
	bag := diag.NewBag(8)
	// Underline "nope" at columns 13..17.
	bag.Add(diag.NewError(diag.SemaUnboundIdentifier,
		source.Span{File: id, Start: 12, End: 16}, "unbound identifier 'nope'"))

	var b strings.Builder
	diagfmt.Pretty(&b, bag, fs, diagfmt.PrettyOpts{})
	lines := strings.Split(b.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output too short:\n%s", b.String())
	}
	if lines[1] != "  let value = nope" {
		t.Errorf("source line = %q", lines[1])
	}
	if lines[2] != "  "+strings.Repeat(" ", 12)+"^~~~" {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestPrettyOmitsNotesWhenDisabled(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.mica", []byte("fn f() -> Int { 0 }\n"))
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SemaInfo, source.Span{File: id, Start: 0, End: 2}, "boom").
		WithNote(source.Span{File: id, Start: 3, End: 4}, "declared here"))

	var b strings.Builder
	diagfmt.Pretty(&b, bag, fs, diagfmt.PrettyOpts{})
	if strings.Contains(b.String(), "declared here") {
		t.Errorf("notes must be opt-in:\n%s", b.String())
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := collect(t, `
module m
fn f() -> Int {
  missing
}
`)
	var b strings.Builder
	err := diagfmt.JSON(&b, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	if err != nil {
		t.Fatal(err)
	}

	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(b.String()), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, b.String())
	}
	if out.Count == 0 || len(out.Diagnostics) != out.Count {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	first := out.Diagnostics[0]
	if first.Severity != "ERROR" || !strings.HasPrefix(first.Code, "MICA") {
		t.Errorf("diagnostic = %+v", first)
	}
	if first.Location.StartLine == 0 {
		t.Errorf("positions requested but missing: %+v", first.Location)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.mica", []byte("x\n"))
	bag := diag.NewBag(8)
	for n := 0; n < 3; n++ {
		bag.Add(diag.NewError(diag.SemaInfo, source.Span{File: id, Start: 0, End: 1}, "boom"))
	}

	out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
}
