package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mica/internal/diag"
	"mica/internal/driver"
	"mica/internal/project"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const colorsSrc = `
module colors
type Color = Red | Green | Blue
fn to_text(c: Color) -> String {
  match c {
    Red => "red",
    Green => "green",
    Blue => "blue",
  }
}
`

const utilSrc = `
module app.util
pub fn helper() -> Int { 42 }
`

func TestBuildWorkspaceFullPipeline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.mica", colorsSrc)
	writeFile(t, dir, "util.mica", utilSrc)

	b, err := driver.BuildWorkspace(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if b.Failed() {
		t.Fatalf("diagnostics: %+v", b.Bag.Items())
	}
	if len(b.Modules) != 2 || len(b.MIR) != 2 || len(b.Purity) != 2 {
		t.Fatalf("modules=%d mir=%d purity=%d", len(b.Modules), len(b.MIR), len(b.Purity))
	}
	// WalkDir sorts lexically, so colors.mica comes first.
	if b.MIR[0].Path != "colors" || b.MIR[1].Path != "app.util" {
		t.Fatalf("paths = %q, %q", b.MIR[0].Path, b.MIR[1].Path)
	}
}

func TestBuildWorkspaceStopsAfterParseErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.mica", "module m\nfn f( {\n")

	b, err := driver.BuildWorkspace(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !b.Failed() {
		t.Fatal("expected parse errors")
	}
	if b.Sema != nil || b.MIR != nil {
		t.Fatal("later stages must not run after parse errors")
	}
}

func TestBuildWorkspaceStopsAfterCheckErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.mica", `
module m
fn f() -> Int {
  missing
}
`)

	b, err := driver.BuildWorkspace(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !b.Failed() {
		t.Fatal("expected check errors")
	}
	if b.Sema == nil {
		t.Fatal("checking ran, its result must be kept")
	}
	if b.MIR != nil {
		t.Fatal("lowering must not run after check errors")
	}
	found := false
	for _, d := range b.Bag.Items() {
		if d.Code == diag.SemaUnboundIdentifier {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics: %+v", b.Bag.Items())
	}
}

func TestBuildWorkspaceProceedsPastWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "partial.mica", `
module m
type Color = Red | Green | Blue
fn partial(c: Color) -> Int {
  match c {
    Red => 1,
    Green => 2,
  }
}
`)

	b, err := driver.BuildWorkspace(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if b.Failed() {
		t.Fatalf("a match hole is soft: %+v", b.Bag.Items())
	}
	warned := false
	for _, d := range b.Bag.Items() {
		if d.Code == diag.SemaNonExhaustiveMatch && d.Severity == diag.SevWarning {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("diagnostics: %+v", b.Bag.Items())
	}
	if b.HIR == nil || b.MIR == nil {
		t.Fatal("soft diagnostics must still produce inspectable output")
	}
}

func TestBuildWorkspaceHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.mica", colorsSrc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.BuildWorkspace(ctx, dir, driver.Options{}); err == nil {
		t.Fatal("cancelled context must surface an error")
	}
}

func TestBuildWorkspacePopulatesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.mica", colorsSrc)

	cache, err := driver.OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	b, err := driver.BuildWorkspace(context.Background(), dir, driver.Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if b.Failed() {
		t.Fatalf("diagnostics: %+v", b.Bag.Items())
	}

	key := project.Digest(b.FileSet.Get(b.Modules[0].Span.File).Hash)
	var payload driver.DiskPayload
	ok, err := cache.Get(key, &payload)
	if err != nil || !ok {
		t.Fatalf("ok = %v, err = %v", ok, err)
	}
	if payload.Module != "colors" || !payload.PureFuncs["to_text"] {
		t.Fatalf("payload = %+v", payload)
	}
}
