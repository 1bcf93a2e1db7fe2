package driver_test

import (
	"context"
	"strings"
	"testing"

	"mica/internal/diag"
	"mica/internal/driver"
	"mica/internal/hir"
	"mica/internal/mir"
)

// The three end-to-end scenarios, from source text through the pipeline.

func TestScenarioMatchLowersToSingleReturnBlock(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.mica", colorsSrc)

	b, err := driver.BuildWorkspace(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if b.Failed() {
		t.Fatalf("diagnostics: %+v", b.Bag.Items())
	}

	fn := b.MIR[0].Funcs[0]
	if len(fn.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(fn.Blocks))
	}
	term := fn.Blocks[0].Term
	if term.Kind != mir.TermReturn || !term.Return.HasValue {
		t.Fatalf("terminator = %+v", term)
	}
	strType := b.MIR[0].Types.Format(fn.Return)
	if strType != "String" {
		t.Fatalf("return type = %s", strType)
	}
}

func TestScenarioUsingCleanupAndAcceptedEffect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "open.mica", `
module files
fn open_and_print(io: IO) !{io} {
  using File::open("/tmp/x", io)? {
    io.println("ok")
  }
}
`)

	b, err := driver.BuildWorkspace(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if b.Failed() {
		t.Fatalf("io is declared in the row, the checker must accept: %+v", b.Bag.Items())
	}

	dump := hir.DumpModule(b.HIR[0])
	if !strings.Contains(dump, "cleanup(") {
		t.Fatalf("using must lower to a guaranteed cleanup call:\n%s", dump)
	}
	if !strings.Contains(dump, "println(io") {
		t.Fatalf("method call must be receiver-first:\n%s", dump)
	}
}

func TestScenarioMissingCapabilityStillKeepsCheckResult(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "net.mica", `
module m
fn fetch(url: String, net: Net) -> Int !{net} {
  0
}
fn run(url: String) -> Int {
  fetch(url, url)
}
`)

	b, err := driver.BuildWorkspace(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !b.Failed() {
		t.Fatal("expected a missing-capability diagnostic")
	}

	count := 0
	for _, d := range b.Bag.Items() {
		if d.Code == diag.SemaMissingCapability {
			count++
			if !strings.Contains(d.Message, "'net'") {
				t.Fatalf("message = %q", d.Message)
			}
		}
	}
	if count != 1 {
		t.Fatalf("missing-capability diagnostics = %d, want 1", count)
	}
	if b.Sema == nil {
		t.Fatal("the check result must survive for tooling")
	}
	if b.MIR != nil {
		t.Fatal("no SSA may be produced silently past the failed check")
	}
}
