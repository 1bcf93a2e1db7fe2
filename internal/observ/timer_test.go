package observ_test

import (
	"strings"
	"testing"
	"time"

	"mica/internal/observ"
)

func TestTimerPhases(t *testing.T) {
	tm := observ.NewTimer()
	parse := tm.Begin("parse")
	time.Sleep(time.Millisecond)
	tm.End(parse, "2 files")
	check := tm.Begin("check")
	tm.End(check, "")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %d", len(rep.Phases))
	}
	if rep.Phases[0].Name != "parse" || rep.Phases[0].Note != "2 files" {
		t.Fatalf("phase = %+v", rep.Phases[0])
	}
	if rep.Phases[0].DurationMS <= 0 {
		t.Fatalf("duration = %v", rep.Phases[0].DurationMS)
	}
	if rep.TotalMS < rep.Phases[0].DurationMS {
		t.Fatalf("total %v < parse %v", rep.TotalMS, rep.Phases[0].DurationMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := observ.NewTimer()
	tm.End(tm.Begin("parse"), "")

	sum := tm.Summary()
	if !strings.Contains(sum, "timings:") || !strings.Contains(sum, "parse") || !strings.Contains(sum, "total") {
		t.Fatalf("summary = %q", sum)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := observ.NewTimer()
	tm.End(5, "ignored")
	if len(tm.Report().Phases) != 0 {
		t.Fatal("out-of-range End must be a no-op")
	}
}
