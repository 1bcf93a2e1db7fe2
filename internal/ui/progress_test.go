package ui

import (
	"strings"
	"testing"

	"mica/internal/driver"
)

func model(files ...string) *progressModel {
	events := make(chan driver.Event)
	return NewProgressModel("building demo", files, events).(*progressModel)
}

func TestViewListsFilesWithStatus(t *testing.T) {
	m := model("a.mica", "b.mica")
	view := m.View()
	if !strings.Contains(view, "a.mica") || !strings.Contains(view, "b.mica") {
		t.Fatalf("view = %q", view)
	}
	if !strings.Contains(view, "queued") {
		t.Fatalf("files start queued: %q", view)
	}
}

func TestApplyEventUpdatesStatus(t *testing.T) {
	m := model("a.mica")
	m.applyEvent(driver.Event{File: "a.mica", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(driver.Event{File: "a.mica", Stage: driver.StageParse, Status: driver.StatusDone})
	if m.items[0].status != "done" {
		t.Fatalf("status = %q", m.items[0].status)
	}
}

func TestStageEventSetsHeaderLabel(t *testing.T) {
	m := model("a.mica")
	m.applyEvent(driver.Event{Stage: driver.StageCheck, Status: driver.StatusWorking})
	if m.stageLabel != "checking" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	if !strings.Contains(m.View(), "checking") {
		t.Fatalf("view = %q", m.View())
	}
}

func TestUnknownFileIsIgnored(t *testing.T) {
	m := model("a.mica")
	m.applyEvent(driver.Event{File: "other.mica", Stage: driver.StageParse, Status: driver.StatusDone})
	if m.items[0].status != "queued" {
		t.Fatalf("status = %q", m.items[0].status)
	}
}
