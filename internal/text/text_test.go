package text

import (
	"context"
	"strings"
	"testing"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/journal"
)

func TestEventMarkdownListsOptions(t *testing.T) {
	ev, ok := engine.EventByID("bountiful_harvest")
	if !ok {
		t.Fatal("missing bountiful_harvest")
	}
	md, err := NewTemplateNarrator().Event(context.Background(), ev, engine.DefaultNationState())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"## Bountiful Harvest", "11 November 1444", "1. Fill the treasury (+50 ducats)", "2. Feed the levies (+2000 manpower)"} {
		if !strings.Contains(md, want) {
			t.Fatalf("event markdown missing %q:\n%s", want, md)
		}
	}
}

func TestReportMentionsDeficitAndEvents(t *testing.T) {
	prev := engine.DefaultNationState()
	next := prev
	next.MonthlyExpenses = next.MonthlyIncome + 3
	next.Wars = []string{"ENG"}
	ev, _ := engine.EventByID("desertion")
	md, err := NewTemplateNarrator().Report(context.Background(), prev, next, []engine.Event{ev})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"bleeds 3.00d", "At war with ENG", "### EVENTS", ev.Title} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestLedgerTable(t *testing.T) {
	if !strings.Contains(LedgerTable(nil), "No months") {
		t.Fatal("empty ledger should say so")
	}
	out := LedgerTable([]journal.LedgerEntry{{Date: "1445-01-01", Treasury: 1234.5, Manpower: 12000}})
	if !strings.Contains(out, "1,234.50d") || !strings.Contains(out, "12,000") {
		t.Fatalf("ledger table formatting: %s", out)
	}
}

func TestRenderFallsBackToInput(t *testing.T) {
	out := Render("# Title", 40)
	if !strings.Contains(out, "Title") {
		t.Fatalf("render lost content: %q", out)
	}
}

func TestRenderReusesRendererPerWidth(t *testing.T) {
	first := Render("*one*", 52)
	second := Render("*one*", 52)
	if first != second {
		t.Fatalf("same input rendered differently: %q vs %q", first, second)
	}
	_ = Render("*two*", 53)
	renderMu.Lock()
	defer renderMu.Unlock()
	a, errA := renderer(52)
	b, errB := renderer(52)
	if errA != nil || errB != nil || a != b {
		t.Fatalf("renderer for width 52 rebuilt: %p %p (%v %v)", a, b, errA, errB)
	}
	if c, _ := renderer(53); c == a {
		t.Fatalf("widths share a renderer")
	}
}
