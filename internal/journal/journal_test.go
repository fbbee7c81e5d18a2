package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordMonthAndLedger(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	s := engine.DefaultNationState()
	for i := 0; i < 3; i++ {
		s = engine.Reduce(s, engine.MonthTick{})
		s.Date = engine.NextDate(s.Date)
		if err := j.RecordMonth(ctx, s); err != nil {
			t.Fatalf("RecordMonth: %v", err)
		}
	}
	rows, err := j.Ledger(ctx, 2)
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows %d, want 2", len(rows))
	}
	if rows[1].Treasury != s.Treasury || rows[1].Date != s.Date {
		t.Fatalf("latest row %+v, want treasury %.2f", rows[1], s.Treasury)
	}
	if rows[0].Treasury >= rows[1].Treasury {
		t.Fatalf("ledger not oldest first: %+v", rows)
	}
}

func TestRecordEventAndHistory(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	harvest, _ := engine.EventByID("bountiful_harvest")
	fire, _ := engine.EventByID("great_fire")
	if err := j.RecordEvent(ctx, "1445-01-01", harvest, "Fill the treasury"); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if err := j.RecordEvent(ctx, "1446-06-01", fire, "Rebuild in stone"); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	recent, err := j.RecentEvents(ctx, 5)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(recent) != 2 || recent[0].EventID != "great_fire" || recent[0].Option != "Rebuild in stone" {
		t.Fatalf("recent %+v", recent)
	}
	h, err := j.History(ctx, "")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if h.Eligible(fire, engine.MonthIndex("1500-01-01")) {
		t.Fatalf("once-only event eligible after reload")
	}
	if h.Eligible(harvest, engine.MonthIndex("1445-06-01")) {
		t.Fatalf("harvest eligible during cooldown after reload")
	}
	before, err := j.History(ctx, "1445-12-01")
	if err != nil {
		t.Fatalf("History until: %v", err)
	}
	if !before.Eligible(fire, engine.MonthIndex("1446-01-01")) {
		t.Fatalf("event after the cutoff still counted")
	}
	if before.Eligible(harvest, engine.MonthIndex("1445-06-01")) {
		t.Fatalf("event before the cutoff dropped")
	}
}
