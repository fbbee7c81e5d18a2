package engine

import (
	"testing"
	"time"
)

func TestTickInterval(t *testing.T) {
	want := map[int]time.Duration{0: 0, 1: 500 * time.Millisecond, 3: 100 * time.Millisecond, 5: 20 * time.Millisecond, 6: 0, -1: 0}
	for speed, d := range want {
		if got := TickInterval(speed); got != d {
			t.Fatalf("speed %d: %v, want %v", speed, got, d)
		}
	}
}

func TestNextDate(t *testing.T) {
	cases := map[string]string{
		"1444-11-11": "1444-11-12",
		"1444-11-30": "1444-12-01",
		"1444-12-31": "1445-01-01",
		"1448-02-28": "1448-02-29",
		"1500-02-28": "1500-03-01",
		"1600-02-29": "1600-03-01",
		"garbage":    StartDate,
		"1444-13-01": StartDate,
	}
	for in, want := range cases {
		if got := NextDate(in); got != want {
			t.Fatalf("NextDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDayActions(t *testing.T) {
	s := DefaultNationState()
	if acts := DayActions(s); len(acts) != 1 {
		t.Fatalf("mid-month tick dispatched %d actions", len(acts))
	}
	s.Date = "1444-11-30"
	acts := DayActions(s)
	if len(acts) != 2 {
		t.Fatalf("month rollover dispatched %d actions", len(acts))
	}
	if acts[0].Type() != ActionSetDate || acts[1].Type() != ActionMonthTick {
		t.Fatalf("unexpected action order %s, %s", acts[0].Type(), acts[1].Type())
	}
	next := ReduceAll(s, acts...)
	if next.Date != "1444-12-01" {
		t.Fatalf("date %s", next.Date)
	}
}

func TestRunning(t *testing.T) {
	s := DefaultNationState()
	if s.Running() {
		t.Fatalf("paused state running")
	}
	s = Reduce(s, TogglePause{})
	if !s.Running() {
		t.Fatalf("unpaused state not running")
	}
	s = Reduce(s, SetSpeed{Speed: 0})
	if s.Running() {
		t.Fatalf("speed 0 running")
	}
}

func TestLongDate(t *testing.T) {
	if got := LongDate(StartDate); got != "11 November 1444" {
		t.Fatalf("LongDate %q", got)
	}
}
