package engine

import "testing"

func TestCampaignSeedDeterminism(t *testing.T) {
	r1, _ := NewCampaignSeed("alpha-seed")
	r2, _ := NewCampaignSeed("alpha-seed")
	s1 := r1.Stream("x").Intn(1000000)
	s2 := r2.Stream("x").Intn(1000000)
	if s1 != s2 {
		t.Fatalf("streams differ: %d vs %d", s1, s2)
	}
	c1 := r1.Stream("x").Child("y").Intn(1000000)
	c2 := r2.Stream("x").Child("y").Intn(1000000)
	if c1 != c2 {
		t.Fatalf("child streams differ: %d vs %d", c1, c2)
	}
	m1 := r1.MonthStream("1444-11-11", "events").Uint64()
	m2 := r1.MonthStream("1444-11-30", "events").Uint64()
	if m1 != m2 {
		t.Fatalf("same month produced different streams")
	}
	if m3 := r1.MonthStream("1444-12-01", "events").Uint64(); m3 == m1 {
		t.Fatalf("different months produced the same stream")
	}
}

func TestCampaignSeedRejectsEmpty(t *testing.T) {
	if _, err := NewCampaignSeed(""); err == nil {
		t.Fatalf("expected error for empty seed")
	}
}

func TestStreamRanges(t *testing.T) {
	seed, _ := NewCampaignSeed("ranges")
	s := seed.Stream("r")
	for i := 0; i < 1000; i++ {
		if v := s.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("Intn out of range: %d", v)
		}
		if f := s.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
	if s.Intn(0) != 0 {
		t.Fatalf("Intn(0) should be 0")
	}
}
