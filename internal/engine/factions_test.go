package engine

import (
	"math"
	"testing"
)

// fixedSource replays ints and floats in order, repeating the last value when exhausted.
type fixedSource struct {
	ints   []int
	floats []float64
}

func (f *fixedSource) Intn(n int) int {
	if len(f.ints) == 0 || n <= 0 {
		return 0
	}
	v := f.ints[0]
	if len(f.ints) > 1 {
		f.ints = f.ints[1:]
	}
	return v % n
}

func (f *fixedSource) Float64() float64 {
	if len(f.floats) == 0 {
		return 0
	}
	v := f.floats[0]
	if len(f.floats) > 1 {
		f.floats = f.floats[1:]
	}
	return v
}

func testFaction(ideology Ideology, influence, happiness float64) Faction {
	return Faction{
		ID: string(ideology), Name: string(ideology), Ideology: ideology,
		Influence: influence, Happiness: happiness,
		Bonuses:   Effects{StatTaxIncome: 0.2},
		Penalties: Effects{StatUnrest: 2},
	}
}

func TestCalculateFactionEffectsEmpty(t *testing.T) {
	got := CalculateFactionEffects(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty bundle, got %v", got)
	}
}

func TestCalculateFactionEffectsWeighted(t *testing.T) {
	got := CalculateFactionEffects([]Faction{
		testFaction(IdeologyMercantile, 50, 80),
		testFaction(IdeologyPopulist, 25, 20),
		testFaction(IdeologyClerical, 50, 50),
	})
	if math.Abs(got[StatTaxIncome]-0.2) > 1e-9 {
		t.Fatalf("tax income %v, want 0.2", got[StatTaxIncome])
	}
	if math.Abs(got[StatUnrest]-0.5) > 1e-9 {
		t.Fatalf("unrest %v, want 0.5", got[StatUnrest])
	}
	if _, ok := got[StatPrestige]; ok {
		t.Fatalf("untouched key present")
	}
}

func TestRevoltRisk(t *testing.T) {
	risk := RevoltRisk([]Faction{
		testFaction(IdeologyPopulist, 50, 10),
		testFaction(IdeologyClerical, 15, 0),
		testFaction(IdeologyMilitarist, 80, 40),
	})
	if risk != 10 {
		t.Fatalf("risk %v, want 10", risk)
	}
	capped := RevoltRisk([]Faction{
		testFaction(IdeologyPopulist, 100, 0), testFaction(IdeologyClerical, 100, 0),
		testFaction(IdeologyMercantile, 100, 0), testFaction(IdeologyMilitarist, 100, 0),
	})
	if capped != 100 {
		t.Fatalf("risk %v, want 100", capped)
	}
}

func TestGenerateDemandDeterministic(t *testing.T) {
	f := testFaction(IdeologyMercantile, 30, 50)
	d := GenerateDemand(f, &fixedSource{ints: []int{1, 4}})
	if d == nil {
		t.Fatalf("expected a demand")
	}
	if d.ID != "full_coffers" {
		t.Fatalf("demand %q, want full_coffers", d.ID)
	}
	if d.ExpiresIn != 9 {
		t.Fatalf("expiry %d, want 9", d.ExpiresIn)
	}
	if GenerateDemand(testFaction("anarchist", 10, 10), &fixedSource{}) != nil {
		t.Fatalf("unknown ideology produced a demand")
	}
}

func TestGenerateDemandExpiryRange(t *testing.T) {
	seed, _ := NewCampaignSeed("demand-range")
	src := seed.Stream("demands")
	for i := 0; i < 200; i++ {
		d := GenerateDemand(testFaction(IdeologyMonarchist, 30, 50), src)
		if d.ExpiresIn < 5 || d.ExpiresIn > 9 {
			t.Fatalf("expiry %d outside 5..9", d.ExpiresIn)
		}
	}
}

func TestDemandSatisfied(t *testing.T) {
	s := DefaultNationState()
	s.Treasury = 400
	d := Demand{Goal: Condition{Metric: MetricTreasury, Cmp: CmpGTE, Value: 300}}
	if !d.Satisfied(SnapshotOf(s)) {
		t.Fatalf("demand should be satisfied")
	}
	s.Treasury = 10
	if d.Satisfied(SnapshotOf(s)) {
		t.Fatalf("demand should not be satisfied")
	}
}

func TestUpdateFactionHappiness(t *testing.T) {
	clergy := testFaction(IdeologyClerical, 30, 50)
	if got := UpdateFactionHappiness(clergy, ActPassReform, 1500); got != 40 {
		t.Fatalf("reform before 1650: %v, want 40", got)
	}
	if got := UpdateFactionHappiness(clergy, ActPassReform, 1700); got != 45 {
		t.Fatalf("reform after 1650: %v, want 45", got)
	}
	if got := UpdateFactionHappiness(testFaction(IdeologyPopulist, 10, 95), ActLowerTaxes, 1500); got != 100 {
		t.Fatalf("happiness not clamped: %v", got)
	}
	if got := UpdateFactionHappiness(testFaction(IdeologyReformist, 10, 33), ActRecruitArmy, 1500); got != 33 {
		t.Fatalf("indifferent faction moved: %v", got)
	}
}

func TestExpireDemands(t *testing.T) {
	s := DefaultNationState()
	f := testFaction(IdeologyMercantile, 30, 50)
	f.Demands = []Demand{
		{ID: "met", Goal: Condition{Metric: MetricTreasury, Cmp: CmpGTE, Value: 0}, ExpiresIn: 5},
		{ID: "lapsing", Goal: Condition{Metric: MetricTreasury, Cmp: CmpGTE, Value: 1e6}, ExpiresIn: 1},
		{ID: "pending", Goal: Condition{Metric: MetricTreasury, Cmp: CmpGTE, Value: 1e6}, ExpiresIn: 3},
	}
	got, lapsed := ExpireDemands(f, SnapshotOf(s))
	if lapsed != 1 {
		t.Fatalf("lapsed %d, want 1", lapsed)
	}
	if len(got.Demands) != 1 || got.Demands[0].ID != "pending" || got.Demands[0].ExpiresIn != 2 {
		t.Fatalf("remaining demands %+v", got.Demands)
	}
	if got.Happiness != 50 {
		t.Fatalf("happiness %v, want 50", got.Happiness)
	}
	if f.Demands[2].ExpiresIn != 3 {
		t.Fatalf("input faction mutated")
	}
}

func TestDefaultFactionsValid(t *testing.T) {
	for _, f := range DefaultFactions() {
		if !f.Ideology.Validate() {
			t.Fatalf("%s has invalid ideology", f.ID)
		}
		for k := range f.Bonuses {
			if !k.Validate() {
				t.Fatalf("%s bonus key %q invalid", f.ID, k)
			}
		}
		for k := range f.Penalties {
			if !k.Validate() {
				t.Fatalf("%s penalty key %q invalid", f.ID, k)
			}
		}
	}
	for ideology, list := range demandTemplates {
		for _, d := range list {
			if !d.Goal.Metric.Validate() || !d.Goal.Cmp.Validate() {
				t.Fatalf("%s demand %s has invalid goal", ideology, d.ID)
			}
		}
	}
}
