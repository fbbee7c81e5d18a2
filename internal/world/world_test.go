package world

import (
	"testing"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/util"
)

func firstForeignLand(t *testing.T, m *Map, player string) Province {
	t.Helper()
	for _, p := range m.Provinces {
		if p.Terrain != engine.TerrainOcean && p.Owner != player {
			return p
		}
	}
	t.Fatalf("map has no foreign land")
	return Province{}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(42, 24, 12)
	b := Generate(42, 24, 12)
	if len(a.Provinces) != 24*12 {
		t.Fatalf("provinces %d", len(a.Provinces))
	}
	for i := range a.Provinces {
		if a.Provinces[i] != b.Provinces[i] {
			t.Fatalf("province %d differs between runs", i+1)
		}
	}
}

func TestGenerateOwnershipAndTerrain(t *testing.T) {
	m := Generate(7, 24, 12)
	land := 0
	for _, p := range m.Provinces {
		if _, ok := engine.TerrainByID(p.Terrain); !ok {
			t.Fatalf("province %d has unknown terrain %q", p.ID, p.Terrain)
		}
		if p.Terrain == engine.TerrainOcean {
			if p.Owner != "" || p.Development != 0 {
				t.Fatalf("sea province %d owned or developed", p.ID)
			}
			continue
		}
		land++
		if _, ok := m.Nations[p.Owner]; !ok {
			t.Fatalf("land province %d owner %q", p.ID, p.Owner)
		}
	}
	if land == 0 {
		t.Fatalf("no land generated")
	}
	for _, x := range []int{0, m.Width - 1} {
		for y := 0; y < m.Height; y++ {
			if p, _ := m.At(x, y); p.Terrain != engine.TerrainOcean {
				t.Fatalf("edge cell (%d,%d) is %s", x, y, p.Terrain)
			}
		}
	}
}

func TestStepAndNeighbours(t *testing.T) {
	m := Generate(1, 10, 5)
	if got := m.Step(1, -1, 0); got != 1 {
		t.Fatalf("stepped off the map to %d", got)
	}
	if got := m.Step(1, 1, 0); got != 2 {
		t.Fatalf("step right %d", got)
	}
	if got := m.Step(1, 0, 1); got != 11 {
		t.Fatalf("step down %d", got)
	}
	if n := m.Neighbours(1); len(n) != 2 {
		t.Fatalf("corner neighbours %d", len(n))
	}
	if n := m.Neighbours(12); len(n) != 4 {
		t.Fatalf("inner neighbours %d", len(n))
	}
}

func TestConquerRecordsAE(t *testing.T) {
	m := Generate(3, 24, 12)
	target := firstForeignLand(t, m, "FRA")
	got, err := m.Conquer(target.ID, "FRA")
	if err != nil {
		t.Fatalf("Conquer: %v", err)
	}
	if got.From != target.Owner {
		t.Fatalf("from %q, want %q", got.From, target.Owner)
	}
	if p, _ := m.Province(target.ID); p.Owner != "FRA" {
		t.Fatalf("owner %q after conquest", p.Owner)
	}
	if _, ok := got.Impact["FRA"]; ok {
		t.Fatalf("player recorded AE against itself")
	}
	// BUR shares religion and culture group with FRA and sits next door; MOS shares neither.
	if got.Impact["BUR"] < got.Impact["MOS"] {
		t.Fatalf("BUR %v below MOS %v", got.Impact["BUR"], got.Impact["MOS"])
	}
	if _, err := m.Conquer(target.ID, "FRA"); err == nil {
		t.Fatalf("conquering own province should fail")
	}
}

func TestConquerRejectsSea(t *testing.T) {
	m := Generate(3, 24, 12)
	if _, err := m.Conquer(1, "FRA"); err == nil {
		t.Fatalf("conquering the sea should fail")
	}
	if _, err := m.Conquer(99999, "FRA"); err == nil {
		t.Fatalf("conquering a missing province should fail")
	}
}

func TestCoalitionCandidates(t *testing.T) {
	m := Generate(3, 24, 12)
	s := engine.DefaultNationState()
	s = engine.Reduce(s, engine.AddAlly{Tag: "CAS"})
	ledger := engine.AELedger{"ENG": 80, "CAS": 120, "AUS": 100}
	members := engine.FormCoalition(m.CoalitionCandidates(ledger, s))
	tags := map[string]bool{}
	for _, mem := range members {
		tags[mem.Tag] = true
	}
	if !tags["ENG"] {
		t.Fatalf("rival with high AE missing: %v", members)
	}
	if tags["CAS"] {
		t.Fatalf("ally joined the coalition")
	}
	if !tags["AUS"] {
		t.Fatalf("AUS at -60 opinion should join: %v", members)
	}
	if tags["FRA"] {
		t.Fatalf("player listed as candidate")
	}
}

func TestNewCampaignAppliesTuning(t *testing.T) {
	tun := util.DefaultTuning()
	tun.StartTreasury = 250
	tun.StartManpower = 1 << 30
	s, m := NewCampaign(tun)
	if s.Treasury != 250 {
		t.Fatalf("treasury %v", s.Treasury)
	}
	if s.Manpower != s.MaxManpower {
		t.Fatalf("manpower %d not clamped to %d", s.Manpower, s.MaxManpower)
	}
	if len(s.Provinces) != len(m.OwnedBy("FRA")) {
		t.Fatalf("provinces %d", len(s.Provinces))
	}
}

func TestClaimSkipsSeaAndUnknown(t *testing.T) {
	m := Generate(7, 24, 12)
	land := firstForeignLand(t, m, "FRA")
	m.Claim("FRA", []int{land.ID, 1, 0, 9999})
	if p, _ := m.Province(land.ID); p.Owner != "FRA" {
		t.Fatalf("owner %q after claim", p.Owner)
	}
	if p, _ := m.Province(1); p.Terrain == engine.TerrainOcean && p.Owner == "FRA" {
		t.Fatalf("sea province claimed")
	}
}
