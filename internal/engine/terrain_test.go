package engine

import "testing"

func TestMovementCost(t *testing.T) {
	if got := MovementCost(TerrainMountains, 4); got != 8 {
		t.Fatalf("mountains %v, want 8", got)
	}
	if got := MovementCost("lava", 4); got != 4 {
		t.Fatalf("unknown terrain %v, want 4", got)
	}
}

func TestCombatModifier(t *testing.T) {
	if got := CombatModifier(TerrainMountains, UnitCavalry); got != -30 {
		t.Fatalf("cavalry in mountains %d", got)
	}
	if got := CombatModifier(TerrainOcean, UnitInfantry); got != 0 {
		t.Fatalf("ocean %d, want 0", got)
	}
	if got := CombatModifier("lava", UnitArtillery); got != 0 {
		t.Fatalf("unknown %d, want 0", got)
	}
}

func TestSupplyLimit(t *testing.T) {
	if got := SupplyLimit(TerrainFarmlands, 12); got != 12 {
		t.Fatalf("farmlands %d, want 12", got)
	}
	if got := SupplyLimit("lava", 40); got != DefaultSupplyLimit {
		t.Fatalf("unknown %d, want %d", got, DefaultSupplyLimit)
	}
}

func TestTerrainTableComplete(t *testing.T) {
	for _, tt := range Terrains() {
		got, ok := TerrainByID(tt.ID)
		if !ok || got.Name != tt.Name {
			t.Fatalf("lookup failed for %s", tt.ID)
		}
		if tt.MovementCost < 1 {
			t.Fatalf("%s movement cost below 1", tt.ID)
		}
	}
}
