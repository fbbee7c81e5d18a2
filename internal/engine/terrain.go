package engine

import "math"

// TerrainID identifies a terrain type.
type TerrainID string

const (
	TerrainGrasslands TerrainID = "grasslands"
	TerrainFarmlands  TerrainID = "farmlands"
	TerrainSteppe     TerrainID = "steppe"
	TerrainForest     TerrainID = "forest"
	TerrainWoods      TerrainID = "woods"
	TerrainHills      TerrainID = "hills"
	TerrainMountains  TerrainID = "mountains"
	TerrainMarsh      TerrainID = "marsh"
	TerrainJungle     TerrainID = "jungle"
	TerrainDesert     TerrainID = "desert"
	TerrainCoastline  TerrainID = "coastline"
	TerrainOcean      TerrainID = "ocean"
)

// DefaultSupplyLimit applies to unknown terrain.
const DefaultSupplyLimit = 5

// TerrainType holds the static modifiers of a terrain.
type TerrainType struct {
	ID            TerrainID
	Name          string
	MovementCost  float64 // multiplier on travel time
	CombatWidth   int
	DefenderBonus int // dice added to the defender
	SupplyLimit   int

	TaxModifier        float64
	ProductionModifier float64
	ManpowerModifier   float64
	BuildCostModifier  float64
}

var terrainTypes = []TerrainType{
	{ID: TerrainGrasslands, Name: "Grasslands", MovementCost: 1.0, CombatWidth: 30, DefenderBonus: 0, SupplyLimit: 8, TaxModifier: 0, ProductionModifier: 0, ManpowerModifier: 0.1, BuildCostModifier: 0},
	{ID: TerrainFarmlands, Name: "Farmlands", MovementCost: 1.0, CombatWidth: 30, DefenderBonus: 0, SupplyLimit: 10, TaxModifier: 0.1, ProductionModifier: 0.1, ManpowerModifier: 0.1, BuildCostModifier: 0},
	{ID: TerrainSteppe, Name: "Steppe", MovementCost: 1.0, CombatWidth: 30, DefenderBonus: 0, SupplyLimit: 6, TaxModifier: -0.1, ProductionModifier: -0.1, ManpowerModifier: 0, BuildCostModifier: -0.1},
	{ID: TerrainForest, Name: "Forest", MovementCost: 1.25, CombatWidth: 25, DefenderBonus: 1, SupplyLimit: 6, TaxModifier: 0, ProductionModifier: 0.05, ManpowerModifier: 0, BuildCostModifier: 0.1},
	{ID: TerrainWoods, Name: "Woods", MovementCost: 1.25, CombatWidth: 25, DefenderBonus: 1, SupplyLimit: 7, TaxModifier: 0, ProductionModifier: 0.05, ManpowerModifier: 0, BuildCostModifier: 0.05},
	{ID: TerrainHills, Name: "Hills", MovementCost: 1.4, CombatWidth: 25, DefenderBonus: 1, SupplyLimit: 6, TaxModifier: 0, ProductionModifier: 0, ManpowerModifier: 0.05, BuildCostModifier: 0.15},
	{ID: TerrainMountains, Name: "Mountains", MovementCost: 2.0, CombatWidth: 20, DefenderBonus: 2, SupplyLimit: 4, TaxModifier: -0.1, ProductionModifier: -0.1, ManpowerModifier: -0.1, BuildCostModifier: 0.25},
	{ID: TerrainMarsh, Name: "Marsh", MovementCost: 1.3, CombatWidth: 25, DefenderBonus: 1, SupplyLimit: 5, TaxModifier: -0.05, ProductionModifier: -0.05, ManpowerModifier: -0.05, BuildCostModifier: 0.2},
	{ID: TerrainJungle, Name: "Jungle", MovementCost: 1.5, CombatWidth: 25, DefenderBonus: 1, SupplyLimit: 5, TaxModifier: -0.05, ProductionModifier: 0, ManpowerModifier: -0.1, BuildCostModifier: 0.2},
	{ID: TerrainDesert, Name: "Desert", MovementCost: 1.05, CombatWidth: 30, DefenderBonus: 0, SupplyLimit: 4, TaxModifier: -0.15, ProductionModifier: -0.1, ManpowerModifier: -0.1, BuildCostModifier: 0},
	{ID: TerrainCoastline, Name: "Coastline", MovementCost: 1.0, CombatWidth: 30, DefenderBonus: 0, SupplyLimit: 7, TaxModifier: 0.05, ProductionModifier: 0.05, ManpowerModifier: 0, BuildCostModifier: 0},
	{ID: TerrainOcean, Name: "Ocean", MovementCost: 1.0, CombatWidth: 0, DefenderBonus: 0, SupplyLimit: 0, TaxModifier: 0, ProductionModifier: 0, ManpowerModifier: 0, BuildCostModifier: 0},
}

// combatModifiers is percentage per unit category, keyed by terrain.
var combatModifiers = map[TerrainID]map[UnitCategory]int{
	TerrainGrasslands: {UnitInfantry: 0, UnitCavalry: 10, UnitArtillery: 0},
	TerrainFarmlands:  {UnitInfantry: 0, UnitCavalry: 5, UnitArtillery: 5},
	TerrainSteppe:     {UnitInfantry: -5, UnitCavalry: 20, UnitArtillery: 0},
	TerrainForest:     {UnitInfantry: 10, UnitCavalry: -20, UnitArtillery: -15},
	TerrainWoods:      {UnitInfantry: 5, UnitCavalry: -10, UnitArtillery: -10},
	TerrainHills:      {UnitInfantry: 10, UnitCavalry: -15, UnitArtillery: 10},
	TerrainMountains:  {UnitInfantry: 15, UnitCavalry: -30, UnitArtillery: -20},
	TerrainMarsh:      {UnitInfantry: -10, UnitCavalry: -25, UnitArtillery: -20},
	TerrainJungle:     {UnitInfantry: 5, UnitCavalry: -25, UnitArtillery: -25},
	TerrainDesert:     {UnitInfantry: -10, UnitCavalry: 10, UnitArtillery: -5},
	TerrainCoastline:  {UnitInfantry: 0, UnitCavalry: 0, UnitArtillery: 5},
}

func terrainIndex() map[TerrainID]TerrainType {
	out := make(map[TerrainID]TerrainType, len(terrainTypes))
	for _, t := range terrainTypes {
		out[t.ID] = t
	}
	return out
}

var terrainByID = terrainIndex()

// Terrains lists every terrain in table order.
func Terrains() []TerrainType { return append([]TerrainType{}, terrainTypes...) }

// TerrainByID looks up a terrain.
func TerrainByID(id TerrainID) (TerrainType, bool) {
	t, ok := terrainByID[id]
	return t, ok
}

// MovementCost scales baseSpeed by the terrain multiplier; unknown terrain leaves it unchanged.
func MovementCost(id TerrainID, baseSpeed float64) float64 {
	t, ok := terrainByID[id]
	if !ok {
		return baseSpeed
	}
	return baseSpeed * t.MovementCost
}

// CombatModifier returns the percentage modifier for a unit category; 0 when unmatched.
func CombatModifier(id TerrainID, category UnitCategory) int {
	return combatModifiers[id][category]
}

// SupplyLimit is the terrain's limit plus one per five development; DefaultSupplyLimit when unknown.
func SupplyLimit(id TerrainID, baseDevelopment int) int {
	t, ok := terrainByID[id]
	if !ok {
		return DefaultSupplyLimit
	}
	return t.SupplyLimit + int(math.Floor(float64(baseDevelopment)/5))
}
