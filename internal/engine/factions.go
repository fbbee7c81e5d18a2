package engine

import "math"

const (
	happyThreshold      = 50.0
	revoltHappiness     = 30.0
	revoltInfluence     = 20.0
	demandMinTurns      = 5
	demandExpirySpread  = 5 // 5..9 turns
	reformationEraStart = 1650
)

// Effects is a partial stat bundle. Keys never touched are absent.
type Effects map[StatKey]float64

// Demand is something a faction asks of the crown.
type Demand struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Goal        Condition `json:"goal"`
	ExpiresIn   int       `json:"expires_in"` // turns
}

// Satisfied reports whether the demand's goal holds for snap.
func (d Demand) Satisfied(snap Snapshot) bool { return d.Goal.Holds(snap) }

// Faction is an estate or interest group with influence over the realm.
type Faction struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Ideology  Ideology `json:"ideology"`
	Influence float64  `json:"influence"` // 0-100
	Happiness float64  `json:"happiness"` // 0-100
	Demands   []Demand `json:"demands"`
	Bonuses   Effects  `json:"bonuses"`
	Penalties Effects  `json:"penalties"`
}

// Happy reports whether the faction grants its bonuses.
func (f Faction) Happy() bool { return f.Happiness >= happyThreshold }

// DefaultFactions returns the estates present at campaign start.
func DefaultFactions() []Faction {
	return []Faction{
		{
			ID: "crown_loyalists", Name: "Crown Loyalists", Ideology: IdeologyMonarchist, Influence: 35, Happiness: 60,
			Bonuses:   Effects{StatLegitimacy: 1, StatStability: 0.5},
			Penalties: Effects{StatLegitimacy: -2, StatUnrest: 1},
		},
		{
			ID: "clergy", Name: "First Estate", Ideology: IdeologyClerical, Influence: 30, Happiness: 55,
			Bonuses:   Effects{StatStability: 1, StatTechCost: 0.05},
			Penalties: Effects{StatStability: -1, StatUnrest: 2},
		},
		{
			ID: "burghers", Name: "Burghers", Ideology: IdeologyMercantile, Influence: 25, Happiness: 50,
			Bonuses:   Effects{StatTradeEfficiency: 0.1, StatTaxIncome: 0.1},
			Penalties: Effects{StatTradeEfficiency: -0.1, StatCorruption: 0.5},
		},
		{
			ID: "officers", Name: "Officer Corps", Ideology: IdeologyMilitarist, Influence: 20, Happiness: 50,
			Bonuses:   Effects{StatArmyMorale: 0.1, StatManpower: 0.1},
			Penalties: Effects{StatArmyMorale: -0.1, StatUnrest: 1},
		},
		{
			ID: "reformers", Name: "Learned Reformers", Ideology: IdeologyReformist, Influence: 10, Happiness: 45,
			Bonuses:   Effects{StatTechCost: -0.1, StatProduction: 0.05},
			Penalties: Effects{StatTechCost: 0.05, StatStability: -0.5},
		},
		{
			ID: "commons", Name: "Commons", Ideology: IdeologyPopulist, Influence: 15, Happiness: 40,
			Bonuses:   Effects{StatProduction: 0.1, StatManpower: 0.05},
			Penalties: Effects{StatUnrest: 3, StatTaxIncome: -0.1},
		},
	}
}

// demandTemplates are the asks each ideology may raise.
var demandTemplates = map[Ideology][]Demand{
	IdeologyMonarchist: {
		{ID: "restore_legitimacy", Description: "Restore the dignity of the crown", Goal: Condition{Metric: MetricLegitimacy, Cmp: CmpGTE, Value: 80}},
		{ID: "stable_realm", Description: "Bring order to the realm", Goal: Condition{Metric: MetricStability, Cmp: CmpGTE, Value: 2}},
	},
	IdeologyClerical: {
		{ID: "pious_peace", Description: "End the bloodshed between Christians", Goal: Condition{Metric: MetricWars, Cmp: CmpEQ, Value: 0}},
		{ID: "tithe_relief", Description: "Relieve the church of crown debts", Goal: Condition{Metric: MetricLoans, Cmp: CmpEQ, Value: 0}},
	},
	IdeologyMercantile: {
		{ID: "sound_coin", Description: "Keep the coinage sound", Goal: Condition{Metric: MetricInflation, Cmp: CmpLT, Value: 2}},
		{ID: "full_coffers", Description: "Fill the treasury", Goal: Condition{Metric: MetricTreasury, Cmp: CmpGTE, Value: 300}},
		{ID: "trade_fleet", Description: "Protect the sea lanes", Goal: Condition{Metric: MetricNavySize, Cmp: CmpGTE, Value: 10}},
	},
	IdeologyMilitarist: {
		{ID: "grand_army", Description: "Raise the army to its full strength", Goal: Condition{Metric: MetricForceLimitRatio, Cmp: CmpGTE, Value: 1}},
		{ID: "military_drill", Description: "Adopt modern drill", Goal: Condition{Metric: MetricMilTech, Cmp: CmpGTE, Value: 6}},
	},
	IdeologyReformist: {
		{ID: "new_learning", Description: "Fund the universities", Goal: Condition{Metric: MetricAdminTech, Cmp: CmpGTE, Value: 6}},
		{ID: "clean_court", Description: "Root out corruption", Goal: Condition{Metric: MetricCorruption, Cmp: CmpLTE, Value: 1}},
	},
	IdeologyPopulist: {
		{ID: "bread_and_peace", Description: "Spare the peasantry from war", Goal: Condition{Metric: MetricWarExhaustion, Cmp: CmpLT, Value: 2}},
		{ID: "spare_the_levy", Description: "Stop draining the villages", Goal: Condition{Metric: MetricManpowerRatio, Cmp: CmpGTE, Value: 0.5}},
	},
}

// CalculateFactionEffects sums each faction's bonus or penalty bundle weighted by influence.
func CalculateFactionEffects(factions []Faction) Effects {
	out := Effects{}
	for _, f := range factions {
		bundle := f.Penalties
		if f.Happy() {
			bundle = f.Bonuses
		}
		weight := f.Influence / 100
		for k, v := range bundle {
			out[k] += v * weight
		}
	}
	return out
}

// RevoltRisk scores 0..100 from unhappy factions with real influence.
func RevoltRisk(factions []Faction) float64 {
	risk := 0.0
	for _, f := range factions {
		if f.Happiness < revoltHappiness && f.Influence > revoltInfluence {
			risk += (revoltHappiness - f.Happiness) * (f.Influence / 100)
		}
	}
	return math.Min(risk, 100)
}

// GenerateDemand draws a demand from the faction's ideology table with a 5..9 turn expiry.
// Returns nil when the ideology has no templates.
func GenerateDemand(f Faction, src Source) *Demand {
	templates := demandTemplates[f.Ideology]
	if len(templates) == 0 {
		return nil
	}
	d := templates[src.Intn(len(templates))]
	d.ExpiresIn = demandMinTurns + src.Intn(demandExpirySpread)
	return &d
}

// happinessDeltas is the reaction of each ideology to a crown action. Missing pairs are indifferent.
var happinessDeltas = map[FactionAction]map[Ideology]float64{
	ActRaiseTaxes: {
		IdeologyMonarchist: 5, IdeologyMercantile: -10, IdeologyPopulist: -15, IdeologyClerical: -5,
	},
	ActLowerTaxes: {
		IdeologyMonarchist: -5, IdeologyMercantile: 10, IdeologyPopulist: 15,
	},
	ActDeclareWar: {
		IdeologyMilitarist: 15, IdeologyMonarchist: 5, IdeologyClerical: -5, IdeologyMercantile: -10, IdeologyPopulist: -10,
	},
	ActMakePeace: {
		IdeologyMilitarist: -10, IdeologyClerical: 10, IdeologyMercantile: 10, IdeologyPopulist: 10,
	},
	ActBuildChurch: {
		IdeologyClerical: 15, IdeologyReformist: -5,
	},
	ActBuildMarketplace: {
		IdeologyMercantile: 15, IdeologyPopulist: 5,
	},
	ActRecruitArmy: {
		IdeologyMilitarist: 10, IdeologyPopulist: -5,
	},
	ActPassReform: {
		IdeologyReformist: 20, IdeologyClerical: -10, IdeologyMonarchist: -10, IdeologyPopulist: 5,
	},
	ActGrantPrivileges: {
		IdeologyMonarchist: -10, IdeologyClerical: 10, IdeologyMercantile: 10, IdeologyMilitarist: 10,
	},
}

// UpdateFactionHappiness returns the faction's happiness after the crown takes action in year.
func UpdateFactionHappiness(f Faction, action FactionAction, year int) float64 {
	delta := happinessDeltas[action][f.Ideology]
	if action == ActPassReform && f.Ideology == IdeologyClerical && year >= reformationEraStart {
		delta /= 2
	}
	return Clamp(f.Happiness + delta)
}

// ExpireDemands ages every demand by one turn, drops expired ones and reports how many lapsed unmet.
func ExpireDemands(f Faction, snap Snapshot) (Faction, int) {
	lapsed := 0
	kept := make([]Demand, 0, len(f.Demands))
	for _, d := range f.Demands {
		if d.Satisfied(snap) {
			f.Happiness = Clamp(f.Happiness + 10)
			continue
		}
		d.ExpiresIn--
		if d.ExpiresIn <= 0 {
			lapsed++
			f.Happiness = Clamp(f.Happiness - 10)
			continue
		}
		kept = append(kept, d)
	}
	f.Demands = kept
	return f, lapsed
}
