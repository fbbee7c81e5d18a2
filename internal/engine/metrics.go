package engine

// Metric names one observable quantity of the nation. Event triggers and faction
// demands are written against metrics rather than free-form keys.
type Metric string

const (
	MetricTreasury        Metric = "treasury"
	MetricManpower        Metric = "manpower"
	MetricManpowerRatio   Metric = "manpower_ratio"
	MetricStability       Metric = "stability"
	MetricLegitimacy      Metric = "legitimacy"
	MetricPrestige        Metric = "prestige"
	MetricCorruption      Metric = "corruption"
	MetricInflation       Metric = "inflation"
	MetricWarExhaustion   Metric = "war_exhaustion"
	MetricOverextension   Metric = "overextension"
	MetricAdminPower      Metric = "admin_power"
	MetricDiploPower      Metric = "diplo_power"
	MetricMilPower        Metric = "mil_power"
	MetricAdminTech       Metric = "admin_tech"
	MetricDiploTech       Metric = "diplo_tech"
	MetricMilTech         Metric = "mil_tech"
	MetricArmySize        Metric = "army_size"
	MetricForceLimitRatio Metric = "force_limit_ratio"
	MetricNavySize        Metric = "navy_size"
	MetricMonthlyBalance  Metric = "monthly_balance"
	MetricLoans           Metric = "loans"
	MetricWars            Metric = "wars"
	MetricAllies          Metric = "allies"
	MetricRivals          Metric = "rivals"
	MetricProvinces       Metric = "provinces"
	MetricSubjects        Metric = "subjects"
	MetricYear            Metric = "year"
)

var AllMetrics = []Metric{
	MetricTreasury, MetricManpower, MetricManpowerRatio, MetricStability, MetricLegitimacy, MetricPrestige,
	MetricCorruption, MetricInflation, MetricWarExhaustion, MetricOverextension, MetricAdminPower,
	MetricDiploPower, MetricMilPower, MetricAdminTech, MetricDiploTech, MetricMilTech, MetricArmySize,
	MetricForceLimitRatio, MetricNavySize, MetricMonthlyBalance, MetricLoans, MetricWars, MetricAllies,
	MetricRivals, MetricProvinces, MetricSubjects, MetricYear,
}

func (m Metric) Validate() bool { return contains(AllMetrics, m) }

// Snapshot is a read-only view of every metric at one instant.
type Snapshot struct {
	values map[Metric]float64
}

// SnapshotOf captures s.
func SnapshotOf(s NationState) Snapshot {
	ratio := func(a, b int) float64 {
		if b <= 0 {
			return 0
		}
		return float64(a) / float64(b)
	}
	return Snapshot{values: map[Metric]float64{
		MetricTreasury:        s.Treasury,
		MetricManpower:        float64(s.Manpower),
		MetricManpowerRatio:   ratio(s.Manpower, s.MaxManpower),
		MetricStability:       float64(s.Stability),
		MetricLegitimacy:      s.Legitimacy,
		MetricPrestige:        s.Prestige,
		MetricCorruption:      s.Corruption,
		MetricInflation:       s.Inflation,
		MetricWarExhaustion:   s.WarExhaustion,
		MetricOverextension:   s.Overextension,
		MetricAdminPower:      float64(s.AdminPower),
		MetricDiploPower:      float64(s.DiploPower),
		MetricMilPower:        float64(s.MilPower),
		MetricAdminTech:       float64(s.AdminTech),
		MetricDiploTech:       float64(s.DiploTech),
		MetricMilTech:         float64(s.MilTech),
		MetricArmySize:        float64(s.ArmySize),
		MetricForceLimitRatio: ratio(s.ArmySize, s.ForceLimit),
		MetricNavySize:        float64(s.NavySize),
		MetricMonthlyBalance:  s.NetMonthly(),
		MetricLoans:           float64(s.Loans),
		MetricWars:            float64(len(s.Wars)),
		MetricAllies:          float64(len(s.Allies)),
		MetricRivals:          float64(len(s.Rivals)),
		MetricProvinces:       float64(len(s.Provinces)),
		MetricSubjects:        float64(len(s.Subjects)),
		MetricYear:            float64(s.Year()),
	}}
}

// Get returns the value of m; metrics outside the enumeration read as zero.
func (s Snapshot) Get(m Metric) float64 { return s.values[m] }

// With returns a copy of s with m overridden, for testing hypothetical states.
func (s Snapshot) With(m Metric, v float64) Snapshot {
	next := make(map[Metric]float64, len(s.values)+1)
	for k, val := range s.values {
		next[k] = val
	}
	next[m] = v
	return Snapshot{values: next}
}

// Condition compares one metric against a constant.
type Condition struct {
	Metric Metric     `json:"metric"`
	Cmp    Comparator `json:"cmp"`
	Value  float64    `json:"value"`
}

// Holds evaluates c against snap. An unknown comparator never holds.
func (c Condition) Holds(snap Snapshot) bool {
	v := snap.Get(c.Metric)
	switch c.Cmp {
	case CmpGTE:
		return v >= c.Value
	case CmpLTE:
		return v <= c.Value
	case CmpGT:
		return v > c.Value
	case CmpLT:
		return v < c.Value
	case CmpEQ:
		return v == c.Value
	}
	return false
}

// AllHold reports whether every condition holds; an empty list always holds.
func AllHold(conds []Condition, snap Snapshot) bool {
	for _, c := range conds {
		if !c.Holds(snap) {
			return false
		}
	}
	return true
}
