package engine

import (
	"math"
	"sort"
)

// Aggressive expansion thresholds and rates.
const (
	CoalitionThreshold       = 50.0
	CoalitionRelationsCutoff = -50.0
	OutragedThreshold        = 100.0
	OpinionImpactPerAE       = -0.5
	AEDecayPerYear           = 2.0

	sameReligionMult      = 1.0
	otherReligionMult     = 0.25
	sameCultureGroupMult  = 1.0
	otherCultureGroupMult = 0.5
	perHundredDistance    = -0.1
	minDistanceMult       = 0.1
)

// aeBaseRates is AE generated per point of development taken.
var aeBaseRates = map[AEAction]float64{
	AEConquest:      1.0,
	AEAnnexation:    0.75,
	AEVassalization: 0.5,
	AEClaim:         0.1,
	AECoalitionWar:  0.25,
	AENoCBWar:       1.5,
}

// AEModifiers describe the observer's relation to the actor.
type AEModifiers struct {
	SameReligion     bool
	SameCultureGroup bool
	Distance         float64
}

// CalculateAEImpact returns the AE an observer records for an action against
// baseDevelopment worth of land, rounded to one decimal.
func CalculateAEImpact(baseDevelopment float64, action AEAction, mods AEModifiers) float64 {
	v := aeBaseRates[action] * baseDevelopment
	if mods.SameReligion {
		v *= sameReligionMult
	} else {
		v *= otherReligionMult
	}
	if mods.SameCultureGroup {
		v *= sameCultureGroupMult
	} else {
		v *= otherCultureGroupMult
	}
	v *= distanceMultiplier(mods.Distance)
	return roundTo(v, 1)
}

func distanceMultiplier(distance float64) float64 {
	return math.Max(minDistanceMult, 1+math.Floor(distance/100)*perHundredDistance)
}

// WouldJoinCoalition decides membership. Order matters: alliance vetoes first.
func WouldJoinCoalition(ae, relations float64, isRival, isAlly bool) bool {
	if isAlly {
		return false
	}
	if ae < CoalitionThreshold {
		return false
	}
	if relations > CoalitionRelationsCutoff && !isRival {
		return false
	}
	return true
}

// CoalitionMember is one nation considered for a coalition.
type CoalitionMember struct {
	Tag       string
	Name      string
	AE        float64
	Relations float64
	IsRival   bool
	IsAlly    bool
	Strength  float64
}

// CalculateCoalitionStrength sums member strength.
func CalculateCoalitionStrength(members []CoalitionMember) float64 {
	total := 0.0
	for _, m := range members {
		total += m.Strength
	}
	return total
}

// FormCoalition keeps the candidates that would join, ordered by AE descending then tag.
func FormCoalition(candidates []CoalitionMember) []CoalitionMember {
	var out []CoalitionMember
	for _, c := range candidates {
		if WouldJoinCoalition(c.AE, c.Relations, c.IsRival, c.IsAlly) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AE != out[j].AE {
			return out[i].AE > out[j].AE
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// AEOpinionImpact is the opinion penalty caused by ae. Halves round toward positive
// infinity, so 1.5 AE costs 0 opinion rather than 1.
func AEOpinionImpact(ae float64) int {
	return int(math.Floor(ae*OpinionImpactPerAE + 0.5))
}

// AESeverity labels ae. Lower bounds are inclusive.
func AESeverity(ae float64) string {
	switch {
	case ae >= 200:
		return "Extreme"
	case ae >= 100:
		return "Very High"
	case ae >= 50:
		return "High"
	case ae >= 25:
		return "Moderate"
	case ae > 0:
		return "Low"
	default:
		return "None"
	}
}

// AEColor returns the presentation token for ae, on the same ladder as AESeverity.
func AEColor(ae float64) string {
	switch {
	case ae >= 200:
		return "crimson"
	case ae >= 100:
		return "red"
	case ae >= 50:
		return "orange"
	case ae >= 25:
		return "yellow"
	case ae > 0:
		return "green"
	default:
		return "gray"
	}
}

// AEDecayTime is whole years until ae decays to zero.
func AEDecayTime(ae float64) int {
	if ae <= 0 {
		return 0
	}
	return int(math.Ceil(ae / AEDecayPerYear))
}

// DecayAE applies linear decay for months elapsed, never going below zero.
func DecayAE(ae float64, months int) float64 {
	if months <= 0 {
		return ae
	}
	return math.Max(0, ae-AEDecayPerYear*float64(months)/12)
}

// Outcome is the heuristic result of fighting a coalition.
type Outcome struct {
	WinChance      int
	Recommendation string
}

// SimulateCoalitionOutcome buckets the strength ratio. No dice are rolled.
func SimulateCoalitionOutcome(playerStrength, coalitionStrength float64) Outcome {
	ratio := math.Inf(1)
	if coalitionStrength > 0 {
		ratio = playerStrength / coalitionStrength
	}
	switch {
	case ratio >= 2:
		return Outcome{WinChance: 90, Recommendation: "Decisive advantage. Fight the coalition and press your claims."}
	case ratio >= 1.5:
		return Outcome{WinChance: 75, Recommendation: "Favourable odds. Secure allies before the first battle."}
	case ratio >= 1:
		return Outcome{WinChance: 55, Recommendation: "Even fight. Defend in good terrain and avoid attrition."}
	case ratio >= 0.7:
		return Outcome{WinChance: 35, Recommendation: "Outmatched. Seek allies or improve relations to split the coalition."}
	default:
		return Outcome{WinChance: 15, Recommendation: "Hopeless odds. Avoid war and let aggressive expansion decay."}
	}
}

// OutragedNations lists tags whose AE is at least OutragedThreshold, sorted.
func OutragedNations(aeMap map[string]float64) []string {
	var out []string
	for tag, ae := range aeMap {
		if ae >= OutragedThreshold {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// AELedger records AE held by each observer against the player.
type AELedger map[string]float64

// Add records ae for observer, ignoring non-positive amounts.
func (l AELedger) Add(observer string, ae float64) {
	if ae <= 0 {
		return
	}
	l[observer] += ae
}

// Get returns the AE held by observer.
func (l AELedger) Get(observer string) float64 { return l[observer] }

// Decay ages every entry by months and drops cleared entries.
func (l AELedger) Decay(months int) {
	for tag, ae := range l {
		next := DecayAE(ae, months)
		if next <= 0 {
			delete(l, tag)
			continue
		}
		l[tag] = next
	}
}

// Total sums AE across observers.
func (l AELedger) Total() float64 {
	total := 0.0
	for _, ae := range l {
		total += ae
	}
	return total
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
