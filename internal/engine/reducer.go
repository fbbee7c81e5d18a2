package engine

import (
	"encoding/json"
	"math"
	"slices"
)

// Reduce maps (state, action) to the next state. It never mutates its input and never fails:
// out-of-range updates are clamped, invalid requests return the state unchanged.
func Reduce(s NationState, a Action) NationState {
	switch act := a.(type) {
	case SetDate:
		s.Date = act.Date
	case SetSpeed:
		s.Speed = clampInt(act.Speed, 0, MaxSpeed)
	case TogglePause:
		s.Paused = !s.Paused
	case SetPlayerNation:
		s.PlayerNation = act.Tag
	case UpdateTreasury:
		s.Treasury += act.Delta
	case UpdateManpower:
		s.Manpower = addClamped(s.Manpower, act.Delta, 0, s.MaxManpower)
	case UpdateStability:
		s.Stability = addClamped(s.Stability, act.Delta, MinStability, MaxStability)
	case UpdatePower:
		s = addPower(s, act.Kind, act.Delta)
	case ResearchTech:
		s = researchTech(s, act.Kind)
	case SelectProvince:
		s.SelectedProvince = copyPtr(act.ID)
	case SelectArmy:
		s.SelectedArmy = copyPtr(act.ID)
	case SetActivePanel:
		s.ActivePanel = copyPtr(act.Panel)
	case SetMapMode:
		s.MapMode = act.Mode
	case AddAlly:
		s.Allies = addUnique(s.Allies, act.Tag)
	case RemoveAlly:
		s.Allies = without(s.Allies, act.Tag)
	case AddWar:
		s.Wars = addUnique(s.Wars, act.Tag)
	case EndWar:
		if !containsString(s.Wars, act.Tag) {
			return s
		}
		s.Wars = without(s.Wars, act.Tag)
		s.Truces = addUnique(s.Truces, act.Tag)
	case TakeLoan:
		s.Treasury += s.LoanSize()
		s.Loans++
		s.Inflation += LoanInflation
	case RepayLoan:
		cost := s.LoanSize()
		if s.Loans <= 0 || s.Treasury < cost {
			return s
		}
		s.Treasury -= cost
		s.Loans--
	case MonthTick:
		s = monthTick(s)
	case LoadGame:
		s = loadGame(s, act.Data)
	case AnnexProvince:
		if act.ID <= 0 || slices.Contains(s.Provinces, act.ID) {
			return s
		}
		s.Provinces = append(slices.Clip(s.Provinces), act.ID)
	}
	return s
}

// ReduceAll folds actions left to right.
func ReduceAll(s NationState, actions ...Action) NationState {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func addPower(s NationState, kind PowerKind, delta int) NationState {
	switch kind {
	case PowerAdmin:
		s.AdminPower = addClamped(s.AdminPower, delta, 0, MaxPower)
	case PowerDiplo:
		s.DiploPower = addClamped(s.DiploPower, delta, 0, MaxPower)
	case PowerMil:
		s.MilPower = addClamped(s.MilPower, delta, 0, MaxPower)
	}
	return s
}

func researchTech(s NationState, kind PowerKind) NationState {
	switch kind {
	case PowerAdmin:
		s.AdminTech = clampInt(s.AdminTech+1, 0, MaxTech)
	case PowerDiplo:
		s.DiploTech = clampInt(s.DiploTech+1, 0, MaxTech)
	case PowerMil:
		s.MilTech = clampInt(s.MilTech+1, 0, MaxTech)
	}
	return s
}

func monthTick(s NationState) NationState {
	s.Treasury += s.NetMonthly()
	regen := int(math.Round(float64(s.MaxManpower) / ManpowerRegenMonths))
	s.Manpower = addClamped(s.Manpower, regen, 0, s.MaxManpower)
	for _, kind := range AllPowerKinds {
		s = addPower(s, kind, MonthlyPowerGain)
	}
	return s
}

func loadGame(s NationState, data json.RawMessage) NationState {
	if len(data) == 0 {
		return s
	}
	// Decode into a deep copy so a failed decode cannot leave shared slices half-written.
	next := s.clone()
	if err := json.Unmarshal(data, &next); err != nil {
		return s
	}
	return next.normalize()
}

func (s NationState) clone() NationState {
	s.Allies = append([]string(nil), s.Allies...)
	s.Rivals = append([]string(nil), s.Rivals...)
	s.Truces = append([]string(nil), s.Truces...)
	s.Wars = append([]string(nil), s.Wars...)
	s.Provinces = append([]int(nil), s.Provinces...)
	s.Subjects = append([]string(nil), s.Subjects...)
	s.SelectedProvince = copyPtr(s.SelectedProvince)
	s.SelectedArmy = copyPtr(s.SelectedArmy)
	s.ActivePanel = copyPtr(s.ActivePanel)
	return s
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// addUnique returns a new slice with v appended, or list itself when v is present.
func addUnique(list []string, v string) []string {
	if containsString(list, v) {
		return list
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, v)
}

// without returns a new slice lacking v, or list itself when v is absent.
func without(list []string, v string) []string {
	if !containsString(list, v) {
		return list
	}
	out := make([]string, 0, len(list))
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
