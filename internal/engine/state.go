package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Invariant ranges of the nation state.
const (
	MinStability = -3
	MaxStability = 3
	MaxPower     = 999
	MaxSpeed     = 5
	MaxTech      = 32

	StartDate = "1444-11-11"
)

// Economy and regeneration rates applied by the reducer.
const (
	LoanIncomeMultiple  = 12.0
	LoanInflation       = 0.1
	LoanAnnualInterest  = 0.04
	ManpowerRegenMonths = 120
	MonthlyPowerGain    = 6
)

// MaxLoans is the soft cap shown by the economy panel. The reducer does not enforce it.
const MaxLoans = 5

// NationState is the single source of truth for the player's nation.
type NationState struct {
	Date         string `json:"date"`
	Speed        int    `json:"speed"`
	Paused       bool   `json:"paused"`
	PlayerNation string `json:"player_nation"`

	Treasury    float64 `json:"treasury"`
	Manpower    int     `json:"manpower"`
	MaxManpower int     `json:"max_manpower"`
	Stability   int     `json:"stability"`

	Legitimacy    float64 `json:"legitimacy"`
	Prestige      float64 `json:"prestige"`
	Corruption    float64 `json:"corruption"`
	Inflation     float64 `json:"inflation"`
	WarExhaustion float64 `json:"war_exhaustion"`
	Overextension float64 `json:"overextension"`

	AdminPower int `json:"admin_power"`
	DiploPower int `json:"diplo_power"`
	MilPower   int `json:"mil_power"`
	AdminTech  int `json:"admin_tech"`
	DiploTech  int `json:"diplo_tech"`
	MilTech    int `json:"mil_tech"`

	ArmySize   int `json:"army_size"`
	ForceLimit int `json:"force_limit"`
	NavySize   int `json:"navy_size"`
	NavalLimit int `json:"naval_limit"`

	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	Loans           int     `json:"loans"`

	Allies    []string `json:"allies"`
	Rivals    []string `json:"rivals"`
	Truces    []string `json:"truces"`
	Wars      []string `json:"wars"`
	Provinces []int    `json:"provinces"`
	Subjects  []string `json:"subjects"`

	SelectedProvince *int    `json:"selected_province,omitempty"`
	SelectedArmy     *string `json:"selected_army,omitempty"`
	ActivePanel      *Panel  `json:"active_panel,omitempty"`
	MapMode          MapMode `json:"map_mode"`
}

// DefaultNationState returns the fixed start-of-campaign state.
func DefaultNationState() NationState {
	return NationState{
		Date:            StartDate,
		Speed:           1,
		Paused:          true,
		PlayerNation:    "FRA",
		Treasury:        100,
		Manpower:        10000,
		MaxManpower:     25000,
		Stability:       1,
		Legitimacy:      100,
		AdminPower:      50,
		DiploPower:      50,
		MilPower:        50,
		AdminTech:       3,
		DiploTech:       3,
		MilTech:         3,
		ArmySize:        12,
		ForceLimit:      20,
		NavySize:        6,
		NavalLimit:      12,
		MonthlyIncome:   8.5,
		MonthlyExpenses: 6.2,
		Allies:          []string{},
		Rivals:          []string{"ENG"},
		Truces:          []string{},
		Wars:            []string{},
		Provinces:       []int{},
		Subjects:        []string{},
		MapMode:         MapPolitical,
	}
}

// Power returns the pool for kind; unknown kinds read as zero.
func (s NationState) Power(kind PowerKind) int {
	switch kind {
	case PowerAdmin:
		return s.AdminPower
	case PowerDiplo:
		return s.DiploPower
	case PowerMil:
		return s.MilPower
	}
	return 0
}

// Tech returns the tech level for kind; unknown kinds read as zero.
func (s NationState) Tech(kind PowerKind) int {
	switch kind {
	case PowerAdmin:
		return s.AdminTech
	case PowerDiplo:
		return s.DiploTech
	case PowerMil:
		return s.MilTech
	}
	return 0
}

// NetMonthly is income minus expenses minus loan interest.
func (s NationState) NetMonthly() float64 {
	return s.MonthlyIncome - s.MonthlyExpenses - s.LoanInterest()
}

// LoanInterest is the monthly interest on all outstanding loans.
func (s NationState) LoanInterest() float64 {
	return float64(s.Loans) * s.MonthlyIncome * LoanAnnualInterest / 12
}

// LoanSize is the treasury gained per loan and the cost to repay one.
func (s NationState) LoanSize() float64 { return s.MonthlyIncome * LoanIncomeMultiple }

// AtWarWith reports whether tag is among current wars.
func (s NationState) AtWarWith(tag string) bool { return containsString(s.Wars, tag) }

// AlliedWith reports whether tag is an ally.
func (s NationState) AlliedWith(tag string) bool { return containsString(s.Allies, tag) }

// RivalOf reports whether tag is a rival.
func (s NationState) RivalOf(tag string) bool { return containsString(s.Rivals, tag) }

// Year returns the year of the current date, 0 when malformed.
func (s NationState) Year() int {
	y, _, _, _ := parseDate(s.Date)
	return y
}

// normalize re-applies every invariant. Used after bulk loads.
func (s NationState) normalize() NationState {
	if s.MaxManpower < 0 {
		s.MaxManpower = 0
	}
	s.Manpower = clampInt(s.Manpower, 0, s.MaxManpower)
	s.Stability = clampInt(s.Stability, MinStability, MaxStability)
	s.AdminPower = clampInt(s.AdminPower, 0, MaxPower)
	s.DiploPower = clampInt(s.DiploPower, 0, MaxPower)
	s.MilPower = clampInt(s.MilPower, 0, MaxPower)
	s.Speed = clampInt(s.Speed, 0, MaxSpeed)
	if s.Loans < 0 {
		s.Loans = 0
	}
	if s.MapMode == "" || !s.MapMode.Validate() {
		s.MapMode = MapPolitical
	}
	return s
}

// addClamped returns v+delta restricted to [lo, hi], saturating instead of overflowing.
func addClamped(v, delta, lo, hi int) int {
	if delta > 0 && delta > hi-v {
		return hi
	}
	if delta < 0 && delta < lo-v {
		return lo
	}
	return clampInt(v+delta, lo, hi)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp restricts v to the 0-100 range used by influence and happiness.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// parseDate splits YYYY-MM-DD. Years may be written without zero padding.
func parseDate(date string) (year, month, day int, ok bool) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil || month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(parts[2]); err != nil || day < 1 || day > daysIn(year, month) {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
