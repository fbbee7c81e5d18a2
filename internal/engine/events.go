package engine

import "sort"

// Option is one response to an event. Effects are dispatched in order when chosen.
type Option struct {
	Label   string
	Effects []Action
}

// Event is a static definition that may fire on a month tick.
type Event struct {
	ID          string
	Title       string
	Description string
	Category    EventCategory
	Triggers    []Condition
	MTTH        int // mean time to happen, months
	Cooldown    int // months before it may fire again
	Once        bool
	Options     []Option
}

var eventCatalog = []Event{
	{
		ID: "bountiful_harvest", Title: "Bountiful Harvest", Category: CategoryEconomic, MTTH: 36, Cooldown: 24,
		Description: "The granaries overflow after a mild summer. Tax collectors report an unexpected surplus.",
		Triggers:    []Condition{{Metric: MetricStability, Cmp: CmpGTE, Value: 0}},
		Options: []Option{
			{Label: "Fill the treasury", Effects: []Action{UpdateTreasury{Delta: 50}}},
			{Label: "Feed the levies", Effects: []Action{UpdateManpower{Delta: 2000}}},
		},
	},
	{
		ID: "merchant_guild_petition", Title: "Merchant Guild Petition", Category: CategoryEconomic, MTTH: 48, Cooldown: 36,
		Description: "The guilds of the capital ask for a royal charter in exchange for a generous gift.",
		Triggers:    []Condition{{Metric: MetricTreasury, Cmp: CmpLT, Value: 200}},
		Options: []Option{
			{Label: "Grant the charter", Effects: []Action{UpdateTreasury{Delta: 75}, UpdatePower{Kind: PowerAdmin, Delta: -25}}},
			{Label: "Refuse them", Effects: []Action{UpdateStability{Delta: -1}}},
		},
	},
	{
		ID: "debasement_scandal", Title: "Debasement Scandal", Category: CategoryEconomic, MTTH: 24, Cooldown: 24,
		Description: "Foreign bankers whisper that the crown's coin holds less silver than it claims.",
		Triggers:    []Condition{{Metric: MetricLoans, Cmp: CmpGTE, Value: 2}},
		Options: []Option{
			{Label: "Recall the coinage", Effects: []Action{UpdateTreasury{Delta: -40}}},
			{Label: "Deny everything", Effects: []Action{UpdateStability{Delta: -1}, UpdatePower{Kind: PowerDiplo, Delta: -20}}},
		},
	},
	{
		ID: "noble_intrigue", Title: "Noble Intrigue", Category: CategoryPolitical, MTTH: 30, Cooldown: 24,
		Description: "A cabal of great lords meets in secret. Their loyalty is for sale.",
		Triggers:    []Condition{{Metric: MetricStability, Cmp: CmpLTE, Value: 0}},
		Options: []Option{
			{Label: "Buy their loyalty", Effects: []Action{UpdateTreasury{Delta: -60}, UpdateStability{Delta: 1}}},
			{Label: "Arrest the ringleaders", Effects: []Action{UpdatePower{Kind: PowerMil, Delta: -30}, UpdateStability{Delta: 1}}},
			{Label: "Ignore the rumours", Effects: []Action{UpdateStability{Delta: -1}}},
		},
	},
	{
		ID: "wise_counsel", Title: "Wise Counsel", Category: CategoryPolitical, MTTH: 60, Cooldown: 48,
		Description: "A learned advisor arrives at court with plans to reform the chancery.",
		Options: []Option{
			{Label: "Appoint them", Effects: []Action{UpdatePower{Kind: PowerAdmin, Delta: 50}, UpdateTreasury{Delta: -25}}},
			{Label: "Send them away", Effects: nil},
		},
	},
	{
		ID: "veteran_officers", Title: "Veteran Officers", Category: CategoryMilitary, MTTH: 24, Cooldown: 24,
		Description: "Officers returning from the front offer to drill the new regiments.",
		Triggers:    []Condition{{Metric: MetricWars, Cmp: CmpGTE, Value: 1}},
		Options: []Option{
			{Label: "Accept their service", Effects: []Action{UpdatePower{Kind: PowerMil, Delta: 40}}},
			{Label: "Pension them off", Effects: []Action{UpdateTreasury{Delta: -20}, UpdateStability{Delta: 1}}},
		},
	},
	{
		ID: "desertion", Title: "Mass Desertion", Category: CategoryMilitary, MTTH: 18, Cooldown: 12,
		Description: "Unpaid soldiers are slipping away from their camps by night.",
		Triggers: []Condition{
			{Metric: MetricWars, Cmp: CmpGTE, Value: 1},
			{Metric: MetricMonthlyBalance, Cmp: CmpLT, Value: 0},
		},
		Options: []Option{
			{Label: "Pay the arrears", Effects: []Action{UpdateTreasury{Delta: -50}}},
			{Label: "Let them go", Effects: []Action{UpdateManpower{Delta: -3000}}},
		},
	},
	{
		ID: "religious_dispute", Title: "Religious Dispute", Category: CategoryReligious, MTTH: 48, Cooldown: 36,
		Description: "Preachers in the provinces denounce the bishops as worldly and corrupt.",
		Options: []Option{
			{Label: "Side with the bishops", Effects: []Action{UpdatePower{Kind: PowerAdmin, Delta: -20}}},
			{Label: "Side with the preachers", Effects: []Action{UpdateStability{Delta: -1}, UpdatePower{Kind: PowerDiplo, Delta: 20}}},
		},
	},
	{
		ID: "papal_favour", Title: "Papal Favour", Category: CategoryReligious, MTTH: 72, Cooldown: 60,
		Description: "The Curia looks kindly on the realm and offers its blessing.",
		Triggers:    []Condition{{Metric: MetricStability, Cmp: CmpGTE, Value: 2}},
		Options: []Option{
			{Label: "Accept the blessing", Effects: []Action{UpdateStability{Delta: 1}}},
		},
	},
	{
		ID: "royal_marriage_offer", Title: "Royal Marriage Offer", Category: CategoryDiplomatic, MTTH: 60, Cooldown: 60,
		Description: "The Castilian court proposes a match between our houses and an alliance to seal it.",
		Triggers:    []Condition{{Metric: MetricAllies, Cmp: CmpLT, Value: 3}},
		Options: []Option{
			{Label: "Accept the match", Effects: []Action{UpdatePower{Kind: PowerDiplo, Delta: 30}, AddAlly{Tag: "CAS"}}},
			{Label: "Decline politely", Effects: nil},
		},
	},
	{
		ID: "insulting_envoy", Title: "Insulting Envoy", Category: CategoryDiplomatic, MTTH: 36, Cooldown: 36,
		Description: "A rival's ambassador mocks the crown before the whole court.",
		Triggers:    []Condition{{Metric: MetricRivals, Cmp: CmpGTE, Value: 1}},
		Options: []Option{
			{Label: "Expel the envoy", Effects: []Action{UpdatePower{Kind: PowerDiplo, Delta: -15}, UpdatePower{Kind: PowerMil, Delta: 15}}},
			{Label: "Swallow the insult", Effects: []Action{UpdateStability{Delta: -1}}},
		},
	},
	{
		ID: "plague_outbreak", Title: "Plague Outbreak", Category: CategoryDisaster, MTTH: 120, Cooldown: 120,
		Description: "Sickness spreads through the towns. The physicians are helpless.",
		Options: []Option{
			{Label: "Quarantine the towns", Effects: []Action{UpdateTreasury{Delta: -40}, UpdateManpower{Delta: -1000}}},
			{Label: "Pray for deliverance", Effects: []Action{UpdateManpower{Delta: -4000}, UpdateStability{Delta: -1}}},
		},
	},
	{
		ID: "great_fire", Title: "Great Fire of the Capital", Category: CategoryDisaster, MTTH: 240, Once: true,
		Description: "A fire in the bakers' quarter has burned half the capital to the ground.",
		Options: []Option{
			{Label: "Rebuild in stone", Effects: []Action{UpdateTreasury{Delta: -120}, UpdatePower{Kind: PowerAdmin, Delta: 25}}},
			{Label: "Let the citizens rebuild", Effects: []Action{UpdateStability{Delta: -1}}},
		},
	},
	{
		ID: "bankruptcy_looms", Title: "Bankruptcy Looms", Category: CategoryEconomic, MTTH: 0, Cooldown: 12,
		Description: "The treasury is empty and the creditors are at the gate.",
		Triggers:    []Condition{{Metric: MetricTreasury, Cmp: CmpLT, Value: 0}},
		Options: []Option{
			{Label: "Take another loan", Effects: []Action{TakeLoan{}}},
			{Label: "Default on our debts", Effects: []Action{UpdateStability{Delta: -2}, UpdatePower{Kind: PowerDiplo, Delta: -50}}},
		},
	},
}

func catalogByID() map[string]Event {
	out := make(map[string]Event, len(eventCatalog))
	for _, ev := range eventCatalog {
		out[ev.ID] = ev
	}
	return out
}

var eventsByID = catalogByID()

// Events returns the whole catalogue in declaration order.
func Events() []Event { return append([]Event{}, eventCatalog...) }

// EventByID looks up one event.
func EventByID(id string) (Event, bool) {
	ev, ok := eventsByID[id]
	return ev, ok
}

// EventsByCategory filters the catalogue, preserving order.
func EventsByCategory(cat EventCategory) []Event {
	var out []Event
	for _, ev := range eventCatalog {
		if ev.Category == cat {
			out = append(out, ev)
		}
	}
	return out
}

// TriggersMet reports whether every trigger holds. An event without triggers is always eligible.
func TriggersMet(ev Event, snap Snapshot) bool { return AllHold(ev.Triggers, snap) }

// ShouldFire rolls for ev this month: 1/MTTH once triggered, always when MTTH is not positive.
func ShouldFire(ev Event, snap Snapshot, src Source) bool {
	if !TriggersMet(ev, snap) {
		return false
	}
	if ev.MTTH <= 0 {
		return true
	}
	return src.Float64() < 1/float64(ev.MTTH)
}

// EventState tracks when one event last fired.
type EventState struct {
	LastMonth     int
	CooldownUntil int
	OnceFired     bool
}

// EventHistory records fired events by month index, most recent first in Recent.
type EventHistory struct {
	Events map[string]EventState
	Recent []string
}

func (h EventHistory) eventState(id string) EventState {
	if h.Events == nil {
		return EventState{}
	}
	return h.Events[id]
}

// Eligible reports whether cooldown and once-only rules allow ev in month.
func (h EventHistory) Eligible(ev Event, month int) bool {
	st := h.eventState(ev.ID)
	if ev.Once && st.OnceFired {
		return false
	}
	return st.CooldownUntil <= month
}

// Record marks ev as fired in month and returns the updated history.
func (h EventHistory) Record(ev Event, month int) EventHistory {
	next := EventHistory{Events: make(map[string]EventState, len(h.Events)+1)}
	for k, v := range h.Events {
		next.Events[k] = v
	}
	next.Events[ev.ID] = EventState{LastMonth: month, CooldownUntil: month + ev.Cooldown, OnceFired: true}
	next.Recent = append([]string{ev.ID}, h.Recent...)
	if len(next.Recent) > 10 {
		next.Recent = next.Recent[:10]
	}
	return next
}

// MonthlyEvents rolls every eligible event in id order and returns those that fire.
func MonthlyEvents(snap Snapshot, history EventHistory, month int, src Source) []Event {
	ids := make([]string, 0, len(eventsByID))
	for id := range eventsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []Event
	for _, id := range ids {
		ev := eventsByID[id]
		if !history.Eligible(ev, month) {
			continue
		}
		if ShouldFire(ev, snap, src) {
			out = append(out, ev)
		}
	}
	return out
}

// MonthIndex counts months since year zero, for cooldown bookkeeping.
func MonthIndex(date string) int {
	y, m, _, ok := parseDate(date)
	if !ok {
		return 0
	}
	return y*12 + m - 1
}
