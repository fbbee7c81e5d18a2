package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/journal"
	"github.com/DaanHessen/sovereign-tui/internal/store"
	"github.com/DaanHessen/sovereign-tui/internal/text"
	"github.com/DaanHessen/sovereign-tui/internal/util"
	"github.com/DaanHessen/sovereign-tui/internal/world"
)

// revoltStabilityRisk is the revolt risk at which unhappy estates cost stability each month.
const revoltStabilityRisk = 50

// demandOdds is the one-in-N monthly chance that a faction without demands raises one.
const demandOdds = 6

// allianceOpinion is the opinion a nation needs before it accepts an alliance.
const allianceOpinion = 25

const (
	ledgerRows  = 6
	recentLimit = 8
)

var errOffline = errors.New("saves unavailable offline")

// SaveStore keeps save slots. *store.SaveRepo is the Postgres implementation.
type SaveStore interface {
	Create(ctx context.Context, name string, state engine.NationState, ledger engine.AELedger, factions []engine.Faction) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (store.Save, error)
	Latest(ctx context.Context) (store.Save, error)
	List(ctx context.Context, limit int) ([]store.SaveSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Deps are the optional collaborators of the shell. Nil members disable their feature.
type Deps struct {
	Saves    SaveStore
	Journal  *journal.Journal
	Narrator text.Narrator
}

// session is the running campaign. It outlives model copies made by the update loop.
type session struct {
	ctx       context.Context
	seed      engine.CampaignSeed
	tuning    util.Tuning
	nation    *engine.Container
	world     *world.Map
	ledger    engine.AELedger
	factions  []engine.Faction
	history   engine.EventHistory
	pending   []engine.Event
	queued    []engine.Action
	lastMonth engine.NationState
	report    string
	status    string
	exportDir string

	// Journal reads cached for the view; refreshed when the journal is written.
	ledgerRows []journal.LedgerEntry
	recent     []journal.EventEntry

	saves    SaveStore
	journal  *journal.Journal
	narrator text.Narrator
}

func newSession(ctx context.Context, cfg util.Config, tuning util.Tuning, deps Deps) (*session, error) {
	seed, err := engine.NewCampaignSeed(cfg.SeedText)
	if err != nil {
		return nil, err
	}
	state, m := world.NewCampaign(tuning)
	s := &session{
		ctx:       ctx,
		seed:      seed,
		tuning:    tuning,
		nation:    engine.NewContainer(state),
		world:     m,
		ledger:    engine.AELedger{},
		factions:  engine.DefaultFactions(),
		lastMonth: state,
		exportDir: cfg.ExportDir,
		saves:     deps.Saves,
		journal:   deps.Journal,
		narrator:  deps.Narrator,
	}
	if s.narrator == nil {
		s.narrator = text.NewTemplateNarrator()
	}
	if s.journal != nil {
		h, err := s.journal.History(ctx, "")
		if err != nil {
			slog.Warn("journal history unavailable", "err", err)
		} else {
			s.history = h
		}
		s.refreshLedger()
		s.refreshRecent()
	}
	s.nation.Subscribe(s.observe)
	return s, nil
}

func (s *session) refreshLedger() {
	rows, err := s.journal.Ledger(s.ctx, ledgerRows)
	if err != nil {
		slog.Warn("journal ledger unavailable", "err", err)
		return
	}
	s.ledgerRows = rows
}

func (s *session) refreshRecent() {
	rows, err := s.journal.RecentEvents(s.ctx, recentLimit)
	if err != nil {
		slog.Warn("journal events unavailable", "err", err)
		return
	}
	s.recent = rows
}

func (s *session) state() engine.NationState { return s.nation.State() }

func (s *session) dispatch(actions ...engine.Action) engine.NationState {
	s.nation.Dispatch(actions...)
	for len(s.queued) > 0 {
		q := s.queued
		s.queued = nil
		s.nation.Dispatch(q...)
	}
	return s.nation.State()
}

func (s *session) observe(prev, next engine.NationState, a engine.Action) {
	if _, ok := a.(engine.MonthTick); ok {
		s.monthly(next)
	}
	if act, ok := factionReaction(a); ok {
		year := next.Year()
		for i := range s.factions {
			s.factions[i].Happiness = engine.UpdateFactionHappiness(s.factions[i], act, year)
		}
	}
}

// factionReaction maps a dispatched action to the crown action estates react to.
func factionReaction(a engine.Action) (engine.FactionAction, bool) {
	switch a := a.(type) {
	case engine.AddWar:
		return engine.ActDeclareWar, true
	case engine.EndWar:
		return engine.ActMakePeace, true
	case engine.ResearchTech:
		switch a.Kind {
		case engine.PowerAdmin:
			return engine.ActPassReform, true
		case engine.PowerMil:
			return engine.ActRecruitArmy, true
		}
	}
	return "", false
}

func (s *session) monthly(next engine.NationState) {
	snap := engine.SnapshotOf(next)
	month := engine.MonthIndex(next.Date)

	fired := engine.MonthlyEvents(snap, s.history, month, s.seed.MonthStream(next.Date, "events"))
	for _, ev := range fired {
		s.history = s.history.Record(ev, month)
		slog.Info("event fired", "event", ev.ID, "date", next.Date)
	}
	s.pending = append(s.pending, fired...)

	s.ledger.Decay(1)
	s.tendFactions(snap, s.seed.MonthStream(next.Date, "factions"))
	if engine.RevoltRisk(s.factions) >= revoltStabilityRisk {
		s.queued = append(s.queued, engine.UpdateStability{Delta: -1})
	}

	if s.journal != nil {
		if err := s.journal.RecordMonth(s.ctx, next); err != nil {
			s.fail(err)
		} else {
			s.refreshLedger()
		}
	}
	if md, err := s.narrator.Report(s.ctx, s.lastMonth, next, fired); err == nil {
		s.report = md
	}
	s.lastMonth = next
}

func (s *session) tendFactions(snap engine.Snapshot, src engine.Source) {
	for i, f := range s.factions {
		f, lapsed := engine.ExpireDemands(f, snap)
		if lapsed > 0 {
			slog.Info("demands lapsed", "faction", f.ID, "count", lapsed)
		}
		if len(f.Demands) == 0 && src.Intn(demandOdds) == 0 {
			if d := engine.GenerateDemand(f, src); d != nil {
				f.Demands = append(f.Demands, *d)
			}
		}
		s.factions[i] = f
	}
}

// choose resolves the oldest pending event with option idx.
func (s *session) choose(idx int) error {
	if len(s.pending) == 0 {
		return errors.New("no pending event")
	}
	ev := s.pending[0]
	if idx < 0 || idx >= len(ev.Options) {
		return fmt.Errorf("%s has no option %d", ev.Title, idx+1)
	}
	opt := ev.Options[idx]
	s.pending = s.pending[1:]
	st := s.dispatch(opt.Effects...)
	s.status = fmt.Sprintf("%s: %s", ev.Title, opt.Label)
	if s.journal != nil {
		if err := s.journal.RecordEvent(s.ctx, st.Date, ev, opt.Label); err != nil {
			s.fail(err)
		} else {
			s.refreshRecent()
		}
	}
	return nil
}

// conquer takes the selected province and records the AE every observer holds.
func (s *session) conquer() error {
	st := s.state()
	if st.SelectedProvince == nil {
		return errors.New("no province selected")
	}
	c, err := s.world.Conquer(*st.SelectedProvince, st.PlayerNation)
	if err != nil {
		return err
	}
	for tag, ae := range c.Impact {
		s.ledger.Add(tag, ae)
	}
	next := s.dispatch(engine.AnnexProvince{ID: c.Province.ID})
	if c.From != "" && c.From != st.PlayerNation && !next.AtWarWith(c.From) {
		s.dispatch(engine.AddWar{Tag: c.From})
	}
	outraged := engine.OutragedNations(c.Impact)
	s.status = fmt.Sprintf("Took %s from %s", c.Province.Name, c.From)
	if len(outraged) > 0 {
		s.status += "; outraged: " + strings.Join(outraged, ", ")
	}
	slog.Info("province conquered", "province", c.Province.ID, "from", c.From, "outraged", outraged)
	return nil
}

// proposeAlliance allies with the friendliest nation that will have us.
func (s *session) proposeAlliance() (string, error) {
	st := s.state()
	tags := make([]string, 0, len(s.world.Nations))
	for tag := range s.world.Nations {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	best, bestOpinion := "", float64(allianceOpinion)
	for _, tag := range tags {
		if tag == st.PlayerNation || st.AlliedWith(tag) || st.AtWarWith(tag) || st.RivalOf(tag) {
			continue
		}
		opinion := s.world.Nations[tag].Relations + float64(engine.AEOpinionImpact(s.ledger.Get(tag)))
		if opinion >= bestOpinion {
			best, bestOpinion = tag, opinion
		}
	}
	if best == "" {
		return "", errors.New("no court will accept an alliance")
	}
	s.dispatch(engine.AddAlly{Tag: best})
	return best, nil
}

// coalition is the current coalition against the player and its odds.
func (s *session) coalition() ([]engine.CoalitionMember, float64, engine.Outcome) {
	st := s.state()
	members := engine.FormCoalition(s.world.CoalitionCandidates(s.ledger, st))
	strength := engine.CalculateCoalitionStrength(members)
	return members, strength, engine.SimulateCoalitionOutcome(s.world.PlayerStrength(st), strength)
}

func (s *session) save() error {
	if s.saves == nil {
		return errOffline
	}
	st := s.state()
	name := fmt.Sprintf("%s %s", st.PlayerNation, engine.LongDate(st.Date))
	id, err := s.saves.Create(s.ctx, name, st, s.ledger, s.factions)
	if err != nil {
		return err
	}
	s.status = "Saved " + name
	slog.Info("campaign saved", "id", id, "date", st.Date)
	return nil
}

func (s *session) loadLatest() error {
	if s.saves == nil {
		return errOffline
	}
	sv, err := s.saves.Latest(s.ctx)
	if err != nil {
		return err
	}
	s.restore(sv)
	return nil
}

func (s *session) loadSave(id uuid.UUID) error {
	if s.saves == nil {
		return errOffline
	}
	sv, err := s.saves.Get(s.ctx, id)
	if err != nil {
		return err
	}
	s.restore(sv)
	return nil
}

func (s *session) deleteSave(sum store.SaveSummary) error {
	if s.saves == nil {
		return errOffline
	}
	if err := s.saves.Delete(s.ctx, sum.ID); err != nil {
		return err
	}
	s.status = "Deleted " + sum.Name
	slog.Info("save deleted", "id", sum.ID)
	return nil
}

// restore swaps in a stored campaign. The map is rebuilt from the scenario seed so
// provinces taken after the save return to their old owners.
func (s *session) restore(sv store.Save) {
	st := sv.State
	st.Paused = true
	m := world.Generate(s.tuning.WorldSeed, s.tuning.MapWidth, s.tuning.MapHeight)
	m.Claim(st.PlayerNation, st.Provinces)
	s.world = m
	s.nation.Replace(st)

	s.ledger = engine.AELedger{}
	for tag, ae := range sv.Ledger {
		s.ledger.Add(tag, ae)
	}
	if len(sv.Factions) > 0 {
		s.factions = append([]engine.Faction(nil), sv.Factions...)
	} else {
		s.factions = engine.DefaultFactions()
	}
	s.history = engine.EventHistory{}
	if s.journal != nil {
		h, err := s.journal.History(s.ctx, st.Date)
		if err != nil {
			slog.Warn("journal history unavailable", "err", err)
		} else {
			s.history = h
		}
	}
	s.pending, s.queued = nil, nil
	s.report = ""
	s.lastMonth = s.nation.State()
	s.status = "Loaded " + sv.Name
	slog.Info("campaign loaded", "id", sv.ID, "date", sv.GameDate)
}

func (s *session) export() (string, error) {
	st := s.state()
	name := fmt.Sprintf("%s-%s", st.PlayerNation, st.Date)
	path := filepath.Join(s.exportDir, name+".sov")
	if err := store.ExportFile(path, name, st, s.ledger, s.factions); err != nil {
		return "", err
	}
	s.status = "Exported " + path
	return path, nil
}

func (s *session) fail(err error) {
	s.status = "error: " + err.Error()
	slog.Error("shell", "err", err)
}
