package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/store"
	"github.com/DaanHessen/sovereign-tui/internal/text"
	"github.com/DaanHessen/sovereign-tui/internal/world"
)

// tickMsg advances the calendar by one day. Ticks from an older schedule are dropped.
type tickMsg struct{ gen int }

var panelKeys = map[string]engine.Panel{
	"d": engine.PanelDiplomacy,
	"e": engine.PanelEconomy,
	"m": engine.PanelMilitary,
	"f": engine.PanelFactions,
	"c": engine.PanelCoalition,
	"v": engine.PanelEvents,
	"t": engine.PanelTerrain,
	"p": engine.PanelSaves,
	"?": engine.PanelHelp,
}

var researchKeys = map[string]engine.PowerKind{
	"A": engine.PowerAdmin,
	"D": engine.PowerDiplo,
	"M": engine.PowerMil,
}

type model struct {
	sess    *session
	theme   string
	pal     palette
	tickGen int
	width   int
	height  int
	saves   []store.SaveSummary
	saveIdx int
}

func newModel(sess *session, theme string) model {
	return model{sess: sess, theme: theme, pal: paletteFor(theme)}
}

func (m model) Init() tea.Cmd { return m.schedule() }

// schedule starts the next day tick, invalidating any tick already in flight.
func (m *model) schedule() tea.Cmd {
	m.tickGen++
	st := m.sess.state()
	if !st.Running() {
		return nil
	}
	gen := m.tickGen
	return tea.Tick(engine.TickInterval(st.Speed), func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if msg.gen != m.tickGen || !m.sess.state().Running() {
			return m, nil
		}
		m.advanceDay()
		return m, m.schedule()
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

// advanceDay runs one clock tick and pauses on a new event.
func (m *model) advanceDay() {
	before := len(m.sess.pending)
	st := m.sess.dispatch(engine.DayActions(m.sess.state())...)
	if len(m.sess.pending) > before {
		if !st.Paused {
			m.sess.dispatch(engine.TogglePause{})
		}
		m.sess.dispatch(engine.OpenPanel(engine.PanelEvents))
	}
}

func (m model) handleKey(k string) (tea.Model, tea.Cmd) {
	s := m.sess
	st := s.state()
	choosing := st.ActivePanel != nil && *st.ActivePanel == engine.PanelEvents && len(s.pending) > 0

	if choosing && len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
		if err := s.choose(int(k[0] - '1')); err != nil {
			s.status = err.Error()
		}
		return m, nil
	}
	if p, ok := panelKeys[k]; ok {
		if st.ActivePanel != nil && *st.ActivePanel == p {
			s.dispatch(engine.ClosePanel())
		} else {
			s.dispatch(engine.OpenPanel(p))
			if p == engine.PanelSaves {
				m.refreshSaves()
			}
		}
		return m, nil
	}
	if st.ActivePanel != nil && *st.ActivePanel == engine.PanelSaves && m.handleSavesKey(k) {
		return m, m.schedule()
	}
	if kind, ok := researchKeys[k]; ok {
		before := st.Tech(kind)
		if after := s.dispatch(engine.ResearchTech{Kind: kind}).Tech(kind); after > before {
			s.status = fmt.Sprintf("%s tech %d researched", kind, after)
		} else {
			s.status = fmt.Sprintf("cannot research %s tech", kind)
		}
		return m, nil
	}

	switch k {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		s.dispatch(engine.TogglePause{})
		return m, m.schedule()
	case "1", "2", "3", "4", "5":
		s.dispatch(engine.SetSpeed{Speed: int(k[0] - '0')})
		return m, m.schedule()
	case "+", "=":
		s.dispatch(engine.SetSpeed{Speed: st.Speed + 1})
		return m, m.schedule()
	case "-":
		s.dispatch(engine.SetSpeed{Speed: st.Speed - 1})
		return m, m.schedule()
	case "esc":
		s.dispatch(engine.ClosePanel())
	case "tab":
		s.dispatch(engine.SetMapMode{Mode: engine.NextMapMode(st.MapMode)})
	case "l":
		s.dispatch(engine.TakeLoan{})
		s.status = fmt.Sprintf("Loan taken, %d outstanding", s.state().Loans)
	case "r":
		if s.dispatch(engine.RepayLoan{}).Loans < st.Loans {
			s.status = "Loan repaid"
		} else {
			s.status = "Cannot repay a loan"
		}
	case "a":
		if st.ActivePanel == nil || *st.ActivePanel != engine.PanelDiplomacy {
			s.status = "Open diplomacy to propose an alliance"
			return m, nil
		}
		if tag, err := s.proposeAlliance(); err != nil {
			s.status = err.Error()
		} else {
			s.status = "Alliance with " + tag + " signed"
		}
	case "b":
		if st.ActivePanel == nil || *st.ActivePanel != engine.PanelDiplomacy || len(st.Allies) == 0 {
			s.status = "Open diplomacy with an ally to break an alliance"
			return m, nil
		}
		s.dispatch(engine.RemoveAlly{Tag: st.Allies[0]})
		s.status = "Alliance with " + st.Allies[0] + " broken"
	case "w":
		if len(st.Wars) == 0 {
			s.status = "Not at war"
			return m, nil
		}
		s.dispatch(engine.EndWar{Tag: st.Wars[0]})
		s.status = "White peace with " + st.Wars[0]
	case "x":
		if err := s.conquer(); err != nil {
			s.status = err.Error()
		}
	case "up", "down", "left", "right":
		m.moveSelection(k)
	case "ctrl+s":
		if err := s.save(); err != nil {
			s.fail(err)
		}
	case "ctrl+o":
		if err := s.loadLatest(); err != nil {
			s.fail(err)
		}
		return m, m.schedule()
	case "ctrl+e":
		if _, err := s.export(); err != nil {
			s.fail(err)
		}
	case "ctrl+t":
		m.theme = nextThemeName(m.theme)
		m.pal = paletteFor(m.theme)
		s.status = "Theme " + m.theme
	}
	return m, nil
}

func (m *model) moveSelection(k string) {
	st := m.sess.state()
	if st.SelectedProvince == nil {
		id := 1
		if len(st.Provinces) > 0 {
			id = st.Provinces[0]
		}
		m.sess.dispatch(engine.SelectProvinceID(id))
		return
	}
	dx, dy := 0, 0
	switch k {
	case "up":
		dy = -1
	case "down":
		dy = 1
	case "left":
		dx = -1
	case "right":
		dx = 1
	}
	m.sess.dispatch(engine.SelectProvinceID(m.sess.world.Step(*st.SelectedProvince, dx, dy)))
}

func (m *model) refreshSaves() {
	m.saves = nil
	if m.sess.saves == nil {
		return
	}
	list, err := m.sess.saves.List(m.sess.ctx, 10)
	if err != nil {
		m.sess.fail(err)
		return
	}
	m.saves = list
	if m.saveIdx >= len(m.saves) {
		m.saveIdx = max(len(m.saves)-1, 0)
	}
}

// handleSavesKey handles the keys of the saves panel and reports whether k was one.
func (m *model) handleSavesKey(k string) bool {
	switch k {
	case "up":
		if m.saveIdx > 0 {
			m.saveIdx--
		}
	case "down":
		if m.saveIdx < len(m.saves)-1 {
			m.saveIdx++
		}
	case "enter":
		if len(m.saves) == 0 {
			return true
		}
		if err := m.sess.loadSave(m.saves[m.saveIdx].ID); err != nil {
			m.sess.fail(err)
		}
	case "X":
		if len(m.saves) == 0 {
			return true
		}
		if err := m.sess.deleteSave(m.saves[m.saveIdx]); err != nil {
			m.sess.fail(err)
		}
		m.refreshSaves()
	default:
		return false
	}
	return true
}

// Layout rendering -----------------------------------------------------------

func (m model) View() string {
	w := m.width
	if w <= 0 {
		w = 110
	}
	st := m.sess.state()
	top := m.renderResourceBar(st, w)
	mapView := m.renderMap(st)
	side := m.renderSidebar(st)
	if st.ActivePanel != nil {
		side = m.renderPanel(st, *st.ActivePanel, w-m.sess.world.Width-6)
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(m.pal.Border).Padding(0, 1)
	body := lipgloss.JoinHorizontal(lipgloss.Top, box.Render(mapView), box.Render(side))
	return lipgloss.JoinVertical(lipgloss.Left, top, body, m.renderBottomBar(w))
}

func (m model) renderResourceBar(st engine.NationState, w int) string {
	clock := "PAUSED"
	if !st.Paused {
		clock = fmt.Sprintf("speed %d", st.Speed)
	}
	net := st.NetMonthly()
	netStyle := lipgloss.NewStyle().Foreground(m.pal.Good)
	if net < 0 {
		netStyle = netStyle.Foreground(m.pal.Danger)
	}
	parts := []string{
		lipgloss.NewStyle().Bold(true).Foreground(m.pal.nationColor(st.PlayerNation)).Render(st.PlayerNation),
		engine.LongDate(st.Date),
		clock,
		"Treasury " + text.Ducats(st.Treasury) + " " + netStyle.Render(fmt.Sprintf("(%+.2f)", net)),
		fmt.Sprintf("Manpower %s/%s", humanize.Comma(int64(st.Manpower)), humanize.Comma(int64(st.MaxManpower))),
		fmt.Sprintf("Stability %+d", st.Stability),
		fmt.Sprintf("ADM %d DIP %d MIL %d", st.AdminPower, st.DiploPower, st.MilPower),
		fmt.Sprintf("Loans %d/%d", st.Loans, engine.MaxLoans),
	}
	if len(st.Wars) > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.pal.Danger).Render("War: "+strings.Join(st.Wars, ",")))
	}
	return lipgloss.NewStyle().Foreground(m.pal.Text).Width(w).Render(strings.Join(parts, " | "))
}

func (m model) renderMap(st engine.NationState) string {
	wm := m.sess.world
	sel := -1
	if st.SelectedProvince != nil {
		sel = *st.SelectedProvince
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(m.pal.Accent).Render(strings.ToUpper(string(st.MapMode))+" MAP") + "\n")
	for y := 0; y < wm.Height; y++ {
		for x := 0; x < wm.Width; x++ {
			p, _ := wm.At(x, y)
			glyph, color := m.cell(st, p)
			style := lipgloss.NewStyle().Foreground(color)
			if p.ID == sel {
				style = style.Reverse(true)
			}
			b.WriteString(style.Render(string(glyph)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) cell(st engine.NationState, p world.Province) (rune, lipgloss.Color) {
	if p.Terrain == engine.TerrainOcean {
		return '~', m.pal.Sea
	}
	switch st.MapMode {
	case engine.MapTerrain:
		return terrainGlyph(p.Terrain), m.pal.Text
	case engine.MapDiplomacy:
		switch {
		case p.Owner == st.PlayerNation:
			return '@', m.pal.Accent
		case st.AtWarWith(p.Owner):
			return 'W', m.pal.Danger
		case st.AlliedWith(p.Owner):
			return 'A', m.pal.Good
		case st.RivalOf(p.Owner):
			return 'R', m.pal.Warning
		default:
			return '.', m.pal.Muted
		}
	case engine.MapDevelop:
		d := p.Development / 3
		if d > 9 {
			d = 9
		}
		return rune('0' + d), m.pal.Good
	default:
		if p.Owner == "" {
			return '.', m.pal.Muted
		}
		return rune(p.Owner[0]), m.pal.nationColor(p.Owner)
	}
}

func (m model) renderSidebar(st engine.NationState) string {
	var b strings.Builder
	b.WriteString(m.title("Province") + "\n")
	if st.SelectedProvince == nil {
		b.WriteString("Use the arrow keys to select.\n")
	} else if p, ok := m.sess.world.Province(*st.SelectedProvince); ok {
		t, _ := engine.TerrainByID(p.Terrain)
		fmt.Fprintf(&b, "%s\nOwner %s\nTerrain %s\nDevelopment %d\nSupply %d  Move x%.2f\n",
			p.Name, p.Owner, t.Name, p.Development, engine.SupplyLimit(p.Terrain, p.Development), engine.MovementCost(p.Terrain, 1))
	}
	b.WriteString("\n" + m.title("Realm") + "\n")
	fmt.Fprintf(&b, "Provinces %d  Dev %d\n", len(st.Provinces), m.sess.world.Development(st.PlayerNation))
	fmt.Fprintf(&b, "Army %d/%d  Navy %d/%d\n", st.ArmySize, st.ForceLimit, st.NavySize, st.NavalLimit)
	fmt.Fprintf(&b, "Tech %d/%d/%d\n", st.AdminTech, st.DiploTech, st.MilTech)
	fmt.Fprintf(&b, "Revolt risk %.0f%%\n", engine.RevoltRisk(m.sess.factions))
	if n := len(m.sess.pending); n > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(m.pal.Warning).Render(fmt.Sprintf("%d event(s) waiting [v]", n)) + "\n")
	}
	return b.String()
}

func (m model) title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent).Render(s)
}

func (m model) renderPanel(st engine.NationState, p engine.Panel, width int) string {
	if width < 30 {
		width = 30
	}
	switch p {
	case engine.PanelDiplomacy:
		return m.renderDiplomacy(st)
	case engine.PanelEconomy:
		return m.renderEconomy(st, width)
	case engine.PanelMilitary:
		return m.renderMilitary(st)
	case engine.PanelFactions:
		return m.renderFactions()
	case engine.PanelCoalition:
		return m.renderCoalition()
	case engine.PanelEvents:
		return m.renderEvents(st, width)
	case engine.PanelTerrain:
		return m.renderTerrain(st)
	case engine.PanelSaves:
		return m.renderSaves()
	default:
		return m.renderHelp()
	}
}

func (m model) renderDiplomacy(st engine.NationState) string {
	var b strings.Builder
	b.WriteString(m.title("Diplomacy") + "\n")
	list := func(label string, tags []string) {
		v := "none"
		if len(tags) > 0 {
			v = strings.Join(tags, ", ")
		}
		fmt.Fprintf(&b, "%-8s %s\n", label, v)
	}
	list("Allies", st.Allies)
	list("Rivals", st.Rivals)
	list("Wars", st.Wars)
	list("Truces", st.Truces)
	list("Subjects", st.Subjects)
	b.WriteString("\n")
	tags := make([]string, 0, len(m.sess.world.Nations))
	for tag := range m.sess.world.Nations {
		if tag != st.PlayerNation {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	for _, tag := range tags {
		n := m.sess.world.Nations[tag]
		ae := m.sess.ledger.Get(tag)
		opinion := n.Relations + float64(engine.AEOpinionImpact(ae))
		fmt.Fprintf(&b, "%s %-10s opinion %+4.0f  AE %s\n", tag, n.Name, opinion,
			lipgloss.NewStyle().Foreground(m.pal.aeColor(ae)).Render(fmt.Sprintf("%.1f", ae)))
	}
	b.WriteString("\n[a] propose alliance  [b] break first alliance")
	return b.String()
}

func (m model) renderEconomy(st engine.NationState, width int) string {
	var b strings.Builder
	b.WriteString(m.title("Economy") + "\n")
	fmt.Fprintf(&b, "Income   %s\nExpenses %s\nInterest %s\nBalance  %s\n", text.Ducats(st.MonthlyIncome),
		text.Ducats(st.MonthlyExpenses), text.Ducats(st.LoanInterest()), text.Ducats(st.NetMonthly()))
	fmt.Fprintf(&b, "Loans %d/%d of %s each\nInflation %.1f%%  Corruption %.1f\n", st.Loans, engine.MaxLoans,
		text.Ducats(st.LoanSize()), st.Inflation, st.Corruption)
	if st.Loans >= engine.MaxLoans {
		b.WriteString(lipgloss.NewStyle().Foreground(m.pal.Danger).Render("Creditors are wary of further loans.") + "\n")
	}
	if m.sess.journal != nil {
		b.WriteString(text.Render(text.LedgerTable(m.sess.ledgerRows), width))
	}
	b.WriteString("[l] take loan  [r] repay loan")
	return b.String()
}

func (m model) renderMilitary(st engine.NationState) string {
	var b strings.Builder
	b.WriteString(m.title("Military") + "\n")
	fmt.Fprintf(&b, "Regiments %d / %d\nShips %d / %d\n", st.ArmySize, st.ForceLimit, st.NavySize, st.NavalLimit)
	fmt.Fprintf(&b, "Manpower %s / %s\n", humanize.Comma(int64(st.Manpower)), humanize.Comma(int64(st.MaxManpower)))
	fmt.Fprintf(&b, "War exhaustion %.1f\nMil tech %d\n", st.WarExhaustion, st.MilTech)
	fmt.Fprintf(&b, "Strength %.0f\n", m.sess.world.PlayerStrength(st))
	b.WriteString("\n[A/D/M] research tech  [w] white peace  [x] conquer selected")
	return b.String()
}

func (m model) renderFactions() string {
	var b strings.Builder
	b.WriteString(m.title("Estates") + "\n")
	for _, f := range m.sess.factions {
		color := m.pal.Good
		if !f.Happy() {
			color = m.pal.Warning
		}
		fmt.Fprintf(&b, "%-18s inf %3.0f  %s\n", f.Name, f.Influence,
			lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("happy %3.0f", f.Happiness)))
		for _, d := range f.Demands {
			fmt.Fprintf(&b, "  - %s (%d months)\n", d.Description, d.ExpiresIn)
		}
	}
	fx := engine.CalculateFactionEffects(m.sess.factions)
	keys := make([]string, 0, len(fx))
	for k := range fx {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	b.WriteString("\nNet effects\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %-22s %+.2f\n", k, fx[engine.StatKey(k)])
	}
	fmt.Fprintf(&b, "Revolt risk %.0f%%\n", engine.RevoltRisk(m.sess.factions))
	return b.String()
}

func (m model) renderCoalition() string {
	members, strength, outcome := m.sess.coalition()
	var b strings.Builder
	b.WriteString(m.title("Coalition") + "\n")
	if len(members) == 0 {
		b.WriteString("No coalition has formed.\n")
	}
	for _, c := range members {
		fmt.Fprintf(&b, "%s %-10s AE %5.1f %-9s strength %.0f\n", c.Tag, c.Name, c.AE, engine.AESeverity(c.AE), c.Strength)
	}
	fmt.Fprintf(&b, "\nCoalition strength %.0f vs ours %.0f\n", strength, m.sess.world.PlayerStrength(m.sess.state()))
	fmt.Fprintf(&b, "Win chance %d%%\n%s\n", outcome.WinChance, outcome.Recommendation)
	if total := m.sess.ledger.Total(); total > 0 {
		fmt.Fprintf(&b, "Total AE %.1f\n", total)
	}
	return b.String()
}

func (m model) renderEvents(st engine.NationState, width int) string {
	if len(m.sess.pending) > 0 {
		md, err := m.sess.narrator.Event(m.sess.ctx, m.sess.pending[0], st)
		if err != nil {
			return err.Error()
		}
		return text.Render(md, width) + "Press 1-9 to choose."
	}
	var b strings.Builder
	if m.sess.report != "" {
		b.WriteString(text.Render(m.sess.report, width))
	} else {
		b.WriteString(m.title("Events") + "\n")
	}
	if len(m.sess.recent) == 0 {
		b.WriteString("Nothing has happened yet.\n")
		return b.String()
	}
	b.WriteString(m.title("Chronicle") + "\n")
	for _, e := range m.sess.recent {
		fmt.Fprintf(&b, "%s %s: %s\n", e.Date, e.Title, e.Option)
	}
	return b.String()
}

func (m model) renderTerrain(st engine.NationState) string {
	var b strings.Builder
	b.WriteString(m.title("Terrain") + "\n")
	for _, t := range engine.Terrains() {
		fmt.Fprintf(&b, "%c %-11s move x%.2f  def +%d  supply %2d  cav %+d%%\n", terrainGlyph(t.ID), t.Name,
			t.MovementCost, t.DefenderBonus, t.SupplyLimit, engine.CombatModifier(t.ID, engine.UnitCavalry))
	}
	return b.String()
}

func (m model) renderSaves() string {
	var b strings.Builder
	b.WriteString(m.title("Saves") + "\n")
	if m.sess.saves == nil {
		b.WriteString("Offline: saves disabled.\n")
		return b.String()
	}
	if len(m.saves) == 0 {
		b.WriteString("No saves yet.\n")
	}
	for i, sv := range m.saves {
		cursor := "  "
		if i == m.saveIdx {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%s  %s  (%s)\n", cursor, sv.Name, sv.GameDate, humanize.Time(sv.CreatedAt))
	}
	b.WriteString("\n[up/down] pick  [enter] load  [X] delete\n[ctrl+s] save  [ctrl+o] load latest  [ctrl+e] export")
	return b.String()
}

func (m model) renderHelp() string {
	return m.title("Keys") + "\n" + strings.Join([]string{
		"space  pause / resume",
		"1-5    speed, +/- adjust",
		"d e m f c v t p  panels, esc close",
		"tab    cycle map mode",
		"arrows select province",
		"l / r  take / repay loan",
		"a / b  propose / break alliance (diplomacy)",
		"w      end first war",
		"x      conquer selected province",
		"A D M  research tech",
		"ctrl+s save, ctrl+o load latest, ctrl+e export",
		"saves panel: enter load, X delete",
		"ctrl+t cycle theme",
		"q      quit",
	}, "\n")
}

func (m model) renderBottomBar(w int) string {
	hints := "[space] pause [1-5] speed [d/e/m/f/c/v/t] panels [tab] map [?] help [q] quit"
	line := m.sess.status
	if w > 10 {
		line = ansi.Truncate(line, w, "...")
	}
	return lipgloss.NewStyle().Foreground(m.pal.Muted).Render(hints + "\n" + line)
}
