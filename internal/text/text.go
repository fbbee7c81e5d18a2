package text

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/journal"
)

// Narrator is the interface used by the game to render prose.
type Narrator interface {
	Event(ctx context.Context, ev engine.Event, s engine.NationState) (string, error)
	Report(ctx context.Context, prev, next engine.NationState, fired []engine.Event) (string, error)
}

// templateNarrator is a deterministic, offline narrator.
type templateNarrator struct{}

func NewTemplateNarrator() Narrator { return &templateNarrator{} }

func (t *templateNarrator) Event(ctx context.Context, ev engine.Event, s engine.NationState) (string, error) {
	if ev.ID == "" {
		return "", fmt.Errorf("event without id")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", ev.Title)
	fmt.Fprintf(&b, "*%s, %s*\n\n", engine.LongDate(s.Date), ev.Category)
	b.WriteString(ev.Description + "\n\n")
	b.WriteString("### OPTIONS\n")
	for i, o := range ev.Options {
		fmt.Fprintf(&b, "%d. %s", i+1, o.Label)
		if fx := describeEffects(o.Effects); fx != "" {
			fmt.Fprintf(&b, " (%s)", fx)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (t *templateNarrator) Report(ctx context.Context, prev, next engine.NationState, fired []engine.Event) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "## Report for %s\n\n", engine.LongDate(next.Date))
	b.WriteString("| | Before | After |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Treasury | %s | %s |\n", Ducats(prev.Treasury), Ducats(next.Treasury))
	fmt.Fprintf(&b, "| Manpower | %s | %s |\n", humanize.Comma(int64(prev.Manpower)), humanize.Comma(int64(next.Manpower)))
	fmt.Fprintf(&b, "| Stability | %+d | %+d |\n", prev.Stability, next.Stability)
	fmt.Fprintf(&b, "| Loans | %d | %d |\n", prev.Loans, next.Loans)
	b.WriteString("\n")
	switch net := next.NetMonthly(); {
	case net < 0:
		fmt.Fprintf(&b, "The treasury bleeds %s a month.\n", Ducats(-net))
	case net > 0:
		fmt.Fprintf(&b, "The treasury gains %s a month.\n", Ducats(net))
	default:
		b.WriteString("The treasury holds steady.\n")
	}
	if len(next.Wars) > 0 {
		fmt.Fprintf(&b, "At war with %s.\n", strings.Join(next.Wars, ", "))
	}
	if len(fired) > 0 {
		b.WriteString("\n### EVENTS\n")
		for _, ev := range fired {
			fmt.Fprintf(&b, "- %s\n", ev.Title)
		}
	}
	return b.String(), nil
}

// LedgerTable renders journal rows as a markdown table.
func LedgerTable(rows []journal.LedgerEntry) string {
	if len(rows) == 0 {
		return "_No months recorded yet._\n"
	}
	var b strings.Builder
	b.WriteString("| Date | Treasury | Income | Expenses | Interest | Manpower |\n|---|---:|---:|---:|---:|---:|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n", r.Date, Ducats(r.Treasury), Ducats(r.Income),
			Ducats(r.Expenses), Ducats(r.Interest), humanize.Comma(int64(r.Manpower)))
	}
	return b.String()
}

// Ducats formats an amount with thousands separators and two decimals.
func Ducats(v float64) string {
	return humanize.FormatFloat("#,###.##", v) + "d"
}

func describeEffects(effects []engine.Action) string {
	parts := make([]string, 0, len(effects))
	for _, a := range effects {
		switch a := a.(type) {
		case engine.UpdateTreasury:
			parts = append(parts, fmt.Sprintf("%+.0f ducats", a.Delta))
		case engine.UpdateManpower:
			parts = append(parts, fmt.Sprintf("%+d manpower", a.Delta))
		case engine.UpdateStability:
			parts = append(parts, fmt.Sprintf("%+d stability", a.Delta))
		case engine.UpdatePower:
			parts = append(parts, fmt.Sprintf("%+d %s power", a.Delta, a.Kind))
		case engine.AddWar:
			parts = append(parts, "war with "+a.Tag)
		case engine.AddAlly:
			parts = append(parts, "alliance with "+a.Tag)
		case engine.RemoveAlly:
			parts = append(parts, "break with "+a.Tag)
		case engine.TakeLoan:
			parts = append(parts, "loan")
		default:
			parts = append(parts, string(a.Type()))
		}
	}
	return strings.Join(parts, ", ")
}

var (
	renderMu  sync.Mutex
	renderers = map[int]*glamour.TermRenderer{}
)

// renderer returns the cached renderer for width, building it on first use.
// The caller must hold renderMu.
func renderer(width int) (*glamour.TermRenderer, error) {
	if r, ok := renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	renderers[width] = r
	return r, nil
}

// Render turns markdown into terminal output wrapped at width. On renderer failure the
// markdown is returned unchanged.
func Render(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderMu.Lock()
	defer renderMu.Unlock()
	r, err := renderer(width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
