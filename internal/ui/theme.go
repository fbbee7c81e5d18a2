package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
)

type palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Good    lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
	Sea     lipgloss.Color
	// Nations cycles through distinct colours for the political map.
	Nations []lipgloss.Color
}

var palettes = map[string]palette{
	"catppuccin": {
		Text:    lipgloss.Color("#cdd6f4"),
		Muted:   lipgloss.Color("#a6adc8"),
		Accent:  lipgloss.Color("#cba6f7"),
		Border:  lipgloss.Color("#585b70"),
		Good:    lipgloss.Color("#94e2d5"),
		Warning: lipgloss.Color("#f9e2af"),
		Danger:  lipgloss.Color("#f38ba8"),
		Sea:     lipgloss.Color("#89b4fa"),
		Nations: []lipgloss.Color{"#89b4fa", "#f38ba8", "#a6e3a1", "#fab387", "#f9e2af", "#cba6f7", "#94e2d5", "#eba0ac"},
	},
	"dracula": {
		Text:    lipgloss.Color("#f8f8f2"),
		Muted:   lipgloss.Color("#6272a4"),
		Accent:  lipgloss.Color("#ff79c6"),
		Border:  lipgloss.Color("#44475a"),
		Good:    lipgloss.Color("#50fa7b"),
		Warning: lipgloss.Color("#f1fa8c"),
		Danger:  lipgloss.Color("#ff5555"),
		Sea:     lipgloss.Color("#8be9fd"),
		Nations: []lipgloss.Color{"#8be9fd", "#ff5555", "#50fa7b", "#ffb86c", "#f1fa8c", "#bd93f9", "#ff79c6", "#6272a4"},
	},
	"gruvbox": {
		Text:    lipgloss.Color("#ebdbb2"),
		Muted:   lipgloss.Color("#a89984"),
		Accent:  lipgloss.Color("#fabd2f"),
		Border:  lipgloss.Color("#665c54"),
		Good:    lipgloss.Color("#b8bb26"),
		Warning: lipgloss.Color("#fe8019"),
		Danger:  lipgloss.Color("#fb4934"),
		Sea:     lipgloss.Color("#83a598"),
		Nations: []lipgloss.Color{"#83a598", "#fb4934", "#b8bb26", "#fe8019", "#fabd2f", "#d3869b", "#8ec07c", "#928374"},
	},
	"solarized_dark": {
		Text:    lipgloss.Color("#fdf6e3"),
		Muted:   lipgloss.Color("#93a1a1"),
		Accent:  lipgloss.Color("#b58900"),
		Border:  lipgloss.Color("#586e75"),
		Good:    lipgloss.Color("#859900"),
		Warning: lipgloss.Color("#cb4b16"),
		Danger:  lipgloss.Color("#dc322f"),
		Sea:     lipgloss.Color("#268bd2"),
		Nations: []lipgloss.Color{"#268bd2", "#dc322f", "#859900", "#cb4b16", "#b58900", "#6c71c4", "#2aa198", "#d33682"},
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["catppuccin"]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string) string {
	names := themeNames()
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// nationColor gives each tag a stable colour from the palette.
func (p palette) nationColor(tag string) lipgloss.Color {
	if len(p.Nations) == 0 || tag == "" {
		return p.Muted
	}
	h := 0
	for _, r := range tag {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return p.Nations[h%len(p.Nations)]
}

// aeColor maps the engine.AEColor ladder onto the palette.
func (p palette) aeColor(ae float64) lipgloss.Color {
	switch engine.AEColor(ae) {
	case "crimson", "red":
		return p.Danger
	case "orange":
		return p.Warning
	case "yellow":
		return p.Accent
	case "green":
		return p.Good
	default:
		return p.Muted
	}
}

var terrainGlyphs = map[engine.TerrainID]rune{
	engine.TerrainGrasslands: '.',
	engine.TerrainFarmlands:  '"',
	engine.TerrainSteppe:     ',',
	engine.TerrainForest:     'T',
	engine.TerrainWoods:      't',
	engine.TerrainHills:      'n',
	engine.TerrainMountains:  '^',
	engine.TerrainMarsh:      '%',
	engine.TerrainJungle:     '&',
	engine.TerrainDesert:     ':',
	engine.TerrainCoastline:  'c',
	engine.TerrainOcean:      '~',
}

func terrainGlyph(id engine.TerrainID) rune {
	if g, ok := terrainGlyphs[id]; ok {
		return g
	}
	return '?'
}
