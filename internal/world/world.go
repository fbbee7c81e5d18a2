// Package world builds the province map the shell draws and the neighbours
// whose opinion of the player drives coalitions.
package world

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/util"
)

// DistanceScale converts grid cells to the distance units used by AE dampening.
const DistanceScale = 60.0

// Province is one cell of the map.
type Province struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	X           int              `json:"x"`
	Y           int              `json:"y"`
	Terrain     engine.TerrainID `json:"terrain"`
	Development int              `json:"development"`
	Owner       string           `json:"owner"`
}

// Nation is a country on the map other than, or including, the player.
type Nation struct {
	Tag          string
	Name         string
	Religion     string
	CultureGroup string
	Strength     float64
	Relations    float64 // opinion of the player, -200..200
	capX, capY   float64 // capital as a fraction of map size
}

var nationTable = []Nation{
	{Tag: "FRA", Name: "France", Religion: "catholic", CultureGroup: "french", Strength: 100, capX: 0.35, capY: 0.45},
	{Tag: "ENG", Name: "England", Religion: "catholic", CultureGroup: "british", Strength: 70, Relations: -80, capX: 0.2, capY: 0.15},
	{Tag: "BUR", Name: "Burgundy", Religion: "catholic", CultureGroup: "french", Strength: 55, Relations: -20, capX: 0.5, capY: 0.3},
	{Tag: "CAS", Name: "Castile", Religion: "catholic", CultureGroup: "iberian", Strength: 60, Relations: 40, capX: 0.2, capY: 0.85},
	{Tag: "POR", Name: "Portugal", Religion: "catholic", CultureGroup: "iberian", Strength: 25, Relations: 10, capX: 0.05, capY: 0.8},
	{Tag: "AUS", Name: "Austria", Religion: "catholic", CultureGroup: "germanic", Strength: 65, Relations: -10, capX: 0.75, capY: 0.4},
	{Tag: "MOS", Name: "Muscovy", Religion: "orthodox", CultureGroup: "east_slavic", Strength: 50, Relations: 0, capX: 0.95, capY: 0.1},
	{Tag: "TUR", Name: "Ottomans", Religion: "sunni", CultureGroup: "turkish", Strength: 110, Relations: -60, capX: 0.9, capY: 0.85},
}

// Map is the generated world.
type Map struct {
	Width     int
	Height    int
	Provinces []Province
	Nations   map[string]Nation
}

// Generate lays out a width x height grid using layered simplex noise for terrain and
// assigns each land province to the nearest capital.
func Generate(seed int64, width, height int) *Map {
	elevNoise := opensimplex.NewNormalized(seed)
	wetNoise := opensimplex.NewNormalized(seed + 1)
	devNoise := opensimplex.NewNormalized(seed + 2)

	m := &Map{Width: width, Height: height, Nations: make(map[string]Nation, len(nationTable))}
	for _, n := range nationTable {
		m.Nations[n.Tag] = n
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fx, fy := float64(x), float64(y)
			elev := octaveNoise(elevNoise, fx, fy, 4, 0.12, 0.5)
			// Pull the border down so the continent is ringed by sea.
			elev -= edgeFalloff(x, y, width, height)
			wet := octaveNoise(wetNoise, fx, fy, 3, 0.1, 0.5)
			p := Province{
				ID:      y*width + x + 1,
				X:       x,
				Y:       y,
				Terrain: terrainFor(elev, wet),
			}
			if p.Terrain != engine.TerrainOcean {
				p.Development = 3 + int(math.Round(octaveNoise(devNoise, fx, fy, 2, 0.2, 0.5)*17))
				p.Owner = m.nearestCapital(x, y)
				p.Name = fmt.Sprintf("%s %d", p.Owner, p.ID)
			} else {
				p.Name = fmt.Sprintf("Sea %d", p.ID)
			}
			m.Provinces = append(m.Provinces, p)
		}
	}
	m.markCoasts()
	return m
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func edgeFalloff(x, y, w, h int) float64 {
	dx := math.Min(float64(x), float64(w-1-x))
	dy := math.Min(float64(y), float64(h-1-y))
	switch math.Min(dx, dy) {
	case 0:
		return 1
	case 1:
		return 0.2
	}
	return 0
}

func terrainFor(elev, wet float64) engine.TerrainID {
	switch {
	case elev < 0.3:
		return engine.TerrainOcean
	case elev > 0.78:
		return engine.TerrainMountains
	case elev > 0.66:
		return engine.TerrainHills
	}
	switch {
	case wet > 0.72:
		return engine.TerrainMarsh
	case wet > 0.58:
		return engine.TerrainForest
	case wet > 0.5:
		return engine.TerrainWoods
	case wet < 0.25:
		return engine.TerrainDesert
	case wet < 0.35:
		return engine.TerrainSteppe
	case elev < 0.45:
		return engine.TerrainFarmlands
	default:
		return engine.TerrainGrasslands
	}
}

// markCoasts turns flat land touching the sea into coastline.
func (m *Map) markCoasts() {
	for i := range m.Provinces {
		p := &m.Provinces[i]
		if p.Terrain != engine.TerrainGrasslands && p.Terrain != engine.TerrainFarmlands {
			continue
		}
		for _, n := range m.Neighbours(p.ID) {
			if n.Terrain == engine.TerrainOcean {
				p.Terrain = engine.TerrainCoastline
				break
			}
		}
	}
}

func (m *Map) nearestCapital(x, y int) string {
	best, bestDist := "", math.Inf(1)
	for _, n := range nationTable {
		cx, cy := n.capX*float64(m.Width-1), n.capY*float64(m.Height-1)
		d := math.Hypot(float64(x)-cx, float64(y)-cy)
		if d < bestDist {
			best, bestDist = n.Tag, d
		}
	}
	return best
}

// Province returns the province with id.
func (m *Map) Province(id int) (Province, bool) {
	if id < 1 || id > len(m.Provinces) {
		return Province{}, false
	}
	return m.Provinces[id-1], true
}

// At returns the province at grid coordinates.
func (m *Map) At(x, y int) (Province, bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return Province{}, false
	}
	return m.Provinces[y*m.Width+x], true
}

// Neighbours returns the orthogonally adjacent provinces.
func (m *Map) Neighbours(id int) []Province {
	p, ok := m.Province(id)
	if !ok {
		return nil
	}
	var out []Province
	for _, d := range [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		if n, ok := m.At(p.X+d[0], p.Y+d[1]); ok {
			out = append(out, n)
		}
	}
	return out
}

// OwnedBy lists province ids held by tag in id order.
func (m *Map) OwnedBy(tag string) []int {
	var out []int
	for _, p := range m.Provinces {
		if p.Owner == tag {
			out = append(out, p.ID)
		}
	}
	return out
}

// Development sums development held by tag.
func (m *Map) Development(tag string) int {
	total := 0
	for _, p := range m.Provinces {
		if p.Owner == tag {
			total += p.Development
		}
	}
	return total
}

// CapitalDistance is the AE distance between two nations' capitals.
func (m *Map) CapitalDistance(a, b string) float64 {
	na, okA := m.Nations[a]
	nb, okB := m.Nations[b]
	if !okA || !okB {
		return 0
	}
	dx := (na.capX - nb.capX) * float64(m.Width-1)
	dy := (na.capY - nb.capY) * float64(m.Height-1)
	return math.Hypot(dx, dy) * DistanceScale
}

// Step moves from province id one cell in direction (dx, dy), staying put at the edge.
func (m *Map) Step(id, dx, dy int) int {
	p, ok := m.Province(id)
	if !ok {
		return 1
	}
	if n, ok := m.At(p.X+dx, p.Y+dy); ok {
		return n.ID
	}
	return id
}

// NewCampaign builds the start state and map described by t.
func NewCampaign(t util.Tuning) (engine.NationState, *Map) {
	m := Generate(t.WorldSeed, t.MapWidth, t.MapHeight)
	s := engine.DefaultNationState()
	s.Date = t.StartDate
	s.Treasury = t.StartTreasury
	s.Manpower = t.StartManpower
	s.Rivals = append([]string{}, t.Rivals...)
	if _, ok := m.Nations[t.PlayerTag]; ok {
		s.PlayerNation = t.PlayerTag
	}
	s.Provinces = m.OwnedBy(s.PlayerNation)
	// Round-trip through LoadGame so tuning values get the same clamps a save file does.
	doc, _ := json.Marshal(s)
	return engine.Reduce(engine.DefaultNationState(), engine.LoadGame{Data: doc}), m
}

// Conquest is the outcome of taking one province.
type Conquest struct {
	Province Province
	From     string
	Impact   map[string]float64 // AE recorded by each observer
}

// Conquer transfers province id to player and computes the AE every other nation records.
// It fails when the province is sea, already owned by the player, or unknown.
func (m *Map) Conquer(id int, player string) (Conquest, error) {
	p, ok := m.Province(id)
	if !ok {
		return Conquest{}, fmt.Errorf("no province %d", id)
	}
	if p.Terrain == engine.TerrainOcean {
		return Conquest{}, fmt.Errorf("%s is open sea", p.Name)
	}
	if p.Owner == player {
		return Conquest{}, fmt.Errorf("%s is already ours", p.Name)
	}
	actor, ok := m.Nations[player]
	if !ok {
		return Conquest{}, fmt.Errorf("unknown nation %s", player)
	}
	out := Conquest{Province: p, From: p.Owner, Impact: map[string]float64{}}
	for tag, n := range m.Nations {
		if tag == player {
			continue
		}
		ae := engine.CalculateAEImpact(float64(p.Development), engine.AEConquest, engine.AEModifiers{
			SameReligion:     n.Religion == actor.Religion,
			SameCultureGroup: n.CultureGroup == actor.CultureGroup,
			Distance:         m.CapitalDistance(tag, player),
		})
		if ae > 0 {
			out.Impact[tag] = ae
		}
	}
	m.Provinces[id-1].Owner = player
	return out, nil
}

// CoalitionCandidates turns the ledger into coalition members as seen from state.
func (m *Map) CoalitionCandidates(ledger engine.AELedger, state engine.NationState) []engine.CoalitionMember {
	tags := make([]string, 0, len(m.Nations))
	for tag := range m.Nations {
		if tag != state.PlayerNation {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	out := make([]engine.CoalitionMember, 0, len(tags))
	for _, tag := range tags {
		n := m.Nations[tag]
		ae := ledger.Get(tag)
		out = append(out, engine.CoalitionMember{
			Tag:       tag,
			Name:      n.Name,
			AE:        ae,
			Relations: n.Relations + float64(engine.AEOpinionImpact(ae)),
			IsRival:   state.RivalOf(tag),
			IsAlly:    state.AlliedWith(tag),
			Strength:  n.Strength,
		})
	}
	return out
}

// PlayerStrength scales the player's nominal strength by army fill.
func (m *Map) PlayerStrength(state engine.NationState) float64 {
	n, ok := m.Nations[state.PlayerNation]
	if !ok || state.ForceLimit <= 0 {
		return 0
	}
	return n.Strength * float64(state.ArmySize) / float64(state.ForceLimit)
}

// Claim marks provinces ids as owned by tag, as a restored save requires.
func (m *Map) Claim(tag string, ids []int) {
	for _, id := range ids {
		if id >= 1 && id <= len(m.Provinces) && m.Provinces[id-1].Terrain != engine.TerrainOcean {
			m.Provinces[id-1].Owner = tag
		}
	}
}
