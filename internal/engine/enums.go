package engine

// String backed enums for DB and save-file interoperability.

type PowerKind string
type Ideology string
type StatKey string
type AEAction string
type UnitCategory string
type Panel string
type MapMode string
type EventCategory string
type Comparator string
type FactionAction string

const (
	PowerAdmin PowerKind = "admin"
	PowerDiplo PowerKind = "diplo"
	PowerMil   PowerKind = "mil"
)

var AllPowerKinds = []PowerKind{PowerAdmin, PowerDiplo, PowerMil}

const (
	IdeologyMonarchist Ideology = "monarchist"
	IdeologyClerical   Ideology = "clerical"
	IdeologyMercantile Ideology = "mercantile"
	IdeologyMilitarist Ideology = "militarist"
	IdeologyReformist  Ideology = "reformist"
	IdeologyPopulist   Ideology = "populist"
)

var AllIdeologies = []Ideology{IdeologyMonarchist, IdeologyClerical, IdeologyMercantile, IdeologyMilitarist, IdeologyReformist, IdeologyPopulist}

const (
	StatTaxIncome       StatKey = "tax_income"
	StatProduction      StatKey = "production"
	StatTradeEfficiency StatKey = "trade_efficiency"
	StatManpower        StatKey = "manpower"
	StatArmyMorale      StatKey = "army_morale"
	StatStability       StatKey = "stability"
	StatLegitimacy      StatKey = "legitimacy"
	StatPrestige        StatKey = "prestige"
	StatTechCost        StatKey = "tech_cost"
	StatUnrest          StatKey = "unrest"
	StatCorruption      StatKey = "corruption"
	StatDiplomaticRep   StatKey = "diplomatic_reputation"
)

var AllStatKeys = []StatKey{StatTaxIncome, StatProduction, StatTradeEfficiency, StatManpower, StatArmyMorale, StatStability, StatLegitimacy, StatPrestige, StatTechCost, StatUnrest, StatCorruption, StatDiplomaticRep}

const (
	AEConquest      AEAction = "conquest"
	AEAnnexation    AEAction = "annexation"
	AEVassalization AEAction = "vassalization"
	AEClaim         AEAction = "claim"
	AECoalitionWar  AEAction = "coalition_war"
	AENoCBWar       AEAction = "no_cb_war"
)

var AllAEActions = []AEAction{AEConquest, AEAnnexation, AEVassalization, AEClaim, AECoalitionWar, AENoCBWar}

const (
	UnitInfantry  UnitCategory = "infantry"
	UnitCavalry   UnitCategory = "cavalry"
	UnitArtillery UnitCategory = "artillery"
)

var AllUnitCategories = []UnitCategory{UnitInfantry, UnitCavalry, UnitArtillery}

const (
	PanelDiplomacy Panel = "diplomacy"
	PanelEconomy   Panel = "economy"
	PanelMilitary  Panel = "military"
	PanelFactions  Panel = "factions"
	PanelCoalition Panel = "coalition"
	PanelEvents    Panel = "events"
	PanelTerrain   Panel = "terrain"
	PanelSaves     Panel = "saves"
	PanelHelp      Panel = "help"
)

var AllPanels = []Panel{PanelDiplomacy, PanelEconomy, PanelMilitary, PanelFactions, PanelCoalition, PanelEvents, PanelTerrain, PanelSaves, PanelHelp}

const (
	MapPolitical MapMode = "political"
	MapTerrain   MapMode = "terrain"
	MapDiplomacy MapMode = "diplomatic"
	MapDevelop   MapMode = "development"
)

var AllMapModes = []MapMode{MapPolitical, MapTerrain, MapDiplomacy, MapDevelop}

const (
	CategoryEconomic   EventCategory = "economic"
	CategoryPolitical  EventCategory = "political"
	CategoryMilitary   EventCategory = "military"
	CategoryReligious  EventCategory = "religious"
	CategoryDiplomatic EventCategory = "diplomatic"
	CategoryDisaster   EventCategory = "disaster"
)

var AllEventCategories = []EventCategory{CategoryEconomic, CategoryPolitical, CategoryMilitary, CategoryReligious, CategoryDiplomatic, CategoryDisaster}

const (
	CmpGTE Comparator = ">="
	CmpLTE Comparator = "<="
	CmpGT  Comparator = ">"
	CmpLT  Comparator = "<"
	CmpEQ  Comparator = "=="
)

var AllComparators = []Comparator{CmpGTE, CmpLTE, CmpGT, CmpLT, CmpEQ}

const (
	ActRaiseTaxes       FactionAction = "raise_taxes"
	ActLowerTaxes       FactionAction = "lower_taxes"
	ActDeclareWar       FactionAction = "declare_war"
	ActMakePeace        FactionAction = "make_peace"
	ActBuildChurch      FactionAction = "build_church"
	ActBuildMarketplace FactionAction = "build_marketplace"
	ActRecruitArmy      FactionAction = "recruit_army"
	ActPassReform       FactionAction = "pass_reform"
	ActGrantPrivileges  FactionAction = "grant_privileges"
)

var AllFactionActions = []FactionAction{ActRaiseTaxes, ActLowerTaxes, ActDeclareWar, ActMakePeace, ActBuildChurch, ActBuildMarketplace, ActRecruitArmy, ActPassReform, ActGrantPrivileges}

// Generic helpers
func contains[T ~string](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (p PowerKind) Validate() bool     { return contains(AllPowerKinds, p) }
func (i Ideology) Validate() bool      { return contains(AllIdeologies, i) }
func (s StatKey) Validate() bool       { return contains(AllStatKeys, s) }
func (a AEAction) Validate() bool      { return contains(AllAEActions, a) }
func (u UnitCategory) Validate() bool  { return contains(AllUnitCategories, u) }
func (p Panel) Validate() bool         { return contains(AllPanels, p) }
func (m MapMode) Validate() bool       { return contains(AllMapModes, m) }
func (c EventCategory) Validate() bool { return contains(AllEventCategories, c) }
func (c Comparator) Validate() bool    { return contains(AllComparators, c) }
func (a FactionAction) Validate() bool { return contains(AllFactionActions, a) }

// NextMapMode cycles through map modes in declaration order.
func NextMapMode(cur MapMode) MapMode {
	for i, m := range AllMapModes {
		if m == cur {
			return AllMapModes[(i+1)%len(AllMapModes)]
		}
	}
	return MapPolitical
}
