package engine

import "encoding/json"

// ActionType tags each reducer action.
type ActionType string

const (
	ActionSetDate         ActionType = "SET_DATE"
	ActionSetSpeed        ActionType = "SET_SPEED"
	ActionTogglePause     ActionType = "TOGGLE_PAUSE"
	ActionSetPlayer       ActionType = "SET_PLAYER_NATION"
	ActionUpdateTreasury  ActionType = "UPDATE_TREASURY"
	ActionUpdateManpower  ActionType = "UPDATE_MANPOWER"
	ActionUpdateStability ActionType = "UPDATE_STABILITY"
	ActionUpdatePower     ActionType = "UPDATE_POWER"
	ActionResearchTech    ActionType = "RESEARCH_TECH"
	ActionSelectProvince  ActionType = "SELECT_PROVINCE"
	ActionSelectArmy      ActionType = "SELECT_ARMY"
	ActionSetActivePanel  ActionType = "SET_ACTIVE_PANEL"
	ActionSetMapMode      ActionType = "SET_MAP_MODE"
	ActionAddAlly         ActionType = "ADD_ALLY"
	ActionRemoveAlly      ActionType = "REMOVE_ALLY"
	ActionAddWar          ActionType = "ADD_WAR"
	ActionEndWar          ActionType = "END_WAR"
	ActionTakeLoan        ActionType = "TAKE_LOAN"
	ActionRepayLoan       ActionType = "REPAY_LOAN"
	ActionMonthTick       ActionType = "MONTH_TICK"
	ActionLoadGame        ActionType = "LOAD_GAME"
	ActionAnnexProvince   ActionType = "ANNEX_PROVINCE"
)

// Action is a closed set of state transitions. Only types in this package implement it.
type Action interface {
	Type() ActionType
	isAction()
}

type SetDate struct{ Date string }
type SetSpeed struct{ Speed int }
type TogglePause struct{}
type SetPlayerNation struct{ Tag string }
type UpdateTreasury struct{ Delta float64 }
type UpdateManpower struct{ Delta int }
type UpdateStability struct{ Delta int }

type UpdatePower struct {
	Kind  PowerKind
	Delta int
}

type ResearchTech struct{ Kind PowerKind }

// SelectProvince clears the selection when ID is nil.
type SelectProvince struct{ ID *int }

// SelectArmy clears the selection when ID is nil.
type SelectArmy struct{ ID *string }

// SetActivePanel closes the open panel when Panel is nil.
type SetActivePanel struct{ Panel *Panel }

type SetMapMode struct{ Mode MapMode }
type AddAlly struct{ Tag string }
type RemoveAlly struct{ Tag string }
type AddWar struct{ Tag string }
type EndWar struct{ Tag string }
type TakeLoan struct{}
type RepayLoan struct{}
type MonthTick struct{}

// LoadGame overlays a (possibly partial) JSON state document onto the current state.
type LoadGame struct{ Data json.RawMessage }

// AnnexProvince adds a province id to the player's holdings. Known ids are ignored.
type AnnexProvince struct{ ID int }

func (SetDate) Type() ActionType         { return ActionSetDate }
func (SetSpeed) Type() ActionType        { return ActionSetSpeed }
func (TogglePause) Type() ActionType     { return ActionTogglePause }
func (SetPlayerNation) Type() ActionType { return ActionSetPlayer }
func (UpdateTreasury) Type() ActionType  { return ActionUpdateTreasury }
func (UpdateManpower) Type() ActionType  { return ActionUpdateManpower }
func (UpdateStability) Type() ActionType { return ActionUpdateStability }
func (UpdatePower) Type() ActionType     { return ActionUpdatePower }
func (ResearchTech) Type() ActionType    { return ActionResearchTech }
func (SelectProvince) Type() ActionType  { return ActionSelectProvince }
func (SelectArmy) Type() ActionType      { return ActionSelectArmy }
func (SetActivePanel) Type() ActionType  { return ActionSetActivePanel }
func (SetMapMode) Type() ActionType      { return ActionSetMapMode }
func (AddAlly) Type() ActionType         { return ActionAddAlly }
func (RemoveAlly) Type() ActionType      { return ActionRemoveAlly }
func (AddWar) Type() ActionType          { return ActionAddWar }
func (EndWar) Type() ActionType          { return ActionEndWar }
func (TakeLoan) Type() ActionType        { return ActionTakeLoan }
func (RepayLoan) Type() ActionType       { return ActionRepayLoan }
func (MonthTick) Type() ActionType       { return ActionMonthTick }
func (LoadGame) Type() ActionType        { return ActionLoadGame }
func (AnnexProvince) Type() ActionType   { return ActionAnnexProvince }

func (SetDate) isAction()         {}
func (SetSpeed) isAction()        {}
func (TogglePause) isAction()     {}
func (SetPlayerNation) isAction() {}
func (UpdateTreasury) isAction()  {}
func (UpdateManpower) isAction()  {}
func (UpdateStability) isAction() {}
func (UpdatePower) isAction()     {}
func (ResearchTech) isAction()    {}
func (SelectProvince) isAction()  {}
func (SelectArmy) isAction()      {}
func (SetActivePanel) isAction()  {}
func (SetMapMode) isAction()      {}
func (AddAlly) isAction()         {}
func (RemoveAlly) isAction()      {}
func (AddWar) isAction()          {}
func (EndWar) isAction()          {}
func (TakeLoan) isAction()        {}
func (RepayLoan) isAction()       {}
func (MonthTick) isAction()       {}
func (LoadGame) isAction()        {}
func (AnnexProvince) isAction()   {}

// OpenPanel is shorthand for SetActivePanel with a non-nil panel.
func OpenPanel(p Panel) SetActivePanel { return SetActivePanel{Panel: &p} }

// ClosePanel is shorthand for SetActivePanel{nil}.
func ClosePanel() SetActivePanel { return SetActivePanel{} }

// SelectProvinceID is shorthand for selecting a concrete province.
func SelectProvinceID(id int) SelectProvince { return SelectProvince{ID: &id} }
