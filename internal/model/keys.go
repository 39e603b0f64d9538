package model

// KeyAction is a logical launcher action that key chords are bound to.
type KeyAction string

const (
	ActionExec      KeyAction = "exec"
	ActionExit      KeyAction = "exit"
	ActionMoveNext  KeyAction = "move_next"
	ActionMovePrev  KeyAction = "move_prev"
	ActionJumpNext  KeyAction = "jump_next"
	ActionJumpPrev  KeyAction = "jump_prev"
	ActionOpenMenu  KeyAction = "open_menu"
	ActionCloseMenu KeyAction = "close_menu"
)

// KeyActions lists every bindable action in display order.
var KeyActions = []KeyAction{
	ActionExec,
	ActionExit,
	ActionMoveNext,
	ActionMovePrev,
	ActionJumpNext,
	ActionJumpPrev,
	ActionOpenMenu,
	ActionCloseMenu,
}
