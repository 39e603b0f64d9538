// Package menu implements the selection state machine behind the launcher:
// highlight movement, sub-menu navigation and the single exec hand-off.
package menu

import (
	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/model"
)

// State is the loop's coarse state.
type State int

const (
	Browsing State = iota
	SubMenu
	Exiting
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case SubMenu:
		return "submenu"
	case Exiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Effect is what the host must do after an input.
type Effect struct {
	// Launch is set exactly once per loop, on exec.
	Launch *model.Action
	// Entry is the entry Launch came from.
	Entry *model.Entry
	Exit  bool
}

type level struct {
	parent model.Entry
	items  []model.Entry
	index  int
}

// Loop is not safe for concurrent use; the host owns it.
type Loop struct {
	view  []model.Entry
	index int
	stack []level
	state State

	jumpDist   int
	pluginJump map[string]int
}

// New returns a loop in Browsing with an empty view.
func New(jumpDist int) *Loop {
	if jumpDist < 1 {
		jumpDist = config.DefaultJumpDist
	}
	return &Loop{jumpDist: jumpDist, pluginJump: make(map[string]int)}
}

// SetJumpDist sets the jump stride used for entries from plugin.
func (l *Loop) SetJumpDist(plugin string, n int) {
	if n < 1 {
		delete(l.pluginJump, plugin)
		return
	}
	l.pluginJump[plugin] = n
}

func (l *Loop) State() State {
	if l.state == Exiting {
		return Exiting
	}
	if len(l.stack) > 0 {
		return SubMenu
	}
	return Browsing
}

// Depth is the number of open sub-menu levels.
func (l *Loop) Depth() int { return len(l.stack) }

// Items returns the entries at the current level.
func (l *Loop) Items() []model.Entry {
	if n := len(l.stack); n > 0 {
		return l.stack[n-1].items
	}
	return l.view
}

// Index is the highlighted position at the current level.
func (l *Loop) Index() int {
	if n := len(l.stack); n > 0 {
		return l.stack[n-1].index
	}
	return l.index
}

func (l *Loop) setIndex(i int) {
	if n := len(l.stack); n > 0 {
		l.stack[n-1].index = i
		return
	}
	l.index = i
}

// Selected returns the highlighted entry, if any.
func (l *Loop) Selected() (model.Entry, bool) {
	items := l.Items()
	i := l.Index()
	if i < 0 || i >= len(items) {
		return model.Entry{}, false
	}
	return items[i], true
}

// Path returns the labels of the entries whose sub-menus are open.
func (l *Loop) Path() []string {
	out := make([]string, len(l.stack))
	for i, lv := range l.stack {
		out[i] = lv.parent.Label()
	}
	return out
}

// Page returns the bounds of the page of size pageSize holding the highlight.
func (l *Loop) Page(pageSize int) (start, end int) {
	n := len(l.Items())
	if pageSize < 1 || pageSize >= n {
		return 0, n
	}
	start = (l.Index() / pageSize) * pageSize
	return start, min(start+pageSize, n)
}

// Handle applies a resolved key binding.
func (l *Loop) Handle(b config.Binding) Effect {
	if l.state == Exiting {
		return Effect{}
	}

	switch b.Action {
	case model.ActionMoveNext:
		l.move(1)
	case model.ActionMovePrev:
		l.move(-1)
	case model.ActionJumpNext:
		l.jump(1)
	case model.ActionJumpPrev:
		l.jump(-1)
	case model.ActionOpenMenu:
		l.open()
	case model.ActionCloseMenu:
		if len(l.stack) > 0 {
			l.stack = l.stack[:len(l.stack)-1]
		} else if b.AlsoExit {
			return l.exit()
		}
	case model.ActionExec:
		return l.exec()
	case model.ActionExit:
		return l.exit()
	}
	return Effect{}
}

func (l *Loop) exit() Effect {
	l.state = Exiting
	return Effect{Exit: true}
}

func (l *Loop) move(delta int) {
	n := len(l.Items())
	if n == 0 {
		return
	}
	l.setIndex(((l.Index()+delta)%n + n) % n)
}

func (l *Loop) jump(dir int) {
	n := len(l.Items())
	if n == 0 {
		return
	}
	stride := l.jumpDist
	if e, ok := l.Selected(); ok {
		if d, ok := l.pluginJump[e.Plugin]; ok {
			stride = d
		}
	}
	l.setIndex(max(0, min(n-1, l.Index()+dir*stride)))
}

func (l *Loop) open() {
	e, ok := l.Selected()
	if !ok {
		return
	}
	items := subItems(e)
	if len(items) == 0 {
		return
	}
	l.stack = append(l.stack, level{parent: e, items: items})
}

// subItems lists the sub-menu of e: its children, or else one item per action
// when it has more than one.
func subItems(e model.Entry) []model.Entry {
	if len(e.Children) > 0 {
		return e.Children
	}
	if len(e.Actions) < 2 {
		return nil
	}
	items := make([]model.Entry, len(e.Actions))
	for i, a := range e.Actions {
		name := a.Name
		if name == "" {
			name = a.Exec.Command
		}
		items[i] = model.Entry{
			Name:    name,
			Comment: a.Comment,
			Icon:    e.Icon,
			Actions: []model.Action{a},
			Plugin:  e.Plugin,
		}
	}
	return items
}

func (l *Loop) exec() Effect {
	e, ok := l.Selected()
	if !ok {
		return Effect{}
	}
	action, ok := e.DefaultAction()
	if !ok {
		l.open()
		return Effect{}
	}
	l.state = Exiting
	return Effect{Launch: &action, Entry: &e, Exit: true}
}

// SetView replaces the top-level list. The highlight follows the same entry
// when it is still present, otherwise it stays put if in bounds or resets to
// 0. Open sub-menus survive only while their parent entries do.
func (l *Loop) SetView(entries []model.Entry) {
	prev, hadPrev := l.topSelected()
	l.view = entries

	switch {
	case hadPrev && l.index < len(entries) && sameEntry(entries[l.index], prev):
	case hadPrev:
		if i := find(entries, prev); i >= 0 {
			l.index = i
		} else if l.index >= len(entries) {
			l.index = 0
		}
	default:
		l.index = 0
	}

	parents := entries
	for depth, lv := range l.stack {
		i := find(parents, lv.parent)
		if i < 0 {
			l.stack = l.stack[:depth]
			break
		}
		parent := parents[i]
		items := subItems(parent)
		if len(items) == 0 {
			l.stack = l.stack[:depth]
			break
		}
		l.stack[depth] = level{parent: parent, items: items, index: min(lv.index, len(items)-1)}
		parents = items
	}
}

// ResetIndex closes any sub-menus and drops the current view so the next
// SetView highlights its first entry instead of following the old one.
func (l *Loop) ResetIndex() {
	l.view = nil
	l.index = 0
	l.stack = nil
}

func (l *Loop) topSelected() (model.Entry, bool) {
	if l.index < 0 || l.index >= len(l.view) {
		return model.Entry{}, false
	}
	return l.view[l.index], true
}

func find(list []model.Entry, target model.Entry) int {
	for i, e := range list {
		if sameEntry(e, target) {
			return i
		}
	}
	return -1
}

// sameEntry compares the identifying fields of two entries.
func sameEntry(a, b model.Entry) bool {
	if a.Plugin != b.Plugin || a.Name != b.Name || a.Comment != b.Comment {
		return false
	}
	aa, aok := a.DefaultAction()
	ba, bok := b.DefaultAction()
	return aok == bok && aa.Exec == ba.Exec
}
