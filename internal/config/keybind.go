package config

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alexisbeaulieu97/rmenu/internal/model"
	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

// Chord is a normalized key combination.
type Chord struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Super bool
	Key   string
}

var keyAliases = map[string]string{
	"esc":    "escape",
	"return": "enter",
	"up":     "arrowup",
	"down":   "arrowdown",
	"left":   "arrowleft",
	"right":  "arrowright",
	"pgup":   "pageup",
	"pgdown": "pagedown",
	"pgdn":   "pagedown",
	"del":    "delete",
	"ins":    "insert",
	"bs":     "backspace",
	" ":      "space",
	"plus":   "+",
	"minus":  "-",
}

// ParseChord parses chords such as "Ctrl+n", "shift-tab" or "Arrow-Down".
// Modifiers may be joined with "+" or "-"; a hyphenated prefix only counts as a
// modifier when it names one, so "Page-Up" stays a single key.
func ParseChord(s string) (Chord, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		if s == " " {
			return Chord{Key: "space"}, nil
		}
		return Chord{}, fmt.Errorf("empty key chord")
	}

	var c Chord
	key := raw
	// The final character is never a separator, which keeps "Ctrl++" valid.
	if idx := strings.LastIndex(raw[:len(raw)-1], "+"); idx >= 0 {
		for _, mod := range strings.Split(raw[:idx], "+") {
			if !c.setModifier(mod) {
				return Chord{}, fmt.Errorf("unknown modifier %q in chord %q", mod, s)
			}
		}
		key = raw[idx+1:]
	}

	for len(key) > 1 {
		i := strings.Index(key, "-")
		if i <= 0 || i == len(key)-1 || !c.setModifier(key[:i]) {
			break
		}
		key = key[i+1:]
	}

	if len([]rune(key)) == 1 {
		r := []rune(key)[0]
		if unicode.IsUpper(r) {
			c.Shift = true
		}
		c.Key = strings.ToLower(key)
		if alias, ok := keyAliases[c.Key]; ok {
			c.Key = alias
		}
		return c, nil
	}

	c.Key = normalizeKeyName(key)
	if c.Key == "" {
		return Chord{}, fmt.Errorf("chord %q has no key", s)
	}
	return c, nil
}

func (c *Chord) setModifier(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ctrl", "control":
		c.Ctrl = true
	case "alt", "meta", "option":
		c.Alt = true
	case "shift":
		c.Shift = true
	case "super", "cmd", "win", "logo":
		c.Super = true
	default:
		return false
	}
	return true
}

func normalizeKeyName(key string) string {
	name := strings.ToLower(key)
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
	if alias, ok := keyAliases[name]; ok {
		return alias
	}
	return name
}

// String renders the chord in canonical form, e.g. "ctrl+shift+tab".
func (c Chord) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Super {
		parts = append(parts, "super")
	}
	return strings.Join(append(parts, c.Key), "+")
}

// Binding is what a chord resolves to. AlsoExit is set when the chord is bound
// to both close_menu and exit: it closes a sub-menu, or exits at top level.
type Binding struct {
	Action   model.KeyAction
	AlsoExit bool
}

// KeyTable maps chords to launcher actions.
type KeyTable struct {
	chords   map[Chord]Binding
	byAction map[model.KeyAction][]Chord
}

// NewKeyTable builds a table from layered action maps. A later layer replaces
// the whole chord list of any action it names.
func NewKeyTable(layers ...map[model.KeyAction][]string) (*KeyTable, error) {
	merged := make(map[model.KeyAction][]string, len(model.KeyActions))
	for _, layer := range layers {
		for action, chords := range layer {
			if len(chords) > 0 {
				merged[action] = chords
			}
		}
	}

	t := &KeyTable{
		chords:   make(map[Chord]Binding),
		byAction: make(map[model.KeyAction][]Chord, len(merged)),
	}
	for _, action := range model.KeyActions {
		for _, text := range merged[action] {
			chord, err := ParseChord(text)
			if err != nil {
				return nil, rmenuerrors.NewValidationError("keybinds."+string(action), err.Error(), err)
			}
			if err := t.bind(chord, action); err != nil {
				return nil, err
			}
			t.byAction[action] = append(t.byAction[action], chord)
		}
	}
	return t, nil
}

func (t *KeyTable) bind(chord Chord, action model.KeyAction) error {
	existing, ok := t.chords[chord]
	if !ok {
		t.chords[chord] = Binding{Action: action}
		return nil
	}
	if existing.Action == action {
		return nil
	}
	if isCloseExitPair(existing.Action, action) {
		t.chords[chord] = Binding{Action: model.ActionCloseMenu, AlsoExit: true}
		return nil
	}
	return rmenuerrors.NewValidationError(
		"keybinds."+string(action),
		fmt.Sprintf("chord %q is already bound to %s", chord, existing.Action),
		nil,
	)
}

func isCloseExitPair(a, b model.KeyAction) bool {
	return (a == model.ActionCloseMenu && b == model.ActionExit) ||
		(a == model.ActionExit && b == model.ActionCloseMenu)
}

// Resolve returns the binding for a chord.
func (t *KeyTable) Resolve(chord Chord) (Binding, bool) {
	if t == nil {
		return Binding{}, false
	}
	b, ok := t.chords[chord]
	return b, ok
}

// ResolveString parses and resolves a chord; unparseable chords never match.
func (t *KeyTable) ResolveString(s string) (Binding, bool) {
	chord, err := ParseChord(s)
	if err != nil {
		return Binding{}, false
	}
	return t.Resolve(chord)
}

// Chords returns the chords bound to an action.
func (t *KeyTable) Chords(action model.KeyAction) []Chord {
	if t == nil {
		return nil
	}
	return append([]Chord(nil), t.byAction[action]...)
}
