package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MethodKind selects how an action's command is handed off on exec.
type MethodKind string

const (
	MethodRun      MethodKind = "run"
	MethodTerminal MethodKind = "terminal"
	MethodEcho     MethodKind = "echo"
)

// Method is an action's execution method. On the wire it is a single-key
// object such as {"run": "firefox"}; a bare string means run.
type Method struct {
	Kind    MethodKind
	Command string
}

// Run builds a plain run method.
func Run(command string) Method { return Method{Kind: MethodRun, Command: command} }

// MarshalJSON encodes the method as a single-key object.
func (m Method) MarshalJSON() ([]byte, error) {
	kind := m.Kind
	if kind == "" {
		kind = MethodRun
	}
	return json.Marshal(map[string]string{string(kind): m.Command})
}

// UnmarshalJSON accepts {"run"|"terminal"|"echo": "..."} or a bare string.
func (m *Method) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*m = Run(plain)
		return nil
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("method must be a string or single-key object: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("method must have exactly one key, got %d", len(tagged))
	}
	for key, command := range tagged {
		kind := MethodKind(strings.ToLower(key))
		switch kind {
		case MethodRun, MethodTerminal, MethodEcho:
			*m = Method{Kind: kind, Command: command}
		default:
			return fmt.Errorf("unknown method %q", key)
		}
	}
	return nil
}

// Action is one thing that can be done with an entry.
type Action struct {
	Name    string `json:"name"`
	Exec    Method `json:"exec"`
	Comment string `json:"comment,omitempty"`
}

// Entry is a single selectable item produced by a plugin.
type Entry struct {
	Name     string   `json:"name"`
	Comment  string   `json:"comment,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	IconAlt  string   `json:"icon_alt,omitempty"`
	Actions  []Action `json:"actions,omitempty"`
	Children []Entry  `json:"children,omitempty"`
	Hint     string   `json:"hint,omitempty"`
	Plugin   string   `json:"plugin,omitempty"`
}

// NewEntry builds an entry with a single run action.
func NewEntry(name, command, comment string) Entry {
	return Entry{
		Name:    name,
		Comment: comment,
		Actions: []Action{{Name: "main", Exec: Run(command)}},
	}
}

// DefaultAction returns the action used by exec on the top-level list.
func (e Entry) DefaultAction() (Action, bool) {
	if len(e.Actions) == 0 {
		return Action{}, false
	}
	return e.Actions[0], true
}

// HasSubMenu reports whether open_menu on this entry descends a level.
func (e Entry) HasSubMenu() bool {
	return len(e.Children) > 0 || len(e.Actions) > 1
}

// Label returns the text shown for the entry, falling back to its first action.
func (e Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	if a, ok := e.DefaultAction(); ok {
		return a.Exec.Command
	}
	return ""
}

// WithPlugin returns a copy stamped with its source plugin, recursively.
func (e Entry) WithPlugin(plugin string) Entry {
	e.Plugin = plugin
	if len(e.Children) > 0 {
		children := make([]Entry, len(e.Children))
		for i, child := range e.Children {
			children[i] = child.WithPlugin(plugin)
		}
		e.Children = children
	}
	return e
}

// StampPlugin returns copies of entries stamped with their source plugin.
func StampPlugin(entries []Entry, plugin string) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.WithPlugin(plugin)
	}
	return out
}
