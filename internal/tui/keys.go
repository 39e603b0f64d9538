package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// chordName turns a key event into text config.ParseChord understands.
func chordName(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		if msg.Alt {
			return "alt+space"
		}
		return "space"
	}
	name := msg.String()
	if strings.HasSuffix(name, "+ ") {
		return strings.TrimSuffix(name, " ") + "space"
	}
	return name
}
