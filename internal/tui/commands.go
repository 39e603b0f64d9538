package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/rmenu/internal/engine"
)

// pluginResultMsg carries one plugin's outcome from the scheduler stream.
type pluginResultMsg struct {
	result engine.PluginResult
}

// streamDoneMsg reports that every plugin has reported.
type streamDoneMsg struct{}

// waitForResult blocks on the next scheduler result.
func waitForResult(results <-chan engine.PluginResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return streamDoneMsg{}
		}
		return pluginResultMsg{result: res}
	}
}
