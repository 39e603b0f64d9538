package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/rmenu/internal/search"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pluginResultMsg:
		m.applyResult(msg)
		return m, waitForResult(m.results)

	case streamDoneMsg:
		m.pending = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyResult(msg pluginResultMsg) {
	res := msg.result
	if m.pending > 0 {
		m.pending--
	}
	if res.Err != nil {
		m.failed++
	}

	m.index.ReplaceBlock(res.Plugin, res.Index, res.Entries)

	if !res.Options.IsZero() {
		prev, had := m.runtime[res.Plugin]
		m.runtime[res.Plugin] = prev.Merge(res.Options)
		st, err := resolveSettings(m.cfg, m.plugins, m.runtime)
		if err != nil {
			if had {
				m.runtime[res.Plugin] = prev
			} else {
				delete(m.runtime, res.Plugin)
			}
			m.log.WithPlugin(res.Plugin).Warn(err, "ignoring plugin options")
		} else {
			m.applySettings(st)
		}
	}

	m.refreshView(false)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	if binding, ok := m.settings.keys.ResolveString(chordName(msg)); ok {
		eff := m.loop.Handle(binding)
		if !eff.Exit {
			return m, nil
		}
		m.chosen = eff.Launch
		m.chosenEntry = eff.Entry
		return m.quit()
	}

	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := m.input.Value(); text != before {
		m.setQuery(text)
	}
	return m, cmd
}

func (m *Model) setQuery(text string) {
	if m.settings.constraints.Check(text) == search.Reject {
		m.input.SetValue(m.query)
		m.input.CursorEnd()
		m.status = fmt.Sprintf("query %q not allowed", text)
		return
	}
	m.query = text
	m.refreshView(true)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}
