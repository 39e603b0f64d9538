package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/rmenu/internal/model"
)

// Selection is what the user picked. Action is nil when the menu was closed
// without exec.
type Selection struct {
	Action *model.Action
	Entry  *model.Entry
}

// Run shows the menu on out until the user execs or exits.
func Run(ctx context.Context, p Params, in io.Reader, out io.Writer) (Selection, error) {
	m, err := NewModel(p)
	if err != nil {
		return Selection{}, err
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if p.Cancel != nil {
		p.Cancel()
	}
	if err != nil {
		return Selection{}, fmt.Errorf("menu: %w", err)
	}

	done, ok := final.(Model)
	if !ok {
		return Selection{}, nil
	}
	action, entry := done.Choice()
	return Selection{Action: action, Entry: entry}, nil
}
