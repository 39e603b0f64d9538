package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/engine"
	"github.com/alexisbeaulieu97/rmenu/internal/logger"
	"github.com/alexisbeaulieu97/rmenu/internal/menu"
	"github.com/alexisbeaulieu97/rmenu/internal/model"
	"github.com/alexisbeaulieu97/rmenu/internal/search"
)

// Params wires a Model to a running scheduler.
type Params struct {
	Config  *config.Config
	Plugins []config.Plugin
	// Results is the scheduler stream; it is drained one message at a time.
	Results <-chan engine.PluginResult
	// Cancel stops the scheduler once the menu exits.
	Cancel context.CancelFunc
	Logger *logger.Logger
}

// Model is the bubbletea host for the launcher menu.
type Model struct {
	cfg     *config.Config
	plugins []config.Plugin
	log     *logger.Logger

	results <-chan engine.PluginResult
	cancel  context.CancelFunc
	pending int
	failed  int

	index   *search.Index
	loop    *menu.Loop
	matches []search.Match
	query   string

	// runtime holds options records emitted by plugins, by plugin name.
	runtime  map[string]model.Options
	settings settings

	input   textinput.Model
	spinner spinner.Model
	status  string

	width  int
	height int

	chosen      *model.Action
	chosenEntry *model.Entry
	quitting    bool
}

// NewModel builds the menu and applies configured and per-plugin settings.
func NewModel(p Params) (Model, error) {
	cfg := p.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		cfg:     cfg,
		plugins: p.Plugins,
		log:     p.Logger,
		results: p.Results,
		cancel:  p.Cancel,
		index: search.NewIndex(search.Options{
			IgnoreCase:    cfg.IgnoreCase,
			Regex:         cfg.SearchRegex,
			Fuzzy:         cfg.Search.Fuzzy,
			MatchComments: cfg.Search.MatchComments,
		}),
		loop:    menu.New(cfg.JumpDist),
		runtime: make(map[string]model.Options),
		input:   ti,
		spinner: s,
	}
	if p.Results != nil {
		m.pending = len(p.Plugins)
	}

	st, err := resolveSettings(cfg, p.Plugins, m.runtime)
	if err != nil {
		return Model{}, err
	}
	m.applySettings(st)
	m.refreshView(true)
	return m, nil
}

// Init starts the cursor blink, the spinner and the result stream.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.pending > 0 {
		cmds = append(cmds, m.spinner.Tick, waitForResult(m.results))
	}
	return tea.Batch(cmds...)
}

// Choice returns the action picked on exec, if any, and the entry it came from.
func (m Model) Choice() (*model.Action, *model.Entry) {
	return m.chosen, m.chosenEntry
}

// Loading reports whether plugins are still reporting.
func (m Model) Loading() bool {
	return m.pending > 0
}

func (m *Model) applySettings(st settings) {
	m.settings = st
	m.input.Placeholder = st.placeholder
	for name, n := range st.jumpDist {
		m.loop.SetJumpDist(name, n)
	}
}

// refreshView reruns the current query against the index and hands the
// result to the loop. reset moves the highlight back to the top.
func (m *Model) refreshView(reset bool) {
	var (
		matches []search.Match
		err     error
	)
	if m.settings.constraints.Check(m.query) == search.TooShort {
		matches, err = m.index.Query("")
	} else {
		matches, err = m.index.Query(m.query)
	}
	m.status = ""
	if err != nil {
		m.status = err.Error()
	}

	m.matches = matches
	view := make([]model.Entry, len(matches))
	for i, match := range matches {
		view[i] = match.Entry
	}
	if reset {
		m.loop.ResetIndex()
	}
	m.loop.SetView(view)
}
