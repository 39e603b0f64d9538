package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/rmenu/internal/model"
	"github.com/alexisbeaulieu97/rmenu/internal/search"
)

// chromeLines is the number of rows used by everything except the list.
const chromeLines = 4

// View renders the current state of the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.input.View()}
	if path := m.loop.Path(); len(path) > 0 {
		sections = append(sections, pathStyle.Render(strings.Join(path, " › ")))
	}

	items := m.loop.Items()
	start, end := m.loop.Page(m.pageSize())
	var rows []string
	for i := start; i < end; i++ {
		rows = append(rows, m.renderRow(i, items[i]))
	}
	if len(rows) > 0 {
		sections = append(sections, strings.Join(rows, "\n"))
	}

	sections = append(sections, m.footer(len(items)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) pageSize() int {
	size := m.settings.pageSize
	if m.height > chromeLines {
		size = min(size, m.height-chromeLines)
	}
	return size
}

func (m Model) renderRow(i int, e model.Entry) string {
	var highlights []int
	if m.loop.Depth() == 0 && i < len(m.matches) && m.matches[i].Tier == search.TierFuzzy {
		highlights = m.matches[i].Highlights
	}

	line := highlight(e.Label(), highlights)
	if m.cfg.UseIcons && e.IconAlt != "" {
		line = e.IconAlt + " " + line
	}
	if m.cfg.UseComments && e.Comment != "" {
		line += "  " + commentStyle.Render(e.Comment)
	}
	if e.HasSubMenu() {
		line += " " + hintStyle.Render("›")
	}

	if i == m.loop.Index() {
		return selectedStyle.Render(line)
	}
	return itemStyle.Render(line)
}

// highlight marks the bytes at the given offsets of label.
func highlight(label string, offsets []int) string {
	if len(offsets) == 0 {
		return label
	}
	marked := make(map[int]bool, len(offsets))
	for _, off := range offsets {
		marked[off] = true
	}

	var b strings.Builder
	for i, r := range label {
		if marked[i] {
			b.WriteString(matchStyle.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m Model) footer(shown int) string {
	parts := []string{fmt.Sprintf("%d/%d", shown, m.index.Len())}
	if m.pending > 0 {
		parts = append(parts, fmt.Sprintf("%s %d loading", m.spinner.View(), m.pending))
	}
	if m.failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", m.failed))
	}
	out := footerStyle.Render(strings.Join(parts, " · "))
	if m.status != "" {
		out += "  " + errorStyle.Render(m.status)
	}
	return out
}
