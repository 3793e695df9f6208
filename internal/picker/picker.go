// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package picker is the fuzzy single-item selection prompt used when a
// command needs a tunnel name and none was given on the command line.
package picker

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)

const maxVisible = 10

// Item is one selectable entry: a name plus an optional dimmed
// description shown next to it.
type Item struct {
	Name string
	Desc string
}

type model struct {
	title     string
	items     []Item
	input     textinput.Model
	filtered  []int // indexes into items
	cursor    int
	choice    int // index into items, -1 until chosen
	cancelled bool
}

func newModel(title string, items []Item) model {
	ti := textinput.New()
	ti.Prompt = "  > "
	ti.Focus()

	m := model{
		title:  title,
		items:  items,
		input:  ti,
		choice: -1,
	}
	m.refilter()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) refilter() {
	query := m.input.Value()
	if query == "" {
		m.filtered = make([]int, len(m.items))
		for i := range m.items {
			m.filtered[i] = i
		}
	} else {
		names := make([]string, len(m.items))
		for i, it := range m.items {
			names[i] = it.Name
		}
		matches := fuzzy.Find(query, names)
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor+1 < len(m.filtered) {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.filtered) {
				m.choice = m.filtered[m.cursor]
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refilter()
	return m, cmd
}

func (m model) View() string {
	if m.choice >= 0 || m.cancelled {
		return ""
	}
	s := "\n  " + titleStyle.Render(m.title) + "\n\n"
	s += m.input.View() + "\n\n"

	visible := m.filtered
	if len(visible) > maxVisible {
		visible = visible[:maxVisible]
	}
	for vi, idx := range visible {
		item := m.items[idx]
		cursor := "  "
		name := item.Name
		if vi == m.cursor {
			cursor = cursorStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		line := fmt.Sprintf("  %s%s", cursor, name)
		if item.Desc != "" {
			line += "  " + dimStyle.Render(item.Desc)
		}
		s += line + "\n"
	}
	if len(m.filtered) == 0 {
		s += dimStyle.Render("    no matches") + "\n"
	} else if len(m.filtered) > maxVisible {
		s += dimStyle.Render(fmt.Sprintf("    … %d more", len(m.filtered)-maxVisible)) + "\n"
	}

	s += helpStyle.Render("  type to filter, ↑↓ choose, ⏎ select, esc cancel") + "\n"
	return s
}

// Pick runs the prompt and returns the chosen item's name. The second
// return is false when the user cancelled.
func Pick(title string, items []Item) (string, bool, error) {
	if len(items) == 0 {
		return "", false, fmt.Errorf("nothing to select")
	}
	p := tea.NewProgram(newModel(title, items))
	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	m := final.(model)
	if m.cancelled || m.choice < 0 {
		return "", false, nil
	}
	return m.items[m.choice].Name, true, nil
}
