// Package ui is the interactive results page: the model filter above the
// results table, a status line, and the models dialog.
package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/picaview/internal/page"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// header, filter line, status and help lines
	chromeLines = 4
)

// Model is the root bubbletea model that routes keys by Mode.
type Model struct {
	page     *page.Page
	mode     Mode
	appName  string
	width    int
	height   int
	noColor  bool
	quitting bool
}

// NewModel wraps an initialized page.
func NewModel(p *page.Page, appName string, noColor bool) *Model {
	m := &Model{
		page:    p,
		mode:    TableMode,
		appName: appName,
		noColor: noColor,
	}
	p.Table.SetNoColor(noColor)
	p.Filter.SetNoColor(noColor)
	p.Dialog.SetNoColor(noColor)
	m.setSize(defaultWidth, defaultHeight)
	return m
}

// Mode returns the current mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Page returns the wrapped page.
func (m *Model) Page() *page.Page {
	return m.page
}

// Quitting reports whether quit was requested.
func (m *Model) Quitting() bool {
	return m.quitting
}

func (m *Model) setSize(w, h int) {
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	m.width, m.height = w, h
	tableHeight := h - chromeLines
	if limit := m.page.TableHeight(); limit > 0 && limit < tableHeight {
		tableHeight = limit
	}
	m.page.Table.SetSize(w, tableHeight)
	m.page.Filter.SetWidth(w)
	m.page.Dialog.SetWindowSize(w, h)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyPressMsg:
		key := msg.String()
		if key == "ctrl+c" || msg.Code == 0x03 {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case DialogMode:
			return m.updateDialog(key)
		case FilterMode:
			return m.updateFilter(msg, key)
		default:
			return m.updateTable(msg, key)
		}
	}
	return m, nil
}

func (m *Model) updateTable(msg tea.KeyPressMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "/", "tab":
		m.mode = FilterMode
		m.page.Table.Blur()
		return m, m.page.Filter.Focus()
	case "?", "f2":
		m.page.ShowInfo()
		m.mode = DialogMode
		return m, nil
	}
	_, cmd := m.page.Table.Update(msg)
	return m, cmd
}

func (m *Model) updateFilter(msg tea.KeyPressMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "tab":
		m.page.Filter.Blur()
		m.page.Table.Focus()
		m.mode = TableMode
		return m, nil
	case "f2":
		m.page.ShowInfo()
		m.mode = DialogMode
		return m, nil
	}
	_, cmd := m.page.Filter.Update(msg)
	return m, cmd
}

func (m *Model) updateDialog(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "?", "f2", "q", "enter":
		m.page.Dialog.Hide()
		if m.page.Filter.Focused() {
			m.mode = FilterMode
		} else {
			m.mode = TableMode
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	view := m.render()
	if m.noColor {
		view = stripANSIExceptInverse(view)
	}
	v := tea.NewView(view)
	v.AltScreen = true
	return v
}

// render composes the frame as a string.
func (m *Model) render() string {
	header := m.appName
	if !m.noColor {
		header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Render(header)
	}

	body := m.page.Table.View()
	if m.mode == DialogMode && m.page.Dialog.Visible() {
		body = lipgloss.Place(m.width, lipgloss.Height(body), lipgloss.Center, lipgloss.Top, m.page.Dialog.View())
	}

	parts := []string{header, m.page.Filter.View(), body, m.renderStatus()}
	return strings.Join(parts, "\n")
}
