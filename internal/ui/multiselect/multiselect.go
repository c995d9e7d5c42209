// Package multiselect is a type-ahead input that collects several tokens
// from a candidate source and shows them as removable tags.
package multiselect

import (
	"sort"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-runewidth"
)

// Event is a lifecycle notification delivered to handlers registered with On.
type Event int

const (
	// EventFocusIn is delivered when the input gains focus.
	EventFocusIn Event = iota
	// EventFocusOut is delivered when the input loses focus.
	EventFocusOut
	// EventChange is delivered after a token is added or removed.
	EventChange
)

const (
	defaultMaxMatches = 5
	maxTagWidth       = 24
)

// Model is the multi-select input.
type Model struct {
	input    textinput.Model
	source   []string
	selected []string
	matches  []string
	cursor   int

	label      string
	focused    bool
	noColor    bool
	width      int
	maxMatches int

	handlers []func(Event)
}

// New returns an unfocused input whose candidates are source.
func New(source []string) *Model {
	ti := textinput.New()
	ti.Placeholder = "type to search models"
	ti.Prompt = "❯ "
	ti.CharLimit = 200
	ti.SetWidth(40)

	m := &Model{
		input:      ti,
		width:      80,
		maxMatches: defaultMaxMatches,
	}
	m.SetSource(source)
	return m
}

// On registers a handler for lifecycle events. Handlers run synchronously,
// in registration order.
func (m *Model) On(handler func(Event)) {
	if handler != nil {
		m.handlers = append(m.handlers, handler)
	}
}

func (m *Model) emit(ev Event) {
	for _, h := range m.handlers {
		h(ev)
	}
}

// SetSource replaces the candidate list. Selected tokens are kept.
func (m *Model) SetSource(source []string) {
	m.source = append([]string(nil), source...)
	m.refreshMatches()
}

// Source returns the candidate list.
func (m *Model) Source() []string {
	return m.source
}

// SetLabel sets the text shown in front of the tags.
func (m *Model) SetLabel(label string) {
	m.label = label
}

// Label returns the text shown in front of the tags.
func (m *Model) Label() string {
	return m.label
}

// Select adds token to the selection. Empty and duplicate tokens are ignored.
// It reports whether the selection changed.
func (m *Model) Select(token string) bool {
	if token == "" || m.isSelected(token) {
		return false
	}
	m.selected = append(m.selected, token)
	m.refreshMatches()
	m.emit(EventChange)
	return true
}

// Remove drops token from the selection.
func (m *Model) Remove(token string) bool {
	for i, s := range m.selected {
		if s == token {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
			m.refreshMatches()
			m.emit(EventChange)
			return true
		}
	}
	return false
}

// RemoveLast drops the most recently added token.
func (m *Model) RemoveLast() bool {
	if len(m.selected) == 0 {
		return false
	}
	return m.Remove(m.selected[len(m.selected)-1])
}

// Clear drops every token.
func (m *Model) Clear() {
	if len(m.selected) == 0 {
		return
	}
	m.selected = nil
	m.refreshMatches()
	m.emit(EventChange)
}

// Selected returns the selected tokens in the order they were added.
func (m *Model) Selected() []string {
	return append([]string(nil), m.selected...)
}

// Items returns the labels of the rendered list items: one per selected
// token followed by the item holding the text input, whose label is empty.
func (m *Model) Items() []string {
	items := make([]string, 0, len(m.selected)+1)
	items = append(items, m.selected...)
	return append(items, "")
}

// CurrentSelection returns Items, read fresh on every call.
func (m *Model) CurrentSelection() []string {
	return m.Items()
}

func (m *Model) isSelected(token string) bool {
	for _, s := range m.selected {
		if s == token {
			return true
		}
	}
	return false
}

// Matches returns the unselected candidates for the current query, best first.
func (m *Model) Matches() []string {
	return m.matches
}

// Highlighted returns the match Enter would add, if any.
func (m *Model) Highlighted() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return "", false
	}
	return m.matches[m.cursor], true
}

func (m *Model) refreshMatches() {
	unselected := make([]string, 0, len(m.source))
	for _, s := range m.source {
		if !m.isSelected(s) {
			unselected = append(unselected, s)
		}
	}

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.matches = unselected
	} else {
		ranks := fuzzy.RankFindNormalizedFold(query, unselected)
		sort.SliceStable(ranks, func(i, j int) bool {
			if ranks[i].Distance != ranks[j].Distance {
				return ranks[i].Distance < ranks[j].Distance
			}
			return ranks[i].OriginalIndex < ranks[j].OriginalIndex
		})
		m.matches = make([]string, len(ranks))
		for i, r := range ranks {
			m.matches[i] = r.Target
		}
	}
	if m.cursor >= len(m.matches) || m.cursor < 0 {
		m.cursor = 0
	}
}

// SetQuery replaces the typed text.
func (m *Model) SetQuery(q string) {
	m.input.SetValue(q)
	m.refreshMatches()
}

// Query returns the typed text.
func (m *Model) Query() string {
	return m.input.Value()
}

// Focus gives the input focus and notifies handlers with EventFocusIn.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	cmd := m.input.Focus()
	m.emit(EventFocusIn)
	return cmd
}

// Blur removes focus and notifies handlers with EventFocusOut.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
	m.emit(EventFocusOut)
}

// Focused reports whether the input has focus.
func (m *Model) Focused() bool {
	return m.focused
}

// SetWidth sets the rendered width.
func (m *Model) SetWidth(w int) {
	if w <= 0 {
		return
	}
	m.width = w
	inputW := w / 2
	if inputW < 10 {
		inputW = 10
	}
	m.input.SetWidth(inputW)
}

// SetNoColor disables tag colors.
func (m *Model) SetNoColor(noColor bool) {
	m.noColor = noColor
}

// Update handles keys while focused.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	if km, ok := msg.(tea.KeyPressMsg); ok {
		switch km.String() {
		case "enter":
			if token, ok := m.Highlighted(); ok {
				m.input.SetValue("")
				m.Select(token)
			}
			return m, nil
		case "backspace":
			if m.input.Value() == "" {
				m.RemoveLast()
				return m, nil
			}
		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()
	return m, cmd
}

// View renders the label, the tags, the input and, while focused, the
// dropdown of matches.
func (m *Model) View() string {
	tagStyle := lipgloss.NewStyle().Padding(0, 1)
	highlight := lipgloss.NewStyle()
	if m.noColor {
		tagStyle = tagStyle.Reverse(true)
		highlight = highlight.Reverse(true)
	} else {
		tagStyle = tagStyle.Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255"))
		highlight = highlight.Foreground(lipgloss.Color("212")).Bold(true)
	}

	parts := make([]string, 0, len(m.selected)+2)
	if m.label != "" {
		parts = append(parts, m.label+":")
	}
	for _, s := range m.selected {
		parts = append(parts, tagStyle.Render(runewidth.Truncate(s, maxTagWidth, "…")+" ×"))
	}
	parts = append(parts, m.input.View())
	line := strings.Join(parts, " ")

	if !m.focused || len(m.matches) == 0 {
		return line
	}

	start := 0
	if m.cursor >= m.maxMatches {
		start = m.cursor - m.maxMatches + 1
	}
	end := start + m.maxMatches
	if end > len(m.matches) {
		end = len(m.matches)
	}
	lines := []string{line}
	for i := start; i < end; i++ {
		item := runewidth.Truncate(m.matches[i], m.width-4, "…")
		if i == m.cursor {
			lines = append(lines, highlight.Render("> "+item))
		} else {
			lines = append(lines, "  "+item)
		}
	}
	return strings.Join(lines, "\n")
}
