package table

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strings"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/picaview/internal/results"
)

var (
	// ErrShape is returned when a row's cell count differs from the number of titles.
	ErrShape = errors.New("row shape does not match column titles")
	// ErrColumnRange is returned for a column index outside the table.
	ErrColumnRange = errors.New("column index out of range")
	// ErrSearchingDisabled is returned by SearchColumn on a table built without searching.
	ErrSearchingDisabled = errors.New("searching is disabled for this table")
)

const (
	defaultHeight  = 10
	maxColumnWidth = 40
	ellipsis       = "…"
)

// Model is the results table widget. It keeps the full row set, applies
// per-column searches when Draw is called and renders the visible rows
// through the bubbles table.
type Model struct {
	table  bubtable.Model
	styles bubtable.Styles

	titles   []results.Title
	rows     []results.Row
	visible  []results.Row
	searches map[int]columnSearch
	pending  map[int]columnSearch

	searching bool
	width     int
	height    int
	focused   bool
	noColor   bool

	headerFG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// Option configures a Model at construction.
type Option func(*Model)

// WithSearching enables or disables column searches. Tables search by default.
func WithSearching(enabled bool) Option {
	return func(m *Model) { m.searching = enabled }
}

// WithHeight sets the number of visible body rows.
func WithHeight(h int) Option {
	return func(m *Model) {
		if h > 0 {
			m.height = h
		}
	}
}

// WithNoColor disables colored styles.
func WithNoColor(noColor bool) Option {
	return func(m *Model) { m.noColor = noColor }
}

// New builds a table over titles and rows. Every row must have exactly one
// cell per title.
func New(titles []results.Title, rows []results.Row, opts ...Option) (*Model, error) {
	for i, r := range rows {
		if len(r) != len(titles) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, i, len(r), len(titles))
		}
	}

	m := &Model{
		titles:    titles,
		rows:      rows,
		visible:   rows,
		searches:  map[int]columnSearch{},
		pending:   map[int]columnSearch{},
		searching: true,
		width:     80,
		height:    defaultHeight,
		focused:   true,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.table = bubtable.New(
		bubtable.WithColumns(m.columns()),
		bubtable.WithFocused(true),
		bubtable.WithHeight(m.height),
	)

	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true).
		Align(lipgloss.Left)
	s.Cell = lipgloss.NewStyle().Align(lipgloss.Left).PaddingRight(1)
	m.styles = s
	m.applyColorScheme()
	m.Draw()
	return m, nil
}

// columns sizes each column to its widest cell, capped at maxColumnWidth.
func (m *Model) columns() []bubtable.Column {
	cols := make([]bubtable.Column, len(m.titles))
	for i, t := range m.titles {
		w := runewidth.StringWidth(t.Title)
		for _, r := range m.rows {
			if cw := runewidth.StringWidth(r[i]); cw > w {
				w = cw
			}
		}
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		cols[i] = bubtable.Column{Title: t.Title, Width: w + 1}
	}
	return cols
}

// SearchColumn stages a search on one column. It takes effect on the next
// Draw. An empty expression removes the column's search.
func (m *Model) SearchColumn(index int, expr string, opts SearchOptions) error {
	if !m.searching {
		return ErrSearchingDisabled
	}
	if index < 0 || index >= len(m.titles) {
		return fmt.Errorf("%w: %d (table has %d columns)", ErrColumnRange, index, len(m.titles))
	}
	cs, err := compileSearch(expr, opts)
	if err != nil {
		return err
	}
	m.pending[index] = cs
	return nil
}

// ColumnSearch returns the search applied to a column by the last Draw.
func (m *Model) ColumnSearch(index int) (string, SearchOptions, bool) {
	cs, ok := m.searches[index]
	if !ok {
		return "", SearchOptions{}, false
	}
	return cs.expr, cs.opts, true
}

// Draw applies staged searches and recomputes the visible rows.
func (m *Model) Draw() {
	for idx, cs := range m.pending {
		if len(cs.patterns) == 0 {
			delete(m.searches, idx)
			continue
		}
		m.searches[idx] = cs
	}
	m.pending = map[int]columnSearch{}

	if len(m.searches) == 0 {
		m.visible = m.rows
	} else {
		idxs := make([]int, 0, len(m.searches))
		for idx := range m.searches {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)
		m.visible = make([]results.Row, 0, len(m.rows))
		for _, r := range m.rows {
			if m.rowMatches(r, idxs) {
				m.visible = append(m.visible, r)
			}
		}
	}

	tableRows := make([]bubtable.Row, len(m.visible))
	for i, r := range m.visible {
		tableRows[i] = bubtable.Row(r)
	}
	m.table.SetRows(tableRows)

	if c := m.Cursor(); c < 0 || c >= len(m.visible) {
		m.SetCursor(0)
	}
}

func (m *Model) rowMatches(r results.Row, idxs []int) bool {
	for _, idx := range idxs {
		if !m.searches[idx].match(r[idx]) {
			return false
		}
	}
	return true
}

// Titles returns the column titles.
func (m *Model) Titles() []results.Title {
	return m.titles
}

// ColumnIndex finds a column by title, or -1.
func (m *Model) ColumnIndex(title string) int {
	return results.Table{Titles: m.titles}.ColumnIndex(title)
}

// Rows returns the rows visible after the last Draw.
func (m *Model) Rows() []results.Row {
	return m.visible
}

// AllRows returns every row regardless of searches.
func (m *Model) AllRows() []results.Row {
	return m.rows
}

// Cursor returns the current cursor position.
func (m *Model) Cursor() int {
	return m.table.Cursor()
}

// SetCursor sets the cursor position.
func (m *Model) SetCursor(pos int) {
	m.table.SetCursor(pos)
}

// SelectedRow returns the row under the cursor, or nil when nothing is visible.
func (m *Model) SelectedRow() results.Row {
	cursor := m.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return nil
	}
	return m.visible[cursor]
}

// SetSize sets the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	if height > 0 {
		m.height = height
	}
	m.table.SetWidth(width)
	m.table.SetHeight(m.height)
}

// SetHeight updates only the table height.
func (m *Model) SetHeight(height int) {
	m.SetSize(m.width, height)
}

// Focus sets the table focus state.
func (m *Model) Focus() {
	m.focused = true
	m.table.Focus()
}

// Blur removes focus from the table.
func (m *Model) Blur() {
	m.focused = false
	m.table.Blur()
}

// Focused reports whether the table has focus.
func (m *Model) Focused() bool {
	return m.focused
}

// SetNoColor enables or disables color output.
func (m *Model) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets the header and selection colors.
func (m *Model) SetColors(headerFG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model) applyColorScheme() {
	s := m.styles
	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}
	m.table.SetStyles(s)
	m.styles = s
}

// Update forwards navigation messages to the bubbles table.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the interactive table.
func (m *Model) View() string {
	return m.table.View()
}

// RenderPlain renders the visible rows as aligned text without cursor or
// styling, for non-interactive output.
func (m *Model) RenderPlain() string {
	cols := m.columns()
	cells := func(values []string) string {
		parts := make([]string, len(values))
		for i, v := range values {
			w := cols[i].Width - 1
			v = runewidth.Truncate(v, w, ellipsis)
			parts[i] = runewidth.FillRight(v, w)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(cells(results.Table{Titles: m.titles}.TitleNames()))
	b.WriteString("\n")
	seps := make([]string, len(cols))
	for i, c := range cols {
		seps[i] = strings.Repeat("-", c.Width-1)
	}
	b.WriteString(strings.Join(seps, "  "))
	b.WriteString("\n")
	for _, r := range m.visible {
		b.WriteString(cells(r))
		b.WriteString("\n")
	}
	return b.String()
}

// String returns a representation for debugging.
func (m *Model) String() string {
	return fmt.Sprintf("Table[rows=%d, visible=%d, cursor=%d, searches=%d]",
		len(m.rows), len(m.visible), m.Cursor(), len(m.searches))
}
