package table

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/picaview/internal/results"
)

func makeModel(t *testing.T, opts ...Option) *Model {
	t.Helper()
	titles := []results.Title{{Title: "Bin"}, {Title: "Model"}, {Title: "Prediction"}}
	rows := []results.Row{
		{"bin_1", "alpha", "+"},
		{"bin_2", "beta", "-"},
		{"bin_3", "gamma", "+"},
		{"bin_4", "alphabet", "-"},
	}
	m, err := New(titles, rows, opts...)
	require.NoError(t, err)
	return m
}

func modelColumn(rows []results.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r[1]
	}
	return out
}

func TestNewRejectsShapeMismatch(t *testing.T) {
	_, err := New([]results.Title{{Title: "a"}, {Title: "b"}}, []results.Row{{"1", "2"}, {"3"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))
	assert.Contains(t, err.Error(), "row 1")
}

func TestSearchAppliesOnDraw(t *testing.T) {
	m := makeModel(t)
	require.Len(t, m.Rows(), 4)

	require.NoError(t, m.SearchColumn(1, "^alpha$|^gamma$", SearchOptions{Regex: true}))
	assert.Len(t, m.Rows(), 4, "search must not apply before Draw")

	m.Draw()
	assert.Equal(t, []string{"alpha", "gamma"}, modelColumn(m.Rows()))

	expr, opts, ok := m.ColumnSearch(1)
	require.True(t, ok)
	assert.Equal(t, "^alpha$|^gamma$", expr)
	assert.True(t, opts.Regex)
}

func TestEmptySearchClearsColumn(t *testing.T) {
	m := makeModel(t)
	require.NoError(t, m.SearchColumn(1, "^beta$", SearchOptions{Regex: true}))
	m.Draw()
	require.Len(t, m.Rows(), 1)

	require.NoError(t, m.SearchColumn(1, "", SearchOptions{Regex: true}))
	m.Draw()
	assert.Len(t, m.Rows(), 4)
	_, _, ok := m.ColumnSearch(1)
	assert.False(t, ok)
}

func TestSearchModes(t *testing.T) {
	tests := []struct {
		name string
		expr string
		opts SearchOptions
		want []string
	}{
		{name: "literal substring", expr: "alpha", opts: SearchOptions{}, want: []string{"alpha", "alphabet"}},
		{name: "literal does not interpret regex", expr: "^alpha$", opts: SearchOptions{}, want: []string{}},
		{name: "regex anchored", expr: "^alpha$", opts: SearchOptions{Regex: true}, want: []string{"alpha"}},
		{name: "case sensitive", expr: "^Alpha$", opts: SearchOptions{Regex: true}, want: []string{}},
		{name: "case insensitive", expr: "^Alpha$", opts: SearchOptions{Regex: true, CaseInsensitive: true}, want: []string{"alpha"}},
		{name: "smart requires every word", expr: "al bet", opts: SearchOptions{Smart: true}, want: []string{"alphabet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := makeModel(t)
			require.NoError(t, m.SearchColumn(1, tt.expr, tt.opts))
			m.Draw()
			assert.Equal(t, tt.want, modelColumn(m.Rows()))
		})
	}
}

func TestSearchColumnErrors(t *testing.T) {
	m := makeModel(t)
	err := m.SearchColumn(3, "x", SearchOptions{})
	assert.True(t, errors.Is(err, ErrColumnRange))
	err = m.SearchColumn(-1, "x", SearchOptions{})
	assert.True(t, errors.Is(err, ErrColumnRange))
	assert.Error(t, m.SearchColumn(1, "(", SearchOptions{Regex: true}))

	off := makeModel(t, WithSearching(false))
	assert.True(t, errors.Is(off.SearchColumn(1, "x", SearchOptions{}), ErrSearchingDisabled))
}

func TestSearchesCombineAcrossColumns(t *testing.T) {
	m := makeModel(t)
	require.NoError(t, m.SearchColumn(1, "alpha", SearchOptions{}))
	require.NoError(t, m.SearchColumn(2, "+", SearchOptions{}))
	m.Draw()
	assert.Equal(t, []string{"alpha"}, modelColumn(m.Rows()))
	assert.Len(t, m.AllRows(), 4)
}

func TestCursorClampedAfterDraw(t *testing.T) {
	m := makeModel(t)
	m.SetCursor(3)
	require.Equal(t, "alphabet", m.SelectedRow()[1])

	require.NoError(t, m.SearchColumn(1, "^beta$", SearchOptions{Regex: true}))
	m.Draw()
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, "beta", m.SelectedRow()[1])

	require.NoError(t, m.SearchColumn(1, "^none$", SearchOptions{Regex: true}))
	m.Draw()
	assert.Nil(t, m.SelectedRow())
}

func TestUpdateNavigation(t *testing.T) {
	m := makeModel(t)
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.LessOrEqual(t, m.Cursor(), 3)
}

func TestSizeFocusAndColors(t *testing.T) {
	m := makeModel(t)
	m.SetSize(60, 6)
	m.SetHeight(8)
	assert.True(t, m.Focused())
	m.Blur()
	assert.False(t, m.Focused())
	m.Focus()
	assert.True(t, m.Focused())

	m.SetNoColor(true)
	m.SetColors(lipgloss.Color("12"), lipgloss.Color("15"), lipgloss.Color("8"))
	assert.NotEmpty(t, m.View())
	assert.Contains(t, m.String(), "rows=4")
}

func TestRenderPlain(t *testing.T) {
	m := makeModel(t)
	require.NoError(t, m.SearchColumn(1, "^gamma$", SearchOptions{Regex: true}))
	m.Draw()

	out := m.RenderPlain()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Bin"))
	assert.Contains(t, lines[0], "Model")
	assert.True(t, strings.HasPrefix(lines[1], "-----"))
	assert.Contains(t, lines[2], "gamma")
}

func TestRenderPlainTruncatesWideCells(t *testing.T) {
	long := strings.Repeat("x", maxColumnWidth+10)
	m, err := New([]results.Title{{Title: "Model"}}, []results.Row{{long}})
	require.NoError(t, err)
	out := m.RenderPlain()
	assert.Contains(t, out, ellipsis)
	assert.NotContains(t, out, long)
}

func TestColumnIndex(t *testing.T) {
	m := makeModel(t)
	assert.Equal(t, 1, m.ColumnIndex("model"))
	assert.Equal(t, -1, m.ColumnIndex("nope"))
	assert.Len(t, m.Titles(), 3)
}
