package observer

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/picaview/internal/filter"
	"github.com/oakwood-commons/picaview/pkg/logger"
)

type stubSource struct {
	items []string
	calls int
}

func (s *stubSource) CurrentSelection() []string {
	s.calls++
	return s.items
}

type searchCall struct {
	index int
	expr  string
	opts  filter.Options
}

// stubTable applies searches to a single column of values the way the
// table widget does, so visible rows can be checked.
type stubTable struct {
	values   []string
	calls    []searchCall
	pending  string
	draws    int
	visible  []string
	failWith error
}

func (s *stubTable) SearchColumn(index int, expr string, opts filter.Options) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.calls = append(s.calls, searchCall{index: index, expr: expr, opts: opts})
	s.pending = expr
	return nil
}

func (s *stubTable) Draw() {
	s.draws++
	s.visible = s.visible[:0]
	re, err := filter.Compile(s.pending, false)
	if err != nil {
		return
	}
	for _, v := range s.values {
		if re.MatchString(v) {
			s.visible = append(s.visible, v)
		}
	}
}

func newStubs(selected ...string) (*stubTable, *stubSource) {
	return &stubTable{values: []string{"alpha", "beta", "gamma"}}, &stubSource{items: selected}
}

func TestNewRequiresDependencies(t *testing.T) {
	tbl, src := newStubs()

	_, err := New(nil, src)
	assert.True(t, errors.Is(err, ErrUninitialized))

	_, err = New(tbl, nil)
	assert.True(t, errors.Is(err, ErrUninitialized))

	o, err := New(tbl, src)
	require.NoError(t, err)
	assert.Equal(t, 1, o.Column())
}

func TestNotifyAppliesExactMatchToColumn(t *testing.T) {
	tbl, src := newStubs("alpha", "", "gamma")
	o, err := New(tbl, src)
	require.NoError(t, err)

	expr, err := o.Notify(context.Background(), FocusOut)
	require.NoError(t, err)
	assert.Equal(t, "^alpha$|^gamma$", expr)
	assert.Equal(t, expr, o.Last())

	require.Len(t, tbl.calls, 1)
	assert.Equal(t, 1, tbl.calls[0].index)
	assert.Equal(t, filter.Options{Regex: true, Smart: false, CaseInsensitive: false}, tbl.calls[0].opts)
	assert.Equal(t, 1, tbl.draws)
	assert.Equal(t, []string{"alpha", "gamma"}, tbl.visible)
}

func TestNotifyEmptySelectionShowsAll(t *testing.T) {
	tbl, src := newStubs("", "")
	o, err := New(tbl, src)
	require.NoError(t, err)

	expr, err := o.Notify(context.Background(), FocusIn)
	require.NoError(t, err)
	assert.Equal(t, "", expr)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, tbl.visible)
}

func TestNotifyCaseSensitiveByDefault(t *testing.T) {
	tbl, src := newStubs("Alpha")
	o, err := New(tbl, src)
	require.NoError(t, err)

	_, err = o.Notify(context.Background(), FocusOut)
	require.NoError(t, err)
	assert.Empty(t, tbl.visible)
}

func TestNotifyIsIdempotent(t *testing.T) {
	tbl, src := newStubs("beta")
	o, err := New(tbl, src)
	require.NoError(t, err)

	first, err := o.Notify(context.Background(), FocusIn)
	require.NoError(t, err)
	firstVisible := append([]string(nil), tbl.visible...)

	second, err := o.Notify(context.Background(), FocusOut)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstVisible, tbl.visible)
	assert.Equal(t, 2, src.calls, "selection must be read fresh on every signal")
}

func TestNotifyReadsLiveSelection(t *testing.T) {
	tbl, src := newStubs("alpha")
	o, err := New(tbl, src)
	require.NoError(t, err)

	_, err = o.Notify(context.Background(), FocusIn)
	require.NoError(t, err)
	src.items = []string{"beta"}
	_, err = o.Notify(context.Background(), SelectionChanged)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, tbl.visible)
}

func TestNotifyOptions(t *testing.T) {
	tbl, src := newStubs("A(1)")
	lgr := logr.Discard()
	o, err := New(tbl, src, WithColumn(3), WithCaseInsensitive(true), WithLogger(&lgr))
	require.NoError(t, err)

	expr, err := o.Notify(logger.WithLogger(context.Background(), &lgr), FocusOut)
	require.NoError(t, err)
	assert.Equal(t, `^A\(1\)$`, expr)
	require.Len(t, tbl.calls, 1)
	assert.Equal(t, 3, tbl.calls[0].index)
	assert.True(t, tbl.calls[0].opts.CaseInsensitive)
}

func TestNotifyPropagatesTableError(t *testing.T) {
	tbl, src := newStubs("alpha")
	tbl.failWith = errors.New("boom")
	o, err := New(tbl, src)
	require.NoError(t, err)

	_, err = o.Notify(context.Background(), FocusOut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column 1")
	assert.Equal(t, 0, tbl.draws)
	assert.Equal(t, "", o.Last())
}

func TestTokensDropsEmptyLabels(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Tokens(&stubSource{items: []string{"", "a", "", "b", ""}}))
	assert.Empty(t, Tokens(&stubSource{}))
}

func TestSignalString(t *testing.T) {
	assert.Equal(t, "focusin", FocusIn.String())
	assert.Equal(t, "focusout", FocusOut.String())
	assert.Equal(t, "change", SelectionChanged.String())
	assert.Equal(t, "signal(9)", Signal(9).String())
}
