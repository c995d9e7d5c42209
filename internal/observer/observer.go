// Package observer re-filters the results table whenever the model filter's
// selection lifecycle signals a possible change.
package observer

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/picaview/internal/filter"
	"github.com/oakwood-commons/picaview/internal/results"
	"github.com/oakwood-commons/picaview/pkg/logger"
)

// ErrUninitialized is returned when the observer is built without a table
// or a selection source.
var ErrUninitialized = errors.New("observer dependency is not initialized")

// SelectionSource yields the tokens currently selected in the filter input,
// in display order. Implementations may include empty placeholder labels.
type SelectionSource interface {
	CurrentSelection() []string
}

// ColumnSearcher is the part of the table widget the observer drives.
type ColumnSearcher interface {
	SearchColumn(index int, expr string, opts filter.Options) error
	Draw()
}

// Signal identifies the lifecycle event that triggered a re-filter.
type Signal int

const (
	// FocusIn fires when the filter input gains focus.
	FocusIn Signal = iota
	// FocusOut fires when the filter input loses focus.
	FocusOut
	// SelectionChanged fires when a token is added or removed.
	SelectionChanged
)

func (s Signal) String() string {
	switch s {
	case FocusIn:
		return "focusin"
	case FocusOut:
		return "focusout"
	case SelectionChanged:
		return "change"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// Observer applies the current selection to one column of a table.
type Observer struct {
	table  ColumnSearcher
	source SelectionSource
	column int
	opts   filter.Options
	log    *logr.Logger
	last   string
}

// Option configures an Observer.
type Option func(*Observer)

// WithColumn sets the filtered column index. The default is results.ModelColumn.
func WithColumn(index int) Option {
	return func(o *Observer) { o.column = index }
}

// WithCaseInsensitive makes token matching ignore case.
func WithCaseInsensitive(ci bool) Option {
	return func(o *Observer) { o.opts.CaseInsensitive = ci }
}

// WithLogger sets the logger used for each application.
func WithLogger(lgr *logr.Logger) Option {
	return func(o *Observer) {
		if lgr != nil {
			o.log = lgr
		}
	}
}

// New builds an observer over table and source. Both are required.
func New(table ColumnSearcher, source SelectionSource, opts ...Option) (*Observer, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: table", ErrUninitialized)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: selection source", ErrUninitialized)
	}
	o := &Observer{
		table:  table,
		source: source,
		column: results.ModelColumn,
		opts:   filter.ExactMatch,
		log:    logger.GetNoopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Notify reads the selection, builds the expression, applies it to the
// configured column and redraws the table. It returns the applied
// expression. Repeated calls with an unchanged selection are no-ops in effect.
func (o *Observer) Notify(ctx context.Context, sig Signal) (string, error) {
	tokens := Tokens(o.source)
	expr := filter.BuildExpression(tokens)

	lgr := o.log
	if ctx != nil {
		if l := logger.FromContext(ctx); l != logger.GetNoopLogger() {
			lgr = l
		}
	}

	if err := o.table.SearchColumn(o.column, expr, o.opts); err != nil {
		lgr.Error(err, "apply model filter", "signal", sig.String(), "column", o.column)
		return "", fmt.Errorf("apply filter to column %d: %w", o.column, err)
	}
	o.table.Draw()
	o.last = expr

	lgr.V(1).Info("model filter applied",
		"signal", sig.String(),
		"column", o.column,
		"tokens", len(tokens),
		"expression", expr)
	return expr, nil
}

// Last returns the expression applied by the most recent Notify.
func (o *Observer) Last() string {
	return o.last
}

// Column returns the filtered column index.
func (o *Observer) Column() int {
	return o.column
}

// Tokens snapshots the source's selection without zero-length labels.
func Tokens(source SelectionSource) []string {
	items := source.CurrentSelection()
	tokens := make([]string, 0, len(items))
	for _, it := range items {
		if len(it) > 0 {
			tokens = append(tokens, it)
		}
	}
	return tokens
}
