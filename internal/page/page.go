// Package page assembles a results page: the results table, the models
// dialog, the model filter input and the observer that connects them.
package page

import (
	"context"
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/picaview/internal/catalog"
	"github.com/oakwood-commons/picaview/internal/config"
	"github.com/oakwood-commons/picaview/internal/observer"
	"github.com/oakwood-commons/picaview/internal/results"
	"github.com/oakwood-commons/picaview/internal/ui/dialog"
	"github.com/oakwood-commons/picaview/internal/ui/multiselect"
	"github.com/oakwood-commons/picaview/internal/ui/table"
	"github.com/oakwood-commons/picaview/pkg/logger"
)

// DialogTitle is the title of the models dialog.
const DialogTitle = "PICA models"

// Input is the decoded payload a page is built from.
type Input struct {
	Titles []results.Title
	Rows   []results.Row
	Models []catalog.Entry
}

// Options tunes Initialize. The zero value filters column 0; use
// DefaultOptions or OptionsFromConfig for the standard page.
type Options struct {
	Column          int
	ColumnTitle     string
	CaseInsensitive bool
	Dialog          dialog.Config
	TableHeight     int
	NoColor         bool
	Colors          config.ColorsConfig
	// Preselect is applied to the filter after the observer is attached.
	Preselect []string
}

// DefaultOptions returns the options of the standard results page.
func DefaultOptions() Options {
	return Options{
		Column: results.ModelColumn,
		Dialog: dialog.Config{
			Title:      DialogTitle,
			Resizable:  false,
			Width:      dialog.WidthAuto,
			Responsive: true,
		},
	}
}

// OptionsFromConfig maps the loaded configuration onto page options.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.Column = cfg.Filter.Column
	opts.ColumnTitle = cfg.Filter.ColumnTitle
	opts.CaseInsensitive = cfg.Filter.CaseInsensitive
	opts.Dialog = cfg.Dialog
	if opts.Dialog.Title == "" {
		opts.Dialog.Title = DialogTitle
	}
	opts.TableHeight = cfg.Table.Height
	opts.Colors = cfg.Table.Colors
	return opts
}

// Page holds the widgets of an initialized results page.
type Page struct {
	Table    *table.Model
	Dialog   *dialog.Model
	Filter   *multiselect.Model
	Observer *observer.Observer

	models      []catalog.Entry
	column      int
	label       string
	tableHeight int

	ctx context.Context
	err error
}

// Initialize builds the page in dependency order: the table, the models
// dialog, the filter input bound to the model names, then the observer.
// Signals from the filter input are forwarded to the observer with ctx.
func Initialize(ctx context.Context, in Input, opts Options) (*Page, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	lgr := logger.FromContext(ctx)

	tbl, err := table.New(in.Titles, in.Rows,
		table.WithSearching(true),
		table.WithHeight(opts.TableHeight),
		table.WithNoColor(opts.NoColor),
	)
	if err != nil {
		return nil, fmt.Errorf("build results table: %w", err)
	}
	if !opts.NoColor {
		tbl.SetColors(colorOrNil(opts.Colors.Header), colorOrNil(opts.Colors.SelectedFG), colorOrNil(opts.Colors.SelectedBG))
	}

	column := opts.Column
	if opts.ColumnTitle != "" {
		if idx := tbl.ColumnIndex(opts.ColumnTitle); idx >= 0 {
			column = idx
		} else {
			lgr.V(1).Info("filter column title not found, using index", "title", opts.ColumnTitle, "column", column)
		}
	}
	if column < 0 || column >= len(in.Titles) {
		return nil, fmt.Errorf("%w: filter column %d, table has %d columns", table.ErrColumnRange, column, len(in.Titles))
	}

	models := in.Models
	if len(models) == 0 {
		models = modelsFromColumn(results.Table{Titles: in.Titles, Rows: in.Rows}.Column(column))
	}

	dcfg := opts.Dialog
	if dcfg.Title == "" {
		dcfg.Title = DialogTitle
	}
	dlg := dialog.New(catalog.InfoText(models), dcfg)
	dlg.SetNoColor(opts.NoColor)

	sel := multiselect.New(catalog.Names(models))
	sel.SetNoColor(opts.NoColor)
	label := "filter " + in.Titles[column].Title
	sel.SetLabel(label)

	obs, err := observer.New(tbl, sel,
		observer.WithColumn(column),
		observer.WithCaseInsensitive(opts.CaseInsensitive),
		observer.WithLogger(lgr),
	)
	if err != nil {
		return nil, err
	}

	p := &Page{
		Table:    tbl,
		Dialog:   dlg,
		Filter:   sel,
		Observer: obs,

		models:      models,
		column:      column,
		label:       label,
		tableHeight: opts.TableHeight,
		ctx:         ctx,
	}
	sel.On(p.forward)

	if err := p.preselect(lgr, opts.Preselect); err != nil {
		return nil, err
	}

	lgr.V(1).Info("results page initialized",
		"rows", len(in.Rows),
		"columns", len(in.Titles),
		"models", len(models),
		"filter_column", column)
	return p, nil
}

// forward translates filter input events into observer signals.
func (p *Page) forward(ev multiselect.Event) {
	var sig observer.Signal
	switch ev {
	case multiselect.EventFocusIn:
		sig = observer.FocusIn
	case multiselect.EventFocusOut:
		sig = observer.FocusOut
	case multiselect.EventChange:
		sig = observer.SelectionChanged
	default:
		return
	}
	_, p.err = p.Observer.Notify(p.ctx, sig)
}

// preselect adds tokens to the filter input, stopping at the first filter
// application that fails. Tokens outside the catalog are still selected.
func (p *Page) preselect(lgr *logr.Logger, tokens []string) error {
	known := make(map[string]bool, len(p.models))
	for _, name := range catalog.Names(p.models) {
		known[name] = true
	}
	for _, token := range tokens {
		if token != "" && !known[token] {
			lgr.Info("preselected model is not in the catalog", "model", token)
		}
		p.Filter.Select(token)
		if p.err != nil {
			return p.err
		}
	}
	return nil
}

// ShowInfo opens the models dialog.
func (p *Page) ShowInfo() {
	p.Dialog.Show()
}

// Err returns the error of the most recent filter application, if any.
func (p *Page) Err() error {
	return p.err
}

// Label is the text shown in front of the filter input.
func (p *Page) Label() string {
	return p.label
}

// Column is the filtered column index.
func (p *Page) Column() int {
	return p.column
}

// TableHeight is the configured table height; 0 means fill the window.
func (p *Page) TableHeight() int {
	return p.tableHeight
}

// Models returns the model catalog shown in the dialog.
func (p *Page) Models() []catalog.Entry {
	return p.models
}

// Expression returns the expression currently applied to the table.
func (p *Page) Expression() string {
	return p.Observer.Last()
}

// modelsFromColumn derives a catalog from the distinct values of a column,
// in first-seen order, for payloads that ship without one.
func modelsFromColumn(values []string) []catalog.Entry {
	seen := make(map[string]bool, len(values))
	var entries []catalog.Entry
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		entries = append(entries, catalog.Entry{Name: v})
	}
	return entries
}

func colorOrNil(s string) color.Color {
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}
