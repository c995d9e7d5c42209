// Package results holds the tabular shape of a prediction job's results:
// column titles and rows of cell values in title order.
package results

import (
	"strconv"
	"strings"
)

// ModelColumn is the index of the model name column in PICA result tables.
const ModelColumn = 1

// Title describes one table column.
type Title struct {
	Title string `json:"title" yaml:"title"`
}

// Row is one table row; cell i belongs to Titles[i].
type Row []string

// Table pairs column titles with rows. It is passed through untouched to the
// table widget, which reports shape mismatches itself.
type Table struct {
	Titles []Title `json:"titles" yaml:"titles"`
	Rows   []Row   `json:"rows" yaml:"rows"`
}

// Record is a single PICA prediction for one bin and model.
type Record struct {
	Bin      string  `json:"bin" yaml:"bin"`
	Model    string  `json:"model" yaml:"model"`
	Verdict  bool    `json:"verdict" yaml:"verdict"`
	PValue   float64 `json:"pica_pval" yaml:"pica_pval"`
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`
}

// RecordTitles are the column titles used for PICA records.
var RecordTitles = []Title{
	{Title: "Bin"},
	{Title: "Model"},
	{Title: "Prediction"},
	{Title: "p-value"},
	{Title: "Accuracy"},
}

// FromRecords converts PICA records into a table with RecordTitles.
func FromRecords(records []Record) Table {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			r.Bin,
			r.Model,
			VerdictLabel(r.Verdict),
			strconv.FormatFloat(r.PValue, 'g', -1, 64),
			strconv.FormatFloat(r.Accuracy, 'g', -1, 64),
		})
	}
	titles := make([]Title, len(RecordTitles))
	copy(titles, RecordTitles)
	return Table{Titles: titles, Rows: rows}
}

// VerdictLabel renders a prediction verdict as "+" or "-".
func VerdictLabel(v bool) string {
	if v {
		return "+"
	}
	return "-"
}

// TitleNames returns the plain title strings.
func (t Table) TitleNames() []string {
	names := make([]string, len(t.Titles))
	for i, title := range t.Titles {
		names[i] = title.Title
	}
	return names
}

// ColumnIndex finds a column by title, ignoring case and surrounding space.
// It returns -1 when no column matches.
func (t Table) ColumnIndex(title string) int {
	want := strings.TrimSpace(title)
	for i, c := range t.Titles {
		if strings.EqualFold(strings.TrimSpace(c.Title), want) {
			return i
		}
	}
	return -1
}

// Column returns the cell values of column idx, skipping rows too short to
// have one.
func (t Table) Column(idx int) []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if idx >= 0 && idx < len(r) {
			out = append(out, r[idx])
		}
	}
	return out
}
