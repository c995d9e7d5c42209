package page

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/picaview/internal/catalog"
	"github.com/oakwood-commons/picaview/internal/config"
	"github.com/oakwood-commons/picaview/internal/observer"
	"github.com/oakwood-commons/picaview/internal/results"
)

//go:embed results.html.tmpl
var pageTemplate string

var htmlTemplate = template.Must(template.New("page").Parse(pageTemplate))

// Snapshot is the filtered view written by the json and yaml outputs.
type Snapshot struct {
	Titles     []string      `json:"titles" yaml:"titles"`
	Rows       []results.Row `json:"rows" yaml:"rows"`
	Total      int           `json:"total" yaml:"total"`
	Column     int           `json:"column" yaml:"column"`
	Selected   []string      `json:"selected" yaml:"selected"`
	Expression string        `json:"expression" yaml:"expression"`
}

// Snapshot captures the visible rows and the active filter.
func (p *Page) Snapshot() Snapshot {
	rows := p.Table.Rows()
	if rows == nil {
		rows = []results.Row{}
	}
	return Snapshot{
		Titles:     results.Table{Titles: p.Table.Titles()}.TitleNames(),
		Rows:       rows,
		Total:      len(p.Table.AllRows()),
		Column:     p.column,
		Selected:   observer.Tokens(p.Filter),
		Expression: p.Observer.Last(),
	}
}

type htmlPage struct {
	Title       string
	Label       string
	Selected    []string
	Expression  string
	Titles      []string
	Rows        []results.Row
	Total       int
	ModelsTitle string
	Models      template.HTML
}

// Render writes the page in format: table, json, yaml or html.
func (p *Page) Render(w io.Writer, format string) error {
	switch format {
	case config.OutputTable:
		_, err := io.WriteString(w, p.Table.RenderPlain())
		return err
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p.Snapshot())
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p.Snapshot()); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case config.OutputHTML:
		return p.renderHTML(w)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func (p *Page) renderHTML(w io.Writer) error {
	snap := p.Snapshot()
	data := htmlPage{
		Title:       p.Dialog.Title() + " results",
		Label:       p.label,
		Selected:    snap.Selected,
		Expression:  snap.Expression,
		Titles:      snap.Titles,
		Rows:        snap.Rows,
		Total:       snap.Total,
		ModelsTitle: p.Dialog.Title(),
		Models: template.HTML(catalog.HTML(p.models)), //nolint:gosec // catalog.HTML drops raw HTML
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
