package loader

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/oakwood-commons/picaview/internal/catalog"
	"github.com/oakwood-commons/picaview/internal/results"
)

//go:embed payload.schema.json
var payloadSchema []byte

// Payload is the data a results page is initialized from.
type Payload struct {
	Titles []results.Title
	Rows   []results.Row
	Models []catalog.Entry
	Format Format
}

// Table returns the titles and rows as a results table.
func (p *Payload) Table() results.Table {
	return results.Table{Titles: p.Titles, Rows: p.Rows}
}

type rawTitle struct {
	Title string
}

func (t *rawTitle) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		t.Title = s
		return nil
	}
	var obj struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	t.Title = obj.Title
	return nil
}

type rawPayload struct {
	Titles            []rawTitle       `json:"titles"`
	Rows              [][]interface{}  `json:"rows"`
	Results           []results.Record `json:"results"`
	Models            []catalog.Entry  `json:"models"`
	ModelNames        []string         `json:"model_names"`
	ModelDescriptions []string         `json:"model_descriptions"`
}

// LoadFile reads and decodes the payload at path.
func LoadFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", path, err)
	}
	p, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Load reads the whole of r and decodes it.
func Load(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes decodes a JSON, YAML or TOML payload and validates it against
// the embedded schema. Explicit titles and rows win over results records.
func LoadBytes(data []byte) (*Payload, error) {
	doc, format, err := decode(string(data))
	if err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize %s payload: %w", format, err)
	}
	if err := validate(normalized); err != nil {
		return nil, err
	}

	var raw rawPayload
	if err := json.Unmarshal(normalized, &raw); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	p := &Payload{Format: format}
	switch {
	case raw.Rows != nil:
		p.Titles = make([]results.Title, len(raw.Titles))
		for i, t := range raw.Titles {
			p.Titles[i] = results.Title{Title: t.Title}
		}
		p.Rows = make([]results.Row, len(raw.Rows))
		for i, cells := range raw.Rows {
			row := make(results.Row, len(cells))
			for j, c := range cells {
				row[j] = cellString(c)
			}
			p.Rows[i] = row
		}
	default:
		t := results.FromRecords(raw.Results)
		p.Titles, p.Rows = t.Titles, t.Rows
		if raw.Titles != nil {
			p.Titles = make([]results.Title, len(raw.Titles))
			for i, rt := range raw.Titles {
				p.Titles[i] = results.Title{Title: rt.Title}
			}
		}
	}

	switch {
	case raw.Models != nil:
		p.Models = raw.Models
	case raw.ModelNames != nil || raw.ModelDescriptions != nil:
		entries, err := catalog.FromPairs(raw.ModelNames, raw.ModelDescriptions)
		if err != nil {
			return nil, fmt.Errorf("payload models: %w", err)
		}
		p.Models = entries
	}
	return p, nil
}

func validate(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(payloadSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(errs, "; "))
}

// cellString renders a decoded scalar as table text.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
