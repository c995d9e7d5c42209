// Package catalog renders the list of known prediction models for the
// reference panel next to the model filter.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// ErrLengthMismatch is returned when names and descriptions do not pair up.
var ErrLengthMismatch = errors.New("model names and descriptions differ in length")

// Entry is one predictive model known to the system. Name is both the label
// shown to users and the token matched against the model column.
type Entry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// FromPairs zips parallel name and description lists.
func FromPairs(names, descriptions []string) ([]Entry, error) {
	if len(names) != len(descriptions) {
		return nil, fmt.Errorf("%w: %d names, %d descriptions", ErrLengthMismatch, len(names), len(descriptions))
	}
	entries := make([]Entry, len(names))
	for i := range names {
		entries[i] = Entry{Name: names[i], Description: descriptions[i]}
	}
	return entries, nil
}

// Names returns the model names in catalog order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// InfoText renders entries as plain text: the name on one line, the
// description indented below it, a blank line between entries.
func InfoText(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(e.Name)
		desc := strings.TrimSpace(e.Description)
		if desc == "" {
			continue
		}
		for _, line := range strings.Split(desc, "\n") {
			b.WriteString("\n  ")
			b.WriteString(strings.TrimSpace(line))
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

// Markdown renders entries as a bullet list with bold names. Descriptions
// are passed through so they may carry their own markup.
func Markdown(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString("- **")
		b.WriteString(markdownEscaper.Replace(e.Name))
		b.WriteString("**")
		if desc := strings.TrimSpace(e.Description); desc != "" {
			b.WriteString(": ")
			b.WriteString(strings.Join(strings.Fields(desc), " "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders the markdown form of entries to an HTML fragment. Raw HTML
// in descriptions is dropped.
func HTML(entries []Entry) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(Markdown(entries)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML})
	return markdown.Render(doc, renderer)
}
