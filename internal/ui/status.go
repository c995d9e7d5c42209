package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/oakwood-commons/picaview/internal/page"
)

// StatusText summarizes the visible rows and the active filter.
func StatusText(p *page.Page) string {
	var b strings.Builder
	b.WriteString("showing ")
	b.WriteString(humanize.Comma(int64(len(p.Table.Rows()))))
	b.WriteString(" of ")
	b.WriteString(humanize.Comma(int64(len(p.Table.AllRows()))))
	b.WriteString(" rows")
	if expr := p.Expression(); expr != "" {
		b.WriteString("  filter: ")
		b.WriteString(expr)
	}
	if err := p.Err(); err != nil {
		b.WriteString("  error: ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func helpText(mode Mode) string {
	switch mode {
	case FilterMode:
		return "enter add  backspace remove  ↑/↓ choose  esc/tab done"
	case DialogMode:
		return "esc close"
	default:
		return "/ filter  ? models  ↑/↓ move  q quit"
	}
}

func (m *Model) renderStatus() string {
	status := StatusText(m.page)
	help := helpText(m.mode)
	if m.noColor {
		return status + "\n" + help
	}
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	if m.page.Err() != nil {
		statusStyle = statusStyle.Foreground(lipgloss.Color("196"))
	}
	helpStyle := lipgloss.NewStyle().Faint(true)
	return statusStyle.Render(status) + "\n" + helpStyle.Render(help)
}
