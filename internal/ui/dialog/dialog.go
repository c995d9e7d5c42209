// Package dialog renders a titled modal panel over the results view.
package dialog

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// WidthAuto sizes the dialog to its content.
const WidthAuto = "auto"

const (
	minWidth     = 20
	windowMargin = 4
)

// Config mirrors the options of the page's modal dialog.
type Config struct {
	Title      string `yaml:"title" json:"title"`
	Resizable  bool   `yaml:"resizable" json:"resizable"`
	Width      string `yaml:"width" json:"width"`
	Responsive bool   `yaml:"responsive" json:"responsive"`
}

// Model is a modal dialog. It starts hidden.
type Model struct {
	cfg     Config
	body    string
	visible bool
	noColor bool

	width     int
	baseWidth int
	winWidth  int
	winHeight int
	sized     bool
}

// New builds a hidden dialog showing body.
func New(body string, cfg Config) *Model {
	if strings.TrimSpace(cfg.Width) == "" {
		cfg.Width = WidthAuto
	}
	m := &Model{cfg: cfg, body: body}
	m.width = m.naturalWidth()
	return m
}

// Config returns the dialog configuration.
func (m *Model) Config() Config {
	return m.cfg
}

// Title returns the dialog title.
func (m *Model) Title() string {
	return m.cfg.Title
}

// Body returns the dialog text.
func (m *Model) Body() string {
	return m.body
}

// Show makes the dialog visible.
func (m *Model) Show() { m.visible = true }

// Hide hides the dialog.
func (m *Model) Hide() { m.visible = false }

// Toggle flips visibility.
func (m *Model) Toggle() { m.visible = !m.visible }

// Visible reports whether the dialog is shown.
func (m *Model) Visible() bool { return m.visible }

// SetNoColor disables the border color.
func (m *Model) SetNoColor(noColor bool) { m.noColor = noColor }

// Width returns the current box width including the border.
func (m *Model) Width() int { return m.width }

// SetWindowSize tells the dialog the available screen size. Responsive
// dialogs always shrink to fit the window. Non-resizable dialogs never grow
// past the width computed on the first call.
func (m *Model) SetWindowSize(w, h int) {
	m.winWidth = w
	m.winHeight = h
	width := m.naturalWidth()
	if m.sized && !m.cfg.Resizable {
		width = m.baseWidth
	}
	if m.cfg.Responsive && w > 0 && width > w-windowMargin {
		width = w - windowMargin
	}
	if width < minWidth {
		width = minWidth
	}
	if !m.sized {
		m.baseWidth = width
		m.sized = true
	}
	m.width = width
}

// naturalWidth is the configured width, or the content width for "auto".
func (m *Model) naturalWidth() int {
	if n, err := strconv.Atoi(strings.TrimSpace(m.cfg.Width)); err == nil && n > 0 {
		return n
	}
	w := runewidth.StringWidth(m.cfg.Title)
	for _, line := range strings.Split(m.body, "\n") {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	// border plus horizontal padding
	return w + 4
}

// View renders the dialog, or "" while hidden.
func (m *Model) View() string {
	if !m.visible {
		return ""
	}
	inner := m.width - 4
	if inner < 1 {
		inner = 1
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(m.width)
	if !m.noColor {
		box = box.BorderForeground(lipgloss.Color("62"))
		titleStyle = titleStyle.Foreground(lipgloss.Color("212"))
	}

	lines := []string{titleStyle.Render(runewidth.Truncate(m.cfg.Title, inner, "…")), ""}
	for _, line := range strings.Split(m.body, "\n") {
		lines = append(lines, runewidth.Truncate(line, inner, "…"))
	}
	if m.winHeight > 0 {
		maxLines := m.winHeight - windowMargin
		if maxLines > 2 && len(lines) > maxLines {
			lines = append(lines[:maxLines-1], "…")
		}
	}
	hint := "esc close"
	lines = append(lines, "", lipgloss.NewStyle().Faint(true).Render(hint))
	return box.Render(strings.Join(lines, "\n"))
}
