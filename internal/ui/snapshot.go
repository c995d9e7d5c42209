package ui

import (
	"strings"

	"github.com/oakwood-commons/picaview/internal/page"
)

// SnapshotConfig configures RenderSnapshot.
type SnapshotConfig struct {
	Width     int
	Height    int
	NoColor   bool
	AppName   string
	StartKeys []string
}

// RenderSnapshot renders one frame of the interactive page after replaying
// StartKeys. The page is mutated by the replayed keys.
func RenderSnapshot(p *page.Page, cfg SnapshotConfig) string {
	m := NewModel(p, cfg.AppName, cfg.NoColor)
	m.setSize(cfg.Width, cfg.Height)
	ApplyStartupKeys(m, cfg.StartKeys)

	view := m.render()
	if cfg.NoColor {
		view = stripANSIExceptInverse(view)
	}
	if cfg.Height > 0 {
		view = padSnapshotHeight(view, cfg.Height, cfg.Width)
	}
	return view
}

func padSnapshotHeight(view string, height, width int) string {
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines, "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}
