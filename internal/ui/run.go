package ui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/picaview/internal/page"
	"github.com/oakwood-commons/picaview/pkg/logger"
	"github.com/oakwood-commons/picaview/pkg/settings"
)

// RunOptions configures Run.
type RunOptions struct {
	AppName string
	// Width and Height of 0 auto-detect the terminal size.
	Width     int
	Height    int
	NoColor   bool
	StartKeys []string
	// ProgramOptions are passed through to tea.NewProgram.
	ProgramOptions []tea.ProgramOption
}

// Run starts the interactive page and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, p *page.Page, opts RunOptions) error {
	lgr := logger.FromContext(ctx)
	m := NewModel(p, opts.AppName, opts.NoColor)

	progOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)
	if opts.Width > 0 || opts.Height > 0 {
		w, h := opts.Width, opts.Height
		if w <= 0 || h <= 0 {
			if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if w <= 0 {
					w = tw
				}
				if h <= 0 {
					h = th
				}
			}
		}
		m.setSize(w, h)
		progOpts = append(progOpts, tea.WithWindowSize(m.width, m.height))
	}
	ApplyStartupKeys(m, opts.StartKeys)
	if m.quitting {
		return nil
	}

	kv := []any{"width", m.width, "height", m.height}
	if run, ok := settings.FromContext(ctx); ok {
		kv = append(kv, "payload", run.Payload.Path, "stdin", run.Payload.FromStdin)
	}
	lgr.V(1).Info("starting interactive page", kv...)
	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		return fmt.Errorf("run interactive page: %w", err)
	}
	return nil
}
