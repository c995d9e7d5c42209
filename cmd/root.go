package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/picaview/internal/config"
	"github.com/oakwood-commons/picaview/internal/page"
	"github.com/oakwood-commons/picaview/internal/ui"
	"github.com/oakwood-commons/picaview/pkg/loader"
	"github.com/oakwood-commons/picaview/pkg/logger"
	"github.com/oakwood-commons/picaview/pkg/settings"
)

// errNoInput is returned when neither a file nor piped stdin is given.
var errNoInput = errors.New("no input provided")

var (
	interactive     bool
	output          string
	configFile      string
	debug           bool
	noColor         bool
	renderSnapshot  bool
	startKeys       []string
	snapshotWidth   int
	snapshotHeight  int
	models          []string
	column          int
	columnTitle     string
	caseInsensitive bool
	configOutput    string
)

var (
	stdinIsPiped  = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	stdoutIsPiped = func() bool { stat, _ := os.Stdout.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
)

var rootCtx = context.Background()

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [payload]",
	Short: "Browse PICA prediction results and filter them by model",
	Long: `picaview renders the results table of a PICA prediction job and filters
its rows by exact match against the selected model names.

The payload is JSON, YAML or TOML holding either titles and rows, or PICA
result records, plus the model catalog.`,
	Example: "\n  picaview results.json\n  picaview results.yaml -i\n  picaview results.json --model aerobe --model motile -o json\n  cat results.toml | picaview -o html > results.html\n",
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// debug => zap.DebugLevel (-1), else zap.InfoLevel (0)
		var level int8
		if debug {
			level = -1
		}
		lgr := logger.Get(level)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	if output != "" && !config.ValidOutput(output) {
		return usageErrorf("invalid --output %q (expected table, json, yaml or html)", output)
	}
	if cmd.Flags().Changed("column") && column < 0 {
		return usageErrorf("invalid --column %d (must not be negative)", column)
	}

	run := settings.NewCliParams()
	run.NoColor = noColor
	run.Interactive = interactive && !renderSnapshot
	if debug {
		run.MinLogLevel = -1
	}
	ctx := settings.IntoContext(rootCtx, run)
	lgr := logger.FromContext(ctx)

	cfgPath := config.ResolvePath(configFile)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("column") {
		cfg.Filter.Column = column
	}
	if cmd.Flags().Changed("column-title") {
		cfg.Filter.ColumnTitle = columnTitle
	}
	if cmd.Flags().Changed("case-insensitive") {
		cfg.Filter.CaseInsensitive = caseInsensitive
	}
	lgr.V(1).Info("config loaded", "path", cfgPath, "filter_column", cfg.Filter.Column, "column_title", cfg.Filter.ColumnTitle)

	payload, err := loadPayload(args, &run.Payload)
	if errors.Is(err, errNoInput) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	lgr.V(1).Info("payload loaded",
		"format", string(payload.Format),
		"stdin", run.Payload.FromStdin,
		"rows", len(payload.Rows),
		"models", len(payload.Models))

	opts := page.OptionsFromConfig(cfg)
	opts.NoColor = run.NoColor
	opts.Preselect = models
	p, err := page.Initialize(ctx, page.Input{
		Titles: payload.Titles,
		Rows:   payload.Rows,
		Models: payload.Models,
	}, opts)
	if err != nil {
		return err
	}

	switch {
	case renderSnapshot:
		sizing := resolveSnapshotSize(snapshotWidth, snapshotHeight)
		view := ui.RenderSnapshot(p, ui.SnapshotConfig{
			Width:     sizing.Width,
			Height:    sizing.Height,
			NoColor:   run.NoColor,
			AppName:   cfg.App.Name,
			StartKeys: startKeys,
		})
		fmt.Fprintln(cmd.OutOrStdout(), view)
		return nil
	case run.Interactive:
		progOpts, cleanup := getProgramOptions()
		defer cleanup()
		return ui.Run(ctx, p, ui.RunOptions{
			AppName:        cfg.App.Name,
			Width:          snapshotWidth,
			Height:         snapshotHeight,
			NoColor:        run.NoColor,
			StartKeys:      startKeys,
			ProgramOptions: progOpts,
		})
	default:
		format := output
		if format == "" {
			format = cfg.Output.Default
		}
		return p.Render(cmd.OutOrStdout(), format)
	}
}

// loadPayload reads the payload file named in args, or stdin when piped.
func loadPayload(args []string, src *settings.PayloadSettings) (*loader.Payload, error) {
	if len(args) > 0 && args[0] != "-" {
		src.Path = args[0]
		return loader.LoadFile(args[0])
	}
	if len(args) == 0 && !stdinIsPiped() {
		return nil, errNoInput
	}
	src.FromStdin = true
	p, err := loader.Load(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return p, nil
}

type snapshotSize struct {
	Width  int
	Height int
}

func resolveSnapshotSize(flagWidth, flagHeight int) snapshotSize {
	width, height := flagWidth, flagHeight
	if width <= 0 || height <= 0 {
		w, h := detectTerminalSize()
		if width <= 0 {
			width = w
		}
		if height <= 0 {
			height = h
		}
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return snapshotSize{Width: width, Height: height}
}

func init() { //nolint:gochecknoinits
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start the interactive results page")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output format: table|json|yaml|html (default from config)")
	rootCmd.Flags().StringArrayVarP(&models, "model", "m", nil, "preselect a model in the filter (repeatable)")
	rootCmd.Flags().IntVar(&column, "column", 0, "index of the filtered column (default from config)")
	rootCmd.Flags().StringVar(&columnTitle, "column-title", "", "resolve the filtered column by title")
	rootCmd.Flags().BoolVar(&caseInsensitive, "case-insensitive", false, "match model names ignoring case")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "emit debug logs on stderr")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render a single frame of the interactive page and exit; honors --width/--height")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "simulate keys on startup. Use <Key> for special keys (<Tab>, <Enter>, <Esc>, <BS>, <F2>). Example: --press \"<Tab>aer<Enter>\"")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "layout width in columns")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "layout height in rows")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json")
	configCmd.AddCommand(configDefaultCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
