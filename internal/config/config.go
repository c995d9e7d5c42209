// Package config loads picaview settings from the embedded defaults and an
// optional user YAML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/picaview/internal/ui/dialog"
	"github.com/oakwood-commons/picaview/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// Output formats accepted by output.default and --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputHTML  = "html"
)

// ErrInvalidConfig is wrapped by Validate failures.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the merged configuration.
type Config struct {
	App    AppConfig     `yaml:"app" json:"app"`
	Filter FilterConfig  `yaml:"filter" json:"filter"`
	Dialog dialog.Config `yaml:"dialog" json:"dialog"`
	Table  TableConfig   `yaml:"table" json:"table"`
	Output OutputConfig  `yaml:"output" json:"output"`
}

type AppConfig struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// FilterConfig selects the filtered column and how it is matched.
type FilterConfig struct {
	Column          int    `yaml:"column" json:"column"`
	ColumnTitle     string `yaml:"column_title" json:"column_title"`
	CaseInsensitive bool   `yaml:"case_insensitive" json:"case_insensitive"`
}

type TableConfig struct {
	Height int          `yaml:"height" json:"height"`
	Colors ColorsConfig `yaml:"colors" json:"colors"`
}

// ColorsConfig holds lipgloss color strings (ANSI index or #rrggbb).
type ColorsConfig struct {
	Header     string `yaml:"header" json:"header"`
	SelectedFG string `yaml:"selected_fg" json:"selected_fg"`
	SelectedBG string `yaml:"selected_bg" json:"selected_bg"`
}

type OutputConfig struct {
	Default string `yaml:"default" json:"default"`
}

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default returns the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, fmt.Errorf("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults with the file at path merged on top. Keys
// missing from the file keep their default value. An empty path loads the
// defaults only.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var problems []string
	if c.Filter.Column < 0 {
		problems = append(problems, fmt.Sprintf("filter.column must not be negative, got %d", c.Filter.Column))
	}
	if c.Table.Height < 0 {
		problems = append(problems, fmt.Sprintf("table.height must not be negative, got %d", c.Table.Height))
	}
	if !ValidOutput(c.Output.Default) {
		problems = append(problems, fmt.Sprintf("output.default %q is not one of table, json, yaml, html", c.Output.Default))
	}
	if w := strings.TrimSpace(c.Dialog.Width); w != "" && w != dialog.WidthAuto && !isPositiveInt(w) {
		problems = append(problems, fmt.Sprintf("dialog.width %q must be auto or a column count", c.Dialog.Width))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ValidOutput reports whether format names a static output.
func ValidOutput(format string) bool {
	switch format {
	case OutputTable, OutputJSON, OutputYAML, OutputHTML:
		return true
	}
	return false
}

func isPositiveInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

// YAML renders the config for `picaview config`.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

// ResolvePath returns explicit if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/picaview/config.yaml) or ~/.config/picaview/config.yaml
// when that file exists.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
