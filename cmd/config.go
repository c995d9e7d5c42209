package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/picaview/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged configuration",
	Long: `Print the embedded defaults merged with the user config file
(--config-file, else $XDG_CONFIG_HOME/picaview/config.yaml or
~/.config/picaview/config.yaml).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(config.ResolvePath(configFile))
		if err != nil {
			return err
		}
		switch configOutput {
		case "yaml":
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		case "json":
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		default:
			return usageErrorf("invalid output for config: %s (use yaml|json)", configOutput)
		}
	},
}

var configDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the embedded default configuration with comments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
		return err
	},
}
