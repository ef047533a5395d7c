package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/opgen/config"
	"github.com/teranos/opgen/errors"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and check opgen configuration",
		Long: `Show and check opgen configuration.

Examples:
  opgen config show                  # Effective configuration as TOML
  opgen config show --format json    # ... as JSON
  opgen config where                 # Which files were read
  opgen config validate              # Check values`,
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, a.cfg, format)
		},
	}
	show.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")

	where := &cobra.Command{
		Use:   "where",
		Short: "Show which configuration files are read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
			fmt.Fprintln(w, "  [DEFAULT]  Built-in defaults")
			for _, src := range config.Cascade(a.configPath) {
				mark := pterm.Gray("missing")
				if src.Exists {
					mark = pterm.Green("loaded")
				}
				fmt.Fprintf(w, "  %-10s %s (%s)\n", "["+string(src.Kind)+"]", src.Path, mark)
			}
			fmt.Fprintf(w, "  %-10s %s_* environment variables (below --config)\n", "[env]", config.EnvPrefix)
			return nil
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			if _, err := a.cfg.Registry(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
			return nil
		},
	}

	cmd.AddCommand(show, where, validate)
	return cmd
}

func showConfig(cmd *cobra.Command, cfg *config.Config, format string) error {
	w := cmd.OutOrStdout()

	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# opgen configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# opgen configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}
