package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func (a *app) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List built-in and configured targets",
		Long: `List every target with its aliases and settings.

Targets come from the built-in c, cpp and rust definitions plus any
[targets.<name>] tables in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.cfg.Registry()
			if err != nil {
				return err
			}

			data := pterm.TableData{{"TARGET", "ALIASES", "TEMPLATE", "PREFIX", "NAME", "EXT", "FORMATTER"}}
			for _, name := range reg.Names() {
				t, err := reg.Resolve(name)
				if err != nil {
					return err
				}
				data = append(data, []string{
					t.Name,
					strings.Join(reg.Aliases(name), ","),
					t.Template,
					t.Prefix,
					t.Container,
					t.Extension,
					t.Formatter,
				})
			}

			return pterm.DefaultTable.
				WithHasHeader().
				WithWriter(cmd.OutOrStdout()).
				WithData(data).
				Render()
		},
	}
}
