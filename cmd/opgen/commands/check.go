package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/opgen/generate"
)

func (a *app) newCheckCmd() *cobra.Command {
	f := &genFlags{}

	cmd := &cobra.Command{
		Use:   "check <input> [<target-or-template>] -o <generated-file>",
		Short: "Check that a generated file is up to date",
		Long: `Check that a generated file matches its definitions.

The output is rendered in memory and compared with the existing file,
ignoring the "Generated at" timestamp. Nothing is written.

Exit codes:
  0 - File is up to date
  1 - File is out of date or missing (first differing line shown)

Examples:
  opgen check ops.yaml cpp -o include/opcodes.h
  opgen check ops.yaml rust -o src/opcodes.rs`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			opts, err := a.options(cmd, args, f)
			if err != nil {
				return err
			}

			res, err := generate.Check(cmd.Context(), opts)
			w := cmd.ErrOrStderr()
			if res != nil && res.UpToDate {
				pterm.Success.WithWriter(w).Printfln("%s is up to date", res.Output)
				return nil
			}
			if res != nil && res.Line > 0 && (res.Want != "" || res.Got != "") {
				fmt.Fprintf(w, "  line %d\n", res.Line)
				fmt.Fprintf(w, "  %s %s\n", pterm.Green("want:"), res.Want)
				fmt.Fprintf(w, "  %s %s\n", pterm.Red("got: "), res.Got)
			}
			return err
		},
	}

	f.register(cmd)
	cmd.MarkFlagRequired("output")
	return cmd
}
