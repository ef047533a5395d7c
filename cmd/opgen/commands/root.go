// Package commands implements the opgen command line.
package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/opgen/config"
	"github.com/teranos/opgen/errors"
	"github.com/teranos/opgen/logger"
)

// app carries state shared by every command of one invocation.
type app struct {
	configPath string
	verbosity  int
	logJSON    bool

	cfg *config.Config
}

// NewRootCmd builds the opgen command tree. The root command itself
// generates; check, targets, config and version are subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}
	gf := &genFlags{}

	root := &cobra.Command{
		Use:   "opgen <input> [<target-or-template>]",
		Short: "Generate enum sources from opcode definitions",
		Long: `opgen - Generate C, C++ and Rust opcode enums from a definitions file

The input is a YAML, JSON or TOML file with a top-level "opcodes" list.
Each entry has a name (or a list of aliases) and a code:

  opcodes:
    - name: nop
      code: 0x00
    - name: [add, plus]
      code: 0x01

The second argument is a built-in target (c, cpp, rust) or a template
file rendered with the settings of --target.

Configuration sources (in order of precedence):
1. Command line flags
2. --config file
3. Environment variables (OPGEN_* prefix)
4. Project config (./opgen.toml, searched upward)
5. User config (~/.config/opgen/opgen.toml)
6. System config (/etc/opgen/opgen.toml)
7. Default values

Examples:
  opgen ops.yaml                         # C++ enum to stdout
  opgen ops.yaml c -o include/opcodes.h  # C header
  opgen ops.yaml rust -o src/opcodes.rs  # Rust constants
  opgen ops.yaml enum.tmpl -t c          # Own template, c target settings
  opgen ops.yaml cpp -o ops.h --watch    # Regenerate on change
  opgen check ops.yaml cpp -o ops.h      # Fail if ops.h is stale`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, args, gf)
		},
	}

	pf := root.PersistentFlags()
	pf.CountVarP(&a.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	pf.BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON")
	pf.StringVar(&a.configPath, "config", "", "Config file applied on top of the cascade")

	gf.register(root)
	root.Flags().BoolVarP(&gf.watch, "watch", "w", false, "Regenerate whenever the input or template changes")

	root.AddCommand(a.newCheckCmd())
	root.AddCommand(a.newTargetsCmd())
	root.AddCommand(a.newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// setup initialises logging and loads configuration before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	if err := logger.Initialize(a.verbosity, a.logJSON); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if logger.ShouldOutput(a.verbosity, logger.OutputConfig) {
		for _, src := range cfg.Sources {
			logger.Debugw("config merged", "source", string(src.Kind), "path", src.Path)
		}
	}
	return nil
}

// PrintError writes err and any hints attached to it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", pterm.Red("Error:"), err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Yellow("hint:"), hint)
	}
}
