package commands

import (
	"context"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/opgen/generate"
	"github.com/teranos/opgen/logger"
	"github.com/teranos/opgen/version"
	"github.com/teranos/opgen/watch"
)

// genFlags are the flags shared by generation and check.
type genFlags struct {
	output    string
	target    string
	prefix    string
	name      string
	timestamp string
	noFormat  bool
	watch     bool
}

func (f *genFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Target whose settings apply to a template file (default from config: cpp)")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "Identifier prefix (overrides the target's)")
	cmd.Flags().StringVar(&f.name, "name", "", "Enum or type name (overrides the target's)")
	cmd.Flags().StringVar(&f.timestamp, "timestamp", "", "Generation time source: now, epoch, commit (default from config)")
	cmd.Flags().BoolVar(&f.noFormat, "no-format", false, "Skip the target's formatter command")
}

// options merges configuration and flags into generate.Options.
func (a *app) options(cmd *cobra.Command, args []string, f *genFlags) (generate.Options, error) {
	reg, err := a.cfg.Registry()
	if err != nil {
		return generate.Options{}, err
	}

	mode := a.cfg.Generator.Timestamp
	if f.timestamp != "" {
		mode = f.timestamp
	}
	ts, err := generate.ParseTimestampMode(mode)
	if err != nil {
		return generate.Options{}, err
	}

	target := a.cfg.Generator.DefaultTarget
	if f.target != "" {
		target = f.target
	}

	opts := generate.Options{
		Input:      args[0],
		Target:     target,
		Output:     f.output,
		Key:        a.cfg.Schema.Key,
		IndentStep: a.cfg.Generator.IndentStep,
		TimeFormat: a.cfg.Generator.TimeFormat,
		Timestamp:  ts,
		Version:    versionForRequires(),
		Registry:   reg,
		Stdout:     cmd.OutOrStdout(),
		SkipFormat: f.noFormat,
	}
	if len(args) > 1 {
		opts.Template = args[1]
	}
	if cmd.Flags().Changed("prefix") {
		opts.Prefix = &f.prefix
	}
	if cmd.Flags().Changed("name") {
		opts.Name = &f.name
	}
	return opts, nil
}

func (a *app) runGenerate(cmd *cobra.Command, args []string, f *genFlags) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	opts, err := a.options(cmd, args, f)
	if err != nil {
		return err
	}
	status := cmd.ErrOrStderr()

	if !f.watch {
		res, err := generate.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}
		printResult(status, res)
		return nil
	}

	paths, err := generate.Inputs(opts)
	if err != nil {
		return err
	}
	regenerate := func(ctx context.Context) error {
		res, err := generate.Run(ctx, opts)
		if err != nil {
			PrintError(status, err)
			return err
		}
		printResult(status, res)
		return nil
	}

	// a failing first run is reported and the watch starts anyway
	_ = regenerate(cmd.Context())

	pterm.Info.WithWriter(status).Printfln("Watching %d files, Ctrl-C to stop", len(paths))
	debounce := time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond
	return watch.Run(cmd.Context(), paths, debounce, regenerate)
}

func printResult(w io.Writer, res *generate.Result) {
	if !logger.ShouldOutput(logger.Verbosity, logger.OutputUserStatus) || res.Output == "" {
		return
	}
	pterm.Success.WithWriter(w).Printfln("Generated %s (%d definitions, %d lines, target %s)",
		res.Output, res.Definitions, res.Lines, res.Target)
	if res.Warnings > 0 {
		pterm.Warning.WithWriter(w).Printfln("%d duplicate identifiers, see warnings above", res.Warnings)
	}
}

// versionForRequires is the version checked against a definitions file's
// requires constraint; development builds skip the check.
func versionForRequires() string {
	info := version.Get()
	if !info.IsRelease() {
		return ""
	}
	return info.Version
}
