package generate

import (
	"context"
	"time"

	"github.com/teranos/opgen/logger"
	"github.com/teranos/opgen/opcode"
	"github.com/teranos/opgen/render"
)

// Rendered is a complete output held in memory, not yet written.
type Rendered struct {
	Target      render.Target
	Template    string
	Content     string
	Lines       []render.Line
	Definitions int
	Warnings    []opcode.Warning
	GeneratedAt string
}

// Result summarises a finished run.
type Result struct {
	Input string
	// Output is the written file, empty for stdout
	Output      string
	Target      string
	Template    string
	Definitions int
	Lines       int
	Warnings    int
	Formatted   bool
	Duration    time.Duration
}

// Render runs every stage except writing and returns the output text.
// Nothing on disk is touched.
func Render(ctx context.Context, o Options) (*Rendered, error) {
	return renderWith(ctx, o, func() (string, error) {
		t, err := generationTime(o)
		if err != nil {
			return "", err
		}
		return t.Format(o.timeFormat()), nil
	})
}

func renderWith(ctx context.Context, o Options, stamp func() (string, error)) (*Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.Named("generate")

	target, err := ResolveTarget(o)
	if err != nil {
		return nil, err
	}
	if logger.ShouldOutput(logger.Verbosity, logger.OutputTarget) {
		log.Infow("target resolved",
			logger.FieldTarget, target.Name,
			logger.FieldTemplate, target.Template,
			"prefix", target.Prefix,
			"container", target.Container)
	}

	tmpl, err := render.LoadTemplate(target.Template)
	if err != nil {
		return nil, err
	}

	doc, err := opcode.Load(o.Input, opcode.LoadOptions{Key: o.key(), Version: o.Version})
	if err != nil {
		return nil, err
	}
	if logger.ShouldOutput(logger.Verbosity, logger.OutputProgress) {
		log.Infow("definitions loaded",
			logger.FieldInput, o.Input,
			logger.FieldCount, len(doc.Definitions))
	}

	warnings := opcode.Lint(doc.Definitions, target.Prefix)
	for _, w := range warnings {
		log.Warnw("duplicate identifier",
			logger.FieldIdent, w.Ident,
			"name", w.Name,
			"first", w.Other)
	}

	indent := render.Indent{Step: o.indentStep(), Depth: target.IndentDepth}
	lines, err := render.Lines(doc.Definitions, target, indent)
	if err != nil {
		return nil, err
	}
	if logger.ShouldOutput(logger.Verbosity, logger.OutputLines) {
		for _, l := range lines {
			log.Debugw("line", logger.FieldLine, l.Text)
		}
	}

	generatedAt, err := stamp()
	if err != nil {
		return nil, err
	}

	content, err := tmpl.Execute(render.Context{
		GeneratedAt: generatedAt,
		Name:        target.Container,
		Items:       render.Join(lines, target.Separator),
	})
	if err != nil {
		return nil, err
	}

	return &Rendered{
		Target:      target,
		Template:    tmpl.Source,
		Content:     content,
		Lines:       lines,
		Definitions: len(doc.Definitions),
		Warnings:    warnings,
		GeneratedAt: generatedAt,
	}, nil
}

// Run renders the definitions and writes the result. The output file is
// only created once rendering has fully succeeded.
func Run(ctx context.Context, o Options) (*Result, error) {
	start := time.Now()

	r, err := Render(ctx, o)
	if err != nil {
		return nil, err
	}

	if err := writeOutput(o.Output, r.Content, o.stdout()); err != nil {
		return nil, err
	}

	res := &Result{
		Input:       o.Input,
		Output:      outputPath(o.Output),
		Target:      r.Target.Name,
		Template:    r.Template,
		Definitions: r.Definitions,
		Lines:       len(r.Lines),
		Warnings:    len(r.Warnings),
	}

	if r.Target.Formatter != "" && res.Output != "" && !o.SkipFormat {
		if err := runFormatter(ctx, r.Target.Formatter, res.Output); err != nil {
			return nil, err
		}
		res.Formatted = true
	}

	res.Duration = time.Since(start)
	if logger.ShouldOutput(logger.Verbosity, logger.OutputTiming) {
		logger.Named("generate").Debugw("run finished",
			logger.FieldOutput, res.Output,
			logger.FieldLines, res.Lines,
			logger.FieldDurationMS, res.Duration.Milliseconds())
	}
	return res, nil
}

func outputPath(p string) string {
	if p == "-" {
		return ""
	}
	return p
}

// Inputs lists the files a run reads, for watching. Built-in templates
// are not files and are left out.
func Inputs(o Options) ([]string, error) {
	target, err := ResolveTarget(o)
	if err != nil {
		return nil, err
	}
	paths := []string{o.Input}
	if !render.IsBuiltinTemplate(target.Template) {
		paths = append(paths, target.Template)
	}
	return paths, nil
}
