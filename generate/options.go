// Package generate runs the opgen pipeline: resolve the target, load the
// template and definitions, render, then write and format the result.
package generate

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/teranos/opgen/errors"
	"github.com/teranos/opgen/opcode"
	"github.com/teranos/opgen/render"
)

// TimestampMode selects where the "Generated at" time comes from.
type TimestampMode string

const (
	// TimestampNow uses the wall clock
	TimestampNow TimestampMode = "now"
	// TimestampEpoch uses SOURCE_DATE_EPOCH for reproducible builds
	TimestampEpoch TimestampMode = "epoch"
	// TimestampCommit uses the author time of the last commit touching the input
	TimestampCommit TimestampMode = "commit"
)

// DefaultTarget applies when neither a target nor a template is given.
const DefaultTarget = "cpp"

// DefaultTimeFormat is the layout of the generation timestamp.
const DefaultTimeFormat = "2006-01-02 15:04:05 -0700"

// Options configures one generation run.
type Options struct {
	// Input is the definitions file
	Input string
	// Template is a target name or a template file path. Empty selects Target.
	Template string
	// Target supplies the settings when Template is a file. Empty means DefaultTarget.
	Target string
	// Output is the file to write; empty writes to Stdout
	Output string

	// Prefix and Name override the target's prefix and container when non-nil
	Prefix *string
	Name   *string

	// Key is the top-level definitions key; empty means opcode.DefaultKey
	Key string
	// IndentStep is spaces per indent level; 0 means render.DefaultIndentStep
	IndentStep int
	// TimeFormat is a Go reference layout; empty means DefaultTimeFormat
	TimeFormat string
	Timestamp  TimestampMode

	// Version is checked against a definitions file's requires constraint
	Version string
	// Registry holds the known targets; nil means the built-in ones
	Registry *render.Registry

	// Stdout receives the output when Output is empty
	Stdout io.Writer
	// Now returns the current time; nil means time.Now
	Now func() time.Time
	// SkipFormat disables the target's formatter command
	SkipFormat bool
}

// ParseTimestampMode validates a timestamp mode name; empty means now.
func ParseTimestampMode(s string) (TimestampMode, error) {
	switch TimestampMode(s) {
	case "", TimestampNow:
		return TimestampNow, nil
	case TimestampEpoch, TimestampCommit:
		return TimestampMode(s), nil
	}
	return "", errors.WithHint(
		errors.NewStagef(errors.ErrInvalidConfig, "unknown timestamp mode %q", s),
		"use one of: now, epoch, commit")
}

func (o Options) registry() *render.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return render.NewRegistry()
}

func (o Options) key() string {
	if o.Key != "" {
		return o.Key
	}
	return opcode.DefaultKey
}

func (o Options) indentStep() int {
	if o.IndentStep > 0 {
		return o.IndentStep
	}
	return render.DefaultIndentStep
}

func (o Options) timeFormat() string {
	if o.TimeFormat != "" {
		return o.TimeFormat
	}
	return DefaultTimeFormat
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

// ResolveTarget picks the target for a run. A known target name in
// Template wins; an existing file in Template is used as the template with
// the settings of Target. Anything else fails with ErrUnknownTarget.
func ResolveTarget(o Options) (render.Target, error) {
	reg := o.registry()

	base := o.Target
	if base == "" {
		base = DefaultTarget
	}

	var target render.Target
	var err error
	switch {
	case o.Template == "":
		target, err = reg.Resolve(base)

	case reg.Has(o.Template):
		target, err = reg.Resolve(o.Template)

	case isFile(o.Template):
		target, err = reg.Resolve(base)
		target.Template = o.Template

	default:
		return render.Target{}, errors.WithHintf(
			errors.NewStagef(errors.ErrUnknownTarget, "%q is neither a known target nor a template file", o.Template),
			"known targets: %s", strings.Join(reg.Names(), ", "))
	}
	if err != nil {
		return render.Target{}, err
	}

	if o.Prefix != nil {
		target.Prefix = *o.Prefix
	}
	if o.Name != nil {
		target.Container = *o.Name
	}
	return target, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
