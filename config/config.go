// Package config loads opgen settings from defaults, TOML files and
// OPGEN_* environment variables.
package config

import (
	"sort"
	"strings"

	"github.com/teranos/opgen/errors"
	"github.com/teranos/opgen/render"
)

// Config represents the opgen configuration
type Config struct {
	Schema    SchemaConfig            `mapstructure:"schema" toml:"schema" yaml:"schema" json:"schema"`
	Generator GeneratorConfig         `mapstructure:"generator" toml:"generator" yaml:"generator" json:"generator"`
	Watch     WatchConfig             `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
	Targets   map[string]render.Patch `mapstructure:"targets" toml:"targets,omitempty" yaml:"targets,omitempty" json:"targets,omitempty"`

	// Sources lists the files merged into this configuration, lowest precedence first
	Sources []Source `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// SchemaConfig describes the shape of definition files
type SchemaConfig struct {
	Key string `mapstructure:"key" toml:"key" yaml:"key" json:"key"` // top-level list key (default: opcodes)
}

// GeneratorConfig configures rendering
type GeneratorConfig struct {
	DefaultTarget string `mapstructure:"default_target" toml:"default_target" yaml:"default_target" json:"default_target"`
	IndentStep    int    `mapstructure:"indent_step" toml:"indent_step" yaml:"indent_step" json:"indent_step"` // spaces per indent level
	TimeFormat    string `mapstructure:"time_format" toml:"time_format" yaml:"time_format" json:"time_format"` // Go reference layout
	Timestamp     string `mapstructure:"timestamp" toml:"timestamp" yaml:"timestamp" json:"timestamp"`         // now, epoch or commit
}

// WatchConfig configures --watch
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// Registry returns the built-in targets with every [targets.<name>] table
// applied. Tables extending another configured target are applied after it.
func (c *Config) Registry() (*render.Registry, error) {
	reg := render.NewRegistry()

	pending := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		pending = append(pending, name)
	}
	sort.Strings(pending)

	for len(pending) > 0 {
		var deferred []string
		for _, name := range pending {
			p := c.Targets[name]
			if p.Base != nil && waitsOn(pending, name, *p.Base) {
				deferred = append(deferred, name)
				continue
			}
			if err := reg.Patch(name, p); err != nil {
				return nil, errors.Wrapf(err, "config targets.%s", name)
			}
		}
		if len(deferred) == len(pending) {
			return nil, errors.NewStagef(errors.ErrInvalidConfig,
				"config targets %s extend each other", strings.Join(deferred, ", "))
		}
		pending = deferred
	}
	return reg, nil
}

// waitsOn reports whether base names another still-pending target.
func waitsOn(pending []string, name, base string) bool {
	base = strings.ToLower(strings.TrimSpace(base))
	for _, p := range pending {
		if p == base && p != name {
			return true
		}
	}
	return false
}
