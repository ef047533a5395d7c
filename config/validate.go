package config

import (
	"strings"

	"github.com/teranos/opgen/errors"
	"github.com/teranos/opgen/generate"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Schema.Key) == "" {
		return invalid("schema.key cannot be empty")
	}

	if c.Generator.DefaultTarget == "" {
		return invalid("generator.default_target cannot be empty")
	}

	// 0 selects the default step; use a target's indent_depth = 0 for flat output
	if c.Generator.IndentStep < 0 {
		return invalid("generator.indent_step must be >= 0, got %d", c.Generator.IndentStep)
	}

	if c.Generator.TimeFormat == "" {
		return invalid("generator.time_format cannot be empty")
	}

	if _, err := generate.ParseTimestampMode(c.Generator.Timestamp); err != nil {
		return errors.Wrap(err, "generator.timestamp")
	}

	if c.Watch.DebounceMS < 0 {
		return invalid("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.NewStagef(errors.ErrInvalidConfig, format, args...)
}
