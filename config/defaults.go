package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/opgen/generate"
	"github.com/teranos/opgen/opcode"
	"github.com/teranos/opgen/render"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("schema.key", opcode.DefaultKey)

	v.SetDefault("generator.default_target", generate.DefaultTarget)
	v.SetDefault("generator.indent_step", render.DefaultIndentStep)
	v.SetDefault("generator.time_format", generate.DefaultTimeFormat)
	v.SetDefault("generator.timestamp", string(generate.TimestampNow))

	v.SetDefault("watch.debounce_ms", 200) // editors write in bursts
}
