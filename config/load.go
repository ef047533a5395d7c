package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/opgen/errors"
)

// FileName is the project and user configuration file name.
const FileName = "opgen.toml"

// EnvPrefix prefixes environment overrides, e.g. OPGEN_GENERATOR_TIMESTAMP.
const EnvPrefix = "OPGEN"

// SourceKind says where a configuration file sits in the cascade.
type SourceKind string

const (
	SourceSystem   SourceKind = "system"   // /etc/opgen/opgen.toml
	SourceUser     SourceKind = "user"     // ~/.config/opgen/opgen.toml
	SourceProject  SourceKind = "project"  // opgen.toml in cwd or a parent
	SourceExplicit SourceKind = "explicit" // --config
)

// Source is one candidate configuration file.
type Source struct {
	Kind   SourceKind
	Path   string
	Exists bool
}

// systemConfigPath is a variable so tests can point it elsewhere.
var systemConfigPath = "/etc/opgen/" + FileName

// Load reads the configuration cascade: defaults, system file, user file,
// project file (searched upward from the working directory), OPGEN_*
// environment variables, then the explicit file when non-empty. The
// explicit file overrides the environment.
func Load(explicit string) (*Config, error) {
	v := newViper()

	sources := Cascade(explicit)
	var merged []Source
	for _, src := range sources {
		if !src.Exists {
			if src.Kind == SourceExplicit {
				return nil, errors.WithHint(
					errors.NewStagef(errors.ErrInvalidConfig, "config file %s does not exist", src.Path),
					"check the --config path")
			}
			continue
		}
		merge := mergeFile
		if src.Kind == SourceExplicit {
			merge = overrideFile
		}
		if err := merge(v, src.Path); err != nil {
			return nil, err
		}
		merged = append(merged, src)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	cfg.Sources = merged
	return cfg, nil
}

// LoadFromFile loads defaults plus one configuration file, ignoring the
// cascade and the environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.MarkStagef(err, errors.ErrInvalidConfig, "read config file %s", configPath)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	cfg.Sources = []Source{{Kind: SourceExplicit, Path: configPath, Exists: true}}
	return cfg, nil
}

// Cascade lists every candidate file in precedence order, lowest first.
func Cascade(explicit string) []Source {
	var sources []Source

	sources = append(sources, probe(SourceSystem, systemConfigPath))
	if dir, err := os.UserConfigDir(); err == nil {
		sources = append(sources, probe(SourceUser, filepath.Join(dir, "opgen", FileName)))
	}
	if cwd, err := os.Getwd(); err == nil {
		if project := findProjectConfig(cwd); project != "" {
			sources = append(sources, probe(SourceProject, project))
		}
	}
	if explicit != "" {
		sources = append(sources, probe(SourceExplicit, explicit))
	}
	return sources
}

func probe(kind SourceKind, path string) Source {
	_, err := os.Stat(path)
	return Source{Kind: kind, Path: path, Exists: err == nil}
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// mergeFile merges a TOML file into v. MergeConfigMap keeps environment
// variables above file values.
func mergeFile(v *viper.Viper, path string) error {
	tmp, err := readFile(path)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(tmp.AllSettings()); err != nil {
		return errors.MarkStagef(err, errors.ErrInvalidConfig, "merge config file %s", path)
	}
	return nil
}

// overrideFile sets every key of a TOML file on v, above environment
// variables. Used for --config only.
func overrideFile(v *viper.Viper, path string) error {
	tmp, err := readFile(path)
	if err != nil {
		return err
	}
	for _, key := range tmp.AllKeys() {
		v.Set(key, tmp.Get(key))
	}
	return nil
}

func readFile(path string) (*viper.Viper, error) {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("toml")
	if err := tmp.ReadInConfig(); err != nil {
		return nil, errors.MarkStagef(err, errors.ErrInvalidConfig, "read config file %s", path)
	}
	return tmp, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.MarkStage(err, errors.ErrInvalidConfig, "unmarshal config")
	}
	return &cfg, nil
}

// findProjectConfig walks up from dir looking for opgen.toml and returns
// the first match, or "" when none is found.
func findProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
