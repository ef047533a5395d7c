package render

import (
	"sort"
	"strings"

	"github.com/teranos/opgen/errors"
)

// Default line and comment templates shared by the built-in targets.
const (
	DefaultLine         = "{{.Ident}} = {{.Code}}"
	DefaultAliasComment = "/* alias for {{.Primary}} */"
	DefaultSeparator    = ",\n"
)

// Target holds every per-language difference. One generic renderer is
// parameterised by it.
type Target struct {
	Name string `json:"name"`
	// Prefix is prepended to every formatted identifier
	Prefix string `json:"prefix"`
	// Container is the enum or type name handed to the template as .Name
	Container string `json:"container"`
	// Template is a built-in template id or a path to a template file
	Template string `json:"template"`
	// Line renders one declaration from .Ident, .Code and .Container
	Line string `json:"line"`
	// AliasComment is appended to non-primary aliases; sees .Primary and .Ident
	AliasComment string `json:"alias_comment"`
	// Separator joins rendered lines
	Separator   string `json:"separator"`
	IndentDepth int    `json:"indent_depth"`
	// Extension is the conventional output file extension
	Extension string `json:"extension"`
	// Formatter is an optional command run on the written output file
	Formatter string `json:"formatter,omitempty"`
}

// Patch overrides selected fields of a target. Nil fields keep the base value.
type Patch struct {
	Base         *string `mapstructure:"base" toml:"base,omitempty" yaml:"base,omitempty" json:"base,omitempty"`
	Prefix       *string `mapstructure:"prefix" toml:"prefix,omitempty" yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Container    *string `mapstructure:"container" toml:"container,omitempty" yaml:"container,omitempty" json:"container,omitempty"`
	Template     *string `mapstructure:"template" toml:"template,omitempty" yaml:"template,omitempty" json:"template,omitempty"`
	Line         *string `mapstructure:"line" toml:"line,omitempty" yaml:"line,omitempty" json:"line,omitempty"`
	AliasComment *string `mapstructure:"alias_comment" toml:"alias_comment,omitempty" yaml:"alias_comment,omitempty" json:"alias_comment,omitempty"`
	Separator    *string `mapstructure:"separator" toml:"separator,omitempty" yaml:"separator,omitempty" json:"separator,omitempty"`
	IndentDepth  *int    `mapstructure:"indent_depth" toml:"indent_depth,omitempty" yaml:"indent_depth,omitempty" json:"indent_depth,omitempty"`
	Extension    *string `mapstructure:"extension" toml:"extension,omitempty" yaml:"extension,omitempty" json:"extension,omitempty"`
	Formatter    *string `mapstructure:"formatter" toml:"formatter,omitempty" yaml:"formatter,omitempty" json:"formatter,omitempty"`
}

// Apply returns t with every non-nil field of p copied over.
func (p Patch) Apply(t Target) Target {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&t.Prefix, p.Prefix)
	set(&t.Container, p.Container)
	set(&t.Template, p.Template)
	set(&t.Line, p.Line)
	set(&t.AliasComment, p.AliasComment)
	set(&t.Separator, p.Separator)
	set(&t.Extension, p.Extension)
	set(&t.Formatter, p.Formatter)
	if p.IndentDepth != nil {
		t.IndentDepth = *p.IndentDepth
	}
	return t
}

func builtinTargets() []Target {
	return []Target{
		{
			Name:         "c",
			Prefix:       "OPCODE_",
			Container:    "_GeneratedOpCodes",
			Template:     "c",
			Line:         DefaultLine,
			AliasComment: DefaultAliasComment,
			Separator:    DefaultSeparator,
			IndentDepth:  1,
			Extension:    ".h",
		},
		{
			Name:         "cpp",
			Prefix:       "OPCODE_",
			Container:    "_GeneratedOpCodes",
			Template:     "cpp",
			Line:         DefaultLine,
			AliasComment: DefaultAliasComment,
			Separator:    DefaultSeparator,
			IndentDepth:  1,
			Extension:    ".h",
		},
		{
			Name:         "rust",
			Prefix:       "OPCODE_",
			Container:    "OpCode",
			Template:     "rust",
			Line:         "pub const {{.Ident}}: {{.Container}} = {{.Code}}",
			AliasComment: DefaultAliasComment,
			Separator:    ";\n",
			IndentDepth:  0,
			Extension:    ".rs",
		},
	}
}

var builtinAliases = map[string]string{
	"h":   "c",
	"c++": "cpp",
	"cxx": "cpp",
	"hpp": "cpp",
	"rs":  "rust",
}

// Registry maps target names to targets.
type Registry struct {
	targets map[string]Target
	aliases map[string]string
}

// NewRegistry returns a registry holding the built-in c, cpp and rust targets.
func NewRegistry() *Registry {
	r := &Registry{
		targets: make(map[string]Target),
		aliases: make(map[string]string),
	}
	for _, t := range builtinTargets() {
		r.targets[t.Name] = t
	}
	for alias, name := range builtinAliases {
		r.aliases[alias] = name
	}
	return r
}

func (r *Registry) canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if real, ok := r.aliases[name]; ok {
		return real
	}
	return name
}

// Has reports whether name (or one of its aliases) is a known target.
func (r *Registry) Has(name string) bool {
	_, ok := r.targets[r.canonical(name)]
	return ok
}

// Patch modifies the named target, creating it when it does not exist.
// A new target starts from p.Base when set, otherwise from the default
// line, comment and separator with no template.
func (r *Registry) Patch(name string, p Patch) error {
	key := r.canonical(name)

	base, exists := r.targets[key]
	if p.Base != nil {
		b, ok := r.targets[r.canonical(*p.Base)]
		if !ok {
			return errors.NewStagef(errors.ErrUnknownTarget, "target %q extends unknown target %q", name, *p.Base)
		}
		base = b
	} else if !exists {
		base = Target{
			Line:         DefaultLine,
			AliasComment: DefaultAliasComment,
			Separator:    DefaultSeparator,
		}
	}

	t := p.Apply(base)
	t.Name = key
	if t.Template == "" {
		return errors.NewStagef(errors.ErrTemplateNotFound, "target %q has no template", name)
	}
	r.targets[key] = t
	return nil
}

// Resolve returns the target registered under name or one of its aliases.
func (r *Registry) Resolve(name string) (Target, error) {
	t, ok := r.targets[r.canonical(name)]
	if !ok {
		return Target{}, errors.WithHintf(
			errors.NewStagef(errors.ErrUnknownTarget, "unknown target %q", name),
			"known targets: %s", strings.Join(r.Names(), ", "))
	}
	return t, nil
}

// Names returns the sorted canonical target names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the aliases pointing at the named target, sorted.
func (r *Registry) Aliases(name string) []string {
	var out []string
	for alias, target := range r.aliases {
		if target == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
