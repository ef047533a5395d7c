package render

import (
	"embed"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/teranos/opgen/errors"
)

//go:embed templates/*.tmpl
var builtinFS embed.FS

// Context is everything a file template can reference.
type Context struct {
	// GeneratedAt is the formatted generation timestamp
	GeneratedAt string
	// Name is the enumeration or type name
	Name string
	// Items is the joined block of rendered lines
	Items string
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
}

// Leftover ${name} tokens from literal-substitution style templates.
var unresolvedPattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Template is a parsed file template.
type Template struct {
	// Source is the built-in id or file path the template came from
	Source string
	tmpl   *template.Template
}

// IsBuiltinTemplate reports whether id names an embedded template.
func IsBuiltinTemplate(id string) bool {
	_, err := builtinFS.ReadFile("templates/" + id + ".tmpl")
	return err == nil
}

// BuiltinTemplate returns the source of an embedded template.
func BuiltinTemplate(id string) (string, bool) {
	data, err := builtinFS.ReadFile("templates/" + id + ".tmpl")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// LoadTemplate parses the built-in template named ref, or the file at
// path ref when no built-in has that name.
func LoadTemplate(ref string) (*Template, error) {
	if src, ok := BuiltinTemplate(ref); ok {
		return ParseTemplate(ref, src)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, errors.WithHint(
			errors.MarkStagef(err, errors.ErrTemplateNotFound, "read template %s", ref),
			"pass a template file path or one of the built-in targets: c, cpp, rust")
	}
	return ParseTemplate(ref, string(data))
}

// ParseTemplate parses template source. Syntax errors and unknown
// functions fail with ErrTemplate.
func ParseTemplate(source, src string) (*Template, error) {
	tmpl, err := template.New(source).Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, errors.MarkStagef(err, errors.ErrTemplate, "parse template %s", source)
	}
	return &Template{Source: source, tmpl: tmpl}, nil
}

// Execute renders the template. References to unknown fields and any
// ${...} placeholder left in the result fail with ErrTemplate.
func (t *Template) Execute(ctx Context) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, ctx); err != nil {
		return "", errors.MarkStagef(err, errors.ErrTemplate, "execute template %s", t.Source)
	}

	out := sb.String()
	if tokens := unresolvedPattern.FindAllString(out, -1); len(tokens) > 0 {
		return "", errors.WithHint(
			errors.NewStagef(errors.ErrTemplate, "template %s: unresolved placeholder %s", t.Source, strings.Join(unique(tokens), ", ")),
			"use {{.GeneratedAt}}, {{.Name}} and {{.Items}}")
	}
	return out, nil
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
