package render

import (
	"strings"
	"text/template"

	"github.com/teranos/opgen/errors"
	"github.com/teranos/opgen/opcode"
)

// Line is one rendered declaration.
type Line struct {
	Text  string
	Ident string
	Code  string
	// Primary is the formatted primary identifier; empty unless this line is an alias
	Primary string
}

// IsAlias reports whether the line declares a non-primary alias.
func (l Line) IsAlias() bool {
	return l.Primary != ""
}

type lineData struct {
	Ident     string
	Code      string
	Container string
}

type commentData struct {
	Ident   string
	Primary string
}

// Lines renders every definition into declarations for t, in input order.
// Aliased definitions yield one line per alias; all but the primary carry
// the target's alias comment.
func Lines(defs []opcode.Definition, t Target, indent Indent) ([]Line, error) {
	declTmpl, err := parseFragment(t.Name+".line", t.Line)
	if err != nil {
		return nil, err
	}
	commentTmpl, err := parseFragment(t.Name+".alias_comment", t.AliasComment)
	if err != nil {
		return nil, err
	}

	pad := indent.Spaces()
	lines := make([]Line, 0, len(defs))

	for _, def := range defs {
		primary := opcode.FormatName(def.Name.Primary(), t.Prefix)

		for i, name := range def.Name.Names() {
			ident := opcode.FormatName(name, t.Prefix)

			decl, err := execFragment(declTmpl, lineData{Ident: ident, Code: def.Code, Container: t.Container})
			if err != nil {
				return nil, err
			}

			line := Line{Ident: ident, Code: def.Code, Text: pad + decl}
			if i > 0 {
				comment, err := execFragment(commentTmpl, commentData{Ident: ident, Primary: primary})
				if err != nil {
					return nil, err
				}
				line.Primary = primary
				if comment != "" {
					line.Text += " " + comment
				}
			}
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Join concatenates the line texts with the target's statement separator.
func Join(lines []Line, separator string) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, separator)
}

func parseFragment(name, src string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, errors.MarkStagef(err, errors.ErrTemplate, "parse %s", name)
	}
	return tmpl, nil
}

func execFragment(tmpl *template.Template, data interface{}) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", errors.MarkStagef(err, errors.ErrTemplate, "execute %s", tmpl.Name())
	}
	return sb.String(), nil
}
