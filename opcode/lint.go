package opcode

import "fmt"

// Warning reports a suspicious but renderable definition.
type Warning struct {
	// Index of the definition that triggered the warning
	Index int
	Ident string
	Name  string
	// Other is the earlier raw name that formats to the same identifier
	Other string
}

func (w Warning) String() string {
	return fmt.Sprintf("definition %d: %q formats to %s, already used by %q", w.Index, w.Name, w.Ident, w.Other)
}

// Lint returns a warning for every name whose formatted identifier was
// already produced by an earlier name. It never rejects input.
func Lint(defs []Definition, prefix string) []Warning {
	var warnings []Warning
	seen := make(map[string]string)

	for i, def := range defs {
		for _, name := range def.Name.Names() {
			ident := FormatName(name, prefix)
			if other, dup := seen[ident]; dup {
				warnings = append(warnings, Warning{Index: i, Ident: ident, Name: name, Other: other})
				continue
			}
			seen[ident] = name
		}
	}
	return warnings
}
