// Package opcode loads opcode definitions from YAML or TOML files and
// formats their names into target-language identifiers.
package opcode

import "strings"

// DefaultKey is the canonical top-level key holding the definition list.
const DefaultKey = "opcodes"

// NameSpec is the name part of a definition: either a single name or an
// ordered list of aliases whose first member is the primary name.
// The variant is fixed at parse time.
type NameSpec interface {
	// Names returns all names in declaration order
	Names() []string
	// Primary returns the authoritative name
	Primary() string
	isNameSpec()
}

// Single is a definition with exactly one name.
type Single string

func (s Single) Names() []string { return []string{string(s)} }
func (s Single) Primary() string { return string(s) }
func (Single) isNameSpec()       {}

// Aliased is a non-empty list of names sharing one code.
type Aliased []string

func (a Aliased) Names() []string { return append([]string(nil), a...) }
func (a Aliased) Primary() string { return a[0] }
func (Aliased) isNameSpec()       {}

// Definition is one opcode entry.
type Definition struct {
	Name NameSpec
	// Code is the verbatim source text of the value, e.g. "0x01"
	Code string
}

// Document is a decoded definitions file.
type Document struct {
	// Path the document was loaded from
	Path string
	// Requires is an optional semver constraint on the generator version
	Requires    string
	Definitions []Definition
}

// FormatName turns a raw opcode name into an identifier: upper case,
// every '.' replaced by '_', prefix prepended.
func FormatName(name, prefix string) string {
	return prefix + strings.ReplaceAll(strings.ToUpper(name), ".", "_")
}
