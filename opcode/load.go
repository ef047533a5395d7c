package opcode

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/opgen/errors"
)

// Format is the structured-data syntax of a definitions file.
type Format int

const (
	FormatYAML Format = iota // also accepts JSON, which is valid YAML
	FormatTOML
)

func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// FormatFor picks the decoder from the file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// LoadOptions controls how a definitions file is read.
type LoadOptions struct {
	// Key is the top-level list key; DefaultKey when empty
	Key string
	// Version is the running generator version checked against `requires`
	Version string
}

func (o LoadOptions) key() string {
	if o.Key == "" {
		return DefaultKey
	}
	return o.Key
}

// Load reads and decodes the definitions file at path.
// Missing or unreadable files fail with ErrInputNotFound, malformed content
// with ErrParse. Any malformed entry fails the whole load.
func Load(path string, opts LoadOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.MarkStagef(err, errors.ErrInputNotFound, "read definitions %s", path),
			"check the input path; it is resolved relative to the working directory")
	}

	doc, err := Decode(data, FormatFor(path), opts.key())
	if err != nil {
		return nil, errors.MarkStagef(err, errors.ErrParse, "parse definitions %s", path)
	}
	doc.Path = path

	if err := CheckRequires(doc.Requires, opts.Version); err != nil {
		return nil, errors.Wrapf(err, "definitions %s", path)
	}

	return doc, nil
}

// Decode parses definitions from data in the given format.
func Decode(data []byte, format Format, key string) (*Document, error) {
	if key == "" {
		key = DefaultKey
	}
	if format == FormatTOML {
		return decodeTOML(data, key)
	}
	return decodeYAML(data, key)
}

func decodeYAML(data []byte, key string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.Newf("empty document, expected top-level key %q", key)
	}

	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, errors.Newf("line %d: top level must be a mapping with key %q", top.Line, key)
	}

	doc := &Document{}
	var list *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		k, v := top.Content[i], resolve(top.Content[i+1])
		switch k.Value {
		case key:
			list = v
		case "requires":
			if v.Kind != yaml.ScalarNode {
				return nil, errors.Newf("line %d: requires must be a version constraint string", v.Line)
			}
			doc.Requires = v.Value
		}
	}

	if list == nil {
		return nil, errors.Newf("missing top-level key %q", key)
	}
	if isNull(list) {
		return doc, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, errors.Newf("line %d: %q must be a list", list.Line, key)
	}

	doc.Definitions = make([]Definition, 0, len(list.Content))
	for i, entry := range list.Content {
		var def Definition
		if err := def.UnmarshalYAML(entry); err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", key, i)
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	return doc, nil
}

// UnmarshalYAML decodes one entry. The code keeps its source text, so an
// unquoted 0x01 stays "0x01".
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return errors.Newf("line %d: definition must be a mapping with name and code", node.Line)
	}

	var haveCode bool
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], resolve(node.Content[i+1])
		switch k.Value {
		case "name":
			name, err := nameFromYAML(v)
			if err != nil {
				return err
			}
			d.Name = name
		case "code":
			if v.Kind != yaml.ScalarNode || isNull(v) {
				return errors.Newf("line %d: code must be a scalar value", v.Line)
			}
			d.Code = v.Value
			haveCode = true
		}
	}

	if d.Name == nil {
		return errors.Newf("line %d: missing name", node.Line)
	}
	if !haveCode {
		return errors.Newf("line %d: missing code", node.Line)
	}
	return nil
}

func nameFromYAML(v *yaml.Node) (NameSpec, error) {
	switch v.Kind {
	case yaml.ScalarNode:
		if isNull(v) {
			return nil, errors.Newf("line %d: name must not be empty", v.Line)
		}
		return Single(v.Value), nil
	case yaml.SequenceNode:
		if len(v.Content) == 0 {
			return nil, errors.Newf("line %d: alias list must not be empty", v.Line)
		}
		names := make(Aliased, 0, len(v.Content))
		for _, item := range v.Content {
			item = resolve(item)
			if item.Kind != yaml.ScalarNode || isNull(item) {
				return nil, errors.Newf("line %d: alias must be a string", item.Line)
			}
			names = append(names, item.Value)
		}
		return names, nil
	}
	return nil, errors.Newf("line %d: name must be a string or a list of strings", v.Line)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func decodeTOML(data []byte, key string) (*Document, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}

	doc := &Document{}
	if req, ok := raw["requires"]; ok {
		s, ok := req.(string)
		if !ok {
			return nil, errors.New("requires must be a version constraint string")
		}
		doc.Requires = s
	}

	value, ok := raw[key]
	if !ok {
		return nil, errors.Newf("missing top-level key %q", key)
	}

	var entries []map[string]interface{}
	switch list := value.(type) {
	case []map[string]interface{}:
		entries = list
	case []interface{}:
		for i, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.Newf("%s[%d]: definition must be a table with name and code", key, i)
			}
			entries = append(entries, m)
		}
	default:
		return nil, errors.Newf("%q must be an array of tables", key)
	}

	doc.Definitions = make([]Definition, 0, len(entries))
	for i, m := range entries {
		def, err := definitionFromTOML(m)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", key, i)
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	return doc, nil
}

func definitionFromTOML(m map[string]interface{}) (Definition, error) {
	var def Definition

	switch name := m["name"].(type) {
	case nil:
		return def, errors.New("missing name")
	case string:
		def.Name = Single(name)
	case []interface{}:
		if len(name) == 0 {
			return def, errors.New("alias list must not be empty")
		}
		names := make(Aliased, 0, len(name))
		for _, n := range name {
			s, ok := n.(string)
			if !ok {
				return def, errors.Newf("alias %v must be a string", n)
			}
			names = append(names, s)
		}
		def.Name = names
	default:
		return def, errors.Newf("name must be a string or an array of strings, got %T", name)
	}

	switch code := m["code"].(type) {
	case nil:
		return def, errors.New("missing code")
	case string:
		def.Code = code
	case int64:
		// TOML has already lost the literal form (0x01 vs 1); quote codes to keep it
		def.Code = strconv.FormatInt(code, 10)
	default:
		return def, errors.Newf("code must be a string or an integer, got %T", code)
	}

	return def, nil
}
