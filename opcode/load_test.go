package opcode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/opgen/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "ops.yaml", `
opcodes:
  - name: nop
    code: "0x00"
  - name: [add, plus]
    code: 0x01
  - name: [ld.b]
    code: 7
`)

	doc, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Definitions, 3)
	assert.Equal(t, path, doc.Path)

	assert.Equal(t, Single("nop"), doc.Definitions[0].Name)
	assert.Equal(t, "0x00", doc.Definitions[0].Code)

	assert.Equal(t, Aliased{"add", "plus"}, doc.Definitions[1].Name)
	assert.Equal(t, "0x01", doc.Definitions[1].Code, "unquoted hex keeps its source text")

	assert.Equal(t, Aliased{"ld.b"}, doc.Definitions[2].Name)
	assert.Equal(t, "7", doc.Definitions[2].Code)
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeFile(t, "ops.yml", `
opcodes:
  - {name: z, code: "3"}
  - {name: a, code: "1"}
  - {name: [m, b, k], code: "2"}
`)

	doc, err := Load(path, LoadOptions{})
	require.NoError(t, err)

	var names []string
	for _, d := range doc.Definitions {
		names = append(names, d.Name.Names()...)
	}
	assert.Equal(t, []string{"z", "a", "m", "b", "k"}, names)
}

func TestLoadCustomKey(t *testing.T) {
	path := writeFile(t, "ops.yaml", `
mnemonics:
  - name: halt
    code: "0xff"
`)

	_, err := Load(path, LoadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParse))
	assert.Contains(t, err.Error(), `missing top-level key "opcodes"`)

	doc, err := Load(path, LoadOptions{Key: "mnemonics"})
	require.NoError(t, err)
	require.Len(t, doc.Definitions, 1)
	assert.Equal(t, Single("halt"), doc.Definitions[0].Name)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "ops.json", `{"opcodes": [{"name": ["jmp", "goto"], "code": "0x10"}]}`)

	doc, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Definitions, 1)
	assert.Equal(t, Aliased{"jmp", "goto"}, doc.Definitions[0].Name)
	assert.Equal(t, "0x10", doc.Definitions[0].Code)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "ops.toml", `
requires = ">= 0.1.0"

[[opcodes]]
name = "nop"
code = "0x00"

[[opcodes]]
name = ["add", "plus"]
code = 1
`)

	doc, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, ">= 0.1.0", doc.Requires)
	require.Len(t, doc.Definitions, 2)
	assert.Equal(t, Single("nop"), doc.Definitions[0].Name)
	assert.Equal(t, "0x00", doc.Definitions[0].Code)
	assert.Equal(t, Aliased{"add", "plus"}, doc.Definitions[1].Name)
	assert.Equal(t, "1", doc.Definitions[1].Code)
}

func TestLoadTOMLInlineArray(t *testing.T) {
	path := writeFile(t, "ops.toml", `opcodes = [{name = "ret", code = "0xc3"}]`)

	doc, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Definitions, 1)
	assert.Equal(t, "0xc3", doc.Definitions[0].Code)
}

func TestLoadEmptyList(t *testing.T) {
	path := writeFile(t, "ops.yaml", "opcodes:\n")

	doc, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, doc.Definitions)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), LoadOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInputNotFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "load", errors.Stage(err))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{"invalid yaml", "a.yaml", "opcodes: [\n", ""},
		{"empty document", "a.yaml", "", "empty document"},
		{"top level list", "a.yaml", "- name: a\n  code: 1\n", "top level must be a mapping"},
		{"not a list", "a.yaml", "opcodes: 3\n", `"opcodes" must be a list`},
		{"entry not mapping", "a.yaml", "opcodes:\n  - nop\n", "opcodes[0]"},
		{"missing name", "a.yaml", "opcodes:\n  - code: 1\n", "missing name"},
		{"missing code", "a.yaml", "opcodes:\n  - name: a\n  - name: b\n", "opcodes[0]: line 2: missing code"},
		{"null code", "a.yaml", "opcodes:\n  - name: a\n    code:\n", "code must be a scalar"},
		{"empty alias list", "a.yaml", "opcodes:\n  - name: []\n    code: 1\n", "alias list must not be empty"},
		{"nested alias", "a.yaml", "opcodes:\n  - name: [[a]]\n    code: 1\n", "alias must be a string"},
		{"map name", "a.yaml", "opcodes:\n  - name: {a: b}\n    code: 1\n", "name must be a string or a list"},
		{"second entry bad", "a.yaml", "opcodes:\n  - {name: a, code: 1}\n  - {name: b}\n", "opcodes[1]"},
		{"toml syntax", "a.toml", "opcodes = [\n", ""},
		{"toml missing key", "a.toml", "x = 1\n", `missing top-level key "opcodes"`},
		{"toml missing code", "a.toml", "[[opcodes]]\nname = \"a\"\n", "opcodes[0]: missing code"},
		{"toml bad name", "a.toml", "[[opcodes]]\nname = 3\ncode = \"1\"\n", "name must be a string"},
		{"toml bad code", "a.toml", "[[opcodes]]\nname = \"a\"\ncode = 1.5\n", "code must be a string or an integer"},
		{"toml empty aliases", "a.toml", "[[opcodes]]\nname = []\ncode = \"1\"\n", "alias list must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			_, err := Load(path, LoadOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrParse), "got %v", err)
			assert.Contains(t, err.Error(), "parse definitions")
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadYAMLAnchors(t *testing.T) {
	path := writeFile(t, "ops.yaml", `
common: &mov
  name: [mov, ld]
  code: "0x40"
opcodes:
  - *mov
`)

	doc, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Definitions, 1)
	assert.Equal(t, Aliased{"mov", "ld"}, doc.Definitions[0].Name)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatTOML, FormatFor("a/b.toml"))
	assert.Equal(t, FormatTOML, FormatFor("B.TOML"))
	assert.Equal(t, FormatYAML, FormatFor("a.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("a.json"))
	assert.Equal(t, FormatYAML, FormatFor("opcodes"))
	assert.Equal(t, "toml", FormatTOML.String())
	assert.Equal(t, "yaml", FormatYAML.String())
}
