package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/opgen/errors"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"c", "cpp", "rust"}, r.Names())

	tests := []struct {
		name      string
		want      string
		separator string
		depth     int
	}{
		{"c", "c", ",\n", 1},
		{"h", "c", ",\n", 1},
		{"cpp", "cpp", ",\n", 1},
		{"C++", "cpp", ",\n", 1},
		{" hpp ", "cpp", ",\n", 1},
		{"rust", "rust", ";\n", 0},
		{"rs", "rust", ";\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, r.Has(tt.name))
			target, err := r.Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, target.Name)
			assert.Equal(t, "OPCODE_", target.Prefix)
			assert.Equal(t, tt.separator, target.Separator)
			assert.Equal(t, tt.depth, target.IndentDepth)
			assert.True(t, IsBuiltinTemplate(target.Template))
		})
	}

	assert.Equal(t, []string{"c++", "cxx", "hpp"}, r.Aliases("cpp"))
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("cobol"))

	_, err := r.Resolve("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownTarget))
	assert.Contains(t, errors.FlattenHints(err), "c, cpp, rust")
}

func TestRegistryPatchBuiltin(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Patch("cpp", Patch{
		Prefix:      strPtr("OP_"),
		IndentDepth: intPtr(2),
		Formatter:   strPtr("clang-format -i"),
	}))

	target, err := r.Resolve("c++")
	require.NoError(t, err)
	assert.Equal(t, "OP_", target.Prefix)
	assert.Equal(t, 2, target.IndentDepth)
	assert.Equal(t, "clang-format -i", target.Formatter)
	assert.Equal(t, "_GeneratedOpCodes", target.Container, "unset fields keep the built-in value")
	assert.Equal(t, "cpp", target.Template)
}

func TestRegistryPatchNewTarget(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Patch("zig", Patch{
		Template:  strPtr("templates/zig.tmpl"),
		Container: strPtr("OpCode"),
		Line:      strPtr("{{.Ident}} = {{.Code}}"),
	}))
	target, err := r.Resolve("zig")
	require.NoError(t, err)
	assert.Equal(t, "zig", target.Name)
	assert.Equal(t, DefaultAliasComment, target.AliasComment)
	assert.Equal(t, DefaultSeparator, target.Separator)
	assert.Equal(t, "", target.Prefix)

	require.NoError(t, r.Patch("c99", Patch{Base: strPtr("h"), Container: strPtr("isa_op")}))
	target, err = r.Resolve("c99")
	require.NoError(t, err)
	assert.Equal(t, "c", target.Template)
	assert.Equal(t, "isa_op", target.Container)
	assert.Equal(t, 1, target.IndentDepth)

	assert.Equal(t, []string{"c", "c99", "cpp", "rust", "zig"}, r.Names())
}

func TestRegistryPatchErrors(t *testing.T) {
	r := NewRegistry()

	err := r.Patch("x", Patch{Base: strPtr("fortran")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownTarget))

	err = r.Patch("y", Patch{Prefix: strPtr("Y_")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTemplateNotFound))
	assert.False(t, r.Has("y"))
}

func TestPatchApplyKeepsUnset(t *testing.T) {
	base := Target{Name: "t", Prefix: "P_", Separator: ";", IndentDepth: 3}
	got := Patch{Separator: strPtr(",\n")}.Apply(base)

	assert.Equal(t, "P_", got.Prefix)
	assert.Equal(t, ",\n", got.Separator)
	assert.Equal(t, 3, got.IndentDepth)
}
