package generate

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

var fixedNow = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

// Each archive under testdata holds the input files, an optional "want"
// file with the exact expected output or an "error" file with a substring
// of the expected error. key=value lines in the archive comment set options.
func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, path := range archives {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			dir := t.TempDir()
			var want, wantErr string
			var haveWant bool
			for _, f := range ar.Files {
				switch f.Name {
				case "want":
					want, haveWant = string(f.Data), true
				case "error":
					wantErr = strings.TrimSpace(string(f.Data))
				default:
					require.NoError(t, os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0644))
				}
			}
			require.True(t, haveWant != (wantErr != ""), "archive needs exactly one of want or error")

			opts := archiveOptions(t, string(ar.Comment), dir)
			opts.Output = filepath.Join(dir, "out", "generated")
			opts.Now = fixedNow

			_, err = Run(context.Background(), opts)
			if wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), wantErr)
				assert.NoFileExists(t, opts.Output)
				return
			}
			require.NoError(t, err)

			got, err := os.ReadFile(opts.Output)
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		})
	}
}

func archiveOptions(t *testing.T, comment, dir string) Options {
	t.Helper()
	opts := Options{Input: filepath.Join(dir, "input.yaml")}

	for _, line := range strings.Split(comment, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "input":
			opts.Input = filepath.Join(dir, value)
		case "template":
			if _, err := os.Stat(filepath.Join(dir, value)); err == nil {
				value = filepath.Join(dir, value)
			}
			opts.Template = value
		case "target":
			opts.Target = value
		case "prefix":
			opts.Prefix = &value
		case "name":
			opts.Name = &value
		case "key":
			opts.Key = value
		case "indent_step":
			n, err := strconv.Atoi(value)
			require.NoError(t, err)
			opts.IndentStep = n
		default:
			t.Fatalf("unknown archive option %q", key)
		}
	}
	return opts
}
