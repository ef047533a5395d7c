package generate

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/opgen/errors"
)

// stampPlaceholder stands in for the generation time during a check so the
// timestamp line can be matched against any time already in the file.
const stampPlaceholder = "@@GENERATED_AT@@"

// CheckResult holds the outcome of comparing a fresh render with an
// existing output file.
type CheckResult struct {
	Output   string
	UpToDate bool
	// Line is the first differing line, 1-based; 0 when up to date
	Line int
	// Want is the freshly rendered line, Got the line found in the file
	Want string
	Got  string
}

// Check renders in memory and compares the result with o.Output, ignoring
// the generation timestamp. A stale or missing file returns the result
// together with an ErrOutOfDate error.
func Check(ctx context.Context, o Options) (*CheckResult, error) {
	if o.Output == "" || o.Output == "-" {
		return nil, errors.WithHint(errors.New("check needs an output file"), "pass the generated file with -o")
	}

	r, err := renderWith(ctx, o, func() (string, error) { return stampPlaceholder, nil })
	if err != nil {
		return nil, err
	}

	fresh := r.Content
	if r.Target.Formatter != "" && !o.SkipFormat {
		fresh, err = formatInTemp(ctx, r.Target.Formatter, o.Output, fresh)
		if err != nil {
			return nil, err
		}
	}

	res := &CheckResult{Output: o.Output}

	existing, err := os.ReadFile(o.Output)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.MarkStagef(err, errors.ErrOutputWrite, "read %s", o.Output)
		}
		res.Line = 1
		return res, errors.WithHint(
			errors.NewStagef(errors.ErrOutOfDate, "%s does not exist", o.Output),
			"run opgen without check to generate it")
	}

	res.Line, res.Want, res.Got = firstDifference(splitLines(fresh), splitLines(string(existing)))
	if res.Line == 0 {
		res.UpToDate = true
		return res, nil
	}
	return res, errors.WithHint(
		errors.NewStagef(errors.ErrOutOfDate, "%s is out of date at line %d", o.Output, res.Line),
		"regenerate it with the same arguments without check")
}

// firstDifference returns the 1-based index of the first line that does not
// match, with the expected and actual text, or 0 when all lines match.
func firstDifference(want, got []string) (int, string, string) {
	n := len(want)
	if len(got) > n {
		n = len(got)
	}
	for i := 0; i < n; i++ {
		var w, g string
		if i < len(want) {
			w = want[i]
		}
		if i < len(got) {
			g = got[i]
		}
		if i >= len(want) || i >= len(got) || !linesMatch(w, g) {
			return i + 1, w, g
		}
	}
	return 0, "", ""
}

// linesMatch compares one line, letting the timestamp placeholder match
// any text.
func linesMatch(want, got string) bool {
	idx := strings.Index(want, stampPlaceholder)
	if idx < 0 {
		return want == got
	}
	prefix := want[:idx]
	suffix := want[idx+len(stampPlaceholder):]
	return len(got) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(got, prefix) &&
		strings.HasSuffix(got, suffix)
}

func splitLines(content string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// formatInTemp runs the formatter on a temp copy that keeps the output's
// extension, so formatters that pick a style by file name behave the same.
func formatInTemp(ctx context.Context, formatter, output, content string) (string, error) {
	dir, err := os.MkdirTemp("", "opgen-check-")
	if err != nil {
		return "", errors.Wrap(err, "create temp directory")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(output))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.Wrap(err, "write temp file")
	}
	if err := runFormatter(ctx, formatter, path); err != nil {
		return "", err
	}
	formatted, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read formatted temp file")
	}
	return string(formatted), nil
}
