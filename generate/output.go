package generate

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/opgen/errors"
)

// writeOutput writes content to path, or to w when path is empty or "-".
// The file is written to a sibling temp file first and renamed into place.
func writeOutput(path, content string, w io.Writer) error {
	if path == "" || path == "-" {
		if _, err := io.WriteString(w, content); err != nil {
			return errors.MarkStage(err, errors.ErrOutputWrite, "write output to stdout")
		}
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.MarkStagef(err, errors.ErrOutputWrite, "create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.MarkStagef(err, errors.ErrOutputWrite, "write output %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return errors.MarkStagef(err, errors.ErrOutputWrite, "write output %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.MarkStagef(err, errors.ErrOutputWrite, "write output %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.MarkStagef(err, errors.ErrOutputWrite, "write output %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.MarkStagef(err, errors.ErrOutputWrite, "write output %s", path)
	}
	return nil
}

// runFormatter runs a formatter command line on path. A "{}" argument is
// replaced by the path; otherwise the path is appended.
func runFormatter(ctx context.Context, command, path string) error {
	args, err := shellquote.Split(command)
	if err != nil {
		return errors.MarkStagef(err, errors.ErrInvalidConfig, "formatter %q", command)
	}
	if len(args) == 0 {
		return nil
	}

	substituted := false
	for i, a := range args {
		if a == "{}" {
			args[i] = path
			substituted = true
		}
	}
	if !substituted {
		args = append(args, path)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		err = errors.MarkStagef(err, errors.ErrOutputWrite, "format %s with %s", path, args[0])
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = errors.WithDetail(err, msg)
		}
		return err
	}
	return nil
}
