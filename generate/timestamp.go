package generate

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/teranos/opgen/errors"
	"github.com/teranos/opgen/logger"
)

// SourceDateEpochEnv is the reproducible-builds variable read in epoch mode.
const SourceDateEpochEnv = "SOURCE_DATE_EPOCH"

// generationTime returns the time stamped into the output, always in UTC.
func generationTime(o Options) (time.Time, error) {
	switch o.Timestamp {
	case "", TimestampNow:
		return o.now().UTC(), nil

	case TimestampEpoch:
		raw := os.Getenv(SourceDateEpochEnv)
		if raw == "" {
			logger.Named("generate").Warnw("SOURCE_DATE_EPOCH not set, using current time")
			return o.now().UTC(), nil
		}
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}, errors.MarkStagef(err, errors.ErrInvalidConfig, "%s=%q", SourceDateEpochEnv, raw)
		}
		return time.Unix(secs, 0).UTC(), nil

	case TimestampCommit:
		when, err := lastCommitTime(o.Input)
		if err != nil {
			logger.Named("generate").Warnw("no commit time for input, using current time",
				logger.FieldInput, o.Input,
				logger.FieldError, err.Error())
			return o.now().UTC(), nil
		}
		return when.UTC(), nil
	}

	_, err := ParseTimestampMode(string(o.Timestamp))
	return time.Time{}, err
}

// lastCommitTime returns the author time of the newest commit that touched
// path, searching for the repository from the file's directory upward.
func lastCommitTime(path string) (time.Time, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, err
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to open repository")
	}

	wt, err := repo.Worktree()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to open worktree")
	}

	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return time.Time{}, err
	}
	rel = filepath.ToSlash(rel)

	iter, err := repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to read log")
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "%s has no commits", rel)
	}
	return commit.Author.When, nil
}
