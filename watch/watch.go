// Package watch reruns generation when the definition or template files change.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/opgen/errors"
	"github.com/teranos/opgen/logger"
)

// DefaultDebounce is used when a zero debounce is given.
const DefaultDebounce = 200 * time.Millisecond

// Func is called after the watched files settle.
type Func func(ctx context.Context) error

// Watcher watches a set of files for changes and calls a Func after each
// burst of writes.
//
// Directories are watched rather than the files themselves: editors often
// save by writing a new file and renaming it over the old one, which would
// drop a watch held on the original inode.
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.SugaredLogger

	// ran is signalled after each callback; tests use it to synchronise
	ran chan error
}

// New creates a watcher over paths. Every path must exist.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("watch: no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		watcher:  fw,
		debounce: debounce,
		log:      logger.Named("watch"),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "resolve %s", p)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
		dirs[dir] = true
	}

	return w, nil
}

// Run blocks until ctx is cancelled, calling fn once per settled burst of
// changes. Errors from fn are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	var fire <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("change detected",
				"file", event.Name,
				"op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			err := fn(ctx)
			if err != nil {
				w.log.Errorw("regeneration failed",
					logger.FieldStage, errors.Stage(err),
					logger.FieldError, err.Error())
			}
			if w.ran != nil {
				w.ran <- err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watcher error",
				logger.FieldError, err)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// relevant keeps writes and creates of the watched files only.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}

// Run watches paths until ctx is cancelled, calling fn after each change.
func Run(ctx context.Context, paths []string, debounce time.Duration, fn Func) error {
	w, err := New(paths, debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx, fn)
}
