package generator

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
	"github.com/teranos/tscli/emit"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
)

const defaultDebounce = 200 * time.Millisecond

// Watch generates entry, then regenerates whenever one of the source files
// it was derived from changes, until ctx is done. Failed runs are logged
// and watching continues. After the first successful write the output is
// overwritten without asking.
func (g *Generator) Watch(ctx context.Context, entry string) error {
	if IsStdin(entry) {
		return errors.WithHint(
			errors.New("watch mode needs a source file"),
			"pass the entry path instead of piping the source",
		)
	}

	sw, err := newSourceWatcher(g.debounce)
	if err != nil {
		return err
	}
	defer sw.Close()
	go sw.loop(ctx)

	force := g.cfg.Force
	run := func() error {
		b, err := g.Build(entry)
		var env *emit.Envelope
		if err == nil {
			env, err = g.emit(b, force)
		}

		files := []string{g.abs(entry)}
		if b != nil {
			files = b.Files
		}
		if terr := sw.track(files); terr != nil {
			logger.Warnw("Failed to watch sources", logger.FieldError, terr.Error())
		}

		if g.notify != nil {
			g.notify(env, err)
		}
		if err != nil {
			return err
		}
		if b.Destination != "" {
			force = true
		}
		return nil
	}

	if err := run(); err != nil {
		if errors.Is(err, errors.ErrCanceled) {
			return err
		}
		logger.Errorw("Generation failed", logger.FieldFile, entry, logger.FieldError, err.Error())
	}
	logger.Infow("Watching for changes", logger.FieldFile, entry, logger.FieldCount, sw.count())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sw.changes:
			if err := run(); err != nil {
				logger.Errorw("Generation failed", logger.FieldFile, entry, logger.FieldError, err.Error())
				continue
			}
			if logger.ShouldOutput(g.cfg.Verbose, logger.OutputWatch) {
				pterm.Info.WithWriter(g.stderr).Printfln("Regenerated from %s", entry)
			}
		}
	}
}

// sourceWatcher reports debounced changes to a set of files. Directories
// are watched so that editors replacing a file by rename are noticed.
type sourceWatcher struct {
	watcher        *fsnotify.Watcher
	mu             sync.Mutex
	files          map[string]bool
	dirs           map[string]bool
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	changes        chan struct{}
}

func newSourceWatcher(period time.Duration) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if period <= 0 {
		period = defaultDebounce
	}
	return &sourceWatcher{
		watcher:        watcher,
		files:          make(map[string]bool),
		dirs:           make(map[string]bool),
		debouncePeriod: period,
		changes:        make(chan struct{}, 1),
	}, nil
}

// track replaces the watched file set. Directories stay watched once added.
func (sw *sourceWatcher) track(files []string) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.files = make(map[string]bool, len(files))
	var errs error
	for _, f := range files {
		f = filepath.Clean(f)
		sw.files[f] = true
		dir := filepath.Dir(f)
		if sw.dirs[dir] {
			continue
		}
		if err := sw.watcher.Add(dir); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "failed to watch %s", dir))
			continue
		}
		sw.dirs[dir] = true
	}
	return errs
}

func (sw *sourceWatcher) count() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.files)
}

func (sw *sourceWatcher) tracked(path string) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.files[filepath.Clean(path)]
}

func (sw *sourceWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Generated output lives next to the sources but is never tracked
			if !sw.tracked(event.Name) {
				continue
			}
			logger.Debugw("Source changed", logger.FieldFile, event.Name, "op", event.Op.String())
			sw.schedule()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Source watcher error", logger.FieldError, err.Error())
		}
	}
}

// schedule restarts the debounce timer.
func (sw *sourceWatcher) schedule() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.debounceTimer = time.AfterFunc(sw.debouncePeriod, func() {
		select {
		case sw.changes <- struct{}{}:
		default:
		}
	})
}

func (sw *sourceWatcher) Close() error {
	sw.mu.Lock()
	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.mu.Unlock()
	return sw.watcher.Close()
}
