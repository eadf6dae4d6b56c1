package convert

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thywilljoshua/cv-reformat/internal/errors"
	"github.com/thywilljoshua/cv-reformat/internal/logfields"
)

// DefaultDebounce collapses editor save bursts into one run.
const DefaultDebounce = 500 * time.Millisecond

// Watch runs cfg once, then again each time one of its input files changes,
// until ctx is done. Events closer together than debounce trigger a single
// run. Every run's outcome goes to report; run errors do not stop the watch.
func Watch(ctx context.Context, cfg Config, debounce time.Duration, report func(Result, error)) error {
	log := logger(cfg.Logger)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := cfg.resolve(); err != nil {
		return err
	}
	// Output already includes OutDir; Run must not join it again.
	cfg.OutDir = ""

	watched := map[string]bool{}
	for _, p := range []string{cfg.Input, cfg.Fields, cfg.Template, cfg.StyleProfile, cfg.SectionProfile, cfg.Rules} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve path").
				WithContext("path", p).
				Build()
		}
		watched[abs] = true
	}
	// Writing the output must not trigger another run.
	if out, err := filepath.Abs(cfg.Output); err == nil {
		delete(watched, out)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	defer w.Close()

	// Watch directories rather than files so editors that replace files on
	// save keep being seen.
	dirs := map[string]bool{}
	for p := range watched {
		dirs[filepath.Dir(p)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", d).
				Build()
		}
	}
	log.Info("Watching inputs", logfields.Count(len(watched)))

	report(Run(ctx, cfg))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug("Input changed", logfields.Path(abs))
			fire = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			report(Run(ctx, cfg))
		}
	}
}
