package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits after the last change before
// solving again.
var WatchDebounce = 300 * time.Millisecond

var watchedExtensions = map[string]bool{
	".cue":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".star": true,
}

// Watch runs the problem file at path, then runs it again whenever a problem
// or script file in its directory changes. Each outcome is passed to
// onResult. Runs are sequential. Watch returns when ctx is done.
func (r *Runner) Watch(ctx context.Context, path string, ov Overrides, onResult func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logger := r.tel.Logger.WithField("path", path)
	logger.Info("Watching problem for changes")

	solve := func() {
		result, err := r.RunFile(ctx, path, ov)
		onResult(result, err)
	}
	solve()

	var (
		timer *time.Timer
		rerun <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !watchedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			logger.WithField("file", event.Name).Debug("Problem file changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(WatchDebounce)
			rerun = timer.C

		case <-rerun:
			rerun = nil
			logger.Info("Solving again")
			solve()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Error("Watcher error")
		}
	}
}
