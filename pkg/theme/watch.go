package theme

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	loomerrors "github.com/loomtui/loom/pkg/errors"
	"github.com/loomtui/loom/pkg/logging"
)

// reloadDebounce coalesces the burst of events an editor save produces
// into a single reload.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads the theme file at path whenever it changes on disk and
// passes each successfully parsed theme to onChange. It returns once the
// watch is registered; the loop runs until ctx is cancelled. Parse and
// read failures are logged and the previous theme stays in effect.
func Watch(ctx context.Context, path string, logger *logging.Logger, onChange func(*Theme)) error {
	if logger == nil {
		logger = logging.Discard()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return loomerrors.Wrap(err, loomerrors.ErrCodeThemeWatch, "resolve theme path").
			WithContext("path", path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return loomerrors.Wrap(err, loomerrors.ErrCodeThemeWatch, "create file watcher")
	}

	// Watch the directory rather than the file: editors that save via
	// rename replace the inode, which silently ends a file-level watch.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return loomerrors.Wrap(err, loomerrors.ErrCodeThemeWatch, "watch theme directory").
			WithContext("path", abs)
	}

	go func() {
		defer fw.Close()

		var reload <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
					reload = time.After(reloadDebounce)
				}

			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.ThemeReloadFailed(abs, err)

			case <-reload:
				reload = nil
				th, err := Load(abs)
				if err != nil {
					logger.ThemeReloadFailed(abs, err)
					continue
				}
				logger.ThemeReloaded(abs)
				onChange(th)
			}
		}
	}()

	return nil
}
