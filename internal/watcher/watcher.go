// Package watcher reports edits to the configuration file.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// ConfigWatcher watches a single file and calls onChange after it settles.
// The callback runs on a timer goroutine; it must not block for long.
type ConfigWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	stopChan chan struct{}
	done     chan struct{}
	onChange func(path string)
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher. A zero debounce uses DefaultDebounce.
func New(onChange func(path string), debounce time.Duration, logger *slog.Logger) *ConfigWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigWatcher{onChange: onChange, debounce: debounce, logger: logger}
}

// Watch starts watching path, replacing any previous watch.
func (cw *ConfigWatcher) Watch(path string) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.stopLocked()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: editors often save by renaming a temp file over
	// the target, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	cw.watcher = watcher
	cw.path = abs
	cw.stopChan = make(chan struct{})
	cw.done = make(chan struct{})

	go cw.watchLoop(watcher, abs, cw.stopChan, cw.done)

	cw.logger.Debug("watching config file", slog.String("path", abs))
	return nil
}

// Path returns the watched file, or "" when idle.
func (cw *ConfigWatcher) Path() string {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.path
}

// Stop stops watching. It is safe to call more than once.
func (cw *ConfigWatcher) Stop() {
	cw.mu.Lock()
	done := cw.done
	cw.stopLocked()
	cw.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (cw *ConfigWatcher) stopLocked() {
	if cw.stopChan != nil {
		close(cw.stopChan)
		cw.stopChan = nil
	}
	if cw.watcher != nil {
		cw.watcher.Close()
		cw.watcher = nil
	}
	cw.path = ""
	cw.done = nil
}

func (cw *ConfigWatcher) watchLoop(watcher *fsnotify.Watcher, target string, stopChan <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-stopChan:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(cw.debounce, func() {
				select {
				case <-stopChan:
					return
				default:
				}
				// A remove without a recreate leaves nothing to reload.
				if _, err := os.Stat(target); err != nil {
					return
				}
				cw.logger.Debug("config file changed", slog.String("path", target))
				if cw.onChange != nil {
					cw.onChange(target)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("config watcher error", slog.Any("err", err))
		}
	}
}
