package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/studyplan/internal/logger"
)

// WatchDelay is how long Watch waits for a burst of writes to settle before
// signalling.
const WatchDelay = 150 * time.Millisecond

// Watch signals on the returned channel whenever the store at path changes
// on disk. path may be a file (JSON or SQLite store) or a directory (diskv
// store). The channel is closed when ctx is done.
func Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}

	// Watch the parent directory of single-file stores: atomic renames
	// replace the inode, which drops a watch placed on the file itself.
	var dirs []string
	match := func(string) bool { return true }
	if info.IsDir() {
		dirs, err = collectDirs(path)
		if err != nil {
			watcher.Close()
			return nil, err
		}
	} else {
		dirs = []string{filepath.Dir(path)}
		base := filepath.Base(path)
		match = func(name string) bool {
			n := filepath.Base(name)
			return n == base || strings.HasPrefix(n, base+"-")
		}
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan struct{}, 1)
	go func() {
		var (
			mu      sync.Mutex
			timer   *time.Timer
			stopped bool
		)
		defer close(events)
		defer watcher.Close()
		defer func() {
			mu.Lock()
			stopped = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		notify := func() {
			mu.Lock()
			defer mu.Unlock()
			if timer != nil {
				return
			}
			timer = time.AfterFunc(WatchDelay, func() {
				mu.Lock()
				defer mu.Unlock()
				timer = nil
				if stopped {
					return
				}
				select {
				case events <- struct{}{}:
				default:
				}
			})
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Store watcher error", "error", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if strings.HasSuffix(evt.Name, ".tmp") || !match(evt.Name) {
					continue
				}
				if evt.Op&fsnotify.Create != 0 && info.IsDir() {
					if st, err := os.Stat(evt.Name); err == nil && st.IsDir() {
						_ = watcher.Add(evt.Name)
					}
				}
				notify()
			}
		}
	}()

	return events, nil
}

// collectDirs walks base and returns every directory to watch.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	return dirs, nil
}
