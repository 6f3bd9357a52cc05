package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports changes to a single file. It watches the parent
// directory so editors that save by replacing the file are still seen.
type fileWatcher struct {
	path string
	w    *fsnotify.Watcher
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &fileWatcher{path: abs, w: w}, nil
}

// run calls onChange once per burst of writes, after debounce has passed
// without a further event. It returns when ctx is done.
func (fw *fileWatcher) run(ctx context.Context, debounce time.Duration, onChange func()) error {
	defer fw.w.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", fw.path, err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}
