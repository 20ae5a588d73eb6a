package sheets

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	appLog "sheetcal/internal/log"
)

// Watch calls onChange whenever a CSV file in dir is written, created,
// renamed or removed. It returns once the watcher is registered; events are
// delivered from a goroutine until ctx is done.
func Watch(ctx context.Context, dir string, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Ext(evt.Name), ".csv") {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					appLog.Debug("sheet changed", "file", evt.Name, "op", evt.Op.String())
					onChange(evt.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				appLog.Error("sheet watcher error", err, "dir", dir)
			}
		}
	}()
	return nil
}
