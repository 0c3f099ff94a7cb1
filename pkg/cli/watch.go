package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch reruns generation after .proto files under the proto paths change.
// Changes arriving within the debounce delay are folded into one run.
func (g *generator) watch(ctx context.Context, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range g.opts.protoPaths {
		if err := setupWatcher(watcher, root); err != nil {
			return err
		}
	}
	g.log.WithField("paths", g.opts.protoPaths).Info("Watching for proto file changes")

	delay := g.opts.debounce
	if delay <= 0 {
		delay = time.Millisecond
	}
	timer := time.NewTimer(delay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := setupWatcher(watcher, event.Name); err != nil {
						g.log.WithError(err).WithField("dir", event.Name).Warn("Failed to watch new directory")
					}
					continue
				}
			}
			if isProtoChange(event) {
				g.log.WithField("file", event.Name).Debug("Proto file changed")
				timer.Reset(delay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.log.WithError(err).Warn("Watcher error")
		case <-timer.C:
			if err := g.run(ctx, files); err != nil {
				g.log.WithError(err).Error("Generation failed")
			}
		}
	}
}

func isProtoChange(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".proto" {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// setupWatcher recursively adds all directories to the watcher
func setupWatcher(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
