package tui

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/stefanpenner/pulse/pkg/logging"
)

const debounce = 200 * time.Millisecond

// isDataFile reports whether a change to name can alter the loaded workspace.
func isDataFile(name string) bool {
	switch filepath.Ext(name) {
	case ".md", ".yaml", ".yml":
		return true
	}
	return false
}

// skipDir reports whether a directory below the data root should go unwatched.
// Hidden directories and the log directory never hold workspace data.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "logs"
}

// watchTree registers root and every non-skipped directory beneath it.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// StartWatcher sends FileChangedMsg to program whenever task or user files
// under root change, coalescing bursts of events. The returned func stops it.
func StartWatcher(root string, program *tea.Program, logger *slog.Logger) (func(), error) {
	log := logging.OrDiscard(logger)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watchTree(w, root); err != nil {
		w.Close()
		return nil, err
	}

	stop := make(chan struct{})
	go func() {
		var pending *time.Timer
		notify := func() {
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, func() { program.Send(FileChangedMsg{}) })
		}

		for {
			select {
			case <-stop:
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("file watcher error", "err", err)
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) && !skipDir(filepath.Base(ev.Name)) {
					// new task directories need watching too
					if err := watchTree(w, ev.Name); err != nil {
						log.Debug("watch new path", "path", ev.Name, "err", err)
					}
				}
				if isDataFile(ev.Name) {
					notify()
				}
			}
		}
	}()

	return func() {
		close(stop)
		w.Close()
	}, nil
}
