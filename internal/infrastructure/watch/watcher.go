package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// ChangeEvent is the last filesystem change of a debounced burst.
type ChangeEvent struct {
	Path       string
	ChangeType string // "create", "write", "remove", "rename"
}

// FSWatcher watches directories and reports debounced changes of the paths
// its filter accepts.
type FSWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filter   *PatternFilter
	onChange func(ChangeEvent)
	logger   *slog.Logger
}

func NewFSWatcher(debounce time.Duration, onChange func(ChangeEvent)) (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FSWatcher{
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
		logger:   slog.Default(),
	}, nil
}

// SetLogger replaces the default logger.
func (w *FSWatcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		w.logger = logger
	}
}

// SetFilter restricts reported changes to matching paths.
func (w *FSWatcher) SetFilter(f *PatternFilter) {
	w.filter = f
}

// Watch adds one directory (not its subdirectories).
func (w *FSWatcher) Watch(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// WatchFile watches the directory containing path and only reports changes
// of that file. Watching the directory keeps the watch alive when the file
// is replaced by a rename.
func (w *FSWatcher) WatchFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	w.SetFilter(FileFilter(abs))
	return w.Watch(filepath.Dir(abs))
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *FSWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	// The timer goroutine only signals; last is owned by this loop.
	fired := make(chan struct{}, 1)
	var last ChangeEvent
	debouncer := NewDebouncer(w.debounce, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-fired:
			if w.onChange != nil {
				w.onChange(last)
			}
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" || !w.filter.Matches(event.Name) {
				continue
			}
			w.logger.Debug("data file changed", "path", event.Name, "op", changeType)
			last = ChangeEvent{Path: event.Name, ChangeType: changeType}
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
