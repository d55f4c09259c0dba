package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of filesystem events (a package install
// touches many files) into one notification.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports when generator packages may have been added, removed or
// changed under a set of directories.
type Watcher struct {
	Changes <-chan struct{} // Read-only external channel

	changes  chan struct{}
	done     chan struct{}
	debounce time.Duration
	watcher  *fsnotify.Watcher

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
}

// NewWatcher creates a watcher; call Start to begin delivering changes.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ch := make(chan struct{}, 1)
	return &Watcher{
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Add watches dir. A missing dir is covered by watching its nearest existing
// parent, so its creation is reported.
func (w *Watcher) Add(dir string) error {
	target, err := watchTarget(dir)
	if err != nil || target == "" {
		return err
	}
	if err := w.watcher.Add(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// watchTarget returns dir, or its nearest existing ancestor when dir is
// missing. It returns "" when nothing up to the root exists.
func watchTarget(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		_, err := os.Stat(abs)
		if err == nil {
			return abs, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}
		abs = parent
	}
}

// Sync makes the watched set equal dirs, with missing dirs replaced by their
// nearest existing parent. Call it again after a change to pick up dirs that
// were created since.
func (w *Watcher) Sync(dirs []string) error {
	want := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		target, err := watchTarget(d)
		if err != nil {
			return err
		}
		if target != "" {
			want[target] = struct{}{}
		}
	}
	for _, d := range w.watcher.WatchList() {
		if _, ok := want[d]; !ok {
			_ = w.watcher.Remove(d)
		}
	}
	for d := range want {
		if err := w.watcher.Add(d); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Start begins the event loop. Calls after the first are no-ops.
func (w *Watcher) Start() {
	w.startOnce.Do(func() {
		w.started = true
		go w.loop()
	})
}

// Stop closes the watcher and the Changes channel. It is safe to call
// without Start and more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.watcher.Close()
		// A later Start must not launch the loop.
		w.startOnce.Do(func() {})
		if w.started {
			<-w.done // Wait for loop to exit
		}
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// A notification is already pending.
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}
