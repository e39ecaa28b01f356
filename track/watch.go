package track

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow suppresses the event bursts editors produce on save.
const debounceWindow = 100 * time.Millisecond

// Watcher reports changes to music files under the resolver roots so a
// running game can re-request the playing track during development.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// run forwards events until Close. It owns the outbound channels: they are
// closed here, never from Close, so a send can't outlive them. Every send
// also watches closeCh in case no one is draining.
func (w *Watcher) run() {
	defer close(w.Errors)
	defer close(w.Events)

	deb := newDebouncer(debounceWindow)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isMusicFile(event.Name) {
				continue
			}
			if !deb.admit(event.Name, time.Now()) {
				continue
			}
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

// debouncer drops repeat events for the same path inside the window,
// collapsing the bursts editors produce on save into one event.
type debouncer struct {
	window time.Duration
	last   map[string]time.Time
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, last: make(map[string]time.Time)}
}

func (d *debouncer) admit(name string, now time.Time) bool {
	if t, ok := d.last[name]; ok && now.Sub(t) < d.window {
		return false
	}
	d.last[name] = now
	return true
}

func isMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg", ".wav", ".mp3":
		return true
	}
	return false
}
