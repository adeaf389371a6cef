package library

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openstream-dk/openstream/pkg/debug"
)

// Watcher defaults.
const (
	DefaultDebounceDuration = 250 * time.Millisecond
	DefaultPollInterval     = 2 * time.Second
)

// Common watcher errors.
var (
	ErrDirRemoved     = errors.New("watched directory was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnChange sets the callback invoked when the directory contents change.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher monitors a media directory using fsnotify, with a polling
// fallback for filesystems that don't deliver events. Rapid event bursts
// (a large copy into the directory) coalesce into one callback.
type Watcher struct {
	dir          string
	debounce     time.Duration
	pollInterval time.Duration
	onChange     func()
	onError      func(error)

	fsWatcher *fsnotify.Watcher
	timer     *time.Timer
	lastCount int
	lastMod   time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex

	changeCh chan struct{}
}

// NewWatcher creates a watcher for the library's directory.
func (l *Library) NewWatcher(opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:          l.dir,
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		onChange:     func() {},
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. Returns ErrAlreadyStarted on a second call.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.snapshotDir()

	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		if err := fsw.Add(w.dir); err != nil {
			fsw.Close()
			fsw = nil
		}
	} else {
		fsw = nil
	}
	w.fsWatcher = fsw
	if fsw != nil {
		go w.watchFsnotify()
	} else {
		debug.Log("fsnotify unavailable for %s, polling every %v", w.dir, w.pollInterval)
		go w.watchPolling()
	}
	w.started = true
	return nil
}

// Stop stops watching. The Changed channel is left open; callers blocked on
// it are released at process exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.started = false
}

// Changed returns a channel that receives when the directory changes.
// An alternative to the OnChange callback.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

func (w *Watcher) watchFsnotify() {
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Name == w.dir && event.Op&fsnotify.Remove != 0 {
				w.onError(ErrDirRemoved)
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.trigger()
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			count, mod, err := statDir(w.dir)
			if err != nil {
				if os.IsNotExist(err) {
					w.onError(ErrDirRemoved)
				} else {
					w.onError(err)
				}
				continue
			}
			w.mu.Lock()
			changed := count != w.lastCount || mod.After(w.lastMod)
			w.lastCount, w.lastMod = count, mod
			w.mu.Unlock()
			if changed {
				w.trigger()
			}
		}
	}
}

// trigger coalesces bursts: the callback fires once the directory has been
// quiet for the debounce duration.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.onChange()
		select {
		case w.changeCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) snapshotDir() {
	count, mod, err := statDir(w.dir)
	if err != nil {
		return
	}
	w.lastCount, w.lastMod = count, mod
}

func statDir(dir string) (int, time.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, time.Time{}, err
	}
	var latest time.Time
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		count++
		if info, err := e.Info(); err == nil && info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return count, latest, nil
}
