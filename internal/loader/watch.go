package loader

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Update is sent each time a watched level is reloaded.
type Update struct {
	Path   string
	Result *Result
	Err    error
}

// Watcher reloads level files when they change on disk. Bursts of events
// for one file are collapsed into a single reload once the file has been
// quiet for the debounce interval.
type Watcher struct {
	m        *Manager
	fs       *fsnotify.Watcher
	targets  map[string]bool
	debounce time.Duration

	Updates chan Update

	due     chan string
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching paths. The directories holding them are watched
// rather than the files, so editors that replace a file on save are still
// seen. Cancelling ctx closes the watcher.
func (m *Manager) Watch(ctx context.Context, debounce time.Duration, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}

	w := &Watcher{
		m:        m,
		fs:       fw,
		targets:  make(map[string]bool),
		debounce: debounce,
		Updates:  make(chan Update, 16),
		due:      make(chan string, 16),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "resolving %s", p)
		}
		w.targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "watching %s", dir)
		}
		dirs[dir] = true
	}

	go w.run()
	go func() {
		select {
		case <-ctx.Done():
			_ = w.Close()
		case <-w.closeCh:
		}
	}()
	return w, nil
}

// Close stops the watcher and closes Updates.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.done
		close(w.Updates)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || !w.targets[path] {
				continue
			}
			if t, ok := timers[path]; ok {
				t.Reset(w.debounce)
				continue
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				select {
				case w.due <- path:
				case <-w.closeCh:
				}
			})
		case path := <-w.due:
			delete(timers, path)
			w.m.log.Debug("reloading changed level", zap.String("path", path))
			res, err := w.m.Load(path)
			if !w.send(Update{Path: path, Result: res, Err: err}) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !w.send(Update{Err: errors.Wrap(err, "file watcher")}) {
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) send(u Update) bool {
	select {
	case w.Updates <- u:
		return true
	case <-w.closeCh:
		return false
	}
}
