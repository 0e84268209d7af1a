package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce is how long the watcher waits after the last write before reloading.
const DefaultDebounce = 100 * time.Millisecond

// WatcherOption is a functional option for configuring a Watcher via NewWatcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period between the last write and the reload.
// Zero keeps DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = common.Coalesce(d, DefaultDebounce)
	}
}

// WithWatcherLogger sets the logger for reload diagnostics.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher reloads a config file whenever it changes and publishes the result.
// The file's directory is watched so editors that replace the file by rename are seen.
// Only the newest config is buffered; a slow reader skips intermediate versions.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	configs chan SceneConfig
	errs    chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching a config file.
//
// Parameters:
//   - path: the config file; its format must be supported
//   - options: functional options to configure the watcher
//
// Returns:
//   - *Watcher: the running watcher
//   - error: error if the format is unsupported or the directory cannot be watched
func NewWatcher(path string, options ...WatcherOption) (*Watcher, error) {
	if _, err := FormatOf(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		configs:  make(chan SceneConfig, 1),
		errs:     make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}
	go w.run()
	return w, nil
}

// Configs delivers each successfully reloaded config. It is closed by Close.
func (w *Watcher) Configs() <-chan SceneConfig {
	return w.configs
}

// Errors delivers reload and watch failures. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and closes both channels. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.errs)
	defer close(w.configs)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
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
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("[Config] reload failed", "path", w.path, "error", err)
		w.sendErr(err)
		return
	}
	w.logger.Info("[Config] reloaded", "path", w.path)

	select {
	case <-w.configs:
	default:
	}
	w.configs <- cfg
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
