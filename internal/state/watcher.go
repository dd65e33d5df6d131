package state

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/desk/internal/config"
)

// ConfigReloadedMsg carries the config after the file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

type ConfigWatcherErrMsg struct {
	Err error
}

// ConfigWatcher reloads the config file whenever it is written. The directory
// is watched rather than the file because editors usually replace files on save.
type ConfigWatcher struct {
	watcher   *fsnotify.Watcher
	home      string
	path      string
	done      chan struct{}
	once      sync.Once
	mu        sync.Mutex
	pending   []tea.Msg
	heartbeat func() tea.Cmd
	interval  time.Duration
	onChange  func(*config.Config)
	onClose   func()
}

func NewConfigWatcher(home string) (*ConfigWatcher, error) {
	if home == "" {
		return nil, errors.New("home directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &ConfigWatcher{
		watcher: w,
		home:    home,
		path:    filepath.Clean(config.GetConfigPath(home)),
		done:    make(chan struct{}),
	}

	if err := w.Add(filepath.Dir(watcher.path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

func (w *ConfigWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		if msg := w.dequeuePending(); msg != nil {
			return msg
		}

		hb, interval := w.heartbeatConfig()
		var ticker *time.Ticker
		var ticks <-chan time.Time
		if hb != nil && interval > 0 {
			ticker = time.NewTicker(interval)
			ticks = ticker.C
			defer ticker.Stop()
		}

		for {
			select {
			case <-w.done:
				return nil
			case <-ticks:
				if msg := w.invokeHeartbeat(hb); msg != nil {
					return msg
				}
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				if !w.isRelevant(event) {
					continue
				}

				cfg, err := config.Read(w.home)
				if err != nil {
					return ConfigWatcherErrMsg{Err: err}
				}

				if w.onChange != nil {
					w.onChange(cfg)
				}

				if msg := w.invokeHeartbeat(hb); msg != nil {
					w.enqueuePending(ConfigReloadedMsg{Config: cfg})
					return msg
				}

				return ConfigReloadedMsg{Config: cfg}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return ConfigWatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *ConfigWatcher) heartbeatConfig() (func() tea.Cmd, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.heartbeat, w.interval
}

func (w *ConfigWatcher) invokeHeartbeat(fn func() tea.Cmd) tea.Msg {
	if fn == nil {
		return nil
	}
	cmd := fn()
	if cmd == nil {
		return nil
	}
	return cmd()
}

func (w *ConfigWatcher) enqueuePending(msg tea.Msg) {
	w.mu.Lock()
	w.pending = append(w.pending, msg)
	w.mu.Unlock()
}

func (w *ConfigWatcher) dequeuePending() tea.Msg {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	msg := w.pending[0]
	w.pending = w.pending[1:]
	return msg
}

func (w *ConfigWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		if w.onClose != nil {
			w.onClose()
		}
	})

	return closeErr
}

// OnChange registers a callback that receives every successfully reloaded config.
func (w *ConfigWatcher) OnChange(fn func(*config.Config)) {
	if w == nil {
		return
	}
	w.onChange = fn
}

// OnClose registers a callback that is invoked exactly once when the watcher
// shuts down.
func (w *ConfigWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.onClose = fn
}

// SetHeartbeat configures a command that is invoked whenever the watcher
// detects a change event or when the periodic ticker fires.
func (w *ConfigWatcher) SetHeartbeat(fn func() tea.Cmd, interval time.Duration) {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.heartbeat = fn
	w.interval = interval
}

func (w *ConfigWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}
