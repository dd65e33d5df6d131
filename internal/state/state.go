package state

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/Paintersrp/desk/internal/config"
	"github.com/Paintersrp/desk/internal/constants"
	"github.com/Paintersrp/desk/internal/format"
	"github.com/Paintersrp/desk/internal/modal"
	"github.com/Paintersrp/desk/internal/note"
	"github.com/Paintersrp/desk/internal/preview"
	"github.com/Paintersrp/desk/internal/store"
)

// statusInterval refreshes relative ages in the root status line.
const statusInterval = time.Minute

type State struct {
	Config     *config.Config
	Registry   *format.Registry
	Store      *store.Store
	Renderer   *preview.Renderer
	Home       string
	Watcher    *ConfigWatcher
	RootStatus *RootStatus
}

// RootStatus is the one-line summary shown under the dashboard.
type RootStatus struct {
	mu   sync.RWMutex
	line string
}

func (r *RootStatus) Set(line string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.line = line
	r.mu.Unlock()
}

func (r *RootStatus) Value() string {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.line
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	watcher, err := NewConfigWatcher(home)
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	return newState(home, cfg, watcher), nil
}

func newState(home string, cfg *config.Config, watcher *ConfigWatcher) *State {
	s := &State{
		Config:     cfg,
		Registry:   format.Builtin(),
		Store:      store.New(),
		Renderer:   preview.NewRenderer(),
		Home:       home,
		Watcher:    watcher,
		RootStatus: &RootStatus{},
	}
	if watcher != nil {
		watcher.SetHeartbeat(s.StoreStatusCmd, statusInterval)
	}
	return s
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)

	if err := config.LoadEnv(home); err != nil {
		return nil, err
	}

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return config.Load(home)
}

// Settings resolves the configuration after flag and environment overrides.
// It must be called once flags are parsed.
func (s *State) Settings() (*config.Config, error) {
	if s.Config == nil {
		return config.Default(), nil
	}
	return s.Config.Effective()
}

// ModalOptions builds the quick-note controller options from the settings.
func (s *State) ModalOptions(cfg *config.Config) modal.Options {
	return modal.Options{
		Registry:      s.Registry,
		DefaultFormat: cfg.DefaultFormat,
		HistoryLimit:  cfg.HistoryLimit,
		Notes:         note.Factory{TitleLayout: cfg.TitleLayout},
		Renderer:      s.Renderer,
	}
}

// TerminalOptions maps the preview settings onto the terminal renderer.
func TerminalOptions(cfg *config.Config) preview.TerminalOptions {
	opts := preview.DefaultTerminalOptions()
	opts.Style = cfg.Preview.Style
	opts.WordWrap = cfg.Preview.WordWrap
	opts.HighlightStyle = cfg.HighlightStyle
	return opts
}

// Close releases resources associated with the state.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
