package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/desk/internal/config"
)

func writeConfig(t *testing.T, home string, cfgData map[string]any) {
	t.Helper()
	configPath := config.GetConfigPath(home)

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	var data []byte
	if cfgData != nil {
		var err error
		data, err = yaml.Marshal(cfgData)
		if err != nil {
			t.Fatalf("failed to marshal config data: %v", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	writeConfig(t, home, nil)

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := config.Default()
	if cfg.DefaultFormat != want.DefaultFormat || cfg.HistoryLimit != want.HistoryLimit {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Preview != want.Preview || cfg.HighlightStyle != want.HighlightStyle {
		t.Fatalf("expected default preview settings, got %+v", cfg)
	}
	if cfg.GetConfigPath() != config.GetConfigPath(home) {
		t.Fatalf("config path = %q", cfg.GetConfigPath())
	}
}

func TestLoadMergesPartialFile(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"default_format": "python",
		"preview":        map[string]any{"word_wrap": 80},
	})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultFormat != "python" {
		t.Fatalf("DefaultFormat = %q, want python", cfg.DefaultFormat)
	}
	if cfg.Preview.WordWrap != 80 || cfg.Preview.Style != config.DefaultPreviewStyle {
		t.Fatalf("Preview = %+v", cfg.Preview)
	}
	if cfg.HistoryLimit != config.DefaultHistoryLimit {
		t.Fatalf("HistoryLimit = %d", cfg.HistoryLimit)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"unknown format", map[string]any{"default_format": "cobol"}},
		{"negative history", map[string]any{"history_limit": -1}},
		{"huge history", map[string]any{"history_limit": config.MaxHistoryLimit + 1}},
		{"preview style", map[string]any{"preview": map[string]any{"style": "neon"}}},
		{"narrow wrap", map[string]any{"preview": map[string]any{"word_wrap": 5}}},
		{"highlight style", map[string]any{"highlight_style": "not-a-style"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			home := t.TempDir()
			writeConfig(t, home, tt.data)

			_, err := config.Load(home)
			if err == nil {
				t.Fatalf("expected load to fail")
			}
			var initErr *config.ConfigInitError
			if !errors.As(err, &initErr) {
				t.Fatalf("expected ConfigInitError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte("default_format: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	var initErr *config.ConfigInitError
	if _, err := config.Load(home); !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError, got %v", err)
	}
}

func TestEnsureConfigExistsCreatesFile(t *testing.T) {
	viper.Reset()
	home := t.TempDir()

	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists() error = %v", err)
	}
	if _, err := os.Stat(config.GetConfigPath(home)); err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	writeConfig(t, home, nil)

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.DefaultFormat = "markdown-source"
	cfg.HistoryLimit = 25
	cfg.LogFile = filepath.Join(home, "desk.log")
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	viper.Reset()
	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load() after save error = %v", err)
	}
	if *reloaded != *cfg {
		t.Fatalf("reloaded = %+v, want %+v", reloaded, cfg)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	writeConfig(t, home, nil)

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.DefaultFormat = "cobol"
	if err := cfg.Save(); err == nil {
		t.Fatalf("expected Save to reject an unknown format")
	}
}

func TestEffectiveAppliesEnvironment(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	writeConfig(t, home, map[string]any{"default_format": "python"})

	t.Setenv("DESK_DEFAULT_FORMAT", "json")
	t.Setenv("DESK_PREVIEW_WORD_WRAP", "60")
	if err := config.LoadEnv(home); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	eff, err := cfg.Effective()
	if err != nil {
		t.Fatalf("Effective() error = %v", err)
	}
	if eff.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %q, want json", eff.DefaultFormat)
	}
	if eff.Preview.WordWrap != 60 {
		t.Errorf("WordWrap = %d, want 60", eff.Preview.WordWrap)
	}
	if cfg.DefaultFormat != "python" {
		t.Errorf("file config mutated to %q", cfg.DefaultFormat)
	}
}

func TestEffectiveRejectsInvalidOverride(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	writeConfig(t, home, nil)

	t.Setenv("DESK_HISTORY_LIMIT", "-4")
	if err := config.LoadEnv(home); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := cfg.Effective(); err == nil {
		t.Fatalf("expected Effective to reject history_limit -4")
	}
}

func TestLoadEnvReadsDotenv(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	writeConfig(t, home, nil)

	envPath := filepath.Join(filepath.Dir(config.GetConfigPath(home)), ".env")
	if err := os.WriteFile(envPath, []byte("DESK_TITLE_LAYOUT=2006-01-02\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("DESK_TITLE_LAYOUT") })

	if err := config.LoadEnv(home); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	eff, err := cfg.Effective()
	if err != nil {
		t.Fatalf("Effective() error = %v", err)
	}
	if eff.TitleLayout != "2006-01-02" {
		t.Fatalf("TitleLayout = %q, want 2006-01-02", eff.TitleLayout)
	}
}
