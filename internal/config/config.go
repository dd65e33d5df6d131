package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/desk/internal/format"
)

// Viper keys. Nested keys use viper's dot notation and map to DESK_PREVIEW_STYLE style env vars.
const (
	KeyDefaultFormat   = "default_format"
	KeyHistoryLimit    = "history_limit"
	KeyTitleLayout     = "title_layout"
	KeyPreviewStyle    = "preview.style"
	KeyPreviewWordWrap = "preview.word_wrap"
	KeyHighlightStyle  = "highlight_style"
	KeyLogFile         = "log_file"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 10000
	DefaultWordWrap     = 100
	DefaultPreviewStyle = "dracula"
	DefaultTitleLayout  = "1/2/2006, 3:04:05 PM"
)

// PreviewStyles are the glamour standard styles the terminal preview accepts.
var PreviewStyles = []string{"ascii", "auto", "dark", "dracula", "light", "notty", "pink"}

type PreviewConfig struct {
	Style    string `yaml:"style"     json:"style"`
	WordWrap int    `yaml:"word_wrap" json:"word_wrap"`
}

type Config struct {
	DefaultFormat  string        `yaml:"default_format"  json:"default_format"`
	HistoryLimit   int           `yaml:"history_limit"   json:"history_limit"`
	TitleLayout    string        `yaml:"title_layout"    json:"title_layout"`
	Preview        PreviewConfig `yaml:"preview"         json:"preview"`
	HighlightStyle string        `yaml:"highlight_style" json:"highlight_style"`
	LogFile        string        `yaml:"log_file"        json:"log_file"`

	home string `yaml:"-"`
}

// Default returns the configuration used when the file is empty.
func Default() *Config {
	return &Config{
		DefaultFormat:  format.Default,
		HistoryLimit:   DefaultHistoryLimit,
		TitleLayout:    DefaultTitleLayout,
		Preview:        PreviewConfig{Style: DefaultPreviewStyle, WordWrap: DefaultWordWrap},
		HighlightStyle: DefaultPreviewStyle,
	}
}

// Load reads the config file and publishes it to viper.
func Load(home string) (*Config, error) {
	cfg, err := Read(home)
	if err != nil {
		return nil, err
	}
	cfg.syncViper()
	return cfg, nil
}

// Read parses and validates the config file without touching viper.
func Read(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if len(strings.TrimSpace(string(data))) != 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigInitError{
				msg: fmt.Sprintf("failed to parse %s", path),
				err: err,
			}
		}
	}
	cfg.home = home
	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigInitError{msg: fmt.Sprintf("invalid config %s", path), err: err}
	}

	return cfg, nil
}

// ensureDefaults fills keys left out of a partial file.
func (cfg *Config) ensureDefaults() {
	def := Default()
	cfg.DefaultFormat = strings.TrimSpace(cfg.DefaultFormat)
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = def.DefaultFormat
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	if strings.TrimSpace(cfg.TitleLayout) == "" {
		cfg.TitleLayout = def.TitleLayout
	}
	if cfg.Preview.Style == "" {
		cfg.Preview.Style = def.Preview.Style
	}
	if cfg.Preview.WordWrap == 0 {
		cfg.Preview.WordWrap = def.Preview.WordWrap
	}
	if cfg.HighlightStyle == "" {
		cfg.HighlightStyle = def.HighlightStyle
	}
}

func (cfg *Config) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.DefaultFormat, validation.Required, validation.By(knownFormat)),
		validation.Field(&cfg.HistoryLimit, validation.Required, validation.Min(1), validation.Max(MaxHistoryLimit)),
		validation.Field(&cfg.TitleLayout, validation.Required),
		validation.Field(&cfg.Preview),
		validation.Field(&cfg.HighlightStyle, validation.Required, validation.In(toAny(styles.Names())...)),
	)
}

func (p PreviewConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Style, validation.Required, validation.In(toAny(PreviewStyles)...)),
		validation.Field(&p.WordWrap, validation.Required, validation.Min(20), validation.Max(400)),
	)
}

func knownFormat(value any) error {
	id, _ := value.(string)
	if _, err := format.Builtin().Describe(id); err != nil {
		return validation.NewError("validation_unknown_format", "must be one of "+strings.Join(format.Builtin().IDs(), ", "))
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// syncViper publishes the file values as viper defaults so bound flags and
// DESK_* environment variables take precedence over them.
func (cfg *Config) syncViper() {
	viper.SetDefault(KeyDefaultFormat, cfg.DefaultFormat)
	viper.SetDefault(KeyHistoryLimit, cfg.HistoryLimit)
	viper.SetDefault(KeyTitleLayout, cfg.TitleLayout)
	viper.SetDefault(KeyPreviewStyle, cfg.Preview.Style)
	viper.SetDefault(KeyPreviewWordWrap, cfg.Preview.WordWrap)
	viper.SetDefault(KeyHighlightStyle, cfg.HighlightStyle)
	viper.SetDefault(KeyLogFile, cfg.LogFile)
}

// Effective returns the configuration after flag and environment overrides.
func (cfg *Config) Effective() (*Config, error) {
	out := &Config{
		DefaultFormat: strings.TrimSpace(viper.GetString(KeyDefaultFormat)),
		HistoryLimit:  viper.GetInt(KeyHistoryLimit),
		TitleLayout:   viper.GetString(KeyTitleLayout),
		Preview: PreviewConfig{
			Style:    viper.GetString(KeyPreviewStyle),
			WordWrap: viper.GetInt(KeyPreviewWordWrap),
		},
		HighlightStyle: viper.GetString(KeyHighlightStyle),
		LogFile:        viper.GetString(KeyLogFile),
		home:           cfg.home,
	}
	out.ensureDefaults()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func (cfg *Config) Home() string {
	return cfg.home
}

func (cfg *Config) GetConfigPath() string {
	return GetConfigPath(cfg.home)
}

func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.syncViper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}
