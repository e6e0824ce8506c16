// Package config loads recolor settings.
//
// Settings are layered, lowest first: built-in defaults, a config file
// (YAML or TOML), RECOLOR_* environment variables, then command-line
// flags bound by the caller. Nested keys use "_" in environment names, so
// tracing.exporter is RECOLOR_TRACING_EXPORTER.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/recolor/internal/highlight"
	"github.com/dshills/recolor/internal/lexer"
	"github.com/dshills/recolor/internal/logging"
	"github.com/dshills/recolor/internal/tracing"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "RECOLOR"

// LocalFile is the config file looked up in the working directory.
const LocalFile = ".recolor.yaml"

// Config holds every setting.
type Config struct {
	// Language forces a tokenizer. Empty picks one by file extension.
	Language string `mapstructure:"language"`

	// Mode is "inline" or "worker".
	Mode string `mapstructure:"mode"`

	// SliceTokens bounds the tokens lexed per worker slice. Zero means
	// unbounded.
	SliceTokens int `mapstructure:"slice_tokens"`

	LogLevel string `mapstructure:"log_level"`

	// Theme is a built-in theme name or a theme file path.
	Theme string `mapstructure:"theme"`

	// TokenizerScript is a Lua tokenizer used instead of the built-ins.
	TokenizerScript string `mapstructure:"tokenizer_script"`

	// Verify compares every incremental result with a full lex.
	Verify bool `mapstructure:"verify"`

	Watch   WatchConfig    `mapstructure:"watch"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Mode:        highlight.ModeInline.String(),
		SliceTokens: highlight.DefaultSliceTokens,
		LogLevel:    logging.LevelWarn.String(),
		Theme:       "default",
		Watch:       WatchConfig{Debounce: 100 * time.Millisecond},
		Tracing:     tracing.DefaultConfig(),
	}
}

// SetDefaults registers the defaults with v so that every key is known to
// environment lookup and Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("language", d.Language)
	v.SetDefault("mode", d.Mode)
	v.SetDefault("slice_tokens", d.SliceTokens)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("tokenizer_script", d.TokenizerScript)
	v.SetDefault("verify", d.Verify)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// NewViper returns a viper instance with defaults and environment lookup
// configured.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads settings into v and decodes them. An explicit file must
// exist. Without one, ./.recolor.yaml and then
// $XDG_CONFIG_HOME/recolor/config.{yaml,toml} are tried and a missing file
// is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, file)
		}
		v.SetConfigFile(file)
	} else if _, err := os.Stat(LocalFile); err == nil {
		v.SetConfigFile(LocalFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(userConfigDir(), "recolor"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// Validate checks every setting and returns *ValidationErrors listing each
// bad one, or nil.
func (c Config) Validate() error {
	var errs ValidationErrors

	if c.Language != "" && c.TokenizerScript == "" {
		langs := lexer.DefaultRegistry().Languages()
		if !slices.Contains(langs, strings.ToLower(c.Language)) {
			errs.add("language", ErrCodeInvalidEnum, c.Language, "must be one of %s", strings.Join(langs, ", "))
		}
	}
	if _, err := highlight.ParseMode(c.Mode); err != nil {
		errs.add("mode", ErrCodeInvalidEnum, c.Mode, "must be inline or worker")
	}
	if c.SliceTokens < 0 {
		errs.add("slice_tokens", ErrCodeOutOfRange, c.SliceTokens, "must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.add("log_level", ErrCodeInvalidEnum, c.LogLevel, "must be debug, info, warn or error")
	}
	if c.TokenizerScript != "" && filepath.Ext(c.TokenizerScript) != ".lua" {
		errs.add("tokenizer_script", ErrCodeInvalidEnum, c.TokenizerScript, "must be a .lua file")
	}
	if c.Watch.Debounce < 0 {
		errs.add("watch.debounce", ErrCodeOutOfRange, c.Watch.Debounce, "must not be negative")
	}

	t := c.Tracing
	switch t.Exporter {
	case tracing.ExporterNone, tracing.ExporterStdout, "":
	case tracing.ExporterFile:
		if t.Enabled && t.FilePath == "" {
			errs.add("tracing.file_path", ErrCodeRequiredMissing, t.FilePath, "required by the file exporter")
		}
	default:
		errs.add("tracing.exporter", ErrCodeInvalidEnum, t.Exporter, "must be none, stdout or file")
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		errs.add("tracing.sample_rate", ErrCodeOutOfRange, t.SampleRate, "must be within [0, 1]")
	}

	if len(errs.Errors) == 0 {
		return nil
	}
	return &errs
}
