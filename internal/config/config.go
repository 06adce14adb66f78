// Package config provides configuration types, defaults and loading for
// regform. Values come from defaults, an optional YAML file and REGFORM_*
// environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-regform/internal/logging"
	"github.com/goliatone/go-regform/internal/tracing"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
)

// EnvPrefix prefixes every environment override, e.g. REGFORM_SERVER_ADDR.
const EnvPrefix = "REGFORM"

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "regform.yaml"

// Config holds all configuration options for regform.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Renderer   RendererConfig   `mapstructure:"renderer" yaml:"renderer"`
	Theme      ThemeConfig      `mapstructure:"theme" yaml:"theme"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
	Log        logging.Config   `mapstructure:"log" yaml:"log"`
	TUI        TUIConfig        `mapstructure:"tui" yaml:"tui"`
	Tracing    tracing.Config   `mapstructure:"tracing" yaml:"tracing"`
}

// ServerConfig holds the HTTP listener options.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr" yaml:"addr"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace" yaml:"shutdown_grace"`
	// SecureCookies marks the CSRF cookie Secure; enable behind TLS.
	SecureCookies bool `mapstructure:"secure_cookies" yaml:"secure_cookies"`
}

// RendererConfig selects the HTML renderer and optional template overrides.
type RendererConfig struct {
	Default      string `mapstructure:"default" yaml:"default"`
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`
}

// ThemeConfig selects the theme and overrides individual tokens.
type ThemeConfig struct {
	Name    string            `mapstructure:"name" yaml:"name"`
	Variant string            `mapstructure:"variant" yaml:"variant"`
	Tokens  map[string]string `mapstructure:"tokens" yaml:"tokens,omitempty"`
}

// ValidationConfig resolves the open validation choices.
type ValidationConfig struct {
	// PasswordReporting is "first" or "all".
	PasswordReporting string `mapstructure:"password_reporting" yaml:"password_reporting"`
	CalendarCheck     bool   `mapstructure:"calendar_check" yaml:"calendar_check"`
}

// TUIConfig holds terminal session options.
type TUIConfig struct {
	// Output is json, form or pretty.
	Output string `mapstructure:"output" yaml:"output"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ShutdownGrace: 10 * time.Second,
		},
		Renderer: RendererConfig{Default: "vanilla"},
		Theme:    ThemeConfig{Name: "regform"},
		Validation: ValidationConfig{
			PasswordReporting: string(registration.ReportFirst),
		},
		Log:     logging.DefaultConfig(),
		TUI:     TUIConfig{Output: string(tui.OutputFormatJSON)},
		Tracing: tracing.DefaultConfig(),
	}
}

// SetDefaults registers every default on v so environment variables can
// override keys that never appear in a file.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_grace", d.Server.ShutdownGrace)
	v.SetDefault("server.secure_cookies", d.Server.SecureCookies)
	v.SetDefault("renderer.default", d.Renderer.Default)
	v.SetDefault("renderer.templates_dir", d.Renderer.TemplatesDir)
	v.SetDefault("theme.name", d.Theme.Name)
	v.SetDefault("theme.variant", d.Theme.Variant)
	v.SetDefault("validation.password_reporting", d.Validation.PasswordReporting)
	v.SetDefault("validation.calendar_check", d.Validation.CalendarCheck)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("tui.output", d.TUI.Output)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (or DefaultFile when present) into v and decodes the
// result. Without an explicit path a missing default file is skipped.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = NewViper()
	}
	switch {
	case path != "":
		v.SetConfigFile(path)
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			v.SetConfigFile(DefaultFile)
		}
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated options.
func (c Config) Validate() error {
	if _, err := registration.ParsePasswordReporting(c.Validation.PasswordReporting); err != nil {
		return fmt.Errorf("config: validation.password_reporting: %w", err)
	}
	if _, ok := tui.ParseOutputFormat(c.TUI.Output); !ok {
		return fmt.Errorf("config: tui.output: unknown format %q", c.TUI.Output)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if c.Server.ShutdownGrace < 0 {
		return fmt.Errorf("config: server.shutdown_grace must not be negative")
	}
	return nil
}

// SchemaOptions translates the validation settings into schema options.
func (c Config) SchemaOptions() []registration.Option {
	mode, err := registration.ParsePasswordReporting(c.Validation.PasswordReporting)
	if err != nil {
		mode = registration.ReportFirst
	}
	return []registration.Option{
		registration.WithPasswordReporting(mode),
		registration.WithCalendarCheck(c.Validation.CalendarCheck),
	}
}

// OutputFormat returns the configured terminal output format.
func (c Config) OutputFormat() tui.OutputFormat {
	format, ok := tui.ParseOutputFormat(c.TUI.Output)
	if !ok {
		return tui.OutputFormatJSON
	}
	return format
}

// WriteDefault writes the default configuration as YAML to path, creating
// parent directories as needed. Existing files are left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create dir: %w", err)
		}
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("config: encode defaults: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
