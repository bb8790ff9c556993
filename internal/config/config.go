// Package config provides configuration types and defaults for rawfmt.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/rawfmt/internal/log"
	"github.com/zjrosen/rawfmt/internal/markup"
	"github.com/zjrosen/rawfmt/internal/tracing"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds all configuration options for rawfmt.
type Config struct {
	Markup  markup.Options `mapstructure:"markup"`
	Output  OutputConfig   `mapstructure:"output"`
	Catalog CatalogConfig  `mapstructure:"catalog"`
	Watch   WatchConfig    `mapstructure:"watch"`
	Log     LogConfig      `mapstructure:"log"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// OutputConfig controls how commands print results.
type OutputConfig struct {
	Format string `mapstructure:"format"` // "text" (default) or "json"
	Color  string `mapstructure:"color"`  // "auto" (default), "always" or "never"
}

// CatalogConfig points at the emoji catalog used to resolve shortcodes.
type CatalogConfig struct {
	Path string        `mapstructure:"path"` // empty disables resolution
	TTL  time.Duration `mapstructure:"ttl"`
}

// WatchConfig holds options for the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig holds debug logging options.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Level   string `mapstructure:"level"` // debug, info, warn, error
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()

	return Config{
		Markup: markup.DefaultOptions(),
		Output: OutputConfig{
			Format: FormatText,
			Color:  ColorAuto,
		},
		Catalog: CatalogConfig{
			TTL: 10 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Log: LogConfig{
			Enabled: false,
			Path:    "debug.log",
			Level:   "debug",
		},
		Tracing: tr,
	}
}

// DefaultTracesFilePath returns ~/.config/rawfmt/traces/traces.jsonl, or
// an empty string when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rawfmt", "traces", "traces.jsonl")
}

// Validate reports every invalid setting in c.
func (c Config) Validate() error {
	var errs []error

	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("output.format must be %q or %q, got %q", FormatText, FormatJSON, c.Output.Format))
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("output.color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Output.Color))
	}
	if c.Catalog.TTL < 0 {
		errs = append(errs, fmt.Errorf("catalog.ttl must not be negative, got %s", c.Catalog.TTL))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	if c.Log.Enabled && c.Log.Path == "" {
		errs = append(errs, errors.New("log.path is required when log.enabled is true"))
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateTracing checks tracing configuration. Paths are only required
// when tracing is enabled.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}
	if !t.Enabled {
		return nil
	}
	if t.Exporter == tracing.ExporterFile && t.FilePath == "" {
		return errors.New("tracing.file_path is required when exporter is \"file\"")
	}
	if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return errors.New("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# rawfmt configuration

# Entity kinds recognized when tokenizing raw text
markup:
  hashtags: true    # #tag
  mentions: true    # @[Name|userId|filterType]
  url_pills: true   # ![label|behavior|width](url)
  emoji: true       # :shortcode:

# Command output
output:
  format: text      # "text" or "json"
  color: auto       # "auto", "always" or "never"

# Emoji catalog used to resolve :shortcodes: to unicode or images
catalog:
  # path: ~/.config/rawfmt/emoji.yaml
  ttl: 10m

# rawfmt watch
watch:
  debounce: 200ms

# Debug logging (also enabled by --debug or RAWFMT_DEBUG)
log:
  enabled: false
  path: debug.log
  level: debug

# OpenTelemetry tracing
tracing:
  enabled: false
  exporter: file    # "none", "file", "stdout" or "otlp"
  # file_path: ~/.config/rawfmt/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
