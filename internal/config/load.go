package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/rawfmt/internal/log"
)

// LocalConfigPath is the project-local config file, checked first.
const LocalConfigPath = ".rawfmt/config.yaml"

// EnvPrefix prefixes environment overrides, e.g. RAWFMT_OUTPUT_FORMAT.
const EnvPrefix = "RAWFMT"

var envKeyReplacer = strings.NewReplacer(".", "_")

// UserConfigDir returns ~/.config/rawfmt.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rawfmt")
}

// SetDefaults registers every default with v so unset keys unmarshal to
// Defaults().
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("markup.hashtags", d.Markup.Hashtags)
	v.SetDefault("markup.mentions", d.Markup.Mentions)
	v.SetDefault("markup.url_pills", d.Markup.URLPills)
	v.SetDefault("markup.emoji", d.Markup.Emoji)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("catalog.ttl", d.Catalog.TTL)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("log.enabled", d.Log.Enabled)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load reads configuration into v and returns it with the file used.
//
// Lookup order when explicit is empty:
//  1. .rawfmt/config.yaml (current directory)
//  2. ~/.config/rawfmt/config.yaml (user config)
//
// When neither exists and writeDefault is set, a commented default file is
// created at .rawfmt/config.yaml.
func Load(v *viper.Viper, explicit string, writeDefault bool) (Config, string, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(LocalConfigPath):
		v.SetConfigFile(LocalConfigPath)
	default:
		v.AddConfigPath(UserConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		searched := explicit == "" && errors.As(err, &notFound)
		switch {
		case searched && writeDefault:
			if werr := WriteDefaultConfig(LocalConfigPath); werr == nil {
				v.SetConfigFile(LocalConfigPath)
				_ = v.ReadInConfig()
			}
		case searched:
			log.Debug(log.CatConfig, "no config file, using defaults")
		default:
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("invalid configuration: %w", err)
	}

	used := v.ConfigFileUsed()
	log.Debug(log.CatConfig, "config loaded", "file", used)
	return cfg, used, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
