package gdev

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tunables of a device. The zero value is not useful;
// start from [DefaultConfig].
type Config struct {
	// MaxRenderTargets caps the number of simultaneous render targets.
	// Zero uses the device capability.
	MaxRenderTargets int `toml:"max_render_targets"`

	// MaxTextureSlots caps the number of pixel sampler slots. Zero uses
	// the device capability.
	MaxTextureSlots int `toml:"max_texture_slots"`

	// BatchReportFirstFrame requests a batch report for the first frame.
	BatchReportFirstFrame bool `toml:"batch_report_first_frame"`

	// PresetFile overrides the built-in vendor antialiasing presets with a
	// YAML file.
	PresetFile string `toml:"preset_file"`

	// LogLevel is the slog level name used by command line tools
	// ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
	}
}

// ParseConfig decodes a TOML configuration. Missing keys keep their
// default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("gdev: parse config: %w", err)
	}
	if cfg.MaxRenderTargets < 0 || cfg.MaxTextureSlots < 0 {
		return Config{}, fmt.Errorf("gdev: parse config: negative limit (render targets %d, texture slots %d)",
			cfg.MaxRenderTargets, cfg.MaxTextureSlots)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("gdev: load config: %w", err)
	}
	return ParseConfig(data)
}

// SlogLevel parses LogLevel. An empty level means info.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("gdev: invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
