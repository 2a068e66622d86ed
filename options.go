package gdev

import "log/slog"

// Option configures a Device during creation.
//
// Example:
//
//	cfg, _ := gdev.LoadConfig("gdev.toml")
//	dev := gdev.New(mgr, gdev.WithConfig(cfg), gdev.WithLogger(slog.Default()))
type Option func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	config  Config
	logger  *slog.Logger
	presets []AAPreset
}

// defaultDeviceOptions returns the default device options.
func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		config: DefaultConfig(),
	}
}

// WithConfig sets the device configuration.
func WithConfig(c Config) Option {
	return func(o *deviceOptions) {
		o.config = c
	}
}

// WithLogger sets a device-specific logger. Without it the device logs
// through the package logger returned by [Logger] at creation time.
func WithLogger(l *slog.Logger) Option {
	return func(o *deviceOptions) {
		o.logger = l
	}
}

// WithPresets replaces the vendor antialiasing preset table. An empty
// non-nil slice disables vendor presets.
func WithPresets(p []AAPreset) Option {
	return func(o *deviceOptions) {
		o.presets = p
	}
}
