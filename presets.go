package gdev

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresetData []byte

// Known adapter vendor IDs.
const (
	VendorNVIDIA uint32 = 0x10DE
	VendorAMD    uint32 = 0x1002
	VendorIntel  uint32 = 0x8086
)

// AAPreset is a vendor-specific named antialiasing mode.
type AAPreset struct {
	Name     string `yaml:"name"`
	VendorID uint32 `yaml:"vendor"`
	Samples  int    `yaml:"samples"`
	Quality  int    `yaml:"quality"`
	Priority int    `yaml:"priority"`
}

type presetFile struct {
	Presets []AAPreset `yaml:"presets"`
}

// ParsePresets decodes a YAML preset table.
func ParsePresets(data []byte) ([]AAPreset, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("gdev: parse presets: %w", err)
	}
	for i, p := range f.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("gdev: parse presets: entry %d has no name", i)
		}
		if p.Samples < 2 || p.Quality < 0 {
			return nil, fmt.Errorf("gdev: parse presets: %q has %d samples at quality %d", p.Name, p.Samples, p.Quality)
		}
	}
	if f.Presets == nil {
		f.Presets = []AAPreset{}
	}
	return f.Presets, nil
}

// DefaultPresets returns the built-in vendor preset table.
func DefaultPresets() []AAPreset {
	p, err := ParsePresets(defaultPresetData)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadPresetFile reads a YAML preset table from path.
func LoadPresetFile(path string) ([]AAPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gdev: load presets: %w", err)
	}
	return ParsePresets(data)
}

func loadConfiguredPresets(cfg Config) ([]AAPreset, error) {
	if cfg.PresetFile == "" {
		return DefaultPresets(), nil
	}
	return LoadPresetFile(cfg.PresetFile)
}
