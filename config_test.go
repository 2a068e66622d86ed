package gdev_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gdev"
)

func TestParseConfig(t *testing.T) {
	cfg, err := gdev.ParseConfig([]byte(`
max_render_targets = 2
max_texture_slots = 8
batch_report_first_frame = true
log_level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, gdev.Config{
		MaxRenderTargets:      2,
		MaxTextureSlots:       8,
		BatchReportFirstFrame: true,
		LogLevel:              "debug",
	}, cfg)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := gdev.ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, gdev.DefaultConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `max_render_targets = `},
		{"type", `max_texture_slots = "many"`},
		{"negative", `max_render_targets = -1`},
		{"level", `log_level = "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gdev.ParseConfig([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gdev.toml")
	require.NoError(t, os.WriteFile(path, []byte("preset_file = \"aa.yaml\"\n"), 0o600))

	cfg, err := gdev.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "aa.yaml", cfg.PresetFile)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = gdev.LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	assert.Error(t, err)
}

func TestSlogLevelEmpty(t *testing.T) {
	level, err := gdev.Config{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
