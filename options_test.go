package gdev_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gdev/backend/null"
)

func TestWithLoggerReceivesTransitions(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := null.NewManager(320, 240)
	dev := gdev.New(m, gdev.WithLogger(l))
	require.NoError(t, dev.Initialize())
	t.Cleanup(dev.Release)

	cycleLoss(t, m, dev)

	out := buf.String()
	for _, msg := range []string{"gdev: device initialized", "gdev: device lost", "gdev: device reset", "gdev: render state cache reset"} {
		assert.Contains(t, out, msg)
	}
}

func TestPackageLoggerUsedAtCreation(t *testing.T) {
	orig := gdev.Logger()
	t.Cleanup(func() { gdev.SetLogger(orig) })

	var buf bytes.Buffer
	gdev.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	m := null.NewManager(320, 240)
	dev := gdev.New(m)
	gdev.SetLogger(nil)

	require.NoError(t, dev.Initialize())
	t.Cleanup(dev.Release)
	assert.True(t, strings.Contains(buf.String(), "adapter=\"Null Adapter\""), buf.String())
}

func TestWithPresetsEmptyDisablesVendorModes(t *testing.T) {
	m := null.NewManager(320, 240)
	dev := gdev.New(m, gdev.WithPresets([]gdev.AAPreset{}))
	require.NoError(t, dev.Initialize())
	t.Cleanup(dev.Release)

	got := dev.Capabilities().EnumerateRenderTargetMultisampleModes(bgra, d24)
	assert.Equal(t, []string{"2x MSAA", "4x MSAA", "8x MSAA"}, got)
}

func TestConfigPresetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	data := `
presets:
  - name: 4x Fast
    vendor: 0x10DE
    samples: 4
    quality: 1
    priority: 410
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg := gdev.DefaultConfig()
	cfg.PresetFile = path
	m := null.NewManager(320, 240)
	dev := gdev.New(m, gdev.WithConfig(cfg))
	require.NoError(t, dev.Initialize())
	t.Cleanup(dev.Release)

	got := dev.Capabilities().EnumerateRenderTargetMultisampleModes(bgra, d24)
	assert.Equal(t, []string{"2x MSAA", "4x MSAA", "4x Fast", "8x MSAA"}, got)
}

func TestConfigPresetFileMissing(t *testing.T) {
	cfg := gdev.DefaultConfig()
	cfg.PresetFile = filepath.Join(t.TempDir(), "missing.yaml")
	dev := gdev.New(null.NewManager(320, 240), gdev.WithConfig(cfg))
	require.Error(t, dev.Initialize())
	assert.Nil(t, dev.StateCache())
}
