package gdev_test

import (
	"errors"
	"testing"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gdev/backend/null"
	"github.com/gogpu/gputypes"
)

func TestPercentageLockedTargetFollowsResize(t *testing.T) {
	m, dev := newTestDevice(t)
	rt, err := dev.Factory().CreateRenderTargetScaled(0.5, 0.25, gputypes.TextureFormatBGRA8Unorm, "")
	if err != nil {
		t.Fatalf("CreateRenderTargetScaled() error = %v", err)
	}
	defer rt.Destroy()
	if rt.Width() != 320 || rt.Height() != 120 {
		t.Fatalf("size = %dx%d, want 320x120", rt.Width(), rt.Height())
	}
	resets := 0
	rt.OnReset(func(*gdev.RenderTarget) { resets++ })

	m.Resize(1000, 500)
	if ok, err := m.BeginPaint(dev); !ok || err != nil {
		t.Fatalf("BeginPaint() = %v, %v", ok, err)
	}

	if rt.Width() != 500 || rt.Height() != 125 {
		t.Errorf("size after resize = %dx%d, want 500x125", rt.Width(), rt.Height())
	}
	if w, h, _ := rt.ColorTexture().LevelSize(0); w != 500 || h != 125 {
		t.Errorf("color texture = %dx%d, want 500x125", w, h)
	}
	if resets != 1 {
		t.Errorf("OnReset callbacks = %d, want 1", resets)
	}
}

func TestFixedTargetKeepsSize(t *testing.T) {
	m, dev := newTestDevice(t)
	rt, err := dev.Factory().CreateRenderTarget(64, 32, gputypes.TextureFormatBGRA8Unorm, "")
	if err != nil {
		t.Fatalf("CreateRenderTarget() error = %v", err)
	}
	defer rt.Destroy()
	m.Resize(100, 100)
	_, _ = m.BeginPaint(dev)
	if rt.Width() != 64 || rt.Height() != 32 {
		t.Errorf("size = %dx%d, want 64x32", rt.Width(), rt.Height())
	}
}

func TestRenderTargetLockReadsColor(t *testing.T) {
	for _, mode := range []string{"", "4x MSAA"} {
		t.Run(mode, func(t *testing.T) {
			_, dev := newTestDevice(t)
			rt, err := dev.Factory().CreateRenderTarget(4, 4, gputypes.TextureFormatBGRA8Unorm, mode)
			if err != nil {
				t.Fatalf("CreateRenderTarget() error = %v", err)
			}
			defer rt.Destroy()
			if got := rt.IsMultisampled(); got != (mode != "") {
				t.Errorf("IsMultisampled() = %v", got)
			}

			dev.SetRenderTarget(0, rt)
			dev.Clear(gdev.ClearTarget, 0xFF00FF00, 1, 0)

			data, pitch, err := rt.Lock()
			if err != nil {
				t.Fatalf("Lock() error = %v", err)
			}
			defer rt.Unlock()
			if pitch != 16 {
				t.Errorf("pitch = %d, want 16", pitch)
			}
			want := []byte{0x00, 0xFF, 0x00, 0xFF}
			for i := range want {
				if data[i] != want[i] {
					t.Fatalf("pixel = %v, want %v", data[:4], want)
				}
			}
		})
	}
}

func TestRenderTargetUnsupported(t *testing.T) {
	_, dev := newTestDevice(t, null.WithoutFormat(gputypes.TextureFormatRGBA16Float))
	if _, err := dev.Factory().CreateRenderTarget(8, 8, gputypes.TextureFormatRGBA16Float, ""); !errors.Is(err, gdev.ErrNotSupported) {
		t.Errorf("unsupported format error = %v, want ErrNotSupported", err)
	}
	if _, err := dev.Factory().CreateRenderTarget(8, 8, gputypes.TextureFormatBGRA8Unorm, "64x SSAA"); !errors.Is(err, gdev.ErrNotSupported) {
		t.Errorf("unknown mode error = %v, want ErrNotSupported", err)
	}
	if _, err := dev.Factory().CreateRenderTarget(0, 8, gputypes.TextureFormatBGRA8Unorm, ""); !errors.Is(err, gdev.ErrInvalidDimensions) {
		t.Errorf("zero width error = %v, want ErrInvalidDimensions", err)
	}
}

func TestDepthBufferMultisample(t *testing.T) {
	m, dev := newTestDevice(t)
	db, err := dev.Factory().CreateDepthStencilBufferScaled(1, 1, gputypes.TextureFormatDepth24PlusStencil8, "16x CSAA")
	if err != nil {
		t.Fatalf("CreateDepthStencilBufferScaled() error = %v", err)
	}
	defer db.Destroy()
	if db.SampleCount() != 4 || db.SampleQuality() != 4 {
		t.Errorf("samples = %d/%d, want 4/4", db.SampleCount(), db.SampleQuality())
	}
	if db.Width() != 640 || db.Height() != 480 {
		t.Errorf("size = %dx%d, want 640x480", db.Width(), db.Height())
	}

	m.Resize(320, 200)
	_, _ = m.BeginPaint(dev)
	if db.Width() != 320 || db.Height() != 200 {
		t.Errorf("size after resize = %dx%d, want 320x200", db.Width(), db.Height())
	}
}

func TestDepthBufferLockPanics(t *testing.T) {
	_, dev := newTestDevice(t)
	db, err := dev.Factory().CreateDepthStencilBuffer(4, 4, gputypes.TextureFormatDepth32Float, "")
	if err != nil {
		t.Fatalf("CreateDepthStencilBuffer() error = %v", err)
	}
	defer db.Destroy()
	defer func() {
		if recover() == nil {
			t.Error("Lock() on a depth buffer did not panic")
		}
	}()
	db.Lock()
}
