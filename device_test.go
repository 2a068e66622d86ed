package gdev_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gdev/backend/null"
	"github.com/gogpu/gputypes"
)

func TestInitializeTwice(t *testing.T) {
	_, dev := newTestDevice(t)
	if err := dev.Initialize(); err != nil {
		t.Errorf("second Initialize() error = %v", err)
	}
	if dev.RenderTargetCount() != 4 {
		t.Errorf("RenderTargetCount() = %d, want 4", dev.RenderTargetCount())
	}
}

func TestResetBeforeInitialize(t *testing.T) {
	dev := gdev.New(null.NewManager(8, 8))
	if err := dev.OnDeviceReset(); !errors.Is(err, gdev.ErrNotInitialized) {
		t.Errorf("OnDeviceReset() error = %v, want ErrNotInitialized", err)
	}
}

func TestLostResetOrder(t *testing.T) {
	m, dev := newTestDevice(t)
	var log []string
	a := &recorder{name: "A", log: &log}
	b := &recorder{name: "B", log: &log}
	dev.Track(a)
	dev.Track(b)

	cycleLoss(t, m, dev)

	want := []string{"release A", "release B", "reload A", "reload B"}
	if !slices.Equal(log, want) {
		t.Errorf("hook order = %v, want %v", log, want)
	}
	if dev.IsLost() {
		t.Error("IsLost() = true after recovery")
	}
}

func TestOnDeviceLostIdempotent(t *testing.T) {
	_, dev := newTestDevice(t)
	var log []string
	dev.Track(&recorder{name: "A", log: &log})

	dev.OnDeviceLost()
	dev.OnDeviceLost()

	if len(log) != 1 {
		t.Errorf("release hooks ran %d times, want 1", len(log))
	}
}

func TestOnDeviceResetWithoutLossPanics(t *testing.T) {
	_, dev := newTestDevice(t)
	defer func() {
		if recover() == nil {
			t.Error("OnDeviceReset() without a loss did not panic")
		}
	}()
	_ = dev.OnDeviceReset()
}

func TestTrackDuringReleasePanics(t *testing.T) {
	_, dev := newTestDevice(t)
	var log []string
	dev.Track(&recorder{name: "A", log: &log, onRelease: func() {
		dev.Track(&recorder{name: "late", log: &log})
	}})

	defer func() {
		if recover() == nil {
			t.Error("Track() during a release pass did not panic")
		}
	}()
	dev.OnDeviceLost()
}

func TestTrackTwicePanics(t *testing.T) {
	_, dev := newTestDevice(t)
	var log []string
	r := &recorder{name: "A", log: &log}
	dev.Track(r)
	defer func() {
		if recover() == nil {
			t.Error("second Track() did not panic")
		}
	}()
	dev.Track(r)
}

func TestUntrack(t *testing.T) {
	_, dev := newTestDevice(t)
	var log []string
	r := &recorder{name: "A", log: &log}
	base := dev.TrackedCount()
	dev.Track(r)
	if !dev.IsTracked(r) {
		t.Fatal("IsTracked() = false after Track")
	}
	dev.Untrack(r)
	dev.Untrack(r)
	if dev.TrackedCount() != base {
		t.Errorf("TrackedCount() = %d, want %d", dev.TrackedCount(), base)
	}
}

func TestReloadFailureKeepsDeviceLost(t *testing.T) {
	m, dev := newTestDevice(t, null.WithLostPolls(0))
	var log []string
	failure := errors.New("out of memory")
	a := &recorder{name: "A", log: &log, reloadErr: failure}
	dev.Track(a)

	m.Lose()
	if _, err := m.BeginPaint(dev); !errors.Is(err, failure) {
		t.Fatalf("BeginPaint() error = %v, want reload failure", err)
	}
	if !dev.IsLost() {
		t.Fatal("IsLost() = false after failed reload")
	}

	a.reloadErr = nil
	ok, err := m.BeginPaint(dev)
	if !ok || err != nil {
		t.Fatalf("BeginPaint() = %v, %v, want true, nil", ok, err)
	}
	if dev.IsLost() {
		t.Error("IsLost() = true after retry")
	}
}

func TestReloadFailureReleasesDefaults(t *testing.T) {
	m, dev := newTestDevice(t, null.WithLostPolls(0))
	var log []string
	dev.Track(&recorder{name: "A", log: &log, reloadErr: errors.New("fail")})

	m.Lose()
	_, _ = m.BeginPaint(dev)

	// A second loss while still lost must still allow a native reset.
	m.Lose()
	if err := m.Reset(); err != nil {
		t.Errorf("Reset() after failed reload error = %v", err)
	}
}

func TestDrawSkippedWhileLost(t *testing.T) {
	m, dev := newTestDevice(t)
	nd := m.NullDevice()
	m.Lose()
	if ok, _ := m.BeginPaint(dev); ok {
		t.Fatal("BeginPaint() = true while lost")
	}
	nd.ResetCounters()

	dev.BeginFrame()
	dev.Clear(gdev.ClearAll, 0, 1, 0)
	dev.EndFrame()

	if nd.Clears != 0 {
		t.Errorf("Clears = %d while lost, want 0", nd.Clears)
	}
	if nd.InScene() {
		t.Error("scene opened while lost")
	}
}

func TestSetRenderTargetClearsSamplers(t *testing.T) {
	_, dev := newTestDevice(t)
	rt, err := dev.Factory().CreateRenderTarget(64, 64, gputypes.TextureFormatBGRA8Unorm, "")
	if err != nil {
		t.Fatalf("CreateRenderTarget() error = %v", err)
	}
	defer rt.Destroy()

	states := dev.StateCache()
	states.SetTexture(0, rt.ColorTexture())
	states.SetTexture(5, rt.ColorTexture())

	dev.SetRenderTarget(0, rt)

	for _, slot := range []int{0, 5} {
		if states.Texture(slot) != nil {
			t.Errorf("slot %d still bound to the render target texture", slot)
		}
	}
	if vp := dev.Viewport(); vp.Width != 64 || vp.Height != 64 {
		t.Errorf("Viewport() = %dx%d, want 64x64", vp.Width, vp.Height)
	}
}

func TestBindingsSurviveReset(t *testing.T) {
	m, dev := newTestDevice(t)
	rt, err := dev.Factory().CreateRenderTarget(32, 32, gputypes.TextureFormatBGRA8Unorm, "")
	if err != nil {
		t.Fatalf("CreateRenderTarget() error = %v", err)
	}
	db, err := dev.Factory().CreateDepthStencilBuffer(32, 32, gputypes.TextureFormatDepth24PlusStencil8, "")
	if err != nil {
		t.Fatalf("CreateDepthStencilBuffer() error = %v", err)
	}
	dev.SetRenderTarget(1, rt)
	dev.SetDepthStencilBuffer(db)

	cycleLoss(t, m, dev)

	nd := m.NullDevice()
	if dev.RenderTarget(1) != rt {
		t.Error("RenderTarget(1) changed across reset")
	}
	if got := nd.BoundRenderTarget(1); got == nil || gdev.NativeSurface(got) != rt.Surface() {
		t.Error("render target 1 not rebound to the reloaded surface")
	}
	if got := nd.BoundDepthStencil(); got == nil || gdev.NativeSurface(got) != db.Surface() {
		t.Error("depth buffer not rebound to the reloaded surface")
	}

	rt.Destroy()
	db.Destroy()
	if dev.RenderTarget(1) != nil {
		t.Error("destroyed render target still bound")
	}
	if dev.DepthStencilBuffer() != nil {
		t.Error("destroyed depth buffer still bound")
	}
}

func TestSetRenderTargetWhileLostRecordsBinding(t *testing.T) {
	m, dev := newTestDevice(t)
	rt, err := dev.Factory().CreateRenderTarget(16, 16, gputypes.TextureFormatBGRA8Unorm, "")
	if err != nil {
		t.Fatalf("CreateRenderTarget() error = %v", err)
	}
	m.Lose()
	_, _ = m.BeginPaint(dev)

	dev.SetRenderTarget(0, rt)
	if dev.RenderTarget(0) != rt {
		t.Fatal("binding not recorded while lost")
	}

	if ok, err := m.BeginPaint(dev); !ok || err != nil {
		t.Fatalf("BeginPaint() = %v, %v", ok, err)
	}
	if got := m.NullDevice().BoundRenderTarget(0); got == nil || got.Width() != 16 {
		t.Error("binding recorded while lost not applied after reset")
	}
}

func TestReleaseLeavesNoDeviceObjects(t *testing.T) {
	m := null.NewManager(64, 64)
	dev := gdev.New(m)
	if err := dev.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	rt, _ := dev.Factory().CreateRenderTarget(8, 8, gputypes.TextureFormatBGRA8Unorm, "4x MSAA")
	vb, _ := dev.Factory().CreateVertexBuffer(3, 12, gdev.UsageDynamic)
	rt.Destroy()
	vb.Destroy()
	dev.Release()

	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
