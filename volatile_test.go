package gdev_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gdev/backend/null"
	"github.com/gogpu/gputypes"
)

// sequence returns the bytes 1..n.
func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

func writeBuffer(t *testing.T, vb *gdev.VertexBuffer, src []byte) {
	t.Helper()
	data, err := vb.Lock(0, 0, gdev.LockNone)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	copy(data, src)
	vb.Unlock()
}

func readBuffer(t *testing.T, vb *gdev.VertexBuffer) []byte {
	t.Helper()
	data, err := vb.Lock(0, 0, gdev.LockReadOnly)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	defer vb.Unlock()
	return append([]byte(nil), data...)
}

func TestReleaseTwiceThenReload(t *testing.T) {
	tests := []struct {
		name string
		// setup creates the resource with known content and returns a
		// check run after every reload.
		setup func(t *testing.T, dev *gdev.Device) (gdev.VolatileResource, func(t *testing.T))
	}{
		{
			name: "VertexBuffer",
			setup: func(t *testing.T, dev *gdev.Device) (gdev.VolatileResource, func(t *testing.T)) {
				vb, err := dev.Factory().CreateVertexBuffer(4, 4, gdev.UsageDynamic)
				if err != nil {
					t.Fatalf("CreateVertexBuffer() error = %v", err)
				}
				t.Cleanup(vb.Destroy)
				want := sequence(16)
				writeBuffer(t, vb, want)
				return vb, func(t *testing.T) {
					if got := readBuffer(t, vb); !bytes.Equal(got, want) {
						t.Errorf("content = %v, want %v", got, want)
					}
				}
			},
		},
		{
			name: "Texture",
			setup: func(t *testing.T, dev *gdev.Device) (gdev.VolatileResource, func(t *testing.T)) {
				tex, err := dev.Factory().CreateTexture(gdev.TextureDesc{
					Type:   gdev.Texture2D,
					Width:  4,
					Height: 4,
					Levels: 1,
					Format: gputypes.TextureFormatRGBA8Unorm,
					Usage:  gdev.UsageDynamic,
				})
				if err != nil {
					t.Fatalf("CreateTexture() error = %v", err)
				}
				t.Cleanup(tex.Destroy)
				src := checkerboard(4, 4)
				if err := tex.SetImage(0, src); err != nil {
					t.Fatalf("SetImage() error = %v", err)
				}
				return tex, func(t *testing.T) {
					got, err := tex.Image(0)
					if err != nil {
						t.Fatalf("Image() error = %v", err)
					}
					if !bytes.Equal(got.Pix, src.Pix) {
						t.Errorf("pixels = %v, want %v", got.Pix, src.Pix)
					}
				}
			},
		},
		{
			name: "RenderTarget",
			setup: func(t *testing.T, dev *gdev.Device) (gdev.VolatileResource, func(t *testing.T)) {
				rt, err := dev.Factory().CreateRenderTarget(8, 4, gputypes.TextureFormatBGRA8Unorm, "")
				if err != nil {
					t.Fatalf("CreateRenderTarget() error = %v", err)
				}
				t.Cleanup(rt.Destroy)
				return rt, func(t *testing.T) {
					if rt.IsReleased() {
						t.Fatal("IsReleased() = true after reload")
					}
					if w, h, _ := rt.ColorTexture().LevelSize(0); w != 8 || h != 4 {
						t.Errorf("color texture = %dx%d, want 8x4", w, h)
					}
					if _, _, err := rt.Lock(); err != nil {
						t.Fatalf("Lock() error = %v", err)
					}
					rt.Unlock()
				}
			},
		},
		{
			name: "DepthStencilBuffer",
			setup: func(t *testing.T, dev *gdev.Device) (gdev.VolatileResource, func(t *testing.T)) {
				db, err := dev.Factory().CreateDepthStencilBuffer(8, 4, gputypes.TextureFormatDepth24PlusStencil8, "")
				if err != nil {
					t.Fatalf("CreateDepthStencilBuffer() error = %v", err)
				}
				t.Cleanup(db.Destroy)
				return db, func(t *testing.T) {
					if db.IsReleased() || db.Surface() == nil {
						t.Fatal("depth-stencil surface not recreated")
					}
					if db.Width() != 8 || db.Height() != 4 {
						t.Errorf("size = %dx%d, want 8x4", db.Width(), db.Height())
					}
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, dev := newTestDevice(t)
			nd := m.NullDevice()
			r, check := tt.setup(t, dev)
			live := nd.LiveObjects()

			r.ReleaseVolatileResource()
			r.ReleaseVolatileResource()
			if err := r.ReloadVolatileResource(); err != nil {
				t.Fatalf("ReloadVolatileResource() error = %v", err)
			}
			if got := nd.LiveObjects(); got != live {
				t.Errorf("LiveObjects() = %d, want %d", got, live)
			}
			check(t)

			dev.OnDeviceLost()
			dev.OnDeviceLost()
			cycleLoss(t, m, dev)
			if dev.IsLost() {
				t.Fatal("IsLost() = true after reset")
			}
			check(t)
		})
	}
}

func TestPartialReloadKeepsBufferContent(t *testing.T) {
	m, dev := newTestDevice(t)
	nd := m.NullDevice()
	vb, err := dev.Factory().CreateVertexBuffer(4, 4, gdev.UsageDynamic)
	if err != nil {
		t.Fatalf("CreateVertexBuffer() error = %v", err)
	}
	defer vb.Destroy()
	want := sequence(16)
	writeBuffer(t, vb, want)

	dev.OnDeviceLost()
	// The storage is recreated but the upload fails, so the reload is
	// undone by a second release.
	nd.FailLocks(1)
	if _, err := m.BeginPaint(dev); !errors.Is(err, null.ErrLockFailed) {
		t.Fatalf("BeginPaint() error = %v, want ErrLockFailed", err)
	}
	if !vb.IsReleased() {
		t.Fatal("buffer kept after failed reload")
	}

	if ok, err := m.BeginPaint(dev); !ok || err != nil {
		t.Fatalf("BeginPaint() = %v, %v, want true, nil", ok, err)
	}
	if got := readBuffer(t, vb); !bytes.Equal(got, want) {
		t.Errorf("content after retry = %v, want %v", got, want)
	}
}

func TestPartialReloadKeepsTextureContent(t *testing.T) {
	m, dev := newTestDevice(t)
	nd := m.NullDevice()
	tex, err := dev.Factory().CreateTexture(gdev.TextureDesc{
		Type:   gdev.Texture2D,
		Width:  4,
		Height: 4,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  gdev.UsageDynamic,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	defer tex.Destroy()
	src := checkerboard(4, 4)
	if err := tex.SetImage(0, src); err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}

	dev.OnDeviceLost()
	nd.FailLocks(1)
	if _, err := m.BeginPaint(dev); !errors.Is(err, null.ErrLockFailed) {
		t.Fatalf("BeginPaint() error = %v, want ErrLockFailed", err)
	}
	if ok, err := m.BeginPaint(dev); !ok || err != nil {
		t.Fatalf("BeginPaint() = %v, %v, want true, nil", ok, err)
	}

	got, err := tex.Image(0)
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Errorf("pixels after retry = %v, want %v", got.Pix, src.Pix)
	}
}
