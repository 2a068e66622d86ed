package gdev_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gputypes"
)

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 200, G: 10, B: 30, A: 255}
			if (x+y)%2 == 1 {
				c = color.RGBA{R: 5, G: 220, B: 90, A: 128}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestTextureImageRoundTrip(t *testing.T) {
	_, dev := newTestDevice(t)
	tex, err := dev.Factory().CreateTexture(gdev.TextureDesc{
		Type:   gdev.Texture2D,
		Width:  8,
		Height: 8,
		Levels: 1,
		Format: gputypes.TextureFormatBGRA8Unorm,
		Usage:  gdev.UsageStatic,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	defer tex.Destroy()

	src := checkerboard(8, 8)
	if err := tex.SetImage(0, src); err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}
	got, err := tex.Image(0)
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	for _, p := range []image.Point{{0, 0}, {1, 0}, {7, 7}} {
		if got.RGBAAt(p.X, p.Y) != src.RGBAAt(p.X, p.Y) {
			t.Errorf("pixel %v = %v, want %v", p, got.RGBAAt(p.X, p.Y), src.RGBAAt(p.X, p.Y))
		}
	}

	// BGRA storage keeps blue first.
	data, _, err := tex.Lock(0, gdev.LockReadOnly)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if data[0] != 30 || data[2] != 200 {
		t.Errorf("stored pixel = %v, want BGRA order", data[:4])
	}
	tex.Unlock()
}

func TestDynamicTextureSurvivesReset(t *testing.T) {
	m, dev := newTestDevice(t)
	tex, err := dev.Factory().CreateTexture(gdev.TextureDesc{
		Type:   gdev.Texture2D,
		Width:  16,
		Height: 16,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  gdev.UsageDynamic,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	defer tex.Destroy()
	if tex.Levels() != 5 {
		t.Errorf("Levels() = %d, want full chain of 5", tex.Levels())
	}
	src := checkerboard(4, 4)
	if err := tex.SetImage(2, src); err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}

	cycleLoss(t, m, dev)

	got, err := tex.Image(2)
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if got.RGBAAt(1, 0) != src.RGBAAt(1, 0) {
		t.Errorf("pixel after reset = %v, want %v", got.RGBAAt(1, 0), src.RGBAAt(1, 0))
	}
}

func TestCubeTextureFaces(t *testing.T) {
	_, dev := newTestDevice(t)
	tex, err := dev.Factory().CreateTexture(gdev.TextureDesc{
		Type:   gdev.TextureCube,
		Width:  4,
		Height: 2,
		Levels: 1,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  gdev.UsageStatic,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	defer tex.Destroy()

	if tex.Height() != 4 {
		t.Errorf("cube Height() = %d, want 4", tex.Height())
	}
	if err := tex.SetFaceImage(gdev.CubeFaceNegativeZ, 0, checkerboard(4, 4)); err != nil {
		t.Errorf("SetFaceImage() error = %v", err)
	}
	if _, _, err := tex.LockFace(gdev.CubeFace(6), 0, gdev.LockNone); !errors.Is(err, gdev.ErrInvalidLevel) {
		t.Errorf("LockFace(6) error = %v, want ErrInvalidLevel", err)
	}
}

func TestTextureInvalidLevel(t *testing.T) {
	_, dev := newTestDevice(t)
	tex, err := dev.Factory().CreateTexture(gdev.TextureDesc{
		Width:  4, Height: 4, Levels: 1,
		Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	defer tex.Destroy()
	if _, _, err := tex.Lock(1, gdev.LockNone); !errors.Is(err, gdev.ErrInvalidLevel) {
		t.Errorf("Lock(1) error = %v, want ErrInvalidLevel", err)
	}
}

func TestCreateTextureFromImageScales(t *testing.T) {
	_, dev := newTestDevice(t)
	tex, err := dev.Factory().CreateTextureFromImage(checkerboard(6, 6), gputypes.TextureFormatRGBA8Unorm, 1, gdev.UsageStatic)
	if err != nil {
		t.Fatalf("CreateTextureFromImage() error = %v", err)
	}
	defer tex.Destroy()
	if tex.Width() != 6 || tex.Height() != 6 {
		t.Errorf("size = %dx%d, want 6x6", tex.Width(), tex.Height())
	}
}

func TestDestroyedTextureUnbound(t *testing.T) {
	_, dev := newTestDevice(t)
	tex, err := dev.Factory().CreateTexture(gdev.TextureDesc{
		Width:  2, Height: 2, Levels: 1,
		Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	dev.StateCache().SetTexture(2, tex)
	tex.Destroy()
	if dev.StateCache().Texture(2) != nil {
		t.Error("destroyed texture still bound to slot 2")
	}
}
