// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import (
	"errors"
	"testing"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gputypes"
)

func TestBufferLock(t *testing.T) {
	d := newDevice(4, 4, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined)
	nb, err := d.CreateVertexBuffer(16, gdev.UsageStatic)
	if err != nil {
		t.Fatalf("CreateVertexBuffer() error = %v", err)
	}
	b := nb.(*Buffer)
	if b.Pool() != PoolManaged {
		t.Errorf("Pool() = %v, want PoolManaged", b.Pool())
	}

	data, err := b.Lock(4, 8, gdev.LockNone)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	data[0] = 0xAB
	if _, err := b.Lock(0, 4, gdev.LockNone); !errors.Is(err, ErrLocked) {
		t.Errorf("second Lock() error = %v, want ErrLocked", err)
	}
	b.Unlock()
	if b.Data[4] != 0xAB {
		t.Errorf("Data[4] = %#x, want 0xAB", b.Data[4])
	}
	if _, err := b.Lock(8, 16, gdev.LockNone); !errors.Is(err, ErrRange) {
		t.Errorf("Lock() past end error = %v, want ErrRange", err)
	}
}

func TestFailLocks(t *testing.T) {
	d := newDevice(4, 4, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined)
	nb, _ := d.CreateVertexBuffer(16, gdev.UsageDynamic)
	nt, _ := d.CreateTexture(gdev.NativeTextureDesc{
		Type:   gdev.Texture2D,
		Width:  2,
		Height: 2,
		Levels: 1,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  gdev.UsageDynamic,
	})
	defer nb.Release()
	defer nt.Release()

	d.FailLocks(2)
	if _, err := nb.Lock(0, 16, gdev.LockNone); !errors.Is(err, ErrLockFailed) {
		t.Errorf("buffer Lock() error = %v, want ErrLockFailed", err)
	}
	if _, _, err := nt.Lock(gdev.CubeFacePositiveX, 0, gdev.LockNone); !errors.Is(err, ErrLockFailed) {
		t.Errorf("texture Lock() error = %v, want ErrLockFailed", err)
	}
	if _, err := nb.Lock(0, 16, gdev.LockNone); err != nil {
		t.Fatalf("Lock() after faults error = %v", err)
	}
	nb.Unlock()
}

func TestLiveObjects(t *testing.T) {
	d := newDevice(4, 4, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined)
	dyn, _ := d.CreateVertexBuffer(16, gdev.UsageDynamic)
	static, _ := d.CreateVertexBuffer(16, gdev.UsageStatic)
	sys, _ := d.CreateOffscreenSurface(4, 4, gputypes.TextureFormatBGRA8Unorm)

	if d.LiveObjects() != 1 {
		t.Fatalf("LiveObjects() = %d, want 1", d.LiveObjects())
	}
	dyn.Release()
	if d.LiveObjects() != 0 {
		t.Errorf("LiveObjects() = %d after release, want 0", d.LiveObjects())
	}
	static.Release()
	sys.Release()
}

func TestDoubleReleasePanics(t *testing.T) {
	d := newDevice(4, 4, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined)
	s, _ := d.CreateVertexShader([]byte{1})
	s.Release()
	defer func() {
		if recover() == nil {
			t.Error("second Release() did not panic")
		}
	}()
	s.Release()
}

func TestDrawReadsReleasedBufferPanics(t *testing.T) {
	d := newDevice(4, 4, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined)
	vb, _ := d.CreateVertexBuffer(48, gdev.UsageDynamic)
	d.SetStreamSource(0, vb, 0, 16)
	d.BeginScene()
	d.DrawPrimitive(gputypes.PrimitiveTopologyTriangleList, 0, 1)
	if len(d.Draws) != 1 {
		t.Fatalf("Draws = %d, want 1", len(d.Draws))
	}

	vb.Release()
	defer func() {
		if recover() == nil {
			t.Error("draw with released buffer did not panic")
		}
	}()
	d.DrawPrimitive(gputypes.PrimitiveTopologyTriangleList, 0, 1)
}

func TestInstancedDrawRecordsInstances(t *testing.T) {
	d := newDevice(4, 4, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined)
	vb, _ := d.CreateVertexBuffer(48, gdev.UsageStatic)
	ib, _ := d.CreateIndexBuffer(6, gputypes.IndexFormatUint16, gdev.UsageStatic)
	d.SetStreamSource(0, vb, 0, 16)
	d.SetIndices(ib)
	d.SetStreamSourceFreq(0, gdev.StreamIndexedData|7)
	d.BeginScene()
	d.DrawIndexedPrimitive(gputypes.PrimitiveTopologyTriangleList, 0, 0, 3, 0, 1)
	d.EndScene()

	if got := d.Draws[0].Instances; got != 7 {
		t.Errorf("Instances = %d, want 7", got)
	}
}

func TestClearFillsTargets(t *testing.T) {
	d := newDevice(2, 2, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined)
	d.Clear(gdev.ClearTarget, 0xFF112233, 1, 0)
	bb := d.BoundRenderTarget(0)
	want := []byte{0x33, 0x22, 0x11, 0xFF}
	for i := range want {
		if bb.Data[i] != want[i] {
			t.Fatalf("Data[%d] = %#x, want %#x", i, bb.Data[i], want[i])
		}
	}
}

func TestGetRenderTargetDataNeedsSystemMemory(t *testing.T) {
	d := newDevice(2, 2, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined)
	rt, _ := d.CreateRenderTargetSurface(2, 2, gputypes.TextureFormatBGRA8Unorm, 0, 0)
	dst, _ := d.CreateRenderTargetSurface(2, 2, gputypes.TextureFormatBGRA8Unorm, 0, 0)
	if err := d.GetRenderTargetData(rt, dst); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("GetRenderTargetData() error = %v, want ErrInvalidCall", err)
	}
	sys, _ := d.CreateOffscreenSurface(2, 2, gputypes.TextureFormatBGRA8Unorm)
	if err := d.GetRenderTargetData(rt, sys); err != nil {
		t.Errorf("GetRenderTargetData() error = %v", err)
	}
}
