package gdev_test

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gputypes"
)

func TestDynamicBufferSurvivesReset(t *testing.T) {
	m, dev := newTestDevice(t)
	vb, err := dev.Factory().CreateVertexBuffer(100, 4, gdev.UsageDynamic)
	if err != nil {
		t.Fatalf("CreateVertexBuffer() error = %v", err)
	}
	defer vb.Destroy()

	data, err := vb.Lock(0, 0, gdev.LockNone)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	for i := 0; i < 100; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(float32(i)*0.5))
	}
	vb.Unlock()
	before := vb.Native()

	cycleLoss(t, m, dev)

	if vb.Native() == nil {
		t.Fatal("Native() = nil after reset")
	}
	if vb.Native() == before {
		t.Error("Native() handle not recreated")
	}
	data, err = vb.Lock(0, 0, gdev.LockReadOnly)
	if err != nil {
		t.Fatalf("Lock() after reset error = %v", err)
	}
	defer vb.Unlock()
	for i := 0; i < 100; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		if want := float32(i) * 0.5; got != want {
			t.Fatalf("vertex %d = %v, want %v", i, got, want)
		}
	}
}

func TestWriteOnlyBufferContentNotKept(t *testing.T) {
	m, dev := newTestDevice(t)
	ib, err := dev.Factory().CreateIndexBuffer(gputypes.IndexFormatUint16, 6, gdev.UsageDynamic|gdev.UsageWriteOnly)
	if err != nil {
		t.Fatalf("CreateIndexBuffer() error = %v", err)
	}
	defer ib.Destroy()
	if ib.Size() != 12 {
		t.Errorf("Size() = %d, want 12", ib.Size())
	}
	if _, err := ib.Lock(0, 0, gdev.LockReadOnly); !errors.Is(err, gdev.ErrWriteOnly) {
		t.Errorf("read-only Lock() error = %v, want ErrWriteOnly", err)
	}

	cycleLoss(t, m, dev)

	if ib.IsReleased() {
		t.Error("write-only buffer not recreated")
	}
}

func TestStaticBufferNotTracked(t *testing.T) {
	m, dev := newTestDevice(t)
	base := dev.TrackedCount()
	vb, err := dev.Factory().CreateVertexBuffer(3, 12, gdev.UsageStatic)
	if err != nil {
		t.Fatalf("CreateVertexBuffer() error = %v", err)
	}
	defer vb.Destroy()
	if dev.TrackedCount() != base {
		t.Errorf("TrackedCount() = %d, want %d", dev.TrackedCount(), base)
	}

	before := vb.Native()
	cycleLoss(t, m, dev)
	if vb.Native() != before {
		t.Error("static buffer handle changed across reset")
	}
}

func TestBufferLockErrors(t *testing.T) {
	_, dev := newTestDevice(t)
	vb, err := dev.Factory().CreateVertexBuffer(4, 8, gdev.UsageDynamic)
	if err != nil {
		t.Fatalf("CreateVertexBuffer() error = %v", err)
	}
	defer vb.Destroy()

	if _, err := vb.Lock(0, 0, gdev.LockNone); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if _, err := vb.Lock(0, 0, gdev.LockNone); !errors.Is(err, gdev.ErrAlreadyLocked) {
		t.Errorf("second Lock() error = %v, want ErrAlreadyLocked", err)
	}
	vb.Unlock()

	if _, err := vb.Lock(24, 16, gdev.LockNone); !errors.Is(err, gdev.ErrInvalidDimensions) {
		t.Errorf("Lock() past end error = %v, want ErrInvalidDimensions", err)
	}

	dev.OnDeviceLost()
	if _, err := vb.Lock(0, 0, gdev.LockNone); !errors.Is(err, gdev.ErrResourceReleased) {
		t.Errorf("Lock() while released error = %v, want ErrResourceReleased", err)
	}
}

func TestUnlockNotLockedPanics(t *testing.T) {
	_, dev := newTestDevice(t)
	vb, _ := dev.Factory().CreateVertexBuffer(1, 4, gdev.UsageStatic)
	defer vb.Destroy()
	defer func() {
		if recover() == nil {
			t.Error("Unlock() without Lock did not panic")
		}
	}()
	vb.Unlock()
}

func TestBufferInvalidSize(t *testing.T) {
	_, dev := newTestDevice(t)
	if _, err := dev.Factory().CreateVertexBuffer(0, 4, gdev.UsageStatic); !errors.Is(err, gdev.ErrInvalidDimensions) {
		t.Errorf("CreateVertexBuffer(0) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestIndexSize(t *testing.T) {
	if got := gdev.IndexSize(gputypes.IndexFormatUint16); got != 2 {
		t.Errorf("IndexSize(Uint16) = %d, want 2", got)
	}
	if got := gdev.IndexSize(gputypes.IndexFormatUint32); got != 4 {
		t.Errorf("IndexSize(Uint32) = %d, want 4", got)
	}
}
