package gdev_test

import (
	"testing"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gdev/backend/null"
)

// newTestDevice returns an initialized device on a 640x480 null manager.
func newTestDevice(t *testing.T, opts ...null.Option) (*null.Manager, *gdev.Device) {
	t.Helper()
	m := null.NewManager(640, 480, opts...)
	dev := gdev.New(m)
	if err := dev.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(dev.Release)
	return m, dev
}

// cycleLoss loses the device and drives the manager until it is usable
// again.
func cycleLoss(t *testing.T, m *null.Manager, dev *gdev.Device) {
	t.Helper()
	m.Lose()
	for i := 0; i < 8; i++ {
		ok, err := m.BeginPaint(dev)
		if err != nil {
			t.Fatalf("BeginPaint() error = %v", err)
		}
		if ok {
			return
		}
	}
	t.Fatal("device not recovered after 8 polls")
}

// recorder is a volatile resource that logs its hooks.
type recorder struct {
	name      string
	log       *[]string
	reloadErr error
	onRelease func()
}

func (r *recorder) ReleaseVolatileResource() {
	*r.log = append(*r.log, "release "+r.name)
	if r.onRelease != nil {
		r.onRelease()
	}
}

func (r *recorder) ReloadVolatileResource() error {
	*r.log = append(*r.log, "reload "+r.name)
	return r.reloadErr
}
