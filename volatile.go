package gdev

import "fmt"

// VolatileResource is implemented by every resource whose native storage
// does not survive a device loss.
//
// ReleaseVolatileResource must keep the logical properties (size, format,
// usage) and drop the native handle. Calling it on a resource that is
// already released has no effect. ReloadVolatileResource recreates the
// native handle; resources with read-back semantics restore the content
// they held before release.
//
// Neither hook may construct or destroy other resources.
type VolatileResource interface {
	ReleaseVolatileResource()
	ReloadVolatileResource() error
}

// Track registers r with the device. Resources are released and reloaded
// in registration order. It panics if r is already tracked or if a
// release or reload pass is running.
func (d *Device) Track(r VolatileResource) {
	d.checkRegistryMutation("track")
	for _, e := range d.resources {
		if e == r {
			panic(fmt.Sprintf("gdev: resource %T tracked twice", r))
		}
	}
	d.resources = append(d.resources, r)
}

// Untrack removes the first registration of r. Untracking a resource that
// is not tracked has no effect.
func (d *Device) Untrack(r VolatileResource) {
	d.checkRegistryMutation("untrack")
	for i, e := range d.resources {
		if e == r {
			d.resources = append(d.resources[:i], d.resources[i+1:]...)
			return
		}
	}
}

// TrackedCount returns the number of registered volatile resources.
func (d *Device) TrackedCount() int { return len(d.resources) }

// IsTracked reports whether r is registered with the device.
func (d *Device) IsTracked(r VolatileResource) bool {
	for _, e := range d.resources {
		if e == r {
			return true
		}
	}
	return false
}

func (d *Device) checkRegistryMutation(op string) {
	if d.inPass {
		panic("gdev: cannot " + op + " a resource during a release or reload pass")
	}
}

// releaseAll runs the release hooks in registration order.
func (d *Device) releaseAll() {
	d.inPass = true
	defer func() { d.inPass = false }()

	for _, r := range d.resources {
		r.ReleaseVolatileResource()
	}
}

// reloadAll runs the reload hooks in registration order. It stops at the
// first failure.
func (d *Device) reloadAll() error {
	d.inPass = true
	defer func() { d.inPass = false }()

	for i, r := range d.resources {
		if err := r.ReloadVolatileResource(); err != nil {
			return fmt.Errorf("gdev: reload resource %d (%T): %w", i, r, err)
		}
	}
	return nil
}
