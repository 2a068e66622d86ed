// Package gdev is the device-lifecycle and resource-recovery layer of a
// real-time rendering backend.
//
// A [Device] owns the single native graphics device of a window. Every GPU
// resource whose storage cannot survive a device-lost event registers itself
// with the device as a [VolatileResource]. When the device manager reports a
// loss, [Device.OnDeviceLost] releases the tracked resources in registration
// order; after the native reset, [Device.OnDeviceReset] reloads them in the
// same order and restores their content.
//
// # Quick Start
//
//	mgr := null.NewManager(800, 600)
//	dev := gdev.New(mgr)
//	if err := dev.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Release()
//
//	vb, err := dev.Factory().CreateVertexBuffer(100, 4, gdev.UsageDynamic)
//
// # Render State
//
// All pipeline toggles go through the [StateCache]. Each setter compares the
// incoming value with the shadow copy and only forwards changed fields to the
// driver, so redundant calls are free.
//
// # Draw Submission
//
// [Device.Render] binds a [Material], reconciles its state and submits a
// slice of [RenderOperation] values. When the active [Effect] supports
// instancing and all operations share one [GeometryData], the operations are
// drawn in sub-batches of at most [MaxBatchInstances] instances.
//
// # Logging
//
// gdev logs through [log/slog]. By default nothing is printed; call
// [SetLogger] to enable output.
package gdev
