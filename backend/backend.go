// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/gdev"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrDeviceLost is wrapped by backend errors returned while the native
	// device is lost.
	ErrDeviceLost = errors.New("backend: device lost")
)

// Backend names.
const (
	// BackendNull is the in-memory device manager.
	BackendNull = "null"
)

// Backend is a device manager that also drives presentation. It owns
// the native device and runs the lost/reset sequence for the
// [gdev.Device] it serves.
type Backend interface {
	gdev.DeviceManager

	// BeginPaint checks the cooperative level and, when the device was
	// lost or a resize is pending, calls dev.OnDeviceLost, resets the
	// native device and calls dev.OnDeviceReset. It reports false when
	// the frame must be skipped.
	BeginPaint(dev *gdev.Device) (bool, error)

	// Present shows the back buffer.
	Present() error

	// Resize requests new back buffer dimensions, applied on the next
	// BeginPaint.
	Resize(width, height int)

	// Close releases the native device. It fails when objects created
	// by the device are still alive.
	Close() error
}
