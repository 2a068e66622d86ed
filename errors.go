package gdev

import "errors"

// Package errors.
var (
	// ErrNotInitialized is returned when a device operation requires
	// Initialize to have been called first.
	ErrNotInitialized = errors.New("gdev: device not initialized")

	// ErrNotSupported is returned when a format, multisample mode or
	// dimension combination is not supported by the device. The wrapping
	// error describes the rejected combination.
	ErrNotSupported = errors.New("gdev: configuration not supported")

	// ErrCreateFailed is returned when the native device refuses to create
	// a resource.
	ErrCreateFailed = errors.New("gdev: native resource creation failed")

	// ErrResourceReleased is returned by native operations on a resource
	// whose storage was released by a device loss and not yet reloaded.
	ErrResourceReleased = errors.New("gdev: resource released")

	// ErrAlreadyLocked is returned when locking a resource that is
	// already locked.
	ErrAlreadyLocked = errors.New("gdev: resource already locked")

	// ErrWriteOnly is returned when a read-only lock is requested on a
	// write-only resource.
	ErrWriteOnly = errors.New("gdev: resource is write-only")

	// ErrInvalidDimensions is returned when a width, height or size is not
	// positive.
	ErrInvalidDimensions = errors.New("gdev: invalid dimensions")

	// ErrInvalidLevel is returned when a mip level or cube face is out of
	// range.
	ErrInvalidLevel = errors.New("gdev: invalid texture level")

	// ErrInvalidShaderCode is returned for shader byte code that is empty or
	// not a whole number of 32-bit tokens.
	ErrInvalidShaderCode = errors.New("gdev: invalid shader byte code")
)
