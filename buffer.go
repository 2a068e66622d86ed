package gdev

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// buffer is the storage shared by vertex and index buffers. Dynamic
// buffers are volatile: they register with the device and, unless
// write-only, keep a host copy of their content while released.
type buffer struct {
	device *Device
	size   int
	usage  Usage
	create func() (NativeBuffer, error)

	native NativeBuffer
	shadow []byte
	locked bool
}

func (b *buffer) init(d *Device, size int, usage Usage, create func() (NativeBuffer, error)) error {
	if size <= 0 {
		return fmt.Errorf("%w: buffer size %d", ErrInvalidDimensions, size)
	}
	b.device = d
	b.size = size
	b.usage = usage
	b.create = create
	native, err := create()
	if err != nil {
		return fmt.Errorf("%w: buffer of %d bytes (%v): %w", ErrCreateFailed, size, usage, err)
	}
	b.native = native
	if usage.IsDynamic() {
		d.Track(b)
	}
	return nil
}

// Size returns the buffer size in bytes.
func (b *buffer) Size() int { return b.size }

// Usage returns the usage flags.
func (b *buffer) Usage() Usage { return b.usage }

// Native returns the native buffer, or nil while released.
func (b *buffer) Native() NativeBuffer { return b.native }

// IsReleased reports whether the native storage is currently released.
func (b *buffer) IsReleased() bool { return b.native == nil }

// Lock maps size bytes starting at offset. A size of 0 maps to the end of
// the buffer.
func (b *buffer) Lock(offset, size int, mode LockMode) ([]byte, error) {
	if b.native == nil {
		return nil, ErrResourceReleased
	}
	if b.locked {
		return nil, ErrAlreadyLocked
	}
	if mode == LockReadOnly && b.usage.IsWriteOnly() {
		return nil, ErrWriteOnly
	}
	if size == 0 {
		size = b.size - offset
	}
	if offset < 0 || size <= 0 || offset+size > b.size {
		return nil, fmt.Errorf("%w: lock range [%d,%d) of %d bytes", ErrInvalidDimensions, offset, offset+size, b.size)
	}
	data, err := b.native.Lock(offset, size, mode)
	if err != nil {
		return nil, err
	}
	b.locked = true
	return data, nil
}

// Unlock unmaps the locked range. It panics if the buffer is not locked.
func (b *buffer) Unlock() {
	if !b.locked {
		panic("gdev: unlock of a buffer that is not locked")
	}
	b.locked = false
	if b.native != nil {
		b.native.Unlock()
	}
}

// IsLocked reports whether the buffer is locked.
func (b *buffer) IsLocked() bool { return b.locked }

// ReleaseVolatileResource reads back the content of a dynamic non
// write-only buffer and releases the native storage. A host copy left by a
// reload that failed after recreating the storage is kept as is.
func (b *buffer) ReleaseVolatileResource() {
	if b.native == nil {
		return
	}
	if b.locked {
		b.native.Unlock()
		b.locked = false
	}
	if !b.usage.IsWriteOnly() && b.shadow == nil {
		b.shadow = b.readBack()
	}
	b.native.Release()
	b.native = nil
}

func (b *buffer) readBack() []byte {
	data, err := b.native.Lock(0, b.size, LockReadOnly)
	if err != nil {
		b.device.log.Warn("gdev: buffer read-back failed", "size", b.size, "err", err)
		return nil
	}
	shadow := make([]byte, b.size)
	copy(shadow, data)
	b.native.Unlock()
	return shadow
}

// ReloadVolatileResource recreates the native storage and uploads the host
// copy taken at release.
func (b *buffer) ReloadVolatileResource() error {
	if b.native != nil {
		return nil
	}
	native, err := b.create()
	if err != nil {
		return fmt.Errorf("%w: buffer of %d bytes (%v): %w", ErrCreateFailed, b.size, b.usage, err)
	}
	b.native = native
	if b.shadow == nil {
		return nil
	}
	data, err := native.Lock(0, b.size, LockDiscard)
	if err != nil {
		return fmt.Errorf("gdev: restore buffer content: %w", err)
	}
	copy(data, b.shadow)
	native.Unlock()
	b.shadow = nil
	return nil
}

// destroy releases the storage and deregisters the buffer.
func (b *buffer) destroy() {
	if b.device == nil {
		return
	}
	if b.usage.IsDynamic() {
		b.device.Untrack(b)
	}
	if b.native != nil {
		if b.locked {
			b.native.Unlock()
			b.locked = false
		}
		b.native.Release()
		b.native = nil
	}
	b.shadow = nil
	b.device = nil
}

// VertexBuffer holds vertex data for one or more streams.
type VertexBuffer struct {
	buffer
	vertexCount int
	vertexSize  int
}

func newVertexBuffer(d *Device, vertexCount, vertexSize int, usage Usage) (*VertexBuffer, error) {
	if vertexCount <= 0 || vertexSize <= 0 {
		return nil, fmt.Errorf("%w: %d vertices of %d bytes", ErrInvalidDimensions, vertexCount, vertexSize)
	}
	vb := &VertexBuffer{vertexCount: vertexCount, vertexSize: vertexSize}
	size := vertexCount * vertexSize
	err := vb.init(d, size, usage, func() (NativeBuffer, error) {
		return d.native.CreateVertexBuffer(size, usage)
	})
	if err != nil {
		return nil, err
	}
	return vb, nil
}

// VertexCount returns the number of vertices the buffer holds.
func (vb *VertexBuffer) VertexCount() int { return vb.vertexCount }

// VertexSize returns the vertex stride in bytes.
func (vb *VertexBuffer) VertexSize() int { return vb.vertexSize }

// Destroy releases the buffer and removes it from the device registry.
func (vb *VertexBuffer) Destroy() { vb.destroy() }

// IndexBuffer holds 16 or 32 bit indices.
type IndexBuffer struct {
	buffer
	format     gputypes.IndexFormat
	indexCount int
}

func newIndexBuffer(d *Device, format gputypes.IndexFormat, indexCount int, usage Usage) (*IndexBuffer, error) {
	stride := IndexSize(format)
	if stride == 0 {
		return nil, fmt.Errorf("%w: index format %v", ErrNotSupported, format)
	}
	if indexCount <= 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrInvalidDimensions, indexCount)
	}
	ib := &IndexBuffer{format: format, indexCount: indexCount}
	size := indexCount * stride
	err := ib.init(d, size, usage, func() (NativeBuffer, error) {
		return d.native.CreateIndexBuffer(size, format, usage)
	})
	if err != nil {
		return nil, err
	}
	return ib, nil
}

// Format returns the index format.
func (ib *IndexBuffer) Format() gputypes.IndexFormat { return ib.format }

// IndexCount returns the number of indices the buffer holds.
func (ib *IndexBuffer) IndexCount() int { return ib.indexCount }

// Destroy releases the buffer and removes it from the device registry.
func (ib *IndexBuffer) Destroy() { ib.destroy() }

// IndexSize returns the size of one index of format in bytes, or 0 for an
// unknown format.
func IndexSize(format gputypes.IndexFormat) int {
	switch format {
	case gputypes.IndexFormatUint16:
		return 2
	case gputypes.IndexFormatUint32:
		return 4
	default:
		return 0
	}
}
