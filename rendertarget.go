package gdev

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
)

// percentageLock binds a target's size to a fraction of the back buffer.
type percentageLock struct {
	enabled bool
	width   float32
	height  float32
}

// size derives the locked dimensions from the current back buffer.
func (p percentageLock) size(d *Device) (int, int) {
	bw, bh := d.BackBufferSize()
	w := int(math32.Round(float32(bw) * p.width))
	h := int(math32.Round(float32(bh) * p.height))
	return max(w, 1), max(h, 1)
}

// RenderTarget is an offscreen color target whose content can be sampled
// through its color texture. A multisampled target renders into a separate
// surface that is resolved into the color texture.
//
// Render targets are always volatile. Their content is undefined after a
// device reset.
type RenderTarget struct {
	device  *Device
	width   int
	height  int
	format  gputypes.TextureFormat
	mode    string
	samples int
	quality int
	lock    percentageLock

	color   *Texture
	msaa    NativeSurface
	staging NativeSurface
	locked  bool

	onReset []func(*RenderTarget)
}

func newRenderTarget(d *Device, width, height int, lock percentageLock, format gputypes.TextureFormat, mode string) (*RenderTarget, error) {
	rt := &RenderTarget{
		device: d,
		width:  width,
		height: height,
		format: format,
		mode:   mode,
		lock:   lock,
	}
	if lock.enabled {
		rt.width, rt.height = lock.size(d)
	}
	if rt.width <= 0 || rt.height <= 0 {
		return nil, fmt.Errorf("%w: render target %dx%d", ErrInvalidDimensions, rt.width, rt.height)
	}
	if !d.manager.CheckFormat(FormatUsageRenderTarget, format) {
		return nil, fmt.Errorf("%w: render target format %v", ErrNotSupported, format)
	}
	if err := rt.create(); err != nil {
		return nil, err
	}
	d.Track(rt)
	return rt, nil
}

// create allocates the native storage at the current size. The color
// texture object is kept across reloads so bindings to it stay valid.
func (rt *RenderTarget) create() error {
	d := rt.device
	samples, quality, err := d.caps.ResolveMultisample(rt.mode, rt.format, gputypes.TextureFormatUndefined)
	if err != nil {
		return err
	}

	if rt.color == nil {
		color, err := newRenderTargetTexture(d, rt.width, rt.height, rt.format)
		if err != nil {
			return err
		}
		rt.color = color
	} else {
		rt.color.width, rt.color.height = rt.width, rt.height
		if err := rt.color.createNative(); err != nil {
			return err
		}
	}

	if samples > 0 {
		msaa, err := d.native.CreateRenderTargetSurface(rt.width, rt.height, rt.format, samples, quality)
		if err != nil {
			rt.color.releaseNative()
			return fmt.Errorf("%w: %dx%d %v render target with %d samples (quality %d): %w",
				ErrCreateFailed, rt.width, rt.height, rt.format, samples, quality, err)
		}
		rt.msaa = msaa
	}
	rt.samples, rt.quality = samples, quality
	return nil
}

func (rt *RenderTarget) Width() int                     { return rt.width }
func (rt *RenderTarget) Height() int                    { return rt.height }
func (rt *RenderTarget) Format() gputypes.TextureFormat { return rt.format }
func (rt *RenderTarget) MultisampleMode() string        { return rt.mode }
func (rt *RenderTarget) SampleCount() int               { return rt.samples }
func (rt *RenderTarget) SampleQuality() int             { return rt.quality }

// IsMultisampled reports whether the target renders into a multisampled
// surface.
func (rt *RenderTarget) IsMultisampled() bool { return rt.samples > 0 }

// IsPercentageLocked reports whether the size follows the back buffer.
func (rt *RenderTarget) IsPercentageLocked() bool { return rt.lock.enabled }

// IsReleased reports whether the native storage is currently released.
func (rt *RenderTarget) IsReleased() bool { return rt.color == nil || rt.color.native == nil }

// ColorTexture returns the texture holding the target's color content.
func (rt *RenderTarget) ColorTexture() *Texture { return rt.color }

// Surface returns the surface bound as render target: the multisampled
// surface if any, otherwise the top level of the color texture.
func (rt *RenderTarget) Surface() NativeSurface {
	if rt.msaa != nil {
		return rt.msaa
	}
	if rt.color == nil || rt.color.surface == nil {
		return nil
	}
	return rt.color.surface
}

// SetPercentageLock binds the size to a fraction of the back buffer. The
// new size applies at the next device reset.
func (rt *RenderTarget) SetPercentageLock(width, height float32) {
	rt.lock = percentageLock{enabled: true, width: width, height: height}
}

// OnReset registers fn to be called after the target is reloaded. Use it to
// redraw content that did not survive the reset.
func (rt *RenderTarget) OnReset(fn func(*RenderTarget)) {
	rt.onReset = append(rt.onReset, fn)
}

// Resolve copies the multisampled surface into the color texture. It does
// nothing for targets without multisampling.
func (rt *RenderTarget) Resolve() error {
	if rt.msaa == nil || rt.IsReleased() {
		return nil
	}
	return rt.device.native.StretchRect(rt.msaa, rt.color.surface)
}

// PrecacheLockedData creates the staging surface used by Lock ahead of
// time.
func (rt *RenderTarget) PrecacheLockedData() error {
	return rt.ensureStaging()
}

func (rt *RenderTarget) ensureStaging() error {
	if rt.staging != nil && (rt.staging.Width() != rt.width || rt.staging.Height() != rt.height) {
		rt.releaseStaging()
	}
	if rt.staging != nil {
		return nil
	}
	s, err := rt.device.native.CreateOffscreenSurface(rt.width, rt.height, rt.format)
	if err != nil {
		return fmt.Errorf("%w: staging surface %dx%d %v: %w", ErrCreateFailed, rt.width, rt.height, rt.format, err)
	}
	rt.staging = s
	return nil
}

func (rt *RenderTarget) releaseStaging() {
	if rt.staging != nil {
		rt.staging.Release()
		rt.staging = nil
	}
}

// Lock copies the current color content into the staging surface and
// maps it. Writes to the returned bytes do not reach the target.
func (rt *RenderTarget) Lock() ([]byte, int, error) {
	if rt.IsReleased() {
		return nil, 0, ErrResourceReleased
	}
	if rt.locked {
		return nil, 0, ErrAlreadyLocked
	}
	if err := rt.ensureStaging(); err != nil {
		return nil, 0, err
	}
	if err := rt.Resolve(); err != nil {
		return nil, 0, err
	}
	if err := rt.device.native.GetRenderTargetData(rt.color.surface, rt.staging); err != nil {
		return nil, 0, fmt.Errorf("gdev: copy render target data: %w", err)
	}
	data, pitch, err := rt.staging.Lock(LockReadOnly)
	if err != nil {
		return nil, 0, err
	}
	rt.locked = true
	return data, pitch, nil
}

// Unlock unmaps the staging surface. It panics if the target is not
// locked.
func (rt *RenderTarget) Unlock() {
	if !rt.locked {
		panic("gdev: unlock of a render target that is not locked")
	}
	rt.locked = false
	rt.staging.Unlock()
}

// ReleaseVolatileResource releases the color texture and multisampled
// surface. The staging surface lives in system memory and is kept.
func (rt *RenderTarget) ReleaseVolatileResource() {
	if rt.IsReleased() {
		return
	}
	if rt.locked {
		rt.staging.Unlock()
		rt.locked = false
	}
	if rt.msaa != nil {
		rt.msaa.Release()
		rt.msaa = nil
	}
	rt.color.releaseNative()
}

// ReloadVolatileResource re-derives a percentage-locked size and recreates
// the native storage. A staging surface of the old size is dropped and
// rebuilt on the next Lock.
func (rt *RenderTarget) ReloadVolatileResource() error {
	if !rt.IsReleased() {
		return nil
	}
	if rt.lock.enabled {
		w, h := rt.lock.size(rt.device)
		if w != rt.width || h != rt.height {
			rt.device.log.Debug("gdev: render target resized",
				"from", fmt.Sprintf("%dx%d", rt.width, rt.height),
				"to", fmt.Sprintf("%dx%d", w, h))
			rt.width, rt.height = w, h
			rt.releaseStaging()
		}
	}
	if err := rt.create(); err != nil {
		return err
	}
	for _, fn := range rt.onReset {
		fn(rt)
	}
	return nil
}

// Destroy unbinds the target, releases its storage and removes it from the
// device registry.
func (rt *RenderTarget) Destroy() {
	d := rt.device
	if d == nil {
		return
	}
	d.unbindRenderTarget(rt)
	d.Untrack(rt)
	rt.ReleaseVolatileResource()
	if rt.color != nil {
		rt.color.Destroy()
		rt.color = nil
	}
	rt.releaseStaging()
	rt.device = nil
}

// DepthStencilBuffer is an offscreen depth-stencil target. Depth buffers
// are always volatile and cannot be locked.
type DepthStencilBuffer struct {
	device  *Device
	width   int
	height  int
	format  gputypes.TextureFormat
	mode    string
	samples int
	quality int
	lock    percentageLock

	native  NativeSurface
	onReset []func(*DepthStencilBuffer)
}

func newDepthStencilBuffer(d *Device, width, height int, lock percentageLock, format gputypes.TextureFormat, mode string) (*DepthStencilBuffer, error) {
	db := &DepthStencilBuffer{
		device: d,
		width:  width,
		height: height,
		format: format,
		mode:   mode,
		lock:   lock,
	}
	if lock.enabled {
		db.width, db.height = lock.size(d)
	}
	if db.width <= 0 || db.height <= 0 {
		return nil, fmt.Errorf("%w: depth buffer %dx%d", ErrInvalidDimensions, db.width, db.height)
	}
	if !IsDepthFormat(format) || !d.manager.CheckFormat(FormatUsageDepthStencil, format) {
		return nil, fmt.Errorf("%w: depth buffer format %v", ErrNotSupported, format)
	}
	if err := db.create(); err != nil {
		return nil, err
	}
	d.Track(db)
	return db, nil
}

func (db *DepthStencilBuffer) create() error {
	d := db.device
	samples, quality, err := d.caps.ResolveMultisample(db.mode, gputypes.TextureFormatUndefined, db.format)
	if err != nil {
		return err
	}
	s, err := d.native.CreateDepthStencilSurface(db.width, db.height, db.format, samples, quality)
	if err != nil {
		return fmt.Errorf("%w: %dx%d %v depth buffer with %d samples (quality %d): %w",
			ErrCreateFailed, db.width, db.height, db.format, samples, quality, err)
	}
	db.native = s
	db.samples, db.quality = samples, quality
	return nil
}

func (db *DepthStencilBuffer) Width() int                     { return db.width }
func (db *DepthStencilBuffer) Height() int                    { return db.height }
func (db *DepthStencilBuffer) Format() gputypes.TextureFormat { return db.format }
func (db *DepthStencilBuffer) MultisampleMode() string        { return db.mode }
func (db *DepthStencilBuffer) SampleCount() int               { return db.samples }
func (db *DepthStencilBuffer) SampleQuality() int             { return db.quality }
func (db *DepthStencilBuffer) IsReleased() bool               { return db.native == nil }

// Surface returns the native surface, or nil while released.
func (db *DepthStencilBuffer) Surface() NativeSurface { return db.native }

// SetPercentageLock binds the size to a fraction of the back buffer. The
// new size applies at the next device reset.
func (db *DepthStencilBuffer) SetPercentageLock(width, height float32) {
	db.lock = percentageLock{enabled: true, width: width, height: height}
}

// OnReset registers fn to be called after the buffer is reloaded.
func (db *DepthStencilBuffer) OnReset(fn func(*DepthStencilBuffer)) {
	db.onReset = append(db.onReset, fn)
}

// Lock always panics: depth-stencil buffers cannot be mapped.
func (db *DepthStencilBuffer) Lock() {
	panic("gdev: depth-stencil buffers cannot be locked")
}

// ReleaseVolatileResource releases the native surface.
func (db *DepthStencilBuffer) ReleaseVolatileResource() {
	if db.native == nil {
		return
	}
	db.native.Release()
	db.native = nil
}

// ReloadVolatileResource re-derives a percentage-locked size and recreates
// the native surface.
func (db *DepthStencilBuffer) ReloadVolatileResource() error {
	if db.native != nil {
		return nil
	}
	if db.lock.enabled {
		db.width, db.height = db.lock.size(db.device)
	}
	if err := db.create(); err != nil {
		return err
	}
	for _, fn := range db.onReset {
		fn(db)
	}
	return nil
}

// Destroy unbinds the buffer, releases its storage and removes it from
// the device registry.
func (db *DepthStencilBuffer) Destroy() {
	d := db.device
	if d == nil {
		return
	}
	d.unbindDepthStencilBuffer(db)
	d.Untrack(db)
	db.ReleaseVolatileResource()
	db.device = nil
}
