package gdev

import (
	"fmt"
	"log/slog"
)

// FrameStats holds the submission counters of the current frame. They are
// reset by [Device.BeginFrame].
type FrameStats struct {
	Frame      uint64
	Batches    int
	Primitives int
	Vertices   int
}

// Device owns the native graphics device of one window. It keeps the
// registry of volatile resources, the default and bound render targets,
// the render state cache and the draw dispatch helpers.
//
// A Device is created once per window with [New] and survives any number
// of device lost/reset cycles. It is not safe for concurrent use: all
// calls must come from the goroutine that owns the native device.
type Device struct {
	manager DeviceManager
	native  NativeDevice
	config  Config
	log     *slog.Logger
	presets []AAPreset

	resources    []VolatileResource
	inPass       bool
	handlingLoss bool
	lost         bool
	initialized  bool
	inScene      bool

	renderTargets []*RenderTarget
	depthBuffer   *DepthStencilBuffer
	defaultColor  NativeSurface
	defaultDepth  NativeSurface
	viewport      Viewport

	states        *StateCache
	caps          *Capabilities
	factory       *Factory
	instancing    *InstancingData
	defaultEffect *DefaultEffect

	vertexShader *Shader
	pixelShader  *Shader

	stats  FrameStats
	report batchReport
}

// New creates a device for the native device owned by manager. The
// device is unusable until [Device.Initialize] succeeds.
func New(manager DeviceManager, opts ...Option) *Device {
	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := o.logger
	if l == nil {
		l = Logger()
	}
	return &Device{
		manager: manager,
		config:  o.config,
		log:     l,
		presets: o.presets,
	}
}

// Initialize captures the default targets and allocates the state cache,
// the capabilities, the object factory, the instancing buffer and the
// default effect. Calling Initialize again has no effect.
func (d *Device) Initialize() error {
	if d.initialized {
		return nil
	}
	d.native = d.manager.Native()
	if d.native == nil {
		return fmt.Errorf("%w: device manager has no native device", ErrNotInitialized)
	}

	if d.presets == nil {
		presets, err := loadConfiguredPresets(d.config)
		if err != nil {
			return err
		}
		d.presets = presets
	}

	if err := d.captureDefaults(); err != nil {
		return err
	}

	d.caps = newCapabilities(d.manager, d.presets, d.config)
	d.renderTargets = make([]*RenderTarget, d.caps.MRTCount())
	d.states = NewStateCache(d.native, d.caps.TextureSlotCount())
	d.states.Reset()
	d.factory = newFactory(d)
	d.resetViewport()

	inst, err := newInstancingData(d)
	if err != nil {
		d.releaseDefaults()
		return err
	}
	d.instancing = inst

	fx, err := newDefaultEffect(d)
	if err != nil {
		d.instancing.Destroy()
		d.releaseDefaults()
		return err
	}
	d.defaultEffect = fx
	d.initialized = true

	info := d.manager.AdapterIdentity()
	d.log.Info("gdev: device initialized",
		"adapter", info.Description,
		"vendor", fmt.Sprintf("0x%04X", info.VendorID),
		"renderTargets", len(d.renderTargets),
		"textureSlots", d.states.TextureSlotCount())
	return nil
}

// Release tears down the objects created by Initialize. Resources created
// through the factory must be destroyed by their owners first.
func (d *Device) Release() {
	if !d.initialized {
		return
	}
	if n := len(d.resources); n > 0 {
		d.log.Warn("gdev: releasing device with live volatile resources", "count", n)
	}
	d.defaultEffect.Destroy()
	d.instancing.Destroy()
	d.factory.destroy()
	d.releaseDefaults()
	d.initialized = false
}

// Manager returns the device manager.
func (d *Device) Manager() DeviceManager { return d.manager }

// Native returns the native device.
func (d *Device) Native() NativeDevice { return d.native }

// Config returns the device configuration.
func (d *Device) Config() Config { return d.config }

// StateCache returns the render state cache.
func (d *Device) StateCache() *StateCache { return d.states }

// Capabilities returns the capability queries.
func (d *Device) Capabilities() *Capabilities { return d.caps }

// Factory returns the object factory.
func (d *Device) Factory() *Factory { return d.factory }

// Instancing returns the instancing batcher.
func (d *Device) Instancing() *InstancingData { return d.instancing }

// DefaultEffect returns the effect used for materials without a custom
// effect for the requested pass.
func (d *Device) DefaultEffect() *DefaultEffect { return d.defaultEffect }

// IsLost reports whether the device is between a loss and a successful
// reset. Draw submission is skipped while lost.
func (d *Device) IsLost() bool { return d.lost }

// BackBufferSize returns the current back buffer dimensions.
func (d *Device) BackBufferSize() (int, int) {
	s := d.manager.Settings()
	return s.BackBufferWidth, s.BackBufferHeight
}

// ============================================================================
// Lost / reset orchestration
// ============================================================================

// OnDeviceLost releases every tracked resource in registration order, then
// the captured default targets, and enters the lost state. Calling it on a
// device that is already lost has no effect. A loss notification arriving
// while one is being processed is a caller defect and panics.
func (d *Device) OnDeviceLost() {
	if d.handlingLoss {
		panic("gdev: device lost notification while a loss is being processed")
	}
	if d.lost {
		return
	}
	d.handlingLoss = true
	defer func() { d.handlingLoss = false }()

	d.log.Info("gdev: device lost", "resources", len(d.resources))

	d.releaseAll()
	d.releaseDefaults()
	d.lost = true
	d.inScene = false
	d.vertexShader = nil
	d.pixelShader = nil
}

// OnDeviceReset runs after the device manager reset the native device. It
// re-captures the default targets, reloads every tracked resource in
// registration order, restores the target bindings and pushes the default
// render state. The first reload failure is returned; the resources
// reloaded so far and the default targets are released again and the
// device stays lost, so the sequence can be retried.
func (d *Device) OnDeviceReset() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if !d.lost {
		panic("gdev: device reset without a preceding loss")
	}

	if err := d.captureDefaults(); err != nil {
		return err
	}
	if err := d.reloadAll(); err != nil {
		d.releaseAll()
		d.releaseDefaults()
		return err
	}

	d.lost = false
	d.rebindTargets()
	d.states.Reset()
	d.log.Debug("gdev: render state cache reset", "resets", d.states.Stats().Resets)

	w, h := d.BackBufferSize()
	d.log.Info("gdev: device reset", "resources", len(d.resources), "width", w, "height", h)
	return nil
}

func (d *Device) captureDefaults() error {
	d.releaseDefaults()

	bb, err := d.native.BackBuffer()
	if err != nil {
		return fmt.Errorf("%w: back buffer: %w", ErrCreateFailed, err)
	}
	ds, err := d.native.DepthStencilSurface()
	if err != nil {
		bb.Release()
		return fmt.Errorf("%w: default depth surface: %w", ErrCreateFailed, err)
	}
	d.defaultColor = bb
	d.defaultDepth = ds
	return nil
}

func (d *Device) releaseDefaults() {
	if d.defaultColor != nil {
		d.defaultColor.Release()
		d.defaultColor = nil
	}
	if d.defaultDepth != nil {
		d.defaultDepth.Release()
		d.defaultDepth = nil
	}
}

// rebindTargets restores the render target and depth bindings that were
// active before the loss.
func (d *Device) rebindTargets() {
	for i, rt := range d.renderTargets {
		switch {
		case rt != nil:
			d.native.SetRenderTarget(i, rt.Surface())
		case i == 0:
			d.native.SetRenderTarget(0, d.defaultColor)
		default:
			d.native.SetRenderTarget(i, nil)
		}
	}
	if d.depthBuffer != nil {
		d.native.SetDepthStencilSurface(d.depthBuffer.Surface())
	} else {
		d.native.SetDepthStencilSurface(d.defaultDepth)
	}
	d.resetViewport()
}

// ============================================================================
// Frame
// ============================================================================

// BeginFrame resets the frame counters and opens the native scene.
func (d *Device) BeginFrame() {
	d.stats = FrameStats{Frame: d.stats.Frame + 1}
	if d.config.BatchReportFirstFrame && d.stats.Frame == 1 {
		d.RequestBatchReport()
	}
	if !d.lost && d.initialized {
		d.native.BeginScene()
		d.inScene = true
	}
}

// EndFrame closes the native scene and emits a pending batch report.
func (d *Device) EndFrame() {
	if d.inScene {
		d.native.EndScene()
		d.inScene = false
	}
	d.finishBatchReport()
}

// Stats returns the counters of the current frame.
func (d *Device) Stats() FrameStats { return d.stats }

// Clear clears the bound targets. It does nothing while the device is
// lost.
func (d *Device) Clear(flags ClearFlags, color uint32, depth float32, stencil uint32) {
	if d.lost {
		return
	}
	d.native.Clear(flags, color, depth, stencil)
}

// SetViewport sets the rasterizer viewport.
func (d *Device) SetViewport(vp Viewport) {
	d.viewport = vp
	if !d.lost {
		d.native.SetViewport(vp)
	}
}

// Viewport returns the current viewport.
func (d *Device) Viewport() Viewport { return d.viewport }

// SetScissorRect sets the scissor rectangle used when the scissor test is
// enabled.
func (d *Device) SetScissorRect(r Rect) {
	if !d.lost {
		d.native.SetScissorRect(r)
	}
}

// resetViewport covers the whole of render target 0, like the native
// device does when a target is bound.
func (d *Device) resetViewport() {
	w, h := d.BackBufferSize()
	if len(d.renderTargets) > 0 && d.renderTargets[0] != nil {
		w, h = d.renderTargets[0].Width(), d.renderTargets[0].Height()
	}
	d.viewport = Viewport{Width: w, Height: h, MaxZ: 1}
	if !d.lost {
		d.native.SetViewport(d.viewport)
	}
}

// ============================================================================
// Target bindings
// ============================================================================

// SetRenderTarget binds rt to render target slot index; nil restores the
// default back buffer on slot 0 and unbinds other slots. The color texture
// of rt is removed from every sampler slot. A multisampled target that is
// replaced is resolved into its color texture. It panics if index is out of
// range.
func (d *Device) SetRenderTarget(index int, rt *RenderTarget) {
	d.checkRenderTargetIndex(index)
	prev := d.renderTargets[index]
	if prev == rt {
		return
	}
	d.renderTargets[index] = rt
	if d.lost {
		return
	}
	if prev != nil {
		if err := prev.Resolve(); err != nil {
			d.log.Warn("gdev: resolve failed", "err", err)
		}
	}

	switch {
	case rt != nil:
		d.states.ClearTexture(rt.ColorTexture())
		d.native.SetRenderTarget(index, rt.Surface())
	case index == 0:
		d.native.SetRenderTarget(0, d.defaultColor)
	default:
		d.native.SetRenderTarget(index, nil)
	}
	if index == 0 {
		d.resetViewport()
	}
}

// RenderTarget returns the target bound to slot index, or nil for the
// default back buffer.
func (d *Device) RenderTarget(index int) *RenderTarget {
	d.checkRenderTargetIndex(index)
	return d.renderTargets[index]
}

// RenderTargetCount returns the number of render target slots.
func (d *Device) RenderTargetCount() int { return len(d.renderTargets) }

func (d *Device) checkRenderTargetIndex(index int) {
	if index < 0 || index >= len(d.renderTargets) {
		panic(fmt.Sprintf("gdev: render target index %d out of range [0,%d)", index, len(d.renderTargets)))
	}
}

// SetDepthStencilBuffer binds db as the depth target; nil restores the
// default depth surface.
func (d *Device) SetDepthStencilBuffer(db *DepthStencilBuffer) {
	if d.depthBuffer == db {
		return
	}
	d.depthBuffer = db
	if d.lost {
		return
	}
	if db != nil {
		d.native.SetDepthStencilSurface(db.Surface())
	} else {
		d.native.SetDepthStencilSurface(d.defaultDepth)
	}
}

// DepthStencilBuffer returns the bound depth target, or nil for the
// default one.
func (d *Device) DepthStencilBuffer() *DepthStencilBuffer { return d.depthBuffer }

// unbind drops rt from every slot it is bound to. Called when rt is
// destroyed.
func (d *Device) unbindRenderTarget(rt *RenderTarget) {
	for i, b := range d.renderTargets {
		if b == rt {
			d.SetRenderTarget(i, nil)
		}
	}
}

func (d *Device) unbindDepthStencilBuffer(db *DepthStencilBuffer) {
	if d.depthBuffer == db {
		d.SetDepthStencilBuffer(nil)
	}
}

// ============================================================================
// Shaders
// ============================================================================

// BindVertexShader makes s the active vertex shader.
func (d *Device) BindVertexShader(s *Shader) {
	if d.vertexShader == s {
		return
	}
	d.vertexShader = s
	d.native.SetVertexShader(s.nativeShader())
}

// BindPixelShader makes s the active pixel shader.
func (d *Device) BindPixelShader(s *Shader) {
	if d.pixelShader == s {
		return
	}
	d.pixelShader = s
	d.native.SetPixelShader(s.nativeShader())
}
