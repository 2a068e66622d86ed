// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import (
	"errors"
	"fmt"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gdev/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Lifecycle errors.
var (
	// ErrDeviceLost is returned while the device is lost and cannot be
	// reset yet.
	ErrDeviceLost = fmt.Errorf("null: %w", backend.ErrDeviceLost)
	// ErrDeviceNotReset is returned once the lost device may be reset.
	ErrDeviceNotReset = errors.New("null: device not reset")
	// ErrResetFailed is returned when objects in device memory are still
	// alive at reset time.
	ErrResetFailed = errors.New("null: reset failed")
	// ErrInvalidCall is returned for invalid creation parameters.
	ErrInvalidCall = errors.New("null: invalid call")
)

// gpuDevice implements gpucontext.Device.
type gpuDevice struct{}

func (gpuDevice) Poll(bool) {}
func (gpuDevice) Destroy()  {}

// gpuQueue implements gpucontext.Queue.
type gpuQueue struct{}

// gpuAdapter implements gpucontext.Adapter.
type gpuAdapter struct{}

// Option configures a [Manager].
type Option func(*Manager)

// WithCaps replaces the reported device caps.
func WithCaps(caps gdev.DeviceCaps) Option {
	return func(m *Manager) { m.caps = caps }
}

// WithAdapter replaces the reported adapter identity.
func WithAdapter(info gdev.AdapterInfo) Option {
	return func(m *Manager) { m.adapter = info }
}

// WithMultisample reports levels quality levels for samples-count
// multisampling. A levels value of 0 removes support.
func WithMultisample(samples, levels int) Option {
	return func(m *Manager) {
		if levels <= 0 {
			delete(m.multisample, samples)
			return
		}
		m.multisample[samples] = levels
	}
}

// WithoutFormat makes format unsupported for every usage.
func WithoutFormat(format gputypes.TextureFormat) Option {
	return func(m *Manager) { m.unsupported[format] = true }
}

// WithDepthFormat sets the automatic depth buffer format. Undefined
// disables the automatic depth buffer.
func WithDepthFormat(format gputypes.TextureFormat) Option {
	return func(m *Manager) { m.settings.DepthFormat = format }
}

// WithLostPolls sets how many TestCooperativeLevel polls report
// [ErrDeviceLost] before the device may be reset.
func WithLostPolls(n int) Option {
	return func(m *Manager) { m.lostPolls = n }
}

// WithBackBufferFormat sets the back buffer format.
func WithBackBufferFormat(format gputypes.TextureFormat) Option {
	return func(m *Manager) { m.format = format }
}

// Manager is an in-memory [gdev.DeviceManager] that owns a null [Device].
//
// Manager is not safe for concurrent use.
type Manager struct {
	device   *Device
	settings gdev.PresentSettings
	format   gputypes.TextureFormat
	caps     gdev.DeviceCaps
	adapter  gdev.AdapterInfo

	multisample map[int]int
	unsupported map[gputypes.TextureFormat]bool

	lostPolls   int
	pollsLeft   int
	needsReset  bool
	pending     gdev.PresentSettings
	resets      int
	presents    int
	failedReset int
}

// NewManager creates a manager with a width x height back buffer.
func NewManager(width, height int, opts ...Option) *Manager {
	m := &Manager{
		settings: gdev.PresentSettings{
			BackBufferWidth:  width,
			BackBufferHeight: height,
			DepthFormat:      gputypes.TextureFormatDepth24PlusStencil8,
			MultisampleMode:  "None",
			Windowed:         true,
			VSync:            true,
		},
		format: gputypes.TextureFormatBGRA8Unorm,
		caps: gdev.DeviceCaps{
			MaxSimultaneousRTs: 4,
			MaxTextureSlots:    16,
			MaxVertexSamplers:  4,
			MaxTextureWidth:    4096,
			MaxTextureHeight:   4096,
			MaxVolumeExtent:    256,
			MaxPointSize:       64,
			MaxStreams:         16,
		},
		adapter: gdev.AdapterInfo{
			VendorID:    gdev.VendorNVIDIA,
			DeviceID:    0x1B80,
			Description: "Null Adapter",
		},
		multisample: map[int]int{2: 1, 4: 5, 8: 3},
		unsupported: make(map[gputypes.TextureFormat]bool),
		lostPolls:   1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.device = newDevice(width, height, m.format, m.settings.DepthFormat)
	return m
}

// Device implements gpucontext.DeviceProvider.
func (m *Manager) Device() gpucontext.Device { return gpuDevice{} }

// Queue implements gpucontext.DeviceProvider.
func (m *Manager) Queue() gpucontext.Queue { return gpuQueue{} }

// Adapter implements gpucontext.DeviceProvider.
func (m *Manager) Adapter() gpucontext.Adapter { return gpuAdapter{} }

// SurfaceFormat returns the back buffer format.
func (m *Manager) SurfaceFormat() gputypes.TextureFormat { return m.format }

// Native returns the null device.
func (m *Manager) Native() gdev.NativeDevice { return m.device }

// NullDevice returns the null device with its inspection helpers.
func (m *Manager) NullDevice() *Device { return m.device }

// Settings returns the active presentation settings.
func (m *Manager) Settings() gdev.PresentSettings { return m.settings }

// Caps returns the device caps.
func (m *Manager) Caps() gdev.DeviceCaps { return m.caps }

// AdapterIdentity returns the adapter identity.
func (m *Manager) AdapterIdentity() gdev.AdapterInfo { return m.adapter }

// AdapterInfo reports the adapter as a software adapter named after its
// description.
func (m *Manager) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: m.adapter.Description, Type: gpucontext.AdapterTypeSoftware}
}

// CheckMultisample reports the quality levels for samples-count
// multisampling of format.
func (m *Manager) CheckMultisample(format gputypes.TextureFormat, samples int) (bool, int) {
	usage := gdev.FormatUsageRenderTarget
	if gdev.IsDepthFormat(format) {
		usage = gdev.FormatUsageDepthStencil
	}
	if format != gputypes.TextureFormatUndefined && !m.CheckFormat(usage, format) {
		return false, 0
	}
	levels, ok := m.multisample[samples]
	return ok, levels
}

// CheckFormat reports whether format can be used for usage.
func (m *Manager) CheckFormat(usage gdev.FormatUsage, format gputypes.TextureFormat) bool {
	if m.unsupported[format] || gdev.BytesPerPixel(format) == 0 {
		return false
	}
	if usage == gdev.FormatUsageDepthStencil {
		return gdev.IsDepthFormat(format)
	}
	return !gdev.IsDepthFormat(format)
}

// ============================================================================
// Lifecycle
// ============================================================================

// Lose puts the device into the lost state.
func (m *Manager) Lose() {
	if m.device.lost {
		return
	}
	m.device.lost = true
	m.pollsLeft = m.lostPolls
}

// Resize requests a back buffer resize. The device is reset on the next
// BeginPaint.
func (m *Manager) Resize(width, height int) {
	m.pending = m.settings
	m.pending.BackBufferWidth = width
	m.pending.BackBufferHeight = height
	m.needsReset = true
}

// TestCooperativeLevel returns nil when the device is usable,
// [ErrDeviceLost] while it cannot be reset yet and [ErrDeviceNotReset]
// once it may be reset.
func (m *Manager) TestCooperativeLevel() error {
	if !m.device.lost {
		return nil
	}
	if m.pollsLeft > 0 {
		m.pollsLeft--
		return ErrDeviceLost
	}
	return ErrDeviceNotReset
}

// Reset recreates the swap chain with the pending settings. It fails
// while objects in device memory or swap chain references are alive.
func (m *Manager) Reset() error {
	d := m.device
	if n, refs := d.LiveObjects(), d.swapChainRefs(); n > 0 || refs > 0 {
		m.failedReset++
		return fmt.Errorf("%w: %d device objects and %d swap chain references alive", ErrResetFailed, n, refs)
	}
	if m.needsReset {
		m.settings = m.pending
		m.needsReset = false
	}
	d.lost = false
	d.inScene = false
	d.streams = make(map[int]*stream)
	d.indices = nil
	d.decl = nil
	d.vertexShader = nil
	d.pixelShader = nil
	d.textures = make(map[int]gdev.NativeTexture)
	d.renderStates = make(map[gdev.RenderState]uint32)
	d.samplerStates = make(map[samplerKey]uint32)
	d.createSwapChain(m.settings.BackBufferWidth, m.settings.BackBufferHeight, m.format, m.settings.DepthFormat)
	m.resets++
	return nil
}

// BeginPaint prepares dev for a frame. A lost device is released on the
// first poll and reset once the driver allows it; a pending resize goes
// through the same release and reset sequence. A device whose reload
// failed is reloaded again. BeginPaint reports false when the frame must
// be skipped.
func (m *Manager) BeginPaint(dev *gdev.Device) (bool, error) {
	if m.device.lost || m.needsReset {
		if err := m.TestCooperativeLevel(); errors.Is(err, ErrDeviceLost) {
			dev.OnDeviceLost()
			return false, nil
		}
		dev.OnDeviceLost()
		if err := m.Reset(); err != nil {
			return false, err
		}
	}
	if dev.IsLost() {
		if err := dev.OnDeviceReset(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Present shows the back buffer.
func (m *Manager) Present() error {
	if m.device.lost {
		return ErrDeviceLost
	}
	m.presents++
	return nil
}

// Resets returns the number of successful resets.
func (m *Manager) Resets() int { return m.resets }

// FailedResets returns the number of resets refused because of live
// device memory objects.
func (m *Manager) FailedResets() int { return m.failedReset }

// Presents returns the number of presented frames.
func (m *Manager) Presents() int { return m.presents }

// Close checks that every object created by the device was released.
func (m *Manager) Close() error {
	if n := m.device.LiveObjects(); n > 0 {
		return fmt.Errorf("%w: %d device objects alive at close", ErrResetFailed, n)
	}
	return nil
}

var _ gdev.DeviceManager = (*Manager)(nil)
