// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gputypes"
)

// Draw records one draw call.
type Draw struct {
	Topology       gputypes.PrimitiveTopology
	Indexed        bool
	BaseVertex     int
	StartVertex    int
	StartIndex     int
	NumVertices    int
	PrimitiveCount int
	// Instances is the instance count taken from the stream 0 frequency,
	// or 1 for a non-instanced draw.
	Instances int
}

// stream is one vertex stream binding.
type stream struct {
	buf    *Buffer
	offset int
	stride int
	freq   uint32
}

type samplerKey struct {
	sampler int
	state   gdev.SamplerStateType
}

// Device is an in-memory [gdev.NativeDevice].
//
// Device is not safe for concurrent use.
type Device struct {
	nextID uint64
	// live holds the device memory objects that block a reset.
	live map[uint64]string

	backBuffer   *Surface
	depthSurface *Surface

	renderStates  map[gdev.RenderState]uint32
	samplerStates map[samplerKey]uint32
	textures      map[int]gdev.NativeTexture
	targets       map[int]*Surface
	depthTarget   *Surface
	viewport      gdev.Viewport
	scissor       gdev.Rect

	decl         *Declaration
	streams      map[int]*stream
	indices      *Buffer
	vertexShader *Shader
	pixelShader  *Shader
	vsConstants  map[int][]float32
	psConstants  map[int][]float32

	inScene bool
	lost    bool

	// Draws lists the draw calls since the last ResetCounters.
	Draws []Draw
	// StateCalls counts SetRenderState calls.
	StateCalls int
	// SamplerCalls counts SetSamplerState calls.
	SamplerCalls int
	// TextureCalls counts SetTexture calls.
	TextureCalls int
	// Clears counts Clear calls.
	Clears int

	failLocks int
}

// FailLocks makes the next n buffer and texture Lock calls fail with
// [ErrLockFailed].
func (d *Device) FailLocks(n int) { d.failLocks = n }

func (d *Device) lockFault() error {
	if d.failLocks <= 0 {
		return nil
	}
	d.failLocks--
	return ErrLockFailed
}

func newDevice(width, height int, color, depth gputypes.TextureFormat) *Device {
	d := &Device{
		live:          make(map[uint64]string),
		renderStates:  make(map[gdev.RenderState]uint32),
		samplerStates: make(map[samplerKey]uint32),
		textures:      make(map[int]gdev.NativeTexture),
		targets:       make(map[int]*Surface),
		streams:       make(map[int]*stream),
		vsConstants:   make(map[int][]float32),
		psConstants:   make(map[int][]float32),
	}
	d.createSwapChain(width, height, color, depth)
	return d
}

func (d *Device) createSwapChain(width, height int, color, depth gputypes.TextureFormat) {
	data, pitch := newSurfaceData(width, height, color)
	d.backBuffer = &Surface{
		object: d.newObject("back buffer", PoolSystem),
		width:  width, height: height, format: color,
		Data:   data, pitch: pitch, view: true,
	}
	d.depthSurface = nil
	if depth != gputypes.TextureFormatUndefined {
		data, pitch := newSurfaceData(width, height, depth)
		d.depthSurface = &Surface{
			object: d.newObject("depth surface", PoolSystem),
			width:  width, height: height, format: depth,
			Data:   data, pitch: pitch, view: true,
		}
	}
	d.targets = map[int]*Surface{0: d.backBuffer}
	d.depthTarget = d.depthSurface
	d.viewport = gdev.Viewport{Width: width, Height: height, MaxZ: 1}
}

// swapChainRefs returns the outstanding references to swap chain surfaces.
func (d *Device) swapChainRefs() int {
	n := d.backBuffer.refs
	if d.depthSurface != nil {
		n += d.depthSurface.refs
	}
	return n
}

// LiveObjects returns the number of device memory objects still alive.
func (d *Device) LiveObjects() int { return len(d.live) }

// LiveKinds returns the kind of every live device memory object by id.
func (d *Device) LiveKinds() map[uint64]string {
	out := make(map[uint64]string, len(d.live))
	for id, k := range d.live {
		out[id] = k
	}
	return out
}

// ResetCounters clears the recorded draws and call counters.
func (d *Device) ResetCounters() {
	d.Draws = nil
	d.StateCalls = 0
	d.SamplerCalls = 0
	d.TextureCalls = 0
	d.Clears = 0
}

// ============================================================================
// State
// ============================================================================

// SetRenderState implements [gdev.StateDevice].
func (d *Device) SetRenderState(state gdev.RenderState, value uint32) {
	d.StateCalls++
	d.renderStates[state] = value
}

// SetSamplerState implements [gdev.StateDevice].
func (d *Device) SetSamplerState(sampler int, state gdev.SamplerStateType, value uint32) {
	d.SamplerCalls++
	d.samplerStates[samplerKey{sampler, state}] = value
}

// SetTexture implements [gdev.StateDevice].
func (d *Device) SetTexture(sampler int, tex gdev.NativeTexture) {
	d.TextureCalls++
	if tex == nil {
		delete(d.textures, sampler)
		return
	}
	d.textures[sampler] = tex
}

// RenderState returns the last value set for state.
func (d *Device) RenderState(state gdev.RenderState) (uint32, bool) {
	v, ok := d.renderStates[state]
	return v, ok
}

// RenderStateFloat returns the last value set for a float state.
func (d *Device) RenderStateFloat(state gdev.RenderState) float32 {
	return math.Float32frombits(d.renderStates[state])
}

// SamplerState returns the last value set for a sampler state.
func (d *Device) SamplerState(sampler int, state gdev.SamplerStateType) (uint32, bool) {
	v, ok := d.samplerStates[samplerKey{sampler, state}]
	return v, ok
}

// BoundTexture returns the texture bound to sampler, or nil.
func (d *Device) BoundTexture(sampler int) gdev.NativeTexture { return d.textures[sampler] }

// BoundRenderTarget returns the surface bound to render target index.
func (d *Device) BoundRenderTarget(index int) *Surface { return d.targets[index] }

// BoundDepthStencil returns the bound depth surface.
func (d *Device) BoundDepthStencil() *Surface { return d.depthTarget }

// Viewport returns the active viewport.
func (d *Device) Viewport() gdev.Viewport { return d.viewport }

// Scissor returns the active scissor rectangle.
func (d *Device) Scissor() gdev.Rect { return d.scissor }

// VertexShaderConstant returns the constants last written at register.
func (d *Device) VertexShaderConstant(register int) []float32 { return d.vsConstants[register] }

// VertexShader returns the bound vertex shader.
func (d *Device) VertexShader() *Shader { return d.vertexShader }

// PixelShader returns the bound pixel shader.
func (d *Device) PixelShader() *Shader { return d.pixelShader }

// StreamFrequency returns the frequency setting of a stream.
func (d *Device) StreamFrequency(index int) uint32 {
	if s := d.streams[index]; s != nil {
		return s.freq
	}
	return 1
}

// StreamBuffer returns the buffer bound to a stream.
func (d *Device) StreamBuffer(index int) *Buffer {
	if s := d.streams[index]; s != nil {
		return s.buf
	}
	return nil
}

// ============================================================================
// Resource creation
// ============================================================================

// CreateVertexBuffer implements [gdev.NativeDevice].
func (d *Device) CreateVertexBuffer(size int, usage gdev.Usage) (gdev.NativeBuffer, error) {
	if err := d.checkCreate(size > 0); err != nil {
		return nil, err
	}
	return &Buffer{object: d.newObject("vertex buffer", poolFor(usage)), Data: make([]byte, size), Usage: usage}, nil
}

// CreateIndexBuffer implements [gdev.NativeDevice].
func (d *Device) CreateIndexBuffer(size int, format gputypes.IndexFormat, usage gdev.Usage) (gdev.NativeBuffer, error) {
	if err := d.checkCreate(size > 0); err != nil {
		return nil, err
	}
	return &Buffer{
		object: d.newObject("index buffer", poolFor(usage)),
		Data:   make([]byte, size),
		Usage:  usage,
		Index:  true,
		Format: format,
	}, nil
}

// CreateTexture implements [gdev.NativeDevice].
func (d *Device) CreateTexture(desc gdev.NativeTextureDesc) (gdev.NativeTexture, error) {
	if err := d.checkCreate(desc.Width > 0 && desc.Height > 0); err != nil {
		return nil, err
	}
	return d.newTexture(desc, poolFor(desc.Usage)), nil
}

// CreateRenderTargetTexture implements [gdev.NativeDevice].
func (d *Device) CreateRenderTargetTexture(width, height int, format gputypes.TextureFormat) (gdev.NativeTexture, gdev.NativeSurface, error) {
	if err := d.checkCreate(width > 0 && height > 0); err != nil {
		return nil, nil, err
	}
	t := d.newTexture(gdev.NativeTextureDesc{
		Type:   gdev.Texture2D,
		Width:  width,
		Height: height,
		Levels: 1,
		Format: format,
		Usage:  gdev.UsageDynamic | gdev.UsageWriteOnly,
	}, PoolDefault)
	s := t.levels[0][0]
	s.refs++
	return t, s, nil
}

// CreateRenderTargetSurface implements [gdev.NativeDevice].
func (d *Device) CreateRenderTargetSurface(width, height int, format gputypes.TextureFormat, samples, quality int) (gdev.NativeSurface, error) {
	return d.createSurface("render target", PoolDefault, width, height, format, samples, quality)
}

// CreateDepthStencilSurface implements [gdev.NativeDevice].
func (d *Device) CreateDepthStencilSurface(width, height int, format gputypes.TextureFormat, samples, quality int) (gdev.NativeSurface, error) {
	return d.createSurface("depth stencil", PoolDefault, width, height, format, samples, quality)
}

// CreateOffscreenSurface implements [gdev.NativeDevice].
func (d *Device) CreateOffscreenSurface(width, height int, format gputypes.TextureFormat) (gdev.NativeSurface, error) {
	return d.createSurface("offscreen surface", PoolSystem, width, height, format, 0, 0)
}

func (d *Device) createSurface(kind string, pool Pool, width, height int, format gputypes.TextureFormat, samples, quality int) (*Surface, error) {
	if err := d.checkCreate(width > 0 && height > 0); err != nil {
		return nil, err
	}
	data, pitch := newSurfaceData(width, height, format)
	return &Surface{
		object:  d.newObject(kind, pool),
		width:   width,
		height:  height,
		format:  format,
		Samples: samples,
		Quality: quality,
		Data:    data,
		pitch:   pitch,
	}, nil
}

// CreateVertexDeclaration implements [gdev.NativeDevice].
func (d *Device) CreateVertexDeclaration(elements []gdev.VertexElement) (gdev.NativeDeclaration, error) {
	if err := d.checkCreate(len(elements) > 0); err != nil {
		return nil, err
	}
	return &Declaration{
		object:   d.newObject("vertex declaration", PoolManaged),
		Elements: append([]gdev.VertexElement(nil), elements...),
	}, nil
}

// CreateVertexShader implements [gdev.NativeDevice].
func (d *Device) CreateVertexShader(code []byte) (gdev.NativeShader, error) {
	return d.createShader("vertex shader", code)
}

// CreatePixelShader implements [gdev.NativeDevice].
func (d *Device) CreatePixelShader(code []byte) (gdev.NativeShader, error) {
	return d.createShader("pixel shader", code)
}

func (d *Device) createShader(kind string, code []byte) (*Shader, error) {
	if err := d.checkCreate(len(code) > 0); err != nil {
		return nil, err
	}
	return &Shader{object: d.newObject(kind, PoolManaged), Code: append([]byte(nil), code...)}, nil
}

func (d *Device) checkCreate(valid bool) error {
	if d.lost {
		return ErrDeviceLost
	}
	if !valid {
		return ErrInvalidCall
	}
	return nil
}

// BackBuffer implements [gdev.NativeDevice].
func (d *Device) BackBuffer() (gdev.NativeSurface, error) {
	d.backBuffer.refs++
	return d.backBuffer, nil
}

// DepthStencilSurface implements [gdev.NativeDevice].
func (d *Device) DepthStencilSurface() (gdev.NativeSurface, error) {
	if d.depthSurface == nil {
		return nil, nil
	}
	d.depthSurface.refs++
	return d.depthSurface, nil
}

// ============================================================================
// Targets
// ============================================================================

// SetRenderTarget implements [gdev.NativeDevice].
func (d *Device) SetRenderTarget(index int, surface gdev.NativeSurface) {
	if surface == nil {
		delete(d.targets, index)
		return
	}
	d.targets[index] = mustSurface(surface)
}

// SetDepthStencilSurface implements [gdev.NativeDevice].
func (d *Device) SetDepthStencilSurface(surface gdev.NativeSurface) {
	if surface == nil {
		d.depthTarget = nil
		return
	}
	d.depthTarget = mustSurface(surface)
}

// StretchRect implements [gdev.NativeDevice]. Sizes must match; the null
// device does not filter.
func (d *Device) StretchRect(src, dst gdev.NativeSurface) error {
	return copySurface(mustSurface(src), mustSurface(dst))
}

// GetRenderTargetData implements [gdev.NativeDevice].
func (d *Device) GetRenderTargetData(src, dst gdev.NativeSurface) error {
	s, t := mustSurface(src), mustSurface(dst)
	if t.pool != PoolSystem {
		return fmt.Errorf("%w: destination is not in system memory", ErrInvalidCall)
	}
	return copySurface(s, t)
}

func copySurface(src, dst *Surface) error {
	if src.released || dst.released {
		return ErrReleased
	}
	if src.width != dst.width || src.height != dst.height || src.format != dst.format {
		return fmt.Errorf("%w: surface mismatch %dx%d %v -> %dx%d %v", ErrInvalidCall,
			src.width, src.height, src.format, dst.width, dst.height, dst.format)
	}
	copy(dst.Data, src.Data)
	return nil
}

func mustSurface(s gdev.NativeSurface) *Surface {
	ns, ok := s.(*Surface)
	if !ok {
		panic(fmt.Sprintf("null: foreign surface %T", s))
	}
	if ns.released {
		panic(fmt.Sprintf("null: use of released %s %d", ns.kind, ns.id))
	}
	return ns
}

// SetViewport implements [gdev.NativeDevice].
func (d *Device) SetViewport(vp gdev.Viewport) { d.viewport = vp }

// SetScissorRect implements [gdev.NativeDevice].
func (d *Device) SetScissorRect(r gdev.Rect) { d.scissor = r }

// Clear implements [gdev.NativeDevice]. Color targets are filled with the
// packed ARGB color.
func (d *Device) Clear(flags gdev.ClearFlags, color uint32, _ float32, _ uint32) {
	d.Clears++
	if flags&gdev.ClearTarget == 0 {
		return
	}
	for _, s := range d.targets {
		if s == nil || s.released || gdev.BytesPerPixel(s.format) != 4 {
			continue
		}
		for i := 0; i+4 <= len(s.Data); i += 4 {
			binary.LittleEndian.PutUint32(s.Data[i:], color)
		}
	}
}

// BeginScene implements [gdev.NativeDevice].
func (d *Device) BeginScene() {
	if d.inScene {
		panic("null: BeginScene inside a scene")
	}
	d.inScene = true
}

// EndScene implements [gdev.NativeDevice].
func (d *Device) EndScene() {
	if !d.inScene {
		panic("null: EndScene outside a scene")
	}
	d.inScene = false
}

// InScene reports whether a scene is open.
func (d *Device) InScene() bool { return d.inScene }

// ============================================================================
// Geometry and shaders
// ============================================================================

// SetVertexDeclaration implements [gdev.NativeDevice].
func (d *Device) SetVertexDeclaration(decl gdev.NativeDeclaration) {
	if decl == nil {
		d.decl = nil
		return
	}
	d.decl = decl.(*Declaration)
}

// SetStreamSource implements [gdev.NativeDevice].
func (d *Device) SetStreamSource(index int, buf gdev.NativeBuffer, offset, stride int) {
	s := d.stream(index)
	s.offset, s.stride = offset, stride
	s.buf = nil
	if buf != nil {
		s.buf = buf.(*Buffer)
	}
}

// SetStreamSourceFreq implements [gdev.NativeDevice].
func (d *Device) SetStreamSourceFreq(index int, setting uint32) {
	d.stream(index).freq = setting
}

func (d *Device) stream(index int) *stream {
	s := d.streams[index]
	if s == nil {
		s = &stream{freq: 1}
		d.streams[index] = s
	}
	return s
}

// SetIndices implements [gdev.NativeDevice].
func (d *Device) SetIndices(buf gdev.NativeBuffer) {
	d.indices = nil
	if buf != nil {
		d.indices = buf.(*Buffer)
	}
}

// SetVertexShader implements [gdev.NativeDevice].
func (d *Device) SetVertexShader(s gdev.NativeShader) {
	d.vertexShader = nil
	if s != nil {
		d.vertexShader = s.(*Shader)
	}
}

// SetPixelShader implements [gdev.NativeDevice].
func (d *Device) SetPixelShader(s gdev.NativeShader) {
	d.pixelShader = nil
	if s != nil {
		d.pixelShader = s.(*Shader)
	}
}

// SetVertexShaderConstantF implements [gdev.NativeDevice].
func (d *Device) SetVertexShaderConstantF(register int, data []float32) {
	d.vsConstants[register] = append([]float32(nil), data...)
}

// SetPixelShaderConstantF implements [gdev.NativeDevice].
func (d *Device) SetPixelShaderConstantF(register int, data []float32) {
	d.psConstants[register] = append([]float32(nil), data...)
}

// DrawPrimitive implements [gdev.NativeDevice].
func (d *Device) DrawPrimitive(topology gputypes.PrimitiveTopology, startVertex, primitiveCount int) {
	d.checkDraw(false)
	d.Draws = append(d.Draws, Draw{
		Topology:       topology,
		StartVertex:    startVertex,
		PrimitiveCount: primitiveCount,
		Instances:      1,
	})
}

// DrawIndexedPrimitive implements [gdev.NativeDevice].
func (d *Device) DrawIndexedPrimitive(topology gputypes.PrimitiveTopology, baseVertex, minIndex, numVertices, startIndex, primitiveCount int) {
	d.checkDraw(true)
	instances := 1
	if f := d.StreamFrequency(0); f&gdev.StreamIndexedData != 0 {
		instances = int(f &^ gdev.StreamIndexedData)
	}
	d.Draws = append(d.Draws, Draw{
		Topology:       topology,
		Indexed:        true,
		BaseVertex:     baseVertex,
		StartIndex:     startIndex,
		NumVertices:    numVertices,
		PrimitiveCount: primitiveCount,
		Instances:      instances,
	})
}

// checkDraw panics when a draw would read a released or missing object.
func (d *Device) checkDraw(indexed bool) {
	if !d.inScene {
		panic("null: draw outside a scene")
	}
	s := d.streams[0]
	if s == nil || s.buf == nil {
		panic("null: draw without a vertex stream")
	}
	for i, st := range d.streams {
		if st.buf != nil && st.buf.released {
			panic(fmt.Sprintf("null: draw reads released buffer on stream %d", i))
		}
	}
	if indexed {
		if d.indices == nil {
			panic("null: indexed draw without an index buffer")
		}
		if d.indices.released {
			panic("null: indexed draw reads a released index buffer")
		}
	}
}

var _ gdev.NativeDevice = (*Device)(nil)
