package gdev

import "github.com/gogpu/gputypes"

// StateDevice receives render-state, sampler-state and texture binding
// changes. It is the only part of the native device the [StateCache]
// talks to.
type StateDevice interface {
	SetRenderState(state RenderState, value uint32)
	SetSamplerState(sampler int, state SamplerStateType, value uint32)
	SetTexture(sampler int, tex NativeTexture)
}

// NativeDevice is the driver surface used by the device layer. A native
// device is owned by the [DeviceManager]; its handle is stable across a
// reset while the objects it created in device memory are not.
type NativeDevice interface {
	StateDevice

	CreateVertexBuffer(size int, usage Usage) (NativeBuffer, error)
	CreateIndexBuffer(size int, format gputypes.IndexFormat, usage Usage) (NativeBuffer, error)
	CreateTexture(desc NativeTextureDesc) (NativeTexture, error)
	// CreateRenderTargetTexture creates a renderable texture and returns the
	// surface of its top mip level.
	CreateRenderTargetTexture(width, height int, format gputypes.TextureFormat) (NativeTexture, NativeSurface, error)
	// CreateRenderTargetSurface creates a multisampled color surface that
	// is resolved into a texture with StretchRect.
	CreateRenderTargetSurface(width, height int, format gputypes.TextureFormat, samples, quality int) (NativeSurface, error)
	CreateDepthStencilSurface(width, height int, format gputypes.TextureFormat, samples, quality int) (NativeSurface, error)
	// CreateOffscreenSurface creates a CPU-visible system memory surface.
	// Offscreen surfaces survive a device reset.
	CreateOffscreenSurface(width, height int, format gputypes.TextureFormat) (NativeSurface, error)
	CreateVertexDeclaration(elements []VertexElement) (NativeDeclaration, error)
	CreateVertexShader(code []byte) (NativeShader, error)
	CreatePixelShader(code []byte) (NativeShader, error)

	// BackBuffer and DepthStencilSurface return new references to the
	// implicit swap chain surfaces. DepthStencilSurface returns nil when
	// the presentation has no automatic depth buffer.
	BackBuffer() (NativeSurface, error)
	DepthStencilSurface() (NativeSurface, error)

	SetRenderTarget(index int, surface NativeSurface)
	SetDepthStencilSurface(surface NativeSurface)
	StretchRect(src, dst NativeSurface) error
	GetRenderTargetData(src, dst NativeSurface) error

	SetViewport(vp Viewport)
	SetScissorRect(r Rect)
	Clear(flags ClearFlags, color uint32, depth float32, stencil uint32)
	BeginScene()
	EndScene()

	SetVertexDeclaration(decl NativeDeclaration)
	SetStreamSource(stream int, buf NativeBuffer, offset, stride int)
	SetStreamSourceFreq(stream int, setting uint32)
	SetIndices(buf NativeBuffer)
	SetVertexShader(s NativeShader)
	SetPixelShader(s NativeShader)
	SetVertexShaderConstantF(register int, data []float32)
	SetPixelShaderConstantF(register int, data []float32)

	DrawPrimitive(topology gputypes.PrimitiveTopology, startVertex, primitiveCount int)
	DrawIndexedPrimitive(topology gputypes.PrimitiveTopology, baseVertex, minIndex, numVertices, startIndex, primitiveCount int)
}

// Stream frequency encodings for [NativeDevice.SetStreamSourceFreq].
const (
	StreamIndexedData  uint32 = 1 << 30
	StreamInstanceData uint32 = 2 << 30
)

// NativeBuffer is a vertex or index buffer owned by the native device.
type NativeBuffer interface {
	Lock(offset, size int, mode LockMode) ([]byte, error)
	Unlock()
	Release()
}

// NativeTextureDesc describes a native texture.
type NativeTextureDesc struct {
	Type   TextureType
	Width  int
	Height int
	Depth  int
	Levels int
	Format gputypes.TextureFormat
	Usage  Usage
}

// NativeTexture is a texture owned by the native device.
type NativeTexture interface {
	// Lock maps one subresource and returns its bytes and row pitch.
	Lock(face CubeFace, level int, mode LockMode) ([]byte, int, error)
	Unlock(face CubeFace, level int)
	Release()
}

// NativeSurface is a 2D image owned by the native device: a swap chain
// buffer, a render target, a depth buffer or an offscreen surface.
type NativeSurface interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
	Lock(mode LockMode) ([]byte, int, error)
	Unlock()
	Release()
}

// NativeDeclaration is a compiled vertex declaration.
type NativeDeclaration interface {
	Release()
}

// NativeShader is a compiled vertex or pixel shader.
type NativeShader interface {
	Release()
}
