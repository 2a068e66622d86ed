package gdev

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/gdev/internal/cache"
	"github.com/gogpu/gdev/internal/shader"
	"github.com/gogpu/gputypes"
)

// Factory creates buffers, textures, targets, declarations and shaders for
// one device. Volatile resources it creates register with the device.
type Factory struct {
	device *Device

	// decls holds the declarations sharing one element hash. It has no
	// limit: a declaration lives as long as the factory.
	decls *cache.Cache[uint64, []*VertexDeclaration]
}

func newFactory(d *Device) *Factory {
	f := &Factory{
		device: d,
		decls:  cache.New[uint64, []*VertexDeclaration](0),
	}
	f.decls.OnEvict(func(_ uint64, list []*VertexDeclaration) {
		for _, decl := range list {
			decl.native.Release()
		}
	})
	return f
}

// CreateVertexBuffer creates a buffer of vertexCount vertices of vertexSize
// bytes.
func (f *Factory) CreateVertexBuffer(vertexCount, vertexSize int, usage Usage) (*VertexBuffer, error) {
	return newVertexBuffer(f.device, vertexCount, vertexSize, usage)
}

// CreateIndexBuffer creates a buffer of indexCount indices.
func (f *Factory) CreateIndexBuffer(format gputypes.IndexFormat, indexCount int, usage Usage) (*IndexBuffer, error) {
	return newIndexBuffer(f.device, format, indexCount, usage)
}

// CreateVertexDeclaration returns the declaration for elements. Identical
// layouts share one declaration.
func (f *Factory) CreateVertexDeclaration(elements []VertexElement) (*VertexDeclaration, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: empty vertex declaration", ErrInvalidDimensions)
	}
	h := hashElements(elements)
	list, _ := f.decls.Get(h)
	for _, d := range list {
		if slices.Equal(d.elements, elements) {
			return d, nil
		}
	}

	native, err := f.device.native.CreateVertexDeclaration(elements)
	if err != nil {
		return nil, fmt.Errorf("%w: vertex declaration: %w", ErrCreateFailed, err)
	}
	d := &VertexDeclaration{
		elements: slices.Clone(elements),
		native:   native,
		hash:     h,
	}
	f.decls.Set(h, append(list, d))
	return d, nil
}

// DeclarationStats returns the declaration lookup hits and misses. A lookup
// is a hit when a declaration with the same element hash exists.
func (f *Factory) DeclarationStats() (hits, misses uint64) {
	s := f.decls.Stats()
	return s.Hits, s.Misses
}

// DeclarationCount returns the number of distinct element hashes with a
// live declaration.
func (f *Factory) DeclarationCount() int { return f.decls.Len() }

// CreateTexture creates an empty texture.
func (f *Factory) CreateTexture(desc TextureDesc) (*Texture, error) {
	if !f.device.manager.CheckFormat(FormatUsageTexture, desc.Format) {
		return nil, fmt.Errorf("%w: texture format %v", ErrNotSupported, desc.Format)
	}
	return newTexture(f.device, desc)
}

// CreateTextureFromImage creates a 2D texture holding img. The size is
// adjusted to the device limits and the format replaced by a compatible
// one when needed; every mip level is filled with a scaled copy.
func (f *Factory) CreateTextureFromImage(img image.Image, format gputypes.TextureFormat, levels int, usage Usage) (*Texture, error) {
	caps := f.device.caps
	fmtOK := caps.FindCompatibleTextureFormat(FormatUsageTexture, format)
	if !isRGBA8(fmtOK) && !isBGRA8(fmtOK) {
		return nil, fmt.Errorf("%w: no 8-bit color format compatible with %v", ErrNotSupported, format)
	}
	b := img.Bounds()
	w, h := caps.FindCompatibleTextureDimension(b.Dx(), b.Dy())

	t, err := newTexture(f.device, TextureDesc{
		Type:   Texture2D,
		Width:  w,
		Height: h,
		Levels: levels,
		Format: fmtOK,
		Usage:  usage,
	})
	if err != nil {
		return nil, err
	}
	for level := 0; level < t.Levels(); level++ {
		if err := t.SetImage(level, img); err != nil {
			t.Destroy()
			return nil, err
		}
	}
	return t, nil
}

// CreateRenderTarget creates a fixed-size render target. mode names an
// antialiasing profile; "" or "none" disables multisampling.
func (f *Factory) CreateRenderTarget(width, height int, format gputypes.TextureFormat, mode string) (*RenderTarget, error) {
	return newRenderTarget(f.device, width, height, percentageLock{}, format, mode)
}

// CreateRenderTargetScaled creates a render target sized to a fraction of
// the back buffer. The size follows the back buffer across resets.
func (f *Factory) CreateRenderTargetScaled(widthPct, heightPct float32, format gputypes.TextureFormat, mode string) (*RenderTarget, error) {
	lock := percentageLock{enabled: true, width: widthPct, height: heightPct}
	return newRenderTarget(f.device, 0, 0, lock, format, mode)
}

// CreateDepthStencilBuffer creates a fixed-size depth-stencil buffer.
func (f *Factory) CreateDepthStencilBuffer(width, height int, format gputypes.TextureFormat, mode string) (*DepthStencilBuffer, error) {
	return newDepthStencilBuffer(f.device, width, height, percentageLock{}, format, mode)
}

// CreateDepthStencilBufferScaled creates a depth-stencil buffer sized to a
// fraction of the back buffer.
func (f *Factory) CreateDepthStencilBufferScaled(widthPct, heightPct float32, format gputypes.TextureFormat, mode string) (*DepthStencilBuffer, error) {
	lock := percentageLock{enabled: true, width: widthPct, height: heightPct}
	return newDepthStencilBuffer(f.device, 0, 0, lock, format, mode)
}

// CreateVertexShader creates a vertex shader from compiled byte code.
func (f *Factory) CreateVertexShader(code []byte) (*Shader, error) {
	return f.createShader(ShaderStageVertex, code)
}

// CreatePixelShader creates a pixel shader from compiled byte code.
func (f *Factory) CreatePixelShader(code []byte) (*Shader, error) {
	return f.createShader(ShaderStagePixel, code)
}

// CreateShaderFromWGSL compiles WGSL source to SPIR-V and creates a shader
// for stage.
func (f *Factory) CreateShaderFromWGSL(stage ShaderStage, source string) (*Shader, error) {
	code, err := shader.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("gdev: %v shader: %w", stage, err)
	}
	return f.createShader(stage, code)
}

func (f *Factory) createShader(stage ShaderStage, code []byte) (*Shader, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, fmt.Errorf("%w: %v shader of %d bytes", ErrInvalidShaderCode, stage, len(code))
	}
	var native NativeShader
	var err error
	if stage == ShaderStageVertex {
		native, err = f.device.native.CreateVertexShader(code)
	} else {
		native, err = f.device.native.CreatePixelShader(code)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v shader: %w", ErrCreateFailed, stage, err)
	}
	return &Shader{device: f.device, stage: stage, code: code, native: native}, nil
}

// destroy releases the cached declarations.
func (f *Factory) destroy() { f.decls.Clear() }
