package gdev

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// StateCacheStats counts native calls issued and suppressed by a
// [StateCache].
type StateCacheStats struct {
	// Emitted is the number of render and sampler state calls forwarded
	// to the native device.
	Emitted uint64
	// Suppressed is the number of setter fields that matched the shadow
	// copy and were not forwarded.
	Suppressed uint64
	// TextureBinds is the number of native texture binding calls.
	TextureBinds uint64
	// Resets is the number of full default-state pushes.
	Resets uint64
}

// StateCache is the shadow copy of every native pipeline toggle.
//
// Every setter compares each sub-field with the cached value and forwards
// only the fields that differ. The cached value always equals the last
// value sent to the native device; getters never touch the device.
// Float states are compared by bit pattern.
//
// A StateCache is owned by a [Device] and is not safe for concurrent use.
type StateCache struct {
	dev StateDevice

	values [renderStateCount]uint32
	valid  [renderStateCount]bool

	pixelSamplers  []samplerSlot
	vertexSamplers []samplerSlot

	textures     []*Texture
	textureValid []bool

	stats StateCacheStats
}

// NewStateCache creates a state cache for dev with textureSlots pixel
// sampler slots. The cache starts invalid: call Reset to push the default
// state.
func NewStateCache(dev StateDevice, textureSlots int) *StateCache {
	if textureSlots <= 0 {
		textureSlots = DefaultTextureSlots
	}
	return &StateCache{
		dev:            dev,
		pixelSamplers:  make([]samplerSlot, textureSlots),
		vertexSamplers: make([]samplerSlot, MaxVertexSamplers),
		textures:       make([]*Texture, textureSlots),
		textureValid:   make([]bool, textureSlots),
	}
}

// setState forwards v for s unless the shadow copy already holds it.
func (c *StateCache) setState(s RenderState, v uint32) {
	if c.valid[s] && c.values[s] == v {
		c.stats.Suppressed++
		return
	}
	c.dev.SetRenderState(s, v)
	c.values[s] = v
	c.valid[s] = true
	c.stats.Emitted++
}

func (c *StateCache) setBool(s RenderState, v bool) {
	c.setState(s, boolValue(v))
}

func (c *StateCache) setFloat(s RenderState, v float32) {
	c.setState(s, math.Float32bits(v))
}

func (c *StateCache) getBool(s RenderState) bool { return c.values[s] != 0 }

func (c *StateCache) getFloat(s RenderState) float32 { return math.Float32frombits(c.values[s]) }

func boolValue(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// Invalidate marks every shadow entry unknown so that the next call to
// each setter reaches the native device.
func (c *StateCache) Invalidate() {
	c.valid = [renderStateCount]bool{}
	for i := range c.pixelSamplers {
		c.pixelSamplers[i].valid = [samplerStateCount]bool{}
	}
	for i := range c.vertexSamplers {
		c.vertexSamplers[i].valid = [samplerStateCount]bool{}
	}
	for i := range c.textureValid {
		c.textureValid[i] = false
	}
}

// Reset invalidates the shadow copy and pushes the default device state
// unconditionally. It runs after device initialization and after every
// device reset, since driver defaults are not assumed to survive a reset.
func (c *StateCache) Reset() {
	c.Invalidate()
	c.stats.Resets++

	c.SetAlphaTestParameters(false, gputypes.CompareFunctionAlways, 0)
	c.SetAlphaBlend(false, gputypes.BlendOperationAdd,
		gputypes.BlendFactorOne, gputypes.BlendFactorZero, 0xFFFFFFFF)
	c.SetSeparateAlphaBlend(false, gputypes.BlendOperationAdd,
		gputypes.BlendFactorOne, gputypes.BlendFactorZero)
	c.SetDepthFull(true, true, 0, 0, gputypes.CompareFunctionLessEqual)
	c.SetPointParameters(1, 64, 1, false)
	c.SetStencil(false, hal.StencilOperationKeep, hal.StencilOperationKeep, hal.StencilOperationKeep,
		0, gputypes.CompareFunctionAlways, 0xFFFFFFFF, 0xFFFFFFFF)
	c.SetStencilTwoSide(false, hal.StencilOperationKeep, hal.StencilOperationKeep, hal.StencilOperationKeep,
		gputypes.CompareFunctionAlways)
	c.SetCullMode(gputypes.CullModeBack)
	c.SetFillMode(FillSolid)
	c.SetScissorTestEnable(false)
	for i := 0; i < MaxColorWriteTargets; i++ {
		c.SetColorWriteMasks(i, gputypes.ColorWriteMaskAll)
	}

	def := DefaultSampler()
	for i := range c.pixelSamplers {
		c.SetPixelSampler(i, def)
	}
	for i := range c.vertexSamplers {
		c.SetVertexSampler(i, def)
	}
	for i := range c.textures {
		c.SetTexture(i, nil)
	}
}

// Stats returns the native call counters.
func (c *StateCache) Stats() StateCacheStats { return c.stats }

// ============================================================================
// Alpha test
// ============================================================================

// SetAlphaTestParameters sets the alpha test enable flag, comparison
// function and reference value.
func (c *StateCache) SetAlphaTestParameters(enable bool, fn gputypes.CompareFunction, ref uint32) {
	c.setBool(RSAlphaTestEnable, enable)
	c.setState(RSAlphaFunc, uint32(fn))
	c.setState(RSAlphaRef, ref)
}

// SetAlphaTestEnable sets only the alpha test enable flag.
func (c *StateCache) SetAlphaTestEnable(enable bool) { c.setBool(RSAlphaTestEnable, enable) }

func (c *StateCache) AlphaTestEnabled() bool { return c.getBool(RSAlphaTestEnable) }

func (c *StateCache) AlphaTestFunction() gputypes.CompareFunction {
	return gputypes.CompareFunction(c.values[RSAlphaFunc])
}

func (c *StateCache) AlphaReference() uint32 { return c.values[RSAlphaRef] }

// ============================================================================
// Blending
// ============================================================================

// SetAlphaBlend sets the color blend equation and the constant blend
// factor, packed as 0xAARRGGBB.
func (c *StateCache) SetAlphaBlend(enable bool, op gputypes.BlendOperation, src, dst gputypes.BlendFactor, factor uint32) {
	c.setBool(RSAlphaBlendEnable, enable)
	c.setState(RSBlendOp, uint32(op))
	c.setState(RSSrcBlend, uint32(src))
	c.setState(RSDestBlend, uint32(dst))
	c.setState(RSBlendFactor, factor)
}

func (c *StateCache) SetAlphaBlendEnable(enable bool) { c.setBool(RSAlphaBlendEnable, enable) }

func (c *StateCache) SetAlphaBlendOperation(op gputypes.BlendOperation) {
	c.setState(RSBlendOp, uint32(op))
}

func (c *StateCache) SetAlphaSourceBlend(f gputypes.BlendFactor) { c.setState(RSSrcBlend, uint32(f)) }

func (c *StateCache) SetAlphaDestinationBlend(f gputypes.BlendFactor) {
	c.setState(RSDestBlend, uint32(f))
}

func (c *StateCache) SetAlphaBlendFactor(factor uint32) { c.setState(RSBlendFactor, factor) }

func (c *StateCache) AlphaBlendEnabled() bool { return c.getBool(RSAlphaBlendEnable) }

func (c *StateCache) AlphaBlendOperation() gputypes.BlendOperation {
	return gputypes.BlendOperation(c.values[RSBlendOp])
}

func (c *StateCache) AlphaSourceBlend() gputypes.BlendFactor {
	return gputypes.BlendFactor(c.values[RSSrcBlend])
}

func (c *StateCache) AlphaDestinationBlend() gputypes.BlendFactor {
	return gputypes.BlendFactor(c.values[RSDestBlend])
}

func (c *StateCache) AlphaBlendFactor() uint32 { return c.values[RSBlendFactor] }

// SetSeparateAlphaBlend sets the blend equation applied to the alpha
// channel when separate alpha blending is enabled.
func (c *StateCache) SetSeparateAlphaBlend(enable bool, op gputypes.BlendOperation, src, dst gputypes.BlendFactor) {
	c.setBool(RSSeparateAlphaBlendEnable, enable)
	c.setState(RSBlendOpAlpha, uint32(op))
	c.setState(RSSrcBlendAlpha, uint32(src))
	c.setState(RSDestBlendAlpha, uint32(dst))
}

func (c *StateCache) SeparateAlphaBlendEnabled() bool { return c.getBool(RSSeparateAlphaBlendEnable) }

func (c *StateCache) SeparateAlphaBlendOperation() gputypes.BlendOperation {
	return gputypes.BlendOperation(c.values[RSBlendOpAlpha])
}

func (c *StateCache) SeparateAlphaSourceBlend() gputypes.BlendFactor {
	return gputypes.BlendFactor(c.values[RSSrcBlendAlpha])
}

func (c *StateCache) SeparateAlphaDestinationBlend() gputypes.BlendFactor {
	return gputypes.BlendFactor(c.values[RSDestBlendAlpha])
}

// ============================================================================
// Depth
// ============================================================================

// SetDepth sets the depth test and depth write flags.
func (c *StateCache) SetDepth(enable, write bool) {
	c.setBool(RSDepthEnable, enable)
	c.setBool(RSDepthWriteEnable, write)
}

// SetDepthFull sets every depth state. bias and slope are compared by bit
// pattern.
func (c *StateCache) SetDepthFull(enable, write bool, bias, slope float32, fn gputypes.CompareFunction) {
	c.setBool(RSDepthEnable, enable)
	c.setBool(RSDepthWriteEnable, write)
	c.setFloat(RSDepthBias, bias)
	c.setFloat(RSSlopeScaleDepthBias, slope)
	c.setState(RSDepthFunc, uint32(fn))
}

func (c *StateCache) DepthTestEnabled() bool  { return c.getBool(RSDepthEnable) }
func (c *StateCache) DepthWriteEnabled() bool { return c.getBool(RSDepthWriteEnable) }
func (c *StateCache) DepthBias() float32      { return c.getFloat(RSDepthBias) }

func (c *StateCache) SlopeScaleDepthBias() float32 { return c.getFloat(RSSlopeScaleDepthBias) }

func (c *StateCache) DepthFunction() gputypes.CompareFunction {
	return gputypes.CompareFunction(c.values[RSDepthFunc])
}

// ============================================================================
// Point sprites
// ============================================================================

// SetPointParameters sets the point size range and point sprite flag.
func (c *StateCache) SetPointParameters(size, maxSize, minSize float32, sprite bool) {
	c.setFloat(RSPointSize, size)
	c.setFloat(RSPointSizeMax, maxSize)
	c.setFloat(RSPointSizeMin, minSize)
	c.setBool(RSPointSpriteEnable, sprite)
}

func (c *StateCache) SetPointSpriteEnable(enable bool) { c.setBool(RSPointSpriteEnable, enable) }

func (c *StateCache) PointSize() float32       { return c.getFloat(RSPointSize) }
func (c *StateCache) PointSizeMax() float32    { return c.getFloat(RSPointSizeMax) }
func (c *StateCache) PointSizeMin() float32    { return c.getFloat(RSPointSizeMin) }
func (c *StateCache) PointSpriteEnabled() bool { return c.getBool(RSPointSpriteEnable) }

// ============================================================================
// Stencil
// ============================================================================

// SetStencil sets the front-face stencil state.
func (c *StateCache) SetStencil(enabled bool, fail, depthFail, pass hal.StencilOperation,
	ref uint32, fn gputypes.CompareFunction, mask, writeMask uint32) {
	c.setBool(RSStencilEnable, enabled)
	c.setState(RSStencilFail, uint32(fail))
	c.setState(RSStencilDepthFail, uint32(depthFail))
	c.setState(RSStencilPass, uint32(pass))
	c.setState(RSStencilRef, ref)
	c.setState(RSStencilFunc, uint32(fn))
	c.setState(RSStencilMask, mask)
	c.setState(RSStencilWriteMask, writeMask)
}

// SetStencilTwoSide sets the back-face stencil state and the two-sided
// stencil flag.
func (c *StateCache) SetStencilTwoSide(enabled bool, fail, depthFail, pass hal.StencilOperation, fn gputypes.CompareFunction) {
	c.setBool(RSTwoSidedStencilMode, enabled)
	c.setState(RSCCWStencilFail, uint32(fail))
	c.setState(RSCCWStencilDepthFail, uint32(depthFail))
	c.setState(RSCCWStencilPass, uint32(pass))
	c.setState(RSCCWStencilFunc, uint32(fn))
}

func (c *StateCache) StencilEnabled() bool         { return c.getBool(RSStencilEnable) }
func (c *StateCache) StencilReference() uint32     { return c.values[RSStencilRef] }
func (c *StateCache) StencilMask() uint32          { return c.values[RSStencilMask] }
func (c *StateCache) StencilWriteMask() uint32     { return c.values[RSStencilWriteMask] }
func (c *StateCache) TwoSidedStencilEnabled() bool { return c.getBool(RSTwoSidedStencilMode) }

// StencilFrontFace returns the cached front-face stencil operations.
func (c *StateCache) StencilFrontFace() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunction(c.values[RSStencilFunc]),
		FailOp:      hal.StencilOperation(c.values[RSStencilFail]),
		DepthFailOp: hal.StencilOperation(c.values[RSStencilDepthFail]),
		PassOp:      hal.StencilOperation(c.values[RSStencilPass]),
	}
}

// StencilBackFace returns the cached back-face stencil operations used
// when two-sided stencil is enabled.
func (c *StateCache) StencilBackFace() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunction(c.values[RSCCWStencilFunc]),
		FailOp:      hal.StencilOperation(c.values[RSCCWStencilFail]),
		DepthFailOp: hal.StencilOperation(c.values[RSCCWStencilDepthFail]),
		PassOp:      hal.StencilOperation(c.values[RSCCWStencilPass]),
	}
}

// ============================================================================
// Rasterizer
// ============================================================================

func (c *StateCache) SetCullMode(mode gputypes.CullMode) { c.setState(RSCullMode, uint32(mode)) }

func (c *StateCache) CullMode() gputypes.CullMode { return gputypes.CullMode(c.values[RSCullMode]) }

func (c *StateCache) SetFillMode(mode FillMode) { c.setState(RSFillMode, uint32(mode)) }

func (c *StateCache) FillMode() FillMode { return FillMode(c.values[RSFillMode]) }

func (c *StateCache) SetScissorTestEnable(enable bool) { c.setBool(RSScissorTestEnable, enable) }

func (c *StateCache) ScissorTestEnabled() bool { return c.getBool(RSScissorTestEnable) }

// SetColorWriteMasks sets the color write mask of render target rt.
// It panics if rt is not in [0, MaxColorWriteTargets).
func (c *StateCache) SetColorWriteMasks(rt int, mask gputypes.ColorWriteMask) {
	checkColorWriteTarget(rt)
	c.setState(colorWriteState(rt), uint32(mask))
}

// ColorWriteMasks returns the cached color write mask of render target rt.
func (c *StateCache) ColorWriteMasks(rt int) gputypes.ColorWriteMask {
	checkColorWriteTarget(rt)
	return gputypes.ColorWriteMask(c.values[colorWriteState(rt)])
}

func checkColorWriteTarget(rt int) {
	if rt < 0 || rt >= MaxColorWriteTargets {
		panic(fmt.Sprintf("gdev: color write target %d out of range [0,%d)", rt, MaxColorWriteTargets))
	}
}

// ============================================================================
// Textures and samplers
// ============================================================================

// TextureSlotCount returns the number of pixel sampler slots.
func (c *StateCache) TextureSlotCount() int { return len(c.textures) }

// SetTexture binds tex to pixel sampler slot. A nil tex unbinds the slot.
// A released texture binds as nil.
func (c *StateCache) SetTexture(slot int, tex *Texture) {
	c.checkTextureSlot(slot)
	if c.textureValid[slot] && c.textures[slot] == tex {
		c.stats.Suppressed++
		return
	}
	var native NativeTexture
	if tex != nil {
		native = tex.nativeTexture()
	}
	c.dev.SetTexture(slot, native)
	c.textures[slot] = tex
	c.textureValid[slot] = true
	c.stats.TextureBinds++
}

// Texture returns the texture bound to slot.
func (c *StateCache) Texture(slot int) *Texture {
	c.checkTextureSlot(slot)
	return c.textures[slot]
}

// ClearTexture unbinds tex from every slot that holds it. It is used when
// tex becomes the color source of a bound render target.
func (c *StateCache) ClearTexture(tex *Texture) {
	if tex == nil {
		return
	}
	for i, t := range c.textures {
		if t == tex {
			c.SetTexture(i, nil)
		}
	}
}

func (c *StateCache) checkTextureSlot(slot int) {
	if slot < 0 || slot >= len(c.textures) {
		panic(fmt.Sprintf("gdev: texture slot %d out of range [0,%d)", slot, len(c.textures)))
	}
}

// SetPixelSampler sets the sampler parameters of pixel sampler slot.
func (c *StateCache) SetPixelSampler(slot int, s Sampler) {
	c.checkTextureSlot(slot)
	c.setSampler(&c.pixelSamplers[slot], slot, s)
}

// PixelSampler returns the cached parameters of pixel sampler slot.
func (c *StateCache) PixelSampler(slot int) Sampler {
	c.checkTextureSlot(slot)
	return samplerFromValues(c.pixelSamplers[slot].values)
}

// SetVertexSampler sets the sampler parameters of vertex sampler slot.
func (c *StateCache) SetVertexSampler(slot int, s Sampler) {
	c.checkVertexSlot(slot)
	c.setSampler(&c.vertexSamplers[slot], VertexSamplerBase+slot, s)
}

// VertexSampler returns the cached parameters of vertex sampler slot.
func (c *StateCache) VertexSampler(slot int) Sampler {
	c.checkVertexSlot(slot)
	return samplerFromValues(c.vertexSamplers[slot].values)
}

func (c *StateCache) checkVertexSlot(slot int) {
	if slot < 0 || slot >= len(c.vertexSamplers) {
		panic(fmt.Sprintf("gdev: vertex sampler %d out of range [0,%d)", slot, len(c.vertexSamplers)))
	}
}

func (c *StateCache) setSampler(slot *samplerSlot, native int, s Sampler) {
	values := s.values()
	for st := SamplerStateType(0); st < samplerStateCount; st++ {
		v := values[st]
		if slot.valid[st] && slot.values[st] == v {
			c.stats.Suppressed++
			continue
		}
		c.dev.SetSamplerState(native, st, v)
		slot.values[st] = v
		slot.valid[st] = true
		c.stats.Emitted++
	}
}
