package gdev

// RenderState identifies one native pipeline toggle. Values are transported
// to the native device as uint32: booleans as 0/1, enums as their numeric
// value, floats as IEEE-754 bit patterns (see [RenderState.IsFloat]).
type RenderState int

// Render states.
const (
	RSAlphaTestEnable RenderState = iota
	RSAlphaFunc
	RSAlphaRef

	RSAlphaBlendEnable
	RSBlendOp
	RSSrcBlend
	RSDestBlend
	RSBlendFactor
	RSSeparateAlphaBlendEnable
	RSBlendOpAlpha
	RSSrcBlendAlpha
	RSDestBlendAlpha

	RSDepthEnable
	RSDepthWriteEnable
	RSDepthBias
	RSSlopeScaleDepthBias
	RSDepthFunc

	RSPointSize
	RSPointSizeMax
	RSPointSizeMin
	RSPointSpriteEnable

	RSStencilEnable
	RSStencilFail
	RSStencilDepthFail
	RSStencilPass
	RSStencilRef
	RSStencilFunc
	RSStencilMask
	RSStencilWriteMask
	RSTwoSidedStencilMode
	RSCCWStencilFail
	RSCCWStencilDepthFail
	RSCCWStencilPass
	RSCCWStencilFunc

	RSCullMode
	RSFillMode
	RSScissorTestEnable

	RSColorWriteEnable
	RSColorWriteEnable1
	RSColorWriteEnable2
	RSColorWriteEnable3

	renderStateCount
)

// MaxColorWriteTargets is the number of render targets with an individual
// color write mask.
const MaxColorWriteTargets = 4

var renderStateNames = [renderStateCount]string{
	RSAlphaTestEnable:          "AlphaTestEnable",
	RSAlphaFunc:                "AlphaFunc",
	RSAlphaRef:                 "AlphaRef",
	RSAlphaBlendEnable:         "AlphaBlendEnable",
	RSBlendOp:                  "BlendOp",
	RSSrcBlend:                 "SrcBlend",
	RSDestBlend:                "DestBlend",
	RSBlendFactor:              "BlendFactor",
	RSSeparateAlphaBlendEnable: "SeparateAlphaBlendEnable",
	RSBlendOpAlpha:             "BlendOpAlpha",
	RSSrcBlendAlpha:            "SrcBlendAlpha",
	RSDestBlendAlpha:           "DestBlendAlpha",
	RSDepthEnable:              "DepthEnable",
	RSDepthWriteEnable:         "DepthWriteEnable",
	RSDepthBias:                "DepthBias",
	RSSlopeScaleDepthBias:      "SlopeScaleDepthBias",
	RSDepthFunc:                "DepthFunc",
	RSPointSize:                "PointSize",
	RSPointSizeMax:             "PointSizeMax",
	RSPointSizeMin:             "PointSizeMin",
	RSPointSpriteEnable:        "PointSpriteEnable",
	RSStencilEnable:            "StencilEnable",
	RSStencilFail:              "StencilFail",
	RSStencilDepthFail:         "StencilDepthFail",
	RSStencilPass:              "StencilPass",
	RSStencilRef:               "StencilRef",
	RSStencilFunc:              "StencilFunc",
	RSStencilMask:              "StencilMask",
	RSStencilWriteMask:         "StencilWriteMask",
	RSTwoSidedStencilMode:      "TwoSidedStencilMode",
	RSCCWStencilFail:           "CCWStencilFail",
	RSCCWStencilDepthFail:      "CCWStencilDepthFail",
	RSCCWStencilPass:           "CCWStencilPass",
	RSCCWStencilFunc:           "CCWStencilFunc",
	RSCullMode:                 "CullMode",
	RSFillMode:                 "FillMode",
	RSScissorTestEnable:        "ScissorTestEnable",
	RSColorWriteEnable:         "ColorWriteEnable",
	RSColorWriteEnable1:        "ColorWriteEnable1",
	RSColorWriteEnable2:        "ColorWriteEnable2",
	RSColorWriteEnable3:        "ColorWriteEnable3",
}

// String returns the render state name.
func (s RenderState) String() string {
	if s < 0 || s >= renderStateCount {
		return "Unknown"
	}
	return renderStateNames[s]
}

// IsFloat reports whether the state carries a float32 bit pattern.
func (s RenderState) IsFloat() bool {
	switch s {
	case RSDepthBias, RSSlopeScaleDepthBias, RSPointSize, RSPointSizeMax, RSPointSizeMin:
		return true
	default:
		return false
	}
}

// colorWriteState returns the color write state of render target rt.
func colorWriteState(rt int) RenderState {
	return RSColorWriteEnable + RenderState(rt)
}

// SamplerStateType identifies one per-slot sampler parameter.
type SamplerStateType int

// Sampler states.
const (
	SampAddressU SamplerStateType = iota
	SampAddressV
	SampAddressW
	SampBorderColor
	SampMagFilter
	SampMinFilter
	SampMipFilter
	SampMipMapLODBias
	SampMaxMipLevel
	SampMaxAnisotropy

	samplerStateCount
)

var samplerStateNames = [samplerStateCount]string{
	SampAddressU:      "AddressU",
	SampAddressV:      "AddressV",
	SampAddressW:      "AddressW",
	SampBorderColor:   "BorderColor",
	SampMagFilter:     "MagFilter",
	SampMinFilter:     "MinFilter",
	SampMipFilter:     "MipFilter",
	SampMipMapLODBias: "MipMapLODBias",
	SampMaxMipLevel:   "MaxMipLevel",
	SampMaxAnisotropy: "MaxAnisotropy",
}

// String returns the sampler state name.
func (s SamplerStateType) String() string {
	if s < 0 || s >= samplerStateCount {
		return "Unknown"
	}
	return samplerStateNames[s]
}

// Sampler slot numbering on the native device. Pixel samplers use slots
// 0..n-1, vertex samplers start at VertexSamplerBase.
const (
	VertexSamplerBase   = 257
	MaxVertexSamplers   = 4
	DefaultTextureSlots = 16
)
