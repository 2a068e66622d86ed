// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d9

import (
	"github.com/gogpu/gdev"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gonutz/d3d9"
)

var renderStates = [...]d3d9.RENDERSTATETYPE{
	gdev.RSAlphaTestEnable:          d3d9.RS_ALPHATESTENABLE,
	gdev.RSAlphaFunc:                d3d9.RS_ALPHAFUNC,
	gdev.RSAlphaRef:                 d3d9.RS_ALPHAREF,
	gdev.RSAlphaBlendEnable:         d3d9.RS_ALPHABLENDENABLE,
	gdev.RSBlendOp:                  d3d9.RS_BLENDOP,
	gdev.RSSrcBlend:                 d3d9.RS_SRCBLEND,
	gdev.RSDestBlend:                d3d9.RS_DESTBLEND,
	gdev.RSBlendFactor:              d3d9.RS_BLENDFACTOR,
	gdev.RSSeparateAlphaBlendEnable: d3d9.RS_SEPARATEALPHABLENDENABLE,
	gdev.RSBlendOpAlpha:             d3d9.RS_BLENDOPALPHA,
	gdev.RSSrcBlendAlpha:            d3d9.RS_SRCBLENDALPHA,
	gdev.RSDestBlendAlpha:           d3d9.RS_DESTBLENDALPHA,
	gdev.RSDepthEnable:              d3d9.RS_ZENABLE,
	gdev.RSDepthWriteEnable:         d3d9.RS_ZWRITEENABLE,
	gdev.RSDepthBias:                d3d9.RS_DEPTHBIAS,
	gdev.RSSlopeScaleDepthBias:      d3d9.RS_SLOPESCALEDEPTHBIAS,
	gdev.RSDepthFunc:                d3d9.RS_ZFUNC,
	gdev.RSPointSize:                d3d9.RS_POINTSIZE,
	gdev.RSPointSizeMax:             d3d9.RS_POINTSIZE_MAX,
	gdev.RSPointSizeMin:             d3d9.RS_POINTSIZE_MIN,
	gdev.RSPointSpriteEnable:        d3d9.RS_POINTSPRITEENABLE,
	gdev.RSStencilEnable:            d3d9.RS_STENCILENABLE,
	gdev.RSStencilFail:              d3d9.RS_STENCILFAIL,
	gdev.RSStencilDepthFail:         d3d9.RS_STENCILZFAIL,
	gdev.RSStencilPass:              d3d9.RS_STENCILPASS,
	gdev.RSStencilRef:               d3d9.RS_STENCILREF,
	gdev.RSStencilFunc:              d3d9.RS_STENCILFUNC,
	gdev.RSStencilMask:              d3d9.RS_STENCILMASK,
	gdev.RSStencilWriteMask:         d3d9.RS_STENCILWRITEMASK,
	gdev.RSTwoSidedStencilMode:      d3d9.RS_TWOSIDEDSTENCILMODE,
	gdev.RSCCWStencilFail:           d3d9.RS_CCW_STENCILFAIL,
	gdev.RSCCWStencilDepthFail:      d3d9.RS_CCW_STENCILZFAIL,
	gdev.RSCCWStencilPass:           d3d9.RS_CCW_STENCILPASS,
	gdev.RSCCWStencilFunc:           d3d9.RS_CCW_STENCILFUNC,
	gdev.RSCullMode:                 d3d9.RS_CULLMODE,
	gdev.RSFillMode:                 d3d9.RS_FILLMODE,
	gdev.RSScissorTestEnable:        d3d9.RS_SCISSORTESTENABLE,
	gdev.RSColorWriteEnable:         d3d9.RS_COLORWRITEENABLE,
	gdev.RSColorWriteEnable1:        d3d9.RS_COLORWRITEENABLE1,
	gdev.RSColorWriteEnable2:        d3d9.RS_COLORWRITEENABLE2,
	gdev.RSColorWriteEnable3:        d3d9.RS_COLORWRITEENABLE3,
}

var samplerStates = [...]d3d9.SAMPLERSTATETYPE{
	gdev.SampAddressU:      d3d9.SAMP_ADDRESSU,
	gdev.SampAddressV:      d3d9.SAMP_ADDRESSV,
	gdev.SampAddressW:      d3d9.SAMP_ADDRESSW,
	gdev.SampBorderColor:   d3d9.SAMP_BORDERCOLOR,
	gdev.SampMagFilter:     d3d9.SAMP_MAGFILTER,
	gdev.SampMinFilter:     d3d9.SAMP_MINFILTER,
	gdev.SampMipFilter:     d3d9.SAMP_MIPFILTER,
	gdev.SampMipMapLODBias: d3d9.SAMP_MIPMAPLODBIAS,
	gdev.SampMaxMipLevel:   d3d9.SAMP_MAXMIPLEVEL,
	gdev.SampMaxAnisotropy: d3d9.SAMP_MAXANISOTROPY,
}

// renderStateValue converts a gdev state value to its Direct3D 9 value.
// Booleans, references, masks and float bit patterns pass through.
func renderStateValue(s gdev.RenderState, v uint32) uint32 {
	switch s {
	case gdev.RSAlphaFunc, gdev.RSDepthFunc, gdev.RSStencilFunc, gdev.RSCCWStencilFunc:
		return compareFunc(gputypes.CompareFunction(v))
	case gdev.RSBlendOp, gdev.RSBlendOpAlpha:
		return blendOp(gputypes.BlendOperation(v))
	case gdev.RSSrcBlend, gdev.RSDestBlend, gdev.RSSrcBlendAlpha, gdev.RSDestBlendAlpha:
		return blendFactor(gputypes.BlendFactor(v))
	case gdev.RSStencilFail, gdev.RSStencilDepthFail, gdev.RSStencilPass,
		gdev.RSCCWStencilFail, gdev.RSCCWStencilDepthFail, gdev.RSCCWStencilPass:
		return stencilOp(hal.StencilOperation(v))
	case gdev.RSCullMode:
		return cullMode(gputypes.CullMode(v))
	case gdev.RSFillMode:
		return fillMode(gdev.FillMode(v))
	case gdev.RSDepthEnable:
		if v != 0 {
			return uint32(d3d9.ZB_TRUE)
		}
		return uint32(d3d9.ZB_FALSE)
	default:
		return v
	}
}

func samplerStateValue(s gdev.SamplerStateType, v uint32) uint32 {
	switch s {
	case gdev.SampAddressU, gdev.SampAddressV, gdev.SampAddressW:
		return addressMode(gputypes.AddressMode(v))
	case gdev.SampMagFilter, gdev.SampMinFilter, gdev.SampMipFilter:
		return textureFilter(gdev.TextureFilter(v))
	default:
		return v
	}
}

func compareFunc(f gputypes.CompareFunction) uint32 {
	switch f {
	case gputypes.CompareFunctionNever:
		return uint32(d3d9.CMP_NEVER)
	case gputypes.CompareFunctionLess:
		return uint32(d3d9.CMP_LESS)
	case gputypes.CompareFunctionEqual:
		return uint32(d3d9.CMP_EQUAL)
	case gputypes.CompareFunctionLessEqual:
		return uint32(d3d9.CMP_LESSEQUAL)
	case gputypes.CompareFunctionGreater:
		return uint32(d3d9.CMP_GREATER)
	case gputypes.CompareFunctionNotEqual:
		return uint32(d3d9.CMP_NOTEQUAL)
	case gputypes.CompareFunctionGreaterEqual:
		return uint32(d3d9.CMP_GREATEREQUAL)
	default:
		return uint32(d3d9.CMP_ALWAYS)
	}
}

func blendOp(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return uint32(d3d9.BLENDOP_SUBTRACT)
	case gputypes.BlendOperationReverseSubtract:
		return uint32(d3d9.BLENDOP_REVSUBTRACT)
	case gputypes.BlendOperationMin:
		return uint32(d3d9.BLENDOP_MIN)
	case gputypes.BlendOperationMax:
		return uint32(d3d9.BLENDOP_MAX)
	default:
		return uint32(d3d9.BLENDOP_ADD)
	}
}

func blendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return uint32(d3d9.BLEND_ZERO)
	case gputypes.BlendFactorSrc:
		return uint32(d3d9.BLEND_SRCCOLOR)
	case gputypes.BlendFactorOneMinusSrc:
		return uint32(d3d9.BLEND_INVSRCCOLOR)
	case gputypes.BlendFactorSrcAlpha:
		return uint32(d3d9.BLEND_SRCALPHA)
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return uint32(d3d9.BLEND_INVSRCALPHA)
	case gputypes.BlendFactorDst:
		return uint32(d3d9.BLEND_DESTCOLOR)
	case gputypes.BlendFactorOneMinusDst:
		return uint32(d3d9.BLEND_INVDESTCOLOR)
	case gputypes.BlendFactorDstAlpha:
		return uint32(d3d9.BLEND_DESTALPHA)
	case gputypes.BlendFactorOneMinusDstAlpha:
		return uint32(d3d9.BLEND_INVDESTALPHA)
	case gputypes.BlendFactorSrcAlphaSaturated:
		return uint32(d3d9.BLEND_SRCALPHASAT)
	case gputypes.BlendFactorConstant:
		return uint32(d3d9.BLEND_BLENDFACTOR)
	case gputypes.BlendFactorOneMinusConstant:
		return uint32(d3d9.BLEND_INVBLENDFACTOR)
	default:
		return uint32(d3d9.BLEND_ONE)
	}
}

func stencilOp(op hal.StencilOperation) uint32 {
	switch op {
	case hal.StencilOperationZero:
		return uint32(d3d9.STENCILOP_ZERO)
	case hal.StencilOperationReplace:
		return uint32(d3d9.STENCILOP_REPLACE)
	case hal.StencilOperationInvert:
		return uint32(d3d9.STENCILOP_INVERT)
	case hal.StencilOperationIncrementClamp:
		return uint32(d3d9.STENCILOP_INCRSAT)
	case hal.StencilOperationDecrementClamp:
		return uint32(d3d9.STENCILOP_DECRSAT)
	case hal.StencilOperationIncrementWrap:
		return uint32(d3d9.STENCILOP_INCR)
	case hal.StencilOperationDecrementWrap:
		return uint32(d3d9.STENCILOP_DECR)
	default:
		return uint32(d3d9.STENCILOP_KEEP)
	}
}

// cullMode maps the culled face. Direct3D 9 culls by winding, and gdev
// geometry is clockwise front-facing, so back faces wind counterclockwise.
func cullMode(m gputypes.CullMode) uint32 {
	switch m {
	case gputypes.CullModeBack:
		return uint32(d3d9.CULL_CCW)
	case gputypes.CullModeFront:
		return uint32(d3d9.CULL_CW)
	default:
		return uint32(d3d9.CULL_NONE)
	}
}

func fillMode(m gdev.FillMode) uint32 {
	switch m {
	case gdev.FillWireframe:
		return uint32(d3d9.FILL_WIREFRAME)
	case gdev.FillPoint:
		return uint32(d3d9.FILL_POINT)
	default:
		return uint32(d3d9.FILL_SOLID)
	}
}

func addressMode(m gputypes.AddressMode) uint32 {
	switch m {
	case gputypes.AddressModeClampToEdge:
		return uint32(d3d9.TADDRESS_CLAMP)
	case gputypes.AddressModeMirrorRepeat:
		return uint32(d3d9.TADDRESS_MIRROR)
	default:
		return uint32(d3d9.TADDRESS_WRAP)
	}
}

func textureFilter(f gdev.TextureFilter) uint32 {
	switch f {
	case gdev.FilterPoint:
		return uint32(d3d9.TEXF_POINT)
	case gdev.FilterLinear:
		return uint32(d3d9.TEXF_LINEAR)
	case gdev.FilterAnisotropic:
		return uint32(d3d9.TEXF_ANISOTROPIC)
	default:
		return uint32(d3d9.TEXF_NONE)
	}
}

func lockFlags(mode gdev.LockMode) uint32 {
	switch mode {
	case gdev.LockDiscard:
		return uint32(d3d9.LOCK_DISCARD)
	case gdev.LockReadOnly:
		return uint32(d3d9.LOCK_READONLY)
	case gdev.LockNoOverwrite:
		return uint32(d3d9.LOCK_NOOVERWRITE)
	default:
		return 0
	}
}
