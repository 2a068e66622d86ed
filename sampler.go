package gdev

import (
	"math"

	"github.com/gogpu/gputypes"
)

// Sampler holds the per-slot sampler parameters.
type Sampler struct {
	AddressU      gputypes.AddressMode
	AddressV      gputypes.AddressMode
	AddressW      gputypes.AddressMode
	BorderColor   uint32
	MagFilter     TextureFilter
	MinFilter     TextureFilter
	MipFilter     TextureFilter
	MipMapLODBias float32
	MaxMipLevel   int
	MaxAnisotropy int
}

// DefaultSampler returns the sampler state a native device starts with:
// repeat addressing, point filtering, no mipmapping.
func DefaultSampler() Sampler {
	return Sampler{
		AddressU:      gputypes.AddressModeRepeat,
		AddressV:      gputypes.AddressModeRepeat,
		AddressW:      gputypes.AddressModeRepeat,
		MagFilter:     FilterPoint,
		MinFilter:     FilterPoint,
		MipFilter:     FilterNone,
		MaxAnisotropy: 1,
	}
}

// values encodes s in native slot order.
//
//nolint:gosec // G115: mip level and anisotropy are small non-negative values
func (s Sampler) values() [samplerStateCount]uint32 {
	return [samplerStateCount]uint32{
		SampAddressU:      uint32(s.AddressU),
		SampAddressV:      uint32(s.AddressV),
		SampAddressW:      uint32(s.AddressW),
		SampBorderColor:   s.BorderColor,
		SampMagFilter:     uint32(s.MagFilter),
		SampMinFilter:     uint32(s.MinFilter),
		SampMipFilter:     uint32(s.MipFilter),
		SampMipMapLODBias: math.Float32bits(s.MipMapLODBias),
		SampMaxMipLevel:   uint32(s.MaxMipLevel),
		SampMaxAnisotropy: uint32(s.MaxAnisotropy),
	}
}

func samplerFromValues(v [samplerStateCount]uint32) Sampler {
	return Sampler{
		AddressU:      gputypes.AddressMode(v[SampAddressU]),
		AddressV:      gputypes.AddressMode(v[SampAddressV]),
		AddressW:      gputypes.AddressMode(v[SampAddressW]),
		BorderColor:   v[SampBorderColor],
		MagFilter:     TextureFilter(v[SampMagFilter]),
		MinFilter:     TextureFilter(v[SampMinFilter]),
		MipFilter:     TextureFilter(v[SampMipFilter]),
		MipMapLODBias: math.Float32frombits(v[SampMipMapLODBias]),
		MaxMipLevel:   int(v[SampMaxMipLevel]),
		MaxAnisotropy: int(v[SampMaxAnisotropy]),
	}
}

// samplerSlot is the shadow copy of one native sampler.
type samplerSlot struct {
	values [samplerStateCount]uint32
	valid  [samplerStateCount]bool
}
