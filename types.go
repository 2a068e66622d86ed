package gdev

import "github.com/gogpu/gputypes"

// Usage describes how a buffer or texture is updated by the application.
type Usage uint32

// Usage flags.
const (
	// UsageStatic resources are written rarely. Their storage is managed by
	// the driver and survives a device loss.
	UsageStatic Usage = 1 << iota

	// UsageDynamic resources live in device memory that is destroyed by a
	// device loss. They are tracked as volatile resources.
	UsageDynamic

	// UsageWriteOnly resources are never read back. A write-only dynamic
	// resource restores with undefined content after a device reset.
	UsageWriteOnly
)

// IsDynamic reports whether the usage places storage in volatile memory.
func (u Usage) IsDynamic() bool { return u&UsageDynamic != 0 }

// IsWriteOnly reports whether the resource is never read back.
func (u Usage) IsWriteOnly() bool { return u&UsageWriteOnly != 0 }

// String returns a readable representation of the usage flags.
func (u Usage) String() string {
	if u == 0 {
		return "None"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if u&UsageStatic != 0 {
		add("Static")
	}
	if u&UsageDynamic != 0 {
		add("Dynamic")
	}
	if u&UsageWriteOnly != 0 {
		add("WriteOnly")
	}
	return s
}

// LockMode selects how a locked range may be accessed.
type LockMode int

// Lock modes.
const (
	LockNone LockMode = iota
	LockDiscard
	LockReadOnly
	LockNoOverwrite
)

// String returns the lock mode name.
func (m LockMode) String() string {
	switch m {
	case LockNone:
		return "None"
	case LockDiscard:
		return "Discard"
	case LockReadOnly:
		return "ReadOnly"
	case LockNoOverwrite:
		return "NoOverwrite"
	default:
		return "Unknown"
	}
}

// ClearFlags selects the buffers cleared by [Device.Clear].
type ClearFlags uint32

// Clear flags.
const (
	ClearTarget ClearFlags = 1 << iota
	ClearDepth
	ClearStencil

	ClearAll = ClearTarget | ClearDepth | ClearStencil
)

// FillMode is the polygon rasterization mode.
type FillMode uint32

// Fill modes.
const (
	FillSolid FillMode = iota
	FillWireframe
	FillPoint
)

// TextureFilter selects sampler filtering.
type TextureFilter uint32

// Texture filters.
const (
	FilterNone TextureFilter = iota
	FilterPoint
	FilterLinear
	FilterAnisotropic
)

// TextureType is the dimensionality of a texture.
type TextureType int

// Texture types.
const (
	Texture2D TextureType = iota
	Texture3D
	TextureCube
)

// String returns the texture type name.
func (t TextureType) String() string {
	switch t {
	case Texture2D:
		return "2D"
	case Texture3D:
		return "3D"
	case TextureCube:
		return "Cube"
	default:
		return "Unknown"
	}
}

// CubeFace selects one face of a cube texture. 2D and 3D textures only
// have CubeFacePositiveX.
type CubeFace int

// Cube faces.
const (
	CubeFacePositiveX CubeFace = iota
	CubeFaceNegativeX
	CubeFacePositiveY
	CubeFaceNegativeY
	CubeFacePositiveZ
	CubeFaceNegativeZ
)

// Rect is an integer rectangle in pixels. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the rectangle width.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the rectangle height.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Viewport is the rasterizer viewport.
type Viewport struct {
	X, Y, Width, Height int
	MinZ, MaxZ          float32
}

// BytesPerPixel returns the size of one texel of format in bytes, or 0
// for formats the device layer does not handle.
func BytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRG8Unorm,
		gputypes.TextureFormatR16Float,
		gputypes.TextureFormatDepth16Unorm:
		return 2
	case gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatRG16Float,
		gputypes.TextureFormatR32Float,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float:
		return 4
	case gputypes.TextureFormatRGBA16Float,
		gputypes.TextureFormatRG32Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// IsDepthFormat reports whether format is a depth or depth-stencil format.
func IsDepthFormat(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float:
		return true
	default:
		return false
	}
}
