package gdev

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"slices"

	"github.com/gogpu/gputypes"
)

// VertexUsage is the semantic of a vertex element.
type VertexUsage int

// Vertex usages.
const (
	VertexUsagePosition VertexUsage = iota
	VertexUsageBlendWeight
	VertexUsageBlendIndices
	VertexUsageNormal
	VertexUsagePointSize
	VertexUsageTexCoord
	VertexUsageTangent
	VertexUsageBinormal
	VertexUsageColor
	VertexUsagePositionTransformed
	VertexUsageDepth
)

// String returns the usage name.
func (u VertexUsage) String() string {
	switch u {
	case VertexUsagePosition:
		return "Position"
	case VertexUsageBlendWeight:
		return "BlendWeight"
	case VertexUsageBlendIndices:
		return "BlendIndices"
	case VertexUsageNormal:
		return "Normal"
	case VertexUsagePointSize:
		return "PointSize"
	case VertexUsageTexCoord:
		return "TexCoord"
	case VertexUsageTangent:
		return "Tangent"
	case VertexUsageBinormal:
		return "Binormal"
	case VertexUsageColor:
		return "Color"
	case VertexUsagePositionTransformed:
		return "PositionTransformed"
	case VertexUsageDepth:
		return "Depth"
	default:
		return "Unknown"
	}
}

// VertexElement describes one attribute of a vertex stream.
type VertexElement struct {
	Stream int
	Offset int
	Format gputypes.VertexFormat
	Usage  VertexUsage
	Index  int
}

// VertexFormatSize returns the size of format in bytes, or 0 if unknown.
func VertexFormatSize(format gputypes.VertexFormat) int {
	switch format {
	case gputypes.VertexFormatFloat32:
		return 4
	case gputypes.VertexFormatFloat32x2:
		return 8
	case gputypes.VertexFormatFloat32x3:
		return 12
	case gputypes.VertexFormatFloat32x4:
		return 16
	default:
		return 0
	}
}

// VertexDeclaration is an immutable vertex layout. Declarations are
// created and deduplicated by the [Factory] and survive device resets.
type VertexDeclaration struct {
	elements []VertexElement
	native   NativeDeclaration
	hash     uint64
}

// Elements returns a copy of the declaration's elements.
func (d *VertexDeclaration) Elements() []VertexElement { return slices.Clone(d.elements) }

// Native returns the native declaration.
func (d *VertexDeclaration) Native() NativeDeclaration { return d.native }

// VertexSize returns the stride of stream: the end of its furthest
// element.
func (d *VertexDeclaration) VertexSize(stream int) int {
	size := 0
	for _, e := range d.elements {
		if e.Stream == stream {
			size = max(size, e.Offset+VertexFormatSize(e.Format))
		}
	}
	return size
}

// FindElement returns the first element with usage and index.
func (d *VertexDeclaration) FindElement(usage VertexUsage, index int) (VertexElement, bool) {
	for _, e := range d.elements {
		if e.Usage == usage && e.Index == index {
			return e, true
		}
	}
	return VertexElement{}, false
}

// hashElements computes the FNV-1a hash of a layout.
//
//nolint:gosec // G115: element fields are small non-negative values
func hashElements(elements []VertexElement) uint64 {
	h := fnv.New64a()
	hashWriteUint32(h, uint32(len(elements)))
	for _, e := range elements {
		hashWriteUint32(h, uint32(e.Stream))
		hashWriteUint32(h, uint32(e.Offset))
		hashWriteUint32(h, uint32(e.Format))
		hashWriteUint32(h, uint32(e.Usage))
		hashWriteUint32(h, uint32(e.Index))
	}
	return h.Sum64()
}

// hashWriteUint32 writes a uint32 to the hash.
func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}
