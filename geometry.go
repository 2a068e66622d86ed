package gdev

import "github.com/gogpu/gputypes"

// VertexRange restricts the vertices an indexed draw touches.
type VertexRange struct {
	Min   int
	Count int
}

// GeometryData is a vertex and optional index buffer pair with the layout
// and primitive description needed to draw it.
type GeometryData struct {
	VertexBuffer *VertexBuffer
	IndexBuffer  *IndexBuffer
	Declaration  *VertexDeclaration
	Topology     gputypes.PrimitiveTopology

	PrimitiveCount int
	VertexCount    int
	// VertexSize is the stream 0 stride. Zero takes the stride from the
	// declaration.
	VertexSize int
	BaseVertex int
	StartIndex int

	// UsedVertices limits the vertex range of indexed draws when set.
	UsedVertices *VertexRange
}

// IsIndexed reports whether the geometry is drawn with an index buffer.
func (g *GeometryData) IsIndexed() bool { return g.IndexBuffer != nil }

// IsEmpty reports whether there is nothing to draw.
func (g *GeometryData) IsEmpty() bool { return g.VertexCount == 0 || g.PrimitiveCount == 0 }

// stride returns the stream 0 vertex stride.
func (g *GeometryData) stride() int {
	if g.VertexSize > 0 {
		return g.VertexSize
	}
	if g.Declaration != nil {
		return g.Declaration.VertexSize(0)
	}
	return 0
}

// vertexRange returns the minimum index and vertex count of an indexed
// draw.
func (g *GeometryData) vertexRange() (int, int) {
	if g.UsedVertices != nil {
		return g.UsedVertices.Min, g.UsedVertices.Count
	}
	return 0, g.VertexCount
}

// RenderOperation is one object to draw: its geometry and world transform.
type RenderOperation struct {
	Geometry  *GeometryData
	Transform [16]float32
	UserData  any
}

// IdentityTransform is the 4x4 identity matrix in row-major order.
var IdentityTransform = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}
