package gdev

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// MaxBatchInstances is the capacity of the instance index buffer and the
// largest number of instances drawn by one sub-batch.
const MaxBatchInstances = 128

// Per-instance element appended by ExpandVertexDeclaration.
const (
	InstanceStream     = 1
	InstanceIndexUsage = VertexUsageTexCoord
	InstanceIndexIndex = 15
)

// InstancingData expands vertex layouts with a per-instance index stream
// and slices instance counts into sub-batches.
//
// The instance index buffer holds the floats 0..MaxBatchInstances-1. It is
// a static buffer and survives device resets.
type InstancingData struct {
	device   *Device
	indices  *VertexBuffer
	expanded map[*VertexDeclaration]*VertexDeclaration
}

func newInstancingData(d *Device) (*InstancingData, error) {
	vb, err := newVertexBuffer(d, MaxBatchInstances, 4, UsageStatic|UsageWriteOnly)
	if err != nil {
		return nil, err
	}
	data, err := vb.Lock(0, 0, LockNone)
	if err != nil {
		vb.Destroy()
		return nil, err
	}
	for i := 0; i < MaxBatchInstances; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(float32(i)))
	}
	vb.Unlock()

	return &InstancingData{
		device:   d,
		indices:  vb,
		expanded: make(map[*VertexDeclaration]*VertexDeclaration),
	}, nil
}

// Buffer returns the instance index buffer.
func (in *InstancingData) Buffer() *VertexBuffer { return in.indices }

// ExpandVertexDeclaration returns decl with the per-instance index element
// appended. The result is cached per source declaration.
func (in *InstancingData) ExpandVertexDeclaration(decl *VertexDeclaration) (*VertexDeclaration, error) {
	if e, ok := in.expanded[decl]; ok {
		return e, nil
	}
	elements := append(decl.Elements(), VertexElement{
		Stream: InstanceStream,
		Offset: 0,
		Format: gputypes.VertexFormatFloat32,
		Usage:  InstanceIndexUsage,
		Index:  InstanceIndexIndex,
	})
	e, err := in.device.factory.CreateVertexDeclaration(elements)
	if err != nil {
		return nil, err
	}
	in.expanded[decl] = e
	return e, nil
}

// Setup returns the number of instances the next sub-batch may draw,
// starting at ops[begin]. Callers advance begin by the result until it
// reaches len(ops).
func (in *InstancingData) Setup(ops []RenderOperation, begin int) int {
	return max(min(MaxBatchInstances, len(ops)-begin), 0)
}

// Destroy releases the instance index buffer.
func (in *InstancingData) Destroy() {
	in.indices.Destroy()
	clear(in.expanded)
}
