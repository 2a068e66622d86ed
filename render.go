package gdev

import "github.com/gogpu/gputypes"

// Render draws ops with material m for pass sel.
//
// A material that does not take part in sel is skipped silently. One that
// takes part without a custom effect is drawn with the default effect and
// its fixed-function state is left untouched; otherwise blend, cull, point
// sprite, alpha test, depth and color write state are reconciled through
// the state cache first.
//
// When the effect supports instancing and all operations share one indexed
// GeometryData, the operations are drawn in sub-batches of at most
// MaxBatchInstances instances. Otherwise each operation is drawn on its own;
// an operation with no vertices or no primitives ends the pass.
//
// Render does nothing while the device is lost.
func (d *Device) Render(m *Material, ops []RenderOperation, sel PassSelector) {
	if len(ops) == 0 || d.lost || !d.initialized {
		return
	}
	if !m.InPass(sel) {
		return
	}

	var fx Effect = d.defaultEffect
	if custom := m.PassEffect(sel); custom != nil {
		fx = custom
		d.reconcileState(m)
	}

	entry := d.report.entry(m)
	instanced := fx.SupportsInstancing() && d.caps.SupportsInstancing() && sharesGeometry(ops)

	passes := fx.Begin()
	for p := 0; p < passes; p++ {
		fx.BeginPass(p)
		if instanced {
			d.submitInstanced(fx, m, ops, entry)
		} else {
			d.submitOrdinary(fx, m, ops, entry)
		}
		fx.EndPass()
	}
	fx.End()
}

// reconcileState pushes the material's fixed-function state through the
// state cache.
func (d *Device) reconcileState(m *Material) {
	s := d.states
	if m.IsBlendTransparent {
		s.SetAlphaBlendEnable(true)
		s.SetAlphaSourceBlend(m.SourceBlend)
		s.SetAlphaDestinationBlend(m.DestinationBlend)
		s.SetAlphaBlendOperation(m.BlendFunction)
	} else {
		s.SetAlphaBlendEnable(false)
	}
	s.SetCullMode(m.Cull)
	s.SetPointSpriteEnable(m.UsePointSprite)
	if m.AlphaTestEnabled {
		s.SetAlphaTestParameters(true, gputypes.CompareFunctionGreaterEqual, m.AlphaReference)
	} else {
		s.SetAlphaTestEnable(false)
	}
	s.SetDepth(m.DepthTestEnabled, m.DepthWriteEnabled)
	for i := 0; i < len(d.renderTargets) && i < MaxColorWriteTargets; i++ {
		s.SetColorWriteMasks(i, m.ColorWriteMasks[i])
	}
}

// sharesGeometry reports whether every operation draws the same indexed
// geometry.
func sharesGeometry(ops []RenderOperation) bool {
	g := ops[0].Geometry
	if g == nil || !g.IsIndexed() {
		return false
	}
	for i := 1; i < len(ops); i++ {
		if ops[i].Geometry != g {
			return false
		}
	}
	return true
}

// submitOrdinary draws one operation at a time and stops at the first
// empty geometry.
func (d *Device) submitOrdinary(fx Effect, m *Material, ops []RenderOperation, entry *BatchReportEntry) {
	for i := range ops {
		g := ops[i].Geometry
		if g == nil || g.IsEmpty() {
			if entry != nil {
				entry.EmptyOperations++
			}
			return
		}
		fx.Setup(m, ops[i:i+1])
		d.bindGeometry(g, g.Declaration)
		d.draw(g)

		d.stats.Batches++
		d.stats.Primitives += g.PrimitiveCount
		d.stats.Vertices += g.VertexCount
		if entry != nil {
			entry.DrawCalls++
			entry.Primitives += g.PrimitiveCount
			entry.Vertices += g.VertexCount
		}
	}
}

// submitInstanced binds the shared geometry once with the instance index
// stream and draws sub-batches sized by the instancing batcher.
func (d *Device) submitInstanced(fx Effect, m *Material, ops []RenderOperation, entry *BatchReportEntry) {
	g := ops[0].Geometry
	if g.IsEmpty() {
		if entry != nil {
			entry.EmptyInstancedOperations++
		}
		return
	}
	decl, err := d.instancing.ExpandVertexDeclaration(g.Declaration)
	if err != nil {
		d.log.Warn("gdev: instanced declaration unavailable", "err", err)
		return
	}

	n := d.native
	d.bindGeometry(g, decl)
	n.SetStreamSource(InstanceStream, d.instancing.Buffer().Native(), 0, 4)
	n.SetStreamSourceFreq(InstanceStream, StreamInstanceData|1)

	if entry != nil {
		entry.InstancedDrawCalls++
	}
	minIndex, numVertices := g.vertexRange()
	for begin := 0; begin < len(ops); {
		count := d.instancing.Setup(ops, begin)
		fx.Setup(m, ops[begin:begin+count])
		//nolint:gosec // G115: count is at most MaxBatchInstances
		n.SetStreamSourceFreq(0, StreamIndexedData|uint32(count))
		n.DrawIndexedPrimitive(g.Topology, g.BaseVertex, minIndex, numVertices, g.StartIndex, g.PrimitiveCount)

		d.stats.Batches++
		d.stats.Primitives += g.PrimitiveCount * count
		d.stats.Vertices += g.VertexCount * count
		if entry != nil {
			entry.InstancingBatches++
			entry.InstancedPrimitives += g.PrimitiveCount * count
			entry.InstancedVertices += g.VertexCount * count
		}
		begin += count
	}

	n.SetStreamSourceFreq(0, 1)
	n.SetStreamSourceFreq(InstanceStream, 1)
	n.SetStreamSource(InstanceStream, nil, 0, 0)
}

func (d *Device) bindGeometry(g *GeometryData, decl *VertexDeclaration) {
	n := d.native
	if decl != nil {
		n.SetVertexDeclaration(decl.Native())
	}
	n.SetStreamSource(0, g.VertexBuffer.Native(), 0, g.stride())
	if g.IsIndexed() {
		n.SetIndices(g.IndexBuffer.Native())
	}
}

func (d *Device) draw(g *GeometryData) {
	if g.IsIndexed() {
		minIndex, numVertices := g.vertexRange()
		d.native.DrawIndexedPrimitive(g.Topology, g.BaseVertex, minIndex, numVertices, g.StartIndex, g.PrimitiveCount)
		return
	}
	d.native.DrawPrimitive(g.Topology, g.BaseVertex, g.PrimitiveCount)
}
