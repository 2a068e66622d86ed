package main

import "github.com/gogpu/gdev"

// Vertex shader constant registers used by the demo effects.
const (
	regViewProj  = 0
	regInstances = 4
)

// spriteEffect draws point sprites with the material's texture.
type spriteEffect struct {
	dev *gdev.Device
}

func (fx *spriteEffect) Begin() int    { return 1 }
func (fx *spriteEffect) BeginPass(int) {}
func (fx *spriteEffect) EndPass()      {}
func (fx *spriteEffect) End()          {}

func (fx *spriteEffect) Setup(m *gdev.Material, ops []gdev.RenderOperation) {
	fx.dev.Native().SetVertexShaderConstantF(regViewProj, ops[0].Transform[:])
	fx.dev.StateCache().SetTexture(0, m.Texture(0))
}

func (fx *spriteEffect) SupportsInstancing() bool { return false }

// crowdEffect uploads one transform per instance of a sub-batch.
type crowdEffect struct {
	dev     *gdev.Device
	scratch []float32
}

func (fx *crowdEffect) Begin() int    { return 1 }
func (fx *crowdEffect) BeginPass(int) {}
func (fx *crowdEffect) EndPass()      {}
func (fx *crowdEffect) End()          {}

func (fx *crowdEffect) Setup(_ *gdev.Material, ops []gdev.RenderOperation) {
	fx.scratch = fx.scratch[:0]
	for i := range ops {
		fx.scratch = append(fx.scratch, ops[i].Transform[:]...)
	}
	fx.dev.Native().SetVertexShaderConstantF(regInstances, fx.scratch)
}

func (fx *crowdEffect) SupportsInstancing() bool { return true }
