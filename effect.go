package gdev

import _ "embed"

// Effect is the shading program a material uses for one pass selector.
//
// The dispatcher calls Begin once per draw call, then BeginPass and EndPass
// around the submission of every pass. Setup runs before each draw with the
// operations that draw covers: one operation for ordinary submission, one
// sub-batch for instanced submission.
type Effect interface {
	Begin() int
	BeginPass(pass int)
	EndPass()
	End()
	Setup(m *Material, ops []RenderOperation)
	SupportsInstancing() bool
}

//go:embed shaders/default_vs.wgsl
var defaultVertexSource string

//go:embed shaders/default_ps.wgsl
var defaultPixelSource string

// DefaultEffect applies the object's world transform and the material's
// primary texture. It is used when a material has no effect of its own for
// the requested pass.
type DefaultEffect struct {
	device *Device
	vs     *Shader
	ps     *Shader
}

func newDefaultEffect(d *Device) (*DefaultEffect, error) {
	fx := &DefaultEffect{device: d}
	vs, err := d.factory.CreateShaderFromWGSL(ShaderStageVertex, defaultVertexSource)
	if err != nil {
		d.log.Warn("gdev: default vertex shader unavailable", "err", err)
		return fx, nil
	}
	ps, err := d.factory.CreateShaderFromWGSL(ShaderStagePixel, defaultPixelSource)
	if err != nil {
		vs.Destroy()
		d.log.Warn("gdev: default pixel shader unavailable", "err", err)
		return fx, nil
	}
	fx.vs, fx.ps = vs, ps
	return fx, nil
}

// VertexShader returns the compiled default vertex shader, or nil if the
// shader could not be built.
func (fx *DefaultEffect) VertexShader() *Shader { return fx.vs }

// PixelShader returns the compiled default pixel shader.
func (fx *DefaultEffect) PixelShader() *Shader { return fx.ps }

// Begin binds the default shaders. The default effect has one pass.
func (fx *DefaultEffect) Begin() int {
	if fx.vs != nil {
		fx.device.BindVertexShader(fx.vs)
		fx.device.BindPixelShader(fx.ps)
	}
	return 1
}

func (fx *DefaultEffect) BeginPass(int) {}
func (fx *DefaultEffect) EndPass()      {}
func (fx *DefaultEffect) End()          {}

// Setup uploads the transform of the first operation to register 0 and
// binds the material's primary texture to slot 0.
func (fx *DefaultEffect) Setup(m *Material, ops []RenderOperation) {
	if len(ops) == 0 {
		return
	}
	fx.device.native.SetVertexShaderConstantF(0, ops[0].Transform[:])
	fx.device.states.SetTexture(0, m.Texture(0))
}

// SupportsInstancing reports false: the default effect draws one object per
// call.
func (fx *DefaultEffect) SupportsInstancing() bool { return false }

// Destroy releases the default shaders.
func (fx *DefaultEffect) Destroy() {
	if fx.vs != nil {
		fx.vs.Destroy()
		fx.vs = nil
	}
	if fx.ps != nil {
		fx.ps.Destroy()
		fx.ps = nil
	}
}
