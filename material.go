package gdev

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Material limits.
const (
	MaxPassSelectors    = 64
	MaxMaterialTextures = 16
)

// PassSelector picks the effect a material uses for one render pass, for
// example a shadow map pass or the main scene pass.
type PassSelector uint

// Material holds the effects and fixed-function state used to draw a set
// of operations.
type Material struct {
	// Name identifies the material in batch reports.
	Name string

	passFlags uint64
	effects   [MaxPassSelectors]Effect
	textures  [MaxMaterialTextures]*Texture

	IsBlendTransparent bool
	SourceBlend        gputypes.BlendFactor
	DestinationBlend   gputypes.BlendFactor
	BlendFunction      gputypes.BlendOperation

	Cull gputypes.CullMode

	AlphaTestEnabled bool
	AlphaReference   uint32

	DepthTestEnabled  bool
	DepthWriteEnabled bool

	UsePointSprite bool

	ColorWriteMasks [MaxColorWriteTargets]gputypes.ColorWriteMask
}

// NewMaterial returns an opaque, depth-tested material with back-face
// culling that takes part in no pass.
func NewMaterial(name string) *Material {
	m := &Material{
		Name:              name,
		SourceBlend:       gputypes.BlendFactorOne,
		DestinationBlend:  gputypes.BlendFactorZero,
		BlendFunction:     gputypes.BlendOperationAdd,
		Cull:              gputypes.CullModeBack,
		DepthTestEnabled:  true,
		DepthWriteEnabled: true,
	}
	for i := range m.ColorWriteMasks {
		m.ColorWriteMasks[i] = gputypes.ColorWriteMaskAll
	}
	return m
}

func checkPassSelector(sel PassSelector) {
	if sel >= MaxPassSelectors {
		panic(fmt.Sprintf("gdev: pass selector %d out of range [0,%d)", sel, MaxPassSelectors))
	}
}

// SetPassEffect makes the material take part in pass sel with fx. A nil fx
// keeps the material in the pass and draws it with the default effect.
func (m *Material) SetPassEffect(sel PassSelector, fx Effect) {
	checkPassSelector(sel)
	m.effects[sel] = fx
	m.passFlags |= 1 << sel
}

// ClearPass removes the material from pass sel.
func (m *Material) ClearPass(sel PassSelector) {
	checkPassSelector(sel)
	m.effects[sel] = nil
	m.passFlags &^= 1 << sel
}

// PassEffect returns the custom effect for sel, or nil.
func (m *Material) PassEffect(sel PassSelector) Effect {
	checkPassSelector(sel)
	return m.effects[sel]
}

// InPass reports whether the material takes part in pass sel.
func (m *Material) InPass(sel PassSelector) bool {
	checkPassSelector(sel)
	return m.passFlags&(1<<sel) != 0
}

// SetTexture sets the texture of slot i.
func (m *Material) SetTexture(i int, tex *Texture) { m.textures[i] = tex }

// Texture returns the texture of slot i.
func (m *Material) Texture(i int) *Texture { return m.textures[i] }
