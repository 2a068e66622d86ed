package main

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gputypes"
)

const particleCount = 256

// Pass selectors used by the demo.
const (
	passOffscreen gdev.PassSelector = iota
	passMain
)

// scene holds the demo resources. The particle buffer is dynamic and is
// rebuilt by the device after every reset; the offscreen target follows
// the back buffer size.
type scene struct {
	dev *gdev.Device

	decl      *gdev.VertexDeclaration
	quad      *gdev.GeometryData
	particles *gdev.GeometryData
	checker   *gdev.Texture
	offscreen *gdev.RenderTarget

	backdrop *gdev.Material
	sprites  *gdev.Material
	crowd    *gdev.Material

	crowdOps    []gdev.RenderOperation
	backdropOps []gdev.RenderOperation
	spriteOps   []gdev.RenderOperation
}

func newScene(dev *gdev.Device, instances int) (*scene, error) {
	f := dev.Factory()
	sc := &scene{dev: dev}

	decl, err := f.CreateVertexDeclaration([]gdev.VertexElement{
		{Format: gputypes.VertexFormatFloat32x3, Usage: gdev.VertexUsagePosition},
		{Offset: 12, Format: gputypes.VertexFormatFloat32x2, Usage: gdev.VertexUsageTexCoord},
	})
	if err != nil {
		return nil, err
	}
	sc.decl = decl

	if sc.quad, err = newQuad(f, decl); err != nil {
		return nil, err
	}

	vb, err := f.CreateVertexBuffer(particleCount, decl.VertexSize(0), gdev.UsageDynamic)
	if err != nil {
		sc.destroy()
		return nil, err
	}
	sc.particles = &gdev.GeometryData{
		VertexBuffer:   vb,
		Declaration:    decl,
		Topology:       gputypes.PrimitiveTopologyPointList,
		PrimitiveCount: particleCount,
		VertexCount:    particleCount,
	}

	if sc.checker, err = f.CreateTextureFromImage(checkerImage(64, 8), gputypes.TextureFormatBGRA8Unorm, 0, gdev.UsageStatic); err != nil {
		sc.destroy()
		return nil, err
	}

	caps := dev.Capabilities()
	mode := caps.FindClosestMultisampleMode(gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined, 4)
	if sc.offscreen, err = f.CreateRenderTargetScaled(0.5, 0.5, gputypes.TextureFormatBGRA8Unorm, mode); err != nil {
		sc.destroy()
		return nil, fmt.Errorf("offscreen target (%q): %w", mode, err)
	}

	sc.backdrop = gdev.NewMaterial("backdrop")
	sc.backdrop.SetPassEffect(passMain, nil)

	sc.sprites = gdev.NewMaterial("sprites")
	sc.sprites.UsePointSprite = true
	sc.sprites.IsBlendTransparent = true
	sc.sprites.SourceBlend = gputypes.BlendFactorSrcAlpha
	sc.sprites.DestinationBlend = gputypes.BlendFactorOne
	sc.sprites.DepthWriteEnabled = false
	sc.sprites.SetTexture(0, sc.checker)
	sc.sprites.SetPassEffect(passOffscreen, &spriteEffect{dev: dev})

	sc.crowd = gdev.NewMaterial("crowd")
	sc.crowd.Cull = gputypes.CullModeNone
	sc.crowd.SetPassEffect(passMain, &crowdEffect{dev: dev})

	sc.backdropOps = []gdev.RenderOperation{{Geometry: sc.quad, Transform: gdev.IdentityTransform}}
	sc.spriteOps = []gdev.RenderOperation{{Geometry: sc.particles, Transform: gdev.IdentityTransform}}
	sc.crowdOps = make([]gdev.RenderOperation, instances)
	for i := range sc.crowdOps {
		sc.crowdOps[i] = gdev.RenderOperation{Geometry: sc.quad, Transform: gdev.IdentityTransform}
	}
	return sc, nil
}

func newQuad(f *gdev.Factory, decl *gdev.VertexDeclaration) (*gdev.GeometryData, error) {
	vertices := []float32{
		-1, -1, 0, 0, 1,
		1, -1, 0, 1, 1,
		1, 1, 0, 1, 0,
		-1, 1, 0, 0, 0,
	}
	vb, err := f.CreateVertexBuffer(4, decl.VertexSize(0), gdev.UsageStatic|gdev.UsageWriteOnly)
	if err != nil {
		return nil, err
	}
	data, err := vb.Lock(0, 0, gdev.LockNone)
	if err != nil {
		vb.Destroy()
		return nil, err
	}
	putFloats(data, vertices)
	vb.Unlock()

	ib, err := f.CreateIndexBuffer(gputypes.IndexFormatUint16, 6, gdev.UsageStatic|gdev.UsageWriteOnly)
	if err != nil {
		vb.Destroy()
		return nil, err
	}
	idx, err := ib.Lock(0, 0, gdev.LockNone)
	if err != nil {
		vb.Destroy()
		ib.Destroy()
		return nil, err
	}
	for i, v := range []uint16{0, 1, 2, 0, 2, 3} {
		binary.LittleEndian.PutUint16(idx[i*2:], v)
	}
	ib.Unlock()

	return &gdev.GeometryData{
		VertexBuffer:   vb,
		IndexBuffer:    ib,
		Declaration:    decl,
		Topology:       gputypes.PrimitiveTopologyTriangleList,
		PrimitiveCount: 2,
		VertexCount:    4,
	}, nil
}

// update animates the particles and the crowd transforms.
func (sc *scene) update(frame int) error {
	data, err := sc.particles.VertexBuffer.Lock(0, 0, gdev.LockDiscard)
	if err != nil {
		return err
	}
	t := float64(frame) / 60
	v := make([]float32, 5)
	stride := sc.decl.VertexSize(0)
	for i := 0; i < particleCount; i++ {
		a := t + float64(i)*2*math.Pi/particleCount
		r := 0.25 + 0.5*float64(i)/particleCount
		v[0], v[1] = float32(r*math.Cos(a)), float32(r*math.Sin(a))
		v[3], v[4] = float32(i%16)/16, float32(i/16)/16
		putFloats(data[i*stride:], v)
	}
	sc.particles.VertexBuffer.Unlock()

	for i := range sc.crowdOps {
		a := t + float64(i)
		tr := &sc.crowdOps[i].Transform
		tr[0], tr[5] = 0.05, 0.05
		tr[12] = float32(math.Cos(a) * 0.9)
		tr[13] = float32(math.Sin(a*1.3) * 0.9)
	}
	return nil
}

// draw renders the particles into the offscreen target, then the backdrop
// sampling it and the instanced crowd into the back buffer.
func (sc *scene) draw() {
	dev := sc.dev
	dev.SetRenderTarget(0, sc.offscreen)
	dev.Clear(gdev.ClearTarget, 0xFF000000, 1, 0)
	dev.Render(sc.sprites, sc.spriteOps, passOffscreen)

	dev.SetRenderTarget(0, nil)
	dev.Clear(gdev.ClearAll, 0xFF203040, 1, 0)
	sc.backdrop.SetTexture(0, sc.offscreen.ColorTexture())
	dev.Render(sc.backdrop, sc.backdropOps, passMain)
	dev.Render(sc.crowd, sc.crowdOps, passMain)
}

func (sc *scene) destroy() {
	if sc.offscreen != nil {
		sc.offscreen.Destroy()
	}
	if sc.checker != nil {
		sc.checker.Destroy()
	}
	for _, g := range []*gdev.GeometryData{sc.quad, sc.particles} {
		if g == nil {
			continue
		}
		g.VertexBuffer.Destroy()
		if g.IndexBuffer != nil {
			g.IndexBuffer.Destroy()
		}
	}
}

func putFloats(dst []byte, v []float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}

func checkerImage(size, cell int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
			if (x/cell+y/cell)%2 == 0 {
				c = color.RGBA{R: 0xF0, G: 0xC0, B: 0x40, A: 0xFF}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
