// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d9

import (
	"math"
	"testing"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gputypes"
	"github.com/gonutz/d3d9"
)

func TestRenderStateValue(t *testing.T) {
	tests := []struct {
		state gdev.RenderState
		value uint32
		want  uint32
	}{
		{gdev.RSCullMode, uint32(gputypes.CullModeNone), uint32(d3d9.CULL_NONE)},
		{gdev.RSCullMode, uint32(gputypes.CullModeBack), uint32(d3d9.CULL_CCW)},
		{gdev.RSSrcBlend, uint32(gputypes.BlendFactorSrcAlpha), uint32(d3d9.BLEND_SRCALPHA)},
		{gdev.RSDestBlend, uint32(gputypes.BlendFactorOneMinusSrcAlpha), uint32(d3d9.BLEND_INVSRCALPHA)},
		{gdev.RSAlphaFunc, uint32(gputypes.CompareFunctionGreaterEqual), uint32(d3d9.CMP_GREATEREQUAL)},
		{gdev.RSDepthFunc, uint32(gputypes.CompareFunctionAlways), uint32(d3d9.CMP_ALWAYS)},
		{gdev.RSAlphaRef, 128, 128},
		{gdev.RSPointSize, math.Float32bits(4), math.Float32bits(4)},
		{gdev.RSFillMode, uint32(gdev.FillWireframe), uint32(d3d9.FILL_WIREFRAME)},
	}
	for _, tt := range tests {
		if got := renderStateValue(tt.state, tt.value); got != tt.want {
			t.Errorf("renderStateValue(%v, %d) = %d, want %d", tt.state, tt.value, got, tt.want)
		}
	}
}

func TestRenderStateTableComplete(t *testing.T) {
	if len(renderStates) != int(gdev.RSColorWriteEnable3)+1 {
		t.Errorf("renderStates has %d entries, want %d", len(renderStates), int(gdev.RSColorWriteEnable3)+1)
	}
}

func TestSamplerStateValue(t *testing.T) {
	if got := samplerStateValue(gdev.SampMagFilter, uint32(gdev.FilterLinear)); got != uint32(d3d9.TEXF_LINEAR) {
		t.Errorf("mag filter = %d, want TEXF_LINEAR", got)
	}
	if got := samplerStateValue(gdev.SampAddressU, uint32(gputypes.AddressModeClampToEdge)); got != uint32(d3d9.TADDRESS_CLAMP) {
		t.Errorf("address U = %d, want TADDRESS_CLAMP", got)
	}
}
