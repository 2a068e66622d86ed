// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d9

import (
	"github.com/gogpu/gdev"
	"github.com/gonutz/d3d9"
)

// StateDevice implements [gdev.StateDevice] on a Direct3D 9 device.
type StateDevice struct {
	device *d3d9.Device
}

// NewStateDevice wraps device.
func NewStateDevice(device *d3d9.Device) *StateDevice {
	return &StateDevice{device: device}
}

// SetRenderState implements [gdev.StateDevice].
func (s *StateDevice) SetRenderState(state gdev.RenderState, value uint32) {
	if int(state) >= len(renderStates) {
		return
	}
	logFailure("SetRenderState", s.device.SetRenderState(renderStates[state], renderStateValue(state, value)), "state", state)
}

// SetSamplerState implements [gdev.StateDevice]. Vertex samplers use the
// native vertex sampler indices starting at [gdev.VertexSamplerBase].
func (s *StateDevice) SetSamplerState(sampler int, state gdev.SamplerStateType, value uint32) {
	if int(state) >= len(samplerStates) {
		return
	}
	//nolint:gosec // G115: sampler indices are small and non-negative
	err := s.device.SetSamplerState(uint32(sampler), samplerStates[state], samplerStateValue(state, value))
	logFailure("SetSamplerState", err, "sampler", sampler, "state", state)
}

// SetTexture implements [gdev.StateDevice]. Only textures created by this
// package can be bound; anything else unbinds the slot.
func (s *StateDevice) SetTexture(sampler int, tex gdev.NativeTexture) {
	//nolint:gosec // G115: sampler indices are small and non-negative
	slot := uint32(sampler)
	if t, ok := tex.(*Texture); ok && t.tex != nil {
		logFailure("SetTexture", s.device.SetTexture(slot, t.tex), "sampler", sampler)
		return
	}
	logFailure("SetTexture", s.device.SetTexture(slot, nil), "sampler", sampler)
}

// logFailure reports a failed native call on a path that cannot return
// the error.
func logFailure(op string, err error, args ...any) {
	if err == nil {
		return
	}
	gdev.Logger().Warn("d3d9: "+op+" failed", append(args, "err", err)...)
}

var _ gdev.StateDevice = (*StateDevice)(nil)
