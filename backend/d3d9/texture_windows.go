// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d9

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gogpu/gdev"
	"github.com/gonutz/d3d9"
)

// ErrCubeFace is returned when a 2D texture is locked with a cube face
// other than the first.
var ErrCubeFace = errors.New("d3d9: texture has no cube faces")

// Texture wraps a Direct3D 9 2D texture as a [gdev.NativeTexture].
type Texture struct {
	tex *d3d9.Texture
}

// NewTexture wraps tex. The wrapper owns the reference.
func NewTexture(tex *d3d9.Texture) *Texture {
	return &Texture{tex: tex}
}

// Lock maps one mip level and returns its bytes and row pitch.
func (t *Texture) Lock(face gdev.CubeFace, level int, mode gdev.LockMode) ([]byte, int, error) {
	if face != 0 {
		return nil, 0, ErrCubeFace
	}
	//nolint:gosec // G115: mip levels are small and non-negative
	lvl := uint(level)
	desc, err := t.tex.GetLevelDesc(lvl)
	if err != nil {
		return nil, 0, fmt.Errorf("d3d9: level %d desc: %w", level, err)
	}
	rect, err := t.tex.LockRect(lvl, nil, lockFlags(mode))
	if err != nil {
		return nil, 0, fmt.Errorf("d3d9: lock level %d: %w", level, err)
	}
	pitch := int(rect.Pitch)
	return lockedBytes(&rect.PBits, pitch*int(desc.Height)), pitch, nil
}

// lockedBytes returns the n bytes of driver memory at *bits. The address is
// read through its storage so it never passes through a uintptr to
// unsafe.Pointer conversion. The memory stays valid until the unlock.
func lockedBytes(bits *uintptr, n int) []byte {
	p := *(*unsafe.Pointer)(unsafe.Pointer(bits))
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// Unlock ends a Lock.
func (t *Texture) Unlock(_ gdev.CubeFace, level int) {
	//nolint:gosec // G115: mip levels are small and non-negative
	logFailure("UnlockRect", t.tex.UnlockRect(uint(level)), "level", level)
}

// Release drops the texture reference.
func (t *Texture) Release() {
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

var _ gdev.NativeTexture = (*Texture)(nil)
