// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import (
	"errors"
	"fmt"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gputypes"
)

// Errors returned by null resources.
var (
	ErrReleased   = errors.New("null: object released")
	ErrLocked     = errors.New("null: object already locked")
	ErrRange      = errors.New("null: range out of bounds")
	ErrLockFailed = errors.New("null: lock failed")
)

// Pool is the memory an object lives in.
type Pool int

// Pools.
const (
	// PoolDefault objects live in device memory and must be released
	// before the device can be reset.
	PoolDefault Pool = iota
	// PoolManaged objects are restored by the driver.
	PoolManaged
	// PoolSystem objects live in host memory.
	PoolSystem
)

func poolFor(usage gdev.Usage) Pool {
	if usage.IsDynamic() {
		return PoolDefault
	}
	return PoolManaged
}

// object is the identity shared by all null resources.
type object struct {
	dev      *Device
	id       uint64
	pool     Pool
	kind     string
	released bool
}

func (d *Device) newObject(kind string, pool Pool) object {
	d.nextID++
	o := object{dev: d, id: d.nextID, pool: pool, kind: kind}
	if pool == PoolDefault {
		d.live[o.id] = kind
	}
	return o
}

// ID returns the unique object id. Recreated objects get new ids.
func (o *object) ID() uint64 { return o.id }

// Pool returns the memory pool of the object.
func (o *object) Pool() Pool { return o.pool }

// Released reports whether Release was called.
func (o *object) Released() bool { return o.released }

func (o *object) release() {
	if o.released {
		panic(fmt.Sprintf("null: %s %d released twice", o.kind, o.id))
	}
	o.released = true
	delete(o.dev.live, o.id)
}

// Buffer is a vertex or index buffer.
type Buffer struct {
	object
	Data   []byte
	Usage  gdev.Usage
	Index  bool
	Format gputypes.IndexFormat
	locked bool
}

// Lock returns a window into the buffer bytes.
func (b *Buffer) Lock(offset, size int, _ gdev.LockMode) ([]byte, error) {
	if b.released {
		return nil, ErrReleased
	}
	if b.locked {
		return nil, ErrLocked
	}
	if err := b.dev.lockFault(); err != nil {
		return nil, err
	}
	if offset < 0 || size < 0 || offset+size > len(b.Data) {
		return nil, ErrRange
	}
	b.locked = true
	return b.Data[offset : offset+size], nil
}

// Unlock ends a Lock.
func (b *Buffer) Unlock() { b.locked = false }

// Release frees the buffer.
func (b *Buffer) Release() { b.release() }

// Surface is a 2D image. Swap chain surfaces and texture levels are
// reference counted views; other surfaces are standalone objects.
type Surface struct {
	object
	width   int
	height  int
	format  gputypes.TextureFormat
	Samples int
	Quality int
	Data    []byte
	pitch   int
	// refs counts outstanding references of a view surface.
	refs   int
	view   bool
	locked bool
}

func newSurfaceData(width, height int, format gputypes.TextureFormat) ([]byte, int) {
	pitch := width * max(gdev.BytesPerPixel(format), 1)
	return make([]byte, pitch*height), pitch
}

func (s *Surface) Width() int                     { return s.width }
func (s *Surface) Height() int                    { return s.height }
func (s *Surface) Format() gputypes.TextureFormat { return s.format }
func (s *Surface) Pitch() int                     { return s.pitch }

// Lock maps the surface pixels.
func (s *Surface) Lock(gdev.LockMode) ([]byte, int, error) {
	if s.released {
		return nil, 0, ErrReleased
	}
	if s.locked {
		return nil, 0, ErrLocked
	}
	s.locked = true
	return s.Data, s.pitch, nil
}

// Unlock ends a Lock.
func (s *Surface) Unlock() { s.locked = false }

// Release drops a reference to a view surface or frees a standalone one.
func (s *Surface) Release() {
	if s.view {
		if s.refs <= 0 {
			panic(fmt.Sprintf("null: %s %d reference released twice", s.kind, s.id))
		}
		s.refs--
		return
	}
	s.release()
}

// Refs returns the outstanding references of a view surface.
func (s *Surface) Refs() int { return s.refs }

// Texture is a 2D, 3D or cube texture.
type Texture struct {
	object
	Desc gdev.NativeTextureDesc
	// levels[face][level]
	levels [][]*Surface
	locked bool
}

func (d *Device) newTexture(desc gdev.NativeTextureDesc, pool Pool) *Texture {
	t := &Texture{object: d.newObject("texture", pool), Desc: desc}
	faces := 1
	if desc.Type == gdev.TextureCube {
		faces = 6
	}
	t.levels = make([][]*Surface, faces)
	for f := range t.levels {
		t.levels[f] = make([]*Surface, max(desc.Levels, 1))
		for l := range t.levels[f] {
			w, h := max(desc.Width>>l, 1), max(desc.Height>>l, 1)
			depth := max(max(desc.Depth, 1)>>l, 1)
			data, pitch := newSurfaceData(w, h*depth, desc.Format)
			t.levels[f][l] = &Surface{
				object: object{dev: d, id: t.id, pool: pool, kind: "texture level"},
				width:  w,
				height: h,
				format: desc.Format,
				Data:   data,
				pitch:  pitch,
				view:   true,
			}
		}
	}
	return t
}

// Level returns the surface of one face and mip level.
func (t *Texture) Level(face gdev.CubeFace, level int) *Surface {
	return t.levels[face][level]
}

// Lock maps one face and mip level.
func (t *Texture) Lock(face gdev.CubeFace, level int, _ gdev.LockMode) ([]byte, int, error) {
	if t.released {
		return nil, 0, ErrReleased
	}
	if t.locked {
		return nil, 0, ErrLocked
	}
	if err := t.dev.lockFault(); err != nil {
		return nil, 0, err
	}
	if int(face) >= len(t.levels) || level >= len(t.levels[face]) {
		return nil, 0, ErrRange
	}
	t.locked = true
	s := t.levels[face][level]
	return s.Data, s.pitch, nil
}

// Unlock ends a Lock.
func (t *Texture) Unlock(gdev.CubeFace, int) { t.locked = false }

// Release frees the texture.
func (t *Texture) Release() { t.release() }

// Declaration is a vertex declaration.
type Declaration struct {
	object
	Elements []gdev.VertexElement
}

// Release frees the declaration.
func (d *Declaration) Release() { d.release() }

// Shader is a vertex or pixel shader.
type Shader struct {
	object
	Code []byte
}

// Release frees the shader.
func (s *Shader) Release() { s.release() }
