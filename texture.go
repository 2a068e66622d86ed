package gdev

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// TextureDesc describes a texture to create.
type TextureDesc struct {
	Type   TextureType
	Width  int
	Height int
	// Depth is the depth of a 3D texture; ignored otherwise.
	Depth int
	// Levels is the number of mip levels. Zero creates a full chain.
	Levels int
	Format gputypes.TextureFormat
	Usage  Usage
}

type subresource struct {
	face  CubeFace
	level int
}

// hostImage is a host copy of one subresource.
type hostImage struct {
	data  []byte
	pitch int
}

// Texture is a 2D, 3D or cube texture. Dynamic textures are volatile;
// static textures live in driver-managed memory. A texture created as the
// color source of a [RenderTarget] is released and reloaded by its owner.
type Texture struct {
	device       *Device
	typ          TextureType
	width        int
	height       int
	depth        int
	levels       int
	format       gputypes.TextureFormat
	usage        Usage
	renderTarget bool
	tracked      bool

	native  NativeTexture
	surface NativeSurface
	shadow  map[subresource]hostImage

	locked      bool
	lockedFace  CubeFace
	lockedLevel int
}

func newTexture(d *Device, desc TextureDesc) (*Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: texture %dx%d", ErrInvalidDimensions, desc.Width, desc.Height)
	}
	if BytesPerPixel(desc.Format) == 0 {
		return nil, fmt.Errorf("%w: texture format %v", ErrNotSupported, desc.Format)
	}
	depth := 1
	if desc.Type == Texture3D {
		depth = max(desc.Depth, 1)
	}
	height := desc.Height
	if desc.Type == TextureCube {
		height = desc.Width
	}
	full := mipLevelCount(desc.Width, height, depth)
	levels := desc.Levels
	if levels <= 0 || levels > full {
		levels = full
	}
	t := &Texture{
		device: d,
		typ:    desc.Type,
		width:  desc.Width,
		height: height,
		depth:  depth,
		levels: levels,
		format: desc.Format,
		usage:  desc.Usage,
	}
	if err := t.createNative(); err != nil {
		return nil, err
	}
	if t.usage.IsDynamic() {
		d.Track(t)
		t.tracked = true
	}
	return t, nil
}

// newRenderTargetTexture creates the color texture of a render target.
func newRenderTargetTexture(d *Device, width, height int, format gputypes.TextureFormat) (*Texture, error) {
	t := &Texture{
		device:       d,
		typ:          Texture2D,
		width:        width,
		height:       height,
		depth:        1,
		levels:       1,
		format:       format,
		usage:        UsageDynamic | UsageWriteOnly,
		renderTarget: true,
	}
	if err := t.createNative(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Texture) createNative() error {
	if t.renderTarget {
		tex, surf, err := t.device.native.CreateRenderTargetTexture(t.width, t.height, t.format)
		if err != nil {
			return fmt.Errorf("%w: render target texture %dx%d %v: %w", ErrCreateFailed, t.width, t.height, t.format, err)
		}
		t.native = tex
		t.surface = surf
		return nil
	}
	tex, err := t.device.native.CreateTexture(NativeTextureDesc{
		Type:   t.typ,
		Width:  t.width,
		Height: t.height,
		Depth:  t.depth,
		Levels: t.levels,
		Format: t.format,
		Usage:  t.usage,
	})
	if err != nil {
		return fmt.Errorf("%w: %v texture %dx%d %v: %w", ErrCreateFailed, t.typ, t.width, t.height, t.format, err)
	}
	t.native = tex
	return nil
}

func (t *Texture) releaseNative() {
	if t.locked {
		t.native.Unlock(t.lockedFace, t.lockedLevel)
		t.locked = false
	}
	if t.surface != nil {
		t.surface.Release()
		t.surface = nil
	}
	t.native.Release()
	t.native = nil
}

func mipLevelCount(w, h, d int) int {
	n := 1
	for s := max(w, h, d); s > 1; s >>= 1 {
		n++
	}
	return n
}

func (t *Texture) Type() TextureType              { return t.typ }
func (t *Texture) Width() int                     { return t.width }
func (t *Texture) Height() int                    { return t.height }
func (t *Texture) Depth() int                     { return t.depth }
func (t *Texture) Levels() int                    { return t.levels }
func (t *Texture) Format() gputypes.TextureFormat { return t.format }
func (t *Texture) Usage() Usage                   { return t.usage }

// IsReleased reports whether the native storage is currently released.
func (t *Texture) IsReleased() bool { return t.native == nil }

// Native returns the native texture, or nil while released.
func (t *Texture) Native() NativeTexture { return t.native }

// nativeTexture returns the native handle as an interface value that is
// nil when released.
func (t *Texture) nativeTexture() NativeTexture {
	if t.native == nil {
		return nil
	}
	return t.native
}

// LevelSize returns the dimensions of mip level.
func (t *Texture) LevelSize(level int) (w, h, d int) {
	return max(t.width>>level, 1), max(t.height>>level, 1), max(t.depth>>level, 1)
}

func (t *Texture) faceCount() int {
	if t.typ == TextureCube {
		return 6
	}
	return 1
}

func (t *Texture) checkSubresource(face CubeFace, level int) error {
	if level < 0 || level >= t.levels {
		return fmt.Errorf("%w: level %d of %d", ErrInvalidLevel, level, t.levels)
	}
	if face < 0 || int(face) >= t.faceCount() {
		return fmt.Errorf("%w: face %d of %v texture", ErrInvalidLevel, face, t.typ)
	}
	return nil
}

// Lock maps mip level of a 2D or 3D texture and returns its bytes and row
// pitch.
func (t *Texture) Lock(level int, mode LockMode) ([]byte, int, error) {
	return t.LockFace(CubeFacePositiveX, level, mode)
}

// LockFace maps one face and mip level.
func (t *Texture) LockFace(face CubeFace, level int, mode LockMode) ([]byte, int, error) {
	if t.native == nil {
		return nil, 0, ErrResourceReleased
	}
	if t.locked {
		return nil, 0, ErrAlreadyLocked
	}
	if mode == LockReadOnly && t.usage.IsWriteOnly() {
		return nil, 0, ErrWriteOnly
	}
	if err := t.checkSubresource(face, level); err != nil {
		return nil, 0, err
	}
	data, pitch, err := t.native.Lock(face, level, mode)
	if err != nil {
		return nil, 0, err
	}
	t.locked = true
	t.lockedFace = face
	t.lockedLevel = level
	return data, pitch, nil
}

// Unlock unmaps the locked subresource. It panics if the texture is not
// locked.
func (t *Texture) Unlock() {
	if !t.locked {
		panic("gdev: unlock of a texture that is not locked")
	}
	t.locked = false
	if t.native != nil {
		t.native.Unlock(t.lockedFace, t.lockedLevel)
	}
}

// ReleaseVolatileResource reads back every subresource of a non
// write-only texture and releases the native storage. Host copies left by
// a partially restored reload are kept instead of being read back.
func (t *Texture) ReleaseVolatileResource() {
	if t.native == nil {
		return
	}
	if t.locked {
		t.native.Unlock(t.lockedFace, t.lockedLevel)
		t.locked = false
	}
	if !t.usage.IsWriteOnly() && t.shadow == nil {
		t.readBack()
	}
	t.releaseNative()
}

func (t *Texture) readBack() {
	t.shadow = make(map[subresource]hostImage, t.faceCount()*t.levels)
	for f := 0; f < t.faceCount(); f++ {
		for level := 0; level < t.levels; level++ {
			face := CubeFace(f)
			data, pitch, err := t.native.Lock(face, level, LockReadOnly)
			if err != nil {
				t.device.log.Warn("gdev: texture read-back failed", "face", f, "level", level, "err", err)
				continue
			}
			t.shadow[subresource{face, level}] = hostImage{data: append([]byte(nil), data...), pitch: pitch}
			t.native.Unlock(face, level)
		}
	}
}

// ReloadVolatileResource recreates the native storage and uploads the host
// copies taken at release.
func (t *Texture) ReloadVolatileResource() error {
	if t.native != nil {
		return nil
	}
	if err := t.createNative(); err != nil {
		return err
	}
	for sub, img := range t.shadow {
		data, pitch, err := t.native.Lock(sub.face, sub.level, LockDiscard)
		if err != nil {
			return fmt.Errorf("gdev: restore texture level %d: %w", sub.level, err)
		}
		t.copyRows(data, pitch, img.data, img.pitch, sub.level)
		t.native.Unlock(sub.face, sub.level)
	}
	t.shadow = nil
	return nil
}

// copyRows copies one subresource between buffers with different pitches.
func (t *Texture) copyRows(dst []byte, dstPitch int, src []byte, srcPitch, level int) {
	w, h, d := t.LevelSize(level)
	row := w * BytesPerPixel(t.format)
	for y := 0; y < h*d; y++ {
		so, do := y*srcPitch, y*dstPitch
		if so+row > len(src) || do+row > len(dst) {
			return
		}
		copy(dst[do:do+row], src[so:so+row])
	}
}

// Destroy releases the texture and removes it from the device registry.
func (t *Texture) Destroy() {
	if t.device == nil {
		return
	}
	if t.tracked {
		t.device.Untrack(t)
		t.tracked = false
	}
	if t.device.states != nil {
		t.device.states.ClearTexture(t)
	}
	if t.native != nil {
		t.releaseNative()
	}
	t.shadow = nil
	t.device = nil
}

// ============================================================================
// Image upload and download
// ============================================================================

func isRGBA8(format gputypes.TextureFormat) bool {
	return format == gputypes.TextureFormatRGBA8Unorm || format == gputypes.TextureFormatRGBA8UnormSrgb
}

func isBGRA8(format gputypes.TextureFormat) bool {
	return format == gputypes.TextureFormatBGRA8Unorm || format == gputypes.TextureFormatBGRA8UnormSrgb
}

// SetImage uploads img into mip level of a 2D texture, scaling it to the
// level size when the dimensions differ. Only 8-bit RGBA and BGRA formats
// are supported.
func (t *Texture) SetImage(level int, img image.Image) error {
	return t.SetFaceImage(CubeFacePositiveX, level, img)
}

// SetFaceImage uploads img into one face and mip level.
func (t *Texture) SetFaceImage(face CubeFace, level int, img image.Image) error {
	if !isRGBA8(t.format) && !isBGRA8(t.format) {
		return fmt.Errorf("%w: image upload to %v", ErrNotSupported, t.format)
	}
	if t.typ == Texture3D {
		return fmt.Errorf("%w: image upload to a 3D texture", ErrNotSupported)
	}
	w, h, _ := t.LevelSize(level)
	src := toRGBA(img, w, h)

	data, pitch, err := t.LockFace(face, level, LockDiscard)
	if err != nil {
		return err
	}
	defer t.Unlock()
	swap := isBGRA8(t.format)
	for y := 0; y < h; y++ {
		row := data[y*pitch : y*pitch+w*4]
		copy(row, src.Pix[y*src.Stride:y*src.Stride+w*4])
		if swap {
			swapRedBlue(row)
		}
	}
	return nil
}

// Image reads mip level of a 2D texture back into an RGBA image.
func (t *Texture) Image(level int) (*image.RGBA, error) {
	if !isRGBA8(t.format) && !isBGRA8(t.format) {
		return nil, fmt.Errorf("%w: image read-back from %v", ErrNotSupported, t.format)
	}
	data, pitch, err := t.Lock(level, LockReadOnly)
	if err != nil {
		return nil, err
	}
	defer t.Unlock()
	w, h, _ := t.LevelSize(level)
	return imageFromRows(data, pitch, w, h, isBGRA8(t.format)), nil
}

// toRGBA converts img to an RGBA image of exactly w by h pixels.
func toRGBA(img image.Image, w, h int) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && b.Dx() == w && b.Dy() == h {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return dst
}

func imageFromRows(data []byte, pitch, w, h int, bgra bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(row, data[y*pitch:y*pitch+w*4])
		if bgra {
			swapRedBlue(row)
		}
	}
	return img
}

func swapRedBlue(row []byte) {
	for i := 0; i+3 < len(row); i += 4 {
		row[i], row[i+2] = row[i+2], row[i]
	}
}
