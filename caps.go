package gdev

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gogpu/gdev/internal/cache"
	"github.com/gogpu/gputypes"
)

// maxMultisampleCount is the highest sample count probed when building a
// profile table.
const maxMultisampleCount = 16

// AAProfile is one antialiasing mode usable for a color/depth format pair.
type AAProfile struct {
	Name          string
	Sorter        int
	SampleCount   int
	SampleQuality int
}

// aaKey identifies one profile table.
type aaKey struct {
	adapter int
	color   gputypes.TextureFormat
	depth   gputypes.TextureFormat
}

// Capabilities answers format and multisample support queries. Profile
// tables are built on first use and cached per (adapter, color format,
// depth format).
type Capabilities struct {
	manager  DeviceManager
	presets  []AAPreset
	config   Config
	profiles *cache.Cache[aaKey, []AAProfile]
}

func newCapabilities(m DeviceManager, presets []AAPreset, cfg Config) *Capabilities {
	return &Capabilities{
		manager:  m,
		presets:  presets,
		config:   cfg,
		profiles: cache.New[aaKey, []AAProfile](64),
	}
}

// IsMultisampleModeNone reports whether mode names the "no antialiasing"
// profile.
func IsMultisampleModeNone(mode string) bool {
	return mode == "" || strings.EqualFold(mode, "none")
}

// MRTCount returns the number of simultaneous render targets, capped by
// the configuration.
func (c *Capabilities) MRTCount() int {
	n := max(c.manager.Caps().MaxSimultaneousRTs, 1)
	if c.config.MaxRenderTargets > 0 {
		n = min(n, c.config.MaxRenderTargets)
	}
	return min(n, MaxColorWriteTargets)
}

// TextureSlotCount returns the number of pixel sampler slots, capped by the
// configuration.
func (c *Capabilities) TextureSlotCount() int {
	n := c.manager.Caps().MaxTextureSlots
	if n <= 0 {
		n = DefaultTextureSlots
	}
	if c.config.MaxTextureSlots > 0 {
		n = min(n, c.config.MaxTextureSlots)
	}
	return n
}

// SupportsInstancing reports whether the device has the second vertex
// stream instancing needs.
func (c *Capabilities) SupportsInstancing() bool {
	return c.manager.Caps().MaxStreams >= 2
}

// SupportsRenderTarget reports whether a render target of color format
// with depth format and multisample mode can be created. depth may be
// TextureFormatUndefined.
func (c *Capabilities) SupportsRenderTarget(mode string, color, depth gputypes.TextureFormat) bool {
	if color != gputypes.TextureFormatUndefined && !c.manager.CheckFormat(FormatUsageRenderTarget, color) {
		return false
	}
	if depth != gputypes.TextureFormatUndefined && !c.manager.CheckFormat(FormatUsageDepthStencil, depth) {
		return false
	}
	if IsMultisampleModeNone(mode) {
		return true
	}
	_, ok := c.LookupAAProfile(mode, color, depth)
	return ok
}

// EnumerateRenderTargetMultisampleModes lists the profile names available
// for the format pair, ordered by Sorter.
func (c *Capabilities) EnumerateRenderTargetMultisampleModes(color, depth gputypes.TextureFormat) []string {
	table := c.profileTable(color, depth)
	names := make([]string, len(table))
	for i, p := range table {
		names[i] = p.Name
	}
	return names
}

// FindClosestMultisampleMode returns the profile whose sample count is
// nearest to samples, preferring the lower Sorter on ties. It returns ""
// when samples is at most 1 or no profile exists.
func (c *Capabilities) FindClosestMultisampleMode(color, depth gputypes.TextureFormat, samples int) string {
	if samples <= 1 {
		return ""
	}
	best, bestDist := "", math.MaxInt
	for _, p := range c.profileTable(color, depth) {
		dist := p.SampleCount - samples
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best, bestDist = p.Name, dist
		}
	}
	return best
}

// LookupAAProfile finds the profile named mode for the format pair. Names
// compare case-insensitively.
func (c *Capabilities) LookupAAProfile(mode string, color, depth gputypes.TextureFormat) (AAProfile, bool) {
	if IsMultisampleModeNone(mode) {
		return AAProfile{}, false
	}
	for _, p := range c.profileTable(color, depth) {
		if strings.EqualFold(p.Name, mode) {
			return p, true
		}
	}
	return AAProfile{}, false
}

// ResolveMultisample turns a profile name into the native sample count and
// quality for the format pair. The quality is clamped to the highest level
// the device reports. An unknown or unsupported mode is a configuration
// error.
func (c *Capabilities) ResolveMultisample(mode string, color, depth gputypes.TextureFormat) (samples, quality int, err error) {
	if IsMultisampleModeNone(mode) {
		return 0, 0, nil
	}
	p, ok := c.LookupAAProfile(mode, color, depth)
	if !ok {
		return 0, 0, fmt.Errorf("%w: multisample mode %q with color %v and depth %v",
			ErrNotSupported, mode, color, depth)
	}
	levels, ok := c.sampleQualityLevels(color, depth, p.SampleCount)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d samples with color %v and depth %v",
			ErrNotSupported, p.SampleCount, color, depth)
	}
	return p.SampleCount, min(p.SampleQuality, levels-1), nil
}

// ProfileCacheStats returns the statistics of the profile table cache.
func (c *Capabilities) ProfileCacheStats() cache.Stats { return c.profiles.Stats() }

func (c *Capabilities) profileTable(color, depth gputypes.TextureFormat) []AAProfile {
	key := aaKey{adapter: c.manager.AdapterIdentity().Ordinal, color: color, depth: depth}
	return c.profiles.GetOrCreate(key, func() []AAProfile {
		return c.buildProfiles(color, depth)
	})
}

// buildProfiles probes every sample count for generic profiles and adds
// the vendor presets the formats support.
func (c *Capabilities) buildProfiles(color, depth gputypes.TextureFormat) []AAProfile {
	var table []AAProfile
	for samples := 2; samples <= maxMultisampleCount; samples++ {
		if _, ok := c.sampleQualityLevels(color, depth, samples); !ok {
			continue
		}
		table = append(table, AAProfile{
			Name:        fmt.Sprintf("%dx MSAA", samples),
			Sorter:      samples * 100,
			SampleCount: samples,
		})
	}

	vendor := c.manager.AdapterIdentity().VendorID
	for _, p := range c.presets {
		if p.VendorID != vendor {
			continue
		}
		levels, ok := c.sampleQualityLevels(color, depth, p.Samples)
		if !ok || p.Quality >= levels {
			continue
		}
		table = append(table, AAProfile{
			Name:          p.Name,
			Sorter:        p.Priority,
			SampleCount:   p.Samples,
			SampleQuality: p.Quality,
		})
	}

	sort.SliceStable(table, func(i, j int) bool { return table[i].Sorter < table[j].Sorter })
	return table
}

// sampleQualityLevels returns the number of quality levels available for
// samples on both formats. Undefined formats are skipped.
func (c *Capabilities) sampleQualityLevels(color, depth gputypes.TextureFormat, samples int) (int, bool) {
	levels := math.MaxInt
	for _, f := range [2]gputypes.TextureFormat{color, depth} {
		if f == gputypes.TextureFormatUndefined {
			continue
		}
		ok, q := c.manager.CheckMultisample(f, samples)
		if !ok || q <= 0 {
			return 0, false
		}
		levels = min(levels, q)
	}
	if levels == math.MaxInt {
		return 0, false
	}
	return levels, true
}

// formatFallbacks lists replacement formats in order of preference.
var formatFallbacks = map[gputypes.TextureFormat][]gputypes.TextureFormat{
	gputypes.TextureFormatBGRA8Unorm:     {gputypes.TextureFormatRGBA8Unorm},
	gputypes.TextureFormatRGBA8Unorm:     {gputypes.TextureFormatBGRA8Unorm},
	gputypes.TextureFormatBGRA8UnormSrgb: {gputypes.TextureFormatRGBA8UnormSrgb, gputypes.TextureFormatBGRA8Unorm},
	gputypes.TextureFormatRGBA8UnormSrgb: {gputypes.TextureFormatBGRA8UnormSrgb, gputypes.TextureFormatRGBA8Unorm},
	gputypes.TextureFormatR8Unorm:        {gputypes.TextureFormatRG8Unorm, gputypes.TextureFormatBGRA8Unorm},
	gputypes.TextureFormatRG8Unorm:       {gputypes.TextureFormatBGRA8Unorm},
	gputypes.TextureFormatR16Float:       {gputypes.TextureFormatR32Float, gputypes.TextureFormatRGBA16Float},
	gputypes.TextureFormatR32Float:       {gputypes.TextureFormatR16Float, gputypes.TextureFormatRGBA32Float},
	gputypes.TextureFormatRG16Float:      {gputypes.TextureFormatRG32Float, gputypes.TextureFormatRGBA16Float},
	gputypes.TextureFormatRG32Float:      {gputypes.TextureFormatRGBA32Float},
	gputypes.TextureFormatRGBA16Float:    {gputypes.TextureFormatRGBA32Float},
	gputypes.TextureFormatDepth24PlusStencil8: {
		gputypes.TextureFormatDepth24Plus, gputypes.TextureFormatDepth32Float,
	},
	gputypes.TextureFormatDepth24Plus:  {gputypes.TextureFormatDepth24PlusStencil8, gputypes.TextureFormatDepth32Float},
	gputypes.TextureFormatDepth32Float: {gputypes.TextureFormatDepth24Plus},
	gputypes.TextureFormatDepth16Unorm: {gputypes.TextureFormatDepth24Plus},
}

// FindCompatibleTextureFormat returns format if the device supports it for
// usage, otherwise the first supported fallback, otherwise
// TextureFormatUndefined.
func (c *Capabilities) FindCompatibleTextureFormat(usage FormatUsage, format gputypes.TextureFormat) gputypes.TextureFormat {
	if c.manager.CheckFormat(usage, format) {
		return format
	}
	for _, f := range formatFallbacks[format] {
		if c.manager.CheckFormat(usage, f) {
			return f
		}
	}
	return gputypes.TextureFormatUndefined
}

// FindCompatibleTextureDimension adjusts a texture size to the device
// limits: power-of-two rounding, square textures and maximum extents.
func (c *Capabilities) FindCompatibleTextureDimension(width, height int) (int, int) {
	caps := c.manager.Caps()
	if caps.PowerOfTwoOnly {
		width, height = nearestPowerOfTwo(width), nearestPowerOfTwo(height)
	}
	if caps.SquareOnly {
		width = max(width, height)
		height = width
	}
	if caps.MaxTextureWidth > 0 && width > caps.MaxTextureWidth {
		width = caps.MaxTextureWidth
	}
	if caps.MaxTextureHeight > 0 && height > caps.MaxTextureHeight {
		height = caps.MaxTextureHeight
	}
	if caps.SquareOnly {
		width = min(width, height)
		height = width
	}
	return max(width, 1), max(height, 1)
}

// nearestPowerOfTwo rounds v to the closer of the surrounding powers of
// two, rounding up on ties.
func nearestPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	lo := 1
	for lo*2 <= v {
		lo *= 2
	}
	if lo == v {
		return v
	}
	hi := lo * 2
	if v-lo < hi-v {
		return lo
	}
	return hi
}
