package gdev

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// PresentSettings describes the active presentation parameters.
type PresentSettings struct {
	BackBufferWidth  int
	BackBufferHeight int
	// DepthFormat is the format of the automatic depth buffer, or
	// TextureFormatUndefined when there is none.
	DepthFormat gputypes.TextureFormat
	// MultisampleMode is the name of the back buffer AA profile.
	MultisampleMode string
	Windowed        bool
	VSync           bool
}

// DeviceCaps holds the raw capability values reported by the driver.
type DeviceCaps struct {
	MaxSimultaneousRTs int
	MaxTextureSlots    int
	MaxVertexSamplers  int
	MaxTextureWidth    int
	MaxTextureHeight   int
	MaxVolumeExtent    int
	PowerOfTwoOnly     bool
	SquareOnly         bool
	MaxPointSize       float32
	// MaxStreams is the number of vertex streams; instancing needs two.
	MaxStreams int
}

// AdapterInfo identifies the adapter the native device runs on.
type AdapterInfo struct {
	VendorID    uint32
	DeviceID    uint32
	Ordinal     int
	Description string
}

// FormatUsage is the role a format is checked for.
type FormatUsage int

// Format usages.
const (
	FormatUsageTexture FormatUsage = iota
	FormatUsageRenderTarget
	FormatUsageDepthStencil
)

// DeviceManager owns the native device and its presentation. It is the
// source of capability data and drives [Device.OnDeviceLost] and
// [Device.OnDeviceReset]; cooperative-level polling and native reset
// retries are its responsibility.
type DeviceManager interface {
	gpucontext.DeviceProvider

	// Native returns the native device handle.
	Native() NativeDevice
	// Settings returns the active presentation settings. The back buffer
	// format is SurfaceFormat.
	Settings() PresentSettings
	Caps() DeviceCaps
	// AdapterIdentity returns the vendor, ordinal and description of the
	// adapter. It is distinct from the provider's AdapterInfo, which only
	// carries a name and type.
	AdapterIdentity() AdapterInfo
	// CheckMultisample reports whether samples-count multisampling is
	// supported for format and how many quality levels are available.
	CheckMultisample(format gputypes.TextureFormat, samples int) (bool, int)
	CheckFormat(usage FormatUsage, format gputypes.TextureFormat) bool
}
