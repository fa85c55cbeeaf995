// Package pixbuf holds the tightly packed pixel buffers that move between
// the transform and encode stages, and the PNG container codec used on both
// sides of the artifact boundary.
package pixbuf

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatRGBA8 is 32-bit RGBA with straight (non-premultiplied) alpha.
	// This is the layout of every buffer that leaves the transformer.
	FormatRGBA8 Format = iota

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	// The rasterizer composites into this layout.
	FormatRGBAPremul

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	BytesPerPixel   int
	Channels        int
	IsPremultiplied bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGBA8: {
		BytesPerPixel:   4,
		Channels:        4,
		IsPremultiplied: false,
	},
	FormatRGBAPremul: {
		BytesPerPixel:   4,
		Channels:        4,
		IsPremultiplied: true,
	},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// IsPremultiplied returns true if alpha is premultiplied.
func (f Format) IsPremultiplied() bool {
	return f.Info().IsPremultiplied
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBAPremul:
		return "RGBAPremul"
	default:
		return "Unknown"
	}
}
