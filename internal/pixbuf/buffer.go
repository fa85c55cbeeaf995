package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

var (
	// ErrInvalidDimensions is returned when width or height is zero.
	ErrInvalidDimensions = errors.New("pixbuf: invalid dimensions")

	// ErrTooLarge is returned when width*height*bpp does not fit the
	// addressable range or the caller's limit.
	ErrTooLarge = errors.New("pixbuf: buffer exceeds addressable range")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("pixbuf: invalid format")

	// ErrDataSize is returned when a pixel slice does not match its dimensions.
	ErrDataSize = errors.New("pixbuf: data length does not match dimensions")

	// ErrFormatMismatch is returned by conversions given buffers of the wrong layout.
	ErrFormatMismatch = errors.New("pixbuf: format mismatch")
)

// MaxBytes is the limit applied when the caller passes no limit.
const MaxBytes = math.MaxInt

// Buffer is a row-major pixel buffer with no row padding: its length is
// always exactly width*height*BytesPerPixel.
//
// A Buffer is owned by one pipeline stage at a time and is not safe for
// concurrent mutation.
type Buffer struct {
	pix    []byte
	width  int
	height int
	format Format
}

// ByteSize returns width*height*bpp for format.
// It fails with ErrInvalidDimensions when either side is zero and with
// ErrTooLarge when the product overflows limit (MaxBytes when limit <= 0).
func ByteSize(width, height uint32, format Format, limit int) (int, error) {
	if !format.IsValid() {
		return 0, ErrInvalidFormat
	}
	if width == 0 || height == 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if limit <= 0 {
		limit = MaxBytes
	}
	// image.Rectangle and slice indexing work in int.
	if uint64(width) > uint64(math.MaxInt) || uint64(height) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}

	bpp := uint64(format.BytesPerPixel())
	pixels := uint64(width) * uint64(height)
	if pixels > uint64(limit)/bpp {
		return 0, fmt.Errorf("%w: %dx%d x %d bytes, limit %d", ErrTooLarge, width, height, bpp, limit)
	}
	return int(pixels * bpp), nil
}

// Alloc allocates a zeroed buffer after validating its size with ByteSize.
func Alloc(width, height uint32, format Format, limit int) (*Buffer, error) {
	n, err := ByteSize(width, height, format, limit)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		pix:    make([]byte, n),
		width:  int(width),
		height: int(height),
		format: format,
	}, nil
}

// FromPixels wraps pix without copying. len(pix) must equal
// width*height*BytesPerPixel exactly.
func FromPixels(pix []byte, width, height uint32, format Format) (*Buffer, error) {
	n, err := ByteSize(width, height, format, 0)
	if err != nil {
		return nil, err
	}
	if len(pix) != n {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrDataSize, len(pix), n)
	}
	return &Buffer{
		pix:    pix,
		width:  int(width),
		height: int(height),
		format: format,
	}, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Format returns the pixel layout.
func (b *Buffer) Format() Format {
	return b.format
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.width * b.format.BytesPerPixel()
}

// Pix returns the underlying pixel bytes.
func (b *Buffer) Pix() []byte {
	return b.pix
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Image returns a standard library view sharing the buffer's memory:
// *image.NRGBA for FormatRGBA8, *image.RGBA for FormatRGBAPremul.
// Writes through the view land in the buffer.
func (b *Buffer) Image() xdraw.Image {
	if b.format == FormatRGBAPremul {
		return &image.RGBA{Pix: b.pix, Stride: b.Stride(), Rect: b.Bounds()}
	}
	return &image.NRGBA{Pix: b.pix, Stride: b.Stride(), Rect: b.Bounds()}
}

// Unpremultiply converts the premultiplied src into the straight-alpha dst.
// Both buffers must have the same dimensions.
func Unpremultiply(dst, src *Buffer) error {
	if src.format != FormatRGBAPremul || dst.format != FormatRGBA8 {
		return fmt.Errorf("%w: %s -> %s", ErrFormatMismatch, src.format, dst.format)
	}
	if src.width != dst.width || src.height != dst.height {
		return fmt.Errorf("%w: %dx%d -> %dx%d", ErrInvalidDimensions, src.width, src.height, dst.width, dst.height)
	}
	xdraw.Draw(dst.Image(), dst.Bounds(), src.Image(), image.Point{}, xdraw.Src)
	return nil
}

// IsEmpty reports whether every byte in the buffer is zero.
func (b *Buffer) IsEmpty() bool {
	for _, v := range b.pix {
		if v != 0 {
			return false
		}
	}
	return true
}
