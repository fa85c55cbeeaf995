package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// ErrEmptyData is returned when there is nothing to decode.
var ErrEmptyData = errors.New("pixbuf: empty data")

// EncodePNG writes b as an 8-bit-per-channel PNG.
// Only straight-alpha buffers are accepted; the container stores straight alpha.
func EncodePNG(w io.Writer, b *Buffer, level png.CompressionLevel) error {
	if b.format != FormatRGBA8 {
		return fmt.Errorf("%w: png wants %s, have %s", ErrFormatMismatch, FormatRGBA8, b.format)
	}
	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(w, b.Image()); err != nil {
		return fmt.Errorf("pixbuf: encode PNG: %w", err)
	}
	return nil
}

// DecodePNG reads a PNG into a straight-alpha RGBA8 buffer, whatever color
// type the file was stored with.
func DecodePNG(r io.Reader) (*Buffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("pixbuf: decode PNG: %w: %w", ErrEmptyData, err)
		}
		return nil, fmt.Errorf("pixbuf: decode PNG: %w", err)
	}
	return FromImage(img)
}

// FromImage copies img into a new straight-alpha RGBA8 buffer.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	buf, err := Alloc(uint32(bounds.Dx()), uint32(bounds.Dy()), FormatRGBA8, 0)
	if err != nil {
		return nil, err
	}

	// Fast path: tightly packed NRGBA copies straight across.
	if nrgba, ok := img.(*image.NRGBA); ok {
		stride := buf.Stride()
		for y := range buf.height {
			src := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.pix[y*stride:(y+1)*stride], nrgba.Pix[src:src+stride])
		}
		return buf, nil
	}

	xdraw.Draw(buf.Image(), buf.Bounds(), img, bounds.Min, xdraw.Src)
	return buf, nil
}
