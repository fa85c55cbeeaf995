package svgbake

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gogpu/svgbake/internal/pixbuf"
)

// PNGEncoder serializes raster assets as 8-bit RGBA PNG.
//
// The container is always PNG. The container requested in
// TransformSettings.Format is not consulted.
//
// The zero value is ready to use.
type PNGEncoder struct{}

// Encode writes asset to w as PNG and returns the reload settings a
// downstream loader needs.
//
// The stream is built in memory and written with a single call, so w
// receives nothing when encoding fails. Invalid assets and codec failures
// return ErrEncode; write failures, including short writes, return ErrIO.
func (PNGEncoder) Encode(ctx context.Context, w io.Writer, asset *RasterAsset, settings EncodeSettings) (ReloadSettings, error) {
	data, err := encodePNG(ctx, asset, settings)
	if err != nil {
		return ReloadSettings{}, err
	}
	if err := ctx.Err(); err != nil {
		return ReloadSettings{}, err
	}

	n, err := w.Write(data)
	if err != nil {
		return ReloadSettings{}, fmt.Errorf("%w: write png: %w", ErrIO, err)
	}
	if n != len(data) {
		return ReloadSettings{}, fmt.Errorf("%w: write png: %w (%d of %d bytes)", ErrIO, io.ErrShortWrite, n, len(data))
	}

	return asset.ReloadSettings(), nil
}

// encodePNG produces the complete PNG stream for asset.
func encodePNG(ctx context.Context, asset *RasterAsset, settings EncodeSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := asset.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	buf, err := pixbuf.FromPixels(asset.Pixels, asset.Width, asset.Height, pixbuf.FormatRGBA8)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	var out bytes.Buffer
	if err := pixbuf.EncodePNG(&out, buf, settings.Compression.png()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	Logger().Debug("svgbake: encoded png",
		"size", asset.Size(),
		"bytes", out.Len(),
		"compression", settings.Compression)
	return out.Bytes(), nil
}

// ReloadAsset decodes an artifact written by PNGEncoder and reapplies the
// recorded settings, as a downstream loader would.
func ReloadAsset(r io.Reader, settings ReloadSettings) (*RasterAsset, error) {
	if settings.Container != ContainerPNG {
		return nil, fmt.Errorf("%w: cannot reload %s container", ErrParse, settings.Container)
	}

	buf, err := pixbuf.DecodePNG(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	ts := TransformSettings{IsSrgb: settings.IsSrgb}
	return &RasterAsset{
		Pixels:        buf.Pix(),
		Width:         uint32(buf.Width()),
		Height:        uint32(buf.Height()),
		IsSrgb:        settings.IsSrgb,
		Sampler:       settings.Sampler,
		Usage:         settings.Usage,
		TextureFormat: ts.TextureFormat(),
	}, nil
}
