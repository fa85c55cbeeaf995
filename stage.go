package svgbake

import (
	"context"
	"io"
)

// Loader turns a source byte stream into a vector asset.
type Loader interface {
	Load(ctx context.Context, r io.Reader, settings LoadSettings) (*VectorAsset, error)
}

// Transformer rasterizes a vector asset.
type Transformer interface {
	Transform(ctx context.Context, asset *VectorAsset, settings TransformSettings) (*RasterAsset, error)
}

// Encoder serializes a raster asset and reports how to reload it.
type Encoder interface {
	Encode(ctx context.Context, w io.Writer, asset *RasterAsset, settings EncodeSettings) (ReloadSettings, error)
}

// Compile-time interface checks.
var (
	_ Loader      = SVGLoader{}
	_ Transformer = (*RasterTransformer)(nil)
	_ Encoder     = PNGEncoder{}
)
