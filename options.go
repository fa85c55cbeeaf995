package svgbake

// TransformerOption configures a RasterTransformer during creation.
// Use functional options to customize transformer behavior.
//
// Example:
//
//	// Default transformer, no compressed formats
//	t := svgbake.NewRasterTransformer(svgbake.NoCapabilities())
//
//	// Cap every raster at 16 MiB
//	t := svgbake.NewRasterTransformer(probe, svgbake.WithMaxBufferBytes(16<<20))
type TransformerOption func(*transformerOptions)

// transformerOptions holds optional configuration for RasterTransformer.
type transformerOptions struct {
	maxBufferBytes int
	opacity        float64
}

// defaultTransformerOptions returns the default transformer options.
func defaultTransformerOptions() transformerOptions {
	return transformerOptions{
		maxBufferBytes: 0, // addressable range only
		opacity:        1,
	}
}

// WithMaxBufferBytes limits the size of each raster buffer. Targets that
// would exceed it fail with ErrAllocation. Zero or negative removes the
// limit, leaving only the addressable range.
func WithMaxBufferBytes(n int) TransformerOption {
	return func(o *transformerOptions) {
		o.maxBufferBytes = n
	}
}

// WithOpacity sets a global opacity multiplier applied to every path.
// Values are clamped to [0, 1].
func WithOpacity(opacity float64) TransformerOption {
	return func(o *transformerOptions) {
		switch {
		case !(opacity > 0):
			o.opacity = 0
		case opacity > 1:
			o.opacity = 1
		default:
			o.opacity = opacity
		}
	}
}
