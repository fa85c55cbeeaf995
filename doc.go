// Package svgbake pre-rasterizes SVG assets into PNG at build time.
//
// # Overview
//
// svgbake turns a vector source into a fixed-size bitmap so that runtime
// consumers load a ready-made image instead of rasterizing on demand. Each
// asset passes through three stages:
//
//   - [SVGLoader] parses the document into a [VectorAsset]
//   - [RasterTransformer] scales and rasterizes it into a [RasterAsset]
//   - [PNGEncoder] writes the pixels as PNG and returns [ReloadSettings]
//
// ReloadSettings records the color space, sampler and usage intent the
// artifact was produced with, for the loader that reads it back.
//
// # Quick Start
//
//	import "github.com/gogpu/svgbake"
//
//	settings, err := svgbake.LoadSettingsFor(svgbake.DefaultSize64)
//	if err != nil {
//	    return err
//	}
//	p := svgbake.NewPipeline(svgbake.NoCapabilities())
//	reload, err := p.Run(ctx, src, dst, svgbake.Job{
//	    Name:      "icon.svg",
//	    Load:      settings,
//	    Transform: svgbake.DefaultTransformSettings(),
//	})
//
// # Scaling
//
// The source's intrinsic size (its viewBox, or root width/height) maps onto
// the target size with independent x and y factors. Aspect ratio is not
// preserved when the two disagree.
//
// # Output Format
//
// The encoder always writes PNG, whatever container TransformSettings
// requests. Compressed GPU families are negotiated against a
// [CapabilityProbe] and recorded on the RasterAsset as metadata only.
//
// # Default Size
//
// Binaries select a default target size at link time:
//
//	go build -ldflags "-X github.com/gogpu/svgbake.selectedDefaultSize=64"
//
// [DefaultLoadSettings] fails with [ErrConfig] when no size was selected.
package svgbake

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
