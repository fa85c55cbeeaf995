package svgbake

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/srwiley/oksvg"
)

// Scene is a parsed SVG document.
//
// A Scene is not safe for concurrent rendering: drawing temporarily
// rewrites per-path matrices.
type Scene struct {
	icon *oksvg.SvgIcon
}

// newScene wraps a parsed icon.
func newScene(icon *oksvg.SvgIcon) *Scene {
	return &Scene{icon: icon}
}

// IntrinsicSize returns the document's own width and height in user units:
// the viewBox extent, or the root width/height when no viewBox is given.
func (s *Scene) IntrinsicSize() (w, h float64) {
	if s == nil || s.icon == nil {
		return 0, 0
	}
	return s.icon.ViewBox.W, s.icon.ViewBox.H
}

// Origin returns the viewBox origin.
func (s *Scene) Origin() (x, y float64) {
	if s == nil || s.icon == nil {
		return 0, 0
	}
	return s.icon.ViewBox.X, s.icon.ViewBox.Y
}

// PathCount returns the number of drawable paths in the scene.
func (s *Scene) PathCount() int {
	if s == nil || s.icon == nil {
		return 0
	}
	return len(s.icon.SVGPaths)
}

// Title returns the first <title> of the document, if any.
func (s *Scene) Title() string {
	if s == nil || s.icon == nil || len(s.icon.Titles) == 0 {
		return ""
	}
	return s.icon.Titles[0]
}

// isDegenerate reports whether the intrinsic size cannot be scaled from.
func (s *Scene) isDegenerate() bool {
	w, h := s.IntrinsicSize()
	return !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0)
}

// VectorAsset is a loaded vector scene plus the pixel size it should be
// rasterized at. It is produced once by a Loader and consumed once by a
// Transformer.
type VectorAsset struct {
	Scene      *Scene
	TargetSize Size
}

// RasterAsset is a fixed-size RGBA8 image with the color, sampling and
// usage intent it was produced with.
//
// Invariant: len(Pixels) == Width*Height*4. Pixels hold straight
// (non-premultiplied) alpha in row-major order without padding.
type RasterAsset struct {
	Pixels []byte
	Width  uint32
	Height uint32

	IsSrgb  bool
	Sampler Sampler
	Usage   UsageFlags

	// TextureFormat is the uncompressed GPU format matching IsSrgb.
	TextureFormat gputypes.TextureFormat

	// Compressed lists the compressed families both requested and supported
	// by the environment. It does not affect Pixels.
	Compressed CompressedFormats
}

// Size returns the raster extent.
func (a *RasterAsset) Size() Size {
	return Size{Width: a.Width, Height: a.Height}
}

// Validate checks the pixel length invariant.
func (a *RasterAsset) Validate() error {
	if a == nil {
		return errors.New("nil raster asset")
	}
	if a.Width == 0 || a.Height == 0 {
		return fmt.Errorf("empty raster %dx%d", a.Width, a.Height)
	}
	want := uint64(a.Width) * uint64(a.Height) * 4
	if uint64(len(a.Pixels)) != want {
		return fmt.Errorf("raster %dx%d has %d bytes, want %d", a.Width, a.Height, len(a.Pixels), want)
	}
	return nil
}

// ReloadSettings returns the record a downstream loader needs to
// reinterpret the encoded artifact.
func (a *RasterAsset) ReloadSettings() ReloadSettings {
	return ReloadSettings{
		Container: ContainerPNG,
		IsSrgb:    a.IsSrgb,
		Sampler:   a.Sampler,
		Usage:     a.Usage,
	}
}
