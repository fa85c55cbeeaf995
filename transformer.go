package svgbake

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/svgbake/internal/pixbuf"
	"github.com/srwiley/rasterx"
)

// RasterTransformer rasterizes vector assets at their target size.
//
// The capability probe is copied at construction and never re-read, so
// every Transform on one transformer negotiates against the same set.
// RasterTransformer is safe for concurrent use on different assets.
type RasterTransformer struct {
	probe CapabilityProbe
	opts  transformerOptions
}

// NewRasterTransformer creates a transformer bound to probe. It never fails.
func NewRasterTransformer(probe CapabilityProbe, opts ...TransformerOption) *RasterTransformer {
	o := defaultTransformerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RasterTransformer{probe: probe, opts: o}
}

// Probe returns the capability set frozen at construction.
func (t *RasterTransformer) Probe() CapabilityProbe {
	return t.probe
}

// ScaleFor returns the per-axis factors mapping a source of srcW x srcH
// user units onto target pixels. The axes scale independently, so the
// aspect ratio is not preserved when the target's differs.
func ScaleFor(srcW, srcH float64, target Size) (sx, sy float64, err error) {
	if !(srcW > 0) || !(srcH > 0) || math.IsInf(srcW, 0) || math.IsInf(srcH, 0) {
		return 0, 0, fmt.Errorf("%w: intrinsic size %gx%g", ErrDegenerateSource, srcW, srcH)
	}
	sx = float64(target.Width) / srcW
	sy = float64(target.Height) / srcH
	return sx, sy, nil
}

// Transform rasterizes asset into a straight-alpha RGBA8 buffer of exactly
// asset.TargetSize.
//
// Errors: ErrDegenerateSource for a scene without a usable intrinsic size,
// ErrAllocation for an empty or oversized target, ErrRender when the
// rasterizer fails. A cancelled ctx discards all buffers.
func (t *RasterTransformer) Transform(ctx context.Context, asset *VectorAsset, settings TransformSettings) (*RasterAsset, error) {
	if asset == nil || asset.Scene == nil || asset.Scene.icon == nil {
		return nil, fmt.Errorf("%w: no scene", ErrDegenerateSource)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scene := asset.Scene
	target := asset.TargetSize

	srcW, srcH := scene.IntrinsicSize()
	sx, sy, err := ScaleFor(srcW, srcH, target)
	if err != nil {
		return nil, err
	}

	// Both buffers are sized before any drawing so an oversized target
	// fails without partial work.
	scratch, err := pixbuf.Alloc(target.Width, target.Height, pixbuf.FormatRGBAPremul, t.opts.maxBufferBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAllocation, target, err)
	}
	out, err := pixbuf.Alloc(target.Width, target.Height, pixbuf.FormatRGBA8, t.opts.maxBufferBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAllocation, target, err)
	}

	if err := t.rasterize(scene, scratch, sx, sy); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := pixbuf.Unpremultiply(out, scratch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	compressed := t.probe.Negotiate(settings.Format.Compressed)

	Logger().Debug("svgbake: rasterized",
		"intrinsic_w", srcW,
		"intrinsic_h", srcH,
		"target", target,
		"scale_x", sx,
		"scale_y", sy,
		"bytes", len(out.Pix()),
		"requested_container", settings.Format.Container,
		"compressed", compressed)

	return &RasterAsset{
		Pixels:        out.Pix(),
		Width:         target.Width,
		Height:        target.Height,
		IsSrgb:        settings.IsSrgb,
		Sampler:       settings.Sampler,
		Usage:         settings.Usage,
		TextureFormat: settings.TextureFormat(),
		Compressed:    compressed,
	}, nil
}

// errRasterizerPanic marks a panic recovered from the rasterizer.
var errRasterizerPanic = errors.New("rasterizer panic")

// rasterize draws every path of scene into the premultiplied scratch
// buffer. Panics inside the rasterizer surface as ErrRender.
func (t *RasterTransformer) rasterize(scene *Scene, scratch *pixbuf.Buffer, sx, sy float64) (err error) {
	if math.IsInf(sx, 0) || math.IsInf(sy, 0) || math.IsNaN(sx) || math.IsNaN(sy) {
		return fmt.Errorf("%w: non-finite scale %gx%g", ErrRender, sx, sy)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %w: %v", ErrRender, errRasterizerPanic, r)
		}
	}()

	w, h := scratch.Width(), scratch.Height()
	scanner := rasterx.NewScannerGV(w, h, scratch.Image(), scratch.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)

	ox, oy := scene.Origin()
	m := rasterx.Identity.Scale(sx, sy).Translate(-ox, -oy).Mult(scene.icon.Transform)

	for i := range scene.icon.SVGPaths {
		scene.icon.SVGPaths[i].DrawTransformed(dasher, t.opts.opacity, m)
	}
	return nil
}
