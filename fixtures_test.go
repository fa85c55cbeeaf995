package svgbake

import (
	"context"
	"strings"
	"testing"
)

// SVG documents shared by the stage tests.
const (
	svgRedSquare = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="0" y="0" width="100" height="100" fill="#ff0000"/>
</svg>`

	svgLeftHalfBlue = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="0" y="0" width="50" height="100" fill="#0000ff"/>
</svg>`

	// The filled quadrant sits at the viewBox origin, not at 0,0.
	svgOffsetViewBox = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="100 100 100 100">
  <rect x="100" y="100" width="50" height="50" fill="#00ff00"/>
</svg>`

	svgWide = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 50">
  <rect x="0" y="0" width="200" height="50" fill="#ffffff"/>
</svg>`

	svgWidthHeightOnly = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20">
  <rect x="0" y="0" width="40" height="20"/>
</svg>`

	svgNoSize = `<svg xmlns="http://www.w3.org/2000/svg">
  <rect x="0" y="0" width="10" height="10"/>
</svg>`

	svgWithText = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
  <text x="0" y="5">hi</text>
</svg>`
)

// loadScene parses doc or fails the test.
func loadScene(t *testing.T, doc string, target Size) *VectorAsset {
	t.Helper()
	asset, err := SVGLoader{}.Load(context.Background(), strings.NewReader(doc), LoadSettings{TargetSize: target})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return asset
}

// rasterize runs the default transformer over doc.
func rasterize(t *testing.T, doc string, target Size) *RasterAsset {
	t.Helper()
	raster, err := NewRasterTransformer(NoCapabilities()).
		Transform(context.Background(), loadScene(t, doc, target), DefaultTransformSettings())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	return raster
}

// pixelAt returns the RGBA bytes of one pixel.
func pixelAt(a *RasterAsset, x, y int) [4]byte {
	i := (y*int(a.Width) + x) * 4
	return [4]byte{a.Pixels[i], a.Pixels[i+1], a.Pixels[i+2], a.Pixels[i+3]}
}

// errWriter fails every write.
type errWriter struct {
	err    error
	writes int
}

func (w *errWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, w.err
}

// shortWriter accepts at most limit bytes per write without an error.
type shortWriter struct {
	limit int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	return min(len(p), w.limit), nil
}
