package svgbake

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/srwiley/oksvg"
	"golang.org/x/net/html/charset"
)

// SVGLoader parses SVG documents into vector assets.
//
// The zero value is ready to use.
type SVGLoader struct{}

var svgExtensions = []string{"svg"}

// Extensions returns the file extensions SVGLoader accepts, without dots.
func (SVGLoader) Extensions() []string {
	return append([]string(nil), svgExtensions...)
}

// Load reads the whole stream and parses it.
//
// Empty input and malformed documents fail with ErrParse; a failing reader
// fails with ErrIO. settings.TargetSize is copied onto the asset without
// clamping. Nothing is rasterized here.
func (SVGLoader) Load(ctx context.Context, r io.Reader, settings LoadSettings) (*VectorAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read svg: %w", ErrIO, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrParse)
	}

	if err := checkRoot(data); err != nil {
		return nil, err
	}

	mode := oksvg.IgnoreErrorMode
	if settings.Strict {
		mode = oksvg.StrictErrorMode
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	scene := newScene(icon)
	w, h := scene.IntrinsicSize()
	Logger().Debug("svgbake: loaded svg",
		"title", scene.Title(),
		"bytes", len(data),
		"paths", scene.PathCount(),
		"intrinsic_w", w,
		"intrinsic_h", h,
		"target", settings.TargetSize)

	return &VectorAsset{
		Scene:      scene,
		TargetSize: settings.TargetSize,
	}, nil
}

// checkRoot requires the first element of data to be <svg>. oksvg accepts
// any well-formed XML and returns an empty icon for it.
func checkRoot(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: no root element", ErrParse)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "svg" {
				return fmt.Errorf("%w: root element %q is not svg", ErrParse, start.Name.Local)
			}
			return nil
		}
	}
}
