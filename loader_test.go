package svgbake

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSVGLoaderLoad(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		wantW  float64
		wantH  float64
		wantOX float64
		wantOY float64
	}{
		{"viewBox", svgRedSquare, 100, 100, 0, 0},
		{"offset viewBox", svgOffsetViewBox, 100, 100, 100, 100},
		{"width and height", svgWidthHeightOnly, 40, 20, 0, 0},
		{"no size", svgNoSize, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Size{Width: 32, Height: 16}
			asset, err := SVGLoader{}.Load(context.Background(), strings.NewReader(tt.doc), LoadSettings{TargetSize: target})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if asset.TargetSize != target {
				t.Errorf("TargetSize = %v, want %v", asset.TargetSize, target)
			}
			w, h := asset.Scene.IntrinsicSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("IntrinsicSize() = %gx%g, want %gx%g", w, h, tt.wantW, tt.wantH)
			}
			ox, oy := asset.Scene.Origin()
			if ox != tt.wantOX || oy != tt.wantOY {
				t.Errorf("Origin() = %g,%g, want %g,%g", ox, oy, tt.wantOX, tt.wantOY)
			}
		})
	}
}

func TestSVGLoaderTargetSizeVerbatim(t *testing.T) {
	// No clamping, even for sizes the transformer will reject.
	for _, target := range []Size{{0, 0}, {1, 1}, {4096, 3}, {1 << 31, 1 << 31}} {
		asset := loadScene(t, svgRedSquare, target)
		if asset.TargetSize != target {
			t.Errorf("TargetSize = %v, want %v", asset.TargetSize, target)
		}
	}
}

func TestSVGLoaderErrors(t *testing.T) {
	tests := []struct {
		name     string
		r        io.Reader
		settings LoadSettings
		wantErr  error
	}{
		{"empty", strings.NewReader(""), LoadSettings{}, ErrParse},
		{"whitespace", strings.NewReader("  \n\t "), LoadSettings{}, ErrParse},
		{"plain text", strings.NewReader("not an svg at all"), LoadSettings{}, ErrParse},
		{"html root", strings.NewReader("<html><body>hi</body></html>"), LoadSettings{}, ErrParse},
		{"declaration only", strings.NewReader(`<?xml version="1.0"?><!-- nothing -->`), LoadSettings{}, ErrParse},
		{"unclosed element", strings.NewReader(`<svg viewBox="0 0 10 10"><rect`), LoadSettings{}, ErrParse},
		{"mismatched tags", strings.NewReader(`<svg viewBox="0 0 10 10"></g>`), LoadSettings{}, ErrParse},
		{"strict unsupported element", strings.NewReader(svgWithText), LoadSettings{Strict: true}, ErrParse},
		{"read failure", io.MultiReader(strings.NewReader("<svg"), iotestErrReader{}), LoadSettings{}, ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, err := SVGLoader{}.Load(context.Background(), tt.r, tt.settings)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if asset != nil {
				t.Error("Load() returned an asset alongside an error")
			}
		})
	}
}

func TestSVGLoaderLenientSkipsUnsupported(t *testing.T) {
	asset, err := SVGLoader{}.Load(context.Background(), strings.NewReader(svgWithText), LoadSettings{})
	if err != nil {
		t.Fatalf("Load() error = %v, want nil without Strict", err)
	}
	if n := asset.Scene.PathCount(); n != 0 {
		t.Errorf("PathCount() = %d, want 0", n)
	}
}

func TestSVGLoaderTitle(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{"with title", `<svg viewBox="0 0 10 10"><title>Play</title><rect width="10" height="10"/></svg>`, "Play"},
		{"without title", svgRedSquare, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, err := SVGLoader{}.Load(context.Background(), strings.NewReader(tt.svg), LoadSettings{})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got := asset.Scene.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSVGLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SVGLoader{}.Load(ctx, strings.NewReader(svgRedSquare), LoadSettings{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestSVGLoaderExtensions(t *testing.T) {
	got := SVGLoader{}.Extensions()
	if diff := cmp.Diff([]string{"svg"}, got); diff != "" {
		t.Errorf("Extensions() mismatch (-want +got):\n%s", diff)
	}

	// The returned slice is a copy.
	got[0] = "png"
	if (SVGLoader{}).Extensions()[0] != "svg" {
		t.Error("Extensions() exposed internal state")
	}
}

// iotestErrReader always fails.
type iotestErrReader struct{}

func (iotestErrReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}
