package svgbake

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestPNGEncoderRoundTrip(t *testing.T) {
	sizes := []Size{{1, 1}, {64, 64}, {3, 7}, {128, 32}}
	for _, size := range sizes {
		t.Run(size.String(), func(t *testing.T) {
			raster := rasterize(t, svgLeftHalfBlue, size)

			var buf bytes.Buffer
			if _, err := (PNGEncoder{}).Encode(context.Background(), &buf, raster, EncodeSettings{}); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("png.DecodeConfig() error = %v", err)
			}
			if cfg.Width != int(size.Width) || cfg.Height != int(size.Height) {
				t.Errorf("decoded size = %dx%d, want %v", cfg.Width, cfg.Height, size)
			}

			reloaded, err := ReloadAsset(&buf, raster.ReloadSettings())
			if err != nil {
				t.Fatalf("ReloadAsset() error = %v", err)
			}
			if !bytes.Equal(reloaded.Pixels, raster.Pixels) {
				t.Error("reloaded pixels differ from encoded pixels")
			}
		})
	}
}

func TestPNGEncoderCompressionLevels(t *testing.T) {
	raster := rasterize(t, svgRedSquare, Square(32))
	for _, level := range []CompressionLevel{CompressionDefault, CompressionNone, CompressionSpeed, CompressionBest} {
		t.Run(level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := (PNGEncoder{}).Encode(context.Background(), &buf, raster, EncodeSettings{Compression: level}); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
				t.Error("output does not start with the PNG signature")
			}
		})
	}
}

// Pins the fixed-container behavior: whatever container is requested, the
// artifact is PNG and the reload settings say so.
func TestPNGEncoderIgnoresRequestedContainer(t *testing.T) {
	requests := []ContainerFormat{ContainerPNG, ContainerKTX2, ContainerDDS, ContainerBasis, ContainerJPEG, ContainerWebP}
	tr := NewRasterTransformer(NewCapabilityProbe(CompressedAll))

	for _, container := range requests {
		t.Run(container.String(), func(t *testing.T) {
			s := DefaultTransformSettings()
			s.Format.Container = container
			raster, err := tr.Transform(context.Background(), loadScene(t, svgRedSquare, Square(16)), s)
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}

			var buf bytes.Buffer
			reload, err := (PNGEncoder{}).Encode(context.Background(), &buf, raster, EncodeSettings{})
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if reload.Container != ContainerPNG {
				t.Errorf("Container = %v, want %v", reload.Container, ContainerPNG)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
				t.Error("output does not start with the PNG signature")
			}
		})
	}
}

func TestPNGEncoderMirrorsSettings(t *testing.T) {
	samplers := []Sampler{
		DefaultSampler(),
		DescriptorSampler(gputypes.DefaultSamplerDescriptor()),
		DescriptorSampler(gputypes.LinearSamplerDescriptor()),
	}
	usages := []UsageFlags{0, UsageMainWorld, UsageRenderWorld, UsageDefault}

	tr := NewRasterTransformer(NoCapabilities())
	for _, srgb := range []bool{true, false} {
		for _, sampler := range samplers {
			for _, usage := range usages {
				s := TransformSettings{IsSrgb: srgb, Sampler: sampler, Usage: usage}
				raster, err := tr.Transform(context.Background(), loadScene(t, svgRedSquare, Square(2)), s)
				if err != nil {
					t.Fatalf("Transform(%+v) error = %v", s, err)
				}
				reload, err := (PNGEncoder{}).Encode(context.Background(), io.Discard, raster, EncodeSettings{})
				if err != nil {
					t.Fatalf("Encode() error = %v", err)
				}

				want := ReloadSettings{Container: ContainerPNG, IsSrgb: srgb, Sampler: sampler, Usage: usage}
				if diff := cmp.Diff(want, reload); diff != "" {
					t.Errorf("ReloadSettings mismatch (-want +got):\n%s", diff)
				}
			}
		}
	}
}

func TestPNGEncoderInvalidAsset(t *testing.T) {
	tests := []struct {
		name  string
		asset *RasterAsset
	}{
		{"nil", nil},
		{"short pixels", &RasterAsset{Pixels: make([]byte, 15), Width: 2, Height: 2}},
		{"long pixels", &RasterAsset{Pixels: make([]byte, 17), Width: 2, Height: 2}},
		{"zero size", &RasterAsset{Pixels: nil, Width: 0, Height: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := (PNGEncoder{}).Encode(context.Background(), &buf, tt.asset, EncodeSettings{})
			if !errors.Is(err, ErrEncode) {
				t.Fatalf("Encode() error = %v, want %v", err, ErrEncode)
			}
			if buf.Len() != 0 {
				t.Errorf("failed Encode() wrote %d bytes", buf.Len())
			}
		})
	}
}

func TestPNGEncoderWriteErrors(t *testing.T) {
	raster := rasterize(t, svgRedSquare, Square(8))

	t.Run("failing writer", func(t *testing.T) {
		w := &errWriter{err: errors.New("disk full")}
		_, err := (PNGEncoder{}).Encode(context.Background(), w, raster, EncodeSettings{})
		if !errors.Is(err, ErrIO) {
			t.Errorf("Encode() error = %v, want %v", err, ErrIO)
		}
		if w.writes != 1 {
			t.Errorf("writes = %d, want a single write", w.writes)
		}
	})

	t.Run("short write", func(t *testing.T) {
		_, err := (PNGEncoder{}).Encode(context.Background(), &shortWriter{limit: 10}, raster, EncodeSettings{})
		if !errors.Is(err, ErrIO) || !errors.Is(err, io.ErrShortWrite) {
			t.Errorf("Encode() error = %v, want %v and %v", err, ErrIO, io.ErrShortWrite)
		}
	})
}

func TestPNGEncoderCancelled(t *testing.T) {
	raster := rasterize(t, svgRedSquare, Square(8))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if _, err := (PNGEncoder{}).Encode(ctx, &buf, raster, EncodeSettings{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Encode() error = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Errorf("cancelled Encode() wrote %d bytes", buf.Len())
	}
}

func TestReloadAssetErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		settings ReloadSettings
	}{
		{"empty", nil, ReloadSettings{}},
		{"not png", []byte("GIF89a"), ReloadSettings{}},
		{"wrong container", pngSignature, ReloadSettings{Container: ContainerKTX2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReloadAsset(bytes.NewReader(tt.data), tt.settings); !errors.Is(err, ErrParse) {
				t.Errorf("ReloadAsset() error = %v, want %v", err, ErrParse)
			}
		})
	}
}

func TestReloadAssetAppliesSettings(t *testing.T) {
	s := TransformSettings{IsSrgb: false, Sampler: DescriptorSampler(gputypes.LinearSamplerDescriptor()), Usage: UsageRenderWorld}
	raster, err := NewRasterTransformer(NoCapabilities()).Transform(context.Background(), loadScene(t, svgRedSquare, Square(4)), s)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	var buf bytes.Buffer
	reload, err := (PNGEncoder{}).Encode(context.Background(), &buf, raster, EncodeSettings{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := ReloadAsset(&buf, reload)
	if err != nil {
		t.Fatalf("ReloadAsset() error = %v", err)
	}

	if diff := cmp.Diff(raster, got); diff != "" {
		t.Errorf("reloaded asset mismatch (-want +got):\n%s", diff)
	}
}
