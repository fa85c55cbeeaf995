package svgbake

import (
	"fmt"
	"image/png"
	"strings"

	"github.com/gogpu/gputypes"
)

// LoadSettings configures SVGLoader.Load.
type LoadSettings struct {
	// TargetSize is the pixel size of the produced raster. Copied onto the
	// VectorAsset verbatim.
	TargetSize Size

	// Strict rejects SVG elements the parser does not support instead of
	// skipping them.
	Strict bool
}

// ContainerFormat identifies a bitmap container.
type ContainerFormat uint8

// Known containers. Only ContainerPNG is ever produced.
const (
	ContainerPNG ContainerFormat = iota
	ContainerKTX2
	ContainerDDS
	ContainerBasis
	ContainerJPEG
	ContainerWebP
)

var containerNames = [...]string{
	ContainerPNG:   "png",
	ContainerKTX2:  "ktx2",
	ContainerDDS:   "dds",
	ContainerBasis: "basis",
	ContainerJPEG:  "jpeg",
	ContainerWebP:  "webp",
}

func (c ContainerFormat) String() string {
	if int(c) < len(containerNames) {
		return containerNames[c]
	}
	return fmt.Sprintf("ContainerFormat(%d)", uint8(c))
}

// Extension returns the file extension for c, without the dot.
func (c ContainerFormat) Extension() string {
	return c.String()
}

// MarshalText implements encoding.TextMarshaler.
func (c ContainerFormat) MarshalText() ([]byte, error) {
	if int(c) >= len(containerNames) {
		return nil, fmt.Errorf("svgbake: unknown container format %d", uint8(c))
	}
	return []byte(containerNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ContainerFormat) UnmarshalText(text []byte) error {
	v, err := ParseContainerFormat(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseContainerFormat parses a container name such as "png" or "ktx2".
func ParseContainerFormat(s string) (ContainerFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "jpg" {
		return ContainerJPEG, nil
	}
	for i, name := range containerNames {
		if s == name {
			return ContainerFormat(i), nil
		}
	}
	return 0, fmt.Errorf("svgbake: unknown container format %q", s)
}

// FormatRequest is the caller's output format preference.
type FormatRequest struct {
	// Container is the requested container. The encoder always writes
	// PNG; this field does not change the artifact.
	Container ContainerFormat

	// Compressed is the set of GPU compressed families the caller
	// accepts. The zero value accepts any.
	Compressed CompressedFormats
}

// SamplerMode selects between the downstream default sampler and an
// explicit descriptor.
type SamplerMode uint8

const (
	// SamplerDefault leaves sampling to the downstream loader's default.
	SamplerDefault SamplerMode = iota
	// SamplerExplicit uses Sampler.Descriptor.
	SamplerExplicit
)

func (m SamplerMode) String() string {
	switch m {
	case SamplerDefault:
		return "default"
	case SamplerExplicit:
		return "descriptor"
	default:
		return fmt.Sprintf("SamplerMode(%d)", uint8(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m SamplerMode) MarshalText() ([]byte, error) {
	switch m {
	case SamplerDefault, SamplerExplicit:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("svgbake: unknown sampler mode %d", uint8(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SamplerMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "default", "":
		*m = SamplerDefault
	case "descriptor":
		*m = SamplerExplicit
	default:
		return fmt.Errorf("svgbake: unknown sampler mode %q", text)
	}
	return nil
}

// Sampler is the sampling intent recorded with a raster. It is
// comparable, so mirrored settings can be checked with ==.
type Sampler struct {
	Mode       SamplerMode                `yaml:"mode" cbor:"mode"`
	Descriptor gputypes.SamplerDescriptor `yaml:"descriptor,omitempty" cbor:"descriptor,omitempty"`
}

// DefaultSampler defers to the downstream loader's sampler.
func DefaultSampler() Sampler {
	return Sampler{Mode: SamplerDefault}
}

// DescriptorSampler pins an explicit sampler descriptor.
func DescriptorSampler(d gputypes.SamplerDescriptor) Sampler {
	return Sampler{Mode: SamplerExplicit, Descriptor: d}
}

// UsageFlags records where the downstream asset stays resident.
type UsageFlags uint8

const (
	// UsageMainWorld keeps a CPU-side copy.
	UsageMainWorld UsageFlags = 1 << iota
	// UsageRenderWorld keeps a GPU-side copy.
	UsageRenderWorld

	// UsageDefault keeps both copies.
	UsageDefault = UsageMainWorld | UsageRenderWorld
)

// Contains reports whether every flag in other is set in u.
func (u UsageFlags) Contains(other UsageFlags) bool {
	return u&other == other
}

func (u UsageFlags) String() string {
	var parts []string
	if u.Contains(UsageMainWorld) {
		parts = append(parts, "main")
	}
	if u.Contains(UsageRenderWorld) {
		parts = append(parts, "render")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (u UsageFlags) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UsageFlags) UnmarshalText(text []byte) error {
	v, err := ParseUsageFlags(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ParseUsageFlags parses "main", "render", "main|render" or "none".
func ParseUsageFlags(s string) (UsageFlags, error) {
	var u UsageFlags
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.TrimSpace(part) {
		case "main":
			u |= UsageMainWorld
		case "render":
			u |= UsageRenderWorld
		case "none", "":
		default:
			return 0, fmt.Errorf("svgbake: unknown usage flag %q", part)
		}
	}
	return u, nil
}

// TransformSettings configures RasterTransformer.Transform. IsSrgb,
// Sampler and Usage are carried unchanged onto the RasterAsset.
type TransformSettings struct {
	Format  FormatRequest
	IsSrgb  bool
	Sampler Sampler
	Usage   UsageFlags
}

// DefaultTransformSettings returns sRGB, the default sampler and both
// usage worlds.
func DefaultTransformSettings() TransformSettings {
	return TransformSettings{
		Format:  FormatRequest{Container: ContainerPNG},
		IsSrgb:  true,
		Sampler: DefaultSampler(),
		Usage:   UsageDefault,
	}
}

// TextureFormat returns the uncompressed texture format matching s.
func (s TransformSettings) TextureFormat() gputypes.TextureFormat {
	if s.IsSrgb {
		return gputypes.TextureFormatRGBA8UnormSrgb
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// CompressionLevel is the deflate effort used for the PNG stream.
type CompressionLevel uint8

const (
	CompressionDefault CompressionLevel = iota
	CompressionNone
	CompressionSpeed
	CompressionBest
)

var compressionNames = [...]string{
	CompressionDefault: "default",
	CompressionNone:    "none",
	CompressionSpeed:   "speed",
	CompressionBest:    "best",
}

func (l CompressionLevel) String() string {
	if int(l) < len(compressionNames) {
		return compressionNames[l]
	}
	return fmt.Sprintf("CompressionLevel(%d)", uint8(l))
}

// ParseCompressionLevel parses one of "default", "none", "speed", "best".
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CompressionDefault, nil
	}
	for i, name := range compressionNames {
		if s == name {
			return CompressionLevel(i), nil
		}
	}
	return 0, fmt.Errorf("svgbake: unknown compression level %q", s)
}

func (l CompressionLevel) png() png.CompressionLevel {
	switch l {
	case CompressionNone:
		return png.NoCompression
	case CompressionSpeed:
		return png.BestSpeed
	case CompressionBest:
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}

// EncodeSettings configures PNGEncoder.Encode. Nothing here changes the
// container.
type EncodeSettings struct {
	Compression CompressionLevel
}

// ReloadSettings tells a downstream bitmap loader how to reinterpret an
// encoded artifact. Container is always ContainerPNG.
type ReloadSettings struct {
	Container ContainerFormat `yaml:"format" cbor:"format"`
	IsSrgb    bool            `yaml:"is_srgb" cbor:"is_srgb"`
	Sampler   Sampler         `yaml:"sampler" cbor:"sampler"`
	Usage     UsageFlags      `yaml:"asset_usage" cbor:"asset_usage"`
}
