package svgbake

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// CompressedFormats is a set of GPU compressed texture families.
type CompressedFormats uint8

// Compressed texture families.
const (
	CompressedBC CompressedFormats = 1 << iota
	CompressedETC2
	CompressedASTC

	// CompressedAll is every known family.
	CompressedAll = CompressedBC | CompressedETC2 | CompressedASTC
)

// featureFamilies maps device features onto compressed families.
var featureFamilies = []struct {
	feature gputypes.Feature
	family  CompressedFormats
}{
	{gputypes.FeatureTextureCompressionBC, CompressedBC},
	{gputypes.FeatureTextureCompressionETC2, CompressedETC2},
	{gputypes.FeatureTextureCompressionASTC, CompressedASTC},
}

// Contains reports whether every family in other is in c.
func (c CompressedFormats) Contains(other CompressedFormats) bool {
	return c&other == other
}

// Intersect returns the families present in both sets.
func (c CompressedFormats) Intersect(other CompressedFormats) CompressedFormats {
	return c & other
}

// IsEmpty reports whether the set has no families.
func (c CompressedFormats) IsEmpty() bool {
	return c&CompressedAll == 0
}

func (c CompressedFormats) String() string {
	var parts []string
	if c.Contains(CompressedBC) {
		parts = append(parts, "bc")
	}
	if c.Contains(CompressedETC2) {
		parts = append(parts, "etc2")
	}
	if c.Contains(CompressedASTC) {
		parts = append(parts, "astc")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseCompressedFormats parses a list such as "bc|astc", "all" or "none".
func ParseCompressedFormats(s string) (CompressedFormats, error) {
	var c CompressedFormats
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.TrimSpace(part) {
		case "bc":
			c |= CompressedBC
		case "etc2":
			c |= CompressedETC2
		case "astc":
			c |= CompressedASTC
		case "all", "any":
			c |= CompressedAll
		case "none", "":
		default:
			return 0, fmt.Errorf("svgbake: unknown compressed format %q", part)
		}
	}
	return c, nil
}

// CapabilityProbe is the set of compressed families the rendering
// environment supports. It is a plain value: copying it freezes it.
type CapabilityProbe struct {
	supported CompressedFormats
}

// NoCapabilities is the probe used when no rendering environment exists.
func NoCapabilities() CapabilityProbe {
	return CapabilityProbe{}
}

// NewCapabilityProbe returns a probe reporting exactly formats.
func NewCapabilityProbe(formats CompressedFormats) CapabilityProbe {
	return CapabilityProbe{supported: formats & CompressedAll}
}

// CapabilityFromFeatures derives a probe from device features.
func CapabilityFromFeatures(features gputypes.Features) CapabilityProbe {
	var c CompressedFormats
	for _, ff := range featureFamilies {
		if features.Contains(ff.feature) {
			c |= ff.family
		}
	}
	return CapabilityProbe{supported: c}
}

// Supported returns the families the environment supports.
func (p CapabilityProbe) Supported() CompressedFormats {
	return p.supported
}

// Negotiate intersects the request with the supported set. A zero
// request accepts every family.
func (p CapabilityProbe) Negotiate(request CompressedFormats) CompressedFormats {
	if request.IsEmpty() {
		request = CompressedAll
	}
	return p.supported.Intersect(request)
}

func (p CapabilityProbe) String() string {
	return "CapabilityProbe(" + p.supported.String() + ")"
}
