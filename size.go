package svgbake

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a pixel extent.
type Size struct {
	Width  uint32 `yaml:"width" cbor:"width"`
	Height uint32 `yaml:"height" cbor:"height"`
}

// Square returns a Size with equal sides.
func Square(side uint32) Size {
	return Size{Width: side, Height: side}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// DefaultSize is one member of the fixed set of square default target
// sizes. The zero value means "not selected".
type DefaultSize uint32

// The selectable default sizes.
const (
	DefaultSize8    DefaultSize = 8
	DefaultSize16   DefaultSize = 16
	DefaultSize32   DefaultSize = 32
	DefaultSize64   DefaultSize = 64
	DefaultSize128  DefaultSize = 128
	DefaultSize256  DefaultSize = 256
	DefaultSize512  DefaultSize = 512
	DefaultSize1024 DefaultSize = 1024
)

// DefaultSizes lists every selectable default size in ascending order.
var DefaultSizes = []DefaultSize{
	DefaultSize8, DefaultSize16, DefaultSize32, DefaultSize64,
	DefaultSize128, DefaultSize256, DefaultSize512, DefaultSize1024,
}

// selectedDefaultSize is the build-time selection, set with
//
//	-ldflags "-X github.com/gogpu/svgbake.selectedDefaultSize=64"
//
// It is parsed at runtime by DefaultLoadSettings.
var selectedDefaultSize string

// IsValid reports whether d is a member of DefaultSizes.
func (d DefaultSize) IsValid() bool {
	for _, s := range DefaultSizes {
		if d == s {
			return true
		}
	}
	return false
}

// Size returns the square target size for d.
func (d DefaultSize) Size() Size {
	return Square(uint32(d))
}

func (d DefaultSize) String() string {
	return fmt.Sprintf("%dx%d", uint32(d), uint32(d))
}

// ParseDefaultSize parses "64" or "64x64". Empty input, non-square sizes
// and values outside DefaultSizes are configuration errors.
func ParseDefaultSize(s string) (DefaultSize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: no default target size selected (one of %s)", ErrConfig, listDefaultSizes())
	}

	side := s
	if w, h, ok := strings.Cut(strings.ToLower(s), "x"); ok {
		if w != h {
			return 0, fmt.Errorf("%w: default target size %q is not square", ErrConfig, s)
		}
		side = w
	}

	n, err := strconv.ParseUint(side, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: default target size %q: %w", ErrConfig, s, err)
	}
	d := DefaultSize(n)
	if !d.IsValid() {
		return 0, fmt.Errorf("%w: default target size %q is not one of %s", ErrConfig, s, listDefaultSizes())
	}
	return d, nil
}

// LoadSettingsFor returns load settings targeting d. An unselected or
// unknown d is a configuration error; there is no fallback size.
func LoadSettingsFor(d DefaultSize) (LoadSettings, error) {
	if d == 0 {
		return LoadSettings{}, fmt.Errorf("%w: no default target size selected (one of %s)", ErrConfig, listDefaultSizes())
	}
	if !d.IsValid() {
		return LoadSettings{}, fmt.Errorf("%w: default target size %d is not one of %s", ErrConfig, uint32(d), listDefaultSizes())
	}
	return LoadSettings{TargetSize: d.Size()}, nil
}

// DefaultLoadSettings returns load settings for the build-time selected
// default size. A binary built without a selection fails with ErrConfig.
func DefaultLoadSettings() (LoadSettings, error) {
	d, err := ParseDefaultSize(selectedDefaultSize)
	if err != nil {
		return LoadSettings{}, err
	}
	return LoadSettingsFor(d)
}

func listDefaultSizes() string {
	parts := make([]string, len(DefaultSizes))
	for i, d := range DefaultSizes {
		parts[i] = strconv.FormatUint(uint64(d), 10)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
