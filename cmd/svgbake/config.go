package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/svgbake"
	"github.com/gogpu/svgbake/meta"
	"gopkg.in/yaml.v3"
)

// Config is the svgbake.yaml build configuration. Every field can also be
// set from the command line; flags win over the file.
type Config struct {
	// DefaultSize is the square target size, "64" or "64x64". Empty falls
	// back to the size selected when the binary was built.
	DefaultSize string `yaml:"default_size"`

	// Strict turns unsupported SVG elements into parse errors.
	Strict bool `yaml:"strict"`

	// Workers bounds concurrent assets. Zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`

	// MetaFormat is the sidecar encoding, "yaml" or "cbor".
	MetaFormat string `yaml:"meta_format"`

	Transform TransformConfig `yaml:"transform"`
	Encode    EncodeConfig    `yaml:"encode"`
	Probe     ProbeConfig     `yaml:"probe"`
}

// TransformConfig mirrors svgbake.TransformSettings in text form.
type TransformConfig struct {
	Srgb bool `yaml:"srgb"`

	// Sampler is "default", "nearest" or "linear".
	Sampler string `yaml:"sampler"`

	// Usage is a list such as "main|render".
	Usage string `yaml:"usage"`

	// Container is the requested container. The encoder always writes PNG.
	Container string `yaml:"container"`

	// Compressed lists the accepted GPU compressed families, or "all".
	Compressed string `yaml:"compressed"`
}

// EncodeConfig configures the PNG encoder.
type EncodeConfig struct {
	// Compression is "default", "none", "speed" or "best".
	Compression string `yaml:"compression"`
}

// ProbeConfig configures the compressed format probe.
type ProbeConfig struct {
	// Enabled requests a GPU adapter. Disabled assumes no compressed formats.
	Enabled bool `yaml:"enabled"`

	// Fallback requests the software adapter.
	Fallback bool `yaml:"fallback"`

	// LowPower prefers an integrated adapter.
	LowPower bool `yaml:"low_power"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MetaFormat: "yaml",
		Transform: TransformConfig{
			Srgb:       true,
			Sampler:    "default",
			Usage:      "main|render",
			Container:  "png",
			Compressed: "all",
		},
		Encode: EncodeConfig{
			Compression: "default",
		},
		Probe: ProbeConfig{
			Enabled: true,
		},
	}
}

// LoadFile reads path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", svgbake.ErrConfig, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", svgbake.ErrConfig, path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors. Every problem is reported
// at once; the joined error matches svgbake.ErrConfig.
func (c *Config) Validate() error {
	_, err := c.Resolve()
	return err
}

// Settings is a validated Config in the form the pipeline consumes.
type Settings struct {
	Load       svgbake.LoadSettings
	Transform  svgbake.TransformSettings
	Encode     svgbake.EncodeSettings
	MetaFormat meta.Format
	Workers    int
	Probe      ProbeConfig
}

// Resolve parses every text field. A missing default size is an error
// here, before any asset is opened.
func (c *Config) Resolve() (Settings, error) {
	var errs []error
	s := Settings{
		Transform: svgbake.DefaultTransformSettings(),
		Workers:   c.Workers,
		Probe:     c.Probe,
	}

	load, err := resolveLoad(c.DefaultSize)
	if err != nil {
		errs = append(errs, err)
	}
	load.Strict = c.Strict
	s.Load = load

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	if s.MetaFormat, err = meta.ParseFormat(c.MetaFormat); err != nil {
		errs = append(errs, fmt.Errorf("meta_format: %w", err))
	}

	s.Transform.IsSrgb = c.Transform.Srgb
	if s.Transform.Sampler, err = parseSampler(c.Transform.Sampler); err != nil {
		errs = append(errs, err)
	}
	if s.Transform.Usage, err = svgbake.ParseUsageFlags(c.Transform.Usage); err != nil {
		errs = append(errs, fmt.Errorf("transform.usage: %w", err))
	}
	if c.Transform.Container != "" {
		if s.Transform.Format.Container, err = svgbake.ParseContainerFormat(c.Transform.Container); err != nil {
			errs = append(errs, fmt.Errorf("transform.container: %w", err))
		}
	}
	if s.Transform.Format.Compressed, err = svgbake.ParseCompressedFormats(c.Transform.Compressed); err != nil {
		errs = append(errs, fmt.Errorf("transform.compressed: %w", err))
	}

	if s.Encode.Compression, err = svgbake.ParseCompressionLevel(c.Encode.Compression); err != nil {
		errs = append(errs, fmt.Errorf("encode.compression: %w", err))
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		if !errors.Is(err, svgbake.ErrConfig) {
			err = fmt.Errorf("%w: %w", svgbake.ErrConfig, err)
		}
		return Settings{}, err
	}
	return s, nil
}

func resolveLoad(defaultSize string) (svgbake.LoadSettings, error) {
	if strings.TrimSpace(defaultSize) == "" {
		return svgbake.DefaultLoadSettings()
	}
	d, err := svgbake.ParseDefaultSize(defaultSize)
	if err != nil {
		return svgbake.LoadSettings{}, err
	}
	return svgbake.LoadSettingsFor(d)
}

func parseSampler(s string) (svgbake.Sampler, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "":
		return svgbake.DefaultSampler(), nil
	case "nearest":
		return svgbake.DescriptorSampler(gputypes.DefaultSamplerDescriptor()), nil
	case "linear":
		return svgbake.DescriptorSampler(gputypes.LinearSamplerDescriptor()), nil
	default:
		return svgbake.Sampler{}, fmt.Errorf("transform.sampler must be one of default, nearest, linear, got %q", s)
	}
}
