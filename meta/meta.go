// Package meta reads and writes the sidecar file recorded next to each
// processed artifact.
//
// The sidecar tells the downstream bitmap loader how to reinterpret the
// artifact (the svgbake.ReloadSettings) and identifies the source it was
// built from by path and keyed BLAKE3 hash. It is stored as YAML for
// humans or CBOR for tools.
package meta

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/gogpu/svgbake"
	"gopkg.in/yaml.v3"
)

// Version is the sidecar format version written by this package.
const Version = "1.0"

// LoaderImage names the downstream loader that consumes PNG artifacts.
const LoaderImage = "image"

// Extension is appended to an artifact path to name its sidecar.
const Extension = ".meta"

var (
	// ErrUnknownFormat is returned for an unrecognized sidecar encoding.
	ErrUnknownFormat = errors.New("meta: unknown format")

	// ErrVersion is returned when a sidecar was written by an incompatible version.
	ErrVersion = errors.New("meta: unsupported version")
)

// Format is a sidecar encoding.
type Format uint8

const (
	FormatYAML Format = iota
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ParseFormat parses "yaml" or "cbor".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Source identifies the input an artifact was built from.
type Source struct {
	Path string `yaml:"path" cbor:"path"`
	Hash Hash   `yaml:"hash" cbor:"hash"`
}

// Processed is the sidecar of one processed artifact.
type Processed struct {
	Version  string                 `yaml:"meta_format_version" cbor:"meta_format_version"`
	Loader   string                 `yaml:"loader" cbor:"loader"`
	Settings svgbake.ReloadSettings `yaml:"settings" cbor:"settings"`
	Source   Source                 `yaml:"source" cbor:"source"`
}

// New builds the sidecar for an artifact produced from source.
func New(sourcePath string, source []byte, settings svgbake.ReloadSettings) *Processed {
	return &Processed{
		Version:  Version,
		Loader:   LoaderImage,
		Settings: settings,
		Source: Source{
			Path: sourcePath,
			Hash: HashSource(source),
		},
	}
}

// PathFor returns the sidecar path for an artifact path.
func PathFor(artifactPath string) string {
	return artifactPath + Extension
}

// Matches reports whether source hashes to the recorded source hash.
func (p *Processed) Matches(source []byte) bool {
	return p.Source.Hash == HashSource(source)
}

// encMode writes deterministic CBOR: the same sidecar always produces the
// same bytes.
var encMode cbor.EncMode

// decMode ignores unknown fields so newer sidecars stay readable.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Enum-like settings serialize as their names, as in YAML.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("meta: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("meta: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes p in format.
func Marshal(format Format, p *Processed) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("meta: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("meta: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatCBOR:
		data, err := encMode.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("meta: encode cbor: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// Unmarshal decodes a sidecar written in format and checks its version.
func Unmarshal(format Format, data []byte) (*Processed, error) {
	var p Processed
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("meta: decode yaml: %w", err)
		}
	case FormatCBOR:
		if err := decMode.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("meta: decode cbor: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}

	if major(p.Version) != major(Version) {
		return nil, fmt.Errorf("%w: %q", ErrVersion, p.Version)
	}
	return &p, nil
}

// major returns the part of a version before the first dot.
func major(v string) string {
	m, _, _ := strings.Cut(v, ".")
	return m
}
