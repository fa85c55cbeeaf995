package svgbake

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every per-asset failure wraps exactly one of these, so
// callers classify with errors.Is. Only ErrConfig is fatal.
var (
	// ErrParse indicates malformed or unsupported vector input.
	ErrParse = errors.New("svgbake: parse error")

	// ErrConfig indicates a build configuration that cannot produce a
	// default target size. It is fatal: nothing should be processed.
	ErrConfig = errors.New("svgbake: configuration error")

	// ErrDegenerateSource indicates a scene with a zero, negative or
	// non-finite intrinsic size.
	ErrDegenerateSource = errors.New("svgbake: degenerate source size")

	// ErrAllocation indicates a target pixel buffer that is empty or does
	// not fit the addressable range.
	ErrAllocation = errors.New("svgbake: pixel buffer allocation failed")

	// ErrRender indicates the rasterizer failed on the scene.
	ErrRender = errors.New("svgbake: rasterization failed")

	// ErrEncode indicates the pixel buffer could not be serialized.
	ErrEncode = errors.New("svgbake: encode failed")

	// ErrIO indicates a failure reading the source stream or writing the
	// output stream.
	ErrIO = errors.New("svgbake: i/o error")

	// ErrUnsupportedExtension is returned when no loader is registered for
	// a source file extension.
	ErrUnsupportedExtension = errors.New("svgbake: unsupported extension")
)

// IsFatal reports whether err must abort the whole build rather than a
// single asset.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig)
}

// Stage names one step of the pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageLoad      Stage = "load"
	StageTransform Stage = "transform"
	StageEncode    Stage = "encode"
)

// StageError records which stage of which asset failed. It unwraps to the
// stage's error, so errors.Is(err, ErrParse) and friends keep working.
type StageError struct {
	Stage Stage
	Asset string
	Err   error
}

func (e *StageError) Error() string {
	if e.Asset == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Asset, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
