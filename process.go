package svgbake

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// Job carries the per-asset settings for one pipeline run.
type Job struct {
	// Name identifies the asset in errors and logs, usually its path.
	Name string

	Load      LoadSettings
	Transform TransformSettings
	Encode    EncodeSettings
}

// Pipeline runs load, transform and encode in sequence.
type Pipeline struct {
	Loader      Loader
	Transformer Transformer
	Encoder     Encoder
}

// NewPipeline returns the SVG to PNG pipeline bound to probe.
func NewPipeline(probe CapabilityProbe, opts ...TransformerOption) *Pipeline {
	return &Pipeline{
		Loader:      SVGLoader{},
		Transformer: NewRasterTransformer(probe, opts...),
		Encoder:     PNGEncoder{},
	}
}

// Run processes one asset from src into dst.
//
// Each stage starts only after the previous one returned. The encoded
// bytes reach dst only after every stage succeeded, so a failed or
// cancelled run leaves dst untouched. Failures are *StageError values
// wrapping the stage's sentinel error.
func (p *Pipeline) Run(ctx context.Context, src io.Reader, dst io.Writer, job Job) (ReloadSettings, error) {
	vector, err := p.Loader.Load(ctx, src, job.Load)
	if err != nil {
		return ReloadSettings{}, &StageError{Stage: StageLoad, Asset: job.Name, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return ReloadSettings{}, &StageError{Stage: StageLoad, Asset: job.Name, Err: err}
	}

	raster, err := p.Transformer.Transform(ctx, vector, job.Transform)
	if err != nil {
		return ReloadSettings{}, &StageError{Stage: StageTransform, Asset: job.Name, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return ReloadSettings{}, &StageError{Stage: StageTransform, Asset: job.Name, Err: err}
	}

	var encoded bytes.Buffer
	reload, err := p.Encoder.Encode(ctx, &encoded, raster, job.Encode)
	if err != nil {
		return ReloadSettings{}, &StageError{Stage: StageEncode, Asset: job.Name, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return ReloadSettings{}, &StageError{Stage: StageEncode, Asset: job.Name, Err: err}
	}

	n, err := dst.Write(encoded.Bytes())
	if err == nil && n != encoded.Len() {
		err = io.ErrShortWrite
	}
	if err != nil {
		return ReloadSettings{}, &StageError{Stage: StageEncode, Asset: job.Name, Err: fmt.Errorf("%w: %w", ErrIO, err)}
	}

	Logger().Debug("svgbake: processed asset",
		"asset", job.Name,
		"size", raster.Size(),
		"bytes", n)
	return reload, nil
}
