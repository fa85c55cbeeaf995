package main

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/svgbake"
	"github.com/gogpu/svgbake/internal/parallel"
	"github.com/gogpu/svgbake/meta"
)

// asset is one source file and where its artifact goes.
type asset struct {
	Source string
	Output string
}

// result is the outcome of one asset.
type result struct {
	Asset  asset
	Reload svgbake.ReloadSettings
	Err    error
}

// discover expands inputs into assets. Directories are walked and only
// files with a registered loader are kept; files named explicitly are kept
// as given so an unsupported extension is reported. Outputs mirror each
// directory's layout under outDir.
func discover(inputs []string, outDir string) ([]asset, error) {
	var assets []asset
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", svgbake.ErrIO, err)
		}

		if !info.IsDir() {
			assets = append(assets, asset{Source: in, Output: outputPath(outDir, filepath.Base(in))})
			continue
		}

		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, err := svgbake.LoaderFor(path); err != nil {
				return nil
			}
			rel, err := filepath.Rel(in, path)
			if err != nil {
				return err
			}
			assets = append(assets, asset{Source: path, Output: outputPath(outDir, rel)})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", svgbake.ErrIO, err)
		}
	}
	return assets, nil
}

// outputPath swaps the source extension for the artifact container's.
func outputPath(outDir, rel string) string {
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(outDir, base+"."+svgbake.ContainerPNG.Extension())
}

// builder processes assets with one shared transformer.
type builder struct {
	settings    Settings
	transformer svgbake.Transformer
	encoder     svgbake.Encoder
}

func newBuilder(settings Settings, probe svgbake.CapabilityProbe) *builder {
	return &builder{
		settings:    settings,
		transformer: svgbake.NewRasterTransformer(probe),
		encoder:     svgbake.PNGEncoder{},
	}
}

// build runs every asset on a bounded pool. Results are in asset order.
func (b *builder) build(ctx context.Context, assets []asset) []result {
	pool := parallel.NewPool(b.settings.Workers)
	defer pool.Close()

	results := make([]result, len(assets))
	jobs := make([]parallel.Job, len(assets))
	for i, a := range assets {
		results[i].Asset = a
		jobs[i] = func(ctx context.Context) error {
			reload, err := b.buildOne(ctx, a)
			results[i].Reload = reload
			return err
		}
	}

	for i, err := range pool.Run(ctx, jobs) {
		results[i].Err = err
	}
	return results
}

// buildOne processes a single asset. The artifact and its sidecar appear
// only when every stage succeeded.
func (b *builder) buildOne(ctx context.Context, a asset) (svgbake.ReloadSettings, error) {
	log := svgbake.Logger()

	loader, err := svgbake.LoaderFor(a.Source)
	if err != nil {
		return svgbake.ReloadSettings{}, &svgbake.StageError{Stage: svgbake.StageLoad, Asset: a.Source, Err: err}
	}

	source, err := os.ReadFile(a.Source)
	if err != nil {
		return svgbake.ReloadSettings{}, &svgbake.StageError{
			Stage: svgbake.StageLoad, Asset: a.Source, Err: fmt.Errorf("%w: %w", svgbake.ErrIO, err),
		}
	}

	pipeline := &svgbake.Pipeline{
		Loader:      loader,
		Transformer: b.transformer,
		Encoder:     b.encoder,
	}
	job := svgbake.Job{
		Name:      a.Source,
		Load:      b.settings.Load,
		Transform: b.settings.Transform,
		Encode:    b.settings.Encode,
	}

	var artifact bytes.Buffer
	reload, err := pipeline.Run(ctx, bytes.NewReader(source), &artifact, job)
	if err != nil {
		return svgbake.ReloadSettings{}, err
	}

	sidecar, err := meta.Marshal(b.settings.MetaFormat, meta.New(a.Source, source, reload))
	if err != nil {
		return svgbake.ReloadSettings{}, &svgbake.StageError{
			Stage: svgbake.StageEncode, Asset: a.Source, Err: fmt.Errorf("%w: %w", svgbake.ErrEncode, err),
		}
	}

	if err := writePair(a.Output, artifact.Bytes(), meta.PathFor(a.Output), sidecar); err != nil {
		return svgbake.ReloadSettings{}, &svgbake.StageError{Stage: svgbake.StageEncode, Asset: a.Source, Err: err}
	}

	log.Info("svgbake: wrote artifact",
		"source", a.Source,
		"output", a.Output,
		"size", b.settings.Load.TargetSize,
		"bytes", artifact.Len())
	return reload, nil
}

// writeAtomic writes data to a temporary file beside path and renames it
// into place, so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", svgbake.ErrIO, err)
	}
	return nil
}

// writePair places an artifact and its sidecar. Both are staged first; the
// sidecar is renamed before the artifact, and removed again if the artifact
// cannot be placed, so an artifact never appears without its sidecar.
func writePair(artifactPath string, artifact []byte, sidecarPath string, sidecar []byte) error {
	artifactTmp, err := writeTemp(artifactPath, artifact)
	if err != nil {
		return err
	}
	sidecarTmp, err := writeTemp(sidecarPath, sidecar)
	if err != nil {
		os.Remove(artifactTmp)
		return err
	}

	if err := os.Rename(sidecarTmp, sidecarPath); err != nil {
		os.Remove(sidecarTmp)
		os.Remove(artifactTmp)
		return fmt.Errorf("%w: %w", svgbake.ErrIO, err)
	}
	if err := os.Rename(artifactTmp, artifactPath); err != nil {
		os.Remove(artifactTmp)
		os.Remove(sidecarPath)
		return fmt.Errorf("%w: %w", svgbake.ErrIO, err)
	}
	return nil
}

// writeTemp writes data to a new temporary file in path's directory and
// returns its name.
func writeTemp(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", svgbake.ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %w", svgbake.ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %w", svgbake.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %w", svgbake.ErrIO, err)
	}
	return tmpName, nil
}
