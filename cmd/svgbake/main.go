// Command svgbake rasterizes SVG sources into PNG texture artifacts.
//
// Each input file, or each registered source found under an input
// directory, becomes <out>/<name>.png plus a <name>.png.meta sidecar that
// tells the runtime image loader how to reinterpret the PNG.
//
// Usage:
//
//	svgbake [flags] <file-or-dir>...
//
// The target size comes from --size, the config file's default_size, or
// the size selected at build time:
//
//	go build -ldflags "-X github.com/gogpu/svgbake.selectedDefaultSize=64" ./cmd/svgbake
//
// Without any of them svgbake exits with status 2 before reading an asset.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/svgbake"
	"github.com/gogpu/svgbake/probe"
	"github.com/spf13/pflag"
)

// Exit statuses.
const (
	exitFailed = 1
	exitConfig = 2
)

// exitError carries the process exit status for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(exitFailed)
	}
}

// options holds the parsed command line.
type options struct {
	configPath string
	outDir     string
	verbose    bool
	version    bool
	inputs     []string
}

// parseFlags reads args into opts and applies flag overrides to cfg,
// loading the config file first when --config is given.
func parseFlags(args []string, stderr io.Writer) (*options, *Config, error) {
	var opts options
	var override Config
	override.Transform.Srgb = true

	flagSet := pflag.NewFlagSet("svgbake", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "path to a svgbake.yaml config file")
	flagSet.StringVarP(&opts.outDir, "out", "o", "out", "output directory")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log per-stage diagnostics")
	flagSet.BoolVar(&opts.version, "version", false, "print the version and exit")

	flagSet.StringVarP(&override.DefaultSize, "size", "s", "", "square target size: "+listSizes())
	flagSet.BoolVar(&override.Strict, "strict", false, "fail on unsupported SVG elements")
	flagSet.IntVarP(&override.Workers, "workers", "j", 0, "concurrent assets (0 = GOMAXPROCS)")
	flagSet.StringVar(&override.MetaFormat, "meta-format", "", "sidecar encoding: yaml or cbor")
	flagSet.BoolVar(&override.Transform.Srgb, "srgb", true, "mark artifacts as sRGB encoded")
	flagSet.StringVar(&override.Transform.Sampler, "sampler", "", "sampler: default, nearest or linear")
	flagSet.StringVar(&override.Transform.Usage, "usage", "", "asset usage: main, render or main|render")
	flagSet.StringVar(&override.Transform.Container, "format", "", "requested container: png, ktx2, dds, basis, jpeg, webp")
	flagSet.StringVar(&override.Transform.Compressed, "compressed", "", "accepted compressed families: bc|etc2|astc, all or none")
	flagSet.StringVar(&override.Encode.Compression, "compression", "", "PNG compression: default, none, speed or best")
	flagSet.BoolVar(&override.Probe.Enabled, "probe", true, "query a GPU adapter for compressed format support")
	flagSet.BoolVar(&override.Probe.Fallback, "fallback-adapter", false, "probe the software adapter")
	flagSet.BoolVar(&override.Probe.LowPower, "low-power", false, "prefer an integrated adapter when probing")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return &opts, nil, err
		}
		return nil, nil, &exitError{code: exitConfig, err: err}
	}
	opts.inputs = flagSet.Args()

	cfg := Default()
	if opts.configPath != "" {
		loaded, err := LoadFile(opts.configPath)
		if err != nil {
			return nil, nil, &exitError{code: exitConfig, err: err}
		}
		cfg = loaded
	}

	// Flags override the file only when given.
	set := func(name string, apply func()) {
		if flagSet.Changed(name) {
			apply()
		}
	}
	set("size", func() { cfg.DefaultSize = override.DefaultSize })
	set("strict", func() { cfg.Strict = override.Strict })
	set("workers", func() { cfg.Workers = override.Workers })
	set("meta-format", func() { cfg.MetaFormat = override.MetaFormat })
	set("srgb", func() { cfg.Transform.Srgb = override.Transform.Srgb })
	set("sampler", func() { cfg.Transform.Sampler = override.Transform.Sampler })
	set("usage", func() { cfg.Transform.Usage = override.Transform.Usage })
	set("format", func() { cfg.Transform.Container = override.Transform.Container })
	set("compressed", func() { cfg.Transform.Compressed = override.Transform.Compressed })
	set("compression", func() { cfg.Encode.Compression = override.Encode.Compression })
	set("probe", func() { cfg.Probe.Enabled = override.Probe.Enabled })
	set("fallback-adapter", func() { cfg.Probe.Fallback = override.Probe.Fallback })
	set("low-power", func() { cfg.Probe.LowPower = override.Probe.LowPower })

	return &opts, cfg, nil
}

// run is main without the process exit, so it can be tested.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.version {
		fmt.Fprintf(stdout, "svgbake %s\n", svgbake.Version)
		return nil
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	svgbake.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer svgbake.SetLogger(nil)

	// Configuration problems abort before any asset is touched.
	settings, err := cfg.Resolve()
	if err != nil {
		return &exitError{code: exitConfig, err: err}
	}
	if len(opts.inputs) == 0 {
		return &exitError{code: exitConfig, err: fmt.Errorf("%w: no inputs given", svgbake.ErrConfig)}
	}

	assets, err := discover(opts.inputs, opts.outDir)
	if err != nil {
		return &exitError{code: exitFailed, err: err}
	}

	b := newBuilder(settings, capabilities(ctx, settings.Probe))
	results := b.build(ctx, assets)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			svgbake.Logger().Error("svgbake: asset failed", "source", r.Asset.Source, "err", r.Err)
		}
	}
	svgbake.Logger().Info("svgbake: build finished",
		"assets", len(results),
		"failed", failed)

	if failed > 0 {
		return &exitError{code: exitFailed, err: fmt.Errorf("%d of %d assets failed", failed, len(results))}
	}
	return nil
}

// capabilities returns the probe for this build. A disabled probe
// advertises no compressed formats.
func capabilities(ctx context.Context, cfg ProbeConfig) svgbake.CapabilityProbe {
	if !cfg.Enabled {
		return svgbake.NoCapabilities()
	}
	opts := probe.Options{ForceFallbackAdapter: cfg.Fallback}
	if cfg.LowPower {
		opts.PowerPreference = gputypes.PowerPreferenceLowPower
	} else {
		opts.PowerPreference = gputypes.PowerPreferenceHighPerformance
	}
	return probe.Adapter(ctx, opts)
}

func listSizes() string {
	parts := make([]string, len(svgbake.DefaultSizes))
	for i, d := range svgbake.DefaultSizes {
		parts[i] = strconv.FormatUint(uint64(d), 10)
	}
	return strings.Join(parts, ", ")
}
