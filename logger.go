package svgbake

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr is read by every pool worker on each stage, so SetLogger may
// swap it mid-build.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs l as the logger for svgbake, probe and cmd/svgbake.
// Pass nil to silence logging again, which is also the default.
//
// What each level carries:
//   - [slog.LevelDebug]: one record per stage and asset from SVGLoader.Load,
//     RasterTransformer.Transform, PNGEncoder.Encode and Pipeline.Run
//     (document title, intrinsic size, scale, buffer bytes, negotiated formats)
//   - [slog.LevelInfo]: the adapter or device a probe read, each artifact written
//     by the CLI, and the build summary
//   - [slog.LevelWarn]: probe fallbacks to no compressed formats
//   - [slog.LevelError]: failed assets in the CLI build summary
//
// The CLI installs a text handler on stderr at Info, or Debug with --verbose:
//
//	svgbake.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger installed by SetLogger. The probe package and
// the CLI log through it too.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
