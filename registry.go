package svgbake

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// LoaderFactory creates a new loader instance.
type LoaderFactory func() Loader

// registry holds loaders keyed by lower-case extension without the dot.
var (
	registryMu sync.RWMutex
	loaders    = make(map[string]LoaderFactory)
)

func init() {
	for _, ext := range svgExtensions {
		RegisterLoader(ext, func() Loader { return SVGLoader{} })
	}
}

// RegisterLoader registers a loader factory for a file extension.
// The extension is matched case-insensitively, with or without a leading
// dot. A later registration for the same extension replaces the earlier.
func RegisterLoader(ext string, factory LoaderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	loaders[normalizeExt(ext)] = factory
}

// UnregisterLoader removes the loader for ext.
// This is useful for testing.
func UnregisterLoader(ext string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(loaders, normalizeExt(ext))
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	exts := make([]string, 0, len(loaders))
	for ext := range loaders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// LoaderFor returns a loader for the extension of path.
// Unknown extensions fail with ErrUnsupportedExtension.
func LoaderFor(path string) (Loader, error) {
	ext := normalizeExt(filepath.Ext(path))

	registryMu.RLock()
	factory, ok := loaders[ext]
	registryMu.RUnlock()

	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, path)
	}
	return factory(), nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
