// Package probe discovers which compressed texture families the rendering
// environment supports and turns the answer into a svgbake.CapabilityProbe.
//
// Every function here degrades to svgbake.NoCapabilities instead of
// failing: an asset build must work on machines without a GPU.
package probe

import (
	"context"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/svgbake"
	"github.com/gogpu/wgpu"

	// Vulkan HAL registration.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// featureSource is anything that reports device features: *wgpu.Adapter,
// *wgpu.Device and most gpucontext device handles.
type featureSource interface {
	Features() gputypes.Features
}

// Info describes the adapter a probe was taken from.
type Info struct {
	Name       string
	Vendor     string
	DeviceType gputypes.DeviceType
	Backend    gputypes.Backend
	Features   gputypes.Features
}

// Options configures Adapter.
type Options struct {
	// PowerPreference selects between integrated and discrete adapters.
	PowerPreference gputypes.PowerPreference

	// ForceFallbackAdapter requests the software adapter.
	ForceFallbackAdapter bool
}

// requestFunc opens an adapter and reports its features. Replaced in tests.
type requestFunc func(opts Options) (Info, error)

var requestAdapter requestFunc = requestWGPUAdapter

// Adapter requests a wgpu adapter and derives the capability set from its
// features. Any failure, including a panic in the driver layer, yields
// svgbake.NoCapabilities. The adapter is released before returning.
func Adapter(ctx context.Context, opts ...Options) svgbake.CapabilityProbe {
	p, _, _ := AdapterInfo(ctx, opts...)
	return p
}

// AdapterInfo is Adapter plus a description of the adapter used. The error
// reports why the probe fell back; the returned probe is valid either way.
func AdapterInfo(ctx context.Context, opts ...Options) (svgbake.CapabilityProbe, Info, error) {
	log := svgbake.Logger()

	if err := ctx.Err(); err != nil {
		log.Warn("probe: cancelled, assuming no compressed formats", "err", err)
		return svgbake.NoCapabilities(), Info{}, err
	}

	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	info, err := safeRequest(o)
	if err != nil {
		log.Warn("probe: no adapter, assuming no compressed formats", "err", err)
		return svgbake.NoCapabilities(), Info{}, err
	}

	p := svgbake.CapabilityFromFeatures(info.Features)
	log.Info("probe: adapter capabilities",
		"adapter", info.Name,
		"vendor", info.Vendor,
		"type", info.DeviceType,
		"backend", info.Backend,
		"compressed", p.Supported())
	return p, info, nil
}

// safeRequest calls requestAdapter, converting panics into errors.
func safeRequest(opts Options) (info Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe: adapter request panicked: %v", r)
		}
	}()
	return requestAdapter(opts)
}

// requestWGPUAdapter creates an instance, requests an adapter and releases
// both in reverse order.
func requestWGPUAdapter(opts Options) (Info, error) {
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return Info{}, fmt.Errorf("probe: instance creation failed: %w", err)
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      opts.PowerPreference,
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
	})
	if err != nil {
		return Info{}, fmt.Errorf("probe: request adapter: %w", err)
	}
	if adapter == nil {
		return Info{}, fmt.Errorf("probe: request adapter: %w", wgpu.ErrNoAdapters)
	}
	defer adapter.Release()

	ai := adapter.Info()
	return Info{
		Name:       ai.Name,
		Vendor:     ai.Vendor,
		DeviceType: ai.DeviceType,
		Backend:    ai.Backend,
		Features:   adapter.Features(),
	}, nil
}

// FromDeviceProvider derives the capability set from a device shared by a
// host application. The device, or failing that the adapter, must expose
// Features() gputypes.Features; otherwise, and for a nil provider, the
// result is svgbake.NoCapabilities.
func FromDeviceProvider(provider gpucontext.DeviceProvider) svgbake.CapabilityProbe {
	if provider == nil {
		return svgbake.NoCapabilities()
	}

	log := svgbake.Logger()
	info := provider.AdapterInfo()

	for _, handle := range []any{provider.Device(), provider.Adapter()} {
		if src, ok := handle.(featureSource); ok {
			p := svgbake.CapabilityFromFeatures(src.Features())
			log.Info("probe: device provider capabilities",
				"adapter", info.Name,
				"type", info.Type,
				"compressed", p.Supported())
			return p
		}
	}

	log.Warn("probe: device provider exposes no features, assuming no compressed formats",
		"adapter", info.Name)
	return svgbake.NoCapabilities()
}

// FromFeatures is svgbake.CapabilityFromFeatures, for callers that already
// hold a feature set.
func FromFeatures(features gputypes.Features) svgbake.CapabilityProbe {
	return svgbake.CapabilityFromFeatures(features)
}
