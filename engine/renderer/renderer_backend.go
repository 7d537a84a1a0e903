package renderer

import (
	"fmt"
	"strings"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode converts a configuration value ("vsync" or "uncapped") into a PresentMode.
//
// Parameters:
//   - s: the mode name, case insensitive
//
// Returns:
//   - PresentMode: the parsed mode
//   - error: error if the name is unknown
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vsync", "fifo":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	default:
		return PresentModeVSync, fmt.Errorf("unknown present mode %q", s)
	}
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// ParseMSAA converts a sample count from configuration. Zero means off.
//
// Parameters:
//   - samples: 0, 1, 4, 8 or 16
//
// Returns:
//   - MSAASampleCount: the sample count
//   - error: error for any other value
func ParseMSAA(samples int) (MSAASampleCount, error) {
	switch samples {
	case 0, 1:
		return MSAAOff, nil
	case 4, 8, 16:
		return MSAASampleCount(samples), nil
	default:
		return MSAAOff, fmt.Errorf("unsupported msaa sample count %d, want 1, 4, 8 or 16", samples)
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
