package metadata

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/nabla/engine/math"
)

type RendererType uint8

const (
	OpenGL RendererType = iota
	// Memory records draws without a GPU. Used by tests and headless runs.
	Memory
)

func (t RendererType) String() string {
	switch t {
	case OpenGL:
		return "opengl"
	case Memory:
		return "memory"
	}
	return fmt.Sprintf("RendererType(%d)", int(t))
}

// ParseRendererType maps a config value onto a backend type.
func ParseRendererType(name string) (RendererType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "opengl", "gl", "":
		return OpenGL, nil
	case "memory", "headless":
		return Memory, nil
	}
	return OpenGL, fmt.Errorf("unknown renderer backend %q", name)
}

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	/** @brief Initial framebuffer size in pixels. */
	Width  uint32
	Height uint32
	/** @brief Colour the framebuffer is cleared to at the start of a frame. */
	ClearColor math.Vec4
}

/** @brief Describes the active graphics API. */
type RendererInfo struct {
	Name            string
	Version         string
	Vendor          string
	Renderer        string
	ShadingLanguage string
}

func (i RendererInfo) String() string {
	if i.Version == "" {
		return i.Name
	}
	return fmt.Sprintf("%s (%s, %s, %s, GLSL %s)", i.Name, i.Version, i.Vendor, i.Renderer, i.ShadingLanguage)
}

/**
 * @brief Per-draw overrides. A zero value in any field means "not set" and the
 * backend falls back to its default for that uniform or state.
 */
type DrawParameters struct {
	/** @brief Atlas cell as (offset u, offset v, scale u, scale v). */
	Atlas math.Vec4
	/** @brief Tint multiplied with the sampled colour. */
	Color math.Vec4
	/** @brief Line width in pixels, clamped to the supported range. */
	LineWidth float32
}

/** @brief Atlas value that samples the whole texture. */
func DefaultAtlas() math.Vec4 {
	return math.Vec4{X: 0, Y: 0, Z: 1, W: 1}
}

/** @brief Colour value that leaves sampled texels untouched. */
func DefaultColor() math.Vec4 {
	return math.NewVec4One()
}

// ResolveAtlas returns the atlas to upload for a draw.
func (p DrawParameters) ResolveAtlas() math.Vec4 {
	if p.Atlas.IsZero() {
		return DefaultAtlas()
	}
	return p.Atlas
}

// ResolveColor returns the colour to upload for a draw.
func (p DrawParameters) ResolveColor() math.Vec4 {
	if p.Color.IsZero() {
		return DefaultColor()
	}
	return p.Color
}

/**
 * @brief Returns the line width clamped to [min, max], or false when the draw
 * did not request a width.
 */
func (p DrawParameters) ResolveLineWidth(min, max float32) (float32, bool) {
	if p.LineWidth == 0 {
		return 0, false
	}
	return math.Clamp(p.LineWidth, min, max), true
}
