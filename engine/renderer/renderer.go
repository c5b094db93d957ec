package renderer

import (
	"fmt"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer/memory"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
	"github.com/spaghettifunk/nabla/engine/renderer/opengl"
)

// New returns an uninitialized backend of the requested type.
func New(kind metadata.RendererType) (RendererBackend, error) {
	switch kind {
	case metadata.OpenGL:
		return opengl.New(), nil
	case metadata.Memory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("renderer backend %s: %w", kind, core.ErrUnknownBackend)
}
