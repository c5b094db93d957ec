package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

type ShaderLoader struct{}

// Load reads a GLSL source file. The stage comes from the extension:
// .vert/.vs for vertex, anything else is treated as fragment.
func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader loader: %w", err)
	}
	return &metadata.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data: &metadata.ShaderResourceData{
			Stage:  ShaderStageFromPath(path),
			Source: string(data),
		},
	}, nil
}

func (sl *ShaderLoader) Unload(resource *metadata.Resource) error {
	resource.Data = nil
	return nil
}

func ShaderStageFromPath(path string) metadata.ShaderStage {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert", ".vs":
		return metadata.ShaderStageVertex
	}
	return metadata.ShaderStageFragment
}
