package assets

import "github.com/spaghettifunk/nabla/engine/renderer/metadata"

// Loader turns a file into a Resource. Data holds a loader-specific payload,
// for example *metadata.ImageResourceData for images.
type Loader interface {
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
