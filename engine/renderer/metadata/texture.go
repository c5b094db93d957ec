package metadata

import "fmt"

/** @brief Minification and magnification filtering, fixed at load time. */
type TextureFilter int

const (
	TextureFilterNearest TextureFilter = iota
	TextureFilterLinear
	TextureFilterNearestMipmapNearest
	TextureFilterLinearMipmapNearest
	TextureFilterNearestMipmapLinear
	TextureFilterLinearMipmapLinear
)

/** @brief Reports whether the value is one of the known filters. */
func (f TextureFilter) IsValid() bool {
	return f >= TextureFilterNearest && f <= TextureFilterLinearMipmapLinear
}

/** @brief Mipmap filters require mipmaps to be generated on upload. */
func (f TextureFilter) IsMipmap() bool {
	return f >= TextureFilterNearestMipmapNearest && f <= TextureFilterLinearMipmapLinear
}

func (f TextureFilter) String() string {
	switch f {
	case TextureFilterNearest:
		return "nearest"
	case TextureFilterLinear:
		return "linear"
	case TextureFilterNearestMipmapNearest:
		return "nearest_mipmap_nearest"
	case TextureFilterLinearMipmapNearest:
		return "linear_mipmap_nearest"
	case TextureFilterNearestMipmapLinear:
		return "nearest_mipmap_linear"
	case TextureFilterLinearMipmapLinear:
		return "linear_mipmap_linear"
	}
	return fmt.Sprintf("TextureFilter(%d)", int(f))
}

/**
 * @brief Represents a texture.
 */
type Texture struct {
	Handle TextureHandle
	/** @brief The texture Name, the source path for file textures. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels, 3 or 4. */
	ChannelCount uint8
	Filter       TextureFilter
	/** @brief Backend-specific texture object. */
	InternalData interface{}
}

/** @brief Dimensions of a live texture. */
type TextureInfo struct {
	Width    uint32
	Height   uint32
	Channels uint8
}
