package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

type glTexture struct {
	id uint32
}

func textureOf(texture *metadata.Texture) (*glTexture, error) {
	tex, ok := texture.InternalData.(*glTexture)
	if !ok || tex == nil {
		return nil, fmt.Errorf("opengl backend: texture %d has no object: %w", texture.Handle, core.ErrInvalidHandle)
	}
	return tex, nil
}

// filterModes maps a texture filter onto the minification and magnification
// parameters. Magnification only accepts NEAREST or LINEAR.
func filterModes(filter metadata.TextureFilter) (int32, int32, error) {
	switch filter {
	case metadata.TextureFilterNearest:
		return gl.NEAREST, gl.NEAREST, nil
	case metadata.TextureFilterLinear:
		return gl.LINEAR, gl.LINEAR, nil
	case metadata.TextureFilterNearestMipmapNearest:
		return gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST, nil
	case metadata.TextureFilterLinearMipmapNearest:
		return gl.LINEAR_MIPMAP_NEAREST, gl.LINEAR, nil
	case metadata.TextureFilterNearestMipmapLinear:
		return gl.NEAREST_MIPMAP_LINEAR, gl.NEAREST, nil
	case metadata.TextureFilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR, nil
	}
	return 0, 0, fmt.Errorf("opengl backend: %s: %w", filter, core.ErrUnknownTextureFilter)
}

// pixelBufferSize is the byte length of tightly packed 8-bit texels, computed
// in int so large dimensions do not wrap.
func pixelBufferSize(texture *metadata.Texture) int {
	return int(texture.Width) * int(texture.Height) * int(texture.ChannelCount)
}

func (b *Backend) TextureCreate(texture *metadata.Texture, pixels []uint8) error {
	minFilter, magFilter, err := filterModes(texture.Filter)
	if err != nil {
		return err
	}

	var format int32
	switch texture.ChannelCount {
	case 3:
		format = gl.RGB
	case 4:
		format = gl.RGBA
	default:
		return fmt.Errorf("opengl backend: texture %q has %d channels: %w", texture.Name, texture.ChannelCount, core.ErrUnsupportedChannels)
	}
	if len(pixels) < pixelBufferSize(texture) {
		return fmt.Errorf("opengl backend: texture %q pixel buffer too small: %w", texture.Name, core.ErrTextureDecode)
	}

	tex := &glTexture{}
	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	gl.TexImage2D(gl.TEXTURE_2D, 0, format, int32(texture.Width), int32(texture.Height), 0, uint32(format), gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if texture.Filter.IsMipmap() {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	texture.InternalData = tex
	return checkError("texture create")
}

func (b *Backend) TextureDestroy(texture *metadata.Texture) {
	tex, err := textureOf(texture)
	if err != nil {
		return
	}
	gl.DeleteTextures(1, &tex.id)
	texture.InternalData = nil
}

func (b *Backend) TextureUse(texture *metadata.Texture) {
	tex, err := textureOf(texture)
	if err != nil {
		core.LogWarn(err.Error())
		return
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
}
