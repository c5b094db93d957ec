package loaders

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// PNG IHDR colour types.
const (
	pngColorGray      = 0
	pngColorRGB       = 2
	pngColorPalette   = 3
	pngColorGrayAlpha = 4
	pngColorRGBA      = 6
)

type ImageLoader struct{}

/**
 * @brief Decodes PNG, JPEG, BMP, TIFF or WebP into tightly packed 8-bit rows.
 * The channel count is the one stored in the file, not the one the pixels
 * happen to need: an RGBA file whose pixels are all opaque still reports 4.
 * Grayscale (1) and gray+alpha (2) are reported as such and left to the
 * caller to reject.
 */
func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	flipY := false
	if typedParams, ok := params.(*metadata.ImageResourceParams); ok && typedParams != nil {
		flipY = typedParams.FlipY
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image loader: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image loader: %s: %v: %w", path, err, core.ErrTextureDecode)
	}

	data := decodePixels(img, fileChannelCount(raw, img.ColorModel()), flipY)
	core.LogDebug("Decoded %s image %s (%dx%d, %d channels)", format, path, data.Width, data.Height, data.ChannelCount)

	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (il *ImageLoader) Unload(resource *metadata.Resource) error {
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// fileChannelCount reads the PNG colour type from the IHDR chunk when there is
// one and falls back to the colour model of the decoded image. Paletted
// images carry their tRNS alpha in that model.
func fileChannelCount(raw []byte, model color.Model) uint8 {
	if len(raw) >= 26 && bytes.HasPrefix(raw, pngSignature) && string(raw[12:16]) == "IHDR" {
		switch raw[25] {
		case pngColorGray:
			return 1
		case pngColorRGB:
			return 3
		case pngColorPalette:
			return paletteChannelCount(model)
		case pngColorGrayAlpha:
			return 2
		case pngColorRGBA:
			return 4
		}
	}
	return modelChannelCount(model)
}

func modelChannelCount(model color.Model) uint8 {
	switch model {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.YCbCrModel, color.CMYKModel:
		return 3
	}
	if _, ok := model.(color.Palette); ok {
		return paletteChannelCount(model)
	}
	return 4
}

// A palette with any translucent entry (PNG tRNS) counts as RGBA.
func paletteChannelCount(model color.Model) uint8 {
	palette, ok := model.(color.Palette)
	if !ok {
		return 3
	}
	for _, c := range palette {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return 4
		}
	}
	return 3
}

func decodePixels(img image.Image, channels uint8, flipY bool) *metadata.ImageResourceData {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Normalise every source model to non-premultiplied RGBA first.
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	pixels := make([]uint8, 0, width*height*int(channels))
	for row := 0; row < height; row++ {
		y := row
		if flipY {
			y = height - 1 - row
		}
		line := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		for x := 0; x < width; x++ {
			px := line[x*4 : x*4+4]
			switch channels {
			case 1:
				pixels = append(pixels, px[0])
			case 2:
				pixels = append(pixels, px[0], px[3])
			case 3:
				pixels = append(pixels, px[0], px[1], px[2])
			default:
				pixels = append(pixels, px[0], px[1], px[2], px[3])
			}
		}
	}

	return &metadata.ImageResourceData{
		ChannelCount: channels,
		Width:        uint32(width),
		Height:       uint32(height),
		Pixels:       pixels,
	}
}
