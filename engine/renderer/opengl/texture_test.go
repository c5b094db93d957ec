package opengl

import (
	"testing"

	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

func TestPixelBufferSize(t *testing.T) {
	tests := []struct {
		name                    string
		width, height, channels uint32
		want                    int
	}{
		{"rgb", 4, 2, 3, 24},
		{"rgba", 128, 128, 4, 65536},
		{"past uint32", 65536, 65536, 4, 65536 * 65536 * 4},
	}
	for _, tt := range tests {
		texture := &metadata.Texture{Width: tt.width, Height: tt.height, ChannelCount: uint8(tt.channels)}
		if got := pixelBufferSize(texture); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}
