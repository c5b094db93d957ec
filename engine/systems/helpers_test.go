package systems

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/nabla/engine/assets"
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/platform"
	"github.com/spaghettifunk/nabla/engine/renderer/components"
	"github.com/spaghettifunk/nabla/engine/renderer/memory"
)

const testVertexSource = `#version 410 core
layout(location = 0) in vec3 a_Position;
layout(location = 1) in vec2 a_TexCoord;
uniform mat4 u_ModelViewProjectionMatrix;
uniform vec4 u_AtlasInfo;
out vec2 v_TexCoord;
void main() {
	v_TexCoord = u_AtlasInfo.xy + a_TexCoord * u_AtlasInfo.zw;
	gl_Position = u_ModelViewProjectionMatrix * vec4(a_Position, 1.0);
}
`

const testFragmentSource = `#version 410 core
in vec2 v_TexCoord;
uniform sampler2D u_Texture;
uniform vec4 u_Color;
out vec4 o_Color;
void main() {
	o_Color = texture(u_Texture, v_TexCoord) * u_Color;
}
`

type testRig struct {
	renderer *RendererSystem
	backend  *memory.Backend
	platform *platform.HeadlessPlatform
	assets   *assets.AssetManager
	baseDir  string
	camera   *components.Camera
}

// newTestRig wires the resource systems to the memory backend and a headless
// window, with assets read from a fresh temporary directory.
func newTestRig(t *testing.T) *testRig {
	t.Helper()
	base := t.TempDir()

	am, err := assets.NewAssetManager(base, false)
	if err != nil {
		t.Fatalf("NewAssetManager() error = %v", err)
	}
	if err := am.Initialize(); err != nil {
		t.Fatalf("AssetManager.Initialize() error = %v", err)
	}

	p := platform.NewHeadlessPlatform(0, nil)
	if err := p.Startup(platform.Config{Width: 1280, Height: 720}); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	backend := memory.New()

	js, err := NewJobSystem(2, 4)
	if err != nil {
		t.Fatalf("NewJobSystem() error = %v", err)
	}
	ds, err := NewDataSystem(&DataSystemConfig{MaxDataCount: 64}, backend)
	if err != nil {
		t.Fatalf("NewDataSystem() error = %v", err)
	}
	ss, err := NewShaderSystem(&ShaderSystemConfig{MaxShaderCount: 16}, backend, am)
	if err != nil {
		t.Fatalf("NewShaderSystem() error = %v", err)
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 16}, backend, js, am)
	if err != nil {
		t.Fatalf("NewTextureSystem() error = %v", err)
	}
	rs, err := NewRendererSystem(&RendererSystemConfig{
		ApplicationName: "test",
		Width:           1280,
		Height:          720,
		ClearColor:      math.NewVec4Create(0.1, 0.2, 0.3, 1),
	}, backend, p, ds, ss, ts)
	if err != nil {
		t.Fatalf("NewRendererSystem() error = %v", err)
	}
	if err := rs.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	t.Cleanup(func() {
		js.Shutdown()
		rs.Shutdown()
		am.Shutdown()
	})

	return &testRig{
		renderer: rs,
		backend:  backend,
		platform: p,
		assets:   am,
		baseDir:  base,
		camera:   components.NewCamera(math.NewVec3(0, 0, 5), math.NewVec3Zero(), components.DefaultProjectionSettings()),
	}
}

// bindShader loads the test program and makes it current.
func (r *testRig) bindShader(t *testing.T) {
	t.Helper()
	handle := r.renderer.LoadShader(testVertexSource, testFragmentSource)
	if handle == 0 {
		t.Fatalf("LoadShader() returned the invalid handle")
	}
	r.renderer.UseShader(handle)
}

// captureLogs redirects the engine logger into a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	core.SetLogOutput(buf)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })
	return buf
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// writeRawPNG writes an 8-bit PNG with the given IHDR colour type, so the
// stored channel layout does not depend on what png.Encode picks.
func writeRawPNG(t *testing.T, path string, width, height int, colorType byte, pixels []byte) {
	t.Helper()
	chunk := func(out *bytes.Buffer, kind string, data []byte) {
		binary.Write(out, binary.BigEndian, uint32(len(data)))
		body := append([]byte(kind), data...)
		out.Write(body)
		binary.Write(out, binary.BigEndian, crc32.ChecksumIEEE(body))
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(height))
	ihdr[8] = 8
	ihdr[9] = colorType

	stride := len(pixels) / height
	var idat bytes.Buffer
	zw := zlib.NewWriter(&idat)
	for y := 0; y < height; y++ {
		zw.Write([]byte{0})
		zw.Write(pixels[y*stride : (y+1)*stride])
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	out.WriteString("\x89PNG\r\n\x1a\n")
	chunk(out, "IHDR", ihdr)
	chunk(out, "IDAT", idat.Bytes())
	chunk(out, "IEND", nil)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// solidImage returns a width x height image filled with c.
func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// quadVertices is two triangles of a unit quad, 6 vertices.
func quadVertices() []float32 {
	return math.FlattenVertices(math.GenerateQuad(1, 1))
}
