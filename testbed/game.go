package testbed

import (
	"fmt"
	gomath "math"

	"github.com/spaghettifunk/nabla/engine"
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/renderer/components"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

const (
	moveSpeed      float32 = 5.0
	lookSpeed      float32 = 90.0
	wavePointCount int     = 64
	atlasCells     int     = 4
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	camera *components.Camera

	textureShader metadata.ShaderHandle
	lineShader    metadata.ShaderHandle
	atlas         metadata.TextureHandle

	grid metadata.DataHandle
	wave metadata.DataHandle
	quad metadata.DataHandle
	axis metadata.DataHandle

	quadTransform math.Transform
	elapsed       float64
	frame         uint64
	mouseCaptured bool
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				quadTransform: math.NewTransformFromPosition(math.NewVec3(0, 0, 1)),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.State.(*gameState)
	rs := g.SystemManager.RendererSystem

	state.camera = g.SystemManager.CameraSystem.GetDefault()

	state.textureShader = rs.LoadShaderFiles("shaders/basic.vert", "shaders/basic.frag")
	if state.textureShader == metadata.InvalidHandle {
		return fmt.Errorf("failed to load the textured shader")
	}
	state.lineShader = rs.LoadShaderFiles("shaders/line.vert", "shaders/line.frag")
	if state.lineShader == metadata.InvalidHandle {
		return fmt.Errorf("failed to load the line shader")
	}

	state.atlas = rs.LoadTexture("textures/atlas.png", metadata.TextureFilterNearest)
	if state.atlas == metadata.InvalidHandle {
		core.LogWarn("atlas.png is missing, using a generated checkerboard")
		state.atlas = rs.CreateTexture("checkerboard", 64, 64, 4, checkerboard(64, 64, 8), metadata.TextureFilterNearest)
	}

	gridPoints, gridIndices := math.GenerateGrid(20, 20)
	state.grid = rs.LoadData(math.FlattenPoints(gridPoints), gridIndices, metadata.DrawModeLines, metadata.DataUsageStatic)

	axisPoints, axisIndices := math.GenerateAxisLine()
	state.axis = rs.LoadData(math.FlattenPoints(axisPoints), axisIndices, metadata.DrawModeLines, metadata.DataUsageStatic)

	points, indices := wave(wavePointCount, 0)
	state.wave = rs.LoadData(points, indices, metadata.DrawModeLines, metadata.DataUsageDynamic)

	quadVertices, quadIndices := math.GenerateIndexedQuad(2, 2)
	state.quad = rs.LoadData(math.FlattenVertices(quadVertices), quadIndices, metadata.DrawModeTriangles, metadata.DataUsageStatic)

	for _, h := range []metadata.DataHandle{state.grid, state.axis, state.wave, state.quad} {
		if h == metadata.InvalidHandle {
			return fmt.Errorf("failed to upload the testbed geometry")
		}
	}
	return nil
}

func (g *TestGame) Update(deltaTime float64, input *core.InputState) error {
	state := g.State.(*gameState)
	dt := float32(deltaTime)
	state.elapsed += deltaTime
	state.frame++

	move := input.GetAxis(core.AxisLeft)
	state.camera.MoveForward(move.Y * moveSpeed * dt)
	state.camera.MoveRight(move.X * moveSpeed * dt)
	if input.KeyHeld(core.KeySpace) {
		state.camera.MoveUp(moveSpeed * dt)
	}
	if input.KeyHeld(core.KeyLCtrl) {
		state.camera.MoveUp(-moveSpeed * dt)
	}

	look := input.GetAxis(core.AxisRight)
	if look.X != 0 {
		state.camera.Rotate(-look.X*lookSpeed*dt, math.NewVec3UpZ())
	}
	if state.mouseCaptured {
		delta := input.GetMouseDelta()
		state.camera.Rotate(-delta.X*lookSpeed, math.NewVec3UpZ())
		state.camera.Rotate(-delta.Y*lookSpeed, state.camera.GetRight())
	}

	if input.KeyDown(core.KeyTab) {
		state.mouseCaptured = !state.mouseCaptured
		g.SystemManager.RendererSystem.SetMouseCapture(state.mouseCaptured)
	}
	if input.KeyDown(core.KeyEnter) {
		state.camera.Reset()
	}

	state.quadTransform.Rotate(45*dt, math.NewVec3UpZ())

	// The point count cycles so the dynamic buffer has to grow now and then.
	count := wavePointCount * (1 + int(state.elapsed/4)%3)
	points, indices := wave(count, float32(state.elapsed))
	g.SystemManager.RendererSystem.UpdateData(state.wave, points, indices)
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.State.(*gameState)
	rs := g.SystemManager.RendererSystem
	identity := math.NewMat4Identity()

	rs.UseShader(state.lineShader)
	rs.DrawData(state.grid, state.camera, identity, metadata.DrawParameters{
		Color: math.NewVec4Create(0.4, 0.4, 0.45, 1),
	})
	rs.DrawData(state.axis, state.camera, math.NewMat4Scale(math.NewVec3(5, 5, 5)), metadata.DrawParameters{
		Color:     math.NewVec4Create(0.9, 0.2, 0.2, 1),
		LineWidth: 2,
	})
	rs.DrawData(state.wave, state.camera, math.NewMat4Translation(math.NewVec3(0, 4, 0)), metadata.DrawParameters{
		Color:     math.NewVec4Create(0.2, 0.8, 0.9, 1),
		LineWidth: 3,
	})

	rs.UseShader(state.textureShader)
	rs.UseTexture(state.atlas)
	cell := int(state.elapsed) % (atlasCells * atlasCells)
	rs.DrawData(state.quad, state.camera, state.quadTransform.GetMatrix(), metadata.DrawParameters{
		Atlas: atlasCell(cell, atlasCells),
	})
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	core.LogDebug("TestGame resized to %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	rs := g.SystemManager.RendererSystem
	for _, h := range []metadata.DataHandle{state.grid, state.axis, state.wave, state.quad} {
		rs.DeleteData(h)
	}
	rs.DeleteTexture(state.atlas)
	rs.DeleteShader(state.textureShader)
	rs.DeleteShader(state.lineShader)
	return nil
}

// wave returns a sine curve along X as a line list.
func wave(count int, phase float32) ([]float32, []uint32) {
	points := make([]math.Vec3, count)
	for i := range points {
		x := float32(i)/float32(count-1)*10 - 5
		y := float32(gomath.Sin(float64(x + phase*2)))
		points[i] = math.NewVec3(x, 0, y)
	}
	indices := make([]uint32, 0, (count-1)*2)
	for i := 0; i < count-1; i++ {
		indices = append(indices, uint32(i), uint32(i+1))
	}
	return math.FlattenPoints(points), indices
}

// atlasCell returns the uv rectangle of a cell in a cells x cells grid, row major from the top.
func atlasCell(index, cells int) math.Vec4 {
	size := 1.0 / float32(cells)
	col := index % cells
	row := cells - 1 - index/cells
	return math.NewVec4Create(float32(col)*size, float32(row)*size, size, size)
}

func checkerboard(width, height, square int) []uint8 {
	pixels := make([]uint8, 0, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(40)
			if (x/square+y/square)%2 == 0 {
				v = 220
			}
			pixels = append(pixels, v, v, v, 255)
		}
	}
	return pixels
}
