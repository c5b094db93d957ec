package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/renderer/components"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

type CameraConfig struct {
	Position [3]float32 `toml:"position"`
	// Euler angles in degrees.
	Rotation [3]float32 `toml:"rotation"`
	FOV      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
}

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"height"`
	LogLevel    string `toml:"log_level"`
	// "opengl" or "memory".
	Backend    string     `toml:"backend"`
	VSync      bool       `toml:"vsync"`
	ClearColor [4]float32 `toml:"clear_color"`
	AssetDir   string     `toml:"asset_dir"`
	// Reload shaders when their files change.
	WatchAssets bool `toml:"watch_assets"`
	// Frames to run without a window. Zero opens a real window.
	HeadlessFrames uint64       `toml:"headless_frames"`
	Camera         CameraConfig `toml:"camera"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:        "Nabla",
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		LogLevel:    "info",
		Backend:     metadata.OpenGL.String(),
		VSync:       true,
		ClearColor:  [4]float32{0.1, 0.1, 0.12, 1.0},
		AssetDir:    "assets",
		WatchAssets: true,
		Camera: CameraConfig{
			Position: [3]float32{0, -10, 5},
			Rotation: [3]float32{63.5, 0, 0},
			FOV:      45,
			Near:     0.1,
			Far:      100,
		},
	}
}

/**
 * @brief Reads a TOML file over the defaults. Keys missing from the file keep
 * their default value.
 */
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.StartWidth, c.StartHeight)
	}
	if _, err := c.RendererType(); err != nil {
		return err
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip range [%v, %v] is invalid", c.Camera.Near, c.Camera.Far)
	}
	return nil
}

func (c *ApplicationConfig) RendererType() (metadata.RendererType, error) {
	return metadata.ParseRendererType(c.Backend)
}

func (c *ApplicationConfig) Level() core.LogLevel {
	return core.ParseLogLevel(c.LogLevel)
}

func (c *ApplicationConfig) ClearColorVec() math.Vec4 {
	return math.NewVec4Create(c.ClearColor[0], c.ClearColor[1], c.ClearColor[2], c.ClearColor[3])
}

// Projection derives the projection settings for the initial window size.
func (c *ApplicationConfig) Projection() components.ProjectionSettings {
	settings := components.DefaultProjectionSettings()
	if c.Camera.FOV > 0 {
		settings.FOV = c.Camera.FOV
	}
	settings.Near = c.Camera.Near
	settings.Far = c.Camera.Far
	if c.StartHeight > 0 {
		settings.AspectRatio = float32(c.StartWidth) / float32(c.StartHeight)
	}
	return settings
}
