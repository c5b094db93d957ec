package metadata

/** @brief Uniform names every engine shader may declare. */
const (
	UniformModelViewProjection string = "u_ModelViewProjectionMatrix"
	UniformTexture             string = "u_Texture"
	UniformAtlasInfo           string = "u_AtlasInfo"
	UniformColor               string = "u_Color"
)

/** @brief Location reported for a uniform the program does not declare. */
const UniformLocationNone int32 = -1

/**
 * @brief Cached uniform locations of a linked program. A location of -1 means
 * the program does not use that uniform and writes to it are skipped.
 */
type ShaderUniformLocations struct {
	ModelViewProjection int32
	Texture             int32
	AtlasInfo           int32
	Color               int32
}

func NoUniformLocations() ShaderUniformLocations {
	return ShaderUniformLocations{
		ModelViewProjection: UniformLocationNone,
		Texture:             UniformLocationNone,
		AtlasInfo:           UniformLocationNone,
		Color:               UniformLocationNone,
	}
}

type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	if s == ShaderStageVertex {
		return "vertex"
	}
	return "fragment"
}

/**
 * @brief Represents a linked shader program on the frontend.
 */
type Shader struct {
	Handle ShaderHandle
	Name   string

	/** @brief Source files, empty when the program was built from strings. */
	VertexPath   string
	FragmentPath string

	/** @brief Incremented every time the program is rebuilt from source. */
	Generation uint32

	Locations ShaderUniformLocations

	/** @brief Backend-specific program object. */
	InternalData interface{}
}

/** @brief Reports whether the shader was loaded from files and can be hot reloaded. */
func (s *Shader) HasSourceFiles() bool {
	return s.VertexPath != "" && s.FragmentPath != ""
}
