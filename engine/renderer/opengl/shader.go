package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

type glProgram struct {
	id uint32
}

func programOf(shader *metadata.Shader) (*glProgram, error) {
	if shader == nil {
		return nil, fmt.Errorf("opengl backend: no program bound: %w", core.ErrInvalidHandle)
	}
	prog, ok := shader.InternalData.(*glProgram)
	if !ok || prog == nil {
		return nil, fmt.Errorf("opengl backend: shader %d has no program: %w", shader.Handle, core.ErrInvalidHandle)
	}
	return prog, nil
}

func (b *Backend) ShaderCreate(shader *metadata.Shader, vertexSource, fragmentSource string) error {
	vert, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("%s: %w", metadata.ShaderStageVertex, err)
	}
	frag, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return fmt.Errorf("%s: %w", metadata.ShaderStageFragment, err)
	}

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(id, logLen, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return fmt.Errorf("%w: %s", core.ErrShaderLink, strings.TrimRight(log, "\x00"))
	}

	shader.Locations = metadata.ShaderUniformLocations{
		ModelViewProjection: uniformLocation(id, metadata.UniformModelViewProjection),
		Texture:             uniformLocation(id, metadata.UniformTexture),
		AtlasInfo:           uniformLocation(id, metadata.UniformAtlasInfo),
		Color:               uniformLocation(id, metadata.UniformColor),
	}
	shader.InternalData = &glProgram{id: id}
	return nil
}

func (b *Backend) ShaderDestroy(shader *metadata.Shader) {
	prog, err := programOf(shader)
	if err != nil {
		return
	}
	gl.DeleteProgram(prog.id)
	shader.InternalData = nil
}

func (b *Backend) ShaderUse(shader *metadata.Shader) {
	prog, err := programOf(shader)
	if err != nil {
		core.LogWarn(err.Error())
		return
	}
	gl.UseProgram(prog.id)
}

func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s", core.ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
