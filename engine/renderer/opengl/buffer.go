package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

const (
	floatSize = 4
	indexSize = 4
)

// glBuffer holds the OpenGL objects behind a data resource.
type glBuffer struct {
	vao uint32
	vbo uint32
	ebo uint32 // 0 until the resource has indices
}

func bufferOf(data *metadata.Data) (*glBuffer, error) {
	buf, ok := data.InternalData.(*glBuffer)
	if !ok || buf == nil {
		return nil, fmt.Errorf("opengl backend: data %d has no buffer: %w", data.Handle, core.ErrInvalidHandle)
	}
	return buf, nil
}

func usageHint(usage metadata.DataUsage) uint32 {
	if usage == metadata.DataUsageDynamic {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func (b *Backend) BufferCreate(data *metadata.Data, vertices []float32, indices []uint32) error {
	buf := &glBuffer{}
	gl.GenVertexArrays(1, &buf.vao)
	gl.GenBuffers(1, &buf.vbo)
	gl.BindVertexArray(buf.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	stride := int32(data.Mode.Stride() * floatSize)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	if data.Mode == metadata.DrawModeTriangles {
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 3*floatSize)
	}

	data.InternalData = buf
	b.upload(data, buf, vertices, indices)

	gl.BindVertexArray(0)
	return checkError("buffer create")
}

func (b *Backend) BufferResize(data *metadata.Data, vertices []float32, indices []uint32) error {
	buf, err := bufferOf(data)
	if err != nil {
		return err
	}
	gl.BindVertexArray(buf.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	b.upload(data, buf, vertices, indices)
	gl.BindVertexArray(0)
	return checkError("buffer resize")
}

func (b *Backend) BufferWrite(data *metadata.Data, vertices []float32, indices []uint32) error {
	buf, err := bufferOf(data)
	if err != nil {
		return err
	}
	gl.BindVertexArray(buf.vao)
	if len(vertices) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*floatSize, gl.Ptr(vertices))
	}
	if len(indices) > 0 && buf.ebo != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*indexSize, gl.Ptr(indices))
	}
	gl.BindVertexArray(0)
	return checkError("buffer write")
}

func (b *Backend) BufferDestroy(data *metadata.Data) {
	buf, err := bufferOf(data)
	if err != nil {
		return
	}
	if buf.ebo != 0 {
		gl.DeleteBuffers(1, &buf.ebo)
	}
	gl.DeleteBuffers(1, &buf.vbo)
	gl.DeleteVertexArrays(1, &buf.vao)
	data.InternalData = nil
}

// upload (re)allocates both buffers at the data's capacities and writes the
// content. The VAO and the vertex buffer must be bound.
func (b *Backend) upload(data *metadata.Data, buf *glBuffer, vertices []float32, indices []uint32) {
	hint := usageHint(data.Usage)

	gl.BufferData(gl.ARRAY_BUFFER, int(data.VertexCapacity*data.Mode.Stride())*floatSize, nil, hint)
	if len(vertices) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*floatSize, gl.Ptr(vertices))
	}

	if data.IndexCapacity == 0 {
		return
	}
	if buf.ebo == 0 {
		gl.GenBuffers(1, &buf.ebo)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, int(data.IndexCapacity)*indexSize, nil, hint)
	if len(indices) > 0 {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*indexSize, gl.Ptr(indices))
	}
}

func checkError(operation string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl backend: %s: error 0x%x", operation, code)
	}
	return nil
}
