package core

import (
	"errors"
)

var (
	ErrInvalidHandle         = errors.New("invalid handle")
	ErrStaticData            = errors.New("data was created as static")
	ErrInvalidVertexData     = errors.New("vertex data does not match the draw mode layout")
	ErrIndexOutOfRange       = errors.New("index refers to a vertex out of range")
	ErrShaderCompile         = errors.New("shader compilation failed")
	ErrShaderLink            = errors.New("shader program linking failed")
	ErrTextureDecode         = errors.New("texture could not be decoded")
	ErrUnsupportedChannels   = errors.New("unsupported image channel count")
	ErrUnknownTextureFilter  = errors.New("unknown texture filter")
	ErrBackendInitialization = errors.New("renderer backend failed to initialize")
	ErrUnknownBackend        = errors.New("unknown renderer backend")
	ErrUnknown               = errors.New("unknown")
)
