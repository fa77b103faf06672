package shader

import "errors"

var (
	// ErrEmptyName is returned when a binding is registered without a
	// shader variable name.
	ErrEmptyName = errors.New("shader variable name is empty")
	// ErrEmptyKey is returned when a binding is registered without a data key.
	ErrEmptyKey = errors.New("data key is empty")
	// ErrTextureNotReady aborts a render before any GL call when a bound
	// texture is missing from the material or has no pixels yet.
	ErrTextureNotReady = errors.New("texture not ready")
	// ErrTextureUnitsExhausted means more textures are bound than the
	// platform has texture units.
	ErrTextureUnitsExhausted = errors.New("texture units exhausted")
	// ErrDestroyed is returned by Render after Destroy.
	ErrDestroyed = errors.New("shader destroyed")
	// ErrTextureGone means a texture passed the readiness check but had no GL
	// name when it was bound, usually because it was recycled in between.
	ErrTextureGone = errors.New("texture has no GL name")
	// ErrNoMesh is returned when the render data carries no mesh.
	ErrNoMesh = errors.New("render data has no mesh")
)
