package graphics

import "cogentcore.org/core/math32"

// Texture is a GPU texture a shader can sample.
type Texture interface {
	// IsReady reports whether pixel data is available for upload or uploaded.
	IsReady() bool
	// Target is the bind target, Texture2D or TextureCubeMap.
	Target() uint32
	// ID runs any pending upload and returns the texture name. It returns 0
	// when the texture has been recycled. Call it on the GL goroutine.
	ID() uint32
}

// Material holds the values a shader reads by key. The getters return an
// error wrapping a not-found sentinel when the key is absent.
type Material interface {
	GetTexture(key string) (Texture, error)
	// GetTextureNoError returns nil for a missing key.
	GetTextureNoError(key string) Texture
	GetFloat(key string) (float32, error)
	GetInt(key string) (int32, error)
	GetVec2(key string) (math32.Vector2, error)
	GetVec3(key string) (math32.Vector3, error)
	GetVec4(key string) (math32.Vector4, error)
	GetMat4(key string) (math32.Matrix4, error)
}

// Mesh is indexed geometry whose vertex streams are wired to shader
// attributes through per-shader vertex array objects. Shaders keep per-mesh
// state keyed by the Mesh value, so implementations must be comparable;
// pointer receivers are.
type Mesh interface {
	IsVaoDirty() bool
	UnSetVaoDirty()
	SetVertexAttribLocF(location int32, key string)
	SetVertexAttribLocV2(location int32, key string)
	SetVertexAttribLocV3(location int32, key string)
	SetVertexAttribLocV4(location int32, key string)
	// GenerateVAO builds or refreshes the vertex array used with the shader
	// identified by shaderKey.
	GenerateVAO(shaderKey uint32) error
	VAOID(shaderKey uint32) uint32
	Indices() []uint16
}

// RenderData pairs a mesh with the primitive mode used to draw it.
type RenderData interface {
	Mesh() Mesh
	DrawMode() uint32
}
