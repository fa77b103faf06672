package graphics

// GL is the OpenGL / OpenGL ES call surface used by every package that touches
// the GPU. Names and argument order follow the C API; strings are plain Go
// strings and the backend adds the terminating NUL where the driver needs it.
//
// All methods must be called on the goroutine that owns the current context.
type GL interface {
	// programs and shaders
	CreateShader(kind uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// variable locations
	GetUniformLocation(program uint32, name string) int32
	GetAttribLocation(program uint32, name string) int32

	// uniforms
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix4fv(location int32, transpose bool, m *[16]float32)

	// textures
	GenTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte)
	GenerateMipmap(target uint32)

	// vertex arrays and buffers
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferFloat32(target uint32, data []float32, usage uint32)
	BufferUint16(target uint32, data []uint16, usage uint32)
	DeleteBuffer(buffer uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)

	// framebuffers
	GenFramebuffer() uint32
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, texTarget, texture uint32, level int32)
	CheckFramebufferStatus(target uint32) uint32
	DeleteFramebuffer(framebuffer uint32)
	GenRenderbuffer() uint32
	BindRenderbuffer(target, renderbuffer uint32)
	RenderbufferStorage(target, internalFormat uint32, width, height int32)
	FramebufferRenderbuffer(target, attachment, rbTarget, renderbuffer uint32)
	DeleteRenderbuffer(renderbuffer uint32)
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32)

	// drawing and state
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Enable(capability uint32)
	Disable(capability uint32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)
	Flush()
	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte)

	// queries
	GetIntegerv(pname uint32) int32
	GetError() uint32
}
