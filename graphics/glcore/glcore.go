// Package glcore implements graphics.GL on top of the OpenGL 4.1 core profile
// bindings from go-gl.
package glcore

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/gogvr/graphics"
)

var glInitOnce sync.Once

// GL forwards every graphics.GL call to the go-gl bindings. The zero value is
// ready to use once Init has succeeded on a current context.
type GL struct{}

var _ graphics.GL = (*GL)(nil)

// Init loads the OpenGL function pointers. The context must be current on the
// calling thread; later calls are no-ops and return the first result.
func Init() (*GL, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return &GL{}, nil
}

// Version returns the driver's version string.
func (*GL) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func cstr(s string) *uint8 {
	if !strings.HasSuffix(s, "\x00") {
		s += "\x00"
	}
	return gl.Str(s)
}

func (*GL) CreateShader(kind uint32) uint32 { return gl.CreateShader(kind) }

func (*GL) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (*GL) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*GL) GetShaderiv(shader uint32, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (*GL) GetShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (*GL) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (*GL) CreateProgram() uint32 { return gl.CreateProgram() }

func (*GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (*GL) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (*GL) GetProgramiv(program uint32, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (*GL) GetProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (*GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (*GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (*GL) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, cstr(name))
}

func (*GL) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, cstr(name))
}

func (*GL) Uniform1i(location int32, v int32)            { gl.Uniform1i(location, v) }
func (*GL) Uniform1f(location int32, v float32)          { gl.Uniform1f(location, v) }
func (*GL) Uniform2f(location int32, x, y float32)       { gl.Uniform2f(location, x, y) }
func (*GL) Uniform3f(location int32, x, y, z float32)    { gl.Uniform3f(location, x, y, z) }
func (*GL) Uniform4f(location int32, x, y, z, w float32) { gl.Uniform4f(location, x, y, z, w) }

func (*GL) UniformMatrix4fv(location int32, transpose bool, m *[16]float32) {
	gl.UniformMatrix4fv(location, 1, transpose, &m[0])
}

func (*GL) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (*GL) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (*GL) ActiveTexture(unit uint32) { gl.ActiveTexture(unit) }

func (*GL) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }

func (*GL) TexParameteri(target, pname uint32, param int32) { gl.TexParameteri(target, pname, param) }

func (*GL) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr)
}

func (*GL) GenerateMipmap(target uint32) { gl.GenerateMipmap(target) }

func (*GL) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (*GL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (*GL) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (*GL) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (*GL) BufferFloat32(target uint32, data []float32, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data)*4, gl.Ptr(data), usage)
}

func (*GL) BufferUint16(target uint32, data []uint16, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data)*2, gl.Ptr(data), usage)
}

func (*GL) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (*GL) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (*GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
}

func (*GL) GenFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (*GL) BindFramebuffer(target, framebuffer uint32) { gl.BindFramebuffer(target, framebuffer) }

func (*GL) FramebufferTexture2D(target, attachment, texTarget, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, texTarget, texture, level)
}

func (*GL) CheckFramebufferStatus(target uint32) uint32 { return gl.CheckFramebufferStatus(target) }

func (*GL) DeleteFramebuffer(framebuffer uint32) { gl.DeleteFramebuffers(1, &framebuffer) }

func (*GL) GenRenderbuffer() uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return rb
}

func (*GL) BindRenderbuffer(target, renderbuffer uint32) { gl.BindRenderbuffer(target, renderbuffer) }

func (*GL) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	gl.RenderbufferStorage(target, internalFormat, width, height)
}

func (*GL) FramebufferRenderbuffer(target, attachment, rbTarget, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(target, attachment, rbTarget, renderbuffer)
}

func (*GL) DeleteRenderbuffer(renderbuffer uint32) { gl.DeleteRenderbuffers(1, &renderbuffer) }

func (*GL) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32) {
	gl.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, filter)
}

func (*GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (*GL) Scissor(x, y, width, height int32)  { gl.Scissor(x, y, width, height) }
func (*GL) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (*GL) Clear(mask uint32)                  { gl.Clear(mask) }
func (*GL) Enable(capability uint32)           { gl.Enable(capability) }
func (*GL) Disable(capability uint32)          { gl.Disable(capability) }

func (*GL) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElementsWithOffset(mode, count, xtype, uintptr(offset))
}

func (*GL) Flush() { gl.Flush() }

func (*GL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	gl.ReadPixels(x, y, width, height, format, xtype, gl.Ptr(pixels))
}

func (*GL) GetIntegerv(pname uint32) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

func (*GL) GetError() uint32 { return gl.GetError() }
