// Package gltest provides a recording graphics.GL for tests. Every call is
// appended to an ordered log; queries answer from configurable tables.
package gltest

import (
	"sync"

	"github.com/richinsley/gogvr/graphics"
)

// Call is one recorded GL call.
type Call struct {
	Name string
	Args []any
}

// Recorder implements graphics.GL without a GPU. Exported fields may be set
// before the recorder is handed to the code under test.
type Recorder struct {
	// UniformLocations and AttribLocations answer location queries by name.
	// Names not present resolve to -1.
	UniformLocations map[string]int32
	AttribLocations  map[string]int32

	// ShaderErrors maps a shader kind (graphics.VertexShader,
	// graphics.FragmentShader) to an info log; a present entry fails the compile.
	ShaderErrors map[uint32]string
	// LinkError fails every link with the given info log when non-empty.
	LinkError string

	// Integers answers GetIntegerv. MaxCombinedTextureImageUnits defaults to 16.
	Integers map[uint32]int32
	// FramebufferStatus is returned by CheckFramebufferStatus.
	FramebufferStatus uint32
	// Errors is drained one code per GetError call; empty means NoError.
	Errors []uint32
	// PixelFill is written to every byte of a ReadPixels destination.
	PixelFill byte

	mu          sync.Mutex
	calls       []Call
	nextHandle  uint32
	shaderKinds map[uint32]uint32
}

var _ graphics.GL = (*Recorder)(nil)

var queries = map[string]bool{
	"GetShaderiv":            true,
	"GetShaderInfoLog":       true,
	"GetProgramiv":           true,
	"GetProgramInfoLog":      true,
	"GetUniformLocation":     true,
	"GetAttribLocation":      true,
	"GetIntegerv":            true,
	"GetError":               true,
	"CheckFramebufferStatus": true,
	"ReadPixels":             true,
}

// New returns a recorder whose compiles and links succeed, whose framebuffers
// are complete and which reports 16 combined texture units.
func New() *Recorder {
	return &Recorder{
		UniformLocations:  map[string]int32{},
		AttribLocations:   map[string]int32{},
		ShaderErrors:      map[uint32]string{},
		Integers:          map[uint32]int32{graphics.MaxCombinedTextureImageUnits: 16, graphics.MaxTextureImageUnits: 16},
		FramebufferStatus: graphics.FramebufferComplete,
		shaderKinds:       map[uint32]uint32{},
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Name: name, Args: args})
	r.mu.Unlock()
}

func (r *Recorder) handle() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextHandle++
	return r.nextHandle
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Named returns the recorded calls with the given name, in order.
func (r *Recorder) Named(name string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the name of every recorded call, in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Name
	}
	return out
}

// Count returns how many times name was called.
func (r *Recorder) Count(name string) int {
	return len(r.Named(name))
}

// MutationCount counts the calls that change GL state, i.e. everything
// except queries.
func (r *Recorder) MutationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if !queries[c.Name] {
			n++
		}
	}
	return n
}

// Reset clears the call log. Configuration is kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *Recorder) CreateShader(kind uint32) uint32 {
	h := r.handle()
	r.mu.Lock()
	r.shaderKinds[h] = kind
	r.mu.Unlock()
	r.record("CreateShader", kind)
	return h
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.record("ShaderSource", shader, source)
}

func (r *Recorder) CompileShader(shader uint32) { r.record("CompileShader", shader) }

func (r *Recorder) shaderError(shader uint32) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, failed := r.ShaderErrors[r.shaderKinds[shader]]
	return msg, failed
}

func (r *Recorder) GetShaderiv(shader uint32, pname uint32) int32 {
	r.record("GetShaderiv", shader, pname)
	msg, failed := r.shaderError(shader)
	switch pname {
	case graphics.CompileStatus:
		if failed {
			return graphics.False
		}
		return graphics.True
	case graphics.InfoLogLength:
		return int32(len(msg))
	}
	return 0
}

func (r *Recorder) GetShaderInfoLog(shader uint32) string {
	r.record("GetShaderInfoLog", shader)
	msg, _ := r.shaderError(shader)
	return msg
}

func (r *Recorder) DeleteShader(shader uint32) { r.record("DeleteShader", shader) }

func (r *Recorder) CreateProgram() uint32 {
	h := r.handle()
	r.record("CreateProgram")
	return h
}

func (r *Recorder) AttachShader(program, shader uint32) { r.record("AttachShader", program, shader) }
func (r *Recorder) LinkProgram(program uint32)          { r.record("LinkProgram", program) }

func (r *Recorder) GetProgramiv(program uint32, pname uint32) int32 {
	r.record("GetProgramiv", program, pname)
	switch pname {
	case graphics.LinkStatus:
		if r.LinkError != "" {
			return graphics.False
		}
		return graphics.True
	case graphics.InfoLogLength:
		return int32(len(r.LinkError))
	}
	return 0
}

func (r *Recorder) GetProgramInfoLog(program uint32) string {
	r.record("GetProgramInfoLog", program)
	return r.LinkError
}

func (r *Recorder) UseProgram(program uint32)    { r.record("UseProgram", program) }
func (r *Recorder) DeleteProgram(program uint32) { r.record("DeleteProgram", program) }

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	r.record("GetUniformLocation", program, name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if loc, ok := r.UniformLocations[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) GetAttribLocation(program uint32, name string) int32 {
	r.record("GetAttribLocation", program, name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if loc, ok := r.AttribLocations[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) Uniform1i(location int32, v int32)   { r.record("Uniform1i", location, v) }
func (r *Recorder) Uniform1f(location int32, v float32) { r.record("Uniform1f", location, v) }
func (r *Recorder) Uniform2f(location int32, x, y float32) {
	r.record("Uniform2f", location, x, y)
}
func (r *Recorder) Uniform3f(location int32, x, y, z float32) {
	r.record("Uniform3f", location, x, y, z)
}
func (r *Recorder) Uniform4f(location int32, x, y, z, w float32) {
	r.record("Uniform4f", location, x, y, z, w)
}

func (r *Recorder) UniformMatrix4fv(location int32, transpose bool, m *[16]float32) {
	r.record("UniformMatrix4fv", location, transpose, *m)
}

func (r *Recorder) GenTexture() uint32 {
	h := r.handle()
	r.record("GenTexture", h)
	return h
}

func (r *Recorder) DeleteTexture(texture uint32)       { r.record("DeleteTexture", texture) }
func (r *Recorder) ActiveTexture(unit uint32)          { r.record("ActiveTexture", unit) }
func (r *Recorder) BindTexture(target, texture uint32) { r.record("BindTexture", target, texture) }

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	r.record("TexParameteri", target, pname, param)
}

func (r *Recorder) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	r.record("TexImage2D", target, level, internalFormat, width, height, format, xtype, len(pixels))
}

func (r *Recorder) GenerateMipmap(target uint32) { r.record("GenerateMipmap", target) }

func (r *Recorder) GenVertexArray() uint32 {
	h := r.handle()
	r.record("GenVertexArray", h)
	return h
}

func (r *Recorder) BindVertexArray(vao uint32)   { r.record("BindVertexArray", vao) }
func (r *Recorder) DeleteVertexArray(vao uint32) { r.record("DeleteVertexArray", vao) }

func (r *Recorder) GenBuffer() uint32 {
	h := r.handle()
	r.record("GenBuffer", h)
	return h
}

func (r *Recorder) BindBuffer(target, buffer uint32) { r.record("BindBuffer", target, buffer) }

func (r *Recorder) BufferFloat32(target uint32, data []float32, usage uint32) {
	r.record("BufferFloat32", target, len(data), usage)
}

func (r *Recorder) BufferUint16(target uint32, data []uint16, usage uint32) {
	r.record("BufferUint16", target, len(data), usage)
}

func (r *Recorder) DeleteBuffer(buffer uint32)           { r.record("DeleteBuffer", buffer) }
func (r *Recorder) EnableVertexAttribArray(index uint32) { r.record("EnableVertexAttribArray", index) }

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	r.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (r *Recorder) GenFramebuffer() uint32 {
	h := r.handle()
	r.record("GenFramebuffer", h)
	return h
}

func (r *Recorder) BindFramebuffer(target, framebuffer uint32) {
	r.record("BindFramebuffer", target, framebuffer)
}

func (r *Recorder) FramebufferTexture2D(target, attachment, texTarget, texture uint32, level int32) {
	r.record("FramebufferTexture2D", target, attachment, texTarget, texture, level)
}

func (r *Recorder) CheckFramebufferStatus(target uint32) uint32 {
	r.record("CheckFramebufferStatus", target)
	return r.FramebufferStatus
}

func (r *Recorder) DeleteFramebuffer(framebuffer uint32) { r.record("DeleteFramebuffer", framebuffer) }

func (r *Recorder) GenRenderbuffer() uint32 {
	h := r.handle()
	r.record("GenRenderbuffer", h)
	return h
}

func (r *Recorder) BindRenderbuffer(target, renderbuffer uint32) {
	r.record("BindRenderbuffer", target, renderbuffer)
}

func (r *Recorder) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	r.record("RenderbufferStorage", target, internalFormat, width, height)
}

func (r *Recorder) FramebufferRenderbuffer(target, attachment, rbTarget, renderbuffer uint32) {
	r.record("FramebufferRenderbuffer", target, attachment, rbTarget, renderbuffer)
}

func (r *Recorder) DeleteRenderbuffer(renderbuffer uint32) {
	r.record("DeleteRenderbuffer", renderbuffer)
}

func (r *Recorder) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32) {
	r.record("BlitFramebuffer", srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, filter)
}

func (r *Recorder) Viewport(x, y, width, height int32) { r.record("Viewport", x, y, width, height) }
func (r *Recorder) Scissor(x, y, width, height int32)  { r.record("Scissor", x, y, width, height) }
func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}
func (r *Recorder) Clear(mask uint32)         { r.record("Clear", mask) }
func (r *Recorder) Enable(capability uint32)  { r.record("Enable", capability) }
func (r *Recorder) Disable(capability uint32) { r.record("Disable", capability) }

func (r *Recorder) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	r.record("DrawElements", mode, count, xtype, offset)
}

func (r *Recorder) Flush() { r.record("Flush") }

func (r *Recorder) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	r.record("ReadPixels", x, y, width, height, format, xtype)
	for i := range pixels {
		pixels[i] = r.PixelFill
	}
}

func (r *Recorder) GetIntegerv(pname uint32) int32 {
	r.record("GetIntegerv", pname)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Integers[pname]
}

func (r *Recorder) GetError() uint32 {
	r.record("GetError")
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Errors) == 0 {
		return graphics.NoError
	}
	code := r.Errors[0]
	r.Errors = r.Errors[1:]
	return code
}
