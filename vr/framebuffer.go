package vr

import (
	"errors"
	"fmt"

	"github.com/richinsley/gogvr/graphics"
)

// EyeFramebuffer is a swap chain of color textures, each paired with a depth
// renderbuffer and a framebuffer object. Rendering goes to the current
// element; Advance moves to the next one.
type EyeFramebuffer struct {
	gl        graphics.GL
	width     int32
	height    int32
	colors    []uint32
	depths    []uint32
	fbos      []uint32
	index     int
	submitted int
}

// NewEyeFramebuffer returns an empty swap chain; call Create before use.
func NewEyeFramebuffer(gl graphics.GL) *EyeFramebuffer {
	return &EyeFramebuffer{gl: gl, submitted: -1}
}

// Create allocates length framebuffers of width x height. On failure every
// object created so far is deleted.
func (f *EyeFramebuffer) Create(width, height, length int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid eye framebuffer size %dx%d", width, height)
	}
	if length <= 0 {
		return errors.New("swap chain length must be positive")
	}
	if len(f.fbos) > 0 {
		f.Destroy()
	}
	f.width, f.height = int32(width), int32(height)

	gl := f.gl
	for i := 0; i < length; i++ {
		colorTexture := gl.GenTexture()
		gl.BindTexture(graphics.Texture2D, colorTexture)
		gl.TexParameteri(graphics.Texture2D, graphics.TextureWrapS, graphics.ClampToEdge)
		gl.TexParameteri(graphics.Texture2D, graphics.TextureWrapT, graphics.ClampToEdge)
		gl.TexParameteri(graphics.Texture2D, graphics.TextureMinFilter, graphics.Linear)
		gl.TexParameteri(graphics.Texture2D, graphics.TextureMagFilter, graphics.Linear)
		gl.TexImage2D(graphics.Texture2D, 0, graphics.RGBA8, f.width, f.height, graphics.RGBA, graphics.UnsignedByte, nil)
		gl.BindTexture(graphics.Texture2D, 0)
		f.colors = append(f.colors, colorTexture)

		depth := gl.GenRenderbuffer()
		gl.BindRenderbuffer(graphics.Renderbuffer, depth)
		gl.RenderbufferStorage(graphics.Renderbuffer, graphics.DepthComponent24, f.width, f.height)
		gl.BindRenderbuffer(graphics.Renderbuffer, 0)
		f.depths = append(f.depths, depth)

		fbo := gl.GenFramebuffer()
		gl.BindFramebuffer(graphics.Framebuffer, fbo)
		gl.FramebufferRenderbuffer(graphics.Framebuffer, graphics.DepthAttachment, graphics.Renderbuffer, depth)
		gl.FramebufferTexture2D(graphics.Framebuffer, graphics.ColorAttachment0, graphics.Texture2D, colorTexture, 0)
		status := gl.CheckFramebufferStatus(graphics.Framebuffer)
		gl.BindFramebuffer(graphics.Framebuffer, 0)
		f.fbos = append(f.fbos, fbo)

		if status != graphics.FramebufferComplete {
			f.Destroy()
			return fmt.Errorf("incomplete frame buffer object: %s", graphics.FramebufferStatusString(status))
		}
	}
	return nil
}

// Bind makes the current element the draw target and sets viewport and
// scissor to cover it.
func (f *EyeFramebuffer) Bind() {
	f.gl.BindFramebuffer(graphics.Framebuffer, f.fbos[f.index])
	f.gl.Viewport(0, 0, f.width, f.height)
	f.gl.Scissor(0, 0, f.width, f.height)
}

// UnbindFramebuffer restores the default framebuffer.
func UnbindFramebuffer(gl graphics.GL) {
	gl.BindFramebuffer(graphics.Framebuffer, 0)
}

// Resolve flushes the commands recorded for this eye.
func (f *EyeFramebuffer) Resolve() {
	f.gl.Flush()
}

// Advance marks the current element as submitted and moves to the next.
func (f *EyeFramebuffer) Advance() {
	f.submitted = f.index
	f.index = (f.index + 1) % len(f.fbos)
}

// Index is the element the next Bind targets.
func (f *EyeFramebuffer) Index() int { return f.index }

// Length is the number of elements in the swap chain.
func (f *EyeFramebuffer) Length() int { return len(f.fbos) }

// Size returns the dimensions of every element.
func (f *EyeFramebuffer) Size() (int, int) { return int(f.width), int(f.height) }

// ColorTexture returns the color texture of the current element.
func (f *EyeFramebuffer) ColorTexture() uint32 { return f.colors[f.index] }

// SubmittedFramebuffer returns the framebuffer completed by the last
// Advance, 0 before the first frame.
func (f *EyeFramebuffer) SubmittedFramebuffer() uint32 {
	if f.submitted < 0 || f.submitted >= len(f.fbos) {
		return 0
	}
	return f.fbos[f.submitted]
}

// SubmittedColorTexture returns the color texture completed by the last
// Advance, 0 before the first frame.
func (f *EyeFramebuffer) SubmittedColorTexture() uint32 {
	if f.submitted < 0 || f.submitted >= len(f.colors) {
		return 0
	}
	return f.colors[f.submitted]
}

// Destroy deletes every GL object of the swap chain.
func (f *EyeFramebuffer) Destroy() {
	for _, fbo := range f.fbos {
		f.gl.DeleteFramebuffer(fbo)
	}
	for _, rb := range f.depths {
		f.gl.DeleteRenderbuffer(rb)
	}
	for _, tex := range f.colors {
		f.gl.DeleteTexture(tex)
	}
	f.fbos, f.depths, f.colors = nil, nil, nil
	f.index, f.submitted = 0, -1
	f.width, f.height = 0, 0
}
