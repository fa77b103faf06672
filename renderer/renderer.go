// Package renderer draws scene items into the eye framebuffers of a
// vr.Activity and presents the result.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cogentcore.org/core/math32"
	"github.com/richinsley/gogvr/graphics"
	"github.com/richinsley/gogvr/objects"
	"github.com/richinsley/gogvr/shader"
	"github.com/richinsley/gogvr/vr"
)

// Item is one drawable: geometry, its material, the shader that binds them
// and a model transform.
type Item struct {
	Data     *objects.RenderData
	Material *objects.Material
	Shader   *shader.CustomShader
	Model    math32.Matrix4
}

// NewItem returns an item at the world origin.
func NewItem(data *objects.RenderData, material *objects.Material, s *shader.CustomShader) *Item {
	return &Item{Data: data, Material: material, Shader: s, Model: vr.Identity()}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClearColor sets the background of every eye.
func WithClearColor(c math32.Vector4) Option {
	return func(r *Renderer) { r.clearColor = c }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

type Renderer struct {
	gl         graphics.GL
	rig        *vr.CameraRig
	clearColor math32.Vector4
	logger     *slog.Logger

	mu    sync.Mutex
	items []*Item
}

// New returns a renderer viewing the scene through rig.
func New(gl graphics.GL, rig *vr.CameraRig, opts ...Option) *Renderer {
	r := &Renderer{
		gl:         gl,
		rig:        rig,
		clearColor: math32.Vec4(0, 0, 0, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Add appends items to the draw list.
func (r *Renderer) Add(items ...*Item) {
	r.mu.Lock()
	r.items = append(r.items, items...)
	r.mu.Unlock()
}

// Items returns a copy of the draw list.
func (r *Renderer) Items() []*Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Item(nil), r.items...)
}

// SetCameraRig switches the rig used for view-projection.
func (r *Renderer) SetCameraRig(rig *vr.CameraRig) {
	r.mu.Lock()
	r.rig = rig
	r.mu.Unlock()
}

// DrawEye clears the bound framebuffer and renders every item for eye. A
// failing item is logged and skipped; the failures are returned joined.
// It has the signature of vr.DrawEyeFunc.
func (r *Renderer) DrawEye(eye vr.Eye) error {
	r.mu.Lock()
	items := append([]*Item(nil), r.items...)
	rig := r.rig
	r.mu.Unlock()

	c := r.clearColor
	r.gl.ClearColor(c.X, c.Y, c.Z, c.W)
	r.gl.Enable(graphics.DepthTest)
	r.gl.Clear(graphics.ColorBufferBit | graphics.DepthBufferBit)

	viewProjection := rig.ViewProjection(eye)
	var errs []error
	for i, item := range items {
		if err := r.drawItem(item, viewProjection, eye); err != nil {
			r.logger.Warn("failed to draw item", "eye", eye, "item", i, "error", err)
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Renderer) drawItem(item *Item, viewProjection math32.Matrix4, eye vr.Eye) error {
	if item.Shader == nil {
		return errors.New("item has no shader")
	}
	if item.Data == nil {
		return shader.ErrNoMesh
	}
	var material graphics.Material
	if item.Material != nil {
		material = item.Material
	} else {
		material = objects.NewMaterial()
	}
	mvp := vr.MulMatrix4(viewProjection, item.Model)
	return item.Shader.Render(mvp, item.Data, material, eye.IsRight())
}

// Present blits the last submitted image of each eye into the default
// framebuffer, left eye on the left half. Eyes with nothing submitted yet
// are skipped.
func (r *Renderer) Present(a *vr.Activity, width, height int) {
	gl := r.gl
	gl.BindFramebuffer(graphics.Framebuffer, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(graphics.ColorBufferBit)

	half := int32(width / 2)
	for eye := vr.Left; eye < vr.EyeCount; eye++ {
		fb := a.Framebuffer(eye)
		if fb == nil || fb.SubmittedFramebuffer() == 0 {
			continue
		}
		ew, eh := fb.Size()
		dstX0 := int32(eye) * half
		gl.BindFramebuffer(graphics.ReadFramebuffer, fb.SubmittedFramebuffer())
		gl.BindFramebuffer(graphics.DrawFramebuffer, 0)
		gl.BlitFramebuffer(0, 0, int32(ew), int32(eh), dstX0, 0, dstX0+half, int32(height),
			graphics.ColorBufferBit, graphics.Linear)
	}
	gl.BindFramebuffer(graphics.Framebuffer, 0)
}

// ReadPixels returns the RGBA contents of the default framebuffer, bottom
// row first.
func (r *Renderer) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	r.gl.BindFramebuffer(graphics.ReadFramebuffer, 0)
	r.gl.ReadPixels(0, 0, int32(width), int32(height), graphics.RGBA, graphics.UnsignedByte, pixels)
	return pixels
}

// Destroy releases the GL objects of every item.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Shader != nil {
			item.Shader.Destroy()
		}
		if item.Data != nil && item.Data.VertexMesh() != nil {
			item.Data.VertexMesh().Release()
		}
		if item.Material != nil {
			item.Material.Recycle()
		}
	}
	r.items = nil
}
