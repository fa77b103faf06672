package objects

import "github.com/richinsley/gogvr/graphics"

// RenderData is a mesh plus the primitive mode it is drawn with.
type RenderData struct {
	mesh     *Mesh
	drawMode uint32
}

var _ graphics.RenderData = (*RenderData)(nil)

// NewRenderData draws mesh as triangles.
func NewRenderData(mesh *Mesh) *RenderData {
	return &RenderData{mesh: mesh, drawMode: graphics.Triangles}
}

func (r *RenderData) Mesh() graphics.Mesh {
	if r.mesh == nil {
		return nil
	}
	return r.mesh
}

// VertexMesh returns the concrete mesh.
func (r *RenderData) VertexMesh() *Mesh { return r.mesh }

func (r *RenderData) DrawMode() uint32 { return r.drawMode }

func (r *RenderData) SetDrawMode(mode uint32) { r.drawMode = mode }
