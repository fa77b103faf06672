package shader

import (
	"image"

	"github.com/richinsley/gogvr/graphics"
)

type fakeTexture struct {
	ready bool
	id    uint32
}

func (t *fakeTexture) IsReady() bool  { return t.ready }
func (t *fakeTexture) Target() uint32 { return graphics.Texture2D }
func (t *fakeTexture) ID() uint32     { return t.id }

type fakeMesh struct {
	dirty     bool
	locations map[string]int32
	generated []uint32
	indices   []uint16
	vao       uint32
	genErr    error
}

func newFakeMesh() *fakeMesh {
	return &fakeMesh{
		dirty:     true,
		locations: map[string]int32{},
		indices:   []uint16{0, 1, 2, 2, 1, 3},
		vao:       42,
	}
}

func (m *fakeMesh) IsVaoDirty() bool { return m.dirty }
func (m *fakeMesh) UnSetVaoDirty()   { m.dirty = false }

func (m *fakeMesh) SetVertexAttribLocF(location int32, key string)  { m.locations[key] = location }
func (m *fakeMesh) SetVertexAttribLocV2(location int32, key string) { m.locations[key] = location }
func (m *fakeMesh) SetVertexAttribLocV3(location int32, key string) { m.locations[key] = location }
func (m *fakeMesh) SetVertexAttribLocV4(location int32, key string) { m.locations[key] = location }

func (m *fakeMesh) GenerateVAO(shaderKey uint32) error {
	m.generated = append(m.generated, shaderKey)
	return m.genErr
}

func (m *fakeMesh) VAOID(uint32) uint32 { return m.vao }
func (m *fakeMesh) Indices() []uint16   { return m.indices }

type fakeRenderData struct {
	mesh graphics.Mesh
}

func (r fakeRenderData) Mesh() graphics.Mesh { return r.mesh }
func (r fakeRenderData) DrawMode() uint32    { return graphics.Triangles }

func solidImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}
