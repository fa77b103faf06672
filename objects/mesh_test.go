package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/gogvr/graphics"
	"github.com/richinsley/gogvr/internal/gltest"
)

func triangle(t *testing.T, rec *gltest.Recorder) *Mesh {
	t.Helper()
	m := NewMesh(rec)
	require.NoError(t, m.SetAttribute("position", 3, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))
	require.NoError(t, m.SetAttribute("uv", 2, []float32{0, 0, 1, 0, 0, 1}))
	m.SetIndices([]uint16{0, 1, 2})
	return m
}

func TestMeshSetAttributeValidates(t *testing.T) {
	m := NewMesh(gltest.New())
	assert.Error(t, m.SetAttribute("p", 5, []float32{1}))
	assert.Error(t, m.SetAttribute("p", 3, []float32{1, 2}))
	assert.NoError(t, m.SetAttribute("p", 2, []float32{1, 2}))
	assert.Equal(t, 1, m.VertexCount())
}

func TestMeshGenerateVAO(t *testing.T) {
	rec := gltest.New()
	m := triangle(t, rec)
	assert.True(t, m.IsVaoDirty())

	m.SetVertexAttribLocV3(0, "position")
	m.SetVertexAttribLocV2(-1, "uv")
	m.UnSetVaoDirty()
	require.NoError(t, m.GenerateVAO(7))

	assert.Equal(t, 1, rec.Count("GenVertexArray"))
	assert.Equal(t, 2, rec.Count("GenBuffer"), "one stream plus the index buffer")
	ptr := rec.Named("VertexAttribPointer")
	require.Len(t, ptr, 1)
	assert.Equal(t, uint32(0), ptr[0].Args[0])
	assert.Equal(t, int32(3), ptr[0].Args[1])
	assert.Equal(t, []any{uint32(graphics.ElementArrayBuffer), 3, uint32(graphics.StaticDraw)}, rec.Named("BufferUint16")[0].Args)
	assert.NotZero(t, m.VAOID(7))
	assert.Zero(t, m.VAOID(8))

	rec.Reset()
	require.NoError(t, m.GenerateVAO(7))
	assert.Empty(t, rec.Calls(), "unchanged layout reuses the vertex array")
}

func TestMeshRebuildsAfterGeometryChange(t *testing.T) {
	rec := gltest.New()
	m := triangle(t, rec)
	m.SetVertexAttribLocV3(0, "position")
	require.NoError(t, m.GenerateVAO(1))
	first := m.VAOID(1)

	m.SetIndices([]uint16{2, 1, 0})
	assert.True(t, m.IsVaoDirty())
	rec.Reset()
	require.NoError(t, m.GenerateVAO(1))
	assert.Equal(t, 1, rec.Count("DeleteVertexArray"))
	assert.Equal(t, first, rec.Named("DeleteVertexArray")[0].Args[0])
	assert.NotEqual(t, first, m.VAOID(1))
}

func TestMeshGenerateVAOErrors(t *testing.T) {
	rec := gltest.New()
	m := triangle(t, rec)
	m.SetVertexAttribLocF(1, "weight")
	assert.ErrorContains(t, m.GenerateVAO(1), `no attribute "weight"`)

	m = triangle(t, rec)
	m.SetVertexAttribLocV4(1, "uv")
	assert.ErrorContains(t, m.GenerateVAO(1), "has 2 components, shader expects 4")
}

func TestMeshRelease(t *testing.T) {
	rec := gltest.New()
	m := triangle(t, rec)
	m.SetVertexAttribLocV3(0, "position")
	require.NoError(t, m.GenerateVAO(1))
	m.SetVertexAttribLocV3(0, "position")
	require.NoError(t, m.GenerateVAO(2))

	m.Release()
	assert.Equal(t, 2, rec.Count("DeleteVertexArray"))
	assert.Equal(t, 4, rec.Count("DeleteBuffer"))
	assert.Zero(t, m.VAOID(1))

	rec.Reset()
	require.NoError(t, m.GenerateVAO(1))
	assert.Equal(t, []uint32{0}, attribIndices(rec), "layout survives release")
}

func attribIndices(rec *gltest.Recorder) []uint32 {
	var out []uint32
	for _, c := range rec.Named("VertexAttribPointer") {
		out = append(out, c.Args[0].(uint32))
	}
	return out
}

func TestMeshLayoutsPerShader(t *testing.T) {
	rec := gltest.New()
	m := triangle(t, rec)

	m.SetVertexAttribLocV3(0, "position")
	require.NoError(t, m.GenerateVAO(1))
	m.SetVertexAttribLocV3(5, "position")
	require.NoError(t, m.GenerateVAO(2))
	assert.Equal(t, []uint32{0, 5}, attribIndices(rec))
	assert.NotEqual(t, m.VAOID(1), m.VAOID(2))

	rec.Reset()
	require.NoError(t, m.GenerateVAO(1))
	require.NoError(t, m.GenerateVAO(2))
	assert.Empty(t, rec.Calls(), "nothing staged keeps both layouts")

	m.SetIndices([]uint16{2, 1, 0})
	rec.Reset()
	require.NoError(t, m.GenerateVAO(2))
	assert.Equal(t, []uint32{5}, attribIndices(rec), "geometry rebuild keeps the shader's own locations")

	rec.Reset()
	m.SetVertexAttribLocV3(0, "position")
	m.SetVertexAttribLocV2(1, "uv")
	require.NoError(t, m.GenerateVAO(1))
	assert.Equal(t, []uint32{0, 1}, attribIndices(rec), "a changed layout rebuilds")
	assert.Equal(t, 1, rec.Count("DeleteVertexArray"))

	rec.Reset()
	m.SetVertexAttribLocV3(0, "position")
	m.SetVertexAttribLocV2(1, "uv")
	require.NoError(t, m.GenerateVAO(1))
	assert.Empty(t, rec.Calls(), "restaging the same layout is a no-op")
}

func TestRenderData(t *testing.T) {
	m := NewMesh(gltest.New())
	rd := NewRenderData(m)
	assert.Equal(t, uint32(graphics.Triangles), rd.DrawMode())
	rd.SetDrawMode(graphics.TriangleStrip)
	assert.Equal(t, uint32(graphics.TriangleStrip), rd.DrawMode())
	assert.Same(t, m, rd.VertexMesh())
}
