package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/gogvr/internal/gltest"
	"github.com/richinsley/gogvr/objects"
)

func quadMesh(t *testing.T, rec *gltest.Recorder) *objects.Mesh {
	t.Helper()
	m := objects.NewMesh(rec)
	require.NoError(t, m.SetAttribute("position", 3, []float32{-1, -1, 0, 1, -1, 0, -1, 1, 0, 1, 1, 0}))
	require.NoError(t, m.SetAttribute("uv", 2, []float32{0, 0, 1, 0, 0, 1, 1, 1}))
	m.SetIndices([]uint16{0, 1, 2, 2, 1, 3})
	return m
}

func attribIndices(rec *gltest.Recorder) []uint32 {
	var out []uint32
	for _, c := range rec.Named("VertexAttribPointer") {
		out = append(out, c.Args[0].(uint32))
	}
	return out
}

func TestAttributeAddedAfterFirstDrawIsWired(t *testing.T) {
	rec := newRecorder()
	rec.AttribLocations["a_tex_coord"] = 1
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddAttributeVec3Key("a_position", "position"))
	mesh := quadMesh(t, rec)
	rd := objects.NewRenderData(mesh)
	mat := objects.NewMaterial()

	require.NoError(t, s.Render(identity(), rd, mat, false))
	assert.Equal(t, []uint32{0}, attribIndices(rec))

	require.NoError(t, s.AddAttributeVec2Key("a_tex_coord", "uv"))
	rec.Reset()
	require.NoError(t, s.Render(identity(), rd, mat, false))
	assert.Equal(t, []uint32{0, 1}, attribIndices(rec))
	assert.Equal(t, 1, rec.Count("DeleteVertexArray"), "old vertex array replaced")

	for i := 0; i < 3; i++ {
		rec.Reset()
		require.NoError(t, s.Render(identity(), rd, mat, false))
		assert.Empty(t, attribIndices(rec))
		assert.Zero(t, rec.Count("GenVertexArray"))
	}
}

func TestShadersSharingAMeshKeepTheirOwnLocations(t *testing.T) {
	rec := newRecorder()
	rec.AttribLocations["a_pos_b"] = 3
	a := New(rec, "vs", "fs", WithName("a"))
	require.NoError(t, a.AddAttributeVec3Key("a_position", "position"))
	b := New(rec, "vs", "fs", WithName("b"))
	require.NoError(t, b.AddAttributeVec3Key("a_pos_b", "position"))
	mesh := quadMesh(t, rec)
	rd := objects.NewRenderData(mesh)
	mat := objects.NewMaterial()

	require.NoError(t, a.Render(identity(), rd, mat, false))
	require.NoError(t, b.Render(identity(), rd, mat, false))
	assert.Equal(t, []uint32{0, 3}, attribIndices(rec))
	require.NotEqual(t, a.ProgramID(), b.ProgramID())
	assert.NotEqual(t, mesh.VAOID(a.ProgramID()), mesh.VAOID(b.ProgramID()))

	rec.Reset()
	require.NoError(t, a.Render(identity(), rd, mat, false))
	require.NoError(t, b.Render(identity(), rd, mat, false))
	assert.Empty(t, attribIndices(rec), "both vertex arrays reused")

	// new geometry marks the mesh dirty; only the first shader sees the flag
	mesh.SetIndices([]uint16{0, 2, 1, 1, 2, 3})
	rec.Reset()
	require.NoError(t, a.Render(identity(), rd, mat, false))
	require.NoError(t, b.Render(identity(), rd, mat, false))
	assert.Equal(t, []uint32{0, 3}, attribIndices(rec))
}

func TestRecycledTextureIsSkippedWithoutUsingAUnit(t *testing.T) {
	rec := newRecorder()
	rec.UniformLocations["s_a"] = 10
	rec.UniformLocations["s_b"] = 11
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddTextureKey("s_a", "gone"))
	require.NoError(t, s.AddTextureKey("s_b", "live"))
	mat := objects.NewMaterial(
		objects.WithTexture("gone", &fakeTexture{ready: true}),
		objects.WithTexture("live", &fakeTexture{ready: true, id: 9}),
	)

	require.NoError(t, s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, mat, false))

	binds := rec.Named("BindTexture")
	require.Len(t, binds, 1)
	assert.Equal(t, uint32(9), binds[0].Args[1])
	var samplers [][]any
	for _, c := range rec.Named("Uniform1i") {
		if c.Args[0].(int32) >= 10 {
			samplers = append(samplers, c.Args)
		}
	}
	assert.Equal(t, [][]any{{int32(11), int32(0)}}, samplers, "live texture takes unit 0")
	assert.Equal(t, 1, rec.Count("DrawElements"))
}
