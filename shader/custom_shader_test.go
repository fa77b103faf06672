package shader

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/gogvr/graphics"
	"github.com/richinsley/gogvr/internal/gltest"
	"github.com/richinsley/gogvr/objects"
	"github.com/richinsley/gogvr/program"
)

func identity() math32.Matrix4 { return *math32.Identity4() }

func newRecorder() *gltest.Recorder {
	rec := gltest.New()
	rec.UniformLocations = map[string]int32{
		MVPUniform:   1,
		RightUniform: 2,
		"u_color":    3,
		"u_texture":  4,
	}
	rec.AttribLocations = map[string]int32{"a_position": 0}
	return rec
}

func TestDuplicateRegistrationIsIgnored(t *testing.T) {
	s := New(gltest.New(), "vs", "fs")

	require.NoError(t, s.AddUniformVec4Key("u_color", "diffuseColor"))
	require.NoError(t, s.AddUniformVec4Key("u_color", "diffuseColor"))
	require.NoError(t, s.AddUniformFloatKey("u_color", "diffuseColor"))
	assert.Len(t, s.Bindings(KindUniform), 1)
	assert.Equal(t, "vec4", s.Bindings(KindUniform)[0].Type, "first strategy wins")

	require.NoError(t, s.AddUniformVec4Key("u_color", "ambientColor"))
	assert.Len(t, s.Bindings(KindUniform), 2)

	// the same pair in another kind is a separate binding
	require.NoError(t, s.AddTextureKey("u_color", "diffuseColor"))
	assert.Len(t, s.Bindings(KindTexture), 1)
}

func TestBindingsAreOrderedByNameThenKey(t *testing.T) {
	s := New(gltest.New(), "vs", "fs")
	for _, pair := range [][2]string{{"b", "x"}, {"a", "z"}, {"b", "a"}, {"a", "y"}} {
		require.NoError(t, s.AddTextureKey(pair[0], pair[1]))
	}

	var got []string
	for _, b := range s.Bindings(KindTexture) {
		got = append(got, b.Name+"/"+b.Key)
		assert.False(t, b.Resolved)
		assert.Equal(t, int32(-1), b.Location)
	}
	assert.Equal(t, []string{"a/y", "a/z", "b/a", "b/x"}, got)
}

func TestAddRejectsEmptyNames(t *testing.T) {
	s := New(gltest.New(), "vs", "fs")
	assert.ErrorIs(t, s.AddAttributeVec3Key("", "position"), ErrEmptyName)
	assert.ErrorIs(t, s.AddAttributeVec3Key("a_position", ""), ErrEmptyKey)
	assert.Empty(t, s.Bindings(KindAttribute))
	assert.Nil(t, s.Bindings(Kind(9)))
}

func TestProgramCompiledOnFirstRender(t *testing.T) {
	rec := newRecorder()
	s := New(rec, "vs", "fs")
	assert.Empty(t, rec.Calls(), "construction must not touch GL")
	assert.Zero(t, s.ProgramID())

	rd := fakeRenderData{mesh: newFakeMesh()}
	m := objects.NewMaterial()
	require.NoError(t, s.Render(identity(), rd, m, false))
	require.NoError(t, s.Render(identity(), rd, m, true))

	assert.Equal(t, 1, rec.Count("CreateProgram"))
	assert.Equal(t, 1, rec.Count("LinkProgram"))
	assert.NotZero(t, s.ProgramID())
	assert.Equal(t, 16, s.MaxTextureUnits())
	assert.Empty(t, s.vertexSource)
	assert.Empty(t, s.fragmentSource)
}

func TestCompileErrorIsSticky(t *testing.T) {
	rec := newRecorder()
	rec.ShaderErrors[graphics.VertexShader] = "ERROR: 0:3: 'vec5' : undeclared identifier"
	s := New(rec, "vs", "fs", WithName("broken"))

	rd := fakeRenderData{mesh: newFakeMesh()}
	err := s.Render(identity(), rd, objects.NewMaterial(), false)
	var ce *program.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, program.StageVertex, ce.Stage)
	assert.Contains(t, err.Error(), `shader "broken"`)

	rec.Reset()
	err2 := s.Render(identity(), rd, objects.NewMaterial(), false)
	assert.Equal(t, err, err2)
	assert.Empty(t, rec.Calls(), "a failed program is never recompiled")
}

// The scenario from the design notes: one texture, one attribute and one
// uniform binding.
func TestRenderWorkedExample(t *testing.T) {
	rec := newRecorder()
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddTextureKey("u_texture", "diffuseTexture"))
	require.NoError(t, s.AddAttributeVec3Key("a_position", "position"))
	require.NoError(t, s.AddUniformVec4Key("u_color", "diffuseColor"))

	tex := &fakeTexture{ready: true, id: 77}
	mat := objects.NewMaterial(
		objects.WithTexture("diffuseTexture", tex),
		objects.WithVec4("diffuseColor", math32.Vec4(1, 0.5, 0.25, 1)),
	)
	mesh := newFakeMesh()
	rd := fakeRenderData{mesh: mesh}

	require.NoError(t, s.InitializeOnDemand())
	rec.Reset()
	require.NoError(t, s.Render(identity(), rd, mat, true))

	assert.Equal(t, 1, rec.Count("UseProgram"))
	assert.Equal(t, []uint32{s.ProgramID()}, mesh.generated)
	assert.Equal(t, map[string]int32{"position": 0}, mesh.locations)
	assert.False(t, mesh.dirty)

	color := rec.Named("Uniform4f")
	require.Len(t, color, 1)
	assert.Equal(t, []any{int32(3), float32(1), float32(0.5), float32(0.25), float32(1)}, color[0].Args)

	mvp := rec.Named("UniformMatrix4fv")
	require.Len(t, mvp, 1)
	assert.Equal(t, int32(1), mvp[0].Args[0])
	assert.Equal(t, [16]float32(identity()), mvp[0].Args[2])

	ints := rec.Named("Uniform1i")
	require.Len(t, ints, 2)
	assert.Equal(t, []any{int32(2), int32(1)}, ints[0].Args, "right eye")
	assert.Equal(t, []any{int32(4), int32(0)}, ints[1].Args, "sampler on unit 0")

	active := rec.Named("ActiveTexture")
	require.Len(t, active, 1)
	assert.Equal(t, uint32(graphics.Texture0), active[0].Args[0])
	binds := rec.Named("BindTexture")
	require.Len(t, binds, 1)
	assert.Equal(t, []any{uint32(graphics.Texture2D), uint32(77)}, binds[0].Args)

	draws := rec.Named("DrawElements")
	require.Len(t, draws, 1)
	assert.Equal(t, []any{uint32(graphics.Triangles), int32(6), uint32(graphics.UnsignedShort), 0}, draws[0].Args)

	vaos := rec.Named("BindVertexArray")
	require.Len(t, vaos, 2)
	assert.Equal(t, uint32(42), vaos[0].Args[0])
	assert.Equal(t, uint32(0), vaos[1].Args[0])
	assert.Equal(t, 1, rec.Count("GetError"))

	// the texture is swapped for one that is still loading
	mat.SetTexture("diffuseTexture", &fakeTexture{ready: false})
	rec.Reset()
	err := s.Render(identity(), rd, mat, true)
	assert.ErrorIs(t, err, ErrTextureNotReady)
	assert.Empty(t, rec.Calls())
	assert.Len(t, mesh.generated, 1)
}

func TestMissingTextureAbortsWithoutGLCalls(t *testing.T) {
	rec := newRecorder()
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddTextureKey("u_texture", "diffuseTexture"))
	require.NoError(t, s.InitializeOnDemand())
	rec.Reset()

	err := s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, objects.NewMaterial(), false)
	assert.ErrorIs(t, err, ErrTextureNotReady)
	assert.Zero(t, rec.MutationCount())
}

func TestTextureUnitsAreSequentialInIterationOrder(t *testing.T) {
	rec := newRecorder()
	rec.UniformLocations["s_c"] = 10
	rec.UniformLocations["s_a"] = 11
	rec.UniformLocations["s_b"] = 12
	s := New(rec, "vs", "fs")

	mat := objects.NewMaterial()
	for i, name := range []string{"s_c", "s_a", "s_b"} {
		key := "tex_" + name
		require.NoError(t, s.AddTextureKey(name, key))
		mat.SetTexture(key, &fakeTexture{ready: true, id: uint32(100 + i)})
	}

	require.NoError(t, s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, mat, false))

	var units []uint32
	for _, c := range rec.Named("ActiveTexture") {
		units = append(units, c.Args[0].(uint32))
	}
	assert.Equal(t, []uint32{graphics.Texture0, graphics.Texture0 + 1, graphics.Texture0 + 2}, units)

	var samplers [][]any
	for _, c := range rec.Named("Uniform1i") {
		if c.Args[0].(int32) >= 10 {
			samplers = append(samplers, c.Args)
		}
	}
	assert.Equal(t, [][]any{
		{int32(11), int32(0)},
		{int32(12), int32(1)},
		{int32(10), int32(2)},
	}, samplers)
}

func TestOptimizedAwaySamplerConsumesNoUnit(t *testing.T) {
	rec := newRecorder()
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddTextureKey("u_a_unused", "unused"))
	require.NoError(t, s.AddTextureKey("u_texture", "diffuseTexture"))
	mat := objects.NewMaterial(
		objects.WithTexture("unused", &fakeTexture{ready: true, id: 1}),
		objects.WithTexture("diffuseTexture", &fakeTexture{ready: true, id: 2}),
	)

	require.NoError(t, s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, mat, false))
	active := rec.Named("ActiveTexture")
	require.Len(t, active, 1)
	assert.Equal(t, uint32(graphics.Texture0), active[0].Args[0])
	assert.Equal(t, []any{uint32(graphics.Texture2D), uint32(2)}, rec.Named("BindTexture")[0].Args)
}

func TestTextureUnitsExhausted(t *testing.T) {
	rec := newRecorder()
	rec.Integers[graphics.MaxCombinedTextureImageUnits] = 1
	rec.UniformLocations["u_second"] = 9
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddTextureKey("u_texture", "diffuseTexture"))
	require.NoError(t, s.AddTextureKey("u_second", "detail"))
	mat := objects.NewMaterial(
		objects.WithTexture("diffuseTexture", &fakeTexture{ready: true, id: 1}),
		objects.WithTexture("detail", &fakeTexture{ready: true, id: 2}),
	)

	require.NoError(t, s.InitializeOnDemand())
	rec.Reset()
	err := s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, mat, false)
	assert.ErrorIs(t, err, ErrTextureUnitsExhausted)
	assert.Zero(t, rec.MutationCount())
}

func TestMissingUniformKeyDoesNotBlockOthers(t *testing.T) {
	rec := newRecorder()
	rec.UniformLocations["u_a"] = 20
	rec.UniformLocations["u_b"] = 21
	rec.UniformLocations["u_c"] = 22
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddUniformFloatKey("u_a", "alpha"))
	require.NoError(t, s.AddUniformFloatKey("u_b", "missing"))
	require.NoError(t, s.AddUniformFloatKey("u_c", "gamma"))
	mat := objects.NewMaterial(objects.WithFloat("alpha", 1), objects.WithFloat("gamma", 3))

	require.NoError(t, s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, mat, false))
	assert.Equal(t, []gltest.Call{
		{Name: "Uniform1f", Args: []any{int32(20), float32(1)}},
		{Name: "Uniform1f", Args: []any{int32(22), float32(3)}},
	}, rec.Named("Uniform1f"))
	assert.Equal(t, 1, rec.Count("DrawElements"))
}

func TestUniformTypes(t *testing.T) {
	rec := newRecorder()
	for i, name := range []string{"u_f", "u_i", "u_v2", "u_v3", "u_v4", "u_m4", "u_gone"} {
		rec.UniformLocations[name] = int32(30 + i)
	}
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddUniformFloatKey("u_f", "f"))
	require.NoError(t, s.AddUniformIntKey("u_i", "i"))
	require.NoError(t, s.AddUniformVec2Key("u_v2", "v2"))
	require.NoError(t, s.AddUniformVec3Key("u_v3", "v3"))
	require.NoError(t, s.AddUniformVec4Key("u_v4", "v4"))
	require.NoError(t, s.AddUniformMat4Key("u_m4", "m4"))
	require.NoError(t, s.AddUniformFloatKey("u_optimized", "f"))

	m4 := identity()
	m4[12] = 5
	mat := objects.NewMaterial(
		objects.WithFloat("f", 0.5),
		objects.WithInt("i", 7),
		objects.WithVec2("v2", math32.Vec2(1, 2)),
		objects.WithVec3("v3", math32.Vec3(1, 2, 3)),
		objects.WithVec4("v4", math32.Vec4(1, 2, 3, 4)),
		objects.WithMat4("m4", m4),
	)
	require.NoError(t, s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, mat, false))

	assert.Equal(t, []any{int32(30), float32(0.5)}, rec.Named("Uniform1f")[0].Args)
	assert.Len(t, rec.Named("Uniform1f"), 1, "u_optimized resolves to -1 and is skipped")
	assert.Contains(t, rec.Named("Uniform1i"), gltest.Call{Name: "Uniform1i", Args: []any{int32(31), int32(7)}})
	assert.Equal(t, []any{int32(32), float32(1), float32(2)}, rec.Named("Uniform2f")[0].Args)
	assert.Equal(t, []any{int32(33), float32(1), float32(2), float32(3)}, rec.Named("Uniform3f")[0].Args)
	assert.Equal(t, []any{int32(34), float32(1), float32(2), float32(3), float32(4)}, rec.Named("Uniform4f")[0].Args)

	mats := rec.Named("UniformMatrix4fv")
	require.Len(t, mats, 2)
	assert.Equal(t, int32(35), mats[0].Args[0])
	assert.Equal(t, [16]float32(m4), mats[0].Args[2])
}

func TestRightEyeUniform(t *testing.T) {
	rec := newRecorder()
	s := New(rec, "vs", "fs")
	rd := fakeRenderData{mesh: newFakeMesh()}

	require.NoError(t, s.Render(identity(), rd, objects.NewMaterial(), false))
	require.NoError(t, s.Render(identity(), rd, objects.NewMaterial(), true))
	assert.Equal(t, []gltest.Call{
		{Name: "Uniform1i", Args: []any{int32(2), int32(0)}},
		{Name: "Uniform1i", Args: []any{int32(2), int32(1)}},
	}, rec.Named("Uniform1i"))

	rec = gltest.New()
	s = New(rec, "vs", "fs")
	require.NoError(t, s.Render(identity(), rd, objects.NewMaterial(), true))
	assert.Zero(t, rec.Count("Uniform1i"), "u_right optimized away")
	assert.Zero(t, rec.Count("UniformMatrix4fv"), "u_mvp optimized away")
}

func TestResolutionRunsAtMostOncePerBinding(t *testing.T) {
	rec := newRecorder()
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddUniformVec4Key("u_color", "diffuseColor"))
	require.NoError(t, s.AddUniformFloatKey("u_unused", "opacity"))
	rd := fakeRenderData{mesh: newFakeMesh()}
	mat := objects.NewMaterial()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Render(identity(), rd, mat, i%2 == 0))
	}
	require.NoError(t, s.AddUniformFloatKey("u_late", "late"))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Render(identity(), rd, mat, false))
	}

	lookups := map[string]int{}
	for _, c := range rec.Named("GetUniformLocation") {
		lookups[c.Args[1].(string)]++
	}
	assert.Equal(t, map[string]int{
		MVPUniform:   1,
		RightUniform: 1,
		"u_color":    1,
		"u_unused":   1,
		"u_late":     1,
	}, lookups)

	for _, b := range s.Bindings(KindUniform) {
		assert.True(t, b.Resolved, b.Name)
	}
	infos := s.Bindings(KindUniform)
	assert.Equal(t, int32(3), infos[0].Location)
	assert.Equal(t, int32(-1), infos[2].Location)
}

func TestAttributesRewiredWhenMeshDirty(t *testing.T) {
	rec := newRecorder()
	rec.AttribLocations["a_tex_coord"] = 1
	s := New(rec, "vs", "fs")
	require.NoError(t, s.AddAttributeVec3Key("a_position", "position"))
	require.NoError(t, s.AddAttributeVec2Key("a_tex_coord", "uv"))
	require.NoError(t, s.AddAttributeFloatKey("a_unused", "weight"))
	require.NoError(t, s.AddAttributeVec4Key("a_color", "color"))
	mesh := newFakeMesh()
	rd := fakeRenderData{mesh: mesh}

	require.NoError(t, s.Render(identity(), rd, objects.NewMaterial(), false))
	assert.Equal(t, map[string]int32{"position": 0, "uv": 1}, mesh.locations)

	mesh.locations = map[string]int32{}
	require.NoError(t, s.Render(identity(), rd, objects.NewMaterial(), false))
	assert.Empty(t, mesh.locations, "clean mesh is not rewired")

	mesh.dirty = true
	require.NoError(t, s.Render(identity(), rd, objects.NewMaterial(), false))
	assert.Len(t, mesh.locations, 2)
}

func TestGenerateVAOFailure(t *testing.T) {
	rec := newRecorder()
	s := New(rec, "vs", "fs")
	mesh := newFakeMesh()
	mesh.genErr = errors.New("no such stream")

	err := s.Render(identity(), fakeRenderData{mesh: mesh}, objects.NewMaterial(), false)
	assert.ErrorContains(t, err, "no such stream")
	assert.Zero(t, rec.Count("DrawElements"))
}

func TestNoMesh(t *testing.T) {
	s := New(newRecorder(), "vs", "fs")
	assert.ErrorIs(t, s.Render(identity(), nil, objects.NewMaterial(), false), ErrNoMesh)
	assert.ErrorIs(t, s.Render(identity(), fakeRenderData{}, objects.NewMaterial(), false), ErrNoMesh)
}

func TestGLErrorIsLoggedNotReturned(t *testing.T) {
	rec := newRecorder()
	rec.Errors = []uint32{graphics.InvalidOperation}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := New(rec, "vs", "fs", WithName("lit"), WithLogger(logger))

	require.NoError(t, s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, objects.NewMaterial(), false))
	assert.Contains(t, buf.String(), "GL_INVALID_OPERATION")
	assert.Contains(t, buf.String(), "shader=lit")
}

func TestDestroy(t *testing.T) {
	rec := newRecorder()
	s := New(rec, "vs", "fs")
	rd := fakeRenderData{mesh: newFakeMesh()}
	require.NoError(t, s.Render(identity(), rd, objects.NewMaterial(), false))

	s.Destroy()
	s.Destroy()
	assert.Equal(t, 1, rec.Count("DeleteProgram"))
	assert.Zero(t, s.ProgramID())
	assert.ErrorIs(t, s.Render(identity(), rd, objects.NewMaterial(), false), ErrDestroyed)
	assert.ErrorIs(t, s.InitializeOnDemand(), ErrDestroyed)
}

type prefixTranslator struct{}

func (prefixTranslator) Translate(source, stage string) (string, map[string]string, error) {
	return source, map[string]string{"u_color": "_uu_color", MVPUniform: "_uu_mvp"}, nil
}

func TestTranslatorNamesAreUsedForLookups(t *testing.T) {
	rec := gltest.New()
	rec.UniformLocations["_uu_color"] = 5
	rec.UniformLocations["_uu_mvp"] = 6
	s := New(rec, "vs", "fs", WithTranslator(prefixTranslator{}))
	require.NoError(t, s.AddUniformVec4Key("u_color", "diffuseColor"))
	mat := objects.NewMaterial(objects.WithVec4("diffuseColor", math32.Vec4(1, 1, 1, 1)))

	require.NoError(t, s.Render(identity(), fakeRenderData{mesh: newFakeMesh()}, mat, false))
	assert.Equal(t, int32(5), rec.Named("Uniform4f")[0].Args[0])
	assert.Equal(t, int32(6), rec.Named("UniformMatrix4fv")[0].Args[0])
}

func TestConcurrentRegistrationDuringRender(t *testing.T) {
	rec := newRecorder()
	const writers, perWriter = 4, 25
	for w := 0; w < writers; w++ {
		for i := 0; i < perWriter; i++ {
			rec.UniformLocations[fmt.Sprintf("u_%d_%d", w, i)] = int32(100 + w*perWriter + i)
		}
	}
	s := New(rec, "vs", "fs")
	mat := objects.NewMaterial()
	rd := fakeRenderData{mesh: newFakeMesh()}

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				name := fmt.Sprintf("u_%d_%d", w, i)
				key := fmt.Sprintf("k_%d_%d", w, i)
				mat.SetFloat(key, float32(i))
				assert.NoError(t, s.AddUniformFloatKey(name, key))
				assert.NoError(t, s.AddAttributeFloatKey("a_"+name, key))
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		require.NoError(t, s.Render(identity(), rd, mat, false))
	}
	// one more pass picks up anything registered during the last render
	require.NoError(t, s.Render(identity(), rd, mat, false))

	infos := s.Bindings(KindUniform)
	require.Len(t, infos, writers*perWriter)
	for _, b := range infos {
		assert.True(t, b.Resolved, b.Name)
	}

	lookups := map[string]int{}
	for _, c := range rec.Named("GetUniformLocation") {
		lookups[c.Args[1].(string)]++
	}
	for name, n := range lookups {
		assert.Equal(t, 1, n, name)
	}

	rec.Reset()
	require.NoError(t, s.Render(identity(), rd, mat, false))
	assert.Equal(t, writers*perWriter, rec.Count("Uniform1f"))
}

func TestTextureUnit(t *testing.T) {
	u, err := TextureUnit(0, 16)
	require.NoError(t, err)
	assert.Equal(t, uint32(graphics.Texture0), u)

	u, err = TextureUnit(15, 16)
	require.NoError(t, err)
	assert.Equal(t, uint32(graphics.Texture0+15), u)

	// the old lookup table silently reused unit 0 past index 10
	u, err = TextureUnit(11, 32)
	require.NoError(t, err)
	assert.Equal(t, uint32(graphics.Texture0+11), u)

	_, err = TextureUnit(16, 16)
	assert.ErrorIs(t, err, ErrTextureUnitsExhausted)
	_, err = TextureUnit(-1, 16)
	assert.ErrorIs(t, err, ErrTextureUnitsExhausted)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "texture", KindTexture.String())
	assert.Equal(t, "attribute", KindAttribute.String())
	assert.Equal(t, "uniform", KindUniform.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
