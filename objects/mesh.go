package objects

import (
	"fmt"
	"sort"
	"sync"

	"github.com/richinsley/gogvr/graphics"
)

type vertexStream struct {
	components int
	data       []float32
}

type attribLocation struct {
	location   int32
	components int
}

type attribLayout map[string]attribLocation

func (l attribLayout) equal(o attribLayout) bool {
	if len(l) != len(o) {
		return false
	}
	for key, loc := range l {
		if o[key] != loc {
			return false
		}
	}
	return true
}

type vertexArray struct {
	vao     uint32
	buffers []uint32
	version uint64
}

// Mesh is indexed geometry with named float vertex streams. A shader stages
// its attribute locations with the SetVertexAttribLoc methods and then calls
// GenerateVAO with its key, which adopts the staged locations as that
// shader's layout. Each shader gets its own layout and vertex array.
type Mesh struct {
	gl graphics.GL

	mu       sync.Mutex
	streams  map[string]vertexStream
	indices  []uint16
	staged   attribLayout
	layouts  map[uint32]attribLayout
	vaoDirty bool
	version  uint64
	vaos     map[uint32]*vertexArray
}

var _ graphics.Mesh = (*Mesh)(nil)

// NewMesh returns an empty mesh.
func NewMesh(gl graphics.GL) *Mesh {
	return &Mesh{
		gl:       gl,
		streams:  make(map[string]vertexStream),
		layouts:  make(map[uint32]attribLayout),
		vaos:     make(map[uint32]*vertexArray),
		vaoDirty: true,
	}
}

func (m *Mesh) touch() {
	m.vaoDirty = true
	m.version++
}

// SetAttribute stores a vertex stream with 1 to 4 components per vertex.
func (m *Mesh) SetAttribute(key string, components int, data []float32) error {
	if components < 1 || components > 4 {
		return fmt.Errorf("attribute %q: invalid component count %d", key, components)
	}
	if len(data)%components != 0 {
		return fmt.Errorf("attribute %q: %d floats is not a multiple of %d", key, len(data), components)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams[key] = vertexStream{components: components, data: data}
	m.touch()
	return nil
}

// SetIndices stores the triangle indices.
func (m *Mesh) SetIndices(indices []uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indices = indices
	m.touch()
}

// Indices returns the index list.
func (m *Mesh) Indices() []uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indices
}

// VertexCount returns the number of vertices in the first stream.
func (m *Mesh) VertexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.streams {
		return len(s.data) / s.components
	}
	return 0
}

func (m *Mesh) IsVaoDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vaoDirty
}

func (m *Mesh) UnSetVaoDirty() {
	m.mu.Lock()
	m.vaoDirty = false
	m.mu.Unlock()
}

func (m *Mesh) setLocation(location int32, key string, components int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if location < 0 {
		return
	}
	if m.staged == nil {
		m.staged = make(attribLayout)
	}
	m.staged[key] = attribLocation{location: location, components: components}
}

func (m *Mesh) SetVertexAttribLocF(location int32, key string)  { m.setLocation(location, key, 1) }
func (m *Mesh) SetVertexAttribLocV2(location int32, key string) { m.setLocation(location, key, 2) }
func (m *Mesh) SetVertexAttribLocV3(location int32, key string) { m.setLocation(location, key, 3) }
func (m *Mesh) SetVertexAttribLocV4(location int32, key string) { m.setLocation(location, key, 4) }

// GenerateVAO builds the vertex array for shaderKey, or rebuilds it when the
// geometry changed or the staged locations differ from the shader's layout.
// Locations staged since the last call become the layout of shaderKey; with
// nothing staged the previous layout is kept. It is a no-op otherwise.
func (m *Mesh) GenerateVAO(shaderKey uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := m.staged
	m.staged = nil
	layout, known := m.layouts[shaderKey]
	relayout := staged != nil && !staged.equal(layout)
	if relayout || !known {
		layout = staged
	}

	va, ok := m.vaos[shaderKey]
	if ok && va.version == m.version && !relayout {
		return nil
	}

	keys := make([]string, 0, len(layout))
	for key, loc := range layout {
		stream, found := m.streams[key]
		if !found {
			return fmt.Errorf("mesh has no attribute %q", key)
		}
		if stream.components != loc.components {
			return fmt.Errorf("attribute %q has %d components, shader expects %d", key, stream.components, loc.components)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if ok {
		m.deleteVertexArray(va)
	}
	va = &vertexArray{vao: m.gl.GenVertexArray(), version: m.version}
	m.gl.BindVertexArray(va.vao)
	for _, key := range keys {
		loc := layout[key]
		stream := m.streams[key]
		vbo := m.gl.GenBuffer()
		m.gl.BindBuffer(graphics.ArrayBuffer, vbo)
		m.gl.BufferFloat32(graphics.ArrayBuffer, stream.data, graphics.StaticDraw)
		m.gl.EnableVertexAttribArray(uint32(loc.location))
		m.gl.VertexAttribPointer(uint32(loc.location), int32(loc.components), graphics.Float, false, 0, 0)
		va.buffers = append(va.buffers, vbo)
	}
	ibo := m.gl.GenBuffer()
	m.gl.BindBuffer(graphics.ElementArrayBuffer, ibo)
	m.gl.BufferUint16(graphics.ElementArrayBuffer, m.indices, graphics.StaticDraw)
	va.buffers = append(va.buffers, ibo)
	m.gl.BindVertexArray(0)

	m.vaos[shaderKey] = va
	m.layouts[shaderKey] = layout
	return nil
}

// VAOID returns the vertex array built for shaderKey, 0 if none.
func (m *Mesh) VAOID(shaderKey uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if va, ok := m.vaos[shaderKey]; ok {
		return va.vao
	}
	return 0
}

func (m *Mesh) deleteVertexArray(va *vertexArray) {
	for _, b := range va.buffers {
		m.gl.DeleteBuffer(b)
	}
	m.gl.DeleteVertexArray(va.vao)
}

// Release deletes every vertex array and buffer the mesh created. Shader
// layouts are kept, so the next GenerateVAO rebuilds with them.
func (m *Mesh) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, va := range m.vaos {
		m.deleteVertexArray(va)
		delete(m.vaos, key)
	}
	m.vaoDirty = true
}
