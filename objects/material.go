package objects

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"cogentcore.org/core/math32"

	"github.com/richinsley/gogvr/graphics"
)

// ErrKeyNotFound is wrapped by every Material getter for an absent key.
var ErrKeyNotFound = errors.New("material key not found")

// Material is a keyed bag of textures and uniform values. It is safe for
// concurrent use: setup code may write values while the render goroutine
// reads them.
type Material struct {
	mu       sync.RWMutex
	textures map[string]graphics.Texture
	floats   map[string]float32
	ints     map[string]int32
	vec2s    map[string]math32.Vector2
	vec3s    map[string]math32.Vector3
	vec4s    map[string]math32.Vector4
	mat4s    map[string]math32.Matrix4
}

var _ graphics.Material = (*Material)(nil)

// MaterialOption sets an initial value on a new Material.
type MaterialOption func(*Material)

func WithTexture(key string, t graphics.Texture) MaterialOption {
	return func(m *Material) { m.textures[key] = t }
}

func WithFloat(key string, v float32) MaterialOption {
	return func(m *Material) { m.floats[key] = v }
}

func WithInt(key string, v int32) MaterialOption {
	return func(m *Material) { m.ints[key] = v }
}

func WithVec2(key string, v math32.Vector2) MaterialOption {
	return func(m *Material) { m.vec2s[key] = v }
}

func WithVec3(key string, v math32.Vector3) MaterialOption {
	return func(m *Material) { m.vec3s[key] = v }
}

func WithVec4(key string, v math32.Vector4) MaterialOption {
	return func(m *Material) { m.vec4s[key] = v }
}

func WithMat4(key string, v math32.Matrix4) MaterialOption {
	return func(m *Material) { m.mat4s[key] = v }
}

// NewMaterial returns an empty material with the given values applied.
func NewMaterial(opts ...MaterialOption) *Material {
	m := &Material{
		textures: make(map[string]graphics.Texture),
		floats:   make(map[string]float32),
		ints:     make(map[string]int32),
		vec2s:    make(map[string]math32.Vector2),
		vec3s:    make(map[string]math32.Vector3),
		vec4s:    make(map[string]math32.Vector4),
		mat4s:    make(map[string]math32.Matrix4),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Material) SetTexture(key string, t graphics.Texture) {
	m.mu.Lock()
	m.textures[key] = t
	m.mu.Unlock()
}

func (m *Material) SetFloat(key string, v float32) {
	m.mu.Lock()
	m.floats[key] = v
	m.mu.Unlock()
}

func (m *Material) SetInt(key string, v int32) {
	m.mu.Lock()
	m.ints[key] = v
	m.mu.Unlock()
}

func (m *Material) SetVec2(key string, v math32.Vector2) {
	m.mu.Lock()
	m.vec2s[key] = v
	m.mu.Unlock()
}

func (m *Material) SetVec3(key string, v math32.Vector3) {
	m.mu.Lock()
	m.vec3s[key] = v
	m.mu.Unlock()
}

func (m *Material) SetVec4(key string, v math32.Vector4) {
	m.mu.Lock()
	m.vec4s[key] = v
	m.mu.Unlock()
}

func (m *Material) SetMat4(key string, v math32.Matrix4) {
	m.mu.Lock()
	m.mat4s[key] = v
	m.mu.Unlock()
}

func lookup[T any](m *Material, values map[string]T, kind, key string) (T, error) {
	m.mu.RLock()
	v, ok := values[key]
	m.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrKeyNotFound, kind, key)
	}
	return v, nil
}

func (m *Material) GetTexture(key string) (graphics.Texture, error) {
	return lookup(m, m.textures, "texture", key)
}

// GetTextureNoError returns nil when key has no texture.
func (m *Material) GetTextureNoError(key string) graphics.Texture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.textures[key]
}

func (m *Material) GetFloat(key string) (float32, error) {
	return lookup(m, m.floats, "float", key)
}

func (m *Material) GetInt(key string) (int32, error) {
	return lookup(m, m.ints, "int", key)
}

func (m *Material) GetVec2(key string) (math32.Vector2, error) {
	return lookup(m, m.vec2s, "vec2", key)
}

func (m *Material) GetVec3(key string) (math32.Vector3, error) {
	return lookup(m, m.vec3s, "vec3", key)
}

func (m *Material) GetVec4(key string) (math32.Vector4, error) {
	return lookup(m, m.vec4s, "vec4", key)
}

func (m *Material) GetMat4(key string) (math32.Matrix4, error) {
	return lookup(m, m.mat4s, "mat4", key)
}

// TextureKeys returns the texture keys in sorted order.
func (m *Material) TextureKeys() []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.textures))
	for k := range m.textures {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Recycle recycles every texture that supports it.
func (m *Material) Recycle() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.textures {
		if r, ok := t.(interface{ Recycle() }); ok {
			r.Recycle()
		}
	}
}
