// Package manifest describes a scene declaratively: the shader with its
// variable bindings, the material values it reads and the mesh it draws.
// Manifests are JSON, YAML or TOML, picked by file extension.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/richinsley/gogvr/objects"
)

// Binding ties a shader variable to a key of the material or mesh. Type is
// required for attributes (float, vec2, vec3, vec4) and uniforms (float,
// int, vec2, vec3, vec4, mat4) and ignored for textures.
type Binding struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Key  string `json:"key" yaml:"key" toml:"key"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

type Shader struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	// Builtin selects one of the programs in shader.BuiltinNames instead of
	// Vertex/Fragment. Its standard bindings are added before the ones below.
	Builtin string `json:"builtin,omitempty" yaml:"builtin,omitempty" toml:"builtin,omitempty"`

	Vertex       string `json:"vertex,omitempty" yaml:"vertex,omitempty" toml:"vertex,omitempty"`
	VertexFile   string `json:"vertex_file,omitempty" yaml:"vertex_file,omitempty" toml:"vertex_file,omitempty"`
	Fragment     string `json:"fragment,omitempty" yaml:"fragment,omitempty" toml:"fragment,omitempty"`
	FragmentFile string `json:"fragment_file,omitempty" yaml:"fragment_file,omitempty" toml:"fragment_file,omitempty"`

	// Translate runs the sources through the shader translator. The sources
	// are then written as WebGL2 GLSL.
	Translate bool   `json:"translate,omitempty" yaml:"translate,omitempty" toml:"translate,omitempty"`
	Dialect   string `json:"dialect,omitempty" yaml:"dialect,omitempty" toml:"dialect,omitempty"`

	Textures   []Binding `json:"textures,omitempty" yaml:"textures,omitempty" toml:"textures,omitempty"`
	Attributes []Binding `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Uniforms   []Binding `json:"uniforms,omitempty" yaml:"uniforms,omitempty" toml:"uniforms,omitempty"`
}

// Texture is an image file, or six cube map faces in +X -X +Y -Y +Z -Z
// order.
type Texture struct {
	Path    string                    `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Faces   []string                  `json:"faces,omitempty" yaml:"faces,omitempty" toml:"faces,omitempty"`
	Sampler objects.TextureParameters `json:"sampler" yaml:"sampler" toml:"sampler"`
}

type Material struct {
	Floats   map[string]float32     `json:"floats,omitempty" yaml:"floats,omitempty" toml:"floats,omitempty"`
	Ints     map[string]int32       `json:"ints,omitempty" yaml:"ints,omitempty" toml:"ints,omitempty"`
	Vec2     map[string][2]float32  `json:"vec2,omitempty" yaml:"vec2,omitempty" toml:"vec2,omitempty"`
	Vec3     map[string][3]float32  `json:"vec3,omitempty" yaml:"vec3,omitempty" toml:"vec3,omitempty"`
	Vec4     map[string][4]float32  `json:"vec4,omitempty" yaml:"vec4,omitempty" toml:"vec4,omitempty"`
	Mat4     map[string][16]float32 `json:"mat4,omitempty" yaml:"mat4,omitempty" toml:"mat4,omitempty"`
	Textures map[string]Texture     `json:"textures,omitempty" yaml:"textures,omitempty" toml:"textures,omitempty"`
}

type Manifest struct {
	Shader   Shader   `json:"shader" yaml:"shader" toml:"shader"`
	Material Material `json:"material" yaml:"material" toml:"material"`
	// Mesh is "quad" (the default) or "cube".
	Mesh     string     `json:"mesh,omitempty" yaml:"mesh,omitempty" toml:"mesh,omitempty"`
	Position [3]float32 `json:"position" yaml:"position" toml:"position"`

	// Dir resolves relative file names; Load sets it to the manifest's
	// directory.
	Dir string `json:"-" yaml:"-" toml:"-"`
}

var attributeTypes = map[string]bool{"float": true, "vec2": true, "vec3": true, "vec4": true}

var uniformTypes = map[string]bool{"float": true, "int": true, "vec2": true, "vec3": true, "vec4": true, "mat4": true}

// FormatFromPath maps a file extension to a Parse format.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".toml":
		return "toml", nil
	default:
		return "", fmt.Errorf("unsupported manifest extension %q", ext)
	}
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes a manifest in the given format (json, yaml or toml) and
// validates it.
func Parse(data []byte, format string) (*Manifest, error) {
	m := &Manifest{}
	var err error
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(m)
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(m)
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(m)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s manifest: %w", format, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks binding types, shader sources and the mesh name.
func (m *Manifest) Validate() error {
	s := &m.Shader
	if s.Builtin == "" {
		if s.Vertex == "" && s.VertexFile == "" {
			return fmt.Errorf("shader: no vertex source")
		}
		if s.Fragment == "" && s.FragmentFile == "" {
			return fmt.Errorf("shader: no fragment source")
		}
	}
	for _, b := range s.Textures {
		if b.Name == "" || b.Key == "" {
			return fmt.Errorf("texture binding %q: name and key are required", b.Name)
		}
	}
	for _, b := range s.Attributes {
		if !attributeTypes[b.Type] {
			return fmt.Errorf("attribute %q: unknown type %q", b.Name, b.Type)
		}
	}
	for _, b := range s.Uniforms {
		if !uniformTypes[b.Type] {
			return fmt.Errorf("uniform %q: unknown type %q", b.Name, b.Type)
		}
	}
	for key, t := range m.Material.Textures {
		if t.Path == "" && len(t.Faces) == 0 {
			return fmt.Errorf("texture %q: path or faces is required", key)
		}
		if len(t.Faces) != 0 && len(t.Faces) != 6 {
			return fmt.Errorf("texture %q: a cube map needs 6 faces, got %d", key, len(t.Faces))
		}
	}
	switch m.Mesh {
	case "", MeshQuad, MeshCube:
	default:
		return fmt.Errorf("unknown mesh %q", m.Mesh)
	}
	return nil
}

func (m *Manifest) resolve(name string) string {
	if filepath.IsAbs(name) || m.Dir == "" {
		return name
	}
	return filepath.Join(m.Dir, name)
}
