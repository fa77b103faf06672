package manifest

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"cogentcore.org/core/math32"

	"github.com/richinsley/gogvr/graphics"
	"github.com/richinsley/gogvr/objects"
	"github.com/richinsley/gogvr/shader"
	"github.com/richinsley/gogvr/translator"
	"github.com/richinsley/gogvr/vr"
)

// NewShader creates the shader described by the manifest and registers its
// bindings. opts are applied after the manifest's own name and translator.
func (m *Manifest) NewShader(gl graphics.GL, opts ...shader.Option) (*shader.CustomShader, error) {
	s := &m.Shader
	dialect, err := translator.ParseDialect(s.Dialect)
	if err != nil {
		return nil, err
	}

	var base []shader.Option
	if s.Name != "" {
		base = append(base, shader.WithName(s.Name))
	}
	if s.Translate {
		base = append(base, shader.WithTranslator(translator.New(dialect)))
	}
	opts = append(base, opts...)

	var cs *shader.CustomShader
	if s.Builtin != "" {
		// translated input is WebGL2, which the GLES sources already are
		isGLES := s.Translate || dialect == translator.ESSL
		cs, err = shader.NewBuiltin(gl, s.Builtin, isGLES, opts...)
		if err != nil {
			return nil, err
		}
	} else {
		vertex, err := m.source(s.Vertex, s.VertexFile)
		if err != nil {
			return nil, fmt.Errorf("vertex shader: %w", err)
		}
		fragment, err := m.source(s.Fragment, s.FragmentFile)
		if err != nil {
			return nil, fmt.Errorf("fragment shader: %w", err)
		}
		cs = shader.New(gl, vertex, fragment, opts...)
	}

	for _, b := range s.Textures {
		if err := cs.AddTextureKey(b.Name, b.Key); err != nil {
			return nil, fmt.Errorf("texture %q: %w", b.Name, err)
		}
	}
	for _, b := range s.Attributes {
		if err := addAttribute(cs, b); err != nil {
			return nil, err
		}
	}
	for _, b := range s.Uniforms {
		if err := addUniform(cs, b); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

func (m *Manifest) source(inline, file string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	data, err := os.ReadFile(m.resolve(file))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func addAttribute(cs *shader.CustomShader, b Binding) error {
	var err error
	switch b.Type {
	case "float":
		err = cs.AddAttributeFloatKey(b.Name, b.Key)
	case "vec2":
		err = cs.AddAttributeVec2Key(b.Name, b.Key)
	case "vec3":
		err = cs.AddAttributeVec3Key(b.Name, b.Key)
	case "vec4":
		err = cs.AddAttributeVec4Key(b.Name, b.Key)
	default:
		return fmt.Errorf("attribute %q: unknown type %q", b.Name, b.Type)
	}
	if err != nil {
		return fmt.Errorf("attribute %q: %w", b.Name, err)
	}
	return nil
}

func addUniform(cs *shader.CustomShader, b Binding) error {
	var err error
	switch b.Type {
	case "float":
		err = cs.AddUniformFloatKey(b.Name, b.Key)
	case "int":
		err = cs.AddUniformIntKey(b.Name, b.Key)
	case "vec2":
		err = cs.AddUniformVec2Key(b.Name, b.Key)
	case "vec3":
		err = cs.AddUniformVec3Key(b.Name, b.Key)
	case "vec4":
		err = cs.AddUniformVec4Key(b.Name, b.Key)
	case "mat4":
		err = cs.AddUniformMat4Key(b.Name, b.Key)
	default:
		return fmt.Errorf("uniform %q: unknown type %q", b.Name, b.Type)
	}
	if err != nil {
		return fmt.Errorf("uniform %q: %w", b.Name, err)
	}
	return nil
}

// NewMaterial builds the material values and decodes every texture image.
// PNG, JPEG, BMP and WebP files are supported.
func (m *Manifest) NewMaterial(gl graphics.GL, opts ...objects.TextureOption) (*objects.Material, error) {
	mat := objects.NewMaterial()
	src := &m.Material
	for k, v := range src.Floats {
		mat.SetFloat(k, v)
	}
	for k, v := range src.Ints {
		mat.SetInt(k, v)
	}
	for k, v := range src.Vec2 {
		mat.SetVec2(k, math32.Vec2(v[0], v[1]))
	}
	for k, v := range src.Vec3 {
		mat.SetVec3(k, math32.Vec3(v[0], v[1], v[2]))
	}
	for k, v := range src.Vec4 {
		mat.SetVec4(k, math32.Vec4(v[0], v[1], v[2], v[3]))
	}
	for k, v := range src.Mat4 {
		mat.SetMat4(k, math32.Matrix4(v))
	}

	for key, t := range src.Textures {
		texOpts := append([]objects.TextureOption{objects.WithParameters(samplerOrDefault(t.Sampler))}, opts...)
		if len(t.Faces) > 0 {
			var faces [6]image.Image
			for i, path := range t.Faces {
				img, err := m.decodeImage(path)
				if err != nil {
					mat.Recycle()
					return nil, fmt.Errorf("texture %q: %w", key, err)
				}
				faces[i] = img
			}
			tex, err := objects.NewCubeMapTexture(gl, faces, texOpts...)
			if err != nil {
				mat.Recycle()
				return nil, fmt.Errorf("texture %q: %w", key, err)
			}
			mat.SetTexture(key, tex)
			continue
		}
		img, err := m.decodeImage(t.Path)
		if err != nil {
			mat.Recycle()
			return nil, fmt.Errorf("texture %q: %w", key, err)
		}
		mat.SetTexture(key, objects.NewImageTexture(gl, img, texOpts...))
	}
	return mat, nil
}

func samplerOrDefault(p objects.TextureParameters) objects.TextureParameters {
	def := objects.DefaultTextureParameters()
	if p.Wrap == "" {
		p.Wrap = def.Wrap
	}
	if p.Filter == "" {
		p.Filter = def.Filter
	}
	return p
}

func (m *Manifest) decodeImage(name string) (image.Image, error) {
	f, err := os.Open(m.resolve(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return img, nil
}

// NewMesh generates the manifest's geometry.
func (m *Manifest) NewMesh(gl graphics.GL) (*objects.Mesh, error) {
	switch m.Mesh {
	case "", MeshQuad:
		return Quad(gl)
	case MeshCube:
		return Cube(gl)
	default:
		return nil, fmt.Errorf("unknown mesh %q", m.Mesh)
	}
}

// Model places the mesh at the manifest's position.
func (m *Manifest) Model() math32.Matrix4 {
	return vr.Translation(m.Position[0], m.Position[1], m.Position[2])
}
