package shader

import (
	"fmt"
	"sort"

	"github.com/richinsley/gogvr/graphics"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const unlitVertexShaderSourceGL = `#version 410 core
in vec3 a_position;
in vec2 a_tex_coord;
uniform mat4 u_mvp;
out vec2 v_tex_coord;
void main() {
    v_tex_coord = a_tex_coord;
    gl_Position = u_mvp * vec4(a_position, 1.0);
}
`

const unlitFragmentShaderSourceGL = `#version 410 core
in vec2 v_tex_coord;
uniform sampler2D u_texture;
uniform vec4 u_color;
out vec4 frag_color;
void main() {
    frag_color = texture(u_texture, v_tex_coord) * u_color;
}
`

// side-by-side stereo images: the left half goes to the left eye
const stereoFragmentShaderSourceGL = `#version 410 core
in vec2 v_tex_coord;
uniform sampler2D u_texture;
uniform vec4 u_color;
uniform int u_right;
out vec4 frag_color;
void main() {
    vec2 uv = vec2(v_tex_coord.x * 0.5 + float(u_right) * 0.5, v_tex_coord.y);
    frag_color = texture(u_texture, uv) * u_color;
}
`

const colorFragmentShaderSourceGL = `#version 410 core
uniform vec4 u_color;
out vec4 frag_color;
void main() {
    frag_color = u_color;
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const unlitVertexShaderSourceGLES = `#version 300 es
in vec3 a_position;
in vec2 a_tex_coord;
uniform mat4 u_mvp;
out vec2 v_tex_coord;
void main() {
    v_tex_coord = a_tex_coord;
    gl_Position = u_mvp * vec4(a_position, 1.0);
}
`

const unlitFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 v_tex_coord;
uniform sampler2D u_texture;
uniform vec4 u_color;
out vec4 frag_color;
void main() {
    frag_color = texture(u_texture, v_tex_coord) * u_color;
}
`

const stereoFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 v_tex_coord;
uniform sampler2D u_texture;
uniform vec4 u_color;
uniform int u_right;
out vec4 frag_color;
void main() {
    vec2 uv = vec2(v_tex_coord.x * 0.5 + float(u_right) * 0.5, v_tex_coord.y);
    frag_color = texture(u_texture, uv) * u_color;
}
`

const colorFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
uniform vec4 u_color;
out vec4 frag_color;
void main() {
    frag_color = u_color;
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Names of the built-in programs.
const (
	BuiltinUnlit  = "unlit"
	BuiltinStereo = "stereo"
	BuiltinColor  = "color"
)

type builtin struct {
	vertexGL, fragmentGL     string
	vertexGLES, fragmentGLES string
	textured                 bool
}

var builtins = map[string]builtin{
	BuiltinUnlit: {
		unlitVertexShaderSourceGL, unlitFragmentShaderSourceGL,
		unlitVertexShaderSourceGLES, unlitFragmentShaderSourceGLES, true,
	},
	BuiltinStereo: {
		unlitVertexShaderSourceGL, stereoFragmentShaderSourceGL,
		unlitVertexShaderSourceGLES, stereoFragmentShaderSourceGLES, true,
	},
	BuiltinColor: {
		unlitVertexShaderSourceGL, colorFragmentShaderSourceGL,
		unlitVertexShaderSourceGLES, colorFragmentShaderSourceGLES, false,
	},
}

// BuiltinNames lists the built-in programs in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinSource returns the vertex and fragment source of a built-in program.
// The GLES sources are also valid WebGL2 input for a translator.
func BuiltinSource(name string, isGLES bool) (vertex, fragment string, err error) {
	b, ok := builtins[name]
	if !ok {
		return "", "", fmt.Errorf("unknown built-in shader %q", name)
	}
	if isGLES {
		return b.vertexGLES, b.fragmentGLES, nil
	}
	return b.vertexGL, b.fragmentGL, nil
}

// NewBuiltin creates a built-in shader with its standard bindings:
// a_position and a_tex_coord from the mesh streams "position" and "uv",
// u_color from the material vec4 "diffuseColor" and, for textured programs,
// u_texture from the material texture "diffuseTexture".
func NewBuiltin(gl graphics.GL, name string, isGLES bool, opts ...Option) (*CustomShader, error) {
	vertex, fragment, err := BuiltinSource(name, isGLES)
	if err != nil {
		return nil, err
	}
	s := New(gl, vertex, fragment, append([]Option{WithName(name)}, opts...)...)

	if err := s.AddAttributeVec3Key("a_position", "position"); err != nil {
		return nil, err
	}
	if err := s.AddAttributeVec2Key("a_tex_coord", "uv"); err != nil {
		return nil, err
	}
	if err := s.AddUniformVec4Key("u_color", "diffuseColor"); err != nil {
		return nil, err
	}
	if builtins[name].textured {
		if err := s.AddTextureKey("u_texture", "diffuseTexture"); err != nil {
			return nil, err
		}
	}
	return s, nil
}
