// Package program compiles and links GL shader programs and answers location
// queries against them.
package program

import (
	"fmt"

	"github.com/richinsley/gogvr/graphics"
)

// Shader stages, as reported by CompileError and passed to a Translator.
const (
	StageVertex   = "vertex"
	StageFragment = "fragment"
	StageLink     = "link"
)

// CompileError carries the driver's info log for a failed compile or link.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	if e.Stage == StageLink {
		return fmt.Sprintf("failed to link program: %s", e.Log)
	}
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// Translator rewrites shader source into the dialect of the current context.
// The returned map takes a source identifier to the name it has in the
// translated code; identifiers missing from the map keep their name.
type Translator interface {
	Translate(source, stage string) (code string, names map[string]string, err error)
}

// Option configures New.
type Option func(*Program)

// WithTranslator runs both stages through t before compiling.
func WithTranslator(t Translator) Option {
	return func(p *Program) {
		p.translator = t
	}
}

// Program is a linked GL program.
type Program struct {
	gl         graphics.GL
	id         uint32
	translator Translator
	names      map[string]string
}

// New compiles the vertex and fragment sources and links them.
func New(gl graphics.GL, vertexSource, fragmentSource string, opts ...Option) (*Program, error) {
	p := &Program{gl: gl}
	for _, opt := range opts {
		opt(p)
	}

	if p.translator != nil {
		p.names = make(map[string]string)
		var err error
		vertexSource, err = p.translate(vertexSource, StageVertex)
		if err != nil {
			return nil, err
		}
		fragmentSource, err = p.translate(fragmentSource, StageFragment)
		if err != nil {
			return nil, err
		}
	}

	vertexShader, err := compileShader(gl, vertexSource, graphics.VertexShader, StageVertex)
	if err != nil {
		return nil, err
	}
	fragmentShader, err := compileShader(gl, fragmentSource, graphics.FragmentShader, StageFragment)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return nil, err
	}

	id := gl.CreateProgram()
	gl.AttachShader(id, vertexShader)
	gl.AttachShader(id, fragmentShader)
	gl.LinkProgram(id)

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	if gl.GetProgramiv(id, graphics.LinkStatus) == graphics.False {
		logText := gl.GetProgramInfoLog(id)
		gl.DeleteProgram(id)
		return nil, &CompileError{Stage: StageLink, Log: logText}
	}

	p.id = id
	return p, nil
}

func (p *Program) translate(source, stage string) (string, error) {
	code, names, err := p.translator.Translate(source, stage)
	if err != nil {
		return "", fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	for from, to := range names {
		p.names[from] = to
	}
	return code, nil
}

func compileShader(gl graphics.GL, source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)

	if gl.GetShaderiv(shader, graphics.CompileStatus) == graphics.False {
		logText := gl.GetShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: logText}
	}
	return shader, nil
}

// ID returns the GL program name, 0 after Delete.
func (p *Program) ID() uint32 { return p.id }

// MappedName returns the identifier name has in the compiled code.
func (p *Program) MappedName(name string) string {
	if mapped, ok := p.names[name]; ok {
		return mapped
	}
	return name
}

// UniformLocation looks up a uniform by its source name.
func (p *Program) UniformLocation(name string) int32 {
	return p.gl.GetUniformLocation(p.id, p.MappedName(name))
}

// AttribLocation looks up a vertex attribute by its source name.
func (p *Program) AttribLocation(name string) int32 {
	return p.gl.GetAttribLocation(p.id, p.MappedName(name))
}

// Use makes the program current.
func (p *Program) Use() { p.gl.UseProgram(p.id) }

// Delete releases the GL program. It is safe to call more than once.
func (p *Program) Delete() {
	if p.id == 0 {
		return
	}
	p.gl.DeleteProgram(p.id)
	p.id = 0
}
