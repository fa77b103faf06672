// Package shader implements CustomShader, a GL program whose inputs are
// registered at run time as (shader variable, data key) pairs and bound from
// a material and mesh on every draw.
package shader

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/math32"

	"github.com/richinsley/gogvr/graphics"
	"github.com/richinsley/gogvr/program"
)

// Built-in uniforms set on every draw when the program uses them.
const (
	MVPUniform   = "u_mvp"
	RightUniform = "u_right"
)

// Option configures a CustomShader.
type Option func(*CustomShader)

// WithName labels the shader in log output.
func WithName(name string) Option {
	return func(s *CustomShader) {
		s.name = name
	}
}

// WithTranslator translates both sources before the program is compiled.
func WithTranslator(t program.Translator) Option {
	return func(s *CustomShader) {
		s.translator = t
	}
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *CustomShader) {
		s.logger = l
	}
}

// CustomShader owns a GL program compiled on first use and three binding
// collections. Add methods may be called from any goroutine. Render,
// InitializeOnDemand and Destroy must be called from the goroutine that owns
// the GL context.
type CustomShader struct {
	gl         graphics.GL
	name       string
	translator program.Translator
	logger     *slog.Logger

	vertexSource   string
	fragmentSource string
	program        *program.Program
	initErr        error
	destroyed      bool
	uMVP           int32
	uRight         int32
	maxUnits       int

	textures   registry
	attributes registry
	uniforms   registry

	// wired holds, per mesh, the attribute generation last wired into it.
	wired map[graphics.Mesh]uint64

	rs renderState
}

// New returns a shader for the given sources. Nothing is compiled until the
// first Render or InitializeOnDemand.
func New(gl graphics.GL, vertexSource, fragmentSource string, opts ...Option) *CustomShader {
	s := &CustomShader{
		gl:             gl,
		name:           "custom",
		vertexSource:   vertexSource,
		fragmentSource: fragmentSource,
		uMVP:           -1,
		uRight:         -1,
		textures:       registry{kind: KindTexture},
		attributes:     registry{kind: KindAttribute},
		uniforms:       registry{kind: KindUniform},
		wired:          make(map[graphics.Mesh]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("shader", s.name)
	return s
}

// Name returns the label set with WithName.
func (s *CustomShader) Name() string { return s.name }

func (s *CustomShader) register(r *registry, variableName, key, typeName string, bind bindFunc) error {
	if variableName == "" {
		return ErrEmptyName
	}
	if key == "" {
		return fmt.Errorf("%w: variable %q", ErrEmptyKey, variableName)
	}
	if !r.add(variableName, key, typeName, bind) {
		s.logger.Debug("duplicate binding ignored", "kind", r.kind, "name", variableName, "key", key)
	}
	return nil
}

// AddTextureKey samples the material texture key through the sampler
// uniform variableName.
func (s *CustomShader) AddTextureKey(variableName, key string) error {
	return s.register(&s.textures, variableName, key, "sampler", textureSampler(key))
}

// AddAttributeFloatKey feeds the one-component mesh stream key into the
// attribute variableName.
func (s *CustomShader) AddAttributeFloatKey(variableName, key string) error {
	return s.register(&s.attributes, variableName, key, "float", attributeFloat(key))
}

// AddAttributeVec2Key feeds the two-component stream key into variableName.
func (s *CustomShader) AddAttributeVec2Key(variableName, key string) error {
	return s.register(&s.attributes, variableName, key, "vec2", attributeVec2(key))
}

// AddAttributeVec3Key feeds the three-component stream key into variableName.
func (s *CustomShader) AddAttributeVec3Key(variableName, key string) error {
	return s.register(&s.attributes, variableName, key, "vec3", attributeVec3(key))
}

// AddAttributeVec4Key feeds the four-component stream key into variableName.
func (s *CustomShader) AddAttributeVec4Key(variableName, key string) error {
	return s.register(&s.attributes, variableName, key, "vec4", attributeVec4(key))
}

// AddUniformFloatKey sets the uniform variableName from the material float
// key on every draw.
func (s *CustomShader) AddUniformFloatKey(variableName, key string) error {
	return s.register(&s.uniforms, variableName, key, "float", uniformFloat(key))
}

// AddUniformIntKey sets variableName from the material int key.
func (s *CustomShader) AddUniformIntKey(variableName, key string) error {
	return s.register(&s.uniforms, variableName, key, "int", uniformInt(key))
}

// AddUniformVec2Key sets variableName from the material vec2 key.
func (s *CustomShader) AddUniformVec2Key(variableName, key string) error {
	return s.register(&s.uniforms, variableName, key, "vec2", uniformVec2(key))
}

// AddUniformVec3Key sets variableName from the material vec3 key.
func (s *CustomShader) AddUniformVec3Key(variableName, key string) error {
	return s.register(&s.uniforms, variableName, key, "vec3", uniformVec3(key))
}

// AddUniformVec4Key sets variableName from the material vec4 key.
func (s *CustomShader) AddUniformVec4Key(variableName, key string) error {
	return s.register(&s.uniforms, variableName, key, "vec4", uniformVec4(key))
}

// AddUniformMat4Key sets variableName from the material mat4 key.
func (s *CustomShader) AddUniformMat4Key(variableName, key string) error {
	return s.register(&s.uniforms, variableName, key, "mat4", uniformMat4(key))
}

func (s *CustomShader) collection(kind Kind) *registry {
	switch kind {
	case KindTexture:
		return &s.textures
	case KindAttribute:
		return &s.attributes
	case KindUniform:
		return &s.uniforms
	}
	return nil
}

// Bindings returns the registered bindings of kind ordered by variable name,
// then key.
func (s *CustomShader) Bindings(kind Kind) []BindingInfo {
	r := s.collection(kind)
	if r == nil {
		return nil
	}
	return r.infos()
}

// InitializeOnDemand compiles and links the program if that has not happened
// yet. The sources are released afterwards whether or not compilation
// succeeded; a failure is remembered and returned by every later call.
func (s *CustomShader) InitializeOnDemand() error {
	if s.destroyed {
		return ErrDestroyed
	}
	if s.program != nil {
		return nil
	}
	if s.initErr != nil {
		return s.initErr
	}

	var opts []program.Option
	if s.translator != nil {
		opts = append(opts, program.WithTranslator(s.translator))
	}
	p, err := program.New(s.gl, s.vertexSource, s.fragmentSource, opts...)
	s.vertexSource, s.fragmentSource = "", ""
	if err != nil {
		s.initErr = fmt.Errorf("shader %q: %w", s.name, err)
		s.logger.Error("program creation failed", "error", err)
		return s.initErr
	}
	s.program = p

	s.uMVP = p.UniformLocation(MVPUniform)
	s.uRight = p.UniformLocation(RightUniform)

	s.maxUnits = int(s.gl.GetIntegerv(graphics.MaxCombinedTextureImageUnits))
	if s.maxUnits <= 0 {
		s.logger.Warn("texture unit query failed, assuming minimum", "units", minTextureUnits)
		s.maxUnits = minTextureUnits
	}
	return nil
}

// ProgramID returns the GL program, 0 before initialization and after
// Destroy.
func (s *CustomShader) ProgramID() uint32 {
	if s.program == nil {
		return 0
	}
	return s.program.ID()
}

// MaxTextureUnits returns the unit count queried at initialization.
func (s *CustomShader) MaxTextureUnits() int { return s.maxUnits }

func (s *CustomShader) resolveAll() {
	locateUniform := s.program.UniformLocation
	if n := s.textures.resolve(locateUniform); n > 0 {
		s.logger.Debug("resolved bindings", "kind", KindTexture, "count", n)
	}
	if n := s.attributes.resolve(s.program.AttribLocation); n > 0 {
		s.logger.Debug("resolved bindings", "kind", KindAttribute, "count", n)
	}
	if n := s.uniforms.resolve(locateUniform); n > 0 {
		s.logger.Debug("resolved bindings", "kind", KindUniform, "count", n)
	}
}

// Render draws renderData with material. Bindings registered while Render
// runs take effect on the next call. Attribute locations are wired into the
// mesh when it is dirty, when this shader has not drawn it yet, or when new
// attributes were registered since the last wiring.
//
// If a bound texture is missing or not ready Render returns
// ErrTextureNotReady without issuing any GL call, and the material is simply
// not drawn this frame. A uniform whose key is missing from the material is
// skipped. GL errors raised by the draw are logged, not returned.
func (s *CustomShader) Render(mvp math32.Matrix4, renderData graphics.RenderData, material graphics.Material, rightEye bool) error {
	if err := s.InitializeOnDemand(); err != nil {
		return err
	}
	s.resolveAll()

	textures := s.textures.active()
	units := 0
	for _, b := range textures {
		tex := material.GetTextureNoError(b.key)
		if tex == nil || !tex.IsReady() {
			return fmt.Errorf("%w: %s %q", ErrTextureNotReady, b.name, b.key)
		}
		if b.location != -1 {
			units++
		}
	}
	if units > s.maxUnits {
		return fmt.Errorf("%w: %d textures bound, platform has %d units", ErrTextureUnitsExhausted, units, s.maxUnits)
	}

	if renderData == nil {
		return ErrNoMesh
	}
	mesh := renderData.Mesh()
	if mesh == nil {
		return ErrNoMesh
	}

	s.rs = renderState{gl: s.gl, material: material, mesh: mesh, maxUnits: s.maxUnits}
	defer func() { s.rs = renderState{} }()

	s.program.Use()

	gen := s.attributes.generation()
	wiredGen, wired := s.wired[mesh]
	rewire := !wired || wiredGen != gen || mesh.IsVaoDirty()
	if rewire {
		for _, b := range s.attributes.active() {
			if b.location == -1 {
				continue
			}
			_ = b.bind(b.location, &s.rs)
		}
		mesh.UnSetVaoDirty()
	}

	shaderKey := s.program.ID()
	if err := mesh.GenerateVAO(shaderKey); err != nil {
		delete(s.wired, mesh)
		return fmt.Errorf("shader %q: failed to generate vertex array: %w", s.name, err)
	}
	if rewire {
		s.wired[mesh] = gen
	}
	s.gl.BindVertexArray(mesh.VAOID(shaderKey))

	for _, b := range s.uniforms.active() {
		if b.location == -1 {
			continue
		}
		if err := b.bind(b.location, &s.rs); err != nil {
			s.logger.Debug("uniform skipped", "name", b.name, "key", b.key, "error", err)
		}
	}

	if s.uMVP != -1 {
		s.gl.UniformMatrix4fv(s.uMVP, false, (*[16]float32)(&mvp))
	}
	if s.uRight != -1 {
		var right int32
		if rightEye {
			right = 1
		}
		s.gl.Uniform1i(s.uRight, right)
	}

	for _, b := range textures {
		if b.location == -1 {
			continue
		}
		if err := b.bind(b.location, &s.rs); err != nil {
			s.logger.Warn("texture skipped", "name", b.name, "key", b.key, "error", err)
		}
	}

	indices := mesh.Indices()
	s.gl.DrawElements(renderData.DrawMode(), int32(len(indices)), graphics.UnsignedShort, 0)
	s.gl.BindVertexArray(0)

	if code := s.gl.GetError(); code != graphics.NoError {
		s.logger.Warn("GL error after draw", "code", graphics.ErrorString(code))
	}
	return nil
}

// Destroy deletes the program. Later Render calls return ErrDestroyed.
func (s *CustomShader) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	clear(s.wired)
	if s.program != nil {
		s.program.Delete()
		s.program = nil
	}
	s.vertexSource, s.fragmentSource = "", ""
}
