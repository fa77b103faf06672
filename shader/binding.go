package shader

import (
	"github.com/richinsley/gogvr/graphics"
)

// renderState is what a bind strategy sees during one Render call.
type renderState struct {
	gl       graphics.GL
	material graphics.Material
	mesh     graphics.Mesh
	unit     int
	maxUnits int
}

// bindFunc pushes the value for one binding at its resolved location.
type bindFunc func(location int32, rs *renderState) error

// binding associates a shader variable with a material or mesh key.
// location and resolved are written only by the resolve pass.
type binding struct {
	name     string
	key      string
	typeName string
	bind     bindFunc

	location int32
	resolved bool
}

func (b *binding) less(name, key string) bool {
	if b.name != name {
		return b.name < name
	}
	return b.key < key
}

// BindingInfo describes a registered binding.
type BindingInfo struct {
	Kind     Kind
	Name     string
	Key      string
	Type     string
	Location int32
	Resolved bool
}

func attributeFloat(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		rs.mesh.SetVertexAttribLocF(location, key)
		return nil
	}
}

func attributeVec2(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		rs.mesh.SetVertexAttribLocV2(location, key)
		return nil
	}
}

func attributeVec3(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		rs.mesh.SetVertexAttribLocV3(location, key)
		return nil
	}
}

func attributeVec4(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		rs.mesh.SetVertexAttribLocV4(location, key)
		return nil
	}
}

func uniformFloat(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		v, err := rs.material.GetFloat(key)
		if err != nil {
			return err
		}
		rs.gl.Uniform1f(location, v)
		return nil
	}
}

func uniformInt(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		v, err := rs.material.GetInt(key)
		if err != nil {
			return err
		}
		rs.gl.Uniform1i(location, v)
		return nil
	}
}

func uniformVec2(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		v, err := rs.material.GetVec2(key)
		if err != nil {
			return err
		}
		rs.gl.Uniform2f(location, v.X, v.Y)
		return nil
	}
}

func uniformVec3(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		v, err := rs.material.GetVec3(key)
		if err != nil {
			return err
		}
		rs.gl.Uniform3f(location, v.X, v.Y, v.Z)
		return nil
	}
}

func uniformVec4(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		v, err := rs.material.GetVec4(key)
		if err != nil {
			return err
		}
		rs.gl.Uniform4f(location, v.X, v.Y, v.Z, v.W)
		return nil
	}
}

func uniformMat4(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		m, err := rs.material.GetMat4(key)
		if err != nil {
			return err
		}
		rs.gl.UniformMatrix4fv(location, false, (*[16]float32)(&m))
		return nil
	}
}

// textureSampler binds the material texture to the next free unit and points
// the sampler uniform at it.
func textureSampler(key string) bindFunc {
	return func(location int32, rs *renderState) error {
		tex, err := rs.material.GetTexture(key)
		if err != nil {
			return err
		}
		unit, err := TextureUnit(rs.unit, rs.maxUnits)
		if err != nil {
			return err
		}
		rs.gl.ActiveTexture(unit)
		id := tex.ID()
		if id == 0 {
			return ErrTextureGone
		}
		rs.gl.BindTexture(tex.Target(), id)
		rs.gl.Uniform1i(location, int32(rs.unit))
		rs.unit++
		return nil
	}
}
