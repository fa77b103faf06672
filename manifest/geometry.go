package manifest

import (
	"github.com/richinsley/gogvr/graphics"
	"github.com/richinsley/gogvr/objects"
)

const (
	MeshQuad = "quad"
	MeshCube = "cube"
)

// Quad is a unit square in the XY plane facing +Z, with "position" (vec3),
// "normal" (vec3) and "uv" (vec2) streams.
func Quad(gl graphics.GL) (*objects.Mesh, error) {
	positions := []float32{
		-0.5, -0.5, 0,
		0.5, -0.5, 0,
		0.5, 0.5, 0,
		-0.5, 0.5, 0,
	}
	normals := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}
	uvs := []float32{0, 0, 1, 0, 1, 1, 0, 1}
	return buildMesh(gl, positions, normals, uvs, []uint16{0, 1, 2, 0, 2, 3})
}

// cubeFaces holds the normal, right and up axes of each face.
var cubeFaces = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Cube is a unit cube centred on the origin with the same streams as Quad.
// Each face has its own four vertices so normals and uvs stay per face.
func Cube(gl graphics.GL) (*objects.Mesh, error) {
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	var positions, normals, uvs []float32
	var indices []uint16
	for f, axes := range cubeFaces {
		n, right, up := axes[0], axes[1], axes[2]
		for _, c := range corners {
			for i := 0; i < 3; i++ {
				positions = append(positions, 0.5*(n[i]+c[0]*right[i]+c[1]*up[i]))
			}
			normals = append(normals, n[0], n[1], n[2])
			uvs = append(uvs, (c[0]+1)/2, (c[1]+1)/2)
		}
		base := uint16(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return buildMesh(gl, positions, normals, uvs, indices)
}

func buildMesh(gl graphics.GL, positions, normals, uvs []float32, indices []uint16) (*objects.Mesh, error) {
	mesh := objects.NewMesh(gl)
	if err := mesh.SetAttribute("position", 3, positions); err != nil {
		return nil, err
	}
	if err := mesh.SetAttribute("normal", 3, normals); err != nil {
		return nil, err
	}
	if err := mesh.SetAttribute("uv", 2, uvs); err != nil {
		return nil, err
	}
	mesh.SetIndices(indices)
	return mesh, nil
}
