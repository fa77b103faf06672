package shader

import (
	"fmt"

	"github.com/richinsley/gogvr/graphics"
)

// minTextureUnits is the combined unit count OpenGL ES 2.0 guarantees, used
// when the driver answers the query with nothing useful.
const minTextureUnits = 8

// TextureUnit returns the GL enum of texture unit index. index must be in
// [0, maxUnits).
func TextureUnit(index, maxUnits int) (uint32, error) {
	if index < 0 || index >= maxUnits {
		return 0, fmt.Errorf("%w: unit %d, platform has %d", ErrTextureUnitsExhausted, index, maxUnits)
	}
	return graphics.Texture0 + uint32(index), nil
}
