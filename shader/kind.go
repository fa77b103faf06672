package shader

import "fmt"

// Kind selects one of the three binding collections of a CustomShader.
type Kind int

const (
	KindTexture Kind = iota
	KindAttribute
	KindUniform
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindAttribute:
		return "attribute"
	case KindUniform:
		return "uniform"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
