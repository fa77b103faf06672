package objects

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/richinsley/gogvr/graphics"
)

// ErrRecycled is returned when a recycled texture is given new pixels.
var ErrRecycled = errors.New("texture has been recycled")

// TextureParameters describe the sampler state of an ImageTexture.
type TextureParameters struct {
	Wrap       string `json:"wrap" yaml:"wrap" toml:"wrap"`       // repeat, clamp or mirror
	Filter     string `json:"filter" yaml:"filter" toml:"filter"` // linear, nearest or mipmap
	Anisotropy int32  `json:"anisotropy" yaml:"anisotropy" toml:"anisotropy"`
	SRGB       bool   `json:"srgb" yaml:"srgb" toml:"srgb"`
	VFlip      bool   `json:"vflip" yaml:"vflip" toml:"vflip"`
}

// DefaultTextureParameters repeats and filters linearly.
func DefaultTextureParameters() TextureParameters {
	return TextureParameters{Wrap: "repeat", Filter: "linear"}
}

func getWrapMode(wrap string) int32 {
	switch wrap {
	case "clamp":
		return graphics.ClampToEdge
	case "mirror":
		return graphics.MirroredRepeat
	default:
		return graphics.Repeat
	}
}

func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case "mipmap":
		return graphics.LinearMipmapLinear, graphics.Linear
	case "nearest":
		return graphics.Nearest, graphics.Nearest
	default:
		return graphics.Linear, graphics.Linear
	}
}

// TextureOption configures an ImageTexture.
type TextureOption func(*ImageTexture)

// WithParameters sets the initial sampler state.
func WithParameters(p TextureParameters) TextureOption {
	return func(t *ImageTexture) {
		t.params = p
	}
}

// WithMaxDimension downscales images whose width or height exceeds n,
// keeping the aspect ratio.
func WithMaxDimension(n int) TextureOption {
	return func(t *ImageTexture) {
		t.maxDim = n
	}
}

// ImageTexture is a 2D or cube map texture built from decoded images. Pixel
// data is converted when it is attached and uploaded on the first ID call, so
// images can be attached from any goroutine.
type ImageTexture struct {
	gl     graphics.GL
	target uint32
	maxDim int

	mu       sync.Mutex
	params   TextureParameters
	pending  []*image.RGBA
	width    int
	height   int
	id       uint32
	ready    bool
	reparam  bool
	recycled bool
}

var _ graphics.Texture = (*ImageTexture)(nil)

// NewImageTexture returns a 2D texture. img may be nil; the texture then
// reports not ready until SetImage is called.
func NewImageTexture(gl graphics.GL, img image.Image, opts ...TextureOption) *ImageTexture {
	t := &ImageTexture{
		gl:     gl,
		target: graphics.Texture2D,
		params: DefaultTextureParameters(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if img != nil {
		t.attach([]*image.RGBA{toRGBA(img, t.maxDim, t.params.VFlip)})
	}
	return t
}

// NewCubeMapTexture returns a cube map from six faces ordered +X, -X, +Y,
// -Y, +Z, -Z.
func NewCubeMapTexture(gl graphics.GL, faces [6]image.Image, opts ...TextureOption) (*ImageTexture, error) {
	t := &ImageTexture{
		gl:     gl,
		target: graphics.TextureCubeMap,
		params: DefaultTextureParameters(),
	}
	for _, opt := range opts {
		opt(t)
	}

	converted := make([]*image.RGBA, len(faces))
	for i, img := range faces {
		if img == nil {
			return nil, fmt.Errorf("input image for cube map face %d is nil", i)
		}
		converted[i] = toRGBA(img, t.maxDim, t.params.VFlip)
		if i > 0 && converted[i].Bounds() != converted[0].Bounds() {
			return nil, fmt.Errorf("cube map face %d is %v, expected %v", i, converted[i].Bounds().Size(), converted[0].Bounds().Size())
		}
	}
	t.attach(converted)
	return t, nil
}

// SetImage replaces the pixels of a 2D texture. The new data is uploaded on
// the next ID call.
func (t *ImageTexture) SetImage(img image.Image) error {
	if img == nil {
		return errors.New("input image is nil")
	}
	if t.target != graphics.Texture2D {
		return errors.New("SetImage on a cube map texture")
	}
	t.mu.Lock()
	recycled := t.recycled
	flip := t.params.VFlip
	t.mu.Unlock()
	if recycled {
		return ErrRecycled
	}

	t.attach([]*image.RGBA{toRGBA(img, t.maxDim, flip)})
	return nil
}

func (t *ImageTexture) attach(faces []*image.RGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = faces
	t.width = faces[0].Rect.Dx()
	t.height = faces[0].Rect.Dy()
	t.ready = true
}

// IsReady reports whether pixel data has been attached.
func (t *ImageTexture) IsReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready && !t.recycled
}

func (t *ImageTexture) Target() uint32 { return t.target }

// Size returns the dimensions of the attached image.
func (t *ImageTexture) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Parameters returns the current sampler state.
func (t *ImageTexture) Parameters() TextureParameters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.params
}

// UpdateParameters changes the sampler state; it is applied on the next ID
// call.
func (t *ImageTexture) UpdateParameters(p TextureParameters) {
	t.mu.Lock()
	t.params = p
	t.reparam = true
	t.mu.Unlock()
}

// ID uploads any pending pixels or sampler state and returns the texture
// name. It returns 0 before an image is attached and after Recycle.
func (t *ImageTexture) ID() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.recycled || !t.ready {
		return 0
	}
	if t.id == 0 {
		t.id = t.gl.GenTexture()
		t.reparam = true
	}
	if t.pending == nil && !t.reparam {
		return t.id
	}

	t.gl.BindTexture(t.target, t.id)
	if t.pending != nil {
		t.upload()
	}
	if t.reparam {
		t.applyParameters()
	}
	if t.params.Filter == "mipmap" {
		t.gl.GenerateMipmap(t.target)
	}
	t.gl.BindTexture(t.target, 0)
	return t.id
}

func (t *ImageTexture) upload() {
	var internalFormat int32 = graphics.RGBA8
	if t.params.SRGB {
		internalFormat = graphics.SRGB8Alpha8
	}

	faceTarget := t.target
	if t.target == graphics.TextureCubeMap {
		faceTarget = graphics.TextureCubeMapPositiveX
	}
	for i, rgba := range t.pending {
		t.gl.TexImage2D(faceTarget+uint32(i), 0, internalFormat,
			int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()),
			graphics.RGBA, graphics.UnsignedByte, rgba.Pix)
	}
	t.pending = nil
}

func (t *ImageTexture) applyParameters() {
	wrap := getWrapMode(t.params.Wrap)
	t.gl.TexParameteri(t.target, graphics.TextureWrapS, wrap)
	t.gl.TexParameteri(t.target, graphics.TextureWrapT, wrap)
	if t.target == graphics.TextureCubeMap {
		t.gl.TexParameteri(t.target, graphics.TextureWrapR, wrap)
	}

	minFilter, magFilter := getFilterMode(t.params.Filter)
	t.gl.TexParameteri(t.target, graphics.TextureMinFilter, minFilter)
	t.gl.TexParameteri(t.target, graphics.TextureMagFilter, magFilter)

	if t.params.Anisotropy > 1 {
		t.gl.TexParameteri(t.target, graphics.TextureMaxAnisotropy, t.params.Anisotropy)
	}
	t.reparam = false
}

// Recycle deletes the GL texture. The texture is never ready again.
func (t *ImageTexture) Recycle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.recycled {
		return
	}
	if t.id != 0 {
		t.gl.DeleteTexture(t.id)
		t.id = 0
	}
	t.pending = nil
	t.recycled = true
	slog.Debug("texture recycled", "target", t.target)
}

// toRGBA converts img to tightly packed RGBA, downscaling when one side
// exceeds maxDim and flipping rows for GL's bottom-up layout.
func toRGBA(img image.Image, maxDim int, flip bool) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var rgba *image.RGBA
	if maxDim > 0 && (w > maxDim || h > maxDim) {
		nw, nh := maxDim, maxDim
		if w > h {
			nh = max(1, h*maxDim/w)
		} else {
			nw = max(1, w*maxDim/h)
		}
		rgba = image.NewRGBA(image.Rect(0, 0, nw, nh))
		xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, xdraw.Src, nil)
	} else {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	}

	if flip {
		rgba = vflip(rgba)
	}
	return rgba
}

// vflip vertically flips the provided RGBA image.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}
