package graphics

// OpenGL enum values shared by the desktop and ES profiles. They are declared
// here so that packages driving a GL never import a specific binding.
const (
	False = 0
	True  = 1

	NoError                     = 0x0000
	InvalidEnum                 = 0x0500
	InvalidValue                = 0x0501
	InvalidOperation            = 0x0502
	OutOfMemory                 = 0x0505
	InvalidFramebufferOperation = 0x0506

	Points        = 0x0000
	Lines         = 0x0001
	LineLoop      = 0x0002
	LineStrip     = 0x0003
	Triangles     = 0x0004
	TriangleStrip = 0x0005
	TriangleFan   = 0x0006

	UnsignedByte  = 0x1401
	UnsignedShort = 0x1403
	Float         = 0x1406

	VertexShader   = 0x8B31
	FragmentShader = 0x8B30
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	InfoLogLength  = 0x8B84

	Texture2D      = 0x0DE1
	TextureCubeMap = 0x8513
	Texture0       = 0x84C0

	MaxCombinedTextureImageUnits = 0x8B4D
	MaxTextureImageUnits         = 0x8872

	TextureMagFilter        = 0x2800
	TextureMinFilter        = 0x2801
	TextureWrapS            = 0x2802
	TextureWrapT            = 0x2803
	TextureWrapR            = 0x8072
	TextureMaxAnisotropy    = 0x84FE
	TextureCubeMapPositiveX = 0x8515
	Nearest                 = 0x2600
	Linear                  = 0x2601
	LinearMipmapLinear      = 0x2703
	Repeat                  = 0x2901
	ClampToEdge             = 0x812F
	MirroredRepeat          = 0x8370
	RGBA                    = 0x1908
	RGBA8                   = 0x8058
	SRGB8Alpha8             = 0x8C43
	DepthComponent24        = 0x81A6

	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4
	DynamicDraw        = 0x88E8

	Framebuffer         = 0x8D40
	ReadFramebuffer     = 0x8CA8
	DrawFramebuffer     = 0x8CA9
	Renderbuffer        = 0x8D41
	ColorAttachment0    = 0x8CE0
	DepthAttachment     = 0x8D00
	FramebufferComplete = 0x8CD5

	FramebufferIncompleteAttachment        = 0x8CD6
	FramebufferIncompleteMissingAttachment = 0x8CD7
	FramebufferUnsupported                 = 0x8CDD
	FramebufferIncompleteMultisample       = 0x8D56

	ColorBufferBit = 0x00004000
	DepthBufferBit = 0x00000100

	DepthTest   = 0x0B71
	ScissorTest = 0x0C11
	CullFace    = 0x0B44
)

// ErrorString returns the symbolic name of a GL error code.
func ErrorString(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "unknown GL error"
	}
}

// FramebufferStatusString returns the symbolic name of a framebuffer
// completeness status.
func FramebufferStatusString(status uint32) string {
	switch status {
	case FramebufferComplete:
		return "GL_FRAMEBUFFER_COMPLETE"
	case FramebufferIncompleteAttachment:
		return "GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT"
	case FramebufferIncompleteMissingAttachment:
		return "GL_FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT"
	case FramebufferUnsupported:
		return "GL_FRAMEBUFFER_UNSUPPORTED"
	case FramebufferIncompleteMultisample:
		return "GL_FRAMEBUFFER_INCOMPLETE_MULTISAMPLE"
	default:
		return "unknown framebuffer status"
	}
}
