package graphics

// Context defines the interface for an OpenGL context that owns the
// default framebuffer the eyes are presented into.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// GetMouseInput returns the current mouse state: x, y, clickX, clickY.
	// A negative click position means the button is up.
	GetMouseInput() [4]float32
}
