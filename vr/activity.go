package vr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/richinsley/gogvr/graphics"
)

// ErrNotInVRMode is returned by DrawFrame before EnterVRMode.
var ErrNotInVRMode = errors.New("not in VR mode")

// DrawEyeFunc renders the scene for one eye into the bound framebuffer.
type DrawEyeFunc func(eye Eye) error

// ActivityOption configures an Activity.
type ActivityOption func(*Activity)

// WithHeadRotationProvider replaces the default static provider.
func WithHeadRotationProvider(p HeadRotationProvider) ActivityOption {
	return func(a *Activity) { a.head = p }
}

// WithSwapChainLength sets the number of framebuffers per eye. Default 3.
func WithSwapChainLength(n int) ActivityOption {
	return func(a *Activity) { a.swapChainLength = n }
}

// WithSensoredSceneUpdate is called once per camera rig, on the first frame
// the head provider reports live updates. It returns whether the scene
// accepted the update; a false result retries on the next frame.
func WithSensoredSceneUpdate(fn func() bool) ActivityOption {
	return func(a *Activity) { a.updateSensoredScene = fn }
}

// WithClock replaces time.Now as the frame time source.
func WithClock(now func() time.Time) ActivityOption {
	return func(a *Activity) { a.now = now }
}

// WithActivityLogger replaces slog.Default.
func WithActivityLogger(l *slog.Logger) ActivityOption {
	return func(a *Activity) { a.logger = l }
}

// Activity runs the stereo frame loop: for each eye it binds the eye's
// framebuffer, applies the predicted head pose to the rig, calls the draw
// callback and rotates the swap chain.
type Activity struct {
	gl              graphics.GL
	rig             *CameraRig
	head            HeadRotationProvider
	onDrawEye       DrawEyeFunc
	swapChainLength int
	now             func() time.Time
	logger          *slog.Logger

	updateSensoredScene  func() bool
	sensoredSceneUpdated bool

	framebuffers [EyeCount]*EyeFramebuffer
	inVRMode     bool
	frameIndex   int64
}

// NewActivity returns an activity drawing through onDrawEye.
func NewActivity(gl graphics.GL, rig *CameraRig, onDrawEye DrawEyeFunc, opts ...ActivityOption) *Activity {
	a := &Activity{
		gl:              gl,
		rig:             rig,
		onDrawEye:       onDrawEye,
		swapChainLength: 3,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.head == nil {
		a.head = NewStaticHeadRotation(IdentityOrientation())
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// EnterVRMode creates the per-eye framebuffers. It is a no-op when already in
// VR mode.
func (a *Activity) EnterVRMode(eyeWidth, eyeHeight int) error {
	if a.inVRMode {
		return nil
	}
	for eye := Left; eye < EyeCount; eye++ {
		fb := NewEyeFramebuffer(a.gl)
		if err := fb.Create(eyeWidth, eyeHeight, a.swapChainLength); err != nil {
			for prev := Left; prev < eye; prev++ {
				a.framebuffers[prev].Destroy()
				a.framebuffers[prev] = nil
			}
			return fmt.Errorf("failed to create %s eye framebuffer: %w", eye, err)
		}
		a.framebuffers[eye] = fb
	}
	a.inVRMode = true
	a.logger.Info("entered VR mode", "width", eyeWidth, "height", eyeHeight, "swapchain", a.swapChainLength)
	return nil
}

// InVRMode reports whether EnterVRMode succeeded and LeaveVRMode has not
// been called since.
func (a *Activity) InVRMode() bool { return a.inVRMode }

// SetCameraRig switches the rig driven by head tracking.
func (a *Activity) SetCameraRig(rig *CameraRig) {
	a.rig = rig
	a.sensoredSceneUpdated = false
}

func (a *Activity) CameraRig() *CameraRig { return a.rig }

func (a *Activity) HeadRotationProvider() HeadRotationProvider { return a.head }

// Framebuffer returns the swap chain of eye, nil outside VR mode.
func (a *Activity) Framebuffer(eye Eye) *EyeFramebuffer { return a.framebuffers[eye] }

// FrameIndex counts the frames drawn so far.
func (a *Activity) FrameIndex() int64 { return a.frameIndex }

// DrawFrame renders both eyes. Errors from the draw callback do not stop the
// other eye; they are joined and returned.
func (a *Activity) DrawFrame(ctx context.Context) error {
	if !a.inVRMode {
		return ErrNotInVRMode
	}
	a.frameIndex++
	frameTime := a.now()

	var errs []error
	for eye := Left; eye < EyeCount; eye++ {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		fb := a.framebuffers[eye]
		fb.Bind()

		if !a.sensoredSceneUpdated && a.updateSensoredScene != nil && a.head.ReceivingUpdates() {
			a.sensoredSceneUpdated = a.updateSensoredScene()
		}
		a.rig.SetHeadOrientation(a.head.Predict(frameTime, eye.PredictionOffset()))

		if err := a.onDrawEye(eye); err != nil {
			errs = append(errs, fmt.Errorf("%s eye: %w", eye, err))
		}

		fb.Resolve()
		fb.Advance()
	}
	UnbindFramebuffer(a.gl)
	return errors.Join(errs...)
}

// LeaveVRMode destroys the eye framebuffers.
func (a *Activity) LeaveVRMode() {
	if !a.inVRMode {
		a.logger.Warn("LeaveVRMode ignored, have not entered VR mode")
		return
	}
	for eye := Left; eye < EyeCount; eye++ {
		a.framebuffers[eye].Destroy()
		a.framebuffers[eye] = nil
	}
	a.inVRMode = false
}
